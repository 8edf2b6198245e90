package motion

// Value is an animated scalar such as an opacity. It is owned by the same
// goroutine as the scheduler that drives it.
type Value struct {
	v float64
}

// NewValue creates a value starting at v.
func NewValue(v float64) *Value {
	return &Value{v: v}
}

// Get returns the current value.
func (x *Value) Get() float64 {
	return x.v
}

// Set jumps to v without animating.
func (x *Value) Set(v float64) {
	x.v = v
}
