package widgets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounter(t *testing.T) {
	var c Counter
	assert.Equal(t, 0, c.Value)

	c.Increment()
	c.Increment()
	assert.Equal(t, 2, c.Value)

	c.Decrement()
	c.Decrement()
	c.Decrement()
	assert.Equal(t, -1, c.Value)
}

func TestColorSwitcher_DefaultsToWhite(t *testing.T) {
	var s ColorSwitcher
	assert.Equal(t, "white", s.Current().Name)
}

func TestColorSwitcher_Set(t *testing.T) {
	var s ColorSwitcher

	require.NoError(t, s.Set("lightgreen"))
	assert.Equal(t, "#90EE90", s.Current().Hex)

	err := s.Set("magenta")
	assert.ErrorIs(t, err, ErrUnknownColor)
	assert.Equal(t, "lightgreen", s.Current().Name, "failed Set keeps the selection")

	assert.ErrorIs(t, s.SetIndex(3), ErrUnknownColor)
	require.NoError(t, s.SetIndex(1))
	assert.Equal(t, "lightblue", s.Current().Name)
}

func TestColorSwitcher_NextCycles(t *testing.T) {
	var s ColorSwitcher
	var names []string
	for i := 0; i < 4; i++ {
		names = append(names, s.Next().Name)
	}
	assert.Equal(t, []string{"lightblue", "lightgreen", "white", "lightblue"}, names)
}
