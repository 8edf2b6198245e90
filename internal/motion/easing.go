package motion

import "math"

// Easing maps linear progress in [0,1] to eased progress.
type Easing func(t float64) float64

// Linear is the identity curve.
var Linear Easing = func(t float64) float64 { return t }

// Ease is the standard cubic-bezier(0.42, 0, 1, 1) curve.
var Ease = CubicBezier(0.42, 0, 1, 1)

// In runs e forwards.
func In(e Easing) Easing {
	return e
}

// Out runs e backwards.
func Out(e Easing) Easing {
	return func(t float64) float64 {
		return 1 - e(1-t)
	}
}

// InOut makes e symmetrical: In for the first half, Out for the second.
func InOut(e Easing) Easing {
	return func(t float64) float64 {
		if t < 0.5 {
			return e(t*2) / 2
		}
		return 1 - e((1-t)*2)/2
	}
}

// CubicBezier returns the timing curve with control points (x1,y1) and (x2,y2).
// The end points are fixed at (0,0) and (1,1); x1 and x2 are clamped to [0,1].
func CubicBezier(x1, y1, x2, y2 float64) Easing {
	x1 = clamp01(x1)
	x2 = clamp01(x2)

	// Polynomial coefficients for B(s) = ((a*s + b)*s + c)*s.
	cx := 3 * x1
	bx := 3*(x2-x1) - cx
	ax := 1 - cx - bx
	cy := 3 * y1
	by := 3*(y2-y1) - cy
	ay := 1 - cy - by

	sampleX := func(s float64) float64 { return ((ax*s+bx)*s + cx) * s }
	sampleY := func(s float64) float64 { return ((ay*s+by)*s + cy) * s }
	slopeX := func(s float64) float64 { return (3*ax*s+2*bx)*s + cx }

	solve := func(x float64) float64 {
		const epsilon = 1e-7

		s := x
		for i := 0; i < 8; i++ {
			err := sampleX(s) - x
			if math.Abs(err) < epsilon {
				return s
			}
			d := slopeX(s)
			if math.Abs(d) < 1e-6 {
				break
			}
			s -= err / d
		}

		// Newton stalled; bisect.
		lo, hi := 0.0, 1.0
		s = x
		for lo < hi {
			v := sampleX(s)
			if math.Abs(v-x) < epsilon {
				return s
			}
			if x > v {
				lo = s
			} else {
				hi = s
			}
			next := (lo + hi) / 2
			if next == s {
				break
			}
			s = next
		}
		return s
	}

	return func(t float64) float64 {
		if t <= 0 {
			return 0
		}
		if t >= 1 {
			return 1
		}
		return sampleY(solve(t))
	}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
