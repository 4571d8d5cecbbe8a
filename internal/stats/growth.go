package stats

import "math"

// GrowthRate computes (b - a) / |a|. When a is zero the rate is
// undefined: safe mode returns nil, otherwise the result is signed
// infinity matching the sign of b (non-negative b gives +Inf).
func GrowthRate(a, b float64, safe bool) *float64 {
	if a == 0.0 {
		if safe {
			return nil
		}
		sign := 1.0
		if b < 0 {
			sign = -1.0
		}
		inf := math.Copysign(math.Inf(1), sign)
		return &inf
	}

	g := (b - a) / math.Abs(a)
	return &g
}
