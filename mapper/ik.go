package mapper

import "math"

// L1, L2 are the two link lengths of the fixed geometric IK model
// (spec.md §4.5): a typical two-link cobot-arm approximation.
const (
	L1 = 0.4
	L2 = 0.4
)

// solveIK is the deterministic geometric inverse-kinematics solver for the
// 7-DOF manipulator. Joints q3, q5, q7 are fixed at zero; q6 compensates so
// the flange stays level. All outputs are rounded to 6 decimal places,
// independent of the kernel's configured float precision (spec.md §4.5
// fixes 6 decimals literally).
func solveIK(x, y, z float64) []float64 {
	q1 := math.Atan2(y, x)

	r := math.Sqrt(x*x + y*y)
	h := z - 0.2
	d := math.Sqrt(r*r + h*h)

	cosQ4 := (d*d - L1*L1 - L2*L2) / (2 * L1 * L2)
	cosQ4 = clamp(cosQ4, -1.0, 1.0)
	q4 := -math.Acos(cosQ4)

	phi1 := math.Atan2(h, r)
	phi2 := math.Atan2(L2*math.Sin(-q4), L1+L2*math.Cos(-q4))
	q2 := phi1 + phi2

	q3 := 0.0
	q5 := 0.0
	q6 := -q2 - q4
	q7 := 0.0

	return []float64{
		round6(q1), round6(q2), round6(q3), round6(q4), round6(q5), round6(q6), round6(q7),
	}
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func round6(f float64) float64 {
	const scale = 1e6
	return math.Round(f*scale) / scale
}
