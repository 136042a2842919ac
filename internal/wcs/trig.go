package wcs

import "math"

// Degree-argument trigonometry. The names mirror the paper's sind/cosd/...
// notation so the formulas in tan.go read like the equations they implement.

func deg2rad(deg float64) float64 {
	return deg * math.Pi / 180
}

func rad2deg(rad float64) float64 {
	return rad * 180 / math.Pi
}

func sind(deg float64) float64 {
	return math.Sin(deg2rad(deg))
}

func cosd(deg float64) float64 {
	return math.Cos(deg2rad(deg))
}

func tand(deg float64) float64 {
	return math.Tan(deg2rad(deg))
}

func asind(x float64) float64 {
	return rad2deg(math.Asin(x))
}

func atand(x float64) float64 {
	return rad2deg(math.Atan(x))
}

// atan2d has the library argument order: atan2d(y, x).
func atan2d(y, x float64) float64 {
	return rad2deg(math.Atan2(y, x))
}

// argd is the paper's arg(x, y) = atan2(y, x). Note the swapped order.
func argd(x, y float64) float64 {
	return atan2d(y, x)
}
