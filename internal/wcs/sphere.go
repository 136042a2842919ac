package wcs

import "math"

// Separation returns the great-circle distance between a and b in degrees.
// It uses the Vincenty form, which stays accurate for both tiny and
// near-antipodal separations.
func Separation(a, b Celestial) float64 {
	dra := b.RA - a.RA
	num1 := cosd(b.Dec) * sind(dra)
	num2 := cosd(a.Dec)*sind(b.Dec) - sind(a.Dec)*cosd(b.Dec)*cosd(dra)
	den := sind(a.Dec)*sind(b.Dec) + cosd(a.Dec)*cosd(b.Dec)*cosd(dra)
	return atan2d(math.Hypot(num1, num2), den)
}

// PositionAngle returns the position angle of b as seen from a, measured
// from north through east, in [0, 360).
func PositionAngle(a, b Celestial) float64 {
	dra := b.RA - a.RA
	pa := argd(
		cosd(a.Dec)*sind(b.Dec)-sind(a.Dec)*cosd(b.Dec)*cosd(dra),
		cosd(b.Dec)*sind(dra),
	)
	if pa < 0 {
		pa += 360
	}
	return pa
}
