package wcs

import (
	"fmt"
	"math"
)

// FormatRA formats right ascension as "HH:MM:SS[.s...]" with the given number
// of decimals on the seconds. RA is wrapped into [0, 24h) first.
func FormatRA(deg float64, decimals int) string {
	hours := Celestial{RA: deg}.Normalized().RA / 15
	h, m, s, _ := split(hours, decimals)
	h %= 24
	return fmt.Sprintf("%02d:%02d:%s", h, m, s)
}

// FormatDec formats declination as "±DD:MM:SS[.s...]".
func FormatDec(deg float64, decimals int) string {
	d, m, s, zero := split(math.Abs(deg), decimals)
	sign := "+"
	if deg < 0 && !zero {
		sign = "-"
	}
	return fmt.Sprintf("%s%02d:%02d:%s", sign, d, m, s)
}

// split breaks v (hours or degrees) into whole units, minutes and a seconds
// string, rounding once on the smallest printed unit so carries propagate.
// zero reports whether the rounded value is zero.
func split(v float64, decimals int) (units, minutes int64, sec string, zero bool) {
	if decimals < 0 {
		decimals = 0
	}
	scale := int64(math.Pow10(decimals))
	total := int64(math.Round(v * 3600 * float64(scale)))

	units = total / (3600 * scale)
	minutes = (total / (60 * scale)) % 60
	rest := total % (60 * scale)

	if decimals == 0 {
		return units, minutes, fmt.Sprintf("%02d", rest), total == 0
	}
	return units, minutes, fmt.Sprintf("%02d.%0*d", rest/scale, decimals, rest%scale), total == 0
}
