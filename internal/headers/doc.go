// Package headers loads WCS headers from YAML or JSON files and caches the
// Mappers built from them.
//
// A header file is a flat mapping of FITS keywords to values:
//
//	NAXIS: 2
//	CTYPE1: RA---TAN
//	CTYPE2: DEC--TAN
//	CRPIX1: 512.5
//	CRPIX2: 512.5
//	CRVAL1: 83.822
//	CRVAL2: -5.391
//	CDELT1: -0.000277
//	CDELT2: 0.000277
//
// Keywords are matched case-insensitively and stored upper case.
package headers
