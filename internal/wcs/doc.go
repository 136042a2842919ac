// Package wcs maps between image pixels and celestial coordinates for FITS
// images that carry a gnomonic (TAN) World Coordinate System.
//
// The transform follows Calabretta & Greisen (2002), "Representations of
// celestial coordinates in FITS", A&A 395, 1077. Only the two-axis RA/Dec TAN
// case without PC/CD rotation matrices is supported.
//
// # Pipeline
//
// Forward (pixel to sky):
//
//	pixel --A--> intermediate world (deg) --B--> native (phi, theta) --C--> (RA, Dec)
//
//   - A: coord[i] = CDELTi * (pixel[i] - CRPIXi)
//   - B: gnomonic deprojection, R = sqrt(x²+y²), phi = arg(-y, x), theta = atan(180/(πR))
//   - C: spherical rotation with (CRVAL1, CRVAL2) as the celestial position of
//     the native pole and phi_p (LONPOLE, default 180°)
//
// The inverse runs C⁻¹, B⁻¹ and A⁻¹ in reverse order and rounds the final
// pixel to the nearest integer.
//
// # Angles
//
// Every angle in this package is in degrees. The two-argument arctangent is
// always written through argd(x, y), which is atan2(y, x). The paper's arg()
// takes its arguments in (x, y) order; mixing the two orders silently mirrors
// the rotation.
//
// # Pixel Convention
//
// Pixels are FITS pixels: 1-based, with (1, 1) at the centre of the first
// stored pixel. Converting to raster rows is the caller's concern.
//
// # Errors
//
// Construction fails with ErrUnsupportedTransform when CTYPE1/CTYPE2 are not
// RA---TAN/DEC--TAN. Absent numeric keywords surface as *MissingKeywordError
// when a transform first needs them, never as NaN. Inverse results that would
// be infinite (a position 90° or more from the tangent point) or that divide by
// a zero CDELT return ErrDegenerateGeometry.
//
// # Thread Safety
//
// A Mapper and its HeaderConfig are immutable after construction and can be
// shared between goroutines.
package wcs
