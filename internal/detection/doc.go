// Package detection finds point sources (stars and other compact bright
// objects) in sky images.
//
// # Algorithm
//
//  1. Optional Gaussian smoothing suppresses single hot pixels.
//  2. Each pixel is reduced to an ITU-R BT.601 gray level.
//  3. The background level and its noise are estimated from the gray-level
//     histogram as the median and the median absolute deviation.
//  4. Pixels brighter than background + threshold are grouped into
//     8-connected components by an iterative flood fill.
//  5. Each component becomes a Source with a background-subtracted,
//     flux-weighted centroid. Sources are ordered brightest first.
//
// # Coordinate System
//
// Source positions are raster coordinates: (0, 0) is the centre of the
// top-left pixel, X increases rightward and Y increases downward. Callers with
// a WCS convert them to FITS pixels themselves.
package detection
