// Package server implements the MCP (Model Context Protocol) server for WCS
// coordinate tools.
//
// This package provides a JSON-RPC 2.0 server that exposes TAN (gnomonic)
// pixel/sky transforms and WCS-aware image operations through the MCP
// protocol.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// Notifications (any notifications/* method) get no response. A line that
// is not valid JSON gets a -32700 parse error with a null id.
//
// # Available Tools
//
// Header:
//   - wcs_load_header: Validate a header and list its WCS keywords
//
// Coordinate Transforms:
//   - wcs_pixel_to_coordinate: Pixel to RA/Dec
//   - wcs_coordinate_to_pixel: RA/Dec to the nearest pixel
//   - wcs_pixels_to_coordinates: Batch pixel to RA/Dec
//
// Geometry:
//   - wcs_footprint: Corner and centre positions, field size
//   - wcs_measure_separation: Angular distance and position angle
//
// Image Operations:
//   - wcs_sky_grid_overlay: Draw an RA/Dec grid
//   - wcs_cutout: Cut a square around a sky position
//   - wcs_sample_at_coordinate: Colour at a sky position
//   - wcs_find_sources: Detect point sources and list their RA/Dec
//
// Every tool takes either header_path, a YAML or JSON keyword file, or an
// inline header object. Pixel arguments use the FITS convention: 1-based,
// y up.
//
// # Caching
//
// Header files are parsed once per path and their Mappers cached; inline
// headers are built per call. Images are cached by path. Both caches persist
// for the lifetime of the server process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	cfg, err := config.FromEnv()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	srv := server.New(cfg)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
