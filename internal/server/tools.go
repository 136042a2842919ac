package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// headerProperties are accepted by every tool. One of the two must be given.
func headerProperties() map[string]interface{} {
	return map[string]interface{}{
		"header_path": map[string]interface{}{
			"type":        "string",
			"description": "Absolute path to a YAML or JSON file of FITS WCS keywords",
		},
		"header": map[string]interface{}{
			"type":        "object",
			"description": "Inline FITS WCS keywords (NAXIS, CTYPEn, CRPIXn, CRVALn, CDELTn, ...). Used when header_path is not given",
		},
	}
}

// schema builds an object schema from the header properties plus props.
func schema(props map[string]interface{}, required ...string) map[string]interface{} {
	all := headerProperties()
	for k, v := range props {
		all[k] = v
	}
	s := map[string]interface{}{
		"type":       "object",
		"properties": all,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

func number(desc string) map[string]interface{} {
	return map[string]interface{}{"type": "number", "description": desc}
}

func imagePath() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the sky image (PNG, JPEG, GIF, TGA or WebP)",
	}
}

func outputFormat() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"enum":        []string{"png", "webp"},
		"description": "Encoding of the returned image. Defaults to the server setting",
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Header
		{
			Name:        "wcs_load_header",
			Description: "Validate a TAN (gnomonic) WCS header and return the keywords it carries. Optionally checks an image against NAXIS1/NAXIS2.",
			InputSchema: schema(map[string]interface{}{
				"image_path": imagePath(),
			}),
		},

		// Coordinate transforms
		{
			Name:        "wcs_pixel_to_coordinate",
			Description: "Convert a FITS pixel position (1-based, y up) to RA/Dec in degrees, also formatted as sexagesimal.",
			InputSchema: schema(map[string]interface{}{
				"x": number("Pixel X (FITS convention, 1 is the centre of the first column)"),
				"y": number("Pixel Y (FITS convention, 1 is the centre of the bottom row)"),
			}, "x", "y"),
		},
		{
			Name:        "wcs_coordinate_to_pixel",
			Description: "Convert RA/Dec in degrees to the nearest integer FITS pixel.",
			InputSchema: schema(map[string]interface{}{
				"ra":  number("Right ascension in degrees"),
				"dec": number("Declination in degrees"),
			}, "ra", "dec"),
		},
		{
			Name:        "wcs_pixels_to_coordinates",
			Description: "Convert several FITS pixel positions to RA/Dec in a single call.",
			InputSchema: schema(map[string]interface{}{
				"pixels": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"x":     map[string]interface{}{"type": "number"},
							"y":     map[string]interface{}{"type": "number"},
							"label": map[string]interface{}{"type": "string"},
						},
						"required": []string{"x", "y"},
					},
					"description": "Pixel positions to convert",
				},
			}, "pixels"),
		},

		// Geometry
		{
			Name:        "wcs_footprint",
			Description: "Sky positions of the image corners and centre, plus the angular width, height and radius of the field.",
			InputSchema: schema(map[string]interface{}{
				"width":      map[string]interface{}{"type": "integer", "description": "Image width in pixels. Defaults to NAXIS1 or the image size"},
				"height":     map[string]interface{}{"type": "integer", "description": "Image height in pixels. Defaults to NAXIS2 or the image size"},
				"image_path": imagePath(),
			}),
		},
		{
			Name:        "wcs_measure_separation",
			Description: "Angular separation and position angle (east of north) between two FITS pixel positions.",
			InputSchema: schema(map[string]interface{}{
				"x1": number("First pixel X"),
				"y1": number("First pixel Y"),
				"x2": number("Second pixel X"),
				"y2": number("Second pixel Y"),
			}, "x1", "y1", "x2", "y2"),
		},

		// Image operations
		{
			Name:        "wcs_sky_grid_overlay",
			Description: "Draw an RA/Dec grid on the image and return it base64-encoded. Lines follow the projection, so they curve near the poles.",
			InputSchema: schema(map[string]interface{}{
				"image_path":  imagePath(),
				"step_deg":    number("Grid spacing in degrees. 0 picks a spacing from the field size"),
				"samples":     map[string]interface{}{"type": "integer", "description": "Segments per grid line"},
				"show_labels": map[string]interface{}{"type": "boolean", "description": "Label each line with its RA or Dec", "default": true},
				"grid_color":  map[string]interface{}{"type": "string", "description": "Line colour, #RRGGBB or #RRGGBBAA"},
				"label_color": map[string]interface{}{"type": "string", "description": "Label colour, #RRGGBB"},
				"gamma":       number("Display gamma applied before drawing; above 1 lifts faint background"),
				"format":      outputFormat(),
			}, "image_path"),
		},
		{
			Name:        "wcs_cutout",
			Description: "Cut a square around a sky position and return it base64-encoded. Squares crossing the image edge are clipped.",
			InputSchema: schema(map[string]interface{}{
				"image_path":       imagePath(),
				"ra":               number("Right ascension of the cutout centre in degrees"),
				"dec":              number("Declination of the cutout centre in degrees"),
				"half_size":        map[string]interface{}{"type": "integer", "description": "Pixels from the centre to the edge. Default 32", "default": 32},
				"scale":            number("Optional scale factor. Default 1.0"),
				"gamma":            number("Display gamma applied to the cutout"),
				"fits_orientation": map[string]interface{}{"type": "boolean", "description": "Return rows bottom-up, as stored in FITS"},
				"format":           outputFormat(),
			}, "image_path", "ra", "dec"),
		},
		{
			Name:        "wcs_sample_at_coordinate",
			Description: "Colour of the image pixel at a sky position, or at several labelled positions.",
			InputSchema: schema(map[string]interface{}{
				"image_path": imagePath(),
				"ra":         number("Right ascension in degrees"),
				"dec":        number("Declination in degrees"),
				"points": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"ra":    map[string]interface{}{"type": "number"},
							"dec":   map[string]interface{}{"type": "number"},
							"label": map[string]interface{}{"type": "string"},
						},
						"required": []string{"ra", "dec"},
					},
					"description": "Sample these positions instead of ra/dec",
				},
			}, "image_path"),
		},
		{
			Name:        "wcs_find_sources",
			Description: "Detect stars and other compact bright sources and return their pixel centroids and RA/Dec, brightest first.",
			InputSchema: schema(map[string]interface{}{
				"image_path":  imagePath(),
				"threshold":   number("Gray levels above background. 0 estimates one from the image noise"),
				"min_pixels":  map[string]interface{}{"type": "integer", "description": "Smallest source in pixels. Default 3"},
				"max_sources": map[string]interface{}{"type": "integer", "description": "Return at most this many sources. Default 50"},
				"smooth":      number("Gaussian blur radius applied before detection. 0 for none"),
			}, "image_path"),
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
