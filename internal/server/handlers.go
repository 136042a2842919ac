package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"log"

	"github.com/ironsheep/wcs-tools-mcp/internal/detection"
	"github.com/ironsheep/wcs-tools-mcp/internal/headers"
	"github.com/ironsheep/wcs-tools-mcp/internal/imaging"
	"github.com/ironsheep/wcs-tools-mcp/internal/wcs"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "wcs_pixel_to_coordinate").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		if s.cfg.Debug() {
			log.Printf("tool %s failed: %v", params.Name, err)
		}
		return s.errorResponse(req.ID, codeToolError, "Tool execution failed", err.Error())
	}
	text, err := marshalResult(result)
	if err != nil {
		return s.errorResponse(req.ID, codeToolError, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": text,
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Resolves the header to a Mapper (cached by path, or built inline)
//  3. Applies server defaults for optional parameters
//  4. Loads images from cache as needed
//  5. Calls the wcs or imaging function and returns its result
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	// Header
	case "wcs_load_header":
		return s.handleLoadHeader(args)

	// Coordinate transforms
	case "wcs_pixel_to_coordinate":
		return s.handlePixelToCoordinate(args)
	case "wcs_coordinate_to_pixel":
		return s.handleCoordinateToPixel(args)
	case "wcs_pixels_to_coordinates":
		return s.handlePixelsToCoordinates(args)

	// Geometry
	case "wcs_footprint":
		return s.handleFootprint(args)
	case "wcs_measure_separation":
		return s.handleMeasureSeparation(args)

	// Image operations
	case "wcs_sky_grid_overlay":
		return s.handleSkyGridOverlay(args)
	case "wcs_cutout":
		return s.handleCutout(args)
	case "wcs_sample_at_coordinate":
		return s.handleSampleAtCoordinate(args)
	case "wcs_find_sources":
		return s.handleFindSources(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// marshalResult converts a tool result to a pretty-printed JSON string.
// Results holding NaN or Inf cannot be encoded and fail the call.
func marshalResult(v interface{}) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}
	return string(b), nil
}

// === Header resolution ===

// headerArgs is embedded in every tool's arguments.
type headerArgs struct {
	HeaderPath string                 `json:"header_path"`
	Header     map[string]interface{} `json:"header"`
}

var errNoHeader = errors.New("header_path or header is required")

// mapper returns the Mapper for a header file (cached) or an inline header
// (built per call).
func (s *Server) mapper(a headerArgs) (*wcs.Mapper, error) {
	if a.HeaderPath != "" {
		return s.headers.Mapper(a.HeaderPath)
	}
	if len(a.Header) == 0 {
		return nil, errNoHeader
	}
	return wcs.NewMapper(headers.Normalize(a.Header))
}

// loadImage loads the image at path and checks it against the header size.
func (s *Server) loadImage(path string, m *wcs.Mapper) (image.Image, error) {
	if path == "" {
		return nil, errors.New("image_path is required")
	}
	img, err := s.images.Load(path)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	if err := imaging.CheckSize(m, b.Dx(), b.Dy()); err != nil {
		return nil, err
	}
	return img, nil
}

// === Header Handler ===

type loadHeaderArgs struct {
	headerArgs
	ImagePath string `json:"image_path"`
}

// HeaderSummary describes a validated header.
type HeaderSummary struct {
	Keywords wcs.Header `json:"keywords"`
	// LonPole is the native longitude of the celestial pole in effect.
	LonPole float64            `json:"lonpole"`
	Image   *imaging.ImageInfo `json:"image,omitempty"`
}

func (s *Server) handleLoadHeader(args json.RawMessage) (interface{}, error) {
	var a loadHeaderArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	m, err := s.mapper(a.headerArgs)
	if err != nil {
		return nil, err
	}

	summary := &HeaderSummary{
		Keywords: m.Config().Keywords(),
		LonPole:  m.NativePoleLongitude(),
	}
	if a.ImagePath != "" {
		if summary.Image, err = imaging.LoadImageInfo(s.images, a.ImagePath, m); err != nil {
			return nil, err
		}
	}
	return summary, nil
}

// === Coordinate Transform Handlers ===

// WorldPosition is a sky position in degrees and sexagesimal.
type WorldPosition struct {
	Label string  `json:"label,omitempty"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	// RA is as computed, RANormalized wrapped into [0, 360).
	RA           float64 `json:"ra"`
	Dec          float64 `json:"dec"`
	RANormalized float64 `json:"ra_normalized"`
	RAHMS        string  `json:"ra_hms"`
	DecDMS       string  `json:"dec_dms"`
}

func worldPosition(x, y float64, c wcs.Celestial) WorldPosition {
	return WorldPosition{
		X:            x,
		Y:            y,
		RA:           c.RA,
		Dec:          c.Dec,
		RANormalized: c.Normalized().RA,
		RAHMS:        wcs.FormatRA(c.RA, 2),
		DecDMS:       wcs.FormatDec(c.Dec, 1),
	}
}

type pixelToCoordinateArgs struct {
	headerArgs
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

func (s *Server) handlePixelToCoordinate(args json.RawMessage) (interface{}, error) {
	var a pixelToCoordinateArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.X == nil || a.Y == nil {
		return nil, errors.New("x and y are required")
	}
	m, err := s.mapper(a.headerArgs)
	if err != nil {
		return nil, err
	}
	c, err := m.PixelToCoordinate(*a.X, *a.Y)
	if err != nil {
		return nil, err
	}
	return worldPosition(*a.X, *a.Y, c), nil
}

type coordinateToPixelArgs struct {
	headerArgs
	RA  *float64 `json:"ra"`
	Dec *float64 `json:"dec"`
}

// PixelPosition is the pixel nearest a sky position.
type PixelPosition struct {
	RA  float64 `json:"ra"`
	Dec float64 `json:"dec"`
	X   int     `json:"x"`
	Y   int     `json:"y"`
	// InImage is set when the header declares NAXIS1 and NAXIS2.
	InImage *bool `json:"in_image,omitempty"`
}

func (s *Server) handleCoordinateToPixel(args json.RawMessage) (interface{}, error) {
	var a coordinateToPixelArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.RA == nil || a.Dec == nil {
		return nil, errors.New("ra and dec are required")
	}
	m, err := s.mapper(a.headerArgs)
	if err != nil {
		return nil, err
	}
	p, err := m.CoordinateToPixel(*a.RA, *a.Dec)
	if err != nil {
		return nil, err
	}

	pos := &PixelPosition{RA: *a.RA, Dec: *a.Dec, X: p.X, Y: p.Y}
	w, okW := m.Config().AxisLength(1)
	h, okH := m.Config().AxisLength(2)
	if okW && okH {
		in := p.X >= 1 && p.X <= w && p.Y >= 1 && p.Y <= h
		pos.InImage = &in
	}
	return pos, nil
}

type labeledPixel struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Label string  `json:"label"`
}

type pixelsToCoordinatesArgs struct {
	headerArgs
	Pixels []labeledPixel `json:"pixels"`
}

func (s *Server) handlePixelsToCoordinates(args json.RawMessage) (interface{}, error) {
	var a pixelsToCoordinatesArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if len(a.Pixels) == 0 {
		return nil, errors.New("pixels must not be empty")
	}
	m, err := s.mapper(a.headerArgs)
	if err != nil {
		return nil, err
	}

	out := make([]WorldPosition, 0, len(a.Pixels))
	for _, p := range a.Pixels {
		c, err := m.PixelToCoordinate(p.X, p.Y)
		if err != nil {
			return nil, fmt.Errorf("failed to convert pixel (%g,%g): %w", p.X, p.Y, err)
		}
		wp := worldPosition(p.X, p.Y, c)
		wp.Label = p.Label
		out = append(out, wp)
	}
	return map[string]interface{}{"positions": out}, nil
}

// === Geometry Handlers ===

type footprintArgs struct {
	headerArgs
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	ImagePath string `json:"image_path"`
}

func (s *Server) handleFootprint(args json.RawMessage) (interface{}, error) {
	var a footprintArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	m, err := s.mapper(a.headerArgs)
	if err != nil {
		return nil, err
	}

	if a.ImagePath != "" && (a.Width == 0 || a.Height == 0) {
		img, err := s.loadImage(a.ImagePath, m)
		if err != nil {
			return nil, err
		}
		a.Width, a.Height = img.Bounds().Dx(), img.Bounds().Dy()
	}
	if a.Width == 0 {
		a.Width, _ = m.Config().AxisLength(1)
	}
	if a.Height == 0 {
		a.Height, _ = m.Config().AxisLength(2)
	}
	if a.Width <= 0 || a.Height <= 0 {
		return nil, errors.New("width and height are required when the header has no NAXIS1/NAXIS2")
	}

	return imaging.Footprint(m, a.Width, a.Height)
}

type measureSeparationArgs struct {
	headerArgs
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

func (s *Server) handleMeasureSeparation(args json.RawMessage) (interface{}, error) {
	var a measureSeparationArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	m, err := s.mapper(a.headerArgs)
	if err != nil {
		return nil, err
	}
	return imaging.MeasureSeparation(m, a.X1, a.Y1, a.X2, a.Y2)
}

// === Image Operation Handlers ===

type skyGridArgs struct {
	headerArgs
	ImagePath  string  `json:"image_path"`
	StepDeg    float64 `json:"step_deg"`
	Samples    int     `json:"samples"`
	ShowLabels *bool   `json:"show_labels"`
	GridColor  string  `json:"grid_color"`
	LabelColor string  `json:"label_color"`
	Gamma      float64 `json:"gamma"`
	Format     string  `json:"format"`
}

func (s *Server) handleSkyGridOverlay(args json.RawMessage) (interface{}, error) {
	var a skyGridArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	m, err := s.mapper(a.headerArgs)
	if err != nil {
		return nil, err
	}
	img, err := s.loadImage(a.ImagePath, m)
	if err != nil {
		return nil, err
	}

	opts := imaging.GridOptions{
		StepDeg:    a.StepDeg,
		Samples:    a.Samples,
		ShowLabels: true,
		GridColor:  a.GridColor,
		LabelColor: a.LabelColor,
		Gamma:      a.Gamma,
		Format:     a.Format,
	}
	if a.ShowLabels != nil {
		opts.ShowLabels = *a.ShowLabels
	}
	if opts.StepDeg == 0 {
		opts.StepDeg = s.cfg.GridStepDeg
	}
	if opts.Samples == 0 {
		opts.Samples = s.cfg.GridSamples
	}
	if opts.GridColor == "" {
		opts.GridColor = s.cfg.GridColor
	}
	if opts.LabelColor == "" {
		opts.LabelColor = s.cfg.LabelColor
	}
	if opts.Gamma == 0 {
		opts.Gamma = s.cfg.Gamma
	}
	if opts.Format == "" {
		opts.Format = s.cfg.OutputFormat
	}

	return imaging.SkyGridOverlay(img, m, opts)
}

type cutoutArgs struct {
	headerArgs
	ImagePath       string   `json:"image_path"`
	RA              *float64 `json:"ra"`
	Dec             *float64 `json:"dec"`
	HalfSize        int      `json:"half_size"`
	Scale           float64  `json:"scale"`
	Gamma           float64  `json:"gamma"`
	FITSOrientation bool     `json:"fits_orientation"`
	Format          string   `json:"format"`
}

func (s *Server) handleCutout(args json.RawMessage) (interface{}, error) {
	var a cutoutArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.RA == nil || a.Dec == nil {
		return nil, errors.New("ra and dec are required")
	}
	if a.HalfSize == 0 {
		a.HalfSize = 32
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	if a.Gamma == 0 {
		a.Gamma = s.cfg.Gamma
	}
	if a.Format == "" {
		a.Format = s.cfg.OutputFormat
	}

	m, err := s.mapper(a.headerArgs)
	if err != nil {
		return nil, err
	}
	img, err := s.loadImage(a.ImagePath, m)
	if err != nil {
		return nil, err
	}

	return imaging.Cutout(img, m, *a.RA, *a.Dec, imaging.CutoutOptions{
		HalfSize:        a.HalfSize,
		Scale:           a.Scale,
		MaxSize:         s.cfg.MaxCutoutSize,
		Gamma:           a.Gamma,
		Format:          a.Format,
		FITSOrientation: a.FITSOrientation,
	})
}

type skyPointArg struct {
	RA    float64 `json:"ra"`
	Dec   float64 `json:"dec"`
	Label string  `json:"label"`
}

type sampleArgs struct {
	headerArgs
	ImagePath string        `json:"image_path"`
	RA        *float64      `json:"ra"`
	Dec       *float64      `json:"dec"`
	Points    []skyPointArg `json:"points"`
}

func (s *Server) handleSampleAtCoordinate(args json.RawMessage) (interface{}, error) {
	var a sampleArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if len(a.Points) == 0 && (a.RA == nil || a.Dec == nil) {
		return nil, errors.New("ra and dec, or points, are required")
	}
	m, err := s.mapper(a.headerArgs)
	if err != nil {
		return nil, err
	}
	img, err := s.loadImage(a.ImagePath, m)
	if err != nil {
		return nil, err
	}

	if len(a.Points) == 0 {
		return imaging.SampleAtCoordinate(img, m, *a.RA, *a.Dec)
	}
	points := make([]imaging.SkyPoint, len(a.Points))
	for i, p := range a.Points {
		points[i] = imaging.SkyPoint{RA: p.RA, Dec: p.Dec, Label: p.Label}
	}
	return imaging.SampleAtCoordinates(img, m, points)
}

type findSourcesArgs struct {
	headerArgs
	ImagePath  string  `json:"image_path"`
	Threshold  float64 `json:"threshold"`
	MinPixels  int     `json:"min_pixels"`
	MaxSources int     `json:"max_sources"`
	Smooth     float64 `json:"smooth"`
}

func (s *Server) handleFindSources(args json.RawMessage) (interface{}, error) {
	var a findSourcesArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.MaxSources == 0 {
		a.MaxSources = 50
	}
	m, err := s.mapper(a.headerArgs)
	if err != nil {
		return nil, err
	}
	img, err := s.loadImage(a.ImagePath, m)
	if err != nil {
		return nil, err
	}

	return imaging.FindSources(img, m, detection.Options{
		Threshold:  a.Threshold,
		MinPixels:  a.MinPixels,
		MaxSources: a.MaxSources,
		Smooth:     a.Smooth,
	})
}
