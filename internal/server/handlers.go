package server

import (
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ironsheep/ball-tracker/internal/annotate"
	"github.com/ironsheep/ball-tracker/internal/config"
	"github.com/ironsheep/ball-tracker/internal/detection"
	"github.com/ironsheep/ball-tracker/internal/errdefs"
	"github.com/ironsheep/ball-tracker/internal/imaging"
	"github.com/ironsheep/ball-tracker/internal/tracker"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "ball_detect").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// errInvalidArguments marks tool arguments that do not decode.
var errInvalidArguments = errors.New("invalid arguments")

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Bad arguments return -32602; other tool errors return -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.logger.Debug("tool failed", zap.String("tool", params.Name), zap.Error(err))
		if errors.Is(err, errInvalidArguments) || errors.Is(err, errdefs.ErrInvalidConfiguration) {
			return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
		}
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "image_load":
		return s.handleImageLoad(args)
	case "image_sample_color":
		return s.handleImageSampleColor(args)
	case "image_edge_detect":
		return s.handleImageEdgeDetect(args)
	case "ball_segment":
		return s.handleBallSegment(args)
	case "ball_detect":
		return s.handleBallDetect(args)
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

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

func decodeArgs(args json.RawMessage, v interface{}) error {
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidArguments, err)
	}
	return nil
}

// === Image Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

type imageSampleColorArgs struct {
	Path string `json:"path"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

func (s *Server) handleImageSampleColor(args json.RawMessage) (interface{}, error) {
	var a imageSampleColorArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.SampleColor(img, a.X, a.Y)
}

type imageEdgeDetectArgs struct {
	Path          string  `json:"path"`
	ThresholdLow  float64 `json:"threshold_low"`
	ThresholdHigh float64 `json:"threshold_high"`
}

func (s *Server) handleImageEdgeDetect(args json.RawMessage) (interface{}, error) {
	var a imageEdgeDetectArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.ThresholdLow == 0 {
		a.ThresholdLow = 50
	}
	if a.ThresholdHigh == 0 {
		a.ThresholdHigh = 100
	}
	if a.ThresholdLow > a.ThresholdHigh {
		return nil, errdefs.Invalid("threshold_low", "%g exceeds threshold_high %g", a.ThresholdLow, a.ThresholdHigh)
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.EdgeDetect(img, a.ThresholdLow, a.ThresholdHigh)
}

// === Ball Detection Handlers ===

// SegmentResult is the ball_segment output.
type SegmentResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	MaskPixels  int    `json:"mask_pixels"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

type ballSegmentArgs struct {
	Path   string              `json:"path"`
	Bands  []config.BandConfig `json:"bands"`
	Refine *bool               `json:"refine"`
}

func (s *Server) handleBallSegment(args json.RawMessage) (interface{}, error) {
	var a ballSegmentArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	segmenter, err := s.segmenter(a.Bands)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	mask := segmenter.Segment(img)
	if a.Refine == nil || *a.Refine {
		refiner, err := imaging.NewRefiner(s.settings.Refine)
		if err != nil {
			return nil, err
		}
		mask = refiner.Refine(mask)
	}

	encoded, err := imaging.EncodePNGBase64(mask.Gray)
	if err != nil {
		return nil, err
	}
	return &SegmentResult{
		Width:       mask.Width(),
		Height:      mask.Height(),
		MaskPixels:  mask.Count(),
		ImageBase64: encoded,
		MimeType:    "image/png",
	}, nil
}

// DetectResult is the ball_detect output.
type DetectResult struct {
	Width       int                `json:"width"`
	Height      int                `json:"height"`
	Count       int                `json:"count"`
	Circles     []detection.Circle `json:"circles"`
	Records     []string           `json:"records"`
	ImageBase64 string             `json:"image_base64,omitempty"`
	MimeType    string             `json:"mime_type,omitempty"`
}

type ballDetectArgs struct {
	Path          string              `json:"path"`
	Bands         []config.BandConfig `json:"bands"`
	RadiusMin     *int                `json:"radius_min"`
	RadiusMax     *int                `json:"radius_max"`
	MinDistance   *float64            `json:"min_distance"`
	Resolution    *float64            `json:"resolution"`
	EdgeHigh      *float64            `json:"edge_high"`
	EdgeLow       *float64            `json:"edge_low"`
	VoteThreshold *int                `json:"vote_threshold"`
	Annotate      bool                `json:"annotate"`
}

// params applies the call's overrides to the configured locator parameters.
// An explicit min_distance must be positive; leave it out to use the
// configured distance.
func (a ballDetectArgs) params(base detection.Params) (detection.Params, error) {
	p := base
	if a.RadiusMin != nil {
		p.RadiusMin = *a.RadiusMin
	}
	if a.RadiusMax != nil {
		p.RadiusMax = *a.RadiusMax
	}
	if a.MinDistance != nil {
		if *a.MinDistance <= 0 {
			return p, errdefs.Invalid("min_distance", "must be positive, got %g", *a.MinDistance)
		}
		p.MinDistance = *a.MinDistance
	}
	if a.Resolution != nil {
		p.Resolution = *a.Resolution
	}
	if a.EdgeHigh != nil {
		p.EdgeHighThreshold = *a.EdgeHigh
	}
	if a.EdgeLow != nil {
		p.EdgeLowThreshold = *a.EdgeLow
	}
	if a.VoteThreshold != nil {
		p.VoteThreshold = *a.VoteThreshold
	}
	return p, nil
}

func (s *Server) handleBallDetect(args json.RawMessage) (interface{}, error) {
	var a ballDetectArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	segmenter, err := s.segmenter(a.Bands)
	if err != nil {
		return nil, err
	}
	refiner, err := imaging.NewRefiner(s.settings.Refine)
	if err != nil {
		return nil, err
	}
	params, err := a.params(s.settings.Locate)
	if err != nil {
		return nil, err
	}
	locator, err := detection.NewBackend(s.settings.Backend, params)
	if err != nil {
		return nil, err
	}
	pipeline, err := tracker.NewPipeline(segmenter, refiner, locator, 0)
	if err != nil {
		return nil, err
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	frame, result, err := pipeline.Process(img)
	if err != nil {
		return nil, err
	}

	out := &DetectResult{
		Width:   frame.Bounds().Dx(),
		Height:  frame.Bounds().Dy(),
		Count:   len(result.Circles),
		Circles: result.Circles,
		Records: make([]string, len(result.Circles)),
	}
	for i, c := range result.Circles {
		out.Records[i] = tracker.FormatRecord(len(result.Circles), c)
	}

	if a.Annotate {
		encoded, err := imaging.EncodePNGBase64(annotate.Annotate(frame, result.Circles, s.settings.Style))
		if err != nil {
			return nil, err
		}
		out.ImageBase64 = encoded
		out.MimeType = "image/png"
	}
	return out, nil
}

// segmenter builds a segmenter from the call's bands, or the configured ones.
func (s *Server) segmenter(bands []config.BandConfig) (*imaging.Segmenter, error) {
	if len(bands) == 0 {
		return imaging.NewSegmenter(s.settings.Bands...)
	}
	converted := make([]imaging.ColorBand, len(bands))
	for i, b := range bands {
		band, err := b.ColorBand(i)
		if err != nil {
			return nil, err
		}
		converted[i] = band
	}
	return imaging.NewSegmenter(converted...)
}
