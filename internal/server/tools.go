package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

var pathProperty = map[string]interface{}{
	"type":        "string",
	"description": "Absolute path to the image file",
}

var bandsProperty = map[string]interface{}{
	"type":        "array",
	"description": "HSV bands (H 0-179, S and V 0-255); a pixel matching any band is set. Defaults to the configured bands.",
	"items": map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"lower": hsvTripleProperty("Lower bound [h, s, v]"),
			"upper": hsvTripleProperty("Upper bound [h, s, v]"),
		},
		"required": []string{"lower", "upper"},
	},
}

func hsvTripleProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "array",
		"description": description,
		"items":       map[string]interface{}{"type": "integer"},
		"minItems":    3,
		"maxItems":    3,
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions and format. The image stays cached for later calls.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_sample_color",
			Description: "Get the color at a pixel as RGB, hex and 8-bit HSV (H 0-179). Sample the ball to choose segmentation bands.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based, from left)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based, from top)",
					},
				},
				"required": []string{"path", "x", "y"},
			},
		},
		{
			Name:        "image_edge_detect",
			Description: "Run Canny edge detection and return the edge image as base64-encoded PNG. Thresholds are on the Sobel L1 magnitude scale (0-2040).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"threshold_low": map[string]interface{}{
						"type":        "number",
						"description": "Hysteresis low threshold. Default 50",
						"default":     50,
					},
					"threshold_high": map[string]interface{}{
						"type":        "number",
						"description": "Hysteresis high threshold. Default 100",
						"default":     100,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "ball_segment",
			Description: "Segment an image by HSV color bands and return the (optionally refined) mask as base64-encoded PNG with its set pixel count.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":  pathProperty,
					"bands": bandsProperty,
					"refine": map[string]interface{}{
						"type":        "boolean",
						"description": "Blur, dilate and erode the mask as the tracker does. Default true",
						"default":     true,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "ball_detect",
			Description: "Run the full ball detection pipeline on an image: segment, refine, locate circles. Returns the circles, the tracker's text records and optionally the annotated image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":  pathProperty,
					"bands": bandsProperty,
					"radius_min": map[string]interface{}{
						"type":        "integer",
						"description": "Minimum circle radius in pixels",
					},
					"radius_max": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum circle radius in pixels",
					},
					"min_distance": map[string]interface{}{
						"type":        "number",
						"description": "Minimum distance between circle centers in pixels, must be positive. Omit to use a quarter of the image height",
					},
					"resolution": map[string]interface{}{
						"type":        "number",
						"description": "Inverse accumulator resolution (1 = full, 2 = half)",
					},
					"edge_high": map[string]interface{}{
						"type":        "number",
						"description": "Canny high threshold",
					},
					"edge_low": map[string]interface{}{
						"type":        "number",
						"description": "Canny low threshold",
					},
					"vote_threshold": map[string]interface{}{
						"type":        "integer",
						"description": "Votes a center and a radius need to be accepted",
					},
					"annotate": map[string]interface{}{
						"type":        "boolean",
						"description": "Also return the annotated image as base64-encoded PNG. Default false",
						"default":     false,
					},
				},
				"required": []string{"path"},
			},
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
