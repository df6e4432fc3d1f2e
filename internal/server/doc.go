// Package server exposes the ball detection pipeline as MCP (Model Context
// Protocol) tools for still images.
//
// It is the tuning companion of the live tracker: a client loads a snapshot
// from the camera, samples the ball's color to choose HSV bands, inspects the
// mask and edges, and runs the full detection with trial parameters before
// committing them to the tracker's configuration.
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
// # Available Tools
//
//   - image_load: Load image and get metadata
//   - image_sample_color: RGB, hex and 8-bit HSV at a pixel
//   - image_edge_detect: Canny edge image
//   - ball_segment: Color mask for a set of HSV bands
//   - ball_detect: Full pipeline with optional parameter overrides
//
// Parameters a call leaves out fall back to the Settings the server was
// started with (see WithSettings).
//
// # Image Caching
//
// Images are cached by path and reused across tool calls for the lifetime of
// the server process.
//
// # Error Handling
//
// Tool errors are returned as JSON-RPC error responses:
//   - -32602: malformed arguments or out-of-range parameters
//   - -32000: tool execution failure (unreadable file, pixel out of bounds)
//   - -32601: unknown method
//
// The data field carries the Go error string.
package server
