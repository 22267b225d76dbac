package server

import (
	"github.com/ironsheep/image-edit-mcp/internal/transform"
)

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// noArgsSchema is the input schema of tools that take no arguments
func noArgsSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
	}
}

// regionSchema describes an optional rectangle argument
func regionSchema(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"description": description,
		"properties": map[string]interface{}{
			"x1": map[string]interface{}{"type": "integer"},
			"y1": map[string]interface{}{"type": "integer"},
			"x2": map[string]interface{}{"type": "integer"},
			"y2": map[string]interface{}{"type": "integer"},
		},
		"required": []string{"x1", "y1", "x2", "y2"},
	}
}

func operationNames() []string {
	ops := transform.Operations()
	names := make([]string, len(ops))
	for i, op := range ops {
		names[i] = string(op)
	}
	return names
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Document
		{
			Name:        "image_open",
			Description: "Open an image file for editing. Replaces the current image and starts a fresh undo history.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file (PNG, JPEG, GIF, BMP or TIFF)",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_new",
			Description: "Create a blank image filled with one color. Replaces the current image and starts a fresh undo history. The image has no file path until image_save_as.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Width in pixels",
						"minimum":     1,
					},
					"height": map[string]interface{}{
						"type":        "integer",
						"description": "Height in pixels",
						"minimum":     1,
					},
					"color": map[string]interface{}{
						"type":        "string",
						"description": "Fill color as #RRGGBB. Default #FFFFFF",
					},
				},
				"required": []string{"width", "height"},
			},
		},
		{
			Name:        "image_save",
			Description: "Save the current image back to the file it was opened from, in the format given by its extension. Fails if the image has no file path yet; use image_save_as.",
			InputSchema: noArgsSchema(),
		},
		{
			Name:        "image_save_as",
			Description: "Save the current image to a new path. The format follows the extension. On success the path becomes the image's file for later image_save calls.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Destination path; extension selects the format (.png, .jpg, .jpeg, .gif, .bmp, .tif, .tiff)",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_close",
			Description: "Close the current image and discard its undo history.",
			InputSchema: noArgsSchema(),
		},

		// Editing
		{
			Name: "image_apply",
			Description: "Apply one operation to the current image and add the result to the undo history. " +
				"Any redo steps are discarded. Parameters not given use the configured defaults.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"operation": map[string]interface{}{
						"type":        "string",
						"enum":        operationNames(),
						"description": "Operation to apply",
					},
					"kernel_size": map[string]interface{}{
						"type":        "integer",
						"description": "blur: Gaussian kernel size; even values are rounded up to the next odd value. Default 3",
						"maximum":     transform.MaxKernelSize,
					},
					"threshold1": map[string]interface{}{
						"type":        "integer",
						"description": "edge_detect: first hysteresis threshold. Default 100",
					},
					"threshold2": map[string]interface{}{
						"type":        "integer",
						"description": "edge_detect: second hysteresis threshold. Default 200",
					},
					"brightness": map[string]interface{}{
						"type":        "integer",
						"description": "brightness_contrast: value added to every channel. Default 0",
					},
					"contrast": map[string]interface{}{
						"type":        "number",
						"description": "brightness_contrast: multiplier for every channel. Default 1.0",
					},
					"angle": map[string]interface{}{
						"type":        "number",
						"description": "rotate: degrees, positive is counter-clockwise. The canvas size is kept. Default 0",
					},
					"mode": map[string]interface{}{
						"type":        "string",
						"enum":        []string{transform.FlipHorizontal, transform.FlipVertical},
						"description": "flip: mirror direction. Default horizontal",
					},
					"scale_percent": map[string]interface{}{
						"type":        "number",
						"description": "resize: new size as a percentage of the current size. Default 100",
						"maximum":     transform.MaxScalePercent,
					},
					"x1": map[string]interface{}{
						"type":        "integer",
						"description": "crop: left edge X coordinate (0-based)",
					},
					"y1": map[string]interface{}{
						"type":        "integer",
						"description": "crop: top edge Y coordinate (0-based)",
					},
					"x2": map[string]interface{}{
						"type":        "integer",
						"description": "crop: right edge X coordinate (exclusive)",
					},
					"y2": map[string]interface{}{
						"type":        "integer",
						"description": "crop: bottom edge Y coordinate (exclusive)",
					},
				},
				"required": []string{"operation"},
			},
		},
		{
			Name:        "image_undo",
			Description: "Step back to the previous version of the image. Returns moved=false when already at the oldest version.",
			InputSchema: noArgsSchema(),
		},
		{
			Name:        "image_redo",
			Description: "Step forward to the next version of the image. Returns moved=false when already at the newest version.",
			InputSchema: noArgsSchema(),
		},

		// Inspection
		{
			Name:        "image_status",
			Description: "Report the open file, current dimensions, undo/redo availability, memory held by the history and the OCR backend.",
			InputSchema: noArgsSchema(),
		},
		{
			Name:        "image_history",
			Description: "List every version in the undo history with the operation that produced it.",
			InputSchema: noArgsSchema(),
		},
		{
			Name:        "image_export",
			Description: "Return the current image as base64-encoded PNG.",
			InputSchema: noArgsSchema(),
		},
		{
			Name:        "image_sample_color",
			Description: "Get the exact color at a pixel of the current image. Returns hex, RGB and HSL values.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate",
					},
				},
				"required": []string{"x", "y"},
			},
		},
		{
			Name:        "image_dominant_colors",
			Description: "Find the most common colors in the current image or in a region of it.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"count": map[string]interface{}{
						"type":        "integer",
						"description": "Number of colors to return. Default 5",
						"default":     5,
					},
					"region": regionSchema("Optional region to analyze"),
				},
			},
		},
		{
			Name:        "image_ocr",
			Description: "Extract text from the current image using Tesseract, with word bounding boxes.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"language": map[string]interface{}{
						"type":        "string",
						"description": "Tesseract language code. Defaults to the configured language (eng)",
					},
					"region": regionSchema("Optional region to read; clipped to the image"),
				},
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
