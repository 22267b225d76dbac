// Package server implements the MCP (Model Context Protocol) server for the
// image editor.
//
// The server exposes one editable image and its undo history as MCP tools.
// Clients open a file, apply operations, step through the history and save
// the result.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//   - Logs: stderr, via logrus
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Document:
//   - image_open: Open a file, replacing the current image and history
//   - image_new: Start from a blank canvas with no file path
//   - image_save: Write the current image back to its file
//   - image_save_as: Write the current image to a new file
//   - image_close: Discard the image and history
//
// Editing:
//   - image_apply: Run grayscale, blur, edge_detect, brightness_contrast,
//     rotate, flip, resize or crop and record the result
//   - image_undo, image_redo: Move through the history
//
// Inspection:
//   - image_status: File, dimensions, cursor, history size and OCR backend
//   - image_history: Every recorded version
//   - image_export: Current image as base64 PNG
//   - image_sample_color: Color at a pixel
//   - image_dominant_colors: Color palette
//   - image_ocr: Text via Tesseract
//
// # Error Handling
//
// Tool errors are returned as JSON-RPC error responses:
//   - -32602: malformed or missing tool arguments, unknown tool or operation
//   - -32000: the tool ran and failed (no image loaded, unreadable file, ...)
//   - -32601: unknown method
//
// The data field carries the Go error string.
//
// # Usage
//
//	srv := server.New(cfg, logger)
//	if err := srv.Run(); err != nil {
//	    logger.Fatal(err)
//	}
package server
