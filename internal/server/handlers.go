package server

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"github.com/ironsheep/image-edit-mcp/internal/history"
	"github.com/ironsheep/image-edit-mcp/internal/imaging"
	"github.com/ironsheep/image-edit-mcp/internal/ocr"
	"github.com/ironsheep/image-edit-mcp/internal/session"
	"github.com/ironsheep/image-edit-mcp/internal/transform"
)

const (
	// defaultColorCount is used by image_dominant_colors when count is omitted.
	defaultColorCount = 5

	// defaultFillColor is used by image_new when color is omitted.
	defaultFillColor = "#FFFFFF"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_open", "image_apply").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// argError marks a tool failure caused by malformed or missing arguments.
type argError struct {
	err error
}

func (e *argError) Error() string { return e.err.Error() }
func (e *argError) Unwrap() error { return e.err }

func badArgs(format string, a ...interface{}) error {
	return &argError{err: fmt.Errorf(format, a...)}
}

// decodeArgs unmarshals tool arguments, treating absent arguments as {}.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 || gjson.ParseBytes(args).Type == gjson.Null {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return &argError{err: err}
	}
	return nil
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Argument errors return code -32602; every other tool failure returns -32000
// with the Go error string as data.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		entry := s.log.WithFields(logrus.Fields{"tool": params.Name, "error": err})

		var ae *argError
		if errors.As(err, &ae) {
			entry.Warn("invalid tool arguments")
			return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
		}
		entry.Warn("tool failed")
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}

	s.log.WithField("tool", params.Name).Debug("tool completed")
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
	// Document
	case "image_open":
		return s.handleImageOpen(args)
	case "image_new":
		return s.handleImageNew(args)
	case "image_save":
		return s.doc.Save()
	case "image_save_as":
		return s.handleImageSaveAs(args)
	case "image_close":
		s.doc.Close()
		return s.doc.Status(), nil

	// Editing
	case "image_apply":
		return s.handleImageApply(args)
	case "image_undo":
		return moveResult{Moved: s.doc.Undo(), Status: s.doc.Status()}, nil
	case "image_redo":
		return moveResult{Moved: s.doc.Redo(), Status: s.doc.Status()}, nil

	// Inspection
	case "image_status":
		return s.handleImageStatus(), nil
	case "image_history":
		return s.handleImageHistory()
	case "image_export":
		return s.handleImageExport()
	case "image_sample_color":
		return s.handleImageSampleColor(args)
	case "image_dominant_colors":
		return s.handleImageDominantColors(args)
	case "image_ocr":
		return s.handleImageOCR(args)

	default:
		return nil, badArgs("unknown tool: %s", name)
	}
}

// === Document Handlers ===

type imagePathArgs struct {
	Path string `json:"path"`
}

func (a *imagePathArgs) decode(args json.RawMessage) error {
	if err := decodeArgs(args, a); err != nil {
		return err
	}
	if a.Path == "" {
		return badArgs("path is required")
	}
	return nil
}

func (s *Server) handleImageOpen(args json.RawMessage) (interface{}, error) {
	var a imagePathArgs
	if err := a.decode(args); err != nil {
		return nil, err
	}
	if err := s.doc.Open(a.Path); err != nil {
		return nil, err
	}
	return s.doc.Status(), nil
}

type imageNewArgs struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Color  string `json:"color"`
}

func (s *Server) handleImageNew(args json.RawMessage) (interface{}, error) {
	var a imageNewArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Width <= 0 || a.Height <= 0 {
		return nil, badArgs("width and height must be positive, got %dx%d", a.Width, a.Height)
	}
	if a.Width*a.Height > transform.MaxPixels {
		return nil, badArgs("%dx%d exceeds %d pixels", a.Width, a.Height, transform.MaxPixels)
	}
	if a.Color == "" {
		a.Color = defaultFillColor
	}
	r, g, b, err := imaging.ParseHex(a.Color)
	if err != nil {
		return nil, &argError{err: err}
	}

	if err := s.doc.OpenImage(imaging.NewSolidBuffer(a.Width, a.Height, r, g, b)); err != nil {
		return nil, err
	}
	return s.doc.Status(), nil
}

func (s *Server) handleImageSaveAs(args json.RawMessage) (interface{}, error) {
	var a imagePathArgs
	if err := a.decode(args); err != nil {
		return nil, err
	}
	return s.doc.SaveAs(a.Path)
}

// === Editing Handlers ===

// imageApplyArgs uses pointers so omitted parameters fall back to the
// configured defaults.
type imageApplyArgs struct {
	Operation    string   `json:"operation"`
	KernelSize   *int     `json:"kernel_size"`
	Threshold1   *int     `json:"threshold1"`
	Threshold2   *int     `json:"threshold2"`
	Brightness   *int     `json:"brightness"`
	Contrast     *float64 `json:"contrast"`
	Angle        *float64 `json:"angle"`
	Mode         *string  `json:"mode"`
	ScalePercent *float64 `json:"scale_percent"`
	X1           int      `json:"x1"`
	Y1           int      `json:"y1"`
	X2           int      `json:"x2"`
	Y2           int      `json:"y2"`
}

// params overlays the given arguments on defaults.
func (a *imageApplyArgs) params(defaults transform.Params) transform.Params {
	p := defaults
	if a.KernelSize != nil {
		p.KernelSize = *a.KernelSize
	}
	if a.Threshold1 != nil {
		p.Threshold1 = *a.Threshold1
	}
	if a.Threshold2 != nil {
		p.Threshold2 = *a.Threshold2
	}
	if a.Brightness != nil {
		p.Brightness = *a.Brightness
	}
	if a.Contrast != nil {
		p.Contrast = *a.Contrast
	}
	if a.Angle != nil {
		p.Angle = *a.Angle
	}
	if a.Mode != nil {
		p.Mode = *a.Mode
	}
	if a.ScalePercent != nil {
		p.ScalePercent = *a.ScalePercent
	}
	p.Region = imaging.Region{X1: a.X1, Y1: a.Y1, X2: a.X2, Y2: a.Y2}
	return p
}

type applyResult struct {
	Description string         `json:"description"`
	Status      session.Status `json:"status"`
}

type moveResult struct {
	Moved  bool           `json:"moved"`
	Status session.Status `json:"status"`
}

func (s *Server) handleImageApply(args json.RawMessage) (interface{}, error) {
	// Operation is resolved before the full decode
	name := gjson.GetBytes(args, "operation")
	if !name.Exists() || name.Type != gjson.String {
		return nil, badArgs("operation is required")
	}
	op, err := transform.ParseOperation(name.String())
	if err != nil {
		return nil, &argError{err: err}
	}

	if op == transform.OpCrop {
		for _, coord := range gjson.GetManyBytes(args, "x1", "y1", "x2", "y2") {
			if !coord.Exists() {
				return nil, badArgs("crop requires x1, y1, x2 and y2")
			}
		}
	}

	var a imageApplyArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	desc, err := s.doc.Apply(op, a.params(s.doc.DefaultParams()))
	if errors.Is(err, transform.ErrParamOutOfRange) {
		return nil, &argError{err: err}
	}
	if err != nil {
		return nil, err
	}
	return applyResult{Description: desc, Status: s.doc.Status()}, nil
}

// === Inspection Handlers ===

type statusResult struct {
	session.Status
	OCR ocr.Info `json:"ocr"`
}

func (s *Server) handleImageStatus() statusResult {
	if s.ocrInfo == nil {
		info := ocr.GetInfo()
		s.ocrInfo = &info
	}
	return statusResult{Status: s.doc.Status(), OCR: *s.ocrInfo}
}

type historyResult struct {
	Entries []history.Entry `json:"entries"`
	Cursor  int             `json:"cursor"`
}

func (s *Server) handleImageHistory() (interface{}, error) {
	return historyResult{
		Entries: s.doc.History(),
		Cursor:  s.doc.Status().Cursor,
	}, nil
}

func (s *Server) handleImageExport() (interface{}, error) {
	img, err := s.doc.Current()
	if err != nil {
		return nil, err
	}
	return imaging.ExportPNG(img)
}

type imageSampleColorArgs struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (s *Server) handleImageSampleColor(args json.RawMessage) (interface{}, error) {
	var a imageSampleColorArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.doc.Current()
	if err != nil {
		return nil, err
	}
	return imaging.SampleColor(img, a.X, a.Y)
}

type imageDominantColorsArgs struct {
	Count  int             `json:"count"`
	Region *imaging.Region `json:"region"`
}

func (s *Server) handleImageDominantColors(args json.RawMessage) (interface{}, error) {
	var a imageDominantColorsArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Count == 0 {
		a.Count = defaultColorCount
	}
	img, err := s.doc.Current()
	if err != nil {
		return nil, err
	}
	return imaging.DominantColors(img, a.Count, a.Region)
}

type imageOCRArgs struct {
	Language string          `json:"language"`
	Region   *imaging.Region `json:"region"`
}

func (s *Server) handleImageOCR(args json.RawMessage) (interface{}, error) {
	var a imageOCRArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Language == "" {
		a.Language = s.cfg.OCR.Language
	}
	img, err := s.doc.Current()
	if err != nil {
		return nil, err
	}
	return ocr.Extract(img, ocr.Options{Language: a.Language, Region: a.Region})
}
