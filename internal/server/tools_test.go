package server

import (
	"testing"

	"github.com/ironsheep/image-edit-mcp/internal/transform"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	expectedTools := []string{
		"image_open",
		"image_new",
		"image_save",
		"image_save_as",
		"image_close",
		"image_apply",
		"image_undo",
		"image_redo",
		"image_status",
		"image_history",
		"image_export",
		"image_sample_color",
		"image_dominant_colors",
		"image_ocr",
	}

	if len(tools) != len(expectedTools) {
		t.Errorf("got %d tools, want %d", len(tools), len(expectedTools))
	}

	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		if _, dup := toolMap[tool.Name]; dup {
			t.Errorf("duplicate tool %s", tool.Name)
		}
		toolMap[tool.Name] = tool
	}

	for _, name := range expectedTools {
		if _, ok := toolMap[name]; !ok {
			t.Errorf("Expected tool %s not found", name)
		}
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}
			if tool.InputSchema["type"] != "object" {
				t.Errorf("InputSchema type: got %v, want 'object'", tool.InputSchema["type"])
			}

			props, ok := tool.InputSchema["properties"].(map[string]interface{})
			if !ok {
				t.Fatal("InputSchema missing properties")
			}

			// Every required field must be a declared property
			if required, ok := tool.InputSchema["required"].([]string); ok {
				for _, field := range required {
					if _, ok := props[field]; !ok {
						t.Errorf("required field %s has no property", field)
					}
				}
			}
		})
	}
}

func TestToolDefinitions_ApplyOperations(t *testing.T) {
	var apply *Tool
	for _, tool := range GetToolDefinitions() {
		if tool.Name == "image_apply" {
			tool := tool
			apply = &tool
		}
	}
	if apply == nil {
		t.Fatal("image_apply not defined")
	}

	props := apply.InputSchema["properties"].(map[string]interface{})
	operation := props["operation"].(map[string]interface{})
	enum := operation["enum"].([]string)

	want := transform.Operations()
	if len(enum) != len(want) {
		t.Fatalf("enum: got %v, want %v", enum, want)
	}
	for i, op := range want {
		if enum[i] != string(op) {
			t.Errorf("enum[%d]: got %s, want %s", i, enum[i], op)
		}
	}

	for _, param := range []string{"kernel_size", "threshold1", "threshold2", "brightness", "contrast", "angle", "mode", "scale_percent", "x1", "y1", "x2", "y2"} {
		if _, ok := props[param]; !ok {
			t.Errorf("image_apply missing parameter %s", param)
		}
	}
}

func TestHandleToolsList(t *testing.T) {
	s, _ := newTestServer(t)

	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: 1, Method: "tools/list"})
	if resp == nil || resp.Error != nil {
		t.Fatalf("unexpected response: %+v", resp)
	}

	result := resp.Result.(map[string]interface{})
	tools, ok := result["tools"].([]Tool)
	if !ok {
		t.Fatalf("tools type: got %T", result["tools"])
	}
	if len(tools) != len(GetToolDefinitions()) {
		t.Errorf("got %d tools", len(tools))
	}
}
