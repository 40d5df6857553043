package server

import (
	"testing"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	expectedTools := []string{
		"roster_load",
		"certificate_layout",
		"certificate_render",
		"certificates_generate",
		"template_grid_overlay",
	}

	if len(tools) != len(expectedTools) {
		t.Errorf("got %d tools, want %d", len(tools), len(expectedTools))
	}

	toolMap := make(map[string]Tool)
	for _, tool := range tools {
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
				t.Fatal("InputSchema properties should be a map")
			}

			required, ok := tool.InputSchema["required"].([]string)
			if !ok || len(required) == 0 {
				t.Fatal("InputSchema should list required properties")
			}
			for _, name := range required {
				if _, ok := props[name]; !ok {
					t.Errorf("required property %q is not defined", name)
				}
			}
		})
	}
}

func TestToolDefinitions_Defaults(t *testing.T) {
	tests := []struct {
		tool     string
		property string
		want     interface{}
	}{
		{"certificate_render", "font_size", defaultFontSize},
		{"certificate_render", "color", defaultColor},
		{"certificates_generate", "format", "pdf"},
		{"certificates_generate", "replace", false},
		{"template_grid_overlay", "grid_spacing", defaultGridSpacing},
	}

	tools := make(map[string]Tool)
	for _, tool := range GetToolDefinitions() {
		tools[tool.Name] = tool
	}

	for _, tt := range tests {
		t.Run(tt.tool+"/"+tt.property, func(t *testing.T) {
			props := tools[tt.tool].InputSchema["properties"].(map[string]interface{})
			prop, ok := props[tt.property].(map[string]interface{})
			if !ok {
				t.Fatalf("property %s missing", tt.property)
			}
			if prop["default"] != tt.want {
				t.Errorf("default: got %v, want %v", prop["default"], tt.want)
			}
		})
	}
}

func TestHandleToolsList(t *testing.T) {
	s := newTestServer()
	resp := s.handleToolsList(&MCPRequest{JSONRPC: "2.0", ID: 1, Method: "tools/list"})

	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}
	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	tools, ok := result["tools"].([]Tool)
	if !ok {
		t.Fatal("tools should be []Tool")
	}
	if len(tools) != len(GetToolDefinitions()) {
		t.Errorf("got %d tools", len(tools))
	}
}
