package server

import (
	"testing"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	if len(tools) == 0 {
		t.Fatal("GetToolDefinitions returned empty slice")
	}

	expectedTools := []string{
		"image_load",
		"image_average_color",
		"color_contrast",
		"proxy_url",
		"image_theme",
		"image_theme_batch",
		"image_theme_swatch",
		"html_missing_alt",
		"date_days_between",
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
	if len(tools) != len(expectedTools) {
		t.Errorf("Tool count: got %d, want %d", len(tools), len(expectedTools))
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	tools := GetToolDefinitions()

	for _, tool := range tools {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Name == "" {
				t.Error("Tool name is empty")
			}
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}
			if tool.InputSchema == nil {
				t.Fatal("InputSchema is nil")
			}
			if tool.InputSchema["type"] != "object" {
				t.Errorf("InputSchema type: got %v, want object", tool.InputSchema["type"])
			}
			if _, ok := tool.InputSchema["properties"].(map[string]interface{}); !ok {
				t.Error("InputSchema properties should be a map")
			}

			// Every required field must be a declared property.
			required, _ := tool.InputSchema["required"].([]string)
			props, _ := tool.InputSchema["properties"].(map[string]interface{})
			for _, name := range required {
				if _, ok := props[name]; !ok {
					t.Errorf("required field %s has no property", name)
				}
			}
		})
	}
}

func TestToolDefinitions_ImageSources(t *testing.T) {
	tools := GetToolDefinitions()
	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		toolMap[tool.Name] = tool
	}

	for _, name := range []string{"image_average_color", "image_theme", "image_theme_swatch"} {
		t.Run(name, func(t *testing.T) {
			props := toolMap[name].InputSchema["properties"].(map[string]interface{})
			for _, p := range []string{"path", "url", "direct", "cache_bust"} {
				if _, ok := props[p]; !ok {
					t.Errorf("missing source property %s", p)
				}
			}
		})
	}
}

func TestToolDefinitions_KindEnum(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		if tool.Name != "image_theme" {
			continue
		}
		props := tool.InputSchema["properties"].(map[string]interface{})
		kind := props["kind"].(map[string]interface{})

		enum, ok := kind["enum"].([]string)
		if !ok {
			t.Fatal("kind enum should be []string")
		}
		if len(enum) != 2 || enum[0] != "card" || enum[1] != "row" {
			t.Errorf("kind enum: got %v, want [card row]", enum)
		}
		if kind["default"] != "card" {
			t.Errorf("kind default: got %v, want card", kind["default"])
		}
		return
	}
	t.Fatal("image_theme not found")
}

func TestToolDefinitions_OptionalDefaults(t *testing.T) {
	tools := GetToolDefinitions()
	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		toolMap[tool.Name] = tool
	}

	tests := []struct {
		tool  string
		param string
		want  interface{}
	}{
		{"image_theme", "selector", ".themed"},
		{"image_theme", "dark_mode", false},
		{"image_theme_swatch", "width", 320},
		{"image_theme_swatch", "height", 120},
		{"html_missing_alt", "mark", false},
		{"proxy_url", "direct", false},
	}

	for _, tt := range tests {
		t.Run(tt.tool+"."+tt.param, func(t *testing.T) {
			props := toolMap[tt.tool].InputSchema["properties"].(map[string]interface{})
			param, ok := props[tt.param].(map[string]interface{})
			if !ok {
				t.Fatalf("parameter %s not found", tt.param)
			}
			if param["default"] != tt.want {
				t.Errorf("default: got %v, want %v", param["default"], tt.want)
			}
		})
	}
}

func TestHandleToolsList(t *testing.T) {
	s := New()
	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
	}

	resp := s.handleToolsList(req)

	if resp == nil {
		t.Fatal("handleToolsList returned nil")
	}
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	toolsList, ok := result["tools"].([]Tool)
	if !ok {
		t.Fatal("tools should be a slice of Tool")
	}

	expected := GetToolDefinitions()
	if len(toolsList) != len(expected) {
		t.Errorf("Tool count: got %d, want %d", len(toolsList), len(expected))
	}
}
