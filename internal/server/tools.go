package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// sourceProperties are shared by every tool that reads one image. Exactly
// one of path or url must be given.
func sourceProperties() map[string]interface{} {
	return map[string]interface{}{
		"path": map[string]interface{}{
			"type":        "string",
			"description": "Absolute path to a local image file",
		},
		"url": map[string]interface{}{
			"type":        "string",
			"description": "http(s) URL of a remote image. Fetched through the image proxy unless direct is true",
		},
		"direct": map[string]interface{}{
			"type":        "boolean",
			"description": "Fetch the url without the image proxy. Default false",
			"default":     false,
		},
		"cache_bust": map[string]interface{}{
			"type":        "boolean",
			"description": "Append a millisecond timestamp to the url before proxying. Default false",
			"default":     false,
		},
	}
}

func themeProperties() map[string]interface{} {
	props := sourceProperties()
	props["kind"] = map[string]interface{}{
		"type":        "string",
		"enum":        []string{"card", "row"},
		"description": "Element kind. card paints a 135deg gradient; row paints a flat tint and sets text and link colors. Default card",
		"default":     "card",
	}
	props["dark_mode"] = map[string]interface{}{
		"type":        "boolean",
		"description": "Style for a dark page. Cards start from the dark surface with a stronger tint. Default false",
		"default":     false,
	}
	return props
}

func regionProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"description": "Optional sub-rectangle to average instead of the whole image",
		"properties": map[string]interface{}{
			"x1": map[string]interface{}{"type": "integer", "description": "Left edge X coordinate (inclusive)"},
			"y1": map[string]interface{}{"type": "integer", "description": "Top edge Y coordinate (inclusive)"},
			"x2": map[string]interface{}{"type": "integer", "description": "Right edge X coordinate (exclusive)"},
			"y2": map[string]interface{}{"type": "integer", "description": "Bottom edge Y coordinate (exclusive)"},
		},
		"required": []string{"x1", "y1", "x2", "y2"},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	avgProps := sourceProperties()
	avgProps["region"] = regionProperty()

	themeProps := themeProperties()
	themeProps["target"] = map[string]interface{}{
		"type":        "string",
		"description": "Optional element identifier. A newer request for the same target supersedes an older one still in flight",
	}
	themeProps["selector"] = map[string]interface{}{
		"type":        "string",
		"description": "CSS selector used when rendering the rule block. Default .themed",
		"default":     ".themed",
	}

	swatchProps := themeProperties()
	swatchProps["width"] = map[string]interface{}{
		"type":        "integer",
		"description": "Swatch width in pixels. Default 320",
		"default":     320,
	}
	swatchProps["height"] = map[string]interface{}{
		"type":        "integer",
		"description": "Swatch height in pixels. Default 120",
		"default":     120,
	}

	itemProps := themeProperties()
	itemProps["target"] = map[string]interface{}{
		"type":        "string",
		"description": "Optional element identifier",
	}

	return []Tool{
		// Image Information
		{
			Name:        "image_load",
			Description: "Load a local image file and return its dimensions, decoded format, alpha support and file size.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},

		// Color Operations
		{
			Name:        "image_average_color",
			Description: "Average the color of every non-transparent pixel of an image and pick black or white as the readable text color for it.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": avgProps,
			},
		},
		{
			Name:        "color_contrast",
			Description: "Pick black or white text for a background color using perceived luma (0.299 R + 0.587 G + 0.114 B). Luma of 128 or more gives black.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"hex": map[string]interface{}{
						"type":        "string",
						"description": "Color as #RRGGBB. Used when r, g and b are not given",
					},
					"r": map[string]interface{}{"type": "integer", "minimum": 0, "maximum": 255},
					"g": map[string]interface{}{"type": "integer", "minimum": 0, "maximum": 255},
					"b": map[string]interface{}{"type": "integer", "minimum": 0, "maximum": 255},
				},
			},
		},

		// Theming
		{
			Name:        "proxy_url",
			Description: "Show the URL a remote image would actually be fetched from after proxy rewriting.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"url": map[string]interface{}{
						"type":        "string",
						"description": "Original image URL",
					},
					"direct": map[string]interface{}{
						"type":        "boolean",
						"description": "Bypass the proxy. Default false",
						"default":     false,
					},
					"cache_bust": map[string]interface{}{
						"type":        "boolean",
						"description": "Append a millisecond timestamp before encoding. Default false",
						"default":     false,
					},
				},
				"required": []string{"url"},
			},
		},
		{
			Name:        "image_theme",
			Description: "Derive CSS for a card or table row from the average color of an image. Returns the declarations, a CSS rule block and an inline style.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": themeProps,
			},
		},
		{
			Name:        "image_theme_batch",
			Description: "Style many elements at once. Images are processed concurrently; results keep the order of the items and failures are reported per item.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"items": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type":       "object",
							"properties": itemProps,
						},
					},
				},
				"required": []string{"items"},
			},
		},
		{
			Name:        "image_theme_swatch",
			Description: "Render the themed background for an image as a PNG preview (base64 encoded).",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": swatchProps,
			},
		},

		// Accessibility
		{
			Name:        "html_missing_alt",
			Description: "Find <img> elements whose alt text is missing or empty. Optionally mark them with a blue border and draft alt text for local images with OCR.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"html": map[string]interface{}{
						"type":        "string",
						"description": "HTML document to scan",
					},
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Path to an HTML file. Used when html is empty",
					},
					"mark": map[string]interface{}{
						"type":        "boolean",
						"description": "Return the document with offending images outlined. Default false",
						"default":     false,
					},
					"mark_style": map[string]interface{}{
						"type":        "string",
						"description": "Inline style added to offending images. Default 'border: 5px solid blue'",
					},
					"suggest_alt": map[string]interface{}{
						"type":        "boolean",
						"description": "Draft alt text for local images with OCR. Default false",
						"default":     false,
					},
					"base_dir": map[string]interface{}{
						"type":        "string",
						"description": "Directory that relative image sources resolve against. Defaults to the HTML file's directory",
					},
				},
			},
		},

		// Dates
		{
			Name:        "date_days_between",
			Description: "Whole days between two dates, rounded half up. Accepts RFC 3339 timestamps or YYYY-MM-DD.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"from": map[string]interface{}{
						"type":        "string",
						"description": "First date",
					},
					"to": map[string]interface{}{
						"type":        "string",
						"description": "Second date",
					},
				},
				"required": []string{"from", "to"},
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
