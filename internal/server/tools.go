package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// Properties shared by the render and generate tools.
var (
	templateProp = map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the certificate template image (PNG, JPEG, GIF, TIFF or BMP)",
	}
	fontProp = map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to a TrueType or OpenType font file",
	}
	fontSizeProp = map[string]interface{}{
		"type":        "integer",
		"description": "Font size in pixels. Default 48",
		"default":     48,
	}
	colorProp = map[string]interface{}{
		"type":        "string",
		"description": "Text color as hex (e.g. '000000', '#1A237E'). Default black",
		"default":     "000000",
	}
	xProp = map[string]interface{}{
		"type":        "integer",
		"description": "Left edge of the name in pixels. Omit to center horizontally",
	}
	yProp = map[string]interface{}{
		"type":        "integer",
		"description": "Top edge of the name in pixels. Omit to center vertically",
	}
	qrContentProp = map[string]interface{}{
		"type":        "string",
		"description": "Optional QR code content drawn bottom-right. {name} and {email} are replaced per person",
	}
	qrSizeProp = map[string]interface{}{
		"type":        "integer",
		"description": "QR code edge length in pixels. Default 120",
		"default":     120,
	}
)

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "roster_load",
			Description: "Load a roster of (name, email) rows from a CSV or XLSX file and return the normalized entries. Names are trimmed and title-cased.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the roster file (.csv or .xlsx)",
					},
					"header": map[string]interface{}{
						"type":        "boolean",
						"description": "Skip the first row as a header. Default false",
						"default":     false,
					},
					"skip_malformed": map[string]interface{}{
						"type":        "boolean",
						"description": "Skip rows with fewer than two fields instead of failing. Default false",
						"default":     false,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "certificate_layout",
			Description: "Compute where a name would be drawn on a template without writing a file. Returns the shaped text, its bounding box and the template size. Use this to check that a long name fits before generating.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"name": map[string]interface{}{
						"type":        "string",
						"description": "Name to lay out, as it appears in the roster",
					},
					"template":  templateProp,
					"font":      fontProp,
					"font_size": fontSizeProp,
					"x":         xProp,
					"y":         yProp,
					"preview": map[string]interface{}{
						"type":        "boolean",
						"description": "Also return the composed certificate as base64-encoded PNG. Default false",
						"default":     false,
					},
				},
				"required": []string{"name", "template", "font"},
			},
		},
		{
			Name:        "certificate_render",
			Description: "Render a single certificate for one person and write it to the output path. The output format follows the file extension (.pdf, .png, .jpg, .gif, .tif, .bmp).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"name": map[string]interface{}{
						"type":        "string",
						"description": "Person's name. Right-to-left names are shaped automatically",
					},
					"email": map[string]interface{}{
						"type":        "string",
						"description": "Person's email, used in QR content and document metadata",
					},
					"template": templateProp,
					"font":     fontProp,
					"output": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path of the file to write. Overwritten if it exists",
					},
					"font_size":  fontSizeProp,
					"color":      colorProp,
					"x":          xProp,
					"y":          yProp,
					"qr_content": qrContentProp,
					"qr_size":    qrSizeProp,
				},
				"required": []string{"name", "template", "font", "output"},
			},
		},
		{
			Name:        "certificates_generate",
			Description: "Generate one certificate per roster entry into an output directory, named <template>+<name>+<email>.<ext>. Existing files are skipped unless replace is set. Returns a report of written, skipped and failed entries.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"roster": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the roster file (.csv or .xlsx)",
					},
					"template": templateProp,
					"font":     fontProp,
					"output_dir": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the output directory. Created if missing",
					},
					"font_size": fontSizeProp,
					"color":     colorProp,
					"x":         xProp,
					"y":         yProp,
					"format": map[string]interface{}{
						"type":        "string",
						"description": "Output format: pdf, png, jpeg, gif, tiff or bmp. Default pdf",
						"enum":        []string{"pdf", "png", "jpeg", "gif", "tiff", "bmp"},
						"default":     "pdf",
					},
					"replace": map[string]interface{}{
						"type":        "boolean",
						"description": "Overwrite existing certificates. Default false",
						"default":     false,
					},
					"continue_on_error": map[string]interface{}{
						"type":        "boolean",
						"description": "Keep going after a failed entry instead of stopping. Default false",
						"default":     false,
					},
					"header": map[string]interface{}{
						"type":        "boolean",
						"description": "Skip the first roster row as a header. Default false",
						"default":     false,
					},
					"skip_malformed": map[string]interface{}{
						"type":        "boolean",
						"description": "Skip roster rows with fewer than two fields. Default false",
						"default":     false,
					},
					"qr_content": qrContentProp,
					"qr_size":    qrSizeProp,
					"verify": map[string]interface{}{
						"type":        "boolean",
						"description": "Read each name back with OCR and report mismatches. Default false",
						"default":     false,
					},
					"verify_language": map[string]interface{}{
						"type":        "string",
						"description": "Tesseract language for verification (e.g. 'eng', 'ara'). Default 'eng'",
						"default":     "eng",
					},
				},
				"required": []string{"roster", "template", "font", "output_dir"},
			},
		},
		{
			Name:        "template_grid_overlay",
			Description: "Draw a labeled coordinate grid over a template and return it as base64-encoded PNG. Center lines are drawn in blue. Use this to choose explicit x/y positions for names.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": templateProp,
					"grid_spacing": map[string]interface{}{
						"type":        "integer",
						"description": "Pixels between grid lines. Default 50",
						"default":     50,
					},
					"show_coordinates": map[string]interface{}{
						"type":        "boolean",
						"description": "Label grid intersections with coordinates. Default true",
						"default":     true,
					},
					"grid_color": map[string]interface{}{
						"type":        "string",
						"description": "Grid line color as hex. Default red",
						"default":     "FF0000",
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
