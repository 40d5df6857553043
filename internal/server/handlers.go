package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"

	"github.com/ironsheep/certgen/internal/batch"
	"github.com/ironsheep/certgen/internal/imaging"
	"github.com/ironsheep/certgen/internal/render"
	"github.com/ironsheep/certgen/internal/roster"
	"github.com/ironsheep/certgen/internal/shaping"
)

// Defaults for optional tool arguments.
const (
	defaultFontSize    = 48
	defaultColor       = "000000"
	defaultQRSize      = 120
	defaultQRMargin    = 24
	defaultGridSpacing = 50
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "certificate_render").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

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
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	case "roster_load":
		return s.handleRosterLoad(args)
	case "certificate_layout":
		return s.handleCertificateLayout(args)
	case "certificate_render":
		return s.handleCertificateRender(args)
	case "certificates_generate":
		return s.handleCertificatesGenerate(args)
	case "template_grid_overlay":
		return s.handleTemplateGridOverlay(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Roster ===

type rosterLoadArgs struct {
	Path          string `json:"path"`
	Header        bool   `json:"header"`
	SkipMalformed bool   `json:"skip_malformed"`
}

type rosterLoadResult struct {
	Count   int                         `json:"count"`
	Entries []roster.Entry              `json:"entries"`
	Skipped []*roster.MalformedRowError `json:"skipped,omitempty"`
}

func (s *Server) handleRosterLoad(args json.RawMessage) (interface{}, error) {
	var a rosterLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errors.New("path is required")
	}

	r, err := roster.Load(a.Path, roster.Options{Header: a.Header, SkipMalformed: a.SkipMalformed})
	if err != nil {
		return nil, err
	}
	return &rosterLoadResult{Count: len(r.Entries), Entries: r.Entries, Skipped: r.Skipped}, nil
}

// === Single Certificate ===

// textArgs are the arguments shared by every tool that draws a name.
type textArgs struct {
	Template string `json:"template"`
	Font     string `json:"font"`
	FontSize int    `json:"font_size"`
	Color    string `json:"color"`
	X        *int   `json:"x"`
	Y        *int   `json:"y"`
}

func (a *textArgs) applyDefaults() {
	if a.FontSize == 0 {
		a.FontSize = defaultFontSize
	}
	if a.Color == "" {
		a.Color = defaultColor
	}
}

type layoutArgs struct {
	textArgs
	Name    string `json:"name"`
	Preview bool   `json:"preview"`
}

type layoutResult struct {
	Shaped   string                `json:"shaped"`
	RTL      bool                  `json:"rtl"`
	TextBox  boxJSON               `json:"text_box"`
	Fits     bool                  `json:"fits"`
	Template *imaging.TemplateInfo `json:"template"`
	Preview  string                `json:"preview_base64,omitempty"`
	MimeType string                `json:"mime_type,omitempty"`
}

type boxJSON struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

func toBox(r image.Rectangle) boxJSON {
	return boxJSON{X1: r.Min.X, Y1: r.Min.Y, X2: r.Max.X, Y2: r.Max.Y}
}

func (s *Server) handleCertificateLayout(args json.RawMessage) (interface{}, error) {
	var a layoutArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	a.applyDefaults()

	info, err := imaging.LoadTemplateInfo(s.templates, a.Template)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", render.ErrTemplateLoad, err)
	}

	res, err := s.renderer.Compose(render.Request{
		Name:         a.Name,
		TemplatePath: a.Template,
		FontPath:     a.Font,
		FontSize:     a.FontSize,
		X:            a.X,
		Y:            a.Y,
	})
	if err != nil {
		return nil, err
	}

	out := &layoutResult{
		Shaped:   res.Shaped,
		RTL:      shaping.HasRTL(a.Name),
		TextBox:  toBox(res.Text),
		Fits:     res.Text.In(image.Rect(0, 0, info.Width, info.Height)),
		Template: info,
	}
	if a.Preview {
		var buf bytes.Buffer
		if err := png.Encode(&buf, res.Image); err != nil {
			return nil, fmt.Errorf("failed to encode preview: %w", err)
		}
		out.Preview = base64.StdEncoding.EncodeToString(buf.Bytes())
		out.MimeType = "image/png"
	}
	return out, nil
}

type renderArgs struct {
	textArgs
	Name      string `json:"name"`
	Email     string `json:"email"`
	Output    string `json:"output"`
	QRContent string `json:"qr_content"`
	QRSize    int    `json:"qr_size"`
}

type renderResult struct {
	Path    string        `json:"path"`
	Format  render.Format `json:"format"`
	Shaped  string        `json:"shaped"`
	TextBox boxJSON       `json:"text_box"`
}

func (s *Server) handleCertificateRender(args json.RawMessage) (interface{}, error) {
	var a renderArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	a.applyDefaults()

	col, err := imaging.ParseHexColor(a.Color)
	if err != nil {
		return nil, err
	}

	res, err := s.renderer.Render(render.Request{
		Name:         a.Name,
		Email:        a.Email,
		TemplatePath: a.Template,
		OutputPath:   a.Output,
		FontPath:     a.Font,
		FontSize:     a.FontSize,
		Color:        col.RGBA(),
		X:            a.X,
		Y:            a.Y,
		QR:           qrOptions(a.QRContent, a.QRSize),
	})
	if err != nil {
		return nil, err
	}
	return &renderResult{Path: res.Path, Format: res.Format, Shaped: res.Shaped, TextBox: toBox(res.Text)}, nil
}

func qrOptions(content string, size int) render.QROptions {
	if size == 0 {
		size = defaultQRSize
	}
	return render.QROptions{Content: content, Size: size, Margin: defaultQRMargin}
}

// === Batch ===

type generateArgs struct {
	textArgs
	Roster          string `json:"roster"`
	OutputDir       string `json:"output_dir"`
	Format          string `json:"format"`
	Replace         bool   `json:"replace"`
	ContinueOnError bool   `json:"continue_on_error"`
	Header          bool   `json:"header"`
	SkipMalformed   bool   `json:"skip_malformed"`
	QRContent       string `json:"qr_content"`
	QRSize          int    `json:"qr_size"`
	Verify          bool   `json:"verify"`
	VerifyLanguage  string `json:"verify_language"`
}

type generateResult struct {
	*batch.Report
	OutputDir string `json:"output_dir"`
	Error     string `json:"error,omitempty"`
}

// handleCertificatesGenerate runs a batch. Entry failures are reported in
// the result rather than as a tool error, so the caller still sees what was
// written. The MCP transport has no terminal, so existing files are only
// ever skipped or replaced.
func (s *Server) handleCertificatesGenerate(args json.RawMessage) (interface{}, error) {
	var a generateArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	a.applyDefaults()

	col, err := imaging.ParseHexColor(a.Color)
	if err != nil {
		return nil, err
	}
	var format render.Format
	if a.Format != "" {
		if format, err = render.ParseFormat(a.Format); err != nil {
			return nil, err
		}
	}
	overwrite := batch.OverwriteSkip
	if a.Replace {
		overwrite = batch.OverwriteForce
	}

	cfg := batch.Config{
		RosterPath:      a.Roster,
		TemplatePath:    a.Template,
		FontPath:        a.Font,
		OutputDir:       a.OutputDir,
		FontSize:        a.FontSize,
		Color:           col.RGBA(),
		Format:          format,
		Overwrite:       overwrite,
		ContinueOnError: a.ContinueOnError,
		Roster:          roster.Options{Header: a.Header, SkipMalformed: a.SkipMalformed},
		QR:              qrOptions(a.QRContent, a.QRSize),
		Verify:          batch.VerifyOptions{Enabled: a.Verify, Language: a.VerifyLanguage},
	}.WithPosition(a.X, a.Y)

	report, err := batch.Run(cfg, batch.WithRenderer(s.renderer), batch.WithLogger(s.logger))
	if report == nil {
		return nil, err
	}

	out := &generateResult{Report: report, OutputDir: a.OutputDir}
	if err != nil {
		out.Error = err.Error()
	}
	return out, nil
}

// === Template Preview ===

type gridOverlayArgs struct {
	Path            string `json:"path"`
	GridSpacing     int    `json:"grid_spacing"`
	ShowCoordinates *bool  `json:"show_coordinates"`
	GridColor       string `json:"grid_color"`
}

func (s *Server) handleTemplateGridOverlay(args json.RawMessage) (interface{}, error) {
	var a gridOverlayArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.GridSpacing == 0 {
		a.GridSpacing = defaultGridSpacing
	}
	showCoordinates := a.ShowCoordinates == nil || *a.ShowCoordinates

	img, err := s.templates.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.GridOverlay(img, a.GridSpacing, showCoordinates, a.GridColor)
}
