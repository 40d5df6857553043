package web

import (
	_ "embed"
	"errors"
	"image/color"
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/ironsheep/certgen/internal/batch"
	"github.com/ironsheep/certgen/internal/render"
)

//go:embed index.html
var indexHTML []byte

// The form has no text settings; names are always drawn 48px black and
// centered.
const defaultFontSize = 48

var defaultColor = color.RGBA{0, 0, 0, 255}

// GenerateRequest is the body of POST /api/generate.
type GenerateRequest struct {
	Roster    string `json:"roster" binding:"required"`
	Template  string `json:"template" binding:"required"`
	Font      string `json:"font" binding:"required"`
	OutputDir string `json:"output_dir" binding:"required"`
	Replace   bool   `json:"replace"`
}

// Progress is the body of GET /api/progress.
type Progress struct {
	Running bool `json:"running"`
	Done    int  `json:"done"`
	Total   int  `json:"total"`
}

// Handler serves the generator page and its API. One batch runs at a time.
type Handler struct {
	renderer *render.Renderer
	logger   *log.Logger

	mu       sync.Mutex
	progress Progress
}

// NewHandler creates a Handler. A nil renderer gets a private one.
func NewHandler(renderer *render.Renderer, logger *log.Logger) *Handler {
	if renderer == nil {
		renderer = render.New(nil)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{renderer: renderer, logger: logger}
}

// RegisterRoutes mounts the page and API on r.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/", h.Index)
	r.GET("/health", h.Health)

	api := r.Group("/api")
	{
		api.POST("/generate", h.Generate)
		api.GET("/progress", h.Progress)
	}
}

// NewRouter returns an engine with recovery middleware and all routes.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	h.RegisterRoutes(r)
	return r
}

func (h *Handler) Index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) Progress(c *gin.Context) {
	h.mu.Lock()
	p := h.progress
	h.mu.Unlock()
	c.JSON(http.StatusOK, p)
}

// Generate runs a batch with the form's fixed settings: 48px black text,
// centered, PDF output. It responds when the batch has finished.
func (h *Handler) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !h.start() {
		c.JSON(http.StatusConflict, gin.H{"error": "a batch is already running"})
		return
	}
	defer h.finish()

	overwrite := batch.OverwriteSkip
	if req.Replace {
		overwrite = batch.OverwriteForce
	}
	cfg := batch.Config{
		RosterPath:   req.Roster,
		TemplatePath: req.Template,
		FontPath:     req.Font,
		OutputDir:    req.OutputDir,
		FontSize:     defaultFontSize,
		Color:        defaultColor,
		Format:       render.FormatPDF,
		Overwrite:    overwrite,
	}

	report, err := batch.Run(cfg,
		batch.WithRenderer(h.renderer),
		batch.WithLogger(h.logger),
		batch.WithProgress(h.track),
	)

	var pathErr *batch.PathError
	switch {
	case report == nil && errors.As(err, &pathErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": pathErr.Kind})
	case report == nil:
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "report": report})
	default:
		h.logger.Printf("Total of \"%d\" files made in %q.", report.Written, req.OutputDir)
		c.JSON(http.StatusOK, gin.H{"report": report})
	}
}

func (h *Handler) start() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.progress.Running {
		return false
	}
	h.progress = Progress{Running: true}
	return true
}

func (h *Handler) finish() {
	h.mu.Lock()
	h.progress.Running = false
	h.mu.Unlock()
}

func (h *Handler) track(e batch.Event) {
	h.mu.Lock()
	h.progress.Done = e.Index
	h.progress.Total = e.Total
	h.mu.Unlock()
}
