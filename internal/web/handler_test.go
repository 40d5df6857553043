package web

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter() (*Handler, *gin.Engine) {
	h := NewHandler(nil, log.New(io.Discard, "", 0))
	return h, NewRouter(h)
}

// writeJob writes a template, font and two-person roster and returns a
// request generating into <tmp>/out.
func writeJob(t *testing.T) GenerateRequest {
	t.Helper()
	dir := t.TempDir()

	img := image.NewRGBA(image.Rect(0, 0, 300, 120))
	for y := 0; y < 120; y++ {
		for x := 0; x < 300; x++ {
			img.Set(x, y, color.White)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	template := filepath.Join(dir, "award.png")
	require.NoError(t, os.WriteFile(template, buf.Bytes(), 0o644))

	font := filepath.Join(dir, "font.ttf")
	require.NoError(t, os.WriteFile(font, goregular.TTF, 0o644))

	roster := filepath.Join(dir, "people.csv")
	require.NoError(t, os.WriteFile(roster, []byte("ann,ann@example.com\nbob,bob@example.com\n"), 0o644))

	return GenerateRequest{
		Roster:    roster,
		Template:  template,
		Font:      font,
		OutputDir: filepath.Join(dir, "out"),
	}
}

func postGenerate(t *testing.T, r http.Handler, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/generate", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type generateResponse struct {
	Error  string `json:"error"`
	Kind   string `json:"kind"`
	Report *struct {
		Total   int      `json:"total"`
		Written int      `json:"written"`
		Skipped int      `json:"skipped"`
		Files   []string `json:"files"`
	} `json:"report"`
}

func TestIndex(t *testing.T) {
	_, r := newTestRouter()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "Generate")
	assert.Contains(t, w.Body.String(), "<progress")
}

func TestHealth(t *testing.T) {
	_, r := newTestRouter()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestProgress_Idle(t *testing.T) {
	_, r := newTestRouter()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/progress", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"running":false,"done":0,"total":0}`, w.Body.String())
}

func TestGenerate(t *testing.T) {
	_, r := newTestRouter()
	job := writeJob(t)

	w := postGenerate(t, r, job)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp generateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Report)
	assert.Equal(t, 2, resp.Report.Total)
	assert.Equal(t, 2, resp.Report.Written)
	for _, f := range resp.Report.Files {
		assert.Equal(t, ".pdf", filepath.Ext(f))
		assert.FileExists(t, f)
	}

	// Progress reflects the finished batch.
	pw := httptest.NewRecorder()
	r.ServeHTTP(pw, httptest.NewRequest(http.MethodGet, "/api/progress", nil))
	assert.JSONEq(t, `{"running":false,"done":2,"total":2}`, pw.Body.String())
}

func TestGenerate_SkipsThenReplaces(t *testing.T) {
	_, r := newTestRouter()
	job := writeJob(t)

	require.Equal(t, http.StatusOK, postGenerate(t, r, job).Code)

	var resp generateResponse
	w := postGenerate(t, r, job)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Report.Written)
	assert.Equal(t, 2, resp.Report.Skipped)

	job.Replace = true
	w = postGenerate(t, r, job)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Report.Written)
}

func TestGenerate_MissingFields(t *testing.T) {
	_, r := newTestRouter()
	w := postGenerate(t, r, map[string]string{"roster": "people.csv"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerate_InvalidPath(t *testing.T) {
	_, r := newTestRouter()
	job := writeJob(t)
	job.Font = filepath.Join(filepath.Dir(job.Font), "missing.ttf")

	w := postGenerate(t, r, job)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp generateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "font", resp.Kind)
	assert.NoDirExists(t, job.OutputDir)
}

func TestGenerate_MalformedRoster(t *testing.T) {
	_, r := newTestRouter()
	job := writeJob(t)
	require.NoError(t, os.WriteFile(job.Roster, []byte("ann,ann@example.com\nlonely\n"), 0o644))

	w := postGenerate(t, r, job)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "roster row 2")
}

func TestGenerate_EntryFailureReturnsReport(t *testing.T) {
	_, r := newTestRouter()
	job := writeJob(t)
	// A directory where Bob's certificate would go makes only that entry fail.
	require.NoError(t, os.MkdirAll(filepath.Join(job.OutputDir, "award+Bob+bob@example.com.pdf"), 0o755))

	w := postGenerate(t, r, job)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp generateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Error)
	require.NotNil(t, resp.Report)
	assert.Equal(t, 1, resp.Report.Written)
}

func TestGenerate_ConflictWhileRunning(t *testing.T) {
	h, r := newTestRouter()
	require.True(t, h.start())
	defer h.finish()

	w := postGenerate(t, r, writeJob(t))
	assert.Equal(t, http.StatusConflict, w.Code)
}
