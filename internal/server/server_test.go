package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"randomframe/internal/drive"
	"randomframe/pkg/models"
	"randomframe/pkg/utils"
)

type fakeLister struct {
	files []drive.File
}

func (f fakeLister) ListImages(context.Context, string) ([]drive.File, error) {
	return f.files, nil
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func do(h http.Handler, method, path, body string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func manifestConfig(t *testing.T) utils.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := utils.DefaultConfig()
	cfg.Content.Mode = utils.ModeManifest
	cfg.Content.ManifestPath = filepath.Join(dir, "manifest.json")
	cfg.Content.CaptionsPath = filepath.Join(dir, "captions.txt")
	cfg.Content.InitialFolder = "A"
	writeFile(t, cfg.Content.ManifestPath, `{"A": ["x.jpg","y.png"], "B": []}`)
	writeFile(t, cfg.Content.CaptionsPath, "Hi\n\nThere\n")
	return cfg
}

func TestManifestModeRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s, err := New(context.Background(), manifestConfig(t), zap.NewNop(), Deps{})
	require.NoError(t, err)
	require.NotNil(t, s.Widget)
	assert.Nil(t, s.Content)
	h := s.Handler()

	rec := do(h, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","mode":"manifest"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	rec = do(h, http.MethodPost, "/api/folders/select", `{"folder":"B"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(h, http.MethodPost, "/api/generate", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(h, http.MethodPost, "/api/folders/select", `{"folder":"random"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"current":"A"}`, rec.Body.String())

	rec = do(h, http.MethodPost, "/api/generate", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var sel models.Selection
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sel))
	assert.Contains(t, []string{"Hi", "There"}, sel.Caption)

	rec = do(h, http.MethodGet, "/api/random-content", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestManifestModeMissingManifestStillServes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := manifestConfig(t)
	cfg.Content.ManifestPath = filepath.Join(t.TempDir(), "gone.json")

	s, err := New(context.Background(), cfg, nil, Deps{})
	require.NoError(t, err)

	rec := do(s.Handler(), http.MethodPost, "/api/generate", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"No images found in A folder","folder":"A"}`, rec.Body.String())
}

func TestDriveModeRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := utils.DefaultConfig()
	cfg.Content.Mode = utils.ModeDrive
	cfg.Drive.FolderID = "folder1"
	cfg.Content.CaptionsPath = filepath.Join(t.TempDir(), "captions.txt")
	writeFile(t, cfg.Content.CaptionsPath, "only caption\n")

	s, err := New(context.Background(), cfg, zap.NewNop(), Deps{
		Lister: fakeLister{files: []drive.File{{ID: "abc", Name: "a.jpg", WebViewLink: "https://view/abc"}}},
	})
	require.NoError(t, err)
	assert.Nil(t, s.Widget)

	rec := do(s.Handler(), http.MethodGet, "/api/random-content", "", RequestIDHeader, "req-1")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "req-1", rec.Header().Get(RequestIDHeader))

	var resp models.ContentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "abc", resp.Image.ID)
	assert.Equal(t, "https://drive.google.com/uc?export=download&id=abc", resp.Image.DownloadLink)
	assert.Equal(t, "only caption", resp.Caption)
}

func TestDriveModeWithoutFolderID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := utils.DefaultConfig()
	cfg.Content.Mode = utils.ModeDrive

	s, err := New(context.Background(), cfg, zap.NewNop(), Deps{Lister: fakeLister{}})
	require.NoError(t, err)

	rec := do(s.Handler(), http.MethodGet, "/api/random-content", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Folder ID not configured"}`, rec.Body.String())
}

func TestProbeModeAgainstImageHost(t *testing.T) {
	gin.SetMode(gin.TestMode)
	images := t.TempDir()
	writeFile(t, filepath.Join(images, "Lilia", "image3.png"), "png")
	host := httptest.NewServer(http.FileServer(http.Dir(images)))
	defer host.Close()

	cfg := utils.DefaultConfig()
	cfg.Content.Mode = utils.ModeProbe
	cfg.Content.ImageBaseURL = host.URL
	cfg.Content.Folders = []string{"Lilia", "Leylah"}
	cfg.Content.CaptionsPath = filepath.Join(t.TempDir(), "missing.txt")

	s, err := New(context.Background(), cfg, zap.NewNop(), Deps{HTTPClient: host.Client()})
	require.NoError(t, err)
	h := s.Handler()

	rec := do(h, http.MethodPost, "/api/generate", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var sel models.Selection
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sel))
	assert.Equal(t, "Lilia/image3.png", sel.ImageURL)
	assert.Contains(t, []string{"A beautiful moment captured.", "Memories to cherish forever."}, sel.Caption)

	rec = do(h, http.MethodPost, "/api/folders/select", `{"folder":"Leylah"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(h, http.MethodPost, "/api/generate", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStaticDir(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := manifestConfig(t)
	cfg.Server.StaticDir = t.TempDir()
	writeFile(t, filepath.Join(cfg.Server.StaticDir, "A", "x.jpg"), "jpg-bytes")

	s, err := New(context.Background(), cfg, zap.NewNop(), Deps{})
	require.NoError(t, err)

	rec := do(s.Handler(), http.MethodGet, "/A/x.jpg", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "jpg-bytes", rec.Body.String())
}

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := manifestConfig(t)
	cfg.Server.RatePerSecond = 0.001
	cfg.Server.RateBurst = 1

	s, err := New(context.Background(), cfg, zap.NewNop(), Deps{})
	require.NoError(t, err)
	h := s.Handler()

	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/api/folders", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, do(h, http.MethodGet, "/api/folders", "").Code)
	// health is outside the limited group
	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/health", "").Code)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := utils.DefaultConfig()
	cfg.Content.Mode = "ftp"
	_, err := New(context.Background(), cfg, nil, Deps{})
	require.Error(t, err)
}
