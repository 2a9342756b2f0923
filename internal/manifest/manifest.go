package manifest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// Manifest maps a folder name to the image file names it holds.
//
// Example:
//
//	{
//	  "Lilia":  ["image1.jpg", "image4.png"],
//	  "Leylah": []
//	}
type Manifest map[string][]string

// LoadError reports a manifest resource that could not be fetched or decoded.
type LoadError struct {
	Location string
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load manifest %q: %v", e.Location, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Parse decodes a manifest document. A JSON null decodes to an empty manifest.
func Parse(b []byte) (Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	if m == nil {
		m = Manifest{}
	}
	return m, nil
}

// Load reads a manifest from a local path or an http(s) URL.
func Load(ctx context.Context, location string, client *http.Client) (Manifest, error) {
	var (
		b   []byte
		err error
	)
	if isURL(location) {
		b, err = fetch(ctx, location, client)
	} else {
		b, err = os.ReadFile(location)
	}
	if err != nil {
		return nil, &LoadError{Location: location, Err: err}
	}

	m, err := Parse(b)
	if err != nil {
		return nil, &LoadError{Location: location, Err: err}
	}
	return m, nil
}

// LoadOrEmpty is Load with failures mapped to an empty manifest. Every folder
// then resolves to no images, which surfaces later as NoImagesInFolder.
func LoadOrEmpty(ctx context.Context, location string, client *http.Client, logger *zap.Logger) Manifest {
	m, err := Load(ctx, location, client)
	if err != nil {
		logger.Warn("manifest load failed, using empty manifest", zap.String("location", location), zap.Error(err))
		return Manifest{}
	}
	logger.Info("manifest loaded", zap.String("location", location), zap.Int("folders", len(m)))
	return m
}

// Images returns the file names for folder. Unknown folders yield nil.
func (m Manifest) Images(folder string) []string {
	return m[folder]
}

// Folders returns every folder key in sorted order.
func (m Manifest) Folders() []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Eligible returns, sorted, the folders that hold at least one image.
func (m Manifest) Eligible() []string {
	out := make([]string, 0, len(m))
	for k, v := range m {
		if len(v) > 0 {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// Write stores m as indented JSON at path, creating parent directories.
func (m Manifest) Write(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure manifest dir: %w", err)
		}
	}

	out := m
	if out == nil {
		out = Manifest{}
	}
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	b = append(b, '\n')

	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func fetch(ctx context.Context, url string, client *http.Client) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return b, nil
}
