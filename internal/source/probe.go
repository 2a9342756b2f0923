package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Probe naming pattern: image{1..MaxProbeIndex}{ext} directly under the folder.
const MaxProbeIndex = 20

// ProbeExtensions are tried, in order, for every index.
var ProbeExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

// ProbeResolver discovers images without a listing capability by sending a
// HEAD request for every candidate name. Each Resolve call repeats all
// checks sequentially; nothing is cached.
type ProbeResolver struct {
	BaseURL    string
	Client     *http.Client
	MaxIndex   int
	Extensions []string
	Known      []string
	Logger     *zap.Logger
}

func NewProbeResolver(baseURL string, folders []string, logger *zap.Logger) *ProbeResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProbeResolver{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Client:     &http.Client{Timeout: 10 * time.Second},
		MaxIndex:   MaxProbeIndex,
		Extensions: ProbeExtensions,
		Known:      folders,
		Logger:     logger,
	}
}

func (p *ProbeResolver) Name() string { return "probe" }

func (p *ProbeResolver) Folders() []string {
	return append([]string(nil), p.Known...)
}

// Eligible is the fixed folder list; probe mode never checks contents up front.
func (p *ProbeResolver) Eligible() []string {
	return append([]string(nil), p.Known...)
}

func (p *ProbeResolver) Resolve(ctx context.Context, folder string) ([]string, error) {
	images := make([]string, 0)
	checks := 0

	for i := 1; i <= p.MaxIndex; i++ {
		for _, ext := range p.Extensions {
			name := fmt.Sprintf("image%d%s", i, ext)
			checks++
			if p.exists(ctx, p.candidateURL(folder, name)) {
				images = append(images, name)
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("probe %s: %w", folder, err)
	}

	p.Logger.Debug("probe finished",
		zap.String("folder", folder),
		zap.Int("checks", checks),
		zap.Int("found", len(images)))
	return images, nil
}

func (p *ProbeResolver) candidateURL(folder, name string) string {
	return p.BaseURL + "/" + url.PathEscape(folder) + "/" + name
}

// exists treats any transport failure or non-2xx status as "missing".
func (p *ProbeResolver) exists(ctx context.Context, u string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, u, nil)
	if err != nil {
		return false
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}
