package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"randomframe/internal/captions"
	"randomframe/internal/content"
	"randomframe/internal/display"
	"randomframe/internal/drive"
	"randomframe/internal/manifest"
	"randomframe/internal/source"
	"randomframe/internal/widget"
	"randomframe/pkg/utils"
)

// Server is the HTTP surface for whichever content mode is configured.
type Server struct {
	Router  *gin.Engine
	Hub     *display.Hub
	Widget  *widget.Widget   // manifest and probe modes
	Content *content.Handler // drive mode

	cfg    utils.Config
	logger *zap.Logger
}

// Deps overrides collaborators that would otherwise be built from config.
type Deps struct {
	Lister     drive.Lister
	HTTPClient *http.Client
}

// New builds every component for cfg.Content.Mode and registers routes.
// Resources (manifest, captions) are loaded once here and kept for the
// life of the process.
func New(ctx context.Context, cfg utils.Config, logger *zap.Logger, deps Deps) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if !cfg.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		Router: gin.New(),
		Hub:    display.NewHub(logger.Named("display")),
		cfg:    cfg,
		logger: logger,
	}

	switch cfg.Content.Mode {
	case utils.ModeDrive:
		lister := deps.Lister
		if lister == nil {
			lister = drive.NewLazyClient(cfg.Drive.CredentialsFile)
		}
		s.Content = content.NewHandler(cfg.Drive.FolderID, cfg.Content.CaptionsPath, lister, s.Hub, logger.Named("content"))

	case utils.ModeManifest, utils.ModeProbe:
		var catalog source.Catalog
		if cfg.Content.Mode == utils.ModeManifest {
			loadCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
			m := manifest.LoadOrEmpty(loadCtx, cfg.Content.ManifestPath, deps.HTTPClient, logger)
			cancel()
			catalog = source.NewManifestResolver(m)
		} else {
			p := source.NewProbeResolver(cfg.Content.ImageBaseURL, cfg.Content.Folders, logger.Named("probe"))
			if deps.HTTPClient != nil {
				p.Client = deps.HTTPClient
			}
			catalog = p
		}

		s.Widget = widget.New(widget.Options{
			Catalog:       catalog,
			Captions:      captions.LoadOrDefault(cfg.Content.CaptionsPath, logger),
			InitialFolder: cfg.Content.InitialFolder,
			Renderers:     []widget.Renderer{s.Hub},
			Logger:        logger.Named("widget"),
		})
	}

	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	r := s.Router
	r.Use(gin.Recovery(), RequestID(), AccessLog(s.logger.Named("http")))

	// avoid trusting every proxy
	_ = r.SetTrustedProxies([]string{"127.0.0.1"})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "mode": s.cfg.Content.Mode})
	})
	r.GET("/debug", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"mode":     s.cfg.Content.Mode,
			"displays": s.Hub.Stats().Clients,
		})
	})
	r.GET("/ws", display.WSHandler(s.Hub))

	api := r.Group("/api")
	api.Use(RateLimit(s.cfg.Server.RatePerSecond, s.cfg.Server.RateBurst))
	if s.Content != nil {
		s.Content.RegisterRoutes(api)
	}
	if s.Widget != nil {
		widget.NewHandler(s.Widget).RegisterRoutes(api)
	}

	// page, captions and (in probe mode) image folders
	if s.cfg.Server.StaticDir != "" {
		r.NoRoute(gin.WrapH(http.FileServer(http.Dir(s.cfg.Server.StaticDir))))
	}
}

func (s *Server) Handler() http.Handler { return s.Router }
