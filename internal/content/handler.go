package content

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"randomframe/internal/captions"
	"randomframe/internal/drive"
	"randomframe/internal/selector"
	"randomframe/pkg/models"
)

// Publisher receives every successfully built payload (the display hub).
type Publisher interface {
	RenderContent(models.ContentResponse)
}

type Handler struct {
	FolderID     string
	CaptionsPath string
	Lister       drive.Lister
	Rand         selector.Rand
	Publisher    Publisher
	Logger       *zap.Logger
	Now          func() time.Time
}

func NewHandler(folderID, captionsPath string, lister drive.Lister, pub Publisher, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		FolderID:     folderID,
		CaptionsPath: captionsPath,
		Lister:       lister,
		Rand:         selector.DefaultRand,
		Publisher:    pub,
		Logger:       logger,
		Now:          time.Now,
	}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/random-content", h.randomContent) // GET /api/random-content
}

func (h *Handler) randomContent(c *gin.Context) {
	if h.FolderID == "" {
		h.Logger.Error("random content requested without a folder id")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Folder ID not configured"})
		return
	}

	resp, err := h.Build(c.Request.Context())
	if err != nil {
		if IsNoImages(err) {
			h.Logger.Warn("drive folder has no images", zap.String("folder_id", h.FolderID))
		} else {
			h.Logger.Error("random content failed", zap.String("folder_id", h.FolderID), zap.Error(err))
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch content"})
		return
	}

	if h.Publisher != nil {
		h.Publisher.RenderContent(resp)
	}
	c.JSON(http.StatusOK, resp)
}

// Build lists the folder and reads captions concurrently, then picks one of each.
func (h *Handler) Build(ctx context.Context) (models.ContentResponse, error) {
	var (
		files []drive.File
		caps  captions.Set
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		files, err = h.Lister.ListImages(gctx, h.FolderID)
		return err
	})
	g.Go(func() error {
		caps = captions.LoadOrDefault(h.CaptionsPath, h.Logger)
		return nil
	})
	if err := g.Wait(); err != nil {
		return models.ContentResponse{}, err
	}

	if len(files) == 0 {
		return models.ContentResponse{}, &selector.NoImagesError{Folder: h.FolderID}
	}

	f := files[h.Rand.IntN(len(files))]
	return models.ContentResponse{
		Image: models.DriveImage{
			ID:           f.ID,
			Name:         f.Name,
			DownloadLink: drive.DownloadLink(f.ID),
			PreviewLink:  drive.PreviewLink(f.ID),
			ViewLink:     f.WebViewLink,
		},
		Caption:   caps.Pick(h.Rand),
		Timestamp: models.ISOTimestamp(h.Now()),
	}, nil
}

// IsNoImages reports whether err came from an empty folder listing.
func IsNoImages(err error) bool {
	return errors.Is(err, selector.ErrNoImagesInFolder)
}
