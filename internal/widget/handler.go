package widget

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"randomframe/internal/selector"
)

type Handler struct {
	Widget *Widget
}

func NewHandler(w *Widget) *Handler {
	return &Handler{Widget: w}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/folders", h.folders)              // GET /api/folders
	rg.POST("/folders/select", h.selectFolder) // POST /api/folders/select
	rg.POST("/generate", h.generate)           // POST /api/generate
}

func (h *Handler) folders(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"current":  h.Widget.State().CurrentFolder,
		"folders":  h.Widget.Folders(),
		"eligible": h.Widget.Eligible(),
	})
}

type selectReq struct {
	Folder string `json:"folder"`
}

func (h *Handler) selectFolder(c *gin.Context) {
	var req selectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	req.Folder = strings.TrimSpace(req.Folder)
	if req.Folder == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "folder required"})
		return
	}

	out, err := h.Widget.Dispatch(c.Request.Context(), SelectFolder{Choice: req.Folder})
	if err != nil {
		if errors.Is(err, selector.ErrNoEligibleFolders) {
			c.JSON(http.StatusConflict, gin.H{"error": "no folder has images"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "select failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"current": out.State.CurrentFolder})
}

func (h *Handler) generate(c *gin.Context) {
	out, err := h.Widget.Dispatch(c.Request.Context(), Generate{})
	if err != nil {
		var nie *selector.NoImagesError
		if errors.As(err, &nie) {
			c.JSON(http.StatusNotFound, gin.H{"error": nie.Error(), "folder": nie.Folder})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "generate failed"})
		return
	}

	c.JSON(http.StatusOK, out.Selection)
}
