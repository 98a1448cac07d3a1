package analytics

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"coverhub/internal/catalog"
)

type Handler struct {
	Catalog *catalog.Repo
}

func NewHandler(cat *catalog.Repo) *Handler {
	return &Handler{Catalog: cat}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/analytics/global", h.global)
	rg.GET("/analytics/user/:name", h.user)
}

func (h *Handler) global(c *gin.Context) {
	songs, err := h.Catalog.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, Compute(songs))
}

func (h *Handler) user(c *gin.Context) {
	name := strings.TrimSpace(c.Param("name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name required"})
		return
	}

	songs, err := h.Catalog.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, ComputeUser(songs, name))
}
