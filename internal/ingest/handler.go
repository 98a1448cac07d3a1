package ingest

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"coverhub/internal/events"
	"coverhub/internal/notify"
	"coverhub/pkg/models"
)

type Handler struct {
	Svc      *Service
	Hub      *events.Hub
	Notifier *notify.Server
	Secret   string
}

func NewHandler(svc *Service, hub *events.Hub, notifier *notify.Server, secret string) *Handler {
	return &Handler{Svc: svc, Hub: hub, Notifier: notifier, Secret: secret}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/sync", RequireSyncToken(h.Secret), h.sync)
}

// RequireSyncToken guards the sync route with a bearer token when a secret
// is configured. An empty secret leaves the route open.
func RequireSyncToken(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			c.Abort()
			return
		}

		raw := strings.TrimSpace(header[len("Bearer "):])
		if err := parseSyncToken([]byte(secret), raw); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func (h *Handler) sync(c *gin.Context) {
	var req models.SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.Songs == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "songs required"})
		return
	}

	report, err := h.Svc.Sync(c.Request.Context(), req.Songs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sync failed"})
		return
	}

	if report.Changed() {
		if h.Hub != nil {
			h.Hub.BroadcastJSON(events.SyncEvent{
				Type:     events.TypeSyncBatch,
				BatchID:  report.BatchID,
				Inserted: report.Inserted,
				Updated:  report.Updated,
				Invalid:  report.Invalid,
				At:       time.Now().UTC(),
			})
		}
		if h.Notifier != nil {
			h.Notifier.BroadcastNewSongs(report.Inserted, report.Updated)
		}
	}

	c.JSON(http.StatusOK, models.SyncResponse{
		Success: true,
		Message: report.Message(),
	})
}
