package review

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"coverhub/internal/catalog"
	"coverhub/internal/events"
	"coverhub/pkg/models"
)

type Handler struct {
	Catalog *catalog.Repo
	Hub     *events.Hub
}

func NewHandler(cat *catalog.Repo, hub *events.Hub) *Handler {
	return &Handler{Catalog: cat, Hub: hub}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/pair", h.pair)
	rg.POST("/vote", h.vote)
	rg.GET("/votes", h.votes)
	rg.GET("/final-list", h.finalList)
}

func (h *Handler) pair(c *gin.Context) {
	user := strings.TrimSpace(c.Query("user"))
	if user == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user required"})
		return
	}

	songs, err := h.Catalog.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}

	pair := NextPair(songs, user)
	if pair == nil {
		c.JSON(http.StatusOK, gin.H{"message": "all validated"})
		return
	}
	c.JSON(http.StatusOK, pair)
}

func (h *Handler) vote(c *gin.Context) {
	var req models.VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.OriginalIndex == nil || req.CandidateIndex == nil || req.IsCover == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "original_index, candidate_index and is_cover required"})
		return
	}

	rec, err := h.Catalog.ApplyVote(c.Request.Context(), *req.OriginalIndex, *req.CandidateIndex, *req.IsCover, time.Now().UTC())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "vote failed"})
		return
	}
	if rec == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	if h.Hub != nil {
		h.Hub.BroadcastJSON(events.VoteEvent{
			Type:        events.TypeVoteCast,
			User:        rec.AssignedUser,
			OriginalID:  rec.OriginalID,
			CandidateID: rec.CandidateID,
			IsCover:     rec.IsCover,
			VotesYes:    rec.VotesYes,
			VotesNo:     rec.VotesNo,
			At:          rec.At,
		})
	}

	c.JSON(http.StatusOK, models.VoteResponse{Success: true})
}

func (h *Handler) votes(c *gin.Context) {
	out, err := h.Catalog.ListVoted(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) finalList(c *gin.Context) {
	out, err := h.Catalog.FinalList(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, out)
}
