package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	obserrors "github.com/david50407/obs-studio/internal/errors"
	"github.com/david50407/obs-studio/internal/services"
)

// HistoryHandler serves persisted load history
type HistoryHandler struct {
	history services.HistoryService
}

// NewHistoryHandler creates a handler; a nil service answers 503
func NewHistoryHandler(history services.HistoryService) *HistoryHandler {
	return &HistoryHandler{history: history}
}

// GetHistory returns transitions newest first, filtered by ?module= and capped by ?limit=
func (h *HistoryHandler) GetHistory(c *gin.Context) {
	if h.history == nil {
		obserrors.NewUnavailableError("history store").ToGinResponse(c)
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			obserrors.HandleValidationError(c, "limit must be a non-negative integer", "limit")
			return
		}
		limit = n
	}

	entries, err := h.history.History(c.Request.Context(), c.Query("module"), limit)
	if err != nil {
		obserrors.FromModuleError(err).ToGinResponse(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"history": entries,
		"count":   len(entries),
	})
}
