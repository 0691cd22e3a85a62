package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"decorize-backend/internal/models"
	"decorize-backend/internal/services"
)

type UpdatesHandler struct {
	store    Store
	notifier *services.StatusNotifier
}

func NewUpdatesHandler(store Store, notifier *services.StatusNotifier) *UpdatesHandler {
	return &UpdatesHandler{
		store:    store,
		notifier: notifier,
	}
}

// StreamUpdates holds an SSE connection open for a project and pushes
// the full room-status snapshot at connection-open and on every poll
// interval until the client disconnects. Each event payload is the
// whole snapshot, not a delta.
func (h *UpdatesHandler) StreamUpdates(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	projectID, err := uuid.Parse(c.Param("project_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid project id"})
		return
	}

	if _, err := h.store.GetProject(projectID, userID); err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "project not found",
			Message: err.Error(),
		})
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	// The request context is cancelled on client disconnect, which
	// closes the subscription channel and releases the poll loop.
	updates := h.notifier.Subscribe(c.Request.Context(), projectID)

	c.Stream(func(w io.Writer) bool {
		snapshot, open := <-updates
		if !open {
			return false
		}
		c.SSEvent("message", snapshot)
		return true
	})
}
