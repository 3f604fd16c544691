package v1

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shenikar/civic_issue_tracker/internal/events"
)

const streamHeartbeat = 30 * time.Second

// EventStream источник событий для подписчиков SSE
type EventStream interface {
	Subscribe(ctx context.Context) (<-chan events.Event, error)
}

// @Summary Live issue events
// @Description Server-sent events stream of issue lifecycle events. Optional issue_id narrows the stream to one issue.
// @Tags Events
// @Produce text/event-stream
// @Security BearerAuth
// @Param issue_id query string false "Issue ID"
// @Success 200 {object} events.Event
// @Failure 400 {object} map[string]string "Invalid issue ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 503 {object} map[string]string "Stream unavailable"
// @Router /events/stream [get]
func (h *Handler) streamEvents(c *gin.Context) {
	log := h.logger.WithField("method", "streamEvents")

	var issueID uuid.UUID
	if raw := c.Query("issue_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid issue ID"})
			return
		}
		issueID = id
	}

	if h.stream == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "event stream unavailable"})
		return
	}

	ctx := c.Request.Context()
	stream, err := h.stream.Subscribe(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to subscribe to events")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "event stream unavailable"})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	heartbeat := time.NewTicker(streamHeartbeat)
	defer heartbeat.Stop()

	log.Debug("Event stream opened")
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case <-heartbeat.C:
			c.SSEvent("ping", gin.H{"time": time.Now().UTC()})
			return true
		case event, ok := <-stream:
			if !ok {
				return false
			}
			if issueID != uuid.Nil && event.IssueID != issueID {
				return true
			}
			c.SSEvent(string(event.Name), event)
			return true
		}
	})
	log.Debug("Event stream closed")
}
