// dashboard/handlers/event_handlers.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"mabletask/dashboard/events"
	"mabletask/dashboard/flow"
	"mabletask/dashboard/screens"
	"mabletask/dashboard/validation"
)

type EventHandlers struct {
	screen  *screens.EventsScreen
	history *flow.History
}

func NewEventHandlers(screen *screens.EventsScreen, history *flow.History) *EventHandlers {
	return &EventHandlers{screen: screen, history: history}
}

func (h *EventHandlers) List(c *gin.Context) {
	authed, err := h.screen.Mount(c.Request.Context())
	switch {
	case errors.Is(err, screens.ErrStale):
		c.JSON(http.StatusConflict, gin.H{"error": "The events screen was left before loading finished", "kind": "stale"})
	case err != nil:
		respondError(c, err, "Failed to fetch events")
	case !authed:
		followNavigation(c, h.history)
	default:
		c.JSON(http.StatusOK, h.screen.View())
	}
}

// filterRequest carries the selector values; empty means "any". Dates are
// YYYY-MM-DD.
type filterRequest struct {
	EventType string `json:"eventType"`
	UserID    string `json:"userId"`
	Start     string `json:"start"`
	End       string `json:"end"`
}

func (h *EventHandlers) Filter(c *gin.Context) {
	var req filterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, validation.FromBindError(err, &req), "Invalid request body")
		return
	}

	// Dates are calendar days in the screen's zone; the end day is inclusive.
	criteria, err := events.ParseCriteria(req.EventType, req.UserID, req.Start, req.End, h.screen.Location())
	if err != nil {
		respondError(c, err, "Invalid filter")
		return
	}
	// Buckets and user ids stay computed from the full log.
	c.JSON(http.StatusOK, h.screen.SetCriteria(criteria))
}
