// dashboard/handlers/dashboard_handlers.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mabletask/dashboard/flow"
	"mabletask/dashboard/screens"
)

// screenLink is one entry of the landing page's navigation.
type screenLink struct {
	Path  string `json:"path"`
	Title string `json:"title"`
}

var landingLinks = []screenLink{
	{Path: screens.ProductsPath, Title: "Products"},
	{Path: screens.EventsPath, Title: "Event Logs"},
}

type DashboardHandlers struct {
	ctrl    *flow.Controller
	history *flow.History
	users   UserSnapshot
}

func NewDashboardHandlers(ctrl *flow.Controller, history *flow.History, users UserSnapshot) *DashboardHandlers {
	return &DashboardHandlers{ctrl: ctrl, history: history, users: users}
}

// Landing serves the default post-login destination. It owns no data of its
// own: it reports the session and links to the admin screens.
func (h *DashboardHandlers) Landing(c *gin.Context) {
	// Entering the landing page leaves any mounted screen.
	h.history.Navigate(flow.DashboardPath)

	body := gin.H{
		"state":    h.ctrl.State(),
		"location": h.history.Location(),
		"screens":  landingLinks,
	}
	if user, ok := h.users.User(); ok {
		body["user"] = user
	}
	c.JSON(http.StatusOK, body)
}
