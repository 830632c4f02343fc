// dashboard/handlers/respond.go
package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"mabletask/dashboard/apperr"
	"mabletask/dashboard/flow"
)

// respondError renders {error, kind[, fields]} with the status for the error's
// kind: 400 validation, 502 remote failure, 503 unreachable.
func respondError(c *gin.Context, err error, fallback string) {
	status := apperr.HTTPStatus(err)
	body := gin.H{
		"error": apperr.PublicMessage(err, fallback),
		"kind":  apperr.KindOf(err),
	}
	if ae, ok := apperr.As(err); ok && len(ae.Fields) > 0 {
		body["fields"] = ae.Fields
	}
	// Only server-side failures are worth a log line; 4xx are user input.
	if status >= http.StatusInternalServerError {
		log.Printf("Handlers: %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, body)
}

// followNavigation answers with a redirect to wherever the login flow sent
// the user.
func followNavigation(c *gin.Context, history *flow.History) {
	c.Redirect(http.StatusSeeOther, history.Location())
}
