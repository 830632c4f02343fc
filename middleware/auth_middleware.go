// dashboard/middleware/auth_middleware.go
package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"mabletask/dashboard/flow"
)

// RequireSession sends anonymous users to the login screen before any admin
// handler runs. screenPath is remembered as the post-login destination.
func RequireSession(ctrl *flow.Controller, screenPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// A held token is trusted until the remote API answers 401; the
		// gateway handles that case.
		if ctrl.State() == flow.Authenticated {
			c.Next()
			return
		}
		log.Printf("RequireSession: no session for %s %s", c.Request.Method, c.Request.URL.Path)
		// Same path as a 401: remember the screen, clear the token, go to login.
		target := ctrl.HandleAuthorizationFailure(screenPath)
		c.Redirect(http.StatusSeeOther, target)
		c.Abort()
	}
}
