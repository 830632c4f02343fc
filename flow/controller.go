// Package flow is the login redirect state machine. A forced login detour
// records where the user was going and sends them back there exactly once.
package flow

import (
	"encoding/json"
	"log"

	"mabletask/dashboard/session"
)

const (
	LoginPath     = "/auth/signin"
	SignupPath    = "/auth/signup"
	DashboardPath = "/admin/dashboard"
)

type State string

const (
	Anonymous     State = "anonymous"
	Authenticated State = "authenticated"
)

type Controller struct {
	sessions *session.Store
	nav      Navigator
}

func NewController(sessions *session.Store, nav Navigator) *Controller {
	return &Controller{sessions: sessions, nav: nav}
}

func (c *Controller) State() State {
	if _, ok := c.sessions.Token(); ok {
		return Authenticated
	}
	return Anonymous
}

func isAuthScreen(path string) bool {
	return path == LoginPath || path == SignupPath
}

// HandleAuthorizationFailure records currentPath as the pending redirect,
// drops the token and navigates to the login screen. It returns the login
// path. The auth screens themselves are never recorded, so repeated failures
// while already on the login screen keep the original destination.
func (c *Controller) HandleAuthorizationFailure(currentPath string) string {
	if currentPath != "" && !isAuthScreen(currentPath) {
		if err := c.sessions.SetPendingRedirect(currentPath); err != nil {
			log.Printf("Flow: failed to store pending redirect %q: %v", currentPath, err)
		}
	}
	if err := c.sessions.ClearToken(); err != nil {
		log.Printf("Flow: failed to clear token: %v", err)
	}
	c.nav.Navigate(LoginPath)
	return LoginPath
}

// HandleSuccessfulLogin consumes the pending redirect and navigates to it,
// or to the dashboard when none is pending.
func (c *Controller) HandleSuccessfulLogin() string {
	target, ok, err := c.sessions.ConsumePendingRedirect()
	if err != nil {
		log.Printf("Flow: failed to persist consumed redirect: %v", err)
	}
	if !ok {
		target = DashboardPath
	}
	c.nav.Navigate(target)
	return target
}

// CompleteLogin stores the credential returned by the API and then performs
// the post-login redirect.
func (c *Controller) CompleteLogin(token string, user json.RawMessage) (string, error) {
	if err := c.sessions.SetToken(token); err != nil {
		return "", err
	}
	if err := c.sessions.SetUser(user); err != nil {
		log.Printf("Flow: failed to store user snapshot: %v", err)
	}
	return c.HandleSuccessfulLogin(), nil
}

func (c *Controller) Logout() string {
	if err := c.sessions.Clear(); err != nil {
		log.Printf("Flow: failed to clear session on logout: %v", err)
	}
	c.nav.Navigate(LoginPath)
	return LoginPath
}
