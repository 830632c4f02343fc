// Package gateway sends requests to the remote API on behalf of the signed-in
// user and turns authorization failures into the login redirect flow.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"mabletask/dashboard/apperr"
	"mabletask/dashboard/session"
)

// AuthFailureHandler is invoked synchronously whenever a call finds no token
// or is answered with 401.
type AuthFailureHandler interface {
	HandleAuthorizationFailure(currentPath string) string
}

type Request struct {
	Method string
	Path   string
	// Body is JSON-encoded when non-nil.
	Body any
	// CurrentPath is the screen that issued the call; it becomes the pending
	// redirect on an authorization failure.
	CurrentPath string
	// Public requests carry no token and a 401 is an ordinary failure.
	Public bool
}

// Result is the outcome of an HTTP-level exchange. Kind is empty on success.
type Result struct {
	OK     bool
	Status int
	Body   []byte
	Kind   apperr.Kind
}

// Unauthenticated reports that the login flow took over; the caller must stop
// and must not read Body.
func (r Result) Unauthenticated() bool { return r.Kind == apperr.Unauthenticated }

// Err converts a failed result into an error for the calling view. It returns
// nil for successful and unauthenticated results.
func (r Result) Err(fallback string) error {
	if r.OK || r.Unauthenticated() {
		return nil
	}
	return apperr.RequestFailedErr(r.Status, ServerMessage(r.Body, fallback))
}

// ServerMessage extracts a human message from an error body, preferring
// "message" then "error".
func ServerMessage(body []byte, fallback string) string {
	if !gjson.ValidBytes(body) {
		return fallback
	}
	for _, key := range []string{"message", "error"} {
		if v := gjson.GetBytes(body, key); v.Type == gjson.String && v.Str != "" {
			return v.Str
		}
	}
	return fallback
}

type Gateway struct {
	baseURL    string
	httpClient *http.Client
	sessions   *session.Store
	onAuthFail AuthFailureHandler
}

func New(baseURL string, timeout time.Duration, sessions *session.Store, onAuthFail AuthFailureHandler) *Gateway {
	return &Gateway{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		sessions:   sessions,
		onAuthFail: onAuthFail,
	}
}

// WithHTTPClient replaces the underlying client.
func (g *Gateway) WithHTTPClient(c *http.Client) *Gateway {
	g.httpClient = c
	return g
}

func (g *Gateway) unauthenticated(currentPath string) Result {
	g.onAuthFail.HandleAuthorizationFailure(currentPath)
	return Result{Status: http.StatusUnauthorized, Kind: apperr.Unauthenticated}
}

// Do performs one call. HTTP-level failures are reported through Result; the
// returned error is reserved for transport failures (NetworkUnreachable) and
// for request bodies that cannot be encoded.
func (g *Gateway) Do(ctx context.Context, r Request) (Result, error) {
	var token string
	if !r.Public {
		t, ok := g.sessions.Token()
		if !ok {
			log.Printf("Gateway: no token for %s %s, redirecting to login", r.Method, r.Path)
			return g.unauthenticated(r.CurrentPath), nil
		}
		token = t
	}

	var body io.Reader
	if r.Body != nil {
		payload, err := json.Marshal(r.Body)
		if err != nil {
			return Result{}, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, g.baseURL+r.Path, body)
	if err != nil {
		return Result{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if r.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		log.Printf("Gateway: %s %s failed: %v", r.Method, r.Path, err)
		return Result{}, apperr.NetworkErr(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, apperr.NetworkErr(fmt.Errorf("failed to read response: %w", err))
	}
	log.Printf("Gateway: %s %s -> %d", r.Method, r.Path, resp.StatusCode)

	if resp.StatusCode == http.StatusUnauthorized && !r.Public {
		return g.unauthenticated(r.CurrentPath), nil
	}

	res := Result{
		OK:     resp.StatusCode >= 200 && resp.StatusCode < 300,
		Status: resp.StatusCode,
		Body:   respBody,
	}
	if !res.OK {
		res.Kind = apperr.RequestFailed
	}
	return res, nil
}
