// Package client is the dashboard's typed view of the remote API. Every call
// goes through the gateway; methods on protected endpoints report whether the
// session was still valid instead of surfacing an error for it.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/tidwall/gjson"

	"mabletask/dashboard/gateway"
	"mabletask/dashboard/models"
)

const (
	loginPath    = "/api/auth/login"
	registerPath = "/api/auth/register"
	productsPath = "/api/products"
	eventsPath   = "/api/events"
)

type Doer interface {
	Do(ctx context.Context, r gateway.Request) (gateway.Result, error)
}

type Client struct {
	gw Doer
}

func New(gw Doer) *Client {
	return &Client{gw: gw}
}

func decode(res gateway.Result, dst any) error {
	if err := json.Unmarshal(res.Body, dst); err != nil {
		return fmt.Errorf("failed to decode %d response: %w", res.Status, err)
	}
	return nil
}

func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	res, err := c.gw.Do(ctx, gateway.Request{Method: http.MethodPost, Path: loginPath, Body: req, Public: true})
	if err != nil {
		return nil, err
	}
	if err := res.Err("Login failed"); err != nil {
		return nil, err
	}
	var out models.LoginResponse
	if err := decode(res, &out); err != nil {
		return nil, err
	}
	if out.AccessToken == "" {
		return nil, fmt.Errorf("login response has no access_token")
	}
	return &out, nil
}

func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (json.RawMessage, error) {
	res, err := c.gw.Do(ctx, gateway.Request{Method: http.MethodPost, Path: registerPath, Body: req, Public: true})
	if err != nil {
		return nil, err
	}
	if err := res.Err("Registration failed"); err != nil {
		return nil, err
	}
	return json.RawMessage(res.Body), nil
}

// ListProducts returns the raw listing edges. authed is false when the login
// flow took over.
func (c *Client) ListProducts(ctx context.Context, currentPath string) (edges []models.ProductEdge, authed bool, err error) {
	res, err := c.gw.Do(ctx, gateway.Request{Method: http.MethodGet, Path: productsPath, CurrentPath: currentPath})
	if err != nil || res.Unauthenticated() {
		return nil, false, err
	}
	if err := res.Err("Failed to fetch products"); err != nil {
		return nil, true, err
	}
	var list models.ProductList
	if err := decode(res, &list); err != nil {
		return nil, true, err
	}
	return list.Edges, true, nil
}

func (c *Client) CreateProduct(ctx context.Context, currentPath string, form models.ProductForm) (*models.CreatedProduct, bool, error) {
	res, err := c.gw.Do(ctx, gateway.Request{Method: http.MethodPost, Path: productsPath, Body: form, CurrentPath: currentPath})
	if err != nil || res.Unauthenticated() {
		return nil, false, err
	}
	if err := res.Err("Failed to create product"); err != nil {
		return nil, true, err
	}
	var created models.CreatedProduct
	if err := decode(res, &created); err != nil {
		return nil, true, err
	}
	return &created, true, nil
}

// DeleteProduct deletes by the server-facing id, the last segment of id.
func (c *Client) DeleteProduct(ctx context.Context, currentPath, serverID string) (bool, error) {
	res, err := c.gw.Do(ctx, gateway.Request{
		Method:      http.MethodDelete,
		Path:        productsPath + "/" + url.PathEscape(serverID),
		CurrentPath: currentPath,
	})
	if err != nil || res.Unauthenticated() {
		return false, err
	}
	return true, res.Err("Failed to delete product")
}

// ListEvents returns the event log. A body that is not a JSON array is an
// empty log.
func (c *Client) ListEvents(ctx context.Context, currentPath string) ([]models.EventRecord, bool, error) {
	res, err := c.gw.Do(ctx, gateway.Request{Method: http.MethodGet, Path: eventsPath, CurrentPath: currentPath})
	if err != nil || res.Unauthenticated() {
		return nil, false, err
	}
	if err := res.Err("Failed to fetch events"); err != nil {
		return nil, true, err
	}
	if !gjson.ParseBytes(res.Body).IsArray() {
		return []models.EventRecord{}, true, nil
	}
	var events []models.EventRecord
	if err := decode(res, &events); err != nil {
		return nil, true, err
	}
	return events, true, nil
}
