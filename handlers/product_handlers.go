// dashboard/handlers/product_handlers.go
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"mabletask/dashboard/apperr"
	"mabletask/dashboard/flow"
	"mabletask/dashboard/models"
	"mabletask/dashboard/screens"
	"mabletask/dashboard/validation"
)

type ProductHandlers struct {
	screen  *screens.ProductsScreen
	history *flow.History
}

func NewProductHandlers(screen *screens.ProductsScreen, history *flow.History) *ProductHandlers {
	return &ProductHandlers{screen: screen, history: history}
}

// List mounts the products screen: one fetch per request, applied only if the
// screen is still mounted when the response arrives.
func (h *ProductHandlers) List(c *gin.Context) {
	authed, err := h.screen.Mount(c.Request.Context())
	switch {
	case errors.Is(err, screens.ErrStale):
		c.JSON(http.StatusConflict, gin.H{"error": "The products screen was left before loading finished", "kind": "stale"})
	case err != nil:
		respondError(c, err, "Failed to fetch products")
	case !authed:
		// The gateway already ran the login flow; follow it.
		followNavigation(c, h.history)
	default:
		c.JSON(http.StatusOK, h.screen.View())
	}
}

type searchRequest struct {
	Query string `json:"query"`
}

// Search and Sort only change derived state; no network call is made.
func (h *ProductHandlers) Search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, validation.FromBindError(err, &req), "Invalid request body")
		return
	}
	c.JSON(http.StatusOK, h.screen.Search(req.Query))
}

type sortRequest struct {
	Key string `json:"key" binding:"required"`
}

func (h *ProductHandlers) Sort(c *gin.Context) {
	var req sortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, validation.FromBindError(err, &req), "Invalid request body")
		return
	}
	view, err := h.screen.SortBy(req.Key)
	if err != nil {
		respondError(c, err, "Invalid sort key")
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *ProductHandlers) Create(c *gin.Context) {
	var form models.ProductForm
	if err := c.ShouldBindJSON(&form); err != nil {
		respondError(c, validation.FromBindError(err, &form), "Invalid request body")
		return
	}

	// Price, sku and image come from the form since the API does not echo them.
	row, authed, err := h.screen.Create(c.Request.Context(), form)
	switch {
	case err != nil:
		respondError(c, err, "Failed to create product")
	case !authed:
		followNavigation(c, h.history)
	default:
		c.JSON(http.StatusCreated, gin.H{"message": "Product created", "row": row})
	}
}

func (h *ProductHandlers) Delete(c *gin.Context) {
	// The catch-all keeps the leading slash; composite ids contain slashes too.
	id := strings.TrimPrefix(c.Param("id"), "/")
	if id == "" {
		respondError(c, apperr.ValidationErr("Product id is required", map[string]string{"id": "This field is required"}), "Product id is required")
		return
	}

	authed, err := h.screen.Delete(c.Request.Context(), id)
	switch {
	case err != nil:
		respondError(c, err, "Failed to delete product")
	case !authed:
		followNavigation(c, h.history)
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Product deleted", "view": h.screen.View()})
	}
}
