package devapi

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"mabletask/dashboard/models"
)

type CatalogHandlers struct {
	catalog *CatalogStore
	events  *EventStore
}

func NewCatalogHandlers(catalog *CatalogStore, events *EventStore) *CatalogHandlers {
	return &CatalogHandlers{catalog: catalog, events: events}
}

func (h *CatalogHandlers) ListProducts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"edges": h.catalog.List()})
}

func (h *CatalogHandlers) CreateProduct(c *gin.Context) {
	var form models.ProductForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid product", "details": err.Error()})
		return
	}

	node := h.catalog.Create(c.GetString(ctxUserID), form)
	log.Printf("DevAPI: product created: %s", node.ID)
	c.JSON(http.StatusCreated, models.CreatedProduct{ID: node.ID, Title: node.Title, Options: node.Options})
}

func (h *CatalogHandlers) DeleteProduct(c *gin.Context) {
	id := c.Param("id")
	err := h.catalog.Delete(c.GetString(ctxUserID), id)
	if errors.Is(err, ErrProductNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
		return
	}
	log.Printf("DevAPI: product deleted: %s", id)
	c.Status(http.StatusNoContent)
}

func (h *CatalogHandlers) ListEvents(c *gin.Context) {
	c.JSON(http.StatusOK, h.events.List())
}
