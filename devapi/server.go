// Package devapi is an in-process implementation of the remote admin API the
// dashboard talks to. It backs local development and the integration tests.
package devapi

import (
	"time"

	"github.com/gin-gonic/gin"
)

type Server struct {
	Users   *UserStore
	Catalog *CatalogStore
	Events  *EventStore
	Tokens  *TokenIssuer
}

func NewServer(secret string, tokenTTL time.Duration) *Server {
	events := NewEventStore()
	return &Server{
		Users:   NewUserStore(),
		Catalog: NewCatalogStore(events),
		Events:  events,
		Tokens:  NewTokenIssuer(secret, tokenTTL),
	}
}

// Router builds the gin engine serving the /api routes.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	auth := NewAuthHandlers(s.Users, s.Tokens)
	catalog := NewCatalogHandlers(s.Catalog, s.Events)

	api := r.Group("/api")
	{
		api.POST("/auth/register", auth.Register)
		api.POST("/auth/login", auth.Login)

		protected := api.Group("/")
		protected.Use(AuthRequired(s.Tokens))
		{
			protected.GET("/products", catalog.ListProducts)
			protected.POST("/products", catalog.CreateProduct)
			protected.DELETE("/products/:id", catalog.DeleteProduct)
			protected.GET("/events", catalog.ListEvents)
		}
	}
	return r
}
