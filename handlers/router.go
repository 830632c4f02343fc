// dashboard/handlers/router.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"mabletask/dashboard/flow"
	"mabletask/dashboard/middleware"
	"mabletask/dashboard/screens"
	"mabletask/dashboard/session"
)

type Deps struct {
	API      AuthAPI
	Sessions *session.Store
	Ctrl     *flow.Controller
	History  *flow.History
	Products *screens.ProductsScreen
	Events   *screens.EventsScreen
	FEOrigin string
}

// NewRouter wires the dashboard routes.
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(middleware.CORSMiddleware(d.FEOrigin))

	authHandlers := NewAuthHandlers(d.API, d.Ctrl, d.History, d.Sessions)
	productHandlers := NewProductHandlers(d.Products, d.History)
	eventHandlers := NewEventHandlers(d.Events, d.History)
	dashboardHandlers := NewDashboardHandlers(d.Ctrl, d.History, d.Sessions)

	// Authentication screens (no session required)
	auth := r.Group("/auth")
	{
		auth.POST("/signin", authHandlers.SignIn)
		auth.POST("/signup", authHandlers.SignUp)
		auth.POST("/logout", authHandlers.Logout)
		auth.GET("/session", authHandlers.Session)
	}

	admin := r.Group("/admin")
	{
		// Default landing after a login with no pending redirect.
		admin.GET("/dashboard", middleware.RequireSession(d.Ctrl, flow.DashboardPath), dashboardHandlers.Landing)

		// Products screen. The guard records the screen as the post-login target.
		productsGroup := admin.Group("/products")
		productsGroup.Use(middleware.RequireSession(d.Ctrl, screens.ProductsPath))
		{
			productsGroup.GET("", productHandlers.List)
			productsGroup.POST("", productHandlers.Create)
			productsGroup.POST("/search", productHandlers.Search)
			productsGroup.POST("/sort", productHandlers.Sort)
			productsGroup.DELETE("/*id", productHandlers.Delete)
		}

		// Event logs screen
		eventsGroup := admin.Group("/events")
		eventsGroup.Use(middleware.RequireSession(d.Ctrl, screens.EventsPath))
		{
			eventsGroup.GET("", eventHandlers.List)
			eventsGroup.POST("/filter", eventHandlers.Filter)
		}
	}
	return r
}
