package handler

import (
	mid "github.com/ivens03/microservices-padoca/internal/middleware"
	"github.com/labstack/echo/v4"
)

// Handlers bundles every route group of the gateway
type Handlers struct {
	Auth       *AuthHandler
	Storefront *StorefrontHandler
	Board      *BoardHandler
	Console    *ConsoleHandler
}

// Register mounts the API under /api. The session middleware must already be installed.
func (h Handlers) Register(e *echo.Echo) {
	api := e.Group("/api")

	// Auth
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/logout", h.Auth.Logout)
	api.GET("/me", h.Auth.Me, mid.RequireSession)
	api.PUT("/me", h.Auth.UpdateMe, mid.RequireSession)

	// Storefront: browsing and the cart are anonymous, checkout needs a login
	api.GET("/menu", h.Storefront.Menu)
	api.GET("/cart", h.Storefront.Cart)
	api.POST("/cart/items", h.Storefront.AddItem)
	api.PATCH("/cart/items/:id", h.Storefront.ChangeQuantity)
	api.POST("/checkout", h.Storefront.Checkout, mid.RequireSession)
	api.POST("/feedback", h.Storefront.Feedback, mid.RequireSession)

	// Board
	boardAPI := api.Group("/board", mid.RequireSession)
	boardAPI.GET("", h.Board.Open)
	boardAPI.DELETE("", h.Board.Close)
	boardAPI.POST("/:id/advance", h.Board.Advance)

	// Console
	console := api.Group("/console", mid.RequireSession)
	console.GET("/dashboard", h.Console.Dashboard)
	console.GET("/critical", h.Console.Critical)
	console.GET("/categories", h.Console.ListCategories)
	console.POST("/categories", h.Console.CreateCategory)
	console.PUT("/categories/:id", h.Console.UpdateCategory)
	console.DELETE("/categories/:id", h.Console.DeleteCategory)
	console.GET("/products", h.Console.ListProducts)
	console.GET("/products/:id", h.Console.GetProduct)
	console.POST("/products", h.Console.CreateProduct)
	console.PUT("/products/:id", h.Console.UpdateProduct)
	console.DELETE("/products/:id", h.Console.DeleteProduct)
	console.GET("/staff", h.Console.ListStaff)
	console.POST("/staff", h.Console.CreateStaff)
	console.GET("/feedback", h.Console.ListFeedback)
	console.POST("/commissions", h.Console.CreateCommission)
}
