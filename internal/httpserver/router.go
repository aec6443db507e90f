// Package httpserver wires the HTTP API: route registration and the
// echo handlers for catalog, cart, checkout, sales history, settings
// and backup.
package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/manha/pos/internal/session"
)

type Deps struct {
	SessionHandler *SessionHandler
	ProductHandler *ProductHandler
	CartHandler    *CartHandler
	SalesHandler   *SalesHandler
	LockHandler    *LockHandler
	BackupHandler  *BackupHandler
	LiveHandler    *LiveHandler
	Sessions       *session.Manager
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	v1 := e.Group("/api/v1")

	v1.POST("/session", d.SessionHandler.SignIn)
	v1.GET("/live", d.LiveHandler.Stream)

	// Lock state and unlocking stay reachable while locked; that is
	// the whole point of the lock screen.
	v1.GET("/lock", d.LockHandler.GetLock)
	v1.POST("/lock", d.LockHandler.EngageLock)
	v1.POST("/unlock", d.LockHandler.Unlock)

	products := v1.Group("/products")
	products.GET("", d.ProductHandler.GetProducts)
	products.GET("/search", d.ProductHandler.SearchProducts)
	products.GET("/:id", d.ProductHandler.GetProduct)
	products.POST("", d.ProductHandler.CreateProduct)
	products.PATCH("/:id", d.ProductHandler.PatchProduct)
	products.DELETE("/:id", d.ProductHandler.DeleteProduct)

	cart := v1.Group("/cart", d.Sessions.Middleware())
	cart.GET("", d.CartHandler.GetCart)
	cart.POST("", d.CartHandler.AddToCart)
	cart.PATCH("/:id", d.CartHandler.SetCartQuantity)
	cart.DELETE("/:id", d.CartHandler.RemoveFromCart)
	cart.DELETE("", d.CartHandler.ClearCart)
	cart.POST("/checkout", d.CartHandler.CheckoutCart)

	sales := v1.Group("/sales", d.LockHandler.RequireUnlocked())
	sales.GET("", d.SalesHandler.GetSales)
	sales.GET("/:id", d.SalesHandler.GetSale)
	sales.PATCH("/:id", d.SalesHandler.UpdateSale)
	sales.DELETE("/:id", d.SalesHandler.DeleteSale)

	settings := v1.Group("/settings", d.LockHandler.RequireUnlocked())
	settings.POST("/pin", d.LockHandler.SetPIN)
	settings.GET("/backup", d.BackupHandler.ExportBackup)
	settings.POST("/backup", d.BackupHandler.ImportBackup)
}
