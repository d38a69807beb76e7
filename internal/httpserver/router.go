package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sellergrid/marketplace/internal/es"
	"github.com/sellergrid/marketplace/internal/jwtmiddleware"
	"github.com/sellergrid/marketplace/internal/mykafka"
	"github.com/sellergrid/marketplace/internal/service"
)

// Deps carries everything the HTTP layer needs. The producer and indexer
// may be zero-valued when kafka or elasticsearch is not configured.
type Deps struct {
	Auth      *service.AuthService
	Products  *service.ProductService
	Search    *service.SearchService
	Cart      *service.CartService
	Orders    *service.OrderService
	Producer  *mykafka.Producer
	Indexer   *es.Indexer
	JWTSecret []byte
}

func Register(e *echo.Echo, d Deps) {
	authH := &AuthHandler{Svc: d.Auth, Producer: d.Producer}
	productH := &ProductHandler{Svc: d.Products, Search: d.Search, Producer: d.Producer, Indexer: d.Indexer}
	cartH := &CartHandler{Svc: d.Cart, Producer: d.Producer}
	orderH := &OrderHandler{Svc: d.Orders, Producer: d.Producer}

	requireAuth := jwtmiddleware.RequireAuth(d.JWTSecret)

	e.GET("/health/live", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
	e.GET("/health/ready", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})

	auth := e.Group("/auth")
	auth.POST("/register", authH.Register)
	auth.POST("/login", authH.Login)
	auth.POST("/logout", authH.Logout)

	users := e.Group("/users", requireAuth)
	users.GET("/profile", authH.Profile)
	users.PUT("/profile", authH.UpdateProfile)

	e.GET("/products/public", productH.PublicProducts)
	e.GET("/products/public/:id", productH.PublicProduct)
	e.GET("/products/search", productH.SearchProducts)

	products := e.Group("/products", requireAuth)
	products.POST("", productH.CreateProduct)
	products.GET("", productH.MyProducts)
	products.GET("/:id", productH.GetProduct)
	products.PUT("/:id", productH.UpdateProduct)
	products.DELETE("/:id", productH.DeleteProduct)

	cart := e.Group("/cart", requireAuth)
	cart.GET("", cartH.GetCart)
	cart.POST("/add", cartH.AddToCart)
	cart.PUT("/item/:productId", cartH.UpdateCartItem)
	cart.DELETE("/item/:productId", cartH.RemoveFromCart)
	cart.DELETE("/clear", cartH.ClearCart)
	cart.GET("/count", cartH.CartCount)

	orders := e.Group("/orders", requireAuth)
	orders.POST("", orderH.CreateOrder)
	orders.GET("", orderH.ListOrders)
	orders.GET("/stats/summary", orderH.OrderStats)
	orders.GET("/recent/purchases", orderH.RecentPurchases)
	orders.GET("/:orderId", orderH.GetOrder)
}
