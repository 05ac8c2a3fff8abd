package routes

import (
	"net/http"
	"time"

	"jaggery_back_end/internal/auth"
	"jaggery_back_end/internal/cache"
	"jaggery_back_end/internal/cart"
	"jaggery_back_end/internal/catalog"
	"jaggery_back_end/internal/checkout"
	"jaggery_back_end/internal/handlers"
	pa "jaggery_back_end/internal/handlers/payement"
	"jaggery_back_end/internal/handlers/user"
	"jaggery_back_end/internal/middleware"
	"jaggery_back_end/internal/pricing"
	"jaggery_back_end/internal/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// authLockTTL bounds how long a signup or login for one email blocks a retry.
const authLockTTL = 10 * time.Second

type Deps struct {
	Auth     *auth.Service
	Tokens   *utils.TokenIssuer
	Carts    *cart.Store
	Catalog  *catalog.Catalog
	Policy   pricing.Policy
	Checkout *checkout.Service
	Locker   cache.Locker

	// Nil limiters disable rate limiting.
	LoginLimiter    *cache.AttemptLimiter
	RegisterLimiter *cache.AttemptLimiter

	CORSOrigins []string
	Logger      *zap.Logger
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	logger := d.Logger

	r.Use(middleware.Recovery(logger), middleware.RequestLogger(logger))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     d.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authRequired := middleware.AuthRequired(d.Tokens, logger)
	api := r.Group("/api")

	// Auth
	a := api.Group("/auth")
	a.POST("/signup",
		middleware.RegisterRateLimit(d.RegisterLimiter, logger),
		middleware.SingleFlight(d.Locker, "signup", middleware.BySubmittedEmail, authLockTTL, logger),
		user.Signup(d.Auth, logger))
	a.POST("/login",
		middleware.LoginRateLimit(d.LoginLimiter, logger),
		middleware.SingleFlight(d.Locker, "login", middleware.BySubmittedEmail, authLockTTL, logger),
		user.Login(d.Auth, logger))
	a.GET("/profile", authRequired, user.GetProfile(d.Auth, logger))
	a.PUT("/profile", authRequired, user.UpdateProfile(d.Auth, logger))
	a.PUT("/change-password", authRequired,
		middleware.SingleFlight(d.Locker, "change-password", middleware.ByUser, authLockTTL, logger),
		user.ChangePassword(d.Auth, logger))

	// Products
	api.GET("/products", handlers.ListProducts(d.Catalog))
	api.GET("/products/:id", handlers.GetProduct(d.Catalog, logger))

	// Cart
	carts := &user.CartHandlers{Store: d.Carts, Catalog: d.Catalog, Policy: d.Policy, Logger: logger}
	c := api.Group("/cart", authRequired)
	c.GET("", carts.Get)
	c.DELETE("", carts.Clear)
	c.POST("/items", carts.Add)
	c.PUT("/items/:id", carts.UpdateQuantity)
	c.DELETE("/items/:id", carts.Remove)
	c.GET("/ws", carts.WebSocket(user.NewUpgrader(d.CORSOrigins)))

	// Checkout. place-order is guarded inside checkout.Service.
	co := &pa.CheckoutHandlers{Service: d.Checkout, Logger: logger}
	api.GET("/checkout/shipping-options", co.ShippingOptions)
	ch := api.Group("/checkout", authRequired)
	ch.GET("", co.State)
	ch.PUT("/shipping", co.SaveShipping)
	ch.PUT("/payment", co.SavePayment)
	ch.POST("/next", co.Next)
	ch.POST("/prev", co.Prev)
	ch.GET("/upi-qr", co.UPIQR)
	ch.POST("/place-order", co.PlaceOrder)
}
