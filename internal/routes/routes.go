package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/sokohub/backend/internal/cache"
	"github.com/sokohub/backend/internal/config"
	"github.com/sokohub/backend/internal/handlers"
	"github.com/sokohub/backend/internal/middleware"
	"github.com/sokohub/backend/internal/queue"
	"github.com/sokohub/backend/internal/services/ad"
	"github.com/sokohub/backend/internal/services/auth"
	"github.com/sokohub/backend/internal/services/cart"
	"github.com/sokohub/backend/internal/services/earnings"
	"github.com/sokohub/backend/internal/services/market"
	"github.com/sokohub/backend/internal/services/payment/providers/interswitch"
	"github.com/sokohub/backend/internal/services/product"
	"github.com/sokohub/backend/internal/services/rating"
	"github.com/sokohub/backend/internal/utils"
)

// RegisterRoutes configures all API routes
func RegisterRoutes(router *gin.Engine, db *gorm.DB, jobQueue *queue.Queue, counters *cache.Counters, cfg *config.Config) {
	gateway := interswitch.NewProvider(interswitch.Config{
		MerchantCode: cfg.Interswitch.MerchantCode,
		PayItemID:    cfg.Interswitch.PayItemID,
		BaseURL:      cfg.Interswitch.BaseURL,
		RedirectURL:  cfg.Interswitch.RedirectURL,
	})

	authService := auth.NewService(db)
	marketService := market.NewService(db)
	productService := product.NewService(db)
	cartService := cart.NewService(db)
	ratingService := rating.NewService(db)
	earningsService := earnings.NewService(db, cfg.Ads.CommissionPercent)
	adService := ad.NewService(db, gateway, jobQueue, counters, cfg.Ads)

	authHandler := handlers.NewAuthHandler(authService)
	marketHandler := handlers.NewMarketHandler(marketService)
	productHandler := handlers.NewProductHandler(productService)
	cartHandler := handlers.NewCartHandler(cartService)
	ratingHandler := handlers.NewRatingHandler(ratingService)
	adHandler := handlers.NewAdHandler(adService)
	marketerHandler := handlers.NewMarketerHandler(earningsService)

	// 30 signup/login attempts per minute per IP
	rateLimiter := middleware.NewRateLimiter(30, 5)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authGroup := router.Group("/api/auth")
	authGroup.Use(rateLimiter.Middleware())
	{
		authGroup.POST("/customers/signup", authHandler.SignupCustomer)
		authGroup.POST("/customers/login", authHandler.LoginCustomer)
		authGroup.POST("/merchants/signup", authHandler.SignupMerchant)
		authGroup.POST("/merchants/login", authHandler.LoginMerchant)
		authGroup.POST("/marketers/signup", authHandler.SignupMarketer)
		authGroup.POST("/marketers/login", authHandler.LoginMarketer)
	}

	marketGroup := router.Group("/api/markets")
	{
		marketGroup.POST("", marketHandler.CreateMarket)
		marketGroup.GET("", marketHandler.ListMarkets)
		marketGroup.GET("/:slug", marketHandler.GetMarket)
	}

	productGroup := router.Group("/api/products")
	{
		productGroup.GET("", productHandler.ListProducts)
		productGroup.GET("/:slug", productHandler.GetProduct)
	}

	merchantProducts := router.Group("/api/products")
	merchantProducts.Use(middleware.AuthMiddleware(), middleware.RequireRole(utils.RoleMerchant))
	{
		merchantProducts.POST("", productHandler.CreateProduct)
		merchantProducts.PUT("/:id", productHandler.UpdateProduct)
		merchantProducts.DELETE("/:id", productHandler.DeleteProduct)
	}

	cartGroup := router.Group("/api/cart")
	cartGroup.Use(middleware.AuthMiddleware(), middleware.RequireRole(utils.RoleCustomer))
	{
		cartGroup.GET("", cartHandler.ListItems)
		cartGroup.POST("/items", cartHandler.AddItem)
		cartGroup.PUT("/items/:id", cartHandler.UpdateItem)
		cartGroup.DELETE("/items/:id", cartHandler.RemoveItem)
	}

	ratingGroup := router.Group("/api/ratings")
	{
		ratingGroup.GET("/:productId", ratingHandler.ListRatings)
	}
	customerRatings := router.Group("/api/ratings")
	customerRatings.Use(middleware.AuthMiddleware(), middleware.RequireRole(utils.RoleCustomer))
	{
		customerRatings.POST("/:productId", ratingHandler.RateProduct)
	}

	adGroup := router.Group("/api/ads")
	{
		adGroup.GET("/active", adHandler.ActiveAds)
		// Gateway redirect target after checkout
		adGroup.GET("/verify/:reference", adHandler.VerifyAdPayment)
		adGroup.POST("/:id/view", adHandler.RecordView)
		adGroup.POST("/:id/click", adHandler.RecordClick)
	}

	merchantAds := router.Group("/api/ads")
	merchantAds.Use(middleware.AuthMiddleware(), middleware.RequireRole(utils.RoleMerchant))
	{
		merchantAds.POST("/free/:productId", adHandler.ActivateFreeAd)
		merchantAds.POST("/initialize/:level/:productId", adHandler.InitializeAdPayment)
	}

	marketerGroup := router.Group("/api/marketers")
	marketerGroup.Use(middleware.AuthMiddleware(), middleware.RequireRole(utils.RoleMarketer))
	{
		marketerGroup.GET("/earnings", marketerHandler.GetEarnings)
	}
}
