package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/climasite/backend/internal/cache"
	"github.com/climasite/backend/internal/cart"
	"github.com/climasite/backend/internal/config"
	"github.com/climasite/backend/internal/database"
	"github.com/climasite/backend/internal/handlers"
	"github.com/climasite/backend/internal/logging"
	"github.com/climasite/backend/internal/mailer"
	"github.com/climasite/backend/internal/middleware"
	"github.com/climasite/backend/internal/orders"
	"github.com/climasite/backend/internal/payments"
	"github.com/climasite/backend/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	if err := database.Seed(db); err != nil {
		logger.Fatal("seed failed", zap.Error(err))
	}
	logger.Info("database ready")

	redisClient := cache.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logger.Fatal("redis connection failed", zap.Error(err))
	}
	cartRepo := cart.NewRepository(redisClient, cfg.CartTTL)
	catalogCache := cache.New(redisClient)

	orderService := orders.NewService(db, logger, cfg.Currency, cfg.TaxRate)

	var gateway *payments.Gateway
	if cfg.Stripe.Enabled() {
		gateway = payments.NewGateway(cfg.Stripe)
		logger.Info("stripe gateway enabled")
	} else {
		logger.Warn("stripe not configured, card payments disabled")
	}

	var sender mailer.Sender
	if cfg.SMTP.Enabled() {
		sender = mailer.NewSMTPSender(cfg.SMTP)
		logger.Info("smtp mailer enabled", zap.String("host", cfg.SMTP.Host))
	} else {
		logger.Warn("smtp not configured, order mail disabled")
	}
	notifier := mailer.NewNotifier(sender, logger)

	var imageStore *storage.S3Storage
	if cfg.S3.Enabled() {
		imageStore, err = storage.NewS3(context.Background(), cfg.S3)
		if err != nil {
			logger.Fatal("s3 setup failed", zap.Error(err))
		}
		logger.Info("s3 image storage enabled", zap.String("bucket", cfg.S3.Bucket))
	} else {
		logger.Warn("s3 not configured, image uploads disabled")
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), logging.RequestLogger(logger))

	api := r.Group("/api")

	api.POST("/auth/register", handlers.Register(db, logger, cfg))
	api.POST("/auth/login", handlers.Login(db, logger, cfg))
	api.POST("/auth/refresh", handlers.Refresh(db, logger, cfg))
	api.POST("/auth/logout", handlers.Logout(db, logger))
	api.GET("/auth/me", middleware.UserAuth(cfg.JWTSecret), handlers.GetMe(db, logger))

	api.GET("/products", handlers.GetProducts(db, catalogCache, logger))
	api.GET("/products/:slug", handlers.GetProduct(db, logger))
	api.GET("/products/:slug/reviews", handlers.GetProductReviews(db, logger))
	api.GET("/products/:slug/questions", handlers.GetProductQuestions(db, logger))
	api.GET("/categories", handlers.GetCategories(db, logger))
	api.GET("/shipping-methods", handlers.GetShippingMethods(logger))
	api.GET("/orders/statuses", handlers.GetOrderStatuses(logger))

	if gateway != nil {
		api.POST("/payments/webhook", handlers.StripeWebhook(gateway, orderService, logger))
	}

	user := api.Group("")
	user.Use(middleware.UserAuth(cfg.JWTSecret))
	{
		user.GET("/cart", handlers.GetCart(cartRepo, logger))
		user.POST("/cart/items", handlers.AddCartItem(db, cartRepo, logger))
		user.PUT("/cart/items/:id", handlers.UpdateCartItem(cartRepo, logger))
		user.DELETE("/cart/items/:id", handlers.RemoveCartItem(cartRepo, logger))
		user.DELETE("/cart", handlers.ClearCart(cartRepo, logger))

		user.POST("/orders", handlers.CreateOrder(orderService, cartRepo, gateway, notifier, logger))
		user.GET("/orders", handlers.GetOrders(orderService, logger))
		user.GET("/orders/:id", handlers.GetOrder(orderService, logger))
		user.POST("/orders/:id/cancel", handlers.CancelOrder(orderService, logger))

		user.POST("/products/:slug/reviews", handlers.CreateProductReview(db, logger))
		user.POST("/products/:slug/questions", handlers.CreateProductQuestion(db, logger))

		user.POST("/installations", handlers.CreateInstallationRequest(db, logger))
		user.GET("/installations", handlers.GetUserInstallationRequests(db, logger))

		user.GET("/user/addresses", handlers.GetUserAddresses(db, logger))
		user.POST("/user/addresses", handlers.CreateUserAddress(db, logger))
		user.PUT("/user/addresses/:id", handlers.UpdateUserAddress(db, logger))
		user.DELETE("/user/addresses/:id", handlers.DeleteUserAddress(db, logger))
	}

	admin := api.Group("/admin")
	admin.Use(middleware.AdminAuth(cfg.JWTSecret))
	{
		admin.GET("/products", handlers.AdminListProducts(db, logger))
		admin.POST("/products", handlers.AdminCreateProduct(db, logger))
		admin.PUT("/products/:id", handlers.AdminUpdateProduct(db, logger))
		admin.DELETE("/products/:id", handlers.AdminDeleteProduct(db, logger))
		admin.POST("/products/:id/variants", handlers.AdminCreateVariant(db, logger))
		admin.PUT("/variants/:id", handlers.AdminUpdateVariant(db, logger))
		admin.DELETE("/variants/:id", handlers.AdminDeleteVariant(db, logger))

		admin.GET("/categories", handlers.AdminListCategories(db, logger))
		admin.POST("/categories", handlers.AdminCreateCategory(db, logger))
		admin.PUT("/categories/:id", handlers.AdminUpdateCategory(db, logger))
		admin.DELETE("/categories/:id", handlers.AdminDeleteCategory(db, logger))

		admin.GET("/orders", handlers.AdminListOrders(orderService, logger))
		admin.GET("/orders/:id", handlers.AdminGetOrder(orderService, logger))
		admin.PUT("/orders/:id/status", handlers.AdminTransitionOrder(orderService, notifier, logger))

		admin.GET("/questions", handlers.GetUnansweredQuestions(db, logger))
		admin.PUT("/questions/:id/answer", handlers.AnswerQuestion(db, logger))

		admin.GET("/installations", handlers.AdminListInstallationRequests(db, logger))
		admin.PUT("/installations/:id", handlers.AdminUpdateInstallationRequest(db, logger))

		admin.POST("/uploads", handlers.AdminUploadImage(imageStore, logger))
		admin.POST("/uploads/presign", handlers.AdminPresignUpload(imageStore, logger))
	}

	logger.Info("server starting", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
