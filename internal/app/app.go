package app

import (
	"log/slog"
	"time"

	"toko/internal/config"
	"toko/internal/handlers"
	"toko/internal/middleware"
	"toko/internal/repositories"
	"toko/internal/services"
	"toko/internal/tokens"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"gorm.io/gorm"
)

// Deps are the external resources the HTTP app is built on.
type Deps struct {
	Config    *config.Config
	DB        *gorm.DB
	Logger    *slog.Logger
	Publisher services.EventPublisher // optional
}

// New wires repositories, services and handlers into a Fiber app.
func New(deps Deps) *fiber.App {
	cfg := deps.Config

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(deps.DB)
	productRepo := repositories.NewGORMProductRepository(deps.DB)
	cartRepo := repositories.NewGORMCartRepository(deps.DB)
	orderRepo := repositories.NewGORMOrderRepository(deps.DB)

	// --- Services ---
	tokenManager := tokens.NewManager(cfg.JWTSecret, cfg.JWTRefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	authService := services.NewAuthService(userRepo, tokenManager)
	productService := services.NewProductService(productRepo)
	cartService := services.NewCartService(cartRepo, deps.Publisher)
	orderService := services.NewOrderService(orderRepo)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(productService)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(orderService)

	app := fiber.New(fiber.Config{
		AppName:      "toko",
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(deps.Logger))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})

	authRequired := middleware.AuthRequired(authService)
	api := app.Group("/api")
	authHandler.RegisterRoutes(api, authRequired)
	productHandler.RegisterRoutes(api, authRequired)
	cartHandler.RegisterRoutes(api, authRequired)
	orderHandler.RegisterRoutes(api, authRequired)

	return app
}
