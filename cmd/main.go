package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"tenantvolt/internal/docstore"
	"tenantvolt/internal/handlers"
	"tenantvolt/internal/identity"
	"tenantvolt/internal/mailer"
	"tenantvolt/internal/middleware"
	"tenantvolt/internal/repositories"
	"tenantvolt/internal/services"
	"tenantvolt/pkg/database"
)

const version = "1.0.0"

func main() {
	// Optional .env file for local development
	_ = godotenv.Load()

	// Database connection
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := database.NewPool(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Document store over Postgres
	store := docstore.NewClient(pool)
	if err := store.EnsureSchema(context.Background()); err != nil {
		log.Fatalf("Failed to ensure document schema: %v", err)
	}

	// Identity provider configuration
	identityBaseURL := os.Getenv("IDENTITY_BASE_URL")
	if identityBaseURL == "" {
		identityBaseURL = "https://identitytoolkit.googleapis.com"
	}
	identityAPIKey := os.Getenv("IDENTITY_API_KEY")
	if identityAPIKey == "" {
		log.Fatal("IDENTITY_API_KEY environment variable is required")
	}
	jwksURL := os.Getenv("IDENTITY_JWKS_URL")
	if jwksURL == "" {
		log.Fatal("IDENTITY_JWKS_URL environment variable is required")
	}
	audience := os.Getenv("IDENTITY_AUDIENCE")
	issuer := os.Getenv("IDENTITY_ISSUER")

	provider := identity.NewRESTProvider(identityBaseURL, identityAPIKey)
	verifier, err := identity.NewJWKSVerifier(context.Background(), jwksURL, provider, audience, issuer)
	if err != nil {
		log.Fatalf("Failed to initialize token verifier: %v", err)
	}

	// Mail transport configuration
	mailgunDomain := os.Getenv("MAILGUN_DOMAIN")
	mailgunAPIKey := os.Getenv("MAILGUN_API_KEY")
	if mailgunDomain == "" || mailgunAPIKey == "" {
		log.Fatal("MAILGUN_DOMAIN and MAILGUN_API_KEY environment variables are required")
	}
	mailFrom := os.Getenv("MAIL_FROM")
	if mailFrom == "" {
		mailFrom = fmt.Sprintf("TenantVolt <noreply@%s>", mailgunDomain)
	}
	mailSvc := mailer.NewMailgunMailer(mailgunDomain, mailgunAPIKey, mailFrom)

	// Create repositories
	ownerRepo := repositories.NewOwnerRepo(store)
	profileRepo := repositories.NewProfileRepo(store)
	billRepo := repositories.NewBillRepo(store)

	// Create services
	orderSvc := services.NewOrderService(ownerRepo)
	billingSvc := services.NewBillingService(ownerRepo, billRepo, mailSvc)

	// Create handlers
	authHandlers := handlers.NewAuthHandlers(provider, ownerRepo)
	profileHandlers := handlers.NewProfileHandlers(profileRepo)
	orderHandlers := handlers.NewOrderHandlers(orderSvc)
	billHandlers := handlers.NewBillHandlers(billingSvc)
	healthHandlers := handlers.NewHealthHandlers(store)

	e := newRouter(verifier, authHandlers, profileHandlers, orderHandlers, billHandlers, healthHandlers)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("TenantVolt server v%s starting on port %s", version, port)

	e.Logger.Fatal(e.Start(fmt.Sprintf(":%s", port)))
}

// newRouter builds the Echo instance with global middleware and all routes.
func newRouter(
	verifier identity.Verifier,
	authHandlers *handlers.AuthHandlers,
	profileHandlers *handlers.ProfileHandlers,
	orderHandlers *handlers.OrderHandlers,
	billHandlers *handlers.BillHandlers,
	healthHandlers *handlers.HealthHandlers,
) *echo.Echo {
	e := echo.New()

	// Trailing slashes must be stripped before route matching, so this goes
	// through Pre, not Use.
	e.Pre(echoMiddleware.RemoveTrailingSlash())

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
		MaxAge:       86400,
	}))

	// Health endpoints (no auth required)
	e.GET("/health", healthHandlers.Check)
	e.GET("/health/ready", healthHandlers.Ready)

	api := e.Group("/api")

	// Authentication routes
	auth := api.Group("/auth")
	auth.POST("/login", authHandlers.Login)
	auth.POST("/signup", authHandlers.Signup)

	// Profile routes (require bearer token)
	profile := auth.Group("/profile")
	profile.Use(middleware.RequireAuth(verifier))
	profile.GET("", profileHandlers.Get)
	profile.POST("/update", profileHandlers.Update)

	// Order routes
	orders := api.Group("/orders")
	orders.GET("/pending", orderHandlers.GetPendingOrders)
	orders.GET("/completed", orderHandlers.GetCompletedOrders)
	orders.POST("/update-status", orderHandlers.UpdateOrderStatus)

	// Bill routes
	bills := api.Group("/bills")
	bills.POST("/send-notification", billHandlers.SendNotification)

	return e
}
