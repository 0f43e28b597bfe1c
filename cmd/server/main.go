// main.go
//
// Massive Action Tracker (MAT) data service
// Copyright (c) 2026 TrueXpanse, LLC <support@truexpanse.com>

package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/truexpanse/mat-data-service/internal/config"
	"github.com/truexpanse/mat-data-service/internal/database"
	"github.com/truexpanse/mat-data-service/internal/handlers"
	"github.com/truexpanse/mat-data-service/internal/metrics"
	"github.com/truexpanse/mat-data-service/internal/middleware"
	"github.com/truexpanse/mat-data-service/internal/services"
	"github.com/truexpanse/mat-data-service/internal/store"
	"github.com/truexpanse/mat-data-service/internal/types"

	_ "github.com/truexpanse/mat-data-service/docs/api" // Swagger docs
)

// @title Massive Action Tracker API
// @version 1.0.0
// @description Sales activity data service: day records, revenue rollups, hot leads, EOD reporting
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://truexpanse.com
// @contact.email support@truexpanse.com

// @license.name Proprietary
// @license.url https://truexpanse.com/terms

// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name cookie_session

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	middleware.UseConfig(cfg)

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Session stores: one per signed-in user, all sharing the same
	// remote store, suggestion client and win sink.
	remote := &services.GormRemote{DB: db}
	suggest := &services.SuggestionClient{
		URL:     cfg.SuggestURL,
		Timeout: time.Duration(cfg.SuggestTimeoutMS) * time.Millisecond,
	}
	onWin := func(dateKey, message string) {
		metrics.WinsRecorded.Inc()
		log.Printf("win: date=%s message=%q", dateKey, message)
	}
	registry := store.NewRegistry(remote, suggest, onWin,
		time.Duration(cfg.RemoteTimeoutMS)*time.Millisecond)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler:          customErrorHandler,
		DisableStartupMessage: false,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())

	// Prometheus metrics
	prometheus := fiberprometheus.New("mat_data_service")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API routes under /api
	api := app.Group("/api")

	// Version middleware
	api.Use(middleware.VersionMiddleware())

	// Create handlers
	dayHandler := &handlers.DayDataHandler{DB: db, Registry: registry}
	revenueHandler := &handlers.RevenueHandler{DB: db, WeekStart: time.Weekday(cfg.WeekStart)}
	eodHandler := &handlers.EODHandler{DB: db, Registry: registry}
	leadsHandler := &handlers.LeadsHandler{DB: db}
	txHandler := &handlers.TransactionsHandler{DB: db}
	clientsHandler := &handlers.ClientsHandler{DB: db}
	quotesHandler := &handlers.QuotesHandler{DB: db}
	usersHandler := &handlers.UsersHandler{DB: db}
	sessionHandler := &handlers.SessionHandler{Registry: registry}
	healthHandler := &handlers.HealthHandler{DB: db, Cfg: cfg}

	// Health (unauthenticated, for probes)
	api.Get("/health", healthHandler.GetHealth)

	// Day-record routes. The static "pending" segment must register
	// before the :date parameter.
	day := api.Group("/data/day", middleware.AuthUser())
	day.Get("/pending", dayHandler.GetPending)
	day.Get("/", dayHandler.GetAllDays)
	day.Get("/:date", dayHandler.GetDay)
	day.Post("/:date", dayHandler.UpsertDay)
	day.Post("/:date/wins", dayHandler.RecordWin)
	day.Post("/:date/goals/completion", dayHandler.SetGoalCompletion)
	day.Post("/:date/challenges/accept", dayHandler.AcceptChallenges)

	// Pipeline and ledger routes
	api.Get("/leads", middleware.AuthUser(), leadsHandler.ListLeads)
	api.Post("/leads", middleware.AuthUser(), leadsHandler.CreateLead)
	api.Put("/leads/:id", middleware.AuthUser(), leadsHandler.UpdateLead)
	api.Delete("/leads/:id", middleware.AuthUser(), leadsHandler.DeleteLead)
	api.Get("/transactions", middleware.AuthUser(), txHandler.ListTransactions)
	api.Post("/transactions", middleware.AuthUser(), txHandler.CreateTransaction)
	api.Get("/clients", middleware.AuthUser(), clientsHandler.ListClients)
	api.Post("/clients", middleware.AuthUser(), clientsHandler.CreateClient)
	api.Get("/quotes", middleware.AuthUser(), quotesHandler.ListQuotes)
	api.Post("/quotes", middleware.AuthUser(), quotesHandler.SaveQuote)
	api.Delete("/quotes/:id", middleware.AuthUser(), quotesHandler.DeleteQuote)
	api.Get("/revenue/rollup", middleware.AuthUser(), revenueHandler.GetRollup)

	// Manager-only routes
	api.Get("/eod/index", middleware.AuthManager(), eodHandler.GetSubmissionIndex)
	api.Get("/users", middleware.AuthManager(), usersHandler.ListUsers)

	// Session teardown
	api.Delete("/session", middleware.AuthUser(), sessionHandler.EndSession)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":    fiber.StatusNotFound,
			"message":   "[404] Resource Not Found",
			"ok":        false,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"url":       c.OriginalURL(),
		})
	})

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	// Start server
	port := cfg.Port
	log.Printf("Starting server on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	log.Println("Server stopped")
}

// customErrorHandler handles errors globally
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()
	errorType := "unknown"

	switch e := err.(type) {
	case *types.CustomError:
		code = e.Code
		message = e.Message
		errorType = e.Type
	case *fiber.Error:
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"status":    code,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
		"type":      errorType,
	})
}
