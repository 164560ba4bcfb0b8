package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/pflag"

	"alfredoptarigan/careerpulse/internal/config"
	"alfredoptarigan/careerpulse/internal/handlers"
	"alfredoptarigan/careerpulse/internal/logger"
	"alfredoptarigan/careerpulse/internal/services"
)

func main() {
	configPath := pflag.StringP("config", "c", "", "path to an optional YAML config file")
	pflag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Log)
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("❌ Invalid configuration")
	}
	logger.Info().Str("env", cfg.Server.Env).Str("model", cfg.Gemini.Model).Msg("✅ Config loaded successfully")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize Gemini AI
	geminiService, err := services.NewGeminiService(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.RequestTimeout)
	if err != nil {
		logger.Fatal().Err(err).Msg("❌ Failed to initialize Gemini AI")
	}
	logger.Info().Msg("✅ Gemini AI initialized successfully")

	// Initialize services
	analyzerService := services.NewAnalyzerService(geminiService)
	generatorService := services.NewGeneratorService(geminiService)
	parserService := services.NewResumeParserService()
	conversationStore := services.NewConversationStore(
		geminiService,
		services.WithContextLimit(cfg.Chat.ContextLimit),
		services.WithStreamTimeout(cfg.Chat.StreamTimeout),
	)
	logger.Info().Msg("✅ Services initialized successfully")

	// Start janitor
	janitor := services.NewJanitor(conversationStore, cfg.Chat.SessionTTL, cfg.Chat.JanitorInterval)
	janitor.Start(ctx)

	routes := &handlers.Routes{
		Upload:   handlers.NewUploadHandler(parserService, cfg.Resume.MaxFileSize),
		Analyze:  handlers.NewAnalyzeHandler(analyzerService, cfg.Resume.MinLength),
		Resource: handlers.NewResourceHandler(generatorService),
		Chat:     handlers.NewChatHandler(conversationStore),
	}
	logger.Info().Msg("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:           "CareerPulse API",
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		BodyLimit:         int(cfg.Resume.MaxFileSize) + 1<<20,
		ErrorHandler:      handlers.ErrorHandler,
		EnablePrintRoutes: cfg.IsDevelopment(),
	})

	// Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	routes.Register(app.Group("/api/v1"))

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "CareerPulse API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/resume/extract",
				"POST /api/v1/analyze",
				"POST /api/v1/resources/:kind",
				"POST /api/v1/chat/sessions",
				"GET /api/v1/chat/sessions/:id",
				"POST /api/v1/chat/sessions/:id/messages",
				"POST /api/v1/chat/sessions/:id/reset",
				"DELETE /api/v1/chat/sessions/:id",
			},
		})
	})

	// Graceful shutdown
	go func() {
		<-ctx.Done()
		logger.Info().Msg("🛑 Shutting down server...")
		janitor.Stop()
		if err := app.Shutdown(); err != nil {
			logger.Error().Err(err).Msg("❌ Server forced to shutdown")
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.Info().Str("addr", addr).Msg("🚀 Server starting")

	if err := app.Listen(addr); err != nil {
		logger.Fatal().Err(err).Msg("❌ Failed to start server")
	}
}
