package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"alfredoptarigan/candilyzer/internal/config"
	"alfredoptarigan/candilyzer/internal/handlers"
	"alfredoptarigan/candilyzer/internal/logger"
	"alfredoptarigan/candilyzer/internal/services"
	"alfredoptarigan/candilyzer/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("config loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("multi_model", cfg.Gemini.MultiModel),
		zap.String("single_model", cfg.Gemini.SingleModel),
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := services.NewMetrics(registry)

	storageService := services.NewStorageService(cfg.Storage.UploadPath, cfg.Storage.MaxFileSize)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatal("failed to create upload directory", zap.Error(err))
	}
	resumes := services.NewResumeReader(storageService, services.NewPDFParserService(log), log)

	agent := services.NewGeminiAgent(services.NewGenAIStreamer, services.GeminiAgentOptions{
		MaxSteps:      cfg.Agent.MaxSteps,
		PreviewLength: cfg.Log.PreviewLength,
	}, log)

	evaluatorService := services.NewEvaluatorService(agent, services.EvaluatorOptions{
		MultiModel:    cfg.Gemini.MultiModel,
		SingleModel:   cfg.Gemini.SingleModel,
		GitHubBaseURL: cfg.Tools.GitHubBaseURL,
		ExaBaseURL:    cfg.Tools.ExaBaseURL,
		HTTPClient:    &http.Client{Timeout: cfg.Tools.HTTPTimeout},
	}, metrics, log)

	sessions := services.NewSessionStore(cfg.Session.Capacity, cfg.Session.TTL)
	log.Info("services initialized")

	app := fiber.New(fiber.Config{
		AppName:      "Candilyzer",
		ReadTimeout:  30 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize) + 1<<20,
		ErrorHandler: handlers.NewErrorHandler(log),
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	handlers.Routes(app.Group("/api/v1"),
		handlers.SessionMiddleware(sessions, cfg.Session.CookieName, cfg.Session.TTL, !cfg.IsDevelopment()),
		handlers.NewCredentialsHandler(log),
		handlers.NewEvaluationHandler(evaluatorService, resumes, log),
	)

	app.Use("/", filesystem.New(filesystem.Config{
		Root:  http.FS(web.Static()),
		Index: "index.html",
	}))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info("shutting down server")
		if err := app.Shutdown(); err != nil {
			log.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info("server starting", zap.String("addr", addr), zap.String("url", "http://localhost"+addr))

	if err := app.Listen(addr); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}
