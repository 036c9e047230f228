package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/snehareddy22/airaware/internal/ai"
	"github.com/snehareddy22/airaware/internal/ai/gemini"
	"github.com/snehareddy22/airaware/internal/ai/openai"
	"github.com/snehareddy22/airaware/internal/api"
	"github.com/snehareddy22/airaware/internal/aqi"
	"github.com/snehareddy22/airaware/internal/assistant"
	"github.com/snehareddy22/airaware/internal/config"
	"github.com/snehareddy22/airaware/internal/dataset"
	"github.com/snehareddy22/airaware/internal/forest"
	"github.com/snehareddy22/airaware/internal/storage/sqlite"
	"github.com/snehareddy22/airaware/pkg/logger"
)

var (
	// Version is injected at build time
	Version = "dev"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to configuration file (optional - will search in configs/ and root directory)")
	flag.Parse()

	// Load configuration with fallback logic
	cfg, err := config.LoadWithFallback(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// Create logger
	log, err := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting AirAware server",
		logger.String("version", Version),
		logger.String("config_path", *configPath),
	)

	// Resolve the dataset CSV. The server reads it on every dashboard
	// request, so a missing file must fail now rather than per-request.
	datasetPath, err := config.ResolvePath(cfg.Dataset.Paths)
	if err != nil {
		log.Error("Dataset CSV not found", logger.Error(err))
		os.Exit(1)
	}
	log.Info("Using dataset", logger.String("path", datasetPath))

	// Resolve and load the regression model artifact
	modelPath, err := config.ResolvePath(cfg.Model.Paths)
	if err != nil {
		log.Error("Model artifact not found", logger.Error(err))
		os.Exit(1)
	}
	model, err := forest.Load(modelPath)
	if err != nil {
		log.Error("Failed to load model artifact", logger.Error(err), logger.String("path", modelPath))
		os.Exit(1)
	}
	log.Info("Loaded regression model",
		logger.String("path", modelPath),
		logger.Int("trees", len(model.Trees)))

	// Create SQLite storage for accounts, feedback and ratings
	db, err := sqlite.Open(cfg.Storage.SQLitePath, log)
	if err != nil {
		log.Error("Failed to open SQLite database", logger.Error(err), logger.String("path", cfg.Storage.SQLitePath))
		os.Exit(1)
	}
	defer db.Close()
	log.Info("Using SQLite storage", logger.String("path", cfg.Storage.SQLitePath))

	userStorage, err := sqlite.NewUserStorage(db, log)
	if err != nil {
		log.Error("Failed to create user storage", logger.Error(err))
		os.Exit(1)
	}
	feedbackStorage, err := sqlite.NewFeedbackStorage(db, log)
	if err != nil {
		log.Error("Failed to create feedback storage", logger.Error(err))
		os.Exit(1)
	}
	ratingStorage, err := sqlite.NewRatingStorage(db, log)
	if err != nil {
		log.Error("Failed to create rating storage", logger.Error(err))
		os.Exit(1)
	}

	// Create the dashboard pipeline services
	store := dataset.NewStore(datasetPath, cfg.Cities.Default, log)
	aqiService := aqi.NewService(store, model, log)

	// Create the chat provider (if an API key is configured)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var provider ai.ChatProvider
	if cfg.ChatAPIKey() == "" {
		log.Info("Chat assistant disabled (no API key configured)")
	} else {
		switch cfg.Chat.Provider {
		case "gemini":
			geminiClient, err := gemini.NewClient(ctx, cfg.Chat.GeminiAPIKey, log)
			if err != nil {
				log.Error("Failed to create Gemini client, assistant disabled", logger.Error(err))
			} else {
				provider = geminiClient
			}
		default:
			openaiClient := openai.NewClient(
				cfg.Chat.OpenAIAPIKey,
				log,
				cfg.OpenAI.BaseURL,
				time.Duration(cfg.Chat.TimeoutSeconds)*time.Second,
			)
			openaiClient.SetChatCompletionsPath(cfg.OpenAI.ChatCompletionsPath)
			provider = openaiClient
		}
		if provider != nil {
			log.Info("Chat assistant enabled",
				logger.String("provider", cfg.Chat.Provider),
				logger.String("model", cfg.Chat.Model))
		}
	}

	assistantService := assistant.NewService(provider, ai.ChatConfig{
		Model:       cfg.Chat.Model,
		Temperature: cfg.Chat.Temperature,
		MaxTokens:   cfg.Chat.MaxTokens,
	}, log)

	// Create API router
	handler := api.NewHandler(aqiService, assistantService, userStorage, feedbackStorage, ratingStorage, cfg, log)
	router := api.NewRouter(handler, cfg, log)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router.Routes(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSecs) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSecs) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeoutSecs) * time.Second,
	}

	go func() {
		log.Info("Starting HTTP server", logger.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error on startup", logger.String("addr", server.Addr), logger.Error(err))
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", logger.Error(err))
	}

	log.Info("Server fully stopped")
}
