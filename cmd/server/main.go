package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"examprep-backend/internal/config"
	"examprep-backend/internal/database"
	"examprep-backend/internal/handlers"
	"examprep-backend/internal/logger"
	"examprep-backend/internal/middleware"
	"examprep-backend/internal/observability"
	"examprep-backend/internal/persona"
	"examprep-backend/internal/retrieval"
	"examprep-backend/internal/router"
	"examprep-backend/internal/services"
	"examprep-backend/internal/session"
	"examprep-backend/internal/websocket"
)

func main() {
	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()

	log := logger.New(cfg.IsProduction(), cfg.LogFile)
	defer log.Sync()
	log.Info("🚀 Starting ExamPrep Backend...")
	log.Info("✓ Environment variables loaded", "env", cfg.Env)

	ctx := context.Background()

	// ──── Step 2: Tracing ────
	shutdownTracing := observability.InitOTel(ctx, log, observability.OtelConfig{
		Enabled:     cfg.OtelEnabled,
		ServiceName: cfg.OtelServiceName,
		Environment: cfg.Env,
	})

	// ──── Step 3: Personas ────
	personas := persona.Default()
	if cfg.PersonasFile != "" {
		loaded, err := persona.LoadFile(cfg.PersonasFile)
		if err != nil {
			log.Fatal("✗ Persona table failed to load", "path", cfg.PersonasFile, "error", err)
		}
		personas = loaded
	}
	log.Info("✓ Persona table loaded", "modes", len(personas.Modes()))

	// ──── Step 4: Redis (optional) ────
	redisClient, err := database.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal("✗ Redis connection failed", "error", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
		log.Info("✓ Redis connected")
	} else {
		log.Info("✓ Redis disabled, progress events stay in-process")
	}

	// ──── Step 5: Gemini Clients ────
	geminiService, err := services.NewGeminiService(
		ctx,
		cfg.GeminiAPIKey,
		cfg.GeminiModel,
		cfg.GeminiTemperature,
		cfg.GeminiConcurrentReqs,
		log,
	)
	if err != nil {
		log.Fatal("✗ Gemini client initialization failed", "error", err)
	}
	defer geminiService.Close()

	embedder, err := retrieval.NewGeminiEmbedder(ctx, cfg.GeminiAPIKey, cfg.EmbeddingModel, cfg.EmbeddingConcurrency)
	if err != nil {
		log.Fatal("✗ Gemini embedding client initialization failed", "error", err)
	}
	defer embedder.Close()
	log.Info("✓ Gemini clients initialized", "model", cfg.GeminiModel, "embedding_model", cfg.EmbeddingModel)

	// ──── Step 6: Sessions ────
	secret := cfg.SessionSecret
	if secret == "" {
		secret = randomSecret()
		log.Warn("SESSION_SECRET not set; sessions will not survive a restart")
	}
	store := session.NewStore(cfg.SessionTTL, 10*time.Minute)
	tokens := middleware.NewSessionTokens(secret, cfg.SessionTTL, cfg.IsProduction())
	log.Info("✓ Session store ready", "ttl", cfg.SessionTTL.String())

	// ──── Step 7: WebSocket Hub & Services ────
	wsHub := websocket.NewHub(redisClient, tokens, store, log)

	var progress services.ProgressPublisher = wsHub
	if redisClient != nil {
		progress = services.NewRedisProgressPublisher(redisClient)
	}

	tutor := services.NewTutorService(
		services.NewFileExtractService(log),
		embedder,
		geminiService,
		personas,
		progress,
		log,
	)

	// ──── Step 8: Start HTTP Server ────
	r := router.New(
		tokens,
		store,
		handlers.NewContentHandler(tutor, log),
		handlers.NewChatHandler(tutor, log),
		handlers.NewTopicHandler(tutor, log),
		handlers.NewSessionHandler(),
		wsHub,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second, // embedding a large upload takes a while
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("Shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
		if err := shutdownTracing(ctx); err != nil {
			log.Warn("tracer shutdown failed", "error", err)
		}
	}()

	log.Info(fmt.Sprintf("✓ ExamPrep Backend ready on http://localhost:%s", cfg.Port))
	log.Info(fmt.Sprintf("  WS:  ws://localhost:%s/ws", cfg.Port))

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatal("Server error", "error", err)
	}
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}
