package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/XxLosHermanosxX/Sushibot/internal/ai"
	"github.com/XxLosHermanosxX/Sushibot/internal/bot"
	"github.com/XxLosHermanosxX/Sushibot/internal/config"
	"github.com/XxLosHermanosxX/Sushibot/internal/events"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8001"
	}

	configPath := os.Getenv("CONFIG_FILE")
	if configPath == "" {
		configPath = "config.json"
	}
	cfgManager := config.Load(configPath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Event hub, optionally mirrored to RabbitMQ ---
	var sinks []events.Sink
	if url := os.Getenv("AMQP_URL"); url != "" {
		pub, err := events.NewAMQPPublisher(url, "sushibot.events", logger)
		if err != nil {
			logger.Error("amqp connect failed, events will not be mirrored", "err", err)
		} else {
			defer pub.Close()
			sinks = append(sinks, pub)
		}
	}
	hub := events.New(logger, sinks...)
	go hub.Run(ctx)

	// --- Core wiring ---
	store := bot.NewStore()
	dispatcher := ai.NewDispatcher(cfgManager, logger)
	status := bot.NewStatusRegistry()
	service := bot.NewService(store, cfgManager, dispatcher, hub, logger)
	handler := bot.NewHandler(service, cfgManager, dispatcher, status, hub)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
	}))
	bot.RegisterRoutes(r, handler)

	cfg := cfgManager.Get()
	logger.Info("sushibot backend started",
		"port", port,
		"config_file", configPath,
		"provider", cfg.Provider,
		"model", cfg.SelectedModel,
		"api_key_set", cfg.ActiveAPIKey() != "",
		"site", cfg.SiteURL,
	)

	srv := &http.Server{Addr: ":" + port, Handler: r}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}
