package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/api/option"

	"github.com/pauljones0/game-deals-catalog/internal/catalog"
	"github.com/pauljones0/game-deals-catalog/internal/config"
	"github.com/pauljones0/game-deals-catalog/internal/favorites"
	"github.com/pauljones0/game-deals-catalog/internal/gateway"
	"github.com/pauljones0/game-deals-catalog/internal/notifier"
	"github.com/pauljones0/game-deals-catalog/internal/processor"
	"github.com/pauljones0/game-deals-catalog/internal/scraper"
	"github.com/pauljones0/game-deals-catalog/internal/server"
	"github.com/pauljones0/game-deals-catalog/internal/session"
	"github.com/pauljones0/game-deals-catalog/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Critical error loading configuration", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))
	slog.Info("Starting game deals catalog server...")

	ctx := context.Background()
	var opts []option.ClientOption
	if cfg.FirestoreCredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.FirestoreCredentialsFile))
	}
	store, err := storage.New(ctx, cfg.ProjectID, cfg.FavoritesCollection, cfg.ListingsCollection, opts...)
	if err != nil {
		slog.Error("Critical error initializing Firestore client", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	pricing := gateway.New(cfg.CheapSharkBaseURL,
		gateway.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		gateway.WithRateLimit(cfg.GatewayRPS),
	)
	steam := scraper.New(cfg.SteamStoreBaseURL, cfg.AllowedDomains, cfg.HTTPTimeout)
	n := notifier.New(cfg.DiscordWebhookURL, cfg.AssetBaseURL)

	favs := favorites.NewManager(store)
	sess := session.New(cfg.SessionUserName, cfg.SessionAvatarURL)
	cat := catalog.New(pricing, store, favs, steam, sess, cfg)
	p := processor.New(pricing, store, n, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      server.New(cat, p).Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGTERM/SIGINT
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
		sig := <-sigCh
		slog.Info("Received signal, shutting down gracefully...", "signal", sig)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("HTTP server shutdown error", "error", err)
		}
	}()

	slog.Info("Listening on port", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("Failed to listen and serve", "error", err)
		os.Exit(1)
	}
	slog.Info("Server stopped.")
}
