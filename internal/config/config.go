package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ProjectID                string
	FirestoreCredentialsFile string
	Port                     string
	LogLevel                 slog.Level

	CheapSharkBaseURL string
	AssetBaseURL      string
	SteamStoreBaseURL string
	DiscordWebhookURL string

	FavoritesCollection string
	ListingsCollection  string

	FeaturedLimit        int
	ExploreLimit         int
	PropertiesLimit      int
	MaxStoredListings    int
	MaxConcurrentLookups int
	GatewayRPS           float64
	HTTPTimeout          time.Duration

	SessionUserName  string
	SessionAvatarURL string

	AllowedDomains []string
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	projectID := os.Getenv("GOOGLE_CLOUD_PROJECT")
	if projectID == "" {
		return nil, fmt.Errorf("GOOGLE_CLOUD_PROJECT environment variable is required but not set")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
		slog.Info("Defaulting to port", "port", port)
	}

	logLevel := slog.LevelInfo
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		if err := logLevel.UnmarshalText([]byte(v)); err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", v, err)
		}
	}

	discordWebhookURL := os.Getenv("DISCORD_WEBHOOK_URL")
	if discordWebhookURL == "" {
		slog.Warn("DISCORD_WEBHOOK_URL not set, free game alerts will be skipped")
	}

	httpTimeoutStr := getenv("HTTP_TIMEOUT", "15s")
	httpTimeout, err := time.ParseDuration(httpTimeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT %q: %w", httpTimeoutStr, err)
	}

	gatewayRPS := 4.0
	if v := os.Getenv("GATEWAY_RPS"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("invalid GATEWAY_RPS %q: must be a positive number", v)
		}
		gatewayRPS = parsed
	}

	cfg := &Config{
		ProjectID:                projectID,
		FirestoreCredentialsFile: os.Getenv("FIRESTORE_CREDENTIALS_FILE"),
		Port:                     port,
		LogLevel:                 logLevel,
		CheapSharkBaseURL:        strings.TrimSuffix(getenv("CHEAPSHARK_BASE_URL", "https://www.cheapshark.com/api/1.0"), "/"),
		AssetBaseURL:             strings.TrimSuffix(getenv("CHEAPSHARK_ASSET_BASE_URL", "https://www.cheapshark.com"), "/"),
		SteamStoreBaseURL:        strings.TrimSuffix(getenv("STEAM_STORE_BASE_URL", "https://store.steampowered.com"), "/"),
		DiscordWebhookURL:        discordWebhookURL,
		FavoritesCollection:      getenv("FAVORITES_COLLECTION", "favorite_games"),
		ListingsCollection:       getenv("LISTINGS_COLLECTION", "listings"),
		GatewayRPS:               gatewayRPS,
		HTTPTimeout:              httpTimeout,
		SessionUserName:          getenv("SESSION_USER_NAME", "Player"),
		SessionAvatarURL:         os.Getenv("SESSION_AVATAR_URL"),
		AllowedDomains:           []string{"cheapshark.com", "steampowered.com"},
	}

	ints := []struct {
		key  string
		def  int
		dest *int
	}{
		{"FEATURED_LIMIT", 20, &cfg.FeaturedLimit},
		{"EXPLORE_LIMIT", 100, &cfg.ExploreLimit},
		{"PROPERTIES_LIMIT", 6, &cfg.PropertiesLimit},
		{"MAX_STORED_LISTINGS", 500, &cfg.MaxStoredListings},
		{"MAX_CONCURRENT_LOOKUPS", 8, &cfg.MaxConcurrentLookups},
	}
	for _, it := range ints {
		*it.dest = it.def
		v := os.Getenv(it.key)
		if v == "" {
			continue
		}
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", it.key, v, err)
		}
		if parsed <= 0 {
			return nil, fmt.Errorf("invalid %s %q: must be positive", it.key, v)
		}
		*it.dest = parsed
	}

	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
