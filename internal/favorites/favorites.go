// Package favorites manages the user's saved games.
package favorites

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/pauljones0/game-deals-catalog/internal/models"
	"github.com/pauljones0/game-deals-catalog/internal/validator"
)

var favoritesCreated = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "catalog",
	Name:      "favorites_created_total",
	Help:      "Favorites written to the document store.",
})

// Store persists favorites.
type Store interface {
	ListFavorites(ctx context.Context) ([]models.FavoriteRecord, error)
	CreateFavorite(ctx context.Context, rec models.FavoriteRecord) (models.FavoriteRecord, error)
}

type Manager struct {
	store     Store
	validator *validator.Validator
}

func NewManager(store Store) *Manager {
	return &Manager{store: store, validator: validator.New()}
}

// List returns every stored favorite. Nothing is cached between calls.
func (m *Manager) List(ctx context.Context) ([]models.FavoriteRecord, error) {
	recs, err := m.store.ListFavorites(ctx)
	if err != nil {
		slog.Error("Failed to list favorites", "error", err)
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return recs, nil
}

// Add stores a new favorite. Adding the same game twice stores two records.
func (m *Manager) Add(ctx context.Context, title, thumb string) (models.FavoriteRecord, error) {
	rec := models.FavoriteRecord{
		Title: strings.TrimSpace(title),
		Thumb: strings.TrimSpace(thumb),
	}
	if err := m.validator.ValidateStruct(rec); err != nil {
		slog.Warn("Rejected favorite", "title", rec.Title, "error", err)
		return models.FavoriteRecord{}, err
	}

	created, err := m.store.CreateFavorite(ctx, rec)
	if err != nil {
		slog.Error("Failed to add favorite", "title", rec.Title, "error", err)
		return models.FavoriteRecord{}, fmt.Errorf("add favorite: %w", err)
	}
	favoritesCreated.Inc()
	slog.Info("Added favorite", "id", created.ID, "title", created.Title)
	return created, nil
}
