package catalog

import (
	"context"
	"fmt"

	"github.com/pauljones0/game-deals-catalog/internal/models"
	"github.com/pauljones0/game-deals-catalog/internal/resource"
)

type FavoritesView struct {
	Count int                     `json:"count"`
	Items []models.FavoriteRecord `json:"items"`
}

func (s *Service) Favorites(ctx context.Context) (*FavoritesView, error) {
	favs := resource.New(resource.Config[struct{}, []models.FavoriteRecord]{
		Name: "favorites.list",
		Fetch: func(ctx context.Context, _ struct{}) ([]models.FavoriteRecord, error) {
			return s.favorites.List(ctx)
		},
	})
	defer track("favorites.list", favs)()
	if err := favs.Activate(ctx); err != nil {
		return nil, fmt.Errorf("favorites: %w", err)
	}
	items := favs.Snapshot().Data
	if items == nil {
		items = []models.FavoriteRecord{}
	}
	return &FavoritesView{Count: len(items), Items: items}, nil
}

// AddFavorite stores a favorite. Nothing is deduplicated.
func (s *Service) AddFavorite(ctx context.Context, title, thumb string) (models.FavoriteRecord, error) {
	return s.favorites.Add(ctx, title, thumb)
}

// AddFavoriteGame stores the title and thumbnail of gameID as a favorite.
func (s *Service) AddFavoriteGame(ctx context.Context, gameID string) (models.FavoriteRecord, error) {
	detail, err := s.pricing.GetGameDetail(ctx, gameID)
	if err != nil {
		return models.FavoriteRecord{}, fmt.Errorf("favorite game %s: %w", gameID, err)
	}
	return s.favorites.Add(ctx, detail.Info.Title, detail.Info.Thumb)
}
