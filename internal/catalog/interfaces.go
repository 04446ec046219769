package catalog

import (
	"context"

	"github.com/pauljones0/game-deals-catalog/internal/models"
)

// PricingAPI is the remote pricing service.
type PricingAPI interface {
	ListDeals(ctx context.Context, limit int) ([]models.GameSummary, error)
	ListGames(ctx context.Context, query string) ([]models.GameSummary, error)
	GetGameDetail(ctx context.Context, gameID string) (*models.GameDetail, error)
	GetStoreInfo(ctx context.Context, storeID string) (models.StoreInfo, error)
}

// ListingStore serves listing snapshots from the document store.
type ListingStore interface {
	ListListings(ctx context.Context, query string, limit int) ([]models.GameSummary, error)
}

type FavoritesService interface {
	List(ctx context.Context) ([]models.FavoriteRecord, error)
	Add(ctx context.Context, title, thumb string) (models.FavoriteRecord, error)
}

// SteamScraper provides optional store-page details for a Steam app.
type SteamScraper interface {
	ScrapeSteamDetails(ctx context.Context, appID string) (*models.SteamDetails, error)
}
