package processor

import (
	"context"

	"github.com/pauljones0/game-deals-catalog/internal/models"
)

// ListingSource provides the current deal listings.
type ListingSource interface {
	ListDeals(ctx context.Context, limit int) ([]models.GameSummary, error)
}

// ListingStore abstracts the storage layer for listing snapshots.
type ListingStore interface {
	GetListingByID(ctx context.Context, dealID string) (*models.GameSummary, error)
	SaveListings(ctx context.Context, listings []models.GameSummary) error
	TrimOldListings(ctx context.Context, maxListings int) error
}

// ListingNotifier abstracts the notification layer.
type ListingNotifier interface {
	Send(ctx context.Context, listing models.GameSummary) (string, error)
}
