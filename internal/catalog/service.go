// Package catalog builds the Home, Explore, Detail and Favorites screens.
//
// Every screen call creates its own resources and drops them when it
// returns; nothing fetched for one call is visible to another.
package catalog

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/pauljones0/game-deals-catalog/internal/aggregate"
	"github.com/pauljones0/game-deals-catalog/internal/config"
	"github.com/pauljones0/game-deals-catalog/internal/models"
	"github.com/pauljones0/game-deals-catalog/internal/session"
)

type Service struct {
	pricing   PricingAPI
	listings  ListingStore
	favorites FavoritesService
	steam     SteamScraper
	session   *session.Session

	assetBaseURL    string
	featuredLimit   int
	exploreLimit    int
	propertiesLimit int
	lookupLimit     int

	now func() time.Time
}

// New wires the screens. steam may be nil, which disables Steam enrichment.
func New(pricing PricingAPI, listings ListingStore, favs FavoritesService, steam SteamScraper, sess *session.Session, cfg *config.Config) *Service {
	return &Service{
		pricing:         pricing,
		listings:        listings,
		favorites:       favs,
		steam:           steam,
		session:         sess,
		assetBaseURL:    cfg.AssetBaseURL,
		featuredLimit:   cfg.FeaturedLimit,
		exploreLimit:    cfg.ExploreLimit,
		propertiesLimit: cfg.PropertiesLimit,
		lookupLimit:     cfg.MaxConcurrentLookups,
		now:             time.Now,
	}
}

// dealsWithStores is a deal list plus the stores its rows refer to.
type dealsWithStores = aggregate.Result[[]models.GameSummary, string, models.StoreInfo]

// listingQuery parameterizes listProperties.
type listingQuery struct {
	Query string
	Limit int
}

func (s *Service) fetchListings(ctx context.Context, q listingQuery) ([]models.GameSummary, error) {
	return s.listings.ListListings(ctx, q.Query, q.Limit)
}

// fetchDealsWithStores loads limit deals and then every distinct store they reference.
func (s *Service) fetchDealsWithStores(name string) func(ctx context.Context, limit int) (dealsWithStores, error) {
	return func(ctx context.Context, limit int) (dealsWithStores, error) {
		return aggregate.Run(ctx,
			func(ctx context.Context) ([]models.GameSummary, error) { return s.pricing.ListDeals(ctx, limit) },
			storeIDsOf,
			s.pricing.GetStoreInfo,
			aggregate.WithName(name),
			aggregate.WithLimit(s.lookupLimit),
		)
	}
}

// lookupMissingStores fetches the stores referenced by items that are not
// already in known, and returns the union plus the lookups that failed.
func (s *Service) lookupMissingStores(ctx context.Context, name string, known map[string]models.StoreInfo, items []models.GameSummary) (map[string]models.StoreInfo, map[string]error) {
	merged := make(map[string]models.StoreInfo, len(known))
	for k, v := range known {
		merged[k] = v
	}
	var missing []string
	for _, id := range storeIDsOf(items) {
		if _, ok := merged[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return merged, nil
	}
	found, failed := aggregate.FanOut(ctx, missing, s.pricing.GetStoreInfo,
		aggregate.WithName(name), aggregate.WithLimit(s.lookupLimit))
	for k, v := range found {
		merged[k] = v
	}
	return merged, failed
}

func storeIDsOf(items []models.GameSummary) []string {
	ids := make([]string, 0, len(items))
	for _, g := range items {
		ids = append(ids, g.StoreID)
	}
	return ids
}

// Warnings lists the parts of a screen that could not be loaded.
type Warnings []string

func (w *Warnings) add(section string, err error) {
	*w = append(*w, section+": "+strings.TrimSpace(err.Error()))
}

// addStoreFailures adds a warning per failed store lookup. An unknown store
// is not a failure; its cards just render without branding.
func (w *Warnings) addStoreFailures(failed map[string]error) {
	ids := make([]string, 0, len(failed))
	for id, err := range failed {
		if !errors.Is(err, models.ErrNotFound) {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	for _, id := range ids {
		w.add("store "+id, failed[id])
	}
}
