package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/pauljones0/game-deals-catalog/internal/filter"
	"github.com/pauljones0/game-deals-catalog/internal/models"
	"github.com/pauljones0/game-deals-catalog/internal/resource"
)

// HomeParams are the Home screen's search inputs.
type HomeParams struct {
	Filter string
	Query  string
}

type HomeView struct {
	Greeting  string `json:"greeting"`
	UserName  string `json:"userName"`
	AvatarURL string `json:"avatarURL,omitempty"`

	Filter filter.Token `json:"filter"`
	Query  string       `json:"query,omitempty"`

	// Featured is the unfiltered featured deals list.
	Featured []Card `json:"featured"`
	// Recommended is Featured narrowed by Filter.
	Recommended []Card `json:"recommended"`
	// Latest is the newest stored listings.
	Latest []Card `json:"latest"`
	// Properties is the stored listings matching Query, narrowed by Filter.
	Properties []Card `json:"properties"`

	Warnings Warnings `json:"warnings,omitempty"`
}

// Home loads the featured deals with their stores, the latest stored
// listings and the listings matching params. Only a featured deals failure
// fails the screen; the other sections degrade to empty with a warning.
func (s *Service) Home(ctx context.Context, params HomeParams) (*HomeView, error) {
	token := parseFilter(params.Filter)

	featured := resource.New(resource.Config[int, dealsWithStores]{
		Name:   "home.featured",
		Fetch:  s.fetchDealsWithStores("home.featured"),
		Params: s.featuredLimit,
	})
	latest := resource.New(resource.Config[listingQuery, []models.GameSummary]{
		Name:   "home.latest",
		Fetch:  s.fetchListings,
		Params: listingQuery{Limit: s.propertiesLimit},
	})
	properties := resource.New(resource.Config[listingQuery, []models.GameSummary]{
		Name:  "home.properties",
		Fetch: s.fetchListings,
		Skip:  true,
	})
	defer track("home.featured", featured)()
	defer track("home.latest", latest)()
	defer track("home.properties", properties)()

	var g errgroup.Group
	g.Go(func() error { return featured.Activate(ctx) })
	g.Go(func() error {
		_ = latest.Activate(ctx)
		return nil
	})
	g.Go(func() error {
		_, _ = properties.Refetch(ctx, listingQuery{Query: params.Query, Limit: s.propertiesLimit})
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("home: %w", err)
	}

	view := &HomeView{
		Greeting:  s.session.Greeting(s.now()),
		UserName:  s.session.UserName,
		AvatarURL: s.session.AvatarURL,
		Filter:    token,
		Query:     params.Query,
	}

	fs := featured.Snapshot()
	deals := dedupeDeals("home.featured", fs.Data.Primary)
	stores := fs.Data.Dependents
	view.Warnings.addStoreFailures(fs.Data.Failed)
	view.Featured = s.cards(deals, stores)
	view.Recommended = s.cards(filter.Apply(deals, token), stores)

	ls := latest.Snapshot()
	if ls.Err != nil {
		view.Warnings.add("latest", ls.Err)
	}
	ps := properties.Snapshot()
	if ps.Err != nil {
		view.Warnings.add("properties", ps.Err)
	}
	latestItems := dedupeDeals("home.latest", ls.Data)
	propertyItems := dedupeDeals("home.properties", filter.Apply(ps.Data, token))
	stored := append(append([]models.GameSummary(nil), latestItems...), propertyItems...)
	stores, failed := s.lookupMissingStores(ctx, "home.listings", stores, stored)
	view.Warnings.addStoreFailures(failed)
	view.Latest = s.cards(latestItems, stores)
	view.Properties = s.cards(propertyItems, stores)
	return view, nil
}

// parseFilter normalizes raw. Unknown tokens are kept as-is and match everything.
func parseFilter(raw string) filter.Token {
	token, err := filter.ParseToken(raw)
	if err != nil {
		slog.Debug("Unknown filter token", "filter", raw)
	}
	return token
}

// dedupeDeals keys deal lists by deal ID.
func dedupeDeals(list string, items []models.GameSummary) []models.GameSummary {
	out, dups := filter.Dedupe(items, func(g models.GameSummary) string { return g.DealID })
	if len(dups) > 0 {
		slog.Warn("Dropped duplicate list keys", "list", list, "key", "dealID", "duplicates", dups)
	}
	return out
}

// dedupeGames keys game lists by game ID.
func dedupeGames(list string, items []models.GameSummary) []models.GameSummary {
	out, dups := filter.Dedupe(items, func(g models.GameSummary) string { return g.GameID })
	if len(dups) > 0 {
		slog.Warn("Dropped duplicate list keys", "list", list, "key", "gameID", "duplicates", dups)
	}
	return out
}
