package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/pauljones0/game-deals-catalog/internal/filter"
	"github.com/pauljones0/game-deals-catalog/internal/models"
	"github.com/pauljones0/game-deals-catalog/internal/resource"
)

type ExploreParams struct {
	Filter string
	Query  string
}

type ExploreView struct {
	Filter filter.Token  `json:"filter"`
	Query  string        `json:"query,omitempty"`
	Source filter.Source `json:"source"`
	Count  int           `json:"count"`
	Items  []Card        `json:"items"`

	Warnings Warnings `json:"warnings,omitempty"`
}

// Explore shows the game search results for params.Query when any survive
// the filter, and the filtered deals list otherwise. An empty query clears
// the game results without searching.
func (s *Service) Explore(ctx context.Context, params ExploreParams) (*ExploreView, error) {
	token := parseFilter(params.Filter)
	query := strings.TrimSpace(params.Query)

	deals := resource.New(resource.Config[int, dealsWithStores]{
		Name:   "explore.deals",
		Fetch:  s.fetchDealsWithStores("explore.deals"),
		Params: s.exploreLimit,
	})
	games := resource.New(resource.Config[string, []models.GameSummary]{
		Name:  "explore.games",
		Fetch: s.pricing.ListGames,
		Skip:  true,
	})
	defer track("explore.deals", deals)()
	defer track("explore.games", games)()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = deals.Activate(ctx)
	}()
	if query != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = games.Refetch(ctx, query)
		}()
	}
	wg.Wait()

	view := &ExploreView{Filter: token, Query: query}

	gs := games.Snapshot()
	if gs.Err != nil {
		view.Warnings.add("games", gs.Err)
	}
	ds := deals.Snapshot()

	gameItems := dedupeGames("explore.games", gs.Data)
	dealItems := dedupeDeals("explore.deals", ds.Data.Primary)

	items, source := filter.Resolve(gameItems, dealItems, token)
	if source == filter.SourceDeals && ds.Err != nil {
		return nil, fmt.Errorf("explore: %w", ds.Err)
	}
	if ds.Err != nil {
		view.Warnings.add("deals", ds.Err)
	}

	if source == filter.SourceDeals {
		view.Warnings.addStoreFailures(ds.Data.Failed)
	}

	view.Source = source
	view.Items = s.cards(items, ds.Data.Dependents)
	view.Count = len(view.Items)
	return view, nil
}
