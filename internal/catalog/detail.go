package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pauljones0/game-deals-catalog/internal/aggregate"
	"github.com/pauljones0/game-deals-catalog/internal/models"
	"github.com/pauljones0/game-deals-catalog/internal/resource"
	"github.com/pauljones0/game-deals-catalog/internal/util"
)

const cheapestDateLayout = "2006-01-02"

type DetailView struct {
	GameID     string `json:"gameID"`
	Title      string `json:"title"`
	Thumb      string `json:"thumb,omitempty"`
	SteamAppID string `json:"steamAppID,omitempty"`

	CheapestEver CheapestView `json:"cheapestPriceEver"`
	Deals        []DealView   `json:"deals"`

	Steam *models.SteamDetails `json:"steam,omitempty"`

	Warnings Warnings `json:"warnings,omitempty"`
}

type CheapestView struct {
	Price      string `json:"price"`
	PriceLabel string `json:"priceLabel"`
	// Date is empty when no date was recorded.
	Date string `json:"date,omitempty"`
}

// DealView is one store's offer. Store is nil when the store lookup failed,
// in which case the offer is shown without branding.
type DealView struct {
	DealID       string      `json:"dealID"`
	StoreID      string      `json:"storeID"`
	Price        string      `json:"price"`
	PriceLabel   string      `json:"priceLabel"`
	RetailPrice  string      `json:"retailPrice"`
	SavingsLabel string      `json:"savingsLabel"`
	DealURL      string      `json:"dealURL"`
	HasStore     bool        `json:"hasStore"`
	Store        *StoreBadge `json:"store,omitempty"`
}

type gameWithStores = aggregate.Result[*models.GameDetail, string, models.StoreInfo]

// Detail loads the game and, concurrently, every distinct store its deals
// are offered in. A missing game is models.ErrNotFound. Steam details are
// added when the game is on Steam and the page can be read.
func (s *Service) Detail(ctx context.Context, gameID string) (*DetailView, error) {
	game := resource.New(resource.Config[string, gameWithStores]{
		Name:   "detail.game",
		Params: gameID,
		Fetch: func(ctx context.Context, id string) (gameWithStores, error) {
			return aggregate.Run(ctx,
				func(ctx context.Context) (*models.GameDetail, error) { return s.pricing.GetGameDetail(ctx, id) },
				(*models.GameDetail).StoreIDs,
				s.pricing.GetStoreInfo,
				aggregate.WithName("detail.stores"),
				aggregate.WithLimit(s.lookupLimit),
			)
		},
	})
	defer track("detail.game", game)()
	if err := game.Activate(ctx); err != nil {
		return nil, fmt.Errorf("detail %s: %w", gameID, err)
	}

	res := game.Snapshot().Data
	detail := res.Primary

	view := &DetailView{
		GameID:     gameID,
		Title:      detail.Info.Title,
		Thumb:      detail.Info.Thumb,
		SteamAppID: detail.Info.SteamAppID,
		CheapestEver: CheapestView{
			Price:      detail.CheapestPriceEver.Price,
			PriceLabel: util.PriceLabel(detail.CheapestPriceEver.Price),
		},
		Deals: make([]DealView, 0, len(detail.Deals)),
	}
	if at := detail.CheapestPriceEver.At(); !at.IsZero() {
		view.CheapestEver.Date = at.Format(cheapestDateLayout)
	}

	view.Warnings.addStoreFailures(res.Failed)
	for _, d := range detail.Deals {
		badge := s.badge(d.StoreID, res.Dependents)
		view.Deals = append(view.Deals, DealView{
			DealID:       d.DealID,
			StoreID:      d.StoreID,
			Price:        d.Price,
			PriceLabel:   util.PriceLabel(d.Price),
			RetailPrice:  d.RetailPrice,
			SavingsLabel: util.PercentLabel(d.Savings),
			DealURL:      util.DealRedirectURL(s.assetBaseURL, d.DealID),
			HasStore:     badge != nil,
			Store:        badge,
		})
	}

	if s.steam != nil && detail.Info.SteamAppID != "" {
		steam, err := s.steam.ScrapeSteamDetails(ctx, detail.Info.SteamAppID)
		switch {
		case err == nil:
			view.Steam = steam
		case errors.Is(err, models.ErrNotFound):
			slog.Debug("No Steam page for game", "gameID", gameID, "steamAppID", detail.Info.SteamAppID)
		default:
			view.Warnings.add("steam", err)
		}
	}
	return view, nil
}
