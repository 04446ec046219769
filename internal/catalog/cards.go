package catalog

import (
	"github.com/pauljones0/game-deals-catalog/internal/models"
	"github.com/pauljones0/game-deals-catalog/internal/util"
)

// Card is one listing as shown in a list.
type Card struct {
	GameID       string      `json:"gameID"`
	DealID       string      `json:"dealID,omitempty"`
	Title        string      `json:"title"`
	Thumb        string      `json:"thumb,omitempty"`
	DealRating   string      `json:"dealRating,omitempty"`
	NormalPrice  string      `json:"normalPrice,omitempty"`
	SalePrice    string      `json:"salePrice"`
	PriceLabel   string      `json:"priceLabel"`
	SavingsLabel string      `json:"savingsLabel,omitempty"`
	DealURL      string      `json:"dealURL,omitempty"`
	Store        *StoreBadge `json:"store,omitempty"`
}

// StoreBadge is the store branding shown on a card. It is nil on cards whose
// store is unknown.
type StoreBadge struct {
	StoreID string `json:"storeID"`
	Name    string `json:"name"`
	IconURL string `json:"iconURL,omitempty"`
	LogoURL string `json:"logoURL,omitempty"`
}

func (s *Service) card(g models.GameSummary, stores map[string]models.StoreInfo) Card {
	return Card{
		GameID:       g.GameID,
		DealID:       g.DealID,
		Title:        g.Title,
		Thumb:        g.Thumb,
		DealRating:   g.DealRating,
		NormalPrice:  g.NormalPrice,
		SalePrice:    g.SalePrice,
		PriceLabel:   util.PriceLabel(g.SalePrice),
		SavingsLabel: util.PercentLabel(g.Savings),
		DealURL:      util.DealRedirectURL(s.assetBaseURL, g.DealID),
		Store:        s.badge(g.StoreID, stores),
	}
}

func (s *Service) cards(items []models.GameSummary, stores map[string]models.StoreInfo) []Card {
	out := make([]Card, 0, len(items))
	for _, g := range items {
		out = append(out, s.card(g, stores))
	}
	return out
}

func (s *Service) badge(storeID string, stores map[string]models.StoreInfo) *StoreBadge {
	if storeID == "" {
		return nil
	}
	info, ok := stores[storeID]
	if !ok {
		return nil
	}
	return &StoreBadge{
		StoreID: info.StoreID,
		Name:    info.StoreName,
		IconURL: util.JoinAssetURL(s.assetBaseURL, info.Images.Icon),
		LogoURL: util.JoinAssetURL(s.assetBaseURL, info.Images.Logo),
	}
}
