package models

import (
	"time"
)

// GameSummary is one row of a deal or game-search listing.
//
// Lists of deals are keyed by DealID; navigation to a detail view uses GameID.
// The two identifier spaces are not interchangeable. For game-search rows
// StoreID, NormalPrice and Savings are absent ("") and SalePrice carries the
// cheapest known price.
type GameSummary struct {
	GameID      string    `json:"gameID" firestore:"gameID" validate:"required"`
	Title       string    `json:"title" firestore:"title" validate:"required"`
	Thumb       string    `json:"thumb" firestore:"thumb,omitempty" validate:"omitempty,url"`
	StoreID     string    `json:"storeID,omitempty" firestore:"storeID,omitempty"`
	NormalPrice string    `json:"normalPrice,omitempty" firestore:"normalPrice,omitempty"`
	SalePrice   string    `json:"salePrice" firestore:"salePrice"`
	Savings     string    `json:"savings,omitempty" firestore:"savings,omitempty"`
	DealRating  string    `json:"dealRating,omitempty" firestore:"dealRating,omitempty"`
	DealID      string    `json:"dealID,omitempty" firestore:"dealID,omitempty"`
	SteamAppID  string    `json:"steamAppID,omitempty" firestore:"steamAppID,omitempty"`
	LastUpdated time.Time `json:"-" firestore:"lastUpdated"`
}

// SavingsText returns the savings percentage exactly as the pricing API sent it.
func (g GameSummary) SavingsText() string { return g.Savings }

// SalePriceText returns the sale price exactly as the pricing API sent it.
func (g GameSummary) SalePriceText() string { return g.SalePrice }

// GameDetail is the detail payload for a single game.
type GameDetail struct {
	Info              GameInfo      `json:"info"`
	CheapestPriceEver CheapestPrice `json:"cheapestPriceEver"`
	Deals             []DealEntry   `json:"deals"`
}

// GameInfo describes the game itself. SteamAppID is "" when the game is not on Steam.
type GameInfo struct {
	Title      string `json:"title" validate:"required"`
	SteamAppID string `json:"steamAppID,omitempty"`
	Thumb      string `json:"thumb"`
}

// CheapestPrice is the lowest price ever recorded; Date is unix seconds.
type CheapestPrice struct {
	Price string `json:"price"`
	Date  int64  `json:"date"`
}

// At returns Date as a UTC time, or the zero time when no date was recorded.
func (c CheapestPrice) At() time.Time {
	if c.Date == 0 {
		return time.Time{}
	}
	return time.Unix(c.Date, 0).UTC()
}

// DealEntry is one store's offer inside a GameDetail.
type DealEntry struct {
	StoreID     string `json:"storeID"`
	DealID      string `json:"dealID"`
	Price       string `json:"price"`
	RetailPrice string `json:"retailPrice"`
	Savings     string `json:"savings"`
}

// StoreIDs lists the store of every deal in order, duplicates included.
func (d *GameDetail) StoreIDs() []string {
	if d == nil {
		return nil
	}
	ids := make([]string, 0, len(d.Deals))
	for _, deal := range d.Deals {
		ids = append(ids, deal.StoreID)
	}
	return ids
}

// SteamDetails holds data scraped from a game's Steam store page. Every field
// is optional; an empty value means the page did not provide it.
type SteamDetails struct {
	AppID       string   `json:"appID"`
	Description string   `json:"description,omitempty"`
	HeaderImage string   `json:"headerImage,omitempty"`
	ReleaseDate string   `json:"releaseDate,omitempty"`
	Developers  []string `json:"developers,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}
