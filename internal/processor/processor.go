// Package processor snapshots the pricing API's current deals into the
// document store and announces games that just became free.
package processor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pauljones0/game-deals-catalog/internal/config"
	"github.com/pauljones0/game-deals-catalog/internal/filter"
	"github.com/pauljones0/game-deals-catalog/internal/models"
	"github.com/pauljones0/game-deals-catalog/internal/notifier"
	"github.com/pauljones0/game-deals-catalog/internal/validator"
)

type Processor interface {
	ProcessListings(ctx context.Context) (Summary, error)
}

// Summary counts what one run did.
type Summary struct {
	Fetched  int `json:"fetched"`
	New      int `json:"new"`
	Updated  int `json:"updated"`
	Skipped  int `json:"skipped"`
	Notified int `json:"notified"`
}

type ListingProcessor struct {
	source    ListingSource
	store     ListingStore
	notifier  ListingNotifier
	validator *validator.Validator
	pageSize  int
	maxStored int
	now       func() time.Time
}

func New(source ListingSource, store ListingStore, n ListingNotifier, cfg *config.Config) *ListingProcessor {
	return &ListingProcessor{
		source:    source,
		store:     store,
		notifier:  n,
		validator: validator.New(),
		pageSize:  cfg.ExploreLimit,
		maxStored: cfg.MaxStoredListings,
		now:       time.Now,
	}
}

func (p *ListingProcessor) ProcessListings(ctx context.Context) (Summary, error) {
	var sum Summary

	deals, err := p.source.ListDeals(ctx, p.pageSize)
	if err != nil {
		return sum, fmt.Errorf("failed to fetch deals: %w", err)
	}
	sum.Fetched = len(deals)
	slog.Info("Fetched deals for snapshot", "count", len(deals))

	deals, dups := filter.Dedupe(deals, func(g models.GameSummary) string { return g.DealID })
	if len(dups) > 0 {
		slog.Warn("Pricing API returned duplicate deal IDs", "duplicates", dups)
	}

	now := p.now().UTC()
	var toSave, toNotify []models.GameSummary
	newCount := 0

	for _, deal := range deals {
		if deal.DealID == "" {
			sum.Skipped++
			continue
		}
		if err := p.validator.ValidateStruct(deal); err != nil {
			slog.Info("Skipping invalid listing", "dealID", deal.DealID, "error", err)
			sum.Skipped++
			continue
		}

		existing, err := p.store.GetListingByID(ctx, deal.DealID)
		if err != nil {
			// Treat as new; the save is an upsert.
			slog.Warn("Failed to check listing existence", "dealID", deal.DealID, "error", err)
		}

		switch {
		case existing == nil:
			newCount++
			if isFree(deal) {
				toNotify = append(toNotify, deal)
			}
		case listingChanged(existing, &deal):
			sum.Updated++
			if isFree(deal) && !isFree(*existing) {
				toNotify = append(toNotify, deal)
			}
		default:
			continue
		}

		deal.LastUpdated = now
		toSave = append(toSave, deal)
	}
	sum.New = newCount

	if err := p.store.SaveListings(ctx, toSave); err != nil {
		return sum, fmt.Errorf("failed to save listings: %w", err)
	}

	for _, deal := range toNotify {
		deal.LastUpdated = now
		if _, err := p.notifier.Send(ctx, deal); err != nil {
			if errors.Is(err, notifier.ErrDisabled) {
				slog.Debug("Free game alert not sent, notifications disabled", "dealID", deal.DealID)
				continue
			}
			slog.Error("Error sending free game alert", "dealID", deal.DealID, "title", deal.Title, "error", err)
			continue
		}
		sum.Notified++
	}

	// Trim once per run, only when the collection grew.
	if newCount > 0 && p.maxStored > 0 {
		if err := p.store.TrimOldListings(ctx, p.maxStored); err != nil {
			slog.Warn("Failed to trim old listings", "error", err)
		}
	}

	slog.Info("Finished processing listings",
		"fetched", sum.Fetched, "new", sum.New, "updated", sum.Updated,
		"skipped", sum.Skipped, "notified", sum.Notified)
	return sum, nil
}

func isFree(g models.GameSummary) bool {
	return g.SalePrice == "0.00"
}

func listingChanged(existing, current *models.GameSummary) bool {
	return existing.SalePrice != current.SalePrice ||
		existing.NormalPrice != current.NormalPrice ||
		existing.Savings != current.Savings ||
		existing.DealRating != current.DealRating ||
		existing.Title != current.Title ||
		existing.Thumb != current.Thumb
}
