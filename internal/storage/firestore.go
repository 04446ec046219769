package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/pauljones0/game-deals-catalog/internal/models"
)

const (
	DefaultFavoritesCollection = "favorite_games"
	DefaultListingsCollection  = "listings"
)

type Client struct {
	client    *firestore.Client
	favorites string
	listings  string
}

// New connects to Firestore. Empty collection names fall back to the defaults.
func New(ctx context.Context, projectID, favoritesColl, listingsColl string, opts ...option.ClientOption) (*Client, error) {
	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("firestore.NewClient: %w", err)
	}
	if favoritesColl == "" {
		favoritesColl = DefaultFavoritesCollection
	}
	if listingsColl == "" {
		listingsColl = DefaultListingsCollection
	}
	return &Client{client: client, favorites: favoritesColl, listings: listingsColl}, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

// ListFavorites returns every favorite, oldest first.
func (c *Client) ListFavorites(ctx context.Context) ([]models.FavoriteRecord, error) {
	iter := c.client.Collection(c.favorites).OrderBy("createdAt", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var out []models.FavoriteRecord
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate favorites: %w", err)
		}
		var rec models.FavoriteRecord
		if err := doc.DataTo(&rec); err != nil {
			slog.Warn("Skipping malformed favorite", "id", doc.Ref.ID, "error", err)
			continue
		}
		rec.ID = doc.Ref.ID
		out = append(out, rec)
	}
	return out, nil
}

// CreateFavorite stores rec under a new auto-generated document ID and
// returns the stored record. Identical records are stored separately.
func (c *Client) CreateFavorite(ctx context.Context, rec models.FavoriteRecord) (models.FavoriteRecord, error) {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	docRef := c.client.Collection(c.favorites).NewDoc()
	if _, err := docRef.Create(ctx, rec); err != nil {
		return models.FavoriteRecord{}, fmt.Errorf("failed to create favorite: %w", err)
	}
	rec.ID = docRef.ID
	return rec, nil
}

// ListListings returns stored listings. With a query it does a case-sensitive
// title prefix search; without one it returns the most recently updated first.
func (c *Client) ListListings(ctx context.Context, query string, limit int) ([]models.GameSummary, error) {
	coll := c.client.Collection(c.listings)
	var q firestore.Query
	if query = strings.TrimSpace(query); query != "" {
		q = coll.Where("title", ">=", query).Where("title", "<", prefixUpperBound(query)).OrderBy("title", firestore.Asc)
	} else {
		q = coll.OrderBy("lastUpdated", firestore.Desc)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []models.GameSummary
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate listings: %w", err)
		}
		var g models.GameSummary
		if err := doc.DataTo(&g); err != nil {
			slog.Warn("Skipping malformed listing", "id", doc.Ref.ID, "error", err)
			continue
		}
		out = append(out, g)
	}
	return out, nil
}

// GetListingByID returns the stored listing for a deal ID, or nil when there is none.
func (c *Client) GetListingByID(ctx context.Context, dealID string) (*models.GameSummary, error) {
	doc, err := c.client.Collection(c.listings).Doc(ListingDocID(dealID)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get listing %s: %w", dealID, err)
	}
	if !doc.Exists() {
		return nil, nil
	}

	var g models.GameSummary
	if err := doc.DataTo(&g); err != nil {
		return nil, fmt.Errorf("failed to unmarshal listing data: %w", err)
	}
	return &g, nil
}

// SaveListings upserts listings keyed by deal ID.
func (c *Client) SaveListings(ctx context.Context, listings []models.GameSummary) error {
	if len(listings) == 0 {
		return nil
	}
	coll := c.client.Collection(c.listings)
	bw := c.client.BulkWriter(ctx)

	jobs := make([]*firestore.BulkWriterJob, 0, len(listings))
	for _, g := range listings {
		if g.DealID == "" {
			slog.Warn("Skipping listing without deal ID", "gameID", g.GameID, "title", g.Title)
			continue
		}
		job, err := bw.Set(coll.Doc(ListingDocID(g.DealID)), g)
		if err != nil {
			bw.End()
			return fmt.Errorf("failed to queue listing %s: %w", g.DealID, err)
		}
		jobs = append(jobs, job)
	}
	bw.End()

	failed := 0
	var firstErr error
	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			failed++
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	if firstErr != nil {
		return fmt.Errorf("failed to save %d of %d listings: %w", failed, len(jobs), firstErr)
	}
	return nil
}

// TrimOldListings deletes the least recently updated listings until at most
// maxListings remain.
func (c *Client) TrimOldListings(ctx context.Context, maxListings int) error {
	coll := c.client.Collection(c.listings)

	countSnapshot, err := coll.NewAggregationQuery().WithCount("all").Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to get listing count for trimming: %w", err)
	}
	current, err := countFromAggregation(countSnapshot, "all")
	if err != nil {
		return err
	}
	if current <= int64(maxListings) {
		return nil
	}

	numToDelete := int(current) - maxListings
	slog.Info("Trimming listings", "current", current, "max", maxListings, "deleting", numToDelete)

	iter := coll.OrderBy("lastUpdated", firestore.Asc).Limit(numToDelete).Documents(ctx)
	defer iter.Stop()

	bw := c.client.BulkWriter(ctx)
	defer bw.End()

	deleted := 0
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to iterate listings for trimming: %w", err)
		}
		if _, err := bw.Delete(doc.Ref); err != nil {
			slog.Warn("Failed to queue listing delete", "id", doc.Ref.ID, "error", err)
			continue
		}
		deleted++
	}

	if deleted > 0 {
		bw.Flush()
		slog.Info("Trimmed listings", "deleted", deleted)
	}
	return nil
}

// countFromAggregation reads a count aggregation result. The SDK has returned
// both int64 and *firestorepb.Value here.
func countFromAggregation(res firestore.AggregationResult, alias string) (int64, error) {
	v, ok := res[alias]
	if !ok {
		return 0, fmt.Errorf("count aggregation result was invalid: %q key missing", alias)
	}
	switch val := v.(type) {
	case int64:
		return val, nil
	case *firestorepb.Value:
		return val.GetIntegerValue(), nil
	default:
		return 0, fmt.Errorf("count aggregation result has unexpected type %T", v)
	}
}

// ListingDocID maps a deal ID to a Firestore document ID. Deal IDs are
// URL-encoded and may contain '/', which Firestore reserves as a path separator.
func ListingDocID(dealID string) string {
	return strings.ReplaceAll(dealID, "/", "_")
}

// prefixUpperBound is the exclusive upper end of a prefix range query.
func prefixUpperBound(prefix string) string {
	return prefix + "\uf8ff"
}
