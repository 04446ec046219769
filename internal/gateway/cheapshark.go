// Package gateway is the client for the CheapShark pricing API.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/pauljones0/game-deals-catalog/internal/models"
	"github.com/pauljones0/game-deals-catalog/internal/validator"
)

const searchLimit = 60

type Client struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	validator   *validator.Validator
	stores      singleflight.Group
}

type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRateLimit caps outgoing requests per second. A non-positive rps
// disables limiting.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.rateLimiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.rateLimiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:     baseURL,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		rateLimiter: rate.NewLimiter(rate.Limit(4), 1),
		validator:   validator.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// dealRecord is the wire shape of /deals rows.
type dealRecord struct {
	GameID      string `json:"gameID"`
	Title       string `json:"title"`
	Thumb       string `json:"thumb"`
	StoreID     string `json:"storeID"`
	NormalPrice string `json:"normalPrice"`
	SalePrice   string `json:"salePrice"`
	Savings     string `json:"savings"`
	DealRating  string `json:"dealRating"`
	DealID      string `json:"dealID"`
	SteamAppID  string `json:"steamAppID"`
}

// searchRecord is the wire shape of /games?title= rows.
type searchRecord struct {
	GameID         string `json:"gameID"`
	SteamAppID     string `json:"steamAppID"`
	Cheapest       string `json:"cheapest"`
	CheapestDealID string `json:"cheapestDealID"`
	External       string `json:"external"`
	Thumb          string `json:"thumb"`
}

// ListDeals returns the current top deals, at most limit of them.
func (c *Client) ListDeals(ctx context.Context, limit int) ([]models.GameSummary, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("pageSize", strconv.Itoa(limit))
	}

	var records []dealRecord
	if err := c.getJSON(ctx, "deals", "/deals", q, &records); err != nil {
		return nil, fmt.Errorf("list deals: %w", err)
	}

	out := make([]models.GameSummary, 0, len(records))
	for _, r := range records {
		g := models.GameSummary{
			GameID:      r.GameID,
			Title:       r.Title,
			Thumb:       r.Thumb,
			StoreID:     r.StoreID,
			NormalPrice: r.NormalPrice,
			SalePrice:   r.SalePrice,
			Savings:     r.Savings,
			DealRating:  r.DealRating,
			DealID:      r.DealID,
			SteamAppID:  r.SteamAppID,
		}
		if err := c.validator.ValidateStruct(g); err != nil {
			slog.Warn("Skipping invalid deal record", "dealID", r.DealID, "error", err)
			continue
		}
		out = append(out, g)
	}
	return out, nil
}

// ListGames searches games by title. Results carry the cheapest known price
// as SalePrice and the cheapest deal as DealID; store and savings are absent.
func (c *Client) ListGames(ctx context.Context, query string) ([]models.GameSummary, error) {
	q := url.Values{}
	q.Set("title", query)
	q.Set("limit", strconv.Itoa(searchLimit))

	var records []searchRecord
	if err := c.getJSON(ctx, "games_search", "/games", q, &records); err != nil {
		return nil, fmt.Errorf("list games %q: %w", query, err)
	}

	out := make([]models.GameSummary, 0, len(records))
	for _, r := range records {
		g := models.GameSummary{
			GameID:     r.GameID,
			Title:      r.External,
			Thumb:      r.Thumb,
			SalePrice:  r.Cheapest,
			DealID:     r.CheapestDealID,
			SteamAppID: r.SteamAppID,
		}
		if err := c.validator.ValidateStruct(g); err != nil {
			slog.Warn("Skipping invalid game record", "gameID", r.GameID, "error", err)
			continue
		}
		out = append(out, g)
	}
	return out, nil
}

// GetGameDetail returns the detail record for gameID, or models.ErrNotFound.
func (c *Client) GetGameDetail(ctx context.Context, gameID string) (*models.GameDetail, error) {
	if gameID == "" {
		return nil, fmt.Errorf("get game: empty id: %w", models.ErrNotFound)
	}
	q := url.Values{}
	q.Set("id", gameID)

	body, err := c.get(ctx, "game_detail", "/games", q)
	if err != nil {
		return nil, fmt.Errorf("get game %s: %w", gameID, err)
	}

	// Unknown ids come back as an empty array rather than a 404.
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("[]")) {
		return nil, fmt.Errorf("get game %s: %w", gameID, models.ErrNotFound)
	}

	var detail models.GameDetail
	if err := json.Unmarshal(trimmed, &detail); err != nil {
		return nil, fmt.Errorf("get game %s: decode: %w", gameID, err)
	}
	if err := c.validator.ValidateStruct(detail.Info); err != nil {
		return nil, fmt.Errorf("get game %s: %w", gameID, models.ErrNotFound)
	}
	return &detail, nil
}

// GetStoreInfo returns the store with storeID, or models.ErrNotFound.
// Concurrent calls share one request for the store list; nothing is cached
// once that request completes. The shared request is not tied to any one
// caller's cancellation; a cancelled caller stops waiting and the others
// still get the result.
func (c *Client) GetStoreInfo(ctx context.Context, storeID string) (models.StoreInfo, error) {
	ch := c.stores.DoChan("stores", func() (interface{}, error) {
		return c.listStores(context.WithoutCancel(ctx))
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return models.StoreInfo{}, &models.TransportError{Op: "GET /stores", Err: ctx.Err()}
	}
	if res.Err != nil {
		return models.StoreInfo{}, fmt.Errorf("get store %s: %w", storeID, res.Err)
	}
	for _, s := range res.Val.([]models.StoreInfo) {
		if s.StoreID == storeID {
			return s, nil
		}
	}
	return models.StoreInfo{}, fmt.Errorf("get store %s: %w", storeID, models.ErrNotFound)
}

func (c *Client) listStores(ctx context.Context) ([]models.StoreInfo, error) {
	var stores []models.StoreInfo
	if err := c.getJSON(ctx, "stores", "/stores", nil, &stores); err != nil {
		return nil, err
	}
	return stores, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint, path string, q url.Values, dst any) error {
	body, err := c.get(ctx, endpoint, path, q)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, endpoint, path string, q url.Values) ([]byte, error) {
	op := "GET " + path
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, &models.TransportError{Op: op, Err: err}
	}

	reqURL := c.baseURL + path
	if len(q) > 0 {
		reqURL += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", reqURL, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	res, err := c.httpClient.Do(req)
	if err != nil {
		observe(endpoint, "error", start)
		return nil, &models.TransportError{Op: op, Err: err}
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		observe(endpoint, "error", start)
		return nil, &models.TransportError{Op: op, StatusCode: res.StatusCode, Err: err}
	}

	switch {
	case res.StatusCode == http.StatusNotFound:
		observe(endpoint, "not_found", start)
		return nil, models.ErrNotFound
	case res.StatusCode < 200 || res.StatusCode >= 300:
		observe(endpoint, "error", start)
		return nil, &models.TransportError{
			Op:         op,
			StatusCode: res.StatusCode,
			Err:        errors.New(truncate(string(body), 200)),
		}
	}
	observe(endpoint, "ok", start)
	return body, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
