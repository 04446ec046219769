// Package scraper reads optional game details from Steam store pages.
package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pauljones0/game-deals-catalog/internal/models"
	"github.com/pauljones0/game-deals-catalog/internal/util"
)

const (
	DefaultSteamStoreURL = "https://store.steampowered.com"
	maxTags              = 10
)

type Client struct {
	httpClient     *http.Client
	baseURL        string
	allowedDomains []string
	selectors      SelectorConfig
}

// New returns a client for the Steam store at baseURL. Requests to hosts whose
// registrable domain is not in allowedDomains are refused.
func New(baseURL string, allowedDomains []string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultSteamStoreURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient:     &http.Client{Timeout: timeout},
		baseURL:        strings.TrimSuffix(baseURL, "/"),
		allowedDomains: allowedDomains,
		selectors:      LoadConfig(),
	}
}

// ScrapeSteamDetails fetches the store page for appID. It returns
// models.ErrNotFound when Steam has no page for the app.
func (c *Client) ScrapeSteamDetails(ctx context.Context, appID string) (*models.SteamDetails, error) {
	appID = strings.TrimSpace(appID)
	if appID == "" {
		return nil, models.ErrNotFound
	}
	// Steam app ids are numeric; anything else never names a store page.
	if _, err := strconv.ParseUint(appID, 10, 64); err != nil {
		return nil, fmt.Errorf("steam app %q: invalid id: %w", appID, models.ErrNotFound)
	}
	pageURL := c.baseURL + "/app/" + url.PathEscape(appID) + "/"

	doc, err := c.fetchHTMLContent(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	sel := c.selectors.SteamApp
	if doc.Find(sel.PageMarker).Length() == 0 {
		slog.Debug("Steam page has no app marker", "appID", appID, "url", pageURL)
		return nil, fmt.Errorf("steam app %s: %w", appID, models.ErrNotFound)
	}

	details := &models.SteamDetails{AppID: appID}
	details.Description = collapseSpace(doc.Find(sel.Description).First().Text())
	details.ReleaseDate = collapseSpace(doc.Find(sel.ReleaseDate).First().Text())
	if src, ok := doc.Find(sel.HeaderImage).First().Attr("src"); ok {
		details.HeaderImage = strings.TrimSpace(src)
	}

	doc.Find(sel.Developers).Each(func(_ int, s *goquery.Selection) {
		if name := collapseSpace(s.Text()); name != "" {
			details.Developers = append(details.Developers, name)
		}
	})
	doc.Find(sel.Tags).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if tag := collapseSpace(s.Text()); tag != "" {
			details.Tags = append(details.Tags, tag)
		}
		return len(details.Tags) < maxTags
	})

	return details, nil
}

func (c *Client) fetchHTMLContent(ctx context.Context, urlStr string) (*goquery.Document, error) {
	if !util.IsAllowedURL(urlStr, c.allowedDomains) {
		return nil, fmt.Errorf("security violation: URL %s is not in allowlist", urlStr)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for URL %s: %w", urlStr, err)
	}
	// Skip the age gate and pin the page language.
	req.AddCookie(&http.Cookie{Name: "birthtime", Value: "0"})
	req.AddCookie(&http.Cookie{Name: "mature_content", Value: "1"})
	req.Header.Set("Accept-Language", "en-US,en;q=0.8")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &models.TransportError{Op: "steam page", Err: err}
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("fetch %s: %w", urlStr, models.ErrNotFound)
	case res.StatusCode != http.StatusOK:
		return nil, &models.TransportError{Op: "steam page", StatusCode: res.StatusCode, Err: fmt.Errorf("unexpected status fetching %s", urlStr)}
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", urlStr, err)
	}
	return doc, nil
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
