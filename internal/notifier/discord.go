// Package notifier posts listing alerts to a Discord webhook.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/pauljones0/game-deals-catalog/internal/models"
	"github.com/pauljones0/game-deals-catalog/internal/util"
)

const (
	colorSmallDiscount = 3092790  // #2F3136
	colorGoodDiscount  = 16753920 // #FFA500
	colorBigDiscount   = 16711680 // #FF0000
	colorFree          = 5763719  // #57F287

	savingsThresholdGood = 50.0
	savingsThresholdBig  = 75.0

	// Discord allows 30 webhook messages per minute.
	webhookRate  = rate.Limit(0.5)
	webhookBurst = 5
)

// ErrDisabled is returned by Send when no webhook URL is configured.
var ErrDisabled = errors.New("discord notifications disabled")

type Client struct {
	webhookURL  string
	dealBaseURL string
	client      *http.Client
	rateLimiter *rate.Limiter
}

// New returns a webhook client. dealBaseURL is the pricing site that deal
// redirect links point at. With an empty webhookURL, Send posts nothing and
// returns ErrDisabled.
func New(webhookURL, dealBaseURL string) *Client {
	return &Client{
		webhookURL:  webhookURL,
		dealBaseURL: dealBaseURL,
		client:      &http.Client{Timeout: 10 * time.Second},
		rateLimiter: rate.NewLimiter(webhookRate, webhookBurst),
	}
}

// Send posts an alert for the listing and returns the Discord message ID.
func (c *Client) Send(ctx context.Context, listing models.GameSummary) (string, error) {
	if c.webhookURL == "" {
		return "", ErrDisabled
	}
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("discord rate limiter: %w", err)
	}
	embed := formatListingToEmbed(listing, c.dealBaseURL)
	return c.sendAndGetMessageID(ctx, embed)
}

type discordWebhookPayload struct {
	Content string         `json:"content,omitempty"`
	Embeds  []discordEmbed `json:"embeds"`
}

type discordEmbedThumbnail struct {
	URL string `json:"url,omitempty"`
}

type discordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type discordEmbedFooter struct {
	Text string `json:"text,omitempty"`
}

type discordEmbed struct {
	Title       string                `json:"title,omitempty"`
	Description string                `json:"description,omitempty"`
	URL         string                `json:"url,omitempty"`
	Timestamp   string                `json:"timestamp,omitempty"`
	Color       int                   `json:"color,omitempty"`
	Thumbnail   discordEmbedThumbnail `json:"thumbnail,omitempty"`
	Fields      []discordEmbedField   `json:"fields,omitempty"`
	Footer      discordEmbedFooter    `json:"footer,omitempty"`
}

type discordMessageResponse struct {
	ID        string `json:"id"`
	ChannelID string `json:"channel_id"`
}

func formatListingToEmbed(g models.GameSummary, dealBaseURL string) discordEmbed {
	price := util.PriceLabel(g.SalePrice)

	var description string
	if normal := util.PriceLabel(g.NormalPrice); normal != "" && normal != price {
		description = fmt.Sprintf("~~%s~~ → **%s**", normal, price)
	} else if price != "" {
		description = fmt.Sprintf("**%s**", price)
	}

	var fields []discordEmbedField
	if pct := util.PercentLabel(g.Savings); pct != "" {
		fields = append(fields, discordEmbedField{Name: "Savings", Value: pct, Inline: true})
	}
	if g.DealRating != "" {
		fields = append(fields, discordEmbedField{Name: "Deal Rating", Value: g.DealRating, Inline: true})
	}

	var isoTimestamp string
	if !g.LastUpdated.IsZero() {
		isoTimestamp = g.LastUpdated.Format(time.RFC3339)
	}

	return discordEmbed{
		Title:       g.Title,
		URL:         util.DealRedirectURL(dealBaseURL, g.DealID),
		Description: description,
		Timestamp:   isoTimestamp,
		Color:       savingsColor(g),
		Thumbnail:   discordEmbedThumbnail{URL: g.Thumb},
		Fields:      fields,
		Footer:      discordEmbedFooter{Text: "Game ID " + g.GameID},
	}
}

func savingsColor(g models.GameSummary) int {
	if g.SalePrice == "0.00" {
		return colorFree
	}
	savings, ok := util.ParsePrice(g.Savings)
	switch {
	case !ok:
		return colorSmallDiscount
	case savings >= savingsThresholdBig:
		return colorBigDiscount
	case savings >= savingsThresholdGood:
		return colorGoodDiscount
	default:
		return colorSmallDiscount
	}
}

func (c *Client) sendAndGetMessageID(ctx context.Context, embed discordEmbed) (string, error) {
	payloadBytes, err := json.Marshal(discordWebhookPayload{Embeds: []discordEmbed{embed}})
	if err != nil {
		return "", err
	}

	parsedURL, err := url.Parse(c.webhookURL)
	if err != nil {
		return "", fmt.Errorf("invalid webhook URL: %w", err)
	}
	q := parsedURL.Query()
	q.Set("wait", "true")
	parsedURL.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, parsedURL.String(), bytes.NewReader(payloadBytes))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &models.TransportError{Op: "discord webhook", Err: err}
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &models.TransportError{
			Op:         "discord webhook",
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("body: %s", bodyBytes),
		}
	}

	var msgResponse discordMessageResponse
	if err := json.Unmarshal(bodyBytes, &msgResponse); err != nil {
		return "", fmt.Errorf("decode discord response: %w", err)
	}
	return msgResponse.ID, nil
}
