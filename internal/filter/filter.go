// Package filter narrows deal and game listings by a filter token and picks
// which of two candidate listings is displayed.
package filter

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pauljones0/game-deals-catalog/internal/util"
)

// Token is one of the recognized filter tokens.
type Token string

const (
	All         Token = "All"
	Discount100 Token = "100Discount"
	Discount50  Token = "50Discount"
	Under5      Token = "< $5"
	Under10     Token = "< $10"
	Under20     Token = "< $20"
)

// ErrUnknownToken is returned by ParseToken for a token outside the known set.
var ErrUnknownToken = errors.New("unknown filter token")

// Tokens lists every recognized token in display order.
var Tokens = []Token{All, Discount100, Discount50, Under5, Under10, Under20}

// The pricing API reports savings with six fixed decimals; matching is on
// the exact string.
const (
	savings100 = "100.000000"
	savings50  = "50.000000"
)

// Listing is anything the filter rules can inspect.
type Listing interface {
	SavingsText() string
	SalePriceText() string
}

// aliases maps accepted spellings that are not themselves tokens.
var aliases = map[string]Token{
	"<$5": Under5,
}

// lookup matches s exactly against the known tokens and aliases.
func lookup(s string) (Token, bool) {
	for _, t := range Tokens {
		if s == string(t) {
			return t, true
		}
	}
	t, ok := aliases[s]
	return t, ok
}

// ParseToken normalizes s to a Token. Surrounding whitespace is ignored and
// "<$5" is accepted for "< $5"; otherwise matching is exact. An empty string
// is All.
func ParseToken(s string) (Token, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return All, nil
	}
	if t, ok := lookup(trimmed); ok {
		return t, nil
	}
	return Token(trimmed), fmt.Errorf("%w: %q", ErrUnknownToken, s)
}

// Match reports whether item passes token. Unknown tokens match everything.
func Match(item Listing, token Token) bool {
	switch token {
	case Discount100:
		return item.SavingsText() == savings100
	case Discount50:
		return item.SavingsText() == savings50
	case Under5:
		return priceBelow(item, 5)
	case Under10:
		return priceBelow(item, 10)
	case Under20:
		return priceBelow(item, 20)
	default:
		return true
	}
}

func priceBelow(item Listing, limit float64) bool {
	price, ok := util.ParsePrice(item.SalePriceText())
	return ok && price < limit
}

// Apply returns the items that pass token, in their original order. The
// input slice is not modified. Unrecognized tokens pass everything through.
func Apply[T Listing](items []T, token Token) []T {
	parsed, ok := lookup(string(token))
	if !ok {
		slog.Debug("Unrecognized filter, passing items through", "filter", string(token))
		return items
	}
	if parsed == All {
		return items
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		if Match(item, parsed) {
			out = append(out, item)
		}
	}
	return out
}

// Source names the listing that Resolve picked.
type Source string

const (
	SourceGames Source = "games"
	SourceDeals Source = "deals"
)

// Resolve filters games and deals independently and displays games when any
// game survives the filter, otherwise deals.
func Resolve[T Listing](games, deals []T, token Token) ([]T, Source) {
	if filtered := Apply(games, token); len(filtered) > 0 {
		return filtered, SourceGames
	}
	return Apply(deals, token), SourceDeals
}

// Dedupe keeps the first item for each key and reports the keys that were
// repeated. Items with an empty key are kept and not tracked.
func Dedupe[T any, K comparable](items []T, key func(T) K) ([]T, []K) {
	var zero K
	seen := make(map[K]struct{}, len(items))
	out := make([]T, 0, len(items))
	var dups []K
	for _, item := range items {
		k := key(item)
		if k == zero {
			out = append(out, item)
			continue
		}
		if _, ok := seen[k]; ok {
			dups = append(dups, k)
			continue
		}
		seen[k] = struct{}{}
		out = append(out, item)
	}
	return out, dups
}
