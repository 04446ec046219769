package util

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParsePrice parses a price string such as "4.99" or "$4.99".
// It returns false for empty or malformed input.
func ParsePrice(s string) (float64, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "$")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// PriceLabel renders a price for display. A price of exactly "0.00" is "Free".
func PriceLabel(price string) string {
	price = strings.TrimSpace(price)
	if price == "" {
		return ""
	}
	if price == "0.00" {
		return "Free"
	}
	return "$" + price
}

// PercentLabel formats a savings string such as "56.017014" as "56.02%".
func PercentLabel(savings string) string {
	v, ok := ParsePrice(savings)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%.2f%%", v)
}
