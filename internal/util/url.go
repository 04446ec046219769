package util

import (
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// GetDomain returns the registrable domain (eTLD+1) of rawURL, or "" when it
// cannot be determined.
func GetDomain(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := strings.ToLower(parsed.Hostname())
	if host == "" {
		return ""
	}
	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return domain
}

// IsAllowedURL reports whether rawURL is http(s) and its registrable domain
// (or exact host) is in allowed.
func IsAllowedURL(rawURL string, allowed []string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}
	host := strings.ToLower(parsed.Hostname())
	domain := GetDomain(rawURL)
	for _, a := range allowed {
		a = strings.ToLower(a)
		if a == host || a == domain {
			return true
		}
	}
	return false
}

// JoinAssetURL resolves an asset path such as "/img/stores/icons/0.png"
// against base. Absolute URLs are returned unchanged; empty paths yield "".
func JoinAssetURL(base, path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(path, "/")
}

// DealRedirectURL builds the pricing site's redirect link for a deal.
func DealRedirectURL(base, dealID string) string {
	if dealID == "" {
		return ""
	}
	return strings.TrimSuffix(base, "/") + "/redirect?dealID=" + url.QueryEscape(dealID)
}
