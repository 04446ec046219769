package scraper

import (
	"encoding/json"
	"fmt"
	"os"
)

type SelectorConfig struct {
	SteamApp AppSelectors `json:"steam_app"`
}

// AppSelectors locate fields on a Steam store app page.
type AppSelectors struct {
	// PageMarker must match for the page to count as an app page. Steam
	// redirects unknown app IDs to its front page.
	PageMarker  string `json:"page_marker"`
	Description string `json:"description"`
	HeaderImage string `json:"header_image"`
	ReleaseDate string `json:"release_date"`
	Developers  string `json:"developers"`
	Tags        string `json:"tags"`
}

func (s AppSelectors) validate() error {
	if s.PageMarker == "" {
		return fmt.Errorf("steam_app.page_marker is empty")
	}
	return nil
}

// LoadSelectors loads the selector configuration from the specified JSON file.
func LoadSelectors(path string) (SelectorConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SelectorConfig{}, fmt.Errorf("failed to read selector config file: %w", err)
	}

	return LoadSelectorsFromBytes(data)
}

// LoadSelectorsFromBytes parses selector configuration from raw JSON bytes.
func LoadSelectorsFromBytes(data []byte) (SelectorConfig, error) {
	var config SelectorConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return SelectorConfig{}, fmt.Errorf("failed to parse selector config JSON: %w", err)
	}
	if err := config.SteamApp.validate(); err != nil {
		return SelectorConfig{}, fmt.Errorf("invalid selector config: %w", err)
	}
	return config, nil
}

// DefaultSelectors returns the fallback configuration if no JSON file is loaded.
func DefaultSelectors() SelectorConfig {
	return SelectorConfig{
		SteamApp: AppSelectors{
			PageMarker:  ".apphub_AppName",
			Description: ".game_description_snippet",
			HeaderImage: "img.game_header_image_full",
			ReleaseDate: ".release_date .date",
			Developers:  "#developers_list a",
			Tags:        "a.app_tag",
		},
	}
}
