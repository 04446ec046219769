package scraper

import (
	"embed"
	"log/slog"
	"os"
)

//go:embed selectors.json
var embeddedSelectors embed.FS

// LoadConfig loads selectors from the file named by SELECTORS_CONFIG_PATH
// when set, else from the embedded selectors.json, else DefaultSelectors.
func LoadConfig() SelectorConfig {
	if configPath := os.Getenv("SELECTORS_CONFIG_PATH"); configPath != "" {
		fileSel, err := LoadSelectors(configPath)
		if err == nil {
			slog.Info("Loaded selectors from external file", "path", configPath)
			return fileSel
		}
		slog.Warn("Failed to load external selectors, using embedded config", "path", configPath, "error", err)
	}

	data, err := embeddedSelectors.ReadFile("selectors.json")
	if err == nil {
		sel, parseErr := LoadSelectorsFromBytes(data)
		if parseErr == nil {
			return sel
		}
		err = parseErr
	}
	slog.Warn("Embedded selectors unusable, using hardcoded defaults", "error", err)
	return DefaultSelectors()
}
