package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"testing"
	"time"

	"github.com/pauljones0/game-deals-catalog/internal/models"
)

const appPage = `<html><body>
<div class="apphub_AppName">Portal 2</div>
<img class="game_header_image_full" src="https://cdn.akamai.steamstatic.com/steam/apps/620/header.jpg">
<div class="game_description_snippet">
	The "Perpetual Testing Initiative" has been expanded
	to allow you to design co-op puzzles.
</div>
<div class="release_date"><div class="subtitle">Release Date:</div><div class="date">18 Apr, 2011</div></div>
<div id="developers_list"><a href="#">Valve</a></div>
<div class="glance_tags popular_tags">
	<a class="app_tag">Puzzle</a><a class="app_tag"> Co-op </a><a class="app_tag">First-Person</a>
</div>
</body></html>`

func newTestScraper(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	return New(srv.URL, []string{u.Hostname()}, 5*time.Second)
}

func TestScrapeSteamDetails(t *testing.T) {
	c := newTestScraper(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/app/620/" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if ck, err := r.Cookie("birthtime"); err != nil || ck.Value != "0" {
			t.Error("Expected age gate cookie")
		}
		fmt.Fprint(w, appPage)
	})

	got, err := c.ScrapeSteamDetails(context.Background(), "620")
	if err != nil {
		t.Fatalf("ScrapeSteamDetails() error = %v", err)
	}
	if got.AppID != "620" {
		t.Errorf("AppID = %q", got.AppID)
	}
	if got.Description != `The "Perpetual Testing Initiative" has been expanded to allow you to design co-op puzzles.` {
		t.Errorf("Description = %q", got.Description)
	}
	if got.HeaderImage != "https://cdn.akamai.steamstatic.com/steam/apps/620/header.jpg" {
		t.Errorf("HeaderImage = %q", got.HeaderImage)
	}
	if got.ReleaseDate != "18 Apr, 2011" {
		t.Errorf("ReleaseDate = %q", got.ReleaseDate)
	}
	if len(got.Developers) != 1 || got.Developers[0] != "Valve" {
		t.Errorf("Developers = %v", got.Developers)
	}
	if len(got.Tags) != 3 || got.Tags[1] != "Co-op" {
		t.Errorf("Tags = %v", got.Tags)
	}
}

func TestScrapeSteamDetails_NotFound(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "redirected to front page",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `<html><body><div class="home_page_content"></div></body></html>`)
			},
		},
		{
			name: "404",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.NotFound(w, r)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestScraper(t, tt.handler)
			_, err := c.ScrapeSteamDetails(context.Background(), "1")
			if !errors.Is(err, models.ErrNotFound) {
				t.Errorf("Expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestScrapeSteamDetails_RejectsNonNumericAppID(t *testing.T) {
	hits := 0
	c := newTestScraper(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprint(w, appPage)
	})

	for _, id := range []string{"../../login", "620?cc=us", "620/../621", "abc", "-1"} {
		_, err := c.ScrapeSteamDetails(context.Background(), id)
		if !errors.Is(err, models.ErrNotFound) {
			t.Errorf("ScrapeSteamDetails(%q) error = %v, want ErrNotFound", id, err)
		}
	}
	if hits != 0 {
		t.Errorf("Expected no requests for invalid ids, got %d", hits)
	}
}

func TestScrapeSteamDetails_ServerErrorIsTransport(t *testing.T) {
	c := newTestScraper(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	_, err := c.ScrapeSteamDetails(context.Background(), "620")
	if !models.IsTransport(err) {
		t.Errorf("Expected transport error, got %v", err)
	}
}

func TestScrapeSteamDetails_RejectsUnlistedHost(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	c := New(srv.URL, []string{"steampowered.com"}, time.Second)
	if _, err := c.ScrapeSteamDetails(context.Background(), "620"); err == nil {
		t.Fatal("Expected allowlist error")
	}
	if called {
		t.Error("Request should not reach an unlisted host")
	}
}

func TestScrapeSteamDetails_TagLimit(t *testing.T) {
	c := newTestScraper(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<div class="apphub_AppName">X</div>`)
		for i := 0; i < 15; i++ {
			fmt.Fprintf(w, `<a class="app_tag">tag%d</a>`, i)
		}
	})
	got, err := c.ScrapeSteamDetails(context.Background(), "1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Tags) != maxTags {
		t.Errorf("Expected %d tags, got %d", maxTags, len(got.Tags))
	}
}

func TestLoadSelectorsFromBytes(t *testing.T) {
	if _, err := LoadSelectorsFromBytes([]byte(`{"steam_app":{}}`)); err == nil {
		t.Error("Expected error for missing page marker")
	}
	if _, err := LoadSelectorsFromBytes([]byte(`not json`)); err == nil {
		t.Error("Expected parse error")
	}
	data, err := embeddedSelectors.ReadFile("selectors.json")
	if err != nil {
		t.Fatal(err)
	}
	sel, err := LoadSelectorsFromBytes(data)
	if err != nil {
		t.Fatalf("embedded selectors should parse: %v", err)
	}
	if sel != DefaultSelectors() {
		t.Errorf("embedded selectors drifted from defaults: %+v", sel)
	}
}

func TestLoadConfig_ExternalFile(t *testing.T) {
	path := t.TempDir() + "/selectors.json"
	if err := os.WriteFile(path, []byte(`{"steam_app":{"page_marker":"#appHubAppName","tags":"a.tag"}}`), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SELECTORS_CONFIG_PATH", path)

	sel := LoadConfig()
	if sel.SteamApp.PageMarker != "#appHubAppName" {
		t.Errorf("PageMarker = %q, want external value", sel.SteamApp.PageMarker)
	}

	t.Setenv("SELECTORS_CONFIG_PATH", path+".missing")
	if LoadConfig() != DefaultSelectors() {
		t.Error("Missing external file should fall back to embedded selectors")
	}
}
