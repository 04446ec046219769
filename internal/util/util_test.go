package util

import (
	"testing"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   float64
		wantOK bool
	}{
		{name: "Plain", input: "4.99", want: 4.99, wantOK: true},
		{name: "Dollar prefix", input: "$19.99", want: 19.99, wantOK: true},
		{name: "Zero", input: "0.00", want: 0, wantOK: true},
		{name: "Whitespace", input: "  5.00 ", want: 5, wantOK: true},
		{name: "Empty", input: "", wantOK: false},
		{name: "Garbage", input: "free", wantOK: false},
		{name: "NaN", input: "NaN", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParsePrice(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ParsePrice(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("ParsePrice(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestPriceLabel(t *testing.T) {
	tests := map[string]string{
		"0.00":  "Free",
		"4.99":  "$4.99",
		"":      "",
		"10.00": "$10.00",
	}
	for input, want := range tests {
		if got := PriceLabel(input); got != want {
			t.Errorf("PriceLabel(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestPercentLabel(t *testing.T) {
	if got := PercentLabel("56.017014"); got != "56.02%" {
		t.Errorf("PercentLabel() = %q, want 56.02%%", got)
	}
	if got := PercentLabel(""); got != "" {
		t.Errorf("PercentLabel(\"\") = %q, want empty", got)
	}
}

func TestGetDomain(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "Standard domain",
			input: "https://cheapshark.com/api/1.0/deals",
			want:  "cheapshark.com",
		},
		{
			name:  "Subdomain",
			input: "https://store.steampowered.com/app/620",
			want:  "steampowered.com",
		},
		{
			name:  "Two-part TLD",
			input: "https://example.co.uk/product",
			want:  "example.co.uk",
		},
		{
			name:  "Subdomain with two-part TLD",
			input: "https://sub.example.co.uk/product",
			want:  "example.co.uk",
		},
		{
			name:  "www prefix",
			input: "https://www.cheapshark.com",
			want:  "cheapshark.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetDomain(tt.input)
			if got != tt.want {
				t.Errorf("GetDomain() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsAllowedURL(t *testing.T) {
	allowed := []string{"steampowered.com", "127.0.0.1"}
	tests := []struct {
		input string
		want  bool
	}{
		{"https://store.steampowered.com/app/620", true},
		{"http://127.0.0.1:8080/app/620", true},
		{"https://evil.example.com/app/620", false},
		{"ftp://store.steampowered.com/app/620", false},
		{"://bad", false},
	}
	for _, tt := range tests {
		if got := IsAllowedURL(tt.input, allowed); got != tt.want {
			t.Errorf("IsAllowedURL(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestJoinAssetURL(t *testing.T) {
	tests := []struct {
		base, path, want string
	}{
		{"https://www.cheapshark.com", "/img/stores/icons/0.png", "https://www.cheapshark.com/img/stores/icons/0.png"},
		{"https://www.cheapshark.com/", "img/a.png", "https://www.cheapshark.com/img/a.png"},
		{"https://www.cheapshark.com", "https://cdn.example.com/a.png", "https://cdn.example.com/a.png"},
		{"https://www.cheapshark.com", "", ""},
	}
	for _, tt := range tests {
		if got := JoinAssetURL(tt.base, tt.path); got != tt.want {
			t.Errorf("JoinAssetURL(%q, %q) = %q, want %q", tt.base, tt.path, got, tt.want)
		}
	}
}

func TestDealRedirectURL(t *testing.T) {
	got := DealRedirectURL("https://www.cheapshark.com/", "X8sebHhbc1Ga0dTkgg59WgyM506af9oNZZJLU9uSrX8=")
	want := "https://www.cheapshark.com/redirect?dealID=X8sebHhbc1Ga0dTkgg59WgyM506af9oNZZJLU9uSrX8%3D"
	if got != want {
		t.Errorf("DealRedirectURL() = %q, want %q", got, want)
	}
	if DealRedirectURL("https://www.cheapshark.com", "") != "" {
		t.Error("DealRedirectURL with empty id should be empty")
	}
}
