package redirect

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func makeCandidates(urls ...string) []Candidate {
	candidates := make([]Candidate, 0, len(urls))
	for _, u := range urls {
		candidates = append(candidates, Candidate{ID: uuid.New(), URL: u})
	}
	return candidates
}

func TestIsExcludedSource(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want bool
	}{
		{"regular offer url", "https://example.com/offer", false},
		{"docs google", "https://docs.google.com/spreadsheets/d/abc", true},
		{"sheets api", "https://sheets.googleapis.com/v4/spreadsheets/abc", true},
		{"sheets google", "https://sheets.google.com/x", true},
		{"subdomain of excluded host", "https://export.docs.google.com/x", true},
		{"case insensitive host", "https://DOCS.GOOGLE.COM/x", true},
		{"similar but different host", "https://mydocs.google.example.com", false},
		{"google itself is fine", "https://google.com", false},
		{"unparseable url excluded", "https://exa mple.com/%zz", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsExcludedSource(tt.url)
			if got != tt.want {
				t.Errorf("IsExcludedSource(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

func TestSelectEmptyPool(t *testing.T) {
	_, err := Select(nil, "IN", 0)
	if !errors.Is(err, ErrNoActiveCandidates) {
		t.Errorf("Select(nil) error = %v, want ErrNoActiveCandidates", err)
	}
}

func TestSelectNoCandidateForCountry(t *testing.T) {
	candidates := []Candidate{
		{ID: uuid.New(), URL: "https://a.example.com", AllowedCountries: []string{"US"}},
		{ID: uuid.New(), URL: "https://b.example.com", AllowedCountries: []string{"DE"}},
	}

	_, err := Select(candidates, "IN", 0)
	if !errors.Is(err, ErrNoCandidateForCountry) {
		t.Errorf("Select error = %v, want ErrNoCandidateForCountry", err)
	}
}

func TestSelectAllExcluded(t *testing.T) {
	candidates := makeCandidates(
		"https://docs.google.com/spreadsheets/d/abc",
		"https://sheets.googleapis.com/v4/x",
	)

	// Exclusion leaves the pool empty for every country, which surfaces as
	// the per-country miss, not the configuration error.
	_, err := Select(candidates, "IN", 0)
	if !errors.Is(err, ErrNoCandidateForCountry) {
		t.Errorf("Select error = %v, want ErrNoCandidateForCountry", err)
	}
}

func TestSelectCursorWraps(t *testing.T) {
	candidates := makeCandidates(
		"https://a.example.com",
		"https://b.example.com",
		"https://c.example.com",
	)

	sel, err := Select(candidates, "IN", 2)
	if err != nil {
		t.Fatalf("Select returned error: %v", err)
	}
	if sel.Index != 2 {
		t.Errorf("Index = %d, want 2", sel.Index)
	}
	if sel.Candidate.URL != "https://c.example.com" {
		t.Errorf("Candidate.URL = %q, want https://c.example.com", sel.Candidate.URL)
	}
	if sel.NextCursor != 0 {
		t.Errorf("NextCursor = %d, want 0", sel.NextCursor)
	}
}

func TestSelectRoundRobinCoversPool(t *testing.T) {
	candidates := makeCandidates(
		"https://a.example.com",
		"https://b.example.com",
		"https://c.example.com",
	)

	seen := make(map[string]int)
	cursor := 0
	for i := 0; i < len(candidates); i++ {
		sel, err := Select(candidates, "IN", cursor)
		if err != nil {
			t.Fatalf("Select returned error: %v", err)
		}
		seen[sel.Candidate.URL]++
		cursor = sel.NextCursor
	}

	for _, c := range candidates {
		if seen[c.URL] != 1 {
			t.Errorf("candidate %q served %d times in one full cycle, want 1", c.URL, seen[c.URL])
		}
	}
	if cursor != 0 {
		t.Errorf("cursor after full cycle = %d, want 0", cursor)
	}
}

func TestSelectCursorOutOfRange(t *testing.T) {
	candidates := makeCandidates("https://a.example.com", "https://b.example.com")

	// A cursor left over from a larger pool wraps instead of failing.
	sel, err := Select(candidates, "IN", 7)
	if err != nil {
		t.Fatalf("Select returned error: %v", err)
	}
	if sel.Index != 1 {
		t.Errorf("Index = %d, want 1", sel.Index)
	}

	// Negative cursors are clamped to the start of the pool.
	sel, err = Select(candidates, "IN", -3)
	if err != nil {
		t.Fatalf("Select returned error: %v", err)
	}
	if sel.Index != 0 {
		t.Errorf("Index = %d, want 0", sel.Index)
	}
}

func TestSelectFiltersByCountry(t *testing.T) {
	candidates := []Candidate{
		{ID: uuid.New(), URL: "https://us-only.example.com", AllowedCountries: []string{"US"}},
		{ID: uuid.New(), URL: "https://open.example.com"},
		{ID: uuid.New(), URL: "https://in-only.example.com", AllowedCountries: []string{"India"}},
	}

	// An Indian visitor sees the open and India-only candidates; the cursor
	// indexes the filtered pool.
	sel, err := Select(candidates, "IN", 1)
	if err != nil {
		t.Fatalf("Select returned error: %v", err)
	}
	if sel.Candidate.URL != "https://in-only.example.com" {
		t.Errorf("Candidate.URL = %q, want https://in-only.example.com", sel.Candidate.URL)
	}
	if sel.NextCursor != 0 {
		t.Errorf("NextCursor = %d, want 0", sel.NextCursor)
	}
}

func TestSelectUnknownCountryFailsClosed(t *testing.T) {
	candidates := []Candidate{
		{ID: uuid.New(), URL: "https://us-only.example.com", AllowedCountries: []string{"US"}},
		{ID: uuid.New(), URL: "https://open.example.com"},
	}

	// Unresolved visitors still get unrestricted candidates, never gated ones.
	sel, err := Select(candidates, "XX", 0)
	if err != nil {
		t.Fatalf("Select returned error: %v", err)
	}
	if sel.Candidate.URL != "https://open.example.com" {
		t.Errorf("Candidate.URL = %q, want https://open.example.com", sel.Candidate.URL)
	}
}
