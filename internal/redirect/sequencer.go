package redirect

import (
	"errors"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// Selection errors. The two absence cases are distinct: an empty raw pool is
// a configuration error, an empty filtered pool is a per-country miss.
var (
	ErrNoActiveCandidates    = errors.New("no active fallback candidates configured")
	ErrNoCandidateForCountry = errors.New("no fallback candidate available for country")
)

// excludedSourceHosts are hosts belonging to the spreadsheet-import source.
// Rows pointing back at the import source must never be served as redirect
// candidates, even when marked active.
var excludedSourceHosts = []string{
	"docs.google.com",
	"sheets.googleapis.com",
	"sheets.google.com",
}

// Candidate is one entry of the fallback pool.
type Candidate struct {
	ID               uuid.UUID
	URL              string
	AllowedCountries []string
}

// Selection is the sequencer result: the chosen candidate and the cursor
// value the caller should persist for the next visitor.
type Selection struct {
	Candidate  Candidate
	Index      int
	NextCursor int
}

// IsExcludedSource reports whether a URL points at the spreadsheet-import
// source domain. Unparseable URLs are excluded as well.
func IsExcludedSource(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return true
	}
	host := strings.ToLower(u.Hostname())
	for _, excluded := range excludedSourceHosts {
		if host == excluded || strings.HasSuffix(host, "."+excluded) {
			return true
		}
	}
	return false
}

// Select picks the next round-robin candidate for a visitor.
//
// Candidates must already be restricted to active rows in static order; the
// import-source exclusion and the country gate are applied here, fresh on
// every call, so the cursor stays valid when the pool changes. The cursor is
// a single global value; callers persist NextCursor with no locking, which
// means concurrent visitors may occasionally see the same candidate.
func Select(candidates []Candidate, userCountry string, cursor int) (Selection, error) {
	if len(candidates) == 0 {
		return Selection{}, ErrNoActiveCandidates
	}

	eligible := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if IsExcludedSource(c.URL) {
			continue
		}
		if Allowed(c.AllowedCountries, userCountry) {
			eligible = append(eligible, c)
		}
	}
	if len(eligible) == 0 {
		return Selection{}, ErrNoCandidateForCountry
	}

	if cursor < 0 {
		cursor = 0
	}
	index := cursor % len(eligible)
	return Selection{
		Candidate:  eligible[index],
		Index:      index,
		NextCursor: (cursor + 1) % len(eligible),
	}, nil
}
