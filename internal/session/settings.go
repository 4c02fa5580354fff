package session

import (
	"strings"

	"github.com/Laisky/errors/v2"
)

// SafeSearch is the user's safe-search preference. It is stored and shown,
// the search page is queried the same way whatever its value.
type SafeSearch string

const (
	SafeSearchOff      SafeSearch = "off"
	SafeSearchModerate SafeSearch = "moderate"
	SafeSearchStrict   SafeSearch = "strict"
)

// SafeSearchLevels lists the levels in display order.
var SafeSearchLevels = []SafeSearch{SafeSearchOff, SafeSearchModerate, SafeSearchStrict}

// Label is the display name of the level.
func (s SafeSearch) Label() string {
	switch s {
	case SafeSearchOff:
		return "Off"
	case SafeSearchStrict:
		return "Strict"
	default:
		return "Moderate"
	}
}

const (
	MinResultsPerPage     = 5
	MaxResultsPerPage     = 20
	DefaultResultsPerPage = 10
)

// Settings are the per-session search preferences.
type Settings struct {
	SafeSearch     SafeSearch `json:"safe_search"`
	ResultsPerPage int        `json:"results_per_page"`
}

// DefaultSettings returns moderate safe search and 10 results per page.
func DefaultSettings() Settings {
	return Settings{
		SafeSearch:     SafeSearchModerate,
		ResultsPerPage: DefaultResultsPerPage,
	}
}

// ParseSafeSearch accepts a level name in any case.
func ParseSafeSearch(raw string) (SafeSearch, error) {
	switch v := SafeSearch(strings.ToLower(strings.TrimSpace(raw))); v {
	case SafeSearchOff, SafeSearchModerate, SafeSearchStrict:
		return v, nil
	default:
		return "", errors.Errorf("unknown safe search level %q", raw)
	}
}

// Validate checks both fields are within range.
func (s Settings) Validate() error {
	if _, err := ParseSafeSearch(string(s.SafeSearch)); err != nil {
		return errors.WithStack(err)
	}
	if s.ResultsPerPage < MinResultsPerPage || s.ResultsPerPage > MaxResultsPerPage {
		return errors.Errorf("results per page must be between %d and %d, got %d",
			MinResultsPerPage, MaxResultsPerPage, s.ResultsPerPage)
	}
	return nil
}

// normalized replaces invalid fields with defaults, used for state loaded from a store.
func (s Settings) normalized() Settings {
	def := DefaultSettings()
	if _, err := ParseSafeSearch(string(s.SafeSearch)); err != nil {
		s.SafeSearch = def.SafeSearch
	}
	if s.ResultsPerPage < MinResultsPerPage || s.ResultsPerPage > MaxResultsPerPage {
		s.ResultsPerPage = def.ResultsPerPage
	}
	return s
}
