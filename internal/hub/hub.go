// Package hub is the caller side of the search core. Every frontend submits
// queries through it so that query validation, variant suffixing, history
// recording and result presentation behave the same in the browser, the
// terminal and the command line.
package hub

import (
	"context"
	"strings"

	"github.com/Laisky/errors/v2"
	gmw "github.com/Laisky/gin-middlewares/v7"
	logSDK "github.com/Laisky/go-utils/v6/log"
	"github.com/Laisky/zap"

	"github.com/Laisky/searchhub/internal/session"
	"github.com/Laisky/searchhub/library/log"
	"github.com/Laisky/searchhub/library/search"
)

// Searcher is the search core as seen by the hub.
type Searcher interface {
	Search(ctx context.Context, query string) *search.Response
}

// Limiter decides whether a session may search right now.
type Limiter interface {
	Allow(sessionID string) bool
}

// Request is one query submitted from a frontend.
type Request struct {
	Query   string
	Variant search.Variant
	// Lucky keeps only the first result.
	Lucky bool
}

// Outcome is everything a frontend needs to render a submitted query.
type Outcome struct {
	Request Request
	// SentQuery is the query after variant suffixing, empty when nothing was sent.
	SentQuery string
	// Response is nil when the query never reached the search core.
	Response *search.Response
	// Results is the slice to display, capped by the session settings.
	Results []search.Result
	// Total is the number of results the search page returned.
	Total  int
	Notice *search.Notice
	// Throttled is set when the limiter turned the query away.
	Throttled bool
}

// Searched reports whether the query reached the search core.
func (o *Outcome) Searched() bool {
	return o != nil && o.Response != nil
}

// Hub wires the search core to session state.
type Hub struct {
	searcher Searcher
	limiter  Limiter
	logger   logSDK.Logger
}

// Option customises a Hub.
type Option func(*Hub)

// WithLimiter installs a throttle consulted before every search.
func WithLimiter(limiter Limiter) Option {
	return func(h *Hub) {
		h.limiter = limiter
	}
}

// WithLogger overrides the fallback logger.
func WithLogger(logger logSDK.Logger) Option {
	return func(h *Hub) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// New returns a Hub searching with searcher.
func New(searcher Searcher, opts ...Option) (*Hub, error) {
	if searcher == nil {
		return nil, errors.New("searcher is required")
	}

	h := &Hub{
		searcher: searcher,
		logger:   log.Logger.Named("hub"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h, nil
}

// Submit validates req, records it in the session history and runs the search.
// It always returns an Outcome, failures are reported through Outcome.Notice.
func (h *Hub) Submit(ctx context.Context, st *session.State, req Request) *Outcome {
	if req.Variant == "" {
		req.Variant = search.VariantWeb
	}
	out := &Outcome{Request: req, Results: []search.Result{}}

	if strings.TrimSpace(req.Query) == "" {
		out.Notice = search.NewNotice(search.NoticeWarning, emptyQueryPrompt(req.Variant))
		return out
	}

	logger := h.contextLogger(ctx).With(
		zap.String("variant", string(req.Variant)),
		zap.Int("query_len", len(req.Query)),
	)

	if h.limiter != nil && !h.limiter.Allow(st.ID) {
		logger.Info("search throttled")
		out.Throttled = true
		out.Notice = search.NewNotice(search.NoticeWarning, "Too many searches, please slow down.")
		return out
	}

	out.SentQuery = req.Variant.Apply(req.Query)
	st.History.Record(out.SentQuery)

	resp := h.searcher.Search(ctx, out.SentQuery)
	if resp == nil {
		resp = &search.Response{Query: out.SentQuery, Results: []search.Result{}}
	}
	out.Response = resp
	out.Total = len(resp.Results)
	out.Notice = resp.Notice()
	if out.Notice != nil && !out.Notice.IsError() {
		out.Notice = search.NewNotice(search.NoticeWarning, noResultsMessage(req.Variant))
	}

	out.Results = presentable(resp.Results, req.Lucky, st.Settings.ResultsPerPage)
	logger.Debug("search submitted",
		zap.Int("total", out.Total),
		zap.Int("shown", len(out.Results)),
		zap.Bool("failed", resp.Failed()),
	)
	return out
}

// ClearHistory empties the session's recent queries.
func (h *Hub) ClearHistory(st *session.State) *search.Notice {
	st.History.Clear()
	return search.NewNotice(search.NoticeSuccess, "Search history cleared!")
}

// UpdateSettings validates and stores new preferences.
func (h *Hub) UpdateSettings(st *session.State, safeSearch string, resultsPerPage int) (*search.Notice, error) {
	level, err := session.ParseSafeSearch(safeSearch)
	if err != nil {
		return search.NewNotice(search.NoticeError, err.Error()), errors.WithStack(err)
	}

	settings := session.Settings{SafeSearch: level, ResultsPerPage: resultsPerPage}
	if err := settings.Validate(); err != nil {
		return search.NewNotice(search.NoticeError, err.Error()), errors.WithStack(err)
	}

	st.Settings = settings
	return search.NewNotice(search.NoticeSuccess, "Settings saved."), nil
}

func (h *Hub) contextLogger(ctx context.Context) logSDK.Logger {
	// outside a gin request gmw falls back to its shared stdout logger
	if ctx != nil {
		if _, ok := gmw.GetGinCtxFromStdCtx(ctx); ok {
			return gmw.GetLogger(ctx).Named("hub")
		}
	}
	return h.logger
}

// presentable applies the lucky pick and the per-page cap.
func presentable(results []search.Result, lucky bool, perPage int) []search.Result {
	limit := len(results)
	if lucky && limit > 1 {
		limit = 1
	}
	if perPage > 0 && limit > perPage {
		limit = perPage
	}

	out := make([]search.Result, limit)
	copy(out, results[:limit])
	return out
}

func emptyQueryPrompt(v search.Variant) string {
	switch v {
	case search.VariantNews:
		return "Please enter a news search query."
	case search.VariantImages:
		return "Please enter an image search query."
	default:
		return "Please enter a search query."
	}
}

func noResultsMessage(v search.Variant) string {
	switch v {
	case search.VariantNews:
		return "No news results found."
	case search.VariantImages:
		return "No image results found."
	default:
		return "No results found. Try a different search query."
	}
}
