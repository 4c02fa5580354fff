// Package search turns free-text queries into result lists scraped from a
// third party html search page.
package search

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Laisky/errors/v2"
	gmw "github.com/Laisky/gin-middlewares/v7"
	gutils "github.com/Laisky/go-utils/v6"
	logSDK "github.com/Laisky/go-utils/v6/log"
	"github.com/Laisky/zap"

	"github.com/Laisky/searchhub/library/log"
)

const (
	// DefaultEndpoint is DuckDuckGo's javascript-free html search page.
	DefaultEndpoint = "https://html.duckduckgo.com/html/"
	// DefaultTimeout bounds the whole outbound call.
	DefaultTimeout = 10 * time.Second
	// DefaultUserAgent mimics a desktop Chrome, the html endpoint rejects obvious bots.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) " +
		"Chrome/115.0.0.0 Safari/537.36"
	acceptLanguage = "en-US,en;q=0.9"
	// logBodyLimit caps the number of response bytes logged for debugging.
	logBodyLimit = 2048
	engineName   = "duckduckgo_html"
)

// Option configures the Adapter.
type Option func(*Adapter)

// WithHTTPClient overrides the HTTP client. The client's own timeout is used as is.
func WithHTTPClient(client *http.Client) Option {
	return func(a *Adapter) {
		if client != nil {
			a.client = client
		}
	}
}

// WithEndpoint overrides the search endpoint, primarily for testing.
func WithEndpoint(endpoint string) Option {
	return func(a *Adapter) {
		if trimmed := strings.TrimSpace(endpoint); trimmed != "" {
			a.endpoint = trimmed
		}
	}
}

// WithTimeout changes the timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(a *Adapter) {
		if timeout > 0 {
			a.timeout = timeout
		}
	}
}

// WithUserAgent overrides the spoofed browser user agent.
func WithUserAgent(ua string) Option {
	return func(a *Adapter) {
		if trimmed := strings.TrimSpace(ua); trimmed != "" {
			a.userAgent = trimmed
		}
	}
}

// WithParser replaces the markup rule used to find result anchors.
func WithParser(parser ResultParser) Option {
	return func(a *Adapter) {
		if parser != nil {
			a.parser = parser
		}
	}
}

// WithLogger overrides the fallback logger used when the context carries none.
func WithLogger(logger logSDK.Logger) Option {
	return func(a *Adapter) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// Adapter issues one POST per query against an html search page and scrapes the results.
// It keeps no per-query state and is safe for concurrent use.
type Adapter struct {
	endpoint  string
	userAgent string
	timeout   time.Duration
	client    *http.Client
	parser    ResultParser
	logger    logSDK.Logger
}

// NewAdapter constructs an Adapter pointed at DuckDuckGo unless options say otherwise.
func NewAdapter(opts ...Option) (*Adapter, error) {
	a := &Adapter{
		endpoint:  DefaultEndpoint,
		userAgent: DefaultUserAgent,
		timeout:   DefaultTimeout,
		parser:    NewAnchorClassParser(DefaultResultClass),
		logger:    log.Logger.Named(engineName),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}

	if _, err := url.Parse(a.endpoint); err != nil {
		return nil, errors.Wrapf(err, "invalid search endpoint %q", a.endpoint)
	}

	if a.client == nil {
		client, err := gutils.NewHTTPClient(
			gutils.WithHTTPClientTimeout(a.timeout),
		)
		if err != nil {
			return nil, errors.Wrap(err, "new http client")
		}
		a.client = client
	}

	return a, nil
}

// Name returns the identifier used in logs.
func (a *Adapter) Name() string {
	return engineName
}

// Search runs the query and never fails: transport problems are logged and
// recorded in Response.Failure with an empty result list.
func (a *Adapter) Search(ctx context.Context, query string) (resp *Response) {
	resp = &Response{
		Query:     query,
		CreatedAt: gutils.Clock.GetUTCNow(),
		Results:   []Result{},
	}
	logger := a.contextLogger(ctx).With(zap.Int("query_len", len(query)))

	defer func() {
		if r := recover(); r != nil {
			logger.Error("search panicked", zap.Any("panic", r))
			resp.Results = []Result{}
			resp.Failure = errors.Errorf("unexpected error: %v", r)
		}
	}()

	results, err := a.Fetch(ctx, query)
	if err != nil {
		logger.Warn("search failed", zap.Error(err))
		resp.Failure = err
		return resp
	}

	if len(results) == 0 {
		logger.Info("search returned no results")
	}
	resp.Results = results
	return resp
}

// Fetch performs the outbound request and parses the page.
// The HTTP status code is not inspected, whatever html comes back is parsed.
func (a *Adapter) Fetch(ctx context.Context, query string) ([]Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	form := url.Values{}
	form.Set("q", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, errors.Wrapf(err, "create request to `%s`", a.endpoint)
	}
	req.Header.Set("User-Agent", a.userAgent)
	req.Header.Set("Accept-Language", acceptLanguage)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	logger := a.contextLogger(ctx)
	logger.Debug("outgoing http request",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.Int("query_len", len(query)),
	)

	startAt := time.Now()
	httpResp, err := a.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "send search request")
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read search response body")
	}

	truncatedBody, truncated := truncateForLog(body, logBodyLimit)
	logger.Debug("incoming http response",
		zap.Int("status", httpResp.StatusCode),
		zap.String("body", truncatedBody),
		zap.Bool("body_truncated", truncated),
		zap.Duration("cost", time.Since(startAt)),
	)
	if httpResp.StatusCode != http.StatusOK {
		logger.Debug("search page answered with non-200 status, parse anyway",
			zap.Int("status", httpResp.StatusCode))
	}

	results, err := a.parser.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "parse search page")
	}

	return results, nil
}

func (a *Adapter) contextLogger(ctx context.Context) logSDK.Logger {
	// outside a gin request gmw falls back to its shared stdout logger
	if ctx != nil {
		if _, ok := gmw.GetGinCtxFromStdCtx(ctx); ok {
			return gmw.GetLogger(ctx).Named(engineName)
		}
	}
	return a.logger
}

// truncateForLog limits the payload logged for debugging and reports whether truncation occurred.
func truncateForLog(body []byte, limit int) (string, bool) {
	if len(body) <= limit {
		return string(body), false
	}
	return string(body[:limit]), true
}
