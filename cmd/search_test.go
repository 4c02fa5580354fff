package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Laisky/errors/v2"
	gconfig "github.com/Laisky/go-config/v2"
	"github.com/stretchr/testify/require"

	"github.com/Laisky/searchhub/internal/hub"
	"github.com/Laisky/searchhub/internal/session"
	"github.com/Laisky/searchhub/library/search"
)

type cannedSearcher struct {
	results []search.Result
	err     error
}

func (s cannedSearcher) Search(_ context.Context, query string) *search.Response {
	return &search.Response{Query: query, Results: append([]search.Result{}, s.results...), Failure: s.err}
}

func submit(t *testing.T, searcher hub.Searcher, req hub.Request) *hub.Outcome {
	t.Helper()
	h, err := hub.New(searcher)
	require.NoError(t, err)
	return h.Submit(context.Background(), session.NewState(session.NewID()), req)
}

func TestPrintOutcomeNumbered(t *testing.T) {
	out := submit(t, cannedSearcher{results: []search.Result{
		{Title: "Go", Link: "https://go.dev"},
		{Title: "Pkg", Link: "https://pkg.go.dev"},
	}}, hub.Request{Query: "golang"})

	var stdout, stderr bytes.Buffer
	require.NoError(t, printOutcome(&stdout, &stderr, out, false))
	require.Equal(t, "1. Go\n   https://go.dev\n2. Pkg\n   https://pkg.go.dev\n", stdout.String())
	require.Empty(t, stderr.String())
}

func TestPrintOutcomeLucky(t *testing.T) {
	out := submit(t, cannedSearcher{results: []search.Result{
		{Title: "Go", Link: "https://go.dev"},
		{Title: "Pkg", Link: "https://pkg.go.dev"},
	}}, hub.Request{Query: "golang", Lucky: true})

	var stdout, stderr bytes.Buffer
	require.NoError(t, printOutcome(&stdout, &stderr, out, false))
	require.Equal(t, "Lucky Pick! Go\n   https://go.dev\n", stdout.String())
}

func TestPrintOutcomeJSON(t *testing.T) {
	out := submit(t, cannedSearcher{results: []search.Result{
		{Title: "Go", Link: "https://go.dev"},
	}}, hub.Request{Query: "golang", Variant: search.VariantNews})

	var stdout, stderr bytes.Buffer
	require.NoError(t, printOutcome(&stdout, &stderr, out, true))
	require.Contains(t, stdout.String(), `"query": "golang news"`)
	require.Contains(t, stdout.String(), `"link": "https://go.dev"`)
}

func TestPrintOutcomeNotices(t *testing.T) {
	var stdout, stderr bytes.Buffer

	out := submit(t, cannedSearcher{}, hub.Request{Query: "  "})
	require.ErrorIs(t, printOutcome(&stdout, &stderr, out, false), errNothingSearched)
	require.Equal(t, "Please enter a search query.\n", stderr.String())

	stderr.Reset()
	out = submit(t, cannedSearcher{}, hub.Request{Query: "zzzz"})
	require.NoError(t, printOutcome(&stdout, &stderr, out, false))
	require.Equal(t, "No results found. Try a different search query.\n", stderr.String())
	require.Empty(t, stdout.String())

	stderr.Reset()
	out = submit(t, cannedSearcher{err: errors.New("boom")}, hub.Request{Query: "golang"})
	require.NoError(t, printOutcome(&stdout, &stderr, out, false))
	require.Contains(t, stderr.String(), "Search failed: boom")
	require.Empty(t, stdout.String())
}

const searchPageFixture = `<html><body>
<a class="result__a" href="https://go.dev/">The Go Programming Language</a>
<a class="result__a" href="https://pkg.go.dev/">Go Packages</a>
</body></html>`

// executeCLI runs the root command in-process and captures what it prints.
func executeCLI(t *testing.T, endpoint string, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	var outBuf, errBuf bytes.Buffer
	gconfig.Shared.Set("settings.search.endpoint", endpoint)
	rootCMD.SetOut(&outBuf)
	rootCMD.SetErr(&errBuf)
	rootCMD.SetArgs(args)
	t.Cleanup(func() {
		gconfig.Shared.Set("settings.search.endpoint", nil)
		rootCMD.SetOut(nil)
		rootCMD.SetErr(nil)
		rootCMD.SetArgs(nil)
		for name, def := range map[string]string{
			"variant":          "web",
			"lucky":            "false",
			"json":             "false",
			"results-per-page": "10",
		} {
			require.NoError(t, searchCMD.Flags().Set(name, def))
		}
	})

	err = rootCMD.ExecuteContext(context.Background())
	return outBuf.String(), errBuf.String(), err
}

func TestSearchCommandJSONStdoutIsClean(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(searchPageFixture))
	}))
	defer server.Close()

	stdout, stderr, err := executeCLI(t, server.URL, "search", "--json", "golang")
	require.NoError(t, err)
	require.Contains(t, stderr, "run in prod mode")

	var resp search.Response
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp), "stdout: %q", stdout)
	require.Equal(t, "golang", resp.Query)
	require.Equal(t, []search.Result{
		{Title: "The Go Programming Language", Link: "https://go.dev/"},
		{Title: "Go Packages", Link: "https://pkg.go.dev/"},
	}, resp.Results)
}

func TestSearchCommandTransportFailureIsNotice(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	stdout, stderr, err := executeCLI(t, "http://"+addr+"/html/", "search", "golang")
	require.NoError(t, err)
	require.Empty(t, stdout)
	require.Contains(t, stderr, "Search failed:")
	require.NotContains(t, stderr, "Usage:")
}

func TestSearchCommandEmptyQueryExitsNonZero(t *testing.T) {
	stdout, stderr, err := executeCLI(t, "http://127.0.0.1:1/html/", "search", "   ")
	require.Error(t, err)

	var exitErr *exitError
	require.True(t, errors.As(err, &exitErr))
	require.Equal(t, 1, exitErr.code)
	require.ErrorIs(t, err, errNothingSearched)

	require.Empty(t, stdout)
	require.Contains(t, stderr, "Please enter a search query.")
	require.NotContains(t, stderr, "Usage:")
	require.NotContains(t, stderr, "Error:")
}
