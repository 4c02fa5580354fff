package mcp

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Laisky/searchhub/library/log"
	"github.com/Laisky/searchhub/library/search"
)

type fixedSearcher struct{}

func (fixedSearcher) Search(_ context.Context, query string) *search.Response {
	return &search.Response{
		Query:   query,
		Results: []search.Result{{Title: "Example", Link: "https://example.com"}},
	}
}

func TestNewServerRequiresSearcher(t *testing.T) {
	s, err := NewServer(nil, nil, log.Logger)
	require.Nil(t, s)
	require.Error(t, err)
}

func TestServerInitialize(t *testing.T) {
	s, err := NewServer(fixedSearcher{}, nil, nil)
	require.NoError(t, err)
	require.NotNil(t, s.Handler())

	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	body := []byte(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{` +
		`"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"test","version":"0.0.1"}}}`)
	req, err := http.NewRequest(http.MethodPost, ts.URL, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close() // nolint: errcheck

	require.Equal(t, http.StatusOK, resp.StatusCode)
	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(payload), "searchhub")
}
