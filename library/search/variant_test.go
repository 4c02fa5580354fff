package search

import (
	"testing"

	"github.com/Laisky/errors/v2"
	"github.com/stretchr/testify/require"
)

func TestVariantApply(t *testing.T) {
	require.Equal(t, "golang", VariantWeb.Apply("golang"))
	require.Equal(t, "golang news", VariantNews.Apply("golang"))
	require.Equal(t, "golang images", VariantImages.Apply("golang"))
}

func TestParseVariant(t *testing.T) {
	tests := []struct {
		raw     string
		want    Variant
		wantErr bool
	}{
		{raw: "", want: VariantWeb},
		{raw: "web", want: VariantWeb},
		{raw: " News ", want: VariantNews},
		{raw: "IMAGES", want: VariantImages},
		{raw: "videos", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			got, err := ParseVariant(tc.raw)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestResponseNotice(t *testing.T) {
	var nilResp *Response
	require.Nil(t, nilResp.Notice())

	ok := &Response{Results: []Result{{Title: "Go", Link: "https://go.dev"}}}
	require.Nil(t, ok.Notice())

	empty := &Response{Results: []Result{}}
	notice := empty.Notice()
	require.NotNil(t, notice)
	require.Equal(t, NoticeWarning, notice.Level)
	require.False(t, notice.IsError())

	failed := &Response{Results: []Result{}, Failure: errors.New("dial tcp: connection refused")}
	notice = failed.Notice()
	require.True(t, notice.IsError())
	require.Equal(t, "Search failed: dial tcp: connection refused", notice.Message)
}
