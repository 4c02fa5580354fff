package search

import (
	"io"
	"strings"

	"github.com/Laisky/errors/v2"
	"github.com/PuerkitoBio/goquery"
)

// DefaultResultClass is the css class DuckDuckGo's html endpoint puts on result anchors.
const DefaultResultClass = "result__a"

// ResultParser extracts results from a search page.
// It is the only place that knows about the third party markup.
type ResultParser interface {
	Parse(body io.Reader) ([]Result, error)
}

// AnchorClassParser selects every <a> carrying Class and an href attribute.
type AnchorClassParser struct {
	Class string
}

// NewAnchorClassParser returns a parser for anchors with the given css class,
// falling back to DefaultResultClass when class is blank.
func NewAnchorClassParser(class string) *AnchorClassParser {
	class = strings.TrimSpace(class)
	if class == "" {
		class = DefaultResultClass
	}
	return &AnchorClassParser{Class: class}
}

// Parse returns results in document order. Anchors with an empty trimmed title
// or an empty href are skipped.
func (p *AnchorClassParser) Parse(body io.Reader) ([]Result, error) {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, errors.Wrap(err, "parse html")
	}

	class := DefaultResultClass
	if p != nil && p.Class != "" {
		class = p.Class
	}

	results := make([]Result, 0)
	doc.Find("a." + class + "[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		title := strings.TrimSpace(s.Text())
		if title == "" || href == "" {
			return
		}
		results = append(results, Result{Title: title, Link: href})
	})

	return results, nil
}
