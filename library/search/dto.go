package search

import (
	"fmt"
	"time"
)

// Result is a single result anchor scraped from the search page.
// Title and Link are never empty.
type Result struct {
	Title string `json:"title"`
	Link  string `json:"link"`
}

// Response is the outcome of one Search call.
// Failure is set only for transport level problems, in which case Results is empty.
type Response struct {
	Query     string    `json:"query"`
	CreatedAt time.Time `json:"created_at"`
	Results   []Result  `json:"results"`
	Failure   error     `json:"-"`
}

// Failed reports whether the outbound call failed.
func (r *Response) Failed() bool {
	return r != nil && r.Failure != nil
}

// Empty reports whether the call succeeded but matched nothing.
func (r *Response) Empty() bool {
	return r != nil && r.Failure == nil && len(r.Results) == 0
}

// Notice returns the single user-visible notice for the response,
// or nil when results are available.
func (r *Response) Notice() *Notice {
	switch {
	case r == nil:
		return nil
	case r.Failed():
		return NewNotice(NoticeError, fmt.Sprintf("Search failed: %s", r.Failure.Error()))
	case r.Empty():
		return NewNotice(NoticeWarning, "No results found. Try a different search query.")
	default:
		return nil
	}
}
