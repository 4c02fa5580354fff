package search

import (
	"strings"

	"github.com/Laisky/errors/v2"
)

// Variant selects a search vertical. Verticals are not distinct backends,
// they only append a keyword to the query before it reaches the adapter.
type Variant string

const (
	VariantWeb    Variant = "web"
	VariantNews   Variant = "news"
	VariantImages Variant = "images"
)

// Variants lists every supported variant in tab order.
var Variants = []Variant{VariantWeb, VariantNews, VariantImages}

// ParseVariant converts user input into a Variant. Empty input means web.
func ParseVariant(raw string) (Variant, error) {
	switch v := Variant(strings.ToLower(strings.TrimSpace(raw))); v {
	case "":
		return VariantWeb, nil
	case VariantWeb, VariantNews, VariantImages:
		return v, nil
	default:
		return "", errors.Errorf("unknown search variant %q", raw)
	}
}

// Suffix returns the keyword appended for this variant, empty for web.
func (v Variant) Suffix() string {
	switch v {
	case VariantNews:
		return "news"
	case VariantImages:
		return "images"
	default:
		return ""
	}
}

// Apply returns the query text that is actually sent for this variant.
func (v Variant) Apply(query string) string {
	suffix := v.Suffix()
	if suffix == "" {
		return query
	}
	return query + " " + suffix
}

// Label is the human readable tab name.
func (v Variant) Label() string {
	switch v {
	case VariantNews:
		return "News"
	case VariantImages:
		return "Images"
	default:
		return "Search"
	}
}
