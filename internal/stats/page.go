package stats

import (
	"fmt"
	"strings"
)

// Kind identifies which statistics table a fetch or cache operation targets
type Kind string

const (
	KindPassing  Kind = "passing"
	KindShooting Kind = "shooting"
)

const (
	PassingURL  = "https://fbref.com/en/comps/9/passing/Premier-League-Stats"
	ShootingURL = "https://fbref.com/en/comps/9/shooting/Premier-League-Stats"
)

// Page is a statistics page identified by its kind and source URL
type Page struct {
	Kind Kind
	URL  string
}

var pages = []Page{
	{Kind: KindPassing, URL: PassingURL},
	{Kind: KindShooting, URL: ShootingURL},
}

// Pages returns the built-in statistics pages in fetch order
func Pages() []Page {
	out := make([]Page, len(pages))
	copy(out, pages)
	return out
}

// ParseKind normalizes a user supplied kind label
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, p := range pages {
		if p.Kind == k {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown statistic kind %q (want passing or shooting)", s)
}

// LookupPage returns the page for a kind
func LookupPage(kind Kind) (Page, error) {
	for _, p := range pages {
		if p.Kind == kind {
			return p, nil
		}
	}
	return Page{}, fmt.Errorf("unknown statistic kind %q", kind)
}
