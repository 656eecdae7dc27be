// Package catalog turns raw, redundantly-encoded listing parameters
// into one canonical query value. Everything here is pure: no store
// access, no transport types beyond url.Values, and malformed input
// never errors — it falls back to documented defaults so browsing stays
// resilient to mangled query strings.
package catalog

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
)

// DefaultPageSize is used when the caller passes no explicit default.
const DefaultPageSize = 10

const DefaultSort = "-created"

// sortKeys is the allow-list; anything else silently becomes DefaultSort.
var sortKeys = map[string]bool{
	"price": true, "-price": true,
	"name": true, "-name": true,
	"-created": true,
}

// SlugSet is an order-irrelevant set of normalized identifiers.
type SlugSet map[string]struct{}

func (s SlugSet) Has(v string) bool { _, ok := s[v]; return ok }

func (s SlugSet) Empty() bool { return len(s) == 0 }

// Values returns the members sorted, for stable echoing and SQL args.
func (s SlugSet) Values() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Query is the normalized form of a catalog listing request.
type Query struct {
	MinPrice   decimal.NullDecimal
	MaxPrice   decimal.NullDecimal
	Search     string
	Categories SlugSet
	Brands     SlugSet
	Tags       SlugSet
	Sort       string
	Page       int
	PageSize   int
}

// Normalize parses raw GET parameters into a Query. Deterministic for
// identical parameters regardless of key order; duplicates collapse.
func Normalize(params url.Values, defaultPageSize int) Query {
	if defaultPageSize <= 0 {
		defaultPageSize = DefaultPageSize
	}
	q := Query{
		Search:     strings.TrimSpace(params.Get("search")),
		Categories: activeSet(params, "category", "categories", false),
		Brands:     activeSet(params, "brand", "brands", false),
		Tags:       activeSet(params, "tag", "tags", true),
		Sort:       sortKey(params.Get("sort")),
		Page:       intOr(params.Get("page"), 1),
		PageSize:   intOr(params.Get("page_size"), defaultPageSize),
	}
	q.MinPrice = priceOrNull(params.Get("min_price"))
	q.MaxPrice = priceOrNull(params.Get("max_price"))
	return q
}

// activeSet unions the three equivalent encodings of one dimension:
// repeated singular keys, comma-joined plural values, and repeated
// plural keys. No encoding takes precedence. Tag values are slugified;
// category/brand values are assumed slug-shaped already.
func activeSet(params url.Values, singular, plural string, slugify bool) SlugSet {
	set := SlugSet{}
	add := func(v string) {
		v = strings.TrimSpace(v)
		if v == "" {
			return
		}
		if slugify {
			v = slug.Make(v)
		}
		set[v] = struct{}{}
	}
	for _, v := range params[singular] {
		add(v)
	}
	for _, joined := range params[plural] {
		for _, v := range strings.Split(joined, ",") {
			add(v)
		}
	}
	return set
}

func sortKey(s string) string {
	if sortKeys[s] {
		return s
	}
	return DefaultSort
}

func intOr(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return def
	}
	return n
}

func priceOrNull(s string) decimal.NullDecimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}
