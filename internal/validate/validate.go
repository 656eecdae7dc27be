package validate

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	reSlug = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	reID   = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	reName = regexp.MustCompile(`^[A-Za-z0-9 -]+$`)
)

// ID validates a simple resource identifier (product/order/item ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Slug validates an already slug-shaped identifier.
func Slug(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 100 {
		return "", false
	}
	return s, reSlug.MatchString(s)
}

// Name validates a displayable name: non-empty, letters/digits/space/hyphen.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 200 {
		return "", false
	}
	return s, reName.MatchString(s)
}

// Price parses a positive decimal amount.
func Price(s string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || d.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, false
	}
	return d, true
}

// Quantity requires an integer >= 1. Zero or negative is a validation
// failure, never an implicit delete.
func Quantity(n int) bool { return n >= 1 }
