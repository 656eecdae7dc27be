package repos

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Pred is one independently toggle-able filter condition: a SQL
// fragment over the aliased product join (p=products, c=categories,
// b=brands) plus its bind args. Predicates combine conjunctively, so a
// caller can re-run the same query with one dimension's predicate left
// out. This is the composable query primitive the facet engine builds on.
type Pred struct {
	SQL  string
	Args []any
}

// where renders a conjunctive WHERE clause; with no predicates it
// matches everything.
func where(preds []Pred) (string, []any) {
	if len(preds) == 0 {
		return "1=1", nil
	}
	frags := make([]string, len(preds))
	var args []any
	for i, p := range preds {
		frags[i] = p.SQL
		args = append(args, p.Args...)
	}
	return strings.Join(frags, " AND "), args
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// PublishedAvailable is the base predicate every listing and facet
// count starts from.
func PublishedAvailable() Pred {
	return Pred{SQL: "p.status = 1 AND p.is_available = 1"}
}

// Price bounds are inclusive. Bound values go through float64 so the
// comparison stays numeric under SQLite's NUMERIC affinity.
func PriceAtLeast(d decimal.Decimal) Pred {
	return Pred{SQL: "p.price >= ?", Args: []any{d.InexactFloat64()}}
}

func PriceAtMost(d decimal.Decimal) Pred {
	return Pred{SQL: "p.price <= ?", Args: []any{d.InexactFloat64()}}
}

// TextSearch matches a case-insensitive substring against product name,
// description, brand name or category name (OR across fields).
func TextSearch(q string) Pred {
	needle := "%" + strings.ToLower(q) + "%"
	return Pred{
		SQL:  "(LOWER(p.name) LIKE ? OR LOWER(p.description) LIKE ? OR LOWER(b.name) LIKE ? OR LOWER(c.name) LIKE ?)",
		Args: []any{needle, needle, needle, needle},
	}
}

func CategoryIn(slugs []string) Pred {
	p := Pred{SQL: "c.slug IN (" + placeholders(len(slugs)) + ")"}
	for _, s := range slugs {
		p.Args = append(p.Args, s)
	}
	return p
}

func BrandIn(slugs []string) Pred {
	p := Pred{SQL: "b.slug IN (" + placeholders(len(slugs)) + ")"}
	for _, s := range slugs {
		p.Args = append(p.Args, s)
	}
	return p
}

// TagIn uses EXISTS semantics against the many-to-many: a product
// carrying any requested tag matches, with no duplicate rows to
// collapse afterwards.
func TagIn(slugs []string) Pred {
	p := Pred{SQL: "EXISTS (SELECT 1 FROM product_tags pt JOIN tags t ON t.id = pt.tag_id WHERE pt.product_id = p.id AND t.slug IN (" + placeholders(len(slugs)) + "))"}
	for _, s := range slugs {
		p.Args = append(p.Args, s)
	}
	return p
}
