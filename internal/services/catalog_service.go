package services

import (
	"shopcatalog/internal/catalog"
	"shopcatalog/internal/domain"
	"shopcatalog/internal/repos"
)

// CatalogService is the facet engine: it resolves a normalized query
// into one page of products plus co-occurring facet counts for each
// filter dimension.
type CatalogService struct {
	Store *repos.CatalogRepo
}

func NewCatalogService(store *repos.CatalogRepo) *CatalogService {
	return &CatalogService{Store: store}
}

type FacetValue struct {
	Slug   string `json:"slug"`
	Name   string `json:"name"`
	Count  int    `json:"count"`
	Active bool   `json:"active"`
}

type Facets struct {
	Categories []FacetValue `json:"categories"`
	Brands     []FacetValue `json:"brands"`
	Tags       []FacetValue `json:"tags"`
}

type Listing struct {
	Items  []domain.Product
	Facets Facets
	Sort   string
	Page   int
	Pages  int
	Count  int
}

// Browse runs the full faceted query. The count shown for a candidate
// value of dimension D is computed over the base predicate plus every
// active filter except D's own, so a selection in D never narrows D's
// own counts.
func (s *CatalogService) Browse(q catalog.Query) (Listing, error) {
	base := basePreds(q)
	catPred, hasCat := dimPred(q.Categories, repos.CategoryIn)
	brandPred, hasBrand := dimPred(q.Brands, repos.BrandIn)
	tagPred, hasTag := dimPred(q.Tags, repos.TagIn)

	full := base
	if hasCat {
		full = append(full, catPred)
	}
	if hasBrand {
		full = append(full, brandPred)
	}
	if hasTag {
		full = append(full, tagPred)
	}

	count, err := s.Store.CountProducts(full)
	if err != nil {
		return Listing{}, err
	}
	page, pages, offset := Paginate(count, q.Page, q.PageSize)

	items, err := s.Store.SelectProducts(full, q.Sort, q.PageSize, offset)
	if err != nil {
		return Listing{}, err
	}

	// Facet counts: every dimension sees the others' filters, never its own.
	catRows, err := s.Store.CategoryCounts(withDims(base, brandPred, hasBrand, tagPred, hasTag))
	if err != nil {
		return Listing{}, err
	}
	brandRows, err := s.Store.BrandCounts(withDims(base, catPred, hasCat, tagPred, hasTag))
	if err != nil {
		return Listing{}, err
	}
	tagRows, err := s.Store.TagCounts(withDims(base, catPred, hasCat, brandPred, hasBrand))
	if err != nil {
		return Listing{}, err
	}

	return Listing{
		Items: items,
		Facets: Facets{
			Categories: facetValues(catRows, q.Categories),
			Brands:     facetValues(brandRows, q.Brands),
			Tags:       facetValues(tagRows, q.Tags),
		},
		Sort:  q.Sort,
		Page:  page,
		Pages: pages,
		Count: count,
	}, nil
}

// basePreds applies the published-available subset plus price range and
// free-text search; these always constrain facet counts too.
func basePreds(q catalog.Query) []repos.Pred {
	preds := []repos.Pred{repos.PublishedAvailable()}
	if q.MinPrice.Valid {
		preds = append(preds, repos.PriceAtLeast(q.MinPrice.Decimal))
	}
	if q.MaxPrice.Valid {
		preds = append(preds, repos.PriceAtMost(q.MaxPrice.Decimal))
	}
	if q.Search != "" {
		preds = append(preds, repos.TextSearch(q.Search))
	}
	return preds
}

func dimPred(set catalog.SlugSet, build func([]string) repos.Pred) (repos.Pred, bool) {
	if set.Empty() {
		return repos.Pred{}, false
	}
	return build(set.Values()), true
}

func withDims(base []repos.Pred, p1 repos.Pred, has1 bool, p2 repos.Pred, has2 bool) []repos.Pred {
	out := make([]repos.Pred, len(base), len(base)+2)
	copy(out, base)
	if has1 {
		out = append(out, p1)
	}
	if has2 {
		out = append(out, p2)
	}
	return out
}

func facetValues(rows []repos.FacetRow, active catalog.SlugSet) []FacetValue {
	out := make([]FacetValue, 0, len(rows))
	for _, row := range rows {
		if row.Count == 0 {
			continue
		}
		out = append(out, FacetValue{
			Slug:   row.Slug,
			Name:   row.Name,
			Count:  row.Count,
			Active: active.Has(row.Slug),
		})
	}
	return out
}

// Paginate clamps an out-of-range page to the last available page; it
// never errors and never produces an empty page from overflow.
func Paginate(count, page, pageSize int) (clampedPage, pages, offset int) {
	if pageSize < 1 {
		pageSize = catalog.DefaultPageSize
	}
	pages = (count + pageSize - 1) / pageSize
	if pages < 1 {
		pages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}
	return page, pages, (page - 1) * pageSize
}
