package handlers

import (
	"github.com/gofiber/fiber/v2"

	"shopcatalog/internal/catalog"
	"shopcatalog/internal/domain"
	applog "shopcatalog/internal/log"
	"shopcatalog/internal/services"
)

type CatalogHandler struct {
	Catalog  *services.CatalogService
	PageSize int
}

// Browse is the faceted listing endpoint: filters, search, sort and
// pagination all arrive as GET parameters and are normalized before the
// facet engine runs.
func (h *CatalogHandler) Browse(c *fiber.Ctx) error {
	q := catalog.Normalize(queryValues(c), h.PageSize)
	listing, err := h.Catalog.Browse(q)
	if err != nil {
		applog.Error(c, "catalog.browse", err, nil)
		return fail(c, err)
	}

	results := make([]fiber.Map, len(listing.Items))
	for i, p := range listing.Items {
		results[i] = productJSON(p)
	}
	return c.JSON(fiber.Map{
		"results": results,
		"facets":  listing.Facets,
		"active": fiber.Map{
			"categories": q.Categories.Values(),
			"brands":     q.Brands.Values(),
			"tags":       q.Tags.Values(),
		},
		"sort":  listing.Sort,
		"page":  listing.Page,
		"pages": listing.Pages,
		"count": listing.Count,
	})
}

func productJSON(p domain.Product) fiber.Map {
	m := fiber.Map{
		"id":           p.ID,
		"name":         p.Name,
		"slug":         p.Slug,
		"description":  p.Description,
		"price":        p.Price.StringFixed(2),
		"quantity":     p.Quantity,
		"category":     p.CategoryName,
		"brand":        p.BrandName,
		"is_available": p.IsAvailable,
		"has_discount": p.HasDiscount(),
		"created_at":   p.CreatedAt,
	}
	if p.OldPrice.Valid {
		m["old_price"] = p.OldPrice.Decimal.StringFixed(2)
	} else {
		m["old_price"] = nil
	}
	if p.HasDiscount() {
		m["discount_percent"] = p.DiscountPercent().InexactFloat64()
	}
	if p.Image != "" {
		m["image"] = p.Image
	}
	return m
}
