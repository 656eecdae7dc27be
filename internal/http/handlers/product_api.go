package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"shopcatalog/internal/catalog"
	applog "shopcatalog/internal/log"
	"shopcatalog/internal/services"
	"shopcatalog/internal/validate"
)

// ProductAPIHandler is the JSON product API. Routes are registered with
// All() so unsupported verbs answer 405 rather than 404.
type ProductAPIHandler struct {
	Products *services.ProductService
	PageSize int
}

// Collection handles GET (paginated list) and POST (create) on
// /api/products/.
func (h *ProductAPIHandler) Collection(c *fiber.Ctx) error {
	switch c.Method() {
	case fiber.MethodGet:
		return h.list(c)
	case fiber.MethodPost:
		return h.create(c)
	default:
		return methodNotAllowed(c)
	}
}

func (h *ProductAPIHandler) list(c *fiber.Ctx) error {
	// Page numbers parse defensively, same policy as the catalog page.
	q := catalog.Normalize(queryValues(c), h.PageSize)
	items, page, pages, count, err := h.Products.ListPage(q.Page, q.PageSize)
	if err != nil {
		return fail(c, err)
	}
	results := make([]fiber.Map, len(items))
	for i, p := range items {
		results[i] = productJSON(p)
	}
	return c.JSON(fiber.Map{
		"results": results,
		"page":    page,
		"pages":   pages,
		"count":   count,
	})
}

func (h *ProductAPIHandler) create(c *fiber.Ctx) error {
	var payload struct {
		Name         string `json:"name"`
		Description  string `json:"description"`
		Price        any    `json:"price"`
		CategorySlug string `json:"category_slug"`
		BrandSlug    string `json:"brand_slug"`
	}
	if err := json.Unmarshal(c.Body(), &payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_json"})
	}
	if payload.Name == "" || payload.Price == nil || payload.CategorySlug == "" || payload.BrandSlug == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing_fields"})
	}
	price, ok := parsePrice(payload.Price)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_price"})
	}

	p, err := h.Products.Create(services.CreateProductInput{
		Name:         payload.Name,
		Description:  payload.Description,
		Price:        price,
		CategorySlug: payload.CategorySlug,
		BrandSlug:    payload.BrandSlug,
	})
	if err != nil {
		applog.Security(c, "product.create.fail", map[string]any{"name": payload.Name})
		return fail(c, err)
	}
	applog.Info(c, "product.create", map[string]any{"id": p.ID, "slug": p.Slug})
	return c.Status(fiber.StatusCreated).JSON(productJSON(p))
}

// Item handles GET/PUT/DELETE on /api/products/:id/.
func (h *ProductAPIHandler) Item(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found"})
	}
	switch c.Method() {
	case fiber.MethodGet:
		p, err := h.Products.Store.ProductByID(id)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(productJSON(p))
	case fiber.MethodPut:
		return h.update(c, id)
	case fiber.MethodDelete:
		if err := h.Products.Delete(id); err != nil {
			return fail(c, err)
		}
		applog.Info(c, "product.delete", map[string]any{"id": id})
		return c.JSON(fiber.Map{"status": "deleted"})
	default:
		return methodNotAllowed(c)
	}
}

func (h *ProductAPIHandler) update(c *fiber.Ctx, id string) error {
	var payload struct {
		Name         *string `json:"name"`
		Description  *string `json:"description"`
		Price        any     `json:"price"`
		CategorySlug *string `json:"category_slug"`
		BrandSlug    *string `json:"brand_slug"`
	}
	if err := json.Unmarshal(c.Body(), &payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_json"})
	}
	in := services.UpdateProductInput{
		Name:         payload.Name,
		Description:  payload.Description,
		CategorySlug: payload.CategorySlug,
		BrandSlug:    payload.BrandSlug,
	}
	if payload.Price != nil {
		price, ok := parsePrice(payload.Price)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_price"})
		}
		in.Price = &price
	}
	p, err := h.Products.Update(id, in)
	if err != nil {
		return fail(c, err)
	}
	applog.Info(c, "product.update", map[string]any{"id": id})
	return c.JSON(productJSON(p))
}

func methodNotAllowed(c *fiber.Ctx) error {
	return c.Status(fiber.StatusMethodNotAllowed).JSON(fiber.Map{"error": "method_not_allowed"})
}

// parsePrice accepts a JSON number or a decimal string.
func parsePrice(v any) (decimal.Decimal, bool) {
	switch x := v.(type) {
	case float64:
		return decimal.NewFromFloat(x), true
	case string:
		d, err := decimal.NewFromString(x)
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	default:
		return decimal.Zero, false
	}
}
