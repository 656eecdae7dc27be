package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "shopcatalog/internal/log"
	"shopcatalog/internal/repos"
	"shopcatalog/internal/validate"
)

// TaxonomyHandler serves the category/brand/tag reference lists and the
// protect-on-delete removals.
type TaxonomyHandler struct {
	Store *repos.CatalogRepo
}

func (h *TaxonomyHandler) Categories(c *fiber.Ctx) error {
	out, err := h.Store.ListCategories()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"results": out})
}

func (h *TaxonomyHandler) Brands(c *fiber.Ctx) error {
	out, err := h.Store.ListBrands()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"results": out})
}

func (h *TaxonomyHandler) Tags(c *fiber.Ctx) error {
	out, err := h.Store.ListTags()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"results": out})
}

// DeleteCategory refuses (409) while products still reference the
// category.
func (h *TaxonomyHandler) DeleteCategory(c *fiber.Ctx) error {
	slug, ok := validate.Slug(c.Params("slug"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found"})
	}
	if err := h.Store.DeleteCategory(slug); err != nil {
		applog.Security(c, "taxonomy.category.delete.fail", map[string]any{"slug": slug})
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "deleted"})
}

func (h *TaxonomyHandler) DeleteBrand(c *fiber.Ctx) error {
	slug, ok := validate.Slug(c.Params("slug"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found"})
	}
	if err := h.Store.DeleteBrand(slug); err != nil {
		applog.Security(c, "taxonomy.brand.delete.fail", map[string]any{"slug": slug})
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "deleted"})
}
