package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	applog "shopcatalog/internal/log"
	"shopcatalog/internal/services"
	"shopcatalog/internal/validate"
)

// AdminHandler is the back-office surface: order views, line-item
// mutations and discount edits. Auth sits in front of it externally.
type AdminHandler struct {
	Orders   *services.OrderService
	Products *services.ProductService
}

// GET /admin/orders
func (h *AdminHandler) OrdersPage(c *fiber.Ctx) error {
	orders, err := h.Orders.Orders.ListLatest(100)
	if err != nil {
		applog.Error(c, "admin.orders.list.fail", err, nil)
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"results": orders})
}

// GET /admin/orders/:id
func (h *AdminHandler) OrderView(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found"})
	}
	view, err := h.Orders.View(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(orderViewJSON(view))
}

// POST /admin/orders/:id/status
func (h *AdminHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found"})
	}
	status := strings.TrimSpace(c.FormValue("status"))
	if err := h.Orders.SetStatus(actor(c), id, status); err != nil {
		applog.Error(c, "admin.orders.status.fail", err, map[string]any{"order_id": id, "status": status})
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "status": status})
}

// POST /admin/orders/:id/items — add a line item to a new order.
func (h *AdminHandler) AddOrderItem(c *fiber.Ctx) error {
	orderID, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found"})
	}
	productID, ok := validate.ID(c.FormValue("product_id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation", "detail": "missing product_id"})
	}
	qty, err := formQuantity(c, 1)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation", "detail": "invalid quantity"})
	}

	view, err := h.Orders.AddItem(actor(c), orderID, productID, qty)
	if err != nil {
		applog.Security(c, "admin.order.item.add.fail", map[string]any{"order_id": orderID, "product_id": productID})
		return fail(c, err)
	}
	return c.JSON(orderViewJSON(view))
}

// POST /admin/order-items/:id — update quantity, echo recomputed sums.
func (h *AdminHandler) UpdateOrderItem(c *fiber.Ctx) error {
	itemID, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found"})
	}
	qty, err := strconv.Atoi(strings.TrimSpace(c.FormValue("quantity")))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation", "detail": "invalid quantity"})
	}

	totals, err := h.Orders.UpdateItemQuantity(actor(c), itemID, qty)
	if err != nil {
		applog.Security(c, "admin.order.item.update.fail", map[string]any{"item_id": itemID, "quantity": qty})
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success":     true,
		"item_sum":    totals.ItemSum.StringFixed(2),
		"order_total": totals.OrderTotal.StringFixed(2),
	})
}

// POST /admin/order-items/:id/delete
func (h *AdminHandler) DeleteOrderItem(c *fiber.Ctx) error {
	itemID, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found"})
	}
	if err := h.Orders.DeleteItem(actor(c), itemID); err != nil {
		applog.Security(c, "admin.order.item.delete.fail", map[string]any{"item_id": itemID})
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// POST /admin/products/:id/discount
func (h *AdminHandler) UpdateDiscount(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found"})
	}
	percent, err := decimal.NewFromString(strings.TrimSpace(c.FormValue("discount")))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation", "detail": "invalid discount"})
	}

	p, err := h.Products.SetDiscount(actor(c), id, percent)
	if err != nil {
		return fail(c, err)
	}
	resp := fiber.Map{
		"success":          true,
		"price":            p.Price.StringFixed(2),
		"has_discount":     p.HasDiscount(),
		"discount_percent": p.DiscountPercent().InexactFloat64(),
	}
	if p.OldPrice.Valid {
		resp["old_price"] = p.OldPrice.Decimal.StringFixed(2)
	} else {
		resp["old_price"] = nil
	}
	return c.JSON(resp)
}

func orderViewJSON(view services.OrderView) fiber.Map {
	items := make([]fiber.Map, len(view.Items))
	for i, it := range view.Items {
		items[i] = fiber.Map{
			"id":         it.ID,
			"product_id": it.ProductID,
			"quantity":   it.Quantity,
			"price":      it.Price.StringFixed(2),
			"item_sum":   it.Sum.StringFixed(2),
		}
	}
	return fiber.Map{
		"id":          view.Order.ID,
		"code":        view.Order.Code,
		"status":      view.Order.Status,
		"created_at":  view.Order.CreatedAt,
		"items":       items,
		"order_total": view.Total.StringFixed(2),
	}
}

// formQuantity treats an absent quantity as the default; a present but
// non-numeric one is an error.
func formQuantity(c *fiber.Ctx, def int) (int, error) {
	raw := strings.TrimSpace(c.FormValue("quantity"))
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
