package handlers_test

import (
	"net/http"
	"testing"
)

const formType = "application/x-www-form-urlencoded"

func TestAdminOrderView(t *testing.T) {
	app, _ := newApp(t)

	body := decode(t, do(t, app, "GET", "/admin/orders", "", ""))
	if len(body["results"].([]any)) != 2 {
		t.Fatalf("orders: %v", body)
	}

	body = decode(t, do(t, app, "GET", "/admin/orders/ord-1", "", ""))
	if body["code"] != "ORD-1001" || body["status"] != "new" {
		t.Fatalf("order head: %v", body)
	}
	// oi-1 99990.00 x1 + oi-2 9990.00 x2
	if body["order_total"] != "119970.00" {
		t.Fatalf("order_total: %v", body["order_total"])
	}
	items := body["items"].([]any)
	if len(items) != 2 {
		t.Fatalf("items: %v", items)
	}
	first := items[0].(map[string]any)
	if first["item_sum"] != "99990.00" {
		t.Fatalf("item_sum: %v", first)
	}

	if resp := do(t, app, "GET", "/admin/orders/ord-404", "", ""); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("missing order: status %d", resp.StatusCode)
	}
}

func TestAdminUpdateOrderItem(t *testing.T) {
	app, _ := newApp(t)

	resp := do(t, app, "POST", "/admin/order-items/oi-2", "quantity=3", formType)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	body := decode(t, resp)
	if body["success"] != true || body["item_sum"] != "29970.00" || body["order_total"] != "129960.00" {
		t.Fatalf("totals echo: %v", body)
	}

	if resp := do(t, app, "POST", "/admin/order-items/oi-2", "quantity=oops", formType); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("non-numeric quantity: status %d", resp.StatusCode)
	}
	if resp := do(t, app, "POST", "/admin/order-items/oi-2", "quantity=0", formType); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("zero quantity: status %d", resp.StatusCode)
	}

	// ord-2 is completed; its line items are frozen
	resp = do(t, app, "POST", "/admin/order-items/oi-3", "quantity=2", formType)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("frozen item: status %d", resp.StatusCode)
	}
	if body := decode(t, resp); body["error"] != "invalid_state" {
		t.Fatalf("frozen item error code: %v", body)
	}
}

func TestAdminDeleteOrderItem(t *testing.T) {
	app, _ := newApp(t)

	if resp := do(t, app, "POST", "/admin/order-items/oi-3/delete", "", ""); resp.StatusCode != http.StatusForbidden {
		t.Fatalf("frozen delete: status %d", resp.StatusCode)
	}

	resp := do(t, app, "POST", "/admin/order-items/oi-2/delete", "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if body := decode(t, resp); body["success"] != true {
		t.Fatalf("delete echo: %v", body)
	}
	// next read recomputes the total without the deleted line
	body := decode(t, do(t, app, "GET", "/admin/orders/ord-1", "", ""))
	if body["order_total"] != "99990.00" {
		t.Fatalf("total after delete: %v", body["order_total"])
	}

	if resp := do(t, app, "POST", "/admin/order-items/oi-404/delete", "", ""); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("missing item: status %d", resp.StatusCode)
	}
}

func TestAdminAddOrderItem(t *testing.T) {
	app, _ := newApp(t)

	resp := do(t, app, "POST", "/admin/orders/ord-1/items", "product_id=p-macbook&quantity=1", formType)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	body := decode(t, resp)
	if len(body["items"].([]any)) != 3 {
		t.Fatalf("items after add: %v", body["items"])
	}
	if body["order_total"] != "269960.00" {
		t.Fatalf("order_total: %v", body["order_total"])
	}

	// quantity omitted defaults to 1
	resp = do(t, app, "POST", "/admin/orders/ord-1/items", "product_id=p-galaxy", formType)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("default quantity add: status %d", resp.StatusCode)
	}
	for _, raw := range decode(t, resp)["items"].([]any) {
		item := raw.(map[string]any)
		if item["product_id"] == "p-galaxy" && item["quantity"].(float64) != 1 {
			t.Fatalf("default quantity: %v", item)
		}
	}

	if resp := do(t, app, "POST", "/admin/orders/ord-1/items", "quantity=1", formType); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing product_id: status %d", resp.StatusCode)
	}
	if resp := do(t, app, "POST", "/admin/orders/ord-2/items", "product_id=p-macbook", formType); resp.StatusCode != http.StatusForbidden {
		t.Fatalf("completed order: status %d", resp.StatusCode)
	}
	if resp := do(t, app, "POST", "/admin/orders/ord-1/items", "product_id=p-404", formType); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("missing product: status %d", resp.StatusCode)
	}
}

func TestAdminOrderStatus(t *testing.T) {
	app, _ := newApp(t)

	resp := do(t, app, "POST", "/admin/orders/ord-1/status", "status=processing", formType)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	body := decode(t, do(t, app, "GET", "/admin/orders/ord-1", "", ""))
	if body["status"] != "processing" {
		t.Fatalf("status not persisted: %v", body["status"])
	}

	if resp := do(t, app, "POST", "/admin/orders/ord-1/status", "status=shipped", formType); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unknown status: status %d", resp.StatusCode)
	}
	if resp := do(t, app, "POST", "/admin/orders/ord-404/status", "status=new", formType); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("missing order: status %d", resp.StatusCode)
	}
}

func TestAdminDiscount(t *testing.T) {
	app, _ := newApp(t)

	resp := do(t, app, "POST", "/admin/products/p-iphone/discount", "discount=20", formType)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	body := decode(t, resp)
	if body["price"] != "79992.00" || body["old_price"] != "99990.00" {
		t.Fatalf("discounted prices: %v", body)
	}
	if body["has_discount"] != true || body["discount_percent"].(float64) != 20 {
		t.Fatalf("discount flags: %v", body)
	}

	// zero clears the old price and keeps the current price
	resp = do(t, app, "POST", "/admin/products/p-iphone/discount", "discount=0", formType)
	body = decode(t, resp)
	if body["old_price"] != nil || body["has_discount"] != false || body["price"] != "79992.00" {
		t.Fatalf("cleared discount: %v", body)
	}

	if resp := do(t, app, "POST", "/admin/products/p-iphone/discount", "discount=sale", formType); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("non-numeric discount: status %d", resp.StatusCode)
	}
	if resp := do(t, app, "POST", "/admin/products/p-iphone/discount", "discount=100", formType); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("out-of-range discount: status %d", resp.StatusCode)
	}
	if resp := do(t, app, "POST", "/admin/products/p-404/discount", "discount=10", formType); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("missing product: status %d", resp.StatusCode)
	}
}
