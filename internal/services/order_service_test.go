package services_test

import (
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"shopcatalog/internal/domain"
	"shopcatalog/internal/repos"
	"shopcatalog/internal/services"
)

// auditSpy captures audit records instead of writing them to the log.
type auditSpy struct {
	actions []string
}

func (a *auditSpy) Record(actor, action, description string) {
	a.actions = append(a.actions, action)
}

func (a *auditSpy) saw(action string) bool {
	for _, got := range a.actions {
		if got == action {
			return true
		}
	}
	return false
}

func newOrderService(db *sqlx.DB) (*services.OrderService, *auditSpy) {
	spy := &auditSpy{}
	return services.NewOrderService(repos.NewOrderRepo(db), spy), spy
}

// insertProduct adds a minimal published product with a fixed price so
// totals come out exact.
func insertProduct(t *testing.T, db *sqlx.DB, id, price string) {
	t.Helper()
	_, err := db.Exec(`
	  INSERT INTO products(id, name, slug, description, price, quantity, category_id, brand_id)
	  VALUES(?, ?, ?, '', ?, 10, 'cat-accessories', 'br-logitech')`,
		id, "Test "+id, "test-"+id, price)
	if err != nil {
		t.Fatal(err)
	}
}

func TestOrderTotalRecomputes(t *testing.T) {
	db := memdb(t)
	svc, _ := newOrderService(db)
	insertProduct(t, db, "p-hundred", "100.00")
	insertProduct(t, db, "p-fifty", "50.00")

	order, err := svc.Orders.Create("T-100")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.AddItem("tester", order.ID, "p-hundred", 2); err != nil {
		t.Fatal(err)
	}
	view, err := svc.AddItem("tester", order.ID, "p-fifty", 1)
	if err != nil {
		t.Fatal(err)
	}
	if !view.Total.Equal(decimal.NewFromInt(250)) {
		t.Fatalf("want total 250, got %s", view.Total)
	}

	// deleting a line drops only its contribution
	var firstItem string
	for _, it := range view.Items {
		if it.ProductID == "p-hundred" {
			firstItem = it.ID
		}
	}
	if err := svc.DeleteItem("tester", firstItem); err != nil {
		t.Fatal(err)
	}
	view, err = svc.View(order.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !view.Total.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("want total 50 after delete, got %s", view.Total)
	}
}

func TestAddItemSnapshotsPrice(t *testing.T) {
	db := memdb(t)
	svc, _ := newOrderService(db)
	insertProduct(t, db, "p-snap", "100.00")

	order, err := svc.Orders.Create("T-101")
	if err != nil {
		t.Fatal(err)
	}
	view, err := svc.AddItem("tester", order.ID, "p-snap", 1)
	if err != nil {
		t.Fatal(err)
	}

	// a later catalog reprice must not touch the line item
	if _, err := db.Exec(`UPDATE products SET price = 999.00 WHERE id = 'p-snap'`); err != nil {
		t.Fatal(err)
	}
	view, err = svc.View(order.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !view.Items[0].Price.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("snapshot price changed: %s", view.Items[0].Price)
	}
	if !view.Total.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("total follows the snapshot, got %s", view.Total)
	}
}

func TestAddItemOnlyForNewOrders(t *testing.T) {
	db := memdb(t)
	svc, _ := newOrderService(db)

	for _, status := range []string{"processing", "completed", "cancelled"} {
		t.Run(status, func(t *testing.T) {
			order, err := svc.Orders.Create("T-ADD-" + status)
			if err != nil {
				t.Fatal(err)
			}
			if err := svc.SetStatus("tester", order.ID, status); err != nil {
				t.Fatal(err)
			}
			if _, err := svc.AddItem("tester", order.ID, "p-iphone", 1); !errors.Is(err, domain.ErrInvalidState) {
				t.Fatalf("want ErrInvalidState, got %v", err)
			}
		})
	}
}

func TestItemMutationGates(t *testing.T) {
	db := memdb(t)
	svc, _ := newOrderService(db)

	// seeded ord-2 is completed and owns oi-3
	if _, err := svc.UpdateItemQuantity("tester", "oi-3", 5); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("update on completed order: want ErrInvalidState, got %v", err)
	}
	if err := svc.DeleteItem("tester", "oi-3"); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("delete on completed order: want ErrInvalidState, got %v", err)
	}
	// the rejected mutation left the row alone
	item, err := svc.Orders.Item("oi-3")
	if err != nil {
		t.Fatal(err)
	}
	if item.Quantity != 1 {
		t.Fatalf("rejected update changed quantity to %d", item.Quantity)
	}

	// cancelled orders are gated the same way
	if err := svc.SetStatus("tester", "ord-2", "cancelled"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.UpdateItemQuantity("tester", "oi-3", 5); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("update on cancelled order: want ErrInvalidState, got %v", err)
	}
}

func TestItemMutationAllowedWhileProcessing(t *testing.T) {
	db := memdb(t)
	svc, spy := newOrderService(db)

	if err := svc.SetStatus("tester", "ord-1", "processing"); err != nil {
		t.Fatal(err)
	}
	// oi-2 is 2 x 9990.00 alongside oi-1 at 99990.00
	totals, err := svc.UpdateItemQuantity("tester", "oi-2", 3)
	if err != nil {
		t.Fatal(err)
	}
	if !totals.ItemSum.Equal(decimal.NewFromInt(29970)) {
		t.Fatalf("want item_sum 29970, got %s", totals.ItemSum)
	}
	if !totals.OrderTotal.Equal(decimal.NewFromInt(129960)) {
		t.Fatalf("want order_total 129960, got %s", totals.OrderTotal)
	}
	if err := svc.DeleteItem("tester", "oi-2"); err != nil {
		t.Fatalf("delete while processing: %v", err)
	}
	if !spy.saw("order.item.update") || !spy.saw("order.item.delete") {
		t.Fatalf("audit trail incomplete: %v", spy.actions)
	}
}

func TestUpdateItemQuantityValidation(t *testing.T) {
	db := memdb(t)
	svc, _ := newOrderService(db)

	for _, qty := range []int{0, -3} {
		if _, err := svc.UpdateItemQuantity("tester", "oi-1", qty); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("quantity %d: want ErrValidation, got %v", qty, err)
		}
	}
}

func TestAddItemQuantityDefaultsToOne(t *testing.T) {
	db := memdb(t)
	svc, spy := newOrderService(db)
	insertProduct(t, db, "p-one", "10.00")

	order, err := svc.Orders.Create("T-102")
	if err != nil {
		t.Fatal(err)
	}
	view, err := svc.AddItem("tester", order.ID, "p-one", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(view.Items) != 1 || view.Items[0].Quantity != 1 {
		t.Fatalf("want single item with quantity 1, got %+v", view.Items)
	}
	if !spy.saw("order.item.add") {
		t.Fatalf("audit trail missing add: %v", spy.actions)
	}
}

func TestOrderNotFoundAndMissingItems(t *testing.T) {
	db := memdb(t)
	svc, _ := newOrderService(db)

	if _, err := svc.View("nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("view: want ErrNotFound, got %v", err)
	}
	if _, err := svc.AddItem("tester", "nope", "p-iphone", 1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("add to missing order: want ErrNotFound, got %v", err)
	}
	if _, err := svc.AddItem("tester", "ord-1", "p-missing", 1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("add missing product: want ErrNotFound, got %v", err)
	}
	if _, err := svc.UpdateItemQuantity("tester", "oi-404", 2); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("update missing item: want ErrNotFound, got %v", err)
	}
	if err := svc.DeleteItem("tester", "oi-404"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("delete missing item: want ErrNotFound, got %v", err)
	}
}

func TestSetStatusValidatesEnum(t *testing.T) {
	db := memdb(t)
	svc, _ := newOrderService(db)

	if err := svc.SetStatus("tester", "ord-1", "shipped"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("want ErrValidation for unknown status, got %v", err)
	}
	if err := svc.SetStatus("tester", "ord-1", "completed"); err != nil {
		t.Fatal(err)
	}
	order, err := svc.Orders.Get("ord-1")
	if err != nil {
		t.Fatal(err)
	}
	if order.Status != domain.OrderCompleted {
		t.Fatalf("status not persisted: %s", order.Status)
	}
}
