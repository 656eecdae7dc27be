package repos

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"shopcatalog/internal/domain"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

func (r *OrderRepo) Get(orderID string) (domain.Order, error) {
	var o domain.Order
	err := r.db.Get(&o, `SELECT id, code, status, created_at FROM orders WHERE id = ?`, orderID)
	return o, notFoundErr(err, "order %s", orderID)
}

func (r *OrderRepo) Items(orderID string) ([]domain.OrderItem, error) {
	out := []domain.OrderItem{}
	err := r.db.Select(&out, `
	  SELECT id, order_id, product_id, quantity, price
	  FROM order_items
	  WHERE order_id = ?
	  ORDER BY id`, orderID)
	return out, err
}

func (r *OrderRepo) Item(itemID string) (domain.OrderItem, error) {
	var it domain.OrderItem
	err := r.db.Get(&it, `SELECT id, order_id, product_id, quantity, price FROM order_items WHERE id = ?`, itemID)
	return it, notFoundErr(err, "order item %s", itemID)
}

func (r *OrderRepo) ListLatest(limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 100
	}
	out := []domain.Order{}
	err := r.db.Select(&out, `
	  SELECT id, code, status, created_at
	  FROM orders
	  ORDER BY datetime(created_at) DESC
	  LIMIT ?`, limit)
	return out, err
}

func (r *OrderRepo) Create(code string) (domain.Order, error) {
	o := domain.Order{ID: uuid.NewString(), Code: code, Status: domain.OrderNew}
	_, err := r.db.Exec(`INSERT INTO orders(id, code, status) VALUES(?, ?, ?)`, o.ID, o.Code, o.Status)
	return o, err
}

func (r *OrderRepo) UpdateStatus(orderID string, status domain.OrderStatus) error {
	res, err := r.db.Exec(`UPDATE orders SET status = ? WHERE id = ?`, status, orderID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("order %s: %w", orderID, domain.ErrNotFound)
	}
	return nil
}

// Each mutation below re-reads the order status inside its own
// transaction so the gate check and the write cannot be split by a
// concurrent status transition.

// AddItem inserts a new line item, snapshotting the product's current
// price. Legal only while the order is new.
func (r *OrderRepo) AddItem(orderID, productID string, quantity int) (domain.OrderItem, error) {
	var item domain.OrderItem
	err := r.inTx(func(tx *sqlx.Tx) error {
		status, err := orderStatusTx(tx, orderID)
		if err != nil {
			return err
		}
		if status != domain.OrderNew {
			return fmt.Errorf("addition only for new orders: %w", domain.ErrInvalidState)
		}
		var price decimal.Decimal
		if err := tx.Get(&price, `SELECT price FROM products WHERE id = ?`, productID); err != nil {
			return notFoundErr(err, "product %s", productID)
		}
		item = domain.OrderItem{
			ID:        uuid.NewString(),
			OrderID:   orderID,
			ProductID: productID,
			Quantity:  quantity,
			Price:     price,
		}
		_, err = tx.Exec(`INSERT INTO order_items(id, order_id, product_id, quantity, price) VALUES(?, ?, ?, ?, ?)`,
			item.ID, item.OrderID, item.ProductID, item.Quantity, item.Price)
		return err
	})
	return item, err
}

// UpdateItemQuantity changes a line item's quantity. Legal while the
// owning order is new or processing.
func (r *OrderRepo) UpdateItemQuantity(itemID string, quantity int) (domain.OrderItem, error) {
	var item domain.OrderItem
	err := r.inTx(func(tx *sqlx.Tx) error {
		if err := tx.Get(&item, `SELECT id, order_id, product_id, quantity, price FROM order_items WHERE id = ?`, itemID); err != nil {
			return notFoundErr(err, "order item %s", itemID)
		}
		status, err := orderStatusTx(tx, item.OrderID)
		if err != nil {
			return err
		}
		if !status.Editable() {
			return fmt.Errorf("modification forbidden for completed orders: %w", domain.ErrInvalidState)
		}
		if _, err := tx.Exec(`UPDATE order_items SET quantity = ? WHERE id = ?`, quantity, itemID); err != nil {
			return err
		}
		item.Quantity = quantity
		return nil
	})
	return item, err
}

// DeleteItem removes a line item under the same gate as updates.
func (r *OrderRepo) DeleteItem(itemID string) (domain.OrderItem, error) {
	var item domain.OrderItem
	err := r.inTx(func(tx *sqlx.Tx) error {
		if err := tx.Get(&item, `SELECT id, order_id, product_id, quantity, price FROM order_items WHERE id = ?`, itemID); err != nil {
			return notFoundErr(err, "order item %s", itemID)
		}
		status, err := orderStatusTx(tx, item.OrderID)
		if err != nil {
			return err
		}
		if !status.Editable() {
			return fmt.Errorf("deletion forbidden for completed orders: %w", domain.ErrInvalidState)
		}
		_, err = tx.Exec(`DELETE FROM order_items WHERE id = ?`, itemID)
		return err
	})
	return item, err
}

func orderStatusTx(tx *sqlx.Tx, orderID string) (domain.OrderStatus, error) {
	var status domain.OrderStatus
	if err := tx.Get(&status, `SELECT status FROM orders WHERE id = ?`, orderID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("order %s: %w", orderID, domain.ErrNotFound)
		}
		return "", err
	}
	return status, nil
}

func (r *OrderRepo) inTx(fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
