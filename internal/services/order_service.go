package services

import (
	"fmt"

	"github.com/shopspring/decimal"

	"shopcatalog/internal/domain"
	"shopcatalog/internal/repos"
)

// OrderService gates and applies line-item mutations. Status gates are
// enforced inside the repo's transactions; this layer validates input,
// recomputes aggregates and emits audit records.
type OrderService struct {
	Orders *repos.OrderRepo
	Audit  domain.AuditLog
}

func NewOrderService(orders *repos.OrderRepo, audit domain.AuditLog) *OrderService {
	return &OrderService{Orders: orders, Audit: audit}
}

type ItemView struct {
	domain.OrderItem
	Sum decimal.Decimal `json:"item_sum"`
}

type OrderView struct {
	Order domain.Order    `json:"order"`
	Items []ItemView      `json:"items"`
	Total decimal.Decimal `json:"order_total"`
}

type ItemTotals struct {
	ItemSum    decimal.Decimal
	OrderTotal decimal.Decimal
}

func (s *OrderService) View(orderID string) (OrderView, error) {
	o, err := s.Orders.Get(orderID)
	if err != nil {
		return OrderView{}, err
	}
	items, err := s.Orders.Items(orderID)
	if err != nil {
		return OrderView{}, err
	}
	views := make([]ItemView, len(items))
	for i, it := range items {
		views[i] = ItemView{OrderItem: it, Sum: it.Sum()}
	}
	return OrderView{Order: o, Items: views, Total: domain.OrderTotal(items)}, nil
}

// AddItem appends a line item to a new order, snapshotting the current
// product price. An absent or sub-1 quantity defaults to 1.
func (s *OrderService) AddItem(actor, orderID, productID string, quantity int) (OrderView, error) {
	if quantity < 1 {
		quantity = 1
	}
	item, err := s.Orders.AddItem(orderID, productID, quantity)
	if err != nil {
		return OrderView{}, err
	}
	s.Audit.Record(actor, "order.item.add",
		fmt.Sprintf("order %s: added product %s x%d at %s", orderID, productID, quantity, item.Price.StringFixed(2)))
	return s.View(orderID)
}

func (s *OrderService) UpdateItemQuantity(actor, itemID string, quantity int) (ItemTotals, error) {
	if quantity < 1 {
		return ItemTotals{}, fmt.Errorf("quantity must be at least 1: %w", domain.ErrValidation)
	}
	before, err := s.Orders.Item(itemID)
	if err != nil {
		return ItemTotals{}, err
	}
	item, err := s.Orders.UpdateItemQuantity(itemID, quantity)
	if err != nil {
		return ItemTotals{}, err
	}
	items, err := s.Orders.Items(item.OrderID)
	if err != nil {
		return ItemTotals{}, err
	}
	s.Audit.Record(actor, "order.item.update",
		fmt.Sprintf("order %s: item %s quantity %d -> %d", item.OrderID, itemID, before.Quantity, quantity))
	return ItemTotals{ItemSum: item.Sum(), OrderTotal: domain.OrderTotal(items)}, nil
}

// DeleteItem removes the line item; totals are recomputed by the next
// reader rather than stored.
func (s *OrderService) DeleteItem(actor, itemID string) error {
	item, err := s.Orders.DeleteItem(itemID)
	if err != nil {
		return err
	}
	s.Audit.Record(actor, "order.item.delete",
		fmt.Sprintf("order %s: removed item %s (product %s x%d)", item.OrderID, itemID, item.ProductID, item.Quantity))
	return nil
}

// SetStatus records an externally-driven status transition. The core
// only checks enum membership; the transition flow lives outside.
func (s *OrderService) SetStatus(actor, orderID, status string) error {
	if !domain.ValidOrderStatus(status) {
		return fmt.Errorf("unknown order status %q: %w", status, domain.ErrValidation)
	}
	if err := s.Orders.UpdateStatus(orderID, domain.OrderStatus(status)); err != nil {
		return err
	}
	s.Audit.Record(actor, "order.status", fmt.Sprintf("order %s: status set to %s", orderID, status))
	return nil
}
