package domain

import "github.com/shopspring/decimal"

type Category struct {
	ID          string `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Slug        string `db:"slug" json:"slug"`
	Description string `db:"description" json:"description"`
}

type Brand struct {
	ID          string `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Slug        string `db:"slug" json:"slug"`
	Description string `db:"description" json:"description"`
}

type Tag struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
	Slug string `db:"slug" json:"slug"`
}

type ProductStatus int

const (
	StatusDraft     ProductStatus = 0
	StatusPublished ProductStatus = 1
)

// Product types stored as plain strings.
const (
	TypePhysical = "physical"
	TypeDigital  = "digital"
	TypeService  = "service"
)

func ValidProductType(t string) bool {
	return t == TypePhysical || t == TypeDigital || t == TypeService
}

type Product struct {
	ID          string              `db:"id" json:"id"`
	Name        string              `db:"name" json:"name"`
	Slug        string              `db:"slug" json:"slug"`
	Description string              `db:"description" json:"description"`
	Price       decimal.Decimal     `db:"price" json:"price"`
	OldPrice    decimal.NullDecimal `db:"old_price" json:"old_price"`
	Quantity    int                 `db:"quantity" json:"quantity"`
	CategoryID  string              `db:"category_id" json:"category_id"`
	BrandID     string              `db:"brand_id" json:"brand_id"`
	IsAvailable bool                `db:"is_available" json:"is_available"`
	Status      ProductStatus       `db:"status" json:"status"`
	ProductType string              `db:"product_type" json:"product_type"`
	Image       string              `db:"image" json:"image,omitempty"`
	CreatedAt   string              `db:"created_at" json:"created_at"`
	UpdatedAt   string              `db:"updated_at" json:"updated_at"`

	// Joined display names, populated on reads only.
	CategoryName string `db:"category_name" json:"category,omitempty"`
	BrandName    string `db:"brand_name" json:"brand,omitempty"`
}

// HasDiscount holds iff an old price is recorded and it exceeds the
// current price.
func (p Product) HasDiscount() bool {
	return p.OldPrice.Valid && p.OldPrice.Decimal.GreaterThan(p.Price)
}

// DiscountPercent returns (old - price) * 100 / old rounded to 2dp,
// or zero when there is no discount.
func (p Product) DiscountPercent() decimal.Decimal {
	if !p.HasDiscount() {
		return decimal.Zero
	}
	old := p.OldPrice.Decimal
	return old.Sub(p.Price).Mul(decimal.NewFromInt(100)).Div(old).Round(2)
}

type OrderStatus string

const (
	OrderNew        OrderStatus = "new"
	OrderProcessing OrderStatus = "processing"
	OrderCompleted  OrderStatus = "completed"
	OrderCancelled  OrderStatus = "cancelled"
)

func ValidOrderStatus(s string) bool {
	switch OrderStatus(s) {
	case OrderNew, OrderProcessing, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

// Editable reports whether line items of an order in this status may
// still be modified or removed. Brand-new additions are stricter and
// require OrderNew.
func (s OrderStatus) Editable() bool {
	return s == OrderNew || s == OrderProcessing
}

type Order struct {
	ID        string      `db:"id" json:"id"`
	Code      string      `db:"code" json:"code"`
	Status    OrderStatus `db:"status" json:"status"`
	CreatedAt string      `db:"created_at" json:"created_at"`
}

type OrderItem struct {
	ID        string          `db:"id" json:"id"`
	OrderID   string          `db:"order_id" json:"order_id"`
	ProductID string          `db:"product_id" json:"product_id"`
	Quantity  int             `db:"quantity" json:"quantity"`
	Price     decimal.Decimal `db:"price" json:"price"` // snapshotted at add time
}

// Sum is price x quantity, computed on demand and never stored.
func (it OrderItem) Sum() decimal.Decimal {
	return it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// OrderTotal sums the item sums. Exact decimal arithmetic; rounding is
// a display concern only.
func OrderTotal(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Sum())
	}
	return total
}
