package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"

	"shopcatalog/internal/domain"
	"shopcatalog/internal/repos"
)

// ProductService backs the JSON product API and the back-office price
// and discount edits.
type ProductService struct {
	Store *repos.CatalogRepo
	Audit domain.AuditLog
}

func NewProductService(store *repos.CatalogRepo, audit domain.AuditLog) *ProductService {
	return &ProductService{Store: store, Audit: audit}
}

// ListPage returns one page of the published-available subset.
func (s *ProductService) ListPage(page, pageSize int) ([]domain.Product, int, int, int, error) {
	preds := []repos.Pred{repos.PublishedAvailable()}
	count, err := s.Store.CountProducts(preds)
	if err != nil {
		return nil, 0, 0, 0, err
	}
	page, pages, offset := Paginate(count, page, pageSize)
	items, err := s.Store.SelectProducts(preds, "-created", pageSize, offset)
	if err != nil {
		return nil, 0, 0, 0, err
	}
	return items, page, pages, count, nil
}

type CreateProductInput struct {
	Name         string
	Description  string
	Price        decimal.Decimal
	CategorySlug string
	BrandSlug    string
}

func (s *ProductService) Create(in CreateProductInput) (domain.Product, error) {
	if in.Name == "" {
		return domain.Product{}, fmt.Errorf("name required: %w", domain.ErrValidation)
	}
	if in.Price.LessThanOrEqual(decimal.Zero) {
		return domain.Product{}, fmt.Errorf("price must be positive: %w", domain.ErrValidation)
	}
	cat, err := s.Store.CategoryBySlug(in.CategorySlug)
	if err != nil {
		return domain.Product{}, fmt.Errorf("category %q: %w", in.CategorySlug, domain.ErrValidation)
	}
	brand, err := s.Store.BrandBySlug(in.BrandSlug)
	if err != nil {
		return domain.Product{}, fmt.Errorf("brand %q: %w", in.BrandSlug, domain.ErrValidation)
	}

	productSlug := slug.Make(in.Name)
	if _, err := s.Store.ProductBySlug(productSlug); err == nil {
		return domain.Product{}, fmt.Errorf("slug %q already taken: %w", productSlug, domain.ErrValidation)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.Product{}, err
	}

	p := domain.Product{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Slug:        productSlug,
		Description: in.Description,
		Price:       in.Price,
		CategoryID:  cat.ID,
		BrandID:     brand.ID,
		IsAvailable: true,
		Status:      domain.StatusPublished,
		ProductType: domain.TypePhysical,
	}
	if err := s.Store.InsertProduct(p); err != nil {
		return domain.Product{}, err
	}
	return s.Store.ProductByID(p.ID)
}

// UpdateProductInput carries a partial update; nil fields are left as
// they are.
type UpdateProductInput struct {
	Name         *string
	Description  *string
	Price        *decimal.Decimal
	CategorySlug *string
	BrandSlug    *string
}

func (s *ProductService) Update(id string, in UpdateProductInput) (domain.Product, error) {
	p, err := s.Store.ProductByID(id)
	if err != nil {
		return domain.Product{}, err
	}
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Price != nil {
		if in.Price.LessThanOrEqual(decimal.Zero) {
			return domain.Product{}, fmt.Errorf("price must be positive: %w", domain.ErrValidation)
		}
		p.Price = *in.Price
	}
	if in.CategorySlug != nil {
		cat, err := s.Store.CategoryBySlug(*in.CategorySlug)
		if err != nil {
			return domain.Product{}, fmt.Errorf("category %q: %w", *in.CategorySlug, domain.ErrValidation)
		}
		p.CategoryID = cat.ID
	}
	if in.BrandSlug != nil {
		brand, err := s.Store.BrandBySlug(*in.BrandSlug)
		if err != nil {
			return domain.Product{}, fmt.Errorf("brand %q: %w", *in.BrandSlug, domain.ErrValidation)
		}
		p.BrandID = brand.ID
	}
	if err := s.Store.UpdateProduct(p); err != nil {
		return domain.Product{}, err
	}
	return s.Store.ProductByID(id)
}

func (s *ProductService) Delete(id string) error {
	return s.Store.DeleteProduct(id)
}

// SetDiscount applies the canonical discount rule: zero always clears
// the old price and leaves the price alone; a positive percentage
// snapshots the old price from the current price when absent, then
// reprices to old_price * (100-d)/100 rounded to 2dp.
func (s *ProductService) SetDiscount(actor, id string, percent decimal.Decimal) (domain.Product, error) {
	if percent.IsNegative() || percent.GreaterThanOrEqual(decimal.NewFromInt(100)) {
		return domain.Product{}, fmt.Errorf("discount must be in [0,100): %w", domain.ErrValidation)
	}
	p, err := s.Store.ProductByID(id)
	if err != nil {
		return domain.Product{}, err
	}
	if percent.IsZero() {
		p.OldPrice = decimal.NullDecimal{}
	} else {
		if !p.OldPrice.Valid {
			p.OldPrice = decimal.NullDecimal{Decimal: p.Price, Valid: true}
		}
		hundred := decimal.NewFromInt(100)
		p.Price = p.OldPrice.Decimal.Mul(hundred.Sub(percent)).Div(hundred).Round(2)
	}
	if err := s.Store.UpdateProduct(p); err != nil {
		return domain.Product{}, err
	}
	s.Audit.Record(actor, "product.discount",
		fmt.Sprintf("product %s: discount set to %s%%", id, percent.String()))
	return s.Store.ProductByID(id)
}
