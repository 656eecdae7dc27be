package repos

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"shopcatalog/internal/domain"
)

// productJoin is the FROM clause every product query shares; brand and
// category are always joined so search and facet predicates can reach
// their names.
const productJoin = `
  FROM products p
  JOIN categories c ON c.id = p.category_id
  JOIN brands b     ON b.id = p.brand_id`

const productCols = `
  p.id, p.name, p.slug, p.description, p.price, p.old_price, p.quantity,
  p.category_id, p.brand_id, p.is_available, p.status, p.product_type,
  p.image, p.created_at, p.updated_at,
  c.name AS category_name, b.name AS brand_name`

type CatalogRepo struct{ db *sqlx.DB }

func NewCatalogRepo(db *sqlx.DB) *CatalogRepo { return &CatalogRepo{db: db} }

// FacetRow is one candidate value of a filter dimension with its
// co-occurrence count.
type FacetRow struct {
	Slug  string `db:"slug"`
	Name  string `db:"name"`
	Count int    `db:"count"`
}

func (r *CatalogRepo) CountProducts(preds []Pred) (int, error) {
	w, args := where(preds)
	var n int
	err := r.db.Get(&n, `SELECT COUNT(DISTINCT p.id)`+productJoin+` WHERE `+w, args...)
	return n, err
}

// SelectProducts returns one page ordered by the validated sort key,
// ties broken by id (insertion order).
func (r *CatalogRepo) SelectProducts(preds []Pred, sortKey string, limit, offset int) ([]domain.Product, error) {
	w, args := where(preds)
	q := `SELECT` + productCols + productJoin + ` WHERE ` + w +
		` ORDER BY ` + orderClause(sortKey) + ` LIMIT ? OFFSET ?`
	args = append(args, limit, offset)
	out := []domain.Product{}
	err := r.db.Select(&out, q, args...)
	return out, err
}

func orderClause(sortKey string) string {
	switch sortKey {
	case "price":
		return "p.price ASC, p.id"
	case "-price":
		return "p.price DESC, p.id"
	case "name":
		return "p.name ASC, p.id"
	case "-name":
		return "p.name DESC, p.id"
	default: // -created
		return "p.created_at DESC, p.id"
	}
}

func (r *CatalogRepo) CategoryCounts(preds []Pred) ([]FacetRow, error) {
	w, args := where(preds)
	out := []FacetRow{}
	err := r.db.Select(&out, `
	  SELECT c.slug AS slug, c.name AS name, COUNT(DISTINCT p.id) AS count`+productJoin+`
	  WHERE `+w+`
	  GROUP BY c.slug, c.name
	  ORDER BY c.name`, args...)
	return out, err
}

func (r *CatalogRepo) BrandCounts(preds []Pred) ([]FacetRow, error) {
	w, args := where(preds)
	out := []FacetRow{}
	err := r.db.Select(&out, `
	  SELECT b.slug AS slug, b.name AS name, COUNT(DISTINCT p.id) AS count`+productJoin+`
	  WHERE `+w+`
	  GROUP BY b.slug, b.name
	  ORDER BY b.name`, args...)
	return out, err
}

func (r *CatalogRepo) TagCounts(preds []Pred) ([]FacetRow, error) {
	w, args := where(preds)
	out := []FacetRow{}
	err := r.db.Select(&out, `
	  SELECT t.slug AS slug, t.name AS name, COUNT(DISTINCT p.id) AS count`+productJoin+`
	  JOIN product_tags pt ON pt.product_id = p.id
	  JOIN tags t          ON t.id = pt.tag_id
	  WHERE `+w+`
	  GROUP BY t.slug, t.name
	  ORDER BY t.name`, args...)
	return out, err
}

// ---------- Lookups ----------

func (r *CatalogRepo) ProductByID(id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT`+productCols+productJoin+` WHERE p.id = ?`, id)
	return p, notFoundErr(err, "product %s", id)
}

func (r *CatalogRepo) ProductBySlug(slug string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT`+productCols+productJoin+` WHERE p.slug = ?`, slug)
	return p, notFoundErr(err, "product %s", slug)
}

func (r *CatalogRepo) CategoryBySlug(slug string) (domain.Category, error) {
	var c domain.Category
	err := r.db.Get(&c, `SELECT id, name, slug, description FROM categories WHERE slug = ?`, slug)
	return c, notFoundErr(err, "category %s", slug)
}

func (r *CatalogRepo) BrandBySlug(slug string) (domain.Brand, error) {
	var b domain.Brand
	err := r.db.Get(&b, `SELECT id, name, slug, description FROM brands WHERE slug = ?`, slug)
	return b, notFoundErr(err, "brand %s", slug)
}

func (r *CatalogRepo) TagBySlug(slug string) (domain.Tag, error) {
	var t domain.Tag
	err := r.db.Get(&t, `SELECT id, name, slug FROM tags WHERE slug = ?`, slug)
	return t, notFoundErr(err, "tag %s", slug)
}

func (r *CatalogRepo) ListCategories() ([]domain.Category, error) {
	out := []domain.Category{}
	err := r.db.Select(&out, `SELECT id, name, slug, description FROM categories ORDER BY name`)
	return out, err
}

func (r *CatalogRepo) ListBrands() ([]domain.Brand, error) {
	out := []domain.Brand{}
	err := r.db.Select(&out, `SELECT id, name, slug, description FROM brands ORDER BY name`)
	return out, err
}

func (r *CatalogRepo) ListTags() ([]domain.Tag, error) {
	out := []domain.Tag{}
	err := r.db.Select(&out, `SELECT id, name, slug FROM tags ORDER BY name`)
	return out, err
}

func (r *CatalogRepo) ProductTags(productID string) ([]domain.Tag, error) {
	out := []domain.Tag{}
	err := r.db.Select(&out, `
	  SELECT t.id, t.name, t.slug
	  FROM product_tags pt
	  JOIN tags t ON t.id = pt.tag_id
	  WHERE pt.product_id = ?
	  ORDER BY t.name`, productID)
	return out, err
}

// ---------- Mutations ----------

func (r *CatalogRepo) InsertProduct(p domain.Product) error {
	_, err := r.db.NamedExec(`
	  INSERT INTO products(id, name, slug, description, price, old_price, quantity,
	    category_id, brand_id, is_available, status, product_type, image, created_at, updated_at)
	  VALUES(:id, :name, :slug, :description, :price, :old_price, :quantity,
	    :category_id, :brand_id, :is_available, :status, :product_type, :image,
	    CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`, p)
	return err
}

func (r *CatalogRepo) UpdateProduct(p domain.Product) error {
	res, err := r.db.NamedExec(`
	  UPDATE products SET
	    name = :name, description = :description, price = :price, old_price = :old_price,
	    quantity = :quantity, category_id = :category_id, brand_id = :brand_id,
	    is_available = :is_available, status = :status, product_type = :product_type,
	    image = :image, updated_at = CURRENT_TIMESTAMP
	  WHERE id = :id`, p)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("product %s: %w", p.ID, domain.ErrNotFound)
	}
	return nil
}

// DeleteProduct hard-deletes unless the product is referenced by order
// items (FK RESTRICT), which surfaces as ErrProtected.
func (r *CatalogRepo) DeleteProduct(id string) error {
	res, err := r.db.Exec(`DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return protectedErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *CatalogRepo) DeleteCategory(slug string) error {
	res, err := r.db.Exec(`DELETE FROM categories WHERE slug = ?`, slug)
	if err != nil {
		return protectedErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("category %s: %w", slug, domain.ErrNotFound)
	}
	return nil
}

func (r *CatalogRepo) DeleteBrand(slug string) error {
	res, err := r.db.Exec(`DELETE FROM brands WHERE slug = ?`, slug)
	if err != nil {
		return protectedErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("brand %s: %w", slug, domain.ErrNotFound)
	}
	return nil
}

func notFoundErr(err error, format string, args ...any) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf(format+": %w", append(args, domain.ErrNotFound)...)
	}
	return err
}

func protectedErr(err error) error {
	if err != nil && strings.Contains(err.Error(), "constraint") {
		return fmt.Errorf("%v: %w", err, domain.ErrProtected)
	}
	return err
}
