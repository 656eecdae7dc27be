package repos

import (
	"log"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if dsn == ":memory:" {
		// each sqlite connection gets its own in-memory database
		db.SetMaxOpenConns(1)
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed baseline catalog data if the DB is empty
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Categories
CREATE TABLE IF NOT EXISTS categories(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  slug TEXT NOT NULL UNIQUE,
  description TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_categories_slug ON categories(slug);

-- Brands
CREATE TABLE IF NOT EXISTS brands(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  slug TEXT NOT NULL UNIQUE,
  description TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_brands_slug ON brands(slug);

-- Tags
CREATE TABLE IF NOT EXISTS tags(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  slug TEXT NOT NULL UNIQUE
);

-- Products
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  slug TEXT NOT NULL UNIQUE,
  description TEXT NOT NULL DEFAULT '',
  price NUMERIC NOT NULL CHECK (price >= 0),
  old_price NUMERIC,
  quantity INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0),
  category_id TEXT NOT NULL REFERENCES categories(id) ON DELETE RESTRICT,
  brand_id TEXT NOT NULL REFERENCES brands(id) ON DELETE RESTRICT,
  is_available INTEGER NOT NULL DEFAULT 1,
  status INTEGER NOT NULL DEFAULT 1 CHECK (status IN (0,1)),
  product_type TEXT NOT NULL DEFAULT 'physical' CHECK (product_type IN ('physical','digital','service')),
  image TEXT NOT NULL DEFAULT '',
  created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_products_slug       ON products(slug);
CREATE INDEX IF NOT EXISTS idx_products_category   ON products(category_id);
CREATE INDEX IF NOT EXISTS idx_products_brand      ON products(brand_id);
CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at);
CREATE INDEX IF NOT EXISTS idx_products_price      ON products(price);

-- Product <-> Tag (set membership, order-irrelevant)
CREATE TABLE IF NOT EXISTS product_tags(
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  tag_id     TEXT NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
  PRIMARY KEY(product_id, tag_id)
);
CREATE INDEX IF NOT EXISTS idx_product_tags_tag ON product_tags(tag_id);

-- Orders
CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  code TEXT NOT NULL UNIQUE,
  status TEXT NOT NULL DEFAULT 'new' CHECK (status IN ('new','processing','completed','cancelled')),
  created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);

CREATE TABLE IF NOT EXISTS order_items(
  id TEXT PRIMARY KEY,
  order_id   TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE RESTRICT,
  quantity INTEGER NOT NULL CHECK (quantity >= 1),
  price NUMERIC NOT NULL CHECK (price >= 0)
);
CREATE INDEX IF NOT EXISTS idx_order_items_order   ON order_items(order_id);
CREATE INDEX IF NOT EXISTS idx_order_items_product ON order_items(product_id);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM categories`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo catalog data")

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO categories(id,name,slug,description) VALUES
	  ('cat-smartphones','Smartphones','smartphones','Phones and phablets'),
	  ('cat-laptops','Laptops','laptops','Notebooks and ultrabooks'),
	  ('cat-accessories','Accessories','accessories','Peripherals and add-ons')`)

	tx.MustExec(`INSERT INTO brands(id,name,slug,description) VALUES
	  ('br-apple','Apple','apple',''),
	  ('br-samsung','Samsung','samsung',''),
	  ('br-logitech','Logitech','logitech','')`)

	tx.MustExec(`INSERT INTO tags(id,name,slug) VALUES
	  ('tag-hit','Hit','hit'),
	  ('tag-new','New','new'),
	  ('tag-sale','Sale','sale'),
	  ('tag-gaming','Gaming','gaming')`)

	tx.MustExec(`INSERT INTO products(id,name,slug,description,price,old_price,quantity,category_id,brand_id,is_available,status,product_type,created_at) VALUES
	  ('p-iphone','iPhone 15','iphone-15','Flagship smartphone',99990.00,NULL,5,'cat-smartphones','br-apple',1,1,'physical','2024-01-01 10:00:00'),
	  ('p-galaxy','Galaxy S24','galaxy-s24','Android flagship',79990.00,89990.00,3,'cat-smartphones','br-samsung',1,1,'physical','2024-01-02 10:00:00'),
	  ('p-macbook','MacBook Air','macbook-air','Thin and light laptop',149990.00,NULL,2,'cat-laptops','br-apple',1,1,'physical','2024-01-03 10:00:00'),
	  ('p-galaxybook','Galaxy Book 4','galaxy-book-4','Gaming-capable laptop',119990.00,129990.00,4,'cat-laptops','br-samsung',1,1,'physical','2024-01-04 10:00:00'),
	  ('p-mxkeys','MX Keys','mx-keys','Wireless keyboard',9990.00,NULL,20,'cat-accessories','br-logitech',1,1,'physical','2024-01-05 10:00:00'),
	  ('p-draft','Vision Pro','vision-pro','Not yet announced here',299990.00,NULL,0,'cat-accessories','br-apple',1,0,'physical','2024-01-06 10:00:00'),
	  ('p-hidden','Galaxy Fold 3','galaxy-fold-3','Phased out',59990.00,NULL,0,'cat-smartphones','br-samsung',0,1,'physical','2024-01-07 10:00:00')`)

	tx.MustExec(`INSERT INTO product_tags(product_id,tag_id) VALUES
	  ('p-iphone','tag-hit'),
	  ('p-iphone','tag-new'),
	  ('p-galaxy','tag-sale'),
	  ('p-galaxybook','tag-gaming'),
	  ('p-galaxybook','tag-sale'),
	  ('p-mxkeys','tag-gaming')`)

	tx.MustExec(`INSERT INTO orders(id,code,status,created_at) VALUES
	  ('ord-1','ORD-1001','new','2024-02-01 09:00:00'),
	  ('ord-2','ORD-1002','completed','2024-02-02 09:00:00')`)

	tx.MustExec(`INSERT INTO order_items(id,order_id,product_id,quantity,price) VALUES
	  ('oi-1','ord-1','p-iphone',1,99990.00),
	  ('oi-2','ord-1','p-mxkeys',2,9990.00),
	  ('oi-3','ord-2','p-galaxy',1,89990.00)`)

	return tx.Commit()
}
