package migrate

import "gorm.io/gorm"

// sqliteSchema mirrors the postgres migrations for the sqlite driver. The
// goose SQL targets postgres (uuid defaults, text[]), so sqlite deployments
// and in-memory test databases bootstrap from this DDL instead. IDs are
// generated app-side by the model BeforeCreate hooks.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  role TEXT NOT NULL DEFAULT 'user',
  full_name TEXT,
  address TEXT,
  telephone TEXT,
  image_url TEXT,
  bit_qr_url TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  image_url TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  seller_id TEXT NOT NULL,
  name TEXT NOT NULL,
  description TEXT,
  price_cents INTEGER NOT NULL DEFAULT 0,
  amount INTEGER NOT NULL DEFAULT 0,
  image_urls TEXT,
  category TEXT NOT NULL,
  condition TEXT NOT NULL,
  rarity TEXT,
  card_number TEXT,
  listing_type TEXT NOT NULL DEFAULT 'fixed_price',
  starting_price_cents INTEGER,
  current_bid_cents INTEGER,
  auction_ends_at DATETIME,
  is_hidden INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS bids (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  bidder_id TEXT NOT NULL,
  bidder_email TEXT NOT NULL,
  amount_cents INTEGER NOT NULL,
  created_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  buyer_id TEXT NOT NULL,
  total_cents INTEGER NOT NULL,
  payment_method TEXT NOT NULL DEFAULT 'card',
  status TEXT NOT NULL DEFAULT 'completed',
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT,
  seller_id TEXT,
  name TEXT NOT NULL,
  unit_price_cents INTEGER NOT NULL,
  image_url TEXT,
  card_number TEXT,
  qty INTEGER NOT NULL,
  created_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS events (
  id TEXT PRIMARY KEY,
  organizer_id TEXT NOT NULL,
  title TEXT NOT NULL,
  description TEXT,
  date DATETIME NOT NULL,
  location TEXT,
  image_url TEXT,
  entry_fee_cents INTEGER,
  max_participants INTEGER,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS event_participants (
  id TEXT PRIMARY KEY,
  event_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  registered_at DATETIME,
  CONSTRAINT idx_event_participants_event_user UNIQUE (event_id, user_id)
);`,
}

// BootstrapSQLite creates the full schema on a sqlite connection.
func BootstrapSQLite(conn *gorm.DB) error {
	for _, stmt := range sqliteSchema {
		if err := conn.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
