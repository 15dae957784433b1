package pglogistics

import (
	"context"

	"github.com/pkg/errors"
)

func (s *Storage) initSchema(ctx context.Context) error {
	stmts := []string{
		`
CREATE TABLE IF NOT EXISTS clients (
  id BIGSERIAL PRIMARY KEY,
  name TEXT NOT NULL,
  contact_person TEXT NOT NULL DEFAULT '',
  phone TEXT NOT NULL DEFAULT '',
  email TEXT NOT NULL DEFAULT '',
  address TEXT NOT NULL DEFAULT '',
  is_active BOOLEAN NOT NULL DEFAULT TRUE
)`,
		`
CREATE TABLE IF NOT EXISTS carriers (
  id BIGSERIAL PRIMARY KEY,
  company_name TEXT NOT NULL,
  contact_person TEXT NOT NULL DEFAULT '',
  phone TEXT NOT NULL DEFAULT '',
  email TEXT NOT NULL DEFAULT '',
  is_active BOOLEAN NOT NULL DEFAULT TRUE
)`,
		`
CREATE TABLE IF NOT EXISTS vehicles (
  id BIGSERIAL PRIMARY KEY,
  plate_number TEXT NOT NULL,
  model TEXT NOT NULL DEFAULT '',
  capacity DOUBLE PRECISION NOT NULL DEFAULT 0,
  carrier_id BIGINT NOT NULL REFERENCES carriers(id)
)`,
		`
CREATE TABLE IF NOT EXISTS drivers (
  id BIGSERIAL PRIMARY KEY,
  full_name TEXT NOT NULL,
  license_number TEXT NOT NULL DEFAULT '',
  phone TEXT NOT NULL DEFAULT '',
  vehicle_id BIGINT NULL REFERENCES vehicles(id)
)`,
		`
CREATE TABLE IF NOT EXISTS orders (
  id BIGSERIAL PRIMARY KEY,
  client_id BIGINT NOT NULL REFERENCES clients(id),
  carrier_id BIGINT NOT NULL REFERENCES carriers(id),
  vehicle_id BIGINT NULL REFERENCES vehicles(id),
  loading_address TEXT NOT NULL,
  unloading_address TEXT NOT NULL,
  cargo_name TEXT NOT NULL DEFAULT '',
  packaging TEXT NOT NULL DEFAULT '',
  weight DOUBLE PRECISION NOT NULL DEFAULT 0,
  loading_type TEXT NOT NULL DEFAULT '',
  order_date DATE NOT NULL,
  loading_date DATE NOT NULL,
  status TEXT NOT NULL
)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_loading_date_status ON orders(loading_date, status)`,
		// Заказ владеет платежами и документами: удаление заказа каскадное.
		`
CREATE TABLE IF NOT EXISTS payments (
  id BIGSERIAL PRIMARY KEY,
  order_id BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  amount DOUBLE PRECISION NOT NULL,
  payment_date DATE NOT NULL,
  is_client_payment BOOLEAN NOT NULL,
  description TEXT NOT NULL DEFAULT ''
)`,
		`CREATE INDEX IF NOT EXISTS idx_payments_order_id ON payments(order_id)`,
		`CREATE INDEX IF NOT EXISTS idx_payments_date_kind ON payments(payment_date, is_client_payment)`,
		`
CREATE TABLE IF NOT EXISTS documents (
  id BIGSERIAL PRIMARY KEY,
  order_id BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  name TEXT NOT NULL,
  file_path TEXT NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT ''
)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_order_id ON documents(order_id)`,
		// related_id — нестрогая ссылка, без FK: уведомление переживает объект.
		`
CREATE TABLE IF NOT EXISTS notifications (
  id BIGSERIAL PRIMARY KEY,
  user_id BIGINT NOT NULL DEFAULT 0,
  message TEXT NOT NULL,
  is_read BOOLEAN NOT NULL DEFAULT FALSE,
  created_at TIMESTAMPTZ NOT NULL,
  related_id BIGINT NOT NULL DEFAULT 0,
  notification_type TEXT NOT NULL DEFAULT ''
)`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_user_unread ON notifications(user_id, is_read, created_at DESC)`,
	}

	for _, q := range stmts {
		if _, err := s.db.Exec(ctx, q); err != nil {
			return errors.Wrap(err, "init schema")
		}
	}
	return nil
}
