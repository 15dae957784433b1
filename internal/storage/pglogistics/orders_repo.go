package pglogistics

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"github.com/murphylog/freightdesk/internal/models"
)

func (s *Storage) CreateOrder(ctx context.Context, in models.OrderCreateInput) (*models.Order, error) {
	status := in.Status
	if status == "" {
		status = models.OrderStatusCreated
	}

	var id uint64
	err := s.db.QueryRow(ctx, `
INSERT INTO orders (
  client_id, carrier_id, vehicle_id,
  loading_address, unloading_address,
  cargo_name, packaging, weight, loading_type,
  order_date, loading_date, status
)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
RETURNING id
`, in.ClientID, in.CarrierID, in.VehicleID,
		in.LoadingAddress, in.UnloadingAddress,
		in.CargoName, in.Packaging, in.Weight, in.LoadingType,
		in.OrderDate, in.LoadingDate, status).Scan(&id)
	if err != nil {
		return nil, errors.Wrap(err, "insert order")
	}

	return s.GetOrder(ctx, id)
}

func (s *Storage) GetOrder(ctx context.Context, id uint64) (*models.Order, error) {
	row := s.db.QueryRow(ctx, `
SELECT
  id, client_id, carrier_id, vehicle_id,
  loading_address, unloading_address,
  cargo_name, packaging, weight, loading_type,
  order_date, loading_date, status
FROM orders
WHERE id = $1
`, id)

	o, err := scanOrder(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "select order")
	}
	return o, nil
}

func (s *Storage) UpdateOrder(ctx context.Context, o *models.Order) error {
	tag, err := s.db.Exec(ctx, `
UPDATE orders
SET
  client_id = $2, carrier_id = $3, vehicle_id = $4,
  loading_address = $5, unloading_address = $6,
  cargo_name = $7, packaging = $8, weight = $9, loading_type = $10,
  order_date = $11, loading_date = $12, status = $13
WHERE id = $1
`, o.ID, o.ClientID, o.CarrierID, o.VehicleID,
		o.LoadingAddress, o.UnloadingAddress,
		o.CargoName, o.Packaging, o.Weight, o.LoadingType,
		o.OrderDate, o.LoadingDate, o.Status)
	if err != nil {
		return errors.Wrap(err, "update order")
	}
	if tag.RowsAffected() == 0 {
		return errors.New("order not found")
	}
	return nil
}

// DeleteOrder удаляет заказ вместе с платежами и документами (FK CASCADE).
func (s *Storage) DeleteOrder(ctx context.Context, id uint64) error {
	_, err := s.db.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	return errors.Wrap(err, "delete order")
}

func (s *Storage) ListOrders(ctx context.Context) ([]*models.Order, error) {
	rows, err := s.db.Query(ctx, `
SELECT
  id, client_id, carrier_id, vehicle_id,
  loading_address, unloading_address,
  cargo_name, packaging, weight, loading_type,
  order_date, loading_date, status
FROM orders
ORDER BY order_date DESC, id DESC
`)
	if err != nil {
		return nil, errors.Wrap(err, "select orders")
	}
	defer rows.Close()

	var out []*models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan order")
		}
		out = append(out, o)
	}
	if rows.Err() != nil {
		return nil, errors.Wrap(rows.Err(), "rows")
	}
	return out, nil
}

// ListUpcomingLoadings выбирает заказы с погрузкой ровно в указанный день
// и статусом, при котором погрузка ещё впереди.
func (s *Storage) ListUpcomingLoadings(ctx context.Context, day time.Time) ([]*models.Order, error) {
	rows, err := s.db.Query(ctx, `
SELECT
  id, client_id, carrier_id, vehicle_id,
  loading_address, unloading_address,
  cargo_name, packaging, weight, loading_type,
  order_date, loading_date, status
FROM orders
WHERE loading_date = $1::date
  AND status = ANY($2)
ORDER BY id
`, day, []string{models.OrderStatusCreated, models.OrderStatusProcessing})
	if err != nil {
		return nil, errors.Wrap(err, "select upcoming loadings")
	}
	defer rows.Close()

	var out []*models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan upcoming loading")
		}
		out = append(out, o)
	}
	if rows.Err() != nil {
		return nil, errors.Wrap(rows.Err(), "rows")
	}
	return out, nil
}

func scanOrder(row pgx.Row) (*models.Order, error) {
	var o models.Order
	var vehicleID *uint64
	if err := row.Scan(
		&o.ID, &o.ClientID, &o.CarrierID, &vehicleID,
		&o.LoadingAddress, &o.UnloadingAddress,
		&o.CargoName, &o.Packaging, &o.Weight, &o.LoadingType,
		&o.OrderDate, &o.LoadingDate, &o.Status,
	); err != nil {
		return nil, err
	}
	o.VehicleID = vehicleID
	return &o, nil
}
