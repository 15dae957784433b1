package pglogistics

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/murphylog/freightdesk/internal/models"
)

func (s *Storage) AddPayment(ctx context.Context, p *models.Payment) (*models.Payment, error) {
	err := s.db.QueryRow(ctx, `
INSERT INTO payments (order_id, amount, payment_date, is_client_payment, description)
VALUES ($1,$2,$3,$4,$5)
RETURNING id
`, p.OrderID, p.Amount, p.PaymentDate, p.IsClientPayment, p.Description).Scan(&p.ID)
	if err != nil {
		return nil, errors.Wrap(err, "insert payment")
	}
	return p, nil
}

func (s *Storage) ListPaymentsByOrder(ctx context.Context, orderID uint64) ([]*models.Payment, error) {
	rows, err := s.db.Query(ctx, `
SELECT id, order_id, amount, payment_date, is_client_payment, description
FROM payments
WHERE order_id = $1
ORDER BY payment_date, id
`, orderID)
	if err != nil {
		return nil, errors.Wrap(err, "select payments")
	}
	defer rows.Close()

	var out []*models.Payment
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(
			&p.ID, &p.OrderID, &p.Amount, &p.PaymentDate, &p.IsClientPayment, &p.Description,
		); err != nil {
			return nil, errors.Wrap(err, "scan payment")
		}
		out = append(out, &p)
	}
	if rows.Err() != nil {
		return nil, errors.Wrap(rows.Err(), "rows")
	}
	return out, nil
}

// OrderProfit считает приход от клиента и расход перевозчику одним проходом.
func (s *Storage) OrderProfit(ctx context.Context, orderID uint64) (income, expense float64, err error) {
	err = s.db.QueryRow(ctx, `
SELECT
  COALESCE(SUM(CASE WHEN is_client_payment THEN amount ELSE 0 END), 0),
  COALESCE(SUM(CASE WHEN NOT is_client_payment THEN amount ELSE 0 END), 0)
FROM payments
WHERE order_id = $1
`, orderID).Scan(&income, &expense)
	if err != nil {
		return 0, 0, errors.Wrap(err, "order profit")
	}
	return income, expense, nil
}

// ListOverdueClientPayments выбирает платежи от клиентов с датой строго
// раньше before по незакрытым заказам. Граница не включается: платёж с
// payment_date = before просроченным ещё не считается.
func (s *Storage) ListOverdueClientPayments(ctx context.Context, before time.Time) ([]*models.OverduePayment, error) {
	rows, err := s.db.Query(ctx, `
SELECT p.id, p.order_id, p.amount, p.payment_date, o.status
FROM payments p
JOIN orders o ON o.id = p.order_id
WHERE p.is_client_payment = TRUE
  AND p.payment_date < $1::date
  AND o.status <> ALL($2)
ORDER BY p.id
`, before, []string{models.OrderStatusCompleted, models.OrderStatusCancelled})
	if err != nil {
		return nil, errors.Wrap(err, "select overdue payments")
	}
	defer rows.Close()

	var out []*models.OverduePayment
	for rows.Next() {
		var p models.OverduePayment
		if err := rows.Scan(&p.PaymentID, &p.OrderID, &p.Amount, &p.PaymentDate, &p.OrderStatus); err != nil {
			return nil, errors.Wrap(err, "scan overdue payment")
		}
		out = append(out, &p)
	}
	if rows.Err() != nil {
		return nil, errors.Wrap(rows.Err(), "rows")
	}
	return out, nil
}
