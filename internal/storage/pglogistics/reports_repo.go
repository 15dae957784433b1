package pglogistics

import (
	"context"

	"github.com/pkg/errors"
)

type MonthlyProfitRow struct {
	Month   int     `json:"month"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Profit  float64 `json:"profit"`
}

type ClientProfitRow struct {
	ClientName string  `json:"clientName"`
	Income     float64 `json:"income"`
	Expense    float64 `json:"expense"`
	Profit     float64 `json:"profit"`
}

type CarrierActivityRow struct {
	CarrierName string  `json:"carrierName"`
	OrderCount  int64   `json:"orderCount"`
	TotalPaid   float64 `json:"totalPaid"`
}

func (s *Storage) MonthlyProfitReport(ctx context.Context, year int) ([]MonthlyProfitRow, error) {
	rows, err := s.db.Query(ctx, `
SELECT
  EXTRACT(MONTH FROM payment_date)::int AS month,
  COALESCE(SUM(CASE WHEN is_client_payment THEN amount ELSE 0 END), 0) AS income,
  COALESCE(SUM(CASE WHEN NOT is_client_payment THEN amount ELSE 0 END), 0) AS expense
FROM payments
WHERE EXTRACT(YEAR FROM payment_date) = $1
GROUP BY 1
ORDER BY 1
`, year)
	if err != nil {
		return nil, errors.Wrap(err, "select monthly profit")
	}
	defer rows.Close()

	var out []MonthlyProfitRow
	for rows.Next() {
		var r MonthlyProfitRow
		if err := rows.Scan(&r.Month, &r.Income, &r.Expense); err != nil {
			return nil, errors.Wrap(err, "scan monthly profit")
		}
		r.Profit = r.Income - r.Expense
		out = append(out, r)
	}
	if rows.Err() != nil {
		return nil, errors.Wrap(rows.Err(), "rows")
	}
	return out, nil
}

func (s *Storage) ClientProfitReport(ctx context.Context, year int) ([]ClientProfitRow, error) {
	rows, err := s.db.Query(ctx, `
SELECT
  c.name,
  COALESCE(SUM(CASE WHEN p.is_client_payment THEN p.amount ELSE 0 END), 0) AS income,
  COALESCE(SUM(CASE WHEN NOT p.is_client_payment THEN p.amount ELSE 0 END), 0) AS expense
FROM clients c
JOIN orders o ON o.client_id = c.id
JOIN payments p ON p.order_id = o.id
WHERE EXTRACT(YEAR FROM p.payment_date) = $1
GROUP BY c.name
ORDER BY income - expense DESC
`, year)
	if err != nil {
		return nil, errors.Wrap(err, "select client profit")
	}
	defer rows.Close()

	var out []ClientProfitRow
	for rows.Next() {
		var r ClientProfitRow
		if err := rows.Scan(&r.ClientName, &r.Income, &r.Expense); err != nil {
			return nil, errors.Wrap(err, "scan client profit")
		}
		r.Profit = r.Income - r.Expense
		out = append(out, r)
	}
	if rows.Err() != nil {
		return nil, errors.Wrap(rows.Err(), "rows")
	}
	return out, nil
}

// CarrierActivityReport: заказы года и суммы, выплаченные перевозчику.
func (s *Storage) CarrierActivityReport(ctx context.Context, year int) ([]CarrierActivityRow, error) {
	rows, err := s.db.Query(ctx, `
SELECT
  c.company_name,
  COUNT(DISTINCT o.id) AS order_count,
  COALESCE(SUM(p.amount), 0) AS total_paid
FROM carriers c
JOIN orders o ON o.carrier_id = c.id
LEFT JOIN payments p ON p.order_id = o.id AND p.is_client_payment = FALSE
WHERE EXTRACT(YEAR FROM o.order_date) = $1
GROUP BY c.company_name
ORDER BY order_count DESC
`, year)
	if err != nil {
		return nil, errors.Wrap(err, "select carrier activity")
	}
	defer rows.Close()

	var out []CarrierActivityRow
	for rows.Next() {
		var r CarrierActivityRow
		if err := rows.Scan(&r.CarrierName, &r.OrderCount, &r.TotalPaid); err != nil {
			return nil, errors.Wrap(err, "scan carrier activity")
		}
		out = append(out, r)
	}
	if rows.Err() != nil {
		return nil, errors.Wrap(rows.Err(), "rows")
	}
	return out, nil
}
