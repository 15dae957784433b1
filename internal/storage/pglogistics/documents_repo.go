package pglogistics

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"github.com/murphylog/freightdesk/internal/models"
)

func (s *Storage) AddDocument(ctx context.Context, d *models.Document) (*models.Document, error) {
	err := s.db.QueryRow(ctx, `
INSERT INTO documents (order_id, name, file_path, description)
VALUES ($1,$2,$3,$4)
RETURNING id
`, d.OrderID, d.Name, d.FilePath, d.Description).Scan(&d.ID)
	if err != nil {
		return nil, errors.Wrap(err, "insert document")
	}
	return d, nil
}

func (s *Storage) GetDocument(ctx context.Context, id uint64) (*models.Document, error) {
	var d models.Document
	err := s.db.QueryRow(ctx, `
SELECT id, order_id, name, file_path, description
FROM documents
WHERE id = $1
`, id).Scan(&d.ID, &d.OrderID, &d.Name, &d.FilePath, &d.Description)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "select document")
	}
	return &d, nil
}

func (s *Storage) DeleteDocument(ctx context.Context, id uint64) error {
	_, err := s.db.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	return errors.Wrap(err, "delete document")
}

func (s *Storage) ListDocumentsByOrder(ctx context.Context, orderID uint64) ([]*models.Document, error) {
	rows, err := s.db.Query(ctx, `
SELECT id, order_id, name, file_path, description
FROM documents
WHERE order_id = $1
ORDER BY id
`, orderID)
	if err != nil {
		return nil, errors.Wrap(err, "select documents")
	}
	defer rows.Close()

	var out []*models.Document
	for rows.Next() {
		var d models.Document
		if err := rows.Scan(&d.ID, &d.OrderID, &d.Name, &d.FilePath, &d.Description); err != nil {
			return nil, errors.Wrap(err, "scan document")
		}
		out = append(out, &d)
	}
	if rows.Err() != nil {
		return nil, errors.Wrap(rows.Err(), "rows")
	}
	return out, nil
}
