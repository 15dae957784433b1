package pglogistics

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"github.com/murphylog/freightdesk/internal/models"
)

func (s *Storage) CreateClient(ctx context.Context, c *models.Client) (*models.Client, error) {
	err := s.db.QueryRow(ctx, `
INSERT INTO clients (name, contact_person, phone, email, address, is_active)
VALUES ($1,$2,$3,$4,$5,$6)
RETURNING id
`, c.Name, c.ContactPerson, c.Phone, c.Email, c.Address, c.IsActive).Scan(&c.ID)
	if err != nil {
		return nil, errors.Wrap(err, "insert client")
	}
	return c, nil
}

func (s *Storage) GetClient(ctx context.Context, id uint64) (*models.Client, error) {
	var c models.Client
	err := s.db.QueryRow(ctx, `
SELECT id, name, contact_person, phone, email, address, is_active
FROM clients
WHERE id = $1
`, id).Scan(&c.ID, &c.Name, &c.ContactPerson, &c.Phone, &c.Email, &c.Address, &c.IsActive)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "select client")
	}
	return &c, nil
}

func (s *Storage) UpdateClient(ctx context.Context, c *models.Client) error {
	_, err := s.db.Exec(ctx, `
UPDATE clients
SET name = $2, contact_person = $3, phone = $4, email = $5, address = $6, is_active = $7
WHERE id = $1
`, c.ID, c.Name, c.ContactPerson, c.Phone, c.Email, c.Address, c.IsActive)
	return errors.Wrap(err, "update client")
}

func (s *Storage) ListClients(ctx context.Context) ([]*models.Client, error) {
	rows, err := s.db.Query(ctx, `
SELECT id, name, contact_person, phone, email, address, is_active
FROM clients
ORDER BY name
`)
	if err != nil {
		return nil, errors.Wrap(err, "select clients")
	}
	defer rows.Close()

	var out []*models.Client
	for rows.Next() {
		var c models.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.ContactPerson, &c.Phone, &c.Email, &c.Address, &c.IsActive); err != nil {
			return nil, errors.Wrap(err, "scan client")
		}
		out = append(out, &c)
	}
	if rows.Err() != nil {
		return nil, errors.Wrap(rows.Err(), "rows")
	}
	return out, nil
}

func (s *Storage) CreateCarrier(ctx context.Context, c *models.Carrier) (*models.Carrier, error) {
	err := s.db.QueryRow(ctx, `
INSERT INTO carriers (company_name, contact_person, phone, email, is_active)
VALUES ($1,$2,$3,$4,$5)
RETURNING id
`, c.CompanyName, c.ContactPerson, c.Phone, c.Email, c.IsActive).Scan(&c.ID)
	if err != nil {
		return nil, errors.Wrap(err, "insert carrier")
	}
	return c, nil
}

func (s *Storage) GetCarrier(ctx context.Context, id uint64) (*models.Carrier, error) {
	var c models.Carrier
	err := s.db.QueryRow(ctx, `
SELECT id, company_name, contact_person, phone, email, is_active
FROM carriers
WHERE id = $1
`, id).Scan(&c.ID, &c.CompanyName, &c.ContactPerson, &c.Phone, &c.Email, &c.IsActive)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "select carrier")
	}
	return &c, nil
}

func (s *Storage) UpdateCarrier(ctx context.Context, c *models.Carrier) error {
	_, err := s.db.Exec(ctx, `
UPDATE carriers
SET company_name = $2, contact_person = $3, phone = $4, email = $5, is_active = $6
WHERE id = $1
`, c.ID, c.CompanyName, c.ContactPerson, c.Phone, c.Email, c.IsActive)
	return errors.Wrap(err, "update carrier")
}

func (s *Storage) ListCarriers(ctx context.Context) ([]*models.Carrier, error) {
	rows, err := s.db.Query(ctx, `
SELECT id, company_name, contact_person, phone, email, is_active
FROM carriers
ORDER BY company_name
`)
	if err != nil {
		return nil, errors.Wrap(err, "select carriers")
	}
	defer rows.Close()

	var out []*models.Carrier
	for rows.Next() {
		var c models.Carrier
		if err := rows.Scan(&c.ID, &c.CompanyName, &c.ContactPerson, &c.Phone, &c.Email, &c.IsActive); err != nil {
			return nil, errors.Wrap(err, "scan carrier")
		}
		out = append(out, &c)
	}
	if rows.Err() != nil {
		return nil, errors.Wrap(rows.Err(), "rows")
	}
	return out, nil
}

func (s *Storage) CreateVehicle(ctx context.Context, v *models.Vehicle) (*models.Vehicle, error) {
	err := s.db.QueryRow(ctx, `
INSERT INTO vehicles (plate_number, model, capacity, carrier_id)
VALUES ($1,$2,$3,$4)
RETURNING id
`, v.PlateNumber, v.Model, v.Capacity, v.CarrierID).Scan(&v.ID)
	if err != nil {
		return nil, errors.Wrap(err, "insert vehicle")
	}
	return v, nil
}

func (s *Storage) ListVehicles(ctx context.Context) ([]*models.Vehicle, error) {
	rows, err := s.db.Query(ctx, `
SELECT id, plate_number, model, capacity, carrier_id
FROM vehicles
ORDER BY plate_number
`)
	if err != nil {
		return nil, errors.Wrap(err, "select vehicles")
	}
	defer rows.Close()

	var out []*models.Vehicle
	for rows.Next() {
		var v models.Vehicle
		if err := rows.Scan(&v.ID, &v.PlateNumber, &v.Model, &v.Capacity, &v.CarrierID); err != nil {
			return nil, errors.Wrap(err, "scan vehicle")
		}
		out = append(out, &v)
	}
	if rows.Err() != nil {
		return nil, errors.Wrap(rows.Err(), "rows")
	}
	return out, nil
}

func (s *Storage) CreateDriver(ctx context.Context, d *models.Driver) (*models.Driver, error) {
	err := s.db.QueryRow(ctx, `
INSERT INTO drivers (full_name, license_number, phone, vehicle_id)
VALUES ($1,$2,$3,$4)
RETURNING id
`, d.FullName, d.LicenseNumber, d.Phone, d.VehicleID).Scan(&d.ID)
	if err != nil {
		return nil, errors.Wrap(err, "insert driver")
	}
	return d, nil
}

func (s *Storage) ListDrivers(ctx context.Context) ([]*models.Driver, error) {
	rows, err := s.db.Query(ctx, `
SELECT id, full_name, license_number, phone, vehicle_id
FROM drivers
ORDER BY full_name
`)
	if err != nil {
		return nil, errors.Wrap(err, "select drivers")
	}
	defer rows.Close()

	var out []*models.Driver
	for rows.Next() {
		var d models.Driver
		var vehicleID *uint64
		if err := rows.Scan(&d.ID, &d.FullName, &d.LicenseNumber, &d.Phone, &vehicleID); err != nil {
			return nil, errors.Wrap(err, "scan driver")
		}
		d.VehicleID = vehicleID
		out = append(out, &d)
	}
	if rows.Err() != nil {
		return nil, errors.Wrap(rows.Err(), "rows")
	}
	return out, nil
}

func (s *Storage) DeleteClient(ctx context.Context, id uint64) error {
	_, err := s.db.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	return errors.Wrap(err, "delete client")
}

func (s *Storage) DeleteCarrier(ctx context.Context, id uint64) error {
	_, err := s.db.Exec(ctx, `DELETE FROM carriers WHERE id = $1`, id)
	return errors.Wrap(err, "delete carrier")
}

func (s *Storage) DeleteVehicle(ctx context.Context, id uint64) error {
	_, err := s.db.Exec(ctx, `DELETE FROM vehicles WHERE id = $1`, id)
	return errors.Wrap(err, "delete vehicle")
}

func (s *Storage) DeleteDriver(ctx context.Context, id uint64) error {
	_, err := s.db.Exec(ctx, `DELETE FROM drivers WHERE id = $1`, id)
	return errors.Wrap(err, "delete driver")
}
