package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kithuachu121-spec/salonslotbook/internal/models"
)

// CreateSalon inserts a new salon record.
func (s *Store) CreateSalon(ctx context.Context, salon *models.Salon) error {
	services, err := json.Marshal(salon.Services)
	if err != nil {
		return fmt.Errorf("marshal services: %w", err)
	}
	closedDates, err := json.Marshal(salon.ClosedDates)
	if err != nil {
		return fmt.Errorf("marshal closed dates: %w", err)
	}
	customSlots, err := json.Marshal(salon.CustomSlots)
	if err != nil {
		return fmt.Errorf("marshal custom slots: %w", err)
	}

	_, err = s.ExecContext(ctx, `
		INSERT INTO salons (
			id, name, owner_name, email, phone, location,
			open_time, close_time, services, status, last_activity,
			closed_dates, custom_slots
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		salon.ID, salon.Name, salon.OwnerName, salon.Email, salon.Phone, salon.Location,
		salon.OpenTime, salon.CloseTime, string(services), salon.Status, salon.LastActivity,
		string(closedDates), string(customSlots),
	)
	if err != nil {
		return fmt.Errorf("insert salon: %w", err)
	}
	return nil
}

const salonColumns = `id, name, owner_name, email, phone, location,
	open_time, close_time, services, status, last_activity, closed_dates, custom_slots`

func scanSalon(row interface{ Scan(...any) error }) (*models.Salon, error) {
	var salon models.Salon
	var services, closedDates, customSlots string
	err := row.Scan(
		&salon.ID, &salon.Name, &salon.OwnerName, &salon.Email, &salon.Phone, &salon.Location,
		&salon.OpenTime, &salon.CloseTime, &services, &salon.Status, &salon.LastActivity,
		&closedDates, &customSlots,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(services), &salon.Services); err != nil {
		return nil, fmt.Errorf("unmarshal services: %w", err)
	}
	if err := json.Unmarshal([]byte(closedDates), &salon.ClosedDates); err != nil {
		return nil, fmt.Errorf("unmarshal closed dates: %w", err)
	}
	if err := json.Unmarshal([]byte(customSlots), &salon.CustomSlots); err != nil {
		return nil, fmt.Errorf("unmarshal custom slots: %w", err)
	}
	return &salon, nil
}

// GetSalon returns a salon by id.
func (s *Store) GetSalon(ctx context.Context, id string) (*models.Salon, error) {
	row := s.QueryRowContext(ctx,
		`SELECT `+salonColumns+` FROM salons WHERE id = ?`, id)
	salon, err := scanSalon(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: salon %s", models.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get salon %s: %w", id, err)
	}
	return salon, nil
}

// ListSalons returns all salons with their booking counts.
func (s *Store) ListSalons(ctx context.Context) ([]models.Salon, error) {
	rows, err := s.QueryContext(ctx, `SELECT `+salonColumns+` FROM salons ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list salons: %w", err)
	}
	defer rows.Close()

	var salons []models.Salon
	for rows.Next() {
		salon, err := scanSalon(rows)
		if err != nil {
			return nil, fmt.Errorf("scan salon: %w", err)
		}
		salons = append(salons, *salon)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	counts, err := s.bookingCounts(ctx)
	if err != nil {
		return nil, err
	}
	for i := range salons {
		salons[i].BookingCount = counts[salons[i].ID]
	}
	return salons, nil
}

func (s *Store) bookingCounts(ctx context.Context) (map[string]int, error) {
	rows, err := s.QueryContext(ctx,
		`SELECT salon_id, COUNT(*) FROM bookings GROUP BY salon_id`)
	if err != nil {
		return nil, fmt.Errorf("booking counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var salonID string
		var n int
		if err := rows.Scan(&salonID, &n); err != nil {
			return nil, err
		}
		counts[salonID] = n
	}
	return counts, rows.Err()
}

// UpdateSalonServices replaces the service catalog wholesale and refreshes
// last activity.
func (s *Store) UpdateSalonServices(ctx context.Context, salonID string, services []models.Service, at time.Time) error {
	data, err := json.Marshal(services)
	if err != nil {
		return fmt.Errorf("marshal services: %w", err)
	}
	return s.updateSalonColumn(ctx, salonID, "services", string(data), at)
}

// SetClosedDates replaces the closed-date list wholesale.
func (s *Store) SetClosedDates(ctx context.Context, salonID string, dates []string, at time.Time) error {
	if dates == nil {
		dates = []string{}
	}
	data, err := json.Marshal(dates)
	if err != nil {
		return fmt.Errorf("marshal closed dates: %w", err)
	}
	return s.updateSalonColumn(ctx, salonID, "closed_dates", string(data), at)
}

// SetCustomSlots replaces the custom-slot list wholesale.
func (s *Store) SetCustomSlots(ctx context.Context, salonID string, customSlots []models.CustomSlot, at time.Time) error {
	if customSlots == nil {
		customSlots = []models.CustomSlot{}
	}
	data, err := json.Marshal(customSlots)
	if err != nil {
		return fmt.Errorf("marshal custom slots: %w", err)
	}
	return s.updateSalonColumn(ctx, salonID, "custom_slots", string(data), at)
}

// UpdateSalonHours changes the operating window. Callers must drop any
// cached availability for the salon afterwards; every date is affected.
func (s *Store) UpdateSalonHours(ctx context.Context, salonID, open, close string, at time.Time) error {
	res, err := s.ExecContext(ctx,
		`UPDATE salons SET open_time = ?, close_time = ?, last_activity = ?, updated_at = ? WHERE id = ?`,
		open, close, at, at, salonID)
	if err != nil {
		return fmt.Errorf("update salon %s hours: %w", salonID, err)
	}
	return s.requireAffected(res, salonID)
}

func (s *Store) updateSalonColumn(ctx context.Context, salonID, column, value string, at time.Time) error {
	res, err := s.ExecContext(ctx,
		`UPDATE salons SET `+column+` = ?, last_activity = ?, updated_at = ? WHERE id = ?`,
		value, at, at, salonID)
	if err != nil {
		return fmt.Errorf("update salon %s: %w", salonID, err)
	}
	return s.requireAffected(res, salonID)
}

// TouchSalonActivity refreshes the freshness signal used by the
// inactivity-marking policy.
func (s *Store) TouchSalonActivity(ctx context.Context, salonID string, at time.Time) error {
	res, err := s.ExecContext(ctx,
		`UPDATE salons SET last_activity = ? WHERE id = ?`, at, salonID)
	if err != nil {
		return fmt.Errorf("touch salon %s: %w", salonID, err)
	}
	return s.requireAffected(res, salonID)
}

// SetSalonStatus updates the visibility status.
func (s *Store) SetSalonStatus(ctx context.Context, salonID string, status models.SalonStatus) error {
	res, err := s.ExecContext(ctx,
		`UPDATE salons SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now(), salonID)
	if err != nil {
		return fmt.Errorf("set salon %s status: %w", salonID, err)
	}
	return s.requireAffected(res, salonID)
}

// DeleteSalon removes a salon and everything referencing it: reviews,
// bookings and owner accounts go first so no orphaned rows survive a
// partial failure.
func (s *Store) DeleteSalon(ctx context.Context, salonID string) error {
	tx, err := s.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete salon %s: %w", salonID, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM reviews WHERE salon_id = ?`, salonID); err != nil {
		return fmt.Errorf("delete salon %s reviews: %w", salonID, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM bookings WHERE salon_id = ?`, salonID); err != nil {
		return fmt.Errorf("delete salon %s bookings: %w", salonID, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM users WHERE salon_id = ?`, salonID); err != nil {
		return fmt.Errorf("delete salon %s accounts: %w", salonID, err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM salons WHERE id = ?`, salonID)
	if err != nil {
		return fmt.Errorf("delete salon %s: %w", salonID, err)
	}
	if err := s.requireAffected(res, salonID); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Store) requireAffected(res sql.Result, salonID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: salon %s", models.ErrNotFound, salonID)
	}
	return nil
}
