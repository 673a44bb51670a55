package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kithuachu121-spec/salonslotbook/internal/models"
)

const bookingColumns = `id, salon_id, customer_id, customer_name, customer_phone,
	service_id, service_name, price, date, time, status, customer_confirmed,
	created_at, updated_at`

// InsertBooking persists a new booking. The partial unique index on
// (salon_id, date, time) excluding cancelled rows turns a lost race into
// models.ErrSlotConflict instead of a double booking.
func (s *Store) InsertBooking(ctx context.Context, b *models.Booking) error {
	_, err := s.ExecContext(ctx, `
		INSERT INTO bookings (
			id, salon_id, customer_id, customer_name, customer_phone,
			service_id, service_name, price, date, time, status,
			customer_confirmed, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.SalonID, b.CustomerID, b.CustomerName, b.CustomerPhone,
		b.ServiceID, b.ServiceName, b.Price, b.Date, b.Time, b.Status,
		b.CustomerConfirmed, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s %s at salon %s", models.ErrSlotConflict, b.Date, b.Time, b.SalonID)
		}
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

func scanBooking(row interface{ Scan(...any) error }) (*models.Booking, error) {
	var b models.Booking
	err := row.Scan(
		&b.ID, &b.SalonID, &b.CustomerID, &b.CustomerName, &b.CustomerPhone,
		&b.ServiceID, &b.ServiceName, &b.Price, &b.Date, &b.Time, &b.Status,
		&b.CustomerConfirmed, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// GetBooking returns a booking by id.
func (s *Store) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	row := s.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id)
	b, err := scanBooking(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: booking %s", models.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get booking %s: %w", id, err)
	}
	return b, nil
}

// UpdateBooking writes status and confirmation changes back.
func (s *Store) UpdateBooking(ctx context.Context, b *models.Booking) error {
	res, err := s.ExecContext(ctx, `
		UPDATE bookings
		SET status = ?, customer_confirmed = ?, updated_at = ?
		WHERE id = ?`,
		b.Status, b.CustomerConfirmed, b.UpdatedAt, b.ID,
	)
	if err != nil {
		return fmt.Errorf("update booking %s: %w", b.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: booking %s", models.ErrNotFound, b.ID)
	}
	return nil
}

// ListBookingsByCustomer returns a customer's bookings joined with the
// salon name, ordered by start.
func (s *Store) ListBookingsByCustomer(ctx context.Context, customerID string) ([]models.Booking, error) {
	rows, err := s.QueryContext(ctx, `
		SELECT b.id, b.salon_id, b.customer_id, b.customer_name, b.customer_phone,
			b.service_id, b.service_name, b.price, b.date, b.time, b.status,
			b.customer_confirmed, b.created_at, b.updated_at, COALESCE(s.name, '')
		FROM bookings b
		LEFT JOIN salons s ON s.id = b.salon_id
		WHERE b.customer_id = ?
		ORDER BY b.date, b.time`,
		customerID)
	if err != nil {
		return nil, fmt.Errorf("list customer bookings: %w", err)
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		var b models.Booking
		err := rows.Scan(
			&b.ID, &b.SalonID, &b.CustomerID, &b.CustomerName, &b.CustomerPhone,
			&b.ServiceID, &b.ServiceName, &b.Price, &b.Date, &b.Time, &b.Status,
			&b.CustomerConfirmed, &b.CreatedAt, &b.UpdatedAt, &b.SalonName,
		)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// ListBookingsBySalon returns all bookings for a salon, ordered by start.
func (s *Store) ListBookingsBySalon(ctx context.Context, salonID string) ([]models.Booking, error) {
	rows, err := s.QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE salon_id = ? ORDER BY date, time`,
		salonID)
	if err != nil {
		return nil, fmt.Errorf("list salon bookings: %w", err)
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

// TakenTimes returns the times occupied by non-cancelled bookings for a
// salon+date.
func (s *Store) TakenTimes(ctx context.Context, salonID, date string) (map[string]bool, error) {
	rows, err := s.QueryContext(ctx, `
		SELECT time FROM bookings
		WHERE salon_id = ? AND date = ? AND status != ?`,
		salonID, date, models.BookingCancelled)
	if err != nil {
		return nil, fmt.Errorf("taken times: %w", err)
	}
	defer rows.Close()

	taken := make(map[string]bool)
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		taken[t] = true
	}
	return taken, rows.Err()
}
