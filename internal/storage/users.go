package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kithuachu121-spec/salonslotbook/internal/models"
)

// CreateUser inserts a new user record.
func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	_, err := s.ExecContext(ctx, `
		INSERT INTO users (id, email, role, name, phone, salon_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.Role, u.Name, u.Phone, u.SalonID, u.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetUser returns a user by id.
func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := s.QueryRowContext(ctx, `
		SELECT id, email, role, COALESCE(name, ''), COALESCE(phone, ''),
			COALESCE(salon_id, ''), created_at
		FROM users WHERE id = ?`, id,
	).Scan(&u.ID, &u.Email, &u.Role, &u.Name, &u.Phone, &u.SalonID, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: user %s", models.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	return &u, nil
}

// GetUserByEmail returns a user matching email and role.
func (s *Store) GetUserByEmail(ctx context.Context, email, role string) (*models.User, error) {
	var u models.User
	err := s.QueryRowContext(ctx, `
		SELECT id, email, role, COALESCE(name, ''), COALESCE(phone, ''),
			COALESCE(salon_id, ''), created_at
		FROM users WHERE email = ? AND role = ?`, email, role,
	).Scan(&u.ID, &u.Email, &u.Role, &u.Name, &u.Phone, &u.SalonID, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: user %s", models.ErrNotFound, email)
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return &u, nil
}

// UpdateUserProfile sets a user's name and phone.
func (s *Store) UpdateUserProfile(ctx context.Context, id, name, phone string) error {
	res, err := s.ExecContext(ctx,
		`UPDATE users SET name = ?, phone = ? WHERE id = ?`, name, phone, id)
	if err != nil {
		return fmt.Errorf("update user %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: user %s", models.ErrNotFound, id)
	}
	return nil
}

// CreateReview inserts a review.
func (s *Store) CreateReview(ctx context.Context, r *models.Review) error {
	_, err := s.ExecContext(ctx, `
		INSERT INTO reviews (id, salon_id, customer_id, customer_name, rating, comment, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.SalonID, r.CustomerID, r.CustomerName, r.Rating, r.Comment, r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

// ListReviewsBySalon returns a salon's reviews, newest first.
func (s *Store) ListReviewsBySalon(ctx context.Context, salonID string) ([]models.Review, error) {
	rows, err := s.QueryContext(ctx, `
		SELECT id, salon_id, customer_id, COALESCE(customer_name, ''), rating,
			COALESCE(comment, ''), created_at
		FROM reviews WHERE salon_id = ? ORDER BY created_at DESC`,
		salonID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []models.Review
	for rows.Next() {
		var r models.Review
		err := rows.Scan(&r.ID, &r.SalonID, &r.CustomerID, &r.CustomerName,
			&r.Rating, &r.Comment, &r.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}
