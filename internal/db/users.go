package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/koyo-works/crm-backend/internal/db/models"
)

const userColumns = `id, email, role, hashed_password, name, city, is_active, created_at, updated_at`

func scanUser(row interface{ Scan(...interface{}) error }) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.Role, &u.HashedPassword, &u.Name, &u.City,
		&u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a new user and fills in its generated fields.
func CreateUser(ctx context.Context, pool *sql.DB, user *models.User) error {
	query := `INSERT INTO users (email, role, hashed_password, name, city, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`
	err := pool.QueryRowContext(ctx, query,
		user.Email, user.Role, user.HashedPassword, user.Name, user.City, user.IsActive,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error inserting user: %w", err)
	}
	return nil
}

// GetUserByEmail returns the user with the given email, or nil when absent.
func GetUserByEmail(ctx context.Context, pool *sql.DB, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	user, err := scanUser(pool.QueryRowContext(ctx, query, email))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error querying user by email: %w", err)
	}
	return user, nil
}

// GetUserByID returns the user with the given id, or nil when absent.
func GetUserByID(ctx context.Context, pool *sql.DB, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(pool.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error querying user by id: %w", err)
	}
	return user, nil
}

// ListUsers returns a page of users ordered by id.
func ListUsers(ctx context.Context, pool *sql.DB, skip, limit int) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id OFFSET $1 LIMIT $2`
	rows, err := pool.QueryContext(ctx, query, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning user row: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}
