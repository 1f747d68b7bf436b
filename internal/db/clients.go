package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/koyo-works/crm-backend/internal/db/models"
)

const clientColumns = `id, user_id, name, company_name, business_category, contact_email,
	contact_phone, status, signed_date, estimated_monthly_revenue, created_at, updated_at`

func scanClient(row interface{ Scan(...interface{}) error }) (*models.Client, error) {
	var c models.Client
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.CompanyName, &c.BusinessCategory,
		&c.ContactEmail, &c.ContactPhone, &c.Status, &c.SignedDate,
		&c.EstimatedMonthlyRevenue, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateClient inserts a new client and fills in its generated fields.
func CreateClient(ctx context.Context, pool *sql.DB, client *models.Client) error {
	query := `INSERT INTO clients (user_id, name, company_name, business_category,
			contact_email, contact_phone, status, signed_date, estimated_monthly_revenue)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`
	err := pool.QueryRowContext(ctx, query,
		client.UserID, client.Name, client.CompanyName, client.BusinessCategory,
		client.ContactEmail, client.ContactPhone, client.Status, client.SignedDate,
		client.EstimatedMonthlyRevenue,
	).Scan(&client.ID, &client.CreatedAt, &client.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error inserting client: %w", err)
	}
	return nil
}

// GetClientByID returns the client with the given id, or nil when absent.
func GetClientByID(ctx context.Context, pool *sql.DB, id int64) (*models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`
	client, err := scanClient(pool.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error querying client by id: %w", err)
	}
	return client, nil
}

// ListClients returns a page of clients ordered by id. When ownerID is
// non-nil only clients owned by that user are returned.
func ListClients(ctx context.Context, pool *sql.DB, ownerID *int64, skip, limit int) ([]*models.Client, error) {
	var rows *sql.Rows
	var err error
	if ownerID != nil {
		query := `SELECT ` + clientColumns + ` FROM clients WHERE user_id = $1 ORDER BY id OFFSET $2 LIMIT $3`
		rows, err = pool.QueryContext(ctx, query, *ownerID, skip, limit)
	} else {
		query := `SELECT ` + clientColumns + ` FROM clients ORDER BY id OFFSET $1 LIMIT $2`
		rows, err = pool.QueryContext(ctx, query, skip, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("error listing clients: %w", err)
	}
	defer rows.Close()

	clients := []*models.Client{}
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning client row: %w", err)
		}
		clients = append(clients, client)
	}
	return clients, rows.Err()
}

// UpdateClient overwrites the mutable fields of the client with the given id
// and returns the stored row, or nil when the client does not exist.
func UpdateClient(ctx context.Context, pool *sql.DB, client *models.Client) (*models.Client, error) {
	query := `UPDATE clients SET name = $1, company_name = $2, business_category = $3,
			contact_email = $4, contact_phone = $5, status = $6, signed_date = $7,
			estimated_monthly_revenue = $8, updated_at = now()
		WHERE id = $9
		RETURNING ` + clientColumns
	updated, err := scanClient(pool.QueryRowContext(ctx, query,
		client.Name, client.CompanyName, client.BusinessCategory, client.ContactEmail,
		client.ContactPhone, client.Status, client.SignedDate,
		client.EstimatedMonthlyRevenue, client.ID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error updating client: %w", err)
	}
	return updated, nil
}

// DeleteClient removes the client with the given id and reports whether a
// row was deleted.
func DeleteClient(ctx context.Context, pool *sql.DB, id int64) (bool, error) {
	res, err := pool.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("error deleting client: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error reading delete result: %w", err)
	}
	return affected > 0, nil
}
