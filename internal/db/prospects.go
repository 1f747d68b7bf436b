package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/koyo-works/crm-backend/internal/db/models"
)

const prospectColumns = `id, user_id, name, company_name, business_category, contact_email,
	contact_phone, interest_level, status, next_follow_up_date, notes, created_at, updated_at`

func scanProspect(row interface{ Scan(...interface{}) error }) (*models.Prospect, error) {
	var p models.Prospect
	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.CompanyName, &p.BusinessCategory,
		&p.ContactEmail, &p.ContactPhone, &p.InterestLevel, &p.Status,
		&p.NextFollowUpDate, &p.Notes, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProspect inserts a new prospect and fills in its generated fields.
func CreateProspect(ctx context.Context, pool *sql.DB, prospect *models.Prospect) error {
	query := `INSERT INTO prospects (user_id, name, company_name, business_category,
			contact_email, contact_phone, interest_level, status, next_follow_up_date, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`
	err := pool.QueryRowContext(ctx, query,
		prospect.UserID, prospect.Name, prospect.CompanyName, prospect.BusinessCategory,
		prospect.ContactEmail, prospect.ContactPhone, prospect.InterestLevel,
		prospect.Status, prospect.NextFollowUpDate, prospect.Notes,
	).Scan(&prospect.ID, &prospect.CreatedAt, &prospect.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error inserting prospect: %w", err)
	}
	return nil
}

// GetProspectByID returns the prospect with the given id, or nil when absent.
func GetProspectByID(ctx context.Context, pool *sql.DB, id int64) (*models.Prospect, error) {
	query := `SELECT ` + prospectColumns + ` FROM prospects WHERE id = $1`
	prospect, err := scanProspect(pool.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error querying prospect by id: %w", err)
	}
	return prospect, nil
}

// ListProspects returns a page of prospects ordered by id. When ownerID is
// non-nil only prospects owned by that user are returned.
func ListProspects(ctx context.Context, pool *sql.DB, ownerID *int64, skip, limit int) ([]*models.Prospect, error) {
	var rows *sql.Rows
	var err error
	if ownerID != nil {
		query := `SELECT ` + prospectColumns + ` FROM prospects WHERE user_id = $1 ORDER BY id OFFSET $2 LIMIT $3`
		rows, err = pool.QueryContext(ctx, query, *ownerID, skip, limit)
	} else {
		query := `SELECT ` + prospectColumns + ` FROM prospects ORDER BY id OFFSET $1 LIMIT $2`
		rows, err = pool.QueryContext(ctx, query, skip, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("error listing prospects: %w", err)
	}
	defer rows.Close()

	return collectProspects(rows)
}

// UpdateProspect overwrites the mutable fields of the prospect with the given
// id and returns the stored row, or nil when the prospect does not exist.
func UpdateProspect(ctx context.Context, pool *sql.DB, prospect *models.Prospect) (*models.Prospect, error) {
	query := `UPDATE prospects SET name = $1, company_name = $2, business_category = $3,
			contact_email = $4, contact_phone = $5, interest_level = $6, status = $7,
			next_follow_up_date = $8, notes = $9, updated_at = now()
		WHERE id = $10
		RETURNING ` + prospectColumns
	updated, err := scanProspect(pool.QueryRowContext(ctx, query,
		prospect.Name, prospect.CompanyName, prospect.BusinessCategory,
		prospect.ContactEmail, prospect.ContactPhone, prospect.InterestLevel,
		prospect.Status, prospect.NextFollowUpDate, prospect.Notes, prospect.ID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error updating prospect: %w", err)
	}
	return updated, nil
}

// DeleteProspect removes the prospect with the given id and reports whether
// a row was deleted.
func DeleteProspect(ctx context.Context, pool *sql.DB, id int64) (bool, error) {
	res, err := pool.ExecContext(ctx, `DELETE FROM prospects WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("error deleting prospect: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error reading delete result: %w", err)
	}
	return affected > 0, nil
}

// RecommendedProspects picks up to limit prospects worth following up on:
// high-interest new/contacted prospects first (newest first), topped up with
// the nearest upcoming follow-up dates. When ownerID is non-nil only that
// user's prospects are considered.
func RecommendedProspects(ctx context.Context, pool *sql.DB, ownerID *int64, limit int) ([]*models.Prospect, error) {
	highInterest, err := queryRecommended(ctx, pool, ownerID, nil, limit, true)
	if err != nil {
		return nil, err
	}
	if len(highInterest) >= limit {
		return highInterest, nil
	}

	exclude := make([]int64, 0, len(highInterest))
	for _, p := range highInterest {
		exclude = append(exclude, p.ID)
	}
	upcoming, err := queryRecommended(ctx, pool, ownerID, exclude, limit-len(highInterest), false)
	if err != nil {
		return nil, err
	}
	return append(highInterest, upcoming...), nil
}

func queryRecommended(ctx context.Context, pool *sql.DB, ownerID *int64, exclude []int64, limit int, highInterestOnly bool) ([]*models.Prospect, error) {
	query := `SELECT ` + prospectColumns + ` FROM prospects WHERE status = ANY($1)`
	args := []interface{}{pq.Array([]string{models.ProspectStatusNew, models.ProspectStatusContacted})}

	if ownerID != nil {
		args = append(args, *ownerID)
		query += fmt.Sprintf(" AND user_id = $%d", len(args))
	}
	if highInterestOnly {
		args = append(args, models.InterestHigh)
		query += fmt.Sprintf(" AND interest_level = $%d", len(args))
		query += " ORDER BY created_at DESC"
	} else {
		if len(exclude) > 0 {
			args = append(args, pq.Array(exclude))
			query += fmt.Sprintf(" AND NOT (id = ANY($%d))", len(args))
		}
		query += " ORDER BY next_follow_up_date ASC NULLS LAST"
	}
	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))

	rows, err := pool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying recommended prospects: %w", err)
	}
	defer rows.Close()

	return collectProspects(rows)
}

func collectProspects(rows *sql.Rows) ([]*models.Prospect, error) {
	prospects := []*models.Prospect{}
	for rows.Next() {
		prospect, err := scanProspect(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning prospect row: %w", err)
		}
		prospects = append(prospects, prospect)
	}
	return prospects, rows.Err()
}
