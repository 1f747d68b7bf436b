package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/koyo-works/crm-backend/internal/db/models"
)

const contentItemColumns = `id, client_id, content_type, title, description,
	instagram_post_url, created_at, updated_at`

func scanContentItem(row interface{ Scan(...interface{}) error }) (*models.ContentItem, error) {
	var ci models.ContentItem
	err := row.Scan(&ci.ID, &ci.ClientID, &ci.ContentType, &ci.Title, &ci.Description,
		&ci.InstagramPostURL, &ci.CreatedAt, &ci.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &ci, nil
}

// ContentItemFilter narrows ListContentItems. OwnerID restricts results to
// content items whose owning client belongs to that user; ClientID restricts
// to a single client.
type ContentItemFilter struct {
	OwnerID  *int64
	ClientID *int64
	Skip     int
	Limit    int
}

// CreateContentItem inserts a new content item and fills in its generated
// fields.
func CreateContentItem(ctx context.Context, pool *sql.DB, item *models.ContentItem) error {
	query := `INSERT INTO content_items (client_id, content_type, title, description, instagram_post_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`
	err := pool.QueryRowContext(ctx, query,
		item.ClientID, item.ContentType, item.Title, item.Description, item.InstagramPostURL,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error inserting content item: %w", err)
	}
	return nil
}

// GetContentItemByID returns the content item with the given id, or nil when
// absent.
func GetContentItemByID(ctx context.Context, pool *sql.DB, id int64) (*models.ContentItem, error) {
	query := `SELECT ` + contentItemColumns + ` FROM content_items WHERE id = $1`
	item, err := scanContentItem(pool.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error querying content item by id: %w", err)
	}
	return item, nil
}

// ListContentItems returns a page of content items ordered by id, applying
// the given filter. Ownership is resolved through the owning client row.
func ListContentItems(ctx context.Context, pool *sql.DB, filter ContentItemFilter) ([]*models.ContentItem, error) {
	query := `SELECT ci.id, ci.client_id, ci.content_type, ci.title, ci.description,
			ci.instagram_post_url, ci.created_at, ci.updated_at
		FROM content_items ci`
	args := []interface{}{}

	if filter.OwnerID != nil {
		args = append(args, *filter.OwnerID)
		query += fmt.Sprintf(" JOIN clients c ON c.id = ci.client_id AND c.user_id = $%d", len(args))
	}
	if filter.ClientID != nil {
		args = append(args, *filter.ClientID)
		query += fmt.Sprintf(" WHERE ci.client_id = $%d", len(args))
	}

	args = append(args, filter.Skip)
	query += fmt.Sprintf(" ORDER BY ci.id OFFSET $%d", len(args))
	args = append(args, filter.Limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))

	rows, err := pool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing content items: %w", err)
	}
	defer rows.Close()

	items := []*models.ContentItem{}
	for rows.Next() {
		item, err := scanContentItem(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning content item row: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// UpdateContentItem overwrites the mutable fields of the content item with
// the given id and returns the stored row, or nil when it does not exist.
func UpdateContentItem(ctx context.Context, pool *sql.DB, item *models.ContentItem) (*models.ContentItem, error) {
	query := `UPDATE content_items SET content_type = $1, title = $2, description = $3,
			instagram_post_url = $4, updated_at = now()
		WHERE id = $5
		RETURNING ` + contentItemColumns
	updated, err := scanContentItem(pool.QueryRowContext(ctx, query,
		item.ContentType, item.Title, item.Description, item.InstagramPostURL, item.ID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error updating content item: %w", err)
	}
	return updated, nil
}

// DeleteContentItem removes the content item with the given id and reports
// whether a row was deleted.
func DeleteContentItem(ctx context.Context, pool *sql.DB, id int64) (bool, error) {
	res, err := pool.ExecContext(ctx, `DELETE FROM content_items WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("error deleting content item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error reading delete result: %w", err)
	}
	return affected > 0, nil
}
