package db

import (
	"context"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koyo-works/crm-backend/internal/db/models"
)

var contentItemRowColumns = []string{"id", "client_id", "content_type", "title", "description",
	"instagram_post_url", "created_at", "updated_at"}

func contentItemRow(id, clientID int64, contentType string) []driver.Value {
	now := time.Now()
	return []driver.Value{id, clientID, contentType, nil, nil,
		"https://www.instagram.com/p/abc123/", now, now}
}

func TestCreateContentItem_Success(t *testing.T) {
	pool, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer pool.Close()

	item := &models.ContentItem{
		ClientID:         11,
		ContentType:      "reel",
		InstagramPostURL: "https://www.instagram.com/p/abc123/",
	}

	rows := sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
		AddRow(int64(51), time.Now(), time.Now())

	mock.ExpectQuery("INSERT INTO content_items").
		WithArgs(item.ClientID, item.ContentType, nil, nil, item.InstagramPostURL).
		WillReturnRows(rows)

	err = CreateContentItem(context.Background(), pool, item)
	require.NoError(t, err)
	assert.Equal(t, int64(51), item.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListContentItems_OwnerJoinsThroughClients(t *testing.T) {
	pool, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer pool.Close()

	rows := sqlmock.NewRows(contentItemRowColumns).
		AddRow(contentItemRow(51, 11, "reel")...)

	mock.ExpectQuery("SELECT (.+) FROM content_items ci JOIN clients c ON c.id = ci.client_id AND c.user_id").
		WithArgs(int64(3), 0, 100).
		WillReturnRows(rows)

	ownerID := int64(3)
	items, err := ListContentItems(context.Background(), pool,
		ContentItemFilter{OwnerID: &ownerID, Skip: 0, Limit: 100})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(11), items[0].ClientID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListContentItems_FilterByClient(t *testing.T) {
	pool, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer pool.Close()

	rows := sqlmock.NewRows(contentItemRowColumns).
		AddRow(contentItemRow(51, 11, "reel")...).
		AddRow(contentItemRow(52, 11, "story")...)

	mock.ExpectQuery("SELECT (.+) FROM content_items ci WHERE ci.client_id").
		WithArgs(int64(11), 0, 100).
		WillReturnRows(rows)

	clientID := int64(11)
	items, err := ListContentItems(context.Background(), pool,
		ContentItemFilter{ClientID: &clientID, Skip: 0, Limit: 100})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateContentItem_Missing(t *testing.T) {
	pool, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer pool.Close()

	item := &models.ContentItem{ID: 404, ContentType: "reel",
		InstagramPostURL: "https://www.instagram.com/p/abc123/"}

	mock.ExpectQuery("UPDATE content_items SET").
		WithArgs(item.ContentType, nil, nil, item.InstagramPostURL, int64(404)).
		WillReturnRows(sqlmock.NewRows(contentItemRowColumns))

	updated, err := UpdateContentItem(context.Background(), pool, item)
	assert.NoError(t, err)
	assert.Nil(t, updated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteContentItem(t *testing.T) {
	pool, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer pool.Close()

	mock.ExpectExec("DELETE FROM content_items WHERE id").
		WithArgs(int64(51)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	deleted, err := DeleteContentItem(context.Background(), pool, 51)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
