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

var clientRowColumns = []string{"id", "user_id", "name", "company_name", "business_category",
	"contact_email", "contact_phone", "status", "signed_date", "estimated_monthly_revenue",
	"created_at", "updated_at"}

func clientRow(id, userID int64, name string) []driver.Value {
	now := time.Now()
	return []driver.Value{id, userID, name, nil, "beauty", nil, nil, nil, nil, nil, now, now}
}

func TestCreateClient_Success(t *testing.T) {
	pool, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer pool.Close()

	client := &models.Client{
		UserID:           3,
		Name:             "Salon Aoyama",
		BusinessCategory: "beauty",
	}

	rows := sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
		AddRow(int64(11), time.Now(), time.Now())

	mock.ExpectQuery("INSERT INTO clients").
		WithArgs(client.UserID, client.Name, nil, client.BusinessCategory,
			nil, nil, nil, nil, nil).
		WillReturnRows(rows)

	err = CreateClient(context.Background(), pool, client)
	require.NoError(t, err)
	assert.Equal(t, int64(11), client.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetClientByID_Found(t *testing.T) {
	pool, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer pool.Close()

	rows := sqlmock.NewRows(clientRowColumns).AddRow(clientRow(11, 3, "Salon Aoyama")...)

	mock.ExpectQuery("SELECT (.+) FROM clients WHERE id").
		WithArgs(int64(11)).
		WillReturnRows(rows)

	client, err := GetClientByID(context.Background(), pool, 11)
	require.NoError(t, err)
	require.NotNil(t, client)
	assert.Equal(t, int64(3), client.UserID)
	assert.Equal(t, "Salon Aoyama", client.Name)
	assert.Nil(t, client.CompanyName)
	assert.Nil(t, client.SignedDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetClientByID_NotFound(t *testing.T) {
	pool, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer pool.Close()

	mock.ExpectQuery("SELECT (.+) FROM clients WHERE id").
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows(clientRowColumns))

	client, err := GetClientByID(context.Background(), pool, 404)
	assert.NoError(t, err)
	assert.Nil(t, client)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListClients_ScopedToOwner(t *testing.T) {
	pool, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer pool.Close()

	rows := sqlmock.NewRows(clientRowColumns).
		AddRow(clientRow(11, 3, "Salon Aoyama")...).
		AddRow(clientRow(12, 3, "Cafe Kanda")...)

	mock.ExpectQuery("SELECT (.+) FROM clients WHERE user_id").
		WithArgs(int64(3), 0, 100).
		WillReturnRows(rows)

	ownerID := int64(3)
	clients, err := ListClients(context.Background(), pool, &ownerID, 0, 100)
	require.NoError(t, err)
	require.Len(t, clients, 2)
	for _, client := range clients {
		assert.Equal(t, int64(3), client.UserID)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListClients_AdminSeesAll(t *testing.T) {
	pool, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer pool.Close()

	rows := sqlmock.NewRows(clientRowColumns).
		AddRow(clientRow(11, 3, "Salon Aoyama")...).
		AddRow(clientRow(21, 4, "Gym Shibuya")...)

	mock.ExpectQuery("SELECT (.+) FROM clients ORDER BY id").
		WithArgs(0, 100).
		WillReturnRows(rows)

	clients, err := ListClients(context.Background(), pool, nil, 0, 100)
	require.NoError(t, err)
	require.Len(t, clients, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateClient(t *testing.T) {
	pool, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer pool.Close()

	client := &models.Client{ID: 11, Name: "Salon Aoyama Annex", BusinessCategory: "beauty"}

	rows := sqlmock.NewRows(clientRowColumns).AddRow(clientRow(11, 3, "Salon Aoyama Annex")...)

	mock.ExpectQuery("UPDATE clients SET").
		WithArgs(client.Name, nil, client.BusinessCategory, nil, nil, nil, nil, nil, int64(11)).
		WillReturnRows(rows)

	updated, err := UpdateClient(context.Background(), pool, client)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "Salon Aoyama Annex", updated.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateClient_Missing(t *testing.T) {
	pool, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer pool.Close()

	client := &models.Client{ID: 404, Name: "Ghost", BusinessCategory: "beauty"}

	mock.ExpectQuery("UPDATE clients SET").
		WithArgs(client.Name, nil, client.BusinessCategory, nil, nil, nil, nil, nil, int64(404)).
		WillReturnRows(sqlmock.NewRows(clientRowColumns))

	updated, err := UpdateClient(context.Background(), pool, client)
	assert.NoError(t, err)
	assert.Nil(t, updated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteClient(t *testing.T) {
	pool, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer pool.Close()

	t.Run("deletes existing row", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM clients WHERE id").
			WithArgs(int64(11)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		deleted, err := DeleteClient(context.Background(), pool, 11)
		require.NoError(t, err)
		assert.True(t, deleted)
	})

	t.Run("reports missing row", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM clients WHERE id").
			WithArgs(int64(404)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		deleted, err := DeleteClient(context.Background(), pool, 404)
		require.NoError(t, err)
		assert.False(t, deleted)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
