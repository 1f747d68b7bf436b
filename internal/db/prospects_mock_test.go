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

var prospectRowColumns = []string{"id", "user_id", "name", "company_name", "business_category",
	"contact_email", "contact_phone", "interest_level", "status", "next_follow_up_date",
	"notes", "created_at", "updated_at"}

func prospectRow(id, userID int64, name, interest, status string) []driver.Value {
	now := time.Now()
	return []driver.Value{id, userID, name, nil, "fitness", nil, nil, interest, status, nil, nil, now, now}
}

func TestCreateProspect_Success(t *testing.T) {
	pool, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer pool.Close()

	prospect := &models.Prospect{
		UserID:           3,
		Name:             "Gym Ueno",
		BusinessCategory: "fitness",
		Status:           models.ProspectStatusNew,
	}

	rows := sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
		AddRow(int64(31), time.Now(), time.Now())

	mock.ExpectQuery("INSERT INTO prospects").
		WithArgs(prospect.UserID, prospect.Name, nil, prospect.BusinessCategory,
			nil, nil, nil, prospect.Status, nil, nil).
		WillReturnRows(rows)

	err = CreateProspect(context.Background(), pool, prospect)
	require.NoError(t, err)
	assert.Equal(t, int64(31), prospect.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProspectByID(t *testing.T) {
	pool, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer pool.Close()

	rows := sqlmock.NewRows(prospectRowColumns).
		AddRow(prospectRow(31, 3, "Gym Ueno", models.InterestHigh, models.ProspectStatusNew)...)

	mock.ExpectQuery("SELECT (.+) FROM prospects WHERE id").
		WithArgs(int64(31)).
		WillReturnRows(rows)

	prospect, err := GetProspectByID(context.Background(), pool, 31)
	require.NoError(t, err)
	require.NotNil(t, prospect)
	assert.Equal(t, "Gym Ueno", prospect.Name)
	require.NotNil(t, prospect.InterestLevel)
	assert.Equal(t, models.InterestHigh, *prospect.InterestLevel)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteProspect(t *testing.T) {
	pool, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer pool.Close()

	mock.ExpectExec("DELETE FROM prospects WHERE id").
		WithArgs(int64(31)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	deleted, err := DeleteProspect(context.Background(), pool, 31)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecommendedProspects_EnoughHighInterest(t *testing.T) {
	pool, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer pool.Close()

	rows := sqlmock.NewRows(prospectRowColumns).
		AddRow(prospectRow(31, 3, "Gym Ueno", models.InterestHigh, models.ProspectStatusNew)...).
		AddRow(prospectRow(32, 3, "Bar Ebisu", models.InterestHigh, models.ProspectStatusContacted)...)

	mock.ExpectQuery("SELECT (.+) FROM prospects WHERE status = ANY(.+) AND interest_level").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), 2).
		WillReturnRows(rows)

	prospects, err := RecommendedProspects(context.Background(), pool, nil, 2)
	require.NoError(t, err)
	require.Len(t, prospects, 2)
	assert.Equal(t, int64(31), prospects[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecommendedProspects_TopsUpWithFollowUps(t *testing.T) {
	pool, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer pool.Close()

	highInterest := sqlmock.NewRows(prospectRowColumns).
		AddRow(prospectRow(31, 3, "Gym Ueno", models.InterestHigh, models.ProspectStatusNew)...)

	mock.ExpectQuery("SELECT (.+) FROM prospects WHERE status = ANY(.+) AND user_id = (.+) AND interest_level").
		WithArgs(sqlmock.AnyArg(), int64(3), sqlmock.AnyArg(), 3).
		WillReturnRows(highInterest)

	followUps := sqlmock.NewRows(prospectRowColumns).
		AddRow(prospectRow(33, 3, "Cafe Nakano", "medium", models.ProspectStatusContacted)...).
		AddRow(prospectRow(34, 3, "Shop Asakusa", "low", models.ProspectStatusNew)...)

	mock.ExpectQuery("SELECT (.+) FROM prospects WHERE status = ANY(.+) AND user_id = (.+) ORDER BY next_follow_up_date").
		WithArgs(sqlmock.AnyArg(), int64(3), sqlmock.AnyArg(), 2).
		WillReturnRows(followUps)

	ownerID := int64(3)
	prospects, err := RecommendedProspects(context.Background(), pool, &ownerID, 3)
	require.NoError(t, err)
	require.Len(t, prospects, 3)
	assert.Equal(t, int64(31), prospects[0].ID)
	assert.Equal(t, int64(33), prospects[1].ID)
	assert.Equal(t, int64(34), prospects[2].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
