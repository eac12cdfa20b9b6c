package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"taskpilot/internal/model"
)

var categoryColumns = []string{"id", "name", "normalized_name", "user_id", "created_at", "updated_at"}

func TestCategoryRepository_ListByUser(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCategoryRepository(db)

	userID := uuid.New()
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `categories` WHERE user_id = ? ORDER BY name ASC")).
		WillReturnRows(sqlmock.NewRows(categoryColumns).
			AddRow(uuid.NewString(), "Personal", "personal", userID.String(), now, now).
			AddRow(uuid.NewString(), "Work", "work", userID.String(), now, now))

	categories, err := repo.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Personal", categories[0].Name)
	assert.Equal(t, userID, categories[1].UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepository_Create_Duplicate(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCategoryRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `categories`")).
		WillReturnError(&mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry"})

	err := repo.Create(context.Background(), &model.Category{Name: "Work", NormalizedName: "work", UserID: uuid.New()})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestCategoryRepository_FindByIDForUser_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCategoryRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `categories` WHERE id = ? AND user_id = ?")).
		WillReturnRows(sqlmock.NewRows(categoryColumns))

	_, err := repo.FindByIDForUser(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCategoryRepository_FindByIDsForUser(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCategoryRepository(db)

	userID := uuid.New()
	id := uuid.New()
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `categories` WHERE user_id = ? AND id IN (")).
		WillReturnRows(sqlmock.NewRows(categoryColumns).
			AddRow(id.String(), "Work", "work", userID.String(), now, now))

	categories, err := repo.FindByIDsForUser(context.Background(), userID, []uuid.UUID{id, uuid.New()})
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, id, categories[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepository_FindByIDsForUser_Empty(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCategoryRepository(db)

	categories, err := repo.FindByIDsForUser(context.Background(), uuid.New(), nil)
	require.NoError(t, err)
	assert.Empty(t, categories)
	assert.NoError(t, mock.ExpectationsWereMet())
}
