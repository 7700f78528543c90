// Package testutil provides sqlite-backed fixtures for repository and usecase tests.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	authdomain "notify-backend/internal/auth/domain"
	contentdomain "notify-backend/internal/content/domain"
	pushdomain "notify-backend/internal/push/domain"
	"notify-backend/internal/schema"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens an isolated in-memory sqlite database with all tables migrated
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(schema.Models()...))
	return db
}

// SeedUser inserts a user with the given id and language
func SeedUser(t *testing.T, db *gorm.DB, id, language string) *authdomain.User {
	t.Helper()
	user := &authdomain.User{
		ID:       id,
		Email:    id + "@example.com",
		Name:     "User " + id,
		Language: language,
	}
	require.NoError(t, db.WithContext(context.Background()).Create(user).Error)
	return user
}

// SeedToken inserts a device token row directly
func SeedToken(t *testing.T, db *gorm.DB, userID, token string, enabled bool, updatedAt time.Time) *pushdomain.DeviceToken {
	t.Helper()
	row := &pushdomain.DeviceToken{
		ID:        uuid.NewString(),
		UserID:    userID,
		Token:     token,
		Platform:  pushdomain.PlatformMobile,
		Enabled:   enabled,
		CreatedAt: updatedAt,
		UpdatedAt: updatedAt,
	}
	require.NoError(t, db.Create(row).Error)
	return row
}

// SeedPreference stores a preference row with the random broadcast flag set
func SeedPreference(t *testing.T, db *gorm.DB, userID string, randomBooks bool) {
	t.Helper()
	pref := pushdomain.DefaultPreference(userID)
	pref.RandomBooksEnabled = randomBooks
	require.NoError(t, db.Create(&pref).Error)
}

// SeedBook inserts a book; id is generated when empty
func SeedBook(t *testing.T, db *gorm.DB, book contentdomain.Book) contentdomain.Book {
	t.Helper()
	if book.ID == "" {
		book.ID = uuid.NewString()
	}
	require.NoError(t, db.Create(&book).Error)
	return book
}
