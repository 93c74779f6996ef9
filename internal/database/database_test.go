package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type widget struct {
	ID   int64  `gorm:"primaryKey"`
	Code string `gorm:"not null"`
	Kind string `gorm:"not null"`
}

func TestConnectAndMigrate_SQLite(t *testing.T) {
	db, err := Connect(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()), nil)
	require.NoError(t, err)

	err = Migrate(db, []any{&widget{}}, []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_widgets_live_code ON widgets (code) WHERE kind = 'live'`,
	})
	require.NoError(t, err)

	require.NoError(t, db.Create(&widget{Code: "a", Kind: "live"}).Error)
	require.NoError(t, db.Create(&widget{Code: "a", Kind: "archived"}).Error)

	err = db.Create(&widget{Code: "a", Kind: "live"}).Error
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, IsUniqueViolation(nil))
	assert.False(t, IsUniqueViolation(errors.New("connection refused")))
	assert.True(t, IsUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "40001"}))
	assert.True(t, IsUniqueViolation(errors.New("constraint failed: UNIQUE constraint failed: widgets.code (2067)")))
}

func TestIsPostgres(t *testing.T) {
	assert.True(t, IsPostgres("postgres://u:p@localhost/db"))
	assert.True(t, IsPostgres("postgresql://localhost/db"))
	assert.False(t, IsPostgres("agencyhub.db"))
}
