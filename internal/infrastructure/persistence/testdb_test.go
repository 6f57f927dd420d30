package persistence

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/landscape/backend/internal/domain/budget"
	"github.com/landscape/backend/internal/domain/contact"
	"github.com/landscape/backend/internal/domain/dms"
	"github.com/landscape/backend/internal/domain/finance"
	"github.com/landscape/backend/internal/domain/inventory"
	"github.com/landscape/backend/internal/domain/landuse"
	"github.com/landscape/backend/internal/domain/planning"
	"github.com/landscape/backend/internal/domain/project"
	"github.com/landscape/backend/internal/domain/valuation"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupTestDB opens an in-memory SQLite database with every table migrated.
// One connection keeps the in-memory database shared across queries.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&project.Project{}, &project.Boundary{},
		&planning.Area{}, &planning.Phase{}, &planning.Parcel{},
		&landuse.Taxonomy{}, &landuse.CodeMapping{},
		&budget.Template{}, &budget.TemplateCategory{}, &budget.Category{}, &budget.Item{},
		&finance.DebtFacility{}, &valuation.Scenario{}, &contact.Contact{},
		&dms.Attribute{}, &dms.Template{}, &dms.Document{},
		&inventory.Item{},
	))
	return db
}

// newMockDB returns a Postgres-dialect gorm.DB backed by sqlmock
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{SkipDefaultTransaction: true, Logger: gormlogger.Discard})
	require.NoError(t, err)
	return gormDB, mock, mockDB
}
