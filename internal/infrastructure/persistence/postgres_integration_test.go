//go:build integration

package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/landscape/backend/internal/domain/budget"
	"github.com/landscape/backend/internal/domain/project"
	"github.com/landscape/backend/internal/domain/shared"
	"github.com/landscape/backend/internal/infrastructure/migration"
	"github.com/landscape/backend/migrations"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newPostgresDB starts a throwaway Postgres container with the schema migrated
func newPostgresDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("landscape_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "failed to start postgres container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{
		Logger:                 gormlogger.Discard,
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	m, err := migration.NewEmbedded(sqlDB, migrations.FS, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, m.Up())
	return db
}

func TestPostgres_Migrations(t *testing.T) {
	db := newPostgresDB(t)

	var seeded int64
	require.NoError(t, db.Raw("SELECT COUNT(*) FROM landuse_taxonomy").Scan(&seeded).Error)
	assert.Positive(t, seeded, "taxonomy seed rows")
}

func TestPostgres_ProjectRepository(t *testing.T) {
	db := newPostgresDB(t)
	repo := NewGormProjectRepository(db)
	ctx := context.Background()

	p, err := project.NewProject("Verrado West", project.ProjectTypeMasterPlanned)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, p))

	found, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Verrado West", found.Name)

	dup, err := project.NewProject("Verrado West", project.ProjectTypeMasterPlanned)
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Save(ctx, dup), shared.ErrAlreadyExists)

	assert.ErrorIs(t, repo.Delete(ctx, uuid.New()), shared.ErrNotFound)
}

func TestPostgres_ApplyCopyIsAtomic(t *testing.T) {
	db := newPostgresDB(t)
	ctx := context.Background()
	projects := NewGormProjectRepository(db)
	categories := NewGormBudgetCategoryRepository(db)
	items := NewGormBudgetItemRepository(db)

	p, err := project.NewProject("Estrella Commons", project.ProjectTypeMasterPlanned)
	require.NoError(t, err)
	require.NoError(t, projects.Save(ctx, p))

	land, err := budget.NewCategory(p.ID, nil, "LAND", "Land")
	require.NoError(t, err)
	require.NoError(t, categories.Save(ctx, land))
	item, err := budget.NewItem(land, "Purchase price", decimal.NewFromInt(1), decimal.NewFromInt(4200000))
	require.NoError(t, err)
	require.NoError(t, items.Save(ctx, item))

	hard, err := budget.NewCategory(p.ID, nil, "HARD", "Hard Costs")
	require.NoError(t, err)
	site, err := budget.NewCategory(p.ID, hard, "SITE", "Site Work")
	require.NoError(t, err)

	_, err = categories.ApplyCopy(ctx, p.ID, []*budget.Category{hard, site}, false)
	require.ErrorIs(t, err, shared.ErrConflict)

	removed, err := categories.ApplyCopy(ctx, p.ID, []*budget.Category{hard, site}, true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	cats, err := categories.FindByProject(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, cats, 2)
	itemCount, err := items.CountByProject(ctx, p.ID, shared.Filter{})
	require.NoError(t, err)
	assert.Zero(t, itemCount)
}
