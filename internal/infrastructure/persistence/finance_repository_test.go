package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/landscape/backend/internal/domain/finance"
	"github.com/landscape/backend/internal/domain/shared"
	"github.com/landscape/backend/internal/domain/valuation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestGormDebtFacilityRepository_FindByID(t *testing.T) {
	t.Run("finds existing facility", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormDebtFacilityRepository(db)

		id, projectID := uuid.New(), uuid.New()
		rows := sqlmock.NewRows([]string{"id", "project_id", "name", "facility_type", "commitment", "interest_rate", "term_months"}).
			AddRow(id, projectID, "Land loan", "land", "12000000.00", "7.2500", 36)
		mock.ExpectQuery(`SELECT \* FROM "debt_facilities" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(id, 1).
			WillReturnRows(rows)

		f, err := repo.FindByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, finance.FacilityTypeLand, f.FacilityType)
		assert.True(t, f.Commitment.Equal(decimal.NewFromInt(12000000)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps missing row to not found", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormDebtFacilityRepository(db)

		id := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "debt_facilities" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(id, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := repo.FindByID(context.Background(), id)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormDebtFacilityRepository_TotalCommitment(t *testing.T) {
	t.Run("sums commitments", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormDebtFacilityRepository(db)

		projectID := uuid.New()
		mock.ExpectQuery(`SELECT SUM\(commitment\) AS total FROM "debt_facilities" WHERE project_id = \$1`).
			WithArgs(projectID).
			WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow("18500000.00"))

		total, err := repo.TotalCommitment(context.Background(), projectID)
		require.NoError(t, err)
		assert.True(t, total.Equal(decimal.NewFromInt(18500000)), "got %s", total)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no facilities sums to zero", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormDebtFacilityRepository(db)

		projectID := uuid.New()
		mock.ExpectQuery(`SELECT SUM\(commitment\) AS total FROM "debt_facilities"`).
			WithArgs(projectID).
			WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(nil))

		total, err := repo.TotalCommitment(context.Background(), projectID)
		require.NoError(t, err)
		assert.True(t, total.IsZero())
	})
}

func TestGormDebtFacilityRepository_SaveAndList(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormDebtFacilityRepository(db)
	ctx := context.Background()
	projectID := uuid.New()

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, amount := range []int64{4000000, 6000000} {
		f, err := finance.NewDebtFacility(projectID, []string{"Land", "Construction"}[i], "First Bank", finance.FacilityTypeConstruction, finance.Terms{
			Commitment:   decimal.NewFromInt(amount),
			InterestRate: decimal.RequireFromString("6.5"),
			TermMonths:   24,
			StartDate:    start.AddDate(0, i*6, 0),
		})
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, f))
	}

	list, err := repo.FindByProject(ctx, projectID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Land", list[0].Name)

	total, err := repo.TotalCommitment(ctx, projectID)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(10000000)), "got %s", total)

	assert.ErrorIs(t, repo.Delete(ctx, uuid.New()), shared.ErrNotFound)
}

func TestGormScenarioRepository_FindLatest(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormScenarioRepository(db)
	ctx := context.Background()
	projectID := uuid.New()

	_, err := repo.FindLatest(ctx, projectID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	var last *valuation.Scenario
	for _, name := range []string{"Base", "Downside"} {
		s, err := valuation.NewScenario(projectID, valuation.Assumptions{
			Name:         name,
			PeriodType:   valuation.PeriodAnnual,
			DiscountRate: decimal.NewFromInt(10),
			CashFlows:    []decimal.Decimal{decimal.NewFromInt(-1000), decimal.NewFromInt(600), decimal.NewFromInt(600)},
		})
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, s))
		last = s
		// updated_at is stamped on save
		time.Sleep(5 * time.Millisecond)
	}

	got, err := repo.FindLatest(ctx, projectID)
	require.NoError(t, err)
	assert.Equal(t, last.ID, got.ID)
	assert.Len(t, got.CashFlows, 3)
}
