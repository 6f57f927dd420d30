package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/landscape/backend/internal/domain/budget"
	"github.com/landscape/backend/internal/domain/inventory"
	"github.com/landscape/backend/internal/domain/landuse"
	"github.com/landscape/backend/internal/domain/planning"
	"github.com/landscape/backend/internal/domain/project"
	"github.com/landscape/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormProjectRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProjectRepository(db)
	ctx := context.Background()

	p, err := project.NewProject("Peoria Ranch", project.ProjectTypeMasterPlanned)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, p))

	t.Run("duplicate name is rejected", func(t *testing.T) {
		dup, err := project.NewProject("Peoria Ranch", project.ProjectTypeMasterPlanned)
		require.NoError(t, err)
		err = repo.Save(ctx, dup)
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("search is case-insensitive", func(t *testing.T) {
		found, err := repo.FindAll(ctx, shared.Filter{Search: "peoria"})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, p.ID, found[0].ID)

		count, err := repo.Count(ctx, shared.Filter{Search: "mesa"})
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("delete of unknown id is not found", func(t *testing.T) {
		err := repo.Delete(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func seedCategories(t *testing.T, repo *GormBudgetCategoryRepository, projectID uuid.UUID) (*budget.Category, *budget.Category) {
	t.Helper()
	ctx := context.Background()
	land, err := budget.NewCategory(projectID, nil, "LAND", "Land")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, land))
	acq, err := budget.NewCategory(projectID, land, "ACQ", "Acquisition")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, acq))
	return land, acq
}

func TestGormBudgetCategoryRepository_ApplyCopy(t *testing.T) {
	ctx := context.Background()

	plan := func(t *testing.T, projectID uuid.UUID) []*budget.Category {
		hard, err := budget.NewCategory(projectID, nil, "HARD", "Hard Costs")
		require.NoError(t, err)
		site, err := budget.NewCategory(projectID, hard, "SITE", "Site Work")
		require.NoError(t, err)
		return []*budget.Category{hard, site}
	}

	t.Run("seeds an empty project", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewGormBudgetCategoryRepository(db)
		projectID := uuid.New()

		deleted, err := repo.ApplyCopy(ctx, projectID, plan(t, projectID), false)
		require.NoError(t, err)
		assert.Zero(t, deleted)

		count, err := repo.CountByProject(ctx, projectID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("conflict when categories exist and overwrite is off", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewGormBudgetCategoryRepository(db)
		projectID := uuid.New()
		seedCategories(t, repo, projectID)

		_, err := repo.ApplyCopy(ctx, projectID, plan(t, projectID), false)
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrConflict)

		var de *shared.DomainError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, map[string]any{"existing_categories": int64(2)}, de.Details)

		cats, err := repo.FindByProject(ctx, projectID)
		require.NoError(t, err)
		require.Len(t, cats, 2)
		codes := []string{cats[0].Code, cats[1].Code}
		assert.ElementsMatch(t, []string{"LAND", "ACQ"}, codes)
	})

	t.Run("overwrite replaces the tree and its items", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewGormBudgetCategoryRepository(db)
		items := NewGormBudgetItemRepository(db)
		projectID := uuid.New()
		_, acq := seedCategories(t, repo, projectID)

		item, err := budget.NewItem(acq, "Purchase price", decimal.NewFromInt(1), decimal.NewFromInt(2500000))
		require.NoError(t, err)
		require.NoError(t, items.Save(ctx, item))

		deleted, err := repo.ApplyCopy(ctx, projectID, plan(t, projectID), true)
		require.NoError(t, err)
		assert.Equal(t, int64(2), deleted)

		cats, err := repo.FindByProject(ctx, projectID)
		require.NoError(t, err)
		require.Len(t, cats, 2)
		for _, c := range cats {
			assert.Contains(t, []string{"HARD", "SITE"}, c.Code)
		}

		itemCount, err := items.CountByProject(ctx, projectID, shared.Filter{})
		require.NoError(t, err)
		assert.Zero(t, itemCount)
	})
}

func TestGormBudgetItemRepository_TotalsByCategory(t *testing.T) {
	db := setupTestDB(t)
	cats := NewGormBudgetCategoryRepository(db)
	items := NewGormBudgetItemRepository(db)
	ctx := context.Background()
	projectID := uuid.New()
	_, acq := seedCategories(t, cats, projectID)

	for _, cost := range []int64{1000, 250} {
		it, err := budget.NewItem(acq, "Line", decimal.NewFromInt(2), decimal.NewFromInt(cost))
		require.NoError(t, err)
		require.NoError(t, items.Save(ctx, it))
	}

	totals, err := items.TotalsByCategory(ctx, projectID)
	require.NoError(t, err)
	require.Len(t, totals, 1)
	assert.Equal(t, acq.ID, totals[0].CategoryID)
	assert.True(t, totals[0].Total.Equal(decimal.NewFromInt(2500)), "got %s", totals[0].Total)
}

func TestGormMappingRepository(t *testing.T) {
	db := setupTestDB(t)
	parcels := NewGormParcelRepository(db)
	taxonomies := NewGormTaxonomyRepository(db)
	mappings := NewGormMappingRepository(db)
	ctx := context.Background()

	projectA, projectB := uuid.New(), uuid.New()
	addParcel := func(projectID uuid.UUID, name, code string) {
		p, err := planning.NewParcel(projectID, name, decimal.NewFromInt(10))
		require.NoError(t, err)
		p.SetLandUseCode(code)
		require.NoError(t, parcels.Save(ctx, p))
	}
	addParcel(projectA, "A-1", "SFD")
	addParcel(projectA, "A-2", "sfd")
	addParcel(projectA, "A-3", "MF")
	addParcel(projectA, "A-4", "")
	addParcel(projectB, "B-1", "SFD")

	tax, err := landuse.NewTaxonomy("SFD-DET", "Single Family Detached", landuse.FamilyResidential)
	require.NoError(t, err)
	require.NoError(t, taxonomies.Save(ctx, tax))

	t.Run("distinct codes skip blanks and keep case", func(t *testing.T) {
		codes, err := mappings.DistinctParcelCodes(ctx, &projectA)
		require.NoError(t, err)
		got := map[string]int64{}
		for _, c := range codes {
			got[c.Code] = c.ParcelCount
		}
		assert.Equal(t, map[string]int64{"SFD": 1, "sfd": 1, "MF": 1}, got)
	})

	t.Run("apply matches the exact code within the project", func(t *testing.T) {
		m, err := landuse.NewCodeMapping("SFD", tax.ID)
		require.NoError(t, err)
		updated, err := mappings.Apply(ctx, m, &projectA)
		require.NoError(t, err)
		assert.Equal(t, int64(1), updated)

		unmapped, err := parcels.CountByProject(ctx, projectA, shared.Filter{Filters: map[string]any{"unmapped": true}})
		require.NoError(t, err)
		assert.Equal(t, int64(3), unmapped)
	})

	t.Run("re-applying without a project upserts the mapping", func(t *testing.T) {
		m, err := landuse.NewCodeMapping("SFD", tax.ID)
		require.NoError(t, err)
		updated, err := mappings.Apply(ctx, m, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(2), updated)

		all, err := mappings.FindAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("create taxonomy rolls back on duplicate code", func(t *testing.T) {
		dup, err := landuse.NewTaxonomy("SFD-DET", "Duplicate", landuse.FamilyResidential)
		require.NoError(t, err)
		m, err := landuse.NewCodeMapping("MF", dup.ID)
		require.NoError(t, err)

		_, err = mappings.CreateTaxonomyAndApply(ctx, dup, m, nil)
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)

		_, err = mappings.FindByCode(ctx, "MF")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("remove clears tagged parcels", func(t *testing.T) {
		cleared, err := mappings.Remove(ctx, "SFD")
		require.NoError(t, err)
		assert.Equal(t, int64(2), cleared)

		_, err = mappings.FindByCode(ctx, "SFD")
		assert.ErrorIs(t, err, shared.ErrNotFound)

		_, err = mappings.Remove(ctx, "SFD")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormInventoryRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormInventoryRepository(db)
	ctx := context.Background()
	projectID := uuid.New()

	add := func(unit string, price int64) *inventory.Item {
		it, err := inventory.NewItem(projectID, inventory.Listing{
			UnitNumber:  unit,
			ProductType: "SFD 50'",
			ListPrice:   decimal.NewFromInt(price),
			SquareFeet:  2000,
		})
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, it))
		return it
	}
	first := add("L-1", 500000)
	add("L-2", 520000)
	sold := add("L-3", 540000)
	price := decimal.NewFromInt(550000)
	require.NoError(t, sold.ChangeStatus(inventory.StatusSold, &price, sold.CreatedAt))
	require.NoError(t, repo.Save(ctx, sold))

	t.Run("unit numbers are unique per project", func(t *testing.T) {
		exists, err := repo.ExistsByUnitNumber(ctx, projectID, "l-1", nil)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByUnitNumber(ctx, projectID, "L-1", &first.ID)
		require.NoError(t, err)
		assert.False(t, exists)

		dup, err := inventory.NewItem(projectID, inventory.Listing{UnitNumber: "L-1", ProductType: "SFD", ListPrice: decimal.NewFromInt(1)})
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Save(ctx, dup), shared.ErrAlreadyExists)
	})

	t.Run("totals group by status", func(t *testing.T) {
		totals, err := repo.TotalsByStatus(ctx, projectID)
		require.NoError(t, err)
		summary := inventory.BuildSummary(totals)
		assert.Equal(t, int64(3), summary.TotalUnits)
		assert.Equal(t, int64(2), summary.Count(inventory.StatusAvailable))
		assert.Equal(t, int64(1), summary.Count(inventory.StatusSold))
		assert.True(t, summary.SaleValue.Equal(price), "got %s", summary.SaleValue)
	})

	t.Run("filters by status", func(t *testing.T) {
		items, err := repo.FindByProject(ctx, projectID, shared.Filter{Filters: map[string]any{"status": "available"}})
		require.NoError(t, err)
		assert.Len(t, items, 2)
	})
}

func TestGormMappingRepository_ApplyPaddedLegacyCode(t *testing.T) {
	db := setupTestDB(t)
	parcels := NewGormParcelRepository(db)
	mappings := NewGormMappingRepository(db)
	ctx := context.Background()
	projectID := uuid.New()

	// legacy rows loaded outside the API keep their padding
	for _, name := range []string{"L-1", "L-2"} {
		p, err := planning.NewParcel(projectID, name, decimal.NewFromInt(5))
		require.NoError(t, err)
		p.LandUseCode = " RES-1 "
		require.NoError(t, parcels.Save(ctx, p))
	}

	taxonomyID := uuid.New()
	m, err := landuse.NewCodeMapping(" RES-1 ", taxonomyID)
	require.NoError(t, err)
	updated, err := mappings.Apply(ctx, m, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated)

	tagged, err := parcels.CountByProject(ctx, projectID, shared.Filter{Filters: map[string]any{"taxonomy_id": taxonomyID}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), tagged)

	stored, err := mappings.FindByCode(ctx, " RES-1 ")
	require.NoError(t, err)
	assert.Equal(t, " RES-1 ", stored.LegacyCode)

	cleared, err := mappings.Remove(ctx, " RES-1 ")
	require.NoError(t, err)
	assert.Equal(t, int64(2), cleared)
}

func TestGormParcelRepository_SummarizeByLandUse(t *testing.T) {
	db := setupTestDB(t)
	parcels := NewGormParcelRepository(db)
	taxonomies := NewGormTaxonomyRepository(db)
	mappings := NewGormMappingRepository(db)
	ctx := context.Background()
	projectID := uuid.New()

	sfr, err := landuse.NewTaxonomy("SFR", "Single Family Residential", landuse.FamilyResidential)
	require.NoError(t, err)
	require.NoError(t, taxonomies.Save(ctx, sfr))
	m, err := landuse.NewCodeMapping("R-1", sfr.ID)
	require.NoError(t, err)
	_, err = mappings.Apply(ctx, m, nil)
	require.NoError(t, err)

	// none of these parcels carries a taxonomy id
	for _, code := range []string{"SFR", "R-1", "COMM"} {
		p, err := planning.NewParcel(projectID, "Lot "+code, decimal.NewFromInt(10))
		require.NoError(t, err)
		p.SetLandUseCode(code)
		require.NoError(t, parcels.Save(ctx, p))
	}

	totals, err := parcels.SummarizeByLandUse(ctx, projectID)
	require.NoError(t, err)
	require.Len(t, totals, 2)

	byCode := map[string]planning.LandUseTotal{}
	for _, tot := range totals {
		byCode[tot.LandUseCode] = tot
	}
	mapped := byCode[""]
	require.NotNil(t, mapped.TaxonomyID)
	assert.Equal(t, sfr.ID, *mapped.TaxonomyID)
	assert.Equal(t, int64(2), mapped.ParcelCount)

	raw := byCode["COMM"]
	assert.Nil(t, raw.TaxonomyID)
	assert.Equal(t, int64(1), raw.ParcelCount)
}
