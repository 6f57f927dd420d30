package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/landscape/backend/internal/domain/finance"
	"github.com/landscape/backend/internal/domain/shared"
	"github.com/landscape/backend/internal/domain/valuation"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormDebtFacilityRepository implements finance.DebtFacilityRepository using GORM
type GormDebtFacilityRepository struct {
	db *gorm.DB
}

// NewGormDebtFacilityRepository creates a new GormDebtFacilityRepository
func NewGormDebtFacilityRepository(db *gorm.DB) *GormDebtFacilityRepository {
	return &GormDebtFacilityRepository{db: db}
}

// FindByID finds a facility by its ID
func (r *GormDebtFacilityRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.DebtFacility, error) {
	var f finance.DebtFacility
	if err := r.db.WithContext(ctx).First(&f, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}

// FindByProject lists a project's facilities by start date
func (r *GormDebtFacilityRepository) FindByProject(ctx context.Context, projectID uuid.UUID) ([]finance.DebtFacility, error) {
	var facilities []finance.DebtFacility
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("start_date ASC, name ASC").
		Find(&facilities).Error; err != nil {
		return nil, err
	}
	return facilities, nil
}

// TotalCommitment sums the commitments of a project's facilities
func (r *GormDebtFacilityRepository) TotalCommitment(ctx context.Context, projectID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.NullDecimal
	}
	if err := r.db.WithContext(ctx).Model(&finance.DebtFacility{}).
		Select("SUM(commitment) AS total").
		Where("project_id = ?", projectID).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	if !result.Total.Valid {
		return decimal.Zero, nil
	}
	return result.Total.Decimal, nil
}

// Save creates or updates a facility
func (r *GormDebtFacilityRepository) Save(ctx context.Context, f *finance.DebtFacility) error {
	return translateError(r.db.WithContext(ctx).Save(f).Error, "debt facility")
}

// Delete deletes a facility
func (r *GormDebtFacilityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &finance.DebtFacility{}, id)
}

// GormScenarioRepository implements valuation.ScenarioRepository using GORM
type GormScenarioRepository struct {
	db *gorm.DB
}

// NewGormScenarioRepository creates a new GormScenarioRepository
func NewGormScenarioRepository(db *gorm.DB) *GormScenarioRepository {
	return &GormScenarioRepository{db: db}
}

// FindByID finds a scenario by its ID
func (r *GormScenarioRepository) FindByID(ctx context.Context, id uuid.UUID) (*valuation.Scenario, error) {
	var s valuation.Scenario
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// FindByProject lists a project's scenarios, most recently changed first
func (r *GormScenarioRepository) FindByProject(ctx context.Context, projectID uuid.UUID) ([]valuation.Scenario, error) {
	var scenarios []valuation.Scenario
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("updated_at DESC").
		Find(&scenarios).Error; err != nil {
		return nil, err
	}
	return scenarios, nil
}

// FindLatest returns the most recently changed scenario of a project
func (r *GormScenarioRepository) FindLatest(ctx context.Context, projectID uuid.UUID) (*valuation.Scenario, error) {
	var s valuation.Scenario
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("updated_at DESC").
		First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Save creates or updates a scenario
func (r *GormScenarioRepository) Save(ctx context.Context, s *valuation.Scenario) error {
	return translateError(r.db.WithContext(ctx).Save(s).Error, "valuation scenario")
}

// Delete deletes a scenario
func (r *GormScenarioRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &valuation.Scenario{}, id)
}

var (
	_ finance.DebtFacilityRepository = (*GormDebtFacilityRepository)(nil)
	_ valuation.ScenarioRepository   = (*GormScenarioRepository)(nil)
)
