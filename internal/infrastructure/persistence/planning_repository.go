package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/landscape/backend/internal/domain/planning"
	"github.com/landscape/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormAreaRepository implements AreaRepository using GORM
type GormAreaRepository struct {
	db *gorm.DB
}

// NewGormAreaRepository creates a new GormAreaRepository
func NewGormAreaRepository(db *gorm.DB) *GormAreaRepository {
	return &GormAreaRepository{db: db}
}

// FindByID finds an area by its ID
func (r *GormAreaRepository) FindByID(ctx context.Context, id uuid.UUID) (*planning.Area, error) {
	var a planning.Area
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// FindByProject lists a project's areas in display order
func (r *GormAreaRepository) FindByProject(ctx context.Context, projectID uuid.UUID) ([]planning.Area, error) {
	var areas []planning.Area
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("sort_order ASC, code ASC").
		Find(&areas).Error; err != nil {
		return nil, err
	}
	return areas, nil
}

// ExistsByCode checks whether the project already has an area with code
func (r *GormAreaRepository) ExistsByCode(ctx context.Context, projectID uuid.UUID, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&planning.Area{}).
		Where("project_id = ? AND code = ?", projectID, strings.ToUpper(code)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates an area
func (r *GormAreaRepository) Save(ctx context.Context, a *planning.Area) error {
	return translateError(r.db.WithContext(ctx).Save(a).Error, "area")
}

// Delete deletes an area; phases and parcels keep existing with area_id cleared
func (r *GormAreaRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{&planning.Phase{}, &planning.Parcel{}} {
			if err := tx.Model(model).Where("area_id = ?", id).Update("area_id", nil).Error; err != nil {
				return err
			}
		}
		return deleteByID(ctx, tx, &planning.Area{}, id)
	})
}

// GormPhaseRepository implements PhaseRepository using GORM
type GormPhaseRepository struct {
	db *gorm.DB
}

// NewGormPhaseRepository creates a new GormPhaseRepository
func NewGormPhaseRepository(db *gorm.DB) *GormPhaseRepository {
	return &GormPhaseRepository{db: db}
}

// FindByID finds a phase by its ID
func (r *GormPhaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*planning.Phase, error) {
	var p planning.Phase
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindByProject lists a project's phases in display order
func (r *GormPhaseRepository) FindByProject(ctx context.Context, projectID uuid.UUID) ([]planning.Phase, error) {
	var phases []planning.Phase
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("sort_order ASC, code ASC").
		Find(&phases).Error; err != nil {
		return nil, err
	}
	return phases, nil
}

// ExistsByCode checks whether the project already has a phase with code
func (r *GormPhaseRepository) ExistsByCode(ctx context.Context, projectID uuid.UUID, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&planning.Phase{}).
		Where("project_id = ? AND code = ?", projectID, strings.ToUpper(code)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a phase
func (r *GormPhaseRepository) Save(ctx context.Context, p *planning.Phase) error {
	return translateError(r.db.WithContext(ctx).Save(p).Error, "phase")
}

// Delete deletes a phase; parcels keep existing with phase_id cleared
func (r *GormPhaseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&planning.Parcel{}).Where("phase_id = ?", id).Update("phase_id", nil).Error; err != nil {
			return err
		}
		return deleteByID(ctx, tx, &planning.Phase{}, id)
	})
}

// GormParcelRepository implements ParcelRepository using GORM
type GormParcelRepository struct {
	db *gorm.DB
}

// NewGormParcelRepository creates a new GormParcelRepository
func NewGormParcelRepository(db *gorm.DB) *GormParcelRepository {
	return &GormParcelRepository{db: db}
}

// FindByID finds a parcel by its ID
func (r *GormParcelRepository) FindByID(ctx context.Context, id uuid.UUID) (*planning.Parcel, error) {
	var p planning.Parcel
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindByProject lists a project's parcels matching the filter
func (r *GormParcelRepository) FindByProject(ctx context.Context, projectID uuid.UUID, filter shared.Filter) ([]planning.Parcel, error) {
	var parcels []planning.Parcel
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&planning.Parcel{}).Where("project_id = ?", projectID), filter)
	query = paginate(query, filter, ParcelSortFields, "name")
	if err := query.Find(&parcels).Error; err != nil {
		return nil, err
	}
	return parcels, nil
}

// CountByProject counts a project's parcels matching the filter
func (r *GormParcelRepository) CountByProject(ctx context.Context, projectID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&planning.Parcel{}).Where("project_id = ?", projectID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindAPNs returns the non-empty APNs already recorded for a project
func (r *GormParcelRepository) FindAPNs(ctx context.Context, projectID uuid.UUID) ([]string, error) {
	var apns []string
	if err := r.db.WithContext(ctx).Model(&planning.Parcel{}).
		Where("project_id = ? AND apn <> ''", projectID).
		Pluck("apn", &apns).Error; err != nil {
		return nil, err
	}
	return apns, nil
}

// Save creates or updates a parcel
func (r *GormParcelRepository) Save(ctx context.Context, p *planning.Parcel) error {
	return translateError(r.db.WithContext(ctx).Save(p).Error, "parcel")
}

// SaveBatch inserts new parcels in one transaction
func (r *GormParcelRepository) SaveBatch(ctx context.Context, parcels []*planning.Parcel) error {
	if len(parcels) == 0 {
		return nil
	}
	return translateError(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(parcels, 100).Error
	}), "parcel")
}

// Delete deletes a parcel
func (r *GormParcelRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &planning.Parcel{}, id)
}

// SummarizeByLandUse groups a project's parcels by taxonomy, or by raw
// land-use code for parcels whose code resolves to nothing. A parcel without
// a stored taxonomy id resolves the way the land-use analysis matches: exact
// taxonomy code first, then a recorded mapping.
func (r *GormParcelRepository) SummarizeByLandUse(ctx context.Context, projectID uuid.UUID) ([]planning.LandUseTotal, error) {
	const resolved = "COALESCE(parcels.taxonomy_id, lt.id, lm.taxonomy_id)"
	var totals []planning.LandUseTotal
	err := r.db.WithContext(ctx).Model(&planning.Parcel{}).
		Select(resolved+` AS taxonomy_id,
			CASE WHEN `+resolved+` IS NULL THEN parcels.landuse_code ELSE '' END AS land_use_code,
			COUNT(*) AS parcel_count,
			COALESCE(SUM(parcels.acres), 0) AS acres,
			COALESCE(SUM(parcels.units), 0) AS units`).
		Joins("LEFT JOIN landuse_taxonomy lt ON lt.code = parcels.landuse_code").
		Joins("LEFT JOIN landuse_code_mappings lm ON lm.legacy_code = parcels.landuse_code").
		Where("parcels.project_id = ?", projectID).
		Group(resolved + ", CASE WHEN " + resolved + " IS NULL THEN parcels.landuse_code ELSE '' END").
		Order("parcel_count DESC").
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return totals, nil
}

func (r *GormParcelRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		p := likePattern(filter.Search)
		query = query.Where("LOWER(name) LIKE ? OR LOWER(apn) LIKE ?", p, p)
	}
	for key, value := range filter.Filters {
		switch key {
		case "area_id", "phase_id", "landuse_code", "taxonomy_id", "status":
			query = query.Where(key+" = ?", value)
		case "unmapped":
			if b, ok := value.(bool); ok && b {
				query = query.Where("taxonomy_id IS NULL")
			}
		}
	}
	return query
}

var (
	_ planning.AreaRepository   = (*GormAreaRepository)(nil)
	_ planning.PhaseRepository  = (*GormPhaseRepository)(nil)
	_ planning.ParcelRepository = (*GormParcelRepository)(nil)
)
