package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/landscape/backend/internal/domain/landuse"
	"github.com/landscape/backend/internal/domain/planning"
	"github.com/landscape/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaxonomyRepository implements TaxonomyRepository using GORM
type GormTaxonomyRepository struct {
	db *gorm.DB
}

// NewGormTaxonomyRepository creates a new GormTaxonomyRepository
func NewGormTaxonomyRepository(db *gorm.DB) *GormTaxonomyRepository {
	return &GormTaxonomyRepository{db: db}
}

// FindByID finds a taxonomy entry by its ID
func (r *GormTaxonomyRepository) FindByID(ctx context.Context, id uuid.UUID) (*landuse.Taxonomy, error) {
	var t landuse.Taxonomy
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// FindByCode finds a taxonomy entry by its exact code
func (r *GormTaxonomyRepository) FindByCode(ctx context.Context, code string) (*landuse.Taxonomy, error) {
	var t landuse.Taxonomy
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// FindAll lists taxonomy entries matching the filter. A zero PageSize returns every entry.
func (r *GormTaxonomyRepository) FindAll(ctx context.Context, filter shared.Filter) ([]landuse.Taxonomy, error) {
	var items []landuse.Taxonomy
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&landuse.Taxonomy{}), filter)
	query = paginate(query, filter, TaxonomySortFields, "code")
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Count counts taxonomy entries matching the filter
func (r *GormTaxonomyRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&landuse.Taxonomy{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByCode checks whether a taxonomy entry with exactly this code exists
func (r *GormTaxonomyRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&landuse.Taxonomy{}).Where("code = ?", code).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a taxonomy entry
func (r *GormTaxonomyRepository) Save(ctx context.Context, t *landuse.Taxonomy) error {
	return translateError(r.db.WithContext(ctx).Save(t).Error, "taxonomy code")
}

// Delete removes a taxonomy entry together with its mappings and clears
// parcel references to it.
func (r *GormTaxonomyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&planning.Parcel{}).Where("taxonomy_id = ?", id).Update("taxonomy_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("taxonomy_id = ?", id).Delete(&landuse.CodeMapping{}).Error; err != nil {
			return err
		}
		return deleteByID(ctx, tx, &landuse.Taxonomy{}, id)
	})
}

func (r *GormTaxonomyRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		p := likePattern(filter.Search)
		query = query.Where("LOWER(code) LIKE ? OR LOWER(name) LIKE ?", p, p)
	}
	for key, value := range filter.Filters {
		switch key {
		case "family", "active":
			query = query.Where(key+" = ?", value)
		}
	}
	return query
}

// GormMappingRepository implements MappingRepository using GORM
type GormMappingRepository struct {
	db *gorm.DB
}

// NewGormMappingRepository creates a new GormMappingRepository
func NewGormMappingRepository(db *gorm.DB) *GormMappingRepository {
	return &GormMappingRepository{db: db}
}

// DistinctParcelCodes returns each non-empty parcel land-use code with its parcel count
func (r *GormMappingRepository) DistinctParcelCodes(ctx context.Context, projectID *uuid.UUID) ([]landuse.CodeCount, error) {
	var counts []landuse.CodeCount
	query := r.db.WithContext(ctx).Model(&planning.Parcel{}).
		Select("landuse_code AS code, COUNT(*) AS parcel_count").
		Where("landuse_code IS NOT NULL AND landuse_code <> ''")
	if projectID != nil {
		query = query.Where("project_id = ?", *projectID)
	}
	if err := query.Group("landuse_code").Order("landuse_code").Scan(&counts).Error; err != nil {
		return nil, err
	}
	return counts, nil
}

// FindAll lists every mapping
func (r *GormMappingRepository) FindAll(ctx context.Context) ([]landuse.CodeMapping, error) {
	var mappings []landuse.CodeMapping
	if err := r.db.WithContext(ctx).Order("legacy_code").Find(&mappings).Error; err != nil {
		return nil, err
	}
	return mappings, nil
}

// FindByCode finds the mapping for an exact legacy code
func (r *GormMappingRepository) FindByCode(ctx context.Context, legacyCode string) (*landuse.CodeMapping, error) {
	var m landuse.CodeMapping
	if err := r.db.WithContext(ctx).Where("legacy_code = ?", legacyCode).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// Apply upserts the mapping and tags matching parcels
func (r *GormMappingRepository) Apply(ctx context.Context, mapping *landuse.CodeMapping, projectID *uuid.UUID) (int64, error) {
	var updated int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := applyMapping(tx, mapping, projectID)
		updated = n
		return err
	})
	return updated, err
}

// CreateTaxonomyAndApply inserts the taxonomy entry then applies the mapping
func (r *GormMappingRepository) CreateTaxonomyAndApply(ctx context.Context, taxonomy *landuse.Taxonomy, mapping *landuse.CodeMapping, projectID *uuid.UUID) (int64, error) {
	var updated int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(taxonomy).Error; err != nil {
			return translateError(err, "taxonomy code")
		}
		n, err := applyMapping(tx, mapping, projectID)
		updated = n
		return err
	})
	return updated, err
}

// Remove deletes the mapping and clears the taxonomy on parcels tagged through it
func (r *GormMappingRepository) Remove(ctx context.Context, legacyCode string) (int64, error) {
	var cleared int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m landuse.CodeMapping
		if err := tx.Where("legacy_code = ?", legacyCode).First(&m).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}
		res := tx.Model(&planning.Parcel{}).
			Where("landuse_code = ? AND taxonomy_id = ?", legacyCode, m.TaxonomyID).
			Updates(map[string]any{"taxonomy_id": nil, "updated_at": gorm.Expr("CURRENT_TIMESTAMP")})
		if res.Error != nil {
			return res.Error
		}
		cleared = res.RowsAffected
		return tx.Delete(&m).Error
	})
	return cleared, err
}

func applyMapping(tx *gorm.DB, mapping *landuse.CodeMapping, projectID *uuid.UUID) (int64, error) {
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "legacy_code"}},
		DoUpdates: clause.AssignmentColumns([]string{"taxonomy_id", "updated_at"}),
	}).Create(mapping).Error
	if err != nil {
		return 0, err
	}
	query := tx.Model(&planning.Parcel{}).Where("landuse_code = ?", mapping.LegacyCode)
	if projectID != nil {
		query = query.Where("project_id = ?", *projectID)
	}
	res := query.Updates(map[string]any{"taxonomy_id": mapping.TaxonomyID, "updated_at": gorm.Expr("CURRENT_TIMESTAMP")})
	return res.RowsAffected, res.Error
}

var (
	_ landuse.TaxonomyRepository = (*GormTaxonomyRepository)(nil)
	_ landuse.MappingRepository  = (*GormMappingRepository)(nil)
)
