package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/landscape/backend/internal/domain/inventory"
	"github.com/landscape/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormInventoryRepository implements inventory.ItemRepository using GORM
type GormInventoryRepository struct {
	db *gorm.DB
}

// NewGormInventoryRepository creates a new GormInventoryRepository
func NewGormInventoryRepository(db *gorm.DB) *GormInventoryRepository {
	return &GormInventoryRepository{db: db}
}

// FindByID finds a unit by its ID
func (r *GormInventoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Item, error) {
	var it inventory.Item
	if err := r.db.WithContext(ctx).First(&it, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &it, nil
}

// FindByProject lists a project's units matching the filter
func (r *GormInventoryRepository) FindByProject(ctx context.Context, projectID uuid.UUID, filter shared.Filter) ([]inventory.Item, error) {
	var items []inventory.Item
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&inventory.Item{}).Where("project_id = ?", projectID), filter)
	query = paginate(query, filter, InventorySortFields, "unit_number")
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// CountByProject counts a project's units matching the filter
func (r *GormInventoryRepository) CountByProject(ctx context.Context, projectID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&inventory.Item{}).Where("project_id = ?", projectID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByUnitNumber checks for another unit with the same number in the project
func (r *GormInventoryRepository) ExistsByUnitNumber(ctx context.Context, projectID uuid.UUID, unitNumber string, excludeID *uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&inventory.Item{}).
		Where("project_id = ? AND unit_number = ?", projectID, strings.ToUpper(strings.TrimSpace(unitNumber)))
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// TotalsByStatus aggregates unit counts and values per status
func (r *GormInventoryRepository) TotalsByStatus(ctx context.Context, projectID uuid.UUID) ([]inventory.StatusTotal, error) {
	var totals []inventory.StatusTotal
	if err := r.db.WithContext(ctx).Model(&inventory.Item{}).
		Select(`status, COUNT(*) AS count,
			COALESCE(SUM(list_price), 0) AS list_value,
			COALESCE(SUM(sale_price), 0) AS sale_value`).
		Where("project_id = ?", projectID).
		Group("status").
		Scan(&totals).Error; err != nil {
		return nil, err
	}
	return totals, nil
}

// Save creates or updates a unit
func (r *GormInventoryRepository) Save(ctx context.Context, it *inventory.Item) error {
	return translateError(r.db.WithContext(ctx).Save(it).Error, "inventory unit")
}

// Delete deletes a unit
func (r *GormInventoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &inventory.Item{}, id)
}

func (r *GormInventoryRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		p := likePattern(filter.Search)
		query = query.Where("LOWER(unit_number) LIKE ? OR LOWER(product_type) LIKE ?", p, p)
	}
	for key, value := range filter.Filters {
		switch key {
		case "status", "phase_id", "parcel_id", "product_type":
			query = query.Where(key+" = ?", value)
		}
	}
	return query
}

var _ inventory.ItemRepository = (*GormInventoryRepository)(nil)
