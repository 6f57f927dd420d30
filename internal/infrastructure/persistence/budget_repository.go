package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/landscape/backend/internal/domain/budget"
	"github.com/landscape/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormBudgetTemplateRepository implements budget.TemplateRepository using GORM
type GormBudgetTemplateRepository struct {
	db *gorm.DB
}

// NewGormBudgetTemplateRepository creates a new GormBudgetTemplateRepository
func NewGormBudgetTemplateRepository(db *gorm.DB) *GormBudgetTemplateRepository {
	return &GormBudgetTemplateRepository{db: db}
}

// FindByID finds a template by its ID
func (r *GormBudgetTemplateRepository) FindByID(ctx context.Context, id uuid.UUID) (*budget.Template, error) {
	var t budget.Template
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// FindAll lists templates matching the filter
func (r *GormBudgetTemplateRepository) FindAll(ctx context.Context, filter shared.Filter) ([]budget.Template, error) {
	var templates []budget.Template
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&budget.Template{}), filter)
	query = paginate(query, filter, TemplateSortFields, "name")
	if err := query.Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

// Count counts templates matching the filter
func (r *GormBudgetTemplateRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&budget.Template{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByName checks whether a template with name exists
func (r *GormBudgetTemplateRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&budget.Template{}).
		Where("LOWER(name) = LOWER(?)", name).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a template
func (r *GormBudgetTemplateRepository) Save(ctx context.Context, t *budget.Template) error {
	return translateError(r.db.WithContext(ctx).Save(t).Error, "budget template")
}

// Delete removes a template and its category rows
func (r *GormBudgetTemplateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("template_id = ?", id).Delete(&budget.TemplateCategory{}).Error; err != nil {
			return err
		}
		return deleteByID(ctx, tx, &budget.Template{}, id)
	})
}

// FindCategories returns a template's rows ordered by level then sort order
func (r *GormBudgetTemplateRepository) FindCategories(ctx context.Context, templateID uuid.UUID) ([]budget.TemplateCategory, error) {
	var rows []budget.TemplateCategory
	if err := r.db.WithContext(ctx).
		Where("template_id = ?", templateID).
		Order("level ASC, sort_order ASC, code ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindCategory finds a template row by its ID
func (r *GormBudgetTemplateRepository) FindCategory(ctx context.Context, id uuid.UUID) (*budget.TemplateCategory, error) {
	var row budget.TemplateCategory
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

// SaveCategory creates or updates a template row
func (r *GormBudgetTemplateRepository) SaveCategory(ctx context.Context, row *budget.TemplateCategory) error {
	return translateError(r.db.WithContext(ctx).Save(row).Error, "template category")
}

// CreateWithCategories inserts a template and its rows atomically
func (r *GormBudgetTemplateRepository) CreateWithCategories(ctx context.Context, t *budget.Template, rows []*budget.TemplateCategory) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(t).Error; err != nil {
			return translateError(err, "budget template")
		}
		for _, row := range rows {
			if err := tx.Create(row).Error; err != nil {
				return fmt.Errorf("insert template category %s: %w", row.Code, err)
			}
		}
		return nil
	})
}

func (r *GormBudgetTemplateRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", likePattern(filter.Search))
	}
	if v, ok := filter.Filters["project_type"]; ok {
		query = query.Where("project_type = ?", v)
	}
	return query
}

// GormBudgetCategoryRepository implements budget.CategoryRepository using GORM
type GormBudgetCategoryRepository struct {
	db *gorm.DB
}

// NewGormBudgetCategoryRepository creates a new GormBudgetCategoryRepository
func NewGormBudgetCategoryRepository(db *gorm.DB) *GormBudgetCategoryRepository {
	return &GormBudgetCategoryRepository{db: db}
}

// FindByID finds a category by its ID
func (r *GormBudgetCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*budget.Category, error) {
	var c budget.Category
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindByProject lists a project's categories ordered by level then sort order
func (r *GormBudgetCategoryRepository) FindByProject(ctx context.Context, projectID uuid.UUID) ([]budget.Category, error) {
	var cats []budget.Category
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("level ASC, sort_order ASC, code ASC").
		Find(&cats).Error; err != nil {
		return nil, err
	}
	return cats, nil
}

// CountByProject counts a project's categories
func (r *GormBudgetCategoryRepository) CountByProject(ctx context.Context, projectID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&budget.Category{}).
		Where("project_id = ?", projectID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// HasChildren checks if a category has any children
func (r *GormBudgetCategoryRepository) HasChildren(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&budget.Category{}).
		Where("parent_id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a category
func (r *GormBudgetCategoryRepository) Save(ctx context.Context, c *budget.Category) error {
	return translateError(r.db.WithContext(ctx).Save(c).Error, "budget category")
}

// Delete deletes a category
func (r *GormBudgetCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &budget.Category{}, id)
}

// ApplyCopy replaces or seeds a project's category tree atomically. Rows
// are inserted one at a time in the order given, so parents always land
// before their children.
func (r *GormBudgetCategoryRepository) ApplyCopy(ctx context.Context, projectID uuid.UUID, categories []*budget.Category, overwrite bool) (int64, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&budget.Category{}).Where("project_id = ?", projectID).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			if !overwrite {
				return shared.NewDomainError(shared.CodeConflict,
					"project already has budget categories; set overwrite_existing to replace them").
					WithDetails(map[string]any{"existing_categories": existing})
			}
			if err := tx.Where("project_id = ?", projectID).Delete(&budget.Item{}).Error; err != nil {
				return err
			}
			// children first so parent_id references never dangle
			for level := budget.MaxLevel; level >= 1; level-- {
				res := tx.Where("project_id = ? AND level = ?", projectID, level).Delete(&budget.Category{})
				if res.Error != nil {
					return res.Error
				}
				deleted += res.RowsAffected
			}
		}
		for _, c := range categories {
			if err := tx.Create(c).Error; err != nil {
				return fmt.Errorf("insert budget category %s (level %d): %w", c.Code, c.Level, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// GormBudgetItemRepository implements budget.ItemRepository using GORM
type GormBudgetItemRepository struct {
	db *gorm.DB
}

// NewGormBudgetItemRepository creates a new GormBudgetItemRepository
func NewGormBudgetItemRepository(db *gorm.DB) *GormBudgetItemRepository {
	return &GormBudgetItemRepository{db: db}
}

// FindByID finds a budget item by its ID
func (r *GormBudgetItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*budget.Item, error) {
	var it budget.Item
	if err := r.db.WithContext(ctx).First(&it, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &it, nil
}

// FindByProject lists a project's items matching the filter
func (r *GormBudgetItemRepository) FindByProject(ctx context.Context, projectID uuid.UUID, filter shared.Filter) ([]budget.Item, error) {
	var items []budget.Item
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&budget.Item{}).Where("project_id = ?", projectID), filter)
	query = paginate(query, filter, ItemSortFields, "created_at")
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// CountByProject counts a project's items matching the filter
func (r *GormBudgetItemRepository) CountByProject(ctx context.Context, projectID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&budget.Item{}).Where("project_id = ?", projectID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByCategory checks whether any item is filed under the category
func (r *GormBudgetItemRepository) ExistsByCategory(ctx context.Context, categoryID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&budget.Item{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// TotalsByCategory sums item amounts per category
func (r *GormBudgetItemRepository) TotalsByCategory(ctx context.Context, projectID uuid.UUID) ([]budget.CategoryTotal, error) {
	var totals []budget.CategoryTotal
	if err := r.db.WithContext(ctx).Model(&budget.Item{}).
		Select("category_id, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS item_count").
		Where("project_id = ?", projectID).
		Group("category_id").
		Scan(&totals).Error; err != nil {
		return nil, err
	}
	return totals, nil
}

// Save creates or updates a budget item
func (r *GormBudgetItemRepository) Save(ctx context.Context, it *budget.Item) error {
	return translateError(r.db.WithContext(ctx).Save(it).Error, "budget item")
}

// Delete deletes a budget item
func (r *GormBudgetItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &budget.Item{}, id)
}

func (r *GormBudgetItemRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("LOWER(description) LIKE ?", likePattern(filter.Search))
	}
	for key, value := range filter.Filters {
		switch key {
		case "category_id", "phase_id":
			query = query.Where(key+" = ?", value)
		}
	}
	return query
}

var (
	_ budget.TemplateRepository = (*GormBudgetTemplateRepository)(nil)
	_ budget.CategoryRepository = (*GormBudgetCategoryRepository)(nil)
	_ budget.ItemRepository     = (*GormBudgetItemRepository)(nil)
)
