package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/landscape/backend/internal/domain/project"
	"github.com/landscape/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormProjectRepository implements ProjectRepository using GORM
type GormProjectRepository struct {
	db *gorm.DB
}

// NewGormProjectRepository creates a new GormProjectRepository
func NewGormProjectRepository(db *gorm.DB) *GormProjectRepository {
	return &GormProjectRepository{db: db}
}

// FindByID finds a project by its ID
func (r *GormProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	var p project.Project
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindAll finds all projects matching the filter
func (r *GormProjectRepository) FindAll(ctx context.Context, filter shared.Filter) ([]project.Project, error) {
	var projects []project.Project
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&project.Project{}), filter)
	query = paginate(query, filter, ProjectSortFields, "created_at")
	if err := query.Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// Count counts projects matching the filter
func (r *GormProjectRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&project.Project{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByName checks whether a project with the given name exists
func (r *GormProjectRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&project.Project{}).
		Where("LOWER(name) = LOWER(?)", name).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Exists checks whether a project exists
func (r *GormProjectRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&project.Project{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a project
func (r *GormProjectRepository) Save(ctx context.Context, p *project.Project) error {
	return translateError(r.db.WithContext(ctx).Save(p).Error, "project")
}

// Delete deletes a project; dependent rows go with it through ON DELETE CASCADE
func (r *GormProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &project.Project{}, id)
}

// FindBoundaries lists the stored boundaries of a project, newest first
func (r *GormProjectRepository) FindBoundaries(ctx context.Context, projectID uuid.UUID) ([]project.Boundary, error) {
	var boundaries []project.Boundary
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&boundaries).Error; err != nil {
		return nil, err
	}
	return boundaries, nil
}

// ReplaceBoundary swaps the project's boundary in a single transaction
func (r *GormProjectRepository) ReplaceBoundary(ctx context.Context, p *project.Project, boundary *project.Boundary) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", p.ID).Delete(&project.Boundary{}).Error; err != nil {
			return err
		}
		if err := tx.Create(boundary).Error; err != nil {
			return err
		}
		return tx.Model(p).Select("boundary", "total_acres", "version", "updated_at").Updates(p).Error
	})
}

func (r *GormProjectRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", likePattern(filter.Search))
	}
	for key, value := range filter.Filters {
		switch key {
		case "status", "project_type", "state":
			query = query.Where(key+" = ?", value)
		}
	}
	return query
}

var _ project.ProjectRepository = (*GormProjectRepository)(nil)
