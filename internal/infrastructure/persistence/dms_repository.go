package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/landscape/backend/internal/domain/dms"
	"github.com/landscape/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormAttributeRepository implements dms.AttributeRepository using GORM
type GormAttributeRepository struct {
	db *gorm.DB
}

// NewGormAttributeRepository creates a new GormAttributeRepository
func NewGormAttributeRepository(db *gorm.DB) *GormAttributeRepository {
	return &GormAttributeRepository{db: db}
}

// FindByID finds an attribute by its ID
func (r *GormAttributeRepository) FindByID(ctx context.Context, id uuid.UUID) (*dms.Attribute, error) {
	var a dms.Attribute
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// FindByIDs returns the attributes among ids that exist
func (r *GormAttributeRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]dms.Attribute, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var attrs []dms.Attribute
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("key").Find(&attrs).Error; err != nil {
		return nil, err
	}
	return attrs, nil
}

// FindAll lists every attribute by key
func (r *GormAttributeRepository) FindAll(ctx context.Context) ([]dms.Attribute, error) {
	var attrs []dms.Attribute
	if err := r.db.WithContext(ctx).Order("key").Find(&attrs).Error; err != nil {
		return nil, err
	}
	return attrs, nil
}

// ExistsByKey checks whether an attribute with key exists
func (r *GormAttributeRepository) ExistsByKey(ctx context.Context, key string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&dms.Attribute{}).Where("key = ?", key).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates an attribute
func (r *GormAttributeRepository) Save(ctx context.Context, a *dms.Attribute) error {
	return translateError(r.db.WithContext(ctx).Save(a).Error, "attribute key")
}

// Delete deletes an attribute
func (r *GormAttributeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &dms.Attribute{}, id)
}

// GormDocumentTemplateRepository implements dms.TemplateRepository using GORM
type GormDocumentTemplateRepository struct {
	db *gorm.DB
}

// NewGormDocumentTemplateRepository creates a new GormDocumentTemplateRepository
func NewGormDocumentTemplateRepository(db *gorm.DB) *GormDocumentTemplateRepository {
	return &GormDocumentTemplateRepository{db: db}
}

// FindByID finds a template by its ID
func (r *GormDocumentTemplateRepository) FindByID(ctx context.Context, id uuid.UUID) (*dms.Template, error) {
	var t dms.Template
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// FindAll lists templates, optionally filtered by doc_type
func (r *GormDocumentTemplateRepository) FindAll(ctx context.Context, filter shared.Filter) ([]dms.Template, error) {
	var templates []dms.Template
	query := r.db.WithContext(ctx).Model(&dms.Template{})
	if v, ok := filter.Filters["doc_type"]; ok {
		query = query.Where("doc_type = ?", v)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", likePattern(filter.Search))
	}
	if err := query.Order("name").Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

// ExistsByName checks whether a template with name exists
func (r *GormDocumentTemplateRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&dms.Template{}).
		Where("LOWER(name) = LOWER(?)", name).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a template
func (r *GormDocumentTemplateRepository) Save(ctx context.Context, t *dms.Template) error {
	return translateError(r.db.WithContext(ctx).Save(t).Error, "document template")
}

// Delete deletes a template; documents keep existing without one
func (r *GormDocumentTemplateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&dms.Document{}).Where("template_id = ?", id).Update("template_id", nil).Error; err != nil {
			return err
		}
		return deleteByID(ctx, tx, &dms.Template{}, id)
	})
}

// GormDocumentRepository implements dms.DocumentRepository using GORM
type GormDocumentRepository struct {
	db *gorm.DB
}

// NewGormDocumentRepository creates a new GormDocumentRepository
func NewGormDocumentRepository(db *gorm.DB) *GormDocumentRepository {
	return &GormDocumentRepository{db: db}
}

// FindByID finds a document by its ID
func (r *GormDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*dms.Document, error) {
	var d dms.Document
	if err := r.db.WithContext(ctx).First(&d, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// FindByProject lists a project's documents matching the filter
func (r *GormDocumentRepository) FindByProject(ctx context.Context, projectID uuid.UUID, filter shared.Filter) ([]dms.Document, error) {
	var docs []dms.Document
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&dms.Document{}).Where("project_id = ?", projectID), filter)
	query = paginate(query, filter, DocumentSortFields, "created_at")
	if err := query.Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

// CountByProject counts a project's documents matching the filter
func (r *GormDocumentRepository) CountByProject(ctx context.Context, projectID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&dms.Document{}).Where("project_id = ?", projectID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a document
func (r *GormDocumentRepository) Save(ctx context.Context, d *dms.Document) error {
	return translateError(r.db.WithContext(ctx).Save(d).Error, "document")
}

// Delete deletes a document row
func (r *GormDocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &dms.Document{}, id)
}

func (r *GormDocumentRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("LOWER(file_name) LIKE ?", likePattern(filter.Search))
	}
	for key, value := range filter.Filters {
		switch key {
		case "status", "template_id":
			query = query.Where(key+" = ?", value)
		}
	}
	return query
}

var (
	_ dms.AttributeRepository = (*GormAttributeRepository)(nil)
	_ dms.TemplateRepository  = (*GormDocumentTemplateRepository)(nil)
	_ dms.DocumentRepository  = (*GormDocumentRepository)(nil)
)
