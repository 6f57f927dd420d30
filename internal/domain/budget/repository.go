package budget

import (
	"context"

	"github.com/google/uuid"
	"github.com/landscape/backend/internal/domain/shared"
)

// TemplateRepository defines persistence for templates and their rows
type TemplateRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Template, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Template, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Save(ctx context.Context, template *Template) error
	Delete(ctx context.Context, id uuid.UUID) error

	FindCategories(ctx context.Context, templateID uuid.UUID) ([]TemplateCategory, error)
	FindCategory(ctx context.Context, id uuid.UUID) (*TemplateCategory, error)
	SaveCategory(ctx context.Context, category *TemplateCategory) error

	// CreateWithCategories inserts a template and its rows in one transaction.
	// rows must be ordered parents first.
	CreateWithCategories(ctx context.Context, template *Template, rows []*TemplateCategory) error
}

// CategoryRepository defines persistence for project categories
type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	FindByProject(ctx context.Context, projectID uuid.UUID) ([]Category, error)
	CountByProject(ctx context.Context, projectID uuid.UUID) (int64, error)
	HasChildren(ctx context.Context, id uuid.UUID) (bool, error)
	Save(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id uuid.UUID) error

	// ApplyCopy inserts categories (parents first) into the project in one
	// transaction. If the project already has categories it fails with a
	// CONFLICT error unless overwrite is set, in which case existing
	// categories and their items are deleted first. Returns rows deleted.
	ApplyCopy(ctx context.Context, projectID uuid.UUID, categories []*Category, overwrite bool) (int64, error)
}

// ItemRepository defines persistence for budget items
type ItemRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Item, error)
	FindByProject(ctx context.Context, projectID uuid.UUID, filter shared.Filter) ([]Item, error)
	CountByProject(ctx context.Context, projectID uuid.UUID, filter shared.Filter) (int64, error)
	ExistsByCategory(ctx context.Context, categoryID uuid.UUID) (bool, error)
	TotalsByCategory(ctx context.Context, projectID uuid.UUID) ([]CategoryTotal, error)
	Save(ctx context.Context, item *Item) error
	Delete(ctx context.Context, id uuid.UUID) error
}
