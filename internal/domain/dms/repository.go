package dms

import (
	"context"

	"github.com/google/uuid"
	"github.com/landscape/backend/internal/domain/shared"
)

// AttributeRepository defines persistence for attribute definitions
type AttributeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Attribute, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Attribute, error)
	FindAll(ctx context.Context) ([]Attribute, error)
	ExistsByKey(ctx context.Context, key string) (bool, error)
	Save(ctx context.Context, attribute *Attribute) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// TemplateRepository defines persistence for document templates
type TemplateRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Template, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Template, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Save(ctx context.Context, template *Template) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// DocumentRepository defines persistence for documents
type DocumentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Document, error)
	FindByProject(ctx context.Context, projectID uuid.UUID, filter shared.Filter) ([]Document, error)
	CountByProject(ctx context.Context, projectID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, document *Document) error
	Delete(ctx context.Context, id uuid.UUID) error
}
