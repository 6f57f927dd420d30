package contact

import (
	"context"

	"github.com/google/uuid"
	"github.com/landscape/backend/internal/domain/shared"
)

// ContactRepository defines persistence for contacts
type ContactRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Contact, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Contact, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, contact *Contact) error
	Delete(ctx context.Context, id uuid.UUID) error
}
