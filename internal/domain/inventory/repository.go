package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/landscape/backend/internal/domain/shared"
)

// ItemRepository defines persistence for inventory items
type ItemRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Item, error)
	FindByProject(ctx context.Context, projectID uuid.UUID, filter shared.Filter) ([]Item, error)
	CountByProject(ctx context.Context, projectID uuid.UUID, filter shared.Filter) (int64, error)
	ExistsByUnitNumber(ctx context.Context, projectID uuid.UUID, unitNumber string, excludeID *uuid.UUID) (bool, error)
	TotalsByStatus(ctx context.Context, projectID uuid.UUID) ([]StatusTotal, error)
	Save(ctx context.Context, item *Item) error
	Delete(ctx context.Context, id uuid.UUID) error
}
