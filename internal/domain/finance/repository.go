package finance

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DebtFacilityRepository defines persistence for debt facilities
type DebtFacilityRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*DebtFacility, error)
	FindByProject(ctx context.Context, projectID uuid.UUID) ([]DebtFacility, error)
	TotalCommitment(ctx context.Context, projectID uuid.UUID) (decimal.Decimal, error)
	Save(ctx context.Context, facility *DebtFacility) error
	Delete(ctx context.Context, id uuid.UUID) error
}
