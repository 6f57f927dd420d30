package planning

import (
	"context"

	"github.com/google/uuid"
	"github.com/landscape/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AreaRepository defines persistence for areas
type AreaRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Area, error)
	FindByProject(ctx context.Context, projectID uuid.UUID) ([]Area, error)
	ExistsByCode(ctx context.Context, projectID uuid.UUID, code string) (bool, error)
	Save(ctx context.Context, area *Area) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PhaseRepository defines persistence for phases
type PhaseRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Phase, error)
	FindByProject(ctx context.Context, projectID uuid.UUID) ([]Phase, error)
	ExistsByCode(ctx context.Context, projectID uuid.UUID, code string) (bool, error)
	Save(ctx context.Context, phase *Phase) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// LandUseTotal aggregates parcels sharing a taxonomy entry or, when
// unmapped, a raw land-use code.
type LandUseTotal struct {
	TaxonomyID  *uuid.UUID
	LandUseCode string
	ParcelCount int64
	Acres       decimal.Decimal
	Units       int64
}

// ParcelRepository defines persistence for parcels
type ParcelRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Parcel, error)
	FindByProject(ctx context.Context, projectID uuid.UUID, filter shared.Filter) ([]Parcel, error)
	CountByProject(ctx context.Context, projectID uuid.UUID, filter shared.Filter) (int64, error)
	FindAPNs(ctx context.Context, projectID uuid.UUID) ([]string, error)
	Save(ctx context.Context, parcel *Parcel) error
	SaveBatch(ctx context.Context, parcels []*Parcel) error
	Delete(ctx context.Context, id uuid.UUID) error
	SummarizeByLandUse(ctx context.Context, projectID uuid.UUID) ([]LandUseTotal, error)
}
