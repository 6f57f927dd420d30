package landuse

import (
	"context"

	"github.com/google/uuid"
	"github.com/landscape/backend/internal/domain/shared"
)

// TaxonomyRepository defines persistence for the taxonomy
type TaxonomyRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Taxonomy, error)
	FindByCode(ctx context.Context, code string) (*Taxonomy, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Taxonomy, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	Save(ctx context.Context, taxonomy *Taxonomy) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// MappingRepository runs the wizard's reads and writes. Writes touching both
// mappings and parcels are atomic.
type MappingRepository interface {
	// DistinctParcelCodes returns each non-empty parcel landuse_code with its
	// parcel count; projectID nil means all projects.
	DistinctParcelCodes(ctx context.Context, projectID *uuid.UUID) ([]CodeCount, error)

	FindAll(ctx context.Context) ([]CodeMapping, error)
	FindByCode(ctx context.Context, legacyCode string) (*CodeMapping, error)

	// Apply upserts mapping and sets taxonomy_id on every parcel whose
	// landuse_code equals the legacy code exactly. Returns parcels updated.
	Apply(ctx context.Context, mapping *CodeMapping, projectID *uuid.UUID) (int64, error)

	// CreateTaxonomyAndApply inserts taxonomy then behaves like Apply, in one transaction.
	CreateTaxonomyAndApply(ctx context.Context, taxonomy *Taxonomy, mapping *CodeMapping, projectID *uuid.UUID) (int64, error)

	// Remove deletes the mapping and clears taxonomy_id on parcels with that code
	Remove(ctx context.Context, legacyCode string) (int64, error)
}
