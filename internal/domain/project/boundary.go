package project

import (
	"github.com/google/uuid"
	"github.com/landscape/backend/internal/domain/gis"
	"github.com/landscape/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// BoundarySource records where a boundary polygon came from
type BoundarySource string

const (
	BoundarySourceDrawn  BoundarySource = "drawn"
	BoundarySourceGIS    BoundarySource = "gis"
	BoundarySourceUpload BoundarySource = "upload"
)

// IsValid reports whether s is a known source
func (s BoundarySource) IsValid() bool {
	return s == BoundarySourceDrawn || s == BoundarySourceGIS || s == BoundarySourceUpload
}

// Boundary is a persisted project boundary polygon with its computed acreage.
type Boundary struct {
	shared.BaseEntity
	ProjectID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Source    BoundarySource  `gorm:"type:varchar(20);not null"`
	Geometry  gis.Geometry    `gorm:"type:jsonb;not null"`
	Acres     decimal.Decimal `gorm:"type:decimal(14,4);not null"`
}

// TableName returns the table name for GORM
func (Boundary) TableName() string {
	return "project_boundaries"
}

// NewBoundary validates the geometry and computes its acreage
func NewBoundary(projectID uuid.UUID, source BoundarySource, geometry gis.Geometry) (*Boundary, error) {
	if !source.IsValid() {
		return nil, shared.NewInvalidInputError("unknown boundary source %q", source)
	}
	if err := geometry.Validate(); err != nil {
		return nil, shared.ErrInvalidInput.WithDetails(err.Error()).Wrap(err)
	}
	acres, err := geometry.AreaAcres()
	if err != nil {
		return nil, shared.ErrInvalidInput.Wrap(err)
	}
	return &Boundary{
		BaseEntity: shared.NewBaseEntity(),
		ProjectID:  projectID,
		Source:     source,
		Geometry:   geometry,
		Acres:      decimal.NewFromFloat(acres).Round(4),
	}, nil
}
