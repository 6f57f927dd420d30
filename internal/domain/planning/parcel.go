package planning

import (
	"strings"

	"github.com/google/uuid"
	"github.com/landscape/backend/internal/domain/gis"
	"github.com/landscape/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ParcelStatus is the development state of a parcel
type ParcelStatus string

const (
	ParcelStatusRaw       ParcelStatus = "raw"
	ParcelStatusEntitled  ParcelStatus = "entitled"
	ParcelStatusDeveloped ParcelStatus = "developed"
	ParcelStatusSold      ParcelStatus = "sold"
)

// IsValid reports whether s is a known parcel status
func (s ParcelStatus) IsValid() bool {
	switch s {
	case ParcelStatusRaw, ParcelStatusEntitled, ParcelStatusDeveloped, ParcelStatusSold:
		return true
	}
	return false
}

// Parcel is a land parcel in a project. LandUseCode is the legacy free-text
// code; TaxonomyID is set once the code is mapped to the controlled taxonomy.
type Parcel struct {
	shared.BaseAggregateRoot
	ProjectID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	AreaID      *uuid.UUID      `gorm:"type:uuid;index"`
	PhaseID     *uuid.UUID      `gorm:"type:uuid;index"`
	APN         string          `gorm:"column:apn;type:varchar(50);index"`
	Name        string          `gorm:"type:varchar(200);not null"`
	Acres       decimal.Decimal `gorm:"type:decimal(14,4);not null;default:0"`
	LandUseCode string          `gorm:"column:landuse_code;type:varchar(100);index"`
	TaxonomyID  *uuid.UUID      `gorm:"type:uuid;index"`
	Units       int             `gorm:"not null;default:0"`
	Status      ParcelStatus    `gorm:"type:varchar(20);not null;default:'raw'"`
}

// TableName returns the table name for GORM
func (Parcel) TableName() string {
	return "parcels"
}

// NewParcel creates a raw parcel
func NewParcel(projectID uuid.UUID, name string, acres decimal.Decimal) (*Parcel, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewInvalidInputError("parcel name cannot be empty")
	}
	if acres.IsNegative() {
		return nil, shared.NewInvalidInputError("acres cannot be negative")
	}
	return &Parcel{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProjectID:         projectID,
		Name:              name,
		Acres:             acres,
		Status:            ParcelStatusRaw,
	}, nil
}

// NewParcelFromFeature creates a parcel from a GIS feature
func NewParcelFromFeature(projectID uuid.UUID, f gis.ParcelFeature) (*Parcel, error) {
	name := f.SitusAddress
	if strings.TrimSpace(name) == "" {
		name = "APN " + f.APN
	}
	p, err := NewParcel(projectID, name, decimal.NewFromFloat(f.Acres).Round(4))
	if err != nil {
		return nil, err
	}
	p.APN = f.APN
	p.LandUseCode = strings.TrimSpace(f.LandUseCode)
	return p, nil
}

// Place assigns area and phase; both must belong to the parcel's project and
// a phase inside an area must match the parcel's area.
func (p *Parcel) Place(area *Area, phase *Phase) error {
	if area != nil && area.ProjectID != p.ProjectID {
		return shared.NewInvalidInputError("area %s belongs to a different project", area.ID)
	}
	if phase != nil {
		if phase.ProjectID != p.ProjectID {
			return shared.NewInvalidInputError("phase %s belongs to a different project", phase.ID)
		}
		if area != nil && phase.AreaID != nil && *phase.AreaID != area.ID {
			return shared.NewInvalidInputError("phase %s is not in area %s", phase.ID, area.ID)
		}
	}
	p.AreaID, p.PhaseID = nil, nil
	if area != nil {
		id := area.ID
		p.AreaID = &id
	}
	if phase != nil {
		id := phase.ID
		p.PhaseID = &id
	}
	return nil
}

// Update changes the descriptive fields of the parcel
func (p *Parcel) Update(name, apn string, acres decimal.Decimal, units int, status ParcelStatus) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewInvalidInputError("parcel name cannot be empty")
	}
	if acres.IsNegative() {
		return shared.NewInvalidInputError("acres cannot be negative")
	}
	if units < 0 {
		return shared.NewInvalidInputError("units cannot be negative")
	}
	if !status.IsValid() {
		return shared.NewInvalidInputError("unknown parcel status %q", status)
	}
	p.Name = name
	p.APN = strings.TrimSpace(apn)
	p.Acres = acres
	p.Units = units
	p.Status = status
	p.IncrementVersion()
	return nil
}

// SetLandUseCode replaces the legacy code and clears any taxonomy mapping,
// which belonged to the previous code.
func (p *Parcel) SetLandUseCode(code string) {
	code = strings.TrimSpace(code)
	if code == p.LandUseCode {
		return
	}
	p.LandUseCode = code
	p.TaxonomyID = nil
	p.IncrementVersion()
}

// MapToTaxonomy links the parcel to a taxonomy entry
func (p *Parcel) MapToTaxonomy(taxonomyID uuid.UUID) {
	p.TaxonomyID = &taxonomyID
	p.IncrementVersion()
}

// Density returns units per acre, zero when acreage is zero
func (p *Parcel) Density() decimal.Decimal {
	if p.Acres.IsZero() {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(p.Units)).DivRound(p.Acres, 2)
}
