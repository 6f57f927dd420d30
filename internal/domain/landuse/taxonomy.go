// Package landuse holds the controlled land-use taxonomy and the rules for
// reconciling legacy free-text parcel codes against it.
package landuse

import (
	"strings"

	"github.com/landscape/backend/internal/domain/shared"
)

// Family groups taxonomy entries
type Family string

const (
	FamilyResidential Family = "residential"
	FamilyCommercial  Family = "commercial"
	FamilyIndustrial  Family = "industrial"
	FamilyCivic       Family = "civic"
	FamilyOpenSpace   Family = "open_space"
	FamilyMixedUse    Family = "mixed_use"
	FamilyOther       Family = "other"
)

// IsValid reports whether f is a known family
func (f Family) IsValid() bool {
	switch f {
	case FamilyResidential, FamilyCommercial, FamilyIndustrial, FamilyCivic,
		FamilyOpenSpace, FamilyMixedUse, FamilyOther:
		return true
	}
	return false
}

// Taxonomy is one entry of the controlled land-use vocabulary.
type Taxonomy struct {
	shared.BaseAggregateRoot
	Code        string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Name        string `gorm:"type:varchar(200);not null"`
	Family      Family `gorm:"type:varchar(30);not null"`
	Description string `gorm:"type:text"`
	Active      bool   `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Taxonomy) TableName() string {
	return "landuse_taxonomy"
}

// NewTaxonomy creates an active taxonomy entry. The code is kept verbatim
// apart from surrounding whitespace because matching is exact.
func NewTaxonomy(code, name string, family Family) (*Taxonomy, error) {
	t := &Taxonomy{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Active:            true,
	}
	if err := t.apply(code, name, family); err != nil {
		return nil, err
	}
	return t, nil
}

// Update changes the entry
func (t *Taxonomy) Update(code, name string, family Family, description string, active bool) error {
	if err := t.apply(code, name, family); err != nil {
		return err
	}
	t.Description = strings.TrimSpace(description)
	t.Active = active
	t.IncrementVersion()
	return nil
}

func (t *Taxonomy) apply(code, name string, family Family) error {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)
	if code == "" {
		return shared.NewInvalidInputError("taxonomy code cannot be empty")
	}
	if len(code) > 100 {
		return shared.NewInvalidInputError("taxonomy code cannot exceed 100 characters")
	}
	if name == "" {
		return shared.NewInvalidInputError("taxonomy name cannot be empty")
	}
	if !family.IsValid() {
		return shared.NewInvalidInputError("unknown land-use family %q", family)
	}
	t.Code = code
	t.Name = name
	t.Family = family
	return nil
}
