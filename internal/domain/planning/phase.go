package planning

import (
	"github.com/google/uuid"
	"github.com/landscape/backend/internal/domain/shared"
)

// PhaseStatus tracks the entitlement/construction state of a phase
type PhaseStatus string

const (
	PhaseStatusPlanned           PhaseStatus = "planned"
	PhaseStatusEntitled          PhaseStatus = "entitled"
	PhaseStatusUnderConstruction PhaseStatus = "under_construction"
	PhaseStatusComplete          PhaseStatus = "complete"
)

// IsValid reports whether s is a known phase status
func (s PhaseStatus) IsValid() bool {
	switch s {
	case PhaseStatusPlanned, PhaseStatusEntitled, PhaseStatusUnderConstruction, PhaseStatusComplete:
		return true
	}
	return false
}

// Phase is a development phase, optionally nested in an area.
type Phase struct {
	shared.BaseAggregateRoot
	ProjectID uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_phase_project_code,priority:1"`
	AreaID    *uuid.UUID  `gorm:"type:uuid;index"`
	Code      string      `gorm:"type:varchar(30);not null;uniqueIndex:idx_phase_project_code,priority:2"`
	Name      string      `gorm:"type:varchar(200);not null"`
	Status    PhaseStatus `gorm:"type:varchar(30);not null;default:'planned'"`
	SortOrder int         `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Phase) TableName() string {
	return "phases"
}

// NewPhase creates a planned phase. area, when given, must belong to the same project.
func NewPhase(projectID uuid.UUID, area *Area, code, name string) (*Phase, error) {
	code, name, err := normalizeCodeName(code, name)
	if err != nil {
		return nil, err
	}
	p := &Phase{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProjectID:         projectID,
		Code:              code,
		Name:              name,
		Status:            PhaseStatusPlanned,
	}
	if err := p.AssignArea(area); err != nil {
		return nil, err
	}
	return p, nil
}

// AssignArea moves the phase into area, or out of any area when nil
func (p *Phase) AssignArea(area *Area) error {
	if area == nil {
		p.AreaID = nil
		return nil
	}
	if area.ProjectID != p.ProjectID {
		return shared.NewInvalidInputError("area %s belongs to a different project", area.ID)
	}
	id := area.ID
	p.AreaID = &id
	return nil
}

// Update changes code, name, status and order
func (p *Phase) Update(code, name string, status PhaseStatus, sortOrder int) error {
	code, name, err := normalizeCodeName(code, name)
	if err != nil {
		return err
	}
	if !status.IsValid() {
		return shared.NewInvalidInputError("unknown phase status %q", status)
	}
	p.Code = code
	p.Name = name
	p.Status = status
	p.SortOrder = sortOrder
	p.IncrementVersion()
	return nil
}
