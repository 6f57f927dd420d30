package project

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/landscape/backend/internal/domain/gis"
	"github.com/landscape/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProjectType classifies the development program
type ProjectType string

const (
	ProjectTypeMasterPlanned ProjectType = "master_planned"
	ProjectTypeSubdivision   ProjectType = "subdivision"
	ProjectTypeMultifamily   ProjectType = "multifamily"
	ProjectTypeCommercial    ProjectType = "commercial"
	ProjectTypeMixedUse      ProjectType = "mixed_use"
)

// IsValid reports whether t is a known project type
func (t ProjectType) IsValid() bool {
	switch t {
	case ProjectTypeMasterPlanned, ProjectTypeSubdivision, ProjectTypeMultifamily,
		ProjectTypeCommercial, ProjectTypeMixedUse:
		return true
	}
	return false
}

// Status is the lifecycle status of a project
type Status string

const (
	StatusPlanning Status = "planning"
	StatusActive   Status = "active"
	StatusOnHold   Status = "on_hold"
	StatusArchived Status = "archived"
)

// IsValid reports whether s is a known status
func (s Status) IsValid() bool {
	switch s {
	case StatusPlanning, StatusActive, StatusOnHold, StatusArchived:
		return true
	}
	return false
}

const maxNameLength = 200

// Project is a land development project, the root every other record hangs off.
type Project struct {
	shared.BaseAggregateRoot
	Name        string          `gorm:"type:varchar(200);not null;uniqueIndex"`
	Description string          `gorm:"type:text"`
	ProjectType ProjectType     `gorm:"type:varchar(30);not null"`
	Status      Status          `gorm:"type:varchar(20);not null;default:'planning'"`
	City        string          `gorm:"type:varchar(100)"`
	County      string          `gorm:"type:varchar(100)"`
	State       string          `gorm:"type:varchar(2)"`
	TotalAcres  decimal.Decimal `gorm:"type:decimal(14,4);not null;default:0"`
	StartDate   *time.Time
	Boundary    gis.Geometry `gorm:"type:jsonb"`
}

// TableName returns the table name for GORM
func (Project) TableName() string {
	return "projects"
}

// NewProject creates a project in planning status
func NewProject(name string, projectType ProjectType) (*Project, error) {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return nil, err
	}
	if !projectType.IsValid() {
		return nil, shared.NewInvalidInputError("unknown project type %q", projectType)
	}
	return &Project{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		ProjectType:       projectType,
		Status:            StatusPlanning,
		TotalAcres:        decimal.Zero,
	}, nil
}

// Rename changes the project name
func (p *Project) Rename(name string) error {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return err
	}
	p.Name = name
	p.IncrementVersion()
	return nil
}

// SetLocation sets city, county and two-letter state
func (p *Project) SetLocation(city, county, state string) error {
	state = strings.ToUpper(strings.TrimSpace(state))
	if state != "" && len(state) != 2 {
		return shared.NewInvalidInputError("state must be a two-letter code")
	}
	p.City = strings.TrimSpace(city)
	p.County = strings.TrimSpace(county)
	p.State = state
	p.IncrementVersion()
	return nil
}

// SetType changes the project type
func (p *Project) SetType(projectType ProjectType) error {
	if !projectType.IsValid() {
		return shared.NewInvalidInputError("unknown project type %q", projectType)
	}
	p.ProjectType = projectType
	p.IncrementVersion()
	return nil
}

// ChangeStatus moves the project to a new status. Archived projects only
// leave archive by being reactivated into planning.
func (p *Project) ChangeStatus(status Status) error {
	if !status.IsValid() {
		return shared.NewInvalidInputError("unknown project status %q", status)
	}
	if p.Status == StatusArchived && status != StatusPlanning && status != StatusArchived {
		return shared.NewDomainError(shared.CodeInvalidState, "archived projects can only be reopened into planning")
	}
	p.Status = status
	p.IncrementVersion()
	return nil
}

// ApplyBoundary stores the boundary geometry and the acreage derived from it
func (p *Project) ApplyBoundary(geometry gis.Geometry, acres decimal.Decimal) {
	p.Boundary = geometry
	p.TotalAcres = acres
	p.IncrementVersion()
}

func validateName(name string) error {
	if name == "" {
		return shared.NewInvalidInputError("project name cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return shared.NewInvalidInputError("project name cannot exceed %d characters", maxNameLength)
	}
	return nil
}
