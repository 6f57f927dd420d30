// Package planning models the geographic subdivisions of a project: areas,
// phases and parcels. They are the containers budgets and inventory hang off.
package planning

import (
	"strings"

	"github.com/google/uuid"
	"github.com/landscape/backend/internal/domain/shared"
)

// Area is a top-level planning area within a project (a village, a pod).
type Area struct {
	shared.BaseAggregateRoot
	ProjectID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_area_project_code,priority:1"`
	Code      string    `gorm:"type:varchar(30);not null;uniqueIndex:idx_area_project_code,priority:2"`
	Name      string    `gorm:"type:varchar(200);not null"`
	SortOrder int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Area) TableName() string {
	return "areas"
}

// NewArea creates an area in a project
func NewArea(projectID uuid.UUID, code, name string) (*Area, error) {
	code, name, err := normalizeCodeName(code, name)
	if err != nil {
		return nil, err
	}
	return &Area{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProjectID:         projectID,
		Code:              code,
		Name:              name,
	}, nil
}

// Update changes the area's code, name and order
func (a *Area) Update(code, name string, sortOrder int) error {
	code, name, err := normalizeCodeName(code, name)
	if err != nil {
		return err
	}
	a.Code = code
	a.Name = name
	a.SortOrder = sortOrder
	a.IncrementVersion()
	return nil
}

func normalizeCodeName(code, name string) (string, string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	name = strings.TrimSpace(name)
	if code == "" {
		return "", "", shared.NewInvalidInputError("code cannot be empty")
	}
	if len(code) > 30 {
		return "", "", shared.NewInvalidInputError("code cannot exceed 30 characters")
	}
	if name == "" {
		return "", "", shared.NewInvalidInputError("name cannot be empty")
	}
	return code, name, nil
}
