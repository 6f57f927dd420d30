// Package budget models project budget category trees, the templates they
// are seeded from, and the line items that carry amounts.
package budget

import (
	"strings"

	"github.com/google/uuid"
	"github.com/landscape/backend/internal/domain/shared"
)

// MaxLevel is the deepest category level. Level 1 categories are roots.
const MaxLevel = 4

// Category is a node of a project's budget category tree.
type Category struct {
	shared.BaseAggregateRoot
	ProjectID        uuid.UUID  `gorm:"type:uuid;not null;index"`
	Level            int        `gorm:"not null"`
	ParentID         *uuid.UUID `gorm:"type:uuid;index"`
	Code             string     `gorm:"type:varchar(50);not null"`
	Name             string     `gorm:"type:varchar(200);not null"`
	SortOrder        int        `gorm:"not null;default:0"`
	SourceTemplateID *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "budget_categories"
}

// NewCategory creates a category; parent nil means a level 1 root.
func NewCategory(projectID uuid.UUID, parent *Category, code, name string) (*Category, error) {
	code, name, err := normalizeCategory(code, name)
	if err != nil {
		return nil, err
	}
	c := &Category{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProjectID:         projectID,
		Level:             1,
		Code:              code,
		Name:              name,
	}
	if parent != nil {
		if parent.ProjectID != projectID {
			return nil, shared.NewInvalidInputError("parent category belongs to a different project")
		}
		if parent.Level >= MaxLevel {
			return nil, shared.NewInvalidInputError("budget categories cannot be nested deeper than %d levels", MaxLevel)
		}
		id := parent.ID
		c.ParentID = &id
		c.Level = parent.Level + 1
	}
	return c, nil
}

// IsRoot reports whether the category is a level 1 root
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}

// Update changes code, name and order
func (c *Category) Update(code, name string, sortOrder int) error {
	code, name, err := normalizeCategory(code, name)
	if err != nil {
		return err
	}
	c.Code = code
	c.Name = name
	c.SortOrder = sortOrder
	c.IncrementVersion()
	return nil
}

func normalizeCategory(code, name string) (string, string, error) {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)
	if code == "" {
		return "", "", shared.NewInvalidInputError("category code cannot be empty")
	}
	if len(code) > 50 {
		return "", "", shared.NewInvalidInputError("category code cannot exceed 50 characters")
	}
	if name == "" {
		return "", "", shared.NewInvalidInputError("category name cannot be empty")
	}
	return code, name, nil
}
