package budget

import (
	"strings"

	"github.com/google/uuid"
	"github.com/landscape/backend/internal/domain/shared"
)

// Template is a reusable budget category tree.
type Template struct {
	shared.BaseAggregateRoot
	Name        string `gorm:"type:varchar(200);not null;uniqueIndex"`
	Description string `gorm:"type:text"`
	ProjectType string `gorm:"type:varchar(30)"`
}

// TableName returns the table name for GORM
func (Template) TableName() string {
	return "budget_templates"
}

// NewTemplate creates an empty template
func NewTemplate(name, description, projectType string) (*Template, error) {
	t := &Template{BaseAggregateRoot: shared.NewBaseAggregateRoot()}
	if err := t.apply(name, description, projectType); err != nil {
		return nil, err
	}
	return t, nil
}

// Update changes the template header
func (t *Template) Update(name, description, projectType string) error {
	if err := t.apply(name, description, projectType); err != nil {
		return err
	}
	t.IncrementVersion()
	return nil
}

func (t *Template) apply(name, description, projectType string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewInvalidInputError("template name cannot be empty")
	}
	t.Name = name
	t.Description = strings.TrimSpace(description)
	t.ProjectType = strings.TrimSpace(projectType)
	return nil
}

// TemplateCategory is one row of a template's category tree.
type TemplateCategory struct {
	shared.BaseEntity
	TemplateID uuid.UUID  `gorm:"type:uuid;not null;index"`
	Level      int        `gorm:"not null"`
	ParentID   *uuid.UUID `gorm:"type:uuid;index"`
	Code       string     `gorm:"type:varchar(50);not null"`
	Name       string     `gorm:"type:varchar(200);not null"`
	SortOrder  int        `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (TemplateCategory) TableName() string {
	return "budget_template_categories"
}

// NewTemplateCategory creates a template row under parent, or a level 1
// root when parent is nil. parent must belong to the same template.
func NewTemplateCategory(templateID uuid.UUID, parent *TemplateCategory, code, name string, sortOrder int) (*TemplateCategory, error) {
	code, name, err := normalizeCategory(code, name)
	if err != nil {
		return nil, err
	}
	tc := &TemplateCategory{
		BaseEntity: shared.NewBaseEntity(),
		TemplateID: templateID,
		Level:      1,
		Code:       code,
		Name:       name,
		SortOrder:  sortOrder,
	}
	if parent != nil {
		if parent.TemplateID != templateID {
			return nil, shared.NewInvalidInputError("parent category belongs to a different template")
		}
		if parent.Level >= MaxLevel {
			return nil, shared.NewInvalidInputError("budget categories cannot be nested deeper than %d levels", MaxLevel)
		}
		id := parent.ID
		tc.ParentID = &id
		tc.Level = parent.Level + 1
	}
	return tc, nil
}
