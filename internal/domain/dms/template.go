package dms

import (
	"strings"

	"github.com/google/uuid"
	"github.com/landscape/backend/internal/domain/shared"
)

// Template describes a document type and the attributes its documents carry.
type Template struct {
	shared.BaseAggregateRoot
	Name         string                     `gorm:"type:varchar(200);not null;uniqueIndex"`
	DocType      string                     `gorm:"type:varchar(50);not null"`
	Description  string                     `gorm:"type:text"`
	AttributeIDs shared.JSONList[uuid.UUID] `gorm:"type:jsonb"`
}

// TableName returns the table name for GORM
func (Template) TableName() string {
	return "dms_templates"
}

// NewTemplate creates a template
func NewTemplate(name, docType, description string, attributeIDs []uuid.UUID) (*Template, error) {
	t := &Template{BaseAggregateRoot: shared.NewBaseAggregateRoot()}
	if err := t.apply(name, docType, description, attributeIDs); err != nil {
		return nil, err
	}
	return t, nil
}

// Update replaces the template
func (t *Template) Update(name, docType, description string, attributeIDs []uuid.UUID) error {
	if err := t.apply(name, docType, description, attributeIDs); err != nil {
		return err
	}
	t.IncrementVersion()
	return nil
}

func (t *Template) apply(name, docType, description string, attributeIDs []uuid.UUID) error {
	name = strings.TrimSpace(name)
	docType = strings.ToLower(strings.TrimSpace(docType))
	if name == "" {
		return shared.NewInvalidInputError("template name cannot be empty")
	}
	if docType == "" {
		return shared.NewInvalidInputError("document type cannot be empty")
	}
	seen := make(map[uuid.UUID]bool, len(attributeIDs))
	ids := make([]uuid.UUID, 0, len(attributeIDs))
	for _, id := range attributeIDs {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	t.Name = name
	t.DocType = docType
	t.Description = strings.TrimSpace(description)
	t.AttributeIDs = ids
	return nil
}
