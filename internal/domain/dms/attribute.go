// Package dms is the document management model: attribute definitions,
// document templates that group them, and uploaded documents.
package dms

import (
	"regexp"
	"strings"

	"github.com/landscape/backend/internal/domain/shared"
)

// DataType is the value type of an attribute
type DataType string

const (
	DataTypeText    DataType = "text"
	DataTypeNumber  DataType = "number"
	DataTypeDate    DataType = "date"
	DataTypeBoolean DataType = "boolean"
	DataTypeChoice  DataType = "choice"
)

// IsValid reports whether t is a known data type
func (t DataType) IsValid() bool {
	switch t {
	case DataTypeText, DataTypeNumber, DataTypeDate, DataTypeBoolean, DataTypeChoice:
		return true
	}
	return false
}

var attributeKeyPattern = regexp.MustCompile(`^[a-z][a-z0-9_]{0,62}$`)

// Attribute defines a metadata field documents can carry.
type Attribute struct {
	shared.BaseAggregateRoot
	Key      string                   `gorm:"type:varchar(63);not null;uniqueIndex"`
	Label    string                   `gorm:"type:varchar(200);not null"`
	DataType DataType                 `gorm:"type:varchar(20);not null"`
	Required bool                     `gorm:"not null;default:false"`
	Options  shared.JSONList[string] `gorm:"type:jsonb"`
}

// TableName returns the table name for GORM
func (Attribute) TableName() string {
	return "dms_attributes"
}

// NewAttribute creates an attribute definition
func NewAttribute(key, label string, dataType DataType, required bool, options []string) (*Attribute, error) {
	a := &Attribute{BaseAggregateRoot: shared.NewBaseAggregateRoot()}
	if err := a.apply(key, label, dataType, required, options); err != nil {
		return nil, err
	}
	return a, nil
}

// Update replaces the definition
func (a *Attribute) Update(key, label string, dataType DataType, required bool, options []string) error {
	if err := a.apply(key, label, dataType, required, options); err != nil {
		return err
	}
	a.IncrementVersion()
	return nil
}

func (a *Attribute) apply(key, label string, dataType DataType, required bool, options []string) error {
	key = strings.TrimSpace(key)
	if !attributeKeyPattern.MatchString(key) {
		return shared.NewInvalidInputError("attribute key %q must be snake_case", key)
	}
	label = strings.TrimSpace(label)
	if label == "" {
		return shared.NewInvalidInputError("attribute label cannot be empty")
	}
	if !dataType.IsValid() {
		return shared.NewInvalidInputError("unknown attribute data type %q", dataType)
	}
	var opts []string
	for _, o := range options {
		if o = strings.TrimSpace(o); o != "" {
			opts = append(opts, o)
		}
	}
	if dataType == DataTypeChoice && len(opts) == 0 {
		return shared.NewInvalidInputError("choice attribute %q needs at least one option", key)
	}
	if dataType != DataTypeChoice {
		opts = nil
	}
	a.Key = key
	a.Label = label
	a.DataType = dataType
	a.Required = required
	a.Options = opts
	return nil
}
