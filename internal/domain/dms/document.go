package dms

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/landscape/backend/internal/domain/shared"
)

// DocumentStatus tracks a document through upload and extraction
type DocumentStatus string

const (
	DocumentStatusPending   DocumentStatus = "pending"
	DocumentStatusUploaded  DocumentStatus = "uploaded"
	DocumentStatusExtracted DocumentStatus = "extracted"
)

// MaxDocumentSize is the largest upload accepted (100 MiB)
const MaxDocumentSize = 100 << 20

// Document is a file attached to a project, stored in object storage.
type Document struct {
	shared.BaseAggregateRoot
	ProjectID   uuid.UUID      `gorm:"type:uuid;not null;index"`
	TemplateID  *uuid.UUID     `gorm:"type:uuid;index"`
	FileName    string         `gorm:"type:varchar(255);not null"`
	ContentType string         `gorm:"type:varchar(100);not null"`
	SizeBytes   int64          `gorm:"not null"`
	StorageKey  string         `gorm:"type:varchar(500);not null;uniqueIndex"`
	Status      DocumentStatus `gorm:"type:varchar(20);not null"`
	Attributes  shared.JSONMap `gorm:"type:jsonb"`
	UploadedAt  *time.Time
}

// TableName returns the table name for GORM
func (Document) TableName() string {
	return "documents"
}

// NewDocument creates a pending document with its storage key
func NewDocument(projectID uuid.UUID, templateID *uuid.UUID, fileName, contentType string, size int64) (*Document, error) {
	fileName = path.Base(strings.TrimSpace(fileName))
	if fileName == "" || fileName == "." || fileName == "/" {
		return nil, shared.NewInvalidInputError("file name cannot be empty")
	}
	if size <= 0 || size > MaxDocumentSize {
		return nil, shared.NewInvalidInputError("file size must be between 1 byte and %d bytes", MaxDocumentSize)
	}
	if strings.TrimSpace(contentType) == "" {
		contentType = "application/octet-stream"
	}
	d := &Document{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProjectID:         projectID,
		TemplateID:        templateID,
		FileName:          fileName,
		ContentType:       contentType,
		SizeBytes:         size,
		Status:            DocumentStatusPending,
		Attributes:        shared.JSONMap{},
	}
	d.StorageKey = fmt.Sprintf("projects/%s/documents/%s/%s", projectID, d.ID, fileName)
	return d, nil
}

// MarkUploaded records that the object landed in storage
func (d *Document) MarkUploaded() error {
	if d.Status != DocumentStatusPending {
		return shared.NewDomainError(shared.CodeInvalidState, "document upload already completed")
	}
	now := time.Now()
	d.Status = DocumentStatusUploaded
	d.UploadedAt = &now
	d.IncrementVersion()
	return nil
}

// SetAttributes replaces the document's metadata after validation
func (d *Document) SetAttributes(values map[string]any, defs []Attribute) error {
	cleaned, err := ValidateAttributes(values, defs)
	if err != nil {
		return err
	}
	d.Attributes = cleaned
	d.IncrementVersion()
	return nil
}

// ApplyExtraction merges extracted values that match known attribute
// definitions; unknown keys and ill-typed values are dropped.
func (d *Document) ApplyExtraction(values map[string]any, defs []Attribute) error {
	if d.Status == DocumentStatusPending {
		return shared.NewDomainError(shared.CodeInvalidState, "document has not been uploaded")
	}
	merged := shared.JSONMap{}
	for k, v := range d.Attributes {
		merged[k] = v
	}
	byKey := make(map[string]Attribute, len(defs))
	for _, a := range defs {
		byKey[a.Key] = a
	}
	for k, v := range values {
		def, ok := byKey[k]
		if !ok {
			continue
		}
		if cv, err := coerce(def, v); err == nil {
			merged[k] = cv
		}
	}
	d.Attributes = merged
	d.Status = DocumentStatusExtracted
	d.IncrementVersion()
	return nil
}
