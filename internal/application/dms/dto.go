package dms

import (
	"time"

	"github.com/google/uuid"
	"github.com/landscape/backend/internal/domain/dms"
)

// AttributeRequest carries an attribute definition for create and update
type AttributeRequest struct {
	Key      string   `json:"key" binding:"required,min=1,max=63"`
	Label    string   `json:"label" binding:"required,min=1,max=200"`
	DataType string   `json:"data_type" binding:"required,oneof=text number date boolean choice"`
	Required bool     `json:"required"`
	Options  []string `json:"options" binding:"max=200"`
}

// AttributeResponse represents an attribute definition in API responses
type AttributeResponse struct {
	ID        uuid.UUID `json:"id"`
	Key       string    `json:"key"`
	Label     string    `json:"label"`
	DataType  string    `json:"data_type"`
	Required  bool      `json:"required"`
	Options   []string  `json:"options,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TemplateRequest carries a document template for create and update
type TemplateRequest struct {
	Name         string      `json:"name" binding:"required,min=1,max=200"`
	DocType      string      `json:"doc_type" binding:"required,min=1,max=50"`
	Description  string      `json:"description" binding:"max=2000"`
	AttributeIDs []uuid.UUID `json:"attribute_ids"`
}

// TemplateListFilter represents filter options for the template list
type TemplateListFilter struct {
	Search  string `form:"search"`
	DocType string `form:"doc_type"`
}

// TemplateResponse represents a document template in API responses
type TemplateResponse struct {
	ID          uuid.UUID           `json:"id"`
	Name        string              `json:"name"`
	DocType     string              `json:"doc_type"`
	Description string              `json:"description"`
	Attributes  []AttributeResponse `json:"attributes"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	Version     int                 `json:"version"`
}

// UploadRequest registers a document and asks for an upload URL
type UploadRequest struct {
	FileName    string     `json:"file_name" binding:"required,min=1,max=255"`
	ContentType string     `json:"content_type" binding:"max=100"`
	SizeBytes   int64      `json:"size_bytes" binding:"required,min=1"`
	TemplateID  *uuid.UUID `json:"template_id"`
}

// DocumentListFilter represents filter options for the document list
type DocumentListFilter struct {
	Search     string     `form:"search"`
	Status     string     `form:"status" binding:"omitempty,oneof=pending uploaded extracted"`
	TemplateID *uuid.UUID `form:"-"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// SetAttributesRequest replaces a document's attribute values
type SetAttributesRequest struct {
	Attributes map[string]any `json:"attributes"`
}

// DocumentResponse represents a document in API responses
type DocumentResponse struct {
	ID          uuid.UUID      `json:"id"`
	ProjectID   uuid.UUID      `json:"project_id"`
	TemplateID  *uuid.UUID     `json:"template_id,omitempty"`
	FileName    string         `json:"file_name"`
	ContentType string         `json:"content_type"`
	SizeBytes   int64          `json:"size_bytes"`
	Status      string         `json:"status"`
	Attributes  map[string]any `json:"attributes"`
	UploadedAt  *time.Time     `json:"uploaded_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	Version     int            `json:"version"`
}

// UploadResponse is a pending document plus the URL to PUT its bytes to
type UploadResponse struct {
	Document DocumentResponse `json:"document"`
	Upload   PresignedURL     `json:"upload"`
}

// ExtractionResponse is a document after Landscaper extraction
type ExtractionResponse struct {
	Document   DocumentResponse   `json:"document"`
	Confidence map[string]float64 `json:"confidence,omitempty"`
	Summary    string             `json:"summary,omitempty"`
}

// ToAttributeResponse converts a domain Attribute to AttributeResponse
func ToAttributeResponse(a *dms.Attribute) AttributeResponse {
	return AttributeResponse{
		ID:        a.ID,
		Key:       a.Key,
		Label:     a.Label,
		DataType:  string(a.DataType),
		Required:  a.Required,
		Options:   []string(a.Options),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// ToTemplateResponse converts a domain Template and its attributes to TemplateResponse
func ToTemplateResponse(t *dms.Template, attrs []dms.Attribute) TemplateResponse {
	resp := TemplateResponse{
		ID:          t.ID,
		Name:        t.Name,
		DocType:     t.DocType,
		Description: t.Description,
		Attributes:  make([]AttributeResponse, len(attrs)),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		Version:     t.Version,
	}
	for i := range attrs {
		resp.Attributes[i] = ToAttributeResponse(&attrs[i])
	}
	return resp
}

// ToDocumentResponse converts a domain Document to DocumentResponse
func ToDocumentResponse(d *dms.Document) DocumentResponse {
	attrs := map[string]any(d.Attributes)
	if attrs == nil {
		attrs = map[string]any{}
	}
	return DocumentResponse{
		ID:          d.ID,
		ProjectID:   d.ProjectID,
		TemplateID:  d.TemplateID,
		FileName:    d.FileName,
		ContentType: d.ContentType,
		SizeBytes:   d.SizeBytes,
		Status:      string(d.Status),
		Attributes:  attrs,
		UploadedAt:  d.UploadedAt,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
		Version:     d.Version,
	}
}
