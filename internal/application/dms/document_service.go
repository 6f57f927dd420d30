package dms

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/landscape/backend/internal/domain/dms"
	"github.com/landscape/backend/internal/domain/landscaper"
	"github.com/landscape/backend/internal/domain/project"
	"github.com/landscape/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Metrics records document events. *telemetry.AppMetrics satisfies it.
type Metrics interface {
	RecordDocumentUpload(ctx context.Context)
}

// DocumentServiceDeps are the collaborators of DocumentService
type DocumentServiceDeps struct {
	Projects   project.ProjectRepository
	Documents  dms.DocumentRepository
	Templates  dms.TemplateRepository
	Attributes dms.AttributeRepository
	Storage    ObjectStorage
	Landscaper landscaper.Client
	Metrics    Metrics
	Logger     *zap.Logger
}

// DocumentService registers documents, brokers their uploads and downloads,
// and maintains their attribute values
type DocumentService struct {
	deps DocumentServiceDeps
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(deps DocumentServiceDeps) *DocumentService {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &DocumentService{deps: deps}
}

// RequestUpload registers a pending document and returns a presigned PUT URL for its bytes
func (s *DocumentService) RequestUpload(ctx context.Context, projectID uuid.UUID, req UploadRequest) (*UploadResponse, error) {
	ok, err := s.deps.Projects.Exists(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, shared.NewNotFoundError("project")
	}
	if req.TemplateID != nil {
		if _, err := s.deps.Templates.FindByID(ctx, *req.TemplateID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewInvalidInputError("document template not found")
			}
			return nil, err
		}
	}
	doc, err := dms.NewDocument(projectID, req.TemplateID, req.FileName, req.ContentType, req.SizeBytes)
	if err != nil {
		return nil, err
	}
	upload, err := s.deps.Storage.PresignUpload(ctx, doc.StorageKey, doc.ContentType, doc.SizeBytes)
	if err != nil {
		return nil, err
	}
	if err := s.deps.Documents.Save(ctx, doc); err != nil {
		return nil, err
	}
	return &UploadResponse{Document: ToDocumentResponse(doc), Upload: *upload}, nil
}

// CompleteUpload confirms the object landed in storage and marks the document uploaded
func (s *DocumentService) CompleteUpload(ctx context.Context, id uuid.UUID) (*DocumentResponse, error) {
	doc, err := s.deps.Documents.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	info, err := s.deps.Storage.Stat(ctx, doc.StorageKey)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError(shared.CodeInvalidState, "Document bytes have not been uploaded")
		}
		return nil, err
	}
	if err := doc.MarkUploaded(); err != nil {
		return nil, err
	}
	if info.Size > 0 {
		doc.SizeBytes = info.Size
	}
	if err := s.deps.Documents.Save(ctx, doc); err != nil {
		return nil, err
	}
	if s.deps.Metrics != nil {
		s.deps.Metrics.RecordDocumentUpload(ctx)
	}
	resp := ToDocumentResponse(doc)
	return &resp, nil
}

// GetByID retrieves a document
func (s *DocumentService) GetByID(ctx context.Context, id uuid.UUID) (*DocumentResponse, error) {
	doc, err := s.deps.Documents.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToDocumentResponse(doc)
	return &resp, nil
}

// List retrieves a page of a project's documents
func (s *DocumentService) List(ctx context.Context, projectID uuid.UUID, filter DocumentListFilter) (*shared.Paginated[DocumentResponse], error) {
	domainFilter := shared.DefaultFilter()
	domainFilter.Search = strings.TrimSpace(filter.Search)
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.TemplateID != nil {
		domainFilter.Filters["template_id"] = *filter.TemplateID
	}
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
		domainFilter.OrderDir = filter.OrderDir
	}

	docs, err := s.deps.Documents.FindByProject(ctx, projectID, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.deps.Documents.CountByProject(ctx, projectID, domainFilter)
	if err != nil {
		return nil, err
	}
	items := make([]DocumentResponse, len(docs))
	for i := range docs {
		items[i] = ToDocumentResponse(&docs[i])
	}
	page := shared.NewPaginated(items, total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}

// DownloadURL returns a presigned GET URL for an uploaded document
func (s *DocumentService) DownloadURL(ctx context.Context, id uuid.UUID) (*PresignedURL, error) {
	doc, err := s.uploaded(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.deps.Storage.PresignDownload(ctx, doc.StorageKey, doc.FileName)
}

// SetAttributes validates and replaces a document's attribute values against
// its template, or against every defined attribute when it has none
func (s *DocumentService) SetAttributes(ctx context.Context, id uuid.UUID, req SetAttributesRequest) (*DocumentResponse, error) {
	doc, err := s.deps.Documents.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	defs, _, err := s.definitions(ctx, doc)
	if err != nil {
		return nil, err
	}
	if err := doc.SetAttributes(req.Attributes, defs); err != nil {
		return nil, err
	}
	if err := s.deps.Documents.Save(ctx, doc); err != nil {
		return nil, err
	}
	resp := ToDocumentResponse(doc)
	return &resp, nil
}

// Extract asks Landscaper to read an uploaded document and merges the values
// it returns into the document's attributes
func (s *DocumentService) Extract(ctx context.Context, id uuid.UUID) (*ExtractionResponse, error) {
	if s.deps.Landscaper == nil {
		return nil, shared.ErrUpstreamUnavailable
	}
	doc, err := s.uploaded(ctx, id)
	if err != nil {
		return nil, err
	}
	defs, docType, err := s.definitions(ctx, doc)
	if err != nil {
		return nil, err
	}
	download, err := s.deps.Storage.PresignDownload(ctx, doc.StorageKey, doc.FileName)
	if err != nil {
		return nil, err
	}
	keys := make([]string, len(defs))
	for i, a := range defs {
		keys[i] = a.Key
	}

	result, err := s.deps.Landscaper.ExtractDocument(ctx, landscaper.ExtractionRequest{
		DocumentID:    doc.ID,
		ProjectID:     doc.ProjectID,
		FileName:      doc.FileName,
		ContentType:   doc.ContentType,
		DownloadURL:   download.URL,
		DocType:       docType,
		AttributeKeys: keys,
	})
	if err != nil {
		return nil, err
	}
	if err := doc.ApplyExtraction(result.Attributes, defs); err != nil {
		return nil, err
	}
	if err := s.deps.Documents.Save(ctx, doc); err != nil {
		return nil, err
	}

	s.deps.Logger.Info("Extracted document attributes",
		zap.String("document_id", doc.ID.String()),
		zap.Int("returned", len(result.Attributes)),
		zap.Int("stored", len(doc.Attributes)),
	)
	return &ExtractionResponse{
		Document:   ToDocumentResponse(doc),
		Confidence: result.Confidence,
		Summary:    result.Summary,
	}, nil
}

// Delete removes the stored object and then the document row
func (s *DocumentService) Delete(ctx context.Context, id uuid.UUID) error {
	doc, err := s.deps.Documents.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.deps.Storage.Delete(ctx, doc.StorageKey); err != nil && !errors.Is(err, shared.ErrNotFound) {
		return err
	}
	return s.deps.Documents.Delete(ctx, id)
}

func (s *DocumentService) uploaded(ctx context.Context, id uuid.UUID) (*dms.Document, error) {
	doc, err := s.deps.Documents.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.Status == dms.DocumentStatusPending {
		return nil, shared.NewDomainError(shared.CodeInvalidState, "Document has not been uploaded")
	}
	return doc, nil
}

// definitions returns the attribute definitions that apply to doc and its
// template's document type.
func (s *DocumentService) definitions(ctx context.Context, doc *dms.Document) ([]dms.Attribute, string, error) {
	if doc.TemplateID == nil {
		defs, err := s.deps.Attributes.FindAll(ctx)
		return defs, "", err
	}
	t, err := s.deps.Templates.FindByID(ctx, *doc.TemplateID)
	if err != nil {
		return nil, "", err
	}
	defs, err := s.deps.Attributes.FindByIDs(ctx, t.AttributeIDs)
	if err != nil {
		return nil, "", err
	}
	return defs, t.DocType, nil
}
