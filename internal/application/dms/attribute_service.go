// Package dms manages document attribute definitions, document templates and
// project documents stored in object storage.
package dms

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/landscape/backend/internal/domain/dms"
	"github.com/landscape/backend/internal/domain/shared"
)

// AttributeService handles attribute definition CRUD
type AttributeService struct {
	attributeRepo dms.AttributeRepository
}

// NewAttributeService creates a new AttributeService
func NewAttributeService(attributeRepo dms.AttributeRepository) *AttributeService {
	return &AttributeService{attributeRepo: attributeRepo}
}

// Create creates an attribute definition
func (s *AttributeService) Create(ctx context.Context, req AttributeRequest) (*AttributeResponse, error) {
	if err := s.ensureKeyFree(ctx, req.Key); err != nil {
		return nil, err
	}
	a, err := dms.NewAttribute(req.Key, req.Label, dms.DataType(req.DataType), req.Required, req.Options)
	if err != nil {
		return nil, err
	}
	if err := s.attributeRepo.Save(ctx, a); err != nil {
		return nil, err
	}
	resp := ToAttributeResponse(a)
	return &resp, nil
}

// List lists every attribute definition
func (s *AttributeService) List(ctx context.Context) ([]AttributeResponse, error) {
	attrs, err := s.attributeRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]AttributeResponse, len(attrs))
	for i := range attrs {
		out[i] = ToAttributeResponse(&attrs[i])
	}
	return out, nil
}

// Update updates an attribute definition
func (s *AttributeService) Update(ctx context.Context, id uuid.UUID, req AttributeRequest) (*AttributeResponse, error) {
	a, err := s.attributeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Key) != a.Key {
		if err := s.ensureKeyFree(ctx, req.Key); err != nil {
			return nil, err
		}
	}
	if err := a.Update(req.Key, req.Label, dms.DataType(req.DataType), req.Required, req.Options); err != nil {
		return nil, err
	}
	if err := s.attributeRepo.Save(ctx, a); err != nil {
		return nil, err
	}
	resp := ToAttributeResponse(a)
	return &resp, nil
}

// Delete deletes an attribute definition
func (s *AttributeService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.attributeRepo.Delete(ctx, id)
}

func (s *AttributeService) ensureKeyFree(ctx context.Context, key string) error {
	exists, err := s.attributeRepo.ExistsByKey(ctx, strings.TrimSpace(key))
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError(shared.CodeAlreadyExists, "Attribute with this key already exists")
	}
	return nil
}

// DocTemplateService handles document template CRUD
type DocTemplateService struct {
	templateRepo  dms.TemplateRepository
	attributeRepo dms.AttributeRepository
}

// NewDocTemplateService creates a new DocTemplateService
func NewDocTemplateService(templateRepo dms.TemplateRepository, attributeRepo dms.AttributeRepository) *DocTemplateService {
	return &DocTemplateService{templateRepo: templateRepo, attributeRepo: attributeRepo}
}

// Create creates a template over existing attributes
func (s *DocTemplateService) Create(ctx context.Context, req TemplateRequest) (*TemplateResponse, error) {
	if err := s.ensureNameFree(ctx, req.Name); err != nil {
		return nil, err
	}
	t, err := dms.NewTemplate(req.Name, req.DocType, req.Description, req.AttributeIDs)
	if err != nil {
		return nil, err
	}
	attrs, err := s.resolveAttributes(ctx, t.AttributeIDs)
	if err != nil {
		return nil, err
	}
	if err := s.templateRepo.Save(ctx, t); err != nil {
		return nil, err
	}
	resp := ToTemplateResponse(t, attrs)
	return &resp, nil
}

// GetByID retrieves a template with its attributes
func (s *DocTemplateService) GetByID(ctx context.Context, id uuid.UUID) (*TemplateResponse, error) {
	t, err := s.templateRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	attrs, err := s.attributeRepo.FindByIDs(ctx, t.AttributeIDs)
	if err != nil {
		return nil, err
	}
	resp := ToTemplateResponse(t, attrs)
	return &resp, nil
}

// List lists templates, optionally by document type
func (s *DocTemplateService) List(ctx context.Context, filter TemplateListFilter) ([]TemplateResponse, error) {
	domainFilter := shared.DefaultFilter()
	domainFilter.Search = strings.TrimSpace(filter.Search)
	if filter.DocType != "" {
		domainFilter.Filters["doc_type"] = strings.ToLower(filter.DocType)
	}
	templates, err := s.templateRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	out := make([]TemplateResponse, len(templates))
	for i := range templates {
		out[i] = ToTemplateResponse(&templates[i], nil)
	}
	return out, nil
}

// Update updates a template
func (s *DocTemplateService) Update(ctx context.Context, id uuid.UUID, req TemplateRequest) (*TemplateResponse, error) {
	t, err := s.templateRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Name) != t.Name {
		if err := s.ensureNameFree(ctx, req.Name); err != nil {
			return nil, err
		}
	}
	if err := t.Update(req.Name, req.DocType, req.Description, req.AttributeIDs); err != nil {
		return nil, err
	}
	attrs, err := s.resolveAttributes(ctx, t.AttributeIDs)
	if err != nil {
		return nil, err
	}
	if err := s.templateRepo.Save(ctx, t); err != nil {
		return nil, err
	}
	resp := ToTemplateResponse(t, attrs)
	return &resp, nil
}

// Delete deletes a template
func (s *DocTemplateService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.templateRepo.Delete(ctx, id)
}

func (s *DocTemplateService) resolveAttributes(ctx context.Context, ids []uuid.UUID) ([]dms.Attribute, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	attrs, err := s.attributeRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(attrs) != len(ids) {
		found := make(map[uuid.UUID]bool, len(attrs))
		for _, a := range attrs {
			found[a.ID] = true
		}
		var missing []string
		for _, id := range ids {
			if !found[id] {
				missing = append(missing, id.String())
			}
		}
		return nil, shared.NewInvalidInputError("unknown attribute ids").WithDetails(map[string]any{"attribute_ids": missing})
	}
	return attrs, nil
}

func (s *DocTemplateService) ensureNameFree(ctx context.Context, name string) error {
	exists, err := s.templateRepo.ExistsByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError(shared.CodeAlreadyExists, "Document template with this name already exists")
	}
	return nil
}
