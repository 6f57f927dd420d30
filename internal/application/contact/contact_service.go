// Package contact manages the contact directory.
package contact

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/landscape/backend/internal/domain/contact"
	"github.com/landscape/backend/internal/domain/project"
	"github.com/landscape/backend/internal/domain/shared"
)

// ContactService handles contact CRUD
type ContactService struct {
	contactRepo contact.ContactRepository
	projectRepo project.ProjectRepository
	phones      contact.PhoneNormalizer
}

// NewContactService creates a new ContactService. phones normalizes numbers
// to E.164; nil uses the US region.
func NewContactService(contactRepo contact.ContactRepository, projectRepo project.ProjectRepository, phones contact.PhoneNormalizer) *ContactService {
	if phones == nil {
		phones = contact.NewPhoneNormalizer("US")
	}
	return &ContactService{contactRepo: contactRepo, projectRepo: projectRepo, phones: phones}
}

// Create creates a contact
func (s *ContactService) Create(ctx context.Context, req ContactRequest) (*ContactResponse, error) {
	if err := s.checkProject(ctx, req.ProjectID); err != nil {
		return nil, err
	}
	c, err := contact.NewContact(req.details(), s.phones)
	if err != nil {
		return nil, err
	}
	if err := s.contactRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	resp := ToContactResponse(c)
	return &resp, nil
}

// GetByID retrieves a contact
func (s *ContactService) GetByID(ctx context.Context, id uuid.UUID) (*ContactResponse, error) {
	c, err := s.contactRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToContactResponse(c)
	return &resp, nil
}

// List retrieves a page of contacts
func (s *ContactService) List(ctx context.Context, filter ContactListFilter) (*shared.Paginated[ContactResponse], error) {
	domainFilter := shared.DefaultFilter()
	domainFilter.OrderBy = "name"
	domainFilter.OrderDir = "asc"
	domainFilter.Search = strings.TrimSpace(filter.Search)
	if filter.ProjectID != nil {
		domainFilter.Filters["project_id"] = *filter.ProjectID
	}
	if filter.Role != "" {
		domainFilter.Filters["role"] = filter.Role
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

	contacts, err := s.contactRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.contactRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	items := make([]ContactResponse, len(contacts))
	for i := range contacts {
		items[i] = ToContactResponse(&contacts[i])
	}
	page := shared.NewPaginated(items, total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}

// Update replaces a contact's fields
func (s *ContactService) Update(ctx context.Context, id uuid.UUID, req ContactRequest) (*ContactResponse, error) {
	c, err := s.contactRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkProject(ctx, req.ProjectID); err != nil {
		return nil, err
	}
	if err := c.Update(req.details(), s.phones); err != nil {
		return nil, err
	}
	if err := s.contactRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	resp := ToContactResponse(c)
	return &resp, nil
}

// Delete deletes a contact
func (s *ContactService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.contactRepo.Delete(ctx, id)
}

func (s *ContactService) checkProject(ctx context.Context, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	ok, err := s.projectRepo.Exists(ctx, *id)
	if err != nil {
		return err
	}
	if !ok {
		return shared.NewInvalidInputError("project not found")
	}
	return nil
}
