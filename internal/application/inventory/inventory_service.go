// Package inventory manages a project's saleable units and their sales status.
package inventory

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/landscape/backend/internal/domain/inventory"
	"github.com/landscape/backend/internal/domain/planning"
	"github.com/landscape/backend/internal/domain/project"
	"github.com/landscape/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// InventoryServiceDeps are the collaborators of InventoryService
type InventoryServiceDeps struct {
	Projects project.ProjectRepository
	Phases   planning.PhaseRepository
	Parcels  planning.ParcelRepository
	Items    inventory.ItemRepository
	Logger   *zap.Logger
}

// InventoryService handles inventory CRUD, status changes and summaries
type InventoryService struct {
	projectRepo project.ProjectRepository
	phaseRepo   planning.PhaseRepository
	parcelRepo  planning.ParcelRepository
	itemRepo    inventory.ItemRepository
	logger      *zap.Logger
	now         func() time.Time
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(deps InventoryServiceDeps) *InventoryService {
	s := &InventoryService{
		projectRepo: deps.Projects,
		phaseRepo:   deps.Phases,
		parcelRepo:  deps.Parcels,
		itemRepo:    deps.Items,
		logger:      deps.Logger,
		now:         time.Now,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// Create adds an available unit to a project
func (s *InventoryService) Create(ctx context.Context, projectID uuid.UUID, req ItemRequest) (*ItemResponse, error) {
	if err := s.ensureProject(ctx, projectID); err != nil {
		return nil, err
	}
	if err := s.checkPlacement(ctx, projectID, req.PhaseID, req.ParcelID); err != nil {
		return nil, err
	}
	if err := s.ensureUnitFree(ctx, projectID, req.UnitNumber, nil); err != nil {
		return nil, err
	}
	it, err := inventory.NewItem(projectID, req.listing())
	if err != nil {
		return nil, err
	}
	if err := s.itemRepo.Save(ctx, it); err != nil {
		return nil, err
	}
	resp := ToItemResponse(it)
	return &resp, nil
}

// GetByID retrieves a unit
func (s *InventoryService) GetByID(ctx context.Context, id uuid.UUID) (*ItemResponse, error) {
	it, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToItemResponse(it)
	return &resp, nil
}

// List retrieves a page of a project's units
func (s *InventoryService) List(ctx context.Context, projectID uuid.UUID, filter ItemListFilter) (*shared.Paginated[ItemResponse], error) {
	if err := s.ensureProject(ctx, projectID); err != nil {
		return nil, err
	}
	domainFilter := shared.DefaultFilter()
	domainFilter.OrderBy = "unit_number"
	domainFilter.OrderDir = "asc"
	domainFilter.PageSize = 100
	domainFilter.Search = strings.TrimSpace(filter.Search)
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.PhaseID != nil {
		domainFilter.Filters["phase_id"] = *filter.PhaseID
	}
	if filter.ParcelID != nil {
		domainFilter.Filters["parcel_id"] = *filter.ParcelID
	}
	if filter.ProductType != "" {
		domainFilter.Filters["product_type"] = filter.ProductType
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

	items, err := s.itemRepo.FindByProject(ctx, projectID, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.itemRepo.CountByProject(ctx, projectID, domainFilter)
	if err != nil {
		return nil, err
	}
	out := make([]ItemResponse, len(items))
	for i := range items {
		out[i] = ToItemResponse(&items[i])
	}
	page := shared.NewPaginated(out, total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}

// Update replaces a unit's listing fields. Status changes go through ChangeStatus.
func (s *InventoryService) Update(ctx context.Context, id uuid.UUID, req ItemRequest) (*ItemResponse, error) {
	it, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkPlacement(ctx, it.ProjectID, req.PhaseID, req.ParcelID); err != nil {
		return nil, err
	}
	if !strings.EqualFold(strings.TrimSpace(req.UnitNumber), it.UnitNumber) {
		if err := s.ensureUnitFree(ctx, it.ProjectID, req.UnitNumber, &it.ID); err != nil {
			return nil, err
		}
	}
	if err := it.Update(req.listing()); err != nil {
		return nil, err
	}
	if err := s.itemRepo.Save(ctx, it); err != nil {
		return nil, err
	}
	resp := ToItemResponse(it)
	return &resp, nil
}

// ChangeStatus moves a unit to another sales status
func (s *InventoryService) ChangeStatus(ctx context.Context, id uuid.UUID, req ChangeStatusRequest) (*ItemResponse, error) {
	it, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	at := s.now()
	if req.ClosedAt != nil {
		at = *req.ClosedAt
	}
	from := it.Status
	if err := it.ChangeStatus(inventory.Status(req.Status), req.SalePrice, at); err != nil {
		return nil, err
	}
	if err := s.itemRepo.Save(ctx, it); err != nil {
		return nil, err
	}

	s.logger.Info("Inventory status changed",
		zap.String("item_id", it.ID.String()),
		zap.String("unit", it.UnitNumber),
		zap.String("from", string(from)),
		zap.String("to", string(it.Status)),
	)
	resp := ToItemResponse(it)
	return &resp, nil
}

// Delete deletes a unit
func (s *InventoryService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.itemRepo.Delete(ctx, id)
}

// Summary returns unit counts and values by status with absorption
func (s *InventoryService) Summary(ctx context.Context, projectID uuid.UUID) (*SummaryResponse, error) {
	if err := s.ensureProject(ctx, projectID); err != nil {
		return nil, err
	}
	totals, err := s.itemRepo.TotalsByStatus(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return &SummaryResponse{ProjectID: projectID, Summary: inventory.BuildSummary(totals)}, nil
}

func (s *InventoryService) ensureProject(ctx context.Context, id uuid.UUID) error {
	ok, err := s.projectRepo.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return shared.NewNotFoundError("project")
	}
	return nil
}

func (s *InventoryService) ensureUnitFree(ctx context.Context, projectID uuid.UUID, unit string, excludeID *uuid.UUID) error {
	exists, err := s.itemRepo.ExistsByUnitNumber(ctx, projectID, strings.ToUpper(strings.TrimSpace(unit)), excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError(shared.CodeAlreadyExists, "Unit number already exists in this project")
	}
	return nil
}

func (s *InventoryService) checkPlacement(ctx context.Context, projectID uuid.UUID, phaseID, parcelID *uuid.UUID) error {
	if phaseID != nil && s.phaseRepo != nil {
		ph, err := s.phaseRepo.FindByID(ctx, *phaseID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewInvalidInputError("phase not found")
			}
			return err
		}
		if ph.ProjectID != projectID {
			return shared.NewInvalidInputError("phase belongs to a different project")
		}
	}
	if parcelID != nil && s.parcelRepo != nil {
		p, err := s.parcelRepo.FindByID(ctx, *parcelID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewInvalidInputError("parcel not found")
			}
			return err
		}
		if p.ProjectID != projectID {
			return shared.NewInvalidInputError("parcel belongs to a different project")
		}
	}
	return nil
}
