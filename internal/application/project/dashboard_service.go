package project

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/landscape/backend/internal/domain/budget"
	"github.com/landscape/backend/internal/domain/finance"
	"github.com/landscape/backend/internal/domain/inventory"
	"github.com/landscape/backend/internal/domain/planning"
	"github.com/landscape/backend/internal/domain/project"
	"github.com/landscape/backend/internal/domain/shared"
	"github.com/landscape/backend/internal/domain/valuation"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// DashboardService assembles the project dashboard from every context
type DashboardService struct {
	projectRepo   project.ProjectRepository
	categoryRepo  budget.CategoryRepository
	itemRepo      budget.ItemRepository
	parcelRepo    planning.ParcelRepository
	facilityRepo  finance.DebtFacilityRepository
	inventoryRepo inventory.ItemRepository
	scenarioRepo  valuation.ScenarioRepository
	now           func() time.Time
}

// DashboardDeps are the repositories the dashboard reads from
type DashboardDeps struct {
	Projects   project.ProjectRepository
	Categories budget.CategoryRepository
	Items      budget.ItemRepository
	Parcels    planning.ParcelRepository
	Facilities finance.DebtFacilityRepository
	Inventory  inventory.ItemRepository
	Scenarios  valuation.ScenarioRepository
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(deps DashboardDeps) *DashboardService {
	return &DashboardService{
		projectRepo:   deps.Projects,
		categoryRepo:  deps.Categories,
		itemRepo:      deps.Items,
		parcelRepo:    deps.Parcels,
		facilityRepo:  deps.Facilities,
		inventoryRepo: deps.Inventory,
		scenarioRepo:  deps.Scenarios,
		now:           time.Now,
	}
}

// Get builds the dashboard of a project
func (s *DashboardService) Get(ctx context.Context, id uuid.UUID) (*DashboardResponse, error) {
	p, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := &DashboardResponse{
		Project: ToProjectResponse(p),
		AsOf:    s.now().UTC(),
	}

	// sections write disjoint fields
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		resp.Budget, err = s.budgetPosition(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		resp.Land, err = s.landPosition(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		resp.Debt, err = s.debtPosition(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		resp.Inventory, err = s.inventoryPosition(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		resp.Valuation, err = s.valuationHighlights(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *DashboardService) budgetPosition(ctx context.Context, projectID uuid.UUID) (BudgetPosition, error) {
	pos := BudgetPosition{Total: decimal.Zero}
	categories, err := s.categoryRepo.CountByProject(ctx, projectID)
	if err != nil {
		return pos, err
	}
	totals, err := s.itemRepo.TotalsByCategory(ctx, projectID)
	if err != nil {
		return pos, err
	}
	pos.Categories = categories
	for _, t := range totals {
		pos.Total = pos.Total.Add(t.Total)
		pos.Items += t.ItemCount
	}
	return pos, nil
}

func (s *DashboardService) landPosition(ctx context.Context, projectID uuid.UUID) (LandPosition, error) {
	pos := LandPosition{Acres: decimal.Zero}
	totals, err := s.parcelRepo.SummarizeByLandUse(ctx, projectID)
	if err != nil {
		return pos, err
	}
	for _, t := range totals {
		pos.Parcels += t.ParcelCount
		pos.Acres = pos.Acres.Add(t.Acres)
		pos.Units += t.Units
	}
	return pos, nil
}

func (s *DashboardService) debtPosition(ctx context.Context, projectID uuid.UUID) (DebtPosition, error) {
	facilities, err := s.facilityRepo.FindByProject(ctx, projectID)
	if err != nil {
		return DebtPosition{}, err
	}
	total, err := s.facilityRepo.TotalCommitment(ctx, projectID)
	if err != nil {
		return DebtPosition{}, err
	}
	return DebtPosition{Facilities: len(facilities), TotalCommitment: total}, nil
}

func (s *DashboardService) inventoryPosition(ctx context.Context, projectID uuid.UUID) (InventoryPosition, error) {
	totals, err := s.inventoryRepo.TotalsByStatus(ctx, projectID)
	if err != nil {
		return InventoryPosition{}, err
	}
	summary := inventory.BuildSummary(totals)
	pos := InventoryPosition{
		TotalUnits: summary.TotalUnits,
		ByStatus:   make(map[string]int64, len(summary.ByStatus)),
		ListValue:  summary.ListValue,
		SaleValue:  summary.SaleValue,
		Absorption: summary.Absorption,
	}
	for _, t := range summary.ByStatus {
		pos.ByStatus[string(t.Status)] = t.Count
	}
	return pos, nil
}

func (s *DashboardService) valuationHighlights(ctx context.Context, projectID uuid.UUID) (*ValuationHighlights, error) {
	scenario, err := s.scenarioRepo.FindLatest(ctx, projectID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	m := scenario.Evaluate()
	return &ValuationHighlights{
		ScenarioID:     scenario.ID,
		ScenarioName:   scenario.Name,
		NPV:            m.NPV,
		IRR:            m.IRR,
		EquityMultiple: m.EquityMultiple,
		Profit:         m.Profit,
	}, nil
}
