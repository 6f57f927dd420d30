// Package valuation manages DCF scenarios and evaluates them.
package valuation

import (
	"context"

	"github.com/google/uuid"
	"github.com/landscape/backend/internal/domain/project"
	"github.com/landscape/backend/internal/domain/shared"
	"github.com/landscape/backend/internal/domain/valuation"
)

// ScenarioService handles scenario CRUD and evaluation
type ScenarioService struct {
	projectRepo  project.ProjectRepository
	scenarioRepo valuation.ScenarioRepository
}

// NewScenarioService creates a new ScenarioService
func NewScenarioService(projectRepo project.ProjectRepository, scenarioRepo valuation.ScenarioRepository) *ScenarioService {
	return &ScenarioService{projectRepo: projectRepo, scenarioRepo: scenarioRepo}
}

// Create creates a scenario for a project
func (s *ScenarioService) Create(ctx context.Context, projectID uuid.UUID, req ScenarioRequest) (*ScenarioResponse, error) {
	if err := s.ensureProject(ctx, projectID); err != nil {
		return nil, err
	}
	sc, err := valuation.NewScenario(projectID, req.assumptions())
	if err != nil {
		return nil, err
	}
	if err := s.scenarioRepo.Save(ctx, sc); err != nil {
		return nil, err
	}
	resp := ToScenarioResponse(sc)
	return &resp, nil
}

// GetByID retrieves a scenario
func (s *ScenarioService) GetByID(ctx context.Context, id uuid.UUID) (*ScenarioResponse, error) {
	sc, err := s.scenarioRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToScenarioResponse(sc)
	return &resp, nil
}

// List lists a project's scenarios
func (s *ScenarioService) List(ctx context.Context, projectID uuid.UUID) ([]ScenarioResponse, error) {
	if err := s.ensureProject(ctx, projectID); err != nil {
		return nil, err
	}
	scenarios, err := s.scenarioRepo.FindByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	out := make([]ScenarioResponse, len(scenarios))
	for i := range scenarios {
		out[i] = ToScenarioResponse(&scenarios[i])
	}
	return out, nil
}

// Update replaces a scenario's assumptions
func (s *ScenarioService) Update(ctx context.Context, id uuid.UUID, req ScenarioRequest) (*ScenarioResponse, error) {
	sc, err := s.scenarioRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := sc.Update(req.assumptions()); err != nil {
		return nil, err
	}
	if err := s.scenarioRepo.Save(ctx, sc); err != nil {
		return nil, err
	}
	resp := ToScenarioResponse(sc)
	return &resp, nil
}

// Delete deletes a scenario
func (s *ScenarioService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.scenarioRepo.Delete(ctx, id)
}

// Evaluate computes NPV, IRR and equity multiple for a stored scenario
func (s *ScenarioService) Evaluate(ctx context.Context, id uuid.UUID) (*EvaluationResponse, error) {
	sc, err := s.scenarioRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	m := sc.Evaluate()
	return &EvaluationResponse{
		ScenarioID:           sc.ID,
		Name:                 sc.Name,
		PeriodType:           string(sc.PeriodType),
		Periods:              len(sc.CashFlows),
		PeriodicDiscountRate: m.PeriodicDiscountRate,
		ExitValue:            m.ExitValue,
		NPV:                  m.NPV,
		IRR:                  m.IRR,
		EquityMultiple:       m.EquityMultiple,
		Profit:               m.Profit,
		TotalInflows:         m.TotalInflows,
		TotalOutflows:        m.TotalOutflows,
	}, nil
}

func (s *ScenarioService) ensureProject(ctx context.Context, id uuid.UUID) error {
	ok, err := s.projectRepo.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return shared.NewNotFoundError("project")
	}
	return nil
}
