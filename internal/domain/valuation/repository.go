package valuation

import (
	"context"

	"github.com/google/uuid"
)

// ScenarioRepository defines persistence for valuation scenarios
type ScenarioRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Scenario, error)
	FindByProject(ctx context.Context, projectID uuid.UUID) ([]Scenario, error)
	FindLatest(ctx context.Context, projectID uuid.UUID) (*Scenario, error)
	Save(ctx context.Context, scenario *Scenario) error
	Delete(ctx context.Context, id uuid.UUID) error
}
