package project

import (
	"context"

	"github.com/google/uuid"
	"github.com/landscape/backend/internal/domain/shared"
)

// ProjectRepository defines the interface for project persistence
type ProjectRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Project, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Project, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Save(ctx context.Context, project *Project) error
	Delete(ctx context.Context, id uuid.UUID) error

	// FindBoundaries lists the stored boundaries of a project
	FindBoundaries(ctx context.Context, projectID uuid.UUID) ([]Boundary, error)

	// ReplaceBoundary atomically deletes the project's boundaries, inserts
	// boundary and saves the project's derived boundary fields.
	ReplaceBoundary(ctx context.Context, project *Project, boundary *Boundary) error
}
