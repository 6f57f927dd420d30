// Package finance manages the debt facilities of a project.
package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/landscape/backend/internal/domain/finance"
	"github.com/landscape/backend/internal/domain/project"
	"github.com/landscape/backend/internal/domain/shared"
)

// FacilityService handles debt facility CRUD and schedules
type FacilityService struct {
	projectRepo  project.ProjectRepository
	facilityRepo finance.DebtFacilityRepository
}

// NewFacilityService creates a new FacilityService
func NewFacilityService(projectRepo project.ProjectRepository, facilityRepo finance.DebtFacilityRepository) *FacilityService {
	return &FacilityService{projectRepo: projectRepo, facilityRepo: facilityRepo}
}

// Create creates a facility for a project
func (s *FacilityService) Create(ctx context.Context, projectID uuid.UUID, req FacilityRequest) (*FacilityResponse, error) {
	ok, err := s.projectRepo.Exists(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, shared.NewNotFoundError("project")
	}
	terms, err := req.terms()
	if err != nil {
		return nil, err
	}
	f, err := finance.NewDebtFacility(projectID, req.Name, req.Lender, finance.FacilityType(req.FacilityType), terms)
	if err != nil {
		return nil, err
	}
	if err := s.facilityRepo.Save(ctx, f); err != nil {
		return nil, err
	}
	resp := ToFacilityResponse(f)
	return &resp, nil
}

// GetByID retrieves a facility
func (s *FacilityService) GetByID(ctx context.Context, id uuid.UUID) (*FacilityResponse, error) {
	f, err := s.facilityRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToFacilityResponse(f)
	return &resp, nil
}

// List lists a project's facilities
func (s *FacilityService) List(ctx context.Context, projectID uuid.UUID) (*FacilityListResponse, error) {
	ok, err := s.projectRepo.Exists(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, shared.NewNotFoundError("project")
	}
	facilities, err := s.facilityRepo.FindByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	total, err := s.facilityRepo.TotalCommitment(ctx, projectID)
	if err != nil {
		return nil, err
	}
	resp := &FacilityListResponse{
		Facilities:      make([]FacilityResponse, len(facilities)),
		TotalCommitment: total,
	}
	for i := range facilities {
		resp.Facilities[i] = ToFacilityResponse(&facilities[i])
	}
	return resp, nil
}

// Update replaces a facility's fields and terms
func (s *FacilityService) Update(ctx context.Context, id uuid.UUID, req FacilityRequest) (*FacilityResponse, error) {
	f, err := s.facilityRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	terms, err := req.terms()
	if err != nil {
		return nil, err
	}
	if err := f.Update(req.Name, req.Lender, finance.FacilityType(req.FacilityType), terms); err != nil {
		return nil, err
	}
	if err := s.facilityRepo.Save(ctx, f); err != nil {
		return nil, err
	}
	resp := ToFacilityResponse(f)
	return &resp, nil
}

// Delete deletes a facility
func (s *FacilityService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.facilityRepo.Delete(ctx, id)
}

// Schedule computes a facility's monthly debt service schedule
func (s *FacilityService) Schedule(ctx context.Context, id uuid.UUID) (*ScheduleResponse, error) {
	f, err := s.facilityRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToScheduleResponse(f.ID, f.BuildSchedule())
	return &resp, nil
}

func (r FacilityRequest) terms() (finance.Terms, error) {
	start, err := time.Parse(dateLayout, r.StartDate)
	if err != nil {
		return finance.Terms{}, shared.NewInvalidInputError("start_date must be YYYY-MM-DD")
	}
	return finance.Terms{
		Commitment:         r.Commitment,
		InterestRate:       r.InterestRate,
		TermMonths:         r.TermMonths,
		AmortizationMonths: r.AmortizationMonths,
		OriginationFeePct:  r.OriginationFeePct,
		StartDate:          start,
	}, nil
}
