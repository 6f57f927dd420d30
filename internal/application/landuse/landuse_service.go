// Package landuse implements the land-use taxonomy and the mapping wizard
// that reconciles legacy parcel codes against it.
package landuse

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/landscape/backend/internal/domain/landuse"
	"github.com/landscape/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// LandUseService handles taxonomy maintenance and legacy code mapping
type LandUseService struct {
	taxonomyRepo landuse.TaxonomyRepository
	mappingRepo  landuse.MappingRepository
	logger       *zap.Logger
}

// NewLandUseService creates a new LandUseService
func NewLandUseService(taxonomyRepo landuse.TaxonomyRepository, mappingRepo landuse.MappingRepository, logger *zap.Logger) *LandUseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LandUseService{taxonomyRepo: taxonomyRepo, mappingRepo: mappingRepo, logger: logger}
}

// CreateTaxonomy creates a taxonomy entry
func (s *LandUseService) CreateTaxonomy(ctx context.Context, req CreateTaxonomyRequest) (*TaxonomyResponse, error) {
	t, err := s.newTaxonomy(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.taxonomyRepo.Save(ctx, t); err != nil {
		return nil, err
	}
	resp := ToTaxonomyResponse(t)
	return &resp, nil
}

// GetTaxonomy retrieves a taxonomy entry
func (s *LandUseService) GetTaxonomy(ctx context.Context, id uuid.UUID) (*TaxonomyResponse, error) {
	t, err := s.taxonomyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToTaxonomyResponse(t)
	return &resp, nil
}

// ListTaxonomy retrieves a page of taxonomy entries
func (s *LandUseService) ListTaxonomy(ctx context.Context, filter TaxonomyListFilter) (*shared.Paginated[TaxonomyResponse], error) {
	domainFilter := shared.DefaultFilter()
	domainFilter.OrderBy = "code"
	domainFilter.OrderDir = "asc"
	domainFilter.PageSize = 100
	domainFilter.Search = strings.TrimSpace(filter.Search)
	if filter.Family != "" {
		domainFilter.Filters["family"] = filter.Family
	}
	if filter.Active != nil {
		domainFilter.Filters["active"] = *filter.Active
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

	entries, err := s.taxonomyRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.taxonomyRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	items := make([]TaxonomyResponse, len(entries))
	for i := range entries {
		items[i] = ToTaxonomyResponse(&entries[i])
	}
	page := shared.NewPaginated(items, total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}

// UpdateTaxonomy updates a taxonomy entry
func (s *LandUseService) UpdateTaxonomy(ctx context.Context, id uuid.UUID, req UpdateTaxonomyRequest) (*TaxonomyResponse, error) {
	t, err := s.taxonomyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if code := strings.TrimSpace(req.Code); code != t.Code {
		if err := s.ensureCodeFree(ctx, code); err != nil {
			return nil, err
		}
	}
	active := t.Active
	if req.Active != nil {
		active = *req.Active
	}
	if err := t.Update(req.Code, req.Name, landuse.Family(req.Family), req.Description, active); err != nil {
		return nil, err
	}
	if err := s.taxonomyRepo.Save(ctx, t); err != nil {
		return nil, err
	}
	resp := ToTaxonomyResponse(t)
	return &resp, nil
}

// DeleteTaxonomy deletes a taxonomy entry. Parcels mapped to it become unmapped.
func (s *LandUseService) DeleteTaxonomy(ctx context.Context, id uuid.UUID) error {
	return s.taxonomyRepo.Delete(ctx, id)
}

// Analyze reconciles distinct legacy parcel codes, optionally for one
// project, against the taxonomy and recorded mappings.
func (s *LandUseService) Analyze(ctx context.Context, projectID *uuid.UUID) (*AnalysisResponse, error) {
	codes, err := s.mappingRepo.DistinctParcelCodes(ctx, projectID)
	if err != nil {
		return nil, err
	}
	taxonomy, err := s.taxonomyRepo.FindAll(ctx, shared.Filter{OrderBy: "code", OrderDir: "asc"})
	if err != nil {
		return nil, err
	}
	mappings, err := s.mappingRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	resp := ToAnalysisResponse(projectID, landuse.Analyze(codes, taxonomy, mappings))
	return &resp, nil
}

// Map records that legacyCode means the taxonomy entry and updates every
// parcel carrying exactly that code.
func (s *LandUseService) Map(ctx context.Context, req MapCodeRequest) (*MappingResultResponse, error) {
	t, err := s.taxonomyRepo.FindByID(ctx, req.TaxonomyID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("taxonomy entry")
		}
		return nil, err
	}
	mapping, err := landuse.NewCodeMapping(req.LegacyCode, t.ID)
	if err != nil {
		return nil, err
	}
	updated, err := s.mappingRepo.Apply(ctx, mapping, req.ProjectID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Mapped legacy land-use code",
		zap.String("legacy_code", mapping.LegacyCode),
		zap.String("taxonomy_code", t.Code),
		zap.Int64("parcels_updated", updated),
	)
	tr := ToTaxonomyResponse(t)
	return &MappingResultResponse{LegacyCode: mapping.LegacyCode, Taxonomy: &tr, ParcelsUpdated: updated}, nil
}

// CreateAndMap creates a taxonomy entry and maps legacyCode to it in one transaction
func (s *LandUseService) CreateAndMap(ctx context.Context, req CreateAndMapRequest) (*MappingResultResponse, error) {
	t, err := s.newTaxonomy(ctx, req.Taxonomy)
	if err != nil {
		return nil, err
	}
	mapping, err := landuse.NewCodeMapping(req.LegacyCode, t.ID)
	if err != nil {
		return nil, err
	}
	updated, err := s.mappingRepo.CreateTaxonomyAndApply(ctx, t, mapping, req.ProjectID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Created taxonomy entry for legacy land-use code",
		zap.String("legacy_code", mapping.LegacyCode),
		zap.String("taxonomy_code", t.Code),
		zap.Int64("parcels_updated", updated),
	)
	tr := ToTaxonomyResponse(t)
	return &MappingResultResponse{LegacyCode: mapping.LegacyCode, Taxonomy: &tr, ParcelsUpdated: updated}, nil
}

// Unmap removes the mapping for legacyCode and clears it from parcels
func (s *LandUseService) Unmap(ctx context.Context, legacyCode string) (*MappingResultResponse, error) {
	if strings.TrimSpace(legacyCode) == "" {
		return nil, shared.NewInvalidInputError("legacy code cannot be empty")
	}
	cleared, err := s.mappingRepo.Remove(ctx, legacyCode)
	if err != nil {
		return nil, err
	}
	return &MappingResultResponse{LegacyCode: legacyCode, ParcelsUpdated: cleared}, nil
}

// ListMappings lists recorded legacy code mappings
func (s *LandUseService) ListMappings(ctx context.Context) ([]MappingResponse, error) {
	mappings, err := s.mappingRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]MappingResponse, len(mappings))
	for i, m := range mappings {
		out[i] = MappingResponse{ID: m.ID, LegacyCode: m.LegacyCode, TaxonomyID: m.TaxonomyID, CreatedAt: m.CreatedAt}
	}
	return out, nil
}

func (s *LandUseService) newTaxonomy(ctx context.Context, req CreateTaxonomyRequest) (*landuse.Taxonomy, error) {
	if err := s.ensureCodeFree(ctx, strings.TrimSpace(req.Code)); err != nil {
		return nil, err
	}
	t, err := landuse.NewTaxonomy(req.Code, req.Name, landuse.Family(req.Family))
	if err != nil {
		return nil, err
	}
	t.Description = strings.TrimSpace(req.Description)
	return t, nil
}

func (s *LandUseService) ensureCodeFree(ctx context.Context, code string) error {
	exists, err := s.taxonomyRepo.ExistsByCode(ctx, code)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError(shared.CodeAlreadyExists, "Taxonomy entry with this code already exists")
	}
	return nil
}
