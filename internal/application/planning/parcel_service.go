package planning

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/landscape/backend/internal/domain/gis"
	"github.com/landscape/backend/internal/domain/landuse"
	"github.com/landscape/backend/internal/domain/planning"
	"github.com/landscape/backend/internal/domain/project"
	"github.com/landscape/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ParcelService handles parcel operations, including import from GIS
type ParcelService struct {
	projectRepo  project.ProjectRepository
	areaRepo     planning.AreaRepository
	phaseRepo    planning.PhaseRepository
	parcelRepo   planning.ParcelRepository
	taxonomyRepo landuse.TaxonomyRepository
	mappingRepo  landuse.MappingRepository
	source       gis.ParcelSource
	logger       *zap.Logger
}

// ParcelServiceDeps are the collaborators of ParcelService. Source may be
// nil when no GIS service is configured. Without Taxonomy and Mappings new
// parcels are left unmapped.
type ParcelServiceDeps struct {
	Projects project.ProjectRepository
	Areas    planning.AreaRepository
	Phases   planning.PhaseRepository
	Parcels  planning.ParcelRepository
	Taxonomy landuse.TaxonomyRepository
	Mappings landuse.MappingRepository
	Source   gis.ParcelSource
	Logger   *zap.Logger
}

// NewParcelService creates a new ParcelService
func NewParcelService(deps ParcelServiceDeps) *ParcelService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ParcelService{
		projectRepo:  deps.Projects,
		areaRepo:     deps.Areas,
		phaseRepo:    deps.Phases,
		parcelRepo:   deps.Parcels,
		taxonomyRepo: deps.Taxonomy,
		mappingRepo:  deps.Mappings,
		source:       deps.Source,
		logger:       logger,
	}
}

// Create creates a parcel in a project
func (s *ParcelService) Create(ctx context.Context, projectID uuid.UUID, req CreateParcelRequest) (*ParcelResponse, error) {
	if err := ensureProject(ctx, s.projectRepo, projectID); err != nil {
		return nil, err
	}
	parcel, err := planning.NewParcel(projectID, req.Name, req.Acres)
	if err != nil {
		return nil, err
	}
	if err := parcel.Update(req.Name, req.APN, req.Acres, req.Units, planning.ParcelStatusRaw); err != nil {
		return nil, err
	}
	parcel.SetLandUseCode(req.LandUseCode)
	if err := s.newResolver().resolve(ctx, parcel); err != nil {
		return nil, err
	}
	if err := s.place(ctx, parcel, req.AreaID, req.PhaseID); err != nil {
		return nil, err
	}
	if err := s.parcelRepo.Save(ctx, parcel); err != nil {
		return nil, err
	}
	resp := ToParcelResponse(parcel)
	return &resp, nil
}

// GetByID retrieves a parcel
func (s *ParcelService) GetByID(ctx context.Context, id uuid.UUID) (*ParcelResponse, error) {
	parcel, err := s.parcelRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToParcelResponse(parcel)
	return &resp, nil
}

// List retrieves a page of a project's parcels
func (s *ParcelService) List(ctx context.Context, projectID uuid.UUID, filter ParcelListFilter) (*shared.Paginated[ParcelResponse], error) {
	if err := ensureProject(ctx, s.projectRepo, projectID); err != nil {
		return nil, err
	}

	domainFilter := shared.DefaultFilter()
	domainFilter.OrderBy = "name"
	domainFilter.OrderDir = "asc"
	domainFilter.PageSize = 100
	domainFilter.Search = strings.TrimSpace(filter.Search)
	if filter.AreaID != nil {
		domainFilter.Filters["area_id"] = *filter.AreaID
	}
	if filter.PhaseID != nil {
		domainFilter.Filters["phase_id"] = *filter.PhaseID
	}
	if filter.TaxonomyID != nil {
		domainFilter.Filters["taxonomy_id"] = *filter.TaxonomyID
	}
	if filter.LandUseCode != "" {
		domainFilter.Filters["landuse_code"] = filter.LandUseCode
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.Unmapped {
		domainFilter.Filters["unmapped"] = true
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

	parcels, err := s.parcelRepo.FindByProject(ctx, projectID, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.parcelRepo.CountByProject(ctx, projectID, domainFilter)
	if err != nil {
		return nil, err
	}
	items := make([]ParcelResponse, len(parcels))
	for i := range parcels {
		items[i] = ToParcelResponse(&parcels[i])
	}
	page := shared.NewPaginated(items, total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}

// Update updates a parcel. Changing the land-use code re-resolves its taxonomy entry.
func (s *ParcelService) Update(ctx context.Context, id uuid.UUID, req UpdateParcelRequest) (*ParcelResponse, error) {
	parcel, err := s.parcelRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := parcel.Update(req.Name, req.APN, req.Acres, req.Units, planning.ParcelStatus(req.Status)); err != nil {
		return nil, err
	}
	parcel.SetLandUseCode(req.LandUseCode)
	if err := s.newResolver().resolve(ctx, parcel); err != nil {
		return nil, err
	}
	if err := s.place(ctx, parcel, req.AreaID, req.PhaseID); err != nil {
		return nil, err
	}
	if err := s.parcelRepo.Save(ctx, parcel); err != nil {
		return nil, err
	}
	resp := ToParcelResponse(parcel)
	return &resp, nil
}

// Delete deletes a parcel
func (s *ParcelService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.parcelRepo.Delete(ctx, id)
}

// LandUseSummary groups the project's parcels by taxonomy entry; parcels
// whose code is not mapped are grouped under the raw code.
func (s *ParcelService) LandUseSummary(ctx context.Context, projectID uuid.UUID) (*LandUseSummaryResponse, error) {
	if err := ensureProject(ctx, s.projectRepo, projectID); err != nil {
		return nil, err
	}
	totals, err := s.parcelRepo.SummarizeByLandUse(ctx, projectID)
	if err != nil {
		return nil, err
	}

	resp := &LandUseSummaryResponse{Rows: make([]LandUseSummaryRow, 0, len(totals)), TotalAcres: decimal.Zero}
	names := make(map[uuid.UUID]*landuse.Taxonomy)
	for _, t := range totals {
		row := LandUseSummaryRow{
			TaxonomyID:  t.TaxonomyID,
			LandUseCode: t.LandUseCode,
			Mapped:      t.TaxonomyID != nil,
			ParcelCount: t.ParcelCount,
			Acres:       t.Acres,
			Units:       t.Units,
		}
		if t.TaxonomyID != nil {
			tax, ok := names[*t.TaxonomyID]
			if !ok {
				tax, err = s.taxonomyRepo.FindByID(ctx, *t.TaxonomyID)
				if err != nil && !errors.Is(err, shared.ErrNotFound) {
					return nil, err
				}
				names[*t.TaxonomyID] = tax
			}
			if tax != nil {
				row.TaxonomyCode = tax.Code
				row.TaxonomyName = tax.Name
			}
		}
		resp.Rows = append(resp.Rows, row)
		resp.ParcelCount += t.ParcelCount
		resp.TotalAcres = resp.TotalAcres.Add(t.Acres)
		resp.TotalUnits += t.Units
	}
	return resp, nil
}

// ImportParcels fetches parcels by APN from the GIS source and creates the
// ones the project does not already have.
func (s *ParcelService) ImportParcels(ctx context.Context, projectID uuid.UUID, req ImportParcelsRequest) (*ImportParcelsResponse, error) {
	if s.source == nil {
		return nil, shared.NewDomainError(shared.CodeUpstreamUnavailable, "GIS parcel service is not configured")
	}
	if err := ensureProject(ctx, s.projectRepo, projectID); err != nil {
		return nil, err
	}
	area, err := findArea(ctx, s.areaRepo, req.AreaID)
	if err != nil {
		return nil, err
	}
	phase, err := findPhase(ctx, s.phaseRepo, req.PhaseID)
	if err != nil {
		return nil, err
	}

	requested := gis.UniqueParcelIDs(req.APNs)
	if len(requested) == 0 {
		return nil, shared.NewInvalidInputError("at least one APN is required")
	}

	existingAPNs, err := s.parcelRepo.FindAPNs(ctx, projectID)
	if err != nil {
		return nil, err
	}
	existing := make(map[string]struct{}, len(existingAPNs))
	for _, apn := range existingAPNs {
		existing[gis.NormalizeParcelID(apn)] = struct{}{}
	}

	features, err := s.source.FetchByAPN(ctx, requested)
	if err != nil {
		return nil, err
	}

	resp := &ImportParcelsResponse{
		Requested: len(requested),
		Created:   []ParcelResponse{},
		Skipped:   []string{},
		NotFound:  []string{},
	}
	found := make(map[string]struct{}, len(features))
	parcels := make([]*planning.Parcel, 0, len(features))
	resolver := s.newResolver()
	for _, f := range features {
		id := gis.NormalizeParcelID(f.APN)
		found[id] = struct{}{}
		if _, dup := existing[id]; dup {
			resp.Skipped = append(resp.Skipped, f.APN)
			continue
		}
		existing[id] = struct{}{}

		parcel, err := planning.NewParcelFromFeature(projectID, f)
		if err != nil {
			return nil, err
		}
		if err := parcel.Place(area, phase); err != nil {
			return nil, err
		}
		if err := resolver.resolve(ctx, parcel); err != nil {
			return nil, err
		}
		parcels = append(parcels, parcel)
	}
	for _, id := range requested {
		if _, ok := found[id]; !ok {
			resp.NotFound = append(resp.NotFound, id)
		}
	}

	if err := s.parcelRepo.SaveBatch(ctx, parcels); err != nil {
		return nil, err
	}
	for _, p := range parcels {
		resp.Created = append(resp.Created, ToParcelResponse(p))
	}

	s.logger.Info("Imported GIS parcels",
		zap.String("project_id", projectID.String()),
		zap.Int("requested", resp.Requested),
		zap.Int("created", len(resp.Created)),
		zap.Int("skipped", len(resp.Skipped)),
		zap.Int("not_found", len(resp.NotFound)),
	)
	return resp, nil
}

func (s *ParcelService) place(ctx context.Context, parcel *planning.Parcel, areaID, phaseID *uuid.UUID) error {
	area, err := findArea(ctx, s.areaRepo, areaID)
	if err != nil {
		return err
	}
	phase, err := findPhase(ctx, s.phaseRepo, phaseID)
	if err != nil {
		return err
	}
	return parcel.Place(area, phase)
}

// landUseResolver tags a parcel with the taxonomy entry its land-use code
// stands for, in the order the land-use analysis matches: an exact taxonomy
// code first, then a recorded legacy code mapping.
type landUseResolver struct {
	taxonomy landuse.TaxonomyRepository
	mappings landuse.MappingRepository
	seen     map[string]*uuid.UUID
}

func (s *ParcelService) newResolver() *landUseResolver {
	return &landUseResolver{
		taxonomy: s.taxonomyRepo,
		mappings: s.mappingRepo,
		seen:     make(map[string]*uuid.UUID),
	}
}

func (r *landUseResolver) resolve(ctx context.Context, p *planning.Parcel) error {
	if p.LandUseCode == "" || p.TaxonomyID != nil {
		return nil
	}
	id, ok := r.seen[p.LandUseCode]
	if !ok {
		var err error
		if id, err = r.lookup(ctx, p.LandUseCode); err != nil {
			return err
		}
		r.seen[p.LandUseCode] = id
	}
	if id != nil {
		p.MapToTaxonomy(*id)
	}
	return nil
}

func (r *landUseResolver) lookup(ctx context.Context, code string) (*uuid.UUID, error) {
	if r.taxonomy != nil {
		t, err := r.taxonomy.FindByCode(ctx, code)
		if err == nil {
			return &t.ID, nil
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
	}
	if r.mappings != nil {
		m, err := r.mappings.FindByCode(ctx, code)
		if err == nil {
			return &m.TaxonomyID, nil
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
	}
	return nil, nil
}
