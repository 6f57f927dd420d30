package planning

import (
	"time"

	"github.com/google/uuid"
	"github.com/landscape/backend/internal/domain/planning"
	"github.com/shopspring/decimal"
)

// CreateAreaRequest represents a request to create an area
type CreateAreaRequest struct {
	Code      string `json:"code" binding:"required,min=1,max=30"`
	Name      string `json:"name" binding:"required,min=1,max=200"`
	SortOrder int    `json:"sort_order"`
}

// UpdateAreaRequest represents a request to update an area
type UpdateAreaRequest struct {
	Code      string `json:"code" binding:"required,min=1,max=30"`
	Name      string `json:"name" binding:"required,min=1,max=200"`
	SortOrder int    `json:"sort_order"`
}

// AreaResponse represents an area in API responses
type AreaResponse struct {
	ID        uuid.UUID `json:"id"`
	ProjectID uuid.UUID `json:"project_id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreatePhaseRequest represents a request to create a phase
type CreatePhaseRequest struct {
	AreaID    *uuid.UUID `json:"area_id"`
	Code      string     `json:"code" binding:"required,min=1,max=30"`
	Name      string     `json:"name" binding:"required,min=1,max=200"`
	SortOrder int        `json:"sort_order"`
}

// UpdatePhaseRequest represents a request to update a phase
type UpdatePhaseRequest struct {
	AreaID    *uuid.UUID `json:"area_id"`
	Code      string     `json:"code" binding:"required,min=1,max=30"`
	Name      string     `json:"name" binding:"required,min=1,max=200"`
	Status    string     `json:"status" binding:"required,oneof=planned entitled under_construction complete"`
	SortOrder int        `json:"sort_order"`
}

// PhaseResponse represents a phase in API responses
type PhaseResponse struct {
	ID        uuid.UUID  `json:"id"`
	ProjectID uuid.UUID  `json:"project_id"`
	AreaID    *uuid.UUID `json:"area_id,omitempty"`
	Code      string     `json:"code"`
	Name      string     `json:"name"`
	Status    string     `json:"status"`
	SortOrder int        `json:"sort_order"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CreateParcelRequest represents a request to create a parcel
type CreateParcelRequest struct {
	AreaID      *uuid.UUID      `json:"area_id"`
	PhaseID     *uuid.UUID      `json:"phase_id"`
	APN         string          `json:"apn" binding:"max=50"`
	Name        string          `json:"name" binding:"required,min=1,max=200"`
	Acres       decimal.Decimal `json:"acres"`
	LandUseCode string          `json:"landuse_code" binding:"max=100"`
	Units       int             `json:"units" binding:"min=0"`
}

// UpdateParcelRequest represents a request to update a parcel
type UpdateParcelRequest struct {
	AreaID      *uuid.UUID      `json:"area_id"`
	PhaseID     *uuid.UUID      `json:"phase_id"`
	APN         string          `json:"apn" binding:"max=50"`
	Name        string          `json:"name" binding:"required,min=1,max=200"`
	Acres       decimal.Decimal `json:"acres"`
	LandUseCode string          `json:"landuse_code" binding:"max=100"`
	Units       int             `json:"units" binding:"min=0"`
	Status      string          `json:"status" binding:"required,oneof=raw entitled developed sold"`
}

// ParcelListFilter represents filter options for the parcel list
type ParcelListFilter struct {
	Search      string     `form:"search"`
	AreaID      *uuid.UUID `form:"-"`
	PhaseID     *uuid.UUID `form:"-"`
	LandUseCode string     `form:"landuse_code"`
	TaxonomyID  *uuid.UUID `form:"-"`
	Status      string     `form:"status" binding:"omitempty,oneof=raw entitled developed sold"`
	Unmapped    bool       `form:"unmapped"`
	Page        int        `form:"page" binding:"omitempty,min=1"`
	PageSize    int        `form:"page_size" binding:"omitempty,min=1,max=500"`
	OrderBy     string     `form:"order_by"`
	OrderDir    string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ParcelResponse represents a parcel in API responses
type ParcelResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProjectID   uuid.UUID       `json:"project_id"`
	AreaID      *uuid.UUID      `json:"area_id,omitempty"`
	PhaseID     *uuid.UUID      `json:"phase_id,omitempty"`
	APN         string          `json:"apn"`
	Name        string          `json:"name"`
	Acres       decimal.Decimal `json:"acres"`
	LandUseCode string          `json:"landuse_code"`
	TaxonomyID  *uuid.UUID      `json:"taxonomy_id,omitempty"`
	Units       int             `json:"units"`
	Density     decimal.Decimal `json:"density"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Version     int             `json:"version"`
}

// LandUseSummaryRow aggregates parcels sharing a taxonomy entry or raw code
type LandUseSummaryRow struct {
	TaxonomyID   *uuid.UUID      `json:"taxonomy_id,omitempty"`
	TaxonomyCode string          `json:"taxonomy_code,omitempty"`
	TaxonomyName string          `json:"taxonomy_name,omitempty"`
	LandUseCode  string          `json:"landuse_code,omitempty"`
	Mapped       bool            `json:"mapped"`
	ParcelCount  int64           `json:"parcel_count"`
	Acres        decimal.Decimal `json:"acres"`
	Units        int64           `json:"units"`
}

// LandUseSummaryResponse is the project's land-use breakdown
type LandUseSummaryResponse struct {
	Rows        []LandUseSummaryRow `json:"rows"`
	TotalAcres  decimal.Decimal     `json:"total_acres"`
	TotalUnits  int64               `json:"total_units"`
	ParcelCount int64               `json:"parcel_count"`
}

// ImportParcelsRequest asks for GIS parcels to be created in a project
type ImportParcelsRequest struct {
	APNs    []string   `json:"apns" binding:"required,min=1,max=2000,dive,required,max=50"`
	AreaID  *uuid.UUID `json:"area_id"`
	PhaseID *uuid.UUID `json:"phase_id"`
}

// ImportParcelsResponse reports the outcome of a GIS import
type ImportParcelsResponse struct {
	Requested int              `json:"requested"`
	Created   []ParcelResponse `json:"created"`
	Skipped   []string         `json:"skipped"`
	NotFound  []string         `json:"not_found"`
}

// ToAreaResponse converts a domain Area to AreaResponse
func ToAreaResponse(a *planning.Area) AreaResponse {
	return AreaResponse{
		ID:        a.ID,
		ProjectID: a.ProjectID,
		Code:      a.Code,
		Name:      a.Name,
		SortOrder: a.SortOrder,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// ToPhaseResponse converts a domain Phase to PhaseResponse
func ToPhaseResponse(p *planning.Phase) PhaseResponse {
	return PhaseResponse{
		ID:        p.ID,
		ProjectID: p.ProjectID,
		AreaID:    p.AreaID,
		Code:      p.Code,
		Name:      p.Name,
		Status:    string(p.Status),
		SortOrder: p.SortOrder,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// ToParcelResponse converts a domain Parcel to ParcelResponse
func ToParcelResponse(p *planning.Parcel) ParcelResponse {
	return ParcelResponse{
		ID:          p.ID,
		ProjectID:   p.ProjectID,
		AreaID:      p.AreaID,
		PhaseID:     p.PhaseID,
		APN:         p.APN,
		Name:        p.Name,
		Acres:       p.Acres,
		LandUseCode: p.LandUseCode,
		TaxonomyID:  p.TaxonomyID,
		Units:       p.Units,
		Density:     p.Density(),
		Status:      string(p.Status),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		Version:     p.Version,
	}
}
