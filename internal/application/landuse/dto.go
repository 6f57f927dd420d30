package landuse

import (
	"time"

	"github.com/google/uuid"
	"github.com/landscape/backend/internal/domain/landuse"
)

// CreateTaxonomyRequest represents a request to create a taxonomy entry
type CreateTaxonomyRequest struct {
	Code        string `json:"code" binding:"required,min=1,max=100"`
	Name        string `json:"name" binding:"required,min=1,max=200"`
	Family      string `json:"family" binding:"required,oneof=residential commercial industrial civic open_space mixed_use other"`
	Description string `json:"description" binding:"max=2000"`
}

// UpdateTaxonomyRequest represents a request to update a taxonomy entry
type UpdateTaxonomyRequest struct {
	Code        string `json:"code" binding:"required,min=1,max=100"`
	Name        string `json:"name" binding:"required,min=1,max=200"`
	Family      string `json:"family" binding:"required,oneof=residential commercial industrial civic open_space mixed_use other"`
	Description string `json:"description" binding:"max=2000"`
	Active      *bool  `json:"active"`
}

// TaxonomyListFilter represents filter options for the taxonomy list
type TaxonomyListFilter struct {
	Search   string `form:"search"`
	Family   string `form:"family"`
	Active   *bool  `form:"active"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=500"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// TaxonomyResponse represents a taxonomy entry in API responses
type TaxonomyResponse struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Family      string    `json:"family"`
	Description string    `json:"description"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MapCodeRequest maps a legacy parcel code to an existing taxonomy entry
type MapCodeRequest struct {
	LegacyCode string     `json:"legacy_code" binding:"required,min=1,max=100"`
	TaxonomyID uuid.UUID  `json:"taxonomy_id" binding:"required"`
	ProjectID  *uuid.UUID `json:"project_id"`
}

// CreateAndMapRequest creates a taxonomy entry and maps a legacy code to it
type CreateAndMapRequest struct {
	LegacyCode string                `json:"legacy_code" binding:"required,min=1,max=100"`
	Taxonomy   CreateTaxonomyRequest `json:"taxonomy"`
	ProjectID  *uuid.UUID            `json:"project_id"`
}

// MappingResultResponse reports what a map operation changed
type MappingResultResponse struct {
	LegacyCode     string            `json:"legacy_code"`
	Taxonomy       *TaxonomyResponse `json:"taxonomy,omitempty"`
	ParcelsUpdated int64             `json:"parcels_updated"`
}

// MappingResponse represents a stored code mapping
type MappingResponse struct {
	ID         uuid.UUID `json:"id"`
	LegacyCode string    `json:"legacy_code"`
	TaxonomyID uuid.UUID `json:"taxonomy_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// MatchedCodeResponse is a legacy code resolving to a taxonomy entry
type MatchedCodeResponse struct {
	Code        string    `json:"code"`
	ParcelCount int64     `json:"parcel_count"`
	TaxonomyID  uuid.UUID `json:"taxonomy_id"`
	ViaMapping  bool      `json:"via_mapping"`
}

// UnmatchedCodeResponse is a legacy code without an exact match
type UnmatchedCodeResponse struct {
	Code        string            `json:"code"`
	ParcelCount int64             `json:"parcel_count"`
	Suggestion  *TaxonomyResponse `json:"suggestion,omitempty"`
}

// AnalysisResponse is the wizard's view of legacy codes
type AnalysisResponse struct {
	ProjectID        *uuid.UUID              `json:"project_id,omitempty"`
	Matched          []MatchedCodeResponse   `json:"matched"`
	Unmatched        []UnmatchedCodeResponse `json:"unmatched"`
	TotalParcels     int64                   `json:"total_parcels"`
	UnmatchedParcels int64                   `json:"unmatched_parcels"`
}

// ToTaxonomyResponse converts a domain Taxonomy to TaxonomyResponse
func ToTaxonomyResponse(t *landuse.Taxonomy) TaxonomyResponse {
	return TaxonomyResponse{
		ID:          t.ID,
		Code:        t.Code,
		Name:        t.Name,
		Family:      string(t.Family),
		Description: t.Description,
		Active:      t.Active,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// ToAnalysisResponse converts a domain Analysis to AnalysisResponse
func ToAnalysisResponse(projectID *uuid.UUID, a landuse.Analysis) AnalysisResponse {
	resp := AnalysisResponse{
		ProjectID:        projectID,
		Matched:          make([]MatchedCodeResponse, len(a.Matched)),
		Unmatched:        make([]UnmatchedCodeResponse, len(a.Unmatched)),
		TotalParcels:     a.TotalParcels,
		UnmatchedParcels: a.UnmatchedParcel,
	}
	for i, m := range a.Matched {
		resp.Matched[i] = MatchedCodeResponse(m)
	}
	for i, u := range a.Unmatched {
		resp.Unmatched[i] = UnmatchedCodeResponse{Code: u.Code, ParcelCount: u.ParcelCount}
		if u.Suggestion != nil {
			s := ToTaxonomyResponse(u.Suggestion)
			resp.Unmatched[i].Suggestion = &s
		}
	}
	return resp
}
