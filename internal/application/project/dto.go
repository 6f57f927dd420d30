package project

import (
	"time"

	"github.com/google/uuid"
	"github.com/landscape/backend/internal/domain/gis"
	"github.com/landscape/backend/internal/domain/project"
	"github.com/shopspring/decimal"
)

// CreateProjectRequest represents a request to create a project
type CreateProjectRequest struct {
	Name        string     `json:"name" binding:"required,min=1,max=200"`
	Description string     `json:"description" binding:"max=4000"`
	ProjectType string     `json:"project_type" binding:"required,oneof=master_planned subdivision multifamily commercial mixed_use"`
	City        string     `json:"city" binding:"max=100"`
	County      string     `json:"county" binding:"max=100"`
	State       string     `json:"state" binding:"omitempty,len=2"`
	StartDate   *time.Time `json:"start_date"`
}

// UpdateProjectRequest represents a request to update a project. Nil fields are left unchanged.
type UpdateProjectRequest struct {
	Name        *string    `json:"name" binding:"omitempty,min=1,max=200"`
	Description *string    `json:"description" binding:"omitempty,max=4000"`
	ProjectType *string    `json:"project_type" binding:"omitempty,oneof=master_planned subdivision multifamily commercial mixed_use"`
	Status      *string    `json:"status" binding:"omitempty,oneof=planning active on_hold archived"`
	City        *string    `json:"city" binding:"omitempty,max=100"`
	County      *string    `json:"county" binding:"omitempty,max=100"`
	State       *string    `json:"state" binding:"omitempty,len=2"`
	StartDate   *time.Time `json:"start_date"`
}

// ProjectListFilter represents filter options for the project list
type ProjectListFilter struct {
	Search      string `form:"search"`
	Status      string `form:"status" binding:"omitempty,oneof=planning active on_hold archived"`
	ProjectType string `form:"project_type"`
	State       string `form:"state"`
	Page        int    `form:"page" binding:"omitempty,min=1"`
	PageSize    int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy     string `form:"order_by"`
	OrderDir    string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ProjectResponse represents a project in API responses
type ProjectResponse struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	ProjectType string          `json:"project_type"`
	Status      string          `json:"status"`
	City        string          `json:"city"`
	County      string          `json:"county"`
	State       string          `json:"state"`
	TotalAcres  decimal.Decimal `json:"total_acres"`
	StartDate   *time.Time      `json:"start_date,omitempty"`
	Boundary    *gis.Geometry   `json:"boundary,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Version     int             `json:"version"`
}

// SaveBoundaryRequest replaces a project's boundary
type SaveBoundaryRequest struct {
	Source   string       `json:"source" binding:"required,oneof=drawn gis upload"`
	Geometry gis.Geometry `json:"geometry"`
}

// BoundaryResponse represents a stored boundary
type BoundaryResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProjectID uuid.UUID       `json:"project_id"`
	Source    string          `json:"source"`
	Geometry  gis.Geometry    `json:"geometry"`
	Acres     decimal.Decimal `json:"acres"`
	CreatedAt time.Time       `json:"created_at"`
}

// DashboardResponse is the one-page position of a project
type DashboardResponse struct {
	Project   ProjectResponse      `json:"project"`
	Budget    BudgetPosition       `json:"budget"`
	Land      LandPosition         `json:"land"`
	Debt      DebtPosition         `json:"debt"`
	Inventory InventoryPosition    `json:"inventory"`
	Valuation *ValuationHighlights `json:"valuation,omitempty"`
	AsOf      time.Time            `json:"as_of"`
}

// BudgetPosition summarizes the project budget
type BudgetPosition struct {
	Total      decimal.Decimal `json:"total"`
	Categories int64           `json:"categories"`
	Items      int64           `json:"items"`
}

// LandPosition summarizes the project's parcels
type LandPosition struct {
	Parcels int64           `json:"parcels"`
	Acres   decimal.Decimal `json:"acres"`
	Units   int64           `json:"units"`
}

// DebtPosition summarizes debt facilities
type DebtPosition struct {
	Facilities      int             `json:"facilities"`
	TotalCommitment decimal.Decimal `json:"total_commitment"`
}

// InventoryPosition counts units per sales status
type InventoryPosition struct {
	TotalUnits int64            `json:"total_units"`
	ByStatus   map[string]int64 `json:"by_status"`
	ListValue  decimal.Decimal  `json:"list_value"`
	SaleValue  decimal.Decimal  `json:"sale_value"`
	Absorption decimal.Decimal  `json:"absorption"`
}

// ValuationHighlights are the metrics of the most recent valuation scenario
type ValuationHighlights struct {
	ScenarioID     uuid.UUID        `json:"scenario_id"`
	ScenarioName   string           `json:"scenario_name"`
	NPV            decimal.Decimal  `json:"npv"`
	IRR            *float64         `json:"irr,omitempty"`
	EquityMultiple *decimal.Decimal `json:"equity_multiple,omitempty"`
	Profit         decimal.Decimal  `json:"profit"`
}

// ToProjectResponse converts a domain Project to ProjectResponse
func ToProjectResponse(p *project.Project) ProjectResponse {
	resp := ProjectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		ProjectType: string(p.ProjectType),
		Status:      string(p.Status),
		City:        p.City,
		County:      p.County,
		State:       p.State,
		TotalAcres:  p.TotalAcres,
		StartDate:   p.StartDate,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		Version:     p.Version,
	}
	if !p.Boundary.IsZero() {
		g := p.Boundary
		resp.Boundary = &g
	}
	return resp
}

// ToBoundaryResponse converts a domain Boundary to BoundaryResponse
func ToBoundaryResponse(b *project.Boundary) BoundaryResponse {
	return BoundaryResponse{
		ID:        b.ID,
		ProjectID: b.ProjectID,
		Source:    string(b.Source),
		Geometry:  b.Geometry,
		Acres:     b.Acres,
		CreatedAt: b.CreatedAt,
	}
}
