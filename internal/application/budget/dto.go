package budget

import (
	"time"

	"github.com/google/uuid"
	"github.com/landscape/backend/internal/domain/budget"
	"github.com/shopspring/decimal"
)

// CreateTemplateRequest represents a request to create an empty template
type CreateTemplateRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=200"`
	Description string `json:"description" binding:"max=2000"`
	ProjectType string `json:"project_type" binding:"omitempty,max=30"`
}

// UpdateTemplateRequest represents a request to update a template header
type UpdateTemplateRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=200"`
	Description string `json:"description" binding:"max=2000"`
	ProjectType string `json:"project_type" binding:"omitempty,max=30"`
}

// AddTemplateCategoryRequest adds a row to a template. Level must be one
// deeper than the parent's; level 1 rows have no parent.
type AddTemplateCategoryRequest struct {
	ParentID  *uuid.UUID `json:"parent_id"`
	Level     int        `json:"level" binding:"required,min=1,max=4"`
	Code      string     `json:"code" binding:"required,min=1,max=50"`
	Name      string     `json:"name" binding:"required,min=1,max=200"`
	SortOrder int        `json:"sort_order"`
}

// TemplateListFilter represents filter options for the template list
type TemplateListFilter struct {
	Search      string `form:"search"`
	ProjectType string `form:"project_type"`
	Page        int    `form:"page" binding:"omitempty,min=1"`
	PageSize    int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy     string `form:"order_by"`
	OrderDir    string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// TemplateResponse represents a template in API responses
type TemplateResponse struct {
	ID          uuid.UUID          `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	ProjectType string             `json:"project_type,omitempty"`
	Categories  []CategoryTreeNode `json:"categories,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	Version     int                `json:"version"`
}

// ApplyTemplateRequest copies a template into a project's budget
type ApplyTemplateRequest struct {
	TemplateID        uuid.UUID `json:"template_id" binding:"required"`
	OverwriteExisting bool      `json:"overwrite_existing"`
}

// ApplyTemplateResponse reports the outcome of a template apply
type ApplyTemplateResponse struct {
	ProjectID         uuid.UUID `json:"project_id"`
	TemplateID        uuid.UUID `json:"template_id"`
	CategoriesCreated int       `json:"categories_created"`
	CategoriesRemoved int64     `json:"categories_removed"`
}

// SaveAsTemplateRequest turns a project's category tree into a template
type SaveAsTemplateRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=200"`
	Description string `json:"description" binding:"max=2000"`
}

// CreateCategoryRequest represents a request to create a project category
type CreateCategoryRequest struct {
	ParentID  *uuid.UUID `json:"parent_id"`
	Code      string     `json:"code" binding:"required,min=1,max=50"`
	Name      string     `json:"name" binding:"required,min=1,max=200"`
	SortOrder int        `json:"sort_order"`
}

// UpdateCategoryRequest represents a request to update a project category
type UpdateCategoryRequest struct {
	Code      string `json:"code" binding:"required,min=1,max=50"`
	Name      string `json:"name" binding:"required,min=1,max=200"`
	SortOrder int    `json:"sort_order"`
}

// CategoryResponse represents a project category in API responses
type CategoryResponse struct {
	ID               uuid.UUID  `json:"id"`
	ProjectID        uuid.UUID  `json:"project_id"`
	ParentID         *uuid.UUID `json:"parent_id,omitempty"`
	Level            int        `json:"level"`
	Code             string     `json:"code"`
	Name             string     `json:"name"`
	SortOrder        int        `json:"sort_order"`
	SourceTemplateID *uuid.UUID `json:"source_template_id,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// CategoryTreeNode is a category with its children, used for both template
// rows and project categories
type CategoryTreeNode struct {
	ID        uuid.UUID          `json:"id"`
	ParentID  *uuid.UUID         `json:"parent_id,omitempty"`
	Level     int                `json:"level"`
	Code      string             `json:"code"`
	Name      string             `json:"name"`
	SortOrder int                `json:"sort_order"`
	Children  []CategoryTreeNode `json:"children,omitempty"`
}

// CreateItemRequest represents a request to create a budget item
type CreateItemRequest struct {
	CategoryID  uuid.UUID       `json:"category_id" binding:"required"`
	PhaseID     *uuid.UUID      `json:"phase_id"`
	Description string          `json:"description" binding:"required,min=1,max=500"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	Notes       string          `json:"notes" binding:"max=4000"`
}

// UpdateItemRequest represents a request to update a budget item
type UpdateItemRequest struct {
	CategoryID  *uuid.UUID      `json:"category_id"`
	PhaseID     *uuid.UUID      `json:"phase_id"`
	Description string          `json:"description" binding:"required,min=1,max=500"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	Notes       string          `json:"notes" binding:"max=4000"`
}

// ItemListFilter represents filter options for the item list
type ItemListFilter struct {
	Search     string     `form:"search"`
	CategoryID *uuid.UUID `form:"-"`
	PhaseID    *uuid.UUID `form:"-"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=500"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ItemResponse represents a budget item in API responses
type ItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProjectID   uuid.UUID       `json:"project_id"`
	CategoryID  uuid.UUID       `json:"category_id"`
	PhaseID     *uuid.UUID      `json:"phase_id,omitempty"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	Amount      decimal.Decimal `json:"amount"`
	Notes       string          `json:"notes"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Version     int             `json:"version"`
}

// SummaryNodeResponse is a category with its own and rolled-up totals
type SummaryNodeResponse struct {
	CategoryID  uuid.UUID             `json:"category_id"`
	Code        string                `json:"code"`
	Name        string                `json:"name"`
	Level       int                   `json:"level"`
	ItemCount   int64                 `json:"item_count"`
	OwnTotal    decimal.Decimal       `json:"own_total"`
	RolledTotal decimal.Decimal       `json:"rolled_total"`
	Children    []SummaryNodeResponse `json:"children,omitempty"`
}

// SummaryResponse is the project budget rolled up by category
type SummaryResponse struct {
	ProjectID     uuid.UUID             `json:"project_id"`
	Categories    []SummaryNodeResponse `json:"categories"`
	Uncategorized decimal.Decimal       `json:"uncategorized"`
	GrandTotal    decimal.Decimal       `json:"grand_total"`
}

// ExportResult is a rendered budget file
type ExportResult struct {
	FileName    string
	ContentType string
	Data        []byte
}

// ToTemplateResponse converts a domain Template to TemplateResponse
func ToTemplateResponse(t *budget.Template, rows []budget.TemplateCategory) TemplateResponse {
	resp := TemplateResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		ProjectType: t.ProjectType,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		Version:     t.Version,
	}
	if rows != nil {
		nodes := make([]treeInput, len(rows))
		for i, r := range rows {
			nodes[i] = treeInput{ID: r.ID, ParentID: r.ParentID, Level: r.Level, Code: r.Code, Name: r.Name, SortOrder: r.SortOrder}
		}
		resp.Categories = buildTree(nodes)
	}
	return resp
}

// ToCategoryResponse converts a domain Category to CategoryResponse
func ToCategoryResponse(c *budget.Category) CategoryResponse {
	return CategoryResponse{
		ID:               c.ID,
		ProjectID:        c.ProjectID,
		ParentID:         c.ParentID,
		Level:            c.Level,
		Code:             c.Code,
		Name:             c.Name,
		SortOrder:        c.SortOrder,
		SourceTemplateID: c.SourceTemplateID,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

// ToItemResponse converts a domain Item to ItemResponse
func ToItemResponse(it *budget.Item) ItemResponse {
	return ItemResponse{
		ID:          it.ID,
		ProjectID:   it.ProjectID,
		CategoryID:  it.CategoryID,
		PhaseID:     it.PhaseID,
		Description: it.Description,
		Quantity:    it.Quantity,
		UnitCost:    it.UnitCost,
		Amount:      it.Amount,
		Notes:       it.Notes,
		CreatedAt:   it.CreatedAt,
		UpdatedAt:   it.UpdatedAt,
		Version:     it.Version,
	}
}

// ToSummaryResponse converts a domain Summary to SummaryResponse
func ToSummaryResponse(projectID uuid.UUID, s budget.Summary) SummaryResponse {
	return SummaryResponse{
		ProjectID:     projectID,
		Categories:    toSummaryNodes(s.Roots),
		Uncategorized: s.Uncategorized,
		GrandTotal:    s.GrandTotal,
	}
}

func toSummaryNodes(nodes []*budget.SummaryNode) []SummaryNodeResponse {
	out := make([]SummaryNodeResponse, len(nodes))
	for i, n := range nodes {
		out[i] = SummaryNodeResponse{
			CategoryID:  n.Category.ID,
			Code:        n.Category.Code,
			Name:        n.Category.Name,
			Level:       n.Category.Level,
			ItemCount:   n.ItemCount,
			OwnTotal:    n.OwnTotal,
			RolledTotal: n.RolledTotal,
		}
		if len(n.Children) > 0 {
			out[i].Children = toSummaryNodes(n.Children)
		}
	}
	return out
}
