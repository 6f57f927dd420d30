package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/landscape/backend/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// ItemRequest carries the listing fields of a unit for create and update
type ItemRequest struct {
	PhaseID     *uuid.UUID      `json:"phase_id"`
	ParcelID    *uuid.UUID      `json:"parcel_id"`
	UnitNumber  string          `json:"unit_number" binding:"required,min=1,max=50"`
	ProductType string          `json:"product_type" binding:"required,min=1,max=100"`
	ListPrice   decimal.Decimal `json:"list_price"`
	SquareFeet  int             `json:"square_feet" binding:"min=0"`
}

// ChangeStatusRequest moves a unit through the sales pipeline
type ChangeStatusRequest struct {
	Status    string           `json:"status" binding:"required,oneof=available reserved under_contract sold"`
	SalePrice *decimal.Decimal `json:"sale_price"`
	ClosedAt  *time.Time       `json:"closed_at"`
}

// ItemListFilter represents filter options for the inventory list
type ItemListFilter struct {
	Search      string     `form:"search"`
	Status      string     `form:"status" binding:"omitempty,oneof=available reserved under_contract sold"`
	PhaseID     *uuid.UUID `form:"-"`
	ParcelID    *uuid.UUID `form:"-"`
	ProductType string     `form:"product_type"`
	Page        int        `form:"page" binding:"omitempty,min=1"`
	PageSize    int        `form:"page_size" binding:"omitempty,min=1,max=500"`
	OrderBy     string     `form:"order_by"`
	OrderDir    string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ItemResponse represents an inventory unit in API responses
type ItemResponse struct {
	ID                 uuid.UUID        `json:"id"`
	ProjectID          uuid.UUID        `json:"project_id"`
	PhaseID            *uuid.UUID       `json:"phase_id,omitempty"`
	ParcelID           *uuid.UUID       `json:"parcel_id,omitempty"`
	UnitNumber         string           `json:"unit_number"`
	ProductType        string           `json:"product_type"`
	Status             string           `json:"status"`
	ListPrice          decimal.Decimal  `json:"list_price"`
	SalePrice          *decimal.Decimal `json:"sale_price,omitempty"`
	SquareFeet         int              `json:"square_feet"`
	PricePerSquareFoot decimal.Decimal  `json:"price_per_square_foot"`
	ClosedAt           *time.Time       `json:"closed_at,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
	Version            int              `json:"version"`
}

// SummaryResponse is a project's inventory position by status
type SummaryResponse struct {
	ProjectID uuid.UUID `json:"project_id"`
	inventory.Summary
}

// ToItemResponse converts a domain Item to ItemResponse
func ToItemResponse(it *inventory.Item) ItemResponse {
	return ItemResponse{
		ID:                 it.ID,
		ProjectID:          it.ProjectID,
		PhaseID:            it.PhaseID,
		ParcelID:           it.ParcelID,
		UnitNumber:         it.UnitNumber,
		ProductType:        it.ProductType,
		Status:             string(it.Status),
		ListPrice:          it.ListPrice,
		SalePrice:          it.SalePrice,
		SquareFeet:         it.SquareFeet,
		PricePerSquareFoot: it.PricePerSquareFoot(),
		ClosedAt:           it.ClosedAt,
		CreatedAt:          it.CreatedAt,
		UpdatedAt:          it.UpdatedAt,
		Version:            it.Version,
	}
}

func (r ItemRequest) listing() inventory.Listing {
	return inventory.Listing{
		PhaseID:     r.PhaseID,
		ParcelID:    r.ParcelID,
		UnitNumber:  r.UnitNumber,
		ProductType: r.ProductType,
		ListPrice:   r.ListPrice,
		SquareFeet:  r.SquareFeet,
	}
}
