// Package inventory tracks the saleable lots and units of a project.
package inventory

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/landscape/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Status is the sales status of a unit
type Status string

const (
	StatusAvailable     Status = "available"
	StatusReserved      Status = "reserved"
	StatusUnderContract Status = "under_contract"
	StatusSold          Status = "sold"
)

// AllStatuses lists statuses in sales order
var AllStatuses = []Status{StatusAvailable, StatusReserved, StatusUnderContract, StatusSold}

var transitions = map[Status][]Status{
	StatusAvailable:     {StatusReserved, StatusUnderContract, StatusSold},
	StatusReserved:      {StatusAvailable, StatusUnderContract},
	StatusUnderContract: {StatusAvailable, StatusSold},
	StatusSold:          nil,
}

// IsValid reports whether s is a known status
func (s Status) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// CanTransitionTo reports whether a unit in status s may move to next
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Item is a lot or unit offered for sale.
type Item struct {
	shared.BaseAggregateRoot
	ProjectID   uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_project_unit"`
	PhaseID     *uuid.UUID       `gorm:"type:uuid;index"`
	ParcelID    *uuid.UUID       `gorm:"type:uuid;index"`
	UnitNumber  string           `gorm:"type:varchar(50);not null;uniqueIndex:idx_inventory_project_unit"`
	ProductType string           `gorm:"type:varchar(100);not null"`
	Status      Status           `gorm:"type:varchar(20);not null;index"`
	ListPrice   decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	SalePrice   *decimal.Decimal `gorm:"type:decimal(18,2)"`
	SquareFeet  int              `gorm:"not null;default:0"`
	ClosedAt    *time.Time
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "inventory_items"
}

// Listing holds the editable fields of an item
type Listing struct {
	PhaseID     *uuid.UUID
	ParcelID    *uuid.UUID
	UnitNumber  string
	ProductType string
	ListPrice   decimal.Decimal
	SquareFeet  int
}

// NewItem creates an available unit
func NewItem(projectID uuid.UUID, l Listing) (*Item, error) {
	if projectID == uuid.Nil {
		return nil, shared.NewInvalidInputError("project id is required")
	}
	it := &Item{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProjectID:         projectID,
		Status:            StatusAvailable,
	}
	if err := it.apply(l); err != nil {
		return nil, err
	}
	return it, nil
}

// Update replaces the listing fields
func (it *Item) Update(l Listing) error {
	if err := it.apply(l); err != nil {
		return err
	}
	it.IncrementVersion()
	return nil
}

func (it *Item) apply(l Listing) error {
	unit := strings.ToUpper(strings.TrimSpace(l.UnitNumber))
	if unit == "" {
		return shared.NewInvalidInputError("unit number cannot be empty")
	}
	if len(unit) > 50 {
		return shared.NewInvalidInputError("unit number cannot exceed 50 characters")
	}
	product := strings.TrimSpace(l.ProductType)
	if product == "" {
		return shared.NewInvalidInputError("product type cannot be empty")
	}
	if l.ListPrice.IsNegative() {
		return shared.NewInvalidInputError("list price cannot be negative")
	}
	if l.SquareFeet < 0 {
		return shared.NewInvalidInputError("square feet cannot be negative")
	}
	it.PhaseID = l.PhaseID
	it.ParcelID = l.ParcelID
	it.UnitNumber = unit
	it.ProductType = product
	it.ListPrice = l.ListPrice.Round(2)
	it.SquareFeet = l.SquareFeet
	return nil
}

// ChangeStatus moves the unit through the sales pipeline. A sale price is
// required to close; reopening a unit clears any recorded sale.
func (it *Item) ChangeStatus(next Status, salePrice *decimal.Decimal, at time.Time) error {
	if !next.IsValid() {
		return shared.NewInvalidInputError("unknown inventory status %q", next)
	}
	if !it.Status.CanTransitionTo(next) {
		return shared.NewDomainError(shared.CodeInvalidState,
			"cannot move unit "+it.UnitNumber+" from "+string(it.Status)+" to "+string(next))
	}
	switch next {
	case StatusSold:
		if salePrice == nil || !salePrice.IsPositive() {
			return shared.NewInvalidInputError("a positive sale price is required to close a sale")
		}
		price := salePrice.Round(2)
		it.SalePrice = &price
		closed := at
		it.ClosedAt = &closed
	case StatusUnderContract:
		if salePrice != nil {
			price := salePrice.Round(2)
			it.SalePrice = &price
		}
	case StatusAvailable:
		it.SalePrice = nil
	}
	it.Status = next
	it.IncrementVersion()
	return nil
}

// PricePerSquareFoot returns list price per square foot, zero when unknown
func (it *Item) PricePerSquareFoot() decimal.Decimal {
	if it.SquareFeet == 0 {
		return decimal.Zero
	}
	return it.ListPrice.Div(decimal.NewFromInt(int64(it.SquareFeet))).Round(2)
}
