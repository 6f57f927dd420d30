package budget

import (
	"strings"

	"github.com/google/uuid"
	"github.com/landscape/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Item is a budget line: quantity × unit cost booked to a category.
type Item struct {
	shared.BaseAggregateRoot
	ProjectID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	CategoryID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	PhaseID     *uuid.UUID      `gorm:"type:uuid;index"`
	Description string          `gorm:"type:varchar(500);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitCost    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Notes       string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "budget_items"
}

// NewItem creates a line item against category
func NewItem(category *Category, description string, quantity, unitCost decimal.Decimal) (*Item, error) {
	if category == nil {
		return nil, shared.NewInvalidInputError("category is required")
	}
	it := &Item{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProjectID:         category.ProjectID,
		CategoryID:        category.ID,
	}
	if err := it.apply(description, quantity, unitCost); err != nil {
		return nil, err
	}
	return it, nil
}

// Update changes the line and recomputes the amount
func (it *Item) Update(description string, quantity, unitCost decimal.Decimal, notes string) error {
	if err := it.apply(description, quantity, unitCost); err != nil {
		return err
	}
	it.Notes = strings.TrimSpace(notes)
	it.IncrementVersion()
	return nil
}

// MoveTo rebooks the item to another category of the same project
func (it *Item) MoveTo(category *Category) error {
	if category.ProjectID != it.ProjectID {
		return shared.NewInvalidInputError("category belongs to a different project")
	}
	it.CategoryID = category.ID
	it.IncrementVersion()
	return nil
}

func (it *Item) apply(description string, quantity, unitCost decimal.Decimal) error {
	description = strings.TrimSpace(description)
	if description == "" {
		return shared.NewInvalidInputError("item description cannot be empty")
	}
	if quantity.IsNegative() {
		return shared.NewInvalidInputError("quantity cannot be negative")
	}
	it.Description = description
	it.Quantity = quantity
	it.UnitCost = unitCost
	it.Amount = quantity.Mul(unitCost).Round(2)
	return nil
}
