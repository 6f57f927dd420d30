// Package finance tracks the debt facilities funding a project.
package finance

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/landscape/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// FacilityType is the kind of loan
type FacilityType string

const (
	FacilityTypeLand         FacilityType = "land"
	FacilityTypeConstruction FacilityType = "construction"
	FacilityTypeMezzanine    FacilityType = "mezzanine"
	FacilityTypePermanent    FacilityType = "permanent"
)

// IsValid reports whether t is a known facility type
func (t FacilityType) IsValid() bool {
	switch t {
	case FacilityTypeLand, FacilityTypeConstruction, FacilityTypeMezzanine, FacilityTypePermanent:
		return true
	}
	return false
}

// DebtFacility is a loan commitment against a project.
// InterestRate and OriginationFeePct are percentages (6.5 means 6.5%).
type DebtFacility struct {
	shared.BaseAggregateRoot
	ProjectID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name               string          `gorm:"type:varchar(200);not null"`
	Lender             string          `gorm:"type:varchar(200)"`
	FacilityType       FacilityType    `gorm:"type:varchar(20);not null"`
	Commitment         decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	InterestRate       decimal.Decimal `gorm:"type:decimal(8,4);not null"`
	TermMonths         int             `gorm:"not null"`
	AmortizationMonths int             `gorm:"not null;default:0"`
	OriginationFeePct  decimal.Decimal `gorm:"type:decimal(8,4);not null;default:0"`
	StartDate          time.Time       `gorm:"type:date;not null"`
}

// TableName returns the table name for GORM
func (DebtFacility) TableName() string {
	return "debt_facilities"
}

// Terms are the economic terms of a facility
type Terms struct {
	Commitment         decimal.Decimal
	InterestRate       decimal.Decimal
	TermMonths         int
	AmortizationMonths int
	OriginationFeePct  decimal.Decimal
	StartDate          time.Time
}

// NewDebtFacility creates a facility after validating its terms
func NewDebtFacility(projectID uuid.UUID, name, lender string, facilityType FacilityType, terms Terms) (*DebtFacility, error) {
	f := &DebtFacility{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProjectID:         projectID,
	}
	if err := f.apply(name, lender, facilityType, terms); err != nil {
		return nil, err
	}
	return f, nil
}

// Update replaces the facility's descriptive fields and terms
func (f *DebtFacility) Update(name, lender string, facilityType FacilityType, terms Terms) error {
	if err := f.apply(name, lender, facilityType, terms); err != nil {
		return err
	}
	f.IncrementVersion()
	return nil
}

// IsInterestOnly reports whether the facility never amortizes
func (f *DebtFacility) IsInterestOnly() bool {
	return f.AmortizationMonths == 0
}

// MaturityDate is the start date plus the term
func (f *DebtFacility) MaturityDate() time.Time {
	return f.StartDate.AddDate(0, f.TermMonths, 0)
}

func (f *DebtFacility) apply(name, lender string, facilityType FacilityType, t Terms) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewInvalidInputError("facility name cannot be empty")
	}
	if !facilityType.IsValid() {
		return shared.NewInvalidInputError("unknown facility type %q", facilityType)
	}
	if !t.Commitment.IsPositive() {
		return shared.NewInvalidInputError("commitment must be positive")
	}
	if t.InterestRate.IsNegative() || t.InterestRate.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewInvalidInputError("interest rate must be between 0 and 100 percent")
	}
	if t.TermMonths <= 0 || t.TermMonths > 600 {
		return shared.NewInvalidInputError("term must be between 1 and 600 months")
	}
	if t.AmortizationMonths < 0 || t.AmortizationMonths > 600 {
		return shared.NewInvalidInputError("amortization must be between 0 and 600 months")
	}
	if t.OriginationFeePct.IsNegative() {
		return shared.NewInvalidInputError("origination fee cannot be negative")
	}
	if t.StartDate.IsZero() {
		return shared.NewInvalidInputError("start date is required")
	}
	f.Name = name
	f.Lender = strings.TrimSpace(lender)
	f.FacilityType = facilityType
	f.Commitment = t.Commitment
	f.InterestRate = t.InterestRate
	f.TermMonths = t.TermMonths
	f.AmortizationMonths = t.AmortizationMonths
	f.OriginationFeePct = t.OriginationFeePct
	f.StartDate = t.StartDate
	return nil
}
