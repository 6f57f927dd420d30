// Package valuation models DCF scenarios and the metrics derived from them.
package valuation

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/landscape/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PeriodType is the length of one cash-flow period
type PeriodType string

const (
	PeriodMonthly PeriodType = "monthly"
	PeriodAnnual  PeriodType = "annual"
)

// PeriodsPerYear returns 12 for monthly series and 1 for annual
func (p PeriodType) PeriodsPerYear() int {
	if p == PeriodMonthly {
		return 12
	}
	return 1
}

// IsValid reports whether p is a known period type
func (p PeriodType) IsValid() bool {
	return p == PeriodMonthly || p == PeriodAnnual
}

// CashFlows is a decimal series stored as a jsonb array. Element 0 is time zero.
type CashFlows []decimal.Decimal

// Value implements driver.Valuer
func (c CashFlows) Value() (driver.Value, error) {
	if c == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]decimal.Decimal(c))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (c *CashFlows) Scan(value interface{}) error {
	var b []byte
	switch v := value.(type) {
	case nil:
		*c = nil
		return nil
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into CashFlows", value)
	}
	var out []decimal.Decimal
	if err := json.Unmarshal(b, &out); err != nil {
		return err
	}
	*c = out
	return nil
}

// Scenario is a DCF underwriting case for a project. Rates are percentages.
type Scenario struct {
	shared.BaseAggregateRoot
	ProjectID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name           string          `gorm:"type:varchar(200);not null"`
	PeriodType     PeriodType      `gorm:"type:varchar(10);not null"`
	DiscountRate   decimal.Decimal `gorm:"type:decimal(8,4);not null"`
	ExitCapRate    decimal.Decimal `gorm:"type:decimal(8,4);not null;default:0"`
	SellingCostPct decimal.Decimal `gorm:"type:decimal(8,4);not null;default:0"`
	ExitNOI        decimal.Decimal `gorm:"column:exit_noi;type:decimal(18,2);not null;default:0"`
	CashFlows      CashFlows       `gorm:"type:jsonb;not null"`
}

// TableName returns the table name for GORM
func (Scenario) TableName() string {
	return "valuation_scenarios"
}

// Assumptions are the editable inputs of a scenario
type Assumptions struct {
	Name           string
	PeriodType     PeriodType
	DiscountRate   decimal.Decimal
	ExitCapRate    decimal.Decimal
	SellingCostPct decimal.Decimal
	ExitNOI        decimal.Decimal
	CashFlows      []decimal.Decimal
}

// NewScenario creates a scenario
func NewScenario(projectID uuid.UUID, a Assumptions) (*Scenario, error) {
	s := &Scenario{BaseAggregateRoot: shared.NewBaseAggregateRoot(), ProjectID: projectID}
	if err := s.apply(a); err != nil {
		return nil, err
	}
	return s, nil
}

// Update replaces the scenario's assumptions
func (s *Scenario) Update(a Assumptions) error {
	if err := s.apply(a); err != nil {
		return err
	}
	s.IncrementVersion()
	return nil
}

func (s *Scenario) apply(a Assumptions) error {
	name := strings.TrimSpace(a.Name)
	if name == "" {
		return shared.NewInvalidInputError("scenario name cannot be empty")
	}
	if !a.PeriodType.IsValid() {
		return shared.NewInvalidInputError("unknown period type %q", a.PeriodType)
	}
	if a.DiscountRate.LessThanOrEqual(decimal.NewFromInt(-100)) {
		return shared.NewInvalidInputError("discount rate must be greater than -100 percent")
	}
	if a.ExitCapRate.IsNegative() || a.SellingCostPct.IsNegative() || a.SellingCostPct.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewInvalidInputError("exit cap rate and selling cost must be non-negative percentages")
	}
	if len(a.CashFlows) == 0 {
		return shared.NewInvalidInputError("at least one cash flow is required")
	}
	s.Name = name
	s.PeriodType = a.PeriodType
	s.DiscountRate = a.DiscountRate
	s.ExitCapRate = a.ExitCapRate
	s.SellingCostPct = a.SellingCostPct
	s.ExitNOI = a.ExitNOI
	s.CashFlows = append(CashFlows(nil), a.CashFlows...)
	return nil
}
