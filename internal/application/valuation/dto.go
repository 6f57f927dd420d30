package valuation

import (
	"time"

	"github.com/google/uuid"
	"github.com/landscape/backend/internal/domain/valuation"
	"github.com/shopspring/decimal"
)

// ScenarioRequest carries a scenario's assumptions for create and update.
// Rates are percentages; cash_flows[0] is time zero.
type ScenarioRequest struct {
	Name           string            `json:"name" binding:"required,min=1,max=200"`
	PeriodType     string            `json:"period_type" binding:"required,oneof=monthly annual"`
	DiscountRate   decimal.Decimal   `json:"discount_rate"`
	ExitCapRate    decimal.Decimal   `json:"exit_cap_rate"`
	SellingCostPct decimal.Decimal   `json:"selling_cost_pct"`
	ExitNOI        decimal.Decimal   `json:"exit_noi"`
	CashFlows      []decimal.Decimal `json:"cash_flows" binding:"required,min=1,max=1200"`
}

// ScenarioResponse represents a scenario in API responses
type ScenarioResponse struct {
	ID             uuid.UUID         `json:"id"`
	ProjectID      uuid.UUID         `json:"project_id"`
	Name           string            `json:"name"`
	PeriodType     string            `json:"period_type"`
	DiscountRate   decimal.Decimal   `json:"discount_rate"`
	ExitCapRate    decimal.Decimal   `json:"exit_cap_rate"`
	SellingCostPct decimal.Decimal   `json:"selling_cost_pct"`
	ExitNOI        decimal.Decimal   `json:"exit_noi"`
	CashFlows      []decimal.Decimal `json:"cash_flows"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	Version        int               `json:"version"`
}

// EvaluationResponse holds the DCF metrics of a scenario. IRR is an annual
// fraction (0.12 means 12%) and is omitted when the series has no sign change.
type EvaluationResponse struct {
	ScenarioID           uuid.UUID        `json:"scenario_id"`
	Name                 string           `json:"name"`
	PeriodType           string           `json:"period_type"`
	Periods              int              `json:"periods"`
	PeriodicDiscountRate float64          `json:"periodic_discount_rate"`
	ExitValue            decimal.Decimal  `json:"exit_value"`
	NPV                  decimal.Decimal  `json:"npv"`
	IRR                  *float64         `json:"irr,omitempty"`
	EquityMultiple       *decimal.Decimal `json:"equity_multiple,omitempty"`
	Profit               decimal.Decimal  `json:"profit"`
	TotalInflows         decimal.Decimal  `json:"total_inflows"`
	TotalOutflows        decimal.Decimal  `json:"total_outflows"`
}

// ToScenarioResponse converts a domain Scenario to ScenarioResponse
func ToScenarioResponse(s *valuation.Scenario) ScenarioResponse {
	return ScenarioResponse{
		ID:             s.ID,
		ProjectID:      s.ProjectID,
		Name:           s.Name,
		PeriodType:     string(s.PeriodType),
		DiscountRate:   s.DiscountRate,
		ExitCapRate:    s.ExitCapRate,
		SellingCostPct: s.SellingCostPct,
		ExitNOI:        s.ExitNOI,
		CashFlows:      []decimal.Decimal(s.CashFlows),
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
		Version:        s.Version,
	}
}

func (r ScenarioRequest) assumptions() valuation.Assumptions {
	return valuation.Assumptions{
		Name:           r.Name,
		PeriodType:     valuation.PeriodType(r.PeriodType),
		DiscountRate:   r.DiscountRate,
		ExitCapRate:    r.ExitCapRate,
		SellingCostPct: r.SellingCostPct,
		ExitNOI:        r.ExitNOI,
		CashFlows:      r.CashFlows,
	}
}
