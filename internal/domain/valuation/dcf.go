package valuation

import (
	"math"

	"github.com/shopspring/decimal"
)

const (
	irrLow        = -0.9999
	irrHigh       = 10.0
	irrTolerance  = 1e-10
	irrIterations = 200
)

// Metrics are the results of evaluating a scenario
type Metrics struct {
	PeriodicDiscountRate float64
	ExitValue            decimal.Decimal
	NPV                  decimal.Decimal
	// IRR is annualized; nil when the series never changes sign.
	IRR            *float64
	EquityMultiple *decimal.Decimal
	Profit         decimal.Decimal
	TotalInflows   decimal.Decimal
	TotalOutflows  decimal.Decimal
}

// ExitValue is exit NOI capitalized at the exit cap rate net of selling
// costs, or zero without a cap rate.
func (s *Scenario) ExitValue() decimal.Decimal {
	if !s.ExitCapRate.IsPositive() {
		return decimal.Zero
	}
	gross := s.ExitNOI.Div(s.ExitCapRate.Div(decimal.NewFromInt(100)))
	net := decimal.NewFromInt(1).Sub(s.SellingCostPct.Div(decimal.NewFromInt(100)))
	return gross.Mul(net).Round(2)
}

// Flows returns the cash-flow series with the exit value added to the last period
func (s *Scenario) Flows() []decimal.Decimal {
	flows := make([]decimal.Decimal, len(s.CashFlows))
	copy(flows, s.CashFlows)
	if n := len(flows); n > 0 {
		flows[n-1] = flows[n-1].Add(s.ExitValue())
	}
	return flows
}

// PeriodicRate converts the annual discount rate to the scenario's period
func (s *Scenario) PeriodicRate() float64 {
	annual := s.DiscountRate.InexactFloat64() / 100
	if s.PeriodType == PeriodMonthly {
		return math.Pow(1+annual, 1.0/12) - 1
	}
	return annual
}

// Evaluate computes NPV, IRR, equity multiple and profit
func (s *Scenario) Evaluate() Metrics {
	flows := s.Flows()
	rate := s.PeriodicRate()

	m := Metrics{
		PeriodicDiscountRate: rate,
		ExitValue:            s.ExitValue(),
		TotalInflows:         decimal.Zero,
		TotalOutflows:        decimal.Zero,
	}
	fl := make([]float64, len(flows))
	for i, f := range flows {
		fl[i] = f.InexactFloat64()
		if f.IsPositive() {
			m.TotalInflows = m.TotalInflows.Add(f)
		} else {
			m.TotalOutflows = m.TotalOutflows.Add(f.Neg())
		}
	}
	m.NPV = decimal.NewFromFloat(NPV(rate, fl)).Round(2)
	m.Profit = m.TotalInflows.Sub(m.TotalOutflows)
	if m.TotalOutflows.IsPositive() {
		em := m.TotalInflows.DivRound(m.TotalOutflows, 4)
		m.EquityMultiple = &em
	}
	if irr, ok := IRR(fl); ok {
		annual := math.Pow(1+irr, float64(s.PeriodType.PeriodsPerYear())) - 1
		m.IRR = &annual
	}
	return m
}

// NPV discounts flows at rate per period; flows[0] is undiscounted.
func NPV(rate float64, flows []float64) float64 {
	var npv float64
	for t, f := range flows {
		npv += f / math.Pow(1+rate, float64(t))
	}
	return npv
}

// IRR finds the per-period rate where NPV is zero by bisection. It reports
// false when the flows have no sign change or no root lies in (-99.99%, 1000%).
func IRR(flows []float64) (float64, bool) {
	var pos, neg bool
	for _, f := range flows {
		pos = pos || f > 0
		neg = neg || f < 0
	}
	if !pos || !neg {
		return 0, false
	}

	lo, hi := irrLow, irrHigh
	fLo, fHi := NPV(lo, flows), NPV(hi, flows)
	if math.IsNaN(fLo) || math.IsNaN(fHi) || fLo*fHi > 0 {
		return 0, false
	}
	for i := 0; i < irrIterations; i++ {
		mid := (lo + hi) / 2
		fMid := NPV(mid, flows)
		if math.Abs(fMid) < irrTolerance || (hi-lo)/2 < irrTolerance {
			return mid, true
		}
		if fLo*fMid < 0 {
			hi = mid
		} else {
			lo, fLo = mid, fMid
		}
	}
	return (lo + hi) / 2, true
}
