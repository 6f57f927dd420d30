package finance

import (
	"time"

	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
)

// ScheduleRow is one month of debt service
type ScheduleRow struct {
	Period           int
	PaymentDate      time.Time
	BeginningBalance decimal.Decimal
	Interest         decimal.Decimal
	Principal        decimal.Decimal
	Payment          decimal.Decimal
	EndingBalance    decimal.Decimal
}

// Schedule is the full debt service schedule of a facility
type Schedule struct {
	Rows           []ScheduleRow
	MonthlyPayment decimal.Decimal
	OriginationFee decimal.Decimal
	TotalInterest  decimal.Decimal
	TotalPrincipal decimal.Decimal
	BalloonPayment decimal.Decimal
}

// BuildSchedule computes the monthly schedule assuming the full commitment is
// drawn on the start date. Interest-only facilities pay interest monthly and
// the full balance at maturity; amortizing facilities pay a level annuity over
// the amortization period with any remaining balance due at maturity.
func (f *DebtFacility) BuildSchedule() Schedule {
	rate := f.InterestRate.Div(hundred).Div(twelve)
	balance := f.Commitment
	payment := f.levelPayment(rate)

	s := Schedule{
		MonthlyPayment: payment,
		OriginationFee: f.Commitment.Mul(f.OriginationFeePct).Div(hundred).Round(2),
		TotalInterest:  decimal.Zero,
		TotalPrincipal: decimal.Zero,
		BalloonPayment: decimal.Zero,
	}

	for period := 1; period <= f.TermMonths && balance.IsPositive(); period++ {
		row := ScheduleRow{
			Period:           period,
			PaymentDate:      f.StartDate.AddDate(0, period, 0),
			BeginningBalance: balance,
			Interest:         balance.Mul(rate).Round(2),
		}
		if f.IsInterestOnly() {
			row.Principal = decimal.Zero
		} else {
			row.Principal = payment.Sub(row.Interest)
			if row.Principal.GreaterThan(balance) {
				row.Principal = balance
			}
		}
		if period == f.TermMonths {
			s.BalloonPayment = balance.Sub(row.Principal)
			row.Principal = balance
		}
		row.Payment = row.Interest.Add(row.Principal)
		balance = balance.Sub(row.Principal)
		row.EndingBalance = balance

		s.TotalInterest = s.TotalInterest.Add(row.Interest)
		s.TotalPrincipal = s.TotalPrincipal.Add(row.Principal)
		s.Rows = append(s.Rows, row)
	}
	return s
}

// levelPayment is interest only for non-amortizing facilities, otherwise the
// annuity payment P·r·(1+r)^n / ((1+r)^n − 1), or P/n at a zero rate.
func (f *DebtFacility) levelPayment(rate decimal.Decimal) decimal.Decimal {
	if f.IsInterestOnly() {
		return f.Commitment.Mul(rate).Round(2)
	}
	n := decimal.NewFromInt(int64(f.AmortizationMonths))
	if rate.IsZero() {
		return f.Commitment.DivRound(n, 2)
	}
	factor := decimal.NewFromInt(1).Add(rate).Pow(n)
	return f.Commitment.Mul(rate).Mul(factor).DivRound(factor.Sub(decimal.NewFromInt(1)), 2)
}
