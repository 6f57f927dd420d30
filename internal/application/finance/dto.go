package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/landscape/backend/internal/domain/finance"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// FacilityRequest carries the fields of a debt facility for create and update.
// Rates are percentages: 6.5 means 6.5%.
type FacilityRequest struct {
	Name               string          `json:"name" binding:"required,min=1,max=200"`
	Lender             string          `json:"lender" binding:"max=200"`
	FacilityType       string          `json:"facility_type" binding:"required,oneof=land construction mezzanine permanent"`
	Commitment         decimal.Decimal `json:"commitment"`
	InterestRate       decimal.Decimal `json:"interest_rate"`
	TermMonths         int             `json:"term_months" binding:"required,min=1,max=600"`
	AmortizationMonths int             `json:"amortization_months" binding:"min=0,max=600"`
	OriginationFeePct  decimal.Decimal `json:"origination_fee_pct"`
	StartDate          string          `json:"start_date" binding:"required,datetime=2006-01-02"`
}

// FacilityResponse represents a debt facility in API responses
type FacilityResponse struct {
	ID                 uuid.UUID       `json:"id"`
	ProjectID          uuid.UUID       `json:"project_id"`
	Name               string          `json:"name"`
	Lender             string          `json:"lender"`
	FacilityType       string          `json:"facility_type"`
	Commitment         decimal.Decimal `json:"commitment"`
	InterestRate       decimal.Decimal `json:"interest_rate"`
	TermMonths         int             `json:"term_months"`
	AmortizationMonths int             `json:"amortization_months"`
	InterestOnly       bool            `json:"interest_only"`
	OriginationFeePct  decimal.Decimal `json:"origination_fee_pct"`
	StartDate          string          `json:"start_date"`
	MaturityDate       string          `json:"maturity_date"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	Version            int             `json:"version"`
}

// FacilityListResponse lists a project's facilities with their total commitment
type FacilityListResponse struct {
	Facilities      []FacilityResponse `json:"facilities"`
	TotalCommitment decimal.Decimal    `json:"total_commitment"`
}

// ScheduleRowResponse is one month of debt service
type ScheduleRowResponse struct {
	Period           int             `json:"period"`
	PaymentDate      string          `json:"payment_date"`
	BeginningBalance decimal.Decimal `json:"beginning_balance"`
	Interest         decimal.Decimal `json:"interest"`
	Principal        decimal.Decimal `json:"principal"`
	Payment          decimal.Decimal `json:"payment"`
	EndingBalance    decimal.Decimal `json:"ending_balance"`
}

// ScheduleResponse is a facility's full debt service schedule
type ScheduleResponse struct {
	FacilityID     uuid.UUID             `json:"facility_id"`
	MonthlyPayment decimal.Decimal       `json:"monthly_payment"`
	OriginationFee decimal.Decimal       `json:"origination_fee"`
	TotalInterest  decimal.Decimal       `json:"total_interest"`
	TotalPrincipal decimal.Decimal       `json:"total_principal"`
	BalloonPayment decimal.Decimal       `json:"balloon_payment"`
	Rows           []ScheduleRowResponse `json:"rows"`
}

// ToFacilityResponse converts a domain DebtFacility to FacilityResponse
func ToFacilityResponse(f *finance.DebtFacility) FacilityResponse {
	return FacilityResponse{
		ID:                 f.ID,
		ProjectID:          f.ProjectID,
		Name:               f.Name,
		Lender:             f.Lender,
		FacilityType:       string(f.FacilityType),
		Commitment:         f.Commitment,
		InterestRate:       f.InterestRate,
		TermMonths:         f.TermMonths,
		AmortizationMonths: f.AmortizationMonths,
		InterestOnly:       f.IsInterestOnly(),
		OriginationFeePct:  f.OriginationFeePct,
		StartDate:          f.StartDate.Format(dateLayout),
		MaturityDate:       f.MaturityDate().Format(dateLayout),
		CreatedAt:          f.CreatedAt,
		UpdatedAt:          f.UpdatedAt,
		Version:            f.Version,
	}
}

// ToScheduleResponse converts a domain Schedule to ScheduleResponse
func ToScheduleResponse(facilityID uuid.UUID, s finance.Schedule) ScheduleResponse {
	resp := ScheduleResponse{
		FacilityID:     facilityID,
		MonthlyPayment: s.MonthlyPayment,
		OriginationFee: s.OriginationFee,
		TotalInterest:  s.TotalInterest,
		TotalPrincipal: s.TotalPrincipal,
		BalloonPayment: s.BalloonPayment,
		Rows:           make([]ScheduleRowResponse, len(s.Rows)),
	}
	for i, r := range s.Rows {
		resp.Rows[i] = ScheduleRowResponse{
			Period:           r.Period,
			PaymentDate:      r.PaymentDate.Format(dateLayout),
			BeginningBalance: r.BeginningBalance,
			Interest:         r.Interest,
			Principal:        r.Principal,
			Payment:          r.Payment,
			EndingBalance:    r.EndingBalance,
		}
	}
	return resp
}
