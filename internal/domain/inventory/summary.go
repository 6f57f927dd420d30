package inventory

import "github.com/shopspring/decimal"

// StatusTotal aggregates units in one status
type StatusTotal struct {
	Status    Status          `json:"status"`
	Count     int64           `json:"count"`
	ListValue decimal.Decimal `json:"list_value"`
	SaleValue decimal.Decimal `json:"sale_value"`
}

// Summary is the inventory position of a project
type Summary struct {
	ByStatus   []StatusTotal   `json:"by_status"`
	TotalUnits int64           `json:"total_units"`
	ListValue  decimal.Decimal `json:"list_value"`
	SaleValue  decimal.Decimal `json:"sale_value"`
	Absorption decimal.Decimal `json:"absorption"`
}

// BuildSummary orders totals by status and fills in statuses with no units.
// Absorption is the share of units sold.
func BuildSummary(totals []StatusTotal) Summary {
	byStatus := make(map[Status]StatusTotal, len(totals))
	for _, t := range totals {
		byStatus[t.Status] = t
	}
	s := Summary{ListValue: decimal.Zero, SaleValue: decimal.Zero, Absorption: decimal.Zero}
	for _, st := range AllStatuses {
		t, ok := byStatus[st]
		if !ok {
			t = StatusTotal{Status: st, ListValue: decimal.Zero, SaleValue: decimal.Zero}
		}
		s.ByStatus = append(s.ByStatus, t)
		s.TotalUnits += t.Count
		s.ListValue = s.ListValue.Add(t.ListValue)
		s.SaleValue = s.SaleValue.Add(t.SaleValue)
	}
	if s.TotalUnits > 0 {
		sold := byStatus[StatusSold].Count
		s.Absorption = decimal.NewFromInt(sold).Div(decimal.NewFromInt(s.TotalUnits)).Round(4)
	}
	return s
}

// Count returns the number of units in status st
func (s Summary) Count(st Status) int64 {
	for _, t := range s.ByStatus {
		if t.Status == st {
			return t.Count
		}
	}
	return 0
}
