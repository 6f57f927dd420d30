package inventory

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLot(t *testing.T) *Item {
	t.Helper()
	it, err := NewItem(uuid.New(), Listing{
		UnitNumber:  " lot-12 ",
		ProductType: "50' SFD",
		ListPrice:   decimal.NewFromInt(425000),
		SquareFeet:  2500,
	})
	require.NoError(t, err)
	return it
}

func TestNewItem(t *testing.T) {
	it := newLot(t)
	assert.Equal(t, "LOT-12", it.UnitNumber)
	assert.Equal(t, StatusAvailable, it.Status)
	assert.True(t, it.PricePerSquareFoot().Equal(decimal.NewFromInt(170)))

	_, err := NewItem(uuid.New(), Listing{UnitNumber: "1", ProductType: "x", ListPrice: decimal.NewFromInt(-1)})
	assert.Error(t, err)
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to Status
		ok       bool
	}{
		{StatusAvailable, StatusReserved, true},
		{StatusAvailable, StatusUnderContract, true},
		{StatusAvailable, StatusSold, true},
		{StatusReserved, StatusAvailable, true},
		{StatusReserved, StatusUnderContract, true},
		{StatusReserved, StatusSold, false},
		{StatusUnderContract, StatusAvailable, true},
		{StatusUnderContract, StatusSold, true},
		{StatusUnderContract, StatusReserved, false},
		{StatusSold, StatusAvailable, false},
		{StatusSold, StatusReserved, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.ok, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestChangeStatus(t *testing.T) {
	it := newLot(t)
	closeDate := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

	require.NoError(t, it.ChangeStatus(StatusReserved, nil, closeDate))
	assert.Error(t, it.ChangeStatus(StatusSold, nil, closeDate))

	price := decimal.NewFromInt(418000)
	require.NoError(t, it.ChangeStatus(StatusUnderContract, &price, closeDate))
	assert.Error(t, it.ChangeStatus(StatusSold, nil, closeDate), "sale price required")

	require.NoError(t, it.ChangeStatus(StatusSold, &price, closeDate))
	assert.Equal(t, StatusSold, it.Status)
	require.NotNil(t, it.ClosedAt)
	assert.Equal(t, closeDate, *it.ClosedAt)
	assert.True(t, it.SalePrice.Equal(price))

	assert.Error(t, it.ChangeStatus(StatusAvailable, nil, closeDate))
}

func TestBuildSummary(t *testing.T) {
	s := BuildSummary([]StatusTotal{
		{Status: StatusSold, Count: 3, ListValue: decimal.NewFromInt(300), SaleValue: decimal.NewFromInt(310)},
		{Status: StatusAvailable, Count: 7, ListValue: decimal.NewFromInt(700), SaleValue: decimal.Zero},
	})
	require.Len(t, s.ByStatus, 4)
	assert.Equal(t, StatusAvailable, s.ByStatus[0].Status)
	assert.Equal(t, int64(10), s.TotalUnits)
	assert.Equal(t, int64(0), s.Count(StatusReserved))
	assert.True(t, s.ListValue.Equal(decimal.NewFromInt(1000)))
	assert.True(t, s.Absorption.Equal(decimal.RequireFromString("0.3")))
}
