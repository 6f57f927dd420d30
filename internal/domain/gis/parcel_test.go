package gis

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeParcelID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"123-456-07", "12345607"},
		{" 123 456 07 ", "12345607"},
		{"ab-12.c", "AB12C"},
		{"---", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeParcelID(tt.in), tt.in)
	}
}

func TestUniqueParcelIDs(t *testing.T) {
	ids := UniqueParcelIDs([]string{"123-45", "12345", "", "999", "123 45"})
	assert.Equal(t, []string{"12345", "999"}, ids)
}

func TestBatch(t *testing.T) {
	t.Run("splits into groups of forty", func(t *testing.T) {
		ids := make([]string, 95)
		for i := range ids {
			ids[i] = fmt.Sprintf("APN%03d", i)
		}
		batches := Batch(ids, MaxAPNsPerRequest)
		assert.Len(t, batches, 3)
		assert.Len(t, batches[0], 40)
		assert.Len(t, batches[1], 40)
		assert.Len(t, batches[2], 15)
		assert.Equal(t, "APN040", batches[1][0])
	})

	t.Run("exact multiple has no empty tail", func(t *testing.T) {
		ids := make([]string, 80)
		assert.Len(t, Batch(ids, 40), 2)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, Batch(nil, 40))
	})
}

func TestDedupeFeatures(t *testing.T) {
	features := []ParcelFeature{
		{ParcelID: "123-45", OwnerName: "first"},
		{ParcelID: "12345", OwnerName: "second"},
		{APN: "999-1", OwnerName: "by apn"},
		{OwnerName: "no id"},
	}
	out := DedupeFeatures(features)
	if assert.Len(t, out, 2) {
		assert.Equal(t, "12345", out[0].ParcelID)
		assert.Equal(t, "first", out[0].OwnerName)
		assert.Equal(t, "9991", out[1].ParcelID)
	}
}
