package gis

import (
	"context"
	"strings"
	"unicode"
)

// MaxAPNsPerRequest is the number of APNs sent in one feature service query.
const MaxAPNsPerRequest = 40

// ParcelFeature is one parcel returned by a GIS source, in WGS84.
type ParcelFeature struct {
	ParcelID     string         `json:"parcel_id"`
	APN          string         `json:"apn"`
	SitusAddress string         `json:"situs_address,omitempty"`
	OwnerName    string         `json:"owner_name,omitempty"`
	LandUseCode  string         `json:"landuse_code,omitempty"`
	Acres        float64        `json:"acres"`
	Geometry     Geometry       `json:"geometry"`
	Attributes   map[string]any `json:"attributes,omitempty"`
}

// ParcelSource fetches parcel features by assessor parcel number.
type ParcelSource interface {
	// FetchByAPN returns one feature per distinct APN found, in input order.
	// APNs the source does not know are silently absent from the result.
	FetchByAPN(ctx context.Context, apns []string) ([]ParcelFeature, error)
}

// NormalizeParcelID upper-cases an APN and strips every rune that is not a
// letter or digit, so "123-456-07" and "12345607" identify the same parcel.
func NormalizeParcelID(apn string) string {
	var b strings.Builder
	b.Grow(len(apn))
	for _, r := range strings.ToUpper(apn) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// UniqueParcelIDs normalizes apns and drops blanks and duplicates, keeping
// first-seen order.
func UniqueParcelIDs(apns []string) []string {
	seen := make(map[string]struct{}, len(apns))
	out := make([]string, 0, len(apns))
	for _, apn := range apns {
		id := NormalizeParcelID(apn)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Batch splits ids into consecutive chunks of at most size elements.
func Batch(ids []string, size int) [][]string {
	if size <= 0 {
		size = MaxAPNsPerRequest
	}
	batches := make([][]string, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		batches = append(batches, ids[start:end])
	}
	return batches
}

// DedupeFeatures drops features whose normalized parcel id was already seen.
// The first occurrence wins.
func DedupeFeatures(features []ParcelFeature) []ParcelFeature {
	seen := make(map[string]struct{}, len(features))
	out := make([]ParcelFeature, 0, len(features))
	for _, f := range features {
		id := NormalizeParcelID(f.ParcelID)
		if id == "" {
			id = NormalizeParcelID(f.APN)
		}
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		f.ParcelID = id
		out = append(out, f)
	}
	return out
}
