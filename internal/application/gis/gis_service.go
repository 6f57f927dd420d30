// Package gis serves parcel lookups against the configured GIS source.
package gis

import (
	"context"

	"github.com/landscape/backend/internal/domain/gis"
	"github.com/landscape/backend/internal/domain/shared"
)

// maxLookupAPNs bounds a single lookup request
const maxLookupAPNs = 500

// LookupResponse carries the features found and the parcel ids that were not
type LookupResponse struct {
	Requested int                 `json:"requested"`
	Parcels   []gis.ParcelFeature `json:"parcels"`
	NotFound  []string            `json:"not_found"`
}

// GISService looks parcels up by APN
type GISService struct {
	source gis.ParcelSource
}

// NewGISService creates a new GISService. source may be nil when no parcel
// service is configured.
func NewGISService(source gis.ParcelSource) *GISService {
	return &GISService{source: source}
}

// FetchParcels returns one feature per distinct APN the source knows, in
// request order. APNs are normalized before de-duplication.
func (s *GISService) FetchParcels(ctx context.Context, apns []string) (*LookupResponse, error) {
	if s.source == nil {
		return nil, shared.NewDomainError(shared.CodeUpstreamUnavailable, "GIS parcel service is not configured")
	}
	ids := gis.UniqueParcelIDs(apns)
	if len(ids) == 0 {
		return nil, shared.NewInvalidInputError("at least one APN is required")
	}
	if len(ids) > maxLookupAPNs {
		return nil, shared.NewInvalidInputError("at most %d APNs may be requested at once", maxLookupAPNs)
	}

	features, err := s.source.FetchByAPN(ctx, ids)
	if err != nil {
		return nil, err
	}
	found := make(map[string]struct{}, len(features))
	for _, f := range features {
		found[gis.NormalizeParcelID(f.ParcelID)] = struct{}{}
	}
	resp := &LookupResponse{
		Requested: len(ids),
		Parcels:   features,
		NotFound:  []string{},
	}
	if resp.Parcels == nil {
		resp.Parcels = []gis.ParcelFeature{}
	}
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			resp.NotFound = append(resp.NotFound, id)
		}
	}
	return resp, nil
}
