package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	gisapp "github.com/landscape/backend/internal/application/gis"
)

// GISHandler handles county parcel lookups
type GISHandler struct {
	BaseHandler
	gisService *gisapp.GISService
}

// NewGISHandler creates a new GISHandler
func NewGISHandler(gisService *gisapp.GISService) *GISHandler {
	return &GISHandler{gisService: gisService}
}

// FetchParcels godoc
// @ID           fetchGISParcels
//
//	@Summary		Look up parcels by APN
//	@Description	APNs are normalized and de-duplicated; features come back in request order with geometry in WGS84
//	@Tags			gis
//	@Produce		json
//	@Param			apn	query		[]string	true	"Assessor parcel numbers"	collectionFormat(multi)
//	@Success		200	{object}	APIResponse[gisapp.LookupResponse]
//	@Failure		400	{object}	ErrorResponse
//	@Failure		502	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/gis/parcels [get]
func (h *GISHandler) FetchParcels(c *gin.Context) {
	var apns []string
	for _, v := range c.QueryArray("apn") {
		apns = append(apns, splitList(v)...)
	}
	resp, err := h.gisService.FetchParcels(c.Request.Context(), apns)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// splitList accepts both repeated parameters and comma separated values
func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
