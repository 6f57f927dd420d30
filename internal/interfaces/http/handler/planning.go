package handler

import (
	"github.com/gin-gonic/gin"
	planningapp "github.com/landscape/backend/internal/application/planning"
)

// PlanningHandler handles area, phase and parcel endpoints
type PlanningHandler struct {
	BaseHandler
	areaService   *planningapp.AreaService
	phaseService  *planningapp.PhaseService
	parcelService *planningapp.ParcelService
}

// NewPlanningHandler creates a new PlanningHandler
func NewPlanningHandler(areas *planningapp.AreaService, phases *planningapp.PhaseService, parcels *planningapp.ParcelService) *PlanningHandler {
	return &PlanningHandler{
		areaService:   areas,
		phaseService:  phases,
		parcelService: parcels,
	}
}

// ListAreas godoc
// @ID           listAreas
//
//	@Summary	List a project's areas
//	@Tags		planning
//	@Produce	json
//	@Param		id	path		string	true	"Project ID"	format(uuid)
//	@Success	200	{object}	APIResponse[[]planningapp.AreaResponse]
//	@Failure	404	{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/projects/{id}/areas [get]
func (h *PlanningHandler) ListAreas(c *gin.Context) {
	projectID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	areas, err := h.areaService.List(c.Request.Context(), projectID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, areas)
}

// CreateArea godoc
// @ID           createArea
//
//	@Summary	Create an area
//	@Tags		planning
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string							true	"Project ID"	format(uuid)
//	@Param		request	body		planningapp.CreateAreaRequest	true	"Area"
//	@Success	201		{object}	APIResponse[planningapp.AreaResponse]
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Failure	409		{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/projects/{id}/areas [post]
func (h *PlanningHandler) CreateArea(c *gin.Context) {
	projectID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req planningapp.CreateAreaRequest
	if !h.bindJSON(c, &req) {
		return
	}
	area, err := h.areaService.Create(c.Request.Context(), projectID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, area)
}

// UpdateArea godoc
// @ID           updateArea
//
//	@Summary	Update an area
//	@Tags		planning
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string							true	"Area ID"	format(uuid)
//	@Param		request	body		planningapp.UpdateAreaRequest	true	"Area"
//	@Success	200		{object}	APIResponse[planningapp.AreaResponse]
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/areas/{id} [put]
func (h *PlanningHandler) UpdateArea(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req planningapp.UpdateAreaRequest
	if !h.bindJSON(c, &req) {
		return
	}
	area, err := h.areaService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, area)
}

// DeleteArea godoc
// @ID           deleteArea
//
//	@Summary	Delete an area
//	@Tags		planning
//	@Param		id	path	string	true	"Area ID"	format(uuid)
//	@Success	204
//	@Failure	404	{object}	ErrorResponse
//	@Failure	409	{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/areas/{id} [delete]
func (h *PlanningHandler) DeleteArea(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.areaService.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// ListPhases godoc
// @ID           listPhases
//
//	@Summary	List a project's phases
//	@Tags		planning
//	@Produce	json
//	@Param		id	path		string	true	"Project ID"	format(uuid)
//	@Success	200	{object}	APIResponse[[]planningapp.PhaseResponse]
//	@Failure	404	{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/projects/{id}/phases [get]
func (h *PlanningHandler) ListPhases(c *gin.Context) {
	projectID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	phases, err := h.phaseService.List(c.Request.Context(), projectID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, phases)
}

// CreatePhase godoc
// @ID           createPhase
//
//	@Summary	Create a phase
//	@Tags		planning
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string							true	"Project ID"	format(uuid)
//	@Param		request	body		planningapp.CreatePhaseRequest	true	"Phase"
//	@Success	201		{object}	APIResponse[planningapp.PhaseResponse]
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Failure	409		{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/projects/{id}/phases [post]
func (h *PlanningHandler) CreatePhase(c *gin.Context) {
	projectID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req planningapp.CreatePhaseRequest
	if !h.bindJSON(c, &req) {
		return
	}
	phase, err := h.phaseService.Create(c.Request.Context(), projectID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, phase)
}

// UpdatePhase godoc
// @ID           updatePhase
//
//	@Summary	Update a phase
//	@Tags		planning
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string							true	"Phase ID"	format(uuid)
//	@Param		request	body		planningapp.UpdatePhaseRequest	true	"Phase"
//	@Success	200		{object}	APIResponse[planningapp.PhaseResponse]
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/phases/{id} [put]
func (h *PlanningHandler) UpdatePhase(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req planningapp.UpdatePhaseRequest
	if !h.bindJSON(c, &req) {
		return
	}
	phase, err := h.phaseService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, phase)
}

// DeletePhase godoc
// @ID           deletePhase
//
//	@Summary	Delete a phase
//	@Tags		planning
//	@Param		id	path	string	true	"Phase ID"	format(uuid)
//	@Success	204
//	@Failure	404	{object}	ErrorResponse
//	@Failure	409	{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/phases/{id} [delete]
func (h *PlanningHandler) DeletePhase(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.phaseService.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// ListParcels godoc
// @ID           listParcels
//
//	@Summary	List a project's parcels
//	@Tags		planning
//	@Produce	json
//	@Param		id				path		string	true	"Project ID"	format(uuid)
//	@Param		area_id			query		string	false	"Area"			format(uuid)
//	@Param		phase_id		query		string	false	"Phase"			format(uuid)
//	@Param		taxonomy_id		query		string	false	"Taxonomy entry"	format(uuid)
//	@Param		landuse_code	query		string	false	"Legacy land-use code"
//	@Param		status			query		string	false	"Status"	Enums(raw, entitled, developed, sold)
//	@Param		unmapped		query		bool	false	"Only parcels whose code has no taxonomy mapping"
//	@Param		page			query		int		false	"Page"
//	@Param		page_size		query		int		false	"Page size"
//	@Success	200				{object}	APIResponse[[]planningapp.ParcelResponse]
//	@Failure	400				{object}	ErrorResponse
//	@Failure	404				{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/projects/{id}/parcels [get]
func (h *PlanningHandler) ListParcels(c *gin.Context) {
	projectID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var filter planningapp.ParcelListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	if filter.AreaID, ok = h.queryUUID(c, "area_id"); !ok {
		return
	}
	if filter.PhaseID, ok = h.queryUUID(c, "phase_id"); !ok {
		return
	}
	if filter.TaxonomyID, ok = h.queryUUID(c, "taxonomy_id"); !ok {
		return
	}
	page, err := h.parcelService.List(c.Request.Context(), projectID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	successPage(&h.BaseHandler, c, page)
}

// CreateParcel godoc
// @ID           createParcel
//
//	@Summary	Create a parcel
//	@Tags		planning
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string							true	"Project ID"	format(uuid)
//	@Param		request	body		planningapp.CreateParcelRequest	true	"Parcel"
//	@Success	201		{object}	APIResponse[planningapp.ParcelResponse]
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/projects/{id}/parcels [post]
func (h *PlanningHandler) CreateParcel(c *gin.Context) {
	projectID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req planningapp.CreateParcelRequest
	if !h.bindJSON(c, &req) {
		return
	}
	parcel, err := h.parcelService.Create(c.Request.Context(), projectID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, parcel)
}

// GetParcel godoc
// @ID           getParcel
//
//	@Summary	Get a parcel
//	@Tags		planning
//	@Produce	json
//	@Param		id	path		string	true	"Parcel ID"	format(uuid)
//	@Success	200	{object}	APIResponse[planningapp.ParcelResponse]
//	@Failure	404	{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/parcels/{id} [get]
func (h *PlanningHandler) GetParcel(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	parcel, err := h.parcelService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, parcel)
}

// UpdateParcel godoc
// @ID           updateParcel
//
//	@Summary	Update a parcel
//	@Tags		planning
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string							true	"Parcel ID"	format(uuid)
//	@Param		request	body		planningapp.UpdateParcelRequest	true	"Parcel"
//	@Success	200		{object}	APIResponse[planningapp.ParcelResponse]
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Failure	409		{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/parcels/{id} [put]
func (h *PlanningHandler) UpdateParcel(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req planningapp.UpdateParcelRequest
	if !h.bindJSON(c, &req) {
		return
	}
	parcel, err := h.parcelService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, parcel)
}

// DeleteParcel godoc
// @ID           deleteParcel
//
//	@Summary	Delete a parcel
//	@Tags		planning
//	@Param		id	path	string	true	"Parcel ID"	format(uuid)
//	@Success	204
//	@Failure	404	{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/parcels/{id} [delete]
func (h *PlanningHandler) DeleteParcel(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.parcelService.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// LandUseSummary godoc
// @ID           parcelLandUseSummary
//
//	@Summary		Land-use summary of a project's parcels
//	@Description	Acres and units grouped by taxonomy family and code, with unmapped legacy codes listed separately
//	@Tags			planning
//	@Produce		json
//	@Param			id	path		string	true	"Project ID"	format(uuid)
//	@Success		200	{object}	APIResponse[planningapp.LandUseSummaryResponse]
//	@Failure		404	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/projects/{id}/parcels/landuse-summary [get]
func (h *PlanningHandler) LandUseSummary(c *gin.Context) {
	projectID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	summary, err := h.parcelService.LandUseSummary(c.Request.Context(), projectID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, summary)
}

// ImportParcels godoc
// @ID           importParcelsFromGIS
//
//	@Summary		Import parcels from GIS
//	@Description	Fetches the APNs from the county parcel service and creates parcels the project does not have yet
//	@Tags			planning
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Project ID"	format(uuid)
//	@Param			request	body		planningapp.ImportParcelsRequest	true	"APNs"
//	@Success		200		{object}	APIResponse[planningapp.ImportParcelsResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		502		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/projects/{id}/parcels/import-gis [post]
func (h *PlanningHandler) ImportParcels(c *gin.Context) {
	projectID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req planningapp.ImportParcelsRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.parcelService.ImportParcels(c.Request.Context(), projectID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}
