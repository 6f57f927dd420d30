package handler

import (
	"github.com/gin-gonic/gin"
	landuseapp "github.com/landscape/backend/internal/application/landuse"
)

// LandUseHandler handles the land-use taxonomy and the code mapping wizard
type LandUseHandler struct {
	BaseHandler
	landUseService *landuseapp.LandUseService
}

// NewLandUseHandler creates a new LandUseHandler
func NewLandUseHandler(landUseService *landuseapp.LandUseService) *LandUseHandler {
	return &LandUseHandler{landUseService: landUseService}
}

// CreateTaxonomy godoc
// @ID           createLandUseTaxonomy
//
//	@Summary	Create a taxonomy entry
//	@Tags		landuse
//	@Accept		json
//	@Produce	json
//	@Param		request	body		landuseapp.CreateTaxonomyRequest	true	"Taxonomy entry"
//	@Success	201		{object}	APIResponse[landuseapp.TaxonomyResponse]
//	@Failure	400		{object}	ErrorResponse
//	@Failure	409		{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/landuse/taxonomy [post]
func (h *LandUseHandler) CreateTaxonomy(c *gin.Context) {
	var req landuseapp.CreateTaxonomyRequest
	if !h.bindJSON(c, &req) {
		return
	}
	t, err := h.landUseService.CreateTaxonomy(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, t)
}

// ListTaxonomy godoc
// @ID           listLandUseTaxonomy
//
//	@Summary	List taxonomy entries
//	@Tags		landuse
//	@Produce	json
//	@Param		search		query		string	false	"Code or name"
//	@Param		family		query		string	false	"Family"
//	@Param		active		query		bool	false	"Active only"
//	@Param		page		query		int		false	"Page"
//	@Param		page_size	query		int		false	"Page size"
//	@Success	200			{object}	APIResponse[[]landuseapp.TaxonomyResponse]
//	@Security	BearerAuth
//	@Router		/landuse/taxonomy [get]
func (h *LandUseHandler) ListTaxonomy(c *gin.Context) {
	var filter landuseapp.TaxonomyListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	page, err := h.landUseService.ListTaxonomy(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	successPage(&h.BaseHandler, c, page)
}

// GetTaxonomy godoc
// @ID           getLandUseTaxonomy
//
//	@Summary	Get a taxonomy entry
//	@Tags		landuse
//	@Produce	json
//	@Param		id	path		string	true	"Taxonomy ID"	format(uuid)
//	@Success	200	{object}	APIResponse[landuseapp.TaxonomyResponse]
//	@Failure	404	{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/landuse/taxonomy/{id} [get]
func (h *LandUseHandler) GetTaxonomy(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	t, err := h.landUseService.GetTaxonomy(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, t)
}

// UpdateTaxonomy godoc
// @ID           updateLandUseTaxonomy
//
//	@Summary	Update a taxonomy entry
//	@Tags		landuse
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string								true	"Taxonomy ID"	format(uuid)
//	@Param		request	body		landuseapp.UpdateTaxonomyRequest	true	"Taxonomy entry"
//	@Success	200		{object}	APIResponse[landuseapp.TaxonomyResponse]
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Failure	409		{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/landuse/taxonomy/{id} [put]
func (h *LandUseHandler) UpdateTaxonomy(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req landuseapp.UpdateTaxonomyRequest
	if !h.bindJSON(c, &req) {
		return
	}
	t, err := h.landUseService.UpdateTaxonomy(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, t)
}

// DeleteTaxonomy godoc
// @ID           deleteLandUseTaxonomy
//
//	@Summary	Delete a taxonomy entry
//	@Tags		landuse
//	@Param		id	path	string	true	"Taxonomy ID"	format(uuid)
//	@Success	204
//	@Failure	404	{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/landuse/taxonomy/{id} [delete]
func (h *LandUseHandler) DeleteTaxonomy(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.landUseService.DeleteTaxonomy(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// Analyze godoc
// @ID           analyzeLandUseCodes
//
//	@Summary		Analyze legacy land-use codes
//	@Description	Splits the distinct parcel codes into matched and unmatched, with a case-insensitive suggestion for unmatched codes
//	@Tags			landuse
//	@Produce		json
//	@Param			project_id	query		string	false	"Limit to one project"	format(uuid)
//	@Success		200			{object}	APIResponse[landuseapp.AnalysisResponse]
//	@Failure		400			{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/landuse/analysis [get]
func (h *LandUseHandler) Analyze(c *gin.Context) {
	projectID, ok := h.queryUUID(c, "project_id")
	if !ok {
		return
	}
	analysis, err := h.landUseService.Analyze(c.Request.Context(), projectID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, analysis)
}

// MapCode godoc
// @ID           mapLandUseCode
//
//	@Summary	Map a legacy code to a taxonomy entry
//	@Tags		landuse
//	@Accept		json
//	@Produce	json
//	@Param		request	body		landuseapp.MapCodeRequest	true	"Mapping"
//	@Success	200		{object}	APIResponse[landuseapp.MappingResultResponse]
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/landuse/mappings [post]
func (h *LandUseHandler) MapCode(c *gin.Context) {
	var req landuseapp.MapCodeRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.landUseService.Map(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// CreateAndMap godoc
// @ID           createAndMapLandUseCode
//
//	@Summary	Create a taxonomy entry and map a legacy code to it
//	@Tags		landuse
//	@Accept		json
//	@Produce	json
//	@Param		request	body		landuseapp.CreateAndMapRequest	true	"Taxonomy entry and code"
//	@Success	201		{object}	APIResponse[landuseapp.MappingResultResponse]
//	@Failure	400		{object}	ErrorResponse
//	@Failure	409		{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/landuse/mappings/create [post]
func (h *LandUseHandler) CreateAndMap(c *gin.Context) {
	var req landuseapp.CreateAndMapRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.landUseService.CreateAndMap(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, result)
}

// Unmap godoc
// @ID           unmapLandUseCode
//
//	@Summary	Remove a legacy code mapping
//	@Tags		landuse
//	@Produce	json
//	@Param		code	path		string	true	"Legacy code"
//	@Success	200		{object}	APIResponse[landuseapp.MappingResultResponse]
//	@Failure	404		{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/landuse/mappings/{code} [delete]
func (h *LandUseHandler) Unmap(c *gin.Context) {
	result, err := h.landUseService.Unmap(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// ListMappings godoc
// @ID           listLandUseMappings
//
//	@Summary	List legacy code mappings
//	@Tags		landuse
//	@Produce	json
//	@Success	200	{object}	APIResponse[[]landuseapp.MappingResponse]
//	@Security	BearerAuth
//	@Router		/landuse/mappings [get]
func (h *LandUseHandler) ListMappings(c *gin.Context) {
	mappings, err := h.landUseService.ListMappings(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, mappings)
}
