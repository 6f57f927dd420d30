package handler

import (
	"github.com/gin-gonic/gin"
	financeapp "github.com/landscape/backend/internal/application/finance"
)

// FinanceHandler handles debt facility endpoints
type FinanceHandler struct {
	BaseHandler
	facilityService *financeapp.FacilityService
}

// NewFinanceHandler creates a new FinanceHandler
func NewFinanceHandler(facilityService *financeapp.FacilityService) *FinanceHandler {
	return &FinanceHandler{facilityService: facilityService}
}

// List godoc
// @ID           listDebtFacilities
//
//	@Summary	List a project's debt facilities with commitment totals
//	@Tags		finance
//	@Produce	json
//	@Param		id	path		string	true	"Project ID"	format(uuid)
//	@Success	200	{object}	APIResponse[financeapp.FacilityListResponse]
//	@Failure	404	{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/projects/{id}/debt-facilities [get]
func (h *FinanceHandler) List(c *gin.Context) {
	projectID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	list, err := h.facilityService.List(c.Request.Context(), projectID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, list)
}

// Create godoc
// @ID           createDebtFacility
//
//	@Summary	Create a debt facility
//	@Tags		finance
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string						true	"Project ID"	format(uuid)
//	@Param		request	body		financeapp.FacilityRequest	true	"Facility"
//	@Success	201		{object}	APIResponse[financeapp.FacilityResponse]
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/projects/{id}/debt-facilities [post]
func (h *FinanceHandler) Create(c *gin.Context) {
	projectID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req financeapp.FacilityRequest
	if !h.bindJSON(c, &req) {
		return
	}
	f, err := h.facilityService.Create(c.Request.Context(), projectID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, f)
}

// GetByID godoc
// @ID           getDebtFacility
//
//	@Summary	Get a debt facility
//	@Tags		finance
//	@Produce	json
//	@Param		id	path		string	true	"Facility ID"	format(uuid)
//	@Success	200	{object}	APIResponse[financeapp.FacilityResponse]
//	@Failure	404	{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/debt-facilities/{id} [get]
func (h *FinanceHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	f, err := h.facilityService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, f)
}

// Update godoc
// @ID           updateDebtFacility
//
//	@Summary	Update a debt facility
//	@Tags		finance
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string						true	"Facility ID"	format(uuid)
//	@Param		request	body		financeapp.FacilityRequest	true	"Facility"
//	@Success	200		{object}	APIResponse[financeapp.FacilityResponse]
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/debt-facilities/{id} [put]
func (h *FinanceHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req financeapp.FacilityRequest
	if !h.bindJSON(c, &req) {
		return
	}
	f, err := h.facilityService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, f)
}

// Delete godoc
// @ID           deleteDebtFacility
//
//	@Summary	Delete a debt facility
//	@Tags		finance
//	@Param		id	path	string	true	"Facility ID"	format(uuid)
//	@Success	204
//	@Failure	404	{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/debt-facilities/{id} [delete]
func (h *FinanceHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.facilityService.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// Schedule godoc
// @ID           debtFacilitySchedule
//
//	@Summary		Monthly debt service schedule
//	@Description	Interest only when the amortization period is zero, otherwise a level payment with a balloon at term end
//	@Tags			finance
//	@Produce		json
//	@Param			id	path		string	true	"Facility ID"	format(uuid)
//	@Success		200	{object}	APIResponse[financeapp.ScheduleResponse]
//	@Failure		404	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/debt-facilities/{id}/schedule [get]
func (h *FinanceHandler) Schedule(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	schedule, err := h.facilityService.Schedule(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, schedule)
}
