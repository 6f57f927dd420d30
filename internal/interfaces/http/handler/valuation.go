package handler

import (
	"github.com/gin-gonic/gin"
	valuationapp "github.com/landscape/backend/internal/application/valuation"
)

// ValuationHandler handles DCF scenario endpoints
type ValuationHandler struct {
	BaseHandler
	scenarioService *valuationapp.ScenarioService
}

// NewValuationHandler creates a new ValuationHandler
func NewValuationHandler(scenarioService *valuationapp.ScenarioService) *ValuationHandler {
	return &ValuationHandler{scenarioService: scenarioService}
}

// List godoc
// @ID           listValuationScenarios
//
//	@Summary	List a project's valuation scenarios
//	@Tags		valuation
//	@Produce	json
//	@Param		id	path		string	true	"Project ID"	format(uuid)
//	@Success	200	{object}	APIResponse[[]valuationapp.ScenarioResponse]
//	@Failure	404	{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/projects/{id}/valuations [get]
func (h *ValuationHandler) List(c *gin.Context) {
	projectID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	scenarios, err := h.scenarioService.List(c.Request.Context(), projectID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, scenarios)
}

// Create godoc
// @ID           createValuationScenario
//
//	@Summary	Create a valuation scenario
//	@Tags		valuation
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string						true	"Project ID"	format(uuid)
//	@Param		request	body		valuationapp.ScenarioRequest	true	"Scenario"
//	@Success	201		{object}	APIResponse[valuationapp.ScenarioResponse]
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/projects/{id}/valuations [post]
func (h *ValuationHandler) Create(c *gin.Context) {
	projectID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req valuationapp.ScenarioRequest
	if !h.bindJSON(c, &req) {
		return
	}
	s, err := h.scenarioService.Create(c.Request.Context(), projectID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, s)
}

// GetByID godoc
// @ID           getValuationScenario
//
//	@Summary	Get a valuation scenario
//	@Tags		valuation
//	@Produce	json
//	@Param		id	path		string	true	"Scenario ID"	format(uuid)
//	@Success	200	{object}	APIResponse[valuationapp.ScenarioResponse]
//	@Failure	404	{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/valuations/{id} [get]
func (h *ValuationHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	s, err := h.scenarioService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, s)
}

// Update godoc
// @ID           updateValuationScenario
//
//	@Summary	Update a valuation scenario
//	@Tags		valuation
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string						true	"Scenario ID"	format(uuid)
//	@Param		request	body		valuationapp.ScenarioRequest	true	"Scenario"
//	@Success	200		{object}	APIResponse[valuationapp.ScenarioResponse]
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/valuations/{id} [put]
func (h *ValuationHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req valuationapp.ScenarioRequest
	if !h.bindJSON(c, &req) {
		return
	}
	s, err := h.scenarioService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, s)
}

// Delete godoc
// @ID           deleteValuationScenario
//
//	@Summary	Delete a valuation scenario
//	@Tags		valuation
//	@Param		id	path	string	true	"Scenario ID"	format(uuid)
//	@Success	204
//	@Failure	404	{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/valuations/{id} [delete]
func (h *ValuationHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.scenarioService.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// Evaluate godoc
// @ID           evaluateValuationScenario
//
//	@Summary		Evaluate a valuation scenario
//	@Description	NPV, IRR, equity multiple and profit of the scenario cash flows including the exit value
//	@Tags			valuation
//	@Produce		json
//	@Param			id	path		string	true	"Scenario ID"	format(uuid)
//	@Success		200	{object}	APIResponse[valuationapp.EvaluationResponse]
//	@Failure		404	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/valuations/{id}/evaluate [get]
func (h *ValuationHandler) Evaluate(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	evaluation, err := h.scenarioService.Evaluate(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, evaluation)
}
