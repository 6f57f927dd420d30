package handler

import (
	"github.com/gin-gonic/gin"
	inventoryapp "github.com/landscape/backend/internal/application/inventory"
)

// InventoryHandler handles lot and unit inventory endpoints
type InventoryHandler struct {
	BaseHandler
	inventoryService *inventoryapp.InventoryService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(inventoryService *inventoryapp.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

// List godoc
// @ID           listInventory
//
//	@Summary	List a project's inventory
//	@Tags		inventory
//	@Produce	json
//	@Param		id				path		string	true	"Project ID"	format(uuid)
//	@Param		status			query		string	false	"Status"	Enums(available, reserved, under_contract, sold)
//	@Param		phase_id		query		string	false	"Phase"		format(uuid)
//	@Param		parcel_id		query		string	false	"Parcel"	format(uuid)
//	@Param		product_type	query		string	false	"Product type"
//	@Param		search			query		string	false	"Unit number"
//	@Param		page			query		int		false	"Page"
//	@Param		page_size		query		int		false	"Page size"
//	@Success	200				{object}	APIResponse[[]inventoryapp.ItemResponse]
//	@Failure	400				{object}	ErrorResponse
//	@Failure	404				{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/projects/{id}/inventory [get]
func (h *InventoryHandler) List(c *gin.Context) {
	projectID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var filter inventoryapp.ItemListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	if filter.PhaseID, ok = h.queryUUID(c, "phase_id"); !ok {
		return
	}
	if filter.ParcelID, ok = h.queryUUID(c, "parcel_id"); !ok {
		return
	}
	page, err := h.inventoryService.List(c.Request.Context(), projectID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	successPage(&h.BaseHandler, c, page)
}

// Create godoc
// @ID           createInventoryItem
//
//	@Summary	Add a lot or unit
//	@Tags		inventory
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string						true	"Project ID"	format(uuid)
//	@Param		request	body		inventoryapp.ItemRequest	true	"Unit"
//	@Success	201		{object}	APIResponse[inventoryapp.ItemResponse]
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Failure	409		{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/projects/{id}/inventory [post]
func (h *InventoryHandler) Create(c *gin.Context) {
	projectID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req inventoryapp.ItemRequest
	if !h.bindJSON(c, &req) {
		return
	}
	item, err := h.inventoryService.Create(c.Request.Context(), projectID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, item)
}

// GetByID godoc
// @ID           getInventoryItem
//
//	@Summary	Get a lot or unit
//	@Tags		inventory
//	@Produce	json
//	@Param		id	path		string	true	"Item ID"	format(uuid)
//	@Success	200	{object}	APIResponse[inventoryapp.ItemResponse]
//	@Failure	404	{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/inventory/{id} [get]
func (h *InventoryHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	item, err := h.inventoryService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, item)
}

// Update godoc
// @ID           updateInventoryItem
//
//	@Summary	Update a lot or unit
//	@Tags		inventory
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string						true	"Item ID"	format(uuid)
//	@Param		request	body		inventoryapp.ItemRequest	true	"Unit"
//	@Success	200		{object}	APIResponse[inventoryapp.ItemResponse]
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Failure	409		{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/inventory/{id} [put]
func (h *InventoryHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req inventoryapp.ItemRequest
	if !h.bindJSON(c, &req) {
		return
	}
	item, err := h.inventoryService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, item)
}

// ChangeStatus godoc
// @ID           changeInventoryStatus
//
//	@Summary		Move a unit through the sales pipeline
//	@Description	Sold is terminal and requires a sale price
//	@Tags			inventory
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Item ID"	format(uuid)
//	@Param			request	body		inventoryapp.ChangeStatusRequest	true	"Status"
//	@Success		200		{object}	APIResponse[inventoryapp.ItemResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/inventory/{id}/status [post]
func (h *InventoryHandler) ChangeStatus(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req inventoryapp.ChangeStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	item, err := h.inventoryService.ChangeStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, item)
}

// Delete godoc
// @ID           deleteInventoryItem
//
//	@Summary	Delete a lot or unit
//	@Tags		inventory
//	@Param		id	path	string	true	"Item ID"	format(uuid)
//	@Success	204
//	@Failure	404	{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/inventory/{id} [delete]
func (h *InventoryHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.inventoryService.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// Summary godoc
// @ID           inventorySummary
//
//	@Summary	Unit counts and values per status
//	@Tags		inventory
//	@Produce	json
//	@Param		id	path		string	true	"Project ID"	format(uuid)
//	@Success	200	{object}	APIResponse[inventoryapp.SummaryResponse]
//	@Failure	404	{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/projects/{id}/inventory/summary [get]
func (h *InventoryHandler) Summary(c *gin.Context) {
	projectID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	summary, err := h.inventoryService.Summary(c.Request.Context(), projectID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, summary)
}
