package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	budgetapp "github.com/landscape/backend/internal/application/budget"
)

// BudgetHandler handles budget templates and project budgets
type BudgetHandler struct {
	BaseHandler
	templateService *budgetapp.TemplateService
	budgetService   *budgetapp.BudgetService
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(templateService *budgetapp.TemplateService, budgetService *budgetapp.BudgetService) *BudgetHandler {
	return &BudgetHandler{
		templateService: templateService,
		budgetService:   budgetService,
	}
}

// CreateTemplate godoc
// @ID           createBudgetTemplate
//
//	@Summary	Create a budget template
//	@Tags		budget
//	@Accept		json
//	@Produce	json
//	@Param		request	body		budgetapp.CreateTemplateRequest	true	"Template"
//	@Success	201		{object}	APIResponse[budgetapp.TemplateResponse]
//	@Failure	400		{object}	ErrorResponse
//	@Failure	409		{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/budget/templates [post]
func (h *BudgetHandler) CreateTemplate(c *gin.Context) {
	var req budgetapp.CreateTemplateRequest
	if !h.bindJSON(c, &req) {
		return
	}
	t, err := h.templateService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, t)
}

// ListTemplates godoc
// @ID           listBudgetTemplates
//
//	@Summary	List budget templates
//	@Tags		budget
//	@Produce	json
//	@Param		search			query		string	false	"Name"
//	@Param		project_type	query		string	false	"Project type"
//	@Param		page			query		int		false	"Page"
//	@Param		page_size		query		int		false	"Page size"
//	@Success	200				{object}	APIResponse[[]budgetapp.TemplateResponse]
//	@Security	BearerAuth
//	@Router		/budget/templates [get]
func (h *BudgetHandler) ListTemplates(c *gin.Context) {
	var filter budgetapp.TemplateListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	page, err := h.templateService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	successPage(&h.BaseHandler, c, page)
}

// GetTemplate godoc
// @ID           getBudgetTemplate
//
//	@Summary	Get a budget template with its category tree
//	@Tags		budget
//	@Produce	json
//	@Param		id	path		string	true	"Template ID"	format(uuid)
//	@Success	200	{object}	APIResponse[budgetapp.TemplateResponse]
//	@Failure	404	{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/budget/templates/{id} [get]
func (h *BudgetHandler) GetTemplate(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	t, err := h.templateService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, t)
}

// UpdateTemplate godoc
// @ID           updateBudgetTemplate
//
//	@Summary	Update a budget template
//	@Tags		budget
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string							true	"Template ID"	format(uuid)
//	@Param		request	body		budgetapp.UpdateTemplateRequest	true	"Template"
//	@Success	200		{object}	APIResponse[budgetapp.TemplateResponse]
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Failure	409		{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/budget/templates/{id} [put]
func (h *BudgetHandler) UpdateTemplate(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req budgetapp.UpdateTemplateRequest
	if !h.bindJSON(c, &req) {
		return
	}
	t, err := h.templateService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, t)
}

// DeleteTemplate godoc
// @ID           deleteBudgetTemplate
//
//	@Summary	Delete a budget template
//	@Tags		budget
//	@Param		id	path	string	true	"Template ID"	format(uuid)
//	@Success	204
//	@Failure	404	{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/budget/templates/{id} [delete]
func (h *BudgetHandler) DeleteTemplate(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.templateService.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// AddTemplateCategory godoc
// @ID           addBudgetTemplateCategory
//
//	@Summary		Add a category to a budget template
//	@Description	Level 1 rows have no parent; deeper rows need a parent exactly one level up
//	@Tags			budget
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string								true	"Template ID"	format(uuid)
//	@Param			request	body		budgetapp.AddTemplateCategoryRequest	true	"Category"
//	@Success		201		{object}	APIResponse[budgetapp.CategoryTreeNode]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/budget/templates/{id}/categories [post]
func (h *BudgetHandler) AddTemplateCategory(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req budgetapp.AddTemplateCategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	node, err := h.templateService.AddCategory(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, node)
}

// ApplyTemplate godoc
// @ID           applyBudgetTemplate
//
//	@Summary		Copy a template into a project budget
//	@Description	Fails with 409 when the project already has categories, unless overwrite_existing is set
//	@Tags			budget
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Project ID"	format(uuid)
//	@Param			request	body		budgetapp.ApplyTemplateRequest	true	"Template"
//	@Success		200		{object}	APIResponse[budgetapp.ApplyTemplateResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/projects/{id}/budget/apply-template [post]
func (h *BudgetHandler) ApplyTemplate(c *gin.Context) {
	projectID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req budgetapp.ApplyTemplateRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.templateService.ApplyTemplate(c.Request.Context(), projectID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// SaveAsTemplate godoc
// @ID           saveBudgetAsTemplate
//
//	@Summary	Save a project's category tree as a new template
//	@Tags		budget
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string							true	"Project ID"	format(uuid)
//	@Param		request	body		budgetapp.SaveAsTemplateRequest	true	"Template name"
//	@Success	201		{object}	APIResponse[budgetapp.TemplateResponse]
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Failure	409		{object}	ErrorResponse
//	@Failure	422		{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/projects/{id}/budget/save-as-template [post]
func (h *BudgetHandler) SaveAsTemplate(c *gin.Context) {
	projectID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req budgetapp.SaveAsTemplateRequest
	if !h.bindJSON(c, &req) {
		return
	}
	t, err := h.templateService.SaveAsTemplate(c.Request.Context(), projectID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, t)
}

// ListCategories godoc
// @ID           listBudgetCategories
//
//	@Summary	Project budget category tree
//	@Tags		budget
//	@Produce	json
//	@Param		id	path		string	true	"Project ID"	format(uuid)
//	@Success	200	{object}	APIResponse[[]budgetapp.CategoryTreeNode]
//	@Failure	404	{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/projects/{id}/budget/categories [get]
func (h *BudgetHandler) ListCategories(c *gin.Context) {
	projectID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	tree, err := h.budgetService.ListCategories(c.Request.Context(), projectID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, tree)
}

// CreateCategory godoc
// @ID           createBudgetCategory
//
//	@Summary	Create a project budget category
//	@Tags		budget
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string							true	"Project ID"	format(uuid)
//	@Param		request	body		budgetapp.CreateCategoryRequest	true	"Category"
//	@Success	201		{object}	APIResponse[budgetapp.CategoryResponse]
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/projects/{id}/budget/categories [post]
func (h *BudgetHandler) CreateCategory(c *gin.Context) {
	projectID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req budgetapp.CreateCategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	category, err := h.budgetService.CreateCategory(c.Request.Context(), projectID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, category)
}

// UpdateCategory godoc
// @ID           updateBudgetCategory
//
//	@Summary	Update a project budget category
//	@Tags		budget
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string							true	"Category ID"	format(uuid)
//	@Param		request	body		budgetapp.UpdateCategoryRequest	true	"Category"
//	@Success	200		{object}	APIResponse[budgetapp.CategoryResponse]
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/budget/categories/{id} [put]
func (h *BudgetHandler) UpdateCategory(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req budgetapp.UpdateCategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	category, err := h.budgetService.UpdateCategory(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, category)
}

// DeleteCategory godoc
// @ID           deleteBudgetCategory
//
//	@Summary	Delete a leaf budget category without items
//	@Tags		budget
//	@Param		id	path	string	true	"Category ID"	format(uuid)
//	@Success	204
//	@Failure	404	{object}	ErrorResponse
//	@Failure	409	{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/budget/categories/{id} [delete]
func (h *BudgetHandler) DeleteCategory(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.budgetService.DeleteCategory(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// ListItems godoc
// @ID           listBudgetItems
//
//	@Summary	List a project's budget items
//	@Tags		budget
//	@Produce	json
//	@Param		id			path		string	true	"Project ID"	format(uuid)
//	@Param		category_id	query		string	false	"Category"		format(uuid)
//	@Param		phase_id	query		string	false	"Phase"			format(uuid)
//	@Param		search		query		string	false	"Description"
//	@Param		page		query		int		false	"Page"
//	@Param		page_size	query		int		false	"Page size"
//	@Success	200			{object}	APIResponse[[]budgetapp.ItemResponse]
//	@Failure	404			{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/projects/{id}/budget/items [get]
func (h *BudgetHandler) ListItems(c *gin.Context) {
	projectID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var filter budgetapp.ItemListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	if filter.CategoryID, ok = h.queryUUID(c, "category_id"); !ok {
		return
	}
	if filter.PhaseID, ok = h.queryUUID(c, "phase_id"); !ok {
		return
	}
	page, err := h.budgetService.ListItems(c.Request.Context(), projectID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	successPage(&h.BaseHandler, c, page)
}

// CreateItem godoc
// @ID           createBudgetItem
//
//	@Summary	Create a budget item
//	@Tags		budget
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string						true	"Project ID"	format(uuid)
//	@Param		request	body		budgetapp.CreateItemRequest	true	"Item"
//	@Success	201		{object}	APIResponse[budgetapp.ItemResponse]
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/projects/{id}/budget/items [post]
func (h *BudgetHandler) CreateItem(c *gin.Context) {
	projectID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req budgetapp.CreateItemRequest
	if !h.bindJSON(c, &req) {
		return
	}
	item, err := h.budgetService.CreateItem(c.Request.Context(), projectID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, item)
}

// UpdateItem godoc
// @ID           updateBudgetItem
//
//	@Summary	Update a budget item
//	@Tags		budget
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string						true	"Item ID"	format(uuid)
//	@Param		request	body		budgetapp.UpdateItemRequest	true	"Item"
//	@Success	200		{object}	APIResponse[budgetapp.ItemResponse]
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Failure	409		{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/budget/items/{id} [put]
func (h *BudgetHandler) UpdateItem(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req budgetapp.UpdateItemRequest
	if !h.bindJSON(c, &req) {
		return
	}
	item, err := h.budgetService.UpdateItem(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, item)
}

// DeleteItem godoc
// @ID           deleteBudgetItem
//
//	@Summary	Delete a budget item
//	@Tags		budget
//	@Param		id	path	string	true	"Item ID"	format(uuid)
//	@Success	204
//	@Failure	404	{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/budget/items/{id} [delete]
func (h *BudgetHandler) DeleteItem(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.budgetService.DeleteItem(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// Summary godoc
// @ID           budgetSummary
//
//	@Summary	Budget totals rolled up the category tree
//	@Tags		budget
//	@Produce	json
//	@Param		id	path		string	true	"Project ID"	format(uuid)
//	@Success	200	{object}	APIResponse[budgetapp.SummaryResponse]
//	@Failure	404	{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/projects/{id}/budget/summary [get]
func (h *BudgetHandler) Summary(c *gin.Context) {
	projectID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	summary, err := h.budgetService.Summary(c.Request.Context(), projectID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, summary)
}

// Export godoc
// @ID           exportBudget
//
//	@Summary	Download the project budget
//	@Tags		budget
//	@Produce	application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
//	@Produce	application/pdf
//	@Param		id		path		string	true	"Project ID"	format(uuid)
//	@Param		format	query		string	false	"File format"	Enums(xlsx, pdf)	default(xlsx)
//	@Success	200		{file}		binary
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/projects/{id}/budget/export [get]
func (h *BudgetHandler) Export(c *gin.Context) {
	projectID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	result, err := h.budgetService.Export(c.Request.Context(), projectID, c.Query("format"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+result.FileName+`"`)
	c.Data(http.StatusOK, result.ContentType, result.Data)
}
