package handler

import (
	"github.com/gin-gonic/gin"
	projectapp "github.com/landscape/backend/internal/application/project"
)

// ProjectHandler handles project endpoints
type ProjectHandler struct {
	BaseHandler
	projectService   *projectapp.ProjectService
	dashboardService *projectapp.DashboardService
}

// NewProjectHandler creates a new ProjectHandler
func NewProjectHandler(projectService *projectapp.ProjectService, dashboardService *projectapp.DashboardService) *ProjectHandler {
	return &ProjectHandler{
		projectService:   projectService,
		dashboardService: dashboardService,
	}
}

// Create godoc
// @ID           createProject
//
//	@Summary		Create a project
//	@Tags			projects
//	@Accept			json
//	@Produce		json
//	@Param			request	body		projectapp.CreateProjectRequest	true	"Project"
//	@Success		201		{object}	APIResponse[projectapp.ProjectResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/projects [post]
func (h *ProjectHandler) Create(c *gin.Context) {
	var req projectapp.CreateProjectRequest
	if !h.bindJSON(c, &req) {
		return
	}
	p, err := h.projectService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, p)
}

// List godoc
// @ID           listProjects
//
//	@Summary		List projects
//	@Tags			projects
//	@Produce		json
//	@Param			search			query		string	false	"Name search"
//	@Param			status			query		string	false	"Status"	Enums(planning, active, on_hold, archived)
//	@Param			project_type	query		string	false	"Project type"
//	@Param			state			query		string	false	"Two-letter state"
//	@Param			page			query		int		false	"Page"		default(1)
//	@Param			page_size		query		int		false	"Page size"	default(20)
//	@Success		200				{object}	APIResponse[[]projectapp.ProjectResponse]
//	@Failure		400				{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/projects [get]
func (h *ProjectHandler) List(c *gin.Context) {
	var filter projectapp.ProjectListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	page, err := h.projectService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	successPage(&h.BaseHandler, c, page)
}

// GetByID godoc
// @ID           getProject
//
//	@Summary		Get a project
//	@Tags			projects
//	@Produce		json
//	@Param			id	path		string	true	"Project ID"	format(uuid)
//	@Success		200	{object}	APIResponse[projectapp.ProjectResponse]
//	@Failure		404	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/projects/{id} [get]
func (h *ProjectHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	p, err := h.projectService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, p)
}

// Update godoc
// @ID           updateProject
//
//	@Summary		Update a project
//	@Description	Fields left out of the body are unchanged
//	@Tags			projects
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Project ID"	format(uuid)
//	@Param			request	body		projectapp.UpdateProjectRequest	true	"Changes"
//	@Success		200		{object}	APIResponse[projectapp.ProjectResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/projects/{id} [put]
func (h *ProjectHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req projectapp.UpdateProjectRequest
	if !h.bindJSON(c, &req) {
		return
	}
	p, err := h.projectService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, p)
}

// Delete godoc
// @ID           deleteProject
//
//	@Summary		Delete a project
//	@Tags			projects
//	@Param			id	path	string	true	"Project ID"	format(uuid)
//	@Success		204
//	@Failure		404	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/projects/{id} [delete]
func (h *ProjectHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.projectService.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// GetBoundary godoc
// @ID           getProjectBoundary
//
//	@Summary		List a project's stored boundaries
//	@Tags			projects
//	@Produce		json
//	@Param			id	path		string	true	"Project ID"	format(uuid)
//	@Success		200	{object}	APIResponse[[]projectapp.BoundaryResponse]
//	@Failure		404	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/projects/{id}/boundary [get]
func (h *ProjectHandler) GetBoundary(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	boundaries, err := h.projectService.GetBoundaries(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, boundaries)
}

// SaveBoundary godoc
// @ID           saveProjectBoundary
//
//	@Summary		Replace a project's boundary
//	@Description	Stores the polygon, recomputes its acreage and updates the project's total acres in one transaction
//	@Tags			projects
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Project ID"	format(uuid)
//	@Param			request	body		projectapp.SaveBoundaryRequest	true	"Boundary"
//	@Success		200		{object}	APIResponse[projectapp.BoundaryResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/projects/{id}/boundary [put]
func (h *ProjectHandler) SaveBoundary(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req projectapp.SaveBoundaryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	b, err := h.projectService.SaveBoundary(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, b)
}

// Dashboard godoc
// @ID           getProjectDashboard
//
//	@Summary		Project dashboard
//	@Description	Budget, land, debt, inventory and valuation positions of a project
//	@Tags			projects
//	@Produce		json
//	@Param			id	path		string	true	"Project ID"	format(uuid)
//	@Success		200	{object}	APIResponse[projectapp.DashboardResponse]
//	@Failure		404	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/projects/{id}/dashboard [get]
func (h *ProjectHandler) Dashboard(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	d, err := h.dashboardService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, d)
}
