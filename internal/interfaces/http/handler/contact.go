package handler

import (
	"github.com/gin-gonic/gin"
	contactapp "github.com/landscape/backend/internal/application/contact"
)

// ContactHandler handles contact directory endpoints
type ContactHandler struct {
	BaseHandler
	contactService *contactapp.ContactService
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(contactService *contactapp.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// Create godoc
// @ID           createContact
//
//	@Summary		Create a contact
//	@Description	Phone numbers are stored in E.164 form
//	@Tags			contacts
//	@Accept			json
//	@Produce		json
//	@Param			request	body		contactapp.ContactRequest	true	"Contact"
//	@Success		201		{object}	APIResponse[contactapp.ContactResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/contacts [post]
func (h *ContactHandler) Create(c *gin.Context) {
	var req contactapp.ContactRequest
	if !h.bindJSON(c, &req) {
		return
	}
	contact, err := h.contactService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, contact)
}

// List godoc
// @ID           listContacts
//
//	@Summary	List contacts
//	@Tags		contacts
//	@Produce	json
//	@Param		search		query		string	false	"Name, company or email"
//	@Param		project_id	query		string	false	"Project"	format(uuid)
//	@Param		role		query		string	false	"Role"
//	@Param		page		query		int		false	"Page"
//	@Param		page_size	query		int		false	"Page size"
//	@Success	200			{object}	APIResponse[[]contactapp.ContactResponse]
//	@Failure	400			{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/contacts [get]
func (h *ContactHandler) List(c *gin.Context) {
	var filter contactapp.ContactListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	var ok bool
	if filter.ProjectID, ok = h.queryUUID(c, "project_id"); !ok {
		return
	}
	page, err := h.contactService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	successPage(&h.BaseHandler, c, page)
}

// GetByID godoc
// @ID           getContact
//
//	@Summary	Get a contact
//	@Tags		contacts
//	@Produce	json
//	@Param		id	path		string	true	"Contact ID"	format(uuid)
//	@Success	200	{object}	APIResponse[contactapp.ContactResponse]
//	@Failure	404	{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/contacts/{id} [get]
func (h *ContactHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	contact, err := h.contactService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, contact)
}

// Update godoc
// @ID           updateContact
//
//	@Summary	Update a contact
//	@Tags		contacts
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string						true	"Contact ID"	format(uuid)
//	@Param		request	body		contactapp.ContactRequest	true	"Contact"
//	@Success	200		{object}	APIResponse[contactapp.ContactResponse]
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/contacts/{id} [put]
func (h *ContactHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req contactapp.ContactRequest
	if !h.bindJSON(c, &req) {
		return
	}
	contact, err := h.contactService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, contact)
}

// Delete godoc
// @ID           deleteContact
//
//	@Summary	Delete a contact
//	@Tags		contacts
//	@Param		id	path	string	true	"Contact ID"	format(uuid)
//	@Success	204
//	@Failure	404	{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/contacts/{id} [delete]
func (h *ContactHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.contactService.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
