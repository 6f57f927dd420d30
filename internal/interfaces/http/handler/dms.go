package handler

import (
	"github.com/gin-gonic/gin"
	dmsapp "github.com/landscape/backend/internal/application/dms"
)

// DMSHandler handles document attributes, document templates and documents
type DMSHandler struct {
	BaseHandler
	attributeService *dmsapp.AttributeService
	templateService  *dmsapp.DocTemplateService
	documentService  *dmsapp.DocumentService
}

// NewDMSHandler creates a new DMSHandler
func NewDMSHandler(attributes *dmsapp.AttributeService, templates *dmsapp.DocTemplateService, documents *dmsapp.DocumentService) *DMSHandler {
	return &DMSHandler{
		attributeService: attributes,
		templateService:  templates,
		documentService:  documents,
	}
}

// ListAttributes godoc
// @ID           listDocumentAttributes
//
//	@Summary	List attribute definitions
//	@Tags		dms
//	@Produce	json
//	@Success	200	{object}	APIResponse[[]dmsapp.AttributeResponse]
//	@Security	BearerAuth
//	@Router		/dms/attributes [get]
func (h *DMSHandler) ListAttributes(c *gin.Context) {
	attrs, err := h.attributeService.List(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, attrs)
}

// CreateAttribute godoc
// @ID           createDocumentAttribute
//
//	@Summary	Create an attribute definition
//	@Tags		dms
//	@Accept		json
//	@Produce	json
//	@Param		request	body		dmsapp.AttributeRequest	true	"Attribute"
//	@Success	201		{object}	APIResponse[dmsapp.AttributeResponse]
//	@Failure	400		{object}	ErrorResponse
//	@Failure	409		{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/dms/attributes [post]
func (h *DMSHandler) CreateAttribute(c *gin.Context) {
	var req dmsapp.AttributeRequest
	if !h.bindJSON(c, &req) {
		return
	}
	attr, err := h.attributeService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, attr)
}

// UpdateAttribute godoc
// @ID           updateDocumentAttribute
//
//	@Summary	Update an attribute definition
//	@Tags		dms
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string					true	"Attribute ID"	format(uuid)
//	@Param		request	body		dmsapp.AttributeRequest	true	"Attribute"
//	@Success	200		{object}	APIResponse[dmsapp.AttributeResponse]
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Failure	409		{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/dms/attributes/{id} [put]
func (h *DMSHandler) UpdateAttribute(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req dmsapp.AttributeRequest
	if !h.bindJSON(c, &req) {
		return
	}
	attr, err := h.attributeService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, attr)
}

// DeleteAttribute godoc
// @ID           deleteDocumentAttribute
//
//	@Summary	Delete an attribute definition
//	@Tags		dms
//	@Param		id	path	string	true	"Attribute ID"	format(uuid)
//	@Success	204
//	@Failure	404	{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/dms/attributes/{id} [delete]
func (h *DMSHandler) DeleteAttribute(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.attributeService.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// ListTemplates godoc
// @ID           listDocumentTemplates
//
//	@Summary	List document templates
//	@Tags		dms
//	@Produce	json
//	@Param		search		query		string	false	"Name"
//	@Param		doc_type	query		string	false	"Document type"
//	@Success	200			{object}	APIResponse[[]dmsapp.TemplateResponse]
//	@Security	BearerAuth
//	@Router		/dms/templates [get]
func (h *DMSHandler) ListTemplates(c *gin.Context) {
	var filter dmsapp.TemplateListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	templates, err := h.templateService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, templates)
}

// CreateTemplate godoc
// @ID           createDocumentTemplate
//
//	@Summary	Create a document template
//	@Tags		dms
//	@Accept		json
//	@Produce	json
//	@Param		request	body		dmsapp.TemplateRequest	true	"Template"
//	@Success	201		{object}	APIResponse[dmsapp.TemplateResponse]
//	@Failure	400		{object}	ErrorResponse
//	@Failure	409		{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/dms/templates [post]
func (h *DMSHandler) CreateTemplate(c *gin.Context) {
	var req dmsapp.TemplateRequest
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

// GetTemplate godoc
// @ID           getDocumentTemplate
//
//	@Summary	Get a document template with its attributes
//	@Tags		dms
//	@Produce	json
//	@Param		id	path		string	true	"Template ID"	format(uuid)
//	@Success	200	{object}	APIResponse[dmsapp.TemplateResponse]
//	@Failure	404	{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/dms/templates/{id} [get]
func (h *DMSHandler) GetTemplate(c *gin.Context) {
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
// @ID           updateDocumentTemplate
//
//	@Summary	Update a document template
//	@Tags		dms
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string					true	"Template ID"	format(uuid)
//	@Param		request	body		dmsapp.TemplateRequest	true	"Template"
//	@Success	200		{object}	APIResponse[dmsapp.TemplateResponse]
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Failure	409		{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/dms/templates/{id} [put]
func (h *DMSHandler) UpdateTemplate(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req dmsapp.TemplateRequest
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
// @ID           deleteDocumentTemplate
//
//	@Summary	Delete a document template
//	@Tags		dms
//	@Param		id	path	string	true	"Template ID"	format(uuid)
//	@Success	204
//	@Failure	404	{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/dms/templates/{id} [delete]
func (h *DMSHandler) DeleteTemplate(c *gin.Context) {
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

// ListDocuments godoc
// @ID           listDocuments
//
//	@Summary	List a project's documents
//	@Tags		dms
//	@Produce	json
//	@Param		id			path		string	true	"Project ID"	format(uuid)
//	@Param		status		query		string	false	"Status"	Enums(pending, uploaded, extracted)
//	@Param		template_id	query		string	false	"Template"	format(uuid)
//	@Param		search		query		string	false	"File name"
//	@Param		page		query		int		false	"Page"
//	@Param		page_size	query		int		false	"Page size"
//	@Success	200			{object}	APIResponse[[]dmsapp.DocumentResponse]
//	@Failure	400			{object}	ErrorResponse
//	@Failure	404			{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/projects/{id}/documents [get]
func (h *DMSHandler) ListDocuments(c *gin.Context) {
	projectID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var filter dmsapp.DocumentListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	if filter.TemplateID, ok = h.queryUUID(c, "template_id"); !ok {
		return
	}
	page, err := h.documentService.List(c.Request.Context(), projectID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	successPage(&h.BaseHandler, c, page)
}

// RequestUpload godoc
// @ID           requestDocumentUpload
//
//	@Summary		Register a document and get an upload URL
//	@Description	Creates a pending document; PUT the file to the returned URL, then call complete
//	@Tags			dms
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Project ID"	format(uuid)
//	@Param			request	body		dmsapp.UploadRequest	true	"File"
//	@Success		201		{object}	APIResponse[dmsapp.UploadResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/projects/{id}/documents [post]
func (h *DMSHandler) RequestUpload(c *gin.Context) {
	projectID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req dmsapp.UploadRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.documentService.RequestUpload(c.Request.Context(), projectID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetDocument godoc
// @ID           getDocument
//
//	@Summary	Get a document
//	@Tags		dms
//	@Produce	json
//	@Param		id	path		string	true	"Document ID"	format(uuid)
//	@Success	200	{object}	APIResponse[dmsapp.DocumentResponse]
//	@Failure	404	{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/documents/{id} [get]
func (h *DMSHandler) GetDocument(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	doc, err := h.documentService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, doc)
}

// CompleteUpload godoc
// @ID           completeDocumentUpload
//
//	@Summary	Mark a document as uploaded
//	@Tags		dms
//	@Produce	json
//	@Param		id	path		string	true	"Document ID"	format(uuid)
//	@Success	200	{object}	APIResponse[dmsapp.DocumentResponse]
//	@Failure	404	{object}	ErrorResponse
//	@Failure	422	{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/documents/{id}/complete [post]
func (h *DMSHandler) CompleteUpload(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	doc, err := h.documentService.CompleteUpload(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, doc)
}

// Download godoc
// @ID           downloadDocument
//
//	@Summary	Get a download URL for a document
//	@Tags		dms
//	@Produce	json
//	@Param		id	path		string	true	"Document ID"	format(uuid)
//	@Success	200	{object}	APIResponse[dmsapp.PresignedURL]
//	@Failure	404	{object}	ErrorResponse
//	@Failure	422	{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/documents/{id}/download [get]
func (h *DMSHandler) Download(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	url, err := h.documentService.DownloadURL(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, url)
}

// SetAttributes godoc
// @ID           setDocumentAttributes
//
//	@Summary		Replace a document's attribute values
//	@Description	Values are checked against the document template's attribute definitions
//	@Tags			dms
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Document ID"	format(uuid)
//	@Param			request	body		dmsapp.SetAttributesRequest	true	"Attributes"
//	@Success		200		{object}	APIResponse[dmsapp.DocumentResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/documents/{id}/attributes [put]
func (h *DMSHandler) SetAttributes(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req dmsapp.SetAttributesRequest
	if !h.bindJSON(c, &req) {
		return
	}
	doc, err := h.documentService.SetAttributes(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, doc)
}

// Extract godoc
// @ID           extractDocument
//
//	@Summary	Extract attribute values with Landscaper
//	@Tags		dms
//	@Produce	json
//	@Param		id	path		string	true	"Document ID"	format(uuid)
//	@Success	200	{object}	APIResponse[dmsapp.ExtractionResponse]
//	@Failure	404	{object}	ErrorResponse
//	@Failure	422	{object}	ErrorResponse
//	@Failure	502	{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/documents/{id}/extract [post]
func (h *DMSHandler) Extract(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.documentService.Extract(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeleteDocument godoc
// @ID           deleteDocument
//
//	@Summary	Delete a document and its stored file
//	@Tags		dms
//	@Param		id	path	string	true	"Document ID"	format(uuid)
//	@Success	204
//	@Failure	404	{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/documents/{id} [delete]
func (h *DMSHandler) DeleteDocument(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.documentService.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
