package handler

import (
	"github.com/gin-gonic/gin"
	landscaperapp "github.com/landscape/backend/internal/application/landscaper"
)

// LandscaperHandler proxies the Landscaper assistant
type LandscaperHandler struct {
	BaseHandler
	landscaperService *landscaperapp.LandscaperService
}

// NewLandscaperHandler creates a new LandscaperHandler
func NewLandscaperHandler(landscaperService *landscaperapp.LandscaperService) *LandscaperHandler {
	return &LandscaperHandler{landscaperService: landscaperService}
}

// SendMessage godoc
// @ID           sendLandscaperMessage
//
//	@Summary		Send a message to the Landscaper assistant
//	@Description	Starts a new thread when thread_id is empty
//	@Tags			landscaper
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string								true	"Project ID"	format(uuid)
//	@Param			request	body		landscaperapp.SendMessageRequest	true	"Message"
//	@Success		200		{object}	APIResponse[landscaper.Reply]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		502		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/projects/{id}/landscaper/messages [post]
func (h *LandscaperHandler) SendMessage(c *gin.Context) {
	projectID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req landscaperapp.SendMessageRequest
	if !h.bindJSON(c, &req) {
		return
	}
	reply, err := h.landscaperService.SendMessage(c.Request.Context(), projectID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, reply)
}

// ListMessages godoc
// @ID           listLandscaperMessages
//
//	@Summary	List the messages of a thread
//	@Tags		landscaper
//	@Produce	json
//	@Param		id			path		string	true	"Project ID"	format(uuid)
//	@Param		thread_id	query		string	false	"Thread, defaults to the latest"
//	@Success	200			{object}	APIResponse[landscaperapp.MessagesResponse]
//	@Failure	404			{object}	ErrorResponse
//	@Failure	502			{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/projects/{id}/landscaper/messages [get]
func (h *LandscaperHandler) ListMessages(c *gin.Context) {
	projectID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.landscaperService.ListMessages(c.Request.Context(), projectID, c.Query("thread_id"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListThreads godoc
// @ID           listLandscaperThreads
//
//	@Summary	List a project's assistant threads
//	@Tags		landscaper
//	@Produce	json
//	@Param		id	path		string	true	"Project ID"	format(uuid)
//	@Success	200	{object}	APIResponse[[]landscaper.Thread]
//	@Failure	404	{object}	ErrorResponse
//	@Failure	502	{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/projects/{id}/landscaper/threads [get]
func (h *LandscaperHandler) ListThreads(c *gin.Context) {
	projectID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	threads, err := h.landscaperService.ListThreads(c.Request.Context(), projectID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, threads)
}

// ListProposals godoc
// @ID           listLandscaperProposals
//
//	@Summary	List the assistant's pending proposals for a project
//	@Tags		landscaper
//	@Produce	json
//	@Param		id	path		string	true	"Project ID"	format(uuid)
//	@Success	200	{object}	APIResponse[[]landscaper.Proposal]
//	@Failure	404	{object}	ErrorResponse
//	@Failure	502	{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/projects/{id}/landscaper/proposals [get]
func (h *LandscaperHandler) ListProposals(c *gin.Context) {
	projectID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	proposals, err := h.landscaperService.ListProposals(c.Request.Context(), projectID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, proposals)
}

// ApplyProposal godoc
// @ID           applyLandscaperProposal
//
//	@Summary	Apply a proposal
//	@Tags		landscaper
//	@Produce	json
//	@Param		id	path		string	true	"Proposal ID"
//	@Success	200	{object}	APIResponse[landscaper.Proposal]
//	@Failure	404	{object}	ErrorResponse
//	@Failure	502	{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/landscaper/proposals/{id}/apply [post]
func (h *LandscaperHandler) ApplyProposal(c *gin.Context) {
	proposal, err := h.landscaperService.ApplyProposal(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, proposal)
}

// RejectProposal godoc
// @ID           rejectLandscaperProposal
//
//	@Summary	Reject a proposal
//	@Tags		landscaper
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string								true	"Proposal ID"
//	@Param		request	body		landscaperapp.RejectProposalRequest	false	"Reason"
//	@Success	200		{object}	APIResponse[landscaper.Proposal]
//	@Failure	404		{object}	ErrorResponse
//	@Failure	502		{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/landscaper/proposals/{id}/reject [post]
func (h *LandscaperHandler) RejectProposal(c *gin.Context) {
	var req landscaperapp.RejectProposalRequest
	if c.Request.ContentLength != 0 && !h.bindJSON(c, &req) {
		return
	}
	proposal, err := h.landscaperService.RejectProposal(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, proposal)
}
