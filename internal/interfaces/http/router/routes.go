package router

import (
	"github.com/landscape/backend/internal/interfaces/http/handler"
)

// Handlers are the HTTP handlers served under the versioned API
type Handlers struct {
	Project    *handler.ProjectHandler
	Planning   *handler.PlanningHandler
	LandUse    *handler.LandUseHandler
	Budget     *handler.BudgetHandler
	Finance    *handler.FinanceHandler
	Valuation  *handler.ValuationHandler
	Contact    *handler.ContactHandler
	DMS        *handler.DMSHandler
	Inventory  *handler.InventoryHandler
	GIS        *handler.GISHandler
	Landscaper *handler.LandscaperHandler
	System     *handler.SystemHandler
}

// DomainGroups builds one route group per bounded context
func DomainGroups(h Handlers) []*DomainGroup {
	projects := NewDomainGroup("projects", "/projects").
		GET("", h.Project.List).
		POST("", h.Project.Create).
		GET("/:id", h.Project.GetByID).
		PUT("/:id", h.Project.Update).
		DELETE("/:id", h.Project.Delete).
		GET("/:id/boundary", h.Project.GetBoundary).
		PUT("/:id/boundary", h.Project.SaveBoundary).
		GET("/:id/dashboard", h.Project.Dashboard)

	planning := NewDomainGroup("planning", "").
		GET("/projects/:id/areas", h.Planning.ListAreas).
		POST("/projects/:id/areas", h.Planning.CreateArea).
		PUT("/areas/:id", h.Planning.UpdateArea).
		DELETE("/areas/:id", h.Planning.DeleteArea).
		GET("/projects/:id/phases", h.Planning.ListPhases).
		POST("/projects/:id/phases", h.Planning.CreatePhase).
		PUT("/phases/:id", h.Planning.UpdatePhase).
		DELETE("/phases/:id", h.Planning.DeletePhase).
		GET("/projects/:id/parcels", h.Planning.ListParcels).
		POST("/projects/:id/parcels", h.Planning.CreateParcel).
		GET("/projects/:id/parcels/landuse-summary", h.Planning.LandUseSummary).
		POST("/projects/:id/parcels/import-gis", h.Planning.ImportParcels).
		GET("/parcels/:id", h.Planning.GetParcel).
		PUT("/parcels/:id", h.Planning.UpdateParcel).
		DELETE("/parcels/:id", h.Planning.DeleteParcel)

	landuse := NewDomainGroup("landuse", "/landuse")
	landuse.Group("taxonomy", "/taxonomy").
		GET("", h.LandUse.ListTaxonomy).
		POST("", h.LandUse.CreateTaxonomy).
		GET("/:id", h.LandUse.GetTaxonomy).
		PUT("/:id", h.LandUse.UpdateTaxonomy).
		DELETE("/:id", h.LandUse.DeleteTaxonomy)
	landuse.GET("/analysis", h.LandUse.Analyze)
	landuse.Group("mappings", "/mappings").
		GET("", h.LandUse.ListMappings).
		POST("", h.LandUse.MapCode).
		POST("/create", h.LandUse.CreateAndMap).
		DELETE("/:code", h.LandUse.Unmap)

	budget := NewDomainGroup("budget", "")
	budget.Group("templates", "/budget/templates").
		GET("", h.Budget.ListTemplates).
		POST("", h.Budget.CreateTemplate).
		GET("/:id", h.Budget.GetTemplate).
		PUT("/:id", h.Budget.UpdateTemplate).
		DELETE("/:id", h.Budget.DeleteTemplate).
		POST("/:id/categories", h.Budget.AddTemplateCategory)
	budget.Group("project-budget", "/projects/:id/budget").
		POST("/apply-template", h.Budget.ApplyTemplate).
		POST("/save-as-template", h.Budget.SaveAsTemplate).
		GET("/categories", h.Budget.ListCategories).
		POST("/categories", h.Budget.CreateCategory).
		GET("/items", h.Budget.ListItems).
		POST("/items", h.Budget.CreateItem).
		GET("/summary", h.Budget.Summary).
		GET("/export", h.Budget.Export)
	budget.
		PUT("/budget/categories/:id", h.Budget.UpdateCategory).
		DELETE("/budget/categories/:id", h.Budget.DeleteCategory).
		PUT("/budget/items/:id", h.Budget.UpdateItem).
		DELETE("/budget/items/:id", h.Budget.DeleteItem)

	finance := NewDomainGroup("finance", "").
		GET("/projects/:id/debt-facilities", h.Finance.List).
		POST("/projects/:id/debt-facilities", h.Finance.Create).
		GET("/debt-facilities/:id", h.Finance.GetByID).
		PUT("/debt-facilities/:id", h.Finance.Update).
		DELETE("/debt-facilities/:id", h.Finance.Delete).
		GET("/debt-facilities/:id/schedule", h.Finance.Schedule)

	valuation := NewDomainGroup("valuation", "").
		GET("/projects/:id/valuations", h.Valuation.List).
		POST("/projects/:id/valuations", h.Valuation.Create).
		GET("/valuations/:id", h.Valuation.GetByID).
		PUT("/valuations/:id", h.Valuation.Update).
		DELETE("/valuations/:id", h.Valuation.Delete).
		GET("/valuations/:id/evaluate", h.Valuation.Evaluate)

	contacts := NewDomainGroup("contacts", "/contacts").
		GET("", h.Contact.List).
		POST("", h.Contact.Create).
		GET("/:id", h.Contact.GetByID).
		PUT("/:id", h.Contact.Update).
		DELETE("/:id", h.Contact.Delete)

	dms := NewDomainGroup("dms", "")
	dms.Group("attributes", "/dms/attributes").
		GET("", h.DMS.ListAttributes).
		POST("", h.DMS.CreateAttribute).
		PUT("/:id", h.DMS.UpdateAttribute).
		DELETE("/:id", h.DMS.DeleteAttribute)
	dms.Group("templates", "/dms/templates").
		GET("", h.DMS.ListTemplates).
		POST("", h.DMS.CreateTemplate).
		GET("/:id", h.DMS.GetTemplate).
		PUT("/:id", h.DMS.UpdateTemplate).
		DELETE("/:id", h.DMS.DeleteTemplate)
	dms.
		GET("/projects/:id/documents", h.DMS.ListDocuments).
		POST("/projects/:id/documents", h.DMS.RequestUpload).
		GET("/documents/:id", h.DMS.GetDocument).
		DELETE("/documents/:id", h.DMS.DeleteDocument).
		POST("/documents/:id/complete", h.DMS.CompleteUpload).
		GET("/documents/:id/download", h.DMS.Download).
		PUT("/documents/:id/attributes", h.DMS.SetAttributes).
		POST("/documents/:id/extract", h.DMS.Extract)

	inventory := NewDomainGroup("inventory", "").
		GET("/projects/:id/inventory", h.Inventory.List).
		POST("/projects/:id/inventory", h.Inventory.Create).
		GET("/projects/:id/inventory/summary", h.Inventory.Summary).
		GET("/inventory/:id", h.Inventory.GetByID).
		PUT("/inventory/:id", h.Inventory.Update).
		DELETE("/inventory/:id", h.Inventory.Delete).
		POST("/inventory/:id/status", h.Inventory.ChangeStatus)

	gis := NewDomainGroup("gis", "/gis").
		GET("/parcels", h.GIS.FetchParcels)

	landscaper := NewDomainGroup("landscaper", "").
		GET("/projects/:id/landscaper/messages", h.Landscaper.ListMessages).
		POST("/projects/:id/landscaper/messages", h.Landscaper.SendMessage).
		GET("/projects/:id/landscaper/threads", h.Landscaper.ListThreads).
		GET("/projects/:id/landscaper/proposals", h.Landscaper.ListProposals).
		POST("/landscaper/proposals/:id/apply", h.Landscaper.ApplyProposal).
		POST("/landscaper/proposals/:id/reject", h.Landscaper.RejectProposal)

	system := NewDomainGroup("system", "/system").
		GET("/info", h.System.GetSystemInfo)

	return []*DomainGroup{
		projects, planning, landuse, budget, finance, valuation,
		contacts, dms, inventory, gis, landscaper, system,
	}
}
