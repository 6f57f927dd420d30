package router

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/landscape/backend/internal/interfaces/http/handler"
)

func testHandlers() Handlers {
	return Handlers{
		Project:    &handler.ProjectHandler{},
		Planning:   &handler.PlanningHandler{},
		LandUse:    &handler.LandUseHandler{},
		Budget:     &handler.BudgetHandler{},
		Finance:    &handler.FinanceHandler{},
		Valuation:  &handler.ValuationHandler{},
		Contact:    &handler.ContactHandler{},
		DMS:        &handler.DMSHandler{},
		Inventory:  &handler.InventoryHandler{},
		GIS:        &handler.GISHandler{},
		Landscaper: &handler.LandscaperHandler{},
		System:     &handler.SystemHandler{},
	}
}

func TestDomainGroups_RegistersAPI(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	require.NotPanics(t, func() {
		NewRouter(engine).RegisterGroups(DomainGroups(testHandlers())...).Setup()
	})

	registered := make(map[string]bool)
	for _, r := range engine.Routes() {
		registered[r.Method+" "+r.Path] = true
	}

	for _, want := range []string{
		"GET /api/v1/projects",
		"GET /api/v1/projects/:id/dashboard",
		"PUT /api/v1/projects/:id/boundary",
		"POST /api/v1/projects/:id/parcels/import-gis",
		"GET /api/v1/projects/:id/parcels/landuse-summary",
		"GET /api/v1/landuse/analysis",
		"POST /api/v1/landuse/mappings/create",
		"DELETE /api/v1/landuse/mappings/:code",
		"POST /api/v1/budget/templates/:id/categories",
		"POST /api/v1/projects/:id/budget/apply-template",
		"POST /api/v1/projects/:id/budget/save-as-template",
		"GET /api/v1/projects/:id/budget/export",
		"GET /api/v1/debt-facilities/:id/schedule",
		"GET /api/v1/valuations/:id/evaluate",
		"POST /api/v1/documents/:id/complete",
		"POST /api/v1/inventory/:id/status",
		"GET /api/v1/gis/parcels",
		"POST /api/v1/projects/:id/landscaper/messages",
		"POST /api/v1/landscaper/proposals/:id/reject",
		"GET /api/v1/system/info",
	} {
		assert.True(t, registered[want], "missing route %s", want)
	}
}

func TestDomainGroups_Names(t *testing.T) {
	var names []string
	total := 0
	for _, g := range DomainGroups(testHandlers()) {
		names = append(names, g.Name())
		total += len(g.Routes())
	}

	assert.Equal(t, []string{
		"projects", "planning", "landuse", "budget", "finance", "valuation",
		"contacts", "dms", "inventory", "gis", "landscaper", "system",
	}, names)
	assert.Greater(t, total, 90)
}
