package persistence

import (
	"strings"

	"github.com/landscape/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	if strings.ToUpper(strings.TrimSpace(orderDir)) == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed != "" && allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

func sortFields(extra ...string) map[string]bool {
	m := map[string]bool{"id": true, "created_at": true, "updated_at": true}
	for _, f := range extra {
		m[f] = true
	}
	return m
}

// Allowed sort fields per listing
var (
	ProjectSortFields   = sortFields("name", "status", "project_type", "state", "total_acres", "start_date")
	ParcelSortFields    = sortFields("name", "apn", "acres", "units", "landuse_code", "status")
	TaxonomySortFields  = sortFields("code", "name", "family")
	TemplateSortFields  = sortFields("name", "project_type")
	ItemSortFields      = sortFields("description", "amount", "quantity", "unit_cost")
	ContactSortFields   = sortFields("name", "company", "role", "email")
	DocumentSortFields  = sortFields("file_name", "status", "size_bytes", "uploaded_at")
	InventorySortFields = sortFields("unit_number", "product_type", "status", "list_price", "square_feet", "closed_at")
)

// paginate applies a validated ORDER BY plus LIMIT/OFFSET
func paginate(query *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultField string) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, allowed, defaultField)
	query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}

// likePattern builds a case-insensitive LIKE argument
func likePattern(search string) string {
	return "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
}
