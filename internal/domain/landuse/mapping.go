package landuse

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/landscape/backend/internal/domain/shared"
	"golang.org/x/text/cases"
)

// CodeMapping records that a legacy parcel code means a taxonomy entry.
type CodeMapping struct {
	shared.BaseEntity
	LegacyCode string    `gorm:"type:varchar(100);not null;uniqueIndex"`
	TaxonomyID uuid.UUID `gorm:"type:uuid;not null;index"`
}

// TableName returns the table name for GORM
func (CodeMapping) TableName() string {
	return "landuse_code_mappings"
}

// NewCodeMapping creates a mapping. The legacy code is kept byte for byte so
// it equals the parcel values it was read from.
func NewCodeMapping(legacyCode string, taxonomyID uuid.UUID) (*CodeMapping, error) {
	if strings.TrimSpace(legacyCode) == "" {
		return nil, shared.NewInvalidInputError("legacy code cannot be empty")
	}
	return &CodeMapping{
		BaseEntity: shared.NewBaseEntity(),
		LegacyCode: legacyCode,
		TaxonomyID: taxonomyID,
	}, nil
}

// CodeCount is a distinct legacy code with the number of parcels using it
type CodeCount struct {
	Code        string
	ParcelCount int64
}

// MatchedCode is a legacy code that resolves to a taxonomy entry
type MatchedCode struct {
	Code        string
	ParcelCount int64
	TaxonomyID  uuid.UUID
	ViaMapping  bool
}

// UnmatchedCode is a legacy code with no exact taxonomy match. Suggestion is a
// case-insensitive look-alike offered to the operator; it is never applied.
type UnmatchedCode struct {
	Code        string
	ParcelCount int64
	Suggestion  *Taxonomy
}

// Analysis is the outcome of reconciling legacy codes with the taxonomy
type Analysis struct {
	Matched         []MatchedCode
	Unmatched       []UnmatchedCode
	TotalParcels    int64
	UnmatchedParcel int64
}

// Analyze matches each legacy code by exact string equality against taxonomy
// codes first and recorded mappings second. Unmatched codes are ordered by
// descending parcel count, then code.
func Analyze(codes []CodeCount, taxonomy []Taxonomy, mappings []CodeMapping) Analysis {
	// Casers are stateful and must not be shared across goroutines.
	folder := cases.Fold()
	byCode := make(map[string]*Taxonomy, len(taxonomy))
	folded := make(map[string]*Taxonomy, len(taxonomy))
	for i := range taxonomy {
		t := &taxonomy[i]
		byCode[t.Code] = t
		key := foldCode(folder, t.Code)
		if _, ok := folded[key]; !ok {
			folded[key] = t
		}
	}
	byMapping := make(map[string]uuid.UUID, len(mappings))
	for _, m := range mappings {
		byMapping[m.LegacyCode] = m.TaxonomyID
	}

	var a Analysis
	for _, c := range codes {
		if c.Code == "" {
			continue
		}
		a.TotalParcels += c.ParcelCount
		if t, ok := byCode[c.Code]; ok {
			a.Matched = append(a.Matched, MatchedCode{Code: c.Code, ParcelCount: c.ParcelCount, TaxonomyID: t.ID})
			continue
		}
		if id, ok := byMapping[c.Code]; ok {
			a.Matched = append(a.Matched, MatchedCode{Code: c.Code, ParcelCount: c.ParcelCount, TaxonomyID: id, ViaMapping: true})
			continue
		}
		a.UnmatchedParcel += c.ParcelCount
		a.Unmatched = append(a.Unmatched, UnmatchedCode{
			Code:        c.Code,
			ParcelCount: c.ParcelCount,
			Suggestion:  folded[foldCode(folder, c.Code)],
		})
	}

	sort.SliceStable(a.Matched, func(i, j int) bool { return a.Matched[i].Code < a.Matched[j].Code })
	sort.SliceStable(a.Unmatched, func(i, j int) bool {
		if a.Unmatched[i].ParcelCount != a.Unmatched[j].ParcelCount {
			return a.Unmatched[i].ParcelCount > a.Unmatched[j].ParcelCount
		}
		return a.Unmatched[i].Code < a.Unmatched[j].Code
	})
	return a
}

// foldCode collapses case and inner whitespace for suggestions only
func foldCode(folder cases.Caser, code string) string {
	return folder.String(strings.Join(strings.Fields(code), " "))
}
