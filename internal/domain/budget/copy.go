package budget

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/landscape/backend/internal/domain/shared"
)

// treeRow exposes the fields the level-ordered copy needs from a source row.
type treeRow struct {
	id       uuid.UUID
	parentID *uuid.UUID
	level    int
}

// copyByLevel copies rows level by level in ascending order. Each copied
// row's new id is recorded in an old→new map as it is produced, so a child
// resolves its new parent from the map. Since every parent sits exactly one
// level above its children, a parent is always produced before any child.
func copyByLevel[S any, D any](
	rows []S,
	describe func(S) treeRow,
	build func(src S, newParentID *uuid.UUID) D,
	newID func(D) uuid.UUID,
) ([]D, error) {
	byLevel := make(map[int][]S, MaxLevel)
	levelOf := make(map[uuid.UUID]int, len(rows))
	for _, r := range rows {
		d := describe(r)
		if d.level < 1 || d.level > MaxLevel {
			return nil, shared.NewInvalidInputError("category %s has level %d, expected 1..%d", d.id, d.level, MaxLevel)
		}
		if _, dup := levelOf[d.id]; dup {
			return nil, shared.NewInvalidInputError("category %s appears twice", d.id)
		}
		levelOf[d.id] = d.level
		byLevel[d.level] = append(byLevel[d.level], r)
	}

	idMap := make(map[uuid.UUID]uuid.UUID, len(rows))
	out := make([]D, 0, len(rows))
	for level := 1; level <= MaxLevel; level++ {
		for _, r := range byLevel[level] {
			d := describe(r)
			var newParent *uuid.UUID
			switch {
			case level == 1 && d.parentID != nil:
				return nil, shared.NewInvalidInputError("level 1 category %s cannot have a parent", d.id)
			case level > 1 && d.parentID == nil:
				return nil, shared.NewInvalidInputError("level %d category %s has no parent", level, d.id)
			case level > 1:
				if levelOf[*d.parentID] != level-1 {
					return nil, shared.NewInvalidInputError(
						"category %s at level %d must have a parent at level %d", d.id, level, level-1)
				}
				mapped, ok := idMap[*d.parentID]
				if !ok {
					return nil, fmt.Errorf("parent %s of category %s was not copied", *d.parentID, d.id)
				}
				newParent = &mapped
			}
			copied := build(r, newParent)
			idMap[d.id] = newID(copied)
			out = append(out, copied)
		}
	}
	return out, nil
}

// PlanTemplateCopy turns a template's rows into new project categories,
// parents before children, with parent ids remapped to the new rows.
func PlanTemplateCopy(projectID, templateID uuid.UUID, rows []TemplateCategory) ([]*Category, error) {
	tid := templateID
	return copyByLevel(rows,
		func(r TemplateCategory) treeRow {
			return treeRow{id: r.ID, parentID: r.ParentID, level: r.Level}
		},
		func(r TemplateCategory, parentID *uuid.UUID) *Category {
			return &Category{
				BaseAggregateRoot: shared.NewBaseAggregateRoot(),
				ProjectID:         projectID,
				Level:             r.Level,
				ParentID:          parentID,
				Code:              r.Code,
				Name:              r.Name,
				SortOrder:         r.SortOrder,
				SourceTemplateID:  &tid,
			}
		},
		func(c *Category) uuid.UUID { return c.ID },
	)
}

// PlanTemplateFromProject is the reverse copy: a project's category tree
// becomes the rows of a new template.
func PlanTemplateFromProject(templateID uuid.UUID, categories []Category) ([]*TemplateCategory, error) {
	return copyByLevel(categories,
		func(c Category) treeRow {
			return treeRow{id: c.ID, parentID: c.ParentID, level: c.Level}
		},
		func(c Category, parentID *uuid.UUID) *TemplateCategory {
			return &TemplateCategory{
				BaseEntity: shared.NewBaseEntity(),
				TemplateID: templateID,
				Level:      c.Level,
				ParentID:   parentID,
				Code:       c.Code,
				Name:       c.Name,
				SortOrder:  c.SortOrder,
			}
		},
		func(t *TemplateCategory) uuid.UUID { return t.ID },
	)
}
