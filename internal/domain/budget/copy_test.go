package budget

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/landscape/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildTemplate returns a four-level template with its rows deliberately
// listed children-first so ordering cannot come from input order.
func buildTemplate(t *testing.T) (uuid.UUID, []TemplateCategory) {
	t.Helper()
	templateID := uuid.New()
	land, err := NewTemplateCategory(templateID, nil, "100", "Land", 1)
	require.NoError(t, err)
	hard, err := NewTemplateCategory(templateID, nil, "200", "Hard Costs", 2)
	require.NoError(t, err)
	site, err := NewTemplateCategory(templateID, hard, "210", "Site Work", 1)
	require.NoError(t, err)
	grading, err := NewTemplateCategory(templateID, site, "211", "Grading", 1)
	require.NoError(t, err)
	rough, err := NewTemplateCategory(templateID, grading, "2111", "Rough Grading", 1)
	require.NoError(t, err)
	acq, err := NewTemplateCategory(templateID, land, "110", "Acquisition", 1)
	require.NoError(t, err)

	return templateID, []TemplateCategory{*rough, *grading, *acq, *site, *hard, *land}
}

func TestPlanTemplateCopy(t *testing.T) {
	projectID := uuid.New()
	templateID, rows := buildTemplate(t)

	copied, err := PlanTemplateCopy(projectID, templateID, rows)
	require.NoError(t, err)

	t.Run("creates exactly one row per template row", func(t *testing.T) {
		assert.Len(t, copied, len(rows))
	})

	t.Run("assigns fresh ids in the project", func(t *testing.T) {
		old := make(map[uuid.UUID]bool)
		for _, r := range rows {
			old[r.ID] = true
		}
		for _, c := range copied {
			assert.False(t, old[c.ID])
			assert.Equal(t, projectID, c.ProjectID)
			require.NotNil(t, c.SourceTemplateID)
			assert.Equal(t, templateID, *c.SourceTemplateID)
		}
	})

	t.Run("parents precede children", func(t *testing.T) {
		seen := make(map[uuid.UUID]bool)
		for _, c := range copied {
			if c.ParentID != nil {
				assert.True(t, seen[*c.ParentID], "parent of %s inserted later", c.Code)
			}
			seen[c.ID] = true
		}
	})

	t.Run("preserves parent relationships by code", func(t *testing.T) {
		srcParent := make(map[string]string)
		srcByID := make(map[uuid.UUID]TemplateCategory)
		for _, r := range rows {
			srcByID[r.ID] = r
		}
		for _, r := range rows {
			if r.ParentID != nil {
				srcParent[r.Code] = srcByID[*r.ParentID].Code
			}
		}

		byID := make(map[uuid.UUID]*Category)
		for _, c := range copied {
			byID[c.ID] = c
		}
		for _, c := range copied {
			if c.ParentID == nil {
				assert.Equal(t, 1, c.Level)
				_, hadParent := srcParent[c.Code]
				assert.False(t, hadParent)
				continue
			}
			parent := byID[*c.ParentID]
			require.NotNil(t, parent)
			assert.Equal(t, srcParent[c.Code], parent.Code)
			assert.Equal(t, parent.Level+1, c.Level)
		}
	})

	t.Run("empty template copies nothing", func(t *testing.T) {
		out, err := PlanTemplateCopy(projectID, templateID, nil)
		require.NoError(t, err)
		assert.Empty(t, out)
	})
}

func TestPlanTemplateCopy_InvalidTrees(t *testing.T) {
	projectID := uuid.New()
	templateID := uuid.New()
	root := TemplateCategory{BaseEntity: shared.NewBaseEntity(), TemplateID: templateID, Level: 1, Code: "1", Name: "Root"}

	t.Run("orphan child", func(t *testing.T) {
		missing := uuid.New()
		child := TemplateCategory{BaseEntity: shared.NewBaseEntity(), TemplateID: templateID, Level: 2, ParentID: &missing, Code: "2", Name: "Child"}
		_, err := PlanTemplateCopy(projectID, templateID, []TemplateCategory{root, child})
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrInvalidInput))
	})

	t.Run("level skip", func(t *testing.T) {
		child := TemplateCategory{BaseEntity: shared.NewBaseEntity(), TemplateID: templateID, Level: 3, ParentID: &root.ID, Code: "3", Name: "Skip"}
		_, err := PlanTemplateCopy(projectID, templateID, []TemplateCategory{root, child})
		assert.ErrorContains(t, err, "must have a parent at level 2")
	})

	t.Run("level out of range", func(t *testing.T) {
		bad := root
		bad.Level = 5
		_, err := PlanTemplateCopy(projectID, templateID, []TemplateCategory{bad})
		assert.ErrorContains(t, err, "expected 1..4")
	})

	t.Run("root with parent", func(t *testing.T) {
		other := uuid.New()
		bad := root
		bad.ParentID = &other
		_, err := PlanTemplateCopy(projectID, templateID, []TemplateCategory{bad})
		assert.ErrorContains(t, err, "cannot have a parent")
	})
}

func TestPlanTemplateFromProject(t *testing.T) {
	projectID := uuid.New()
	templateID, rows := buildTemplate(t)
	copied, err := PlanTemplateCopy(projectID, templateID, rows)
	require.NoError(t, err)

	cats := make([]Category, len(copied))
	for i, c := range copied {
		cats[len(copied)-1-i] = *c
	}

	newTemplate := uuid.New()
	back, err := PlanTemplateFromProject(newTemplate, cats)
	require.NoError(t, err)
	assert.Len(t, back, len(rows))

	levels := map[int]int{}
	for _, r := range back {
		assert.Equal(t, newTemplate, r.TemplateID)
		levels[r.Level]++
	}
	assert.Equal(t, map[int]int{1: 2, 2: 2, 3: 1, 4: 1}, levels)
}

func TestNewTemplateCategory(t *testing.T) {
	templateID := uuid.New()
	parent, err := NewTemplateCategory(templateID, nil, "1", "L1", 0)
	require.NoError(t, err)

	for i := 2; i <= MaxLevel; i++ {
		parent, err = NewTemplateCategory(templateID, parent, "x", "child", 0)
		require.NoError(t, err)
		assert.Equal(t, i, parent.Level)
	}

	_, err = NewTemplateCategory(templateID, parent, "5", "too deep", 0)
	assert.ErrorContains(t, err, "deeper than 4")

	_, err = NewTemplateCategory(uuid.New(), parent, "x", "other template", 0)
	assert.ErrorContains(t, err, "different template")
}
