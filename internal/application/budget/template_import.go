package budget

import (
	"context"
	"fmt"
	"io"

	"github.com/landscape/backend/internal/domain/budget"
	"github.com/landscape/backend/internal/domain/shared"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// TemplateFile is the YAML form of a budget template:
//
//	name: Master Planned Community
//	project_type: master_planned
//	categories:
//	  - code: "100"
//	    name: Land Acquisition
//	    children:
//	      - code: "110"
//	        name: Purchase Price
type TemplateFile struct {
	Name        string             `yaml:"name"`
	Description string             `yaml:"description"`
	ProjectType string             `yaml:"project_type"`
	Categories  []TemplateFileNode `yaml:"categories"`
}

// TemplateFileNode is one category of a TemplateFile
type TemplateFileNode struct {
	Code      string             `yaml:"code"`
	Name      string             `yaml:"name"`
	SortOrder *int               `yaml:"sort_order"`
	Children  []TemplateFileNode `yaml:"children"`
}

// ParseTemplateYAML decodes a template file, rejecting unknown keys
func ParseTemplateYAML(r io.Reader) (*TemplateFile, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var f TemplateFile
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return nil, shared.NewInvalidInputError("template file is empty")
		}
		return nil, shared.NewInvalidInputError("invalid template file: %v", err)
	}
	if len(f.Categories) == 0 {
		return nil, shared.NewInvalidInputError("template file has no categories")
	}
	return &f, nil
}

// ImportTemplate creates a template and its rows from a parsed file in one transaction
func (s *TemplateService) ImportTemplate(ctx context.Context, f *TemplateFile) (*TemplateResponse, error) {
	if err := s.ensureNameFree(ctx, f.Name); err != nil {
		return nil, err
	}
	t, err := budget.NewTemplate(f.Name, f.Description, f.ProjectType)
	if err != nil {
		return nil, err
	}
	var rows []*budget.TemplateCategory
	if err := appendFileNodes(&rows, t, nil, f.Categories); err != nil {
		return nil, err
	}
	if err := s.templateRepo.CreateWithCategories(ctx, t, rows); err != nil {
		return nil, err
	}

	s.logger.Info("Imported budget template",
		zap.String("template", t.Name),
		zap.Int("categories", len(rows)),
	)
	resp := ToTemplateResponse(t, derefRows(rows))
	return &resp, nil
}

// appendFileNodes walks depth first, so every parent is appended before its children.
func appendFileNodes(rows *[]*budget.TemplateCategory, t *budget.Template, parent *budget.TemplateCategory, nodes []TemplateFileNode) error {
	for i, n := range nodes {
		sortOrder := (i + 1) * 10
		if n.SortOrder != nil {
			sortOrder = *n.SortOrder
		}
		row, err := budget.NewTemplateCategory(t.ID, parent, n.Code, n.Name, sortOrder)
		if err != nil {
			return fmt.Errorf("category %q: %w", n.Code, err)
		}
		*rows = append(*rows, row)
		if err := appendFileNodes(rows, t, row, n.Children); err != nil {
			return err
		}
	}
	return nil
}
