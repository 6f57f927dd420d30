package project

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/landscape/backend/internal/domain/gis"
	"github.com/landscape/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProject(t *testing.T) {
	t.Run("creates project in planning", func(t *testing.T) {
		p, err := NewProject("  Sunset Ranch ", ProjectTypeMasterPlanned)
		require.NoError(t, err)
		assert.Equal(t, "Sunset Ranch", p.Name)
		assert.Equal(t, StatusPlanning, p.Status)
		assert.Equal(t, 1, p.Version)
		assert.NotEqual(t, uuid.Nil, p.ID)
		assert.True(t, p.TotalAcres.IsZero())
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewProject(" ", ProjectTypeSubdivision)
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrInvalidInput))
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		_, err := NewProject("X", ProjectType("castle"))
		assert.ErrorContains(t, err, "unknown project type")
	})
}

func TestProject_ChangeStatus(t *testing.T) {
	p, err := NewProject("Mesa Vista", ProjectTypeSubdivision)
	require.NoError(t, err)

	require.NoError(t, p.ChangeStatus(StatusArchived))
	err = p.ChangeStatus(StatusActive)
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrInvalidState))

	require.NoError(t, p.ChangeStatus(StatusPlanning))
	assert.Equal(t, StatusPlanning, p.Status)
}

func TestProject_SetLocation(t *testing.T) {
	p, err := NewProject("Mesa Vista", ProjectTypeSubdivision)
	require.NoError(t, err)

	require.NoError(t, p.SetLocation("Mesa", "Maricopa", "az"))
	assert.Equal(t, "AZ", p.State)
	assert.Error(t, p.SetLocation("Mesa", "Maricopa", "Arizona"))
}

func TestNewBoundary(t *testing.T) {
	projectID := uuid.New()
	ring := []gis.Position{{-111.9, 33.4}, {-111.89, 33.4}, {-111.89, 33.41}, {-111.9, 33.41}, {-111.9, 33.4}}
	geom, err := gis.NewPolygon([][]gis.Position{ring})
	require.NoError(t, err)

	t.Run("computes acreage", func(t *testing.T) {
		b, err := NewBoundary(projectID, BoundarySourceDrawn, geom)
		require.NoError(t, err)
		assert.Equal(t, projectID, b.ProjectID)
		// 0.01 x 0.01 degrees at 33.4N is roughly 256 acres
		assert.InDelta(t, 255.6, b.Acres.InexactFloat64(), 1)
	})

	t.Run("rejects bad source", func(t *testing.T) {
		_, err := NewBoundary(projectID, BoundarySource("fax"), geom)
		assert.Error(t, err)
	})

	t.Run("rejects invalid geometry", func(t *testing.T) {
		bad, err := gis.NewPolygon([][]gis.Position{ring[:3]})
		require.NoError(t, err)
		_, err = NewBoundary(projectID, BoundarySourceDrawn, bad)
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrInvalidInput))
	})
}
