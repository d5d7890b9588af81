package catalog

import (
	"errors"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

func TestDefaultLoads(t *testing.T) {
	c, err := Default(testNow)
	require.NoError(t, err)

	assert.Len(t, c.Regions, 6)
	assert.NotEmpty(t, c.MentalModels)
	assert.NotEmpty(t, c.Scenarios)
	assert.NotEmpty(t, c.Plans)
	assert.NotEmpty(t, c.Thoughts)
	assert.Len(t, c.Notifications, PoolSize)
	assert.NotEmpty(t, c.Replies.Matched)
	assert.NotEmpty(t, c.Replies.Fallback)
	assert.Equal(t, []string{ViewExplorer, ViewHeader}, c.Views())
}

func TestRegionResolvesEveryID(t *testing.T) {
	c, err := Default(testNow)
	require.NoError(t, err)

	for _, want := range c.Regions {
		got, ok := c.Region(want.ID)
		require.True(t, ok, "region %s", want.ID)
		assert.Equal(t, want, got)
	}
}

func TestRegionNotFound(t *testing.T) {
	c, err := Default(testNow)
	require.NoError(t, err)

	before := len(c.Regions)
	_, ok := c.Region("cerebellum")
	assert.False(t, ok)
	_, ok = c.Region("")
	assert.False(t, ok)
	assert.Len(t, c.Regions, before)
}

func TestThoughtAgesAreRelativeToLoad(t *testing.T) {
	c, err := Default(testNow)
	require.NoError(t, err)

	var found bool
	for _, th := range c.Thoughts {
		if th.ID == "t-001" {
			found = true
			assert.Equal(t, testNow.Add(-5*time.Minute), th.Timestamp)
		}
	}
	assert.True(t, found)
}

func TestRegionViewJoinsGeometry(t *testing.T) {
	c, err := Default(testNow)
	require.NoError(t, err)

	rv, err := c.RegionView(ViewExplorer, "career")
	require.NoError(t, err)
	assert.Equal(t, "Career Growth", rv.Name)
	assert.NotEmpty(t, rv.Path)

	header, err := c.RegionView(ViewHeader, "career")
	require.NoError(t, err)
	assert.NotEqual(t, rv.Path, header.Path)

	all, err := c.RegionViews(ViewHeader)
	require.NoError(t, err)
	assert.Len(t, all, len(c.Regions))
}

func TestGeometryFailsLoudly(t *testing.T) {
	c, err := Default(testNow)
	require.NoError(t, err)

	_, err = c.Geometry(ViewHeader, "cerebellum")
	assert.True(t, errors.Is(err, ErrGeometryMissing))

	_, err = c.Geometry("footer", "career")
	assert.True(t, errors.Is(err, ErrUnknownView))
}

const minimalRegions = `
regions:
  - id: career
    name: Career
    area: Motor Cortex
    color: "#3b82f6"
    description: d
    topics: [a]
  - id: learning
    name: Learning
    area: Hippocampus
    color: "#eab308"
    description: d
    topics: [b]
notifications:
  - {content: one, type: live, region: career}
  - {content: two, type: live, region: career}
  - {content: three, type: live, region: learning}
  - {content: four, type: live, region: learning}
`

func TestLoadRejectsMissingGeometry(t *testing.T) {
	fsys := fstest.MapFS{
		"regions.yaml": {Data: []byte(minimalRegions)},
		"geometry.yaml": {Data: []byte(`
views:
  header:
    career: {position: {x: 1, y: 1}, path: "M0,0 Z"}
    learning: {position: {x: 2, y: 2}, path: "M0,0 Z"}
  explorer:
    career: {position: {x: 1, y: 1}, path: "M0,0 Z"}
`)},
	}

	_, err := Load(fsys, testNow)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrGeometryMissing))
	assert.Contains(t, err.Error(), "explorer")
	assert.Contains(t, err.Error(), "learning")
}

func TestLoadRejectsUnknownGeometryID(t *testing.T) {
	fsys := fstest.MapFS{
		"regions.yaml": {Data: []byte(minimalRegions)},
		"geometry.yaml": {Data: []byte(`
views:
  header:
    career: {position: {x: 1, y: 1}, path: "M0,0 Z"}
    learning: {position: {x: 2, y: 2}, path: "M0,0 Z"}
  explorer:
    career: {position: {x: 1, y: 1}, path: "M0,0 Z"}
    learning: {position: {x: 2, y: 2}, path: "M0,0 Z"}
    amygdala: {position: {x: 3, y: 3}, path: "M0,0 Z"}
`)},
	}

	_, err := Load(fsys, testNow)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "amygdala")
}

func TestLoadRejectsBadPool(t *testing.T) {
	fsys := fstest.MapFS{
		"regions.yaml": {Data: []byte(`
regions:
  - {id: career, name: Career, area: x, color: "#3b82f6", description: d, topics: [a]}
views:
  header:
    career: {position: {x: 1, y: 1}, path: "M0,0 Z"}
  explorer:
    career: {position: {x: 1, y: 1}, path: "M0,0 Z"}
notifications:
  - {content: one, type: live, region: career}
`)},
	}

	_, err := Load(fsys, testNow)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "notification pool")
}

func TestLoadRejectsDuplicateRegion(t *testing.T) {
	fsys := fstest.MapFS{
		"regions.yaml": {Data: []byte(`
regions:
  - {id: career, name: Career, area: x, color: "#3b82f6", description: d}
  - {id: career, name: Again, area: x, color: "#3b82f6", description: d}
`)},
	}

	_, err := Load(fsys, testNow)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate region")
}

func TestLookups(t *testing.T) {
	c, err := Default(testNow)
	require.NoError(t, err)

	s, ok := c.Scenario(1)
	require.True(t, ok)
	assert.NotEmpty(t, s.Framework)
	_, ok = c.Scenario(999)
	assert.False(t, ok)

	m, ok := c.MentalModel("inversion")
	require.True(t, ok)
	assert.Len(t, m.Framework, 3)

	p, ok := c.Plan("momentum")
	require.True(t, ok)
	assert.True(t, p.Highlighted)
}

func TestLoadRejectsBadTableColorsAndIDs(t *testing.T) {
	base := minimalRegions + `
views:
  header:
    career: {position: {x: 1, y: 1}, path: "M0,0 Z"}
    learning: {position: {x: 2, y: 2}, path: "M0,0 Z"}
  explorer:
    career: {position: {x: 1, y: 1}, path: "M0,0 Z"}
    learning: {position: {x: 2, y: 2}, path: "M0,0 Z"}
`
	tests := []struct {
		name    string
		extra   string
		wantErr string
	}{
		{"model color", `
mental_models:
  - {id: inversion, name: Inversion, category: thinking, color: blue}
`, "mental model inversion: invalid color"},
		{"model id", `
mental_models:
  - {name: Inversion, category: thinking, color: "#3b82f6"}
`, "mental model 0: empty id"},
		{"scenario color", `
scenarios:
  - {id: 1, title: Offer, category: career, difficulty: beginner, color: "#3b82f"}
`, "scenario 1: invalid color"},
		{"plan color", `
plans:
  - {id: momentum, name: Momentum, price: "$1", color: ""}
`, "plan momentum: invalid color"},
		{"plan id", `
plans:
  - {name: Momentum, price: "$1", color: "#3b82f6"}
`, "plan 0: empty id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := fstest.MapFS{
				"regions.yaml": {Data: []byte(base)},
				"extra.yaml":   {Data: []byte(tt.extra)},
			}
			_, err := Load(fsys, testNow)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
