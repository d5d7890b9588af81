// Package catalog loads and validates the static content tables.
package catalog

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rcliao/brainsite/internal/model"
)

//go:embed content/*.yaml
var embedded embed.FS

// View names for region geometry.
const (
	ViewHeader   = "header"
	ViewExplorer = "explorer"
)

// PoolSize is the number of canned notification messages.
const PoolSize = 4

var (
	// ErrGeometryMissing means a view has no geometry for a region id.
	ErrGeometryMissing = errors.New("geometry missing")
	// ErrUnknownView means the requested view does not exist.
	ErrUnknownView = errors.New("unknown view")
)

var colorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Replies holds canned Q&A reply templates.
type Replies struct {
	Fallback []string `yaml:"fallback" json:"fallback"`
	Matched  []string `yaml:"matched" json:"matched"`
}

// Catalog is the read-only set of content tables.
type Catalog struct {
	Regions       []model.Region
	MentalModels  []model.MentalModel
	Scenarios     []model.Scenario
	Plans         []model.CoachingPlan
	Thoughts      []model.Thought
	Notifications []model.Notification
	Replies       Replies

	geometry map[string]map[string]model.Geometry
	regionIx map[string]int
}

type thoughtEntry struct {
	ID         string `yaml:"id"`
	Content    string `yaml:"content"`
	Age        string `yaml:"age"`
	Type       string `yaml:"type"`
	Engagement int    `yaml:"engagement"`
	Region     string `yaml:"region"`
}

type document struct {
	Regions       []model.Region                       `yaml:"regions"`
	Views         map[string]map[string]model.Geometry `yaml:"views"`
	MentalModels  []model.MentalModel                  `yaml:"mental_models"`
	Scenarios     []model.Scenario                     `yaml:"scenarios"`
	Plans         []model.CoachingPlan                 `yaml:"plans"`
	Thoughts      []thoughtEntry                       `yaml:"thoughts"`
	Notifications []model.Notification                 `yaml:"notifications"`
	Replies       *Replies                             `yaml:"replies"`
}

// Default loads the embedded content, stamping thought ages relative to now.
func Default(now time.Time) (*Catalog, error) {
	sub, err := fs.Sub(embedded, "content")
	if err != nil {
		return nil, err
	}
	return Load(sub, now)
}

// LoadDir loads content YAML files from a directory on disk.
func LoadDir(dir string, now time.Time) (*Catalog, error) {
	return Load(os.DirFS(dir), now)
}

// Load reads every *.yaml file in fsys and merges them into a validated
// Catalog. Files may hold any subset of the top-level sections.
func Load(fsys fs.FS, now time.Time) (*Catalog, error) {
	files, err := fs.Glob(fsys, "*.yaml")
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no content files found")
	}
	sort.Strings(files)

	c := &Catalog{geometry: map[string]map[string]model.Geometry{}}
	for _, name := range files {
		b, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		var doc document
		if err := yaml.Unmarshal(b, &doc); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		if err := c.merge(doc, now); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) merge(doc document, now time.Time) error {
	c.Regions = append(c.Regions, doc.Regions...)
	c.MentalModels = append(c.MentalModels, doc.MentalModels...)
	c.Scenarios = append(c.Scenarios, doc.Scenarios...)
	c.Plans = append(c.Plans, doc.Plans...)
	c.Notifications = append(c.Notifications, doc.Notifications...)
	if doc.Replies != nil {
		c.Replies.Fallback = append(c.Replies.Fallback, doc.Replies.Fallback...)
		c.Replies.Matched = append(c.Replies.Matched, doc.Replies.Matched...)
	}
	for view, entries := range doc.Views {
		if c.geometry[view] == nil {
			c.geometry[view] = map[string]model.Geometry{}
		}
		for id, g := range entries {
			c.geometry[view][id] = g
		}
	}
	for _, t := range doc.Thoughts {
		age, err := time.ParseDuration(t.Age)
		if err != nil {
			return fmt.Errorf("thought %s: invalid age %q: %w", t.ID, t.Age, err)
		}
		c.Thoughts = append(c.Thoughts, model.Thought{
			ID:         t.ID,
			Content:    t.Content,
			Timestamp:  now.Add(-age).UTC(),
			Type:       t.Type,
			Engagement: t.Engagement,
			Region:     t.Region,
		})
	}
	return nil
}

func (c *Catalog) validate() error {
	if len(c.Regions) == 0 {
		return fmt.Errorf("no regions defined")
	}
	c.regionIx = make(map[string]int, len(c.Regions))
	for i, r := range c.Regions {
		if r.ID == "" {
			return fmt.Errorf("region %d: empty id", i)
		}
		if _, dup := c.regionIx[r.ID]; dup {
			return fmt.Errorf("duplicate region id %q", r.ID)
		}
		if !colorRe.MatchString(r.Color) {
			return fmt.Errorf("region %s: invalid color %q", r.ID, r.Color)
		}
		c.regionIx[r.ID] = i
	}

	for _, view := range []string{ViewHeader, ViewExplorer} {
		if _, ok := c.geometry[view]; !ok {
			return fmt.Errorf("view %s: %w", view, ErrUnknownView)
		}
	}
	for view, entries := range c.geometry {
		for _, r := range c.Regions {
			if _, ok := entries[r.ID]; !ok {
				return fmt.Errorf("view %s: region %s: %w", view, r.ID, ErrGeometryMissing)
			}
		}
		for id := range entries {
			if _, ok := c.regionIx[id]; !ok {
				return fmt.Errorf("view %s: geometry for unknown region %q", view, id)
			}
		}
	}

	seen := map[string]bool{}
	for i, m := range c.MentalModels {
		if m.ID == "" {
			return fmt.Errorf("mental model %d: empty id", i)
		}
		if seen[m.ID] {
			return fmt.Errorf("duplicate mental model id %q", m.ID)
		}
		if !colorRe.MatchString(m.Color) {
			return fmt.Errorf("mental model %s: invalid color %q", m.ID, m.Color)
		}
		seen[m.ID] = true
	}

	seenScenario := map[int]bool{}
	for _, s := range c.Scenarios {
		if seenScenario[s.ID] {
			return fmt.Errorf("duplicate scenario id %d", s.ID)
		}
		if !model.ValidDifficulties[s.Difficulty] {
			return fmt.Errorf("scenario %d: invalid difficulty %q", s.ID, s.Difficulty)
		}
		if !colorRe.MatchString(s.Color) {
			return fmt.Errorf("scenario %d: invalid color %q", s.ID, s.Color)
		}
		seenScenario[s.ID] = true
	}

	seen = map[string]bool{}
	for i, p := range c.Plans {
		if p.ID == "" {
			return fmt.Errorf("plan %d: empty id", i)
		}
		if seen[p.ID] {
			return fmt.Errorf("duplicate plan id %q", p.ID)
		}
		if !colorRe.MatchString(p.Color) {
			return fmt.Errorf("plan %s: invalid color %q", p.ID, p.Color)
		}
		seen[p.ID] = true
	}

	seen = map[string]bool{}
	for _, t := range c.Thoughts {
		if seen[t.ID] {
			return fmt.Errorf("duplicate thought id %q", t.ID)
		}
		if !model.ValidThoughtTypes[t.Type] {
			return fmt.Errorf("thought %s: invalid type %q", t.ID, t.Type)
		}
		if _, ok := c.regionIx[t.Region]; !ok {
			return fmt.Errorf("thought %s: unknown region %q", t.ID, t.Region)
		}
		seen[t.ID] = true
	}

	if len(c.Notifications) != PoolSize {
		return fmt.Errorf("notification pool must have %d messages, got %d", PoolSize, len(c.Notifications))
	}
	for i, n := range c.Notifications {
		if _, ok := c.regionIx[n.Region]; !ok {
			return fmt.Errorf("notification %d: unknown region %q", i, n.Region)
		}
	}
	return nil
}

// Region resolves a region id. The bool is false when no region matches.
func (c *Catalog) Region(id string) (model.Region, bool) {
	i, ok := c.regionIx[id]
	if !ok {
		return model.Region{}, false
	}
	return c.Regions[i], true
}

// Geometry returns a view's geometry for a region. Unlike Region it never
// falls back: a missing entry is an error.
func (c *Catalog) Geometry(view, id string) (model.Geometry, error) {
	entries, ok := c.geometry[view]
	if !ok {
		return model.Geometry{}, fmt.Errorf("view %s: %w", view, ErrUnknownView)
	}
	g, ok := entries[id]
	if !ok {
		return model.Geometry{}, fmt.Errorf("view %s: region %s: %w", view, id, ErrGeometryMissing)
	}
	return g, nil
}

// RegionView joins a region with one view's geometry.
func (c *Catalog) RegionView(view, id string) (model.RegionView, error) {
	r, ok := c.Region(id)
	if !ok {
		return model.RegionView{}, fmt.Errorf("region not found: %s", id)
	}
	g, err := c.Geometry(view, id)
	if err != nil {
		return model.RegionView{}, err
	}
	return model.RegionView{Region: r, Position: g.Position, Path: g.Path}, nil
}

// RegionViews returns every region joined with the given view, in catalog order.
func (c *Catalog) RegionViews(view string) ([]model.RegionView, error) {
	out := make([]model.RegionView, 0, len(c.Regions))
	for _, r := range c.Regions {
		rv, err := c.RegionView(view, r.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, nil
}

// Views lists the geometry view names.
func (c *Catalog) Views() []string {
	views := make([]string, 0, len(c.geometry))
	for v := range c.geometry {
		views = append(views, v)
	}
	sort.Strings(views)
	return views
}

// MentalModel looks up a mental model by id.
func (c *Catalog) MentalModel(id string) (model.MentalModel, bool) {
	for _, m := range c.MentalModels {
		if m.ID == id {
			return m, true
		}
	}
	return model.MentalModel{}, false
}

// Scenario looks up a scenario by id.
func (c *Catalog) Scenario(id int) (model.Scenario, bool) {
	for _, s := range c.Scenarios {
		if s.ID == id {
			return s, true
		}
	}
	return model.Scenario{}, false
}

// Plan looks up a coaching plan by id.
func (c *Catalog) Plan(id string) (model.CoachingPlan, bool) {
	for _, p := range c.Plans {
		if p.ID == id {
			return p, true
		}
	}
	return model.CoachingPlan{}, false
}
