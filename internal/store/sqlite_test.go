package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rcliao/brainsite/internal/catalog"
)

var testNow = time.Date(2026, time.May, 5, 10, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(MemoryPath)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newSeededStore(t *testing.T) (*SQLiteStore, *catalog.Catalog) {
	t.Helper()
	s := newTestStore(t)
	c, err := catalog.Default(testNow)
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	if err := s.Seed(context.Background(), c); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return s, c
}

func TestFileBackedStore(t *testing.T) {
	dir := t.TempDir()
	s, err := NewSQLiteStore(filepath.Join(dir, "nested", "test.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	defer s.Close()

	c, _ := catalog.Default(testNow)
	if err := s.Seed(context.Background(), c); err != nil {
		t.Fatalf("seed: %v", err)
	}
	regions, _ := s.ListRegions(context.Background())
	if len(regions) != len(c.Regions) {
		t.Errorf("expected %d regions, got %d", len(c.Regions), len(regions))
	}
}

func TestSeedRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, c := newSeededStore(t)

	regions, err := s.ListRegions(ctx)
	if err != nil {
		t.Fatalf("list regions: %v", err)
	}
	if len(regions) != len(c.Regions) {
		t.Fatalf("expected %d regions, got %d", len(c.Regions), len(regions))
	}
	if regions[0].ID != c.Regions[0].ID {
		t.Errorf("expected catalog order, got %q first", regions[0].ID)
	}
	if len(regions[0].Topics) != len(c.Regions[0].Topics) {
		t.Errorf("topics not preserved: %v", regions[0].Topics)
	}

	models, err := s.ListMentalModels(ctx, "")
	if err != nil {
		t.Fatalf("list models: %v", err)
	}
	if len(models) != len(c.MentalModels) {
		t.Errorf("expected %d models, got %d", len(c.MentalModels), len(models))
	}
	if len(models[0].Framework) == 0 {
		t.Error("expected framework points")
	}

	plans, err := s.ListPlans(ctx)
	if err != nil {
		t.Fatalf("list plans: %v", err)
	}
	highlighted := 0
	for _, p := range plans {
		if p.Highlighted {
			highlighted++
		}
	}
	if highlighted != 1 {
		t.Errorf("expected 1 highlighted plan, got %d", highlighted)
	}
}

func TestSeedTwiceReplaces(t *testing.T) {
	ctx := context.Background()
	s, c := newSeededStore(t)

	if err := s.Seed(ctx, c); err != nil {
		t.Fatalf("reseed: %v", err)
	}
	st, err := s.Stats(ctx, MemoryPath)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.Regions != len(c.Regions) || st.Thoughts != len(c.Thoughts) {
		t.Errorf("reseed duplicated rows: %+v", st)
	}
}

func TestFilters(t *testing.T) {
	ctx := context.Background()
	s, _ := newSeededStore(t)

	models, _ := s.ListMentalModels(ctx, "Career")
	if len(models) != 1 || models[0].ID != "regret-minimization" {
		t.Errorf("expected regret-minimization, got %+v", models)
	}

	scenarios, _ := s.ListScenarios(ctx, ScenarioFilter{Difficulty: "advanced"})
	if len(scenarios) != 1 || scenarios[0].ID != 3 {
		t.Errorf("expected scenario 3, got %+v", scenarios)
	}

	none, _ := s.ListScenarios(ctx, ScenarioFilter{Category: "Career", Difficulty: "beginner"})
	if len(none) != 0 {
		t.Errorf("expected no scenarios, got %d", len(none))
	}
}

func TestThoughtFeedNewestFirst(t *testing.T) {
	ctx := context.Background()
	s, c := newSeededStore(t)

	th, err := s.AddThought(ctx, AddThoughtParams{
		Content:   "  A brand new idea.  ",
		Type:      "live",
		Region:    "learning",
		Timestamp: testNow.Add(time.Second),
	})
	if err != nil {
		t.Fatalf("add thought: %v", err)
	}
	if th.ID == "" {
		t.Error("expected generated ID")
	}
	if th.Content != "A brand new idea." {
		t.Errorf("expected trimmed content, got %q", th.Content)
	}

	feed, err := s.ListThoughts(ctx, ListThoughtsParams{})
	if err != nil {
		t.Fatalf("list thoughts: %v", err)
	}
	if len(feed) != len(c.Thoughts)+1 {
		t.Fatalf("expected %d thoughts, got %d", len(c.Thoughts)+1, len(feed))
	}
	if feed[0].ID != th.ID {
		t.Errorf("expected new thought first, got %q", feed[0].ID)
	}
	for i := 1; i < len(feed); i++ {
		if feed[i].Timestamp.After(feed[i-1].Timestamp) {
			t.Errorf("feed not ordered at %d", i)
		}
	}

	got, err := s.Thought(ctx, th.ID)
	if err != nil {
		t.Fatalf("get thought: %v", err)
	}
	if !got.Timestamp.Equal(th.Timestamp) {
		t.Errorf("timestamp mismatch: %v vs %v", got.Timestamp, th.Timestamp)
	}
}

func TestThoughtFilters(t *testing.T) {
	ctx := context.Background()
	s, _ := newSeededStore(t)

	byRegion, _ := s.ListThoughts(ctx, ListThoughtsParams{Region: "career"})
	for _, th := range byRegion {
		if th.Region != "career" {
			t.Errorf("expected career only, got %q", th.Region)
		}
	}
	if len(byRegion) == 0 {
		t.Error("expected career thoughts")
	}

	limited, _ := s.ListThoughts(ctx, ListThoughtsParams{Limit: 2})
	if len(limited) != 2 {
		t.Errorf("expected 2, got %d", len(limited))
	}
}

func TestAddThoughtValidation(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if _, err := s.AddThought(ctx, AddThoughtParams{Content: "   "}); err == nil {
		t.Error("expected error for blank content")
	}
	if _, err := s.AddThought(ctx, AddThoughtParams{Content: "x", Type: "rant"}); err == nil {
		t.Error("expected error for invalid type")
	}
}

func TestThoughtNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Thought(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStatsAndCategories(t *testing.T) {
	ctx := context.Background()
	s, c := newSeededStore(t)

	st, err := s.Stats(ctx, MemoryPath)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.Scenarios != len(c.Scenarios) || st.Plans != len(c.Plans) {
		t.Errorf("unexpected counts: %+v", st)
	}
	if st.Passages < st.Regions+st.MentalModels {
		t.Errorf("expected at least one passage per region and model, got %d", st.Passages)
	}
	total := 0
	for _, rc := range st.ByRegion {
		total += rc.Thoughts
	}
	if total != st.Thoughts {
		t.Errorf("per-region counts %d != total %d", total, st.Thoughts)
	}

	cats, err := s.Categories(ctx)
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	if len(cats) == 0 {
		t.Fatal("expected categories")
	}
	if cats[0].Table != "mental_models" {
		t.Errorf("expected mental_models first, got %q", cats[0].Table)
	}
}

func TestExportAll(t *testing.T) {
	s, c := newSeededStore(t)

	out, err := s.ExportAll(context.Background())
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(out.Regions) != len(c.Regions) || len(out.Thoughts) != len(c.Thoughts) {
		t.Errorf("export incomplete: %d regions, %d thoughts", len(out.Regions), len(out.Thoughts))
	}
}
