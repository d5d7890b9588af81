// Package store provides the content storage interface and an in-memory
// SQLite implementation.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/rcliao/brainsite/internal/catalog"
	"github.com/rcliao/brainsite/internal/model"
)

// ErrNotFound is returned when a lookup matches nothing.
var ErrNotFound = errors.New("not found")

// AddThoughtParams holds parameters for adding a thought to the feed.
type AddThoughtParams struct {
	ID         string // generated when empty
	Content    string
	Type       string
	Engagement int
	Region     string
	Timestamp  time.Time // defaults to now
}

// ListThoughtsParams holds parameters for listing the thought feed.
type ListThoughtsParams struct {
	Region string
	Type   string
	Limit  int
}

// ScenarioFilter narrows a scenario listing.
type ScenarioFilter struct {
	Category   string
	Difficulty string
}

// Store defines the content storage interface.
type Store interface {
	// Seed loads every catalog table and indexes its text for search.
	Seed(ctx context.Context, c *catalog.Catalog) error

	// AddThought appends a thought to the feed. Returns the stored thought.
	AddThought(ctx context.Context, p AddThoughtParams) (*model.Thought, error)

	// ListThoughts returns the feed, newest first.
	ListThoughts(ctx context.Context, p ListThoughtsParams) ([]model.Thought, error)

	// Search ranks indexed passages against a free-text query.
	Search(ctx context.Context, p SearchParams) ([]SearchResult, error)

	ListRegions(ctx context.Context) ([]model.Region, error)
	ListMentalModels(ctx context.Context, category string) ([]model.MentalModel, error)
	ListScenarios(ctx context.Context, f ScenarioFilter) ([]model.Scenario, error)
	ListPlans(ctx context.Context) ([]model.CoachingPlan, error)

	// Close closes the store.
	Close() error
}
