package store

import (
	"context"

	"github.com/rcliao/brainsite/internal/model"
)

// Export is a full dump of the store's content tables.
type Export struct {
	Regions      []model.Region       `json:"regions" yaml:"regions"`
	MentalModels []model.MentalModel  `json:"mental_models" yaml:"mental_models"`
	Scenarios    []model.Scenario     `json:"scenarios" yaml:"scenarios"`
	Plans        []model.CoachingPlan `json:"plans" yaml:"plans"`
	Thoughts     []model.Thought      `json:"thoughts" yaml:"thoughts"`
}

// ExportAll returns every content table, in display order.
func (s *SQLiteStore) ExportAll(ctx context.Context) (*Export, error) {
	var (
		out Export
		err error
	)
	if out.Regions, err = s.ListRegions(ctx); err != nil {
		return nil, err
	}
	if out.MentalModels, err = s.ListMentalModels(ctx, ""); err != nil {
		return nil, err
	}
	if out.Scenarios, err = s.ListScenarios(ctx, ScenarioFilter{}); err != nil {
		return nil, err
	}
	if out.Plans, err = s.ListPlans(ctx); err != nil {
		return nil, err
	}
	if out.Thoughts, err = s.ListThoughts(ctx, ListThoughtsParams{Limit: 100000}); err != nil {
		return nil, err
	}
	return &out, nil
}
