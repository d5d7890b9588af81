package store

import (
	"context"
)

// Stats holds database statistics.
type Stats struct {
	DBPath       string         `json:"db_path"`
	Regions      int            `json:"regions"`
	MentalModels int            `json:"mental_models"`
	Scenarios    int            `json:"scenarios"`
	Plans        int            `json:"plans"`
	Thoughts     int            `json:"thoughts"`
	Passages     int            `json:"passages"`
	ByRegion     []RegionCounts `json:"thoughts_by_region"`
}

// RegionCounts holds per-region thought counts.
type RegionCounts struct {
	Region     string `json:"region"`
	Thoughts   int    `json:"thoughts"`
	Engagement int    `json:"engagement"`
}

// CategoryCount is one category with the number of records in it.
type CategoryCount struct {
	Table    string `json:"table"`
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Stats returns database statistics.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath}

	counts := []struct {
		table string
		dst   *int
	}{
		{"regions", &st.Regions},
		{"mental_models", &st.MentalModels},
		{"scenarios", &st.Scenarios},
		{"plans", &st.Plans},
		{"thoughts", &st.Thoughts},
		{"passages", &st.Passages},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+c.table).Scan(c.dst); err != nil {
			return st, err
		}
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT region, COUNT(*) AS cnt, COALESCE(SUM(engagement), 0)
		FROM thoughts
		GROUP BY region ORDER BY cnt DESC, region`)
	if err != nil {
		return st, err
	}
	defer rows.Close()

	for rows.Next() {
		var rc RegionCounts
		if err := rows.Scan(&rc.Region, &rc.Thoughts, &rc.Engagement); err != nil {
			return st, err
		}
		st.ByRegion = append(st.ByRegion, rc)
	}

	return st, rows.Err()
}

// Categories lists mental model and scenario categories with counts.
func (s *SQLiteStore) Categories(ctx context.Context) ([]CategoryCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT 'mental_models', category, COUNT(*) FROM mental_models GROUP BY category
		UNION ALL
		SELECT 'scenarios', category, COUNT(*) FROM scenarios GROUP BY category
		ORDER BY 1, 2`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CategoryCount
	for rows.Next() {
		var c CategoryCount
		if err := rows.Scan(&c.Table, &c.Category, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
