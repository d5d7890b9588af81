package store

import (
	"context"
	"strings"
	"unicode"
)

// SearchParams holds parameters for searching passages.
type SearchParams struct {
	Query string
	Kind  string // region, model or scenario; empty for all
	Limit int
}

// SearchResult is the best matching passage of one content record.
type SearchResult struct {
	Kind  string  `json:"kind"`
	RefID string  `json:"ref_id"`
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "you": true, "your": true,
	"are": true, "what": true, "how": true, "should": true, "with": true,
	"this": true, "that": true, "can": true, "does": true, "about": true,
	"when": true, "who": true, "why": true, "have": true, "has": true,
	"from": true, "into": true, "was": true, "will": true, "would": true,
}

// ftsQuery turns free text into an FTS5 OR query of prefix terms. Only
// alphanumeric runs survive, so user input cannot inject query syntax.
func ftsQuery(q string) string {
	words := strings.FieldsFunc(strings.ToLower(q), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	seen := map[string]bool{}
	var terms []string
	for _, w := range words {
		if len(w) < 3 || stopwords[w] || seen[w] {
			continue
		}
		seen[w] = true
		terms = append(terms, `"`+w+`"*`)
	}
	return strings.Join(terms, " OR ")
}

// Search ranks passages by bm25 and returns the best passage per record.
func (s *SQLiteStore) Search(ctx context.Context, p SearchParams) ([]SearchResult, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 10
	}

	match := ftsQuery(p.Query)
	if match == "" {
		return nil, nil
	}

	query := `
		SELECT p.kind, p.ref_id, p.text, bm25(passages_fts) AS rank
		FROM passages_fts
		JOIN passages p ON p.id = passages_fts.rowid
		WHERE passages_fts MATCH ?`
	args := []interface{}{match}
	if p.Kind != "" {
		query += ` AND p.kind = ?`
		args = append(args, p.Kind)
	}
	query += ` ORDER BY rank LIMIT ?`
	// Over-fetch so duplicates per record still leave enough results.
	args = append(args, limit*4)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []SearchResult
	seen := map[string]bool{}
	for rows.Next() {
		var r SearchResult
		var rank float64
		if err := rows.Scan(&r.Kind, &r.RefID, &r.Text, &rank); err != nil {
			return nil, err
		}
		key := r.Kind + "/" + r.RefID
		if seen[key] {
			continue
		}
		seen[key] = true
		// bm25 is lower-is-better and negative for matches.
		r.Score = -rank
		results = append(results, r)
		if len(results) == limit {
			break
		}
	}
	return results, rows.Err()
}
