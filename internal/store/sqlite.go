package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/rcliao/brainsite/internal/catalog"
	"github.com/rcliao/brainsite/internal/chunker"
	"github.com/rcliao/brainsite/internal/model"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB

	mu      sync.Mutex // guards entropy
	entropy *rand.Rand
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
// MemoryPath keeps everything in memory for the life of the process.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dsn := MemoryPath + "?_pragma=foreign_keys(on)"
	if dbPath != MemoryPath {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
		dsn = dbPath + "?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if dbPath == MemoryPath {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	s := &SQLiteStore{
		db:      db,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) newID(t time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS regions (
		id          TEXT PRIMARY KEY,
		seq         INTEGER NOT NULL,
		name        TEXT NOT NULL,
		area        TEXT NOT NULL,
		color       TEXT NOT NULL,
		description TEXT NOT NULL,
		topics      TEXT
	);

	CREATE TABLE IF NOT EXISTS mental_models (
		id          TEXT PRIMARY KEY,
		seq         INTEGER NOT NULL,
		name        TEXT NOT NULL,
		category    TEXT NOT NULL,
		color       TEXT NOT NULL,
		description TEXT NOT NULL,
		framework   TEXT,
		engagement  INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_models_category ON mental_models(category);

	CREATE TABLE IF NOT EXISTS scenarios (
		id          INTEGER PRIMARY KEY,
		title       TEXT NOT NULL,
		description TEXT NOT NULL,
		category    TEXT NOT NULL,
		difficulty  TEXT NOT NULL,
		color       TEXT NOT NULL,
		framework   TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_scenarios_category ON scenarios(category, difficulty);

	CREATE TABLE IF NOT EXISTS plans (
		id          TEXT PRIMARY KEY,
		seq         INTEGER NOT NULL,
		name        TEXT NOT NULL,
		subtitle    TEXT NOT NULL,
		price       TEXT NOT NULL,
		description TEXT NOT NULL,
		features    TEXT,
		cta         TEXT NOT NULL,
		highlighted INTEGER NOT NULL DEFAULT 0,
		color       TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS thoughts (
		id          TEXT PRIMARY KEY,
		content     TEXT NOT NULL,
		created_at  INTEGER NOT NULL,
		type        TEXT NOT NULL,
		engagement  INTEGER NOT NULL DEFAULT 0,
		region      TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_thoughts_created ON thoughts(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_thoughts_region ON thoughts(region);

	CREATE TABLE IF NOT EXISTS passages (
		id      INTEGER PRIMARY KEY AUTOINCREMENT,
		kind    TEXT NOT NULL,
		ref_id  TEXT NOT NULL,
		seq     INTEGER NOT NULL,
		text    TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_passages_ref ON passages(kind, ref_id);

	CREATE VIRTUAL TABLE IF NOT EXISTS passages_fts USING fts5(
		text,
		content=passages,
		content_rowid=id
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	// FTS5 triggers for automatic sync
	triggers := []string{
		`CREATE TRIGGER IF NOT EXISTS passages_ai AFTER INSERT ON passages BEGIN
			INSERT INTO passages_fts(rowid, text) VALUES (new.id, new.text);
		END`,
		`CREATE TRIGGER IF NOT EXISTS passages_ad AFTER DELETE ON passages BEGIN
			INSERT INTO passages_fts(passages_fts, rowid, text) VALUES('delete', old.id, old.text);
		END`,
	}
	for _, q := range triggers {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// Seed replaces every content table with the catalog's rows.
func (s *SQLiteStore) Seed(ctx context.Context, c *catalog.Catalog) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"regions", "mental_models", "scenarios", "plans", "thoughts", "passages"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for i, r := range c.Regions {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO regions (id, seq, name, area, color, description, topics) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			r.ID, i, r.Name, r.Area, r.Color, r.Description, toJSON(r.Topics)); err != nil {
			return fmt.Errorf("insert region %s: %w", r.ID, err)
		}
		text := r.Name + ". " + r.Area + ". " + r.Description + "\n\n" + strings.Join(r.Topics, ", ")
		if err := indexPassages(ctx, tx, "region", r.ID, text); err != nil {
			return err
		}
	}

	for i, m := range c.MentalModels {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO mental_models (id, seq, name, category, color, description, framework, engagement)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			m.ID, i, m.Name, m.Category, m.Color, m.Description, toJSON(m.Framework), m.Engagement); err != nil {
			return fmt.Errorf("insert mental model %s: %w", m.ID, err)
		}
		parts := []string{m.Name + ". " + m.Description}
		for _, fp := range m.Framework {
			parts = append(parts, fp.Point+": "+fp.Detail)
		}
		if err := indexPassages(ctx, tx, "model", m.ID, strings.Join(parts, "\n\n")); err != nil {
			return err
		}
	}

	for _, sc := range c.Scenarios {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO scenarios (id, title, description, category, difficulty, color, framework)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			sc.ID, sc.Title, sc.Description, sc.Category, sc.Difficulty, sc.Color, toJSON(sc.Framework)); err != nil {
			return fmt.Errorf("insert scenario %d: %w", sc.ID, err)
		}
		text := sc.Title + ". " + sc.Description + "\n\n" + strings.Join(sc.Framework, ". ")
		if err := indexPassages(ctx, tx, "scenario", fmt.Sprint(sc.ID), text); err != nil {
			return err
		}
	}

	for i, p := range c.Plans {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO plans (id, seq, name, subtitle, price, description, features, cta, highlighted, color)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, i, p.Name, p.Subtitle, p.Price, p.Description, toJSON(p.Features), p.CTA, p.Highlighted, p.Color); err != nil {
			return fmt.Errorf("insert plan %s: %w", p.ID, err)
		}
	}

	for _, th := range c.Thoughts {
		if err := insertThought(ctx, tx, th); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func indexPassages(ctx context.Context, tx *sql.Tx, kind, refID, text string) error {
	for _, p := range chunker.Chunk(text, chunker.DefaultOptions()) {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO passages (kind, ref_id, seq, text) VALUES (?, ?, ?, ?)`,
			kind, refID, p.Seq, p.Text); err != nil {
			return fmt.Errorf("index %s %s: %w", kind, refID, err)
		}
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func insertThought(ctx context.Context, db execer, th model.Thought) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO thoughts (id, content, created_at, type, engagement, region) VALUES (?, ?, ?, ?, ?, ?)`,
		th.ID, th.Content, th.Timestamp.UTC().UnixNano(), th.Type, th.Engagement, th.Region)
	if err != nil {
		return fmt.Errorf("insert thought %s: %w", th.ID, err)
	}
	return nil
}

func (s *SQLiteStore) AddThought(ctx context.Context, p AddThoughtParams) (*model.Thought, error) {
	content := strings.TrimSpace(p.Content)
	if content == "" {
		return nil, fmt.Errorf("thought content is required")
	}
	typ := p.Type
	if typ == "" {
		typ = "insight"
	}
	if !model.ValidThoughtTypes[typ] {
		return nil, fmt.Errorf("invalid thought type %q", typ)
	}

	ts := p.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	id := p.ID
	if id == "" {
		id = s.newID(ts)
	}

	th := model.Thought{
		ID:         id,
		Content:    content,
		Timestamp:  ts.UTC(),
		Type:       typ,
		Engagement: p.Engagement,
		Region:     p.Region,
	}
	if err := insertThought(ctx, s.db, th); err != nil {
		return nil, err
	}
	return &th, nil
}

func (s *SQLiteStore) ListThoughts(ctx context.Context, p ListThoughtsParams) ([]model.Thought, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	where := []string{"1 = 1"}
	var args []interface{}
	if p.Region != "" {
		where = append(where, "region = ?")
		args = append(args, p.Region)
	}
	if p.Type != "" {
		where = append(where, "type = ?")
		args = append(args, p.Type)
	}
	args = append(args, limit)

	query := fmt.Sprintf(`
		SELECT id, content, created_at, type, engagement, region
		FROM thoughts
		WHERE %s
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, strings.Join(where, " AND "))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var thoughts []model.Thought
	for rows.Next() {
		var th model.Thought
		var created int64
		if err := rows.Scan(&th.ID, &th.Content, &created, &th.Type, &th.Engagement, &th.Region); err != nil {
			return nil, err
		}
		th.Timestamp = time.Unix(0, created).UTC()
		thoughts = append(thoughts, th)
	}
	return thoughts, rows.Err()
}

func (s *SQLiteStore) ListRegions(ctx context.Context) ([]model.Region, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, area, color, description, topics FROM regions ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var regions []model.Region
	for rows.Next() {
		var r model.Region
		var topics sql.NullString
		if err := rows.Scan(&r.ID, &r.Name, &r.Area, &r.Color, &r.Description, &topics); err != nil {
			return nil, err
		}
		fromJSON(topics, &r.Topics)
		regions = append(regions, r)
	}
	return regions, rows.Err()
}

func (s *SQLiteStore) ListMentalModels(ctx context.Context, category string) ([]model.MentalModel, error) {
	query := `SELECT id, name, category, color, description, framework, engagement FROM mental_models`
	var args []interface{}
	if category != "" {
		query += ` WHERE category = ?`
		args = append(args, category)
	}
	query += ` ORDER BY seq`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var models []model.MentalModel
	for rows.Next() {
		var m model.MentalModel
		var framework sql.NullString
		if err := rows.Scan(&m.ID, &m.Name, &m.Category, &m.Color, &m.Description, &framework, &m.Engagement); err != nil {
			return nil, err
		}
		fromJSON(framework, &m.Framework)
		models = append(models, m)
	}
	return models, rows.Err()
}

func (s *SQLiteStore) ListScenarios(ctx context.Context, f ScenarioFilter) ([]model.Scenario, error) {
	where := []string{"1 = 1"}
	var args []interface{}
	if f.Category != "" {
		where = append(where, "category = ?")
		args = append(args, f.Category)
	}
	if f.Difficulty != "" {
		where = append(where, "difficulty = ?")
		args = append(args, f.Difficulty)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, description, category, difficulty, color, framework
		 FROM scenarios WHERE `+strings.Join(where, " AND ")+` ORDER BY id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scenarios []model.Scenario
	for rows.Next() {
		var sc model.Scenario
		var framework sql.NullString
		if err := rows.Scan(&sc.ID, &sc.Title, &sc.Description, &sc.Category, &sc.Difficulty, &sc.Color, &framework); err != nil {
			return nil, err
		}
		fromJSON(framework, &sc.Framework)
		scenarios = append(scenarios, sc)
	}
	return scenarios, rows.Err()
}

func (s *SQLiteStore) ListPlans(ctx context.Context) ([]model.CoachingPlan, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, subtitle, price, description, features, cta, highlighted, color FROM plans ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []model.CoachingPlan
	for rows.Next() {
		var p model.CoachingPlan
		var features sql.NullString
		if err := rows.Scan(&p.ID, &p.Name, &p.Subtitle, &p.Price, &p.Description, &features, &p.CTA, &p.Highlighted, &p.Color); err != nil {
			return nil, err
		}
		fromJSON(features, &p.Features)
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func toJSON(v interface{}) *string {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	str := string(b)
	return &str
}

func fromJSON(ns sql.NullString, v interface{}) {
	if ns.Valid {
		json.Unmarshal([]byte(ns.String), v)
	}
}

// Thought returns a single thought by id.
func (s *SQLiteStore) Thought(ctx context.Context, id string) (*model.Thought, error) {
	var th model.Thought
	var created int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id, content, created_at, type, engagement, region FROM thoughts WHERE id = ?`, id).
		Scan(&th.ID, &th.Content, &created, &th.Type, &th.Engagement, &th.Region)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("thought %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	th.Timestamp = time.Unix(0, created).UTC()
	return &th, nil
}
