package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/FocuswithJustin/chronoplan/core/errors"
	"github.com/FocuswithJustin/chronoplan/core/plan"
	"github.com/FocuswithJustin/chronoplan/core/sqlite"
)

// Reading order is kept by seq, since a plan may list the same day twice.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS plans (
		provider    TEXT PRIMARY KEY,
		name        TEXT NOT NULL DEFAULT '',
		methodology TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS readings (
		provider TEXT NOT NULL REFERENCES plans(provider) ON DELETE CASCADE,
		seq      INTEGER NOT NULL,
		day      INTEGER NOT NULL,
		minutes  INTEGER NOT NULL,
		context  TEXT,
		PRIMARY KEY (provider, seq)
	)`,
	`CREATE TABLE IF NOT EXISTS passages (
		provider        TEXT NOT NULL,
		reading_seq     INTEGER NOT NULL,
		seq             INTEGER NOT NULL,
		book            TEXT NOT NULL,
		chapter_start   INTEGER NOT NULL,
		chapter_end     INTEGER NOT NULL,
		testament       TEXT NOT NULL,
		parallel_events TEXT,
		PRIMARY KEY (provider, reading_seq, seq),
		FOREIGN KEY (provider, reading_seq) REFERENCES readings(provider, seq) ON DELETE CASCADE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_readings_day ON readings(provider, day)`,
}

// SQLite is a Store backed by a SQLite database.
type SQLite struct {
	path string
	db   *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path and applies the
// schema. Use ":memory:" for a private in-memory database.
func OpenSQLite(path string) (*SQLite, error) {
	open := sqlite.OpenMemory
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errors.NewIO("create directory", filepath.Dir(path), err)
		}
		open = func() (*sql.DB, error) { return sqlite.Open(path) }
	}
	db, err := open()
	if err != nil {
		return nil, errors.NewIO("open database", path, err)
	}
	s := &SQLite{path: path, db: db}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Path returns the database location.
func (s *SQLite) Path() string {
	return s.path
}

func (s *SQLite) migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return errors.NewIO("apply schema", s.path, err)
		}
	}
	return nil
}

func (s *SQLite) List(ctx context.Context) ([]*plan.ReadingPlan, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT provider FROM plans ORDER BY provider`)
	if err != nil {
		return nil, errors.NewIO("list plans", s.path, err)
	}
	var providers []plan.Provider
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			rows.Close()
			return nil, errors.NewIO("list plans", s.path, err)
		}
		providers = append(providers, plan.Provider(p))
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, errors.NewIO("list plans", s.path, err)
	}

	out := make([]*plan.ReadingPlan, 0, len(providers))
	for _, provider := range providers {
		p, err := s.Get(ctx, provider)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *SQLite) Get(ctx context.Context, provider plan.Provider) (*plan.ReadingPlan, error) {
	var (
		name        string
		methodology string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT name, methodology FROM plans WHERE provider = ?`, string(provider),
	).Scan(&name, &methodology)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(provider)
	}
	if err != nil {
		return nil, errors.NewIO("get plan", s.path, err)
	}

	p := &plan.ReadingPlan{Provider: provider, Name: name}
	if err := json.Unmarshal([]byte(methodology), &p.Methodology); err != nil {
		return nil, errors.NewParse("methodology", s.path, err.Error())
	}

	seqIndex, err := s.loadReadings(ctx, p)
	if err != nil {
		return nil, err
	}
	if err := s.loadPassages(ctx, p, seqIndex); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *SQLite) loadReadings(ctx context.Context, p *plan.ReadingPlan) (map[int]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, day, minutes, context FROM readings WHERE provider = ? ORDER BY seq`,
		string(p.Provider))
	if err != nil {
		return nil, errors.NewIO("load readings", s.path, err)
	}
	defer rows.Close()

	seqIndex := make(map[int]int)
	for rows.Next() {
		var (
			seq     int
			r       plan.DailyReading
			hcJSON  sql.NullString
		)
		if err := rows.Scan(&seq, &r.Day, &r.ReadingTimeMinutes, &hcJSON); err != nil {
			return nil, errors.NewIO("load readings", s.path, err)
		}
		if hcJSON.Valid {
			var hc plan.HistoricalContext
			if err := json.Unmarshal([]byte(hcJSON.String), &hc); err != nil {
				return nil, errors.NewParse("historical context", s.path, err.Error())
			}
			r.HistoricalContext = &hc
		}
		seqIndex[seq] = len(p.DailyReadings)
		p.DailyReadings = append(p.DailyReadings, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewIO("load readings", s.path, err)
	}
	return seqIndex, nil
}

func (s *SQLite) loadPassages(ctx context.Context, p *plan.ReadingPlan, seqIndex map[int]int) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT reading_seq, book, chapter_start, chapter_end, testament, parallel_events
		 FROM passages WHERE provider = ? ORDER BY reading_seq, seq`,
		string(p.Provider))
	if err != nil {
		return errors.NewIO("load passages", s.path, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			readingSeq int
			ps         plan.BiblePassage
			testament  string
			events     sql.NullString
		)
		if err := rows.Scan(&readingSeq, &ps.Book, &ps.ChapterStart, &ps.ChapterEnd, &testament, &events); err != nil {
			return errors.NewIO("load passages", s.path, err)
		}
		ps.Testament = plan.Testament(testament)
		if events.Valid {
			if err := json.Unmarshal([]byte(events.String), &ps.ParallelEvents); err != nil {
				return errors.NewParse("parallel events", s.path, err.Error())
			}
		}
		i, ok := seqIndex[readingSeq]
		if !ok {
			return errors.NewParse("passages", s.path, fmt.Sprintf("orphan passage for reading %d", readingSeq))
		}
		p.DailyReadings[i].Passages = append(p.DailyReadings[i].Passages, ps)
	}
	if err := rows.Err(); err != nil {
		return errors.NewIO("load passages", s.path, err)
	}
	return nil
}

func (s *SQLite) Put(ctx context.Context, p *plan.ReadingPlan) error {
	if err := checkPut(p); err != nil {
		return err
	}
	methodology, err := json.Marshal(p.Methodology)
	if err != nil {
		return errors.Wrap(err, "encode methodology")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.NewIO("begin transaction", s.path, err)
	}
	defer tx.Rollback()

	provider := string(p.Provider)
	if err := deletePlan(ctx, tx, provider); err != nil {
		return errors.NewIO("replace plan", s.path, err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO plans (provider, name, methodology) VALUES (?, ?, ?)`,
		provider, p.Name, string(methodology)); err != nil {
		return errors.NewIO("insert plan", s.path, err)
	}

	for seq, r := range p.DailyReadings {
		var hcJSON sql.NullString
		if r.HistoricalContext != nil {
			b, err := json.Marshal(r.HistoricalContext)
			if err != nil {
				return errors.Wrap(err, "encode historical context")
			}
			hcJSON = sql.NullString{String: string(b), Valid: true}
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO readings (provider, seq, day, minutes, context) VALUES (?, ?, ?, ?, ?)`,
			provider, seq, r.Day, r.ReadingTimeMinutes, hcJSON); err != nil {
			return errors.NewIO("insert reading", s.path, err)
		}
		for pseq, ps := range r.Passages {
			var events sql.NullString
			if len(ps.ParallelEvents) > 0 {
				b, err := json.Marshal(ps.ParallelEvents)
				if err != nil {
					return errors.Wrap(err, "encode parallel events")
				}
				events = sql.NullString{String: string(b), Valid: true}
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO passages (provider, reading_seq, seq, book, chapter_start, chapter_end, testament, parallel_events)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				provider, seq, pseq, ps.Book, ps.ChapterStart, ps.ChapterEnd, string(ps.Testament), events); err != nil {
				return errors.NewIO("insert passage", s.path, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.NewIO("commit", s.path, err)
	}
	return nil
}

func (s *SQLite) Delete(ctx context.Context, provider plan.Provider) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.NewIO("begin transaction", s.path, err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM plans WHERE provider = ?`, string(provider))
	if err != nil {
		return errors.NewIO("delete plan", s.path, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.NewIO("delete plan", s.path, err)
	}
	if n == 0 {
		return notFound(provider)
	}
	if err := deletePlan(ctx, tx, string(provider)); err != nil {
		return errors.NewIO("delete plan", s.path, err)
	}
	if err := tx.Commit(); err != nil {
		return errors.NewIO("commit", s.path, err)
	}
	return nil
}

// deletePlan removes a plan's rows, child tables first. It does not rely on
// foreign key cascades.
func deletePlan(ctx context.Context, tx *sql.Tx, provider string) error {
	for _, stmt := range []string{
		`DELETE FROM passages WHERE provider = ?`,
		`DELETE FROM readings WHERE provider = ?`,
		`DELETE FROM plans WHERE provider = ?`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, provider); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLite) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
