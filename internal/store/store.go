// Package store handles SQLite persistence of computed runs.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/deckodds/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrRunNotFound is returned by GetRun for an unknown id.
var ErrRunNotFound = errors.New("run not found")

// Store wraps SQLite access for run history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY,
			created_at TEXT NOT NULL,
			format TEXT NOT NULL,
			deck_size INTEGER NOT NULL,
			opening_hand INTEGER NOT NULL,
			turns INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS run_categories (
			run_id INTEGER NOT NULL,
			idx INTEGER NOT NULL,
			name TEXT NOT NULL,
			size INTEGER NOT NULL,
			PRIMARY KEY (run_id, idx)
		);`,
		`CREATE TABLE IF NOT EXISTS run_probabilities (
			run_id INTEGER NOT NULL,
			idx INTEGER NOT NULL,
			turn INTEGER NOT NULL,
			probability REAL NOT NULL,
			PRIMARY KEY (run_id, idx, turn)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// SaveRun stores a run with its categories and probabilities.
func (s *Store) SaveRun(ctx context.Context, run model.Run) (id int64, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (created_at, format, deck_size, opening_hand, turns) VALUES (?, ?, ?, ?, ?)`,
		createdAt.Format(time.RFC3339Nano),
		run.Format,
		run.Deck.DeckSize,
		run.Deck.OpeningHand,
		run.Deck.Turns,
	)
	if err != nil {
		return 0, err
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for i, c := range run.Categories {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO run_categories (run_id, idx, name, size) VALUES (?, ?, ?, ?)`,
			id, i, c.Name, c.Size); err != nil {
			return 0, err
		}
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO run_probabilities (run_id, idx, turn, probability) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	for _, st := range run.Stats {
		for turn, p := range st.Probabilities {
			if _, err = stmt.ExecContext(ctx, id, st.Index, turn, p); err != nil {
				return 0, err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// ListRuns returns run summaries, newest first. last <= 0 returns all runs.
func (s *Store) ListRuns(ctx context.Context, last int) ([]model.RunSummary, error) {
	query := `SELECT r.id, r.created_at, r.format, r.deck_size, r.turns,
		(SELECT COUNT(*) FROM run_categories c WHERE c.run_id = r.id)
		FROM runs r
		ORDER BY r.created_at DESC, r.id DESC`
	args := []any{}
	if last > 0 {
		query += ` LIMIT ?`
		args = append(args, last)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var runs []model.RunSummary
	for rows.Next() {
		var sum model.RunSummary
		var createdAt string
		if err := rows.Scan(&sum.ID, &createdAt, &sum.Format, &sum.DeckSize, &sum.Turns, &sum.Categories); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, err
		}
		sum.CreatedAt = parsed
		runs = append(runs, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}

// GetRun loads a stored run with its categories and probabilities.
func (s *Store) GetRun(ctx context.Context, id int64) (model.Run, error) {
	var run model.Run
	var createdAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, format, deck_size, opening_hand, turns FROM runs WHERE id = ?`, id).
		Scan(&run.ID, &createdAt, &run.Format, &run.Deck.DeckSize, &run.Deck.OpeningHand, &run.Deck.Turns)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Run{}, fmt.Errorf("%w: %d", ErrRunNotFound, id)
		}
		return model.Run{}, err
	}
	run.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return model.Run{}, err
	}

	if err := s.loadCategories(ctx, &run); err != nil {
		return model.Run{}, err
	}
	if err := s.loadProbabilities(ctx, &run); err != nil {
		return model.Run{}, err
	}
	return run, nil
}

func (s *Store) loadCategories(ctx context.Context, run *model.Run) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT idx, name, size FROM run_categories WHERE run_id = ? ORDER BY idx ASC`, run.ID)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	for rows.Next() {
		var idx int
		var c model.Category
		if err := rows.Scan(&idx, &c.Name, &c.Size); err != nil {
			return err
		}
		run.Categories = append(run.Categories, c)
		run.Stats = append(run.Stats, model.CategoryStats{Index: idx, Name: c.Name})
	}
	return rows.Err()
}

func (s *Store) loadProbabilities(ctx context.Context, run *model.Run) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT idx, probability FROM run_probabilities WHERE run_id = ? ORDER BY idx ASC, turn ASC`, run.ID)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	for rows.Next() {
		var idx int
		var p float64
		if err := rows.Scan(&idx, &p); err != nil {
			return err
		}
		if idx < 0 || idx >= len(run.Stats) {
			return fmt.Errorf("run %d: probability for unknown category %d", run.ID, idx)
		}
		run.Stats[idx].Probabilities = append(run.Stats[idx].Probabilities, p)
	}
	return rows.Err()
}
