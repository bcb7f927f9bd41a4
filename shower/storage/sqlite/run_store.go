package sqlite

import (
	"database/sql"
	"encoding/json"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/drinkingkazu/pi0-reco/monitoring"
	"github.com/drinkingkazu/pi0-reco/shower"
)

//go:embed schema.sql
var schemaSQL string

// Run is one persisted estimation run.
type Run struct {
	RunID        string          `json:"run_id"`
	CreatedAt    int64           `json:"created_unix_nanos"`
	ParamsJSON   json.RawMessage `json:"params_json,omitempty"`
	NumPrimaries int             `json:"num_primaries"`
	NumPoints    int             `json:"num_points"`
}

// Direction is the persisted direction record for one primary of a run.
type Direction struct {
	RunID      string  `json:"run_id"`
	PrimaryIdx int     `json:"primary_idx"`
	Fragment   int     `json:"fragment"`
	OriginX    float64 `json:"origin_x"`
	OriginY    float64 `json:"origin_y"`
	OriginZ    float64 `json:"origin_z"`
	DirX       float64 `json:"dir_x"`
	DirY       float64 `json:"dir_y"`
	DirZ       float64 `json:"dir_z"`
}

// Open opens (creating if needed) a run archive at path and applies the
// embedded schema.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open run archive: %w", err)
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %s: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply run archive schema: %w", err)
	}
	monitoring.Logf("initialized shower run archive at %s", path)
	return db, nil
}

// RunStore provides persistence for estimation runs.
type RunStore struct {
	db *sql.DB
}

// NewRunStore creates a RunStore over an already opened database.
func NewRunStore(db *sql.DB) *RunStore {
	return &RunStore{db: db}
}

// InsertRun persists a run and its direction records in one transaction.
// If RunID is empty a UUID is generated; CreatedAt defaults to now.
func (s *RunStore) InsertRun(run *Run, directions []Direction) error {
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	if run.CreatedAt == 0 {
		run.CreatedAt = time.Now().UnixNano()
	}

	var paramsStr interface{}
	if len(run.ParamsJSON) > 0 {
		paramsStr = string(run.ParamsJSON)
	}

	return retryOnBusy(func() error {
		tx, err := s.db.Begin()
		if err != nil {
			return err
		}
		defer tx.Rollback()

		if _, err := tx.Exec(`
			INSERT INTO shower_runs (run_id, created_unix_nanos, params_json, num_primaries, num_points)
			VALUES (?, ?, ?, ?, ?)`,
			run.RunID, run.CreatedAt, paramsStr, run.NumPrimaries, run.NumPoints,
		); err != nil {
			return err
		}

		for _, d := range directions {
			if _, err := tx.Exec(`
				INSERT INTO shower_directions (run_id, primary_idx, fragment,
					origin_x, origin_y, origin_z, dir_x, dir_y, dir_z)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				run.RunID, d.PrimaryIdx, d.Fragment,
				d.OriginX, d.OriginY, d.OriginZ, d.DirX, d.DirY, d.DirZ,
			); err != nil {
				return err
			}
		}

		return tx.Commit()
	})
}

// GetRun returns one run by ID.
func (s *RunStore) GetRun(runID string) (*Run, error) {
	run := &Run{}
	var params sql.NullString
	err := s.db.QueryRow(`
		SELECT run_id, created_unix_nanos, params_json, num_primaries, num_points
		FROM shower_runs WHERE run_id = ?`, runID,
	).Scan(&run.RunID, &run.CreatedAt, &params, &run.NumPrimaries, &run.NumPoints)
	if err != nil {
		return nil, err
	}
	if params.Valid {
		run.ParamsJSON = json.RawMessage(params.String)
	}
	return run, nil
}

// ListRecent returns up to limit runs, newest first.
func (s *RunStore) ListRecent(limit int) ([]*Run, error) {
	rows, err := s.db.Query(`
		SELECT run_id, created_unix_nanos, params_json, num_primaries, num_points
		FROM shower_runs ORDER BY created_unix_nanos DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run := &Run{}
		var params sql.NullString
		if err := rows.Scan(&run.RunID, &run.CreatedAt, &params, &run.NumPrimaries, &run.NumPoints); err != nil {
			return nil, err
		}
		if params.Valid {
			run.ParamsJSON = json.RawMessage(params.String)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Directions returns the direction records of a run in primary order.
func (s *RunStore) Directions(runID string) ([]Direction, error) {
	rows, err := s.db.Query(`
		SELECT run_id, primary_idx, fragment, origin_x, origin_y, origin_z, dir_x, dir_y, dir_z
		FROM shower_directions WHERE run_id = ? ORDER BY primary_idx`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dirs []Direction
	for rows.Next() {
		var d Direction
		if err := rows.Scan(&d.RunID, &d.PrimaryIdx, &d.Fragment,
			&d.OriginX, &d.OriginY, &d.OriginZ, &d.DirX, &d.DirY, &d.DirZ); err != nil {
			return nil, err
		}
		dirs = append(dirs, d)
	}
	return dirs, rows.Err()
}

// RecordResult persists a DirectionResult with the given parameter blob,
// returning the generated run ID. Direction records are built from the
// result's per-primary assignments.
func (s *RunStore) RecordResult(result *shower.DirectionResult, params json.RawMessage) (string, error) {
	run := &Run{
		ParamsJSON:   params,
		NumPrimaries: len(result.Assignment.Primaries),
		NumPoints:    len(result.Assignment.Coords),
	}

	directions := make([]Direction, 0, len(result.Assignment.Assignments))
	for _, a := range result.Assignment.Assignments {
		p := result.Assignment.Primaries[a.Primary]
		dir := result.Directions[a.Primary]
		directions = append(directions, Direction{
			PrimaryIdx: a.Primary,
			Fragment:   a.Fragment,
			OriginX:    p.X, OriginY: p.Y, OriginZ: p.Z,
			DirX: dir.X, DirY: dir.Y, DirZ: dir.Z,
		})
	}

	if err := s.InsertRun(run, directions); err != nil {
		return "", fmt.Errorf("record estimation run: %w", err)
	}
	return run.RunID, nil
}

// retryOnBusy retries fn a few times with backoff when SQLite reports the
// database as locked or busy; other errors pass through immediately.
func retryOnBusy(fn func() error) error {
	const attempts = 5
	delay := 10 * time.Millisecond
	var err error
	for i := 0; i < attempts; i++ {
		err = fn()
		if err == nil {
			return nil
		}
		msg := err.Error()
		if !strings.Contains(msg, "database is locked") && !strings.Contains(msg, "busy") {
			return err
		}
		time.Sleep(delay)
		delay *= 2
	}
	return err
}
