package db

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/wormvis/internal/timeutil"
)

// Run statuses.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// ErrRunNotFound is returned by GetRun for an unknown id.
var ErrRunNotFound = errors.New("render run not found")

// RenderRun is one invocation of a rendering command.
type RenderRun struct {
	RunID          string
	Command        string
	TrajectoryPath string
	ObstaclesPath  string
	OutputPath     string
	Frames         int
	Status         string
	Error          string
	StartedAt      time.Time
	Duration       time.Duration
}

func (r *RenderRun) String() string {
	s := fmt.Sprintf("%s\t%s\t%s\t%s\t%d frames\t%s\t%s",
		r.RunID, r.StartedAt.UTC().Format(time.RFC3339), r.Command, r.OutputPath, r.Frames, r.Duration, r.Status)
	if r.Error != "" {
		s += "\t" + r.Error
	}
	return s
}

// RecordRun stores r, assigning a RunID when it has none.
func (db *DB) RecordRun(r *RenderRun) error {
	if r.RunID == "" {
		r.RunID = uuid.NewString()
	}
	started := float64(r.StartedAt.UnixNano()) / 1e9
	_, err := db.Exec(`
		INSERT INTO render_runs (
			run_id, command, trajectory_path, obstacles_path, output_path,
			frames, status, error, started_unix, duration_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Command, r.TrajectoryPath, r.ObstaclesPath, r.OutputPath,
		r.Frames, r.Status, r.Error, started, r.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("record run %s: %w", r.RunID, err)
	}
	return nil
}

const runColumns = `run_id, command, trajectory_path, obstacles_path, output_path,
	frames, status, error, started_unix, duration_ms`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (RenderRun, error) {
	var r RenderRun
	var started float64
	var durationMs int64
	err := row.Scan(&r.RunID, &r.Command, &r.TrajectoryPath, &r.ObstaclesPath, &r.OutputPath,
		&r.Frames, &r.Status, &r.Error, &started, &durationMs)
	if err != nil {
		return r, err
	}
	sec, frac := math.Modf(started)
	r.StartedAt = time.Unix(int64(sec), int64(math.Round(frac*1e6))*1e3).UTC()
	r.Duration = time.Duration(durationMs) * time.Millisecond
	return r, nil
}

// ListRuns returns the most recent runs, newest first. limit <= 0 returns all.
func (db *DB) ListRuns(limit int) ([]RenderRun, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := db.Query(`SELECT `+runColumns+` FROM render_runs
		ORDER BY started_unix DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []RenderRun
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun returns the run with the given id.
func (db *DB) GetRun(id string) (*RenderRun, error) {
	r, err := scanRun(db.QueryRow(`SELECT `+runColumns+` FROM render_runs WHERE run_id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// RunTracker times one run and records it when finished. A tracker with a
// nil DB only times.
type RunTracker struct {
	db  *DB
	sw  *timeutil.Stopwatch
	Run RenderRun
}

// StartRun begins timing a run of command. db may be nil.
func StartRun(db *DB, clock timeutil.Clock, command string) *RunTracker {
	sw := timeutil.Start(clock)
	return &RunTracker{
		db: db,
		sw: sw,
		Run: RenderRun{
			RunID:     uuid.NewString(),
			Command:   command,
			StartedAt: sw.Started(),
		},
	}
}

// Finish stamps the duration and outcome of the run and stores it.
func (t *RunTracker) Finish(runErr error) error {
	t.Run.Duration = t.sw.Elapsed()
	t.Run.Status = StatusOK
	if runErr != nil {
		t.Run.Status = StatusFailed
		t.Run.Error = runErr.Error()
	}
	if t.db == nil {
		return nil
	}
	return t.db.RecordRun(&t.Run)
}
