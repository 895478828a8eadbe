package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"sightline-hq/beacon/pkg/fallback"
	"sightline-hq/beacon/pkg/providers"
)

// AttemptError is one failed attempt inside a recorded outcome.
type AttemptError struct {
	Provider string `json:"provider"`
	Kind     string `json:"kind"`
	Message  string `json:"message"`
}

// OutcomeRecord is one persisted fallback walk.
type OutcomeRecord struct {
	ID         string         `json:"id"`
	RecordedAt time.Time      `json:"recorded_at"`
	Succeeded  bool           `json:"succeeded"`
	Provider   string         `json:"provider"`
	Attempted  []string       `json:"attempted"`
	Errors     []AttemptError `json:"errors,omitempty"`
}

// ProbeRecord is one persisted health probe result.
type ProbeRecord struct {
	ID         string        `json:"id"`
	RecordedAt time.Time     `json:"recorded_at"`
	Provider   string        `json:"provider"`
	Status     string        `json:"status"`
	Latency    time.Duration `json:"latency"`
	Error      string        `json:"error,omitempty"`
}

// Store is the SQLite-backed journal. It implements fallback.Recorder.
type Store struct {
	db   *sql.DB
	keep int
	log  *slog.Logger
}

const schema = `
CREATE TABLE IF NOT EXISTS outcomes (
	id          TEXT PRIMARY KEY,
	recorded_at INTEGER NOT NULL,
	succeeded   INTEGER NOT NULL,
	provider    TEXT NOT NULL,
	attempted   TEXT NOT NULL,
	errors      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_outcomes_recorded_at ON outcomes(recorded_at);

CREATE TABLE IF NOT EXISTS probes (
	id          TEXT PRIMARY KEY,
	recorded_at INTEGER NOT NULL,
	provider    TEXT NOT NULL,
	status      TEXT NOT NULL,
	latency_ms  INTEGER NOT NULL,
	error       TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_probes_recorded_at ON probes(recorded_at);
`

// Open creates or opens a journal at the given path. keep caps the retained
// records per table; zero disables pruning.
func Open(path string, keep int) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("journal path cannot be empty")
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening journal database: %w", err)
	}

	// SQLite supports a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing journal schema: %w", err)
	}

	return &Store{
		db:   db,
		keep: keep,
		log:  slog.Default().With("component", "journal"),
	}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordOutcome implements fallback.Recorder. Persistence failures are
// logged, never surfaced: diagnostics must not break the invocation path.
func (s *Store) RecordOutcome(ctx context.Context, outcome *fallback.Outcome) {
	record := OutcomeRecord{
		ID:         uuid.NewString(),
		RecordedAt: time.Now(),
		Succeeded:  outcome.Succeeded(),
		Provider:   outcome.Provider,
		Attempted:  outcome.Attempted,
	}
	for _, perr := range outcome.Errors {
		record.Errors = append(record.Errors, AttemptError{
			Provider: perr.Provider,
			Kind:     string(perr.Kind),
			Message:  perr.Message,
		})
	}

	attempted, err := json.Marshal(record.Attempted)
	if err != nil {
		s.log.Warn("journal encode failed", "error", err)
		return
	}
	errs, err := json.Marshal(record.Errors)
	if err != nil {
		s.log.Warn("journal encode failed", "error", err)
		return
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO outcomes (id, recorded_at, succeeded, provider, attempted, errors) VALUES (?, ?, ?, ?, ?, ?)`,
		record.ID, record.RecordedAt.UnixMilli(), boolInt(record.Succeeded), record.Provider,
		string(attempted), string(errs))
	if err != nil {
		s.log.Warn("journal write failed", "error", err)
		return
	}
	s.prune(ctx, "outcomes")
}

// RecordProbe persists one health probe result.
func (s *Store) RecordProbe(ctx context.Context, report providers.ProviderHealth) {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO probes (id, recorded_at, provider, status, latency_ms, error) VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), report.LastChecked.UnixMilli(), report.Provider,
		string(report.Status), report.Latency.Milliseconds(), report.Error)
	if err != nil {
		s.log.Warn("journal write failed", "error", err)
		return
	}
	s.prune(ctx, "probes")
}

// RecentOutcomes returns the newest n recorded outcomes, newest first.
func (s *Store) RecentOutcomes(ctx context.Context, n int) ([]OutcomeRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, recorded_at, succeeded, provider, attempted, errors
		 FROM outcomes ORDER BY recorded_at DESC, id LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("querying outcomes: %w", err)
	}
	defer rows.Close()

	var records []OutcomeRecord
	for rows.Next() {
		var (
			record              OutcomeRecord
			recordedAt          int64
			succeeded           int
			attempted, errsJSON string
		)
		if err := rows.Scan(&record.ID, &recordedAt, &succeeded, &record.Provider, &attempted, &errsJSON); err != nil {
			return nil, fmt.Errorf("scanning outcome: %w", err)
		}
		record.RecordedAt = time.UnixMilli(recordedAt)
		record.Succeeded = succeeded != 0
		if err := json.Unmarshal([]byte(attempted), &record.Attempted); err != nil {
			return nil, fmt.Errorf("decoding attempted list: %w", err)
		}
		if err := json.Unmarshal([]byte(errsJSON), &record.Errors); err != nil {
			return nil, fmt.Errorf("decoding error list: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// RecentProbes returns the newest n probe records, newest first.
func (s *Store) RecentProbes(ctx context.Context, n int) ([]ProbeRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, recorded_at, provider, status, latency_ms, error
		 FROM probes ORDER BY recorded_at DESC, id LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("querying probes: %w", err)
	}
	defer rows.Close()

	var records []ProbeRecord
	for rows.Next() {
		var (
			record     ProbeRecord
			recordedAt int64
			latencyMS  int64
		)
		if err := rows.Scan(&record.ID, &recordedAt, &record.Provider, &record.Status, &latencyMS, &record.Error); err != nil {
			return nil, fmt.Errorf("scanning probe: %w", err)
		}
		record.RecordedAt = time.UnixMilli(recordedAt)
		record.Latency = time.Duration(latencyMS) * time.Millisecond
		records = append(records, record)
	}
	return records, rows.Err()
}

// prune drops the oldest rows past the retention cap.
func (s *Store) prune(ctx context.Context, table string) {
	if s.keep <= 0 {
		return
	}
	query := fmt.Sprintf(
		`DELETE FROM %s WHERE id NOT IN (SELECT id FROM %s ORDER BY recorded_at DESC, id LIMIT ?)`,
		table, table)
	if _, err := s.db.ExecContext(ctx, query, s.keep); err != nil {
		s.log.Warn("journal prune failed", "table", table, "error", err)
	}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
