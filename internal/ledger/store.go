package ledger

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/calder-labs/maestro/pkg/models"
)

// Sample is one persisted attempt record.
type Sample struct {
	BackendID string
	TaskType  models.TaskType
	Latency   time.Duration
	Quality   float64
	Success   bool
	CreatedAt time.Time
}

// Store provides SQLite-backed persistence for ledger samples, so backend
// statistics survive process restarts.
type Store struct {
	db     *sql.DB
	dbPath string
	mu     sync.Mutex
}

// DefaultDBPath returns the path of the maestro history database.
func DefaultDBPath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, _ := os.UserHomeDir()
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "maestro", "history.db")
}

// NewStore opens (creating if needed) the sample database at dbPath.
func NewStore(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for concurrent reads
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	store := &Store{db: conn, dbPath: dbPath}
	if err := store.migrate(); err != nil {
		conn.Close()
		return nil, err
	}

	return store, nil
}

// migrate creates the samples table if it does not exist.
func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS samples (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			backend_id TEXT NOT NULL,
			task_type TEXT NOT NULL,
			latency_ms INTEGER NOT NULL,
			quality REAL NOT NULL,
			success INTEGER NOT NULL,
			created_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_samples_backend_type
			ON samples(backend_id, task_type);
	`)
	if err != nil {
		return fmt.Errorf("migrate samples table: %w", err)
	}
	return nil
}

// Append persists one sample.
func (s *Store) Append(sample Sample) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	successInt := 0
	if sample.Success {
		successInt = 1
	}

	_, err := s.db.Exec(`
		INSERT INTO samples (backend_id, task_type, latency_ms, quality, success, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, sample.BackendID, string(sample.TaskType), sample.Latency.Milliseconds(),
		sample.Quality, successInt, sample.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("insert sample: %w", err)
	}
	return nil
}

// All returns every persisted sample, oldest first.
func (s *Store) All() ([]Sample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`
		SELECT backend_id, task_type, latency_ms, quality, success, created_at
		FROM samples ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query samples: %w", err)
	}
	defer rows.Close()

	var samples []Sample
	for rows.Next() {
		var (
			sample    Sample
			taskType  string
			latencyMS int64
			success   int
			createdAt string
		)
		if err := rows.Scan(&sample.BackendID, &taskType, &latencyMS, &sample.Quality, &success, &createdAt); err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}
		sample.TaskType = models.TaskType(taskType)
		sample.Latency = time.Duration(latencyMS) * time.Millisecond
		sample.Success = success == 1
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			sample.CreatedAt = t
		}
		samples = append(samples, sample)
	}

	return samples, rows.Err()
}

// Replay feeds every persisted sample back into a ledger, warm-starting
// its statistics from a previous run.
func (s *Store) Replay(l *Ledger) error {
	samples, err := s.All()
	if err != nil {
		return err
	}
	for _, sample := range samples {
		l.Record(sample.BackendID, sample.TaskType, sample.Latency, sample.Quality, sample.Success)
	}
	return nil
}

// Path returns the path to the database file.
func (s *Store) Path() string {
	return s.dbPath
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
