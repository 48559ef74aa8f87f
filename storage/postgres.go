package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

// PostgresStore persists the seen-set in PostgreSQL, for deployments where a
// local state file is not durable (containers, ephemeral hosts).
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresStore.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	ps := &PostgresStore{db: db}
	if err := ps.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return ps, nil
}

func (ps *PostgresStore) migrate() error {
	_, err := ps.db.Exec(`
		CREATE TABLE IF NOT EXISTS seen_listings (
			fingerprint VARCHAR(16) PRIMARY KEY,
			first_seen  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`)
	return err
}

// Load reads every persisted fingerprint. An empty table is the bootstrap
// condition, not an error.
func (ps *PostgresStore) Load() (*SeenSet, error) {
	rows, err := ps.db.Query(`SELECT fingerprint FROM seen_listings`)
	if err != nil {
		return nil, fmt.Errorf("postgres: load: %w", err)
	}
	defer rows.Close()

	set := NewSeenSet()
	for rows.Next() {
		var fp string
		if err := rows.Scan(&fp); err != nil {
			return nil, fmt.Errorf("postgres: scan fingerprint: %w", err)
		}
		set.Add(fp)
	}
	return set, rows.Err()
}

// Save batch-inserts the set; existing fingerprints are left untouched, so
// the persisted table is always the union of everything ever saved.
func (ps *PostgresStore) Save(set *SeenSet) error {
	fingerprints := set.Sorted()
	if len(fingerprints) == 0 {
		return nil
	}

	const batchSize = 200
	for i := 0; i < len(fingerprints); i += batchSize {
		end := i + batchSize
		if end > len(fingerprints) {
			end = len(fingerprints)
		}
		if err := ps.insertBatch(fingerprints[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (ps *PostgresStore) insertBatch(batch []string) error {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch))

	for idx, fp := range batch {
		valueStrings = append(valueStrings, fmt.Sprintf("($%d)", idx+1))
		valueArgs = append(valueArgs, fp)
	}

	query := fmt.Sprintf(`
		INSERT INTO seen_listings (fingerprint)
		VALUES %s
		ON CONFLICT (fingerprint) DO NOTHING
	`, strings.Join(valueStrings, ","))

	_, err := ps.db.Exec(query, valueArgs...)
	if err != nil {
		return fmt.Errorf("postgres: insert batch: %w", err)
	}
	return nil
}

func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}
