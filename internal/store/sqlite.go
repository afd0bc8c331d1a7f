package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/spendwise-app/spendwise/internal/apperrors"
	"github.com/spendwise-app/spendwise/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore keeps the blob in a one-row key-value table in a local SQLite
// file. The mutex serializes the read-modify-write cycles of this process;
// it does not make the file safe for concurrent writer processes.
type SQLiteStore struct {
	db  *sql.DB
	mu  sync.Mutex
	log zerolog.Logger
}

// NewSQLiteStore opens (creating if needed) the database at dbPath.
func NewSQLiteStore(dbPath string, log zerolog.Logger) (*SQLiteStore, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("dbPath must not be empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0750); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS kv (
		key        TEXT PRIMARY KEY,
		value      BLOB NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("create kv table: %w", err)
	}

	return &SQLiteStore{db: db, log: log}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) GetAll(ctx context.Context) ([]model.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getAllLocked(ctx)
}

func (s *SQLiteStore) getAllLocked(ctx context.Context) ([]model.Transaction, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, storageKey).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return []model.Transaction{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read transactions blob: %w", err)
	}

	var txns []model.Transaction
	if err := json.Unmarshal(blob, &txns); err != nil {
		s.log.Warn().Err(err).Msg("Stored transactions blob is corrupted, treating store as empty")
		return []model.Transaction{}, nil
	}
	return txns, nil
}

func (s *SQLiteStore) SaveAll(ctx context.Context, txns []model.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveAllLocked(ctx, txns)
}

func (s *SQLiteStore) saveAllLocked(ctx context.Context, txns []model.Transaction) error {
	if txns == nil {
		txns = []model.Transaction{}
	}
	blob, err := json.Marshal(txns)
	if err != nil {
		return fmt.Errorf("marshal transactions: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		storageKey, blob, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("write transactions blob: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Add(ctx context.Context, protos []model.ProtoTransaction) ([]model.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.getAllLocked(ctx)
	if err != nil {
		return nil, err
	}

	records := model.NewBatch(protos)
	if err := s.saveAllLocked(ctx, append(existing, records...)); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *SQLiteStore) DeleteByID(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.getAllLocked(ctx)
	if err != nil {
		return err
	}

	kept := make([]model.Transaction, 0, len(existing))
	for _, t := range existing {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(existing) {
		return apperrors.ErrTransactionNotFound
	}
	return s.saveAllLocked(ctx, kept)
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, storageKey); err != nil {
		return fmt.Errorf("clear transactions blob: %w", err)
	}
	return nil
}

var _ Store = (*SQLiteStore)(nil)
