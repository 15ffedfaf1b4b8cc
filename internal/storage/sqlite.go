//go:build sqlite

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"planitia/internal/model"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func (s *SQLiteStore) SaveSequenceSet(ctx context.Context, set model.SequenceSet) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	payload, err := EncodeSequenceSet(set)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO sequence_sets (id, schema_version, codec_version, created_at_utc, payload)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			schema_version = excluded.schema_version,
			codec_version = excluded.codec_version,
			created_at_utc = excluded.created_at_utc,
			payload = excluded.payload
	`, set.ID, set.SchemaVersion, set.CodecVersion, set.CreatedAtUTC, payload)
	return err
}

func (s *SQLiteStore) GetSequenceSet(ctx context.Context, id string) (model.SequenceSet, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return model.SequenceSet{}, false, err
	}

	var payload []byte
	err = db.QueryRowContext(ctx, `SELECT payload FROM sequence_sets WHERE id = ?`, id).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.SequenceSet{}, false, nil
		}
		return model.SequenceSet{}, false, err
	}

	set, err := DecodeSequenceSet(payload)
	if err != nil {
		return model.SequenceSet{}, false, fmt.Errorf("decode sequence set %s: %w", id, err)
	}
	return set, true, nil
}

func (s *SQLiteStore) ListSequenceSets(ctx context.Context) ([]model.SequenceSet, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT id, payload FROM sequence_sets`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sets []model.SequenceSet
	for rows.Next() {
		var (
			id      string
			payload []byte
		)
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, err
		}
		set, err := DecodeSequenceSet(payload)
		if err != nil {
			return nil, fmt.Errorf("decode sequence set %s: %w", id, err)
		}
		sets = append(sets, set)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sortNewestFirst(sets)
	return sets, nil
}

func (s *SQLiteStore) SaveFlatnessReport(ctx context.Context, report model.FlatnessReport) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	payload, err := EncodeFlatnessReport(report)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO flatness_reports (id, schema_version, codec_version, payload)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			schema_version = excluded.schema_version,
			codec_version = excluded.codec_version,
			payload = excluded.payload
	`, report.ID, report.SchemaVersion, report.CodecVersion, payload)
	return err
}

func (s *SQLiteStore) GetFlatnessReport(ctx context.Context, id string) (model.FlatnessReport, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return model.FlatnessReport{}, false, err
	}

	var payload []byte
	err = db.QueryRowContext(ctx, `SELECT payload FROM flatness_reports WHERE id = ?`, id).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.FlatnessReport{}, false, nil
		}
		return model.FlatnessReport{}, false, err
	}

	report, err := DecodeFlatnessReport(payload)
	if err != nil {
		return model.FlatnessReport{}, false, fmt.Errorf("decode flatness report %s: %w", id, err)
	}
	return report, true, nil
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("store is not initialized")
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS sequence_sets (
			id TEXT PRIMARY KEY,
			schema_version INTEGER NOT NULL,
			codec_version INTEGER NOT NULL,
			created_at_utc TEXT NOT NULL,
			payload BLOB NOT NULL
		);
		CREATE TABLE IF NOT EXISTS flatness_reports (
			id TEXT PRIMARY KEY,
			schema_version INTEGER NOT NULL,
			codec_version INTEGER NOT NULL,
			payload BLOB NOT NULL
		);
	`)
	return err
}
