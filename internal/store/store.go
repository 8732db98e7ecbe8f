// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists pipeline results in a SQLite database under the
// data directory. A run replaces the previous canonical set wholesale,
// so re-running the pipeline over the same input leaves the database in
// the same state.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mlaurent/halindex/internal/namenorm"
	"github.com/mlaurent/halindex/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "halindex.db"
)

// Store manages the results SQLite database.
type Store struct {
	db      *sql.DB
	dataDir string
}

// RunRecord summarizes one persisted pipeline run.
type RunRecord struct {
	ID         int64     `json:"id" yaml:"id"`
	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	RawRecords int       `json:"raw_records" yaml:"raw_records"`
	Canonical  int       `json:"canonical" yaml:"canonical"`
	Attributed int       `json:"attributed" yaml:"attributed"`
	Malformed  int       `json:"malformed" yaml:"malformed"`
	Ambiguous  int       `json:"ambiguous" yaml:"ambiguous"`
}

// NewStore opens or creates the database at dataDir/index/halindex.db,
// creating the schema when missing.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.DataDir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, dataDir: cfg.DataDir}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS publications (
			key TEXT PRIMARY KEY,
			archive_id TEXT,
			title TEXT NOT NULL,
			year INTEGER NOT NULL,
			date TEXT,
			venue TEXT,
			doc_type TEXT,
			topics TEXT,
			sources TEXT,
			merged_from INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS attributions (
			publication_key TEXT NOT NULL REFERENCES publications(key) ON DELETE CASCADE,
			scientist_key TEXT NOT NULL,
			confidence TEXT NOT NULL,
			score REAL NOT NULL,
			mention TEXT,
			PRIMARY KEY (publication_key, scientist_key)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_attributions_scientist ON attributions(scientist_key)`,
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at TEXT NOT NULL,
			raw_records INTEGER,
			canonical INTEGER,
			attributed INTEGER,
			malformed INTEGER,
			ambiguous INTEGER
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// publicationKey is the stable row key: the archive identifier when
// present, otherwise the content key the deduplicator uses.
func publicationKey(p *types.CanonicalPublication) string {
	if p.ArchiveID != "" {
		return p.ArchiveID
	}
	return fmt.Sprintf("%s|%d|%s",
		namenorm.NormalizeText(p.Title), p.Year, namenorm.NormalizeText(p.Venue))
}

// SaveRun replaces the stored canonical set with pubs and records the run
// counters. The whole replacement happens in one transaction.
func (s *Store) SaveRun(ctx context.Context, pubs []*types.CanonicalPublication, rec RunRecord) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM publications`); err != nil {
		return 0, fmt.Errorf("clearing publications: %w", err)
	}

	pubStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO publications (key, archive_id, title, year, date, venue, doc_type, topics, sources, merged_from)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing publication insert: %w", err)
	}
	defer pubStmt.Close()

	attrStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO attributions (publication_key, scientist_key, confidence, score, mention)
		 VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing attribution insert: %w", err)
	}
	defer attrStmt.Close()

	for _, pub := range pubs {
		key := publicationKey(pub)
		topicsJSON, _ := json.Marshal(pub.Topics)
		sourcesJSON, _ := json.Marshal(pub.Sources)
		dateStr := ""
		if !pub.Date.IsZero() {
			dateStr = pub.Date.Format(time.RFC3339)
		}
		if _, err := pubStmt.ExecContext(ctx,
			key, pub.ArchiveID, pub.Title, pub.Year, dateStr,
			pub.Venue, pub.DocType, string(topicsJSON), string(sourcesJSON), pub.MergedFrom,
		); err != nil {
			return 0, fmt.Errorf("inserting publication %s: %w", key, err)
		}

		for _, attr := range pub.Attributions {
			if _, err := attrStmt.ExecContext(ctx,
				key, attr.ScientistKey, string(attr.Confidence), attr.Score, attr.Mention,
			); err != nil {
				return 0, fmt.Errorf("inserting attribution %s/%s: %w", key, attr.ScientistKey, err)
			}
		}
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (started_at, raw_records, canonical, attributed, malformed, ambiguous)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.StartedAt.UTC().Format(time.RFC3339Nano),
		rec.RawRecords, rec.Canonical, rec.Attributed, rec.Malformed, rec.Ambiguous,
	)
	if err != nil {
		return 0, fmt.Errorf("recording run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// LoadPublications reads the stored canonical set back, with
// attributions, ordered by year then title.
func (s *Store) LoadPublications(ctx context.Context) ([]*types.CanonicalPublication, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, archive_id, title, year, date, venue, doc_type, topics, sources, merged_from
		 FROM publications ORDER BY year, title, key`)
	if err != nil {
		return nil, fmt.Errorf("querying publications: %w", err)
	}
	defer rows.Close()

	var pubs []*types.CanonicalPublication
	keys := make(map[string]*types.CanonicalPublication)
	for rows.Next() {
		var key, archiveID, title, dateStr, venue, docType, topicsJSON, sourcesJSON string
		var year, mergedFrom int
		if err := rows.Scan(&key, &archiveID, &title, &year, &dateStr,
			&venue, &docType, &topicsJSON, &sourcesJSON, &mergedFrom); err != nil {
			return nil, fmt.Errorf("scanning publication: %w", err)
		}
		pub := &types.CanonicalPublication{
			ArchiveID:  archiveID,
			Title:      title,
			Year:       year,
			Venue:      venue,
			DocType:    docType,
			MergedFrom: mergedFrom,
		}
		if dateStr != "" {
			if t, err := time.Parse(time.RFC3339, dateStr); err == nil {
				pub.Date = t
			}
		}
		json.Unmarshal([]byte(topicsJSON), &pub.Topics)
		json.Unmarshal([]byte(sourcesJSON), &pub.Sources)
		pubs = append(pubs, pub)
		keys[key] = pub
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating publications: %w", err)
	}

	if err := s.attachAttributions(ctx, keys); err != nil {
		return nil, err
	}
	return pubs, nil
}

func (s *Store) attachAttributions(ctx context.Context, pubs map[string]*types.CanonicalPublication) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT publication_key, scientist_key, confidence, score, mention
		 FROM attributions ORDER BY publication_key, scientist_key`)
	if err != nil {
		return fmt.Errorf("querying attributions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var pubKey, scientistKey, confidence, mention string
		var score float64
		if err := rows.Scan(&pubKey, &scientistKey, &confidence, &score, &mention); err != nil {
			return fmt.Errorf("scanning attribution: %w", err)
		}
		pub, ok := pubs[pubKey]
		if !ok {
			continue
		}
		pub.Attributions = append(pub.Attributions, types.Attribution{
			ScientistKey: scientistKey,
			Confidence:   types.Confidence(confidence),
			Score:        score,
			Mention:      mention,
		})
	}
	return rows.Err()
}

// ScientistCounts returns the number of counted publications per
// scientist, ordered by count descending then key.
func (s *Store) ScientistCounts(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT scientist_key, COUNT(*) FROM attributions
		 WHERE confidence IN (?, ?)
		 GROUP BY scientist_key`,
		string(types.Certain), string(types.Probable))
	if err != nil {
		return nil, fmt.Errorf("querying scientist counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return nil, fmt.Errorf("scanning scientist count: %w", err)
		}
		counts[key] = n
	}
	return counts, rows.Err()
}

// LastRun returns the most recent run record, or sql.ErrNoRows when no
// run has been stored.
func (s *Store) LastRun(ctx context.Context) (RunRecord, error) {
	var rec RunRecord
	var started string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, started_at, raw_records, canonical, attributed, malformed, ambiguous
		 FROM runs ORDER BY id DESC LIMIT 1`).
		Scan(&rec.ID, &started, &rec.RawRecords, &rec.Canonical,
			&rec.Attributed, &rec.Malformed, &rec.Ambiguous)
	if err != nil {
		return RunRecord{}, err
	}
	if t, perr := time.Parse(time.RFC3339Nano, strings.TrimSpace(started)); perr == nil {
		rec.StartedAt = t
	}
	return rec, nil
}
