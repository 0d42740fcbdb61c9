// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store archives completed classification run reports in a
// SQLite database so past runs stay queryable by full-text search and
// verdict without re-reading report files.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/jadmax0w0/conference-paper-scrapper/internal/report"
	"github.com/jadmax0w0/conference-paper-scrapper/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "archive.db"
)

// Store manages the run-archive SQLite database.
type Store struct {
	db         *sql.DB
	archiveDir string
	maxResults int
}

// NewStore opens or creates the archive database at
// archiveDir/index/archive.db, creating the schema if needed.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.ArchiveDir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{
		db:         db,
		archiveDir: cfg.ArchiveDir,
		maxResults: maxResults,
	}

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
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			report_path TEXT NOT NULL UNIQUE,
			topic_desc TEXT,
			venue TEXT,
			year TEXT,
			file_mod_time TEXT,
			indexed_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS results (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL REFERENCES runs(id),
			paper_title TEXT NOT NULL,
			paper_abstract TEXT,
			verdict INTEGER,
			raw_analysis TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_results_run_id ON results(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_results_verdict ON results(verdict)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='results_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE results_fts USING fts5(paper_title, paper_abstract, content=results, content_rowid=rowid)`,
			`CREATE TRIGGER results_ai AFTER INSERT ON results BEGIN
				INSERT INTO results_fts(rowid, paper_title, paper_abstract)
				VALUES (new.rowid, new.paper_title, new.paper_abstract);
			END`,
			`CREATE TRIGGER results_ad AFTER DELETE ON results BEGIN
				INSERT INTO results_fts(results_fts, rowid, paper_title, paper_abstract)
				VALUES('delete', old.rowid, old.paper_title, old.paper_abstract);
			END`,
			`CREATE TRIGGER results_au AFTER UPDATE ON results BEGIN
				INSERT INTO results_fts(results_fts, rowid, paper_title, paper_abstract)
				VALUES('delete', old.rowid, old.paper_title, old.paper_abstract);
				INSERT INTO results_fts(rowid, paper_title, paper_abstract)
				VALUES (new.rowid, new.paper_title, new.paper_abstract);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// Index ingests one report file into the archive. Unchanged reports are
// skipped; a changed report replaces its previous results. The skipped
// return value indicates whether ingestion was skipped.
func (s *Store) Index(ctx context.Context, reportPath string, w io.Writer) (skipped bool, err error) {
	info, err := os.Stat(reportPath)
	if err != nil {
		return false, fmt.Errorf("stat report %s: %w", reportPath, err)
	}
	modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

	var runID int64
	var storedModTime string
	err = s.db.QueryRowContext(ctx,
		`SELECT id, file_mod_time FROM runs WHERE report_path = ?`, reportPath,
	).Scan(&runID, &storedModTime)

	if err == nil && storedModTime == modTime {
		fmt.Fprintf(w, "skipped %s (unchanged)\n", reportPath)
		return true, nil
	}
	isUpdate := err == nil

	rep, err := report.Read(reportPath)
	if err != nil {
		return false, err
	}

	if err := s.indexRun(ctx, reportPath, rep, modTime, isUpdate, runID); err != nil {
		return false, err
	}

	if isUpdate {
		fmt.Fprintf(w, "updated %s (%d results)\n", reportPath, len(rep.Results))
	} else {
		fmt.Fprintf(w, "indexed %s (%d results)\n", reportPath, len(rep.Results))
	}
	return false, nil
}

func (s *Store) indexRun(ctx context.Context, reportPath string, rep *types.RunReport, modTime string, isUpdate bool, runID int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if isUpdate {
		if _, err := tx.ExecContext(ctx, `DELETE FROM results WHERE run_id = ?`, runID); err != nil {
			return fmt.Errorf("deleting old results: %w", err)
		}
		_, err = tx.ExecContext(ctx,
			`UPDATE runs SET topic_desc = ?, venue = ?, year = ?, file_mod_time = ?, indexed_at = ?
			 WHERE id = ?`,
			rep.Topic.Description, rep.Topic.Venue, rep.Topic.Year,
			modTime, time.Now().UTC().Format(time.RFC3339), runID,
		)
		if err != nil {
			return fmt.Errorf("updating run: %w", err)
		}
	} else {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO runs (report_path, topic_desc, venue, year, file_mod_time, indexed_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			reportPath, rep.Topic.Description, rep.Topic.Venue, rep.Topic.Year,
			modTime, time.Now().UTC().Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("inserting run: %w", err)
		}
		runID, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("reading run id: %w", err)
		}
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO results (run_id, paper_title, paper_abstract, verdict, raw_analysis)
		 VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rep.Results {
		var verdict any
		if r.Verdict != nil {
			verdict = int(*r.Verdict)
		}
		if _, err := stmt.ExecContext(ctx, runID, r.PaperTitle, r.PaperAbstract, verdict, r.RawAnalysis); err != nil {
			return fmt.Errorf("inserting result %q: %w", r.PaperTitle, err)
		}
	}

	return tx.Commit()
}
