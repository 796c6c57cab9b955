package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/cltvscan/cltvscan/internal/model"
	"github.com/cltvscan/cltvscan/internal/report"
)

// SessionDB provides SQLite-based storage for recorded observations and
// analysis reports. It manages connection pooling and provides methods
// for CRUD operations.
//
// Design decision: We use a single database file per surveillance
// session rather than separate files per observer. This simplifies
// cross-observer correlation queries and backup/restore operations.
type SessionDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures SessionDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a SessionDB at the specified path.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*SessionDB, error) {
	dbPath := filepath.Join(dbDir, "cltvscan.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating
	// new files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer, so a single pooled connection
	// avoids database-locked errors under concurrent recording.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	sdb := &SessionDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := sdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return sdb, nil
}

// Close closes the database connection.
func (sdb *SessionDB) Close() error {
	return sdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (sdb *SessionDB) createTables() error {
	schema := `
	-- Observations store individual forwarded HTLCs seen by observers
	CREATE TABLE IF NOT EXISTS observations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		payment_hash TEXT NOT NULL,
		cltv_expiry INTEGER NOT NULL,
		amount_msat INTEGER NOT NULL,
		observed_at_block INTEGER NOT NULL,
		observed_by TEXT NOT NULL,
		recorded_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(payment_hash, observed_by)
	);

	CREATE INDEX IF NOT EXISTS idx_obs_hash ON observations(payment_hash);
	CREATE INDEX IF NOT EXISTS idx_obs_observer ON observations(observed_by);
	CREATE INDEX IF NOT EXISTS idx_obs_recorded ON observations(recorded_at);

	-- Analysis reports store complete correlation results as JSON
	CREATE TABLE IF NOT EXISTS analysis_reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		block_height INTEGER NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		report_json TEXT NOT NULL,
		payment_count INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_reports_timestamp ON analysis_reports(timestamp);
	`

	_, err := sdb.db.ExecContext(context.Background(), schema)
	return err
}

// InsertObservation inserts or updates an observation.
// Uses UPSERT to handle duplicates (same payment hash + observer): the
// observer keeps whichever expiry it saw last.
func (sdb *SessionDB) InsertObservation(ctx context.Context, obs model.Observation) (int64, error) {
	query := `
	INSERT INTO observations (payment_hash, cltv_expiry, amount_msat, observed_at_block, observed_by)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(payment_hash, observed_by) DO UPDATE SET
		cltv_expiry = excluded.cltv_expiry,
		amount_msat = excluded.amount_msat,
		observed_at_block = excluded.observed_at_block,
		recorded_at = CURRENT_TIMESTAMP
	`

	result, err := sdb.db.ExecContext(ctx, query,
		obs.PaymentHash,
		obs.CLTVExpiry,
		obs.Amount,
		obs.ObservedAtBlock,
		obs.ObservedBy,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert observation: %w", err)
	}

	return result.LastInsertId()
}

// InsertObservations inserts a batch of observations in one transaction.
func (sdb *SessionDB) InsertObservations(ctx context.Context, observations []model.Observation) error {
	tx, err := sdb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	INSERT INTO observations (payment_hash, cltv_expiry, amount_msat, observed_at_block, observed_by)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(payment_hash, observed_by) DO UPDATE SET
		cltv_expiry = excluded.cltv_expiry,
		amount_msat = excluded.amount_msat,
		observed_at_block = excluded.observed_at_block,
		recorded_at = CURRENT_TIMESTAMP
	`

	for _, obs := range observations {
		if _, err := tx.ExecContext(ctx, query,
			obs.PaymentHash,
			obs.CLTVExpiry,
			obs.Amount,
			obs.ObservedAtBlock,
			obs.ObservedBy,
		); err != nil {
			return fmt.Errorf("failed to insert observation: %w", err)
		}
	}

	return tx.Commit()
}

// Observations retrieves all stored observations ordered by payment hash.
func (sdb *SessionDB) Observations(ctx context.Context) ([]model.Observation, error) {
	query := `
	SELECT payment_hash, cltv_expiry, amount_msat, observed_at_block, observed_by
	FROM observations
	ORDER BY payment_hash, observed_by
	`

	rows, err := sdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query observations: %w", err)
	}
	defer rows.Close()

	var results []model.Observation
	for rows.Next() {
		var obs model.Observation
		if err := rows.Scan(
			&obs.PaymentHash,
			&obs.CLTVExpiry,
			&obs.Amount,
			&obs.ObservedAtBlock,
			&obs.ObservedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan observation: %w", err)
		}
		results = append(results, obs)
	}

	return results, rows.Err()
}

// ObservationsByPayment retrieves all observations of a single payment.
func (sdb *SessionDB) ObservationsByPayment(ctx context.Context, paymentHash string) ([]model.Observation, error) {
	query := `
	SELECT payment_hash, cltv_expiry, amount_msat, observed_at_block, observed_by
	FROM observations
	WHERE payment_hash = ?
	ORDER BY observed_by
	`

	rows, err := sdb.db.QueryContext(ctx, query, paymentHash)
	if err != nil {
		return nil, fmt.Errorf("failed to query observations: %w", err)
	}
	defer rows.Close()

	var results []model.Observation
	for rows.Next() {
		var obs model.Observation
		if err := rows.Scan(
			&obs.PaymentHash,
			&obs.CLTVExpiry,
			&obs.Amount,
			&obs.ObservedAtBlock,
			&obs.ObservedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan observation: %w", err)
		}
		results = append(results, obs)
	}

	return results, rows.Err()
}

// ListPayments returns the distinct payment hashes with stored observations.
func (sdb *SessionDB) ListPayments(ctx context.Context) ([]string, error) {
	query := `
	SELECT DISTINCT payment_hash FROM observations
	ORDER BY payment_hash
	`

	rows, err := sdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var hashes []string
	for rows.Next() {
		var hash string
		if err := rows.Scan(&hash); err != nil {
			return nil, fmt.Errorf("failed to scan payment hash: %w", err)
		}
		hashes = append(hashes, hash)
	}

	return hashes, rows.Err()
}

// CountObservations returns the number of stored observations.
func (sdb *SessionDB) CountObservations(ctx context.Context) (int, error) {
	var count int
	err := sdb.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM observations").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count observations: %w", err)
	}
	return count, nil
}

// SaveReport saves a complete correlation report as JSON.
func (sdb *SessionDB) SaveReport(ctx context.Context, rep *report.Report) error {
	reportJSON, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}

	query := `
	INSERT INTO analysis_reports (block_height, report_json, payment_count)
	VALUES (?, ?, ?)
	`

	_, err = sdb.db.ExecContext(ctx, query,
		rep.BlockHeight,
		string(reportJSON),
		len(rep.Payments),
	)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}

	return nil
}

// LatestReport retrieves the most recent correlation report.
// Returns nil without error when no report has been saved yet.
func (sdb *SessionDB) LatestReport(ctx context.Context) (*report.Report, error) {
	query := `
	SELECT report_json FROM analysis_reports
	ORDER BY timestamp DESC, id DESC
	LIMIT 1
	`

	var reportJSON string
	err := sdb.db.QueryRowContext(ctx, query).Scan(&reportJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	var rep report.Report
	if err := json.Unmarshal([]byte(reportJSON), &rep); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}

	return &rep, nil
}

// ReportMetadata contains summary information about a stored report.
// This is used for displaying session history without loading full reports.
type ReportMetadata struct {
	// ID is the unique identifier of the report in the database.
	ID int64

	// BlockHeight is the chain height the analysis ran against.
	BlockHeight uint32

	// Timestamp is when the report was saved.
	Timestamp time.Time

	// PaymentCount is the number of correlated payments in the report.
	PaymentCount int
}

// ReportHistory retrieves metadata for all stored reports, newest first.
func (sdb *SessionDB) ReportHistory(ctx context.Context) ([]ReportMetadata, error) {
	query := `
	SELECT id, block_height, timestamp, payment_count
	FROM analysis_reports
	ORDER BY timestamp DESC, id DESC
	`

	rows, err := sdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get report history: %w", err)
	}
	defer rows.Close()

	var results []ReportMetadata
	for rows.Next() {
		var meta ReportMetadata
		var timestamp string

		if err := rows.Scan(&meta.ID, &meta.BlockHeight, &timestamp, &meta.PaymentCount); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}

		meta.Timestamp = parseTimestamp(timestamp)
		results = append(results, meta)
	}

	return results, rows.Err()
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
