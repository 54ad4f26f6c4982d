package recorder

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/fernet/fernet-go"

	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/apperrors"
)

// Compile-time interface check.
var _ Recorder = (*SQLiteRecorder)(nil)

// SQLiteRecorder persists runs to a SQLite database. Writes are serialized
// with a mutex; the database schema is managed by the database package.
//
// When a fernet key is configured, uploaded CSV payloads are encrypted at
// rest and decrypted on Get. Without a key, payloads are not stored at all.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	key *fernet.Key
}

// NewSQLiteRecorder wraps an opened, migrated database. encryptionKey is an
// optional base64 fernet key; empty disables payload storage.
func NewSQLiteRecorder(db *sql.DB, encryptionKey string) (*SQLiteRecorder, error) {
	r := &SQLiteRecorder{db: db}
	if encryptionKey != "" {
		key, err := fernet.DecodeKey(encryptionKey)
		if err != nil {
			return nil, fmt.Errorf("invalid storage encryption key: %w", err)
		}
		r.key = key
	}
	return r, nil
}

// Record inserts one run. The payload is dropped unless encryption is
// configured.
func (r *SQLiteRecorder) Record(run *Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	fetchErrors, err := json.Marshal(run.FetchErrors)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrFailedToRecordRun, err)
	}

	var payload []byte
	if r.key != nil && len(run.Payload) > 0 {
		payload, err = fernet.EncryptAndSign(run.Payload, r.key)
		if err != nil {
			return fmt.Errorf("%w: %v", apperrors.ErrFailedToRecordRun, err)
		}
	}

	query := `
		INSERT INTO runs (id, kind, provider, started_at, completed_at,
			symbol_count, error_count, status, message, fetch_errors, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.Exec(query,
		run.ID,
		run.Kind,
		run.Provider,
		run.StartedAt.UTC().Unix(),
		run.CompletedAt.UTC().Unix(),
		run.SymbolCount,
		run.ErrorCount,
		run.Status,
		run.Message,
		string(fetchErrors),
		payload,
	)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrFailedToRecordRun, err)
	}
	return nil
}

// List returns all runs, most recent first, without payloads.
func (r *SQLiteRecorder) List() ([]Run, error) {
	query := `
		SELECT id, kind, provider, started_at, completed_at,
			symbol_count, error_count, status, message, fetch_errors
		FROM runs
		ORDER BY started_at DESC, id
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrFailedToRetrieveRuns, err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrFailedToRetrieveRuns, err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrFailedToRetrieveRuns, err)
	}
	return runs, nil
}

// Get returns one run by ID, including its decrypted payload when one was
// stored.
func (r *SQLiteRecorder) Get(id string) (*Run, error) {
	query := `
		SELECT id, kind, provider, started_at, completed_at,
			symbol_count, error_count, status, message, fetch_errors, payload
		FROM runs
		WHERE id = ?
	`
	row := r.db.QueryRow(query, id)

	var (
		run         Run
		startedAt   int64
		completedAt int64
		message     sql.NullString
		fetchErrors sql.NullString
		payload     []byte
	)
	err := row.Scan(&run.ID, &run.Kind, &run.Provider, &startedAt, &completedAt,
		&run.SymbolCount, &run.ErrorCount, &run.Status, &message, &fetchErrors, &payload)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrFailedToRetrieveRuns, err)
	}

	run.StartedAt = time.Unix(startedAt, 0).UTC()
	run.CompletedAt = time.Unix(completedAt, 0).UTC()
	run.Message = message.String
	if fetchErrors.Valid && fetchErrors.String != "" {
		if err := json.Unmarshal([]byte(fetchErrors.String), &run.FetchErrors); err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrFailedToRetrieveRuns, err)
		}
	}
	if r.key != nil && len(payload) > 0 {
		run.Payload = fernet.VerifyAndDecrypt(payload, 0, []*fernet.Key{r.key})
	}
	return &run, nil
}

// Delete removes one run by ID.
func (r *SQLiteRecorder) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	result, err := r.db.Exec("DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrFailedToRetrieveRuns, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrFailedToRetrieveRuns, err)
	}
	if affected == 0 {
		return apperrors.ErrRunNotFound
	}
	return nil
}

// Close closes the underlying database.
func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}

// scanRun scans a payload-less run row from List.
func scanRun(rows *sql.Rows) (*Run, error) {
	var (
		run         Run
		startedAt   int64
		completedAt int64
		message     sql.NullString
		fetchErrors sql.NullString
	)
	err := rows.Scan(&run.ID, &run.Kind, &run.Provider, &startedAt, &completedAt,
		&run.SymbolCount, &run.ErrorCount, &run.Status, &message, &fetchErrors)
	if err != nil {
		return nil, err
	}
	run.StartedAt = time.Unix(startedAt, 0).UTC()
	run.CompletedAt = time.Unix(completedAt, 0).UTC()
	run.Message = message.String
	if fetchErrors.Valid && fetchErrors.String != "" {
		if err := json.Unmarshal([]byte(fetchErrors.String), &run.FetchErrors); err != nil {
			return nil, err
		}
	}
	return &run, nil
}
