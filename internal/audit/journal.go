package audit

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/pdfscrubber/pdf-scrubber/internal/review"
	"github.com/pdfscrubber/pdf-scrubber/pkg/database"
)

// Actions recorded in the journal.
const (
	ActionRename = "rename"
	ActionReject = "reject"
)

// Entry is one recorded review decision.
type Entry struct {
	ID         int64     `json:"id"`
	FolderPath string    `json:"folder_path"`
	OldName    string    `json:"old_name"`
	NewName    string    `json:"new_name,omitempty"`
	Action     string    `json:"action"`
	Succeeded  bool      `json:"succeeded"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Journal persists review outcomes so past batches remain inspectable
// after the in-memory store has been replaced.
type Journal struct {
	db     *database.DB
	logger *zap.Logger
}

const schema = `
CREATE TABLE IF NOT EXISTS review_audit (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	folder_path TEXT NOT NULL,
	old_name TEXT NOT NULL,
	new_name TEXT NOT NULL DEFAULT '',
	action TEXT NOT NULL,
	succeeded INTEGER NOT NULL,
	error TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// NewJournal creates the journal, initializing its schema if needed.
func NewJournal(db *database.DB, logger *zap.Logger) (*Journal, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, err
	}
	return &Journal{db: db, logger: logger}, nil
}

// RecordRename stores the outcome of one rename attempt.
func (j *Journal) RecordRename(ctx context.Context, folderPath, oldName, newName string, outcome review.RenameOutcome) error {
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO review_audit (folder_path, old_name, new_name, action, succeeded, error)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		folderPath, oldName, newName, ActionRename, outcome.Success, outcome.ErrorMessage)
	if err != nil {
		j.logger.Error("Failed to record rename outcome",
			zap.String("old_name", oldName),
			zap.Error(err))
		return err
	}
	return nil
}

// RecordRejection stores a rejection. Rejections never touch the
// filesystem, so there is no outcome to carry.
func (j *Journal) RecordRejection(ctx context.Context, folderPath, name string) error {
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO review_audit (folder_path, old_name, action, succeeded)
		 VALUES (?, ?, ?, 1)`,
		folderPath, name, ActionReject)
	if err != nil {
		j.logger.Error("Failed to record rejection",
			zap.String("name", name),
			zap.Error(err))
		return err
	}
	return nil
}

// Recent returns the most recent entries, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := j.db.QueryContext(ctx,
		`SELECT id, folder_path, old_name, new_name, action, succeeded, error, created_at
		 FROM review_audit ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.FolderPath, &e.OldName, &e.NewName, &e.Action, &e.Succeeded, &e.Error, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
