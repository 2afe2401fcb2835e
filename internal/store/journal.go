package store

import (
	"context"
	"database/sql"
	"time"
)

// Submission is one journaled setup submission attempt.
type Submission struct {
	ID          int64
	SessionID   string
	ProfileID   int64
	ProfileName string
	SubmittedAt time.Time
	ResetMode   bool
	Accounts    int
	Recurring   int
	Categories  int
	Error       string // empty when the server accepted the payload
	Payload     []byte
}

// Succeeded reports whether the server accepted the submission.
func (s Submission) Succeeded() bool { return s.Error == "" }

// RecordSubmission appends s to the journal and returns its id.
func (c *Cache) RecordSubmission(ctx context.Context, s Submission) (int64, error) {
	if s.SubmittedAt.IsZero() {
		s.SubmittedAt = c.now()
	}
	resetMode := 0
	if s.ResetMode {
		resetMode = 1
	}

	res, err := c.db.ExecContext(ctx, `INSERT INTO submissions
		(session_id, profile_id, profile_name, submitted_at, reset_mode,
		 accounts, recurring, categories, error, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.SessionID, s.ProfileID, s.ProfileName, s.SubmittedAt.UTC().Format(timeLayout), resetMode,
		s.Accounts, s.Recurring, s.Categories, s.Error, s.Payload,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListSubmissions returns the most recent submissions first. A profileID of
// zero lists every profile; a limit of zero or less lists everything.
func (c *Cache) ListSubmissions(ctx context.Context, profileID int64, limit int) ([]Submission, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := c.db.QueryContext(ctx, `SELECT
		id, session_id, profile_id, profile_name, submitted_at, reset_mode,
		accounts, recurring, categories, error, payload
		FROM submissions
		WHERE ? = 0 OR profile_id = ?
		ORDER BY submitted_at DESC, id DESC
		LIMIT ?`, profileID, profileID, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []Submission
	for rows.Next() {
		var s Submission
		var name, errText sql.NullString
		var submittedStr string
		var resetMode int

		if err := rows.Scan(
			&s.ID, &s.SessionID, &s.ProfileID, &name, &submittedStr, &resetMode,
			&s.Accounts, &s.Recurring, &s.Categories, &errText, &s.Payload,
		); err != nil {
			return nil, err
		}
		s.ProfileName = name.String
		s.Error = errText.String
		s.ResetMode = resetMode != 0
		s.SubmittedAt, _ = time.Parse(timeLayout, submittedStr)
		out = append(out, s)
	}
	return out, rows.Err()
}
