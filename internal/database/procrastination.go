package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type ProcrastinationInput struct {
	UserID        int64
	TaskID        int64
	ReasonID      int64
	EmotionID     int64
	DelayDuration int
	// LoggedDate defaults to the log creation time when empty.
	LoggedDate string
}

// FloorDelay keeps delay durations at one minute or more.
func FloorDelay(minutes int) int {
	if minutes < 1 {
		return 1
	}
	return minutes
}

// LogProcrastination writes a log and its single detail row atomically.
func (r *Repository) LogProcrastination(ctx context.Context, input ProcrastinationInput) (int64, error) {
	createdAt := r.timestamp()
	var logID int64
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		logID, err = insertLog(ctx, tx, input, createdAt)
		return err
	})
	if err != nil {
		return 0, err
	}
	return logID, nil
}

func insertLog(ctx context.Context, tx *sql.Tx, input ProcrastinationInput, createdAt string) (int64, error) {
	loggedDate := input.LoggedDate
	if loggedDate == "" {
		loggedDate = createdAt
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO procrastination_logs (user_id, task_id, created_at)
		VALUES (?, ?, ?)
	`, input.UserID, input.TaskID, createdAt)
	if err != nil {
		return 0, fmt.Errorf("insert procrastination log: %w", err)
	}
	logID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO procrastination_details (log_id, delay_duration, reason_id, emotion_id, logged_date)
		VALUES (?, ?, ?, ?, ?)
	`, logID, FloorDelay(input.DelayDuration), input.ReasonID, input.EmotionID, loggedDate); err != nil {
		return 0, fmt.Errorf("insert procrastination detail: %w", err)
	}
	return logID, nil
}

// ReasonExists reports whether reasonID is a known lookup row.
func (r *Repository) ReasonExists(ctx context.Context, reasonID int64) (bool, error) {
	return r.exists(ctx, "SELECT 1 FROM reasons WHERE reason_id = ?", reasonID)
}

// EmotionExists reports whether emotionID is a known lookup row.
func (r *Repository) EmotionExists(ctx context.Context, emotionID int64) (bool, error) {
	return r.exists(ctx, "SELECT 1 FROM emotional_states WHERE emotion_id = ?", emotionID)
}

func (r *Repository) exists(ctx context.Context, query string, id int64) (bool, error) {
	var one int
	err := r.Db.db.QueryRowContext(ctx, query, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

const entryQuery = `
	SELECT pl.log_id, pl.user_id, pl.task_id, t.task_name, t.category,
		t.planned_start, t.planned_end, COALESCE(t.actual_end, ''),
		pd.delay_duration, r.reason_id, r.reason_text, e.emotion_id, e.emotion_text,
		pd.logged_date
	FROM procrastination_logs pl
	JOIN procrastination_details pd ON pl.log_id = pd.log_id
	JOIN tasks t ON t.task_id = pl.task_id
	JOIN reasons r ON r.reason_id = pd.reason_id
	JOIN emotional_states e ON e.emotion_id = pd.emotion_id
`

func scanEntry(row rowScanner) (ProcrastinationEntry, error) {
	var entry ProcrastinationEntry
	err := row.Scan(
		&entry.LogID,
		&entry.UserID,
		&entry.TaskID,
		&entry.TaskName,
		&entry.Category,
		&entry.PlannedStart,
		&entry.PlannedEnd,
		&entry.ActualEnd,
		&entry.DelayDuration,
		&entry.ReasonID,
		&entry.ReasonText,
		&entry.EmotionID,
		&entry.EmotionText,
		&entry.LoggedDate,
	)
	return entry, err
}

// ListProcrastinationLogs returns the user's delays, newest first.
func (r *Repository) ListProcrastinationLogs(ctx context.Context, userID int64) ([]ProcrastinationEntry, error) {
	rows, err := r.Db.db.QueryContext(ctx, entryQuery+`
		WHERE pl.user_id = ?
		ORDER BY pd.logged_date DESC, pl.log_id DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]ProcrastinationEntry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *Repository) GetProcrastinationLog(ctx context.Context, logID int64) (*ProcrastinationEntry, error) {
	entry, err := scanEntry(r.Db.db.QueryRowContext(ctx, entryQuery+`WHERE pl.log_id = ?`, logID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *Repository) ListReasons(ctx context.Context) ([]Reason, error) {
	rows, err := r.Db.db.QueryContext(ctx, `SELECT reason_id, reason_text FROM reasons ORDER BY reason_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reasons := make([]Reason, 0)
	for rows.Next() {
		var reason Reason
		if err := rows.Scan(&reason.ID, &reason.Text); err != nil {
			return nil, err
		}
		reasons = append(reasons, reason)
	}
	return reasons, rows.Err()
}

func (r *Repository) ListEmotions(ctx context.Context) ([]Emotion, error) {
	rows, err := r.Db.db.QueryContext(ctx, `SELECT emotion_id, emotion_text FROM emotional_states ORDER BY emotion_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	emotions := make([]Emotion, 0)
	for rows.Next() {
		var emotion Emotion
		if err := rows.Scan(&emotion.ID, &emotion.Text); err != nil {
			return nil, err
		}
		emotions = append(emotions, emotion)
	}
	return emotions, rows.Err()
}
