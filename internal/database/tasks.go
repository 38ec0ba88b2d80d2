package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// TaskInput carries task fields; timestamps are already in storage format.
type TaskInput struct {
	Name         string
	Category     string
	PlannedStart string
	PlannedEnd   string
}

const taskColumns = `t.task_id, t.task_name, t.category, t.planned_start, t.planned_end,
	t.actual_start, t.actual_end, t.status, ut.date_of_assigned`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (Task, error) {
	var task Task
	var actualStart, actualEnd sql.NullString
	err := row.Scan(
		&task.ID,
		&task.Name,
		&task.Category,
		&task.PlannedStart,
		&task.PlannedEnd,
		&actualStart,
		&actualEnd,
		&task.Status,
		&task.DateOfAssigned,
	)
	if err != nil {
		return Task{}, err
	}
	task.ActualStart = nullableString(actualStart)
	task.ActualEnd = nullableString(actualEnd)
	return task, nil
}

// CreateTask inserts a pending task and assigns it to userID.
func (r *Repository) CreateTask(ctx context.Context, userID int64, input TaskInput) (*Task, error) {
	var taskID int64
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO tasks (task_name, category, planned_start, planned_end, status)
			VALUES (?, ?, ?, ?, 'pending')
		`, input.Name, input.Category, input.PlannedStart, input.PlannedEnd)
		if err != nil {
			return fmt.Errorf("insert task: %w", err)
		}
		taskID, err = res.LastInsertId()
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO user_tasks (user_id, task_id, date_of_assigned)
			VALUES (?, ?, ?)
		`, userID, taskID, r.timestamp()); err != nil {
			return fmt.Errorf("assign task: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.GetTask(ctx, taskID)
}

func (r *Repository) GetTask(ctx context.Context, taskID int64) (*Task, error) {
	row := r.Db.db.QueryRowContext(ctx, `
		SELECT `+taskColumns+`
		FROM tasks t
		JOIN user_tasks ut ON t.task_id = ut.task_id
		WHERE t.task_id = ?
		LIMIT 1
	`, taskID)

	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// ListTasks returns the user's tasks, most recently assigned first.
func (r *Repository) ListTasks(ctx context.Context, userID int64) ([]Task, error) {
	rows, err := r.Db.db.QueryContext(ctx, `
		SELECT `+taskColumns+`
		FROM tasks t
		JOIN user_tasks ut ON t.task_id = ut.task_id
		WHERE ut.user_id = ?
		ORDER BY ut.date_of_assigned DESC, t.task_id DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// CheckOwnership returns ErrNotFound for unknown tasks and ErrNotOwner
// when the task is assigned to someone else.
func (r *Repository) CheckOwnership(ctx context.Context, userID, taskID int64) error {
	var owned int
	err := r.Db.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM user_tasks WHERE task_id = ? AND user_id = ?
	`, taskID, userID).Scan(&owned)
	if err != nil {
		return err
	}
	if owned > 0 {
		return nil
	}

	var exists int
	if err := r.Db.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks WHERE task_id = ?`, taskID).Scan(&exists); err != nil {
		return err
	}
	if exists == 0 {
		return ErrNotFound
	}
	return ErrNotOwner
}

func (r *Repository) UpdateTask(ctx context.Context, taskID int64, input TaskInput) error {
	res, err := r.Db.db.ExecContext(ctx, `
		UPDATE tasks
		SET task_name = ?, category = ?, planned_start = ?, planned_end = ?
		WHERE task_id = ?
	`, input.Name, input.Category, input.PlannedStart, input.PlannedEnd, taskID)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

func (r *Repository) StartTask(ctx context.Context, taskID int64, actualStart string) error {
	res, err := r.Db.db.ExecContext(ctx, `
		UPDATE tasks SET actual_start = ?, status = 'in-progress' WHERE task_id = ?
	`, actualStart, taskID)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

func (r *Repository) CompleteTask(ctx context.Context, taskID int64, actualEnd string) error {
	_, err := r.CompleteTaskWithLog(ctx, taskID, actualEnd, nil)
	return err
}

// CompleteTaskWithLog marks the task completed and, when entry is non-nil,
// writes its procrastination log in the same transaction. A task that is
// already completed yields ErrAlreadyCompleted and nothing is written.
func (r *Repository) CompleteTaskWithLog(ctx context.Context, taskID int64, actualEnd string, entry *ProcrastinationInput) (*int64, error) {
	createdAt := r.timestamp()
	var logID *int64
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		var status string
		err := tx.QueryRowContext(ctx, "SELECT status FROM tasks WHERE task_id = ?", taskID).Scan(&status)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if TaskStatus(status) == StatusCompleted {
			return ErrAlreadyCompleted
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE tasks SET actual_end = ?, status = 'completed' WHERE task_id = ?
		`, actualEnd, taskID); err != nil {
			return fmt.Errorf("complete task: %w", err)
		}

		if entry == nil {
			return nil
		}
		id, err := insertLog(ctx, tx, *entry, createdAt)
		if err != nil {
			return err
		}
		logID = &id
		return nil
	})
	if err != nil {
		return nil, err
	}
	return logID, nil
}

// DeleteTask removes the task; assignments and logs cascade.
func (r *Repository) DeleteTask(ctx context.Context, taskID int64) error {
	res, err := r.Db.db.ExecContext(ctx, "DELETE FROM tasks WHERE task_id = ?", taskID)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
