package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"procrastination-tracker/internal/database"
	"procrastination-tracker/internal/utils"
)

type TaskRequest struct {
	Name         string `json:"task_name"`
	Category     string `json:"category"`
	PlannedStart string `json:"planned_start"`
	PlannedEnd   string `json:"planned_end"`
}

type CompleteRequest struct {
	ActualEnd string `json:"actual_end"`
	ReasonID  int64  `json:"reason_id"`
	EmotionID int64  `json:"emotion_id"`
}

// CompletionOutcome tells the caller whether the task finished late and,
// if a reason was supplied, which log recorded it.
type CompletionOutcome struct {
	TaskID       int64  `json:"task_id"`
	Delayed      bool   `json:"delayed"`
	DelayMinutes int    `json:"delay_minutes"`
	LogID        *int64 `json:"log_id,omitempty"`
}

type TaskService struct {
	repository *database.Repository
	cache      ReportCache
	now        func() time.Time
}

func NewTaskService(repo *database.Repository) *TaskService {
	return &TaskService{
		repository: repo,
		now:        time.Now,
	}
}

func (ts *TaskService) SetCache(cache ReportCache) {
	ts.cache = cache
}

func (ts *TaskService) SetClock(now func() time.Time) {
	ts.now = now
}

func (ts *TaskService) Create(ctx context.Context, userID int64, req TaskRequest) (*database.Task, error) {
	if userID <= 0 {
		return nil, missingParameter("user_id")
	}
	input, err := taskInput(req)
	if err != nil {
		return nil, err
	}

	task, err := ts.repository.CreateTask(ctx, userID, input)
	if err != nil {
		return nil, err
	}
	ts.invalidate(ctx, userID)

	log.Printf("📝 Task %d created for user %d", task.ID, userID)
	return task, nil
}

func (ts *TaskService) List(ctx context.Context, userID int64) ([]database.Task, error) {
	if userID <= 0 {
		return nil, missingParameter("user_id")
	}
	return ts.repository.ListTasks(ctx, userID)
}

func (ts *TaskService) Get(ctx context.Context, userID, taskID int64) (*database.Task, error) {
	if err := ts.authorize(ctx, userID, taskID); err != nil {
		return nil, err
	}
	return ts.repository.GetTask(ctx, taskID)
}

func (ts *TaskService) Update(ctx context.Context, userID, taskID int64, req TaskRequest) (*database.Task, error) {
	if err := ts.authorize(ctx, userID, taskID); err != nil {
		return nil, err
	}
	input, err := taskInput(req)
	if err != nil {
		return nil, err
	}
	if err := ts.repository.UpdateTask(ctx, taskID, input); err != nil {
		return nil, err
	}
	ts.invalidate(ctx, userID)
	return ts.repository.GetTask(ctx, taskID)
}

func (ts *TaskService) Delete(ctx context.Context, userID, taskID int64) error {
	if err := ts.authorize(ctx, userID, taskID); err != nil {
		return err
	}
	if err := ts.repository.DeleteTask(ctx, taskID); err != nil {
		return err
	}
	ts.invalidate(ctx, userID)
	return nil
}

// Start marks the task in progress; an empty actualStart means now.
func (ts *TaskService) Start(ctx context.Context, userID, taskID int64, actualStart string) error {
	if err := ts.authorize(ctx, userID, taskID); err != nil {
		return err
	}
	started, err := ts.timestampOrNow("actual_start", actualStart)
	if err != nil {
		return err
	}
	if err := ts.repository.StartTask(ctx, taskID, started); err != nil {
		return err
	}
	ts.invalidate(ctx, userID)
	return nil
}

// Complete marks the task completed. When it finishes after the planned
// end and both reason and emotion are given, the delay is logged as well.
// Complete finishes the task once. A late completion with both a reason and
// an emotion is logged in the same transaction as the status change.
func (ts *TaskService) Complete(ctx context.Context, userID, taskID int64, req CompleteRequest) (*CompletionOutcome, error) {
	if err := ts.authorize(ctx, userID, taskID); err != nil {
		return nil, err
	}
	finished, err := ts.timestampOrNow("actual_end", req.ActualEnd)
	if err != nil {
		return nil, err
	}
	if err := checkLookups(ctx, ts.repository, req.ReasonID, req.EmotionID); err != nil {
		return nil, err
	}

	task, err := ts.repository.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.Status == database.StatusCompleted {
		return nil, invalidInput("task_id", database.ErrAlreadyCompleted)
	}

	outcome := &CompletionOutcome{TaskID: taskID}
	var entry *database.ProcrastinationInput
	if minutes, late := delayMinutes(task.PlannedEnd, finished); late {
		outcome.Delayed = true
		outcome.DelayMinutes = minutes
		if req.ReasonID > 0 && req.EmotionID > 0 {
			entry = &database.ProcrastinationInput{
				UserID:        userID,
				TaskID:        taskID,
				ReasonID:      req.ReasonID,
				EmotionID:     req.EmotionID,
				DelayDuration: minutes,
			}
		}
	}

	logID, err := ts.repository.CompleteTaskWithLog(ctx, taskID, finished, entry)
	if errors.Is(err, database.ErrAlreadyCompleted) {
		return nil, invalidInput("task_id", err)
	}
	if err != nil {
		return nil, err
	}
	ts.invalidate(ctx, userID)

	outcome.LogID = logID
	if logID != nil {
		log.Printf("⏰ Task %d completed %d min late, logged as %d", taskID, outcome.DelayMinutes, *logID)
	}
	return outcome, nil
}

func (ts *TaskService) authorize(ctx context.Context, userID, taskID int64) error {
	if userID <= 0 {
		return missingParameter("user_id")
	}
	if taskID <= 0 {
		return missingParameter("task_id")
	}
	return ts.repository.CheckOwnership(ctx, userID, taskID)
}

func (ts *TaskService) invalidate(ctx context.Context, userID int64) {
	invalidateUser(ctx, ts.cache, userID)
}

func (ts *TaskService) timestampOrNow(field, value string) (string, error) {
	if strings.TrimSpace(value) == "" {
		return utils.FormatTimestamp(ts.now()), nil
	}
	t, err := utils.ParseTimestamp(value)
	if err != nil {
		return "", invalidInput(field, err)
	}
	return utils.FormatTimestamp(t), nil
}

func taskInput(req TaskRequest) (database.TaskInput, error) {
	name := strings.TrimSpace(req.Name)
	category := strings.TrimSpace(req.Category)
	switch {
	case name == "":
		return database.TaskInput{}, missingParameter("task_name")
	case category == "":
		return database.TaskInput{}, missingParameter("category")
	case strings.TrimSpace(req.PlannedStart) == "":
		return database.TaskInput{}, missingParameter("planned_start")
	case strings.TrimSpace(req.PlannedEnd) == "":
		return database.TaskInput{}, missingParameter("planned_end")
	}

	start, err := utils.ParseTimestamp(req.PlannedStart)
	if err != nil {
		return database.TaskInput{}, invalidInput("planned_start", err)
	}
	end, err := utils.ParseTimestamp(req.PlannedEnd)
	if err != nil {
		return database.TaskInput{}, invalidInput("planned_end", err)
	}
	if !end.After(start) {
		return database.TaskInput{}, invalidInput("planned_end", errors.New("must be after planned_start"))
	}

	return database.TaskInput{
		Name:         name,
		Category:     category,
		PlannedStart: utils.FormatTimestamp(start),
		PlannedEnd:   utils.FormatTimestamp(end),
	}, nil
}

// delayMinutes compares stored timestamps; a late finish is at least one minute.
func delayMinutes(plannedEnd, actualEnd string) (int, bool) {
	planned, err := utils.ParseTimestamp(plannedEnd)
	if err != nil {
		return 0, false
	}
	actual, err := utils.ParseTimestamp(actualEnd)
	if err != nil {
		return 0, false
	}
	if !actual.After(planned) {
		return 0, false
	}
	return database.FloorDelay(int(actual.Sub(planned).Minutes())), true
}

func invalidateUser(ctx context.Context, cache ReportCache, userID int64) {
	if cache == nil {
		return
	}
	if err := cache.InvalidateUser(ctx, userID); err != nil {
		log.Printf("⚠️ Cache invalidation failed for user %d: %v", userID, err)
	}
}
