package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"procrastination-tracker/internal/database"
	"procrastination-tracker/internal/utils"
)

type LogRequest struct {
	UserID        int64  `json:"user_id"`
	TaskID        int64  `json:"task_id"`
	ReasonID      int64  `json:"reason_id"`
	EmotionID     int64  `json:"emotion_id"`
	DelayDuration int    `json:"delay_duration"`
	LoggedDate    string `json:"logged_date"`
}

type ProcrastinationService struct {
	repository *database.Repository
	cache      ReportCache
}

func NewProcrastinationService(repo *database.Repository) *ProcrastinationService {
	return &ProcrastinationService{repository: repo}
}

func (ps *ProcrastinationService) SetCache(cache ReportCache) {
	ps.cache = cache
}

// Log records a delay for a task the user owns. Without an explicit
// duration the delay is taken from the task's planned and actual end.
func (ps *ProcrastinationService) Log(ctx context.Context, req LogRequest) (*database.ProcrastinationEntry, error) {
	switch {
	case req.UserID <= 0:
		return nil, missingParameter("user_id")
	case req.TaskID <= 0:
		return nil, missingParameter("task_id")
	case req.ReasonID <= 0:
		return nil, missingParameter("reason_id")
	case req.EmotionID <= 0:
		return nil, missingParameter("emotion_id")
	}

	if err := ps.repository.CheckOwnership(ctx, req.UserID, req.TaskID); err != nil {
		return nil, err
	}
	if err := checkLookups(ctx, ps.repository, req.ReasonID, req.EmotionID); err != nil {
		return nil, err
	}

	loggedDate := ""
	if strings.TrimSpace(req.LoggedDate) != "" {
		t, err := utils.ParseTimestamp(req.LoggedDate)
		if err != nil {
			day, dateErr := utils.ParseDate(req.LoggedDate)
			if dateErr != nil {
				return nil, invalidInput("logged_date", err)
			}
			t = day
		}
		loggedDate = utils.FormatTimestamp(t)
	}

	delay := req.DelayDuration
	if delay <= 0 {
		task, err := ps.repository.GetTask(ctx, req.TaskID)
		if err != nil {
			return nil, err
		}
		if task.ActualEnd != nil {
			delay, _ = delayMinutes(task.PlannedEnd, *task.ActualEnd)
		}
	}

	logID, err := ps.repository.LogProcrastination(ctx, database.ProcrastinationInput{
		UserID:        req.UserID,
		TaskID:        req.TaskID,
		ReasonID:      req.ReasonID,
		EmotionID:     req.EmotionID,
		DelayDuration: database.FloorDelay(delay),
		LoggedDate:    loggedDate,
	})
	if err != nil {
		return nil, err
	}
	invalidateUser(ctx, ps.cache, req.UserID)

	log.Printf("⏰ Procrastination log %d stored for task %d (user %d)", logID, req.TaskID, req.UserID)
	return ps.repository.GetProcrastinationLog(ctx, logID)
}

func (ps *ProcrastinationService) List(ctx context.Context, userID int64) ([]database.ProcrastinationEntry, error) {
	if userID <= 0 {
		return nil, missingParameter("user_id")
	}
	return ps.repository.ListProcrastinationLogs(ctx, userID)
}

func (ps *ProcrastinationService) Get(ctx context.Context, userID, logID int64) (*database.ProcrastinationEntry, error) {
	if userID <= 0 {
		return nil, missingParameter("user_id")
	}
	if logID <= 0 {
		return nil, missingParameter("log_id")
	}
	entry, err := ps.repository.GetProcrastinationLog(ctx, logID)
	if err != nil {
		return nil, err
	}
	if entry.UserID != userID {
		return nil, database.ErrNotOwner
	}
	return entry, nil
}

func (ps *ProcrastinationService) Reasons(ctx context.Context) ([]database.Reason, error) {
	return ps.repository.ListReasons(ctx)
}

func (ps *ProcrastinationService) Emotions(ctx context.Context) ([]database.Emotion, error) {
	return ps.repository.ListEmotions(ctx)
}

// checkLookups rejects reason and emotion ids that are not seeded, so an
// unknown id is reported as bad input instead of a constraint failure.
// Zero ids are skipped.
func checkLookups(ctx context.Context, repo *database.Repository, reasonID, emotionID int64) error {
	if reasonID > 0 {
		ok, err := repo.ReasonExists(ctx, reasonID)
		if err != nil {
			return err
		}
		if !ok {
			return invalidInput("reason_id", fmt.Errorf("unknown reason %d", reasonID))
		}
	}
	if emotionID > 0 {
		ok, err := repo.EmotionExists(ctx, emotionID)
		if err != nil {
			return err
		}
		if !ok {
			return invalidInput("emotion_id", fmt.Errorf("unknown emotion %d", emotionID))
		}
	}
	return nil
}
