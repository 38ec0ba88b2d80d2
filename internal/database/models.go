package database

type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in-progress"
	StatusCompleted  TaskStatus = "completed"
)

// DateRange is an inclusive range of calendar dates formatted YYYY-MM-DD.
type DateRange struct {
	Start string
	End   string
}

type Task struct {
	ID             int64      `json:"task_id"`
	Name           string     `json:"task_name"`
	Category       string     `json:"category"`
	PlannedStart   string     `json:"planned_start"`
	PlannedEnd     string     `json:"planned_end"`
	ActualStart    *string    `json:"actual_start"`
	ActualEnd      *string    `json:"actual_end"`
	Status         TaskStatus `json:"status"`
	DateOfAssigned string     `json:"date_of_assigned,omitempty"`
}

type Reason struct {
	ID   int64  `json:"reason_id"`
	Text string `json:"reason_text"`
}

type Emotion struct {
	ID   int64  `json:"emotion_id"`
	Text string `json:"emotion_text"`
}

// ProcrastinationEntry is a log joined with its detail, task and lookups.
type ProcrastinationEntry struct {
	LogID         int64  `json:"log_id"`
	UserID        int64  `json:"user_id"`
	TaskID        int64  `json:"task_id"`
	TaskName      string `json:"task_name"`
	Category      string `json:"category"`
	PlannedStart  string `json:"planned_start"`
	PlannedEnd    string `json:"planned_end"`
	ActualEnd     string `json:"actual_end,omitempty"`
	DelayDuration int    `json:"delay_duration"`
	ReasonID      int64  `json:"reason_id"`
	ReasonText    string `json:"reason_text"`
	EmotionID     int64  `json:"emotion_id"`
	EmotionText   string `json:"emotion_text"`
	LoggedDate    string `json:"logged_date"`
}

type TaskTotals struct {
	Total     int `json:"total_tasks"`
	Completed int `json:"completed_tasks"`
}

type ReasonCount struct {
	ReasonText string `json:"reason_text"`
	Count      int    `json:"count"`
}

type EmotionCount struct {
	EmotionText string `json:"emotion_text"`
	Count       int    `json:"count"`
}

type CategoryDelay struct {
	Category   string  `json:"category"`
	DelayCount int     `json:"delay_count"`
	AvgDelay   float64 `json:"avg_delay"`
}

type DelayTrend struct {
	Date       string  `json:"date"`
	DelayCount int     `json:"delay_count"`
	AvgDelay   float64 `json:"avg_delay"`
}

type DailyDelay struct {
	Day        string  `json:"day"`
	DelayCount int     `json:"delay_count"`
	AvgDelay   float64 `json:"avg_delay"`
}

type DashboardStats struct {
	TotalTasks          int `json:"totalTasks"`
	CompletedTasks      int `json:"completedTasks"`
	ProcrastinationLogs int `json:"procrastinationLogs"`
	FocusMinutes        int `json:"focusTime"`
}
