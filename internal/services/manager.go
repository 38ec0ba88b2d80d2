package services

import (
	"procrastination-tracker/internal/database"
)

type ServiceManager struct {
	Notification    *NotificationService
	Analytics       *AnalyticsService
	Reports         *ReportService
	Task            *TaskService
	Procrastination *ProcrastinationService
	repository      *database.Repository
}

func NewServiceManager(db *database.Database, weights ScoreWeights) *ServiceManager {
	repo := database.NewRepository(db)

	return &ServiceManager{
		Notification:    nil,
		Analytics:       NewAnalyticsService(repo),
		Reports:         NewReportService(repo, weights),
		Task:            NewTaskService(repo),
		Procrastination: NewProcrastinationService(repo),
		repository:      repo,
	}
}

// SetCache shares one cache between the readers that fill it and the
// writers that invalidate it.
func (sm *ServiceManager) SetCache(cache ReportCache) {
	sm.Analytics.SetCache(cache)
	sm.Reports.SetCache(cache)
	sm.Task.SetCache(cache)
	sm.Procrastination.SetCache(cache)
}

func (sm *ServiceManager) SetNotificationSender(sender NotificationSender) {
	sm.Notification = NewNotificationService(sender, sm.Reports)
}

func (sm *ServiceManager) Repository() *database.Repository {
	return sm.repository
}
