package services

import (
	"context"
	"fmt"
	"log"
)

// NotificationSender delivers rendered reports to the user.
type NotificationSender interface {
	SendMessage(text string) error
	SendWeeklyReport(report *WeeklyReport) error
}

type NotificationService struct {
	sender  NotificationSender
	reports *ReportService
}

func NewNotificationService(sender NotificationSender, reports *ReportService) *NotificationService {
	return &NotificationService{
		sender:  sender,
		reports: reports,
	}
}

// SendWeeklyReport generates the current week's report for userID and delivers it.
func (ns *NotificationService) SendWeeklyReport(ctx context.Context, userID int64) error {
	return ns.SendWeeklyReportFor(ctx, userID, ns.reports.CurrentRange())
}

func (ns *NotificationService) SendWeeklyReportFor(ctx context.Context, userID int64, week WeekRange) error {
	report, err := ns.reports.GenerateForWeek(ctx, userID, week)
	if err != nil {
		return fmt.Errorf("generate weekly report: %w", err)
	}

	log.Printf("📊 Sending weekly report %s..%s to user %d (score %.0f)",
		report.WeekStart, report.WeekEnd, userID, report.ProductivityScore)

	if err := ns.sender.SendWeeklyReport(report); err != nil {
		return fmt.Errorf("send weekly report: %w", err)
	}
	return nil
}
