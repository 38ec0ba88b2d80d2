package services

import (
	"strings"
	"time"

	"procrastination-tracker/internal/database"
	"procrastination-tracker/internal/utils"
)

// WeekRange is a Monday–Sunday week as YYYY-MM-DD dates.
type WeekRange struct {
	Start string `json:"week_start"`
	End   string `json:"week_end"`
}

func (w WeekRange) DateRange() database.DateRange {
	return database.DateRange{Start: w.Start, End: w.End}
}

// ResolveWeek returns the Monday-start week containing the calendar date of t.
func ResolveWeek(t time.Time) WeekRange {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offsetFromMonday := (int(day.Weekday()) + 6) % 7
	start := day.AddDate(0, 0, -offsetFromMonday)
	end := start.AddDate(0, 0, 6)
	return WeekRange{Start: utils.FormatDate(start), End: utils.FormatDate(end)}
}

// ParseWeek resolves the week of a date string.
func ParseWeek(referenceDate string) (WeekRange, error) {
	if strings.TrimSpace(referenceDate) == "" {
		return WeekRange{}, missingParameter("date")
	}
	day, err := utils.ParseDate(referenceDate)
	if err != nil {
		return WeekRange{}, invalidInput("date", err)
	}
	return ResolveWeek(day), nil
}
