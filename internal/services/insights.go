package services

import (
	"fmt"

	"procrastination-tracker/internal/utils"
)

type Recommendation struct {
	Icon    string `json:"icon"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

var strainedEmotions = map[string]bool{
	"Stressed":   true,
	"Anxious":    true,
	"Frustrated": true,
}

// Recommendations turns an analytics result into advice. No category
// delays means there is not enough data yet and nothing is returned.
func Recommendations(analytics *AnalyticsResult) []Recommendation {
	recommendations := []Recommendation{}
	if analytics == nil || len(analytics.CategoryDelays) == 0 {
		return recommendations
	}

	mostDelayed := analytics.CategoryDelays[0]
	recommendations = append(recommendations, Recommendation{
		Icon:    "🎯",
		Title:   "Focus Area",
		Message: fmt.Sprintf("%q tasks are your most delayed category. Consider breaking them into smaller subtasks.", mostDelayed.Category),
	})

	if len(analytics.ReasonsBreakdown) > 0 {
		topReason := analytics.ReasonsBreakdown[0]
		recommendations = append(recommendations, Recommendation{
			Icon:    "💡",
			Title:   "Main Challenge",
			Message: fmt.Sprintf("%q is your most common reason. Try to identify and minimize this trigger.", topReason.ReasonText),
		})
	}

	if len(analytics.EmotionsBreakdown) > 0 {
		topEmotion := analytics.EmotionsBreakdown[0]
		if strainedEmotions[topEmotion.EmotionText] {
			recommendations = append(recommendations, Recommendation{
				Icon:    "🧘",
				Title:   "Emotional Pattern",
				Message: fmt.Sprintf("You often feel %q when procrastinating. Consider stress management techniques.", topEmotion.EmotionText),
			})
		}
	}

	if analytics.AvgDelay > 60 {
		recommendations = append(recommendations, Recommendation{
			Icon:    "⏰",
			Title:   "Time Management",
			Message: fmt.Sprintf("Your average delay is %s. Try setting more realistic deadlines or adding buffer time.", utils.FormatDuration(analytics.AvgDelay)),
		})
	}

	return recommendations
}
