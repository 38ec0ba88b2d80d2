package utils

import "strings"

// GetEmotionEmoji returns the emoji shown next to an emotional state.
func GetEmotionEmoji(emotion string) string {
	switch strings.ToLower(emotion) {
	case "happy":
		return "😊"
	case "sad":
		return "😢"
	case "stressed":
		return "😰"
	case "frustrated":
		return "😤"
	case "anxious":
		return "😟"
	case "motivated":
		return "💪"
	case "tired":
		return "😴"
	case "relaxed":
		return "😌"
	default:
		return "😐"
	}
}

// GetDelaySeverityEmoji buckets a delay the same way the log view colours it.
func GetDelaySeverityEmoji(minutes float64) string {
	switch {
	case minutes <= 15:
		return "🟢"
	case minutes <= 60:
		return "🟡"
	default:
		return "🔴"
	}
}
