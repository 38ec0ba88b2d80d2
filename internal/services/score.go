package services

import "math"

// ScoreWeights are the tuning constants of the weekly productivity score.
type ScoreWeights struct {
	// DelayFrequencyCap is the most points lost to the share of delayed tasks.
	DelayFrequencyCap float64
	// SeverityCap is the most points lost to the average delay.
	SeverityCap float64
	// SeverityScaleMinutes is the average delay that reaches SeverityCap.
	SeverityScaleMinutes float64
}

func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{
		DelayFrequencyCap:    30,
		SeverityCap:          40,
		SeverityScaleMinutes: 120,
	}
}

// ProductivityScore rates a week from 0 to 100. A week without assigned
// tasks scores 0.
func ProductivityScore(totalTasks, completedTasks, delayedTasks int, avgDelay float64, w ScoreWeights) float64 {
	if totalTasks <= 0 {
		return 0
	}
	total := float64(totalTasks)

	completionRate := float64(completedTasks) / total * 100

	effectiveDelayed := min(delayedTasks, totalTasks)
	if effectiveDelayed < 0 {
		effectiveDelayed = 0
	}
	delayPenalty := float64(effectiveDelayed) / total * w.DelayFrequencyCap

	avgDelayPenalty := 0.0
	if avgDelay > 0 {
		if w.SeverityScaleMinutes > 0 {
			avgDelayPenalty = math.Min(w.SeverityCap, avgDelay/w.SeverityScaleMinutes*w.SeverityCap)
		} else {
			avgDelayPenalty = w.SeverityCap
		}
	}

	raw := completionRate - delayPenalty - avgDelayPenalty
	if math.IsNaN(raw) {
		return 0
	}
	return math.Max(0, math.Min(100, raw))
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
