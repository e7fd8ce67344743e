package interview

import "strings"

var answerActionWords = []string{"built", "designed", "implemented", "optimized", "led", "improved", "delivered"}
var answerMetricMarkers = []string{"%", "x", "ms", "days", "weeks", "users", "latency", "throughput", "revenue"}

// AnswerQuality is a lightweight per-answer heuristic snapshot.
type AnswerQuality struct {
	WordCount         int  `json:"word_count"`
	HasActionLanguage bool `json:"has_action_language"`
	HasMetrics        bool `json:"has_metrics"`
	QualityScore      int  `json:"quality_score"`
}

// ScoreAnswer rates word count, action language, and measurable impact.
func ScoreAnswer(answer string) AnswerQuality {
	text := strings.TrimSpace(answer)
	low := strings.ToLower(text)
	words := strings.Fields(text)

	hasAction := false
	for _, w := range answerActionWords {
		if strings.Contains(low, w) {
			hasAction = true
			break
		}
	}
	hasMetric := false
	for _, m := range answerMetricMarkers {
		if strings.Contains(low, m) {
			hasMetric = true
			break
		}
	}

	score := 0
	switch {
	case len(words) >= 40:
		score += 35
	case len(words) >= 20:
		score += 20
	default:
		score += 8
	}
	if hasAction {
		score += 35
	} else {
		score += 10
	}
	if hasMetric {
		score += 30
	} else {
		score += 8
	}
	if score > 100 {
		score = 100
	}

	return AnswerQuality{
		WordCount:         len(words),
		HasActionLanguage: hasAction,
		HasMetrics:        hasMetric,
		QualityScore:      score,
	}
}
