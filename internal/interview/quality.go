package interview

import "strings"

const (
	minQuestionWords     = 9
	repetitionWindowSize = 4
)

// danglingConnectives are words a complete interviewer message never ends on.
var danglingConnectives = map[string]struct{}{
	"it": {}, "this": {}, "that": {}, "and": {}, "but": {},
	"so": {}, "because": {}, "then": {}, "also": {}, "about": {},
}

// metaPhrases mark truncated or self-referential model output.
var metaPhrases = []string{"when i asked", "as mentioned earlier"}

// QualityGate validates a candidate question for completeness and for
// repetition against recent history. A candidate passes only if both checks
// pass.
type QualityGate struct {
	strategies []SimilarityStrategy
}

func NewQualityGate(strategies ...SimilarityStrategy) *QualityGate {
	if len(strategies) == 0 {
		strategies = []SimilarityStrategy{
			EditRatio{Threshold: DefaultEditRatioThreshold},
			TokenOverlap{Threshold: DefaultTokenOverlapThreshold},
		}
	}
	return &QualityGate{strategies: strategies}
}

// Incomplete reports whether the text fails the completeness check.
func (g *QualityGate) Incomplete(text string) bool {
	msg := strings.TrimSpace(text)
	if msg == "" {
		return true
	}
	words := strings.Fields(msg)
	if len(words) < minQuestionWords {
		return true
	}
	last := strings.ToLower(strings.Trim(words[len(words)-1], ".,!?"))
	if _, ok := danglingConnectives[last]; ok {
		return true
	}
	if strings.HasSuffix(msg, ",") || strings.HasSuffix(msg, ":") || strings.HasSuffix(msg, "-") {
		return true
	}
	if !strings.Contains(msg, "?") {
		return true
	}
	low := strings.ToLower(msg)
	for _, phrase := range metaPhrases {
		if strings.Contains(low, phrase) {
			return true
		}
	}
	return false
}

// Repetitive reports whether the candidate is a near-duplicate of any of the
// last 4 recorded questions.
func (g *QualityGate) Repetitive(candidate string, recentQuestions []string) bool {
	newQ := NormalizeQuestion(candidate)
	if newQ == "" {
		return true
	}
	window := recentQuestions
	if len(window) > repetitionWindowSize {
		window = window[len(window)-repetitionWindowSize:]
	}
	for _, old := range window {
		oldQ := NormalizeQuestion(old)
		if oldQ == "" {
			continue
		}
		for _, s := range g.strategies {
			if s.Similar(newQ, oldQ) {
				return true
			}
		}
	}
	return false
}

// Accept runs both checks.
func (g *QualityGate) Accept(candidate string, recentQuestions []string) bool {
	return !g.Incomplete(candidate) && !g.Repetitive(candidate, recentQuestions)
}
