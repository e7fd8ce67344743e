package interview

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/elevohq/interview-engine/internal/models"
	"github.com/elevohq/interview-engine/internal/providers/llm"

	"github.com/sirupsen/logrus"
)

// FeedbackSynthesizer turns a transcript into bounded, fully-typed feedback.
// Any provider failure or malformed payload resolves to coerced defaults.
type FeedbackSynthesizer struct {
	gw  Generator
	log *logrus.Logger
}

func NewFeedbackSynthesizer(gw Generator, log *logrus.Logger) *FeedbackSynthesizer {
	return &FeedbackSynthesizer{gw: gw, log: log}
}

// DefaultFeedback is the complete default shape merged under provider output.
func DefaultFeedback(role string) models.Feedback {
	if strings.TrimSpace(role) == "" {
		role = "target role"
	}
	return models.Feedback{
		OverallScore:        70,
		CommunicationScore:  68,
		ConfidenceLevel:     "Developing",
		Strengths:           []string{"Completed the session", "Stayed engaged", "Discussed relevant topics"},
		AreasForImprovement: []string{"Use STAR examples", "Add measurable impact", "Improve structure"},
		TechnicalAssessment: fmt.Sprintf("Baseline fit for %s; improve depth and tradeoff discussion.", role),
		Recommendations:     []string{"Practice concise storytelling", "Prepare project examples", "Run mock interviews regularly"},
		EncouragementNote:   "Good progress. Keep practicing and refine your responses.",
	}
}

// CoerceFeedback merges a raw provider payload over the default shape: score
// fields are clamped to [0,100] and bare scalars in list fields are wrapped
// into single-element lists. Missing or unusable values keep the default.
func CoerceFeedback(payload map[string]any, role string) models.Feedback {
	base := DefaultFeedback(role)
	if payload == nil {
		return base
	}

	if v, ok := coerceScore(payload["overall_score"]); ok {
		base.OverallScore = v
	}
	if v, ok := coerceScore(payload["communication_score"]); ok {
		base.CommunicationScore = v
	}
	if v, ok := payload["confidence_level"].(string); ok && strings.TrimSpace(v) != "" {
		base.ConfidenceLevel = v
	}
	if v, ok := payload["technical_assessment"].(string); ok && strings.TrimSpace(v) != "" {
		base.TechnicalAssessment = v
	}
	if v, ok := payload["encouragement_note"].(string); ok && strings.TrimSpace(v) != "" {
		base.EncouragementNote = v
	}
	if v, ok := coerceStringList(payload["strengths"]); ok {
		base.Strengths = v
	}
	if v, ok := coerceStringList(payload["areas_for_improvement"]); ok {
		base.AreasForImprovement = v
	}
	if v, ok := coerceStringList(payload["recommendations"]); ok {
		base.Recommendations = v
	}
	return base
}

func coerceScore(v any) (int, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case int:
		f = float64(n)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	clamped := math.Max(0, math.Min(100, f))
	return int(clamped), true
}

func coerceStringList(v any) ([]string, bool) {
	switch val := v.(type) {
	case nil:
		return nil, false
	case string:
		if strings.TrimSpace(val) == "" {
			return nil, false
		}
		return []string{val}, true
	case []any:
		var out []string
		for _, item := range val {
			s := strings.TrimSpace(fmt.Sprint(item))
			if s != "" {
				out = append(out, s)
			}
		}
		if len(out) == 0 {
			return nil, false
		}
		return out, true
	case []string:
		out := cleanList(val)
		if len(out) == 0 {
			return nil, false
		}
		return out, true
	default:
		return []string{fmt.Sprint(val)}, true
	}
}

// Generate requests structured feedback for the transcript; on any failure it
// returns the coerced defaults.
func (f *FeedbackSynthesizer) Generate(ctx context.Context, sess *models.InterviewSession, turns []models.InterviewTurn) models.Feedback {
	var transcript []string
	for _, t := range turns {
		if t.Question != "" {
			transcript = append(transcript, fmt.Sprintf("Q%d: %s", t.TurnNumber, t.Question))
		}
		if t.Answered() {
			transcript = append(transcript, fmt.Sprintf("A%d: %s", t.TurnNumber, *t.Answer))
		}
	}

	if !f.gw.Enabled() {
		return DefaultFeedback(sess.TargetRole)
	}

	res, err := f.gw.Generate(ctx, llm.Request{
		Prompt:      feedbackPrompt(sess, transcript),
		Temperature: 0.35,
		MaxTokens:   800,
		WantJSON:    true,
	})
	if err != nil {
		f.log.WithError(err).Warn("feedback generation fallback")
		return DefaultFeedback(sess.TargetRole)
	}

	var payload map[string]any
	if derr := llm.DecodeJSON(res.Text, &payload); derr != nil {
		f.log.WithError(derr).Warn("feedback payload malformed, using defaults")
		return DefaultFeedback(sess.TargetRole)
	}
	f.log.WithFields(logrus.Fields{"provider": res.Provider, "model": res.Model}).Info("feedback generated")
	return CoerceFeedback(payload, sess.TargetRole)
}
