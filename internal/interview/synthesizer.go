package interview

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/elevohq/interview-engine/internal/models"
	"github.com/elevohq/interview-engine/internal/providers/llm"
)

// Generator is the slice of the gateway the synthesizer needs.
type Generator interface {
	Generate(ctx context.Context, req llm.Request) (llm.Result, error)
	Enabled() bool
}

// Synthesizer composes per-turn prompts, invokes the gateway, applies the
// quality gate and walks the escalating repair ladder down to the
// deterministic fallback bank. It always produces a question.
type Synthesizer struct {
	gw   Generator
	gate *QualityGate
	bank *FallbackBank
	log  *logrus.Logger
}

func NewSynthesizer(gw Generator, gate *QualityGate, bank *FallbackBank, log *logrus.Logger) *Synthesizer {
	return &Synthesizer{gw: gw, gate: gate, bank: bank, log: log}
}

// NextQuestion runs the escalation ladder for one turn:
// primary generation, repair pass, targeted follow-up, fallback bank.
func (s *Synthesizer) NextQuestion(ctx context.Context, sess *models.InterviewSession, turns []models.InterviewTurn, latestAnswer string) (string, models.Provenance) {
	nextQ := len(turns) + 1
	stage := StageFor(nextQ, sess.Track)
	recent := RecentQuestions(turns, repetitionWindowSize)

	if s.gw.Enabled() {
		res, err := s.gw.Generate(ctx, llm.Request{
			Prompt:      questionPrompt(sess, turns, latestAnswer),
			Temperature: 0.7,
			MaxTokens:   220,
		})
		if err == nil {
			question := strings.TrimSpace(res.Text)
			if s.gate.Accept(question, recent) {
				return question, provenance("followup", res, stage)
			}

			if repaired, prov, ok := s.repair(ctx, sess, stage, question, latestAnswer, recent); ok {
				return repaired, prov
			}
			if followup, prov, ok := s.targetedFollowup(ctx, sess, stage, latestAnswer, recent); ok {
				return followup, prov
			}
		} else {
			s.log.WithError(err).Warn("question generation fallback")
		}
	}

	choice := s.bank.Question(sess.Plan, stage, latestAnswer, len(turns), recent)
	return choice, models.Provenance{Type: "followup", Provider: "fallback", Model: "static", Stage: string(stage)}
}

// repair re-prompts the provider to rewrite a broken draft into one complete
// message.
func (s *Synthesizer) repair(ctx context.Context, sess *models.InterviewSession, stage Stage, brokenDraft, latestAnswer string, recent []string) (string, models.Provenance, bool) {
	res, err := s.gw.Generate(ctx, llm.Request{
		Prompt:      repairPrompt(sess, stage, brokenDraft, latestAnswer),
		Temperature: 0.55,
		MaxTokens:   220,
	})
	if err != nil {
		s.log.WithError(err).Warn("question repair fallback")
		return "", models.Provenance{}, false
	}
	repaired := strings.TrimSpace(res.Text)
	if !s.gate.Accept(repaired, recent) {
		return "", models.Provenance{}, false
	}
	return repaired, provenance("followup", res, stage), true
}

// targetedFollowup re-prompts anchored on the latest answer, explicitly
// listing the recent questions to avoid.
func (s *Synthesizer) targetedFollowup(ctx context.Context, sess *models.InterviewSession, stage Stage, latestAnswer string, recent []string) (string, models.Provenance, bool) {
	res, err := s.gw.Generate(ctx, llm.Request{
		Prompt:      targetedFollowupPrompt(sess, stage, latestAnswer, recent),
		Temperature: 0.65,
		MaxTokens:   220,
	})
	if err != nil {
		s.log.WithError(err).Warn("targeted follow-up fallback")
		return "", models.Provenance{}, false
	}
	followup := strings.TrimSpace(res.Text)
	if !s.gate.Accept(followup, recent) {
		return "", models.Provenance{}, false
	}
	return followup, provenance("followup", res, stage), true
}

// Closing produces the session wrap-up message with a static fallback.
func (s *Synthesizer) Closing(ctx context.Context, sess *models.InterviewSession, answered int) (string, models.Provenance) {
	if s.gw.Enabled() {
		res, err := s.gw.Generate(ctx, llm.Request{
			Prompt:      closingPrompt(sess.TargetRole, answered),
			Temperature: 0.6,
			MaxTokens:   180,
		})
		if err == nil && strings.TrimSpace(res.Text) != "" {
			return strings.TrimSpace(res.Text), provenance("closing", res, StageCompleted)
		}
		if err != nil {
			s.log.WithError(err).Warn("closing generation fallback")
		}
	}
	return FallbackClosing, models.Provenance{Type: "closing", Provider: "fallback", Model: "static", Stage: string(StageCompleted)}
}

// Hints returns exactly 3 hints for the current question.
func (s *Synthesizer) Hints(ctx context.Context, sess *models.InterviewSession, currentQuestion string) ([]string, string, string) {
	if s.gw.Enabled() {
		res, err := s.gw.Generate(ctx, llm.Request{
			Prompt:      hintsPrompt(sess, currentQuestion),
			Temperature: 0.4,
			MaxTokens:   180,
			WantJSON:    true,
		})
		if err == nil {
			var parsed []string
			if derr := llm.DecodeJSON(res.Text, &parsed); derr == nil {
				hints := cleanList(parsed)
				if len(hints) > 3 {
					hints = hints[:3]
				}
				if len(hints) > 0 {
					return hints, res.Provider, res.Model
				}
			}
		}
	}
	return []string{
		"Answer directly in the first line.",
		"Use one concrete project example.",
		"End with a measurable result.",
	}, "fallback", "static"
}

// Practice returns 4 track-scoped practice questions.
func (s *Synthesizer) Practice(ctx context.Context, sess *models.InterviewSession, focus string) ([]string, string, string) {
	if s.gw.Enabled() {
		res, err := s.gw.Generate(ctx, llm.Request{
			Prompt:      practicePrompt(sess, focus),
			Temperature: 0.6,
			MaxTokens:   260,
			WantJSON:    true,
		})
		if err == nil {
			var parsed struct {
				Questions []string `json:"questions"`
			}
			if derr := llm.DecodeJSON(res.Text, &parsed); derr == nil {
				questions := cleanList(parsed.Questions)
				if len(questions) > 4 {
					questions = questions[:4]
				}
				if len(questions) > 0 {
					return questions, res.Provider, res.Model
				}
			}
		}
	}

	if sess.Track == models.TrackTechnical {
		return []string{
			"From your resume, explain one technical project architecture and your decisions.",
			"How would you debug a failing pipeline or production bug in one of your projects?",
			"Which optimization did you implement and how did you measure improvement?",
			"What technical tradeoff did you make in your recent project and why?",
		}, "fallback", "static"
	}
	return []string{
		"From your resume, share a time you handled a team challenge effectively.",
		"How do you prioritize tasks when multiple stakeholders request updates?",
		"Describe a situation where you received feedback and improved your approach.",
		"How would you handle conflict with a teammate while preserving collaboration?",
	}, "fallback", "static"
}

// RecentQuestions returns the questions of the last n turns, oldest first.
func RecentQuestions(turns []models.InterviewTurn, n int) []string {
	start := len(turns) - n
	if start < 0 {
		start = 0
	}
	var out []string
	for _, t := range turns[start:] {
		if t.Question != "" {
			out = append(out, t.Question)
		}
	}
	return out
}

func provenance(typ string, res llm.Result, stage Stage) models.Provenance {
	return models.Provenance{Type: typ, Provider: res.Provider, Model: res.Model, Stage: string(stage)}
}
