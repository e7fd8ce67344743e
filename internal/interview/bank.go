package interview

import (
	"fmt"
	"strings"

	"github.com/elevohq/interview-engine/internal/models"
)

// fundamentalsBank maps a detected skill to fixed fundamentals questions.
var fundamentalsBank = map[string][]string{
	"python": {
		"Good. In Python, what is the difference between list and tuple, and when would you use each?",
		"Nice. What is the difference between deep copy and shallow copy in Python?",
		"Can you explain Python dictionary time complexity for lookup, insert, and delete?",
	},
	"sql": {
		"Great. What is the difference between WHERE and HAVING in SQL?",
		"Can you explain INNER JOIN vs LEFT JOIN with a practical example?",
		"How do indexes improve SQL performance, and what is the tradeoff?",
	},
	"machine learning": {
		"Good. What is overfitting, and which techniques do you use to reduce it?",
		"Can you explain precision, recall, and F1 score in simple terms?",
		"What is the difference between supervised and unsupervised learning?",
	},
	"data structures": {
		"Nice. What is the difference between array and linked list in terms of operations and complexity?",
		"Can you explain stack vs queue with real use cases?",
		"What is the time complexity of binary search and when can it be used?",
	},
	"algorithms": {
		"Good. What is the difference between time complexity and space complexity?",
		"Can you explain recursion vs iteration and when recursion may be risky?",
		"What is dynamic programming, and how is it different from greedy approach?",
	},
	"go": {
		"Good. What is the difference between a goroutine and an OS thread?",
		"Can you explain how channels and mutexes differ for sharing state in Go?",
		"What does the defer statement do, and when does a deferred call run?",
	},
	"react": {
		"Good. What is the difference between state and props in React?",
		"Can you explain useEffect dependency behavior and common mistakes?",
		"What is virtual DOM and why is it useful?",
	},
	"api": {
		"Great. What is the difference between REST and RPC style APIs?",
		"How do you design idempotent API endpoints?",
		"What status codes do you commonly use for create, validation error, and unauthorized?",
	},
	"cloud": {
		"Can you explain horizontal scaling vs vertical scaling?",
		"What is the difference between containers and virtual machines?",
		"How do you approach high availability in a cloud service?",
	},
}

var genericTechQuestions = []string{
	"Could you explain OOP principles with one practical example from your work?",
	"How do you debug a production issue when logs are limited?",
	"What is your approach to writing clean and maintainable code?",
	"How do you choose between normalization and denormalization in database design?",
}

// FallbackBank is the deterministic, resume-grounded question source used when
// generation is exhausted or rejected. It always returns a question.
type FallbackBank struct {
	gate *QualityGate
}

func NewFallbackBank(gate *QualityGate) *FallbackBank {
	return &FallbackBank{gate: gate}
}

// Fundamental picks a skill-matched fundamentals question. Entries are rotated
// by turn count so repeated invocations within a session do not restart at the
// same entry, then filtered through the repetition check; the first entry wins
// unconditionally if every candidate is a duplicate.
func (b *FallbackBank) Fundamental(skills []string, turnCount int, recentQuestions []string) string {
	var candidates []string
	for _, skill := range skills {
		skill = strings.ToLower(strings.TrimSpace(skill))
		if skill == "" {
			continue
		}
		for key, questions := range fundamentalsBank {
			if strings.Contains(skill, key) || strings.Contains(key, skill) {
				candidates = append(candidates, questions...)
			}
		}
	}
	candidates = append(candidates, genericTechQuestions...)

	offset := turnCount % len(candidates)
	ordered := append(append([]string{}, candidates[offset:]...), candidates[:offset]...)
	for _, q := range ordered {
		if !b.gate.Repetitive(q, recentQuestions) {
			return q
		}
	}
	return ordered[0]
}

// Question returns the stage- and track-aware fallback for one turn.
func (b *FallbackBank) Question(plan models.InterviewPlan, stage Stage, answer string, turnCount int, recentQuestions []string) string {
	role := plan.Role
	if role == "" {
		role = "this role"
	}
	anchor := plan.ResumeAnchor
	projectAnchor := firstOr(anchor.Projects, "one project from your resume")
	expAnchor := firstOr(anchor.ExperienceHighlights, "one experience item from your resume")
	hrAnchor := firstOr(anchor.HRSignals, "one teamwork or communication example in your resume")

	var options map[Stage][]string
	if plan.Track == models.TrackTechnical {
		fundamentals := b.Fundamental(plan.SkillsFocus, turnCount, recentQuestions)
		options = map[Stage][]string{
			StageIntroduction: {
				fmt.Sprintf("Thanks for sharing. Which resume project best represents your fit for %s, and why?", role),
				fmt.Sprintf("Nice introduction. In %s, what specific technical responsibility did you own?", projectAnchor),
			},
			StageTechnicalCore: {
				fmt.Sprintf("Good start. In your resume project '%s', what stack did you use and why?", projectAnchor),
				fmt.Sprintf("Thanks. Can you explain the core logic or pipeline in %s?", projectAnchor),
				fundamentals,
			},
			StageTechnicalDepth: {
				fmt.Sprintf("Understood. In %s, what was the toughest technical issue and how did you debug it?", projectAnchor),
				fmt.Sprintf("Thanks. Based on %s, what tradeoff did you make between speed and quality?", expAnchor),
				fundamentals,
			},
			StageProblemSolving: {
				fmt.Sprintf("If %s had 10x more data or users, what technical changes would you make first?", projectAnchor),
				fmt.Sprintf("In %s, how would you improve performance or reliability in the next iteration?", projectAnchor),
				fundamentals,
			},
			StageFinalEvaluation: {
				fmt.Sprintf("Great discussion. From your resume work, which technical area do you want to deepen next for %s?", role),
				fmt.Sprintf("Thanks. What technical outcome would you target in your first month if hired for %s?", role),
			},
		}
	} else {
		options = map[Stage][]string{
			StageIntroduction: {
				fmt.Sprintf("Thanks for sharing. What motivated you to pursue %s based on your resume journey?", role),
				"Nice introduction. Which resume experience shaped your work style the most?",
			},
			StageHRCore: {
				fmt.Sprintf("In '%s', what communication approach helped you work effectively with others?", hrAnchor),
				"Thanks. From your resume experience, how do you prioritize when tasks compete for time?",
			},
			StageBehavioral: {
				"Can you share a situation from your resume where you handled disagreement constructively?",
				"From your listed experience, what feedback changed the way you work?",
			},
			StageSituationalHR: {
				"If a teammate misses deadlines repeatedly, how would you handle it professionally?",
				"How would you explain a complex issue to a non-technical manager in simple language?",
			},
			StageFinalEvaluation: {
				fmt.Sprintf("What values from your resume experiences will you bring to this %s role from day one?", role),
				"How do you define success for yourself in the first 90 days of a new team?",
			},
		}
	}

	// A candidate who reports no problems gets pivoted to positive-contribution
	// questions instead of a repeated challenge question.
	lowAnswer := strings.ToLower(strings.TrimSpace(answer))
	if strings.Contains(lowAnswer, "no problem") || strings.Contains(lowAnswer, "no issues") || lowAnswer == "none" {
		options[StageTechnicalDepth] = []string{
			fmt.Sprintf("No worries. In %s, what design choice are you most confident about, and why?", projectAnchor),
			fmt.Sprintf("That is fine. What was the most successful technical decision you made in %s?", projectAnchor),
		}
		options[StageBehavioral] = []string{
			"No worries. From your resume, share one example where you supported a teammate effectively.",
			"That is fine. Which responsibility in your resume best shows your ownership style?",
		}
	}

	defaultStage := StageTechnicalCore
	if plan.Track != models.TrackTechnical {
		defaultStage = StageHRCore
	}
	stageOptions, ok := options[stage]
	if !ok {
		stageOptions = options[defaultStage]
	}

	// In technical mode, alternate fundamentals ahead of resume questions on
	// even turn counts past the introduction.
	if plan.Track == models.TrackTechnical && turnCount%2 == 0 &&
		(stage == StageTechnicalCore || stage == StageTechnicalDepth || stage == StageProblemSolving) {
		stageOptions = append([]string{b.Fundamental(plan.SkillsFocus, turnCount, recentQuestions)}, stageOptions...)
	}

	for _, candidate := range stageOptions {
		if !b.gate.Repetitive(candidate, recentQuestions) {
			return candidate
		}
	}
	return fmt.Sprintf(
		"Thanks for sharing. Based on your answer, what is one specific improvement you would make if you did a similar task again for %s?", role)
}

func firstOr(items []string, fallback string) string {
	if len(items) > 0 && strings.TrimSpace(items[0]) != "" {
		return items[0]
	}
	return fallback
}
