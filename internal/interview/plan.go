package interview

import (
	"strings"

	"github.com/elevohq/interview-engine/internal/models"
)

const maxSkillFocus = 6

// BuildPlan derives the per-session interview plan from a candidate profile
// and the chosen track. The plan is immutable for the session's lifetime.
func BuildPlan(profile *models.CandidateProfile, track models.Track, role string, keySkills []string, totalQuestions int) models.InterviewPlan {
	if !track.Valid() {
		track = models.TrackTechnical
	}
	if strings.TrimSpace(role) == "" {
		role = "General role"
	}

	skills := cleanList(keySkills)
	if len(skills) == 0 && profile != nil {
		skills = cleanList(append([]string(profile.Skills), profile.Tools...))
	}
	if len(skills) == 0 {
		if track == models.TrackTechnical {
			skills = TechnicalTopics
		} else {
			skills = HRTopics
		}
	}
	if len(skills) > maxSkillFocus {
		skills = skills[:maxSkillFocus]
	}

	stages := []models.PlanStage{
		{Stage: string(StageIntroduction), Goal: "Resume-based introduction and context setup"},
	}
	if track == models.TrackTechnical {
		stages = append(stages,
			models.PlanStage{Stage: string(StageTechnicalCore), Goal: "Core technical work from resume projects"},
			models.PlanStage{Stage: string(StageTechnicalDepth), Goal: "Depth on architecture, choices, debugging"},
			models.PlanStage{Stage: string(StageProblemSolving), Goal: "Scenario-based technical reasoning"},
		)
	} else {
		stages = append(stages,
			models.PlanStage{Stage: string(StageHRCore), Goal: "Motivation, communication, collaboration"},
			models.PlanStage{Stage: string(StageBehavioral), Goal: "Ownership, conflict, growth examples"},
			models.PlanStage{Stage: string(StageSituationalHR), Goal: "Workplace scenarios and judgement"},
		)
	}
	stages = append(stages, models.PlanStage{Stage: string(StageFinalEvaluation), Goal: "Closing and reflective wrap-up"})

	anchor := models.ResumeAnchor{Projects: []string{}, ExperienceHighlights: []string{}, HRSignals: []string{}}
	if profile != nil {
		anchor = models.ResumeAnchor{
			CandidateName:        strings.TrimSpace(profile.CandidateName),
			Summary:              strings.TrimSpace(profile.Summary),
			Projects:             capList(profile.Projects, 5),
			ExperienceHighlights: capList(profile.ExperienceHighlights, 5),
			HRSignals:            capList(profile.HRSignals, 5),
		}
	}

	return models.InterviewPlan{
		Role:           role,
		Track:          track,
		TotalQuestions: totalQuestions,
		Stages:         stages,
		SkillsFocus:    skills,
		ResumeAnchor:   anchor,
	}
}

func cleanList(items []string) []string {
	var out []string
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func capList(items []string, n int) []string {
	out := cleanList(items)
	if out == nil {
		out = []string{}
	}
	if len(out) > n {
		out = out[:n]
	}
	return out
}
