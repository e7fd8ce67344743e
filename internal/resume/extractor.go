package resume

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/elevohq/interview-engine/internal/models"
	"github.com/elevohq/interview-engine/internal/providers/llm"
)

const maxPromptResumeChars = 18000

// Generator is the slice of the gateway the extractor needs.
type Generator interface {
	Generate(ctx context.Context, req llm.Request) (llm.Result, error)
	Enabled() bool
}

// Extractor turns raw resume text into a structured candidate profile: one
// structured generation call, with independent heuristic fallbacks per field.
type Extractor struct {
	gw  Generator
	log *logrus.Logger
}

func NewExtractor(gw Generator, log *logrus.Logger) *Extractor {
	return &Extractor{gw: gw, log: log}
}

type extractedProfile struct {
	Summary              string   `json:"summary"`
	CandidateName        string   `json:"candidate_name"`
	PreferredRole        string   `json:"preferred_role"`
	Skills               []string `json:"skills"`
	Projects             []string `json:"projects"`
	ExperienceHighlights []string `json:"experience_highlights"`
	EducationHighlights  []string `json:"education_highlights"`
	ToolsTech            []string `json:"tools_tech"`
	HRSignals            []string `json:"hr_signals"`
}

// Extract builds the profile. Empty input yields an all-empty profile carrying
// only the role hint. Every field falls back field-by-field, never
// document-by-document.
func (e *Extractor) Extract(ctx context.Context, rawText, roleHint string, track models.Track) *models.CandidateProfile {
	roleHint = strings.TrimSpace(roleHint)
	p := &models.CandidateProfile{
		PreferredRole:        roleHint,
		Skills:               []string{},
		Tools:                []string{},
		Projects:             []string{},
		ExperienceHighlights: []string{},
		EducationHighlights:  []string{},
		HRSignals:            []string{},
	}
	if strings.TrimSpace(rawText) == "" {
		return p
	}
	p.ResumeText = rawText

	var gen extractedProfile
	if e.gw.Enabled() {
		res, err := e.gw.Generate(ctx, llm.Request{
			Prompt:      extractionPrompt(rawText, roleHint, track),
			Temperature: 0.2,
			MaxTokens:   900,
			WantJSON:    true,
		})
		if err != nil {
			e.log.WithError(err).Warn("profile extraction fallback to heuristics")
		} else if derr := llm.DecodeJSON(res.Text, &gen); derr != nil {
			e.log.WithError(derr).Warn("profile extraction payload malformed")
		}
	}

	h := scanResume(rawText)

	p.Summary = firstNonEmpty(strings.TrimSpace(gen.Summary), h.summary)
	p.CandidateName = strings.TrimSpace(gen.CandidateName)
	p.PreferredRole = firstNonEmpty(strings.TrimSpace(gen.PreferredRole), roleHint)
	p.Skills = firstNonEmptyList(gen.Skills, h.skills)
	p.Tools = firstNonEmptyList(gen.ToolsTech, h.tools)
	p.Projects = firstNonEmptyList(gen.Projects, h.projects)
	p.ExperienceHighlights = firstNonEmptyList(gen.ExperienceHighlights, h.experience)
	p.EducationHighlights = firstNonEmptyList(gen.EducationHighlights, h.education)
	p.HRSignals = firstNonEmptyList(gen.HRSignals, h.hrSignals)
	return p
}

func extractionPrompt(rawText, roleHint string, track models.Track) string {
	if len(rawText) > maxPromptResumeChars {
		rawText = rawText[:maxPromptResumeChars]
	}
	return "Extract structured candidate profile from this resume.\n" +
		"Return ONLY JSON with keys:\n" +
		"summary, candidate_name, preferred_role, skills, projects, experience_highlights, education_highlights, tools_tech, hr_signals.\n" +
		"Rules:\n" +
		"- projects: list of short lines with project and impact.\n" +
		"- experience_highlights: list of measurable achievements.\n" +
		"- hr_signals: communication/team/leadership indicators from resume.\n" +
		fmt.Sprintf("Role hint: %s\n", roleHint) +
		fmt.Sprintf("Interview track: %s\n", track) +
		fmt.Sprintf("Resume:\n%s", rawText)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstNonEmptyList(generated, heuristic []string) []string {
	if out := cleanStrings(generated); len(out) > 0 {
		return out
	}
	if out := cleanStrings(heuristic); len(out) > 0 {
		return out
	}
	return []string{}
}

func cleanStrings(items []string) []string {
	var out []string
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
