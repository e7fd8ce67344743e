package resume

import (
	"fmt"
	"math"
	"strings"

	"github.com/elevohq/interview-engine/internal/models"
)

var impactMarkers = []string{"%", "x", "users", "latency", "accuracy", "revenue", "ms", "reduced", "improved"}

// Weights of the composite readiness score.
const (
	weightKeyword     = 0.38
	weightStructure   = 0.22
	weightImpact      = 0.24
	weightReadability = 0.16
)

// Band thresholds.
const (
	bandExcellentMin = 85
	bandGoodMin      = 72
	bandAverageMin   = 58
)

// Score computes the composite readiness report for a profile. Deterministic:
// identical inputs always yield the identical report.
func Score(profile *models.CandidateProfile, roleHint, skillsHint string, track models.Track, resumeText string) models.ReadinessReport {
	roleHint = strings.TrimSpace(roleHint)

	var targets []string
	for _, s := range strings.Split(skillsHint, ",") {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			targets = append(targets, s)
		}
	}

	resumeSkills := make(map[string]struct{})
	for _, s := range profile.AllSkills() {
		resumeSkills[s] = struct{}{}
	}

	// Keyword match
	var keywordMatch int
	var missing []string
	if len(targets) > 0 {
		matched := 0
		for _, t := range targets {
			if _, ok := resumeSkills[t]; ok {
				matched++
			} else if len(missing) < 8 {
				missing = append(missing, t)
			}
		}
		keywordMatch = int(math.Round(float64(matched) / float64(len(targets)) * 100))
	} else {
		keywordMatch = 55 + len(resumeSkills)*4
		if keywordMatch > 95 {
			keywordMatch = 95
		}
	}

	// Structure quality
	projectCount := len(profile.Projects)
	expCount := len(profile.ExperienceHighlights)
	eduCount := len(profile.EducationHighlights)
	structure := 0
	switch {
	case projectCount >= 2:
		structure += 35
	case projectCount == 1:
		structure += 20
	default:
		structure += 8
	}
	switch {
	case expCount >= 2:
		structure += 35
	case expCount == 1:
		structure += 20
	default:
		structure += 10
	}
	if eduCount >= 1 {
		structure += 30
	} else {
		structure += 10
	}
	if structure > 100 {
		structure = 100
	}

	// Impact evidence
	metricHits := 0
	for _, ln := range append(append([]string{}, profile.Projects...), profile.ExperienceHighlights...) {
		low := strings.ToLower(ln)
		for _, m := range impactMarkers {
			if strings.Contains(low, m) {
				metricHits++
				break
			}
		}
	}
	impact := 30 + metricHits*18
	if impact > 100 {
		impact = 100
	}

	// Readability
	text := strings.TrimSpace(resumeText)
	textLen := len(text)
	sentenceCount := strings.Count(text, ".") + strings.Count(text, "\n")
	if sentenceCount < 1 {
		sentenceCount = 1
	}
	avgLen := float64(textLen) / float64(sentenceCount)
	readability := 82
	if textLen < 600 {
		readability = 62
	} else if textLen > 12000 {
		readability = 68
	}
	if avgLen > 180 {
		readability -= 8
	}
	if readability < 45 {
		readability = 45
	}
	if readability > 95 {
		readability = 95
	}

	overall := int(math.Round(
		weightKeyword*float64(keywordMatch) +
			weightStructure*float64(structure) +
			weightImpact*float64(impact) +
			weightReadability*float64(readability)))

	var band, summary string
	switch {
	case overall >= bandExcellentMin:
		band = models.BandExcellent
		summary = "Strong readiness. Your resume is well aligned for screening."
	case overall >= bandGoodMin:
		band = models.BandGood
		summary = "Good readiness. A few targeted improvements can increase shortlist chances."
	case overall >= bandAverageMin:
		band = models.BandAverage
		summary = "Moderate readiness. Improve role alignment and quantified impact."
	default:
		band = models.BandNeedsWork
		summary = "Readiness is low. Improve structure, role keywords, and measurable outcomes."
	}

	var highlights []string
	if strings.TrimSpace(profile.PreferredRole) != "" {
		highlights = append(highlights, "Role alignment detected: "+profile.PreferredRole)
	}
	if projectCount > 0 {
		highlights = append(highlights, fmt.Sprintf("%d project section(s) detected", projectCount))
	}
	if expCount > 0 {
		highlights = append(highlights, fmt.Sprintf("%d experience highlight(s) detected", expCount))
	}
	if len(resumeSkills) > 0 {
		n := len(resumeSkills)
		if n > 12 {
			n = 12
		}
		highlights = append(highlights, fmt.Sprintf("%d relevant skills identified", n))
	}
	if len(highlights) > 6 {
		highlights = highlights[:6]
	}

	var suggestions []string
	if keywordMatch < 70 {
		suggestions = append(suggestions, "Add more role-specific keywords from your target job description.")
	}
	if impact < 70 {
		suggestions = append(suggestions, "Add measurable outcomes (%, scale, time saved, users impacted).")
	}
	if structure < 75 {
		suggestions = append(suggestions, "Improve section structure: Projects, Experience, and Education with clear bullets.")
	}
	if readability < 75 {
		suggestions = append(suggestions, "Use concise bullet points and avoid long dense paragraphs.")
	}
	if len(suggestions) == 0 {
		suggestions = []string{
			"Tailor resume keywords to each role before applying.",
			"Keep strongest quantified achievements near top sections.",
			"Refresh project descriptions with specific technical decisions.",
		}
	}
	if len(suggestions) > 6 {
		suggestions = suggestions[:6]
	}

	targetRole := roleHint
	if targetRole == "" {
		targetRole = profile.PreferredRole
	}

	return models.ReadinessReport{
		OverallScore: overall,
		Band:         band,
		Summary:      summary,
		Breakdown: models.ReadinessBreakdown{
			KeywordMatch:     keywordMatch,
			StructureQuality: structure,
			ImpactEvidence:   impact,
			Readability:      readability,
		},
		MissingKeywords:    emptyIfNil(missing),
		DetectedHighlights: emptyIfNil(highlights),
		Suggestions:        suggestions,
		Track:              track,
		TargetRole:         targetRole,
	}
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
