package models

import "strings"

// ReadinessBand buckets an overall readiness score.
const (
	BandExcellent = "excellent"
	BandGood      = "good"
	BandAverage   = "average"
	BandNeedsWork = "needs-work"
)

type ReadinessBreakdown struct {
	KeywordMatch     int `json:"keyword_match"`
	StructureQuality int `json:"structure_quality"`
	ImpactEvidence   int `json:"impact_evidence"`
	Readability      int `json:"readability"`
}

// ReadinessReport is the composite resume-fit score. Computed fresh per call.
type ReadinessReport struct {
	OverallScore       int                `json:"overall_score"`
	Band               string             `json:"band"`
	Summary            string             `json:"summary"`
	Breakdown          ReadinessBreakdown `json:"breakdown"`
	MissingKeywords    []string           `json:"missing_keywords"`    // <=8
	DetectedHighlights []string           `json:"detected_highlights"` // <=6
	Suggestions        []string           `json:"suggestions"`         // <=6
	Track              Track              `json:"track"`
	TargetRole         string             `json:"target_role"`
}

func normalizeSkill(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
