package models

import (
	"time"

	"github.com/lib/pq"
)

// CandidateProfile is the structured resume summary produced by the extractor.
// Every list field is always present; empty slices, never null.
type CandidateProfile struct {
	UserID        string `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	Summary       string `gorm:"column:summary;type:text" json:"summary"`
	CandidateName string `gorm:"column:candidate_name;type:text" json:"candidate_name"`
	PreferredRole string `gorm:"column:preferred_role;type:text" json:"preferred_role"`

	Skills               pq.StringArray `gorm:"column:skills;type:text[]" json:"skills"`
	Tools                pq.StringArray `gorm:"column:tools;type:text[]" json:"tools_tech"`
	Projects             pq.StringArray `gorm:"column:projects;type:text[]" json:"projects"`
	ExperienceHighlights pq.StringArray `gorm:"column:experience_highlights;type:text[]" json:"experience_highlights"`
	EducationHighlights  pq.StringArray `gorm:"column:education_highlights;type:text[]" json:"education_highlights"`
	HRSignals            pq.StringArray `gorm:"column:hr_signals;type:text[]" json:"hr_signals"`

	ResumeText string `gorm:"column:resume_text;type:text" json:"-"`

	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (CandidateProfile) TableName() string { return "candidate_profiles" }

// AllSkills merges skills and tools, lowercased and deduplicated in order.
func (p *CandidateProfile) AllSkills() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, s := range append([]string(p.Skills), p.Tools...) {
		k := normalizeSkill(s)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
