package models

// PlanStage pairs a named interview stage with its goal text.
type PlanStage struct {
	Stage string `bson:"stage" json:"stage"`
	Goal  string `bson:"goal" json:"goal"`
}

// ResumeAnchor is the resume-derived bundle the synthesizer grounds questions on.
type ResumeAnchor struct {
	CandidateName        string   `bson:"candidate_name" json:"candidate_name"`
	Summary              string   `bson:"summary" json:"summary"`
	Projects             []string `bson:"projects" json:"projects"`                           // <=5
	ExperienceHighlights []string `bson:"experience_highlights" json:"experience_highlights"` // <=5
	HRSignals            []string `bson:"hr_signals" json:"hr_signals"`                       // <=5
}

// InterviewPlan is derived once at session start and never mutated afterwards.
type InterviewPlan struct {
	Role           string       `bson:"role" json:"role"`
	Track          Track        `bson:"track" json:"track"`
	TotalQuestions int          `bson:"total_questions" json:"total_questions"`
	Stages         []PlanStage  `bson:"stages" json:"stages"`
	SkillsFocus    []string     `bson:"skills_focus" json:"skills_focus"` // <=6
	ResumeAnchor   ResumeAnchor `bson:"resume_anchor" json:"resume_anchor"`
}
