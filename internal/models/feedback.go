package models

// Feedback is the end-of-session summary. Every field is always populated:
// defaults are filled in before any provider output is merged.
type Feedback struct {
	OverallScore        int      `json:"overall_score"`
	CommunicationScore  int      `json:"communication_score"`
	ConfidenceLevel     string   `json:"confidence_level"`
	Strengths           []string `json:"strengths"`
	AreasForImprovement []string `json:"areas_for_improvement"`
	TechnicalAssessment string   `json:"technical_assessment"`
	Recommendations     []string `json:"recommendations"`
	EncouragementNote   string   `json:"encouragement_note"`
}
