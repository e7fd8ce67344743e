package interview

// Default focus topics used when neither the caller nor the resume supplies
// skills.
var (
	TechnicalTopics = []string{
		"programming",
		"algorithms",
		"data structures",
		"system design",
		"database",
		"api development",
		"cloud",
		"testing",
		"debugging",
		"machine learning",
	}

	HRTopics = []string{
		"communication",
		"teamwork",
		"conflict resolution",
		"ownership",
		"time management",
		"leadership",
		"adaptability",
		"motivation",
	}
)
