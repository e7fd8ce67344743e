package resume

import (
	"strings"

	"github.com/elevohq/interview-engine/internal/interview"
)

// knownTools are scanned verbatim against the lowered resume text.
var knownTools = []string{
	"python", "go", "sql", "pandas", "numpy", "django", "react",
	"aws", "docker", "kubernetes", "excel", "tableau", "power bi",
}

var experienceMarkers = []string{"intern", "worked", "developed", "built", "implemented", "led"}
var educationMarkers = []string{"b.tech", "btech", "mca", "bca", "degree", "university", "college"}
var hrMarkers = []string{"team", "communication", "lead", "collaborat", "responsib", "managed"}

// heuristics holds the per-field keyword-scan candidates computed from the raw
// resume text. Each field backs exactly one profile field when generation
// produces nothing usable for it.
type heuristics struct {
	summary    string
	skills     []string
	tools      []string
	projects   []string
	experience []string
	education  []string
	hrSignals  []string
}

func scanResume(text string) heuristics {
	lowered := strings.ToLower(text)

	var h heuristics
	for _, topic := range interview.TechnicalTopics {
		if strings.Contains(lowered, topic) {
			h.skills = append(h.skills, topic)
		}
	}
	for _, tool := range knownTools {
		if strings.Contains(lowered, tool) {
			h.tools = append(h.tools, tool)
		}
	}

	var lines []string
	for _, ln := range strings.Split(text, "\n") {
		ln = strings.TrimSpace(strings.Trim(strings.TrimSpace(ln), "-• "))
		if ln != "" {
			lines = append(lines, ln)
		}
	}

	for _, ln := range lines {
		low := strings.ToLower(ln)
		if strings.Contains(low, "project") && len(h.projects) < 6 {
			h.projects = append(h.projects, ln)
		}
		if containsAny(low, experienceMarkers) && len(h.experience) < 8 {
			h.experience = append(h.experience, ln)
		}
		if containsAny(low, educationMarkers) && len(h.education) < 5 {
			h.education = append(h.education, ln)
		}
		if containsAny(low, hrMarkers) && len(h.hrSignals) < 6 {
			h.hrSignals = append(h.hrSignals, ln)
		}
	}

	summaryLines := lines
	if len(summaryLines) > 3 {
		summaryLines = summaryLines[:3]
	}
	h.summary = strings.Join(summaryLines, " ")
	if len(h.summary) > 320 {
		h.summary = h.summary[:320]
	}

	if len(h.skills) > 10 {
		h.skills = h.skills[:10]
	}
	if len(h.tools) > 12 {
		h.tools = h.tools[:12]
	}
	return h
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
