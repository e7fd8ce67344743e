package interview

import (
	"fmt"
	"strings"

	"github.com/elevohq/interview-engine/internal/models"
)

const interviewerPersona = "You are Elevo, a warm and professional interviewer speaking simple, clear English.\n"

// FallbackClosing is used when the closing-message generation fails.
const FallbackClosing = "Thank you for completing your interview. Check your report for detailed feedback."

// OpeningMessage is the deterministic first turn, built from plan anchors
// instead of a generation call.
func OpeningMessage(sess *models.InterviewSession) string {
	role := sess.TargetRole
	if role == "" {
		role = "your target role"
	}
	introName := ""
	if name := strings.TrimSpace(sess.Plan.ResumeAnchor.CandidateName); name != "" {
		introName = " " + name
	}
	modeLabel := "technical"
	if sess.Track == models.TrackHR {
		modeLabel = "HR"
	}
	return fmt.Sprintf(
		"Hi%s, I am Elevo. Nice to meet you. We will run a %s mock interview for %s, based on your resume. "+
			"To begin, please introduce yourself and briefly summarize your recent resume highlights.",
		introName, modeLabel, role)
}

func questionPrompt(sess *models.InterviewSession, turns []models.InterviewTurn, latestAnswer string) string {
	nextQ := len(turns) + 1
	stage := StageFor(nextQ, sess.Track)
	plan := sess.Plan
	anchor := plan.ResumeAnchor

	questionStyle := "resume-anchored question"
	if sess.Track == models.TrackTechnical && nextQ > 1 && nextQ%2 == 0 {
		questionStyle = "fundamental skill-based technical question"
	}

	var history []string
	start := len(turns) - 6
	if start < 0 {
		start = 0
	}
	for _, t := range turns[start:] {
		if t.Question != "" {
			history = append(history, "Interviewer: "+t.Question)
		}
		if t.Answered() {
			history = append(history, "Candidate: "+*t.Answer)
		}
	}

	if latestAnswer == "" {
		latestAnswer = "(start)"
	}
	historyBlock := "None"
	if len(history) > 0 {
		historyBlock = strings.Join(history, "\n")
	}

	return interviewerPersona +
		fmt.Sprintf("Role: %s\nTrack: %s\nSkills: %s\n", sess.TargetRole, sess.Track, strings.Join(sess.KeySkills, ", ")) +
		fmt.Sprintf("Question number now: %d/%d\n", nextQ, plan.TotalQuestions) +
		fmt.Sprintf("Current stage: %s\n", stage) +
		fmt.Sprintf("Question style target now: %s\n", questionStyle) +
		fmt.Sprintf("Candidate name from resume: %s\n", orDefault(anchor.CandidateName, "Candidate")) +
		fmt.Sprintf("Primary focus skills: %s\n", orDefault(strings.Join(plan.SkillsFocus, ", "), "general")) +
		fmt.Sprintf("Resume projects: %s\n", orDefault(joinFirst(anchor.Projects, 3), "Not available")) +
		fmt.Sprintf("Resume experience highlights: %s\n", orDefault(joinFirst(anchor.ExperienceHighlights, 3), "Not available")) +
		fmt.Sprintf("Resume HR signals: %s\n", orDefault(joinFirst(anchor.HRSignals, 3), "Not available")) +
		fmt.Sprintf("Latest answer: %s\n", latestAnswer) +
		fmt.Sprintf("History:\n%s\n", historyBlock) +
		"Instructions:\n" +
		"- Start with one short appreciation/acknowledgement sentence.\n" +
		"- Then ask one non-repetitive, realistic next question.\n" +
		"- Keep total response under 75 words.\n" +
		"- Use easy, natural human wording. No robotic phrasing.\n" +
		"- If candidate asks clarification, clarify briefly and continue.\n" +
		"- Never use meta lines like 'when I asked' or 'as mentioned earlier'.\n" +
		"- STRICT: Ask based on resume details only.\n" +
		"- If track is technical and question_number > 1: ask only technical questions.\n" +
		"- In technical mode, mix resume-based questions with core fundamentals from skills.\n" +
		"- If current question style target is fundamental, ask a direct technical concept question from candidate skills.\n" +
		"- If track is hr and question_number > 1: ask only HR/behavioral/situational question.\n" +
		"- Return plain text only."
}

func repairPrompt(sess *models.InterviewSession, stage Stage, brokenDraft, latestAnswer string) string {
	return "Rewrite the interviewer response into one complete natural message.\n" +
		"Rules:\n" +
		"- First: one short appreciation sentence.\n" +
		"- Second: one clear interview question.\n" +
		"- Use simple human English.\n" +
		"- 22 to 55 words total.\n" +
		"- Must end with '?'\n" +
		fmt.Sprintf("Role: %s\n", sess.TargetRole) +
		fmt.Sprintf("Stage: %s\n", stage) +
		fmt.Sprintf("Candidate latest response: %s\n", latestAnswer) +
		fmt.Sprintf("Broken draft to repair: %s\n", brokenDraft) +
		"Return plain text only."
}

func targetedFollowupPrompt(sess *models.InterviewSession, stage Stage, latestAnswer string, recentQuestions []string) string {
	anchor := sess.Plan.ResumeAnchor
	recent := "- none"
	if len(recentQuestions) > 0 {
		var lines []string
		for _, q := range recentQuestions {
			lines = append(lines, "- "+q)
		}
		recent = strings.Join(lines, "\n")
	}
	return "You are Elevo, a natural human interviewer.\n" +
		"Write one fresh follow-up response in simple English.\n" +
		"Requirements:\n" +
		"- Start with one short appreciation line.\n" +
		"- Ask one NEW question based on the candidate's latest answer.\n" +
		"- Do NOT repeat or paraphrase recent questions.\n" +
		"- Focus on one concrete detail from the candidate answer.\n" +
		"- Keep total 22-60 words and end with '?'\n" +
		"- STRICT: use only resume-grounded context.\n" +
		"- Technical track -> only technical question after intro.\n" +
		"- HR track -> only HR/behavioral/situational question after intro.\n" +
		fmt.Sprintf("Role: %s\n", sess.TargetRole) +
		fmt.Sprintf("Track: %s\n", sess.Track) +
		fmt.Sprintf("Stage: %s\n", stage) +
		fmt.Sprintf("Resume projects: %s\n", orDefault(joinFirst(anchor.Projects, 3), "Not available")) +
		fmt.Sprintf("Resume experience: %s\n", orDefault(joinFirst(anchor.ExperienceHighlights, 3), "Not available")) +
		fmt.Sprintf("Resume HR signals: %s\n", orDefault(joinFirst(anchor.HRSignals, 3), "Not available")) +
		fmt.Sprintf("Candidate latest answer: %s\n", latestAnswer) +
		fmt.Sprintf("Recent questions to avoid:\n%s\n", recent) +
		"Return plain text only."
}

func closingPrompt(role string, answered int) string {
	return "Write a warm interview closing message in 3-4 sentences in simple English. Plain text only.\n" +
		fmt.Sprintf("Role: %s\nAnswered questions: %d", role, answered)
}

func feedbackPrompt(sess *models.InterviewSession, transcript []string) string {
	return "Return ONLY valid JSON with keys: overall_score, communication_score, confidence_level, strengths, " +
		"areas_for_improvement, technical_assessment, recommendations, encouragement_note.\n" +
		fmt.Sprintf("Role: %s\nSkills: %s\nTranscript:\n%s",
			sess.TargetRole, strings.Join(sess.KeySkills, ", "), strings.Join(transcript, "\n"))
}

func hintsPrompt(sess *models.InterviewSession, currentQuestion string) string {
	return "Provide exactly 3 interview hints as JSON array of strings.\n" +
		fmt.Sprintf("Role: %s\nTrack: %s\nSkills: %s\n", sess.TargetRole, sess.Track, strings.Join(sess.KeySkills, ", ")) +
		fmt.Sprintf("Resume projects: %s\n", joinFirst(sess.Plan.ResumeAnchor.Projects, 3)) +
		fmt.Sprintf("Current question: %s", currentQuestion)
}

func practicePrompt(sess *models.InterviewSession, focus string) string {
	anchor := sess.Plan.ResumeAnchor
	return "Generate 4 practice interview questions and return JSON {\"questions\":[...]}.\n" +
		fmt.Sprintf("Role: %s\nTrack: %s\nFocus: %s\n", sess.TargetRole, sess.Track, focus) +
		fmt.Sprintf("Resume anchors: projects=%s, experience=%s\n",
			joinFirst(anchor.Projects, 3), joinFirst(anchor.ExperienceHighlights, 3)) +
		"Technical track: only technical questions.\n" +
		"HR track: only HR/behavioral/situational questions."
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func joinFirst(items []string, n int) string {
	if len(items) > n {
		items = items[:n]
	}
	return strings.Join(items, "; ")
}
