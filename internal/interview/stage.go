package interview

import "github.com/elevohq/interview-engine/internal/models"

// Stage is a named phase of the interview, derived purely from the turn number
// and the track.
type Stage string

const (
	StageIntroduction    Stage = "introduction"
	StageTechnicalCore   Stage = "technical-core"
	StageTechnicalDepth  Stage = "technical-depth"
	StageProblemSolving  Stage = "problem-solving"
	StageHRCore          Stage = "hr-core"
	StageBehavioral      Stage = "behavioral"
	StageSituationalHR   Stage = "situational-hr"
	StageFinalEvaluation Stage = "final-evaluation"

	// StageCompleted is a terminal pseudo-stage assigned only by the
	// orchestrator after the closing turn is written.
	StageCompleted Stage = "completed"
)

// StageFor maps (turn number, track) to the interview stage. Pure function:
// the stage is never stored independently of this pair.
func StageFor(turnNumber int, track models.Track) Stage {
	if !track.Valid() {
		track = models.TrackTechnical
	}
	if turnNumber <= 1 {
		return StageIntroduction
	}
	if track == models.TrackTechnical {
		switch {
		case turnNumber <= 3:
			return StageTechnicalCore
		case turnNumber <= 5:
			return StageTechnicalDepth
		case turnNumber <= 7:
			return StageProblemSolving
		}
	} else {
		switch {
		case turnNumber <= 3:
			return StageHRCore
		case turnNumber <= 5:
			return StageBehavioral
		case turnNumber <= 7:
			return StageSituationalHR
		}
	}
	return StageFinalEvaluation
}
