package interview

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/elevohq/interview-engine/internal/models"
)

func TestStageFor_TechnicalTrack(t *testing.T) {
	cases := []struct {
		turn int
		want Stage
	}{
		{1, StageIntroduction},
		{2, StageTechnicalCore},
		{3, StageTechnicalCore},
		{4, StageTechnicalDepth},
		{5, StageTechnicalDepth},
		{6, StageProblemSolving},
		{7, StageProblemSolving},
		{8, StageFinalEvaluation},
		{12, StageFinalEvaluation},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StageFor(tc.turn, models.TrackTechnical), "turn %d", tc.turn)
	}
}

func TestStageFor_HRTrack(t *testing.T) {
	cases := []struct {
		turn int
		want Stage
	}{
		{1, StageIntroduction},
		{2, StageHRCore},
		{3, StageHRCore},
		{4, StageBehavioral},
		{5, StageBehavioral},
		{6, StageSituationalHR},
		{7, StageSituationalHR},
		{8, StageFinalEvaluation},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StageFor(tc.turn, models.TrackHR), "turn %d", tc.turn)
	}
}

func TestStageFor_Deterministic(t *testing.T) {
	for turn := 1; turn <= 10; turn++ {
		first := StageFor(turn, models.TrackTechnical)
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, StageFor(turn, models.TrackTechnical))
		}
	}
}

func TestStageFor_InvalidTrackDefaultsToTechnical(t *testing.T) {
	assert.Equal(t, StageTechnicalCore, StageFor(2, models.Track("nonsense")))
}
