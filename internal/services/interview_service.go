package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/elevohq/interview-engine/internal/cache"
	"github.com/elevohq/interview-engine/internal/interview"
	"github.com/elevohq/interview-engine/internal/models"
	mongorepo "github.com/elevohq/interview-engine/internal/repositories/mongo"
	pgrepo "github.com/elevohq/interview-engine/internal/repositories/postgres"
	"github.com/elevohq/interview-engine/internal/resume"
	"github.com/elevohq/interview-engine/internal/utils"
)

const (
	turnLockTTL    = 30 * time.Second
	feedbackTTL    = 30 * 24 * time.Hour
	feedbackPrefix = "interview:feedback:"
)

type StartInput struct {
	Track      models.Track `json:"track"`
	TargetRole string       `json:"target_role"`
	KeySkills  []string     `json:"key_skills"`
	ResumeText string       `json:"resume_text"`
}

type StartResult struct {
	Session *models.InterviewSession `json:"session"`
	Opening *models.InterviewTurn    `json:"opening"`
}

type TurnInput struct {
	Answer      string `json:"answer"`
	RequestType string `json:"request_type"` // answer (default) | end
}

type TurnResult struct {
	SessionID     string                   `json:"session_id"`
	TurnNumber    int                      `json:"turn_number"`
	Stage         string                   `json:"stage"`
	Question      string                   `json:"question"`
	Provenance    models.Provenance        `json:"provenance"`
	AnswerQuality *interview.AnswerQuality `json:"answer_quality,omitempty"`
	Completed     bool                     `json:"completed"`
	Feedback      *models.Feedback         `json:"feedback,omitempty"`
}

type ReviewMetrics struct {
	QuestionsAsked    int            `json:"questions_asked"`
	QuestionsAnswered int            `json:"questions_answered"`
	AvgAnswerQuality  int            `json:"avg_answer_quality"`
	EngagementScore   int            `json:"engagement_score"`
	DurationMinutes   int            `json:"duration_minutes"`
	TotalWords        int            `json:"total_words"`
	AvgResponseLength int            `json:"avg_response_length"`
	StageDistribution map[string]int `json:"stage_distribution"`
}

type ReviewResult struct {
	Session  *models.InterviewSession `json:"session"`
	Turns    []models.InterviewTurn   `json:"turns"`
	Feedback *models.Feedback         `json:"feedback,omitempty"`
	Metrics  ReviewMetrics            `json:"metrics"`
}

type AssistResult struct {
	Items    []string `json:"items"`
	Provider string   `json:"provider"`
	Model    string   `json:"model"`
}

type InterviewService interface {
	Start(ctx context.Context, userID string, in StartInput) (*StartResult, error)
	Get(ctx context.Context, userID, sessionID string) (*models.InterviewSession, []models.InterviewTurn, error)
	History(ctx context.Context, userID string) ([]models.InterviewSession, error)
	Advance(ctx context.Context, userID, sessionID string, in TurnInput) (*TurnResult, error)
	Review(ctx context.Context, userID, sessionID string) (*ReviewResult, error)
	Hints(ctx context.Context, userID, sessionID string) (*AssistResult, error)
	Practice(ctx context.Context, userID, sessionID, focus string) (*AssistResult, error)
}

type interviewService struct {
	sessions mongorepo.SessionRepository
	turns    pgrepo.TurnRepository
	profiles pgrepo.ProfileRepository

	synth     *interview.Synthesizer
	feedback  *interview.FeedbackSynthesizer
	extractor *resume.Extractor

	cache  cache.Cache
	locker cache.SessionLocker
	log    *logrus.Logger

	minQuestions int
	maxQuestions int
}

func NewInterviewService(
	sessions mongorepo.SessionRepository,
	turns pgrepo.TurnRepository,
	profiles pgrepo.ProfileRepository,
	synth *interview.Synthesizer,
	feedback *interview.FeedbackSynthesizer,
	extractor *resume.Extractor,
	c cache.Cache,
	locker cache.SessionLocker,
	log *logrus.Logger,
	minQuestions, maxQuestions int,
) InterviewService {
	if minQuestions <= 0 {
		minQuestions = 5
	}
	if maxQuestions < minQuestions {
		maxQuestions = 8
	}
	return &interviewService{
		sessions:  sessions,
		turns:     turns,
		profiles:  profiles,
		synth:     synth,
		feedback:  feedback,
		extractor: extractor,
		cache:     c,
		locker:    locker,
		log:       log,

		minQuestions: minQuestions,
		maxQuestions: maxQuestions,
	}
}

func (s *interviewService) Start(ctx context.Context, userID string, in StartInput) (*StartResult, error) {
	const op = "InterviewService.Start"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	if !in.Track.Valid() {
		return nil, utils.E(utils.CodeInvalidArgument, op, "track must be technical or hr", nil)
	}

	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeInternal, op, "failed to load candidate profile", err)
	}

	// inline resume text takes the place of a missing stored profile
	if profile == nil && strings.TrimSpace(in.ResumeText) != "" && s.extractor != nil {
		profile = s.extractor.Extract(ctx, in.ResumeText, in.TargetRole, in.Track)
		profile.UserID = userID
		profile.UpdatedAt = time.Now().UTC()
		if uerr := s.profiles.Upsert(ctx, profile); uerr != nil {
			s.log.WithError(uerr).Warn("failed to persist inline resume profile")
		}
	}

	plan := interview.BuildPlan(profile, in.Track, in.TargetRole, in.KeySkills, s.maxQuestions)

	now := time.Now().UTC()
	sess := &models.InterviewSession{
		SessionID:  uuid.NewString(),
		UserID:     userID,
		Track:      in.Track,
		TargetRole: plan.Role,
		KeySkills:  plan.SkillsFocus,
		Plan:       plan,
		Status:     models.SessionInProgress,
		CreatedAt:  now,
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create session", err)
	}

	opening := &models.InterviewTurn{
		ID:         uuid.NewString(),
		SessionID:  sess.SessionID,
		TurnNumber: 1,
		Question:   interview.OpeningMessage(sess),
		Provenance: mustProvenance(models.Provenance{
			Type:     "opening",
			Provider: "system",
			Model:    "opening-script",
			Stage:    string(interview.StageIntroduction),
		}),
		CreatedAt: now,
	}
	if err := s.turns.Create(ctx, opening); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to persist opening turn", err)
	}

	return &StartResult{Session: sess, Opening: opening}, nil
}

func (s *interviewService) Get(ctx context.Context, userID, sessionID string) (*models.InterviewSession, []models.InterviewTurn, error) {
	const op = "InterviewService.Get"

	sess, err := s.ownedSession(ctx, op, userID, sessionID)
	if err != nil {
		return nil, nil, err
	}
	turns, err := s.turns.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, nil, utils.E(utils.CodeInternal, op, "failed to list turns", err)
	}
	return sess, turns, nil
}

func (s *interviewService) History(ctx context.Context, userID string) ([]models.InterviewSession, error) {
	const op = "InterviewService.History"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	out, err := s.sessions.ListByUser(ctx, userID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list sessions", err)
	}
	return out, nil
}

// Advance applies one answer and produces either the next question or the
// closing turn. All turn writes for a session happen under its lock.
func (s *interviewService) Advance(ctx context.Context, userID, sessionID string, in TurnInput) (*TurnResult, error) {
	const op = "InterviewService.Advance"

	release, ok, err := s.locker.Lock(ctx, sessionID, turnLockTTL)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to acquire session lock", err)
	}
	if !ok {
		return nil, utils.E(utils.CodeConflict, op, "another turn is in progress for this session", nil)
	}
	defer release()

	sess, err := s.ownedSession(ctx, op, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Status == models.SessionCompleted {
		return nil, utils.E(utils.CodeConflict, op, "session is already completed", nil)
	}

	turns, err := s.turns.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list turns", err)
	}
	if len(turns) == 0 {
		return nil, utils.E(utils.CodeInternal, op, "session has no opening turn", nil)
	}

	endRequested := strings.EqualFold(in.RequestType, "end")
	answer := strings.TrimSpace(in.Answer)
	if answer == "" && !endRequested {
		return nil, utils.E(utils.CodeInvalidArgument, op, "no answer provided", nil)
	}

	last := &turns[len(turns)-1]
	if answer != "" && !last.Answered() {
		if err := s.turns.AttachAnswer(ctx, last.ID, answer); err != nil {
			return nil, utils.E(utils.CodeInternal, op, "failed to attach answer", err)
		}
		last.Answer = &answer
	}

	answered := 0
	for i := range turns {
		if turns[i].Answered() {
			answered++
		}
	}

	if endRequested && answered < s.minQuestions {
		return nil, utils.E(utils.CodeInvalidArgument, op, "interview cannot end before the minimum number of answers", nil)
	}

	if endRequested || answered >= s.maxQuestions {
		return s.close(ctx, op, sess, turns, answered)
	}

	question, prov := s.synth.NextQuestion(ctx, sess, turns, answer)
	next := &models.InterviewTurn{
		ID:         uuid.NewString(),
		SessionID:  sessionID,
		TurnNumber: len(turns) + 1,
		Question:   question,
		Provenance: mustProvenance(prov),
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.turns.Create(ctx, next); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to persist turn", err)
	}

	out := &TurnResult{
		SessionID:  sessionID,
		TurnNumber: next.TurnNumber,
		Stage:      prov.Stage,
		Question:   question,
		Provenance: prov,
	}
	if answer != "" {
		q := interview.ScoreAnswer(answer)
		out.AnswerQuality = &q
	}
	return out, nil
}

func (s *interviewService) close(ctx context.Context, op string, sess *models.InterviewSession, turns []models.InterviewTurn, answered int) (*TurnResult, error) {
	closing, prov := s.synth.Closing(ctx, sess, answered)
	closingTurn := &models.InterviewTurn{
		ID:         uuid.NewString(),
		SessionID:  sess.SessionID,
		TurnNumber: len(turns) + 1,
		Question:   closing,
		Provenance: mustProvenance(prov),
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.turns.Create(ctx, closingTurn); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to persist closing turn", err)
	}

	fb := s.feedback.Generate(ctx, sess, turns)
	if err := s.cache.SetJSON(ctx, feedbackPrefix+sess.SessionID, fb, feedbackTTL); err != nil {
		s.log.WithError(err).WithField("session_id", sess.SessionID).Warn("failed to cache feedback")
	}

	now := time.Now().UTC()
	if err := s.sessions.Complete(ctx, sess.SessionID, now, fb.OverallScore); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to complete session", err)
	}
	sess.Status = models.SessionCompleted
	sess.EndedAt = &now
	sess.Score = &fb.OverallScore

	return &TurnResult{
		SessionID:  sess.SessionID,
		TurnNumber: closingTurn.TurnNumber,
		Stage:      string(interview.StageCompleted),
		Question:   closing,
		Provenance: prov,
		Completed:  true,
		Feedback:   &fb,
	}, nil
}

func (s *interviewService) Review(ctx context.Context, userID, sessionID string) (*ReviewResult, error) {
	const op = "InterviewService.Review"

	sess, err := s.ownedSession(ctx, op, userID, sessionID)
	if err != nil {
		return nil, err
	}
	turns, err := s.turns.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list turns", err)
	}

	out := &ReviewResult{Session: sess, Turns: turns, Metrics: reviewMetrics(sess, turns)}

	if sess.Status == models.SessionCompleted {
		var fb models.Feedback
		hit, cerr := s.cache.GetJSON(ctx, feedbackPrefix+sessionID, &fb)
		if cerr != nil {
			s.log.WithError(cerr).Warn("feedback cache read failed")
		}
		if !hit {
			fb = s.feedback.Generate(ctx, sess, turns)
			if serr := s.cache.SetJSON(ctx, feedbackPrefix+sessionID, fb, feedbackTTL); serr != nil {
				s.log.WithError(serr).Warn("failed to cache feedback")
			}
		}
		out.Feedback = &fb
	}
	return out, nil
}

func (s *interviewService) Hints(ctx context.Context, userID, sessionID string) (*AssistResult, error) {
	const op = "InterviewService.Hints"

	sess, err := s.ownedSession(ctx, op, userID, sessionID)
	if err != nil {
		return nil, err
	}
	turns, err := s.turns.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list turns", err)
	}
	if len(turns) == 0 {
		return nil, utils.E(utils.CodeConflict, op, "session has no open question", nil)
	}

	current := turns[len(turns)-1].Question
	hints, provider, model := s.synth.Hints(ctx, sess, current)
	return &AssistResult{Items: hints, Provider: provider, Model: model}, nil
}

func (s *interviewService) Practice(ctx context.Context, userID, sessionID, focus string) (*AssistResult, error) {
	const op = "InterviewService.Practice"

	sess, err := s.ownedSession(ctx, op, userID, sessionID)
	if err != nil {
		return nil, err
	}
	questions, provider, model := s.synth.Practice(ctx, sess, focus)
	return &AssistResult{Items: questions, Provider: provider, Model: model}, nil
}

// ownedSession loads the session and checks it belongs to userID. Sessions of
// other users read as not found.
func (s *interviewService) ownedSession(ctx context.Context, op, userID, sessionID string) (*models.InterviewSession, error) {
	if userID == "" || sessionID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id and session_id are required", nil)
	}
	sess, err := s.sessions.GetBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "session not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get session", err)
	}
	if sess.UserID != userID {
		return nil, utils.E(utils.CodeNotFound, op, "session not found", nil)
	}
	return sess, nil
}

func reviewMetrics(sess *models.InterviewSession, turns []models.InterviewTurn) ReviewMetrics {
	asked := 0
	answered := 0
	qualitySum := 0
	totalWords := 0
	stages := make(map[string]int)
	for i := range turns {
		t := &turns[i]
		if t.Question != "" {
			asked++
			var prov models.Provenance
			if err := json.Unmarshal(t.Provenance, &prov); err == nil && prov.Stage != "" {
				stages[prov.Stage]++
			}
		}
		if t.Answered() {
			answered++
			qualitySum += interview.ScoreAnswer(*t.Answer).QualityScore
			totalWords += len(strings.Fields(*t.Answer))
		}
	}

	avgQuality := 0
	avgLength := 0
	if answered > 0 {
		avgQuality = qualitySum / answered
		avgLength = totalWords / answered
	}
	engagement := 40 + answered*8
	if engagement > 100 {
		engagement = 100
	}

	end := time.Now().UTC()
	if sess.EndedAt != nil {
		end = *sess.EndedAt
	}
	duration := int(end.Sub(sess.CreatedAt).Minutes())
	if duration < 0 {
		duration = 0
	}

	return ReviewMetrics{
		QuestionsAsked:    asked,
		QuestionsAnswered: answered,
		AvgAnswerQuality:  avgQuality,
		EngagementScore:   engagement,
		DurationMinutes:   duration,
		TotalWords:        totalWords,
		AvgResponseLength: avgLength,
		StageDistribution: stages,
	}
}

func mustProvenance(p models.Provenance) datatypes.JSON {
	b, err := json.Marshal(p)
	if err != nil {
		return datatypes.JSON(`{}`)
	}
	return datatypes.JSON(b)
}
