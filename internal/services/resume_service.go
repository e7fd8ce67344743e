package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/elevohq/interview-engine/internal/cache"
	"github.com/elevohq/interview-engine/internal/models"
	pgrepo "github.com/elevohq/interview-engine/internal/repositories/postgres"
	"github.com/elevohq/interview-engine/internal/resume"
	"github.com/elevohq/interview-engine/internal/storage"
	"github.com/elevohq/interview-engine/internal/utils"
)

const (
	maxResumeBytes  = 8 << 20 // 8 MiB
	readinessTTL    = 24 * time.Hour
	readinessPrefix = "interview:readiness:"
	signedURLTTL    = 15 * time.Minute
)

type AnalyzeInput struct {
	FileName string
	MimeType string
	RoleHint string
	Skills   string
	Track    models.Track
}

type AnalyzeResult struct {
	Profile   *models.CandidateProfile `json:"profile"`
	Readiness models.ReadinessReport   `json:"readiness"`
}

type ResumeService interface {
	Analyze(ctx context.Context, userID string, file io.Reader, in AnalyzeInput) (*AnalyzeResult, error)
	Profile(ctx context.Context, userID string) (*models.CandidateProfile, string, error)
}

type resumeService struct {
	profiles  pgrepo.ProfileRepository
	files     pgrepo.ResumeFileRepository
	store     storage.ObjectStore
	extractor *resume.Extractor
	cache     cache.Cache
	log       *logrus.Logger
}

func NewResumeService(
	profiles pgrepo.ProfileRepository,
	files pgrepo.ResumeFileRepository,
	store storage.ObjectStore,
	extractor *resume.Extractor,
	c cache.Cache,
	log *logrus.Logger,
) ResumeService {
	return &resumeService{
		profiles:  profiles,
		files:     files,
		store:     store,
		extractor: extractor,
		cache:     c,
		log:       log,
	}
}

// Analyze runs the full upload path: text extraction, profile extraction,
// readiness scoring, and persistence of both the raw object and the profile.
func (s *resumeService) Analyze(ctx context.Context, userID string, file io.Reader, in AnalyzeInput) (*AnalyzeResult, error) {
	const op = "ResumeService.Analyze"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	if !in.Track.Valid() {
		in.Track = models.TrackTechnical
	}

	var rawText string
	var data []byte
	if file != nil {
		var err error
		data, err = io.ReadAll(io.LimitReader(file, maxResumeBytes+1))
		if err != nil {
			return nil, utils.E(utils.CodeInternal, op, "failed to read uploaded file", err)
		}
		if len(data) > maxResumeBytes {
			return nil, utils.E(utils.CodeInvalidArgument, op, "resume file exceeds the size limit", nil)
		}

		rawText, err = resume.ExtractText(bytes.NewReader(data), in.FileName)
		if err != nil {
			if errors.Is(err, resume.ErrUnsupportedFormat) {
				return nil, utils.E(utils.CodeUnsupported, op, "only pdf, docx, and txt resumes are supported", err)
			}
			return nil, utils.E(utils.CodeInternal, op, "failed to extract resume text", err)
		}
	}

	if len(data) > 0 {
		if err := s.persistObject(ctx, userID, in, data); err != nil {
			// the analysis still proceeds on the extracted text
			s.log.WithError(err).WithField("user_id", userID).Warn("failed to persist resume object")
		}
	}

	profile := s.extractor.Extract(ctx, rawText, in.RoleHint, in.Track)
	profile.UserID = userID
	profile.UpdatedAt = time.Now().UTC()
	if err := s.profiles.Upsert(ctx, profile); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to persist candidate profile", err)
	}

	report := resume.Score(profile, in.RoleHint, in.Skills, in.Track, rawText)
	if err := s.cache.SetJSON(ctx, readinessPrefix+userID, report, readinessTTL); err != nil {
		s.log.WithError(err).Warn("failed to cache readiness report")
	}

	return &AnalyzeResult{Profile: profile, Readiness: report}, nil
}

// Profile returns the stored candidate profile plus a signed URL for the most
// recent resume upload, when one exists.
func (s *resumeService) Profile(ctx context.Context, userID string) (*models.CandidateProfile, string, error) {
	const op = "ResumeService.Profile"

	if userID == "" {
		return nil, "", utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, "", utils.E(utils.CodeNotFound, op, "candidate profile not found", err)
		}
		return nil, "", utils.E(utils.CodeInternal, op, "failed to get candidate profile", err)
	}

	url := ""
	if s.store != nil {
		if latest, ferr := s.files.LatestByUser(ctx, userID); ferr == nil {
			if url, ferr = s.store.SignedGetURL(ctx, latest.ObjectKey, signedURLTTL); ferr != nil {
				s.log.WithError(ferr).Warn("failed to sign resume url")
				url = ""
			}
		}
	}
	return profile, url, nil
}

func (s *resumeService) persistObject(ctx context.Context, userID string, in AnalyzeInput, data []byte) error {
	if s.store == nil {
		return nil
	}

	ext := strings.ToLower(filepath.Ext(in.FileName))
	objectKey := fmt.Sprintf("resumes/%s/%s%s", userID, uuid.NewString(), ext)
	if err := s.store.Put(ctx, objectKey, in.MimeType, bytes.NewReader(data)); err != nil {
		return err
	}

	return s.files.Insert(ctx, &models.ResumeFile{
		ID:         uuid.NewString(),
		UserID:     userID,
		FileName:   in.FileName,
		ObjectKey:  objectKey,
		FileSize:   len(data),
		MimeType:   in.MimeType,
		UploadedAt: time.Now().UTC(),
	})
}
