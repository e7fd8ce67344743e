package services

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elevohq/interview-engine/internal/models"
	"github.com/elevohq/interview-engine/internal/resume"
	"github.com/elevohq/interview-engine/internal/utils"
)

type memFiles struct {
	rows []models.ResumeFile
}

func (m *memFiles) Insert(_ context.Context, f *models.ResumeFile) error {
	m.rows = append(m.rows, *f)
	return nil
}

func (m *memFiles) LatestByUser(_ context.Context, userID string) (*models.ResumeFile, error) {
	var latest *models.ResumeFile
	for i := range m.rows {
		f := &m.rows[i]
		if f.UserID != userID {
			continue
		}
		if latest == nil || f.UploadedAt.After(latest.UploadedAt) {
			latest = f
		}
	}
	if latest == nil {
		return nil, utils.ErrNotFound
	}
	cp := *latest
	return &cp, nil
}

type memStore struct {
	objects map[string][]byte
}

func newMemStore() *memStore { return &memStore{objects: make(map[string][]byte)} }

func (m *memStore) Put(_ context.Context, objectKey, _ string, r io.Reader) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.objects[objectKey] = b
	return nil
}

func (m *memStore) SignedGetURL(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	return "https://signed.example/" + objectKey, nil
}

func newResumeFixture(t *testing.T) (ResumeService, *memProfiles, *memFiles, *memStore, *memCache) {
	t.Helper()
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	profiles := newMemProfiles()
	files := &memFiles{}
	store := newMemStore()
	c := newMemCache()
	svc := NewResumeService(profiles, files, store, resume.NewExtractor(offlineGenerator{}, log), c, log)
	return svc, profiles, files, store, c
}

const resumeTxt = `Jordan Smith
Data engineer skilled in Python, SQL, and Docker.
Built a fraud detection project that reduced false positives by 30%.
B.Tech, State University`

func TestResumeService_Analyze_TxtUpload(t *testing.T) {
	svc, profiles, files, store, _ := newResumeFixture(t)

	out, err := svc.Analyze(context.Background(), "u-1",
		bytes.NewReader([]byte(resumeTxt)),
		AnalyzeInput{FileName: "resume.txt", MimeType: "text/plain", RoleHint: "Data Engineer", Track: models.TrackTechnical})
	require.NoError(t, err)

	assert.Equal(t, "u-1", out.Profile.UserID)
	assert.NotEmpty(t, out.Profile.Tools)
	assert.NotEmpty(t, out.Profile.Projects)
	assert.Equal(t, models.TrackTechnical, out.Readiness.Track)
	assert.Greater(t, out.Readiness.OverallScore, 0)

	// profile persisted
	stored, err := profiles.GetByUserID(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, resumeTxt, stored.ResumeText)

	// raw object persisted under the user's prefix
	require.Len(t, files.rows, 1)
	assert.True(t, strings.HasPrefix(files.rows[0].ObjectKey, "resumes/u-1/"))
	assert.Contains(t, store.objects, files.rows[0].ObjectKey)
}

func TestResumeService_Analyze_UnsupportedFormat(t *testing.T) {
	svc, _, _, _, _ := newResumeFixture(t)

	_, err := svc.Analyze(context.Background(), "u-1",
		bytes.NewReader([]byte("data")),
		AnalyzeInput{FileName: "resume.odt", Track: models.TrackTechnical})
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeUnsupported))
}

func TestResumeService_Analyze_MissingUser(t *testing.T) {
	svc, _, _, _, _ := newResumeFixture(t)

	_, err := svc.Analyze(context.Background(), "", nil, AnalyzeInput{Track: models.TrackTechnical})
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestResumeService_Analyze_NoFileScoresEmptyProfile(t *testing.T) {
	svc, _, files, _, _ := newResumeFixture(t)

	out, err := svc.Analyze(context.Background(), "u-1", nil,
		AnalyzeInput{RoleHint: "Data Engineer", Track: models.TrackTechnical})
	require.NoError(t, err)

	assert.Empty(t, files.rows)
	assert.Equal(t, "Data Engineer", out.Profile.PreferredRole)
	assert.Equal(t, models.BandNeedsWork, out.Readiness.Band)
}

func TestResumeService_Profile_SignsLatestUpload(t *testing.T) {
	svc, _, files, _, _ := newResumeFixture(t)

	_, err := svc.Analyze(context.Background(), "u-1",
		bytes.NewReader([]byte(resumeTxt)),
		AnalyzeInput{FileName: "resume.txt", MimeType: "text/plain", Track: models.TrackTechnical})
	require.NoError(t, err)

	profile, url, err := svc.Profile(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, "u-1", profile.UserID)
	require.Len(t, files.rows, 1)
	assert.Equal(t, "https://signed.example/"+files.rows[0].ObjectKey, url)
}

func TestResumeService_Profile_NotFound(t *testing.T) {
	svc, _, _, _, _ := newResumeFixture(t)

	_, _, err := svc.Profile(context.Background(), "u-404")
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}
