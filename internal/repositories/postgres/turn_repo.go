package postgres

import (
	"context"
	"errors"

	"github.com/elevohq/interview-engine/internal/models"
	"github.com/elevohq/interview-engine/internal/utils"
	"gorm.io/gorm"
)

type TurnRepository interface {
	Create(ctx context.Context, t *models.InterviewTurn) error
	AttachAnswer(ctx context.Context, turnID, answer string) error
	ListBySession(ctx context.Context, sessionID string) ([]models.InterviewTurn, error)
	CountBySession(ctx context.Context, sessionID string) (int, error)
}

type turnRepo struct {
	db *gorm.DB
}

func NewTurnRepo(db *gorm.DB) TurnRepository {
	return &turnRepo{db: db}
}

func (r *turnRepo) Create(ctx context.Context, t *models.InterviewTurn) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *turnRepo) AttachAnswer(ctx context.Context, turnID, answer string) error {
	res := r.db.WithContext(ctx).
		Model(&models.InterviewTurn{}).
		Where("id = ?", turnID).
		Update("answer", answer)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *turnRepo) ListBySession(ctx context.Context, sessionID string) ([]models.InterviewTurn, error) {
	var rows []models.InterviewTurn
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("turn_number ASC").
		Find(&rows).Error
	return rows, err
}

func (r *turnRepo) CountBySession(ctx context.Context, sessionID string) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.InterviewTurn{}).
		Where("session_id = ?", sessionID).
		Count(&count).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	return int(count), err
}
