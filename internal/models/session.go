package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Track string

const (
	TrackTechnical Track = "technical"
	TrackHR        Track = "hr"
)

// Valid reports whether t is one of the two supported interview tracks.
func (t Track) Valid() bool { return t == TrackTechnical || t == TrackHR }

const (
	SessionInProgress = "in-progress"
	SessionCompleted  = "completed"
)

type InterviewSession struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionID string             `bson:"session_id" json:"session_id"` // uuid v4
	UserID    string             `bson:"user_id" json:"user_id"`

	Track      Track    `bson:"track" json:"track"` // immutable after creation
	TargetRole string   `bson:"target_role" json:"target_role"`
	KeySkills  []string `bson:"key_skills" json:"key_skills"`

	Plan   InterviewPlan `bson:"plan" json:"plan"`
	Status string        `bson:"status" json:"status"` // in-progress|completed

	Score *int `bson:"score,omitempty" json:"score,omitempty"` // overall feedback score, set at close

	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	EndedAt   *time.Time `bson:"ended_at,omitempty" json:"ended_at,omitempty"`
}
