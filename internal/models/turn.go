package models

import (
	"time"

	"gorm.io/datatypes"
)

// Provenance records which backend produced a question.
type Provenance struct {
	Type     string `json:"type"` // opening|followup|closing
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Stage    string `json:"stage"`
}

type InterviewTurn struct {
	ID         string  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	SessionID  string  `gorm:"column:session_id;type:uuid;index:idx_turns_session_number,unique,priority:1" json:"session_id"`
	TurnNumber int     `gorm:"column:turn_number;type:integer;index:idx_turns_session_number,unique,priority:2" json:"turn_number"`
	Question   string  `gorm:"column:question;type:text" json:"question"`
	Answer     *string `gorm:"column:answer;type:text" json:"answer"`

	Provenance datatypes.JSON `gorm:"column:provenance;type:jsonb" json:"provenance"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz;index" json:"created_at"`
}

func (InterviewTurn) TableName() string { return "interview_turns" }

// Answered reports whether a non-empty answer has been attached.
func (t *InterviewTurn) Answered() bool {
	return t.Answer != nil && *t.Answer != ""
}
