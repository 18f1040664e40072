package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
)

type PairSession struct {
	ID             string         `db:"id" json:"id"`
	ParticipantIDs pq.StringArray `db:"participant_ids" json:"participantIds"`
	SessionType    SessionType    `db:"session_type" json:"sessionType"`
	Status         SessionStatus  `db:"status" json:"status"`
	ScheduledTime  *time.Time     `db:"scheduled_time" json:"scheduledTime,omitempty"`
	StartedAt      *time.Time     `db:"started_at" json:"startedAt,omitempty"`
	CompletedAt    *time.Time     `db:"completed_at" json:"completedAt,omitempty"`
	Notes          NotesMap       `db:"notes" json:"notes"`
	CreatedAt      time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updatedAt"`
}

// HasParticipant reports whether the member is one of the two participants.
func (s *PairSession) HasParticipant(memberID string) bool {
	for _, id := range s.ParticipantIDs {
		if id == memberID {
			return true
		}
	}
	return false
}

type CreateSessionParams struct {
	ID             string
	ParticipantIDs []string
	SessionType    SessionType
	ScheduledTime  *time.Time
}

// SessionNotes is one participant's private reflection on a session.
type SessionNotes struct {
	WhatWeWorkedOn string  `json:"whatWeWorkedOn"`
	WhatILearned   string  `json:"whatILearned"`
	NextSteps      *string `json:"nextSteps,omitempty"`
}

// Empty reports whether the entry carries no content at all.
func (n SessionNotes) Empty() bool {
	return n.WhatWeWorkedOn == "" && n.WhatILearned == "" &&
		(n.NextSteps == nil || *n.NextSteps == "")
}

// NotesMap stores per-participant notes as a JSONB column keyed by member id.
type NotesMap map[string]SessionNotes

func (m NotesMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

func (m *NotesMap) Scan(src any) error {
	if src == nil {
		*m = NotesMap{}
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("notes: cannot scan %T", src)
	}
	return json.Unmarshal(b, m)
}
