package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
)

type PairProfile struct {
	MemberID            string           `db:"member_id" json:"memberId"`
	SkillsCanTeach      pq.StringArray   `db:"skills_teach" json:"skillsCanTeach"`
	SkillsWantToLearn   pq.StringArray   `db:"skills_learn" json:"skillsWantToLearn"`
	PreferredLanguages  pq.StringArray   `db:"languages" json:"preferredLanguages"`
	PreferredFrameworks pq.StringArray   `db:"frameworks" json:"preferredFrameworks"`
	Timezone            string           `db:"timezone" json:"timezone"`
	Availability        AvailabilityList `db:"availability" json:"availability"`
	SessionTypes        pq.StringArray   `db:"session_types" json:"sessionTypes"`
	Bio                 *string          `db:"bio" json:"bio,omitempty"`
	IsActive            bool             `db:"is_active" json:"isActive"`
	CreatedAt           time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt           time.Time        `db:"updated_at" json:"updatedAt"`
}

// HasSessionType reports whether the profile lists the given session type.
func (p *PairProfile) HasSessionType(t SessionType) bool {
	for _, s := range p.SessionTypes {
		if SessionType(s) == t {
			return true
		}
	}
	return false
}

type UpsertProfileParams struct {
	MemberID            string
	SkillsCanTeach      []string
	SkillsWantToLearn   []string
	PreferredLanguages  []string
	PreferredFrameworks []string
	Timezone            string
	Availability        AvailabilityList
	SessionTypes        []string
	Bio                 *string
	IsActive            bool
}

// AvailabilityWindow is a recurring weekly time range. Times are minute
// precision "HH:MM" strings on a single day, start strictly before end.
type AvailabilityWindow struct {
	DayOfWeek int    `json:"dayOfWeek"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

func (w AvailabilityWindow) Validate() error {
	if w.DayOfWeek < 0 || w.DayOfWeek > 6 {
		return fmt.Errorf("dayOfWeek must be 0-6, got %d", w.DayOfWeek)
	}
	start, err := MinuteOfDay(w.StartTime)
	if err != nil {
		return fmt.Errorf("startTime: %w", err)
	}
	end, err := MinuteOfDay(w.EndTime)
	if err != nil {
		return fmt.Errorf("endTime: %w", err)
	}
	if start >= end {
		return fmt.Errorf("startTime %q must be before endTime %q", w.StartTime, w.EndTime)
	}
	return nil
}

// Overlaps reports whether two windows fall on the same day with
// intersecting [start, end) ranges. Malformed times never overlap.
func (w AvailabilityWindow) Overlaps(other AvailabilityWindow) bool {
	if w.DayOfWeek != other.DayOfWeek {
		return false
	}
	aStart, err := MinuteOfDay(w.StartTime)
	if err != nil {
		return false
	}
	aEnd, err := MinuteOfDay(w.EndTime)
	if err != nil {
		return false
	}
	bStart, err := MinuteOfDay(other.StartTime)
	if err != nil {
		return false
	}
	bEnd, err := MinuteOfDay(other.EndTime)
	if err != nil {
		return false
	}
	return aStart < bEnd && bStart < aEnd
}

// MinuteOfDay parses an "HH:MM" clock string into minutes since midnight.
func MinuteOfDay(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid time %q (want HH:MM)", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("time %q out of range", s)
	}
	return h*60 + m, nil
}

// AvailabilityList stores availability windows as a JSONB column.
type AvailabilityList []AvailabilityWindow

func (l AvailabilityList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

func (l *AvailabilityList) Scan(src any) error {
	if src == nil {
		*l = nil
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("availability: cannot scan %T", src)
	}
	return json.Unmarshal(b, l)
}
