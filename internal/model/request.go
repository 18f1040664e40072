package model

import "time"

type PairingRequest struct {
	ID           string        `db:"id" json:"id"`
	FromUserID   string        `db:"from_user_id" json:"fromUserId"`
	ToUserID     string        `db:"to_user_id" json:"toUserId"`
	SessionType  SessionType   `db:"session_type" json:"sessionType"`
	Message      string        `db:"message" json:"message"`
	Status       RequestStatus `db:"status" json:"status"`
	ProposedTime *time.Time    `db:"proposed_time" json:"proposedTime,omitempty"`
	CreatedAt    time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time     `db:"updated_at" json:"updatedAt"`
}

type CreateRequestParams struct {
	ID           string
	FromUserID   string
	ToUserID     string
	SessionType  SessionType
	Message      string
	ProposedTime *time.Time
}
