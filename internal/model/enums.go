package model

type SessionType string

const (
	SessionTypeTeachMe       SessionType = "teach-me"
	SessionTypeBuildTogether SessionType = "build-together"
	SessionTypeCodeReview    SessionType = "code-review"
	SessionTypeExploreTopic  SessionType = "explore-topic"
)

var AllSessionTypes = []SessionType{
	SessionTypeTeachMe,
	SessionTypeBuildTogether,
	SessionTypeCodeReview,
	SessionTypeExploreTopic,
}

func (t SessionType) Valid() bool {
	for _, v := range AllSessionTypes {
		if t == v {
			return true
		}
	}
	return false
}

type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "pending"
	RequestStatusAccepted  RequestStatus = "accepted"
	RequestStatusDeclined  RequestStatus = "declined"
	RequestStatusCancelled RequestStatus = "cancelled"
)

type RequestAction string

const (
	RequestActionAccept  RequestAction = "accept"
	RequestActionDecline RequestAction = "decline"
	RequestActionCancel  RequestAction = "cancel"
)

type SessionStatus string

const (
	SessionStatusScheduled  SessionStatus = "scheduled"
	SessionStatusInProgress SessionStatus = "in-progress"
	SessionStatusCompleted  SessionStatus = "completed"
	SessionStatusCancelled  SessionStatus = "cancelled"
)

// Terminal reports whether no further status transition is allowed.
func (s SessionStatus) Terminal() bool {
	return s == SessionStatusCompleted || s == SessionStatusCancelled
}

type RequestDirection string

const (
	DirectionSent     RequestDirection = "sent"
	DirectionReceived RequestDirection = "received"
)

func (d RequestDirection) Valid() bool {
	return d == DirectionSent || d == DirectionReceived
}
