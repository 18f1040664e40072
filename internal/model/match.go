package model

// MatchScore is a derived compatibility rating for a candidate profile.
// It is computed on demand and never persisted.
type MatchScore struct {
	CandidateID string   `json:"candidateId"`
	Score       int      `json:"score"`
	Reasons     []string `json:"reasons"`
}
