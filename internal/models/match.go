// internal/models/match.go
package models

import "time"

type MatchStatus string

const (
	MatchPending  MatchStatus = "pending"
	MatchAccepted MatchStatus = "accepted"
	MatchRejected MatchStatus = "rejected"
	MatchInactive MatchStatus = "inactive"
)

type MatchSource string

const (
	SourceAI     MatchSource = "ai"
	SourceManual MatchSource = "manual"
	SourceHybrid MatchSource = "hybrid"
)

// Match is one scored brand/organizer pair.
type Match struct {
	ID                  string      `json:"id"`
	BrandID             string      `json:"brandId"`
	OrganizerID         string      `json:"organizerId"`
	PairKey             string      `json:"pairKey"`
	Score               int         `json:"score"`
	MatchReasons        []string    `json:"matchReasons"`
	Status              MatchStatus `json:"status"`
	MatchSource         MatchSource `json:"matchSource,omitempty"`
	BrandInterested     bool        `json:"brandInterested"`
	OrganizerInterested bool        `json:"organizerInterested"`
	CreatedAt           time.Time   `json:"createdAt"`
	UpdatedAt           time.Time   `json:"updatedAt"`
}

// Involves reports whether the entity is either side of the match.
func (m Match) Involves(entityID string) bool {
	return m.BrandID == entityID || m.OrganizerID == entityID
}

// MatchView is a match joined with the display names used by list search.
type MatchView struct {
	Match
	BrandName     string `json:"brandName"`
	ProductName   string `json:"productName"`
	OrganizerName string `json:"organizerName"`
	EventName     string `json:"eventName"`
}
