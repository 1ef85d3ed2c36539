// internal/workers/matching/express-interest/models.go
package expressinterest

import (
	"sponsormatch-workers/internal/matching/lifecycle"
	"sponsormatch-workers/internal/models"
)

type Input struct {
	MatchID string                   `json:"matchId"`
	Side    models.EntityType        `json:"side"`
	Action  lifecycle.InterestAction `json:"action,omitempty"`
}

type Output struct {
	MatchID             string             `json:"matchId"`
	Status              models.MatchStatus `json:"status"`
	BrandInterested     bool               `json:"brandInterested"`
	OrganizerInterested bool               `json:"organizerInterested"`
	Accepted            bool               `json:"accepted"`
}
