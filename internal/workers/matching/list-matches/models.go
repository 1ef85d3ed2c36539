// internal/workers/matching/list-matches/models.go
package listmatches

import (
	"sponsormatch-workers/internal/matching/lifecycle"
	"sponsormatch-workers/internal/models"
)

type Input struct {
	ViewerID   string            `json:"viewerId"`
	EntityType models.EntityType `json:"entityType"`
	EntityID   string            `json:"entityId"`
	View       lifecycle.View    `json:"view"`
	Query      string            `json:"query,omitempty"`
}

type Output struct {
	View    lifecycle.View     `json:"view"`
	Count   int                `json:"count"`
	Matches []models.MatchView `json:"matches"`
}
