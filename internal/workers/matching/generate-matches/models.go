// internal/workers/matching/generate-matches/models.go
package generatematches

import "sponsormatch-workers/internal/models"

type Input struct {
	Type     models.EntityType `json:"type"`
	EntityID string            `json:"entityId"`
}

type Output struct {
	Success    bool               `json:"success"`
	MatchCount int                `json:"matchCount"`
	Matches    []models.MatchView `json:"matches"`
}
