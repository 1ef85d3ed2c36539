// internal/workers/connections/deduplicate-connections/models.go
package deduplicateconnections

import "sponsormatch-workers/internal/models"

type Input struct {
	BrandID     string `json:"brandId,omitempty"`
	OrganizerID string `json:"organizerId,omitempty"`
}

type Output struct {
	RawCount    int                 `json:"rawCount"`
	Count       int                 `json:"count"`
	Connections []models.Connection `json:"connections"`
}
