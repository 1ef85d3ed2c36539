// internal/workers/profiles/invalidate-profile-cache/models.go
package invalidateprofilecache

import "sponsormatch-workers/internal/models"

type Input struct {
	Type     models.EntityType `json:"type"`
	EntityID string            `json:"entityId"`
}

type Output struct {
	Type        models.EntityType `json:"type"`
	EntityID    string            `json:"entityId"`
	Invalidated bool              `json:"invalidated"`
}
