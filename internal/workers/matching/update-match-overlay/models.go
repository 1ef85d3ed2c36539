// internal/workers/matching/update-match-overlay/models.go
package updatematchoverlay

import "sponsormatch-workers/internal/matching/lifecycle"

type Input struct {
	ViewerID string                  `json:"viewerId"`
	MatchID  string                  `json:"matchId"`
	Action   lifecycle.OverlayAction `json:"action"`
}

type Output struct {
	ViewerID         string   `json:"viewerId"`
	SavedMatches     []string `json:"savedMatches"`
	DismissedMatches []string `json:"dismissedMatches"`
	Changed          bool     `json:"changed"`
}
