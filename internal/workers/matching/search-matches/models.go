// internal/workers/matching/search-matches/models.go
package searchmatches

import (
	"sponsormatch-workers/internal/models"
	"sponsormatch-workers/internal/store"
)

type Input struct {
	Query    string             `json:"query,omitempty"`
	Status   models.MatchStatus `json:"status,omitempty"`
	MinScore int                `json:"minScore,omitempty"`
	From     int                `json:"from,omitempty"`
	Size     int                `json:"size,omitempty"`
}

type Output struct {
	Total    int64                 `json:"total"`
	MaxScore float64               `json:"maxScore"`
	Took     int64                 `json:"took"`
	Matches  []store.MatchDocument `json:"matches"`
}
