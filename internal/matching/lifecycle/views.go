// internal/matching/lifecycle/views.go
package lifecycle

import (
	"sort"
	"strings"

	"sponsormatch-workers/internal/models"
)

type View string

const (
	ViewConfirmed View = "confirmed"
	ViewSuggested View = "suggested"
	ViewSaved     View = "saved"
)

func (v View) Valid() bool {
	return v == ViewConfirmed || v == ViewSuggested || v == ViewSaved
}

// ListConfirmed returns the accepted matches involving entityID.
func ListConfirmed(entityID string, matches []models.MatchView) []models.MatchView {
	return filter(matches, func(m models.MatchView) bool {
		return m.Involves(entityID) && m.Status == models.MatchAccepted
	})
}

// ListSuggested returns the pending matches involving entityID that the viewer
// has not dismissed. A nil overlay dismisses nothing.
func ListSuggested(overlay *Overlay, entityID string, matches []models.MatchView) []models.MatchView {
	return filter(matches, func(m models.MatchView) bool {
		return m.Involves(entityID) && m.Status == models.MatchPending && !overlay.IsDismissed(m.ID)
	})
}

// ListSaved returns the matches involving entityID that the viewer starred, whatever their status.
// A nil overlay yields an empty list.
func ListSaved(overlay *Overlay, entityID string, matches []models.MatchView) []models.MatchView {
	return filter(matches, func(m models.MatchView) bool {
		return overlay.IsSaved(m.ID) && m.Involves(entityID)
	})
}

// Search keeps matches whose brand, organizer, event or product name contains
// query, ignoring case. An empty query keeps everything.
func Search(matches []models.MatchView, query string) []models.MatchView {
	q := strings.ToLower(strings.TrimSpace(query))
	return filter(matches, func(m models.MatchView) bool {
		if q == "" {
			return true
		}
		for _, field := range []string{m.BrandName, m.OrganizerName, m.EventName, m.ProductName} {
			if strings.Contains(strings.ToLower(field), q) {
				return true
			}
		}
		return false
	})
}

// filter copies the kept matches and orders them by score, then age, then id.
func filter(matches []models.MatchView, keep func(models.MatchView) bool) []models.MatchView {
	out := make([]models.MatchView, 0, len(matches))
	for _, m := range matches {
		if keep(m) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return out
}
