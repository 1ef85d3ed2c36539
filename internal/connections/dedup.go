// internal/connections/dedup.go
package connections

import (
	"sponsormatch-workers/internal/models"
)

// Deduplicate collapses raw connection rows to one row per unordered
// brand/organizer pair. The kept row is the best-ranked one (see better), so
// the result does not depend on input order. Rows are emitted in the order
// their pair first appears.
func Deduplicate(conns []models.Connection) []models.Connection {
	best := make(map[string]int, len(conns))
	out := make([]models.Connection, 0, len(conns))

	for _, c := range conns {
		key := c.Key()
		i, seen := best[key]
		if !seen {
			best[key] = len(out)
			out = append(out, c)
			continue
		}
		if better(c, out[i]) {
			out[i] = c
		}
	}
	return out
}

// better reports whether a outranks b. Well-formed rows beat rows missing
// isMutual or createdAt; then mutual beats non-mutual; then the earlier
// creation time wins. The remaining fields only break exact ties.
func better(a, b models.Connection) bool {
	if a.WellFormed() != b.WellFormed() {
		return a.WellFormed()
	}
	if a.Mutual() != b.Mutual() {
		return a.Mutual()
	}
	switch {
	case a.CreatedAt != nil && b.CreatedAt == nil:
		return true
	case a.CreatedAt == nil && b.CreatedAt != nil:
		return false
	case a.CreatedAt != nil && !a.CreatedAt.Equal(*b.CreatedAt):
		return a.CreatedAt.Before(*b.CreatedAt)
	}
	if a.ID != b.ID {
		return a.ID < b.ID
	}
	if a.BrandID != b.BrandID {
		return a.BrandID < b.BrandID
	}
	if a.OrganizerID != b.OrganizerID {
		return a.OrganizerID < b.OrganizerID
	}
	return a.Status < b.Status
}
