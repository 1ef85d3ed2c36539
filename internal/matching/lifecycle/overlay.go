// internal/matching/lifecycle/overlay.go
package lifecycle

// Overlay is one viewer's private saved/dismissed state. It is layered over
// the shared match records and never changes them.
type Overlay struct {
	ViewerID  string   `json:"viewerId"`
	Saved     []string `json:"savedMatches"`
	Dismissed []string `json:"dismissedMatches"`
}

func NewOverlay(viewerID string) *Overlay {
	return &Overlay{ViewerID: viewerID, Saved: []string{}, Dismissed: []string{}}
}

// Save stars a match. It reports whether the set changed.
func (o *Overlay) Save(matchID string) bool {
	return addID(&o.Saved, matchID)
}

// Dismiss hides a match from the suggested view. It reports whether the set changed.
func (o *Overlay) Dismiss(matchID string) bool {
	return addID(&o.Dismissed, matchID)
}

// IsSaved reports whether the viewer starred the match. A nil overlay saves nothing.
func (o *Overlay) IsSaved(matchID string) bool {
	return o != nil && containsID(o.Saved, matchID)
}

// IsDismissed reports whether the viewer hid the match. A nil overlay dismisses nothing.
func (o *Overlay) IsDismissed(matchID string) bool {
	return o != nil && containsID(o.Dismissed, matchID)
}

func addID(ids *[]string, id string) bool {
	if containsID(*ids, id) {
		return false
	}
	*ids = append(*ids, id)
	return true
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
