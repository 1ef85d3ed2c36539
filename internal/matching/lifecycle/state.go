// internal/matching/lifecycle/state.go
package lifecycle

import (
	"errors"
	"fmt"

	"sponsormatch-workers/internal/models"
)

var (
	ErrMatchNotPending = errors.New("MATCH_NOT_PENDING")
	ErrInvalidSide     = errors.New("INVALID_ENTITY_TYPE")
)

// Transition describes what a state-machine call did to a match.
type Transition struct {
	Changed bool
	// Accepted is set only on the call that completed mutual acceptance.
	Accepted bool
}

// ApplyInterest records that side wants the match. The match is accepted once
// both sides have done so. Calls on an accepted match are no-ops.
func ApplyInterest(m *models.Match, side models.EntityType) (Transition, error) {
	if !side.Valid() {
		return Transition{}, fmt.Errorf("%w: %q", ErrInvalidSide, side)
	}

	switch m.Status {
	case models.MatchAccepted:
		return Transition{}, nil
	case models.MatchPending:
	default:
		return Transition{}, fmt.Errorf("%w: match %s is %s", ErrMatchNotPending, m.ID, m.Status)
	}

	var t Transition
	flag := &m.BrandInterested
	if side == models.EntityOrganizer {
		flag = &m.OrganizerInterested
	}
	if !*flag {
		*flag = true
		t.Changed = true
	}

	if m.BrandInterested && m.OrganizerInterested {
		m.Status = models.MatchAccepted
		t.Changed = true
		t.Accepted = true
	}
	return t, nil
}

// Decline rejects a pending match on behalf of side. Declining a rejected
// match is a no-op.
func Decline(m *models.Match, side models.EntityType) (Transition, error) {
	if !side.Valid() {
		return Transition{}, fmt.Errorf("%w: %q", ErrInvalidSide, side)
	}

	switch m.Status {
	case models.MatchRejected:
		return Transition{}, nil
	case models.MatchPending:
	default:
		return Transition{}, fmt.Errorf("%w: match %s is %s", ErrMatchNotPending, m.ID, m.Status)
	}

	m.Status = models.MatchRejected
	if side == models.EntityBrand {
		m.BrandInterested = false
	} else {
		m.OrganizerInterested = false
	}
	return Transition{Changed: true}, nil
}
