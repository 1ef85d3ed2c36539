// internal/matching/lifecycle/manager.go
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"sponsormatch-workers/internal/common/logger"
	"sponsormatch-workers/internal/common/metrics"
	"sponsormatch-workers/internal/common/observability"
	"sponsormatch-workers/internal/models"
)

var (
	ErrMatchNotFound      = errors.New("MATCH_NOT_FOUND")
	ErrMatchFetchFailed   = errors.New("QUERY_EXECUTION_FAILED")
	ErrOverlayStoreFailed = errors.New("OVERLAY_STORE_FAILED")
	ErrInvalidView        = errors.New("INVALID_VIEW")
	ErrInvalidAction      = errors.New("INVALID_ACTION")
)

type OverlayAction string

const (
	ActionSave    OverlayAction = "save"
	ActionDismiss OverlayAction = "dismiss"
)

type InterestAction string

const (
	ActionInterest InterestAction = "interest"
	ActionDecline  InterestAction = "decline"
)

// MatchReader loads the matches one entity takes part in.
type MatchReader interface {
	GetMatchesForBrand(ctx context.Context, brandID string) ([]models.MatchView, error)
	GetMatchesForOrganizer(ctx context.Context, organizerID string) ([]models.MatchView, error)
}

// MutateFunc applies one state-machine step to a locked match.
type MutateFunc func(m *models.Match) (Transition, error)

// InterestStore runs fn against the current row under a lock and persists the
// result when it changed. When the step accepted the match, the store also
// records the accepted connection with side as its initiator.
type InterestStore interface {
	MutateMatch(ctx context.Context, matchID string, side models.EntityType, fn MutateFunc) (*models.Match, Transition, error)
}

// StatusIndexer mirrors status changes into the search index.
type StatusIndexer interface {
	UpdateStatus(ctx context.Context, matchID string, status models.MatchStatus) error
}

type AcceptancePublisher interface {
	PublishMatchAccepted(ctx context.Context, m *models.Match) error
}

// ListRequest selects one view for one viewer.
type ListRequest struct {
	ViewerID   string
	EntityType models.EntityType
	EntityID   string
	View       View
	Query      string
}

type Manager struct {
	matches   MatchReader
	overlays  *OverlayRepository
	interest  InterestStore
	indexer   StatusIndexer
	publisher AcceptancePublisher
	logger    logger.Logger
}

// NewManager wires the lifecycle manager. indexer and publisher may be nil.
func NewManager(matches MatchReader, overlays *OverlayRepository, interest InterestStore, indexer StatusIndexer, publisher AcceptancePublisher, log logger.Logger) *Manager {
	return &Manager{
		matches:   matches,
		overlays:  overlays,
		interest:  interest,
		indexer:   indexer,
		publisher: publisher,
		logger:    log,
	}
}

// List returns one view, filtered by the optional search query.
func (m *Manager) List(ctx context.Context, req ListRequest) ([]models.MatchView, error) {
	if !req.EntityType.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSide, req.EntityType)
	}
	if !req.View.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidView, req.View)
	}

	all, err := m.loadMatches(ctx, req.EntityType, req.EntityID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMatchFetchFailed, err)
	}

	var out []models.MatchView
	switch req.View {
	case ViewConfirmed:
		out = ListConfirmed(req.EntityID, all)
	default:
		overlay, err := m.overlays.Load(ctx, req.ViewerID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrOverlayStoreFailed, err)
		}
		if req.View == ViewSaved {
			out = ListSaved(overlay, req.EntityID, all)
		} else {
			out = ListSuggested(overlay, req.EntityID, all)
		}
	}

	return Search(out, req.Query), nil
}

func (m *Manager) loadMatches(ctx context.Context, entityType models.EntityType, entityID string) ([]models.MatchView, error) {
	if entityType == models.EntityBrand {
		return m.matches.GetMatchesForBrand(ctx, entityID)
	}
	return m.matches.GetMatchesForOrganizer(ctx, entityID)
}

// UpdateOverlay saves or dismisses a match for one viewer. Repeating an
// action changes nothing and writes nothing.
func (m *Manager) UpdateOverlay(ctx context.Context, viewerID, matchID string, action OverlayAction) (*Overlay, bool, error) {
	overlay, err := m.overlays.Load(ctx, viewerID)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrOverlayStoreFailed, err)
	}

	var changed bool
	switch action {
	case ActionSave:
		if changed = overlay.Save(matchID); changed {
			err = m.overlays.StoreSaved(ctx, overlay)
		}
	case ActionDismiss:
		if changed = overlay.Dismiss(matchID); changed {
			err = m.overlays.StoreDismissed(ctx, overlay)
		}
	default:
		return nil, false, fmt.Errorf("%w: %q", ErrInvalidAction, action)
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrOverlayStoreFailed, err)
	}

	metrics.MatchOverlayMutations.WithLabelValues(string(action), strconv.FormatBool(changed)).Inc()
	return overlay, changed, nil
}

// Respond applies an interest or decline from one side of the match.
func (m *Manager) Respond(ctx context.Context, matchID string, side models.EntityType, action InterestAction) (match *models.Match, t Transition, err error) {
	ctx, span := observability.StartSpan(ctx, "lifecycle.Manager.Respond")
	defer func() { observability.EndSpan(span, err) }()

	var step MutateFunc
	switch action {
	case ActionInterest, "":
		step = func(mt *models.Match) (Transition, error) { return ApplyInterest(mt, side) }
	case ActionDecline:
		step = func(mt *models.Match) (Transition, error) { return Decline(mt, side) }
	default:
		return nil, Transition{}, fmt.Errorf("%w: %q", ErrInvalidAction, action)
	}
	if !side.Valid() {
		return nil, Transition{}, fmt.Errorf("%w: %q", ErrInvalidSide, side)
	}

	match, t, err = m.interest.MutateMatch(ctx, matchID, side, step)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			return nil, Transition{}, fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
		case errors.Is(err, ErrMatchNotPending), errors.Is(err, ErrInvalidSide):
			return nil, Transition{}, err
		default:
			return nil, Transition{}, fmt.Errorf("%w: %v", ErrMatchFetchFailed, err)
		}
	}

	metrics.MatchInterest.WithLabelValues(string(side), string(match.Status)).Inc()

	if t.Changed && m.indexer != nil {
		if err := m.indexer.UpdateStatus(ctx, match.ID, match.Status); err != nil {
			m.logger.Warn("failed to update match status in search index", map[string]interface{}{
				"matchId": match.ID,
				"error":   err,
			})
		}
	}

	if t.Accepted && m.publisher != nil {
		if err := m.publisher.PublishMatchAccepted(ctx, match); err != nil {
			m.logger.Warn("failed to publish match accepted event", map[string]interface{}{
				"matchId": match.ID,
				"error":   err,
			})
		}
	}

	return match, t, nil
}
