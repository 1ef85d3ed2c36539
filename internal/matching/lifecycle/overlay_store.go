// internal/matching/lifecycle/overlay_store.go
package lifecycle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"sponsormatch-workers/internal/models"
)

// KeyValueStore is the per-viewer persistence port. Get returns
// models.ErrNotFound for a missing key.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

func SavedKey(viewerID string) string {
	return fmt.Sprintf("user_%s_savedMatches", viewerID)
}

func DismissedKey(viewerID string) string {
	return fmt.Sprintf("user_%s_dismissedMatches", viewerID)
}

// OverlayRepository stores each overlay set as a JSON array of match ids.
type OverlayRepository struct {
	kv KeyValueStore
}

func NewOverlayRepository(kv KeyValueStore) *OverlayRepository {
	return &OverlayRepository{kv: kv}
}

// Load reads both sets. Missing or unreadable values load as empty sets.
func (r *OverlayRepository) Load(ctx context.Context, viewerID string) (*Overlay, error) {
	o := NewOverlay(viewerID)

	saved, err := r.loadIDs(ctx, SavedKey(viewerID))
	if err != nil {
		return nil, err
	}
	dismissed, err := r.loadIDs(ctx, DismissedKey(viewerID))
	if err != nil {
		return nil, err
	}

	for _, id := range saved {
		o.Save(id)
	}
	for _, id := range dismissed {
		o.Dismiss(id)
	}
	return o, nil
}

func (r *OverlayRepository) StoreSaved(ctx context.Context, o *Overlay) error {
	return r.storeIDs(ctx, SavedKey(o.ViewerID), o.Saved)
}

func (r *OverlayRepository) StoreDismissed(ctx context.Context, o *Overlay) error {
	return r.storeIDs(ctx, DismissedKey(o.ViewerID), o.Dismissed)
}

func (r *OverlayRepository) loadIDs(ctx context.Context, key string) ([]string, error) {
	raw, err := r.kv.Get(ctx, key)
	if errors.Is(err, models.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}

	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, nil
	}
	return ids, nil
}

func (r *OverlayRepository) storeIDs(ctx context.Context, key string, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	if err := r.kv.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}
