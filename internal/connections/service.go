// internal/connections/service.go
package connections

import (
	"context"
	"errors"
	"fmt"

	"sponsormatch-workers/internal/common/logger"
	"sponsormatch-workers/internal/common/metrics"
	"sponsormatch-workers/internal/common/observability"
	"sponsormatch-workers/internal/models"
)

var ErrConnectionFetchFailed = errors.New("CONNECTION_FETCH_FAILED")

// Store returns raw, possibly duplicated, connection rows.
type Store interface {
	GetAllConnections(ctx context.Context) ([]models.Connection, error)
}

// Filter narrows the canonical view to one brand and/or organizer. Empty fields match everything.
type Filter struct {
	BrandID     string
	OrganizerID string
}

func (f Filter) matches(c models.Connection) bool {
	if f.BrandID != "" && c.BrandID != f.BrandID {
		return false
	}
	return f.OrganizerID == "" || c.OrganizerID == f.OrganizerID
}

type Service struct {
	store  Store
	logger logger.Logger
}

func NewService(store Store, log logger.Logger) *Service {
	return &Service{store: store, logger: log}
}

// Canonical loads every connection, deduplicates and then applies the filter.
// It returns the raw row count alongside the canonical rows.
func (s *Service) Canonical(ctx context.Context, f Filter) (rows []models.Connection, raw int, err error) {
	ctx, span := observability.StartSpan(ctx, "connections.Service.Canonical")
	defer func() { observability.EndSpan(span, err) }()

	all, err := s.store.GetAllConnections(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrConnectionFetchFailed, err)
	}

	canonical := Deduplicate(all)
	metrics.ConnectionsDeduplicated.WithLabelValues("raw").Add(float64(len(all)))
	metrics.ConnectionsDeduplicated.WithLabelValues("canonical").Add(float64(len(canonical)))

	rows = make([]models.Connection, 0, len(canonical))
	for _, c := range canonical {
		if f.matches(c) {
			rows = append(rows, c)
		}
	}

	s.logger.Debug("connections deduplicated", map[string]interface{}{
		"raw":       len(all),
		"canonical": len(canonical),
		"returned":  len(rows),
	})
	return rows, len(all), nil
}
