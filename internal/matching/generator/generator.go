// internal/matching/generator/generator.go
package generator

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"sponsormatch-workers/internal/common/logger"
	"sponsormatch-workers/internal/common/metrics"
	"sponsormatch-workers/internal/common/observability"
	"sponsormatch-workers/internal/matching/scorer"
	"sponsormatch-workers/internal/models"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrInvalidEntityType       = errors.New("INVALID_ENTITY_TYPE")
	ErrEntityNotFound          = errors.New("ENTITY_NOT_FOUND")
	ErrEntityLoadFailed        = errors.New("QUERY_EXECUTION_FAILED")
	ErrCounterpartyFetchFailed = errors.New("COUNTERPARTY_FETCH_FAILED")
	ErrMatchInsertFailed       = errors.New("MATCH_INSERT_FAILED")
)

// EntityStore loads brand and organizer profiles. Single lookups return
// models.ErrNotFound for a missing row.
type EntityStore interface {
	GetBrandByID(ctx context.Context, id string) (*models.Brand, error)
	GetOrganizerByID(ctx context.Context, id string) (*models.Organizer, error)
	GetAllBrands(ctx context.Context) ([]models.Brand, error)
	GetAllOrganizers(ctx context.Context) ([]models.Organizer, error)
}

// MatchStore upserts a batch of pending matches on their pair key in one
// statement and returns the rows it inserted or refreshed. Pairs whose
// existing match has left pending are skipped and not returned.
type MatchStore interface {
	UpsertMatches(ctx context.Context, rows []models.Match) ([]models.Match, error)
}

type Indexer interface {
	IndexMatches(ctx context.Context, views []models.MatchView) error
}

type Publisher interface {
	PublishMatchesGenerated(ctx context.Context, entityType models.EntityType, entityID string, matches []models.MatchView) error
}

// Result is the outcome of one generation run, best matches first.
type Result struct {
	Matches []models.MatchView
}

type Service struct {
	entities  EntityStore
	matches   MatchStore
	indexer   Indexer
	publisher Publisher
	logger    logger.Logger
	newID     func() string
	now       func() time.Time
}

// NewService wires the generator. indexer and publisher may be nil.
func NewService(entities EntityStore, matches MatchStore, indexer Indexer, publisher Publisher, log logger.Logger) *Service {
	return &Service{
		entities:  entities,
		matches:   matches,
		indexer:   indexer,
		publisher: publisher,
		logger:    log,
		newID:     uuid.NewString,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

type pair struct {
	brand     *models.Brand
	organizer *models.Organizer
}

// Generate scores one entity against every counter-party and persists the
// qualifying pairs as pending matches. Any load or write failure aborts the
// run before anything is stored.
func (s *Service) Generate(ctx context.Context, entityType models.EntityType, entityID string) (res *Result, err error) {
	ctx, span := observability.StartSpan(ctx, "generator.Service.Generate",
		attribute.String("entity.type", string(entityType)),
		attribute.String("entity.id", entityID),
	)
	defer func() {
		observability.EndSpan(span, err)
		outcome := "success"
		if err != nil {
			outcome = "failed"
		}
		metrics.MatchGenerationRuns.WithLabelValues(string(entityType), outcome).Inc()
	}()

	pairs, err := s.loadPairs(ctx, entityType, entityID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	rows := make([]models.Match, 0, len(pairs))
	names := make(map[string]pair, len(pairs))
	for _, p := range pairs {
		// brand first, whichever side triggered the run
		scored := scorer.Score(p.brand, p.organizer)
		metrics.MatchScore.Observe(float64(scored.Score))
		if !scored.Qualifies() {
			continue
		}

		key := models.PairKey(p.brand.ID, p.organizer.ID)
		if _, dup := names[key]; dup {
			continue
		}
		names[key] = p
		rows = append(rows, models.Match{
			ID:           s.newID(),
			BrandID:      p.brand.ID,
			OrganizerID:  p.organizer.ID,
			PairKey:      key,
			Score:        scored.Score,
			MatchReasons: scored.Reasons,
			Status:       models.MatchPending,
			MatchSource:  models.SourceAI,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}

	s.logger.Info("pairs scored", map[string]interface{}{
		"entityType": entityType,
		"entityId":   entityID,
		"scored":     len(pairs),
		"qualifying": len(rows),
	})

	if len(rows) == 0 {
		return &Result{Matches: []models.MatchView{}}, nil
	}

	stored, err := s.matches.UpsertMatches(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("%w: %d rows: %v", ErrMatchInsertFailed, len(rows), err)
	}
	metrics.MatchesGenerated.WithLabelValues(string(entityType)).Add(float64(len(stored)))

	views := make([]models.MatchView, 0, len(stored))
	for _, m := range stored {
		p := names[m.PairKey]
		v := models.MatchView{Match: m}
		if p.brand != nil {
			v.BrandName, v.ProductName = p.brand.Name, p.brand.ProductName
			v.OrganizerName, v.EventName = p.organizer.Name, p.organizer.EventName
		}
		views = append(views, v)
	}
	sort.SliceStable(views, func(i, j int) bool {
		if views[i].Score != views[j].Score {
			return views[i].Score > views[j].Score
		}
		return views[i].ID < views[j].ID
	})

	s.afterUpsert(ctx, entityType, entityID, views)
	return &Result{Matches: views}, nil
}

// afterUpsert feeds the search index and the event topic. Neither may fail the run.
func (s *Service) afterUpsert(ctx context.Context, entityType models.EntityType, entityID string, views []models.MatchView) {
	if s.indexer != nil {
		if err := s.indexer.IndexMatches(ctx, views); err != nil {
			s.logger.Warn("failed to index generated matches", map[string]interface{}{
				"entityId": entityID,
				"count":    len(views),
				"error":    err,
			})
		}
	}
	if s.publisher != nil {
		if err := s.publisher.PublishMatchesGenerated(ctx, entityType, entityID, views); err != nil {
			s.logger.Warn("failed to publish matches generated event", map[string]interface{}{
				"entityId": entityID,
				"error":    err,
			})
		}
	}
}

func (s *Service) loadPairs(ctx context.Context, entityType models.EntityType, entityID string) ([]pair, error) {
	switch entityType {
	case models.EntityBrand:
		brand, err := s.entities.GetBrandByID(ctx, entityID)
		if err != nil {
			return nil, entityError(entityType, entityID, err)
		}
		organizers, err := s.entities.GetAllOrganizers(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: organizers: %v", ErrCounterpartyFetchFailed, err)
		}
		pairs := make([]pair, 0, len(organizers))
		for i := range organizers {
			pairs = append(pairs, pair{brand: brand, organizer: &organizers[i]})
		}
		return pairs, nil

	case models.EntityOrganizer:
		organizer, err := s.entities.GetOrganizerByID(ctx, entityID)
		if err != nil {
			return nil, entityError(entityType, entityID, err)
		}
		brands, err := s.entities.GetAllBrands(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: brands: %v", ErrCounterpartyFetchFailed, err)
		}
		pairs := make([]pair, 0, len(brands))
		for i := range brands {
			pairs = append(pairs, pair{brand: &brands[i], organizer: organizer})
		}
		return pairs, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidEntityType, entityType)
	}
}

func entityError(entityType models.EntityType, entityID string, err error) error {
	if errors.Is(err, models.ErrNotFound) {
		return fmt.Errorf("%w: %s %s", ErrEntityNotFound, entityType, entityID)
	}
	return fmt.Errorf("%w: load %s %s: %v", ErrEntityLoadFailed, entityType, entityID, err)
}
