// internal/store/match_store.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"sponsormatch-workers/internal/common/database"
	"sponsormatch-workers/internal/common/observability"
	"sponsormatch-workers/internal/matching/lifecycle"
	"sponsormatch-workers/internal/models"

	"github.com/google/uuid"
	"github.com/huandu/go-sqlbuilder"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var matchColumns = []string{
	"id", "brand_id", "organizer_id", "pair_key", "score", "match_reasons", "status",
	"match_source", "brand_interested", "organizer_interested", "created_at", "updated_at",
}

// a regenerated pair only refreshes its score while nobody has acted on it
const matchUpsertSuffix = " ON CONFLICT (pair_key) DO UPDATE SET" +
	" score = EXCLUDED.score, match_reasons = EXCLUDED.match_reasons, updated_at = EXCLUDED.updated_at" +
	" WHERE matches.status = 'pending'"

const connectionUpsertSuffix = " ON CONFLICT (brand_id, organizer_id, initiator) DO UPDATE SET" +
	" status = EXCLUDED.status, is_mutual = EXCLUDED.is_mutual"

type matchRow struct {
	ID                  string         `db:"id"`
	BrandID             string         `db:"brand_id"`
	OrganizerID         string         `db:"organizer_id"`
	PairKey             string         `db:"pair_key"`
	Score               int            `db:"score"`
	MatchReasons        pq.StringArray `db:"match_reasons"`
	Status              string         `db:"status"`
	MatchSource         sql.NullString `db:"match_source"`
	BrandInterested     bool           `db:"brand_interested"`
	OrganizerInterested bool           `db:"organizer_interested"`
	CreatedAt           time.Time      `db:"created_at"`
	UpdatedAt           time.Time      `db:"updated_at"`
}

func (r matchRow) toModel() models.Match {
	reasons := []string(r.MatchReasons)
	if reasons == nil {
		reasons = []string{}
	}
	return models.Match{
		ID:                  r.ID,
		BrandID:             r.BrandID,
		OrganizerID:         r.OrganizerID,
		PairKey:             r.PairKey,
		Score:               r.Score,
		MatchReasons:        reasons,
		Status:              models.MatchStatus(r.Status),
		MatchSource:         models.MatchSource(r.MatchSource.String),
		BrandInterested:     r.BrandInterested,
		OrganizerInterested: r.OrganizerInterested,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
	}
}

type matchViewRow struct {
	matchRow
	BrandName     string `db:"brand_name"`
	ProductName   string `db:"product_name"`
	OrganizerName string `db:"organizer_name"`
	EventName     string `db:"event_name"`
}

func (r matchViewRow) toModel() models.MatchView {
	return models.MatchView{
		Match:         r.matchRow.toModel(),
		BrandName:     r.BrandName,
		ProductName:   r.ProductName,
		OrganizerName: r.OrganizerName,
		EventName:     r.EventName,
	}
}

// MatchStore persists matches and applies interest transitions.
type MatchStore struct {
	pg    *database.PostgresClient
	newID func() string
	now   func() time.Time
}

func NewMatchStore(pg *database.PostgresClient) *MatchStore {
	return &MatchStore{
		pg:    pg,
		newID: uuid.NewString,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// UpsertMatches writes rows in one statement keyed on the unordered pair.
// Pairs that already left pending are left untouched and are absent from the result.
func (s *MatchStore) UpsertMatches(ctx context.Context, rows []models.Match) (stored []models.Match, err error) {
	ctx, span := observability.StartSpan(ctx, "store.MatchStore.UpsertMatches")
	defer func() { observability.EndSpan(span, err) }()

	if len(rows) == 0 {
		return nil, nil
	}

	ib := sqlbuilder.PostgreSQL.NewInsertBuilder()
	ib.InsertInto("matches")
	ib.Cols(matchColumns...)
	now := s.now()
	for _, m := range rows {
		if m.CreatedAt.IsZero() {
			m.CreatedAt = now
		}
		if m.UpdatedAt.IsZero() {
			m.UpdatedAt = now
		}
		ib.Values(
			m.ID, m.BrandID, m.OrganizerID, m.PairKey, m.Score, pq.StringArray(m.MatchReasons),
			string(m.Status), nullableSource(m.MatchSource), m.BrandInterested, m.OrganizerInterested,
			m.CreatedAt, m.UpdatedAt,
		)
	}

	query, args := ib.Build()
	query += matchUpsertSuffix + " RETURNING " + strings.Join(matchColumns, ", ")
	var out []matchRow
	if err := s.pg.DB.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("upsert %d matches: %w", len(rows), err)
	}

	stored = make([]models.Match, len(out))
	for i, r := range out {
		stored[i] = r.toModel()
	}
	return stored, nil
}

func (s *MatchStore) GetMatchesForBrand(ctx context.Context, brandID string) ([]models.MatchView, error) {
	return s.listViews(ctx, "store.MatchStore.GetMatchesForBrand", "m.brand_id", brandID)
}

func (s *MatchStore) GetMatchesForOrganizer(ctx context.Context, organizerID string) ([]models.MatchView, error) {
	return s.listViews(ctx, "store.MatchStore.GetMatchesForOrganizer", "m.organizer_id", organizerID)
}

func (s *MatchStore) listViews(ctx context.Context, spanName, column, id string) (views []models.MatchView, err error) {
	ctx, span := observability.StartSpan(ctx, spanName)
	defer func() { observability.EndSpan(span, err) }()

	sb := viewSelect()
	sb.Where(sb.Equal(column, id))
	sb.OrderBy("m.score DESC", "m.created_at", "m.id")

	query, args := sb.Build()
	var rows []matchViewRow
	if err := s.pg.DB.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list matches by %s: %w", column, err)
	}

	views = make([]models.MatchView, len(rows))
	for i, r := range rows {
		views[i] = r.toModel()
	}
	return views, nil
}

// GetAllMatches loads every match with its display names, in any status.
func (s *MatchStore) GetAllMatches(ctx context.Context) (views []models.MatchView, err error) {
	ctx, span := observability.StartSpan(ctx, "store.MatchStore.GetAllMatches")
	defer func() { observability.EndSpan(span, err) }()

	sb := viewSelect()
	sb.OrderBy("m.created_at", "m.id")

	query, args := sb.Build()
	var rows []matchViewRow
	if err := s.pg.DB.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list all matches: %w", err)
	}

	views = make([]models.MatchView, len(rows))
	for i, r := range rows {
		views[i] = r.toModel()
	}
	return views, nil
}

func viewSelect() *sqlbuilder.SelectBuilder {
	cols := make([]string, 0, len(matchColumns)+4)
	for _, c := range matchColumns {
		cols = append(cols, "m."+c)
	}
	cols = append(cols,
		"b.name AS brand_name", "b.product_name AS product_name",
		"o.name AS organizer_name", "o.event_name AS event_name",
	)

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(cols...)
	sb.From("matches m")
	sb.Join("brands b", "b.id = m.brand_id")
	sb.Join("organizers o", "o.id = m.organizer_id")
	return sb
}

// MutateMatch locks the match row, applies fn and persists the result in one
// transaction. An accepted transition also records the mutual connection.
func (s *MatchStore) MutateMatch(ctx context.Context, matchID string, side models.EntityType, fn lifecycle.MutateFunc) (match *models.Match, t lifecycle.Transition, err error) {
	ctx, span := observability.StartSpan(ctx, "store.MatchStore.MutateMatch")
	defer func() { observability.EndSpan(span, notFoundIsOK(err)) }()

	err = s.pg.WithTx(ctx, func(tx *sqlx.Tx) error {
		sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
		sb.Select(matchColumns...)
		sb.From("matches")
		sb.Where(sb.Equal("id", matchID))

		query, args := sb.Build()
		query += " FOR UPDATE"
		var row matchRow
		if err := tx.GetContext(ctx, &row, query, args...); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("match %s: %w", matchID, models.ErrNotFound)
			}
			return fmt.Errorf("lock match %s: %w", matchID, err)
		}

		m := row.toModel()
		var ferr error
		t, ferr = fn(&m)
		if ferr != nil {
			return ferr
		}
		match = &m
		if !t.Changed {
			return nil
		}

		m.UpdatedAt = s.now()
		ub := sqlbuilder.PostgreSQL.NewUpdateBuilder()
		ub.Update("matches")
		ub.Set(
			ub.Assign("status", string(m.Status)),
			ub.Assign("brand_interested", m.BrandInterested),
			ub.Assign("organizer_interested", m.OrganizerInterested),
			ub.Assign("updated_at", m.UpdatedAt),
		)
		ub.Where(ub.Equal("id", m.ID))

		query, args = ub.Build()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("update match %s: %w", m.ID, err)
		}

		if t.Accepted {
			return s.recordConnection(ctx, tx, &m, side)
		}
		return nil
	})
	if err != nil {
		return nil, lifecycle.Transition{}, err
	}
	return match, t, nil
}

func (s *MatchStore) recordConnection(ctx context.Context, tx *sqlx.Tx, m *models.Match, initiator models.EntityType) error {
	ib := sqlbuilder.PostgreSQL.NewInsertBuilder()
	ib.InsertInto("connections")
	ib.Cols("id", "brand_id", "organizer_id", "initiator", "status", "is_mutual", "created_at")
	ib.Values(s.newID(), m.BrandID, m.OrganizerID, string(initiator), string(models.ConnectionAccepted), true, m.UpdatedAt)

	query, args := ib.Build()
	query += connectionUpsertSuffix
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("record connection for match %s: %w", m.ID, err)
	}
	return nil
}

func nullableSource(s models.MatchSource) interface{} {
	if s == "" {
		return nil
	}
	return string(s)
}
