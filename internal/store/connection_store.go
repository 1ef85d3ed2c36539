// internal/store/connection_store.go
package store

import (
	"context"
	"database/sql"
	"fmt"

	"sponsormatch-workers/internal/common/database"
	"sponsormatch-workers/internal/common/observability"
	"sponsormatch-workers/internal/models"

	"github.com/huandu/go-sqlbuilder"
)

type connectionRow struct {
	ID          string         `db:"id"`
	BrandID     string         `db:"brand_id"`
	OrganizerID string         `db:"organizer_id"`
	Initiator   sql.NullString `db:"initiator"`
	Status      string         `db:"status"`
	IsMutual    sql.NullBool   `db:"is_mutual"`
	CreatedAt   sql.NullTime   `db:"created_at"`
}

func (r connectionRow) toModel() models.Connection {
	c := models.Connection{
		ID:          r.ID,
		BrandID:     r.BrandID,
		OrganizerID: r.OrganizerID,
		Initiator:   models.EntityType(r.Initiator.String),
		Status:      models.ConnectionStatus(r.Status),
	}
	if r.IsMutual.Valid {
		mutual := r.IsMutual.Bool
		c.IsMutual = &mutual
	}
	if r.CreatedAt.Valid {
		created := r.CreatedAt.Time
		c.CreatedAt = &created
	}
	return c
}

// ConnectionStore reads raw connection rows in no particular order.
type ConnectionStore struct {
	pg *database.PostgresClient
}

func NewConnectionStore(pg *database.PostgresClient) *ConnectionStore {
	return &ConnectionStore{pg: pg}
}

func (s *ConnectionStore) GetAllConnections(ctx context.Context) (conns []models.Connection, err error) {
	ctx, span := observability.StartSpan(ctx, "store.ConnectionStore.GetAllConnections")
	defer func() { observability.EndSpan(span, err) }()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("id", "brand_id", "organizer_id", "initiator", "status", "is_mutual", "created_at")
	sb.From("connections")

	query, args := sb.Build()
	var rows []connectionRow
	if err := s.pg.DB.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list connections: %w", err)
	}

	conns = make([]models.Connection, len(rows))
	for i, r := range rows {
		conns[i] = r.toModel()
	}
	return conns, nil
}
