// internal/store/entity_store.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"sponsormatch-workers/internal/common/database"
	"sponsormatch-workers/internal/common/observability"
	"sponsormatch-workers/internal/models"

	"github.com/huandu/go-sqlbuilder"
	"github.com/lib/pq"
)

var brandColumns = []string{
	"id", "user_id", "name", "product_name", "target_audience", "age_range",
	"industry", "sponsorship_types", "marketing_goals", "budget", "created_at", "updated_at",
}

var organizerColumns = []string{
	"id", "user_id", "name", "event_name", "event_type", "audience_description",
	"audience_demographics", "attendee_count", "offering_types", "sponsorship_needs", "created_at", "updated_at",
}

type brandRow struct {
	ID               string         `db:"id"`
	UserID           string         `db:"user_id"`
	Name             string         `db:"name"`
	ProductName      string         `db:"product_name"`
	TargetAudience   string         `db:"target_audience"`
	AgeRange         string         `db:"age_range"`
	Industry         string         `db:"industry"`
	SponsorshipTypes pq.StringArray `db:"sponsorship_types"`
	MarketingGoals   string         `db:"marketing_goals"`
	Budget           string         `db:"budget"`
	CreatedAt        time.Time      `db:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at"`
}

func (r brandRow) toModel() models.Brand {
	types := make([]models.SponsorshipType, len(r.SponsorshipTypes))
	for i, t := range r.SponsorshipTypes {
		types[i] = models.SponsorshipType(t)
	}
	return models.Brand{
		ID:               r.ID,
		UserID:           r.UserID,
		Name:             r.Name,
		ProductName:      r.ProductName,
		TargetAudience:   r.TargetAudience,
		AgeRange:         models.AgeBucket(r.AgeRange),
		Industry:         models.Industry(r.Industry),
		SponsorshipTypes: types,
		MarketingGoals:   r.MarketingGoals,
		Budget:           models.BudgetBucket(r.Budget),
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

type organizerRow struct {
	ID                   string         `db:"id"`
	UserID               string         `db:"user_id"`
	Name                 string         `db:"name"`
	EventName            string         `db:"event_name"`
	EventType            string         `db:"event_type"`
	AudienceDescription  string         `db:"audience_description"`
	AudienceDemographics pq.StringArray `db:"audience_demographics"`
	AttendeeCount        string         `db:"attendee_count"`
	OfferingTypes        pq.StringArray `db:"offering_types"`
	SponsorshipNeeds     string         `db:"sponsorship_needs"`
	CreatedAt            time.Time      `db:"created_at"`
	UpdatedAt            time.Time      `db:"updated_at"`
}

func (r organizerRow) toModel() models.Organizer {
	demographics := make([]models.AgeBucket, len(r.AudienceDemographics))
	for i, d := range r.AudienceDemographics {
		demographics[i] = models.AgeBucket(d)
	}
	offerings := make([]models.OfferingType, len(r.OfferingTypes))
	for i, o := range r.OfferingTypes {
		offerings[i] = models.OfferingType(o)
	}
	return models.Organizer{
		ID:                   r.ID,
		UserID:               r.UserID,
		Name:                 r.Name,
		EventName:            r.EventName,
		EventType:            models.EventType(r.EventType),
		AudienceDescription:  r.AudienceDescription,
		AudienceDemographics: demographics,
		AttendeeCount:        models.AttendeeBucket(r.AttendeeCount),
		OfferingTypes:        offerings,
		SponsorshipNeeds:     r.SponsorshipNeeds,
		CreatedAt:            r.CreatedAt,
		UpdatedAt:            r.UpdatedAt,
	}
}

// EntityStore reads brand and organizer profiles from Postgres.
type EntityStore struct {
	pg *database.PostgresClient
}

func NewEntityStore(pg *database.PostgresClient) *EntityStore {
	return &EntityStore{pg: pg}
}

func (s *EntityStore) GetBrandByID(ctx context.Context, id string) (brand *models.Brand, err error) {
	ctx, span := observability.StartSpan(ctx, "store.EntityStore.GetBrandByID")
	defer func() { observability.EndSpan(span, notFoundIsOK(err)) }()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(brandColumns...)
	sb.From("brands")
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()
	var row brandRow
	if err := s.pg.DB.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("brand %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("get brand %s: %w", id, err)
	}

	b := row.toModel()
	return &b, nil
}

func (s *EntityStore) GetOrganizerByID(ctx context.Context, id string) (organizer *models.Organizer, err error) {
	ctx, span := observability.StartSpan(ctx, "store.EntityStore.GetOrganizerByID")
	defer func() { observability.EndSpan(span, notFoundIsOK(err)) }()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(organizerColumns...)
	sb.From("organizers")
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()
	var row organizerRow
	if err := s.pg.DB.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("organizer %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("get organizer %s: %w", id, err)
	}

	o := row.toModel()
	return &o, nil
}

func (s *EntityStore) GetAllBrands(ctx context.Context) (brands []models.Brand, err error) {
	ctx, span := observability.StartSpan(ctx, "store.EntityStore.GetAllBrands")
	defer func() { observability.EndSpan(span, err) }()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(brandColumns...)
	sb.From("brands")
	sb.OrderBy("created_at", "id")

	query, args := sb.Build()
	var rows []brandRow
	if err := s.pg.DB.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list brands: %w", err)
	}

	brands = make([]models.Brand, len(rows))
	for i, r := range rows {
		brands[i] = r.toModel()
	}
	return brands, nil
}

func (s *EntityStore) GetAllOrganizers(ctx context.Context) (organizers []models.Organizer, err error) {
	ctx, span := observability.StartSpan(ctx, "store.EntityStore.GetAllOrganizers")
	defer func() { observability.EndSpan(span, err) }()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(organizerColumns...)
	sb.From("organizers")
	sb.OrderBy("created_at", "id")

	query, args := sb.Build()
	var rows []organizerRow
	if err := s.pg.DB.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list organizers: %w", err)
	}

	organizers = make([]models.Organizer, len(rows))
	for i, r := range rows {
		organizers[i] = r.toModel()
	}
	return organizers, nil
}

func notFoundIsOK(err error) error {
	if errors.Is(err, models.ErrNotFound) {
		return nil
	}
	return err
}
