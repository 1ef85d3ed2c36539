package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"sponsormatch-workers/internal/common/logger"
	"sponsormatch-workers/internal/matching/generator"
	"sponsormatch-workers/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

// ==========================
// Overlay key-value store
// ==========================

func TestRedisKV_GetSet(t *testing.T) {
	mr, client := newMiniRedis(t)
	kv := NewRedisKV(client)
	ctx := context.Background()

	_, err := kv.Get(ctx, "user_u1_savedMatches")
	assert.ErrorIs(t, err, models.ErrNotFound)

	require.NoError(t, kv.Set(ctx, "user_u1_savedMatches", `["m1"]`))
	val, err := kv.Get(ctx, "user_u1_savedMatches")
	require.NoError(t, err)
	assert.Equal(t, `["m1"]`, val)

	// overlay keys never expire
	assert.Equal(t, time.Duration(0), mr.TTL("user_u1_savedMatches"))
}

// ==========================
// Cached entity store
// ==========================

type countingSource struct {
	ProfileSource
	brand     *models.Brand
	organizer *models.Organizer
	err       error
	calls     int
}

func (s *countingSource) GetBrandByID(_ context.Context, id string) (*models.Brand, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.brand, nil
}

func (s *countingSource) GetOrganizerByID(_ context.Context, id string) (*models.Organizer, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.organizer, nil
}

func TestCachedEntityStore_ReadThrough(t *testing.T) {
	mr, client := newMiniRedis(t)
	source := &countingSource{brand: &models.Brand{ID: "b1", Name: "Acme", Industry: models.Industry("gaming")}}
	store := NewCachedEntityStore(source, client, time.Minute, logger.NewTestLogger(t))
	ctx := context.Background()

	first, err := store.GetBrandByID(ctx, "b1")
	require.NoError(t, err)
	second, err := store.GetBrandByID(ctx, "b1")
	require.NoError(t, err)

	assert.Equal(t, 1, source.calls)
	assert.Equal(t, first.Name, second.Name)
	assert.True(t, mr.Exists("brand:profile:b1"))
	assert.Equal(t, time.Minute, mr.TTL("brand:profile:b1"))

	mr.FastForward(2 * time.Minute)
	_, err = store.GetBrandByID(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, 2, source.calls)
}

func TestCachedEntityStore_NotFoundIsNotCached(t *testing.T) {
	mr, client := newMiniRedis(t)
	source := &countingSource{err: models.ErrNotFound}
	store := NewCachedEntityStore(source, client, time.Minute, logger.NewTestLogger(t))

	_, err := store.GetOrganizerByID(context.Background(), "o1")
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.False(t, mr.Exists("organizer:profile:o1"))
}

func TestCachedEntityStore_CacheFailureFallsBack(t *testing.T) {
	client, mock := redismock.NewClientMock()
	source := &countingSource{organizer: &models.Organizer{ID: "o1", EventName: "LAN Party"}}
	store := NewCachedEntityStore(source, client, time.Minute, logger.NewTestLogger(t))

	// the follow-up SET is unexpected and fails too; both are only logged
	mock.ExpectGet("organizer:profile:o1").SetErr(errors.New("redis down"))

	organizer, err := store.GetOrganizerByID(context.Background(), "o1")
	require.NoError(t, err)
	assert.Equal(t, "LAN Party", organizer.EventName)
	assert.Equal(t, 1, source.calls)
}

func TestCachedEntityStore_CorruptEntryIsIgnored(t *testing.T) {
	mr, client := newMiniRedis(t)
	require.NoError(t, mr.Set("brand:profile:b1", "{not json"))
	source := &countingSource{brand: &models.Brand{ID: "b1", Name: "Acme"}}
	store := NewCachedEntityStore(source, client, time.Minute, logger.NewTestLogger(t))

	brand, err := store.GetBrandByID(context.Background(), "b1")
	require.NoError(t, err)
	assert.Equal(t, "Acme", brand.Name)
	assert.Equal(t, 1, source.calls)
}

func TestCachedEntityStore_Invalidate(t *testing.T) {
	mr, client := newMiniRedis(t)
	source := &countingSource{
		brand:     &models.Brand{ID: "b1", Name: "Acme"},
		organizer: &models.Organizer{ID: "o1", Name: "Org One"},
	}
	store := NewCachedEntityStore(source, client, time.Minute, logger.NewTestLogger(t))
	ctx := context.Background()

	_, err := store.GetBrandByID(ctx, "b1")
	require.NoError(t, err)
	_, err = store.GetOrganizerByID(ctx, "o1")
	require.NoError(t, err)

	removed, err := store.Invalidate(ctx, models.EntityBrand, "b1")
	require.NoError(t, err)
	assert.True(t, removed)
	assert.False(t, mr.Exists("brand:profile:b1"))
	assert.True(t, mr.Exists("organizer:profile:o1"), "only the named profile is dropped")

	removed, err = store.Invalidate(ctx, models.EntityBrand, "b1")
	require.NoError(t, err)
	assert.False(t, removed)

	_, err = store.Invalidate(ctx, models.EntityType("sponsor"), "b1")
	assert.Error(t, err)
}

func TestCachedEntityStore_InvalidateRedisDown(t *testing.T) {
	mr, client := newMiniRedis(t)
	store := NewCachedEntityStore(&countingSource{}, client, time.Minute, logger.NewTestLogger(t))
	mr.Close()

	_, err := store.Invalidate(context.Background(), models.EntityOrganizer, "o1")
	assert.Error(t, err)
}

// ==========================
// Cache and generation agree
// ==========================

// profileTable is a mutable in-memory ProfileSource.
type profileTable struct {
	brands     map[string]models.Brand
	organizers map[string]models.Organizer
}

func newProfileTable() *profileTable {
	return &profileTable{brands: map[string]models.Brand{}, organizers: map[string]models.Organizer{}}
}

func (p *profileTable) putBrand(b models.Brand)         { p.brands[b.ID] = b }
func (p *profileTable) putOrganizer(o models.Organizer) { p.organizers[o.ID] = o }

func (p *profileTable) GetBrandByID(_ context.Context, id string) (*models.Brand, error) {
	b, ok := p.brands[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &b, nil
}

func (p *profileTable) GetOrganizerByID(_ context.Context, id string) (*models.Organizer, error) {
	o, ok := p.organizers[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &o, nil
}

func (p *profileTable) GetAllBrands(context.Context) ([]models.Brand, error) {
	out := make([]models.Brand, 0, len(p.brands))
	for _, b := range p.brands {
		out = append(out, b)
	}
	return out, nil
}

func (p *profileTable) GetAllOrganizers(context.Context) ([]models.Organizer, error) {
	out := make([]models.Organizer, 0, len(p.organizers))
	for _, o := range p.organizers {
		out = append(out, o)
	}
	return out, nil
}

func sampleBrand(id string, budget models.BudgetBucket) models.Brand {
	return models.Brand{
		ID:               id,
		Name:             "Brand " + id,
		ProductName:      "Product " + id,
		TargetAudience:   "Young professionals interested in technology",
		AgeRange:         "25_34",
		Industry:         models.IndustryTech,
		SponsorshipTypes: []models.SponsorshipType{models.SponsorshipProductSampling},
		MarketingGoals:   "Grow brand awareness",
		Budget:           budget,
	}
}

func sampleOrganizer(id string) models.Organizer {
	return models.Organizer{
		ID:                   id,
		Name:                 "Organizer " + id,
		EventName:            "Event " + id,
		EventType:            models.EventConference,
		AudienceDescription:  "Technology professionals",
		AudienceDemographics: []models.AgeBucket{"25_34"},
		AttendeeCount:        models.Attendees1000To5000,
		OfferingTypes:        []models.OfferingType{models.OfferingBrandVisibility},
		SponsorshipNeeds:     "product samples",
	}
}

// memMatches keeps the last upserted row per pair.
type memMatches struct{ byPair map[string]models.Match }

func (m *memMatches) UpsertMatches(_ context.Context, rows []models.Match) ([]models.Match, error) {
	for _, r := range rows {
		m.byPair[r.PairKey] = r
	}
	return rows, nil
}

func TestCachedEntityStore_SidesAgreeAfterProfileChange(t *testing.T) {
	_, client := newMiniRedis(t)
	table := newProfileTable()
	table.putBrand(sampleBrand("b1", models.Budget10000To25000))
	table.putOrganizer(sampleOrganizer("o1"))

	cached := NewCachedEntityStore(table, client, 10*time.Minute, logger.NewTestLogger(t))
	svc := generator.NewService(cached, &memMatches{byPair: map[string]models.Match{}}, nil, nil, logger.NewNoOpLogger())
	ctx := context.Background()

	// warm the brand cache with the original profile
	_, err := svc.Generate(ctx, models.EntityBrand, "b1")
	require.NoError(t, err)

	// the brand edits its profile and the change hook drops the cached copy
	table.putBrand(sampleBrand("b1", models.BudgetUnder1000))
	_, err = cached.Invalidate(ctx, models.EntityBrand, "b1")
	require.NoError(t, err)

	fromBrand, err := svc.Generate(ctx, models.EntityBrand, "b1")
	require.NoError(t, err)
	fromOrganizer, err := svc.Generate(ctx, models.EntityOrganizer, "o1")
	require.NoError(t, err)

	require.Len(t, fromBrand.Matches, 1)
	require.Len(t, fromOrganizer.Matches, 1)
	assert.NotContains(t, fromBrand.Matches[0].MatchReasons, "Budget fit")
	assert.Equal(t, fromOrganizer.Matches[0].Score, fromBrand.Matches[0].Score)
	assert.Equal(t, fromOrganizer.Matches[0].MatchReasons, fromBrand.Matches[0].MatchReasons)
}
