// internal/connections/dedup_test.go
package connections

import (
	"context"
	"errors"
	"math/rand"
	"sort"
	"testing"
	"time"

	"sponsormatch-workers/internal/common/logger"
	"sponsormatch-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

var t0 = time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)

func conn(id, brand, org string, mutual *bool, minutes *int) models.Connection {
	c := models.Connection{ID: id, BrandID: brand, OrganizerID: org, Status: models.ConnectionAccepted, IsMutual: mutual}
	if minutes != nil {
		at := t0.Add(time.Duration(*minutes) * time.Minute)
		c.CreatedAt = &at
	}
	return c
}

func boolPtr(b bool) *bool { return &b }
func intPtr(i int) *int    { return &i }

func sortedIDs(conns []models.Connection) []string {
	out := make([]string, len(conns))
	for i, c := range conns {
		out[i] = c.ID
	}
	sort.Strings(out)
	return out
}

// ==========================
// Deduplicate Tests
// ==========================

func TestDeduplicate_Empty(t *testing.T) {
	assert.Empty(t, Deduplicate(nil))
	assert.NotNil(t, Deduplicate([]models.Connection{}))
}

func TestDeduplicate_PrefersMutualOverEarlier(t *testing.T) {
	input := []models.Connection{
		conn("c1", "b1", "o1", boolPtr(false), intPtr(0)),
		conn("c2", "o1", "b1", boolPtr(true), intPtr(60)),
	}

	got := Deduplicate(input)
	require.Len(t, got, 1)
	assert.Equal(t, "c2", got[0].ID)
}

func TestDeduplicate_Ranking(t *testing.T) {
	tests := []struct {
		name  string
		input []models.Connection
		want  string
	}{
		{
			name: "both mutual, earliest wins",
			input: []models.Connection{
				conn("c1", "b1", "o1", boolPtr(true), intPtr(30)),
				conn("c2", "b1", "o1", boolPtr(true), intPtr(10)),
			},
			want: "c2",
		},
		{
			name: "both non-mutual, earliest wins",
			input: []models.Connection{
				conn("c1", "b1", "o1", boolPtr(false), intPtr(30)),
				conn("c2", "b1", "o1", boolPtr(false), intPtr(10)),
			},
			want: "c2",
		},
		{
			name: "missing createdAt never beats a well-formed row",
			input: []models.Connection{
				conn("c1", "b1", "o1", boolPtr(false), intPtr(30)),
				conn("c2", "b1", "o1", boolPtr(true), nil),
			},
			want: "c1",
		},
		{
			name: "missing isMutual never beats a well-formed row",
			input: []models.Connection{
				conn("c1", "b1", "o1", nil, intPtr(0)),
				conn("c2", "b1", "o1", boolPtr(false), intPtr(90)),
			},
			want: "c2",
		},
		{
			name: "two malformed rows still compare",
			input: []models.Connection{
				conn("c2", "b1", "o1", nil, nil),
				conn("c1", "b1", "o1", boolPtr(true), nil),
			},
			want: "c1",
		},
		{
			name: "exact tie falls back to id",
			input: []models.Connection{
				conn("c9", "b1", "o1", boolPtr(true), intPtr(5)),
				conn("c3", "o1", "b1", boolPtr(true), intPtr(5)),
			},
			want: "c3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Deduplicate(tt.input)
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0].ID)
		})
	}
}

func TestDeduplicate_OrderIndependent(t *testing.T) {
	input := []models.Connection{
		conn("c1", "b1", "o1", boolPtr(false), intPtr(0)),
		conn("c2", "o1", "b1", boolPtr(true), intPtr(60)),
		conn("c3", "b1", "o1", boolPtr(true), intPtr(90)),
		conn("c4", "b2", "o1", nil, intPtr(1)),
		conn("c5", "b2", "o1", boolPtr(false), nil),
		conn("c6", "b3", "o2", boolPtr(true), intPtr(5)),
		conn("c7", "o2", "b3", boolPtr(true), intPtr(5)),
		conn("c8", "b4", "o4", boolPtr(false), intPtr(2)),
	}
	want := sortedIDs(Deduplicate(input))
	assert.Equal(t, []string{"c2", "c4", "c6", "c8"}, want)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 50; i++ {
		shuffled := append([]models.Connection(nil), input...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		assert.Equal(t, want, sortedIDs(Deduplicate(shuffled)))
	}
}

func TestDeduplicate_NeverAddsKeys(t *testing.T) {
	input := []models.Connection{
		conn("c1", "b1", "o1", boolPtr(true), intPtr(0)),
		conn("c2", "o1", "b1", boolPtr(true), intPtr(1)),
		conn("c3", "b2", "o2", boolPtr(false), intPtr(2)),
	}
	got := Deduplicate(input)

	keys := map[string]struct{}{}
	for _, c := range input {
		keys[c.Key()] = struct{}{}
	}
	assert.Len(t, got, len(keys))
	assert.Equal(t, "c1", got[0].ID)
	assert.Equal(t, "c3", got[1].ID)
}

// ==========================
// Service Tests
// ==========================

type fakeStore struct {
	rows []models.Connection
	err  error
}

func (f *fakeStore) GetAllConnections(context.Context) ([]models.Connection, error) {
	return f.rows, f.err
}

func TestService_Canonical(t *testing.T) {
	store := &fakeStore{rows: []models.Connection{
		conn("c1", "b1", "o1", boolPtr(false), intPtr(0)),
		conn("c2", "b1", "o1", boolPtr(true), intPtr(60)),
		conn("c3", "b2", "o1", boolPtr(true), intPtr(5)),
	}}
	svc := NewService(store, logger.NewTestLogger(t))

	rows, raw, err := svc.Canonical(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Equal(t, 3, raw)
	assert.Equal(t, []string{"c2", "c3"}, sortedIDs(rows))

	rows, _, err = svc.Canonical(context.Background(), Filter{BrandID: "b2", OrganizerID: "o1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"c3"}, sortedIDs(rows))
}

func TestService_Canonical_FetchFailure(t *testing.T) {
	svc := NewService(&fakeStore{err: errors.New("connection reset")}, logger.NewNoOpLogger())

	_, _, err := svc.Canonical(context.Background(), Filter{})
	assert.ErrorIs(t, err, ErrConnectionFetchFailed)
}
