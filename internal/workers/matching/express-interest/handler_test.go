// internal/workers/matching/express-interest/handler_test.go
package expressinterest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"sponsormatch-workers/internal/common/errors"
	"sponsormatch-workers/internal/common/logger"
	"sponsormatch-workers/internal/matching/lifecycle"
	"sponsormatch-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type memoryInterestStore struct {
	matches     map[string]*models.Match
	connections []models.EntityType
	err         error
}

func (s *memoryInterestStore) MutateMatch(_ context.Context, matchID string, side models.EntityType, fn lifecycle.MutateFunc) (*models.Match, lifecycle.Transition, error) {
	if s.err != nil {
		return nil, lifecycle.Transition{}, s.err
	}
	m, ok := s.matches[matchID]
	if !ok {
		return nil, lifecycle.Transition{}, models.ErrNotFound
	}
	working := *m
	t, err := fn(&working)
	if err != nil {
		return nil, lifecycle.Transition{}, err
	}
	if t.Changed {
		*m = working
	}
	if t.Accepted {
		s.connections = append(s.connections, side)
	}
	return &working, t, nil
}

type recordingPublisher struct {
	accepted []string
}

func (p *recordingPublisher) PublishMatchAccepted(_ context.Context, m *models.Match) error {
	p.accepted = append(p.accepted, m.ID)
	return nil
}

func setupHandler(t *testing.T, status models.MatchStatus) (*Handler, *memoryInterestStore, *recordingPublisher) {
	st := &memoryInterestStore{matches: map[string]*models.Match{
		"m1": {ID: "m1", BrandID: "b1", OrganizerID: "o1", Status: status},
	}}
	pub := &recordingPublisher{}
	log := logger.NewTestLogger(t)
	manager := lifecycle.NewManager(nil, nil, st, nil, pub, log)
	return NewHandler(&Config{Timeout: time.Second}, manager, log), st, pub
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_MutualInterestAccepts(t *testing.T) {
	h, st, pub := setupHandler(t, models.MatchPending)
	ctx := context.Background()

	out, err := h.Execute(ctx, &Input{MatchID: "m1", Side: models.EntityBrand})
	require.NoError(t, err)
	assert.Equal(t, models.MatchPending, out.Status)
	assert.True(t, out.BrandInterested)
	assert.False(t, out.Accepted)

	out, err = h.Execute(ctx, &Input{MatchID: "m1", Side: models.EntityOrganizer, Action: lifecycle.ActionInterest})
	require.NoError(t, err)
	assert.Equal(t, models.MatchAccepted, out.Status)
	assert.True(t, out.BrandInterested)
	assert.True(t, out.OrganizerInterested)
	assert.True(t, out.Accepted)

	assert.Equal(t, []models.EntityType{models.EntityOrganizer}, st.connections)
	assert.Equal(t, []string{"m1"}, pub.accepted)
}

func TestHandler_Execute_RepeatOnAcceptedIsNoop(t *testing.T) {
	h, st, pub := setupHandler(t, models.MatchAccepted)

	out, err := h.Execute(context.Background(), &Input{MatchID: "m1", Side: models.EntityBrand})
	require.NoError(t, err)
	assert.Equal(t, models.MatchAccepted, out.Status)
	assert.False(t, out.Accepted)
	assert.Empty(t, st.connections)
	assert.Empty(t, pub.accepted)
}

func TestHandler_Execute_Decline(t *testing.T) {
	h, _, _ := setupHandler(t, models.MatchPending)

	out, err := h.Execute(context.Background(), &Input{MatchID: "m1", Side: models.EntityOrganizer, Action: lifecycle.ActionDecline})
	require.NoError(t, err)
	assert.Equal(t, models.MatchRejected, out.Status)
	assert.False(t, out.Accepted)
}

// ==========================
// Error Mapping Tests
// ==========================

func TestHandler_Execute_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status models.MatchStatus
		input  Input
		dbErr  error
		want   errors.ErrorCode
	}{
		{"unknown match", models.MatchPending, Input{MatchID: "nope", Side: models.EntityBrand}, nil, errors.ErrCodeMatchNotFound},
		{"rejected match", models.MatchRejected, Input{MatchID: "m1", Side: models.EntityBrand}, nil, errors.ErrCodeMatchNotPending},
		{"bad side", models.MatchPending, Input{MatchID: "m1", Side: "sponsor"}, nil, errors.ErrCodeInvalidEntityType},
		{"bad action", models.MatchPending, Input{MatchID: "m1", Side: models.EntityBrand, Action: "maybe"}, nil, errors.ErrCodeInputValidationFailed},
		{"store down", models.MatchPending, Input{MatchID: "m1", Side: models.EntityBrand}, fmt.Errorf("connection reset"), errors.ErrCodeQueryExecutionFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, st, _ := setupHandler(t, tt.status)
			st.err = tt.dbErr

			_, err := h.Execute(context.Background(), &tt.input)
			require.Error(t, err)
			assert.Equal(t, tt.want, toStandardError(err, &tt.input).Code)
		})
	}
}

// ==========================
// Schema Tests
// ==========================

func TestInputSchema(t *testing.T) {
	assert.True(t, inputValidator.Validate([]byte(`{"matchId":"6f1c2a0e-8d4b-4c1e-9a7f-2b3c4d5e6f70","side":"brand","processVar":1}`)).Valid)
	assert.True(t, inputValidator.Validate([]byte(`{"matchId":"6f1c2a0e-8d4b-4c1e-9a7f-2b3c4d5e6f70","side":"organizer","action":"decline"}`)).Valid)
	assert.False(t, inputValidator.Validate([]byte(`{"matchId":"6f1c2a0e-8d4b-4c1e-9a7f-2b3c4d5e6f70"}`)).Valid)
	assert.False(t, inputValidator.Validate([]byte(`{"matchId":"6f1c2a0e-8d4b-4c1e-9a7f-2b3c4d5e6f70","side":"brand","action":"maybe"}`)).Valid)
	assert.False(t, inputValidator.Validate([]byte(`{"matchId":"m1","side":"brand"}`)).Valid, "match ids are uuids")
	assert.False(t, inputValidator.Validate([]byte(`{"matchId":"","side":"brand"}`)).Valid)
}
