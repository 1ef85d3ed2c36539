// internal/workers/matching/update-match-overlay/handler_test.go
package updatematchoverlay

import (
	"context"
	"fmt"
	"testing"
	"time"

	"sponsormatch-workers/internal/common/errors"
	"sponsormatch-workers/internal/common/logger"
	"sponsormatch-workers/internal/matching/lifecycle"
	"sponsormatch-workers/internal/store"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func setupHandler(t *testing.T) (*Handler, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	log := logger.NewTestLogger(t)
	manager := lifecycle.NewManager(nil, lifecycle.NewOverlayRepository(store.NewRedisKV(client)), nil, nil, nil, log)
	return NewHandler(&Config{Timeout: time.Second}, manager, log), mr
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_SaveThenDismiss(t *testing.T) {
	h, mr := setupHandler(t)
	ctx := context.Background()

	out, err := h.Execute(ctx, &Input{ViewerID: "u1", MatchID: "m1", Action: lifecycle.ActionSave})
	require.NoError(t, err)
	assert.True(t, out.Changed)
	assert.Equal(t, []string{"m1"}, out.SavedMatches)
	assert.Equal(t, []string{}, out.DismissedMatches)

	stored, err := mr.Get(lifecycle.SavedKey("u1"))
	require.NoError(t, err)
	assert.JSONEq(t, `["m1"]`, stored)

	out, err = h.Execute(ctx, &Input{ViewerID: "u1", MatchID: "m2", Action: lifecycle.ActionDismiss})
	require.NoError(t, err)
	assert.Equal(t, []string{"m1"}, out.SavedMatches)
	assert.Equal(t, []string{"m2"}, out.DismissedMatches)
}

func TestHandler_Execute_RepeatIsNoop(t *testing.T) {
	h, _ := setupHandler(t)
	ctx := context.Background()

	_, err := h.Execute(ctx, &Input{ViewerID: "u1", MatchID: "m1", Action: lifecycle.ActionSave})
	require.NoError(t, err)

	out, err := h.Execute(ctx, &Input{ViewerID: "u1", MatchID: "m1", Action: lifecycle.ActionSave})
	require.NoError(t, err)
	assert.False(t, out.Changed)
	assert.Equal(t, []string{"m1"}, out.SavedMatches)
}

func TestHandler_Execute_StoreDown(t *testing.T) {
	h, mr := setupHandler(t)
	mr.Close()

	_, err := h.Execute(context.Background(), &Input{ViewerID: "u1", MatchID: "m1", Action: lifecycle.ActionSave})
	require.Error(t, err)

	stdErr := toStandardError(err, &Input{ViewerID: "u1"})
	assert.Equal(t, errors.ErrCodeOverlayStoreFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
}

func TestToStandardError_InvalidAction(t *testing.T) {
	err := fmt.Errorf("%w: %q", lifecycle.ErrInvalidAction, "archive")
	assert.Equal(t, errors.ErrCodeInputValidationFailed, toStandardError(err, &Input{}).Code)
}

func TestInputSchema(t *testing.T) {
	assert.True(t, inputValidator.Validate([]byte(`{"viewerId":"0b9e7d2c-3a41-4f5e-8c6d-7e8f9a0b1c2d","matchId":"6f1c2a0e-8d4b-4c1e-9a7f-2b3c4d5e6f70","action":"dismiss"}`)).Valid)
	assert.False(t, inputValidator.Validate([]byte(`{"viewerId":"0b9e7d2c-3a41-4f5e-8c6d-7e8f9a0b1c2d","matchId":"6f1c2a0e-8d4b-4c1e-9a7f-2b3c4d5e6f70","action":"archive"}`)).Valid)
	assert.False(t, inputValidator.Validate([]byte(`{"viewerId":"u1","matchId":"6f1c2a0e-8d4b-4c1e-9a7f-2b3c4d5e6f70","action":"save"}`)).Valid)
	assert.False(t, inputValidator.Validate([]byte(`{"viewerId":"0b9e7d2c-3a41-4f5e-8c6d-7e8f9a0b1c2d","matchId":"m1","action":"save"}`)).Valid)
}
