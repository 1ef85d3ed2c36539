package camunda

import (
	"testing"
	"time"

	"sponsormatch-workers/internal/common/errors"
	"sponsormatch-workers/internal/common/metrics"
	"sponsormatch-workers/internal/common/observability"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// ==========================
// Gateway connection
// ==========================

func TestDial_UnreachableGateway(t *testing.T) {
	_, err := Dial("127.0.0.1:1", true, 200*time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to Zeebe broker at 127.0.0.1:1")
}

// ==========================
// Instrumentation
// ==========================

type stubHandler struct {
	err error
}

func (s stubHandler) Handle(worker.JobClient, entities.Job) error { return s.err }

func TestInstrument_CountsOutcomes(t *testing.T) {
	const taskType = "instrument-test"
	job := entities.Job{ActivatedJob: &pb.ActivatedJob{Key: 7}}
	obs := &observability.Observability{}

	Instrument(taskType, stubHandler{}, obs, zap.NewNop())(nil, job)
	Instrument(taskType, stubHandler{err: errors.NewMatchNotFoundError("m1")}, obs, zap.NewNop())(nil, job)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.WorkerJobsCompleted.WithLabelValues(taskType)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.WorkerJobsFailed.WithLabelValues(taskType, "MATCH_NOT_FOUND")))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.WorkerJobsActive.WithLabelValues(taskType)))
}
