// internal/workers/connections/deduplicate-connections/handler.go
package deduplicateconnections

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"sponsormatch-workers/internal/common/errors"
	"sponsormatch-workers/internal/common/logger"
	"sponsormatch-workers/internal/connections"
	"sponsormatch-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "deduplicate-connections"
)

type Deduplicator interface {
	Canonical(ctx context.Context, f connections.Filter) ([]models.Connection, int, error)
}

type Handler struct {
	config       *Config
	dedup        Deduplicator
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, dedup Deduplicator, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		dedup:        dedup,
		errorHandler: errors.NewErrorHandler(log),
		logger:       log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) error {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	if result := inputValidator.Validate([]byte(job.Variables)); !result.Valid {
		return h.fail(ctx, client, job, errors.NewInputValidationFailedError(result.Error()))
	}

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		return h.fail(ctx, client, job, errors.NewInputValidationFailedError(fmt.Sprintf("parse input: %v", err)))
	}

	output, err := h.Execute(ctx, &input)
	if err != nil {
		return h.fail(ctx, client, job, toStandardError(err))
	}

	return h.completeJob(ctx, client, job, output)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	rows, raw, err := h.dedup.Canonical(ctx, connections.Filter{
		BrandID:     input.BrandID,
		OrganizerID: input.OrganizerID,
	})
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []models.Connection{}
	}

	return &Output{
		RawCount:    raw,
		Count:       len(rows),
		Connections: rows,
	}, nil
}

func toStandardError(err error) *errors.StandardError {
	if stderrors.Is(err, connections.ErrConnectionFetchFailed) {
		return errors.NewConnectionFetchFailedError(err)
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.NewTimeoutError("postgres", err)
	}
	return errors.Normalize(err)
}

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, stdErr *errors.StandardError) error {
	h.errorHandler.HandleJobError(ctx, client, job, stdErr)
	return stdErr
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) error {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return err
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
		return err
	}
	return nil
}
