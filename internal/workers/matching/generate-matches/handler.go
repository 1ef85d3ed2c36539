// internal/workers/matching/generate-matches/handler.go
package generatematches

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"sponsormatch-workers/internal/common/errors"
	"sponsormatch-workers/internal/common/logger"
	"sponsormatch-workers/internal/matching/generator"
	"sponsormatch-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "generate-matches"
)

type Generator interface {
	Generate(ctx context.Context, entityType models.EntityType, entityID string) (*generator.Result, error)
}

type Handler struct {
	config       *Config
	generator    Generator
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, gen Generator, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		generator:    gen,
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
		return h.fail(ctx, client, job, toStandardError(err, &input))
	}

	return h.completeJob(ctx, client, job, output)
}

// Execute runs one generation for the entity named by input.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	result, err := h.generator.Generate(ctx, input.Type, input.EntityID)
	if err != nil {
		return nil, err
	}

	matches := result.Matches
	if matches == nil {
		matches = []models.MatchView{}
	}
	return &Output{
		Success:    true,
		MatchCount: len(matches),
		Matches:    matches,
	}, nil
}

func toStandardError(err error, input *Input) *errors.StandardError {
	switch {
	case stderrors.Is(err, generator.ErrInvalidEntityType):
		return errors.NewInvalidEntityTypeError(string(input.Type))
	case stderrors.Is(err, generator.ErrEntityNotFound):
		return errors.NewEntityNotFoundError(string(input.Type), input.EntityID)
	case stderrors.Is(err, generator.ErrCounterpartyFetchFailed):
		return errors.NewCounterpartyFetchFailedError(string(input.Type.Counterparty()), err)
	case stderrors.Is(err, generator.ErrMatchInsertFailed):
		return errors.NewMatchInsertFailedError(err)
	case stderrors.Is(err, generator.ErrEntityLoadFailed):
		return errors.NewQueryExecutionFailedError("load_entity", err)
	case stderrors.Is(err, context.DeadlineExceeded):
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
