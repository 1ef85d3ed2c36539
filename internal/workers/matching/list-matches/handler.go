// internal/workers/matching/list-matches/handler.go
package listmatches

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"sponsormatch-workers/internal/common/errors"
	"sponsormatch-workers/internal/common/logger"
	"sponsormatch-workers/internal/matching/lifecycle"
	"sponsormatch-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "list-matches"
)

type Lister interface {
	List(ctx context.Context, req lifecycle.ListRequest) ([]models.MatchView, error)
}

type Handler struct {
	config       *Config
	lister       Lister
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, lister Lister, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		lister:       lister,
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

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	matches, err := h.lister.List(ctx, lifecycle.ListRequest{
		ViewerID:   input.ViewerID,
		EntityType: input.EntityType,
		EntityID:   input.EntityID,
		View:       input.View,
		Query:      input.Query,
	})
	if err != nil {
		return nil, err
	}
	if matches == nil {
		matches = []models.MatchView{}
	}

	return &Output{
		View:    input.View,
		Count:   len(matches),
		Matches: matches,
	}, nil
}

func toStandardError(err error, input *Input) *errors.StandardError {
	switch {
	case stderrors.Is(err, lifecycle.ErrInvalidSide):
		return errors.NewInvalidEntityTypeError(string(input.EntityType))
	case stderrors.Is(err, lifecycle.ErrInvalidView):
		return errors.NewInputValidationFailedError(err.Error())
	case stderrors.Is(err, lifecycle.ErrOverlayStoreFailed):
		return errors.NewOverlayStoreFailedError(input.ViewerID, err)
	case stderrors.Is(err, lifecycle.ErrMatchFetchFailed):
		return errors.NewQueryExecutionFailedError("list_matches", err)
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
