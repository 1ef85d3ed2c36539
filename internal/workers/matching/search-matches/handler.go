// internal/workers/matching/search-matches/handler.go
package searchmatches

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"sponsormatch-workers/internal/common/errors"
	"sponsormatch-workers/internal/common/logger"
	"sponsormatch-workers/internal/store"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "search-matches"
)

type Searcher interface {
	Search(ctx context.Context, q store.SearchQuery) (*store.SearchResult, error)
}

type Handler struct {
	config       *Config
	searcher     Searcher
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, searcher Searcher, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		searcher:     searcher,
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
		return h.fail(ctx, client, job, h.toStandardError(err))
	}

	return h.completeJob(ctx, client, job, output)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	result, err := h.searcher.Search(ctx, store.SearchQuery{
		Text:     input.Query,
		Status:   input.Status,
		MinScore: input.MinScore,
		From:     input.From,
		Size:     input.Size,
	})
	if err != nil {
		return nil, err
	}

	h.logger.Debug("match search completed", map[string]interface{}{
		"query": input.Query,
		"hits":  result.TotalHits,
		"took":  result.Took,
	})

	matches := result.Matches
	if matches == nil {
		matches = []store.MatchDocument{}
	}
	return &Output{
		Total:    result.TotalHits,
		MaxScore: result.MaxScore,
		Took:     result.Took,
		Matches:  matches,
	}, nil
}

func (h *Handler) toStandardError(err error) *errors.StandardError {
	if stderrors.Is(err, store.ErrSearchTimeout) || stderrors.Is(err, context.DeadlineExceeded) {
		return errors.NewSearchTimeoutError(h.config.Index)
	}
	var stdErr *errors.StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return errors.NewSearchQueryFailedError(h.config.Index, err)
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
