// internal/workers/profiles/invalidate-profile-cache/handler.go
package invalidateprofilecache

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"sponsormatch-workers/internal/common/errors"
	"sponsormatch-workers/internal/common/logger"
	"sponsormatch-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "invalidate-profile-cache"
)

var errInvalidEntityType = stderrors.New("INVALID_ENTITY_TYPE")

// ProfileCache drops a cached brand or organizer profile.
type ProfileCache interface {
	Invalidate(ctx context.Context, entityType models.EntityType, id string) (bool, error)
}

// Handler runs after a profile write so the next generation run for that
// entity scores the same row its counter-parties see.
type Handler struct {
	config       *Config
	cache        ProfileCache
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, cache ProfileCache, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		cache:        cache,
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

// Execute drops the cached profile. A missing cache entry is not an error.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if !input.Type.Valid() {
		return nil, errInvalidEntityType
	}

	removed, err := h.cache.Invalidate(ctx, input.Type, input.EntityID)
	if err != nil {
		return nil, err
	}

	h.logger.Debug("profile cache invalidated", map[string]interface{}{
		"entityType": input.Type,
		"entityId":   input.EntityID,
		"removed":    removed,
	})

	return &Output{Type: input.Type, EntityID: input.EntityID, Invalidated: removed}, nil
}

func toStandardError(err error, input *Input) *errors.StandardError {
	if stderrors.Is(err, errInvalidEntityType) {
		return errors.NewInvalidEntityTypeError(string(input.Type))
	}
	var stdErr *errors.StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return errors.NewProfileCacheFailedError(string(input.Type), input.EntityID, err)
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
