// internal/workers/matching/update-match-overlay/handler.go
package updatematchoverlay

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"sponsormatch-workers/internal/common/errors"
	"sponsormatch-workers/internal/common/logger"
	"sponsormatch-workers/internal/matching/lifecycle"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "update-match-overlay"
)

type OverlayUpdater interface {
	UpdateOverlay(ctx context.Context, viewerID, matchID string, action lifecycle.OverlayAction) (*lifecycle.Overlay, bool, error)
}

type Handler struct {
	config       *Config
	overlays     OverlayUpdater
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, overlays OverlayUpdater, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		overlays:     overlays,
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

// Execute applies the action to the viewer's overlay. Match status is never touched.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	overlay, changed, err := h.overlays.UpdateOverlay(ctx, input.ViewerID, input.MatchID, input.Action)
	if err != nil {
		return nil, err
	}

	h.logger.Debug("overlay updated", map[string]interface{}{
		"viewerId": input.ViewerID,
		"matchId":  input.MatchID,
		"action":   input.Action,
		"changed":  changed,
	})

	return &Output{
		ViewerID:         overlay.ViewerID,
		SavedMatches:     nonNil(overlay.Saved),
		DismissedMatches: nonNil(overlay.Dismissed),
		Changed:          changed,
	}, nil
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}

func toStandardError(err error, input *Input) *errors.StandardError {
	switch {
	case stderrors.Is(err, lifecycle.ErrInvalidAction):
		return errors.NewInputValidationFailedError(err.Error())
	case stderrors.Is(err, lifecycle.ErrOverlayStoreFailed):
		return errors.NewOverlayStoreFailedError(input.ViewerID, err)
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
