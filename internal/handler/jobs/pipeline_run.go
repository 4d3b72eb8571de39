package jobs

import (
	"context"

	"TradeIQ/internal/usecase"
	"TradeIQ/pkg/logger"
	"TradeIQ/pkg/queue"
)

// TypePipelineRun is the queue message type for a scheduled pipeline run.
const TypePipelineRun = "pipeline.run"

// PipelineRunPayload is the queued request for one scan-mode run.
type PipelineRunPayload struct {
	Instruments []string `json:"instruments,omitempty"`
}

// PipelineRunJob consumes scheduled scan requests and executes the full
// agent pipeline.
type PipelineRunJob struct {
	pipeline *usecase.Pipeline
	logger   *logger.Logger
}

func NewPipelineRunJob(pipeline *usecase.Pipeline, log *logger.Logger) *PipelineRunJob {
	return &PipelineRunJob{pipeline: pipeline, logger: log}
}

func (j *PipelineRunJob) Name() string { return "pipeline_run" }

func (j *PipelineRunJob) Type() string { return TypePipelineRun }

func (j *PipelineRunJob) Handle(ctx context.Context, payload interface{}) error {
	parsed, err := queue.ParsePayload[PipelineRunPayload](payload)
	if err != nil {
		return err
	}

	result := j.pipeline.Run(ctx, usecase.PipelineArgs{Instruments: parsed.Instruments})
	j.logger.Info("scheduled pipeline run completed",
		logger.String("run_id", result.RunID),
		logger.String("status", result.Status))
	return nil
}
