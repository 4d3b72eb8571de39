package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"TradeIQ/internal/domain/models"
	"TradeIQ/internal/domain/repository"
	"TradeIQ/pkg/logger"
)

// Stage names used in logs and metrics.
const (
	StageMonitor = "monitor"
	StageAnalyst = "analyst"
	StageAdvisor = "advisor"
	StageContent = "content"
	StagePublish = "publish"
)

const noEventMessage = "No significant volatility detected."

// PipelineArgs are the caller-facing knobs for one run.
type PipelineArgs struct {
	Instruments []string
	CustomEvent *models.CustomEventRequest
	Portfolio   []models.Position
	SkipContent bool
}

// Pipeline sequences the agents: Monitor, Analyst, Advisor, ContentCreator,
// Publish. Stages run strictly in order; a Monitor or Analyst failure stops
// the run, every other failure is recorded and bypassed. The result is
// always a well-formed PipelineResult, never an error.
type Pipeline struct {
	monitor   *Monitor
	analyst   *Analyst
	advisor   *Advisor
	content   *ContentCreator
	publisher repository.SocialPublisher
	events    repository.EventPublisher
	metrics   repository.Metrics
	logger    *logger.Logger
	now       func() time.Time
}

func NewPipeline(
	monitor *Monitor,
	analyst *Analyst,
	advisor *Advisor,
	content *ContentCreator,
	publisher repository.SocialPublisher,
	events repository.EventPublisher,
	metrics repository.Metrics,
	log *logger.Logger,
) *Pipeline {
	return &Pipeline{
		monitor:   monitor,
		analyst:   analyst,
		advisor:   advisor,
		content:   content,
		publisher: publisher,
		events:    events,
		metrics:   metrics,
		logger:    log,
		now:       time.Now,
	}
}

func (p *Pipeline) Run(ctx context.Context, args PipelineArgs) models.PipelineResult {
	result := models.PipelineResult{
		RunID:     uuid.NewString(),
		Status:    models.StatusInProgress,
		Errors:    []string{},
		StartedAt: p.now(),
	}
	p.logger.Info("pipeline run started",
		logger.String("run_id", result.RunID),
		logger.Bool("manual", args.CustomEvent != nil))

	// Stage 1: Monitor.
	event, err := p.timedDetect(ctx, args)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Monitor error: %v", err))
		return p.finish(&result, models.StatusError)
	}
	if event == nil {
		result.Errors = append(result.Errors, noEventMessage)
		return p.finish(&result, models.StatusNoEvent)
	}
	result.VolatilityEvent = event
	p.fanOutEvent(ctx, *event)

	// Stage 2: Analyst. Model failures degrade inside Analyze; anything
	// that still escapes stops the run as partial.
	report, err := timedStage(p, StageAnalyst, func() models.AnalysisReport {
		return p.analyst.Analyze(ctx, *event)
	})
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Analyst error: %v", err))
		return p.finish(&result, models.StatusPartial)
	}
	result.AnalysisReport = &report

	// Stage 3: Advisor. Failure is recorded but never halts the run; the
	// content stage then works with a nil insight.
	var insight *models.PersonalizedInsight
	if in, err := timedStage(p, StageAdvisor, func() models.PersonalizedInsight {
		return p.advisor.Interpret(ctx, report, args.Portfolio)
	}); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Advisor error: %v", err))
	} else {
		insight = &in
		result.PersonalizedInsight = insight
	}

	// Stage 4: Content Creator.
	var commentary *models.MarketCommentary
	if !args.SkipContent {
		if c, err := timedStage(p, StageContent, func() models.MarketCommentary {
			return p.content.Generate(ctx, report, insight)
		}); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Content error: %v", err))
		} else {
			commentary = &c
			result.MarketCommentary = commentary
		}
	}

	// Stage 5: Publish, only when a commentary was actually produced.
	if commentary != nil && p.publisher != nil {
		p.publish(ctx, commentary, &result)
	}

	// Final status: clean runs succeed; runs with errors still succeed when
	// both critical artifacts made it.
	status := models.StatusPartial
	if len(result.Errors) == 0 {
		status = models.StatusSuccess
	} else if result.AnalysisReport != nil && result.MarketCommentary != nil {
		status = models.StatusSuccess
	}
	return p.finish(&result, status)
}

func (p *Pipeline) timedDetect(ctx context.Context, args PipelineArgs) (*models.VolatilityEvent, error) {
	start := p.now()
	event, err := p.monitor.Detect(ctx, args.Instruments, args.CustomEvent)
	p.metrics.RecordStageDuration(StageMonitor, p.now().Sub(start).Seconds())
	if err != nil {
		p.metrics.RecordStageError(StageMonitor)
	}
	return event, err
}

// timedStage runs one agent stage, records its duration, and converts a
// stage panic into an error so no failure crosses a stage boundary.
func timedStage[T any](p *Pipeline, stage string, fn func() T) (out T, err error) {
	start := p.now()
	defer func() {
		p.metrics.RecordStageDuration(stage, p.now().Sub(start).Seconds())
		if r := recover(); r != nil {
			p.metrics.RecordStageError(stage)
			p.logger.Error("pipeline stage panicked",
				logger.String("stage", stage),
				logger.Any("panic", r))
			err = fmt.Errorf("stage %s panicked: %v", stage, r)
		}
	}()
	out = fn()
	return out, nil
}

func (p *Pipeline) fanOutEvent(ctx context.Context, event models.VolatilityEvent) {
	if p.events == nil {
		return
	}
	if err := p.events.PublishEvent(ctx, event); err != nil {
		// Fan-out is best effort and never fails the run.
		p.logger.Warn("event fan-out failed",
			logger.String("instrument", event.Instrument),
			logger.Error(err))
	}
}

func (p *Pipeline) publish(ctx context.Context, commentary *models.MarketCommentary, result *models.PipelineResult) {
	start := p.now()
	uri, url, err := p.publisher.Publish(ctx, commentary.Post)
	p.metrics.RecordStageDuration(StagePublish, p.now().Sub(start).Seconds())
	if err != nil {
		p.metrics.RecordStageError(StagePublish)
		result.Errors = append(result.Errors, fmt.Sprintf("Publish error: %v", err))
		return
	}
	commentary.Published = true
	commentary.PostURI = uri
	commentary.PostURL = url
	p.metrics.RecordPostPublished(commentary.Platform)
}

// finish stamps the finish timestamp exactly once and records the terminal
// status.
func (p *Pipeline) finish(result *models.PipelineResult, status string) models.PipelineResult {
	result.Status = status
	result.FinishedAt = p.now()
	p.metrics.RecordPipelineRun(status)
	p.logger.Info("pipeline run finished",
		logger.String("run_id", result.RunID),
		logger.String("status", status),
		logger.Int("errors", len(result.Errors)))
	return *result
}
