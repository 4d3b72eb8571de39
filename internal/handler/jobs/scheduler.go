package jobs

import (
	"context"
	"time"

	"TradeIQ/pkg/logger"
	"TradeIQ/pkg/queue"
)

// Scheduler enqueues a scan-mode pipeline run at a fixed interval. It
// replaces an external cron: the queue consumer picks the runs up, so a
// slow run never overlaps itself beyond the consumer's worker count.
type Scheduler struct {
	publisher queue.QueueService
	interval  time.Duration
	logger    *logger.Logger
	stop      chan struct{}
	done      chan struct{}
}

func NewScheduler(publisher queue.QueueService, interval time.Duration, log *logger.Logger) *Scheduler {
	return &Scheduler{
		publisher: publisher,
		interval:  interval,
		logger:    log,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start launches the ticker loop. It returns immediately.
func (s *Scheduler) Start() {
	go s.loop()
}

func (s *Scheduler) loop() {
	defer close(s.done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			err := s.publisher.PublishMessage(ctx, TypePipelineRun, PipelineRunPayload{})
			cancel()
			if err != nil {
				s.logger.Warn("failed to enqueue scheduled run", logger.Error(err))
			}
		}
	}
}

// Stop halts the ticker loop and waits for it to exit.
func (s *Scheduler) Stop() {
	close(s.stop)
	<-s.done
}
