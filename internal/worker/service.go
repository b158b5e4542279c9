package worker

import (
	"context"
	"errors"
	"time"

	"github.com/hawk7227/dropshipping-management-sub002/internal/config"
	"github.com/hawk7227/dropshipping-management-sub002/internal/logger"
	"github.com/hawk7227/dropshipping-management-sub002/internal/queue"

	"github.com/hibiken/asynq"
)

const (
	refreshSweepInterval = time.Hour
	refreshSweepBatch    = 50
	refreshSweepStagger  = 5 * time.Second
)

// Service is the async queue consumer service.
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer
}

// NewService creates the queue consumer.
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:     "worker",
		server:   server,
		mux:      mux,
		consumer: consumer,
	}, nil
}

// Name returns the service name.
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start runs the consumer until the context is canceled.
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.consumer != nil && s.consumer.KeepaClient != nil {
		go s.runRefreshSweepLoop(ctx)
	}
	return s.server.Run(s.mux)
}

// Stop shuts the consumer down.
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

// runRefreshSweepLoop periodically enqueues refreshes for products
// whose next price check has passed.
func (s *Service) runRefreshSweepLoop(ctx context.Context) {
	if s == nil || s.consumer == nil || s.consumer.RefreshService == nil {
		return
	}
	runOnce := func() {
		due, err := s.consumer.ProductRepo.ListDueForRefresh(time.Now(), refreshSweepBatch)
		if err != nil {
			logger.Warnw("worker_refresh_sweep_list_failed", "error", err)
			return
		}
		// Stagger keeps a full batch out of a single vendor token window.
		for i := range due {
			err := s.consumer.QueueClient.EnqueuePriceRefreshIn(queue.PriceRefreshPayload{
				ProductID: due[i].ID,
			}, time.Duration(i)*refreshSweepStagger)
			if err != nil {
				logger.Warnw("worker_refresh_sweep_enqueue_failed", "product_id", due[i].ID, "error", err)
			}
		}
		if len(due) > 0 {
			logger.Infow("worker_refresh_sweep_enqueued", "count", len(due))
		}
	}
	runOnce()

	ticker := time.NewTicker(refreshSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
