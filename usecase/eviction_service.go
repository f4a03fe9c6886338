package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kalike/kalike-server/domain/repositories"
)

// EvictionService handles background cleanup of stale audio artifacts.
// It runs on an explicit schedule, decoupled from request handling, and
// can also be triggered on demand via RunSweep. Per-file failures are
// logged and swallowed; they never surface to any request's response.
type EvictionService struct {
	store    repositories.ArtifactStore
	maxAge   time.Duration
	interval time.Duration
	logger   *zap.Logger
	stopChan chan struct{}
}

// NewEvictionService creates a new eviction service. Artifacts older
// than maxAge are deleted on each sweep; sweeps run every interval.
func NewEvictionService(
	store repositories.ArtifactStore,
	maxAge time.Duration,
	interval time.Duration,
	logger *zap.Logger,
) *EvictionService {
	return &EvictionService{
		store:    store,
		maxAge:   maxAge,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start begins the background sweep loop
func (s *EvictionService) Start() {
	go s.sweepLoop()
	s.logger.Info("Eviction service started",
		zap.Duration("maxAge", s.maxAge),
		zap.Duration("interval", s.interval))
}

// Stop gracefully stops the eviction service
func (s *EvictionService) Stop() {
	close(s.stopChan)
	s.logger.Info("Eviction service stopped")
}

func (s *EvictionService) sweepLoop() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Run an initial sweep shortly after startup
	initialTimer := time.NewTimer(1 * time.Minute)
	defer initialTimer.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-initialTimer.C:
			s.runSweep()
		case <-ticker.C:
			s.runSweep()
		}
	}
}

func (s *EvictionService) runSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	removed, err := s.RunSweep(ctx)
	if err != nil {
		s.logger.Error("Eviction sweep failed", zap.Error(err))
		return
	}

	s.logger.Info("Eviction sweep completed", zap.Int("removed", removed))
}

// RunSweep performs a single eviction pass and returns the number of
// artifacts removed. A file that cannot be deleted, e.g. because a
// concurrent sweep already removed it, is logged and skipped.
func (s *EvictionService) RunSweep(ctx context.Context) (int, error) {
	stale, err := s.store.ListOlderThan(ctx, s.maxAge)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, entry := range stale {
		if err := s.store.Delete(ctx, entry.Name); err != nil {
			s.logger.Warn("Failed to evict artifact",
				zap.String("artifact", entry.Name),
				zap.Error(err))
			continue
		}

		s.logger.Debug("Evicted stale artifact",
			zap.String("artifact", entry.Name),
			zap.Time("createdAt", entry.CreatedAt))
		removed++
	}

	return removed, nil
}
