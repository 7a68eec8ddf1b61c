package dataset

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/ukydev/bus-maintenance/internal/db"
	"github.com/ukydev/bus-maintenance/internal/metrics"
	"github.com/ukydev/bus-maintenance/internal/models"
	"github.com/ukydev/bus-maintenance/internal/notify"
	"github.com/ukydev/bus-maintenance/internal/simulation"
)

const sideEffectTimeout = 10 * time.Second

// Service owns the current snapshot and replaces it wholesale on regeneration.
type Service struct {
	mu        sync.RWMutex
	generator *simulation.Generator
	now       func() time.Time
	current   *models.Snapshot

	archive  db.SnapshotCollection
	notifier notify.Notifier
	metrics  *metrics.Metrics
}

// Option customizes a Service.
type Option func(*Service)

// WithArchive stores every snapshot in coll.
func WithArchive(coll db.SnapshotCollection) Option {
	return func(s *Service) { s.archive = coll }
}

// WithNotifier announces every snapshot through n.
func WithNotifier(n notify.Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithMetrics records generation metrics on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithClock overrides the clock used for event dates and snapshot timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a service drawing from rng. Call Regenerate before Current.
func NewService(rng *rand.Rand, opts ...Option) *Service {
	s := &Service{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	s.generator = simulation.NewGenerator(rng, s.now)
	return s
}

// NewRand returns a seeded random source; seed 0 seeds from the clock.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Current returns the latest snapshot, or nil before the first regeneration.
func (s *Service) Current() *models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Regenerate builds a new snapshot and makes it current. Archiving and
// notification failures are logged and do not fail the regeneration.
func (s *Service) Regenerate(ctx context.Context, busCount, daysBack int) (*models.Snapshot, error) {
	start := time.Now()

	s.mu.Lock()
	events, err := s.generator.Generate(busCount, daysBack)
	if err != nil {
		s.mu.Unlock()
		s.metrics.ObserveGenerationError()
		return nil, fmt.Errorf("generate: %w", err)
	}
	snapshot := &models.Snapshot{
		ID:          uuid.NewString(),
		GeneratedAt: s.now(),
		BusCount:    busCount,
		DaysBack:    daysBack,
		Events:      events,
		Summaries:   simulation.Summarize(events),
	}
	s.current = snapshot
	s.mu.Unlock()

	s.metrics.ObserveGeneration(time.Since(start), busCount, len(events), snapshot.TotalCost())
	log.WithFields(log.Fields{
		"snapshot_id": snapshot.ID,
		"bus_count":   busCount,
		"days_back":   daysBack,
		"events":      len(events),
	}).Info("Generated maintenance snapshot")

	s.publish(ctx, snapshot)
	return snapshot, nil
}

func (s *Service) publish(ctx context.Context, snapshot *models.Snapshot) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	defer cancel()

	if s.archive != nil {
		if err := s.archive.InsertSnapshot(ctx, *snapshot); err != nil {
			log.WithError(err).WithField("snapshot_id", snapshot.ID).Error("Failed to archive snapshot")
		}
	}
	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, notify.NewNotice(snapshot)); err != nil {
			log.WithError(err).WithField("snapshot_id", snapshot.ID).Error("Failed to publish snapshot notice")
		}
	}
}
