package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ukydev/bus-maintenance/internal/models"
)

// Notice announces that a new snapshot replaced the previous one.
type Notice struct {
	SnapshotID   string    `json:"snapshot_id"`
	GeneratedAt  time.Time `json:"generated_at"`
	BusCount     int       `json:"bus_count"`
	DaysBack     int       `json:"days_back"`
	EventCount   int       `json:"event_count"`
	TotalCost    float64   `json:"total_cost"`
	CostliestBus string    `json:"costliest_bus,omitempty"`
}

// NewNotice summarizes a snapshot for publishing.
func NewNotice(s *models.Snapshot) Notice {
	n := Notice{
		SnapshotID:  s.ID,
		GeneratedAt: s.GeneratedAt,
		BusCount:    s.BusCount,
		DaysBack:    s.DaysBack,
		EventCount:  len(s.Events),
		TotalCost:   s.TotalCost(),
	}
	if len(s.Summaries) > 0 {
		n.CostliestBus = s.Summaries[0].BusID
	}
	return n
}

// Notifier publishes snapshot notices to an external system.
type Notifier interface {
	Notify(ctx context.Context, n Notice) error
	Close() error
}

// Multi fans a notice out to every notifier and joins their errors.
type Multi []Notifier

// Notify sends n to each notifier, continuing past failures.
func (m Multi) Notify(ctx context.Context, n Notice) error {
	var errs []error
	for _, notifier := range m {
		if err := notifier.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every notifier.
func (m Multi) Close() error {
	var errs []error
	for _, notifier := range m {
		if err := notifier.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func encode(n Notice) ([]byte, error) {
	data, err := json.Marshal(n)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal notice: %w", err)
	}
	return data, nil
}
