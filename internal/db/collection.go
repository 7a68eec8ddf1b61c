package db

import (
	"context"

	"github.com/ukydev/bus-maintenance/internal/models"
)

// SnapshotCollection defines the interface for snapshot archive operations.
type SnapshotCollection interface {
	InsertSnapshot(ctx context.Context, snapshot models.Snapshot) error
}
