package simulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/bus-maintenance/internal/models"
)

func TestSummarize_Aggregates(t *testing.T) {
	events := []models.MaintenanceEvent{
		{BusID: "BUS-001", Cost: 100.10, DaysOutOfService: 1, GarageVisits: 2},
		{BusID: "BUS-002", Cost: 900.00, DaysOutOfService: 5, GarageVisits: 1},
		{BusID: "BUS-001", Cost: 200.20, DaysOutOfService: 2, GarageVisits: 2},
	}

	rows := Summarize(events)
	require.Len(t, rows, 2)

	assert.Equal(t, models.BusSummary{BusID: "BUS-002", TotalCost: 900, Visits: 1, TotalDaysOut: 5}, rows[0])
	assert.Equal(t, models.BusSummary{BusID: "BUS-001", TotalCost: 300.30, Visits: 2, TotalDaysOut: 3}, rows[1])
}

func TestSummarize_VisitsUsesMax(t *testing.T) {
	events := []models.MaintenanceEvent{
		{BusID: "BUS-001", Cost: 1, GarageVisits: 2},
		{BusID: "BUS-001", Cost: 1, GarageVisits: 3},
	}
	rows := Summarize(events)
	require.Len(t, rows, 1)
	assert.Equal(t, 3, rows[0].Visits)
}

func TestSummarize_SortedDescending(t *testing.T) {
	events, err := newTestGenerator(20).Generate(150, DefaultDaysBack)
	require.NoError(t, err)

	rows := Summarize(events)
	require.Len(t, rows, 150)
	for i := 0; i+1 < len(rows); i++ {
		assert.GreaterOrEqual(t, rows[i].TotalCost, rows[i+1].TotalCost)
	}
}

func TestSummarize_TiesKeepFirstAppearance(t *testing.T) {
	events := []models.MaintenanceEvent{
		{BusID: "BUS-003", Cost: 50, GarageVisits: 1},
		{BusID: "BUS-001", Cost: 50, GarageVisits: 1},
		{BusID: "BUS-002", Cost: 50, GarageVisits: 1},
	}
	for i := 0; i < 5; i++ {
		rows := Summarize(events)
		require.Len(t, rows, 3)
		assert.Equal(t, "BUS-003", rows[0].BusID)
		assert.Equal(t, "BUS-001", rows[1].BusID)
		assert.Equal(t, "BUS-002", rows[2].BusID)
	}
}

func TestSummarize_Idempotent(t *testing.T) {
	events, err := newTestGenerator(21).Generate(50, DefaultDaysBack)
	require.NoError(t, err)

	first := Summarize(events)
	second := Summarize(events)
	assert.Equal(t, first, second)
}

func TestSummarize_DoesNotMutateEvents(t *testing.T) {
	events, err := newTestGenerator(22).Generate(10, DefaultDaysBack)
	require.NoError(t, err)

	before := append([]models.MaintenanceEvent(nil), events...)
	Summarize(events)
	assert.Equal(t, before, events)
}

func TestSummarize_Empty(t *testing.T) {
	assert.Empty(t, Summarize(nil))
	assert.NotNil(t, Summarize(nil))
}

func TestTop(t *testing.T) {
	rows := []models.BusSummary{
		{BusID: "BUS-001", TotalCost: 30},
		{BusID: "BUS-002", TotalCost: 20},
		{BusID: "BUS-003", TotalCost: 10},
	}

	tests := []struct {
		name     string
		n        int
		expected int
	}{
		{"within range", 2, 2},
		{"exact length", 3, 3},
		{"above length", 10, 3},
		{"zero clamps to one", 0, 1},
		{"negative clamps to one", -5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Top(rows, tt.n)
			assert.Len(t, got, tt.expected)
			assert.Equal(t, "BUS-001", got[0].BusID)
		})
	}

	assert.Empty(t, Top(nil, 5))
}
