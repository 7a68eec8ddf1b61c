package models

import (
	"time"
)

// MaintenanceType distinguishes scheduled garage visits from breakdowns.
type MaintenanceType string

const (
	MaintenancePeriodic MaintenanceType = "Periodic"
	MaintenanceSudden   MaintenanceType = "Sudden"
)

// MaintenanceTypes lists every maintenance type in draw order.
var MaintenanceTypes = []MaintenanceType{MaintenancePeriodic, MaintenanceSudden}

// DateLayout is the civil-date format used when events are rendered as text.
const DateLayout = "2006-01-02"

// MaintenanceEvent represents one simulated garage visit of a bus.
type MaintenanceEvent struct {
	BusID            string          `json:"bus_id" bson:"bus_id"`
	Date             time.Time       `json:"date" bson:"date"`
	Part             Part            `json:"part" bson:"part"`
	Issue            string          `json:"issue" bson:"issue"`
	MaintenanceType  MaintenanceType `json:"maintenance_type" bson:"maintenance_type"`
	DaysOutOfService int             `json:"days_out_of_service" bson:"days_out_of_service"`
	Cost             float64         `json:"cost" bson:"cost"` // in ILS
	GarageVisits     int             `json:"garage_visits" bson:"garage_visits"`
}

// BusSummary aggregates the events of a single bus.
type BusSummary struct {
	BusID        string  `json:"bus_id" bson:"bus_id"`
	TotalCost    float64 `json:"total_cost" bson:"total_cost"`
	Visits       int     `json:"visits" bson:"visits"`
	TotalDaysOut int     `json:"total_days_out" bson:"total_days_out"`
}

// Snapshot is one complete generation result: the events and their summary.
type Snapshot struct {
	ID          string             `json:"id" bson:"_id"`
	GeneratedAt time.Time          `json:"generated_at" bson:"generated_at"`
	BusCount    int                `json:"bus_count" bson:"bus_count"`
	DaysBack    int                `json:"days_back" bson:"days_back"`
	Events      []MaintenanceEvent `json:"events" bson:"events"`
	Summaries   []BusSummary       `json:"summaries" bson:"summaries"`
}

// TotalCost sums the cost of every bus in the snapshot.
func (s *Snapshot) TotalCost() float64 {
	var total float64
	for _, row := range s.Summaries {
		total += row.TotalCost
	}
	return total
}
