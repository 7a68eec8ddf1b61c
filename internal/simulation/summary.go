package simulation

import (
	"sort"

	"github.com/ukydev/bus-maintenance/internal/models"
)

// Summarize groups events by bus and returns one row per bus, most expensive first.
// Buses with equal total cost keep the order in which they first appear.
func Summarize(events []models.MaintenanceEvent) []models.BusSummary {
	if len(events) == 0 {
		return []models.BusSummary{}
	}

	grouped := make(map[string][]models.MaintenanceEvent)
	order := make([]string, 0)
	for _, e := range events {
		if _, exists := grouped[e.BusID]; !exists {
			order = append(order, e.BusID)
		}
		grouped[e.BusID] = append(grouped[e.BusID], e)
	}

	rows := make([]models.BusSummary, 0, len(order))
	for _, busID := range order {
		rows = append(rows, fold(busID, grouped[busID]))
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].TotalCost > rows[j].TotalCost })
	return rows
}

func fold(busID string, events []models.MaintenanceEvent) models.BusSummary {
	row := models.BusSummary{BusID: busID}
	var total float64
	for _, e := range events {
		total += e.Cost
		row.TotalDaysOut += e.DaysOutOfService
		// constant within a bus; max tolerates an inconsistent input
		if e.GarageVisits > row.Visits {
			row.Visits = e.GarageVisits
		}
	}
	row.TotalCost = roundTo2(total)
	return row
}

// Top returns the first n rows of a summary, with n clamped to [1, len(rows)].
func Top(rows []models.BusSummary, n int) []models.BusSummary {
	if len(rows) == 0 {
		return []models.BusSummary{}
	}
	if n < 1 {
		n = 1
	}
	if n > len(rows) {
		n = len(rows)
	}
	return rows[:n]
}
