package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/ukydev/bus-maintenance/internal/models"
)

// CurrencySymbol is shown in cost column labels only.
const CurrencySymbol = "₪"

var (
	// EventColumns are the headers of the full maintenance history table.
	EventColumns = []string{
		"Bus ID",
		"Date",
		"Part",
		"Issue",
		"Maintenance Type",
		"Days Out of Service",
		"Maintenance Cost (" + CurrencySymbol + ")",
		"Garage Visits",
	}
	// SummaryColumns are the headers of the per-bus summary table.
	SummaryColumns = []string{
		"Bus ID",
		"Maintenance Cost (" + CurrencySymbol + ")",
		"Garage Visits",
		"Days Out of Service",
	}
)

// EventRow formats one event as table cells.
func EventRow(e models.MaintenanceEvent) []string {
	return []string{
		e.BusID,
		e.Date.Format(models.DateLayout),
		string(e.Part),
		e.Issue,
		string(e.MaintenanceType),
		strconv.Itoa(e.DaysOutOfService),
		formatCost(e.Cost),
		strconv.Itoa(e.GarageVisits),
	}
}

// SummaryRow formats one bus summary as table cells.
func SummaryRow(s models.BusSummary) []string {
	return []string{
		s.BusID,
		formatCost(s.TotalCost),
		strconv.Itoa(s.Visits),
		strconv.Itoa(s.TotalDaysOut),
	}
}

// WriteEventsCSV writes the header and one line per event.
func WriteEventsCSV(w io.Writer, events []models.MaintenanceEvent) error {
	rows := make([][]string, 0, len(events))
	for _, e := range events {
		rows = append(rows, EventRow(e))
	}
	return writeCSV(w, EventColumns, rows)
}

// WriteSummaryCSV writes the header and one line per bus.
func WriteSummaryCSV(w io.Writer, summaries []models.BusSummary) error {
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, SummaryRow(s))
	}
	return writeCSV(w, SummaryColumns, rows)
}

// WriteEventsTable renders events as an aligned text table.
func WriteEventsTable(w io.Writer, events []models.MaintenanceEvent) error {
	rows := make([][]string, 0, len(events))
	for _, e := range events {
		rows = append(rows, EventRow(e))
	}
	return writeTable(w, EventColumns, rows)
}

// WriteSummaryTable renders summaries as an aligned text table.
func WriteSummaryTable(w io.Writer, summaries []models.BusSummary) error {
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, SummaryRow(s))
	}
	return writeTable(w, SummaryColumns, rows)
}

func writeCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write CSV rows: %w", err)
	}
	return nil
}

func writeTable(w io.Writer, header []string, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	writeLine(tw, header)
	for _, row := range rows {
		writeLine(tw, row)
	}
	return tw.Flush()
}

func writeLine(w io.Writer, cells []string) {
	for i, c := range cells {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, c)
	}
	fmt.Fprintln(w, "\t")
}

func formatCost(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
