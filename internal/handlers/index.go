package handlers

import (
	"html/template"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/ukydev/bus-maintenance/internal/report"
	"github.com/ukydev/bus-maintenance/internal/simulation"
)

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Bus Maintenance Dashboard</title>
</head>
<body>
<h1>Bus Maintenance Dashboard</h1>
<p>Snapshot {{.ID}} generated {{.GeneratedAt}} for {{.BusCount}} buses over {{.DaysBack}} days.</p>

<form method="get" action="/">
<label>Top buses to display <input type="number" name="top_n" min="1" max="{{.BusCount}}" value="{{.TopN}}"></label>
<button type="submit">Show</button>
</form>

<h2>Maintenance Summary</h2>
<p>Top {{.TopN}} buses by maintenance cost.</p>
<table border="1">
<tr>{{range .SummaryColumns}}<th>{{.}}</th>{{end}}</tr>
{{range .SummaryRows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</table>

<h2>Full Maintenance History</h2>
<p><a href="/api/events.csv">Download CSV</a></p>
<table border="1">
<tr>{{range .EventColumns}}<th>{{.}}</th>{{end}}</tr>
{{range .EventRows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</table>
</body>
</html>
`))

type indexPage struct {
	ID             string
	GeneratedAt    string
	BusCount       int
	DaysBack       int
	TopN           int
	EventColumns   []string
	EventRows      [][]string
	SummaryColumns []string
	SummaryRows    [][]string
}

// Index renders the history table and the top N summary table
func (h *DashboardHandler) Index(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snapshot, ok := h.current(w)
	if !ok {
		return
	}

	topN, err := h.topN(r, snapshot)
	if err != nil {
		http.Error(w, "Invalid top_n", http.StatusBadRequest)
		return
	}

	page := indexPage{
		ID:             snapshot.ID,
		GeneratedAt:    snapshot.GeneratedAt.Format("2006-01-02 15:04:05"),
		BusCount:       snapshot.BusCount,
		DaysBack:       snapshot.DaysBack,
		TopN:           topN,
		EventColumns:   report.EventColumns,
		SummaryColumns: report.SummaryColumns,
	}
	for _, e := range snapshot.Events {
		page.EventRows = append(page.EventRows, report.EventRow(e))
	}
	for _, s := range simulation.Top(snapshot.Summaries, topN) {
		page.SummaryRows = append(page.SummaryRows, report.SummaryRow(s))
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, page); err != nil {
		log.WithError(err).Error("Failed to render index")
	}
}
