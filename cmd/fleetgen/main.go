package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	log "github.com/sirupsen/logrus"

	"github.com/ukydev/bus-maintenance/internal/auth"
	"github.com/ukydev/bus-maintenance/internal/config"
	"github.com/ukydev/bus-maintenance/internal/dataset"
	"github.com/ukydev/bus-maintenance/internal/models"
	"github.com/ukydev/bus-maintenance/internal/report"
	"github.com/ukydev/bus-maintenance/internal/simulation"
)

const (
	formatTable = "table"
	formatCSV   = "csv"
	formatJSON  = "json"
)

var errUnknownFormat = errors.New("unknown format")

type options struct {
	buses   int
	days    int
	top     int
	seed    int64
	format  string
	history bool
	quiet   bool
	token   string
}

// output is the json rendering of one generation run.
type output struct {
	GeneratedAt time.Time                 `json:"generated_at"`
	BusCount    int                       `json:"bus_count"`
	DaysBack    int                       `json:"days_back"`
	TotalCost   float64                   `json:"total_cost"`
	Top         []models.BusSummary       `json:"top"`
	Events      []models.MaintenanceEvent `json:"events,omitempty"`
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}
	log.SetLevel(cfg.Level())

	if err := run(os.Args[1:], cfg, os.Stdout, os.Stderr); err != nil {
		log.WithError(err).Fatal("fleetgen failed")
	}
}

func parseFlags(args []string, cfg config.Config, stderr io.Writer) (options, error) {
	fs := flag.NewFlagSet("fleetgen", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	fs.IntVar(&opts.buses, "buses", cfg.BusCount, "number of buses to simulate")
	fs.IntVar(&opts.days, "days", cfg.DaysBack, "how many days back visits may fall")
	fs.IntVar(&opts.top, "top", cfg.TopN, "number of costliest buses to show")
	fs.Int64Var(&opts.seed, "seed", cfg.Seed, "random seed (0 seeds from the clock)")
	fs.StringVar(&opts.format, "format", formatTable, "output format: table, csv or json")
	fs.BoolVar(&opts.history, "history", false, "also print the full maintenance history")
	fs.BoolVar(&opts.quiet, "quiet", false, "hide the progress bar")
	fs.StringVar(&opts.token, "token", "", "print an operator token for this subject and exit")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	switch opts.format {
	case formatTable, formatCSV, formatJSON:
	default:
		return options{}, fmt.Errorf("%w: %q", errUnknownFormat, opts.format)
	}
	return opts, nil
}

func run(args []string, cfg config.Config, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, cfg, stderr)
	if err != nil {
		return err
	}

	if opts.token != "" {
		return printToken(stdout, cfg, opts.token)
	}

	now := time.Now()
	gen := simulation.NewGenerator(dataset.NewRand(opts.seed), func() time.Time { return now })
	if !opts.quiet && opts.buses > 0 {
		bar := progressbar.NewOptions(opts.buses,
			progressbar.OptionSetWriter(stderr),
			progressbar.OptionSetDescription("Generating buses"),
			progressbar.OptionClearOnFinish(),
		)
		gen.OnBus = func(string, int) { _ = bar.Add(1) }
		defer func() { _ = bar.Finish() }()
	}

	events, err := gen.Generate(opts.buses, opts.days)
	if err != nil {
		return err
	}
	summaries := simulation.Summarize(events)
	top := simulation.Top(summaries, config.ClampTopN(opts.top, len(summaries)))

	log.WithFields(log.Fields{
		"buses":  opts.buses,
		"days":   opts.days,
		"events": len(events),
		"top":    len(top),
	}).Debug("Generated maintenance history")

	switch opts.format {
	case formatCSV:
		if opts.history {
			if err := report.WriteEventsCSV(stdout, events); err != nil {
				return err
			}
			fmt.Fprintln(stdout)
		}
		return report.WriteSummaryCSV(stdout, top)
	case formatJSON:
		out := output{
			GeneratedAt: now,
			BusCount:    opts.buses,
			DaysBack:    opts.days,
			TotalCost:   (&models.Snapshot{Summaries: summaries}).TotalCost(),
			Top:         top,
		}
		if opts.history {
			out.Events = events
		}
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	default:
		if opts.history {
			fmt.Fprintln(stdout, "Full Maintenance History")
			if err := report.WriteEventsTable(stdout, events); err != nil {
				return err
			}
			fmt.Fprintln(stdout)
		}
		fmt.Fprintf(stdout, "Top %d Buses by Maintenance Cost\n", len(top))
		return report.WriteSummaryTable(stdout, top)
	}
}

func printToken(w io.Writer, cfg config.Config, subject string) error {
	svc, err := auth.NewService(cfg.JWTSecret, cfg.JWTExpiry)
	if err != nil {
		return fmt.Errorf("token: %w", err)
	}
	token, err := svc.GenerateToken(subject, models.ScopeRegenerate)
	if err != nil {
		return fmt.Errorf("token: %w", err)
	}
	_, err = fmt.Fprintln(w, token)
	return err
}
