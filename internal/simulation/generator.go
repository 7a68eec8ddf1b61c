package simulation

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/ukydev/bus-maintenance/internal/models"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
)

const (
	// BusIDPrefix precedes the zero-padded bus index.
	BusIDPrefix = "BUS-"
	// DefaultDaysBack is the history window used when none is given.
	DefaultDaysBack = 365

	MinVisits = 5
	MaxVisits = 15

	MaxPeriodicDaysOut = 2
	MaxSuddenDaysOut   = 5

	MinSuddenFactor = 1.1
	MaxSuddenFactor = 1.5
)

// BusID formats the identifier of the bus with the given 1-based index.
func BusID(index int) string {
	return fmt.Sprintf("%s%03d", BusIDPrefix, index)
}

// Generator draws synthetic maintenance events from an explicit random source.
type Generator struct {
	rng *rand.Rand
	now func() time.Time

	// OnBus, if set, is called after each bus has been generated.
	OnBus func(busID string, visits int)
}

// NewGenerator creates a generator. A nil clock falls back to time.Now.
func NewGenerator(rng *rand.Rand, now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{rng: rng, now: now}
}

// Generate is a shorthand for NewGenerator(rng, nil).Generate.
func Generate(rng *rand.Rand, busCount, daysBack int) ([]models.MaintenanceEvent, error) {
	return NewGenerator(rng, nil).Generate(busCount, daysBack)
}

// Generate produces the full event history of busCount buses over the last
// daysBack days. Every call returns an independent collection.
func (g *Generator) Generate(busCount, daysBack int) ([]models.MaintenanceEvent, error) {
	if busCount <= 0 {
		return nil, fmt.Errorf("%w: bus count must be positive, got %d", ErrInvalidArgument, busCount)
	}
	if daysBack <= 0 {
		return nil, fmt.Errorf("%w: days back must be positive, got %d", ErrInvalidArgument, daysBack)
	}
	if g.rng == nil {
		return nil, fmt.Errorf("%w: random source is nil", ErrInvalidArgument)
	}

	now := g.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	events := make([]models.MaintenanceEvent, 0, busCount*(MinVisits+MaxVisits)/2)
	for i := 1; i <= busCount; i++ {
		busID := BusID(i)
		visits := MinVisits + g.rng.Intn(MaxVisits-MinVisits+1)
		for v := 0; v < visits; v++ {
			events = append(events, g.visit(busID, today, daysBack))
		}
		if g.OnBus != nil {
			g.OnBus(busID, visits)
		}
	}

	attachGarageVisits(events)
	return events, nil
}

func (g *Generator) visit(busID string, today time.Time, daysBack int) models.MaintenanceEvent {
	offset := 1 + g.rng.Intn(daysBack)
	part := models.Parts[g.rng.Intn(len(models.Parts))]
	issues := models.PartIssues[part]
	issue := issues[g.rng.Intn(len(issues))]
	mtype := models.MaintenanceTypes[g.rng.Intn(len(models.MaintenanceTypes))]

	maxDaysOut := MaxPeriodicDaysOut
	if mtype == models.MaintenanceSudden {
		maxDaysOut = MaxSuddenDaysOut
	}
	daysOut := 1 + g.rng.Intn(maxDaysOut)

	r := models.PartCosts[part]
	cost := r.Min + g.rng.Float64()*(r.Max-r.Min)
	if mtype == models.MaintenanceSudden {
		cost *= MinSuddenFactor + g.rng.Float64()*(MaxSuddenFactor-MinSuddenFactor)
	}

	return models.MaintenanceEvent{
		BusID:            busID,
		Date:             today.AddDate(0, 0, -offset),
		Part:             part,
		Issue:            issue,
		MaintenanceType:  mtype,
		DaysOutOfService: daysOut,
		Cost:             roundTo2(cost),
	}
}

// attachGarageVisits sets GarageVisits on every event to the number of
// events sharing its bus id.
func attachGarageVisits(events []models.MaintenanceEvent) {
	counts := make(map[string]int)
	for _, e := range events {
		counts[e.BusID]++
	}
	for i := range events {
		events[i].GarageVisits = counts[events[i].BusID]
	}
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
