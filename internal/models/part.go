package models

// Part is a vehicle part category a garage visit can target.
type Part string

const (
	PartBrakes          Part = "Brakes"
	PartEngine          Part = "Engine"
	PartTransmission    Part = "Transmission"
	PartAirConditioning Part = "Air Conditioning"
	PartBattery         Part = "Battery"
	PartTires           Part = "Tires"
	PartLights          Part = "Lights"
	PartSuspension      Part = "Suspension"
	PartOilChange       Part = "Oil Change"
	PartRadiator        Part = "Radiator"
)

// CostRange is the base cost interval of a part, before any breakdown surcharge.
type CostRange struct {
	Min float64 `json:"min" bson:"min"`
	Max float64 `json:"max" bson:"max"`
}

// Contains reports whether v lies in [Min, Max].
func (r CostRange) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Parts lists every part category in draw order.
var Parts = []Part{
	PartBrakes,
	PartEngine,
	PartTransmission,
	PartAirConditioning,
	PartBattery,
	PartTires,
	PartLights,
	PartSuspension,
	PartOilChange,
	PartRadiator,
}

// PartIssues maps each part to the issues that can be reported against it.
var PartIssues = map[Part][]string{
	PartBrakes:          {"Worn pads", "Brake fluid leak", "ABS failure"},
	PartEngine:          {"Overheating", "Oil leak", "Misfire", "Timing belt"},
	PartTransmission:    {"Slipping", "Fluid leak", "Noisy shifting"},
	PartAirConditioning: {"Not cooling", "Refrigerant leak", "Fan issue"},
	PartBattery:         {"Dead battery", "Corrosion", "Loose connection"},
	PartTires:           {"Worn out", "Puncture", "Uneven wear"},
	PartLights:          {"Broken headlight", "Signal not working", "Dim lights"},
	PartSuspension:      {"Shock absorber", "Loose joint", "Squeaking noise"},
	PartOilChange:       {"Routine", "Late change", "Oil filter issue"},
	PartRadiator:        {"Leak", "Clogged", "Fan not working"},
}

// PartCosts maps each part to its base cost range in ILS.
var PartCosts = map[Part]CostRange{
	PartBrakes:          {Min: 300, Max: 800},
	PartEngine:          {Min: 1000, Max: 5000},
	PartTransmission:    {Min: 1500, Max: 6000},
	PartAirConditioning: {Min: 500, Max: 2000},
	PartBattery:         {Min: 200, Max: 800},
	PartTires:           {Min: 400, Max: 1000},
	PartLights:          {Min: 100, Max: 400},
	PartSuspension:      {Min: 700, Max: 2500},
	PartOilChange:       {Min: 150, Max: 400},
	PartRadiator:        {Min: 600, Max: 2000},
}

// IsValidPart checks if a part belongs to the catalog
func IsValidPart(p Part) bool {
	_, ok := PartCosts[p]
	return ok
}

// IsValidIssue checks if issue is one of the issues listed for part
func IsValidIssue(p Part, issue string) bool {
	for _, candidate := range PartIssues[p] {
		if candidate == issue {
			return true
		}
	}
	return false
}
