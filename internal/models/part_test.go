package models

import (
	"testing"
)

func TestCatalog_Consistency(t *testing.T) {
	if len(Parts) != 10 {
		t.Fatalf("expected 10 parts, got %d", len(Parts))
	}
	for _, p := range Parts {
		issues, ok := PartIssues[p]
		if !ok {
			t.Errorf("part %q has no issues", p)
		}
		if len(issues) < 3 || len(issues) > 4 {
			t.Errorf("part %q has %d issues, want 3-4", p, len(issues))
		}
		r, ok := PartCosts[p]
		if !ok {
			t.Errorf("part %q has no cost range", p)
		}
		if r.Min <= 0 || r.Min >= r.Max {
			t.Errorf("part %q has invalid cost range %+v", p, r)
		}
	}
}

func TestIsValidIssue(t *testing.T) {
	tests := []struct {
		name     string
		part     Part
		issue    string
		expected bool
	}{
		{"own issue", PartEngine, "Misfire", true},
		{"fourth engine issue", PartEngine, "Timing belt", true},
		{"issue of another part", PartBrakes, "Misfire", false},
		{"shared wording different part", PartRadiator, "Fluid leak", false},
		{"unknown part", Part("Wings"), "Leak", false},
		{"empty issue", PartTires, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsValidIssue(tt.part, tt.issue)
			if result != tt.expected {
				t.Errorf("IsValidIssue(%s, %s) = %v, want %v", tt.part, tt.issue, result, tt.expected)
			}
		})
	}
}

func TestIsValidPart(t *testing.T) {
	if !IsValidPart(PartOilChange) {
		t.Error("expected Oil Change to be a valid part")
	}
	if IsValidPart("Exhaust") {
		t.Error("expected Exhaust to be rejected")
	}
}

func TestCostRange_Contains(t *testing.T) {
	r := CostRange{Min: 100, Max: 400}
	if !r.Contains(100) || !r.Contains(400) || !r.Contains(250.5) {
		t.Error("expected bounds and interior to be contained")
	}
	if r.Contains(99.99) || r.Contains(400.01) {
		t.Error("expected values outside the range to be rejected")
	}
}

func TestSnapshot_TotalCost(t *testing.T) {
	s := &Snapshot{Summaries: []BusSummary{
		{BusID: "BUS-001", TotalCost: 100.25},
		{BusID: "BUS-002", TotalCost: 50.5},
	}}
	if got := s.TotalCost(); got != 150.75 {
		t.Errorf("TotalCost() = %v, want 150.75", got)
	}
}
