package workflow

import (
	"testing"

	"github.com/Dev-RuiDiniz/igreja_dashboard_backend/models"
)

func TestNormalizeSnapshotTotals_ScalarAndNestedShapes(t *testing.T) {
	snapshot := map[string]interface{}{
		"totals": map[string]interface{}{
			"families_attended": 12,
			"deliveries_count":  float64(14),
			// Older snapshots stored referrals as an object.
			"referrals_count":   map[string]interface{}{"total": 5, "REFERRED": 3, "COMPLETED": 2},
			"avg_vulnerability": 2.5,
		},
	}

	normalized := NormalizeSnapshotTotals(snapshot)

	if normalized["families_attended"] != 12 {
		t.Errorf("families_attended = %v, want 12", normalized["families_attended"])
	}
	if normalized["deliveries_count"] != 14 {
		t.Errorf("deliveries_count = %v, want 14", normalized["deliveries_count"])
	}
	if normalized["referrals_count"] != 5 {
		t.Errorf("referrals_count = %v, want 5", normalized["referrals_count"])
	}
	if normalized["avg_vulnerability"] != 2.5 {
		t.Errorf("avg_vulnerability = %v, want 2.5", normalized["avg_vulnerability"])
	}
	// Missing KPIs default to zero.
	if normalized["loans_count"] != 0 {
		t.Errorf("loans_count = %v, want 0", normalized["loans_count"])
	}
}

func TestNormalizeSnapshotTotals_LegacySnapshotShape(t *testing.T) {
	snapshot := map[string]interface{}{
		"totals": map[string]interface{}{
			"equipment_loans_count": 7,
			"street_services_count": 9,
		},
		"indicators": map[string]interface{}{
			"avg_vulnerability": 2.75,
		},
	}

	normalized := NormalizeSnapshotTotals(snapshot)

	if normalized["loans_count"] != 7 {
		t.Errorf("loans_count = %v, want 7 from equipment_loans_count", normalized["loans_count"])
	}
	if normalized["people_followed"] != 9 {
		t.Errorf("people_followed = %v, want 9 from street_services_count", normalized["people_followed"])
	}
	if normalized["avg_vulnerability"] != 2.75 {
		t.Errorf("avg_vulnerability = %v, want 2.75 from indicators block", normalized["avg_vulnerability"])
	}
}

func TestNormalizeSnapshotTotals_CanonicalKeysWin(t *testing.T) {
	snapshot := map[string]interface{}{
		"totals": map[string]interface{}{
			"loans_count":           4,
			"equipment_loans_count": 7,
			"avg_vulnerability":     1.0,
		},
		"indicators": map[string]interface{}{
			"avg_vulnerability": 2.75,
		},
	}

	normalized := NormalizeSnapshotTotals(snapshot)

	if normalized["loans_count"] != 4 {
		t.Errorf("loans_count = %v, want canonical 4 over legacy 7", normalized["loans_count"])
	}
	// The indicators block predates totals and keeps precedence for the average.
	if normalized["avg_vulnerability"] != 2.75 {
		t.Errorf("avg_vulnerability = %v, want indicators value 2.75", normalized["avg_vulnerability"])
	}
}

func TestNormalizeSnapshotTotals_DerivesAvgFromHistogram(t *testing.T) {
	snapshot := map[string]interface{}{
		"totals": map[string]interface{}{},
		"breakdowns": map[string]interface{}{
			"vulnerability": map[string]interface{}{
				"Sem vulnerabilidade": 1,
				"Alta":                2,
				"Extrema":             1,
			},
		},
	}

	normalized := NormalizeSnapshotTotals(snapshot)

	// (0*1 + 3*2 + 4*1) / 4 = 2.5
	if normalized["avg_vulnerability"] != 2.5 {
		t.Fatalf("avg_vulnerability = %v, want 2.5", normalized["avg_vulnerability"])
	}
}

func TestComputeMonthOverMonthDeltas_PercentRules(t *testing.T) {
	current := map[string]float64{"deliveries_count": 15}

	t.Run("no baseline", func(t *testing.T) {
		deltas := ComputeMonthOverMonthDeltas(current, nil)
		delta := deltas["deliveries_count"].(map[string]interface{})
		if delta["percent"] != "N/A" {
			t.Errorf("percent = %v, want N/A", delta["percent"])
		}
		if delta["absolute"] != 15.0 {
			t.Errorf("absolute = %v, want 15", delta["absolute"])
		}
	})

	t.Run("zero baseline", func(t *testing.T) {
		deltas := ComputeMonthOverMonthDeltas(current, map[string]float64{"deliveries_count": 0})
		delta := deltas["deliveries_count"].(map[string]interface{})
		if delta["percent"] != "N/A" {
			t.Errorf("percent = %v, want N/A for previous=0", delta["percent"])
		}
	})

	t.Run("computed ratio", func(t *testing.T) {
		deltas := ComputeMonthOverMonthDeltas(current, map[string]float64{"deliveries_count": 10})
		delta := deltas["deliveries_count"].(map[string]interface{})
		if delta["absolute"] != 5.0 {
			t.Errorf("absolute = %v, want 5", delta["absolute"])
		}
		if delta["percent"] != 50.0 {
			t.Errorf("percent = %v, want 50", delta["percent"])
		}
	})

	t.Run("rounds to two decimals", func(t *testing.T) {
		deltas := ComputeMonthOverMonthDeltas(map[string]float64{"deliveries_count": 10}, map[string]float64{"deliveries_count": 3})
		delta := deltas["deliveries_count"].(map[string]interface{})
		if delta["percent"] != 233.33 {
			t.Errorf("percent = %v, want 233.33", delta["percent"])
		}
	})
}

func TestMonthBack_JanuaryWrapsToPreviousDecember(t *testing.T) {
	year, month := MonthBack(2026, 1)
	if year != 2025 || month != 12 {
		t.Fatalf("MonthBack(2026, 1) = (%d, %d), want (2025, 12)", year, month)
	}
	year, month = MonthBack(2026, 7)
	if year != 2026 || month != 6 {
		t.Fatalf("MonthBack(2026, 7) = (%d, %d), want (2026, 6)", year, month)
	}
}

func TestDeriveAvgVulnerability_EmptyHistogram(t *testing.T) {
	if _, ok := DeriveAvgVulnerability(map[string]interface{}{}); ok {
		t.Fatal("empty histogram must not produce an average")
	}
	if _, ok := DeriveAvgVulnerability(map[string]interface{}{"Alta": 0}); ok {
		t.Fatal("zero-count histogram must not produce an average")
	}
}

func TestOfficialReportAuditActions(t *testing.T) {
	first := officialReportAuditActions(false)
	if len(first) != 1 || first[0] != models.AuditActionOfficialReportGenerated {
		t.Fatalf("first generation actions = %v, want [%s]", first, models.AuditActionOfficialReportGenerated)
	}

	regen := officialReportAuditActions(true)
	if len(regen) != 2 {
		t.Fatalf("regeneration actions = %v, want regenerate + override", regen)
	}
	if regen[0] != models.AuditActionOfficialReportRegenerate {
		t.Errorf("regen[0] = %s, want %s", regen[0], models.AuditActionOfficialReportRegenerate)
	}
	if regen[1] != models.AuditActionOfficialReportOverride {
		t.Errorf("regen[1] = %s, want %s", regen[1], models.AuditActionOfficialReportOverride)
	}
}
