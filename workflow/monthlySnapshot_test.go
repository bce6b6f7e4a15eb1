package workflow

import (
	"context"
	"testing"
	"time"

	"github.com/Dev-RuiDiniz/igreja_dashboard_backend/models"
	"github.com/Dev-RuiDiniz/igreja_dashboard_backend/utils"
)

func sampleInput() SnapshotInput {
	return SnapshotInput{
		Year:  2026,
		Month: 3,
		Withdrawals: []models.DeliveryWithdrawal{
			{ID: 1, EventId: 1, FamilyId: 10},
			{ID: 2, EventId: 1, FamilyId: 11},
			{ID: 3, EventId: 2, FamilyId: 10},
		},
		AttendedFamilies: []models.Family{
			{ID: 10, ResponsibleName: "Ana", Neighborhood: "Centro"},
			{ID: 11, ResponsibleName: "Bruna", Neighborhood: "  "},
		},
		ChildrenCount:       4,
		ReferralsByStatus:   map[string]int{"REFERRED": 2, "COMPLETED": 1},
		VisitsScheduled:     5,
		VisitsPending:       2,
		ActiveFamilies:      30,
		PendingDocsCount:    3,
		FamiliesByVulnLevel: map[string]int{"Alta": 7},
	}
}

func TestAssembleSnapshot_WithdrawalSource(t *testing.T) {
	snapshot := AssembleSnapshot(sampleInput(), 7, time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC))

	totals := snapshot["totals"].(map[string]interface{})
	if totals["deliveries_count"] != 3 {
		t.Errorf("deliveries_count = %v, want 3", totals["deliveries_count"])
	}
	if totals["families_attended"] != 2 {
		t.Errorf("families_attended = %v, want 2", totals["families_attended"])
	}

	referrals := totals["referrals_count"].(map[string]interface{})
	if referrals["total"] != 3 {
		t.Errorf("referrals total = %v, want 3", referrals["total"])
	}

	metadata := snapshot["metadata"].(map[string]interface{})
	sources := metadata["data_sources"].([]string)
	if len(sources) != 1 || sources[0] != "withdrawals" {
		t.Errorf("data_sources = %v, want [withdrawals]", sources)
	}
	if metadata["period"] != "2026-03" {
		t.Errorf("period = %v, want 2026-03", metadata["period"])
	}
}

func TestAssembleSnapshot_LegacyBasketFallback(t *testing.T) {
	input := sampleInput()
	input.Withdrawals = nil
	input.Baskets = []models.FoodBasket{
		{ID: 1, FamilyId: 10, Status: models.FoodBasketDelivered},
	}

	snapshot := AssembleSnapshot(input, 7, time.Now())

	totals := snapshot["totals"].(map[string]interface{})
	if totals["deliveries_count"] != 1 {
		t.Errorf("deliveries_count = %v, want 1", totals["deliveries_count"])
	}

	metadata := snapshot["metadata"].(map[string]interface{})
	sources := metadata["data_sources"].([]string)
	if len(sources) != 1 || sources[0] != "legacy_baskets" {
		t.Errorf("data_sources = %v, want [legacy_baskets]", sources)
	}
}

func TestAssembleSnapshot_NeighborhoodBuckets(t *testing.T) {
	snapshot := AssembleSnapshot(sampleInput(), 7, time.Now())

	breakdowns := snapshot["breakdowns"].(map[string]interface{})
	neighborhoods := breakdowns["neighborhoods"].(map[string]interface{})

	centro := neighborhoods["Centro"].(map[string]interface{})
	if centro["families"] != 1 || centro["deliveries"] != 2 {
		t.Errorf("Centro bucket = %v, want families=1 deliveries=2", centro)
	}

	// Blank neighborhoods collapse into the default label.
	unknown, ok := neighborhoods["Não informado"].(map[string]interface{})
	if !ok {
		t.Fatalf("missing default bucket, got %v", neighborhoods)
	}
	if unknown["families"] != 1 || unknown["deliveries"] != 1 {
		t.Errorf("default bucket = %v, want families=1 deliveries=1", unknown)
	}
}

// The stored document must survive a JSON round trip with its stable
// top-level keys intact: that string is what closures freeze forever.
func TestAssembleSnapshot_JsonRoundTrip(t *testing.T) {
	snapshot := AssembleSnapshot(sampleInput(), 7, time.Now())

	encoded, err := utils.MarshalToJSON(snapshot)
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]interface{}
	if err := utils.UnmarshalFromJSON([]byte(encoded), &decoded); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"totals", "breakdowns", "metadata"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("round-tripped snapshot lost key %q", key)
		}
	}

	// Normalization accepts the round-tripped shape too.
	normalized := NormalizeSnapshotTotals(decoded)
	if normalized["deliveries_count"] != 3 {
		t.Errorf("deliveries_count after round trip = %v, want 3", normalized["deliveries_count"])
	}
	if normalized["referrals_count"] != 3 {
		t.Errorf("referrals_count after round trip = %v, want 3", normalized["referrals_count"])
	}
}

func TestBuildMonthlySnapshot_RejectsInvalidMonth(t *testing.T) {
	if _, err := BuildMonthlySnapshot(context.Background(), 2026, 13, 1); err != models.ErrInvalidMonth {
		t.Fatalf("err = %v, want ErrInvalidMonth", err)
	}
}
