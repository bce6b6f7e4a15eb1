package workflow

import (
	"testing"
	"time"

	"github.com/Dev-RuiDiniz/igreja_dashboard_backend/models"
)

// NOTE: These tests are intentionally DB-free. The engine is a pure function
// of (family, evidence, settings); the DB facades only feed it aggregates.

func defaultSettings() *models.SystemSettings {
	return &models.SystemSettings{
		BasketLimitPerMonth:       1,
		MinMonthsBetweenBaskets:   2,
		MinVulnerabilityForBasket: 2,
		RequireCompleteDocs:       true,
	}
}

func activeFamily(level models.VulnerabilityLevel, docs string) *models.Family {
	return &models.Family{
		ID:                  1,
		ResponsibleName:     "Maria",
		VulnerabilityLevel:  level,
		DocumentationStatus: docs,
		IsActive:            true,
	}
}

func intPtr(v int) *int { return &v }

func hasReason(reasons []models.EligibilityReason, want models.EligibilityReason) bool {
	for _, r := range reasons {
		if r == want {
			return true
		}
	}
	return false
}

func TestEvaluateFamily_NeverDeliveredHighVulnerability(t *testing.T) {
	now := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	result := EvaluateFamily(activeFamily(models.VulnerabilityHigh, "OK"), DeliveryEvidence{}, defaultSettings(), now)

	if !result.Applicable {
		t.Fatal("active family should be applicable")
	}
	if !result.Eligible {
		t.Fatalf("expected eligible, got reasons %v", result.Reasons)
	}
	if len(result.Reasons) != 0 {
		t.Fatalf("expected no reasons, got %v", result.Reasons)
	}
	// Never delivered behaves as maximally stale.
	if result.MonthsSinceLastDelivery != MonthIndexOf(now) {
		t.Fatalf("months since = %d, want current index %d", result.MonthsSinceLastDelivery, MonthIndexOf(now))
	}
}

func TestEvaluateFamily_AccumulatesAllFailingReasons(t *testing.T) {
	now := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	lastMonth := MonthIndex(2026, 2)

	evidence := DeliveryEvidence{
		LatestWithdrawalIndex: intPtr(lastMonth),
		MonthWithdrawalCount:  1,
	}
	result := EvaluateFamily(activeFamily(models.VulnerabilityLow, "pendente"), evidence, defaultSettings(), now)

	if result.Eligible {
		t.Fatal("expected ineligible")
	}
	want := []models.EligibilityReason{
		models.ReasonLowVulnerability,
		models.ReasonDocPending,
		models.ReasonRecentDelivery,
		models.ReasonMonthLimitReached,
	}
	if len(result.Reasons) != len(want) {
		t.Fatalf("reasons = %v, want all of %v", result.Reasons, want)
	}
	for _, reason := range want {
		if !hasReason(result.Reasons, reason) {
			t.Errorf("missing reason %s in %v", reason, result.Reasons)
		}
	}
}

func TestEvaluateFamily_InactiveIsNotApplicable(t *testing.T) {
	family := activeFamily(models.VulnerabilityExtreme, "OK")
	family.IsActive = false

	result := EvaluateFamily(family, DeliveryEvidence{}, defaultSettings(), time.Now())

	if result.Applicable {
		t.Fatal("inactive family must not be applicable")
	}
	if result.Eligible {
		t.Fatal("inactive family must not be eligible")
	}
	if len(result.Reasons) != 0 {
		t.Fatalf("not-applicable outcome carries no reasons, got %v", result.Reasons)
	}
}

func TestEvaluateFamily_MissingFamilyIsNotApplicable(t *testing.T) {
	result := EvaluateFamily(nil, DeliveryEvidence{}, defaultSettings(), time.Now())
	if result.Applicable || result.Eligible || len(result.Reasons) != 0 {
		t.Fatalf("missing family must be a bare not-applicable result, got %+v", result)
	}
}

func TestEffectiveLastDeliveryIndex_WithdrawalWinsTies(t *testing.T) {
	idx := MonthIndex(2026, 1)

	cases := []struct {
		name     string
		evidence DeliveryEvidence
		want     *int
	}{
		{"tie favors withdrawal", DeliveryEvidence{LatestBasketIndex: intPtr(idx), LatestWithdrawalIndex: intPtr(idx)}, intPtr(idx)},
		{"newer withdrawal wins", DeliveryEvidence{LatestBasketIndex: intPtr(idx), LatestWithdrawalIndex: intPtr(idx + 1)}, intPtr(idx + 1)},
		{"newer basket wins", DeliveryEvidence{LatestBasketIndex: intPtr(idx + 2), LatestWithdrawalIndex: intPtr(idx)}, intPtr(idx + 2)},
		{"basket only", DeliveryEvidence{LatestBasketIndex: intPtr(idx)}, intPtr(idx)},
		{"withdrawal only", DeliveryEvidence{LatestWithdrawalIndex: intPtr(idx)}, intPtr(idx)},
		{"no evidence", DeliveryEvidence{}, nil},
	}

	for _, tc := range cases {
		got := EffectiveLastDeliveryIndex(tc.evidence)
		if (got == nil) != (tc.want == nil) {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
			continue
		}
		if got != nil && *got != *tc.want {
			t.Errorf("%s: got %d, want %d", tc.name, *got, *tc.want)
		}
	}
}

func TestMonthDeliveries_SumsBothSources(t *testing.T) {
	evidence := DeliveryEvidence{MonthBasketCount: 1, MonthWithdrawalCount: 2}
	if evidence.MonthDeliveries() != 3 {
		t.Fatalf("got %d, want 3", evidence.MonthDeliveries())
	}
}

func TestEvaluateFamily_MonthLimitDisabledWhenZero(t *testing.T) {
	settings := defaultSettings()
	settings.BasketLimitPerMonth = 0
	settings.MinMonthsBetweenBaskets = 0

	evidence := DeliveryEvidence{MonthBasketCount: 5, MonthWithdrawalCount: 5}
	result := EvaluateFamily(activeFamily(models.VulnerabilityHigh, "OK"), evidence, settings, time.Now())

	if hasReason(result.Reasons, models.ReasonMonthLimitReached) {
		t.Fatal("limit=0 must disable the month-limit rule")
	}
}

func TestIsDocumentationComplete_SubstringTokens(t *testing.T) {
	cases := []struct {
		status string
		want   bool
	}{
		{"OK", true},
		{"documentação completa", true},
		{"tudo regular", true},
		{"Completo", true},
		{"pendente", false},
		{"", false},
		// Substring matching is intentional: "broker" contains "OK"
		// case-insensitively. Kept for compatibility.
		{"broker", true},
	}
	for _, tc := range cases {
		if got := IsDocumentationComplete(tc.status); got != tc.want {
			t.Errorf("IsDocumentationComplete(%q) = %v, want %v", tc.status, got, tc.want)
		}
	}
}

// The settings-change scenario: a household eligible under min_vuln=2 turns
// ineligible with LOW_VULNERABILITY once the floor rises above its level.
func TestEvaluateFamily_SettingsChangeFlipsEligibility(t *testing.T) {
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	family := activeFamily(models.VulnerabilityHigh, "OK")
	settings := defaultSettings()

	first := EvaluateFamily(family, DeliveryEvidence{}, settings, now)
	if !first.Eligible || len(first.Reasons) != 0 {
		t.Fatalf("expected eligible with no reasons, got %+v", first)
	}

	settings.MinVulnerabilityForBasket = 4
	second := EvaluateFamily(family, DeliveryEvidence{}, settings, now)
	if second.Eligible {
		t.Fatal("expected ineligible after raising the vulnerability floor")
	}
	if len(second.Reasons) != 1 || second.Reasons[0] != models.ReasonLowVulnerability {
		t.Fatalf("reasons = %v, want [LOW_VULNERABILITY]", second.Reasons)
	}
}
