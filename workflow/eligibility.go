package workflow

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/Dev-RuiDiniz/igreja_dashboard_backend/models"
	"github.com/Dev-RuiDiniz/igreja_dashboard_backend/utils"
)

// docCompleteTokens marks documentation as complete when any token appears as
// a case-insensitive substring of the free-text status. Substring matching is
// intentional, kept for compatibility with historical status texts.
var docCompleteTokens = []string{"OK", "COMPLETE", "COMPLETO", "COMPLETA", "REGULAR"}

func IsDocumentationComplete(status string) bool {
	upper := utils.NormalizeUpper(status)
	for _, token := range docCompleteTokens {
		if strings.Contains(upper, token) {
			return true
		}
	}
	return false
}

// MonthIndex maps a calendar month onto a single comparable integer.
func MonthIndex(year int, month int) int {
	return year*12 + month
}

func MonthIndexOf(t time.Time) int {
	return MonthIndex(t.Year(), int(t.Month()))
}

// DeliveryEvidence carries everything the engine needs to know about a
// family's delivery history, pre-aggregated from both sources.
type DeliveryEvidence struct {
	LatestBasketIndex     *int
	LatestWithdrawalIndex *int
	MonthBasketCount      int
	MonthWithdrawalCount  int
}

// EffectiveLastDeliveryIndex reconciles the two evidence sources: the
// withdrawal index wins whenever it exists and is at least as recent as the
// basket index. Nil means the family never received anything.
func EffectiveLastDeliveryIndex(evidence DeliveryEvidence) *int {
	basket := evidence.LatestBasketIndex
	withdrawal := evidence.LatestWithdrawalIndex

	if withdrawal != nil && (basket == nil || *withdrawal >= *basket) {
		return withdrawal
	}
	return basket
}

// MonthsSinceLastDelivery is measured in month indexes. A family with no
// evidence at all behaves as maximally stale: the distance equals the current
// index itself.
func MonthsSinceLastDelivery(currentIndex int, evidence DeliveryEvidence) int {
	last := EffectiveLastDeliveryIndex(evidence)
	if last == nil {
		return currentIndex
	}
	return currentIndex - *last
}

func (e DeliveryEvidence) MonthDeliveries() int {
	return e.MonthBasketCount + e.MonthWithdrawalCount
}

type EligibilityResult struct {
	Eligible                bool                       `json:"eligible"`
	Applicable              bool                       `json:"applicable"`
	Reasons                 []models.EligibilityReason `json:"reasons"`
	MonthsSinceLastDelivery int                        `json:"months_since_last_delivery"`
	MonthDeliveries         int                        `json:"month_deliveries"`
	DocPending              bool                       `json:"doc_pending"`
}

// EvaluateFamily is the full rule set as a pure function of family, evidence
// and settings. All failing rules are accumulated; nothing short-circuits.
// Inactive families are a not-applicable outcome, not a rule failure.
func EvaluateFamily(family *models.Family, evidence DeliveryEvidence, settings *models.SystemSettings, now time.Time) EligibilityResult {

	result := EligibilityResult{Reasons: []models.EligibilityReason{}}
	if family == nil || !family.IsActive {
		return result
	}
	result.Applicable = true

	currentIndex := MonthIndexOf(now)
	result.MonthsSinceLastDelivery = MonthsSinceLastDelivery(currentIndex, evidence)
	result.MonthDeliveries = evidence.MonthDeliveries()
	result.DocPending = !IsDocumentationComplete(family.DocumentationStatus)

	if family.VulnerabilityLevel.Weight() < settings.MinVulnerabilityForBasket {
		result.Reasons = append(result.Reasons, models.ReasonLowVulnerability)
	}
	if settings.RequireCompleteDocs && result.DocPending {
		result.Reasons = append(result.Reasons, models.ReasonDocPending)
	}
	if result.MonthsSinceLastDelivery < settings.MinMonthsBetweenBaskets {
		result.Reasons = append(result.Reasons, models.ReasonRecentDelivery)
	}
	if settings.BasketLimitPerMonth > 0 && result.MonthDeliveries >= settings.BasketLimitPerMonth {
		result.Reasons = append(result.Reasons, models.ReasonMonthLimitReached)
	}

	result.Eligible = len(result.Reasons) == 0
	return result
}

// ComputeFamilyEligibility evaluates one family against the current settings
// and stored evidence. Missing families come back as a not-applicable result,
// never an error.
func ComputeFamilyEligibility(ctx context.Context, familyId int) (EligibilityResult, error) {

	empty := EligibilityResult{Reasons: []models.EligibilityReason{}}

	family, err := models.GetFamily(ctx, familyId)
	if err != nil {
		if err == utils.ErrorRecordNotFound {
			return empty, nil
		}
		return empty, err
	}
	if !family.IsActive {
		return empty, nil
	}

	settings, err := models.GetSystemSettings(ctx)
	if err != nil {
		return empty, err
	}

	now := time.Now()
	evidence, err := familyEvidence(ctx, familyId, now)
	if err != nil {
		return empty, err
	}

	return EvaluateFamily(family, evidence, settings, now), nil
}

func familyEvidence(ctx context.Context, familyId int, now time.Time) (DeliveryEvidence, error) {
	var evidence DeliveryEvidence

	basketIndex, err := models.LatestBasketIndexForFamily(ctx, familyId)
	if err != nil {
		return evidence, err
	}
	withdrawalIndex, err := models.LatestWithdrawalIndexForFamily(ctx, familyId)
	if err != nil {
		return evidence, err
	}
	basketCount, err := models.CountFamilyBasketsInMonth(ctx, familyId, now.Year(), int(now.Month()))
	if err != nil {
		return evidence, err
	}
	withdrawalCount, err := models.CountFamilyWithdrawalsInMonth(ctx, familyId, now.Year(), int(now.Month()))
	if err != nil {
		return evidence, err
	}

	evidence.LatestBasketIndex = basketIndex
	evidence.LatestWithdrawalIndex = withdrawalIndex
	evidence.MonthBasketCount = int(basketCount)
	evidence.MonthWithdrawalCount = int(withdrawalCount)
	return evidence, nil
}

type EligibleFamilyEntry struct {
	Family                  models.Family `json:"family"`
	LastDeliveryDate        *time.Time    `json:"last_delivery_date"`
	MonthDeliveries         int           `json:"month_deliveries"`
	MonthsSinceLastDelivery int           `json:"months_since_last_delivery"`
	DocPending              bool          `json:"doc_pending"`
}

// ListEligibleFamilies applies the rule set as a filter over active families,
// ranked worst-vulnerability first. The same reconciliation unit used by the
// single-family path runs here, fed from bulk queries.
func ListEligibleFamilies(ctx context.Context, limit int, neighborhood string) ([]EligibleFamilyEntry, error) {

	if limit < 1 {
		limit = 1
	}
	if limit > 100 {
		limit = 100
	}

	settings, err := models.GetSystemSettings(ctx)
	if err != nil {
		return nil, err
	}

	families, err := models.ListActiveFamilies(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	basketIndexes, err := models.LatestBasketIndexByFamily(ctx)
	if err != nil {
		return nil, err
	}
	withdrawalIndexes, err := models.LatestWithdrawalIndexByFamily(ctx)
	if err != nil {
		return nil, err
	}
	basketCounts, err := models.FamilyBasketCountsInMonth(ctx, now.Year(), int(now.Month()))
	if err != nil {
		return nil, err
	}
	withdrawalCounts, err := models.FamilyWithdrawalCountsInMonth(ctx, now.Year(), int(now.Month()))
	if err != nil {
		return nil, err
	}

	entries := make([]EligibleFamilyEntry, 0, len(families))
	for i := range families {
		family := families[i]
		if neighborhood != "" && !strings.EqualFold(strings.TrimSpace(family.Neighborhood), strings.TrimSpace(neighborhood)) {
			continue
		}

		evidence := DeliveryEvidence{
			MonthBasketCount:     basketCounts[family.ID],
			MonthWithdrawalCount: withdrawalCounts[family.ID],
		}
		if idx, ok := basketIndexes[family.ID]; ok {
			v := idx
			evidence.LatestBasketIndex = &v
		}
		if idx, ok := withdrawalIndexes[family.ID]; ok {
			v := idx
			evidence.LatestWithdrawalIndex = &v
		}

		result := EvaluateFamily(&family, evidence, settings, now)
		if !result.Eligible {
			continue
		}

		entries = append(entries, EligibleFamilyEntry{
			Family:                  family,
			LastDeliveryDate:        monthIndexToDate(EffectiveLastDeliveryIndex(evidence)),
			MonthDeliveries:         result.MonthDeliveries,
			MonthsSinceLastDelivery: result.MonthsSinceLastDelivery,
			DocPending:              result.DocPending,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		wi := entries[i].Family.VulnerabilityLevel.Weight()
		wj := entries[j].Family.VulnerabilityLevel.Weight()
		if wi != wj {
			return wi > wj
		}
		return entries[i].Family.ResponsibleName < entries[j].Family.ResponsibleName
	})

	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func monthIndexToDate(index *int) *time.Time {
	if index == nil {
		return nil
	}
	year := (*index - 1) / 12
	month := *index - year*12
	t := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return &t
}
