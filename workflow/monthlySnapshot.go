package workflow

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Dev-RuiDiniz/igreja_dashboard_backend/models"
)

const unknownNeighborhood = "Não informado"

// SnapshotInput is the raw material for one month's snapshot, gathered by
// the data layer so the assembly itself stays a pure function.
type SnapshotInput struct {
	Year  int
	Month int

	// Either/or evidence source for the month: withdrawals when any exist,
	// legacy delivered baskets otherwise.
	Withdrawals []models.DeliveryWithdrawal
	Baskets     []models.FoodBasket

	AttendedFamilies []models.Family
	ChildrenCount    int64

	ReferralsByStatus map[string]int
	VisitsScheduled   int64
	VisitsPending     int64
	VisitsExecuted    int64
	LoansStarted      int64
	LoansReturned     int64
	StreetServices    int64
	PeopleFollowed    int64

	ActiveFamilies        int64
	PendingDocsCount      int64
	FamiliesByVulnLevel   map[string]int
	EquipmentStatusCounts map[string]int
}

type NeighborhoodBucket struct {
	Families   int `json:"families"`
	Deliveries int `json:"deliveries"`
}

// AssembleSnapshot turns the gathered input into the frozen snapshot
// document. Top-level keys (totals, breakdowns, metadata) are stable: stored
// snapshots from old closures must keep reading back.
func AssembleSnapshot(input SnapshotInput, generatedBy int, generatedAt time.Time) map[string]interface{} {

	source := "withdrawals"
	deliveries := len(input.Withdrawals)
	deliveryFamilyIds := make(map[int]int)
	for _, w := range input.Withdrawals {
		deliveryFamilyIds[w.FamilyId]++
	}
	if len(input.Withdrawals) == 0 {
		source = "legacy_baskets"
		deliveries = len(input.Baskets)
		for _, b := range input.Baskets {
			deliveryFamilyIds[b.FamilyId]++
		}
	}

	neighborhoods := map[string]*NeighborhoodBucket{}
	for _, family := range input.AttendedFamilies {
		name := strings.TrimSpace(family.Neighborhood)
		if name == "" {
			name = unknownNeighborhood
		}
		bucket, ok := neighborhoods[name]
		if !ok {
			bucket = &NeighborhoodBucket{}
			neighborhoods[name] = bucket
		}
		bucket.Families++
		bucket.Deliveries += deliveryFamilyIds[family.ID]
	}
	neighborhoodOut := make(map[string]interface{}, len(neighborhoods))
	for name, bucket := range neighborhoods {
		neighborhoodOut[name] = map[string]interface{}{
			"families":   bucket.Families,
			"deliveries": bucket.Deliveries,
		}
	}

	referrals := map[string]interface{}{}
	referralsTotal := 0
	for status, count := range input.ReferralsByStatus {
		referrals[status] = count
		referralsTotal += count
	}
	referrals["total"] = referralsTotal

	totals := map[string]interface{}{
		"families_attended":     len(deliveryFamilyIds),
		"deliveries_count":      deliveries,
		"children_count":        input.ChildrenCount,
		"referrals_count":       referrals,
		"visits_count":          input.VisitsScheduled,
		"visits_executed":       input.VisitsExecuted,
		"loans_count":           input.LoansStarted,
		"loans_returned":        input.LoansReturned,
		"street_services_count": input.StreetServices,
		"people_followed":       input.PeopleFollowed,
		"active_families":       input.ActiveFamilies,
		"pending_docs_count":    input.PendingDocsCount,
		"pending_visits_count":  input.VisitsPending,
	}

	breakdowns := map[string]interface{}{
		"neighborhoods":    neighborhoodOut,
		"vulnerability":    input.FamiliesByVulnLevel,
		"equipment_status": input.EquipmentStatusCounts,
		"referrals_status": input.ReferralsByStatus,
	}

	metadata := map[string]interface{}{
		"period":               fmt.Sprintf("%04d-%02d", input.Year, input.Month),
		"month":                input.Month,
		"year":                 input.Year,
		"generated_by_user_id": generatedBy,
		"generated_at":         generatedAt.UTC().Format(time.RFC3339),
		"data_sources":         []string{source},
		"schema_version":       1,
	}

	return map[string]interface{}{
		"totals":     totals,
		"breakdowns": breakdowns,
		"metadata":   metadata,
	}
}

// BuildMonthlySnapshot gathers one month's activity and assembles the
// snapshot. Read-only: persisting the result is the closing workflow's job.
func BuildMonthlySnapshot(ctx context.Context, year int, month int, generatedBy int) (map[string]interface{}, error) {

	if month < 1 || month > 12 {
		return nil, models.ErrInvalidMonth
	}

	input := SnapshotInput{Year: year, Month: month}

	withdrawals, err := models.ListWithdrawalsForEventsInMonth(ctx, year, month)
	if err != nil {
		return nil, err
	}
	input.Withdrawals = withdrawals

	if len(withdrawals) == 0 {
		baskets, err := models.ListFoodBasketsByMonth(ctx, year, month)
		if err != nil {
			return nil, err
		}
		for _, b := range baskets {
			if b.Status == models.FoodBasketDelivered {
				input.Baskets = append(input.Baskets, b)
			}
		}
	}

	familyIds := attendedFamilyIds(input)
	families, err := models.GetFamiliesByIds(ctx, familyIds)
	if err != nil {
		return nil, err
	}
	input.AttendedFamilies = families

	if input.ChildrenCount, err = models.CountChildrenOfFamilies(ctx, familyIds); err != nil {
		return nil, err
	}
	if input.ReferralsByStatus, err = models.ReferralStatusCountsInMonth(ctx, year, month); err != nil {
		return nil, err
	}
	if input.VisitsScheduled, err = models.CountVisitsScheduledInMonth(ctx, year, month); err != nil {
		return nil, err
	}
	if input.VisitsPending, err = models.CountPendingVisitsInMonth(ctx, year, month); err != nil {
		return nil, err
	}
	if input.VisitsExecuted, err = models.CountVisitsExecutedInMonth(ctx, year, month); err != nil {
		return nil, err
	}
	if input.LoansStarted, err = models.CountLoansStartedInMonth(ctx, year, month); err != nil {
		return nil, err
	}
	if input.LoansReturned, err = models.CountLoansReturnedInMonth(ctx, year, month); err != nil {
		return nil, err
	}
	if input.StreetServices, err = models.CountStreetServicesInMonth(ctx, year, month); err != nil {
		return nil, err
	}
	if input.PeopleFollowed, err = models.CountPeopleFollowedInMonth(ctx, year, month); err != nil {
		return nil, err
	}
	if input.ActiveFamilies, err = models.CountActiveFamilies(ctx); err != nil {
		return nil, err
	}
	if input.PendingDocsCount, err = models.CountFamiliesPendingDocs(ctx); err != nil {
		return nil, err
	}
	if input.FamiliesByVulnLevel, err = models.CountFamiliesByVulnerability(ctx); err != nil {
		return nil, err
	}
	if input.EquipmentStatusCounts, err = models.EquipmentStatusHistogram(ctx); err != nil {
		return nil, err
	}

	return AssembleSnapshot(input, generatedBy, time.Now()), nil
}

func attendedFamilyIds(input SnapshotInput) []int {
	seen := map[int]bool{}
	var ids []int
	for _, w := range input.Withdrawals {
		if !seen[w.FamilyId] {
			seen[w.FamilyId] = true
			ids = append(ids, w.FamilyId)
		}
	}
	for _, b := range input.Baskets {
		if !seen[b.FamilyId] {
			seen[b.FamilyId] = true
			ids = append(ids, b.FamilyId)
		}
	}
	sort.Ints(ids)
	return ids
}
