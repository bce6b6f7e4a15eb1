package workflow

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/Dev-RuiDiniz/igreja_dashboard_backend/config"
	"github.com/Dev-RuiDiniz/igreja_dashboard_backend/models"
	"github.com/Dev-RuiDiniz/igreja_dashboard_backend/models/reports"
	"github.com/Dev-RuiDiniz/igreja_dashboard_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrOverrideDisabled = errors.New("official report override is disabled")

// TrackedKPIs is the canonical indicator set of the official report. Every
// stored snapshot shape is normalized into exactly these keys.
var TrackedKPIs = []string{
	"families_attended",
	"people_followed",
	"children_count",
	"deliveries_count",
	"referrals_count",
	"visits_count",
	"loans_count",
	"pending_docs_count",
	"pending_visits_count",
	"avg_vulnerability",
}

func round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case decimal.Decimal:
		f, _ := n.Float64()
		return f, true
	}
	return 0, false
}

// kpiValue reads one KPI out of a totals map, tolerating the shapes older
// snapshots used: a plain scalar, or a nested {"total": N} object.
func kpiValue(totals map[string]interface{}, key string) (float64, bool) {
	raw, ok := totals[key]
	if !ok {
		return 0, false
	}
	if f, ok := toFloat(raw); ok {
		return f, true
	}
	if nested, ok := raw.(map[string]interface{}); ok {
		if f, ok := toFloat(nested["total"]); ok {
			return f, true
		}
	}
	return 0, false
}

// DeriveAvgVulnerability computes a weighted mean over a vulnerability-level
// histogram, for snapshots that never stored the average directly.
func DeriveAvgVulnerability(histogram map[string]interface{}) (float64, bool) {
	var weightedSum, total float64
	for level, raw := range histogram {
		count, ok := toFloat(raw)
		if !ok || count <= 0 {
			continue
		}
		weight := models.VulnerabilityLevel(level).Weight()
		weightedSum += float64(weight) * count
		total += count
	}
	if total == 0 {
		return 0, false
	}
	return round2(weightedSum / total), true
}

// legacyKPIKeys maps tracked KPIs to the names older snapshots stored them
// under. The legacy key is only consulted when the canonical one is absent.
var legacyKPIKeys = map[string]string{
	"loans_count":     "equipment_loans_count",
	"people_followed": "street_services_count",
}

// NormalizeSnapshotTotals maps any accepted snapshot shape into the fixed
// KPI record. All legacy-shape tolerance lives here, nowhere else.
func NormalizeSnapshotTotals(snapshot map[string]interface{}) map[string]float64 {

	totals := map[string]interface{}{}
	if t, ok := snapshot["totals"].(map[string]interface{}); ok {
		totals = t
	}

	normalized := make(map[string]float64, len(TrackedKPIs))
	for _, kpi := range TrackedKPIs {
		value, ok := kpiValue(totals, kpi)
		if !ok {
			if legacy, hasLegacy := legacyKPIKeys[kpi]; hasLegacy {
				value, ok = kpiValue(totals, legacy)
			}
		}
		if ok {
			normalized[kpi] = round2(value)
		} else {
			normalized[kpi] = 0
		}
	}

	// The oldest snapshots kept the average in a top-level indicators block;
	// it takes precedence over totals when both exist.
	avgKnown := false
	if indicators, ok := snapshot["indicators"].(map[string]interface{}); ok {
		if avg, ok := kpiValue(indicators, "avg_vulnerability"); ok {
			normalized["avg_vulnerability"] = round2(avg)
			avgKnown = true
		}
	}
	if !avgKnown {
		_, avgKnown = kpiValue(totals, "avg_vulnerability")
	}
	if !avgKnown {
		if breakdowns, ok := snapshot["breakdowns"].(map[string]interface{}); ok {
			if histogram, ok := breakdowns["vulnerability"].(map[string]interface{}); ok {
				if avg, ok := DeriveAvgVulnerability(histogram); ok {
					normalized["avg_vulnerability"] = avg
				}
			}
		}
	}

	return normalized
}

// MonthBack steps one calendar month backwards, wrapping January into the
// previous December.
func MonthBack(year int, month int) (int, int) {
	if month == 1 {
		return year - 1, 12
	}
	return year, month - 1
}

// ComputeMonthOverMonthDeltas builds the per-KPI delta map. Percent is the
// literal string "N/A" whenever the baseline is missing or zero, never a
// computed ratio.
func ComputeMonthOverMonthDeltas(current map[string]float64, previous map[string]float64) map[string]interface{} {

	deltas := make(map[string]interface{}, len(TrackedKPIs))
	for _, kpi := range TrackedKPIs {
		currentValue := current[kpi]

		var absolute interface{}
		var percent interface{} = "N/A"

		if previous == nil {
			absolute = round2(currentValue)
		} else {
			previousValue := previous[kpi]
			absolute = round2(currentValue - previousValue)
			if previousValue != 0 {
				percent = round2((currentValue - previousValue) / previousValue * 100)
			}
		}

		deltas[kpi] = map[string]interface{}{
			"absolute": absolute,
			"percent":  percent,
		}
	}
	return deltas
}

// BuildOfficialSnapshot derives the signed report document body from a
// CLOSED closure's frozen snapshot plus the previous closed month.
func BuildOfficialSnapshot(ctx context.Context, year int, month int, generatedBy int) (map[string]interface{}, error) {

	closure, err := models.GetMonthlyClosure(ctx, year, month)
	if err != nil {
		return nil, err
	}
	if closure.Status != models.MonthlyClosureClosed || closure.SummarySnapshotJson == "" {
		return nil, models.ErrMonthNotClosed
	}

	var snapshot map[string]interface{}
	if err := utils.UnmarshalFromJSON([]byte(closure.SummarySnapshotJson), &snapshot); err != nil {
		return nil, err
	}
	current := NormalizeSnapshotTotals(snapshot)

	var previous map[string]float64
	prevYear, prevMonth := MonthBack(year, month)
	prevClosure, err := models.GetMonthlyClosure(ctx, prevYear, prevMonth)
	if err == nil && prevClosure.Status == models.MonthlyClosureClosed && prevClosure.SummarySnapshotJson != "" {
		var prevSnapshot map[string]interface{}
		if err := utils.UnmarshalFromJSON([]byte(prevClosure.SummarySnapshotJson), &prevSnapshot); err != nil {
			return nil, err
		}
		previous = NormalizeSnapshotTotals(prevSnapshot)
	} else if err != nil && err != models.ErrClosureNotFound {
		return nil, err
	}

	totalsOut := make(map[string]interface{}, len(current))
	for kpi, value := range current {
		totalsOut[kpi] = value
	}

	official := map[string]interface{}{
		"totals": totalsOut,
		"deltas": ComputeMonthOverMonthDeltas(current, previous),
		"metadata": map[string]interface{}{
			"period":               fmt.Sprintf("%04d-%02d", year, month),
			"month":                month,
			"year":                 year,
			"generated_by_user_id": generatedBy,
			"generated_at":         time.Now().UTC().Format(time.RFC3339),
			"comparison_base":      previous != nil,
			"comparison_period":    fmt.Sprintf("%04d-%02d", prevYear, prevMonth),
			"schema_version":       1,
		},
	}

	// Per-neighborhood breakdown is carried through untouched.
	if breakdowns, ok := snapshot["breakdowns"].(map[string]interface{}); ok {
		official["breakdowns"] = breakdowns
	}

	return official, nil
}

// officialReportAuditActions lists the audit rows one generation writes. A
// first generation records only itself; regenerating a signed month records
// the regeneration and the override that allowed it.
func officialReportAuditActions(alreadySigned bool) []string {
	if !alreadySigned {
		return []string{models.AuditActionOfficialReportGenerated}
	}
	return []string{
		models.AuditActionOfficialReportRegenerate,
		models.AuditActionOfficialReportOverride,
	}
}

// GenerateOfficialReport renders, hashes and persists the official report.
// A signed month refuses regeneration unless override is set; overrides
// produce a fresh hash and distinct audit actions.
func GenerateOfficialReport(ctx context.Context, year int, month int, override bool, renderer reports.Renderer) (*models.MonthlyClosure, []byte, error) {

	if override && !config.AdminOverrideEnabled() {
		return nil, nil, ErrOverrideDisabled
	}

	closure, err := models.GetMonthlyClosure(ctx, year, month)
	if err != nil {
		return nil, nil, err
	}
	if closure.Status != models.MonthlyClosureClosed {
		return nil, nil, models.ErrMonthNotClosed
	}
	alreadySigned := closure.OfficialPdfPath != ""
	if alreadySigned && !override {
		return nil, nil, models.ErrOfficialReportImmutable
	}

	userId, _ := utils.GetUserIdFromContext(ctx)

	official, err := BuildOfficialSnapshot(ctx, year, month, userId)
	if err != nil {
		return nil, nil, err
	}
	officialJson, err := utils.MarshalToJSON(official)
	if err != nil {
		return nil, nil, err
	}

	document := reports.OfficialReportDocument(official, year, month)
	rendered, err := renderer.Render(document)
	if err != nil {
		return nil, nil, err
	}
	sum := sha256.Sum256(rendered)
	contentHash := hex.EncodeToString(sum[:])

	artifactPath, err := utils.SaveReportBytes(ctx, utils.MonthlyOfficialReportPath(year, month), rendered, override)
	if err != nil {
		return nil, nil, err
	}

	signedAt := time.Now()

	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := models.SetOfficialReport(tx, closure.ID, officialJson, artifactPath, contentHash, userId, signedAt, override); err != nil {
			return err
		}
		for _, action := range officialReportAuditActions(alreadySigned) {
			err := models.LogAction(tx, action, "monthly_closure", closure.ID, map[string]interface{}{
				"month":    month,
				"year":     year,
				"sha256":   contentHash,
				"path":     artifactPath,
				"override": override,
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	closure, err = models.GetMonthlyClosure(ctx, year, month)
	if err != nil {
		return nil, nil, err
	}
	return closure, rendered, nil
}
