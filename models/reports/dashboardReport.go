package reports

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dev-RuiDiniz/igreja_dashboard_backend/config"
	"github.com/bsm/redislock"
	_ "github.com/go-sql-driver/mysql"
)

type DashboardResponse struct {
	ActiveFamilies    int64          `json:"active_families"`
	PendingDocs       int64          `json:"pending_docs"`
	DeliveriesMonth   int64          `json:"deliveries_month"`
	ActiveLoans       int64          `json:"active_loans"`
	PendingVisits     int64          `json:"pending_visits"`
	OpenReferrals     int64          `json:"open_referrals"`
	StreetServices30d int64          `json:"street_services_30d"`
	Vulnerability     map[string]int `json:"vulnerability"`
	GeneratedAt       time.Time      `json:"generated_at"`
}

func dashboardCacheKey(year int, month int) string {
	return fmt.Sprintf("report:dashboard:%04d-%02d", year, month)
}

// GetDashboardReport aggregates the landing-page counters with raw SQL.
// Results are cached; a short redis lock keeps concurrent cold-cache
// requests from stampeding the database.
func GetDashboardReport(ctx context.Context) (*DashboardResponse, error) {

	started := time.Now()
	now := time.Now()
	key := dashboardCacheKey(now.Year(), int(now.Month()))

	if config.ReportCacheEnabled() {
		var cached DashboardResponse
		if ok, err := cacheGet(key, &cached); err == nil && ok {
			return &cached, nil
		}
	}

	if locker := config.GetRedisLock(); locker != nil {
		lock, err := locker.Obtain(ctx, key+":lock", 10*time.Second, nil)
		if err == nil {
			defer func() { _ = lock.Release(ctx) }()
		} else if !errors.Is(err, redislock.ErrNotObtained) {
			return nil, err
		}
	}

	db := config.GetDB()
	response := DashboardResponse{Vulnerability: map[string]int{}, GeneratedAt: now}

	counts := []struct {
		dest *int64
		sql  string
	}{
		{&response.ActiveFamilies, "SELECT COUNT(*) FROM families WHERE is_active = 1"},
		{&response.PendingDocs, "SELECT COUNT(*) FROM families WHERE is_active = 1 AND TRIM(COALESCE(documentation_status,'')) = ''"},
		{&response.DeliveriesMonth, `
			SELECT (SELECT COUNT(*) FROM delivery_withdrawals WHERE YEAR(confirmed_at) = ? AND MONTH(confirmed_at) = ?)
			     + (SELECT COUNT(*) FROM food_baskets WHERE reference_year = ? AND reference_month = ? AND status = 'DELIVERED')`},
		{&response.ActiveLoans, "SELECT COUNT(*) FROM loans WHERE status IN ('ACTIVE','OVERDUE')"},
		{&response.PendingVisits, "SELECT COUNT(*) FROM visit_requests WHERE status = 'PENDING'"},
		{&response.OpenReferrals, "SELECT COUNT(*) FROM referrals WHERE status IN ('REFERRED','FOLLOW_UP')"},
		{&response.StreetServices30d, "SELECT COUNT(*) FROM street_services WHERE service_date >= DATE_SUB(NOW(), INTERVAL 30 DAY)"},
	}
	for _, c := range counts {
		var args []interface{}
		if c.dest == &response.DeliveriesMonth {
			args = []interface{}{now.Year(), int(now.Month()), now.Year(), int(now.Month())}
		}
		if err := db.WithContext(ctx).Raw(c.sql, args...).Scan(c.dest).Error; err != nil {
			return nil, err
		}
	}

	type vulnRow struct {
		VulnerabilityLevel string
		Total              int
	}
	var vulnRows []vulnRow
	err := db.WithContext(ctx).Raw(
		"SELECT vulnerability_level, COUNT(*) AS total FROM families WHERE is_active = 1 GROUP BY vulnerability_level").
		Scan(&vulnRows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range vulnRows {
		response.Vulnerability[r.VulnerabilityLevel] = r.Total
	}

	if config.ReportCacheEnabled() {
		_ = cacheSet(key, response, reportCacheTTL())
	}
	logSlowReport(ctx, "dashboard", started, nil)
	return &response, nil
}

// DropDashboardCache is called after writes that change the counters.
func DropDashboardCache() {
	now := time.Now()
	cacheDrop(dashboardCacheKey(now.Year(), int(now.Month())))
}
