package models

import (
	"strings"
	"testing"

	"gorm.io/gorm"
	"gorm.io/gorm/utils/tests"
)

func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{DryRun: true})
	if err != nil {
		t.Fatalf("open dry-run db: %v", err)
	}
	return db
}

// A scheduled basket must not consume the family's monthly quota: only
// DELIVERED rows are delivery evidence.
func TestDeliveredBaskets_PinsStatusToDelivered(t *testing.T) {
	db := dryRunDB(t)

	var baskets []FoodBasket
	stmt := deliveredBaskets(db.Model(&FoodBasket{})).Find(&baskets).Statement

	sql := stmt.SQL.String()
	if !strings.Contains(sql, "status = ?") {
		t.Fatalf("query %q does not filter on status", sql)
	}
	for _, v := range stmt.Vars {
		if v == FoodBasketDelivered {
			return
		}
	}
	t.Fatalf("query vars %v do not pin status to %s", stmt.Vars, FoodBasketDelivered)
}

func TestDeliveredBaskets_ExcludesOtherStatuses(t *testing.T) {
	db := dryRunDB(t)

	var count int64
	stmt := deliveredBaskets(db.Model(&FoodBasket{})).
		Where("family_id = ? AND reference_year = ? AND reference_month = ?", 1, 2026, 3).
		Count(&count).Statement

	for _, v := range stmt.Vars {
		if v == FoodBasketScheduled || v == FoodBasketCancelled {
			t.Fatalf("quota count must not mention status %v", v)
		}
	}
	if strings.Contains(stmt.SQL.String(), "<>") {
		t.Fatalf("quota count must filter by equality, got %q", stmt.SQL.String())
	}
}
