package models

import (
	"context"
	"errors"
	"time"

	"github.com/Dev-RuiDiniz/igreja_dashboard_backend/config"
	"github.com/Dev-RuiDiniz/igreja_dashboard_backend/utils"
	"gorm.io/gorm"
)

// FoodBasket is one basket delivery (or schedule) for a family in a reference
// month. One row per family per month, enforced by a composite unique index.
type FoodBasket struct {
	ID             int              `gorm:"primary_key" json:"id"`
	FamilyId       int              `gorm:"not null;uniqueIndex:idx_basket_family_month" json:"family_id" binding:"required"`
	Family         *Family          `json:"family,omitempty"`
	ReferenceYear  int              `gorm:"not null;uniqueIndex:idx_basket_family_month" json:"reference_year" binding:"required"`
	ReferenceMonth int              `gorm:"not null;uniqueIndex:idx_basket_family_month" json:"reference_month" binding:"required"`
	Status         FoodBasketStatus `gorm:"size:20;not null;default:'SCHEDULED'" json:"status"`
	DeliveredAt    *time.Time       `json:"delivered_at"`
	Notes          string           `gorm:"type:text" json:"notes"`
	CreatedAt      time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewFoodBasket struct {
	FamilyId       int    `json:"family_id" binding:"required"`
	ReferenceYear  int    `json:"reference_year" binding:"required"`
	ReferenceMonth int    `json:"reference_month" binding:"required,min=1,max=12"`
	Notes          string `json:"notes"`
}

func CreateFoodBasket(ctx context.Context, input NewFoodBasket) (*FoodBasket, error) {
	db := config.GetDB()

	if input.ReferenceMonth < 1 || input.ReferenceMonth > 12 {
		return nil, errors.New("reference month must be between 1 and 12")
	}
	if err := requireMonthOpen(ctx, input.ReferenceYear, input.ReferenceMonth); err != nil {
		return nil, err
	}
	if err := familyExists(ctx, input.FamilyId); err != nil {
		return nil, err
	}

	count, err := utils.ResourceCountWhere[FoodBasket](ctx,
		"family_id = ? AND reference_year = ? AND reference_month = ?",
		input.FamilyId, input.ReferenceYear, input.ReferenceMonth)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("family already has a basket for this month")
	}

	basket := FoodBasket{
		FamilyId:       input.FamilyId,
		ReferenceYear:  input.ReferenceYear,
		ReferenceMonth: input.ReferenceMonth,
		Status:         FoodBasketScheduled,
		Notes:          input.Notes,
	}
	if err := db.WithContext(ctx).Create(&basket).Error; err != nil {
		return nil, err
	}
	return &basket, nil
}

func GetFoodBasket(ctx context.Context, id int) (*FoodBasket, error) {
	return utils.FetchModel[FoodBasket](ctx, id, "Family")
}

// MarkFoodBasketDelivered transitions SCHEDULED -> DELIVERED and stamps the
// delivery moment. Delivered and cancelled baskets are terminal.
func MarkFoodBasketDelivered(ctx context.Context, id int, deliveredAt time.Time) (*FoodBasket, error) {
	db := config.GetDB()

	basket, err := utils.FetchModel[FoodBasket](ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireMonthOpen(ctx, basket.ReferenceYear, basket.ReferenceMonth); err != nil {
		return nil, err
	}
	if basket.Status != FoodBasketScheduled {
		return nil, errors.New("only scheduled baskets can be delivered")
	}

	basket.Status = FoodBasketDelivered
	basket.DeliveredAt = &deliveredAt
	if err := db.WithContext(ctx).Save(basket).Error; err != nil {
		return nil, err
	}
	return basket, nil
}

func CancelFoodBasket(ctx context.Context, id int) (*FoodBasket, error) {
	db := config.GetDB()

	basket, err := utils.FetchModel[FoodBasket](ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireMonthOpen(ctx, basket.ReferenceYear, basket.ReferenceMonth); err != nil {
		return nil, err
	}
	if basket.Status != FoodBasketScheduled {
		return nil, errors.New("only scheduled baskets can be cancelled")
	}

	basket.Status = FoodBasketCancelled
	if err := db.WithContext(ctx).Save(basket).Error; err != nil {
		return nil, err
	}
	return basket, nil
}

func ListFoodBasketsByMonth(ctx context.Context, year int, month int) ([]FoodBasket, error) {
	db := config.GetDB()
	var baskets []FoodBasket
	err := db.WithContext(ctx).Preload("Family").
		Where("reference_year = ? AND reference_month = ?", year, month).
		Order("id ASC").
		Find(&baskets).Error
	return baskets, err
}

// deliveredBaskets narrows a basket query to delivery evidence. Only
// DELIVERED rows count as deliveries; scheduled and cancelled baskets never
// feed the eligibility rules or the snapshot.
func deliveredBaskets(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", FoodBasketDelivered)
}

func CountDeliveredBasketsInMonth(ctx context.Context, year int, month int) (int64, error) {
	db := config.GetDB()
	var count int64
	err := deliveredBaskets(db.WithContext(ctx).Model(&FoodBasket{})).
		Where("reference_year = ? AND reference_month = ?", year, month).
		Count(&count).Error
	return count, err
}

// CountFamilyBasketsInMonth counts delivered baskets for the monthly limit
// rule.
func CountFamilyBasketsInMonth(ctx context.Context, familyId int, year int, month int) (int64, error) {
	db := config.GetDB()
	var count int64
	err := deliveredBaskets(db.WithContext(ctx).Model(&FoodBasket{})).
		Where("family_id = ? AND reference_year = ? AND reference_month = ?", familyId, year, month).
		Count(&count).Error
	return count, err
}

// LatestBasketIndexForFamily returns the family's most recent delivered
// basket month index (year*12 + month), nil when the family never received
// one.
func LatestBasketIndexForFamily(ctx context.Context, familyId int) (*int, error) {
	db := config.GetDB()
	var result struct {
		MaxIndex *int
	}
	err := deliveredBaskets(db.WithContext(ctx).Model(&FoodBasket{})).
		Select("MAX(reference_year * 12 + reference_month) AS max_index").
		Where("family_id = ?", familyId).
		Scan(&result).Error
	if err != nil {
		return nil, err
	}
	return result.MaxIndex, nil
}

// LatestBasketIndexByFamily returns, per family, the most recent month index
// (year*12 + month) carrying a delivered basket.
func LatestBasketIndexByFamily(ctx context.Context) (map[int]int, error) {
	db := config.GetDB()
	type row struct {
		FamilyId int
		MaxIndex int
	}
	var rows []row
	err := deliveredBaskets(db.WithContext(ctx).Model(&FoodBasket{})).
		Select("family_id, MAX(reference_year * 12 + reference_month) AS max_index").
		Group("family_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[int]int, len(rows))
	for _, r := range rows {
		out[r.FamilyId] = r.MaxIndex
	}
	return out, nil
}

// FamilyBasketCountsInMonth returns delivered basket counts per family for
// one month, for the list-eligibility path.
func FamilyBasketCountsInMonth(ctx context.Context, year int, month int) (map[int]int, error) {
	db := config.GetDB()
	type row struct {
		FamilyId int
		Total    int
	}
	var rows []row
	err := deliveredBaskets(db.WithContext(ctx).Model(&FoodBasket{})).
		Select("family_id, COUNT(*) AS total").
		Where("reference_year = ? AND reference_month = ?", year, month).
		Group("family_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[int]int, len(rows))
	for _, r := range rows {
		out[r.FamilyId] = r.Total
	}
	return out, nil
}
