package models

import (
	"context"
	"errors"
	"time"

	"github.com/Dev-RuiDiniz/igreja_dashboard_backend/config"
	"github.com/Dev-RuiDiniz/igreja_dashboard_backend/utils"
	"gorm.io/gorm"
)

// SystemSettings is a single-row table holding the eligibility parameters.
// The row is created lazily with defaults on first read, so a fresh database
// behaves identically to one where an admin saved the defaults by hand.
type SystemSettings struct {
	ID                        int       `gorm:"primary_key" json:"id"`
	BasketLimitPerMonth       int       `gorm:"not null;default:1" json:"basket_limit_per_month"`
	MinMonthsBetweenBaskets   int       `gorm:"not null;default:2" json:"min_months_between_baskets"`
	MinVulnerabilityForBasket int       `gorm:"not null;default:2" json:"min_vulnerability_for_basket"`
	RequireCompleteDocs       bool      `gorm:"not null;default:true" json:"require_complete_docs"`
	UpdatedByUserId           int       `json:"updated_by_user_id"`
	CreatedAt                 time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt                 time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func defaultSystemSettings() SystemSettings {
	return SystemSettings{
		BasketLimitPerMonth:       1,
		MinMonthsBetweenBaskets:   2,
		MinVulnerabilityForBasket: 2,
		RequireCompleteDocs:       true,
	}
}

const systemSettingsCacheId = 1

// GetSystemSettings returns the settings row, creating it with defaults when
// missing. Reads go through redis when available.
func GetSystemSettings(ctx context.Context) (*SystemSettings, error) {
	if cached, err := utils.RetrieveRedis[SystemSettings](systemSettingsCacheId); err == nil && cached != nil {
		return cached, nil
	}

	db := config.GetDB()
	var settings SystemSettings
	err := db.WithContext(ctx).Order("id ASC").First(&settings).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		settings = defaultSystemSettings()
		if err := db.WithContext(ctx).Create(&settings).Error; err != nil {
			return nil, err
		}
	}

	_ = utils.StoreRedis[SystemSettings](&settings, systemSettingsCacheId)
	return &settings, nil
}

type UpdateSystemSettings struct {
	BasketLimitPerMonth       int  `json:"basket_limit_per_month" binding:"required,min=1,max=100"`
	MinMonthsBetweenBaskets   int  `json:"min_months_between_baskets" binding:"min=0,max=100"`
	MinVulnerabilityForBasket int  `json:"min_vulnerability_for_basket" binding:"min=0,max=4"`
	RequireCompleteDocs       bool `json:"require_complete_docs"`
}

// SaveSystemSettings applies an admin update, audits old vs new values and
// drops the cache.
func SaveSystemSettings(ctx context.Context, input UpdateSystemSettings) (*SystemSettings, error) {
	db := config.GetDB()

	settings, err := GetSystemSettings(ctx)
	if err != nil {
		return nil, err
	}

	before := map[string]interface{}{
		"basket_limit_per_month":       settings.BasketLimitPerMonth,
		"min_months_between_baskets":   settings.MinMonthsBetweenBaskets,
		"min_vulnerability_for_basket": settings.MinVulnerabilityForBasket,
		"require_complete_docs":        settings.RequireCompleteDocs,
	}

	settings.BasketLimitPerMonth = input.BasketLimitPerMonth
	settings.MinMonthsBetweenBaskets = input.MinMonthsBetweenBaskets
	settings.MinVulnerabilityForBasket = input.MinVulnerabilityForBasket
	settings.RequireCompleteDocs = input.RequireCompleteDocs
	if userId, ok := utils.GetUserIdFromContext(ctx); ok {
		settings.UpdatedByUserId = userId
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(settings).Error; err != nil {
			return err
		}
		return LogAction(tx, AuditActionSettingsUpdated, "system_settings", settings.ID, map[string]interface{}{
			"before": before,
			"after": map[string]interface{}{
				"basket_limit_per_month":       settings.BasketLimitPerMonth,
				"min_months_between_baskets":   settings.MinMonthsBetweenBaskets,
				"min_vulnerability_for_basket": settings.MinVulnerabilityForBasket,
				"require_complete_docs":        settings.RequireCompleteDocs,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	_ = utils.RemoveRedis[SystemSettings](systemSettingsCacheId)
	return settings, nil
}
