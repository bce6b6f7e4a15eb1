package models

import (
	"context"
	"errors"
	"time"

	"github.com/Dev-RuiDiniz/igreja_dashboard_backend/config"
	"github.com/Dev-RuiDiniz/igreja_dashboard_backend/utils"
)

// Referral tracks a person routed to the public assistance network.
type Referral struct {
	ID           int            `gorm:"primary_key" json:"id"`
	PersonName   string         `gorm:"size:150;not null" json:"person_name" binding:"required"`
	FamilyId     *int           `gorm:"index" json:"family_id"`
	Target       ReferralTarget `gorm:"size:20;not null" json:"target" binding:"required"`
	ReferralDate time.Time      `gorm:"not null" json:"referral_date"`
	Status       ReferralStatus `gorm:"size:20;not null;default:'REFERRED'" json:"status"`
	Notes        string         `gorm:"type:text" json:"notes"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

// StreetService is one street outreach attendance record.
type StreetService struct {
	ID          int       `gorm:"primary_key" json:"id"`
	PersonName  string    `gorm:"size:150" json:"person_name"`
	ServiceDate time.Time `gorm:"not null;index" json:"service_date"`
	Location    string    `gorm:"size:255" json:"location"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type NewReferral struct {
	PersonName   string         `json:"person_name" binding:"required"`
	FamilyId     *int           `json:"family_id"`
	Target       ReferralTarget `json:"target" binding:"required"`
	ReferralDate *time.Time     `json:"referral_date"`
	Notes        string         `json:"notes"`
}

func CreateReferral(ctx context.Context, input NewReferral) (*Referral, error) {
	db := config.GetDB()

	switch input.Target {
	case ReferralCRAS, ReferralCAPS, ReferralUBS, ReferralShelter, ReferralOtherOrg:
	default:
		return nil, errors.New("invalid referral target")
	}
	if input.FamilyId != nil {
		if err := familyExists(ctx, *input.FamilyId); err != nil {
			return nil, err
		}
	}

	referralDate := time.Now()
	if input.ReferralDate != nil {
		referralDate = *input.ReferralDate
	}
	if err := requireDateOpen(ctx, referralDate); err != nil {
		return nil, err
	}

	referral := Referral{
		PersonName:   input.PersonName,
		FamilyId:     input.FamilyId,
		Target:       input.Target,
		ReferralDate: referralDate,
		Status:       ReferralReferred,
		Notes:        input.Notes,
	}
	if err := db.WithContext(ctx).Create(&referral).Error; err != nil {
		return nil, err
	}
	return &referral, nil
}

func UpdateReferralStatus(ctx context.Context, id int, status ReferralStatus) (*Referral, error) {
	db := config.GetDB()

	referral, err := utils.FetchModel[Referral](ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireDateOpen(ctx, referral.ReferralDate); err != nil {
		return nil, err
	}
	switch status {
	case ReferralReferred, ReferralFollowUp, ReferralCompleted, ReferralInterrupted:
	default:
		return nil, errors.New("invalid referral status")
	}
	if referral.Status == ReferralCompleted || referral.Status == ReferralInterrupted {
		return nil, errors.New("referral is already finished")
	}

	referral.Status = status
	if err := db.WithContext(ctx).Save(referral).Error; err != nil {
		return nil, err
	}
	return referral, nil
}

func ListReferrals(ctx context.Context, status ReferralStatus) ([]Referral, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Model(&Referral{})
	if status != "" {
		dbCtx = dbCtx.Where("status = ?", status)
	}
	var referrals []Referral
	err := dbCtx.Order("referral_date DESC").Find(&referrals).Error
	return referrals, err
}

func CountReferralsInMonth(ctx context.Context, year int, month int) (int64, error) {
	db := config.GetDB()
	var count int64
	err := db.WithContext(ctx).Model(&Referral{}).
		Where("YEAR(referral_date) = ? AND MONTH(referral_date) = ?", year, month).
		Count(&count).Error
	return count, err
}

// ReferralStatusCountsInMonth groups the month's referrals by status.
func ReferralStatusCountsInMonth(ctx context.Context, year int, month int) (map[string]int, error) {
	db := config.GetDB()
	type row struct {
		Status string
		Total  int
	}
	var rows []row
	err := db.WithContext(ctx).Model(&Referral{}).
		Select("status, COUNT(*) AS total").
		Where("YEAR(referral_date) = ? AND MONTH(referral_date) = ?", year, month).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int, len(rows))
	for _, r := range rows {
		out[r.Status] = r.Total
	}
	return out, nil
}

func CreateStreetService(ctx context.Context, input StreetService) (*StreetService, error) {
	db := config.GetDB()
	if input.ServiceDate.IsZero() {
		input.ServiceDate = time.Now()
	}
	if err := requireDateOpen(ctx, input.ServiceDate); err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Create(&input).Error; err != nil {
		return nil, err
	}
	return &input, nil
}

func ListStreetServicesByMonth(ctx context.Context, year int, month int) ([]StreetService, error) {
	db := config.GetDB()
	var services []StreetService
	err := db.WithContext(ctx).
		Where("YEAR(service_date) = ? AND MONTH(service_date) = ?", year, month).
		Order("service_date ASC").
		Find(&services).Error
	return services, err
}

func CountStreetServicesInMonth(ctx context.Context, year int, month int) (int64, error) {
	db := config.GetDB()
	var count int64
	err := db.WithContext(ctx).Model(&StreetService{}).
		Where("YEAR(service_date) = ? AND MONTH(service_date) = ?", year, month).
		Count(&count).Error
	return count, err
}

// CountPeopleFollowedInMonth counts distinct named people seen on the street
// during the month.
func CountPeopleFollowedInMonth(ctx context.Context, year int, month int) (int64, error) {
	db := config.GetDB()
	var count int64
	err := db.WithContext(ctx).Model(&StreetService{}).
		Where("YEAR(service_date) = ? AND MONTH(service_date) = ? AND person_name <> ''", year, month).
		Distinct("person_name").
		Count(&count).Error
	return count, err
}
