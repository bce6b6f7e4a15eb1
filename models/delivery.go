package models

import (
	"context"
	"crypto/rand"
	"errors"
	"strings"
	"time"

	"github.com/Dev-RuiDiniz/igreja_dashboard_backend/config"
	"github.com/Dev-RuiDiniz/igreja_dashboard_backend/utils"
	"gorm.io/gorm"
)

// DeliveryEvent is a distribution day. Families are invited, confirmed
// invites become withdrawals when the basket is actually handed over.
type DeliveryEvent struct {
	ID        int                 `gorm:"primary_key" json:"id"`
	Name      string              `gorm:"size:150;not null" json:"name" binding:"required"`
	EventDate time.Time           `gorm:"not null;index" json:"event_date" binding:"required"`
	Location  string              `gorm:"size:255" json:"location"`
	Status    DeliveryEventStatus `gorm:"size:20;not null;default:'OPEN'" json:"status"`
	Invites   []DeliveryInvite    `json:"invites,omitempty"`
	CreatedAt time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
}

type DeliveryInvite struct {
	ID             int                  `gorm:"primary_key" json:"id"`
	EventId        int                  `gorm:"not null;uniqueIndex:idx_invite_event_family" json:"event_id"`
	FamilyId       int                  `gorm:"not null;uniqueIndex:idx_invite_event_family" json:"family_id"`
	Family         *Family              `json:"family,omitempty"`
	Status         DeliveryInviteStatus `gorm:"size:20;not null;default:'PENDING'" json:"status"`
	WithdrawalCode string               `gorm:"size:6" json:"withdrawal_code"`
	CreatedAt      time.Time            `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time            `gorm:"autoUpdateTime" json:"updated_at"`
}

// DeliveryWithdrawal is the newer delivery-evidence source. One withdrawal
// per family per event.
type DeliveryWithdrawal struct {
	ID          int            `gorm:"primary_key" json:"id"`
	EventId     int            `gorm:"not null;uniqueIndex:idx_withdrawal_event_family" json:"event_id"`
	Event       *DeliveryEvent `json:"event,omitempty"`
	FamilyId    int            `gorm:"not null;uniqueIndex:idx_withdrawal_event_family;index" json:"family_id"`
	ConfirmedAt time.Time      `gorm:"not null;index" json:"confirmed_at"`
	ReceivedBy  string         `gorm:"size:150" json:"received_by"`
	Signature   string         `gorm:"type:text" json:"signature"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

// withdrawalCodeAlphabet omits characters easy to misread on a printed
// invite (0/O, 1/I).
const withdrawalCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const withdrawalCodeLength = 6

func newWithdrawalCode() (string, error) {
	buf := make([]byte, withdrawalCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i := range buf {
		buf[i] = withdrawalCodeAlphabet[int(buf[i])%len(withdrawalCodeAlphabet)]
	}
	return string(buf), nil
}

type NewDeliveryEvent struct {
	Name      string    `json:"name" binding:"required"`
	EventDate time.Time `json:"event_date" binding:"required"`
	Location  string    `json:"location"`
}

func CreateDeliveryEvent(ctx context.Context, input NewDeliveryEvent) (*DeliveryEvent, error) {
	db := config.GetDB()
	if err := requireDateOpen(ctx, input.EventDate); err != nil {
		return nil, err
	}
	event := DeliveryEvent{
		Name:      input.Name,
		EventDate: input.EventDate,
		Location:  input.Location,
		Status:    DeliveryEventOpen,
	}
	if err := db.WithContext(ctx).Create(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func GetDeliveryEvent(ctx context.Context, id int) (*DeliveryEvent, error) {
	return utils.FetchModel[DeliveryEvent](ctx, id, "Invites", "Invites.Family")
}

func CloseDeliveryEvent(ctx context.Context, id int) (*DeliveryEvent, error) {
	db := config.GetDB()
	event, err := utils.FetchModel[DeliveryEvent](ctx, id)
	if err != nil {
		return nil, err
	}
	if event.Status == DeliveryEventClosed {
		return nil, errors.New("event is already closed")
	}
	event.Status = DeliveryEventClosed
	if err := db.WithContext(ctx).Save(event).Error; err != nil {
		return nil, err
	}
	return event, nil
}

func InviteFamilyToEvent(ctx context.Context, eventId int, familyId int) (*DeliveryInvite, error) {
	db := config.GetDB()

	event, err := utils.FetchModel[DeliveryEvent](ctx, eventId)
	if err != nil {
		return nil, err
	}
	if err := requireDateOpen(ctx, event.EventDate); err != nil {
		return nil, err
	}
	if event.Status != DeliveryEventOpen {
		return nil, errors.New("event is not open for invites")
	}
	if err := familyExists(ctx, familyId); err != nil {
		return nil, err
	}

	count, err := utils.ResourceCountWhere[DeliveryInvite](ctx, "event_id = ? AND family_id = ?", eventId, familyId)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("family already invited to this event")
	}

	code, err := newWithdrawalCode()
	if err != nil {
		return nil, err
	}
	invite := DeliveryInvite{EventId: eventId, FamilyId: familyId, Status: DeliveryInvitePending, WithdrawalCode: code}
	if err := db.WithContext(ctx).Create(&invite).Error; err != nil {
		return nil, err
	}
	return &invite, nil
}

func SetInviteStatus(ctx context.Context, inviteId int, status DeliveryInviteStatus) (*DeliveryInvite, error) {
	db := config.GetDB()

	invite, err := utils.FetchModel[DeliveryInvite](ctx, inviteId)
	if err != nil {
		return nil, err
	}
	switch status {
	case DeliveryInviteConfirmed, DeliveryInviteDeclined, DeliveryInvitePending:
	default:
		return nil, errors.New("invalid invite status")
	}

	invite.Status = status
	if err := db.WithContext(ctx).Save(invite).Error; err != nil {
		return nil, err
	}
	return invite, nil
}

type NewWithdrawal struct {
	EventId        int        `json:"event_id" binding:"required"`
	FamilyId       int        `json:"family_id" binding:"required"`
	ConfirmedAt    *time.Time `json:"confirmed_at"`
	ReceivedBy     string     `json:"received_by"`
	WithdrawalCode string     `json:"withdrawal_code"`
	Signature      string     `json:"signature"`
}

// RegisterWithdrawal records the basket handover for a confirmed invite. The
// invite is flipped to CONFIRMED in the same transaction if still pending.
// When the caller presents a withdrawal code it must match the invite's.
func RegisterWithdrawal(ctx context.Context, input NewWithdrawal) (*DeliveryWithdrawal, error) {
	db := config.GetDB()

	event, err := utils.FetchModel[DeliveryEvent](ctx, input.EventId)
	if err != nil {
		return nil, err
	}
	if err := requireDateOpen(ctx, event.EventDate); err != nil {
		return nil, err
	}
	if err := familyExists(ctx, input.FamilyId); err != nil {
		return nil, err
	}

	if input.WithdrawalCode != "" {
		var invite DeliveryInvite
		err := db.WithContext(ctx).
			Where("event_id = ? AND family_id = ?", input.EventId, input.FamilyId).
			First(&invite).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errors.New("family has no invite for this event")
			}
			return nil, err
		}
		if !strings.EqualFold(invite.WithdrawalCode, strings.TrimSpace(input.WithdrawalCode)) {
			return nil, errors.New("withdrawal code does not match the invite")
		}
	}

	count, err := utils.ResourceCountWhere[DeliveryWithdrawal](ctx, "event_id = ? AND family_id = ?", input.EventId, input.FamilyId)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("withdrawal already registered for this family and event")
	}

	confirmedAt := time.Now()
	if input.ConfirmedAt != nil {
		confirmedAt = *input.ConfirmedAt
	}

	withdrawal := DeliveryWithdrawal{
		EventId:     input.EventId,
		FamilyId:    input.FamilyId,
		ConfirmedAt: confirmedAt,
		ReceivedBy:  input.ReceivedBy,
		Signature:   input.Signature,
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&withdrawal).Error; err != nil {
			return err
		}
		return tx.Model(&DeliveryInvite{}).
			Where("event_id = ? AND family_id = ? AND status = ?", input.EventId, input.FamilyId, DeliveryInvitePending).
			Update("status", DeliveryInviteConfirmed).Error
	})
	if err != nil {
		return nil, err
	}
	return &withdrawal, nil
}

func ListEventWithdrawals(ctx context.Context, eventId int) ([]DeliveryWithdrawal, error) {
	db := config.GetDB()
	var withdrawals []DeliveryWithdrawal
	err := db.WithContext(ctx).Where("event_id = ?", eventId).Order("confirmed_at ASC").Find(&withdrawals).Error
	return withdrawals, err
}

// LatestWithdrawalIndexForFamily returns the family's most recent withdrawal
// month index (year*12 + month), nil when no withdrawal exists.
func LatestWithdrawalIndexForFamily(ctx context.Context, familyId int) (*int, error) {
	db := config.GetDB()
	var result struct {
		MaxIndex *int
	}
	err := db.WithContext(ctx).Model(&DeliveryWithdrawal{}).
		Select("MAX(YEAR(confirmed_at) * 12 + MONTH(confirmed_at)) AS max_index").
		Where("family_id = ?", familyId).
		Scan(&result).Error
	if err != nil {
		return nil, err
	}
	return result.MaxIndex, nil
}

// CountFamilyWithdrawalsInMonth counts a family's withdrawals confirmed in
// one calendar month.
func CountFamilyWithdrawalsInMonth(ctx context.Context, familyId int, year int, month int) (int64, error) {
	db := config.GetDB()
	var count int64
	err := db.WithContext(ctx).Model(&DeliveryWithdrawal{}).
		Where("family_id = ? AND YEAR(confirmed_at) = ? AND MONTH(confirmed_at) = ?", familyId, year, month).
		Count(&count).Error
	return count, err
}

// LatestWithdrawalIndexByFamily returns, per family, the most recent month
// index (year*12 + month) with a confirmed withdrawal.
func LatestWithdrawalIndexByFamily(ctx context.Context) (map[int]int, error) {
	db := config.GetDB()
	type row struct {
		FamilyId int
		MaxIndex int
	}
	var rows []row
	err := db.WithContext(ctx).Model(&DeliveryWithdrawal{}).
		Select("family_id, MAX(YEAR(confirmed_at) * 12 + MONTH(confirmed_at)) AS max_index").
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

// FamilyWithdrawalCountsInMonth counts withdrawals per family within one
// calendar month, merged with basket counts for the monthly-limit rule.
func FamilyWithdrawalCountsInMonth(ctx context.Context, year int, month int) (map[int]int, error) {
	db := config.GetDB()
	type row struct {
		FamilyId int
		Total    int
	}
	var rows []row
	err := db.WithContext(ctx).Model(&DeliveryWithdrawal{}).
		Select("family_id, COUNT(*) AS total").
		Where("YEAR(confirmed_at) = ? AND MONTH(confirmed_at) = ?", year, month).
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

func CountWithdrawalsInMonth(ctx context.Context, year int, month int) (int64, error) {
	db := config.GetDB()
	var count int64
	err := db.WithContext(ctx).Model(&DeliveryWithdrawal{}).
		Where("YEAR(confirmed_at) = ? AND MONTH(confirmed_at) = ?", year, month).
		Count(&count).Error
	return count, err
}

// ListWithdrawalsForEventsInMonth returns withdrawals whose event happened in
// the target month. Snapshot builds key off the event date, not the moment
// the withdrawal was confirmed.
func ListWithdrawalsForEventsInMonth(ctx context.Context, year int, month int) ([]DeliveryWithdrawal, error) {
	db := config.GetDB()
	var withdrawals []DeliveryWithdrawal
	err := db.WithContext(ctx).Model(&DeliveryWithdrawal{}).
		Joins("JOIN delivery_events ON delivery_events.id = delivery_withdrawals.event_id").
		Where("YEAR(delivery_events.event_date) = ? AND MONTH(delivery_events.event_date) = ?", year, month).
		Find(&withdrawals).Error
	return withdrawals, err
}

func CountEventsInMonth(ctx context.Context, year int, month int) (int64, error) {
	db := config.GetDB()
	var count int64
	err := db.WithContext(ctx).Model(&DeliveryEvent{}).
		Where("YEAR(event_date) = ? AND MONTH(event_date) = ?", year, month).
		Count(&count).Error
	return count, err
}
