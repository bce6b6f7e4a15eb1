package models

import (
	"context"
	"errors"
	"time"

	"github.com/Dev-RuiDiniz/igreja_dashboard_backend/config"
	"github.com/Dev-RuiDiniz/igreja_dashboard_backend/utils"
	"gorm.io/gorm"
)

type Equipment struct {
	ID          int                `gorm:"primary_key" json:"id"`
	Description string             `gorm:"size:150;not null" json:"description" binding:"required"`
	Type        EquipmentType      `gorm:"size:20;not null" json:"type" binding:"required"`
	Code        string             `gorm:"size:30;uniqueIndex" json:"code"`
	Status      EquipmentStatus    `gorm:"size:20;not null;default:'AVAILABLE'" json:"status"`
	Condition   EquipmentCondition `gorm:"size:20;not null;default:'GOOD'" json:"condition"`
	Notes       string             `gorm:"type:text" json:"notes"`
	CreatedAt   time.Time          `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time          `gorm:"autoUpdateTime" json:"updated_at"`
}

type Loan struct {
	ID          int        `gorm:"primary_key" json:"id"`
	EquipmentId int        `gorm:"index;not null" json:"equipment_id" binding:"required"`
	Equipment   *Equipment `json:"equipment,omitempty"`
	FamilyId    int        `gorm:"index;not null" json:"family_id" binding:"required"`
	Family      *Family    `json:"family,omitempty"`
	LoanDate    time.Time  `gorm:"not null" json:"loan_date"`
	DueDate     *time.Time `json:"due_date"`
	ReturnedAt  *time.Time `json:"returned_at"`
	Status      LoanStatus `gorm:"size:20;not null;default:'ACTIVE'" json:"status"`
	Notes       string     `gorm:"type:text" json:"notes"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func CreateEquipment(ctx context.Context, input Equipment) (*Equipment, error) {
	db := config.GetDB()
	if input.Status == "" {
		input.Status = EquipmentAvailable
	}
	if input.Condition == "" {
		input.Condition = EquipmentConditionGood
	}
	if input.Code != "" {
		if err := utils.ValidateUnique[Equipment](ctx, "code", input.Code, 0); err != nil {
			return nil, err
		}
	}
	if err := db.WithContext(ctx).Create(&input).Error; err != nil {
		return nil, err
	}
	return &input, nil
}

func GetEquipment(ctx context.Context, id int) (*Equipment, error) {
	return utils.FetchModel[Equipment](ctx, id)
}

func ListEquipment(ctx context.Context, status EquipmentStatus) ([]Equipment, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Model(&Equipment{})
	if status != "" {
		dbCtx = dbCtx.Where("status = ?", status)
	}
	var items []Equipment
	err := dbCtx.Order("description ASC").Find(&items).Error
	return items, err
}

type NewLoan struct {
	EquipmentId int        `json:"equipment_id" binding:"required"`
	FamilyId    int        `json:"family_id" binding:"required"`
	LoanDate    *time.Time `json:"loan_date"`
	DueDate     *time.Time `json:"due_date"`
	Notes       string     `json:"notes"`
}

// CreateLoan hands equipment to a family. The equipment row flips to LOANED
// in the same transaction so two concurrent loans cannot share one item.
func CreateLoan(ctx context.Context, input NewLoan) (*Loan, error) {
	db := config.GetDB()

	if err := familyExists(ctx, input.FamilyId); err != nil {
		return nil, err
	}

	loanDate := time.Now()
	if input.LoanDate != nil {
		loanDate = *input.LoanDate
	}
	if err := requireDateOpen(ctx, loanDate); err != nil {
		return nil, err
	}

	loan := Loan{
		EquipmentId: input.EquipmentId,
		FamilyId:    input.FamilyId,
		LoanDate:    loanDate,
		DueDate:     input.DueDate,
		Status:      LoanActive,
		Notes:       input.Notes,
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Equipment{}).
			Where("id = ? AND status = ?", input.EquipmentId, EquipmentAvailable).
			Update("status", EquipmentLoaned)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errors.New("equipment is not available")
		}
		return tx.Create(&loan).Error
	})
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// ReturnLoan closes an active loan and releases the equipment.
func ReturnLoan(ctx context.Context, loanId int, returnedAt time.Time, condition EquipmentCondition) (*Loan, error) {
	db := config.GetDB()

	loan, err := utils.FetchModel[Loan](ctx, loanId)
	if err != nil {
		return nil, err
	}
	if err := requireDateOpen(ctx, loan.LoanDate); err != nil {
		return nil, err
	}
	if loan.Status == LoanReturned {
		return nil, errors.New("loan is already returned")
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		loan.Status = LoanReturned
		loan.ReturnedAt = &returnedAt
		if err := tx.Save(loan).Error; err != nil {
			return err
		}
		updates := map[string]interface{}{"status": EquipmentAvailable}
		if condition != "" {
			updates["condition"] = condition
		}
		return tx.Model(&Equipment{}).Where("id = ?", loan.EquipmentId).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	return loan, nil
}

func ListLoans(ctx context.Context, status LoanStatus) ([]Loan, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Preload("Equipment").Preload("Family")
	if status != "" {
		dbCtx = dbCtx.Where("status = ?", status)
	}
	var loans []Loan
	err := dbCtx.Order("loan_date DESC").Find(&loans).Error
	return loans, err
}

// MarkOverdueLoans flips active loans past their due date to OVERDUE and
// returns how many rows changed.
func MarkOverdueLoans(ctx context.Context, now time.Time) (int64, error) {
	db := config.GetDB()
	result := db.WithContext(ctx).Model(&Loan{}).
		Where("status = ? AND due_date IS NOT NULL AND due_date < ?", LoanActive, now).
		Update("status", LoanOverdue)
	return result.RowsAffected, result.Error
}

func CountLoansStartedInMonth(ctx context.Context, year int, month int) (int64, error) {
	db := config.GetDB()
	var count int64
	err := db.WithContext(ctx).Model(&Loan{}).
		Where("YEAR(loan_date) = ? AND MONTH(loan_date) = ?", year, month).
		Count(&count).Error
	return count, err
}

func CountLoansReturnedInMonth(ctx context.Context, year int, month int) (int64, error) {
	db := config.GetDB()
	var count int64
	err := db.WithContext(ctx).Model(&Loan{}).
		Where("returned_at IS NOT NULL AND YEAR(returned_at) = ? AND MONTH(returned_at) = ?", year, month).
		Count(&count).Error
	return count, err
}

func CountActiveLoans(ctx context.Context) (int64, error) {
	return utils.ResourceCountWhere[Loan](ctx, "status IN ?", []LoanStatus{LoanActive, LoanOverdue})
}

// EquipmentStatusHistogram feeds the monthly snapshot breakdown.
func EquipmentStatusHistogram(ctx context.Context) (map[string]int, error) {
	db := config.GetDB()
	type row struct {
		Status string
		Total  int
	}
	var rows []row
	err := db.WithContext(ctx).Model(&Equipment{}).
		Select("status, COUNT(*) AS total").
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
