package models

import (
	"context"
	"errors"
	"time"

	"github.com/Dev-RuiDiniz/igreja_dashboard_backend/config"
	"github.com/Dev-RuiDiniz/igreja_dashboard_backend/utils"
	"gorm.io/gorm"
)

type VisitRequest struct {
	ID            int                `gorm:"primary_key" json:"id"`
	FamilyId      int                `gorm:"index;not null" json:"family_id" binding:"required"`
	Family        *Family            `json:"family,omitempty"`
	Reason        string             `gorm:"type:text" json:"reason"`
	ScheduledDate *time.Time         `json:"scheduled_date"`
	Status        VisitRequestStatus `gorm:"size:20;not null;default:'PENDING'" json:"status"`
	Execution     *VisitExecution    `json:"execution,omitempty"`
	CreatedAt     time.Time          `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time          `gorm:"autoUpdateTime" json:"updated_at"`
}

type VisitExecution struct {
	ID             int                  `gorm:"primary_key" json:"id"`
	VisitRequestId int                  `gorm:"uniqueIndex;not null" json:"visit_request_id"`
	VisitedAt      time.Time            `gorm:"not null" json:"visited_at"`
	Result         VisitExecutionResult `gorm:"size:20;not null" json:"result"`
	Report         string               `gorm:"type:text" json:"report"`
	VisitedBy      string               `gorm:"size:150" json:"visited_by"`
	CreatedAt      time.Time            `gorm:"autoCreateTime" json:"created_at"`
}

type NewVisitRequest struct {
	FamilyId      int        `json:"family_id" binding:"required"`
	Reason        string     `json:"reason"`
	ScheduledDate *time.Time `json:"scheduled_date"`
}

func CreateVisitRequest(ctx context.Context, input NewVisitRequest) (*VisitRequest, error) {
	db := config.GetDB()

	if err := familyExists(ctx, input.FamilyId); err != nil {
		return nil, err
	}

	if input.ScheduledDate != nil {
		if err := requireDateOpen(ctx, *input.ScheduledDate); err != nil {
			return nil, err
		}
	}

	status := VisitRequestPending
	if input.ScheduledDate != nil {
		status = VisitRequestScheduled
	}
	request := VisitRequest{
		FamilyId:      input.FamilyId,
		Reason:        input.Reason,
		ScheduledDate: input.ScheduledDate,
		Status:        status,
	}
	if err := db.WithContext(ctx).Create(&request).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

func GetVisitRequest(ctx context.Context, id int) (*VisitRequest, error) {
	return utils.FetchModel[VisitRequest](ctx, id, "Family", "Execution")
}

func ScheduleVisit(ctx context.Context, id int, scheduledDate time.Time) (*VisitRequest, error) {
	db := config.GetDB()

	request, err := utils.FetchModel[VisitRequest](ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireDateOpen(ctx, scheduledDate); err != nil {
		return nil, err
	}
	if request.Status == VisitRequestDone || request.Status == VisitRequestCancelled {
		return nil, errors.New("visit request is already finished")
	}

	request.ScheduledDate = &scheduledDate
	request.Status = VisitRequestScheduled
	if err := db.WithContext(ctx).Save(request).Error; err != nil {
		return nil, err
	}
	return request, nil
}

type NewVisitExecution struct {
	VisitedAt *time.Time           `json:"visited_at"`
	Result    VisitExecutionResult `json:"result" binding:"required"`
	Report    string               `json:"report"`
	VisitedBy string               `json:"visited_by"`
}

// RecordVisitExecution closes a visit with its outcome. Requests carry at
// most one execution; rescheduled visits go back to SCHEDULED.
func RecordVisitExecution(ctx context.Context, requestId int, input NewVisitExecution) (*VisitExecution, error) {
	db := config.GetDB()

	request, err := utils.FetchModel[VisitRequest](ctx, requestId)
	if err != nil {
		return nil, err
	}
	if request.Status == VisitRequestDone || request.Status == VisitRequestCancelled {
		return nil, errors.New("visit request is already finished")
	}

	count, err := utils.ResourceCountWhere[VisitExecution](ctx, "visit_request_id = ?", requestId)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("visit already has an execution record")
	}

	switch input.Result {
	case VisitResultCompleted, VisitResultAbsent, VisitResultRescheduled:
	default:
		return nil, errors.New("invalid visit result")
	}

	visitedAt := time.Now()
	if input.VisitedAt != nil {
		visitedAt = *input.VisitedAt
	}
	if err := requireDateOpen(ctx, visitedAt); err != nil {
		return nil, err
	}

	execution := VisitExecution{
		VisitRequestId: requestId,
		VisitedAt:      visitedAt,
		Result:         input.Result,
		Report:         input.Report,
		VisitedBy:      input.VisitedBy,
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&execution).Error; err != nil {
			return err
		}
		nextStatus := VisitRequestDone
		if input.Result == VisitResultRescheduled {
			nextStatus = VisitRequestScheduled
		}
		return tx.Model(&VisitRequest{}).Where("id = ?", requestId).Update("status", nextStatus).Error
	})
	if err != nil {
		return nil, err
	}
	return &execution, nil
}

func CancelVisitRequest(ctx context.Context, id int) error {
	db := config.GetDB()
	request, err := utils.FetchModel[VisitRequest](ctx, id)
	if err != nil {
		return err
	}
	if request.ScheduledDate != nil {
		if err := requireDateOpen(ctx, *request.ScheduledDate); err != nil {
			return err
		}
	}
	result := db.WithContext(ctx).Model(&VisitRequest{}).
		Where("id = ? AND status IN ?", id, []VisitRequestStatus{VisitRequestPending, VisitRequestScheduled}).
		Update("status", VisitRequestCancelled)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("visit request cannot be cancelled")
	}
	return nil
}

func ListVisitRequests(ctx context.Context, status VisitRequestStatus) ([]VisitRequest, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Preload("Family").Preload("Execution")
	if status != "" {
		dbCtx = dbCtx.Where("status = ?", status)
	}
	var requests []VisitRequest
	err := dbCtx.Order("created_at DESC").Find(&requests).Error
	return requests, err
}

func CountVisitsScheduledInMonth(ctx context.Context, year int, month int) (int64, error) {
	db := config.GetDB()
	var count int64
	err := db.WithContext(ctx).Model(&VisitRequest{}).
		Where("scheduled_date IS NOT NULL AND YEAR(scheduled_date) = ? AND MONTH(scheduled_date) = ?", year, month).
		Count(&count).Error
	return count, err
}

func CountPendingVisitsInMonth(ctx context.Context, year int, month int) (int64, error) {
	db := config.GetDB()
	var count int64
	err := db.WithContext(ctx).Model(&VisitRequest{}).
		Where("status = ? AND YEAR(created_at) = ? AND MONTH(created_at) = ?", VisitRequestPending, year, month).
		Count(&count).Error
	return count, err
}

func CountVisitsExecutedInMonth(ctx context.Context, year int, month int) (int64, error) {
	db := config.GetDB()
	var count int64
	err := db.WithContext(ctx).Model(&VisitExecution{}).
		Where("YEAR(visited_at) = ? AND MONTH(visited_at) = ?", year, month).
		Count(&count).Error
	return count, err
}
