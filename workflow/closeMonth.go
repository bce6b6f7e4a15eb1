package workflow

import (
	"context"
	"errors"
	"time"

	"github.com/Dev-RuiDiniz/igreja_dashboard_backend/config"
	"github.com/Dev-RuiDiniz/igreja_dashboard_backend/models"
	"github.com/Dev-RuiDiniz/igreja_dashboard_backend/models/reports"
	"github.com/Dev-RuiDiniz/igreja_dashboard_backend/utils"
	"gorm.io/gorm"
)

var ErrReopenForbidden = errors.New("reopening a closed month is not supported")

// CloseMonth freezes a period: builds the snapshot, renders and stores the
// artifact, then flips the closure CLOSED with a conditional update so two
// concurrent close requests cannot both win. The snapshot persisted here is
// never recomputed, even if rules or rows change later.
func CloseMonth(ctx context.Context, year int, month int, renderer reports.Renderer) (*models.MonthlyClosure, error) {

	if month < 1 || month > 12 {
		return nil, models.ErrInvalidMonth
	}
	if closed, err := models.IsMonthClosed(ctx, year, month); err != nil {
		return nil, err
	} else if closed {
		return nil, models.ErrMonthAlreadyClosed
	}

	userId, _ := utils.GetUserIdFromContext(ctx)

	snapshot, err := BuildMonthlySnapshot(ctx, year, month, userId)
	if err != nil {
		return nil, err
	}
	snapshotJson, err := utils.MarshalToJSON(snapshot)
	if err != nil {
		return nil, err
	}

	document := reports.MonthlyClosureDocument(snapshot, year, month)
	rendered, err := renderer.Render(document)
	if err != nil {
		return nil, err
	}

	reportPath := utils.MonthlyReportPath(year, month)
	closedAt := time.Now()
	db := config.GetDB()
	var closure *models.MonthlyClosure
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		closure, err = models.GetOrCreateMonthlyClosure(tx, year, month)
		if err != nil {
			return err
		}
		if err := models.MarkClosureClosed(tx, closure.ID, snapshotJson, reportPath, userId, closedAt); err != nil {
			return err
		}
		// The artifact is written only after winning the OPEN -> CLOSED
		// transition, so a losing concurrent close never touches the file.
		if _, err := utils.SaveReportBytes(ctx, reportPath, rendered, true); err != nil {
			return err
		}
		return models.LogAction(tx, models.AuditActionMonthClose, "monthly_closure", closure.ID, map[string]interface{}{
			"month":       month,
			"year":        year,
			"report_path": reportPath,
		})
	})
	if err != nil {
		return nil, err
	}

	return models.GetMonthlyClosure(ctx, year, month)
}

// ReopenMonth always refuses. Closed periods stay closed for every caller,
// admins included.
func ReopenMonth(ctx context.Context, year int, month int) error {
	if month < 1 || month > 12 {
		return models.ErrInvalidMonth
	}
	return ErrReopenForbidden
}
