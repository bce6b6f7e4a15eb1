package workflow

import (
	"context"
	"time"

	"github.com/Dev-RuiDiniz/igreja_dashboard_backend/models"
)

// RequireMonthOpen rejects writes into a closed period. Callers key this by
// the record's own date, not the wall clock, so backdated edits are blocked
// by the period they belong to.
func RequireMonthOpen(ctx context.Context, year int, month int) error {
	closed, err := models.IsMonthClosed(ctx, year, month)
	if err != nil {
		return err
	}
	if closed {
		return models.ErrMonthClosed
	}
	return nil
}

func RequireDateOpen(ctx context.Context, date time.Time) error {
	return RequireMonthOpen(ctx, date.Year(), int(date.Month()))
}
