package models

import (
	"context"
	"errors"
	"time"

	"github.com/Dev-RuiDiniz/igreja_dashboard_backend/config"
	"gorm.io/gorm"
)

var (
	ErrInvalidMonth       = errors.New("month must be between 1 and 12")
	ErrMonthClosed        = errors.New("month is closed for changes")
	ErrMonthAlreadyClosed = errors.New("month is already closed")
	ErrMonthNotClosed     = errors.New("month is not closed")
	ErrClosureNotFound    = errors.New("monthly closure not found")
)

// MonthlyClosure freezes one calendar month. Status only moves OPEN -> CLOSED;
// there is no reopen path. The sha256 column is non-null exactly when the
// official artifact path is, enforced at the database too.
type MonthlyClosure struct {
	ID     int                  `gorm:"primary_key" json:"id"`
	Month  int                  `gorm:"not null;uniqueIndex:idx_closure_month_year;check:month >= 1 AND month <= 12" json:"month"`
	Year   int                  `gorm:"not null;uniqueIndex:idx_closure_month_year" json:"year"`
	Status MonthlyClosureStatus `gorm:"size:10;not null;default:'OPEN'" json:"status"`

	SummarySnapshotJson string `gorm:"type:text" json:"summary_snapshot_json,omitempty"`
	PdfReportPath       string `gorm:"size:255" json:"pdf_report_path"`

	OfficialSnapshotJson   string     `gorm:"type:text" json:"official_snapshot_json,omitempty"`
	OfficialPdfPath        string     `gorm:"size:255;check:(official_pdf_path = '') = (official_pdf_sha256 = '')" json:"official_pdf_path"`
	OfficialPdfSha256      string     `gorm:"size:64;check:official_pdf_sha256 = '' OR LENGTH(official_pdf_sha256) = 64" json:"official_pdf_sha256"`
	OfficialSignedByUserId int        `json:"official_signed_by_user_id"`
	OfficialSignedAt       *time.Time `json:"official_signed_at"`

	ClosedByUserId int        `json:"closed_by_user_id"`
	ClosedAt       *time.Time `json:"closed_at"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func validatePeriod(year int, month int) error {
	if month < 1 || month > 12 {
		return ErrInvalidMonth
	}
	return nil
}

// GetMonthlyClosure finds the closure row for a period, ErrClosureNotFound
// when the month was never touched.
func GetMonthlyClosure(ctx context.Context, year int, month int) (*MonthlyClosure, error) {
	if err := validatePeriod(year, month); err != nil {
		return nil, err
	}
	db := config.GetDB()
	var closure MonthlyClosure
	err := db.WithContext(ctx).Where("year = ? AND month = ?", year, month).First(&closure).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClosureNotFound
		}
		return nil, err
	}
	return &closure, nil
}

// GetOrCreateMonthlyClosure returns the period's row, creating it OPEN when
// missing. A concurrent create loses the unique-index race and re-reads.
func GetOrCreateMonthlyClosure(tx *gorm.DB, year int, month int) (*MonthlyClosure, error) {
	if err := validatePeriod(year, month); err != nil {
		return nil, err
	}

	var closure MonthlyClosure
	err := tx.Where("year = ? AND month = ?", year, month).First(&closure).Error
	if err == nil {
		return &closure, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	closure = MonthlyClosure{Month: month, Year: year, Status: MonthlyClosureOpen}
	if err := tx.Create(&closure).Error; err != nil {
		if retryErr := tx.Where("year = ? AND month = ?", year, month).First(&closure).Error; retryErr == nil {
			return &closure, nil
		}
		return nil, err
	}
	return &closure, nil
}

// IsMonthClosed reports whether a period is frozen. Unknown periods are open.
func IsMonthClosed(ctx context.Context, year int, month int) (bool, error) {
	closure, err := GetMonthlyClosure(ctx, year, month)
	if err != nil {
		if errors.Is(err, ErrClosureNotFound) {
			return false, nil
		}
		return false, err
	}
	return closure.Status == MonthlyClosureClosed, nil
}

// requireMonthOpen guards date-bound writes. Each mutator keys it by the
// record's own date so backdated edits are blocked by the period they belong
// to, not the period the edit happens in.
func requireMonthOpen(ctx context.Context, year int, month int) error {
	closed, err := IsMonthClosed(ctx, year, month)
	if err != nil {
		return err
	}
	if closed {
		return ErrMonthClosed
	}
	return nil
}

func requireDateOpen(ctx context.Context, t time.Time) error {
	return requireMonthOpen(ctx, t.Year(), int(t.Month()))
}

// MarkClosureClosed performs the one-way OPEN -> CLOSED transition with a
// conditional update. RowsAffected == 0 means another caller already closed
// the month; the snapshot and artifact columns are written in the same
// statement so a closed row is always complete.
func MarkClosureClosed(tx *gorm.DB, closureId int, snapshotJson string, reportPath string, closedBy int, closedAt time.Time) error {
	result := tx.Model(&MonthlyClosure{}).
		Where("id = ? AND status = ?", closureId, MonthlyClosureOpen).
		Updates(map[string]interface{}{
			"status":                MonthlyClosureClosed,
			"summary_snapshot_json": snapshotJson,
			"pdf_report_path":       reportPath,
			"closed_by_user_id":     closedBy,
			"closed_at":             closedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMonthAlreadyClosed
	}
	return nil
}

// SetOfficialReport stores the official artifact columns atomically. The
// guard on official_pdf_path blocks silent regeneration: an existing artifact
// is only replaced when allowOverwrite is set.
func SetOfficialReport(tx *gorm.DB, closureId int, snapshotJson string, pdfPath string, pdfSha256 string, signedBy int, signedAt time.Time, allowOverwrite bool) error {
	query := tx.Model(&MonthlyClosure{}).
		Where("id = ? AND status = ?", closureId, MonthlyClosureClosed)
	if !allowOverwrite {
		query = query.Where("official_pdf_path = ''")
	}
	result := query.Updates(map[string]interface{}{
		"official_snapshot_json":     snapshotJson,
		"official_pdf_path":          pdfPath,
		"official_pdf_sha256":        pdfSha256,
		"official_signed_by_user_id": signedBy,
		"official_signed_at":         signedAt,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOfficialReportImmutable
	}
	return nil
}

var ErrOfficialReportImmutable = errors.New("official report already generated for this month")

func ListMonthlyClosures(ctx context.Context, year int) ([]MonthlyClosure, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Model(&MonthlyClosure{})
	if year > 0 {
		dbCtx = dbCtx.Where("year = ?", year)
	}
	var closures []MonthlyClosure
	err := dbCtx.Order("year DESC, month DESC").Find(&closures).Error
	return closures, err
}
