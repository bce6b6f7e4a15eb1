package utils

import (
	"context"

	"github.com/Dev-RuiDiniz/igreja_dashboard_backend/config"
)

/* DB fetching */

// fetch model from db
// (may return RecordNotFound)
func FetchModel[T any](ctx context.Context, id int, associations ...string) (*T, error) {

	db := config.GetDB()
	dbCtx := db.WithContext(ctx)
	// preloading
	for _, field := range associations {
		dbCtx = dbCtx.Preload(field)
	}
	var result T
	err := dbCtx.First(&result, id).Error
	if err != nil {
		return nil, ErrorRecordNotFound
	}
	return &result, nil
}

// check if id exists, return RecordNotFound error otherwise
func ValidateResourceId[T any](ctx context.Context, id interface{}) error {

	count, err := ResourceCountWhere[T](ctx, "id = ?", id)
	if err != nil {
		return err
	}
	if count <= 0 {
		return ErrorRecordNotFound
	}

	return nil
}

func ResourceCountWhere[T any](ctx context.Context, cond string, values ...interface{}) (int64, error) {

	db := config.GetDB()
	var count int64
	var model T
	if err := db.WithContext(ctx).Model(&model).Where(cond, values...).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// validate unique column value, ignoring row `id` when id > 0 (updates)
func ValidateUnique[T any](ctx context.Context, column string, value interface{}, id int) error {

	db := config.GetDB()
	var count int64
	var model T
	dbCtx := db.WithContext(ctx).Model(&model).Where(column+" = ?", value)
	if id > 0 {
		dbCtx = dbCtx.Where("id <> ?", id)
	}
	if err := dbCtx.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrorDuplicateValue(column)
	}
	return nil
}
