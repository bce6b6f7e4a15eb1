package models

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/Dev-RuiDiniz/igreja_dashboard_backend/config"
	"github.com/Dev-RuiDiniz/igreja_dashboard_backend/utils"
	"gorm.io/gorm"
)

type AuditLog struct {
	ID            int       `gorm:"primary_key" json:"id"`
	Action        string    `gorm:"size:64;index;not null" json:"action"`
	EntityType    string    `gorm:"size:64;index" json:"entity_type"`
	EntityId      int       `gorm:"index" json:"entity_id"`
	Payload       string    `gorm:"type:text" json:"payload"`
	UserId        int       `gorm:"index" json:"user_id"`
	UserName      string    `gorm:"size:100" json:"user_name"`
	CorrelationId string    `gorm:"size:64;index" json:"correlation_id"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// sensitivePayloadKeys are dropped from audit payloads before persisting.
var sensitivePayloadKeys = []string{"password", "senha", "token", "authorization", "secret"}

// SanitizeAuditPayload removes credential-like keys and masks CPF values so
// the audit trail never stores secrets or full document numbers.
func SanitizeAuditPayload(payload map[string]interface{}) map[string]interface{} {
	if payload == nil {
		return nil
	}
	out := make(map[string]interface{}, len(payload))
	for key, value := range payload {
		lower := strings.ToLower(key)
		sensitive := false
		for _, blocked := range sensitivePayloadKeys {
			if strings.Contains(lower, blocked) {
				sensitive = true
				break
			}
		}
		if sensitive {
			continue
		}
		if strings.Contains(lower, "cpf") {
			if s, ok := value.(string); ok {
				out[key] = utils.MaskCPF(s)
				continue
			}
		}
		if nested, ok := value.(map[string]interface{}); ok {
			out[key] = SanitizeAuditPayload(nested)
			continue
		}
		out[key] = value
	}
	return out
}

// LogAction writes an audit entry inside the caller's transaction. Identity
// and correlation id come from the request context; missing identity does not
// block the business write.
func LogAction(tx *gorm.DB, action string, entityType string, entityId int, payload map[string]interface{}) error {

	ctx := tx.Statement.Context

	entry := AuditLog{
		Action:     action,
		EntityType: entityType,
		EntityId:   entityId,
	}
	if userId, ok := utils.GetUserIdFromContext(ctx); ok {
		entry.UserId = userId
	}
	if userName, ok := utils.GetUserNameFromContext(ctx); ok {
		entry.UserName = userName
	}
	if correlationId, ok := utils.GetCorrelationIdFromContext(ctx); ok {
		entry.CorrelationId = correlationId
	}

	if payload != nil {
		b, err := json.Marshal(SanitizeAuditPayload(payload))
		if err != nil {
			return err
		}
		entry.Payload = string(b)
	}

	return tx.Create(&entry).Error
}

// LogActionStandalone audits outside a transaction (login, settings reads).
func LogActionStandalone(ctx context.Context, action string, entityType string, entityId int, payload map[string]interface{}) error {
	db := config.GetDB()
	return LogAction(db.WithContext(ctx), action, entityType, entityId, payload)
}

type AuditLogFilter struct {
	Action     string
	EntityType string
	EntityId   int
	Limit      int
	Offset     int
}

func ListAuditLogs(ctx context.Context, filter AuditLogFilter) ([]AuditLog, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Model(&AuditLog{})
	if filter.Action != "" {
		dbCtx = dbCtx.Where("action = ?", filter.Action)
	}
	if filter.EntityType != "" {
		dbCtx = dbCtx.Where("entity_type = ?", filter.EntityType)
	}
	if filter.EntityId > 0 {
		dbCtx = dbCtx.Where("entity_id = ?", filter.EntityId)
	}
	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var logs []AuditLog
	err := dbCtx.Order("created_at DESC, id DESC").Limit(limit).Offset(filter.Offset).Find(&logs).Error
	return logs, err
}
