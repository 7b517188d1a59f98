package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditLog records one card exchange or leave adjustment. It lives in
// Postgres, not in the document store, so the trail survives document
// rewrites and stays queryable per business.
type AuditLog struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	BusinessID   string    `gorm:"type:varchar(64);not null;index" json:"business_id"`
	CustomerID   string    `gorm:"type:varchar(64);index" json:"customer_id"`
	Action       string    `gorm:"type:varchar(100);not null;index" json:"action"`
	ResourceID   string    `gorm:"type:varchar(255);index" json:"resource_id"`
	Status       string    `gorm:"type:varchar(20);index" json:"status"` // success, failure
	ErrorMessage string    `gorm:"type:text" json:"error_message,omitempty"`
	Duration     int64     `json:"duration_ms"` // milliseconds
	CreatedAt    time.Time `gorm:"index" json:"timestamp"`
}

// TableName overrides the table name
func (AuditLog) TableName() string {
	return "audit_logs"
}

// BeforeCreate hook
func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
