package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel provides shared columns for persisted rows.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate ensures UUIDs are generated for new records.
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// SessionCookie is a server-issued cookie kept across console restarts.
type SessionCookie struct {
	BaseModel
	Origin    string     `gorm:"index:idx_session_cookie,unique" json:"origin"`
	Name      string     `gorm:"index:idx_session_cookie,unique" json:"name"`
	Value     string     `json:"-"`
	ExpiresAt *time.Time `json:"expires_at"`
}
