package entity

import "time"

// SessionMember links a student to a class session they joined.
// Composite primary key keeps the join idempotent at the store level;
// JoinedAt provides the deterministic roster order used by scoring.
type SessionMember struct {
	ClassSessionID uint      `gorm:"primaryKey" json:"class_session_id"`
	UserID         uint      `gorm:"primaryKey" json:"user_id"`
	JoinedAt       time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"joined_at"`
}

func (SessionMember) TableName() string {
	return "session_members"
}
