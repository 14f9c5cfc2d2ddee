package model

import "time"

// RosterOutbox 名额变更事件表，与成员变更同事务写入，由 relayer 异步投递。
type RosterOutbox struct {
	ID        uint64 `gorm:"primaryKey"`
	EventType string `gorm:"size:32;not null"` // joined / left / assigned / unassigned / group_deleted
	GroupKind string `gorm:"size:16;not null"`
	GroupID   uint64 `gorm:"not null"`
	UserID    uint64 `gorm:"not null"`
	Payload   string `gorm:"type:json;not null"`
	Status    int8   `gorm:"not null;default:0;comment:'0=pending,1=sent,2=failed'"`
	Retry     int    `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (RosterOutbox) TableName() string { return "roster_outbox" }
