package model

import "time"

// DutySlot 轮值单元：更衣室值日是一个周区间（kind=locker，默认3个名额），
// 洗球衣是一个比赛日（kind=wash，默认1个名额）。容量语义与 Offer 一致。
type DutySlot struct {
	ID             uint64    `gorm:"primaryKey"`
	TeamID         uint64    `gorm:"not null;index"`
	Kind           GroupKind `gorm:"size:16;not null;index;uniqueIndex:uk_slot_range"`
	StartDate      string    `gorm:"size:10;not null;uniqueIndex:uk_slot_range"` // "2006-01-02"
	EndDate        string    `gorm:"size:10;not null;uniqueIndex:uk_slot_range"` // wash 时与 StartDate 相同
	SlotsTotal     int       `gorm:"not null"`
	SlotsAvailable int       `gorm:"not null"`
	CreatedBy      uint64    `gorm:"not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
