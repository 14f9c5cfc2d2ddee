package model

import "time"

type GroupKind string

const (
	GroupCarpool GroupKind = "carpool"
	GroupLocker  GroupKind = "locker"
	GroupWash    GroupKind = "wash"
)

// GroupTable 返回该类分组的容量所在表。
func (k GroupKind) GroupTable() string {
	if k == GroupCarpool {
		return "offers"
	}
	return "duty_slots"
}

// CounterColumn 值日类分组对应的用户计数列；拼车不计数，返回空。
func (k GroupKind) CounterColumn() string {
	switch k {
	case GroupLocker:
		return "locker_duty_count"
	case GroupWash:
		return "wash_count"
	default:
		return ""
	}
}

func (k GroupKind) Valid() bool {
	return k == GroupCarpool || k == GroupLocker || k == GroupWash
}

// Occupant 占位记录：一个用户占一个分组（拼车 Offer 或值日 DutySlot）的一个名额。
// 唯一索引保证同一分组内不会重复加入。
type Occupant struct {
	ID        uint64    `gorm:"primaryKey"`
	GroupKind GroupKind `gorm:"size:16;not null;uniqueIndex:uk_group_user"`
	GroupID   uint64    `gorm:"not null;index;uniqueIndex:uk_group_user"`
	UserID    uint64    `gorm:"not null;index;uniqueIndex:uk_group_user"`
	CreatedAt time.Time
}
