package model

import "time"

type User struct {
	ID              uint64 `gorm:"primaryKey"`
	Username        string `gorm:"uniqueIndex;size:32;not null"`
	Password        string `gorm:"size:255;not null"`
	Email           string `gorm:"uniqueIndex;size:64;not null"`
	FullName        string `gorm:"size:64;not null"`
	JerseyNumber    *int   `gorm:"default:null"`
	TeamID          uint64 `gorm:"not null;index"`
	WashCount       int64  `gorm:"not null;default:0"` // 洗球衣次数，由值日分配维护
	LockerDutyCount int64  `gorm:"not null;default:0"` // 更衣室值日次数
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
