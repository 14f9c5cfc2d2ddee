package model

import "time"

// Offer 某场比赛的拼车车位发布。SlotsAvailable 是剩余乘客座位数，
// 加入时-1、退出时+1；SlotsTotal 记录创建时声明的座位数（不含司机本人的座位）。
type Offer struct {
	ID                uint64 `gorm:"primaryKey"`
	GameID            uint64 `gorm:"not null;index"`
	UserID            uint64 `gorm:"not null;index"`
	DepartureLocation string `gorm:"size:128;not null"`
	DepartureTime     string `gorm:"size:8;not null"` // "HH:MM"
	SlotsTotal        int    `gorm:"not null"`
	SlotsAvailable    int    `gorm:"not null"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
