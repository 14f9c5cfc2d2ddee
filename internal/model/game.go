package model

import "time"

type Game struct {
	ID        uint64    `gorm:"primaryKey"`
	TeamID    uint64    `gorm:"not null;index"`
	Opponent  string    `gorm:"size:128;not null"`
	GameDate  time.Time `gorm:"not null;index"`
	Location  string    `gorm:"size:128"`
	CreatedBy uint64    `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
