package model

import "time"

const RoleAdmin = "admin"

// UserRole 管理员授权记录，只能由现任管理员授予或收回。
type UserRole struct {
	ID        uint64 `gorm:"primaryKey"`
	UserID    uint64 `gorm:"not null;index;uniqueIndex:uk_user_role"`
	Role      string `gorm:"size:16;not null;uniqueIndex:uk_user_role"`
	GrantedBy uint64 `gorm:"not null"`
	CreatedAt time.Time
}
