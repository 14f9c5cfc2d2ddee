package mysql

import (
	"context"

	"Team_Orga/internal/model"

	"gorm.io/gorm"
)

// DutyCountRepo 对账用：以 occupants 表为准重算用户的值日计数
type DutyCountRepo struct {
	DB *gorm.DB
}

// CounterPair 对账批次里的一行用户计数
type CounterPair struct {
	ID              uint64
	WashCount       int64
	LockerDutyCount int64
}

// ListUsers 按 id 游标分批扫描用户计数
func (r *DutyCountRepo) ListUsers(ctx context.Context, batchSize int, lastID uint64) ([]CounterPair, uint64, error) {
	var list []CounterPair
	if err := r.DB.WithContext(ctx).Model(&model.User{}).
		Select("id", "wash_count", "locker_duty_count").
		Where("id > ?", lastID).
		Order("id ASC").
		Limit(batchSize).
		Find(&list).Error; err != nil {
		return nil, lastID, err
	}
	if len(list) == 0 {
		return nil, lastID, nil
	}
	return list, list[len(list)-1].ID, nil
}

// RealCount 权威值：该用户当前占用的某类值日名额数
func (r *DutyCountRepo) RealCount(ctx context.Context, userID uint64, kind model.GroupKind) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Occupant{}).
		Where("group_kind = ? AND user_id = ?", kind, userID).
		Count(&n).Error
	return n, err
}

// FixCounter 用权威值覆盖漂移的计数列
func (r *DutyCountRepo) FixCounter(ctx context.Context, userID uint64, column string, value int64) error {
	return r.DB.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).
		UpdateColumn(column, value).Error
}
