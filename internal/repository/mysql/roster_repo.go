package mysql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"Team_Orga/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RosterRepository 名额分配引擎的存储层：成员变更、名额扣减、计数维护
// 全部在同一个事务里完成，不存在先读后写的竞态窗口。
type RosterRepository struct {
	DB *gorm.DB
}

type OccupantView struct {
	ID       uint64 `json:"id"`
	UserID   uint64 `json:"user_id"`
	FullName string `json:"full_name"`
}

type RosterView struct {
	GroupID           uint64          `json:"group_id"`
	GroupKind         model.GroupKind `json:"group_kind"`
	CapacityRemaining int             `json:"capacity_remaining"`
	CapacityTotal     int             `json:"capacity_total"`
	Occupants         []OccupantView  `json:"occupants"`
	IsCallerMember    bool            `json:"is_caller_member"`
}

// Join 占一个名额。满员与并发竞争由条件扣减一次判定：
// 两个请求抢最后一个名额时，只有一个 UPDATE 能命中 slots_available > 0。
func (r *RosterRepository) Join(ctx context.Context, kind model.GroupKind, groupID, userID, actorID uint64, event string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if kind == model.GroupCarpool {
			if err := r.checkCarpoolUnique(tx, groupID, userID); err != nil {
				return err
			}
		}

		res := groupScope(tx, kind, groupID).
			Where("slots_available > 0").
			UpdateColumn("slots_available", gorm.Expr("slots_available - 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var n int64
			if err := groupScope(tx, kind, groupID).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return model.ErrNotFound
			}
			return model.ErrFull
		}

		if err := tx.Create(&model.Occupant{GroupKind: kind, GroupID: groupID, UserID: userID}).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return model.ErrAlreadyMember
			}
			return err
		}

		// 值日类分组的计数和占位同事务，绝不事后补偿
		if col := kind.CounterColumn(); col != "" {
			if err := tx.Model(&model.User{}).Where("id = ?", userID).
				UpdateColumn(col, gorm.Expr(col+" + 1")).Error; err != nil {
				return err
			}
		}

		return insertOutbox(tx, event, kind, groupID, userID, actorID)
	})
}

// Leave 释放名额，Join 的逆操作。
func (r *RosterRepository) Leave(ctx context.Context, kind model.GroupKind, groupID, userID, actorID uint64, event string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("group_kind = ? AND group_id = ? AND user_id = ?", kind, groupID, userID).
			Delete(&model.Occupant{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var n int64
			if err := groupScope(tx, kind, groupID).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return model.ErrNotFound
			}
			return model.ErrNotMember
		}

		if err := groupScope(tx, kind, groupID).
			UpdateColumn("slots_available", gorm.Expr("slots_available + 1")).Error; err != nil {
			return err
		}

		if col := kind.CounterColumn(); col != "" {
			if err := decrementCounter(tx, col, userID); err != nil {
				return err
			}
		}

		return insertOutbox(tx, event, kind, groupID, userID, actorID)
	})
}

// DeleteGroup 级联删除分组：先回退每个占位者的计数，再删占位记录，最后删分组本身。
// 返回删除前的占位者，供调用方提示被清退的人。
func (r *RosterRepository) DeleteGroup(ctx context.Context, kind model.GroupKind, groupID, actorID uint64) ([]model.Occupant, error) {
	var occs []model.Occupant
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).
			Where("group_kind = ? AND group_id = ?", kind, groupID).
			Find(&occs).Error; err != nil {
			return err
		}

		if col := kind.CounterColumn(); col != "" {
			for _, o := range occs {
				if err := decrementCounter(tx, col, o.UserID); err != nil {
					return err
				}
			}
		}

		if err := tx.Where("group_kind = ? AND group_id = ?", kind, groupID).
			Delete(&model.Occupant{}).Error; err != nil {
			return err
		}

		sql := fmt.Sprintf("DELETE FROM %s WHERE id = ?", kind.GroupTable())
		args := []any{groupID}
		if kind != model.GroupCarpool {
			sql += " AND kind = ?"
			args = append(args, kind)
		}
		res := tx.Exec(sql, args...)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return model.ErrNotFound
		}

		return insertOutbox(tx, "group_deleted", kind, groupID, 0, actorID)
	})
	if err != nil {
		return nil, err
	}
	return occs, nil
}

// DeleteGameCascade 删比赛：连同所有车位发布及其乘客。拼车不涉及计数。
func (r *RosterRepository) DeleteGameCascade(ctx context.Context, gameID, actorID uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var offers []model.Offer
		if err := lockForUpdate(tx).
			Where("game_id = ?", gameID).Find(&offers).Error; err != nil {
			return err
		}
		for _, o := range offers {
			if err := tx.Where("group_kind = ? AND group_id = ?", model.GroupCarpool, o.ID).
				Delete(&model.Occupant{}).Error; err != nil {
				return err
			}
			if err := insertOutbox(tx, "group_deleted", model.GroupCarpool, o.ID, 0, actorID); err != nil {
				return err
			}
		}
		if err := tx.Where("game_id = ?", gameID).Delete(&model.Offer{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Game{}, gameID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return model.ErrNotFound
		}
		return nil
	})
}

// DeleteUserCascade 注销账号：释放其所有占位（值日计数随账号一并消失，无需回退），
// 级联其发布的车位，清掉角色授权，最后删用户行。
func (r *RosterRepository) DeleteUserCascade(ctx context.Context, userID uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var occs []model.Occupant
		if err := lockForUpdate(tx).
			Where("user_id = ?", userID).Find(&occs).Error; err != nil {
			return err
		}
		for _, o := range occs {
			if err := groupScope(tx, o.GroupKind, o.GroupID).
				UpdateColumn("slots_available", gorm.Expr("slots_available + 1")).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("user_id = ?", userID).Delete(&model.Occupant{}).Error; err != nil {
			return err
		}

		var offers []model.Offer
		if err := tx.Where("user_id = ?", userID).Find(&offers).Error; err != nil {
			return err
		}
		for _, o := range offers {
			if err := tx.Where("group_kind = ? AND group_id = ?", model.GroupCarpool, o.ID).
				Delete(&model.Occupant{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("user_id = ?", userID).Delete(&model.Offer{}).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", userID).Delete(&model.UserRole{}).Error; err != nil {
			return err
		}

		res := tx.Delete(&model.User{}, userID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return model.ErrNotFound
		}
		return nil
	})
}

// View 查询分组的名额视图，供每次变更后直接返回给前端。
func (r *RosterRepository) View(ctx context.Context, kind model.GroupKind, groupID, callerID uint64) (*RosterView, error) {
	var slots struct {
		SlotsTotal     int
		SlotsAvailable int
	}
	err := groupScope(r.DB.WithContext(ctx), kind, groupID).
		Select("slots_total", "slots_available").
		Take(&slots).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}

	view := &RosterView{
		GroupID:           groupID,
		GroupKind:         kind,
		CapacityRemaining: slots.SlotsAvailable,
		CapacityTotal:     slots.SlotsTotal,
		Occupants:         []OccupantView{},
	}

	var occs []OccupantView
	if err := r.DB.WithContext(ctx).Model(&model.Occupant{}).
		Select("occupants.id", "occupants.user_id", "users.full_name").
		Joins("JOIN users ON users.id = occupants.user_id").
		Where("occupants.group_kind = ? AND occupants.group_id = ?", kind, groupID).
		Order("occupants.id ASC").
		Scan(&occs).Error; err != nil {
		return nil, err
	}
	for _, o := range occs {
		view.Occupants = append(view.Occupants, o)
		if o.UserID == callerID {
			view.IsCallerMember = true
		}
	}
	return view, nil
}

// 拼车规则：司机不占自己的车位，且一场比赛最多坐一辆车。
func (r *RosterRepository) checkCarpoolUnique(tx *gorm.DB, offerID, userID uint64) error {
	var offer model.Offer
	if err := lockForUpdate(tx).
		First(&offer, offerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.ErrNotFound
		}
		return err
	}
	if offer.UserID == userID {
		return model.ErrAlreadyMember
	}
	var n int64
	if err := tx.Model(&model.Occupant{}).
		Joins("JOIN offers ON offers.id = occupants.group_id").
		Where("occupants.group_kind = ? AND occupants.user_id = ? AND offers.game_id = ?",
			model.GroupCarpool, userID, offer.GameID).
		Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return model.ErrAlreadyMember
	}
	return nil
}

// groupScope 定位分组行。locker 和 wash 共用 duty_slots 表，必须按 kind 再过滤，
// 否则带错 kind 的请求会扣到另一类分组的名额
func groupScope(tx *gorm.DB, kind model.GroupKind, groupID uint64) *gorm.DB {
	q := tx.Table(kind.GroupTable()).Where("id = ?", groupID)
	if kind != model.GroupCarpool {
		q = q.Where("kind = ?", kind)
	}
	return q
}

// sqlite 是整库单写锁，不支持也不需要 FOR UPDATE
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// 计数回退，下限为0；即使恢复流程乱序调用也不会出现负数
func decrementCounter(tx *gorm.DB, col string, userID uint64) error {
	expr := fmt.Sprintf("CASE WHEN %s > 0 THEN %s - 1 ELSE 0 END", col, col)
	return tx.Model(&model.User{}).Where("id = ?", userID).
		UpdateColumn(col, gorm.Expr(expr)).Error
}

// 与成员变更同事务写入事件表
func insertOutbox(tx *gorm.DB, event string, kind model.GroupKind, groupID, userID, actorID uint64) error {
	payload, _ := json.Marshal(map[string]any{
		"event_id":   uuid.NewString(),
		"event_time": time.Now().UTC().Format(time.RFC3339Nano),
		"group_kind": string(kind),
		"group_id":   groupID,
		"user_id":    userID,
		"actor_id":   actorID,
	})
	ob := &model.RosterOutbox{
		EventType: event,
		GroupKind: string(kind),
		GroupID:   groupID,
		UserID:    userID,
		Payload:   string(payload),
		Status:    0,
	}
	return tx.Create(ob).Error
}
