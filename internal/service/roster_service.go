package service

import (
	"context"
	"errors"
	"time"

	"Team_Orga/internal/model"
	"Team_Orga/internal/repository/mysql"
	"Team_Orga/internal/repository/redis"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RosterService 名额分配引擎：拼车车位和值日名额共用同一套加入/退出/指派逻辑。
// 所有特权操作显式传 actingAs，不读全局登录态。
type RosterService struct {
	repo   *mysql.RosterRepository
	offers *mysql.OfferRepository
	users  *mysql.UserRepository
	roles  *mysql.RoleRepository
	cache  *redis.RosterCacheRepository
	lock   *redis.DistLock
}

func NewRosterService() *RosterService {
	return &RosterService{
		repo:   &mysql.RosterRepository{DB: mysql.DB},
		offers: &mysql.OfferRepository{DB: mysql.DB},
		users:  &mysql.UserRepository{DB: mysql.DB},
		roles:  &mysql.RoleRepository{DB: mysql.DB},
		cache:  redis.NewRosterCacheRepository(),
		lock:   &redis.DistLock{RDB: redis.Client},
	}
}

// Join 自己占一个名额
func (s *RosterService) Join(ctx context.Context, kind model.GroupKind, groupID, userID uint64) (*mysql.RosterView, error) {
	if !kind.Valid() || groupID == 0 || userID == 0 {
		return nil, errors.New("invalid params")
	}
	if err := s.repo.Join(ctx, kind, groupID, userID, userID, "joined"); err != nil {
		return nil, err
	}
	// 写后删缓存，读侧回源重建
	_ = s.cache.DeleteSeats(ctx, string(kind), groupID)
	return s.View(ctx, kind, groupID, userID)
}

// Leave 自己退出
func (s *RosterService) Leave(ctx context.Context, kind model.GroupKind, groupID, userID uint64) (*mysql.RosterView, error) {
	if !kind.Valid() || groupID == 0 || userID == 0 {
		return nil, errors.New("invalid params")
	}
	if err := s.repo.Leave(ctx, kind, groupID, userID, userID, "left"); err != nil {
		return nil, err
	}
	_ = s.cache.DeleteSeats(ctx, string(kind), groupID)
	return s.View(ctx, kind, groupID, userID)
}

// Assign 管理员替 targetID 占名额
func (s *RosterService) Assign(ctx context.Context, kind model.GroupKind, groupID, targetID, actingAs uint64) (*mysql.RosterView, error) {
	if !kind.Valid() || groupID == 0 || targetID == 0 {
		return nil, errors.New("invalid params")
	}
	if err := requireAdmin(s.roles, actingAs); err != nil {
		return nil, err
	}
	if _, err := s.users.FindByID(targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	if err := s.repo.Join(ctx, kind, groupID, targetID, actingAs, "assigned"); err != nil {
		return nil, err
	}
	_ = s.cache.DeleteSeats(ctx, string(kind), groupID)
	return s.View(ctx, kind, groupID, actingAs)
}

// Unassign 管理员移除任意占位者
func (s *RosterService) Unassign(ctx context.Context, kind model.GroupKind, groupID, targetID, actingAs uint64) (*mysql.RosterView, error) {
	if !kind.Valid() || groupID == 0 || targetID == 0 {
		return nil, errors.New("invalid params")
	}
	if err := requireAdmin(s.roles, actingAs); err != nil {
		return nil, err
	}
	if err := s.repo.Leave(ctx, kind, groupID, targetID, actingAs, "unassigned"); err != nil {
		return nil, err
	}
	_ = s.cache.DeleteSeats(ctx, string(kind), groupID)
	return s.View(ctx, kind, groupID, actingAs)
}

// DeleteGroup 级联删除分组。值日分组只有管理员能删；
// 拼车发布本人（司机撤车）或管理员可删，乘客随之清退。
func (s *RosterService) DeleteGroup(ctx context.Context, kind model.GroupKind, groupID, actingAs uint64) ([]model.Occupant, error) {
	if !kind.Valid() || groupID == 0 {
		return nil, errors.New("invalid params")
	}
	isAdmin, err := s.roles.HasRole(actingAs, model.RoleAdmin)
	if err != nil {
		return nil, err
	}
	if !isAdmin {
		if kind != model.GroupCarpool {
			return nil, model.ErrForbidden
		}
		offer, err := s.offers.FindByID(groupID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, model.ErrNotFound
			}
			return nil, err
		}
		if offer.UserID != actingAs {
			return nil, model.ErrForbidden
		}
	}
	occs, err := s.repo.DeleteGroup(ctx, kind, groupID, actingAs)
	if err != nil {
		return nil, err
	}
	_ = s.cache.DeleteSeats(ctx, string(kind), groupID)
	return occs, nil
}

// View 名额视图。只读查询，瞬时错误重试一次；写操作从不自动重试。
func (s *RosterService) View(ctx context.Context, kind model.GroupKind, groupID, callerID uint64) (*mysql.RosterView, error) {
	view, err := s.repo.View(ctx, kind, groupID, callerID)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		view, err = s.repo.View(ctx, kind, groupID, callerID)
	}
	return view, err
}

// RemainingSeats 列表页的剩余名额：先读缓存，miss 时拿锁回源，防止全体打库
func (s *RosterService) RemainingSeats(ctx context.Context, kind model.GroupKind, groupID uint64) (int64, error) {
	if v, ok, err := s.cache.GetSeatsCached(ctx, string(kind), groupID); err == nil && ok {
		return v, nil
	}

	token := uuid.NewString()
	got, _ := s.lock.Acquire(ctx, string(kind), groupID, token)
	if got {
		defer func() {
			_ = s.lock.Release(ctx, string(kind), groupID, token)
		}()

		// 二次检查
		if v, ok, err := s.cache.GetSeatsCached(ctx, string(kind), groupID); err == nil && ok {
			return v, nil
		}

		view, err := s.View(ctx, kind, groupID, 0)
		if err != nil {
			return 0, err
		}
		_ = s.cache.SetSeats(ctx, string(kind), groupID, int64(view.CapacityRemaining))
		return int64(view.CapacityRemaining), nil
	}

	// 没拿到锁，短暂退避后再读一次缓存
	time.Sleep(50 * time.Millisecond)
	if v, ok, err := s.cache.GetSeatsCached(ctx, string(kind), groupID); err == nil && ok {
		return v, nil
	}
	view, err := s.View(ctx, kind, groupID, 0)
	if err != nil {
		return 0, err
	}
	return int64(view.CapacityRemaining), nil
}
