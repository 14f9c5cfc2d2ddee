package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	SeatsCntTTL       = 10 * time.Minute
	LockTTL           = 300 * time.Millisecond
	SeatsCntKeyPrefix = "roster:seats"        // 某分组剩余名额缓存
	RosterLockPrefix  = "lock:roster:rebuild" // 读侧重建缓存的分布式锁
)

// RosterCacheRepository 剩余名额的读缓存。
// 写路径只删不改：变更提交后删 key，读侧拿锁回源重建，避免缓存写并发脏数据。
type RosterCacheRepository struct {
	seatsCntTTL time.Duration
}

type DistLock struct {
	RDB *redis.Client
}

func NewRosterCacheRepository() *RosterCacheRepository {
	return &RosterCacheRepository{seatsCntTTL: SeatsCntTTL}
}

func (r *RosterCacheRepository) seatsKey(kind string, groupID uint64) string {
	return fmt.Sprintf("%s:%s:%d", SeatsCntKeyPrefix, kind, groupID)
}

// GetSeatsCached 命中返回 (值, true)；miss 返回 (0, false)
func (r *RosterCacheRepository) GetSeatsCached(ctx context.Context, kind string, groupID uint64) (int64, bool, error) {
	val, err := Client.Get(ctx, r.seatsKey(kind, groupID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	return val, true, err
}

// SetSeats 回源后回填
func (r *RosterCacheRepository) SetSeats(ctx context.Context, kind string, groupID uint64, seats int64) error {
	return Client.Set(ctx, r.seatsKey(kind, groupID), seats, r.seatsCntTTL).Err()
}

// DeleteSeats 写后删缓存，支持可选延迟二删，抵消并发回填窗口
func (r *RosterCacheRepository) DeleteSeats(ctx context.Context, kind string, groupID uint64, delay ...time.Duration) error {
	key := r.seatsKey(kind, groupID)
	if err := Client.Del(ctx, key).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	if len(delay) > 0 && delay[0] > 0 {
		d := delay[0]
		go func() {
			t := time.NewTimer(d)
			defer t.Stop()
			<-t.C
			_ = Client.Del(context.Background(), key).Err()
		}()
	}
	return nil
}

// Acquire 请求加分布式锁
func (l *DistLock) Acquire(ctx context.Context, kind string, groupID uint64, token string) (bool, error) {
	key := fmt.Sprintf("%s:%s:%d", RosterLockPrefix, kind, groupID)
	return l.RDB.SetNX(ctx, key, token, LockTTL).Result()
}

// Release 用lua保证原子性
func (l *DistLock) Release(ctx context.Context, kind string, groupID uint64, token string) error {
	key := fmt.Sprintf("%s:%s:%d", RosterLockPrefix, kind, groupID)
	_, err := redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
  return redis.call("del", KEYS[1])
else
  return 0
end`).Run(ctx, l.RDB, []string{key}, token).Result()
	return err
}
