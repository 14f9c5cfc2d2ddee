package service

import (
	"context"
	"log"
	"time"

	"Team_Orga/internal/model"
	"Team_Orga/internal/repository/mysql"
)

// DutyCountReconciler 定时对账：以 occupants 表为准修正 users 表里漂移的值日计数。
// 计数列平时由分配事务同步维护，这里兜底崩溃或手工改库造成的不一致。
type DutyCountReconciler struct {
	repo      *mysql.DutyCountRepo
	interval  time.Duration
	batchSize int
}

// Mismatch 一处被修正的漂移
type Mismatch struct {
	UserID   uint64          `json:"user_id"`
	Kind     model.GroupKind `json:"kind"`
	Stored   int64           `json:"stored"`
	Actual   int64           `json:"actual"`
	FixedAt  time.Time       `json:"fixed_at"`
}

func NewDutyCountReconciler(interval time.Duration, batchSize int) *DutyCountReconciler {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	if batchSize <= 0 {
		batchSize = 200
	}
	return &DutyCountReconciler{
		repo:      &mysql.DutyCountRepo{DB: mysql.DB},
		interval:  interval,
		batchSize: batchSize,
	}
}

// Run 周期对账，ctx 取消时退出
func (r *DutyCountReconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Println("duty count reconciler stopped")
			return
		case <-ticker.C:
			if _, err := r.RepairNow(ctx); err != nil {
				log.Printf("duty count reconcile failed: %v", err)
			}
		}
	}
}

// RepairNow 全量扫描一轮，返回修正过的漂移明细。管理端的手动对账也走这里。
func (r *DutyCountReconciler) RepairNow(ctx context.Context) ([]Mismatch, error) {
	fixed := []Mismatch{}
	var lastID uint64
	for {
		batch, nextID, err := r.repo.ListUsers(ctx, r.batchSize, lastID)
		if err != nil {
			return fixed, err
		}
		if len(batch) == 0 {
			return fixed, nil
		}
		for _, row := range batch {
			m, err := r.reconcileUser(ctx, row)
			if err != nil {
				return fixed, err
			}
			fixed = append(fixed, m...)
		}
		lastID = nextID
	}
}

func (r *DutyCountReconciler) reconcileUser(ctx context.Context, row mysql.CounterPair) ([]Mismatch, error) {
	checks := []struct {
		kind   model.GroupKind
		stored int64
	}{
		{model.GroupWash, row.WashCount},
		{model.GroupLocker, row.LockerDutyCount},
	}

	var fixed []Mismatch
	for _, c := range checks {
		actual, err := r.repo.RealCount(ctx, row.ID, c.kind)
		if err != nil {
			return fixed, err
		}
		if actual == c.stored {
			continue
		}
		if err := r.repo.FixCounter(ctx, row.ID, c.kind.CounterColumn(), actual); err != nil {
			return fixed, err
		}
		log.Printf("duty count drift fixed: user=%d kind=%s stored=%d actual=%d", row.ID, c.kind, c.stored, actual)
		fixed = append(fixed, Mismatch{
			UserID:  row.ID,
			Kind:    c.kind,
			Stored:  c.stored,
			Actual:  actual,
			FixedAt: time.Now(),
		})
	}
	return fixed, nil
}
