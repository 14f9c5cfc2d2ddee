package service

import (
	"context"
	"errors"
	"log"
	"time"

	"Team_Orga/internal/model"
	"Team_Orga/internal/pkg"
	"Team_Orga/internal/repository/mysql"

	"gorm.io/gorm"
)

// Sender 把一条 outbox 事件投递出去。返回错误则记失败等待下一轮。
type Sender func(ctx context.Context, ev model.RosterOutbox) error

// OutboxRelayer 轮询 roster_outbox，把待投递事件按顺序交给 sender。
// 至少一次投递，下游按 payload 里的 event_id 去重。
type OutboxRelayer struct {
	repo      *mysql.OutboxRepository
	send      Sender
	interval  time.Duration
	batchSize int
}

func NewOutboxRelayer(send Sender, interval time.Duration, batchSize int) *OutboxRelayer {
	if interval <= 0 {
		interval = 3 * time.Second
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	return &OutboxRelayer{
		repo:      &mysql.OutboxRepository{DB: mysql.DB},
		send:      send,
		interval:  interval,
		batchSize: batchSize,
	}
}

func (r *OutboxRelayer) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Println("outbox relayer stopped")
			return
		case <-ticker.C:
			if err := r.drainOnce(ctx); err != nil {
				log.Printf("outbox drain failed: %v", err)
			}
		}
	}
}

func (r *OutboxRelayer) drainOnce(ctx context.Context) error {
	events, err := r.repo.List(ctx, r.batchSize)
	if err != nil {
		return err
	}
	for _, ev := range events {
		if err := r.send(ctx, ev); err != nil {
			log.Printf("outbox send failed: id=%d event=%s err=%v", ev.ID, ev.EventType, err)
			if err := r.repo.RetryUpdate(ctx, ev.ID); err != nil {
				return err
			}
			continue
		}
		if err := r.repo.SuccessUpdate(ctx, ev.ID); err != nil {
			return err
		}
	}
	return nil
}

// LogSender 没配 kafka 时的兜底投递，只打日志
func LogSender() Sender {
	return func(ctx context.Context, ev model.RosterOutbox) error {
		log.Printf("roster event: type=%s kind=%s group=%d user=%d", ev.EventType, ev.GroupKind, ev.GroupID, ev.UserID)
		return nil
	}
}

// KafkaSender 投到 kafka，分区键由 writer 按分组生成，同一分组的事件保序
func KafkaSender(writer *pkg.RosterEventWriter) Sender {
	return func(ctx context.Context, ev model.RosterOutbox) error {
		return writer.Publish(ctx, ev.EventType, ev.GroupKind, ev.GroupID, []byte(ev.Payload))
	}
}

// NotifySender 在投递之外给被指派值日的人发邮件提醒。
// 邮件失败只记日志不算投递失败，避免 SMTP 抖动把事件卡在重试里。
func NotifySender(next Sender, smtp pkg.SMTPConfig) Sender {
	users := &mysql.UserRepository{DB: mysql.DB}
	slots := &mysql.DutySlotRepository{DB: mysql.DB}
	return func(ctx context.Context, ev model.RosterOutbox) error {
		if err := next(ctx, ev); err != nil {
			return err
		}
		if ev.EventType != "assigned" || ev.GroupKind == string(model.GroupCarpool) {
			return nil
		}

		user, err := users.FindByID(ev.UserID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				log.Printf("duty mail skipped: user=%d err=%v", ev.UserID, err)
			}
			return nil
		}
		slot, err := slots.FindByID(ev.GroupID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				log.Printf("duty mail skipped: slot=%d err=%v", ev.GroupID, err)
			}
			return nil
		}

		dutyName := "Waschdienst"
		if slot.Kind == model.GroupLocker {
			dutyName = "Kabinendienst"
		}
		dateRange := slot.StartDate
		if slot.EndDate != slot.StartDate {
			dateRange = slot.StartDate + " - " + slot.EndDate
		}
		body := pkg.DutyAssignedHTML(user.FullName, dutyName, dateRange)
		if err := pkg.SendEmail(smtp, user.Email, "Du bist eingeteilt: "+dutyName, body); err != nil {
			log.Printf("duty mail failed: user=%d err=%v", user.ID, err)
		}
		return nil
	}
}
