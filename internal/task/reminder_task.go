package task

import (
	"context"
	"log"
	"sync/atomic"
	"time"
)

// ReminderSender 发送到期租金提醒
type ReminderSender interface {
	SendDueReminders(ctx context.Context, now time.Time) (int, error)
}

// ReminderTask 每日租金提醒
type ReminderTask struct {
	sender  ReminderSender
	running atomic.Bool
}

func NewReminderTask(sender ReminderSender) *ReminderTask {
	return &ReminderTask{sender: sender}
}

// Run 上一轮未结束时跳过本轮
func (t *ReminderTask) Run(ctx context.Context, now time.Time) {
	if !t.running.CompareAndSwap(false, true) {
		log.Println("[Cron] 上一轮租金提醒仍在执行，跳过")
		return
	}
	defer t.running.Store(false)

	n, err := t.sender.SendDueReminders(ctx, now)
	if err != nil {
		log.Printf("[Cron] 租金提醒失败: %v", err)
		return
	}
	log.Printf("[Cron] 本轮租金提醒完成，发送 %d 条", n)
}
