package task

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// ==================== TaskManager 定时任务管理器 ====================

// TaskManager 统一管理定时任务
// 管理范围：过期会话清理、租金提醒
type TaskManager struct {
	cron     *cron.Cron
	sweep    *SweepTask
	reminder *ReminderTask

	sweepSpec    string
	reminderSpec string
}

// TaskManagerDeps 任务管理器依赖
type TaskManagerDeps struct {
	// 需要定期清理的会话存储、去抖器
	Sweepers map[string]Sweeper
	// 远程模式下为空，不发送提醒
	Reminders ReminderSender
}

// TaskManagerConfig 任务管理器配置（cron 表达式带秒）
type TaskManagerConfig struct {
	SweepSpec    string
	ReminderSpec string
}

// DefaultConfig 默认配置
func DefaultConfig() *TaskManagerConfig {
	return &TaskManagerConfig{
		SweepSpec:    "0 */5 * * * *",
		ReminderSpec: "0 0 8 * * *",
	}
}

// NewTaskManager 创建任务管理器
func NewTaskManager(deps *TaskManagerDeps, cfg *TaskManagerConfig) *TaskManager {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	tm := &TaskManager{
		cron:         cron.New(cron.WithSeconds()),
		sweepSpec:    cfg.SweepSpec,
		reminderSpec: cfg.ReminderSpec,
	}
	if len(deps.Sweepers) > 0 {
		tm.sweep = NewSweepTask(deps.Sweepers)
	}
	if deps.Reminders != nil && cfg.ReminderSpec != "" {
		tm.reminder = NewReminderTask(deps.Reminders)
	}
	return tm
}

// ==================== 生命周期管理 ====================

// Start 注册并启动所有任务，cron 表达式错误时返回错误
func (tm *TaskManager) Start() error {
	log.Println("[TaskManager] 正在启动定时任务...")

	if tm.sweep != nil {
		if _, err := tm.cron.AddFunc(tm.sweepSpec, tm.sweep.Run); err != nil {
			return err
		}
	}
	if tm.reminder != nil {
		if _, err := tm.cron.AddFunc(tm.reminderSpec, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
			defer cancel()
			tm.reminder.Run(ctx, time.Now())
		}); err != nil {
			return err
		}
	}

	tm.cron.Start()
	log.Printf("[TaskManager] 定时任务已启动: %v", tm.Status())
	return nil
}

// Stop 停止调度并等待正在执行的任务结束
func (tm *TaskManager) Stop() {
	log.Println("[TaskManager] 正在停止定时任务...")
	<-tm.cron.Stop().Done()
	log.Println("[TaskManager] 定时任务已全部停止")
}

// ==================== 手动触发接口 ====================

// TriggerSweep 立即清理一次
func (tm *TaskManager) TriggerSweep() int {
	if tm.sweep == nil {
		return 0
	}
	return tm.sweep.sweepAll()
}

// TriggerReminders 立即发送一次提醒
func (tm *TaskManager) TriggerReminders(ctx context.Context) (int, error) {
	if tm.reminder == nil {
		return 0, ErrTaskDisabled
	}
	return tm.reminder.sender.SendDueReminders(ctx, time.Now())
}

// ==================== 状态查询 ====================

// Status 获取任务状态
func (tm *TaskManager) Status() map[string]bool {
	return map[string]bool{
		"sweep":    tm.sweep != nil,
		"reminder": tm.reminder != nil,
	}
}

// ==================== 错误定义 ====================

type TaskError string

func (e TaskError) Error() string { return string(e) }

const (
	ErrTaskDisabled TaskError = "task is disabled"
)
