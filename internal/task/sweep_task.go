package task

import (
	"log"
	"sort"
)

// Sweeper 定期清理过期条目，返回清理数量
type Sweeper interface {
	Sweep() int
}

// SweepFunc 函数适配为 Sweeper
type SweepFunc func() int

func (f SweepFunc) Sweep() int { return f() }

// SweepTask 清理过期的向导会话、租约流程和去抖记录
type SweepTask struct {
	names    []string
	sweepers map[string]Sweeper
}

// NewSweepTask 按名称固定顺序执行
func NewSweepTask(sweepers map[string]Sweeper) *SweepTask {
	names := make([]string, 0, len(sweepers))
	for name := range sweepers {
		names = append(names, name)
	}
	sort.Strings(names)
	return &SweepTask{names: names, sweepers: sweepers}
}

// Run cron 回调
func (t *SweepTask) Run() {
	t.sweepAll()
}

func (t *SweepTask) sweepAll() int {
	total := 0
	for _, name := range t.names {
		n := t.sweepers[name].Sweep()
		if n > 0 {
			log.Printf("[Cron] 清理过期条目: %s=%d", name, n)
		}
		total += n
	}
	return total
}
