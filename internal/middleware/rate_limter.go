package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// ==================== Debouncer 去抖限流器 ====================

// Debouncer 同一 key 在窗口期内只放行一次
type Debouncer struct {
	window  time.Duration
	entries sync.Map // key -> *debounceEntry
	now     func() time.Time
}

type debounceEntry struct {
	mu       sync.Mutex
	lastTime time.Time
}

// NewDebouncer 创建去抖器
func NewDebouncer(window time.Duration) *Debouncer {
	return &Debouncer{window: window, now: time.Now}
}

// Allow 放行时记录时间；拒绝时返回剩余等待时间
func (d *Debouncer) Allow(key string) (bool, time.Duration) {
	actual, _ := d.entries.LoadOrStore(key, &debounceEntry{})
	entry := actual.(*debounceEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	now := d.now()
	if elapsed := now.Sub(entry.lastTime); !entry.lastTime.IsZero() && elapsed < d.window {
		return false, d.window - elapsed
	}
	entry.lastTime = now
	return true, 0
}

// Prune 清理窗口期外的记录，返回清理数量
func (d *Debouncer) Prune() int {
	now := d.now()
	n := 0
	d.entries.Range(func(key, value any) bool {
		entry := value.(*debounceEntry)
		entry.mu.Lock()
		stale := now.Sub(entry.lastTime) >= d.window
		entry.mu.Unlock()
		if stale {
			d.entries.Delete(key)
			n++
		}
		return true
	})
	return n
}

// ==================== Gin 中间件 ====================

// Debounce 按用户（未登录按 IP）+ 路由去抖，窗口期内重复请求返回 429
//
//	api.GET("/geocode", middleware.Debounce(geocodeDebouncer), ctl.Search)
func Debounce(d *Debouncer) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := c.ClientIP()
		if userID := GetUserID(c); userID > 0 {
			caller = strconv.FormatInt(userID, 10)
		}
		key := fmt.Sprintf("%s:%s", caller, c.FullPath())

		if ok, retryAfter := d.Allow(key); !ok {
			c.Header("Retry-After", strconv.Itoa(int(retryAfter.Milliseconds()/1000)+1))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":    429,
				"message": "Trop de requêtes, veuillez patienter",
				"data": gin.H{
					"retry_after_ms": retryAfter.Milliseconds(),
				},
			})
			return
		}
		c.Next()
	}
}
