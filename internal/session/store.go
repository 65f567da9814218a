package session

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound 会话不存在或已过期
	ErrNotFound = errors.New("session introuvable ou expirée")
	// ErrBusy 同一会话已有请求在处理中
	ErrBusy = errors.New("une opération est déjà en cours")
	// ErrSessionClosed 会话已关闭，完成结果被丢弃
	ErrSessionClosed = errors.New("session fermée")
)

// Guard 会话的忙碌 / 关闭标记
type Guard struct {
	busy   atomic.Bool
	closed atomic.Bool
}

// TryAcquire 抢占忙碌标记，已被占用或会话已关闭时返回错误
func (g *Guard) TryAcquire() error {
	if g.closed.Load() {
		return ErrSessionClosed
	}
	if !g.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	return nil
}

// Release 释放忙碌标记
func (g *Guard) Release() {
	g.busy.Store(false)
}

// Busy 是否有请求在处理中
func (g *Guard) Busy() bool {
	return g.busy.Load()
}

// Closed 会话关闭后远端调用照常完成，但结果不再写回
func (g *Guard) Closed() bool {
	return g.closed.Load()
}

func (g *Guard) close() {
	g.closed.Store(true)
}

// Session 存储项：值 + 守卫 + 过期时间
// mu 只保护 Value，过期时间单独原子读写，提交持锁期间 Get / Close / Sweep 不阻塞
type Session[T any] struct {
	ID    string
	Value T
	Guard *Guard

	mu        sync.Mutex
	expiresAt atomic.Int64 // UnixNano
}

// Lock 会话内状态只允许一个 goroutine 修改
func (s *Session[T]) Lock()   { s.mu.Lock() }
func (s *Session[T]) Unlock() { s.mu.Unlock() }

func (s *Session[T]) expired(now time.Time) bool {
	return now.UnixNano() > s.expiresAt.Load()
}

// Store 带 TTL 的内存会话存储，Get 时懒删除，Sweep 批量清理
type Store[T any] struct {
	items    sync.Map
	ttl      time.Duration
	now      func() time.Time
	onExpire func(*Session[T])
}

// NewStore 创建会话存储
func NewStore[T any](ttl time.Duration) *Store[T] {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &Store[T]{ttl: ttl, now: time.Now}
}

// OnExpire 注册过期回调，只在超时移除时调用，Close 不触发。须在使用存储前设置
func (s *Store[T]) OnExpire(fn func(*Session[T])) {
	s.onExpire = fn
}

// Create 新建会话并返回
func (s *Store[T]) Create(value T) *Session[T] {
	sess := &Session[T]{
		ID:    uuid.New().String(),
		Value: value,
		Guard: &Guard{},
	}
	sess.expiresAt.Store(s.now().Add(s.ttl).UnixNano())
	s.items.Store(sess.ID, sess)
	return sess
}

// Get 获取会话并续期
func (s *Store[T]) Get(id string) (*Session[T], error) {
	val, ok := s.items.Load(id)
	if !ok {
		return nil, ErrNotFound
	}
	sess := val.(*Session[T])

	now := s.now()
	if sess.expired(now) {
		// 懒删除，回调不阻塞当前请求
		if s.remove(id, sess) && s.onExpire != nil {
			go s.onExpire(sess)
		}
		return nil, ErrNotFound
	}
	sess.expiresAt.Store(now.Add(s.ttl).UnixNano())
	return sess, nil
}

// Close 关闭并移除会话，进行中的请求完成后结果会被丢弃
func (s *Store[T]) Close(id string) bool {
	val, ok := s.items.LoadAndDelete(id)
	if !ok {
		return false
	}
	val.(*Session[T]).Guard.close()
	return true
}

// Sweep 清理所有过期会话，返回清理数量
func (s *Store[T]) Sweep() int {
	now := s.now()
	removed := 0
	s.items.Range(func(key, val any) bool {
		sess := val.(*Session[T])
		if sess.expired(now) && s.remove(key.(string), sess) {
			removed++
			if s.onExpire != nil {
				s.onExpire(sess)
			}
		}
		return true
	})
	return removed
}

// Len 当前会话数
func (s *Store[T]) Len() int {
	n := 0
	s.items.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

func (s *Store[T]) remove(id string, sess *Session[T]) bool {
	if s.items.CompareAndDelete(id, sess) {
		sess.Guard.close()
		return true
	}
	return false
}
