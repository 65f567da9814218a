package session

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestStore(ttl time.Duration) (*Store[string], *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	s := NewStore[string](ttl)
	s.now = clock.Now
	return s, clock
}

func TestStore_CreateGet(t *testing.T) {
	s, _ := newTestStore(time.Hour)

	sess := s.Create("brouillon")
	require.NotEmpty(t, sess.ID)

	got, err := s.Get(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "brouillon", got.Value)
	assert.Same(t, sess, got)

	_, err = s.Get("inconnu")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_Expiry(t *testing.T) {
	s, clock := newTestStore(time.Hour)
	sess := s.Create("a")

	// 访问会续期
	clock.Advance(50 * time.Minute)
	_, err := s.Get(sess.ID)
	require.NoError(t, err)
	clock.Advance(50 * time.Minute)
	_, err = s.Get(sess.ID)
	require.NoError(t, err, "续期后不应过期")

	clock.Advance(61 * time.Minute)
	_, err = s.Get(sess.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.True(t, sess.Guard.Closed(), "过期的会话应被标记为关闭")
	assert.Equal(t, 0, s.Len())
}

func TestStore_Sweep(t *testing.T) {
	s, clock := newTestStore(time.Hour)
	s.Create("old-1")
	s.Create("old-2")
	clock.Advance(30 * time.Minute)
	fresh := s.Create("fresh")

	clock.Advance(45 * time.Minute)
	assert.Equal(t, 2, s.Sweep())
	assert.Equal(t, 1, s.Len())

	_, err := s.Get(fresh.ID)
	assert.NoError(t, err)
}

func TestStore_Close(t *testing.T) {
	s, _ := newTestStore(time.Hour)
	sess := s.Create("x")

	assert.True(t, s.Close(sess.ID))
	assert.False(t, s.Close(sess.ID))
	assert.True(t, sess.Guard.Closed())

	_, err := s.Get(sess.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, sess.Guard.TryAcquire(), ErrSessionClosed)
}

func TestGuard_Busy(t *testing.T) {
	g := &Guard{}

	require.NoError(t, g.TryAcquire())
	assert.True(t, g.Busy())
	assert.True(t, errors.Is(g.TryAcquire(), ErrBusy))

	g.Release()
	assert.False(t, g.Busy())
	assert.NoError(t, g.TryAcquire())
}

func TestGuard_ConcurrentAcquire(t *testing.T) {
	g := &Guard{}
	var wins int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if g.TryAcquire() == nil {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins, "同一时刻只能有一个请求拿到忙碌标记")
}

func TestStore_LockedSessionDoesNotBlockStore(t *testing.T) {
	s, clock := newTestStore(time.Hour)
	sess := s.Create("submit")
	other := s.Create("other")
	sess.Lock()
	defer sess.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = s.Get(sess.ID)
		clock.Advance(2 * time.Hour)
		s.Sweep()
		s.Close(sess.ID)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("会话持锁期间 Get / Sweep / Close 被阻塞")
	}
	assert.True(t, sess.Guard.Closed())
	_, err := s.Get(other.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_OnExpire(t *testing.T) {
	s, clock := newTestStore(time.Hour)
	expired := make(chan string, 4)
	s.OnExpire(func(sess *Session[string]) { expired <- sess.Value })

	closed := s.Create("fermée")
	s.Create("balayée")
	s.Close(closed.ID)

	clock.Advance(2 * time.Hour)
	assert.Equal(t, 1, s.Sweep())
	assert.Equal(t, "balayée", <-expired)

	lazy := s.Create("paresseuse")
	clock.Advance(2 * time.Hour)
	_, err := s.Get(lazy.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	select {
	case v := <-expired:
		assert.Equal(t, "paresseuse", v)
	case <-time.After(2 * time.Second):
		t.Fatal("懒删除未触发过期回调")
	}
	assert.Empty(t, expired, "Close 不应触发过期回调")
}
