package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeClock 可手动推进的时钟，避免测试里真实sleep
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestLimiter(maxRequests, maxTokens int, window time.Duration) (*SlidingWindow, *fakeClock) {
	clock := newFakeClock()
	l := NewSlidingWindow(maxRequests, maxTokens, window)
	l.now = clock.Now
	l.sweepChance = 0 // 测试里关掉概率清扫
	return l, clock
}

func TestCheckAndRecordRequestLimit(t *testing.T) {
	l, _ := newTestLimiter(3, 0, time.Hour)

	assert.True(t, l.CheckAndRecord(1))
	assert.True(t, l.CheckAndRecord(1))
	assert.True(t, l.CheckAndRecord(1))
	assert.False(t, l.CheckAndRecord(1))

	// 其他用户不受影响
	assert.True(t, l.CheckAndRecord(2))
}

func TestWindowSlides(t *testing.T) {
	l, clock := newTestLimiter(2, 0, time.Hour)

	assert.True(t, l.CheckAndRecord(1))
	clock.Advance(30 * time.Minute)
	assert.True(t, l.CheckAndRecord(1))
	assert.False(t, l.CheckAndRecord(1))

	// 第一次请求滑出窗口后恢复一个额度
	clock.Advance(31 * time.Minute)
	assert.True(t, l.CheckAndRecord(1))
	assert.False(t, l.CheckAndRecord(1))
}

func TestTokenLimit(t *testing.T) {
	l, _ := newTestLimiter(0, 100, time.Hour)

	assert.True(t, l.CheckAndRecord(1))
	l.RecordTokens(1, 60)
	assert.True(t, l.CheckAndRecord(1))
	l.RecordTokens(1, 50)

	// token超限后请求被拒
	assert.False(t, l.CheckAndRecord(1))
}

func TestTokensExpireWithWindow(t *testing.T) {
	l, clock := newTestLimiter(0, 100, time.Hour)

	l.RecordTokens(1, 100)
	assert.False(t, l.CheckAndRecord(1))

	clock.Advance(61 * time.Minute)
	assert.True(t, l.CheckAndRecord(1))
}

func TestRemaining(t *testing.T) {
	l, clock := newTestLimiter(3, 0, time.Hour)

	assert.Equal(t, 3, l.Remaining(1))

	l.CheckAndRecord(1)
	l.CheckAndRecord(1)
	assert.Equal(t, 1, l.Remaining(1))

	l.CheckAndRecord(1)
	assert.Equal(t, 0, l.Remaining(1))

	clock.Advance(61 * time.Minute)
	assert.Equal(t, 3, l.Remaining(1))
}

func TestRemainingUnlimited(t *testing.T) {
	l, _ := newTestLimiter(0, 0, time.Hour)

	assert.Equal(t, -1, l.Remaining(1))
	assert.True(t, l.CheckAndRecord(1))
}

func TestZeroLimitsAllowEverything(t *testing.T) {
	l, _ := newTestLimiter(0, 0, time.Hour)

	for i := 0; i < 1000; i++ {
		assert.True(t, l.CheckAndRecord(7))
	}
	l.RecordTokens(7, 1<<20)
	assert.True(t, l.CheckAndRecord(7))
}

func TestRecordTokensIgnoresNonPositive(t *testing.T) {
	l, _ := newTestLimiter(0, 10, time.Hour)

	l.RecordTokens(1, 0)
	l.RecordTokens(1, -5)
	assert.True(t, l.CheckAndRecord(1))
}

func TestSweepDropsIdleUsers(t *testing.T) {
	l, clock := newTestLimiter(5, 0, time.Hour)
	l.sweepChance = 1 // 每次必触发清扫

	l.CheckAndRecord(1)
	l.CheckAndRecord(2)

	clock.Advance(2 * time.Hour)
	l.CheckAndRecord(3)

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.NotContains(t, l.users, uint(1))
	assert.NotContains(t, l.users, uint(2))
	assert.Contains(t, l.users, uint(3))
}

func TestConcurrentAccess(t *testing.T) {
	l, _ := newTestLimiter(1000, 0, time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id uint) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				l.CheckAndRecord(id)
				l.RecordTokens(id, 1)
				l.Remaining(id)
			}
		}(uint(i))
	}
	wg.Wait()

	for i := 0; i < 10; i++ {
		assert.Equal(t, 900, l.Remaining(uint(i)))
	}
}
