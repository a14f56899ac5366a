// Package ratelimit 提供AI辅导调用的按用户限额。
// 限额是建议性的：单进程内存计数，进程重启即清零，多实例之间不共享；
// 任何内部异常都放行请求而不是拦截（fail-open）。
package ratelimit

import (
	"math/rand"
	"sync"
	"time"
)

// Limiter 可注入的限额能力。handler只依赖该接口，
// 以便将来替换为共享存储的分布式实现而不改调用方。
type Limiter interface {
	// CheckAndRecord 判断该用户当前是否允许再发起一次请求，允许则记账
	CheckAndRecord(userID uint) bool
	// RecordTokens 请求完成后补记本次消耗的token数
	RecordTokens(userID uint, tokens int)
	// Remaining 窗口内剩余可用请求数
	Remaining(userID uint) int
}

type event struct {
	at      time.Time
	tokens  int
	request bool
}

type userWindow struct {
	events   []event
	lastSeen time.Time
}

// SlidingWindow 滑动窗口限额器：统计尾随窗口内的请求数与token数。
// 过期用户条目靠概率触发的清扫回收，属于尽力而为的内存上界，
// 不是精确过期。
type SlidingWindow struct {
	mu          sync.Mutex
	users       map[uint]*userWindow
	window      time.Duration
	maxRequests int // 0 表示不限
	maxTokens   int // 0 表示不限

	now         func() time.Time
	sweepChance float64
}

func NewSlidingWindow(maxRequests, maxTokens int, window time.Duration) *SlidingWindow {
	if window <= 0 {
		window = time.Hour
	}
	return &SlidingWindow{
		users:       make(map[uint]*userWindow),
		window:      window,
		maxRequests: maxRequests,
		maxTokens:   maxTokens,
		now:         time.Now,
		sweepChance: 0.01,
	}
}

// prune 丢弃窗口之外的事件，调用方需持锁
func (l *SlidingWindow) prune(w *userWindow, now time.Time) {
	cutoff := now.Add(-l.window)
	kept := w.events[:0]
	for _, e := range w.events {
		if e.at.After(cutoff) {
			kept = append(kept, e)
		}
	}
	w.events = kept
}

// sweep 概率触发的全表清扫，删掉窗口外无活动的用户
func (l *SlidingWindow) sweep(now time.Time) {
	if rand.Float64() >= l.sweepChance {
		return
	}
	cutoff := now.Add(-l.window)
	for id, w := range l.users {
		if w.lastSeen.Before(cutoff) {
			delete(l.users, id)
		}
	}
}

func (l *SlidingWindow) CheckAndRecord(userID uint) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	w, ok := l.users[userID]
	if !ok {
		w = &userWindow{}
		l.users[userID] = w
	}
	l.prune(w, now)
	w.lastSeen = now

	requests := 0
	tokens := 0
	for _, e := range w.events {
		if e.request {
			requests++
		}
		tokens += e.tokens
	}

	if l.maxRequests > 0 && requests >= l.maxRequests {
		return false
	}
	if l.maxTokens > 0 && tokens >= l.maxTokens {
		return false
	}

	w.events = append(w.events, event{at: now, request: true})
	return true
}

func (l *SlidingWindow) RecordTokens(userID uint, tokens int) {
	if tokens <= 0 {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.users[userID]
	if !ok {
		w = &userWindow{}
		l.users[userID] = w
	}
	w.lastSeen = now
	w.events = append(w.events, event{at: now, tokens: tokens})
}

func (l *SlidingWindow) Remaining(userID uint) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.maxRequests <= 0 {
		return -1 // 不限
	}

	w, ok := l.users[userID]
	if !ok {
		return l.maxRequests
	}
	l.prune(w, l.now())

	requests := 0
	for _, e := range w.events {
		if e.request {
			requests++
		}
	}

	remaining := l.maxRequests - requests
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}
