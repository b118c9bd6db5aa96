package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const defaultSweepInterval = time.Minute

// MemoryLimiter token bucket на ключ в памяти процесса.
// Жизненный цикл явный: Start запускает очистку устаревших ключей, Stop её останавливает.
type MemoryLimiter struct {
	mu       sync.Mutex
	limiters map[string]*entry
	limit    rate.Limit
	burst    int
	ttl      time.Duration
	now      func() time.Time

	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewMemoryLimiter создает лимитер на requestsPerMinute запросов в минуту с burst.
// Ключи, не используемые дольше ttl, удаляются при очистке.
func NewMemoryLimiter(requestsPerMinute, burst int, ttl time.Duration) *MemoryLimiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}
	if burst <= 0 {
		burst = 1
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &MemoryLimiter{
		limiters: make(map[string]*entry),
		limit:    rate.Limit(float64(requestsPerMinute) / 60.0),
		burst:    burst,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Allow реализует Limiter
func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.limiters[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[key] = e
	}
	e.lastSeen = now

	return e.limiter.AllowN(now, 1), nil
}

// Start запускает фоновую очистку. Повторный вызов игнорируется.
func (l *MemoryLimiter) Start() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.started {
		return
	}
	l.started = true
	l.stopCh = make(chan struct{})
	l.doneCh = make(chan struct{})

	interval := defaultSweepInterval
	if l.ttl < interval {
		interval = l.ttl
	}
	go l.sweepLoop(interval)
}

// Stop останавливает очистку и дожидается завершения горутины
func (l *MemoryLimiter) Stop() {
	l.mu.Lock()
	if !l.started {
		l.mu.Unlock()
		return
	}
	l.started = false
	stopCh, doneCh := l.stopCh, l.doneCh
	l.mu.Unlock()

	close(stopCh)
	<-doneCh
}

func (l *MemoryLimiter) sweepLoop(interval time.Duration) {
	defer close(l.doneCh)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopCh:
			return
		case <-ticker.C:
			l.Sweep()
		}
	}
}

// Sweep удаляет ключи, не использовавшиеся дольше ttl
func (l *MemoryLimiter) Sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.ttl)
	for key, e := range l.limiters {
		if e.lastSeen.Before(cutoff) {
			delete(l.limiters, key)
		}
	}
}

// Len возвращает число отслеживаемых ключей
func (l *MemoryLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}
