package ratelimit

import (
	"sync"
	"time"
)

// Limiter is a per-key sliding-window attempt counter.
type Limiter struct {
	maxAttempts int
	window      time.Duration
	now         func() time.Time

	attempts map[string][]time.Time
	mu       sync.Mutex

	stop     chan struct{}
	stopOnce sync.Once
}

func NewLimiter(maxAttempts int, window time.Duration) *Limiter {
	l := &Limiter{
		maxAttempts: maxAttempts,
		window:      window,
		now:         time.Now,
		attempts:    make(map[string][]time.Time),
		stop:        make(chan struct{}),
	}
	go l.cleanup(5 * time.Minute)
	return l
}

// Allow records an attempt for key and reports whether it fits in the window.
// Rejected attempts are not recorded.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	valid := l.pruneLocked(key, now)

	if len(valid) >= l.maxAttempts {
		return false
	}

	l.attempts[key] = append(valid, now)
	return true
}

func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.attempts, key)
}

// Close stops the background cleanup.
func (l *Limiter) Close() {
	l.stopOnce.Do(func() { close(l.stop) })
}

func (l *Limiter) pruneLocked(key string, now time.Time) []time.Time {
	cutoff := now.Add(-l.window)
	attempts := l.attempts[key]

	valid := attempts[:0]
	for _, timestamp := range attempts {
		if timestamp.After(cutoff) {
			valid = append(valid, timestamp)
		}
	}
	if len(valid) == 0 {
		delete(l.attempts, key)
		return nil
	}
	l.attempts[key] = valid
	return valid
}

func (l *Limiter) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.mu.Lock()
			now := l.now()
			for key := range l.attempts {
				l.pruneLocked(key, now)
			}
			l.mu.Unlock()
		case <-l.stop:
			return
		}
	}
}
