package auth

import (
	"strings"
	"sync"
	"time"
)

// LoginLimiter считает неудачные попытки входа по email в скользящем окне
type LoginLimiter struct {
	mu          sync.Mutex
	maxAttempts int
	window      time.Duration
	attempts    map[string][]time.Time
	now         func() time.Time
}

// NewLoginLimiter создаёт ограничитель: не более maxAttempts неудач за window
func NewLoginLimiter(maxAttempts int, window time.Duration) *LoginLimiter {
	return &LoginLimiter{
		maxAttempts: maxAttempts,
		window:      window,
		attempts:    make(map[string][]time.Time),
		now:         time.Now,
	}
}

// Limited сообщает, исчерпан ли лимит неудачных попыток для email
func (l *LoginLimiter) Limited(email string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pruneLocked(key(email))) >= l.maxAttempts
}

// Fail записывает неудачную попытку
func (l *LoginLimiter) Fail(email string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	k := key(email)
	l.attempts[k] = append(l.pruneLocked(k), l.now())
}

// Reset сбрасывает счётчик после успешного входа
func (l *LoginLimiter) Reset(email string) {
	l.mu.Lock()
	delete(l.attempts, key(email))
	l.mu.Unlock()
}

func (l *LoginLimiter) pruneLocked(k string) []time.Time {
	cutoff := l.now().Add(-l.window)
	kept := l.attempts[k][:0]
	for _, at := range l.attempts[k] {
		if at.After(cutoff) {
			kept = append(kept, at)
		}
	}
	if len(kept) == 0 {
		delete(l.attempts, k)
		return nil
	}
	l.attempts[k] = kept
	return kept
}

// key нормализует email и копирует его, чтобы ключ не ссылался на буфер запроса
func key(email string) string {
	return strings.Clone(strings.ToLower(strings.TrimSpace(email)))
}
