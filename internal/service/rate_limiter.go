package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter limita la frecuencia de solicitudes por clave (normalmente la IP del cliente).
type RateLimiter interface {
	Allow(ctx context.Context, key string) bool
}

type memoryRateLimiter struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	window    time.Duration
	now       func() time.Time
	lastSweep time.Time
	entries   map[string]*limiterEntry
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewMemoryRateLimiter crea un limitador en memoria: max solicitudes por ventana, con
// reposicion continua. Se usa cuando Redis no esta configurado.
func NewMemoryRateLimiter(window time.Duration, max int) RateLimiter {
	if window <= 0 {
		window = time.Minute
	}
	if max <= 0 {
		max = 1
	}
	return &memoryRateLimiter{
		limit:   rate.Limit(float64(max) / window.Seconds()),
		burst:   max,
		window:  window,
		now:     time.Now,
		entries: make(map[string]*limiterEntry),
	}
}

func (l *memoryRateLimiter) get(key string) (*rate.Limiter, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)
	if entry, ok := l.entries[key]; ok {
		entry.lastSeen = now
		return entry.limiter, now
	}
	lim := rate.NewLimiter(l.limit, l.burst)
	l.entries[key] = &limiterEntry{limiter: lim, lastSeen: now}
	return lim, now
}

// sweep descarta, como mucho una vez por ventana, las claves sin actividad durante
// una ventana completa. Esas claves ya recuperaron todo su burst, asi que
// olvidarlas no cambia la decision para el cliente.
func (l *memoryRateLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.window {
		return
	}
	l.lastSweep = now
	for key, entry := range l.entries {
		if now.Sub(entry.lastSeen) >= l.window {
			delete(l.entries, key)
		}
	}
}

func (l *memoryRateLimiter) Allow(_ context.Context, key string) bool {
	key = strings.TrimSpace(key)
	if key == "" {
		key = "unknown"
	}
	lim, now := l.get(key)
	return lim.AllowN(now, 1)
}
