package ratelimit

import (
	"sync"
	"time"
)

type entry struct {
	used    int
	window  int64 // start of the current one-minute window
	banning int64 // unix time the ban expires, 0 if not banned
}

type Limiter struct {
	perMinute int
	entries   map[string]*entry

	sync.Mutex
}

func New(perMinute int) *Limiter {
	return &Limiter{
		perMinute: perMinute,
		entries:   make(map[string]*entry),
	}
}

// Allow reports whether key may spend cost more requests this minute.
// Exceeding the budget bans the key for two minutes.
func (l *Limiter) Allow(key string, cost int) bool {
	now := time.Now().Unix()

	l.Lock()
	defer l.Unlock()

	e := l.entries[key]
	if e == nil {
		e = &entry{window: now}
		l.entries[key] = e
	}

	if e.banning > now {
		return false
	}

	if now-e.window >= 60 {
		e.window = now
		e.used = 0
	}

	e.used += cost
	if e.used > l.perMinute {
		e.banning = now + 120
		return false
	}
	return true
}
