package auth

import (
	"sync"
	"time"
)

// RevocationList remembers logged-out token ids until the tokens would have expired anyway.
type RevocationList struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewRevocationList() *RevocationList {
	return &RevocationList{entries: make(map[string]time.Time), now: time.Now}
}

func (l *RevocationList) Revoke(jti string, expiresAt time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	for id, exp := range l.entries {
		if !exp.After(now) {
			delete(l.entries, id)
		}
	}
	l.entries[jti] = expiresAt
}

func (l *RevocationList) IsRevoked(jti string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.entries[jti]
	return ok
}
