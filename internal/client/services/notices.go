package services

import (
	"sync"
	"time"
)

// NoticeKind identifies why a notice was raised.
type NoticeKind string

const (
	NoticeAlreadySent      NoticeKind = "already_sent"
	NoticeAlreadyConnected NoticeKind = "already_connected"
	NoticeConnected        NoticeKind = "connected"
	NoticeRequestSent      NoticeKind = "request_sent"
)

const DefaultNoticeTTL = 4 * time.Second

// Notice is a transient message that dismisses itself after the board's TTL.
type Notice struct {
	Kind   NoticeKind
	UserID string
	Text   string
	At     time.Time
}

// NoticeBoard holds transient notices. Expired notices are dropped lazily.
type NoticeBoard struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	notices []Notice
}

func NewNoticeBoard(ttl time.Duration) *NoticeBoard {
	if ttl <= 0 {
		ttl = DefaultNoticeTTL
	}
	return &NoticeBoard{ttl: ttl, now: time.Now}
}

func (b *NoticeBoard) Push(kind NoticeKind, userID, text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.notices = append(b.notices, Notice{Kind: kind, UserID: userID, Text: text, At: b.now()})
}

// Active returns the notices that have not expired, oldest first.
func (b *NoticeBoard) Active() []Notice {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.expireLocked()
	return append([]Notice(nil), b.notices...)
}

// Drain returns the active notices and clears the board.
func (b *NoticeBoard) Drain() []Notice {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.expireLocked()
	out := b.notices
	b.notices = nil
	return out
}

func (b *NoticeBoard) expireLocked() {
	cutoff := b.now().Add(-b.ttl)
	kept := b.notices[:0]
	for _, n := range b.notices {
		if n.At.After(cutoff) {
			kept = append(kept, n)
		}
	}
	b.notices = kept
}
