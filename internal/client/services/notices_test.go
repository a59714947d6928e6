package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoticeBoard_Expires(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	b := NewNoticeBoard(4 * time.Second)
	b.now = func() time.Time { return now }

	b.Push(NoticeAlreadySent, "u1", "already sent")
	now = now.Add(2 * time.Second)
	b.Push(NoticeConnected, "u2", "connected")

	active := b.Active()
	require.Len(t, active, 2)
	assert.Equal(t, NoticeAlreadySent, active[0].Kind)

	now = now.Add(3 * time.Second)
	active = b.Active()
	require.Len(t, active, 1)
	assert.Equal(t, "u2", active[0].UserID)

	now = now.Add(time.Minute)
	assert.Empty(t, b.Active())
}

func TestNoticeBoard_Drain(t *testing.T) {
	b := NewNoticeBoard(0)
	assert.Equal(t, DefaultNoticeTTL, b.ttl)

	b.Push(NoticeRequestSent, "u1", "sent")
	require.Len(t, b.Drain(), 1)
	assert.Empty(t, b.Drain())
}
