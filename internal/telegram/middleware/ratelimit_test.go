package middleware

import (
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []string
}

func (r *recordingSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		r.sent = append(r.sent, msg.Text)
	}
	return tgbotapi.Message{}, nil
}

func messageFrom(userID int64) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		From: &tgbotapi.User{ID: userID},
		Chat: &tgbotapi.Chat{ID: userID},
		Text: "What is the NAV?",
	}}
}

func TestRateLimiterBurstAndRefill(t *testing.T) {
	sender := &recordingSender{}
	rl := NewRateLimiterMiddleware(6, 2, zap.NewNop(), sender)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	passed := 0
	next := func(tgbotapi.Update) { passed++ }

	for range 3 {
		rl.Handle(messageFrom(1), next)
	}
	assert.Equal(t, passed, 2)
	assert.Assert(t, is.Len(sender.sent, 1))

	// 6 per minute refills one token every 10 seconds
	now = now.Add(10 * time.Second)
	rl.Handle(messageFrom(1), next)
	assert.Equal(t, passed, 3)

	// other users have their own bucket
	rl.Handle(messageFrom(2), next)
	assert.Equal(t, passed, 4)
}

func TestRateLimiterWarningsAreSpaced(t *testing.T) {
	sender := &recordingSender{}
	rl := NewRateLimiterMiddleware(1, 1, zap.NewNop(), sender)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	next := func(tgbotapi.Update) {}
	for range 5 {
		rl.Handle(messageFrom(1), next)
	}
	assert.Assert(t, is.Len(sender.sent, 1))

	now = now.Add(31 * time.Second)
	rl.Handle(messageFrom(1), next)
	assert.Assert(t, is.Len(sender.sent, 2))
	assert.Assert(t, sender.sent[0] != sender.sent[1])
}

func TestRateLimiterPassesNonMessageUpdates(t *testing.T) {
	rl := NewRateLimiterMiddleware(1, 1, zap.NewNop(), &recordingSender{})
	called := false
	rl.Handle(tgbotapi.Update{UpdateID: 9}, func(tgbotapi.Update) { called = true })
	assert.Assert(t, called)
}

func TestCleanupInactiveUsers(t *testing.T) {
	rl := NewRateLimiterMiddleware(10, 5, zap.NewNop(), &recordingSender{})
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.Handle(messageFrom(1), func(tgbotapi.Update) {})
	now = now.Add(30 * time.Minute)
	rl.Handle(messageFrom(2), func(tgbotapi.Update) {})
	now = now.Add(45 * time.Minute)

	assert.Equal(t, rl.CleanupInactiveUsers(time.Hour), 1)
	assert.Equal(t, len(rl.limits), 1)
}

func TestRecoverySendsMessage(t *testing.T) {
	sender := &recordingSender{}
	m := NewRecoveryMiddleware(zap.NewNop(), sender)

	m.Handle(messageFrom(4), func(tgbotapi.Update) { panic("boom") })
	assert.DeepEqual(t, sender.sent, []string{panicMessage})
}
