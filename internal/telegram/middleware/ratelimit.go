package middleware

import (
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Sender delivers a message to a chat. *tgbotapi.BotAPI satisfies it.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// userLimit tracks rate limit state for a single user
type userLimit struct {
	tokens        float64
	lastRefill    time.Time
	warningsSent  int
	lastWarningAt time.Time
	mu            sync.Mutex
}

// RateLimiterMiddleware implements token bucket rate limiting per user.
// Every question costs an embedding call and an LLM call, so the bucket is small.
type RateLimiterMiddleware struct {
	limits          map[int64]*userLimit
	mu              sync.Mutex
	maxTokens       float64 // bucket capacity, the burst size
	refillRate      float64 // tokens added per second
	warningInterval time.Duration
	logger          *zap.Logger
	api             Sender
	now             func() time.Time
}

// NewRateLimiterMiddleware creates a new rate limiter middleware
func NewRateLimiterMiddleware(
	requestsPerMinute int,
	burstSize int,
	logger *zap.Logger,
	api Sender,
) *RateLimiterMiddleware {
	if burstSize < 1 {
		burstSize = 1
	}
	return &RateLimiterMiddleware{
		limits:          make(map[int64]*userLimit),
		maxTokens:       float64(burstSize),
		refillRate:      float64(requestsPerMinute) / 60.0,
		warningInterval: 30 * time.Second,
		logger:          logger,
		api:             api,
		now:             time.Now,
	}
}

// Handle processes the update through rate limiting
func (rl *RateLimiterMiddleware) Handle(update tgbotapi.Update, next func(tgbotapi.Update)) {
	if update.Message == nil || update.Message.From == nil {
		next(update)
		return
	}

	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	if !rl.allowRequest(userID, chatID) {
		rl.logger.Warn("rate limit exceeded",
			zap.Int64("user_id", userID),
			zap.Int64("chat_id", chatID),
		)
		return
	}

	next(update)
}

// allowRequest checks if request is allowed under rate limit
func (rl *RateLimiterMiddleware) allowRequest(userID, chatID int64) bool {
	now := rl.now()

	rl.mu.Lock()
	limit, exists := rl.limits[userID]
	if !exists {
		limit = &userLimit{
			tokens:     rl.maxTokens,
			lastRefill: now,
		}
		rl.limits[userID] = limit
	}
	rl.mu.Unlock()

	limit.mu.Lock()
	defer limit.mu.Unlock()

	elapsed := now.Sub(limit.lastRefill).Seconds()
	limit.tokens = min(limit.tokens+elapsed*rl.refillRate, rl.maxTokens)
	limit.lastRefill = now

	if limit.tokens >= 1.0 {
		limit.tokens -= 1.0
		limit.warningsSent = 0
		return true
	}

	if now.Sub(limit.lastWarningAt) > rl.warningInterval {
		limit.warningsSent++
		limit.lastWarningAt = now

		rl.sendRateLimitWarning(chatID, limit.warningsSent)
	}

	return false
}

// sendRateLimitWarning sends a warning message to the user
func (rl *RateLimiterMiddleware) sendRateLimitWarning(chatID int64, warningCount int) {
	var text string

	switch {
	case warningCount == 1:
		text = "⚠️ Too many questions at once. Please wait a moment."
	case warningCount == 2:
		text = "⚠️ Rate limit reached. Please wait about 30 seconds before asking again."
	default:
		text = "🛑 You are sending questions too often. Please wait a minute."
	}

	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := rl.api.Send(msg); err != nil {
		rl.logger.Error("failed to send rate limit warning",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
	}
}

// CleanupInactiveUsers drops users idle for longer than maxIdle and returns how many were removed
func (rl *RateLimiterMiddleware) CleanupInactiveUsers(maxIdle time.Duration) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	removed := 0
	for userID, limit := range rl.limits {
		limit.mu.Lock()
		if now.Sub(limit.lastRefill) > maxIdle {
			delete(rl.limits, userID)
			removed++
		}
		limit.mu.Unlock()
	}
	return removed
}

// RunCleanup calls CleanupInactiveUsers every interval until stop is closed
func (rl *RateLimiterMiddleware) RunCleanup(interval, maxIdle time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := rl.CleanupInactiveUsers(maxIdle); n > 0 {
				rl.logger.Debug("cleaned up inactive users from rate limiter", zap.Int("removed", n))
			}
		case <-stop:
			return
		}
	}
}
