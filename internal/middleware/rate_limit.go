package middleware

import (
	"context"
	"sync"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"golang.org/x/time/rate"

	"github.com/beauteq/salonbot/internal/config"
)

// RateLimit returns middleware that enforces a per-chat message budget with
// token buckets, refilled at the per-minute limit.
func RateLimit() bot.Middleware {
	var mu sync.Mutex
	limiters := make(map[int64]*rate.Limiter)

	limiterFor := func(chatID int64) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		l, ok := limiters[chatID]
		if !ok {
			l = rate.NewLimiter(rate.Limit(config.RateLimitPerChat)/60, config.RateLimitPerChat)
			limiters[chatID] = l
		}
		return l
	}

	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			if update.Message == nil {
				next(ctx, b, update)
				return
			}

			chatID := update.Message.Chat.ID
			if !limiterFor(chatID).Allow() {
				b.SendMessage(ctx, &bot.SendMessageParams{
					ChatID: chatID,
					Text:   "⏳ Слишком много запросов. Подождите немного.",
				})
				return
			}

			next(ctx, b, update)
		}
	}
}
