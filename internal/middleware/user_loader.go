package middleware

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/beauteq/salonbot/internal/repository"
)

type ctxKey string

const userKey ctxKey = "user"

// SenderInfo identifies the Telegram user behind an update.
type SenderInfo struct {
	ID        int64
	Username  string
	FirstName string
}

// GetSender extracts the sender from context.
func GetSender(ctx context.Context) *SenderInfo {
	s, ok := ctx.Value(userKey).(*SenderInfo)
	if !ok {
		return nil
	}
	return s
}

// UserLoader returns middleware that upserts the sender into the store and
// puts their identity into the context.
func UserLoader(store *repository.Store) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			var from *models.User
			if update.Message != nil {
				from = update.Message.From
			} else if update.CallbackQuery != nil {
				from = &update.CallbackQuery.From
			}

			if from == nil {
				next(ctx, b, update)
				return
			}

			if err := store.SaveUser(ctx, from.ID, from.Username, from.FirstName); err != nil {
				slog.Error("save user", "error", err, "user_id", from.ID)
			}

			ctx = context.WithValue(ctx, userKey, &SenderInfo{
				ID:        from.ID,
				Username:  from.Username,
				FirstName: from.FirstName,
			})
			next(ctx, b, update)
		}
	}
}
