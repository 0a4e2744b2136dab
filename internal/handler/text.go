package handler

import (
	"context"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/beauteq/salonbot/internal/middleware"
	tg "github.com/beauteq/salonbot/internal/telegram"
)

// HandleText processes free-text messages: menu buttons first, everything
// else through the dialogue processor.
func (h *Handler) HandleText(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Chat.Type != "private" {
		return
	}

	msg := update.Message
	if strings.HasPrefix(msg.Text, "/") {
		return
	}

	sender := middleware.GetSender(ctx)
	if sender == nil {
		return
	}

	switch msg.Text {
	case tg.ButtonServices:
		h.handleServices(ctx, b, update)
		return
	case tg.ButtonMasters:
		h.handleMasters(ctx, b, update)
		return
	case tg.ButtonAppointments:
		h.handleAppointments(ctx, b, update)
		return
	}

	text := msg.Text
	if text == tg.ButtonBook {
		text = "Хочу записаться"
	}

	chatID := msg.Chat.ID
	stopTyping := tg.StartTyping(ctx, b, chatID)
	reply, err := h.processor.HandleMessage(ctx, sender.ID, sender.FirstName, text)
	stopTyping()
	if err != nil {
		slog.Error("handle message", "error", err, "user_id", sender.ID)
		h.sendFailure(ctx, b, chatID)
		return
	}

	if err := tg.SendLongMessage(ctx, b, chatID, reply.Text, nil); err != nil {
		slog.Error("send reply", "error", err, "user_id", sender.ID)
	}
}
