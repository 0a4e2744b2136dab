package handler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/beauteq/salonbot/internal/config"
	"github.com/beauteq/salonbot/internal/middleware"
	"github.com/beauteq/salonbot/internal/service"
	tg "github.com/beauteq/salonbot/internal/telegram"
)

func (h *Handler) handleServices(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	services, err := h.booking.ListServices(ctx, "")
	if err != nil {
		slog.Error("list services", "error", err)
		h.sendFailure(ctx, b, chatID)
		return
	}
	tg.SendLongMessage(ctx, b, chatID, service.RenderServices(services), nil)
}

func (h *Handler) handleMasters(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	masters, err := h.booking.ListMasters(ctx, "")
	if err != nil {
		slog.Error("list masters", "error", err)
		h.sendFailure(ctx, b, chatID)
		return
	}

	var sb strings.Builder
	sb.WriteString("👩‍💼 *Наши мастера:*\n\n")
	for _, m := range masters {
		fmt.Fprintf(&sb, "*%s* - %s\n", m.Name, m.Specialization)
	}
	tg.SendLongMessage(ctx, b, chatID, sb.String(), nil)
}

func (h *Handler) handleAppointments(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	sender := middleware.GetSender(ctx)
	if sender == nil {
		return
	}
	chatID := update.Message.Chat.ID

	appointments, err := h.booking.UserAppointments(ctx, sender.ID)
	if err != nil {
		slog.Error("list appointments", "error", err, "user_id", sender.ID)
		h.sendFailure(ctx, b, chatID)
		return
	}
	tg.SendLongMessage(ctx, b, chatID, service.RenderAppointments(appointments), nil)
}

func (h *Handler) handleContacts(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	contacts := fmt.Sprintf(`📞 *Контакты салона %s*

*Телефон:* %s
*Режим работы:* %s

📍 *Адрес:* г. Москва, ул. Красивая, д. 1

Мы всегда рады вам! 💫`, h.cfg.SalonName, h.cfg.SalonPhone, config.WorkingHoursText)

	tg.SendLongMessage(ctx, b, update.Message.Chat.ID, contacts, nil)
}

func (h *Handler) sendFailure(ctx context.Context, b *bot.Bot, chatID int64) {
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   "Извините, произошла ошибка. Пожалуйста, попробуйте позже.",
	})
}
