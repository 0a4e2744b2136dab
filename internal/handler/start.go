package handler

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/beauteq/salonbot/internal/middleware"
	tg "github.com/beauteq/salonbot/internal/telegram"
)

func (h *Handler) handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	sender := middleware.GetSender(ctx)
	if sender == nil {
		return
	}

	welcome := fmt.Sprintf(`Привет, %s! 👋

Я Анастасия, ваш AI-ассистент салона красоты *%s*!

Я могу помочь вам:
💇‍♀️ *Записаться* к мастеру
📅 *Узнать свободное время*
💄 *Подобрать услугу*
💰 *Узнать цены*
📋 *Посмотреть ваши записи*

Просто напишите, что вас интересует!`, sender.FirstName, h.cfg.SalonName)

	tg.SendLongMessage(ctx, b, update.Message.Chat.ID, welcome, tg.MainMenu())
}
