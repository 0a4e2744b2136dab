package telegram

import "github.com/go-telegram/bot/models"

// Main menu button labels; the text handler routes them like commands.
const (
	ButtonBook         = "📅 Записаться"
	ButtonServices     = "💇 Услуги и цены"
	ButtonMasters      = "👩‍💼 Наши мастера"
	ButtonAppointments = "📋 Мои записи"
)

// MainMenu is the persistent reply keyboard shown after /start.
func MainMenu() *models.ReplyKeyboardMarkup {
	return &models.ReplyKeyboardMarkup{
		Keyboard: [][]models.KeyboardButton{
			{{Text: ButtonBook}, {Text: ButtonServices}},
			{{Text: ButtonMasters}, {Text: ButtonAppointments}},
		},
		ResizeKeyboard: true,
	}
}
