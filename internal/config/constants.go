package config

import "time"

const (
	// AI request timeout
	RequestTimeout = 90 * time.Second

	// Telegram limits
	MaxTelegramMessageLen = 4096

	// Conversation context window (messages, user and bot combined)
	HistoryWindow = 10

	// Knowledge snippets attached to the system prompt
	KnowledgeTopK = 2

	// Date suggestions offered during the booking flow (today+1 .. today+N)
	DateSuggestionDays = 7

	// Rate limits (per minute)
	RateLimitPerChat = 6

	// Salon working hours (local time)
	WeekdayOpenHour  = 9
	WeekdayCloseHour = 21
	WeekendOpenHour  = 10
	WeekendCloseHour = 20

	WorkingHoursText = "Пн-Пт: 9:00-21:00, Сб-Вс: 10:00-20:00"
)

// BookingTriggers start the step-by-step booking flow when found in an
// idle user's message.
var BookingTriggers = []string{
	"записаться", "запись", "бронь", "стрижк", "маникюр",
	"окрашивание", "макияж", "чистка", "хочу записаться", "запишите",
}

// TimeSuggestions offered during the booking flow. Any HH:MM is accepted,
// these are examples only.
var TimeSuggestions = []string{"10:00", "11:00", "14:00", "15:00", "16:00", "17:00", "18:00"}

// AffirmativeTokens confirm a booking at the final step.
var AffirmativeTokens = []string{"да", "yes", "ок", "подтверждаю", "верно"}
