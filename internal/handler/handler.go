package handler

import (
	"github.com/go-telegram/bot"

	"github.com/beauteq/salonbot/internal/config"
	"github.com/beauteq/salonbot/internal/service"
)

// Handler holds all dependencies needed by command and text handlers.
type Handler struct {
	bot       *bot.Bot
	cfg       *config.Config
	processor *service.Processor
	booking   *service.Booking
}

// Deps contains all dependencies required to construct a Handler.
type Deps struct {
	Bot       *bot.Bot
	Cfg       *config.Config
	Processor *service.Processor
	Booking   *service.Booking
}

// New creates a new Handler from the provided dependencies.
func New(deps Deps) *Handler {
	return &Handler{
		bot:       deps.Bot,
		cfg:       deps.Cfg,
		processor: deps.Processor,
		booking:   deps.Booking,
	}
}

// Register registers all command handlers on the bot instance.
func (h *Handler) Register() {
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypePrefix, h.handleStart)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/services", bot.MatchTypePrefix, h.handleServices)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/masters", bot.MatchTypePrefix, h.handleMasters)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/appointments", bot.MatchTypePrefix, h.handleAppointments)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/contacts", bot.MatchTypePrefix, h.handleContacts)
}
