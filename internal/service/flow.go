package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/beauteq/salonbot/internal/config"
	"github.com/beauteq/salonbot/internal/domain"
)

// Step is the position inside the booking flow, derived from which context
// fields are already filled. It is never stored, so a partial context can
// not drift out of sync with the prompt shown to the user.
type Step int

const (
	StepService Step = iota
	StepMaster
	StepDate
	StepTime
	StepConfirm
)

type bookingContext struct {
	service *domain.Service
	master  *domain.Master
	date    string
	time    string
}

func (c *bookingContext) step() Step {
	switch {
	case c.service == nil:
		return StepService
	case c.master == nil:
		return StepMaster
	case c.date == "":
		return StepDate
	case c.time == "":
		return StepTime
	default:
		return StepConfirm
	}
}

// flowSession is one user's in-memory booking state. Guarded by its own
// mutex: messages from the same user are processed one at a time.
type flowSession struct {
	mu     sync.Mutex
	userID int64
	active bool
	fields bookingContext
}

func (s *flowSession) reset() {
	s.fields = bookingContext{}
	s.active = false
}

// FlowManager drives the step-by-step booking flow. Sessions are created
// lazily on first message and live for the process lifetime.
type FlowManager struct {
	mu       sync.Mutex
	sessions map[int64]*flowSession

	store   Store
	booking *Booking
	loc     *time.Location
	now     func() time.Time
}

func NewFlowManager(store Store, booking *Booking, loc *time.Location) *FlowManager {
	return &FlowManager{
		sessions: make(map[int64]*flowSession),
		store:    store,
		booking:  booking,
		loc:      loc,
		now:      time.Now,
	}
}

func (f *FlowManager) session(userID int64) *flowSession {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[userID]
	if !ok {
		s = &flowSession{userID: userID}
		f.sessions[userID] = s
	}
	return s
}

// Process runs one message through the booking flow. When handled is false
// the message is not the flow's business and the dialogue path takes over.
func (f *FlowManager) Process(ctx context.Context, userID int64, message string) (reply string, handled bool, err error) {
	s := f.session(userID)
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active {
		if !isBookingTrigger(message) {
			return "", false, nil
		}
		s.active = true
		reply, err = f.serviceMenu(ctx)
		if err != nil {
			s.reset()
			return "", true, err
		}
		return reply, true, nil
	}

	switch s.fields.step() {
	case StepService:
		reply, err = f.serviceStep(ctx, s, message)
	case StepMaster:
		reply, err = f.masterStep(ctx, s, message)
	case StepDate:
		reply, err = f.dateStep(s, message)
	case StepTime:
		reply, err = f.timeStep(s, message)
	case StepConfirm:
		reply, err = f.confirmStep(ctx, s, message)
	}
	return reply, true, err
}

func (f *FlowManager) serviceMenu(ctx context.Context) (string, error) {
	services, err := f.store.ListServices(ctx, "")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Отлично! Помогу с записью.\n\n%s\n\n*Просто напишите название услуги*",
		serviceMenuList(services)), nil
}

func (f *FlowManager) serviceStep(ctx context.Context, s *flowSession, message string) (string, error) {
	services, err := f.store.ListServices(ctx, "")
	if err != nil {
		return "", err
	}

	svc, ok := ResolveService(message, services)
	if !ok {
		return fmt.Sprintf("Не нашла услугу '%s'. Пожалуйста, выберите из списка:\n\n%s",
			strings.TrimSpace(message), serviceMenuList(services)), nil
	}
	s.fields.service = &svc

	masters, err := f.store.ListMasters(ctx, "")
	if err != nil {
		s.fields.service = nil
		return "", err
	}
	suitable := suitableMasters(masters, svc.Category)
	if len(suitable) == 0 {
		// Terminal leaf, not a failure: nobody performs this service now.
		s.reset()
		return fmt.Sprintf("К сожалению, для услуги '%s' сейчас нет доступных мастеров.", svc.Name), nil
	}

	return fmt.Sprintf("Услуга: *%s*\n\n%s", svc.Name, masterMenuList(suitable)), nil
}

func (f *FlowManager) masterStep(ctx context.Context, s *flowSession, message string) (string, error) {
	masters, err := f.store.ListMasters(ctx, "")
	if err != nil {
		return "", err
	}
	suitable := suitableMasters(masters, s.fields.service.Category)

	master, ok := ResolveMaster(message, suitable)
	if !ok {
		return fmt.Sprintf("Мастер '%s' не найден для услуги '%s'. Выберите из списка выше.",
			strings.TrimSpace(message), s.fields.service.Name), nil
	}
	s.fields.master = &master

	return fmt.Sprintf("Мастер: *%s*\n\n📅 *Выберите дату:*\n%s",
		master.Name, bulletList(f.suggestedDates())), nil
}

func (f *FlowManager) dateStep(s *flowSession, message string) (string, error) {
	message = strings.TrimSpace(message)
	if !dateRe.MatchString(message) {
		return fmt.Sprintf("Пожалуйста, укажите дату в формате ГГГГ-ММ-ДД:\n%s",
			bulletList(f.suggestedDates())), nil
	}
	s.fields.date = message

	return fmt.Sprintf("Дата: *%s*\n\n⏰ *Выберите время:*\n%s",
		message, bulletList(config.TimeSuggestions)), nil
}

func (f *FlowManager) timeStep(s *flowSession, message string) (string, error) {
	message = strings.TrimSpace(message)
	if !timeRe.MatchString(message) {
		return "Пожалуйста, укажите время в формате ЧЧ:ММ (например, 14:30)", nil
	}
	s.fields.time = message

	return fmt.Sprintf(`✅ *Подтвердите запись:*

*Услуга:* %s
*Мастер:* %s
*Дата:* %s
*Время:* %s
*Стоимость:* %s руб.

Всё верно? (да/нет)`,
		s.fields.service.Name, s.fields.master.Name, s.fields.date, s.fields.time,
		formatPrice(s.fields.service.Price)), nil
}

func (f *FlowManager) confirmStep(ctx context.Context, s *flowSession, message string) (string, error) {
	if !isAffirmative(message) {
		s.reset()
		return "Запись отменена. Чем еще могу помочь?", nil
	}

	master, svc := *s.fields.master, *s.fields.service
	date, tm := s.fields.date, s.fields.time
	s.reset()

	_, avail, err := f.booking.Book(ctx, s.userID, master, svc, date, tm)
	if err != nil {
		if errors.Is(err, domain.ErrSlotTaken) {
			return "❌ Это время только что заняли. Пожалуйста, выберите другое время.", nil
		}
		return "", err
	}
	if !avail.Available {
		return fmt.Sprintf("❌ Ошибка при создании записи: %s", avail.Reason), nil
	}

	return "🎉 Запись успешно создана! Ждем вас в салоне!", nil
}

func (f *FlowManager) suggestedDates() []string {
	today := f.now().In(f.loc)
	dates := make([]string, 0, config.DateSuggestionDays)
	for i := 1; i <= config.DateSuggestionDays; i++ {
		dates = append(dates, today.AddDate(0, 0, i).Format("2006-01-02"))
	}
	return dates
}

func isBookingTrigger(message string) bool {
	message = strings.ToLower(message)
	for _, kw := range config.BookingTriggers {
		if strings.Contains(message, kw) {
			return true
		}
	}
	return false
}

func isAffirmative(message string) bool {
	message = strings.ToLower(strings.TrimSpace(message))
	for _, token := range config.AffirmativeTokens {
		if message == token {
			return true
		}
	}
	return false
}

func suitableMasters(masters []domain.Master, category string) []domain.Master {
	var suitable []domain.Master
	for _, m := range masters {
		if MasterSuits(m, category) {
			suitable = append(suitable, m)
		}
	}
	return suitable
}

func serviceMenuList(services []domain.Service) string {
	var sb strings.Builder
	sb.WriteString("📋 *Выберите услугу:*\n")
	for i, s := range services {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "• %s - %s руб.", s.Name, formatPrice(s.Price))
	}
	return sb.String()
}

func masterMenuList(masters []domain.Master) string {
	var sb strings.Builder
	sb.WriteString("👩‍💼 *Выберите мастера:*\n")
	for i, m := range masters {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "• %s - %s", m.Name, m.Specialization)
	}
	return sb.String()
}

func bulletList(items []string) string {
	var sb strings.Builder
	for i, item := range items {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString("• " + item)
	}
	return sb.String()
}
