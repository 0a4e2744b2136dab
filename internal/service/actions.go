package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/beauteq/salonbot/internal/domain"
)

// ParamSpec describes one action parameter for the model prompt.
type ParamSpec struct {
	Name        string
	Type        string
	Description string
	Required    bool
}

// ActionSpec describes one callable action for the model prompt.
type ActionSpec struct {
	Name        string
	Description string
	Params      []ParamSpec
}

// Registry is the static map from action name to its schema and handler.
// Built once at startup; dispatch is an explicit switch, nothing is
// discovered at runtime.
type Registry struct {
	booking *Booking
	specs   []ActionSpec
}

func NewRegistry(booking *Booking) *Registry {
	return &Registry{
		booking: booking,
		specs: []ActionSpec{
			{
				Name:        domain.ActionListMasters,
				Description: "Получить список доступных мастеров по специализации",
				Params: []ParamSpec{
					{Name: "specialization", Type: "string", Description: "специализация (парикмахер, косметолог, маникюр, визажист)"},
				},
			},
			{
				Name:        domain.ActionListServices,
				Description: "Получить список услуг по категории",
				Params: []ParamSpec{
					{Name: "category", Type: "string", Description: "категория услуг (Парикмахерские, Косметология, Ногтевой сервис, Визаж)"},
				},
			},
			{
				Name:        domain.ActionCheckAvail,
				Description: "Проверить доступность мастера на определенную дату и время",
				Params: []ParamSpec{
					{Name: "master_name", Type: "string", Description: "имя мастера", Required: true},
					{Name: "date", Type: "string", Description: "дата в формате ГГГГ-ММ-ДД", Required: true},
					{Name: "time", Type: "string", Description: "время в формате ЧЧ:ММ", Required: true},
				},
			},
			{
				Name:        domain.ActionCreateAppt,
				Description: "Создать запись к мастеру",
				Params: []ParamSpec{
					{Name: "master_name", Type: "string", Description: "имя мастера для записи", Required: true},
					{Name: "service_name", Type: "string", Description: "название услуги для записи", Required: true},
					{Name: "date", Type: "string", Description: "дата записи в формате ГГГГ-ММ-ДД", Required: true},
					{Name: "time", Type: "string", Description: "время записи в формате ЧЧ:ММ", Required: true},
					{Name: "client_name", Type: "string", Description: "имя клиента для записи"},
				},
			},
			{
				Name:        domain.ActionUserAppointments,
				Description: "Получить записи пользователя",
			},
		},
	}
}

// Specs returns the action descriptors handed to the model.
func (r *Registry) Specs() []ActionSpec {
	return r.specs
}

// Dispatch executes a resolved action and renders its user-facing text.
// The structured result is returned alongside for the function-call entry
// point. Domain failures come back as errors for RenderError.
func (r *Registry) Dispatch(ctx context.Context, a domain.Action) (string, any, error) {
	switch a.Kind {
	case domain.ActionListMasters:
		masters, err := r.booking.ListMasters(ctx, a.Str("specialization"))
		if err != nil {
			return "", nil, err
		}
		return RenderMasters(masters), masters, nil

	case domain.ActionListServices:
		services, err := r.booking.ListServices(ctx, a.Str("category"))
		if err != nil {
			return "", nil, err
		}
		return RenderServices(services), services, nil

	case domain.ActionCheckAvail:
		avail, err := r.booking.CheckAvailability(ctx, a.Str("master_name"), a.Str("date"), a.Str("time"))
		if err != nil {
			return "", nil, err
		}
		return RenderAvailability(avail, a.Str("date"), a.Str("time")), avail, nil

	case domain.ActionCreateAppt:
		conf, avail, err := r.booking.Create(ctx, a.Int64("user_id"),
			a.Str("master_name"), a.Str("service_name"), a.Str("date"), a.Str("time"))
		if err != nil {
			return "", nil, err
		}
		if !avail.Available {
			return fmt.Sprintf("❌ Не удалось создать запись: %s", avail.Reason), avail, nil
		}
		return RenderConfirmation(conf), conf, nil

	case domain.ActionUserAppointments:
		appointments, err := r.booking.UserAppointments(ctx, a.Int64("user_id"))
		if err != nil {
			return "", nil, err
		}
		return RenderAppointments(appointments), appointments, nil
	}

	return "", nil, fmt.Errorf("%w: %s", domain.ErrUnknownAction, a.Kind)
}

// RenderError converts a domain failure into user-facing text. Unresolved
// references are answered with the listing of valid options.
func (r *Registry) RenderError(ctx context.Context, err error) string {
	switch {
	case errors.Is(err, domain.ErrMasterNotFound):
		text := "❌ Мастер не найден."
		if masters, lerr := r.booking.ListMasters(ctx, ""); lerr == nil {
			text += "\n\n" + RenderMasters(masters)
		}
		return text

	case errors.Is(err, domain.ErrServiceNotFound):
		text := "❌ Услуга не найдена."
		if services, lerr := r.booking.ListServices(ctx, ""); lerr == nil {
			text += "\n\n" + RenderServices(services)
		}
		return text

	case errors.Is(err, domain.ErrSlotTaken):
		return "❌ Это время только что заняли. Пожалуйста, выберите другое время."

	case errors.Is(err, domain.ErrModelUnavailable):
		return "Сервис временно недоступен. Пожалуйста, попробуйте позже."

	case errors.Is(err, domain.ErrUnknownAction):
		return "Извините, я не поняла запрос. Попробуйте сформулировать иначе."
	}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		field := verr.Field
		switch field {
		case "date":
			field = "дату"
		case "time":
			field = "время"
		}
		return fmt.Sprintf("Пожалуйста, укажите %s в формате %s", field, verr.Hint)
	}

	return "Извините, произошла ошибка. Пожалуйста, попробуйте позже."
}
