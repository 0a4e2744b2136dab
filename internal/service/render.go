package service

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/beauteq/salonbot/internal/config"
	"github.com/beauteq/salonbot/internal/domain"
)

// Renderers turn raw dispatch results into the Russian texts the bot sends.

func RenderMasters(masters []domain.Master) string {
	if len(masters) == 0 {
		return "👩‍💼 К сожалению, сейчас нет доступных мастеров."
	}

	var sb strings.Builder
	sb.WriteString("👩‍💼 *Доступные мастера:*\n\n")
	for _, m := range masters {
		fmt.Fprintf(&sb, "*%s* - %s\n", m.Name, m.Specialization)
	}
	return sb.String()
}

func RenderServices(services []domain.Service) string {
	if len(services) == 0 {
		return "💇 Услуги не найдены."
	}

	var sb strings.Builder
	sb.WriteString("💇 *Наши услуги и цены:*\n\n")
	for _, s := range services {
		fmt.Fprintf(&sb, "*%s* - %s руб. (%d мин.)\n", s.Name, formatPrice(s.Price), s.DurationMinutes)
	}
	return sb.String()
}

func RenderAvailability(avail domain.Availability, date, tm string) string {
	if avail.Available {
		return fmt.Sprintf("✅ %s, %s %s: свободно. Можно записаться!", avail.Master, date, tm)
	}
	if avail.Reason == domain.ReasonOutsideHours {
		return fmt.Sprintf("❌ %s %s: вне рабочего времени салона. Наш график: %s", date, tm, config.WorkingHoursText)
	}
	return fmt.Sprintf("❌ %s, %s %s: занято. Выберите другое время.", avail.Master, date, tm)
}

func RenderConfirmation(conf domain.Confirmation) string {
	return fmt.Sprintf(`✅ *Запись успешно создана!*

*Мастер:* %s
*Услуга:* %s
*Дата:* %s
*Время:* %s
*Стоимость:* %s руб.

Ждем вас в салоне! 🎉`,
		conf.Master, conf.Service, conf.Date, conf.Time, formatPrice(conf.Price))
}

func RenderAppointments(appointments []domain.Appointment) string {
	if len(appointments) == 0 {
		return "📋 У вас пока нет записей."
	}

	var sb strings.Builder
	sb.WriteString("📋 *Ваши записи:*\n\n")
	for _, a := range appointments {
		fmt.Fprintf(&sb, "*%s* - %s\n", a.MasterName, a.ServiceName)
		fmt.Fprintf(&sb, "📅 %s\n", a.StartsAt.Format("2006-01-02 15:04"))
		fmt.Fprintf(&sb, "💵 %s руб.\n", formatPrice(a.Price))
		fmt.Fprintf(&sb, "Статус: %s\n\n", a.Status)
	}
	return sb.String()
}

func formatPrice(p decimal.Decimal) string {
	if p.IsInteger() {
		return p.StringFixed(0)
	}
	return p.StringFixed(2)
}
