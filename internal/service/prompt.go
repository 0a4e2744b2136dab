package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/beauteq/salonbot/internal/domain"
)

var monthsRu = []string{
	"", "января", "февраля", "марта", "апреля", "мая", "июня",
	"июля", "августа", "сентября", "октября", "ноября", "декабря",
}

// PromptBuilder assembles the system prompts handed to the model. The
// catalog section is rebuilt from the store on every call so the model only
// ever sees real master and service names.
type PromptBuilder struct {
	store     Store
	salonName string
	loc       *time.Location
	now       func() time.Time
}

func NewPromptBuilder(store Store, salonName string, loc *time.Location) *PromptBuilder {
	return &PromptBuilder{store: store, salonName: salonName, loc: loc, now: time.Now}
}

// System builds the full dialogue system prompt: persona, knowledge
// snippets, catalog, callable actions, selection rules and the wire format.
func (p *PromptBuilder) System(ctx context.Context, userName string, snippets []domain.KnowledgeSnippet, specs []ActionSpec) (string, error) {
	var sb strings.Builder

	fmt.Fprintf(&sb, `Ты - Анастасия, AI-ассистент салона красоты "%s".
Твои характеристики:
- Вежливая, профессиональная, дружелюбная
- Говоришь на "ты" с клиентами
- Всегда уточняешь детали, если информации недостаточно
- Предлагаешь альтернативы, если нужное время/услуга недоступны
- Краткая, но информативная

Правила салона:
- Отмена бесплатна за 24 часа до визита
- Оплата наличными или картой
- Приходите за 10 минут до записи

`, p.salonName)

	if len(snippets) > 0 {
		sb.WriteString("📚 *Дополнительная информация:*\n")
		for _, s := range snippets {
			sb.WriteString(s.Content + "\n")
		}
		sb.WriteByte('\n')
	} else {
		sb.WriteString("Не выясняй тип стрижки, длину и другие подробности услуг.\n\n")
	}

	catalog, err := p.catalog(ctx)
	if err != nil {
		return "", err
	}
	sb.WriteString(catalog)

	sb.WriteString(actionsSection(specs))

	sb.WriteString(`ВАЖНЫЕ ПРАВИЛА ВЫБОРА ФУНКЦИИ:
- В ОДНОМ ответе ТОЛЬКО ОДНА функция
- Если информации недостаточно - задай уточняющий вопрос текстом
- Не показывай все функции сразу!

`)

	today := p.now().In(p.loc)
	tomorrow := today.AddDate(0, 0, 1)
	fmt.Fprintf(&sb, `ФОРМАТЫ ДАННЫХ:
- Дата: ГГГГ-ММ-ДД (сегодня: %s, завтра: %s)
- Время: ЧЧ:ММ
- Специализация: "парикмахер", "косметолог", "маникюр", "визажист"
- Категория: "Парикмахерские", "Косметология", "Ногтевой сервис", "Визаж"

`, today.Format("2006-01-02"), tomorrow.Format("2006-01-02"))

	sb.WriteString(wireFormatSection)

	fmt.Fprintf(&sb, `
Пользователь: %s. Но может себя называть другим именем. Используй то имя, которое он себе взял в диалоге.

Сейчас: %d %s %d года, %s, по Москве.
Нельзя записывать на более ранние время и даты, так как это время уже прошло.
`, userName, today.Day(), monthsRu[int(today.Month())], today.Year(), today.Format("15:04"))

	return sb.String(), nil
}

// BookingSystem builds the short prompt for the single-shot booking path.
func (p *PromptBuilder) BookingSystem(ctx context.Context, specs []ActionSpec) (string, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Ты специалист по записи в салон красоты %s. Помоги клиенту записаться, уточни все детали: мастер, услуга, дата, время.\n\n", p.salonName)

	catalog, err := p.catalog(ctx)
	if err != nil {
		return "", err
	}
	sb.WriteString(catalog)
	sb.WriteString(actionsSection(specs))
	sb.WriteString(wireFormatSection)
	return sb.String(), nil
}

func (p *PromptBuilder) catalog(ctx context.Context) (string, error) {
	masters, err := p.store.ListMasters(ctx, "")
	if err != nil {
		return "", err
	}
	services, err := p.store.ListServices(ctx, "")
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("ДОСТУПНЫЕ МАСТЕРА (используй ТОЛЬКО эти имена):\n")
	for _, m := range masters {
		fmt.Fprintf(&sb, "- \"%s\" - %s\n", m.Name, m.Specialization)
	}

	sb.WriteString("\nДОСТУПНЫЕ УСЛУГИ (используй ТОЛЬКО эти названия):\n")
	for _, line := range servicesByCategory(services) {
		sb.WriteString(line + "\n")
	}
	sb.WriteByte('\n')
	return sb.String(), nil
}

// servicesByCategory renders one line per category, preserving the store's
// category order of first appearance.
func servicesByCategory(services []domain.Service) []string {
	var order []string
	grouped := map[string][]string{}
	for _, s := range services {
		if _, ok := grouped[s.Category]; !ok {
			order = append(order, s.Category)
		}
		grouped[s.Category] = append(grouped[s.Category], fmt.Sprintf("%q", s.Name))
	}

	lines := make([]string, 0, len(order))
	for _, category := range order {
		lines = append(lines, fmt.Sprintf("- %s - %s", strings.Join(grouped[category], ", "), category))
	}
	return lines
}

func actionsSection(specs []ActionSpec) string {
	var sb strings.Builder
	sb.WriteString("ДОСТУПНЫЕ ФУНКЦИИ (ВЫБЕРИ ТОЛЬКО ОДНУ):\n\n")
	for i, spec := range specs {
		fmt.Fprintf(&sb, "%d. %s - %s\n", i+1, spec.Name, spec.Description)
		for _, param := range spec.Params {
			fmt.Fprintf(&sb, "   %s: %s\n", param.Name, param.Description)
		}
	}
	sb.WriteByte('\n')
	return sb.String()
}

const wireFormatSection = `ФОРМАТ ОТВЕТА:
Если нужно вызвать функцию, отвечай ТОЛЬКО в формате:
<function_call>
{
    "function": "имя_функции",
    "parameters": {
        "param1": "value1"
    }
}
</function_call>

Если информации недостаточно - ответь обычным текстом и спроси нужные детали.

НИКОГДА не показывай все функции сразу!
НИКОГДА не показывай клиенту формат вызова функций!
`
