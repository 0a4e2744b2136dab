package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beauteq/salonbot/internal/domain"
)

func newTestPrompts(t *testing.T) (*PromptBuilder, *Registry) {
	t.Helper()
	store := newFakeStore()
	p := NewPromptBuilder(store, "Beauteq", testLoc)
	p.now = func() time.Time { return time.Date(2026, 9, 1, 12, 30, 0, 0, testLoc) }
	return p, NewRegistry(NewBooking(store, testLoc))
}

func TestSystemPrompt_CatalogAndDates(t *testing.T) {
	p, r := newTestPrompts(t)

	prompt, err := p.System(context.Background(), "Ирина", nil, r.Specs())
	require.NoError(t, err)

	assert.Contains(t, prompt, `салона красоты "Beauteq"`)
	assert.Contains(t, prompt, `"Анна Ребикова" - Парикмахер-стилист`)
	assert.Contains(t, prompt, `"Стрижка женская"`)
	assert.Contains(t, prompt, "сегодня: 2026-09-01, завтра: 2026-09-02")
	assert.Contains(t, prompt, "1 сентября 2026 года, 12:30")
	assert.Contains(t, prompt, "Пользователь: Ирина")

	// All callable actions are described.
	for _, name := range []string{
		domain.ActionListMasters, domain.ActionListServices,
		domain.ActionCheckAvail, domain.ActionCreateAppt, domain.ActionUserAppointments,
	} {
		assert.Contains(t, prompt, name)
	}

	assert.Contains(t, prompt, "<function_call>")
	assert.Contains(t, prompt, "</function_call>")
}

func TestSystemPrompt_KnowledgeSnippets(t *testing.T) {
	p, r := newTestPrompts(t)

	snippets := []domain.KnowledgeSnippet{
		{Category: "скидки", Content: "Студентам скидка 10% в будние дни", Score: 1},
	}
	prompt, err := p.System(context.Background(), "Ирина", snippets, r.Specs())
	require.NoError(t, err)

	assert.Contains(t, prompt, "Дополнительная информация")
	assert.Contains(t, prompt, "Студентам скидка 10%")
	assert.NotContains(t, prompt, "Не выясняй тип стрижки")
}

func TestSystemPrompt_NoSnippetsFallback(t *testing.T) {
	p, r := newTestPrompts(t)

	prompt, err := p.System(context.Background(), "Ирина", nil, r.Specs())
	require.NoError(t, err)

	assert.Contains(t, prompt, "Не выясняй тип стрижки")
}

func TestBookingSystemPrompt(t *testing.T) {
	p, r := newTestPrompts(t)

	prompt, err := p.BookingSystem(context.Background(), r.Specs())
	require.NoError(t, err)

	assert.Contains(t, prompt, "специалист по записи")
	assert.Contains(t, prompt, "Анна Ребикова")
	assert.Contains(t, prompt, domain.ActionCreateAppt)
	assert.Contains(t, prompt, "<function_call>")
	assert.NotContains(t, prompt, "Пользователь:", "single-shot prompt carries no user identity")
}

func TestServicesByCategory_GroupsInFirstAppearanceOrder(t *testing.T) {
	services := []domain.Service{
		{Name: "Стрижка женская", Category: "Парикмахерские"},
		{Name: "Чистка лица", Category: "Косметология"},
		{Name: "Стрижка мужская", Category: "Парикмахерские"},
	}

	lines := servicesByCategory(services)

	require.Len(t, lines, 2)
	assert.Equal(t, `- "Стрижка женская", "Стрижка мужская" - Парикмахерские`, lines[0])
	assert.Equal(t, `- "Чистка лица" - Косметология`, lines[1])
}
