package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beauteq/salonbot/internal/domain"
)

// fakeModel replays canned responses and records every conversation it was
// asked to complete.
type fakeModel struct {
	responses []string
	err       error
	calls     [][]ChatMessage
}

func (m *fakeModel) Chat(_ context.Context, messages []ChatMessage) (string, error) {
	m.calls = append(m.calls, messages)
	if m.err != nil {
		return "", m.err
	}
	if len(m.responses) == 0 {
		return "", nil
	}
	resp := m.responses[0]
	m.responses = m.responses[1:]
	return resp, nil
}

func newTestProcessor(t *testing.T, model *fakeModel) (*Processor, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	booking := NewBooking(store, testLoc)
	flow := NewFlowManager(store, booking, testLoc)
	flow.now = func() time.Time { return time.Date(2026, 9, 1, 12, 0, 0, 0, testLoc) }
	registry := NewRegistry(booking)
	prompts := NewPromptBuilder(store, "Beauteq", testLoc)
	knowledge := NewKnowledge(store)
	return NewProcessor(store, flow, registry, prompts, knowledge, model), store
}

func TestHandleMessage_PlainTextResponse(t *testing.T) {
	model := &fakeModel{responses: []string{"Здравствуйте! Чем могу помочь?"}}
	p, store := newTestProcessor(t, model)

	reply, err := p.HandleMessage(context.Background(), 1, "Ирина", "привет")
	require.NoError(t, err)

	assert.Equal(t, domain.ReplyText, reply.Kind)
	assert.Equal(t, "Здравствуйте! Чем могу помочь?", reply.Text)

	// Both sides of the exchange are persisted.
	require.Len(t, store.turns, 2)
	assert.False(t, store.turns[0].IsBot)
	assert.True(t, store.turns[1].IsBot)
}

func TestHandleMessage_FlowTakesPrecedenceOverModel(t *testing.T) {
	model := &fakeModel{responses: []string{"это не должно понадобиться"}}
	p, _ := newTestProcessor(t, model)

	reply, err := p.HandleMessage(context.Background(), 1, "Ирина", "Хочу записаться")
	require.NoError(t, err)

	assert.Contains(t, reply.Text, "Выберите услугу")
	assert.Empty(t, model.calls, "flow messages never reach the model")
}

func TestHandleMessage_FunctionCallDispatched(t *testing.T) {
	model := &fakeModel{responses: []string{
		`<function_call>{"function": "get_services", "parameters": {}}</function_call>`,
	}}
	p, _ := newTestProcessor(t, model)

	reply, err := p.HandleMessage(context.Background(), 1, "Ирина", "какие у вас цены?")
	require.NoError(t, err)

	assert.Equal(t, domain.ReplyText, reply.Kind)
	assert.Contains(t, reply.Text, "Наши услуги и цены")
}

func TestHandleMessage_FuzzyCorrectionBeforeDispatch(t *testing.T) {
	model := &fakeModel{responses: []string{
		`<function_call>{"function": "create_appointment", "parameters": {"master_name": "анна", "service_name": "стрижка", "date": "2026-09-02", "time": "15:00"}}</function_call>`,
	}}
	p, store := newTestProcessor(t, model)

	// Worded so it does not contain a flow trigger keyword.
	reply, err := p.HandleMessage(context.Background(), 42, "Ирина", "оформи визит к анне, пожалуйста")
	require.NoError(t, err)

	assert.Contains(t, reply.Text, "Запись успешно создана")
	assert.Contains(t, reply.Text, "Анна Ребикова", "canonical spelling in the confirmation")

	require.Len(t, store.appointments, 1)
	assert.Equal(t, int64(42), store.appointments[0].UserID, "user id is injected, not model-supplied")
}

func TestHandleMessage_ModelFailureLeavesHistoryUntouched(t *testing.T) {
	model := &fakeModel{err: domain.ErrModelUnavailable}
	p, _ := newTestProcessor(t, model)
	ctx := context.Background()

	reply, err := p.HandleMessage(ctx, 1, "Ирина", "привет")
	require.NoError(t, err)

	assert.Equal(t, domain.ReplyError, reply.Kind)
	assert.Contains(t, reply.Text, "временно недоступен")

	// The failed turn is not in the context window: the retry carries the
	// same history as the first attempt.
	model.err = nil
	model.responses = []string{"Здравствуйте!"}
	_, err = p.HandleMessage(ctx, 1, "Ирина", "привет")
	require.NoError(t, err)

	require.Len(t, model.calls, 2)
	assert.Len(t, model.calls[1], len(model.calls[0]))
}

func TestHandleMessage_DomainErrorRenderedAsText(t *testing.T) {
	model := &fakeModel{responses: []string{
		`<function_call>{"function": "check_availability", "parameters": {"master_name": "Ольга", "date": "2026-09-02", "time": "15:00"}}</function_call>`,
	}}
	p, _ := newTestProcessor(t, model)

	reply, err := p.HandleMessage(context.Background(), 1, "Ирина", "свободна ли Ольга завтра?")
	require.NoError(t, err)

	assert.Contains(t, reply.Text, "Мастер не найден")
	assert.Contains(t, reply.Text, "Анна Ребикова", "valid options are listed")
}

func TestHandleMessage_HistoryWindowIsBounded(t *testing.T) {
	model := &fakeModel{}
	p, _ := newTestProcessor(t, model)
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		model.responses = append(model.responses, "ответ")
	}
	for i := 0; i < 12; i++ {
		_, err := p.HandleMessage(ctx, 1, "Ирина", "вопрос")
		require.NoError(t, err)
	}

	// Each call carries history + system + user; history never exceeds the
	// window even after far more turns than fit.
	last := model.calls[len(model.calls)-1]
	assert.LessOrEqual(t, len(last), 10+2)
}

func TestHandleMessage_HistoryHydratedFromConversationLog(t *testing.T) {
	model := &fakeModel{responses: []string{"ответ"}}
	p, store := newTestProcessor(t, model)
	ctx := context.Background()

	require.NoError(t, store.AppendConversation(ctx, 1, "старый вопрос", false, "message"))
	require.NoError(t, store.AppendConversation(ctx, 1, "старый ответ", true, "response"))

	_, err := p.HandleMessage(ctx, 1, "Ирина", "новый вопрос")
	require.NoError(t, err)

	require.Len(t, model.calls, 1)
	msgs := model.calls[0]
	require.GreaterOrEqual(t, len(msgs), 4)
	assert.Equal(t, "user", msgs[0].Role)
	assert.Equal(t, "старый вопрос", msgs[0].Content)
	assert.Equal(t, "assistant", msgs[1].Role)
	assert.Equal(t, "старый ответ", msgs[1].Content)
}

func TestHandleBookingRequest_ReturnsStructuredResult(t *testing.T) {
	model := &fakeModel{responses: []string{
		`<function_call>{"function": "create_appointment", "parameters": {"master_name": "Анна Ребикова", "service_name": "Стрижка женская", "date": "2026-09-02", "time": "15:00"}}</function_call>`,
	}}
	p, _ := newTestProcessor(t, model)

	reply, err := p.HandleBookingRequest(context.Background(), 42, "Ирина", "запиши меня на стрижку к Анне завтра в 15")
	require.NoError(t, err)

	assert.Equal(t, domain.ReplyActionResult, reply.Kind)
	assert.Equal(t, domain.ActionCreateAppt, reply.Action)

	conf, ok := reply.Result.(domain.Confirmation)
	require.True(t, ok)
	assert.Equal(t, "Анна Ребикова", conf.Master)

	// Single-shot mode skips history entirely.
	require.Len(t, model.calls, 1)
	assert.Len(t, model.calls[0], 2)
}

func TestHandleBookingRequest_NoFuzzyCorrection(t *testing.T) {
	model := &fakeModel{responses: []string{
		`<function_call>{"function": "create_appointment", "parameters": {"master_name": "Неизвестная", "service_name": "Стрижка женская", "date": "2026-09-02", "time": "15:00"}}</function_call>`,
	}}
	p, store := newTestProcessor(t, model)

	reply, err := p.HandleBookingRequest(context.Background(), 42, "Ирина", "запиши меня")
	require.NoError(t, err)

	assert.Equal(t, domain.ReplyError, reply.Kind)
	assert.Contains(t, reply.Text, "Мастер не найден")
	assert.Empty(t, store.appointments)
}
