package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/beauteq/salonbot/internal/config"
	"github.com/beauteq/salonbot/internal/domain"
)

// Processor is the message entry point. The booking flow gets first refusal
// on every message; everything else goes through the model. All processing
// for one user is serialized.
type Processor struct {
	store     Store
	flow      *FlowManager
	registry  *Registry
	prompts   *PromptBuilder
	knowledge *Knowledge
	model     ModelGateway

	mu      sync.Mutex
	history map[int64][]ChatMessage
	locks   map[int64]*sync.Mutex
}

func NewProcessor(store Store, flow *FlowManager, registry *Registry, prompts *PromptBuilder, knowledge *Knowledge, model ModelGateway) *Processor {
	return &Processor{
		store:     store,
		flow:      flow,
		registry:  registry,
		prompts:   prompts,
		knowledge: knowledge,
		model:     model,
		history:   make(map[int64][]ChatMessage),
		locks:     make(map[int64]*sync.Mutex),
	}
}

// HandleMessage processes one inbound message and returns the reply to send.
// It never returns an error for model or domain failures; those are turned
// into user-facing text. Only store-level failures propagate.
func (p *Processor) HandleMessage(ctx context.Context, userID int64, userName, text string) (domain.Reply, error) {
	unlock := p.lockUser(userID)
	defer unlock()

	if err := p.store.AppendConversation(ctx, userID, text, false, "message"); err != nil {
		slog.Error("append conversation", "error", err, "user_id", userID)
	}

	reply, handled, err := p.flow.Process(ctx, userID, text)
	if err != nil {
		return domain.Reply{Kind: domain.ReplyError, Text: p.registry.RenderError(ctx, err)}, nil
	}
	if handled {
		p.logBotReply(ctx, userID, reply, "booking")
		return domain.Reply{Kind: domain.ReplyText, Text: reply}, nil
	}

	return p.dialogue(ctx, userID, userName, text)
}

// dialogue is the model-driven path: history + knowledge + system prompt,
// then parse and dispatch whatever the model decided.
func (p *Processor) dialogue(ctx context.Context, userID int64, userName, text string) (domain.Reply, error) {
	snippets, err := p.knowledge.Search(ctx, text, config.KnowledgeTopK)
	if err != nil {
		slog.Error("knowledge search", "error", err, "user_id", userID)
	}

	system, err := p.prompts.System(ctx, userName, snippets, p.registry.Specs())
	if err != nil {
		return domain.Reply{Kind: domain.ReplyError, Text: p.registry.RenderError(ctx, err)}, nil
	}

	messages := append([]ChatMessage{}, p.historyFor(ctx, userID)...)
	messages = append(messages, ChatMessage{Role: "system", Content: system})
	messages = append(messages, ChatMessage{Role: "user", Content: text})

	modelCtx, cancel := context.WithTimeout(ctx, config.RequestTimeout)
	defer cancel()

	raw, err := p.model.Chat(modelCtx, messages)
	if err != nil {
		// Session and history stay untouched so the user can retry the step.
		slog.Error("model chat", "error", err, "user_id", userID)
		return domain.Reply{Kind: domain.ReplyError, Text: p.registry.RenderError(ctx, err)}, nil
	}

	action := ParseModelResponse(raw)
	if !action.IsCall() {
		p.appendHistory(userID, text, action.Text)
		p.logBotReply(ctx, userID, action.Text, "response")
		return domain.Reply{Kind: domain.ReplyText, Text: action.Text}, nil
	}

	p.injectIdentity(&action, userID, userName)
	p.correctReferences(ctx, &action)

	rendered, _, err := p.registry.Dispatch(ctx, action)
	intent := "view_response"
	if err != nil {
		rendered = p.registry.RenderError(ctx, err)
		intent = "error"
	}

	p.appendHistory(userID, text, rendered)
	p.logBotReply(ctx, userID, rendered, intent)
	return domain.Reply{Kind: domain.ReplyText, Text: rendered}, nil
}

// HandleBookingRequest is the single-shot function-call entry point: one
// model round with the booking prompt, no conversation history, and no
// fuzzy correction of the extracted parameters.
func (p *Processor) HandleBookingRequest(ctx context.Context, userID int64, userName, text string) (domain.Reply, error) {
	unlock := p.lockUser(userID)
	defer unlock()

	system, err := p.prompts.BookingSystem(ctx, p.registry.Specs())
	if err != nil {
		return domain.Reply{Kind: domain.ReplyError, Text: p.registry.RenderError(ctx, err)}, nil
	}

	messages := []ChatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: text},
	}

	modelCtx, cancel := context.WithTimeout(ctx, config.RequestTimeout)
	defer cancel()

	raw, err := p.model.Chat(modelCtx, messages)
	if err != nil {
		slog.Error("model chat", "error", err, "user_id", userID)
		return domain.Reply{Kind: domain.ReplyError, Text: p.registry.RenderError(ctx, err)}, nil
	}

	action := ParseModelResponse(raw)
	if !action.IsCall() {
		return domain.Reply{Kind: domain.ReplyText, Text: action.Text}, nil
	}

	p.injectIdentity(&action, userID, userName)

	rendered, result, err := p.registry.Dispatch(ctx, action)
	if err != nil {
		return domain.Reply{Kind: domain.ReplyError, Text: p.registry.RenderError(ctx, err)}, nil
	}

	p.logBotReply(ctx, userID, rendered, action.Kind)
	return domain.Reply{
		Kind:   domain.ReplyActionResult,
		Text:   rendered,
		Action: action.Kind,
		Result: result,
	}, nil
}

// injectIdentity adds the caller's identity to actions that need it; the
// model never supplies user ids.
func (p *Processor) injectIdentity(a *domain.Action, userID int64, userName string) {
	switch a.Kind {
	case domain.ActionCreateAppt:
		a.Params["user_id"] = userID
		if a.Str("client_name") == "" {
			a.Params["client_name"] = userName
		}
	case domain.ActionUserAppointments:
		a.Params["user_id"] = userID
	}
}

// correctReferences replaces model-supplied entity names with their
// canonical store spelling when the resolver finds a match. Unresolved
// names pass through and fail downstream with the options listing.
func (p *Processor) correctReferences(ctx context.Context, a *domain.Action) {
	switch a.Kind {
	case domain.ActionCheckAvail, domain.ActionCreateAppt:
	default:
		return
	}

	if name := a.Str("master_name"); name != "" {
		masters, err := p.store.ListMasters(ctx, "")
		if err == nil {
			if m, ok := ResolveMaster(name, masters); ok {
				a.Params["master_name"] = m.Name
			}
		}
	}

	if a.Kind != domain.ActionCreateAppt {
		return
	}
	if name := a.Str("service_name"); name != "" {
		services, err := p.store.ListServices(ctx, "")
		if err == nil {
			if s, ok := ResolveService(name, services); ok {
				a.Params["service_name"] = s.Name
			}
		}
	}
}

// historyFor returns the user's rolling context window, hydrating it from
// the conversation log on first touch. Advisory context only.
func (p *Processor) historyFor(ctx context.Context, userID int64) []ChatMessage {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.history[userID]; !ok {
		turns, err := p.store.LoadConversation(ctx, userID, config.HistoryWindow)
		if err != nil {
			slog.Error("load conversation", "error", err, "user_id", userID)
			turns = nil
		}
		messages := make([]ChatMessage, 0, len(turns))
		for _, t := range turns {
			role := "user"
			if t.IsBot {
				role = "assistant"
			}
			messages = append(messages, ChatMessage{Role: role, Content: t.Message})
		}
		p.history[userID] = messages
	}
	return p.history[userID]
}

func (p *Processor) appendHistory(userID int64, userText, botText string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	h := append(p.history[userID],
		ChatMessage{Role: "user", Content: userText},
		ChatMessage{Role: "assistant", Content: botText},
	)
	if len(h) > config.HistoryWindow {
		h = h[len(h)-config.HistoryWindow:]
	}
	p.history[userID] = h
}

func (p *Processor) logBotReply(ctx context.Context, userID int64, text, intent string) {
	if err := p.store.AppendConversation(ctx, userID, text, true, intent); err != nil {
		slog.Error("append conversation", "error", err, "user_id", userID)
	}
}

func (p *Processor) lockUser(userID int64) func() {
	p.mu.Lock()
	lock, ok := p.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		p.locks[userID] = lock
	}
	p.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
