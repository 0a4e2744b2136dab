package service

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/beauteq/salonbot/internal/domain"
)

// fakeStore is an in-memory Store with the same conflict semantics as the
// Postgres layer: inserting into an occupied slot fails with ErrSlotTaken.
type fakeStore struct {
	mu           sync.Mutex
	masters      []domain.Master
	services     []domain.Service
	appointments []domain.Appointment
	turns        []domain.ConversationTurn
	knowledge    []domain.KnowledgeEntry
	nextID       int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		masters: []domain.Master{
			{ID: 1, Name: "Анна Ребикова", Specialization: "Парикмахер-стилист", IsActive: true},
			{ID: 2, Name: "Мария Иванова", Specialization: "Косметолог", IsActive: true},
			{ID: 3, Name: "Елена Петрова", Specialization: "Мастер маникюра", IsActive: true},
			{ID: 4, Name: "Светлана Сидорова", Specialization: "Визажист", IsActive: true},
		},
		services: []domain.Service{
			{ID: 1, Name: "Стрижка женская", Category: "Парикмахерские", DurationMinutes: 60, Price: decimal.NewFromInt(2000)},
			{ID: 2, Name: "Стрижка мужская", Category: "Парикмахерские", DurationMinutes: 30, Price: decimal.NewFromInt(1000)},
			{ID: 3, Name: "Окрашивание", Category: "Парикмахерские", DurationMinutes: 120, Price: decimal.NewFromInt(3500)},
			{ID: 4, Name: "Чистка лица", Category: "Косметология", DurationMinutes: 90, Price: decimal.NewFromInt(3500)},
			{ID: 5, Name: "Маникюр классический", Category: "Ногтевой сервис", DurationMinutes: 60, Price: decimal.NewFromInt(1500)},
			{ID: 6, Name: "Вечерний макияж", Category: "Визаж", DurationMinutes: 60, Price: decimal.NewFromInt(3000)},
		},
		knowledge: []domain.KnowledgeEntry{
			{ID: 1, Category: "скидки", Keywords: "студент скидка акция льгота", Content: "Студентам скидка 10% в будние дни"},
			{ID: 2, Category: "парковка", Keywords: "парковка машина авто parking", Content: "Бесплатная парковка на 10 машиномест"},
		},
	}
}

func (f *fakeStore) ListMasters(_ context.Context, specialization string) ([]domain.Master, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Master
	for _, m := range f.masters {
		if m.IsActive && (specialization == "" || m.Specialization == specialization) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeStore) ListServices(_ context.Context, category string) ([]domain.Service, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Service
	for _, s := range f.services {
		if category == "" || s.Category == category {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStore) IsAvailable(_ context.Context, masterID int64, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.slotFree(masterID, at), nil
}

func (f *fakeStore) CreateAppointment(_ context.Context, userID, masterID, serviceID int64, at time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.slotFree(masterID, at) {
		return 0, domain.ErrSlotTaken
	}
	f.nextID++
	f.appointments = append(f.appointments, domain.Appointment{
		ID:        f.nextID,
		UserID:    userID,
		MasterID:  masterID,
		ServiceID: serviceID,
		StartsAt:  at,
		Status:    domain.StatusBooked,
	})
	return f.nextID, nil
}

func (f *fakeStore) ListAppointments(_ context.Context, userID int64) ([]domain.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Appointment
	for _, a := range f.appointments {
		if a.UserID == userID {
			a.MasterName = f.masterName(a.MasterID)
			for _, s := range f.services {
				if s.ID == a.ServiceID {
					a.ServiceName = s.Name
					a.Price = s.Price
				}
			}
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeStore) AppendConversation(_ context.Context, userID int64, message string, isBot bool, intent string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.turns = append(f.turns, domain.ConversationTurn{
		UserID: userID, Message: message, IsBot: isBot, Intent: intent,
	})
	return nil
}

func (f *fakeStore) LoadConversation(_ context.Context, userID int64, limit int) ([]domain.ConversationTurn, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.ConversationTurn
	for _, t := range f.turns {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (f *fakeStore) ListKnowledge(_ context.Context) ([]domain.KnowledgeEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.knowledge, nil
}

func (f *fakeStore) slotFree(masterID int64, at time.Time) bool {
	for _, a := range f.appointments {
		if a.MasterID == masterID && a.StartsAt.Equal(at) && a.Status != domain.StatusCancelled {
			return false
		}
	}
	return true
}

func (f *fakeStore) masterName(id int64) string {
	for _, m := range f.masters {
		if m.ID == id {
			return m.Name
		}
	}
	return ""
}
