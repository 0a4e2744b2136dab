package service

import (
	"context"
	"time"

	"github.com/beauteq/salonbot/internal/domain"
)

// Store is the persistence contract the services consume. Implemented by
// repository.Store; tests substitute an in-memory fake.
type Store interface {
	ListMasters(ctx context.Context, specialization string) ([]domain.Master, error)
	ListServices(ctx context.Context, category string) ([]domain.Service, error)
	IsAvailable(ctx context.Context, masterID int64, at time.Time) (bool, error)
	CreateAppointment(ctx context.Context, userID, masterID, serviceID int64, at time.Time) (int64, error)
	ListAppointments(ctx context.Context, userID int64) ([]domain.Appointment, error)
	AppendConversation(ctx context.Context, userID int64, message string, isBot bool, intent string) error
	LoadConversation(ctx context.Context, userID int64, limit int) ([]domain.ConversationTurn, error)
	ListKnowledge(ctx context.Context) ([]domain.KnowledgeEntry, error)
}
