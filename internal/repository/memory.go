package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/assistant-service/internal/domain"
)

// In-memory implementations of the persistence ports. They back the service
// when no Postgres/Redis is configured (the portal's original mock-data
// mode) and double as test fixtures. Not-found conditions report
// pgx.ErrNoRows so error mapping stays identical across backends.

type memoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

// NewMemoryUserRepository returns a map-backed user repository.
func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{users: make(map[string]domain.User)}
}

func (r *memoryUserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = *user
	return nil
}

func (r *memoryUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (r *memoryUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.users {
		if strings.EqualFold(user.Email, email) {
			u := user
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type memoryTicketRepository struct {
	mu      sync.RWMutex
	tickets map[string]domain.SupportTicket
}

// NewMemoryTicketRepository returns a map-backed ticket store.
func NewMemoryTicketRepository() TicketRepository {
	return &memoryTicketRepository{tickets: make(map[string]domain.SupportTicket)}
}

func (r *memoryTicketRepository) Create(_ context.Context, ticket *domain.SupportTicket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ticket.CreatedAt.IsZero() {
		ticket.CreatedAt = time.Now()
	}
	r.tickets[ticket.ID] = *ticket
	return nil
}

func (r *memoryTicketRepository) Update(_ context.Context, ticket *domain.SupportTicket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.tickets[ticket.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	existing.Status = ticket.Status
	existing.Escalated = ticket.Escalated
	existing.Resolution = ticket.Resolution
	r.tickets[ticket.ID] = existing
	*ticket = existing
	return nil
}

func (r *memoryTicketRepository) GetByID(_ context.Context, id string) (*domain.SupportTicket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &ticket, nil
}

func (r *memoryTicketRepository) ListByRequester(ctx context.Context, requesterID string, limit, offset int) ([]domain.SupportTicket, error) {
	return r.ListWithFilter(ctx, TicketFilter{RequesterID: &requesterID, Limit: limit, Offset: offset})
}

func (r *memoryTicketRepository) ListWithFilter(_ context.Context, filter TicketFilter) ([]domain.SupportTicket, error) {
	r.mu.RLock()
	matched := make([]domain.SupportTicket, 0, len(r.tickets))
	for _, ticket := range r.tickets {
		if filter.RequesterID != nil && ticket.RequesterID != *filter.RequesterID {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, ticket.Status) {
			continue
		}
		matched = append(matched, ticket)
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return paginate(matched, filter.Limit, filter.Offset), nil
}

func containsStatus(statuses []domain.TicketStatus, status domain.TicketStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

func paginate[T any](items []T, limit, offset int) []T {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

type memoryNotificationRepository struct {
	mu    sync.RWMutex
	notes map[string][]domain.UserNotification
}

// NewMemoryNotificationRepository returns a map-backed notification list.
func NewMemoryNotificationRepository() NotificationRepository {
	return &memoryNotificationRepository{notes: make(map[string][]domain.UserNotification)}
}

func (r *memoryNotificationRepository) Create(_ context.Context, note *domain.UserNotification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes[note.UserID] = append(r.notes[note.UserID], *note)
	return nil
}

func (r *memoryNotificationRepository) ListByUser(_ context.Context, userID string, limit, offset int) ([]domain.UserNotification, error) {
	r.mu.RLock()
	list := append([]domain.UserNotification{}, r.notes[userID]...)
	r.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool {
		return list[i].Date.After(list[j].Date)
	})
	if limit <= 0 {
		limit = 50
	}
	return paginate(list, limit, offset), nil
}

func (r *memoryNotificationRepository) MarkRead(_ context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.notes[userID]
	for i := range list {
		if list[i].ID == id {
			list[i].Read = true
			return nil
		}
	}
	return pgx.ErrNoRows
}

type memorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.Conversation
}

// NewMemorySessionStore returns a map-backed session store.
func NewMemorySessionStore() SessionStore {
	return &memorySessionStore{sessions: make(map[string]domain.Conversation)}
}

func (s *memorySessionStore) Get(_ context.Context, userID string) (*domain.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	conv, ok := s.sessions[userID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	copied := conv
	copied.Messages = append([]domain.ChatMessage{}, conv.Messages...)
	return &copied, nil
}

func (s *memorySessionStore) Save(_ context.Context, conv *domain.Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *conv
	copied.Messages = append([]domain.ChatMessage{}, conv.Messages...)
	s.sessions[conv.UserID] = copied
	return nil
}

func (s *memorySessionStore) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
	return nil
}
