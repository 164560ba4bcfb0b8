package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/careerpulse/internal/logger"
)

// ConversationStore keeps live conversations in memory, keyed by id.
type ConversationStore interface {
	Create(ctx context.Context, resumeContext string) (*Conversation, error)
	Get(id uuid.UUID) (*Conversation, error)
	Delete(id uuid.UUID) error
	EvictIdle(ttl time.Duration) int
	Len() int
}

type conversationStore struct {
	geminiService GeminiService
	opts          []ConversationOption

	mu            sync.RWMutex
	conversations map[uuid.UUID]*Conversation
}

func NewConversationStore(geminiService GeminiService, opts ...ConversationOption) ConversationStore {
	return &conversationStore{
		geminiService: geminiService,
		opts:          opts,
		conversations: make(map[uuid.UUID]*Conversation),
	}
}

// Create implements ConversationStore.
func (s *conversationStore) Create(ctx context.Context, resumeContext string) (*Conversation, error) {
	conv, err := NewConversation(ctx, s.geminiService, resumeContext, s.opts...)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.conversations[conv.ID] = conv
	s.mu.Unlock()

	logger.Info().Str("conversation_id", conv.ID.String()).Msg("💬 Chat session created")
	return conv, nil
}

// Get implements ConversationStore.
func (s *conversationStore) Get(id uuid.UUID) (*Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.conversations[id]
	if !ok {
		return nil, ErrConversationNotFound
	}
	return conv, nil
}

// Delete implements ConversationStore. The conversation is closed, which
// aborts any reply still streaming.
func (s *conversationStore) Delete(id uuid.UUID) error {
	s.mu.Lock()
	conv, ok := s.conversations[id]
	delete(s.conversations, id)
	s.mu.Unlock()

	if !ok {
		return ErrConversationNotFound
	}

	conv.Close()
	logger.Info().Str("conversation_id", id.String()).Msg("🗑️ Chat session deleted")
	return nil
}

// EvictIdle implements ConversationStore. Conversations with a reply in
// flight are never evicted.
func (s *conversationStore) EvictIdle(ttl time.Duration) int {
	cutoff := time.Now().Add(-ttl)

	s.mu.Lock()
	var evicted []*Conversation
	for id, conv := range s.conversations {
		if conv.Typing() || conv.LastActive().After(cutoff) {
			continue
		}
		evicted = append(evicted, conv)
		delete(s.conversations, id)
	}
	s.mu.Unlock()

	for _, conv := range evicted {
		conv.Close()
	}
	return len(evicted)
}

// Len implements ConversationStore.
func (s *conversationStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.conversations)
}
