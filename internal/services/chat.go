package services

import (
	"context"
	"iter"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/careerpulse/internal/logger"
	"alfredoptarigan/careerpulse/internal/models"
)

// DefaultContextLimit is how many resume characters a new mentor session
// binds into its system instruction unless WithContextLimit says otherwise.
const DefaultContextLimit = 10000

// ConversationState is the lifecycle of a Conversation. The zero value,
// StateUninitialized, belongs to a Conversation not built by
// NewConversation; it accepts no turns and cannot be reset.
type ConversationState int

const (
	StateUninitialized ConversationState = iota
	StateActive
	StateResetting
	StateClosed
)

func (s ConversationState) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateResetting:
		return "resetting"
	case StateClosed:
		return "closed"
	default:
		return "uninitialized"
	}
}

type ConversationOption func(*Conversation)

func WithContextLimit(limit int) ConversationOption {
	return func(c *Conversation) {
		if limit > 0 {
			c.contextLimit = limit
		}
	}
}

func WithStreamTimeout(d time.Duration) ConversationOption {
	return func(c *Conversation) {
		c.streamTimeout = d
	}
}

// WithUpdateHook registers fn to receive a copy of every message when it is
// created or changed. fn runs with the conversation locked, in order, and
// must not call back into the conversation.
func WithUpdateHook(fn func(models.ChatMessage)) ConversationOption {
	return func(c *Conversation) {
		c.onUpdate = fn
	}
}

// Conversation is one mentor chat: a remote session handle bound to a
// resume plus the visible message list. Prior turns live in the handle;
// the local list is for display only and is never replayed.
type Conversation struct {
	ID uuid.UUID

	model         GeminiService
	promptBuilder *PromptBuilder
	resumeContext string
	contextLimit  int
	streamTimeout time.Duration
	onUpdate      func(models.ChatMessage)

	mu         sync.Mutex
	state      ConversationState
	handle     ChatHandle
	messages   []models.ChatMessage
	generation uint64
	typing     bool
	cancel     context.CancelFunc
	lastActive time.Time
}

func NewConversation(ctx context.Context, model GeminiService, resumeContext string, opts ...ConversationOption) (*Conversation, error) {
	c := &Conversation{
		ID:            uuid.New(),
		model:         model,
		promptBuilder: NewPromptBuilder(),
		resumeContext: resumeContext,
		contextLimit:  DefaultContextLimit,
	}
	for _, opt := range opts {
		opt(c)
	}

	handle, err := c.startChat(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.handle = handle
	c.state = StateActive
	c.lastActive = time.Now()
	c.appendLocked(models.NewChatMessage(models.RoleAssistant, MentorGreeting))

	return c, nil
}

func (c *Conversation) startChat(ctx context.Context) (ChatHandle, error) {
	instruction := c.promptBuilder.BuildMentorInstruction(c.resumeContext, c.contextLimit)
	return c.model.StartChat(ctx, instruction)
}

// SendTurn posts userText as a new turn. The user message is visible as
// soon as SendTurn returns; the reply is produced by ranging over the
// returned sequence, which yields each text increment after it has been
// applied to the visible assistant message. The sequence is single-use and
// must be consumed, since the conversation refuses new turns until it ends.
// Failures never surface as errors from the sequence: they end it and add
// an apology message instead.
func (c *Conversation) SendTurn(ctx context.Context, userText string) (iter.Seq[string], error) {
	if strings.TrimSpace(userText) == "" {
		return nil, ErrEmptyMessage
	}

	c.mu.Lock()
	switch {
	case c.state == StateUninitialized:
		c.mu.Unlock()
		return nil, ErrConversationNotStarted
	case c.state == StateClosed:
		c.mu.Unlock()
		return nil, ErrConversationClosed
	case c.typing || c.state == StateResetting:
		c.mu.Unlock()
		return nil, ErrTurnInProgress
	}

	c.appendLocked(models.NewChatMessage(models.RoleUser, userText))
	c.typing = true
	c.lastActive = time.Now()
	gen := c.generation
	handle := c.handle

	streamCtx, cancel := c.streamContext(ctx)
	c.cancel = cancel
	c.mu.Unlock()

	var once sync.Once
	return func(yield func(string) bool) {
		once.Do(func() {
			c.stream(streamCtx, cancel, gen, handle, userText, yield)
		})
	}, nil
}

func (c *Conversation) streamContext(parent context.Context) (context.Context, context.CancelFunc) {
	if c.streamTimeout > 0 {
		return context.WithTimeout(parent, c.streamTimeout)
	}
	return context.WithCancel(parent)
}

func (c *Conversation) stream(ctx context.Context, cancel context.CancelFunc, gen uint64, handle ChatHandle, text string, yield func(string) bool) {
	defer cancel()

	placeholder := -1
	received := false
	var streamErr error

	for chunk, err := range handle.SendStream(ctx, text) {
		if err != nil {
			streamErr = err
			break
		}
		if !c.applyChunk(gen, &placeholder, chunk) {
			// Superseded by a reset or close. Nothing may touch the new state.
			return
		}
		if chunk == "" {
			continue
		}
		received = true
		if !yield(chunk) {
			break
		}
	}

	if streamErr == nil && !received {
		streamErr = ErrEmptyResponse
	}

	c.finishTurn(gen, placeholder, streamErr)
}

// applyChunk creates the placeholder on the first chunk and appends text to
// it. It reports false when gen is no longer current.
func (c *Conversation) applyChunk(gen uint64, placeholder *int, chunk string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		return false
	}

	if *placeholder < 0 {
		msg := models.NewChatMessage(models.RoleAssistant, "")
		msg.Streaming = true
		c.appendLocked(msg)
		*placeholder = len(c.messages) - 1
	}

	if chunk != "" {
		c.messages[*placeholder].Text += chunk
		c.notifyLocked(c.messages[*placeholder])
	}
	c.lastActive = time.Now()

	return true
}

func (c *Conversation) finishTurn(gen uint64, placeholder int, streamErr error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		return
	}

	if placeholder >= 0 {
		if c.messages[placeholder].Text == "" {
			// only the placeholder itself can follow the user turn here
			c.messages = slices.Delete(c.messages, placeholder, placeholder+1)
		} else {
			c.messages[placeholder].Streaming = false
			c.notifyLocked(c.messages[placeholder])
		}
	}

	if streamErr != nil {
		logger.Error().Err(streamErr).Str("conversation_id", c.ID.String()).Msg("❌ Chat stream failed")
		c.appendLocked(models.NewChatMessage(models.RoleAssistant, MentorApology))
	}

	c.typing = false
	c.cancel = nil
	c.lastActive = time.Now()
}

// Reset discards the remote session and starts a fresh one bound to the
// same resume. An in-flight reply is cancelled and anything it still
// delivers is dropped. On success the list holds only the reset greeting.
func (c *Conversation) Reset(ctx context.Context) error {
	c.mu.Lock()
	switch c.state {
	case StateUninitialized:
		c.mu.Unlock()
		return ErrConversationNotStarted
	case StateClosed:
		c.mu.Unlock()
		return ErrConversationClosed
	}
	c.state = StateResetting
	c.generation++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.typing = false
	c.mu.Unlock()

	handle, err := c.startChat(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateClosed {
		return ErrConversationClosed
	}

	if err != nil {
		for i := range c.messages {
			c.messages[i].Streaming = false
		}
		c.state = StateActive
		return err
	}

	c.handle = handle
	c.messages = nil
	c.state = StateActive
	c.lastActive = time.Now()
	c.appendLocked(models.NewChatMessage(models.RoleAssistant, MentorResetGreeting))

	logger.Info().Str("conversation_id", c.ID.String()).Msg("🔄 Chat session reset")
	return nil
}

// Close aborts any in-flight reply. The conversation accepts no more turns.
func (c *Conversation) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateClosed {
		return
	}
	c.state = StateClosed
	c.generation++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.typing = false
}

// Messages returns a snapshot of the visible history.
func (c *Conversation) Messages() []models.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.ChatMessage, len(c.messages))
	copy(out, c.messages)
	return out
}

// Typing reports whether a reply is being awaited or streamed.
func (c *Conversation) Typing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.typing
}

func (c *Conversation) State() ConversationState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Conversation) LastActive() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastActive
}

func (c *Conversation) appendLocked(msg models.ChatMessage) {
	c.messages = append(c.messages, msg)
	c.notifyLocked(msg)
}

func (c *Conversation) notifyLocked(msg models.ChatMessage) {
	if c.onUpdate != nil {
		c.onUpdate(msg)
	}
}
