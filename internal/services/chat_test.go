package services_test

import (
	"context"
	"errors"
	"iter"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/careerpulse/internal/models"
	"alfredoptarigan/careerpulse/internal/services"
	"alfredoptarigan/careerpulse/mocks"
)

// pushedHandle streams whatever the test pushes, ignoring cancellation so
// that chunks can arrive after a reset.
type pushedHandle struct {
	chunks chan string
}

func newPushedHandle() *pushedHandle {
	return &pushedHandle{chunks: make(chan string, 16)}
}

func (h *pushedHandle) SendStream(ctx context.Context, text string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for chunk := range h.chunks {
			if !yield(chunk, nil) {
				return
			}
		}
	}
}

func newConversation(t *testing.T, handle services.ChatHandle, opts ...services.ConversationOption) (*services.Conversation, *mocks.MockGeminiService) {
	t.Helper()

	gemini := new(mocks.MockGeminiService)
	gemini.On("StartChat", mock.Anything, mock.Anything).Return(handle, nil).Once()

	conv, err := services.NewConversation(context.Background(), gemini, sampleResume, opts...)
	require.NoError(t, err)
	return conv, gemini
}

func collect(seq iter.Seq[string]) []string {
	var out []string
	for delta := range seq {
		out = append(out, delta)
	}
	return out
}

func countRole(messages []models.ChatMessage, role models.ChatRole) int {
	n := 0
	for _, m := range messages {
		if m.Role == role {
			n++
		}
	}
	return n
}

func TestNewConversation_SeedsGreeting(t *testing.T) {
	conv, _ := newConversation(t, new(mocks.MockChatHandle))

	messages := conv.Messages()
	require.Len(t, messages, 1)
	assert.Equal(t, models.RoleAssistant, messages[0].Role)
	assert.Equal(t, services.MentorGreeting, messages[0].Text)
	assert.False(t, conv.Typing())
	assert.Equal(t, services.StateActive, conv.State())
}

func TestNewConversation_BindsTruncatedResume(t *testing.T) {
	resume := strings.Repeat("x", 10050)

	gemini := new(mocks.MockGeminiService)
	gemini.On("StartChat", mock.Anything, mock.MatchedBy(func(instruction string) bool {
		return strings.Contains(instruction, strings.Repeat("x", 10000)+"...") &&
			!strings.Contains(instruction, strings.Repeat("x", 10001))
	})).Return(new(mocks.MockChatHandle), nil)

	_, err := services.NewConversation(context.Background(), gemini, resume)
	require.NoError(t, err)
	gemini.AssertExpectations(t)
}

func TestNewConversation_StartChatFails(t *testing.T) {
	gemini := new(mocks.MockGeminiService)
	gemini.On("StartChat", mock.Anything, mock.Anything).Return(nil, errors.New("bad key"))

	conv, err := services.NewConversation(context.Background(), gemini, sampleResume)
	assert.Error(t, err)
	assert.Nil(t, conv)
}

func TestSendTurn_StreamsIncrements(t *testing.T) {
	handle := new(mocks.MockChatHandle)
	handle.On("SendStream", mock.Anything, "How do I prepare?").Return(mocks.Chunks(nil, "Hel", "lo ", "there"))

	var states []string
	conv, _ := newConversation(t, handle, services.WithUpdateHook(func(msg models.ChatMessage) {
		if msg.Role == models.RoleAssistant && msg.Streaming {
			states = append(states, msg.Text)
		}
	}))

	seq, err := conv.SendTurn(context.Background(), "How do I prepare?")
	require.NoError(t, err)

	messages := conv.Messages()
	require.Len(t, messages, 2)
	assert.Equal(t, models.RoleUser, messages[1].Role)
	assert.Equal(t, "How do I prepare?", messages[1].Text)
	assert.True(t, conv.Typing())

	assert.Equal(t, []string{"Hel", "lo ", "there"}, collect(seq))
	assert.Equal(t, []string{"", "Hel", "Hello ", "Hello there"}, states)

	messages = conv.Messages()
	require.Len(t, messages, 3)
	assert.Equal(t, "Hello there", messages[2].Text)
	assert.False(t, messages[2].Streaming)
	assert.False(t, conv.Typing())
	handle.AssertExpectations(t)
}

func TestSendTurn_SequenceIsSingleUse(t *testing.T) {
	handle := new(mocks.MockChatHandle)
	handle.On("SendStream", mock.Anything, "hi").Return(mocks.Chunks(nil, "Hey")).Once()

	conv, _ := newConversation(t, handle)
	seq, err := conv.SendTurn(context.Background(), "hi")
	require.NoError(t, err)

	assert.Equal(t, []string{"Hey"}, collect(seq))
	assert.Empty(t, collect(seq))
	assert.Len(t, conv.Messages(), 3)
}

func TestSendTurn_FailureAppendsApology(t *testing.T) {
	handle := new(mocks.MockChatHandle)
	handle.On("SendStream", mock.Anything, "hi").Return(mocks.Chunks(errors.New("stream broke"), "Partial"))

	conv, _ := newConversation(t, handle)
	seq, err := conv.SendTurn(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, []string{"Partial"}, collect(seq))

	messages := conv.Messages()
	require.Len(t, messages, 4)
	assert.Equal(t, "Partial", messages[2].Text)
	assert.False(t, messages[2].Streaming)
	assert.Equal(t, services.MentorApology, messages[3].Text)
	assert.False(t, conv.Typing())
}

func TestSendTurn_FailureBeforeFirstChunk(t *testing.T) {
	handle := new(mocks.MockChatHandle)
	handle.On("SendStream", mock.Anything, "hi").Return(mocks.Chunks(errors.New("unavailable")))

	conv, _ := newConversation(t, handle)
	seq, err := conv.SendTurn(context.Background(), "hi")
	require.NoError(t, err)
	assert.Empty(t, collect(seq))

	messages := conv.Messages()
	require.Len(t, messages, 3)
	assert.Equal(t, models.RoleUser, messages[1].Role)
	assert.Equal(t, services.MentorApology, messages[2].Text)
}

func TestSendTurn_RejectsBlankAndConcurrent(t *testing.T) {
	handle := new(mocks.MockChatHandle)
	handle.On("SendStream", mock.Anything, "first").Return(mocks.Chunks(nil, "ok"))

	conv, _ := newConversation(t, handle)

	_, err := conv.SendTurn(context.Background(), "  \n ")
	assert.ErrorIs(t, err, services.ErrEmptyMessage)
	assert.Len(t, conv.Messages(), 1)

	seq, err := conv.SendTurn(context.Background(), "first")
	require.NoError(t, err)

	_, err = conv.SendTurn(context.Background(), "second")
	assert.ErrorIs(t, err, services.ErrTurnInProgress)

	collect(seq)
	assert.Equal(t, 1, countRole(conv.Messages(), models.RoleUser))
	assert.False(t, conv.Typing())
}

func TestSendTurn_ConsumerStopsEarly(t *testing.T) {
	handle := new(mocks.MockChatHandle)
	handle.On("SendStream", mock.Anything, "hi").Return(mocks.Chunks(nil, "one ", "two ", "three"))

	conv, _ := newConversation(t, handle)
	seq, err := conv.SendTurn(context.Background(), "hi")
	require.NoError(t, err)

	for range seq {
		break
	}

	messages := conv.Messages()
	require.Len(t, messages, 3)
	assert.Equal(t, "one ", messages[2].Text)
	assert.False(t, messages[2].Streaming)
	assert.False(t, conv.Typing())
}

func TestReset_DiscardsLateChunks(t *testing.T) {
	first := newPushedHandle()
	second := new(mocks.MockChatHandle)

	conv, gemini := newConversation(t, first)
	gemini.On("StartChat", mock.Anything, mock.Anything).Return(second, nil).Once()

	seq, err := conv.SendTurn(context.Background(), "Tell me about interviews")
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		collect(seq)
	}()

	first.chunks <- "Hel"
	require.Eventually(t, func() bool {
		messages := conv.Messages()
		return len(messages) == 3 && messages[2].Text == "Hel"
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, conv.Reset(context.Background()))

	first.chunks <- "lo, late chunk"
	close(first.chunks)
	wg.Wait()

	messages := conv.Messages()
	require.Len(t, messages, 1)
	assert.Equal(t, services.MentorResetGreeting, messages[0].Text)
	assert.Equal(t, 0, countRole(messages, models.RoleUser))
	assert.False(t, conv.Typing())
	assert.Equal(t, services.StateActive, conv.State())
	gemini.AssertExpectations(t)
}

func TestReset_StartChatFailureKeepsHistory(t *testing.T) {
	conv, gemini := newConversation(t, new(mocks.MockChatHandle))
	gemini.On("StartChat", mock.Anything, mock.Anything).Return(nil, errors.New("offline")).Once()

	assert.Error(t, conv.Reset(context.Background()))

	messages := conv.Messages()
	require.Len(t, messages, 1)
	assert.Equal(t, services.MentorGreeting, messages[0].Text)
	assert.Equal(t, services.StateActive, conv.State())
}

func TestClose_RejectsFurtherTurns(t *testing.T) {
	conv, _ := newConversation(t, new(mocks.MockChatHandle))

	conv.Close()
	conv.Close()

	_, err := conv.SendTurn(context.Background(), "hello?")
	assert.ErrorIs(t, err, services.ErrConversationClosed)
	assert.ErrorIs(t, conv.Reset(context.Background()), services.ErrConversationClosed)
	assert.Equal(t, services.StateClosed, conv.State())
}

func TestSendTurn_EmptyReplyAppendsApology(t *testing.T) {
	tests := []struct {
		name   string
		stream iter.Seq2[string, error]
	}{
		{"no chunks", mocks.Chunks(nil)},
		{"only empty chunks", mocks.Chunks(nil, "", "")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handle := new(mocks.MockChatHandle)
			handle.On("SendStream", mock.Anything, "hi").Return(tt.stream)

			conv, _ := newConversation(t, handle)
			seq, err := conv.SendTurn(context.Background(), "hi")
			require.NoError(t, err)
			assert.Empty(t, collect(seq))

			messages := conv.Messages()
			require.Len(t, messages, 3)
			assert.Equal(t, models.RoleUser, messages[1].Role)
			assert.Equal(t, services.MentorApology, messages[2].Text)
			assert.False(t, messages[2].Streaming)
			assert.False(t, conv.Typing())
		})
	}
}

func TestConversation_ZeroValueIsUninitialized(t *testing.T) {
	var conv services.Conversation

	assert.Equal(t, services.StateUninitialized, conv.State())
	assert.Equal(t, "uninitialized", conv.State().String())

	_, err := conv.SendTurn(context.Background(), "hello")
	assert.ErrorIs(t, err, services.ErrConversationNotStarted)
	assert.ErrorIs(t, conv.Reset(context.Background()), services.ErrConversationNotStarted)
	assert.Empty(t, conv.Messages())
}
