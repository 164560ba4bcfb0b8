package mocks

import (
	"context"
	"iter"

	"github.com/stretchr/testify/mock"
	"google.golang.org/genai"

	"alfredoptarigan/careerpulse/internal/services"
)

type MockGeminiService struct {
	mock.Mock
}

func (m *MockGeminiService) GenerateStructured(ctx context.Context, prompt string, schema *genai.Schema, systemInstruction string) (string, error) {
	args := m.Called(ctx, prompt, schema, systemInstruction)
	return args.String(0), args.Error(1)
}

func (m *MockGeminiService) GenerateText(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func (m *MockGeminiService) StartChat(ctx context.Context, systemInstruction string) (services.ChatHandle, error) {
	args := m.Called(ctx, systemInstruction)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(services.ChatHandle), args.Error(1)
}

type MockChatHandle struct {
	mock.Mock
}

func (m *MockChatHandle) SendStream(ctx context.Context, text string) iter.Seq2[string, error] {
	args := m.Called(ctx, text)
	return args.Get(0).(iter.Seq2[string, error])
}

// Chunks builds a stream that yields each chunk in order, then err if set.
func Chunks(err error, chunks ...string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for _, chunk := range chunks {
			if !yield(chunk, nil) {
				return
			}
		}
		if err != nil {
			yield("", err)
		}
	}
}
