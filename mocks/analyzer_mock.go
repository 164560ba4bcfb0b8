package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"alfredoptarigan/careerpulse/internal/models"
)

type MockAnalyzerService struct {
	mock.Mock
}

func (m *MockAnalyzerService) Analyze(ctx context.Context, resumeText string) (*models.ResumeAnalysis, error) {
	args := m.Called(ctx, resumeText)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.ResumeAnalysis), args.Error(1)
}

type MockGeneratorService struct {
	mock.Mock
}

func (m *MockGeneratorService) Generate(ctx context.Context, kind models.ResourceKind, resumeContext, extraContext string) (*models.GeneratedResource, error) {
	args := m.Called(ctx, kind, resumeContext, extraContext)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.GeneratedResource), args.Error(1)
}
