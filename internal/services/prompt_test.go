package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/careerpulse/internal/models"
)

func TestBuildResourcePrompt(t *testing.T) {
	pb := NewPromptBuilder()

	tests := []struct {
		name  string
		kind  models.ResourceKind
		extra string
		want  string
	}{
		{
			name:  "headline with context",
			kind:  models.ResourceHeadline,
			extra: "fintech",
			want:  "TASK: Based on the resume, generate 5 strong, optimized LinkedIn headlines. Format them as a list. Context: fintech",
		},
		{
			name: "headline without context",
			kind: models.ResourceHeadline,
			want: "TASK: Based on the resume, generate 5 strong, optimized LinkedIn headlines. Format them as a list.",
		},
		{
			name:  "email keeps details verbatim",
			kind:  models.ResourceEmail,
			extra: "Acme Corp...",
			want:  "TASK: Draft a cold email for a job application. Target Role/Company Details: Acme Corp..... Keep it concise and impactful.",
		},
		{
			name: "email without details",
			kind: models.ResourceEmail,
			want: "TASK: Draft a cold email for a job application. Keep it concise and impactful.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prompt, err := pb.BuildResourcePrompt(tt.kind, "resume", tt.extra)
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(prompt, "RESUME CONTEXT: resume\n\n"))
			assert.True(t, strings.HasSuffix(prompt, tt.want), prompt)
		})
	}
}

func TestBuildMentorInstruction_Truncates(t *testing.T) {
	pb := NewPromptBuilder()

	long := strings.Repeat("é", 10005)
	instruction := pb.BuildMentorInstruction(long, 10000)
	assert.Contains(t, instruction, strings.Repeat("é", 10000)+"...")
	assert.NotContains(t, instruction, strings.Repeat("é", 10001))

	short := pb.BuildMentorInstruction("Go developer", 10000)
	assert.Contains(t, short, "RESUME CONTEXT: Go developer\n")
	assert.NotContains(t, short, "...")
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "héllo", TruncateRunes("héllo world", 5))
	assert.Equal(t, "abc", TruncateRunes("abc", 10))
	assert.Equal(t, "abc", TruncateRunes("abc", 0))
	assert.Equal(t, "", TruncateRunes("", 3))
}

func TestExtractJSON(t *testing.T) {
	assert.Equal(t, `{"a":1}`, extractJSON("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, extractJSON("Here you go: {\"a\":1} hope it helps"))
	assert.Equal(t, `[1,2]`, extractJSON("[1,2]"))
	assert.Equal(t, "plain", extractJSON("  plain  "))
	assert.Equal(t, "[{\"a\":1}]", extractJSON("```\n[{\"a\":1}]\n```"))
	assert.Equal(t, "{\"a\":\"``` x ```\"}", extractJSON("{\"a\":\"``` x ```\"}"))
}
