package services

import (
	"fmt"
	"strings"

	"alfredoptarigan/careerpulse/internal/models"
)

const (
	CoachSystemInstruction = "You are a professional, motivating, and detailed career coach."

	MentorGreeting      = "Hi! I'm your Career Mentor. I've analyzed your resume. What would you like to know? I can help with interview prep, skills advice, or career planning."
	MentorResetGreeting = "Session reset. How can I help you with your resume today?"
	MentorApology       = "Sorry, I encountered an error. Please try again."

	ResourceFallback = "Could not generate resource."
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildAnalysisPrompt creates the structured resume review prompt. The
// resume text is embedded verbatim.
func (pb *PromptBuilder) BuildAnalysisPrompt(resumeText string) string {
	return fmt.Sprintf(`You are an expert Career Mentor and Resume Reviewer.
Analyze the following resume text.
Be strict but constructive.
Provide an ATS score, identify key skills, formatting issues, and suggest concrete improvements.
Also suggest career paths suitable for this profile.

RESUME TEXT:
%s`, resumeText)
}

// BuildResourcePrompt creates the full request body for one resource kind.
// A blank extraContext leaves the context clause out entirely.
func (pb *PromptBuilder) BuildResourcePrompt(kind models.ResourceKind, resumeContext, extraContext string) (string, error) {
	task, err := pb.resourceTask(kind, strings.TrimSpace(extraContext))
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("RESUME CONTEXT: %s\n\nTASK: %s", resumeContext, task), nil
}

func (pb *PromptBuilder) resourceTask(kind models.ResourceKind, extra string) (string, error) {
	var b strings.Builder

	switch kind {
	case models.ResourceHeadline:
		b.WriteString("Based on the resume, generate 5 strong, optimized LinkedIn headlines. Format them as a list.")
		if extra != "" {
			b.WriteString(" Context: ")
			b.WriteString(extra)
		}
	case models.ResourceBio:
		b.WriteString(`Write a professional "About Me" summary (Bio) suitable for LinkedIn or a Resume, approx 100 words. Keep it engaging.`)
		if extra != "" {
			b.WriteString(" Context: ")
			b.WriteString(extra)
		}
	case models.ResourceEmail:
		b.WriteString("Draft a cold email for a job application.")
		if extra != "" {
			b.WriteString(" Target Role/Company Details: ")
			b.WriteString(extra)
			b.WriteString(".")
		}
		b.WriteString(" Keep it concise and impactful.")
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownResourceKind, kind)
	}

	return b.String(), nil
}

// BuildMentorInstruction creates the chat system instruction, binding at
// most limit runes of the resume.
func (pb *PromptBuilder) BuildMentorInstruction(resumeContext string, limit int) string {
	bound := TruncateRunes(resumeContext, limit)
	if bound != resumeContext {
		bound += "..."
	}

	return fmt.Sprintf(`You are a helpful, friendly Career Mentor AI. You have access to the user's resume.
RESUME CONTEXT: %s

Answer questions about career advice, interview prep, and skill acquisition. Be concise and encouraging.`, bound)
}

// TruncateRunes returns at most n runes of s. n <= 0 means no limit.
func TruncateRunes(s string, n int) string {
	if n <= 0 {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
