package models

type AnalyzeRequest struct {
	ResumeText string `json:"resume_text"`
}

type GenerateRequest struct {
	ResumeContext string `json:"resume_context"`
	ExtraContext  string `json:"extra_context"`
}

type CreateChatRequest struct {
	ResumeContext string `json:"resume_context"`
}

type ChatTurnRequest struct {
	Message string `json:"message"`
}

type ConversationResponse struct {
	ID       string        `json:"id"`
	Messages []ChatMessage `json:"messages"`
	Typing   bool          `json:"typing"`
}

type ExtractResponse struct {
	Filename   string `json:"filename"`
	Text       string `json:"text"`
	PageCount  int    `json:"page_count"`
	Characters int    `json:"characters"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code,omitempty"`
}
