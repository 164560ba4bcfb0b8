package models

type SkillCategories struct {
	Technical []string `json:"technical"`
	Soft      []string `json:"soft"`
	Tools     []string `json:"tools"`
}

type ImprovementSuggestion struct {
	Original   string `json:"original"`
	Suggestion string `json:"suggestion"`
	Reason     string `json:"reason"`
}

type CareerPath struct {
	Role        string   `json:"role"`
	MatchReason string   `json:"matchReason"`
	Roadmap     []string `json:"roadmap"`
}

// ResumeAnalysis is the parsed result of one analysis call. Every list is
// non-nil once it leaves the analyzer.
type ResumeAnalysis struct {
	ATSScore      int                     `json:"atsScore"`
	Summary       string                  `json:"summary"`
	Strengths     []string                `json:"strengths"`
	Weaknesses    []string                `json:"weaknesses"`
	MissingSkills []string                `json:"missingSkills"`
	GrammarIssues []string                `json:"grammarIssues"`
	Skills        SkillCategories         `json:"skills"`
	Improvements  []ImprovementSuggestion `json:"improvements"`
	CareerPaths   []CareerPath            `json:"careerPaths"`
}
