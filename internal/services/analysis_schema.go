package services

import "google.golang.org/genai"

func stringList(description string) *genai.Schema {
	return &genai.Schema{
		Type:        genai.TypeArray,
		Items:       &genai.Schema{Type: genai.TypeString},
		Description: description,
	}
}

// AnalysisSchema describes the JSON payload the model must return for a
// resume analysis.
func AnalysisSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"atsScore": {
				Type:        genai.TypeInteger,
				Description: "A score from 0 to 100 representing how well the resume passes ATS.",
			},
			"summary": {
				Type:        genai.TypeString,
				Description: "A brief professional summary of the candidate.",
			},
			"strengths":     stringList("List of strong points in the resume."),
			"weaknesses":    stringList("List of weak points or areas for improvement."),
			"missingSkills": stringList("Important skills that seem to be missing for the candidate's target role."),
			"grammarIssues": stringList("List of specific grammar or formatting errors found."),
			"skills": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"technical": stringList(""),
					"soft":      stringList(""),
					"tools":     stringList(""),
				},
				PropertyOrdering: []string{"technical", "soft", "tools"},
			},
			"improvements": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"original":   {Type: genai.TypeString, Description: "The original text from the resume."},
						"suggestion": {Type: genai.TypeString, Description: "The improved version."},
						"reason":     {Type: genai.TypeString, Description: "Why this change improves the resume."},
					},
					PropertyOrdering: []string{"original", "suggestion", "reason"},
				},
			},
			"careerPaths": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"role":        {Type: genai.TypeString},
						"matchReason": {Type: genai.TypeString},
						"roadmap":     stringList("Step-by-step roadmap to achieve this role."),
					},
					PropertyOrdering: []string{"role", "matchReason", "roadmap"},
				},
			},
		},
		Required: []string{"atsScore", "strengths", "weaknesses", "skills", "improvements", "careerPaths"},
		PropertyOrdering: []string{
			"atsScore", "summary", "strengths", "weaknesses", "missingSkills",
			"grammarIssues", "skills", "improvements", "careerPaths",
		},
	}
}
