package ai

import "google.golang.org/genai"

// Response schemas handed to Gemini's structured-output mode. They mirror the
// JSON contracts the handlers serve.

var errorAnalysisSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"error_type": {
			Type: genai.TypeString,
			Enum: []string{
				"conceptual_confusion",
				"misinterpretation",
				"calculation_error",
				"inattention",
				"unknown",
			},
		},
		"brief_explanation": {Type: genai.TypeString},
		"detailed_feedback": {Type: genai.TypeString},
	},
	Required: []string{"error_type", "brief_explanation", "detailed_feedback"},
}

var essayGradeSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"feedback_geral": {Type: genai.TypeString},
		"nota_total":     {Type: genai.TypeNumber},
		"criterios": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"nome":     {Type: genai.TypeString},
					"nota":     {Type: genai.TypeNumber},
					"feedback": {Type: genai.TypeString},
				},
				Required: []string{"nome", "nota", "feedback"},
			},
		},
	},
	Required: []string{"feedback_geral", "nota_total", "criterios"},
}

var examSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"questions": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"subject": {Type: genai.TypeString},
					"topic":   {Type: genai.TypeString},
					"content": {Type: genai.TypeString},
					"options": {
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"A": {Type: genai.TypeString},
							"B": {Type: genai.TypeString},
							"C": {Type: genai.TypeString},
							"D": {Type: genai.TypeString},
							"E": {Type: genai.TypeString},
						},
						Required: []string{"A", "B", "C", "D", "E"},
					},
				},
				Required: []string{"subject", "topic", "content", "options"},
			},
		},
	},
	Required: []string{"questions"},
}
