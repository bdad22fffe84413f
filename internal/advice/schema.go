package advice

import "github.com/google/generative-ai-go/genai"

// ResponseSchema is the structural constraint attached to every generation
// call. Only widely accepted schema keys are used; tip and subsidy counts
// are enforced through the prompt and re-checked after decoding.
func ResponseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"tips": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"currentUsage":     {Type: genai.TypeInteger},
					"currentBill":      {Type: genai.TypeNumber},
					"estimatedSavings": {Type: genai.TypeInteger},
					"percentageSaving": {Type: genai.TypeInteger},
					"efficiencyScore":  {Type: genai.TypeInteger},
					"tips": {
						Type: genai.TypeArray,
						Items: &genai.Schema{
							Type: genai.TypeObject,
							Properties: map[string]*genai.Schema{
								"title":       {Type: genai.TypeString},
								"savings":     {Type: genai.TypeString},
								"description": {Type: genai.TypeString},
								"cost":        {Type: genai.TypeString},
								"payback":     {Type: genai.TypeString},
								"category":    {Type: genai.TypeString},
							},
							Required: []string{
								"title", "savings", "description",
								"cost", "payback", "category",
							},
						},
					},
				},
				Required: []string{
					"currentUsage", "currentBill", "estimatedSavings",
					"percentageSaving", "efficiencyScore", "tips",
				},
			},
			"subsidies": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"name":        {Type: genai.TypeString},
						"amount":      {Type: genai.TypeString},
						"description": {Type: genai.TypeString},
						"eligibility": {Type: genai.TypeString},
						"howToApply":  {Type: genai.TypeString},
						"status":      {Type: genai.TypeString},
						"url":         {Type: genai.TypeString},
					},
					Required: []string{
						"name", "amount", "description", "eligibility",
						"howToApply", "status", "url",
					},
				},
			},
		},
		Required: []string{"tips", "subsidies"},
	}
}
