package ai

// SchemaName identifies the response document in json_schema requests.
const SchemaName = "alex_cli_response"

func stringArray() map[string]any {
	return map[string]any{"type": "array", "items": map[string]any{"type": "string"}}
}

// ResponseSchema returns the strict JSON schema of domain.ReasoningResponse.
func ResponseSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"intent":  map[string]any{"type": "string", "enum": []string{"general", "error_analysis"}},
			"summary": map[string]any{"type": "string"},
			"steps":   stringArray(),
			"commands": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"properties": map[string]any{
						"cmd":  map[string]any{"type": "string"},
						"why":  map[string]any{"type": "string"},
						"risk": map[string]any{"type": "string", "enum": []string{"low", "medium", "high", "super_high"}},
					},
					"required": []string{"cmd", "why", "risk"},
				},
			},
			"checks": stringArray(),
			"notes":  stringArray(),
		},
		"required": []string{"intent", "summary", "steps", "commands", "checks", "notes"},
	}
}
