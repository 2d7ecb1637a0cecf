package ai

import (
	"encoding/json"
	"errors"
	"strings"
)

type responsesMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responsesFormat struct {
	Type   string         `json:"type"`
	Name   string         `json:"name"`
	Schema map[string]any `json:"schema"`
	Strict bool           `json:"strict"`
}

type responsesRequest struct {
	Model string             `json:"model"`
	Input []responsesMessage `json:"input"`
	Text  struct {
		Format responsesFormat `json:"format"`
	} `json:"text"`
	Temperature float64 `json:"temperature"`
}

type responsesResponse struct {
	OutputText *string `json:"output_text"`
	Output     []struct {
		Type    string `json:"type"`
		Content []struct {
			Type    string `json:"type"`
			Text    string `json:"text"`
			Refusal string `json:"refusal"`
		} `json:"content"`
	} `json:"output"`
}

func responsesAdapter() providerAdapter {
	return providerAdapter{
		name:          "responses",
		buildRequest:  buildResponsesRequest,
		parseResponse: parseResponsesResponse,
	}
}

func buildResponsesRequest(model string, temperature float64, prompt renderedPrompt) ([]byte, error) {
	req := responsesRequest{
		Model: model,
		Input: []responsesMessage{
			{Role: "developer", Content: prompt.Developer},
			{Role: "user", Content: prompt.User},
		},
		Temperature: temperature,
	}
	req.Text.Format = responsesFormat{
		Type:   "json_schema",
		Name:   SchemaName,
		Schema: ResponseSchema(),
		Strict: true,
	}
	return json.Marshal(req)
}

func parseResponsesResponse(body []byte) (string, error) {
	var resp responsesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", err
	}
	if resp.OutputText != nil && strings.TrimSpace(*resp.OutputText) != "" {
		return *resp.OutputText, nil
	}

	var text strings.Builder
	for _, item := range resp.Output {
		if item.Type != "message" {
			continue
		}
		for _, c := range item.Content {
			switch c.Type {
			case "output_text":
				text.WriteString(c.Text)
			case "refusal":
				return "", errors.New("model refused: " + c.Refusal)
			}
		}
	}
	if text.Len() == 0 {
		return "", errors.New("response carries no output text")
	}
	return text.String(), nil
}
