package ai

import (
	"encoding/json"
	"errors"
	"strings"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatJSONSchema struct {
	Name   string         `json:"name"`
	Schema map[string]any `json:"schema"`
	Strict bool           `json:"strict"`
}

type chatResponseFormat struct {
	Type       string         `json:"type"`
	JSONSchema chatJSONSchema `json:"json_schema"`
}

type chatCompletionRequest struct {
	Model          string             `json:"model"`
	Messages       []chatMessage      `json:"messages"`
	ResponseFormat chatResponseFormat `json:"response_format"`
	Temperature    float64            `json:"temperature"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
			Refusal string `json:"refusal"`
		} `json:"message"`
	} `json:"choices"`
}

func chatAdapter() providerAdapter {
	return providerAdapter{
		name:          "chat",
		buildRequest:  buildChatCompletionRequest,
		parseResponse: parseChatCompletionResponse,
		keyOptional:   true,
	}
}

func buildChatCompletionRequest(model string, temperature float64, prompt renderedPrompt) ([]byte, error) {
	return json.Marshal(chatCompletionRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: prompt.Developer},
			{Role: "user", Content: prompt.User},
		},
		ResponseFormat: chatResponseFormat{
			Type: "json_schema",
			JSONSchema: chatJSONSchema{
				Name:   SchemaName,
				Schema: ResponseSchema(),
				Strict: true,
			},
		},
		Temperature: temperature,
	})
}

func parseChatCompletionResponse(body []byte) (string, error) {
	var resp chatCompletionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("response carries no choices")
	}
	msg := resp.Choices[0].Message
	if msg.Refusal != "" {
		return "", errors.New("model refused: " + msg.Refusal)
	}
	if strings.TrimSpace(msg.Content) == "" {
		return "", errors.New("response carries no content")
	}
	return msg.Content, nil
}
