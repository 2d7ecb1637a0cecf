package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/doeshing/alex-go/internal/domain"
)

func validConfig() domain.Config {
	return domain.Config{
		Language: "en",
		Style:    "practical",
		Provider: domain.ProviderSettings{API: "responses", Temperature: 0.2, Timeout: time.Minute},
		History:  domain.HistorySettings{Enabled: true, Path: "/tmp/history.db"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*domain.Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*domain.Config) {}},
		{name: "bad language", mutate: func(c *domain.Config) { c.Language = "de" }, wantErr: true},
		{name: "relative endpoint", mutate: func(c *domain.Config) { c.Provider.Endpoint = "localhost:11434" }, wantErr: true},
		{name: "ollama endpoint", mutate: func(c *domain.Config) {
			c.Provider.API = "chat"
			c.Provider.Endpoint = "http://localhost:11434/v1/chat/completions"
		}},
		{name: "temperature", mutate: func(c *domain.Config) { c.Provider.Temperature = 3 }, wantErr: true},
		{name: "negative timeout", mutate: func(c *domain.Config) { c.Execution.CommandTimeout = -time.Second }, wantErr: true},
		{name: "negative output limit", mutate: func(c *domain.Config) { c.Diagnostics.OutputLimit = -1 }, wantErr: true},
		{name: "history without path", mutate: func(c *domain.Config) { c.History.Path = "" }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := Validate(cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
