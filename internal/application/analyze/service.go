// Package analyze explains captured command failures.
package analyze

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/doeshing/alex-go/internal/domain"
	"github.com/doeshing/alex-go/internal/ports"
)

// ErrNoErrorText is returned when neither stdin, arguments nor the log
// yielded anything to analyze.
var ErrNoErrorText = errors.New("no error text found")

// Source names where the analyzed text came from.
type Source string

const (
	SourceStdin Source = "stdin"
	SourceText  Source = "text"
	SourceLog   Source = "log"
)

// Request is one `alex error` invocation.
type Request struct {
	// Stdin is the piped input; empty when stdin is a terminal.
	Stdin   string
	Text    string
	Command string
	Filter  domain.ErrorFilter
}

// Service picks the error text and asks the reasoning engine about it.
type Service struct {
	Engine ports.ReasoningEngine
	Log    ports.ErrorLog
	Logger zerolog.Logger
}

// Show returns the filtered log blocks without analysis.
func (s *Service) Show(filter domain.ErrorFilter) ([]string, error) {
	if s.Log == nil {
		return nil, errors.New("analyze.Service dependencies not satisfied")
	}
	blocks, err := s.Log.Select(filter)
	if err != nil {
		return nil, err
	}
	if len(blocks) == 0 {
		return nil, ErrNoErrorText
	}
	return blocks, nil
}

// Clear truncates the error log.
func (s *Service) Clear() error {
	if s.Log == nil {
		return errors.New("analyze.Service dependencies not satisfied")
	}
	return s.Log.Clear()
}

// ErrorText applies the source priority stdin, then text, then the log.
func (s *Service) ErrorText(req Request) (string, Source, error) {
	if text := strings.TrimSpace(req.Stdin); text != "" {
		return text, SourceStdin, nil
	}
	if text := strings.TrimSpace(req.Text); text != "" {
		return text, SourceText, nil
	}
	if s.Log == nil {
		return "", "", ErrNoErrorText
	}
	blocks, err := s.Log.Select(req.Filter)
	if err != nil {
		return "", "", err
	}
	if len(blocks) == 0 {
		return "", "", ErrNoErrorText
	}
	return strings.Join(blocks, "\n\n"), SourceLog, nil
}

// Analyze runs one error_analysis reasoning call.
func (s *Service) Analyze(ctx context.Context, req Request) (domain.ReasoningResponse, error) {
	if s.Engine == nil {
		return domain.ReasoningResponse{}, errors.New("analyze.Service dependencies not satisfied")
	}
	text, source, err := s.ErrorText(req)
	if err != nil {
		return domain.ReasoningResponse{}, err
	}
	s.Logger.Debug().Str("source", string(source)).Int("chars", len(text)).Msg("analyzing error text")

	resp, err := s.Engine.Reason(ctx, domain.ReasoningRequest{
		Intent: domain.IntentErrorAnalysis,
		Prompt: BuildPrompt(req.Command, req.Filter, text),
	})
	if err != nil {
		return domain.ReasoningResponse{}, fmt.Errorf("reasoning: %w", err)
	}
	return resp, nil
}

// BuildPrompt frames the error text for the reasoning engine.
func BuildPrompt(command string, filter domain.ErrorFilter, text string) string {
	if command == "" {
		command = "(unknown)"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Original command (optional): %s\n\n", command)
	if active := filter.Active(); len(active) > 0 {
		fmt.Fprintf(&b, "Filters: %s\n\n", strings.Join(active, ", "))
	}
	fmt.Fprintf(&b, "Error log:\n%s\n", text)
	return b.String()
}
