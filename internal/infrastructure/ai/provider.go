// Package ai talks to the reasoning engine over HTTP.
//
// Two wire protocols are supported behind one ports.ReasoningEngine:
//   - the OpenAI Responses API with a strict json_schema text format
//   - chat completions with a json_schema response_format, which also covers
//     OpenAI-compatible local servers such as Ollama
//
// Whatever the protocol, the returned text must decode into a
// domain.ReasoningResponse or the call fails with a contract violation.
package ai

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/doeshing/alex-go/internal/domain"
	"github.com/doeshing/alex-go/internal/ports"
)

const maxErrorBody = 512

type providerAdapter struct {
	name          string
	buildRequest  func(model string, temperature float64, prompt renderedPrompt) ([]byte, error)
	parseResponse func([]byte) (string, error)
	// keyOptional lets keyless local endpoints through.
	keyOptional bool
}

// Options configures an HTTP reasoning engine.
type Options struct {
	API         string
	Endpoint    string
	Model       string
	Temperature float64
	Timeout     time.Duration
	Language    string
	Style       string
}

// OptionsFromConfig extracts the provider options from the loaded config.
func OptionsFromConfig(cfg domain.Config) Options {
	return Options{
		API:         cfg.GetProviderAPI(),
		Endpoint:    cfg.GetProviderEndpoint(),
		Model:       cfg.GetModel(),
		Temperature: cfg.GetTemperature(),
		Timeout:     cfg.GetProviderTimeout(),
		Language:    cfg.LanguageLine(),
		Style:       cfg.StyleLine(),
	}
}

// HTTPEngine implements ports.ReasoningEngine.
type HTTPEngine struct {
	opts        Options
	adapter     providerAdapter
	httpClient  *http.Client
	credentials ports.CredentialProvider
	sysinfo     ports.SystemInfoCollector
	log         zerolog.Logger
}

// NewHTTPEngine builds the engine for opts.API. A nil client gets one bounded
// by opts.Timeout.
func NewHTTPEngine(opts Options, client *http.Client, creds ports.CredentialProvider, sysinfo ports.SystemInfoCollector, log zerolog.Logger) (*HTTPEngine, error) {
	adapter, err := adapterFor(opts.API)
	if err != nil {
		return nil, err
	}
	if opts.Timeout <= 0 {
		opts.Timeout = domain.DefaultProviderTimeout
	}
	if opts.Model == "" {
		opts.Model = domain.DefaultModel
	}
	if opts.Endpoint == "" {
		return nil, errors.New("reasoning endpoint is empty")
	}
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	return &HTTPEngine{
		opts:        opts,
		adapter:     adapter,
		httpClient:  client,
		credentials: creds,
		sysinfo:     sysinfo,
		log:         log,
	}, nil
}

func adapterFor(api string) (providerAdapter, error) {
	switch strings.ToLower(api) {
	case "", domain.ProviderAPIResponses:
		return responsesAdapter(), nil
	case domain.ProviderAPIChat:
		return chatAdapter(), nil
	default:
		return providerAdapter{}, fmt.Errorf("unsupported provider api: %s", api)
	}
}

// Reason implements ports.ReasoningEngine.
func (e *HTTPEngine) Reason(ctx context.Context, req domain.ReasoningRequest) (domain.ReasoningResponse, error) {
	if !req.Intent.Valid() {
		req.Intent = domain.IntentGeneral
	}

	apiKey, err := e.apiKey()
	if err != nil {
		return domain.ReasoningResponse{}, err
	}

	var info domain.SystemInfo
	if e.sysinfo != nil {
		info = e.sysinfo.Collect(ctx)
	}
	prompt, err := renderPrompt(e.opts.Language, e.opts.Style, info, req)
	if err != nil {
		return domain.ReasoningResponse{}, err
	}

	body, err := e.adapter.buildRequest(e.opts.Model, e.opts.Temperature, prompt)
	if err != nil {
		return domain.ReasoningResponse{}, fmt.Errorf("%s: build request: %w", e.adapter.name, err)
	}

	ctx, cancel := context.WithTimeout(ctx, e.opts.Timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.opts.Endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.ReasoningResponse{}, err
	}
	httpReq.Header.Set("content-type", "application/json")
	if apiKey != "" {
		httpReq.Header.Set("authorization", "Bearer "+apiKey)
	}

	start := time.Now()
	resp, err := e.httpClient.Do(httpReq)
	if err != nil {
		return domain.ReasoningResponse{}, fmt.Errorf("%s: %w", e.adapter.name, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.ReasoningResponse{}, fmt.Errorf("%s: read response: %w", e.adapter.name, err)
	}
	e.log.Debug().
		Str("api", e.adapter.name).
		Str("model", e.opts.Model).
		Str("intent", string(req.Intent)).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("reasoning call finished")

	if resp.StatusCode >= 400 {
		return domain.ReasoningResponse{}, fmt.Errorf("%s: %s: %s", e.adapter.name, resp.Status, snippet(raw))
	}

	text, err := e.adapter.parseResponse(raw)
	if err != nil {
		return domain.ReasoningResponse{}, &domain.ContractViolationError{Reason: err.Error(), Raw: string(raw)}
	}
	return domain.DecodeReasoningResponse([]byte(text))
}

func (e *HTTPEngine) apiKey() (string, error) {
	if e.credentials == nil {
		if e.adapter.keyOptional {
			return "", nil
		}
		return "", domain.ErrMissingCredential
	}
	key, err := e.credentials.APIKey()
	if err == nil {
		return key, nil
	}
	if e.adapter.keyOptional && errors.Is(err, domain.ErrMissingCredential) {
		return "", nil
	}
	return "", err
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) <= maxErrorBody {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxErrorBody {
		return s
	}
	return string(runes[:maxErrorBody]) + "..."
}

var _ ports.ReasoningEngine = (*HTTPEngine)(nil)
