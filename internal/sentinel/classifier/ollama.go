package classifier

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

const (
	defaultOllamaBaseURL = "http://localhost:11434"
	defaultOllamaModel   = "llama3"
)

// Ollama implements Provider for a local Ollama server.
type Ollama struct {
	client  *http.Client
	baseURL string
	model   string
}

// NewOllama returns an Ollama provider. Empty baseURL and model select the defaults.
func NewOllama(client *http.Client, baseURL, model string) *Ollama {
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}
	if model == "" {
		model = defaultOllamaModel
	}
	return &Ollama{
		client:  client,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		model:   model,
	}
}

type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type ollamaResponse struct {
	Response string `json:"response"`
}

func (o *Ollama) Name() string { return "ollama" }

func (o *Ollama) Generate(ctx context.Context, prompt string) (string, error) {
	var resp ollamaResponse
	err := postJSON(ctx, o.client, o.baseURL+"/api/generate", ollamaRequest{
		Model:  o.model,
		Prompt: prompt,
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("ollama: %w", err)
	}
	if strings.TrimSpace(resp.Response) == "" {
		return "", fmt.Errorf("ollama: %w: empty response", ErrClassificationUnavailable)
	}
	return resp.Response, nil
}
