package classifier

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com"
	defaultGeminiModel   = "gemini-2.5-flash-lite"
)

// Gemini implements Provider for the Google generateContent API.
type Gemini struct {
	client  *http.Client
	baseURL string
	model   string
	apiKey  string
}

// NewGemini returns a Gemini provider. Empty baseURL and model select the defaults.
func NewGemini(client *http.Client, baseURL, model, apiKey string) *Gemini {
	if baseURL == "" {
		baseURL = defaultGeminiBaseURL
	}
	if model == "" {
		model = defaultGeminiModel
	}
	return &Gemini{
		client:  client,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		model:   model,
		apiKey:  apiKey,
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content *geminiContent `json:"content"`
	} `json:"candidates"`
}

// text walks candidates[0].content.parts[0].text; any missing link is unavailable.
func (r *geminiResponse) text() (string, error) {
	if len(r.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates", ErrClassificationUnavailable)
	}
	content := r.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 {
		return "", fmt.Errorf("%w: candidate has no parts", ErrClassificationUnavailable)
	}
	return content.Parts[0].Text, nil
}

func (g *Gemini) Name() string { return "gemini" }

func (g *Gemini) endpoint() string {
	return fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		g.baseURL, url.PathEscape(g.model), url.QueryEscape(g.apiKey))
}

func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	req := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	}

	var resp geminiResponse
	if err := postJSON(ctx, g.client, g.endpoint(), req, &resp); err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	return resp.text()
}
