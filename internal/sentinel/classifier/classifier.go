package classifier

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/autopeer-io/sentinel/internal/pkg/otel"
	"github.com/autopeer-io/sentinel/internal/sentinel/core"
	"github.com/autopeer-io/sentinel/internal/sentinel/core/model"
	"github.com/autopeer-io/sentinel/pkg/log"
	"github.com/autopeer-io/sentinel/pkg/options"
)

// ErrClassificationUnavailable covers every way the upstream can fail to
// produce an answer: transport errors, non-2xx status, malformed or empty
// payloads. It never leaves this package; Classify downgrades it to UNKNOWN.
var ErrClassificationUnavailable = errors.New("classification unavailable")

// Provider sends one prompt to a language model and returns its raw text.
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

var _ core.ThreatClassifier = (*Client)(nil)

// Client classifies field reports with a language model.
type Client struct {
	provider Provider
}

// New builds a Client for the provider selected in opts.
func New(opts *options.ClassifierOptions) (*Client, error) {
	httpClient := &http.Client{
		Timeout:   opts.Timeout,
		Transport: otel.WrapTransport(nil),
	}

	var provider Provider
	switch opts.Provider {
	case options.ClassifierGemini:
		provider = NewGemini(httpClient, opts.BaseURL, opts.Model, opts.APIKey)
	case options.ClassifierOllama:
		provider = NewOllama(httpClient, opts.BaseURL, opts.Model)
	default:
		return nil, fmt.Errorf("unknown classifier provider %q", opts.Provider)
	}

	log.Info("Threat classifier configured", "provider", provider.Name())
	return NewWithProvider(provider), nil
}

// NewWithProvider builds a Client around an already constructed provider.
func NewWithProvider(p Provider) *Client {
	return &Client{provider: p}
}

// Classify never fails: any upstream problem yields model.VerdictUnknown.
func (c *Client) Classify(ctx context.Context, reportText string) model.Verdict {
	raw, err := c.provider.Generate(ctx, BuildPrompt(reportText))
	if err != nil {
		log.FromContext(ctx).Error(err, "Threat classification failed, defaulting to UNKNOWN",
			"provider", c.provider.Name())
		return model.VerdictUnknown
	}

	verdict := model.ParseVerdict(raw)
	if verdict == model.VerdictUnknown {
		log.FromContext(ctx).Warn("Unrecognised classifier answer", "provider", c.provider.Name(), "raw", raw)
	}
	return verdict
}
