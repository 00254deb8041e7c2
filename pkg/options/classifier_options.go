package options

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

var _ IOptions = (*ClassifierOptions)(nil)

// Classifier providers.
const (
	ClassifierGemini = "gemini"
	ClassifierOllama = "ollama"
)

// ClassifierOptions configures the threat classifier upstream.
type ClassifierOptions struct {
	// Provider is gemini or ollama.
	Provider string `json:"provider" mapstructure:"provider"`

	// BaseURL of the provider API. Empty selects the provider default.
	BaseURL string `json:"base-url" mapstructure:"base-url"`

	// Model name passed to the provider. Empty selects the provider default
	// (gemini-2.5-flash-lite for gemini, llama3 for ollama).
	Model string `json:"model" mapstructure:"model"`

	// APIKey authenticates against gemini. Unused by ollama.
	APIKey string `json:"api-key" mapstructure:"api-key"`

	// Timeout is the hard bound on a single classification attempt.
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`
}

func NewClassifierOptions() *ClassifierOptions {
	return &ClassifierOptions{
		Provider: ClassifierGemini,
		Timeout:  10 * time.Second,
	}
}

func (o *ClassifierOptions) Validate() []error {
	errors := []error{}

	switch o.Provider {
	case ClassifierGemini:
		if o.APIKey == "" {
			errors = append(errors, fmt.Errorf("classifier.api-key is required for the gemini provider"))
		}
	case ClassifierOllama:
	default:
		errors = append(errors, fmt.Errorf("classifier.provider %q is not one of gemini, ollama", o.Provider))
	}
	if o.Timeout <= 0 {
		errors = append(errors, fmt.Errorf("classifier.timeout must be positive"))
	}

	return errors
}

func (o *ClassifierOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.Provider, "classifier.provider", o.Provider, "Language model provider: gemini or ollama.")
	fs.StringVar(&o.BaseURL, "classifier.base-url", o.BaseURL, "Provider API base URL (defaults per provider).")
	fs.StringVar(&o.Model, "classifier.model", o.Model, "Model used for threat classification.")
	fs.StringVar(&o.APIKey, "classifier.api-key", o.APIKey, "API key for the gemini provider.")
	fs.DurationVar(&o.Timeout, "classifier.timeout", o.Timeout, "Hard timeout of one classification attempt.")
}
