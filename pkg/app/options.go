package app

import (
	"context"

	"github.com/spf13/cobra"
	cliflag "k8s.io/component-base/cli/flag"

	"github.com/autopeer-io/sentinel/pkg/log"
)

// NamedFlagSetOptions is implemented by the options of every command built
// with this package.
type NamedFlagSetOptions interface {
	// Flags returns the flags grouped into named sections.
	Flags() cliflag.NamedFlagSets

	// Complete fills in fields derived from other fields.
	Complete() error

	// Validate checks the options after flags, env and config file are merged.
	Validate() error
}

// LogOptionsGetter is implemented by options that carry logger settings.
type LogOptionsGetter interface {
	LogOptions() *log.Options
}

// RunFunc is the entry point of an application once its options are ready.
type RunFunc func() error

// Option configures an App.
type Option func(*App)

// WithOptions sets the options the command binds its flags to.
func WithOptions(opts NamedFlagSetOptions) Option {
	return func(a *App) {
		a.options = opts
	}
}

// WithRunFunc sets the function invoked after option validation.
func WithRunFunc(run RunFunc) Option {
	return func(a *App) {
		a.runFunc = run
	}
}

// WithDescription sets the long description shown in help.
func WithDescription(desc string) Option {
	return func(a *App) {
		a.description = desc
	}
}

// WithValidArgs sets a custom positional argument validator.
func WithValidArgs(args cobra.PositionalArgs) Option {
	return func(a *App) {
		a.args = args
	}
}

// WithDefaultValidArgs rejects any positional argument.
func WithDefaultValidArgs() Option {
	return func(a *App) {
		a.args = cobra.NoArgs
	}
}

// WithNoConfig disables the --config flag and config file loading.
func WithNoConfig() Option {
	return func(a *App) {
		a.noConfig = true
	}
}

// WithWatchConfig reloads the log level when the config file changes.
func WithWatchConfig() Option {
	return func(a *App) {
		a.watch = true
	}
}

// WithLoggerContextExtractor registers values pulled from request contexts
// into log lines. See log.FromContext.
func WithLoggerContextExtractor(extractors map[string]func(context.Context) string) Option {
	return func(a *App) {
		a.extractors = extractors
	}
}
