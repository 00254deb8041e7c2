package app

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	cliflag "k8s.io/component-base/cli/flag"
	"k8s.io/component-base/cli/globalflag"
	"k8s.io/component-base/term"

	"github.com/autopeer-io/sentinel/pkg/log"
)

// App is a cobra command wired to a NamedFlagSetOptions. Flags, SENTINEL_*
// environment variables and an optional config file are merged into the
// options (in that order of precedence) before RunFunc is called.
type App struct {
	name        string
	shortDesc   string
	description string

	options    NamedFlagSetOptions
	runFunc    RunFunc
	args       cobra.PositionalArgs
	extractors map[string]func(context.Context) string
	noConfig   bool
	watch      bool

	v       *viper.Viper
	cfgFile *string
	cmd     *cobra.Command
}

// NewApp builds an application with the given command name and short help.
func NewApp(name, shortDesc string, opts ...Option) *App {
	a := &App{
		name:      name,
		shortDesc: shortDesc,
		v:         viper.New(),
	}
	for _, o := range opts {
		o(a)
	}
	a.buildCommand()
	return a
}

// Command returns the underlying cobra command.
func (a *App) Command() *cobra.Command {
	return a.cmd
}

// Run executes the command and exits the process on failure.
func (a *App) Run() {
	if err := a.cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", a.name, err)
		os.Exit(1)
	}
}

func (a *App) buildCommand() {
	cmd := &cobra.Command{
		Use:           a.name,
		Short:         a.shortDesc,
		Long:          a.description,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          a.args,
	}
	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)
	cmd.Flags().SortFlags = true
	cliflag.InitFlags()

	if a.runFunc != nil {
		cmd.RunE = a.runCommand
	}

	var namedFlagSets cliflag.NamedFlagSets
	if a.options != nil {
		namedFlagSets = a.options.Flags()
	}
	if !a.noConfig {
		a.cfgFile = addConfigFlag(a.v, namedFlagSets.FlagSet("global"))
	}
	globalflag.AddGlobalFlags(namedFlagSets.FlagSet("global"), cmd.Name())

	fs := cmd.Flags()
	for _, f := range namedFlagSets.FlagSets {
		fs.AddFlagSet(f)
	}

	cols, _, _ := term.TerminalSize(cmd.OutOrStdout())
	cliflag.SetUsageAndHelpFunc(cmd, namedFlagSets, cols)

	a.cmd = cmd
}

func (a *App) runCommand(cmd *cobra.Command, args []string) error {
	if a.options != nil {
		if err := a.applyConfig(cmd); err != nil {
			return err
		}
		if err := a.options.Complete(); err != nil {
			return err
		}
		if err := a.options.Validate(); err != nil {
			return err
		}
	}

	logOpts := log.NewOptions()
	if g, ok := a.options.(LogOptionsGetter); ok && g.LogOptions() != nil {
		logOpts = g.LogOptions()
	}
	log.Init(logOpts)
	defer log.Sync()

	if len(a.extractors) > 0 {
		m := make(map[string]log.ContextExtractor, len(a.extractors))
		for k, fn := range a.extractors {
			m[k] = fn
		}
		log.SetContextExtractors(m)
	}

	if a.watch && !a.noConfig {
		watchConfig(a.v)
	}

	log.Info("Starting application", "name", a.name, "config", a.v.ConfigFileUsed())
	return a.runFunc()
}

// applyConfig merges the config file and environment over flag defaults.
// Flags set explicitly on the command line keep precedence.
func (a *App) applyConfig(cmd *cobra.Command) error {
	if a.noConfig {
		return nil
	}
	if err := loadConfig(a.v, *a.cfgFile, a.name); err != nil {
		return err
	}
	if err := a.v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	if err := a.v.Unmarshal(a.options); err != nil {
		return fmt.Errorf("failed to decode configuration: %w", err)
	}
	return nil
}
