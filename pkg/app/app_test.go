package app

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cliflag "k8s.io/component-base/cli/flag"
)

type demoSection struct {
	Name string `mapstructure:"name"`
	Port int    `mapstructure:"port"`
}

type demoOptions struct {
	Demo *demoSection `mapstructure:"demo"`

	completed   bool
	validateErr error
}

func newDemoOptions() *demoOptions {
	return &demoOptions{Demo: &demoSection{Name: "default", Port: 1}}
}

func (o *demoOptions) Flags() cliflag.NamedFlagSets {
	fss := cliflag.NamedFlagSets{}
	fs := fss.FlagSet("demo")
	fs.StringVar(&o.Demo.Name, "demo.name", o.Demo.Name, "Name.")
	fs.IntVar(&o.Demo.Port, "demo.port", o.Demo.Port, "Port.")
	return fss
}

func (o *demoOptions) Complete() error {
	o.completed = true
	return nil
}

func (o *demoOptions) Validate() error { return o.validateErr }

func runDemo(t *testing.T, opts *demoOptions, args ...string) (bool, error) {
	t.Helper()
	ran := false
	a := NewApp("demo-app", "demo",
		WithOptions(opts),
		WithDefaultValidArgs(),
		WithRunFunc(func() error {
			ran = true
			return nil
		}),
	)
	a.Command().SetArgs(args)
	return ran, a.Command().Execute()
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "demo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestRunUsesFlagDefaults(t *testing.T) {
	opts := newDemoOptions()
	ran, err := runDemo(t, opts)
	require.NoError(t, err)

	assert.True(t, ran)
	assert.True(t, opts.completed)
	assert.Equal(t, "default", opts.Demo.Name)
	assert.Equal(t, 1, opts.Demo.Port)
}

func TestConfigFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, "demo:\n  name: from-file\n  port: 9\n")

	opts := newDemoOptions()
	_, err := runDemo(t, opts, "--config", path)
	require.NoError(t, err)

	assert.Equal(t, "from-file", opts.Demo.Name)
	assert.Equal(t, 9, opts.Demo.Port)
}

func TestExplicitFlagBeatsConfigFile(t *testing.T) {
	path := writeConfig(t, "demo:\n  name: from-file\n  port: 9\n")

	opts := newDemoOptions()
	_, err := runDemo(t, opts, "--config", path, "--demo.name=cli")
	require.NoError(t, err)

	assert.Equal(t, "cli", opts.Demo.Name)
	assert.Equal(t, 9, opts.Demo.Port)
}

func TestEnvironmentOverridesDefaults(t *testing.T) {
	t.Setenv("SENTINEL_DEMO_NAME", "from-env")

	opts := newDemoOptions()
	_, err := runDemo(t, opts)
	require.NoError(t, err)

	assert.Equal(t, "from-env", opts.Demo.Name)
}

func TestMissingExplicitConfigFails(t *testing.T) {
	opts := newDemoOptions()
	ran, err := runDemo(t, opts, "--config", filepath.Join(t.TempDir(), "absent.yaml"))

	require.Error(t, err)
	assert.False(t, ran)
}

func TestValidationErrorStopsRun(t *testing.T) {
	opts := newDemoOptions()
	opts.validateErr = errors.New("bad options")

	ran, err := runDemo(t, opts)
	require.EqualError(t, err, "bad options")
	assert.False(t, ran)
}

func TestPositionalArgsRejected(t *testing.T) {
	ran, err := runDemo(t, newDemoOptions(), "extra")
	require.Error(t, err)
	assert.False(t, ran)
}
