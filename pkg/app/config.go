package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/autopeer-io/sentinel/pkg/log"
)

const (
	configFlagName = "config"
	envPrefix      = "SENTINEL"
)

// addConfigFlag registers --config on fs and makes v resolve SENTINEL_*
// environment variables.
func addConfigFlag(v *viper.Viper, fs *pflag.FlagSet) *string {
	cfgFile := fs.StringP(configFlagName, "c", "", "Read configuration from the specified file, support JSON, TOML, YAML, HCL, or Java properties formats.")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	return cfgFile
}

// loadConfig reads the config file named by cfgFile, or searches the
// default locations for <basename>.yaml. A missing file in the default
// locations is not an error.
func loadConfig(v *viper.Viper, cfgFile, basename string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".sentinel"))
		}
		v.AddConfigPath("/etc/sentinel")
		v.SetConfigName(basename)
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read configuration file(%s): %w", cfgFile, err)
	}
	return nil
}

// watchConfig re-applies the log level whenever the config file changes.
// Other settings require a restart.
func watchConfig(v *viper.Viper) {
	if v.ConfigFileUsed() == "" {
		return
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		level := v.GetString("log.level")
		log.SetLevel(level)
		log.Info("Configuration file changed", "file", e.Name, "op", e.Op.String(), "log.level", level)
	})
	v.WatchConfig()
}
