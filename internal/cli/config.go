package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ConfigEnv names the environment variable that points at a config file
// when --config is not given.
const ConfigEnv = "GRIDSTATE_CONFIG"

// newConfig reads the YAML config file at path (or $GRIDSTATE_CONFIG) and
// layers GRIDSTATE_* environment variables over it. Keys are flag names;
// GRIDSTATE_TABLE_ID overrides table-id. A missing path yields an
// environment-only config.
func newConfig(path string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetEnvPrefix("GRIDSTATE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = os.Getenv(ConfigEnv)
	}
	if path == "" {
		return v, nil
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return v, nil
}

// applyConfig fills every flag of cmd the user did not set on the command
// line from v. Explicit flags always win.
func applyConfig(cmd *cobra.Command, v *viper.Viper) error {
	var errs []error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Changed || f.Name == "config" || f.Name == "help" || !v.IsSet(f.Name) {
			return
		}
		if err := f.Value.Set(v.GetString(f.Name)); err != nil {
			errs = append(errs, fmt.Errorf("config key %q: %w", f.Name, err))
		}
	})
	return errors.Join(errs...)
}
