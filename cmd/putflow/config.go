package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ErrConfig indicates invalid configuration from flags, the config file or
// the environment.
var ErrConfig = errors.New("invalid configuration")

// skipKeys are flags that are never read from configuration.
var skipKeys = map[string]bool{"config": true, "help": true}

// loadConfig fills every flag the user did not set on the command line from
// the config file or PUTFLOW_* environment variables. A missing default
// config file is not an error; a missing explicit one is.
func loadConfig(flags *pflag.FlagSet, path string) error {
	v := viper.New()
	v.SetEnvPrefix("PUTFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(".putflow")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(home)
		}
	}

	err := v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("%w: read config: %w", ErrConfig, err)
		}
	}

	var errs []error

	flags.VisitAll(func(f *pflag.Flag) {
		if f.Changed || skipKeys[f.Name] || !v.IsSet(f.Name) {
			return
		}

		values := []string{v.GetString(f.Name)}
		if strings.HasSuffix(f.Value.Type(), "Slice") {
			values = v.GetStringSlice(f.Name)
		}

		for _, val := range values {
			err := flags.Set(f.Name, val)
			if err != nil {
				errs = append(errs, fmt.Errorf("%w: %s: %w", ErrConfig, f.Name, err))
			}
		}
	})

	return errors.Join(errs...)
}
