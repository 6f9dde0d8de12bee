package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	keyDriver    = "driver"
	keyDSN       = "dsn"
	keySchema    = "schema"
	keyTables    = "tables"
	keyPackage   = "package"
	keyOut       = "out"
	keyOverwrite = "overwrite"
	keyWorkers   = "workers"
	keySingular  = "singular"

	envPrefix      = "ORAMAP_GEN"
	configFileName = "oramap-gen"
)

// Config holds the generator settings.
type Config struct {
	Driver    string
	DSN       string
	Schema    string
	Tables    []string
	Package   string
	Out       string
	Overwrite bool
	Workers   int
	Singular  bool // singularize struct names
}

// loadConfig merges flags, environment and an optional config file. A missing
// default config file is not an error; a missing explicit one is.
func loadConfig(flags *pflag.FlagSet, file string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		return nil, err
	}

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(configFileName)
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		Driver:    v.GetString(keyDriver),
		DSN:       v.GetString(keyDSN),
		Schema:    v.GetString(keySchema),
		Tables:    v.GetStringSlice(keyTables),
		Package:   v.GetString(keyPackage),
		Out:       v.GetString(keyOut),
		Overwrite: v.GetBool(keyOverwrite),
		Workers:   v.GetInt(keyWorkers),
		Singular:  v.GetBool(keySingular),
	}
	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	if c.DSN == "" {
		return errors.New("dsn is required")
	}
	if c.Package == "" {
		return errors.New("package is required")
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	return nil
}
