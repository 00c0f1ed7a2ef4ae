// Package config reads and writes the per-world configuration in
// .narrata/config.yaml.
//
// Precedence, highest first: NARRATA_* environment variables, the world's
// .env file, config.yaml, built-in defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/narrata/internal/paths"
	"github.com/mesh-intelligence/narrata/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	envPrefix      = "NARRATA"

	keyWorldID  = "world_id"
	keyName     = "name"
	keyDatabase = "database"
	keyLogLevel = "log_level"

	defaultLogLevel = "warn"
)

var keys = []string{keyWorldID, keyName, keyDatabase, keyLogLevel}

const configHeader = `# narrata world configuration
# database is relative to this directory unless absolute.
# log_level is one of debug, info, warn, error; NARRATA_LOG_LEVEL overrides it.
`

// Load reads the configuration of w. A missing config.yaml or .env is not
// an error; the defaults apply.
func Load(w paths.World) (types.Config, error) {
	v := viper.New()
	v.SetDefault(keyWorldID, "")
	v.SetDefault(keyName, "")
	v.SetDefault(keyDatabase, types.DefaultDatabase)
	v.SetDefault(keyLogLevel, defaultLogLevel)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(w.Dir)
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return types.Config{}, fmt.Errorf("read config: %w", err)
		}
	}
	if err := applyEnvFile(v, w.EnvPath); err != nil {
		return types.Config{}, err
	}

	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		return types.Config{}, fmt.Errorf("%s: %w", w.ConfigPath, err)
	}
	return cfg, nil
}

// applyEnvFile layers NARRATA_* entries of the world's .env file over the
// config file. Variables already set in the process environment win.
func applyEnvFile(v *viper.Viper, path string) error {
	env, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	for _, key := range keys {
		name := envPrefix + "_" + strings.ToUpper(key)
		if _, set := os.LookupEnv(name); set {
			continue
		}
		if val, ok := env[name]; ok {
			v.Set(key, val)
		}
	}
	return nil
}

// WriteDefault creates the .narrata directory and a config.yaml stamped with
// a fresh world id. An existing config is left untouched and reported with
// created == false.
func WriteDefault(w paths.World, name string) (created bool, err error) {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return false, fmt.Errorf("create %s: %w", w.Dir, err)
	}
	if _, err := os.Stat(w.ConfigPath); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return false, fmt.Errorf("generate world id: %w", err)
	}
	cfg := types.Config{
		WorldID:  id.String(),
		Name:     name,
		Database: types.DefaultDatabase,
		LogLevel: defaultLogLevel,
	}
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(w.ConfigPath, append([]byte(configHeader), data...), 0o644); err != nil {
		return false, fmt.Errorf("write config: %w", err)
	}
	return true, nil
}
