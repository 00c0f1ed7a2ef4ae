package types

import "errors"

// Config holds the settings of one world, read from .narrata/config.yaml.
type Config struct {
	WorldID  string `yaml:"world_id" mapstructure:"world_id"`
	Name     string `yaml:"name" mapstructure:"name"`
	Database string `yaml:"database" mapstructure:"database"`
	LogLevel string `yaml:"log_level,omitempty" mapstructure:"log_level"`
}

// DefaultDatabase is the database file name, relative to the .narrata
// directory, used when the config does not name one.
const DefaultDatabase = "world.db"

// Config validation errors.
var (
	ErrDatabaseEmpty = errors.New("database must not be empty")
	ErrLogLevel      = errors.New("unknown log level")
)

var knownLogLevels = map[string]bool{
	"":      true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks that the Config is well-formed.
func (c Config) Validate() error {
	if c.Database == "" {
		return ErrDatabaseEmpty
	}
	if !knownLogLevels[c.LogLevel] {
		return ErrLogLevel
	}
	return nil
}
