package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/media2net-app/byeauto/internal/domain"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. BYEAUTO_DB.
const EnvPrefix = "BYEAUTO"

type Config struct {
	DB struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"db"`
	Location string `mapstructure:"location"`
	Log      struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`
	Roster []string `mapstructure:"roster"`
	Seed   struct {
		Examples bool `mapstructure:"examples"`
	} `mapstructure:"seed"`
	Dashboard struct {
		Refresh time.Duration `mapstructure:"refresh"`
	} `mapstructure:"dashboard"`

	// File is the config file that was read, empty when none was found.
	File string `mapstructure:"-"`
}

// flagKeys maps persistent CLI flags onto config keys.
var flagKeys = map[string]string{
	"db":        "db.path",
	"location":  "location",
	"log-level": "log.level",
}

// Load resolves configuration from defaults, byeauto.yaml, BYEAUTO_*
// environment variables and flags, later sources winning. flags may be nil.
// The "config" flag, when set, names the config file explicitly.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("finding home directory: %w", err)
	}
	v.SetDefault("db.path", filepath.Join(home, ".byeauto", "byeauto.db"))
	v.SetDefault("location", "Local")
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")
	v.SetDefault("roster", domain.DefaultRoster)
	v.SetDefault("seed.examples", true)
	v.SetDefault("dashboard.refresh", "5s")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// BYEAUTO_DB is shorter than the derived BYEAUTO_DB_PATH.
	_ = v.BindEnv("db.path", EnvPrefix+"_DB", EnvPrefix+"_DB_PATH")

	explicit := ""
	if flags != nil {
		if f := flags.Lookup("config"); f != nil {
			explicit = f.Value.String()
		}
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding flag --%s: %w", name, err)
				}
			}
		}
	}

	if explicit != "" {
		v.SetConfigFile(explicit)
	} else {
		v.SetConfigName("byeauto")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Join(home, ".byeauto"))
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()
	cfg.Roster = normalizeRoster(cfg.Roster)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// normalizeRoster accepts both a YAML list and a comma separated string
// (the form an environment variable takes).
func normalizeRoster(in []string) []string {
	var out []string
	for _, entry := range in {
		for _, name := range strings.Split(entry, ",") {
			if name = strings.TrimSpace(name); name != "" {
				out = append(out, name)
			}
		}
	}
	return out
}

func (c *Config) Validate() error {
	if _, err := c.TimeLocation(); err != nil {
		return err
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format: %q is not text or json", c.Log.Format)
	}
	if c.Dashboard.Refresh < time.Second {
		return fmt.Errorf("dashboard.refresh: %s is shorter than 1s", c.Dashboard.Refresh)
	}
	return nil
}

// TimeLocation resolves Location, accepting "Local", "UTC" or an IANA name.
func (c *Config) TimeLocation() (*time.Location, error) {
	if c.Location == "" || strings.EqualFold(c.Location, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Location)
	if err != nil {
		return nil, fmt.Errorf("location: %w", err)
	}
	return loc, nil
}

func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// SeedItems returns the board to load when nothing is stored yet.
func (c *Config) SeedItems() []domain.NewWorkItem {
	if !c.Seed.Examples {
		return nil
	}
	return domain.ExampleWorkItems()
}
