package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
)

const envPrefix = "STUDENTDIR"

// Profiles that serve can run.
const (
	ProfileDirectory = "directory"
	ProfileLookup    = "lookup"
	ProfileGreeting  = "greeting"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	Export   ExportConfig   `mapstructure:"export"`
}

type ServerConfig struct {
	Profile           string        `mapstructure:"profile"`
	Address           string        `mapstructure:"address"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins    []string      `mapstructure:"allowed_origins"`

	// Header is emitted on every response.
	Header http.Header `mapstructure:"header"`

	// RosterFile, if set, is a CSV file that replaces the profile's built-in roster.
	RosterFile string `mapstructure:"roster_file"`
}

type DatabaseConfig struct {
	// Driver is "sqlite" or "postgres".
	Driver string `mapstructure:"driver"`

	// DSN is used as is when set. An empty sqlite DSN means an in-memory database; an empty
	// postgres DSN is assembled from the fields below.
	DSN      string `mapstructure:"dsn"`
	Host     string `mapstructure:"host"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	Port     string `mapstructure:"port"`
	SSLMode  string `mapstructure:"sslmode"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type ExportConfig struct {
	Path   string `mapstructure:"path"`
	SortBy string `mapstructure:"sort_by"`
	Order  string `mapstructure:"order"`
	Format string `mapstructure:"format"`
}

// PostgresDSN builds a key/value DSN from the individual connection fields.
func (c DatabaseConfig) PostgresDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return "host=" + c.Host + " user=" + c.User + " password=" + c.Password + " dbname=" + c.Name + " port=" + c.Port + " sslmode=" + c.SSLMode
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.profile", ProfileDirectory)
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout", 5*time.Second)
	v.SetDefault("server.read_header_timeout", 5*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.header", map[string][]string{})
	v.SetDefault("server.roster_file", "")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "studentdb")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("export.path", "students.json")
	v.SetDefault("export.sort_by", "age")
	v.SetDefault("export.order", "asc")
	v.SetDefault("export.format", "json")
}

// The service this grew out of read its database settings from these variables.
var legacyEnv = map[string]string{
	"database.host":     "DB_HOST",
	"database.user":     "DB_USER",
	"database.password": "DB_PASSWORD",
	"database.name":     "DB_NAME",
	"database.port":     "DB_PORT",
}

// New builds a viper instance with defaults and environment bindings. A .env file in
// the working directory is loaded first when present.
func New() (*viper.Viper, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, env := range legacyEnv {
		if err := v.BindEnv(key, envPrefix+"_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, err
		}
	}

	return v, nil
}

// Load reads configuration from defaults, the optional file at path and the environment.
func Load(path string) (*Config, error) {
	v, err := New()
	if err != nil {
		return nil, err
	}

	if err := ReadFile(v, path); err != nil {
		return nil, err
	}
	return Unmarshal(v)
}

// ReadFile merges the config file at path into v. An empty path is a no-op.
func ReadFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return nil
}

// Unmarshal decodes and validates a Config from v.
func Unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	err := v.Unmarshal(&cfg, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var err error

	switch c.Server.Profile {
	case ProfileDirectory, ProfileLookup, ProfileGreeting:
	default:
		err = multierr.Append(err, fmt.Errorf("server.profile: unknown profile %q", c.Server.Profile))
	}

	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		err = multierr.Append(err, fmt.Errorf("database.driver: unsupported driver %q", c.Database.Driver))
	}

	switch c.Log.Format {
	case "json", "console":
	default:
		err = multierr.Append(err, fmt.Errorf("log.format: unknown format %q", c.Log.Format))
	}

	// empty export settings fall back to the export defaults
	switch c.Export.SortBy {
	case "", "age", "name", "roll_no", "id":
	default:
		err = multierr.Append(err, fmt.Errorf("export.sort_by: unknown sort field %q", c.Export.SortBy))
	}

	switch strings.ToLower(c.Export.Order) {
	case "", "asc", "desc":
	default:
		err = multierr.Append(err, fmt.Errorf("export.order: must be asc or desc, got %q", c.Export.Order))
	}

	switch c.Export.Format {
	case "", "json", "yaml", "toml":
	default:
		err = multierr.Append(err, fmt.Errorf("export.format: unknown format %q", c.Export.Format))
	}

	if c.Export.Path == "" {
		err = multierr.Append(err, errors.New("export.path: required"))
	}

	return err
}
