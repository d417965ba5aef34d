package config

import (
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Supported storage drivers
const (
	StorageMongoDB  = "mongodb"
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config contains all application settings
type Config struct {
	BindPort      int    `mapstructure:"PORT" yaml:"port"`
	BindHost      string `mapstructure:"HOST" yaml:"host"`
	StorageDriver string `mapstructure:"STORAGE_DRIVER" yaml:"storage_driver"`
	MongoDBURI    string `mapstructure:"MONGODB_URI" yaml:"mongodb_uri"`
	DatabaseURL   string `mapstructure:"DATABASE_URL" yaml:"database_url"`
	DBMigrate     bool   `mapstructure:"DB_MIGRATE" yaml:"db_migrate"`
	NATSServerURL string `mapstructure:"NATS_URL" yaml:"nats_url"`
	Environment   string `mapstructure:"APP_ENV" yaml:"app_env"`
	LogLevel      string `mapstructure:"LOG_LEVEL" yaml:"log_level"`
	LogFormat     string `mapstructure:"LOG_FORMAT" yaml:"log_format"`
	CORSOrigins   string `mapstructure:"CORS_ORIGINS" yaml:"cors_origins"`

	// Version
	BuildVersion string `yaml:"-"`
	BuildHash    string `yaml:"-"`
	BuildTime    string `yaml:"-"`
}

// Redacted returns a copy of the configuration with passwords in the
// connection strings masked.
func (c *Config) Redacted() *Config {
	r := *c
	r.MongoDBURI = RedactURL(c.MongoDBURI)
	r.DatabaseURL = RedactURL(c.DatabaseURL)
	r.NATSServerURL = RedactURL(c.NATSServerURL)
	return &r
}

const redactedPassword = "xxxxx"

// RedactURL masks the password of a connection string. Both URL forms,
// including multi-host MongoDB URIs that net/url rejects, and key=value
// PostgreSQL DSNs are handled.
func RedactURL(s string) string {
	scheme := strings.Index(s, "://")
	if scheme < 0 {
		return redactDSN(s)
	}

	rest := s[scheme+3:]
	authority := rest
	if i := strings.IndexAny(rest, "/?#"); i >= 0 {
		authority = rest[:i]
	}
	at := strings.LastIndex(authority, "@")
	if at < 0 {
		return s
	}
	user, _, found := strings.Cut(authority[:at], ":")
	if !found {
		return s
	}
	return s[:scheme+3] + user + ":" + redactedPassword + rest[at:]
}

func redactDSN(s string) string {
	if !strings.Contains(s, "password=") {
		return s
	}
	fields := strings.Fields(s)
	for i, f := range fields {
		if strings.HasPrefix(f, "password=") {
			fields[i] = "password=" + redactedPassword
		}
	}
	return strings.Join(fields, " ")
}

// IsDevelopment reports whether error details may be exposed to clients.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Environment, "development")
}

// AllowedOrigins splits CORSOrigins. An empty setting allows every origin.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	if c.BindPort < 1 || c.BindPort > 65535 {
		return errors.Errorf("invalid port %d", c.BindPort)
	}

	switch c.StorageDriver {
	case StorageMongoDB:
		if c.MongoDBURI == "" {
			return errors.New("MONGODB_URI is required for the mongodb storage driver")
		}
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres storage driver")
		}
	case StorageMemory:
	default:
		return errors.Errorf("unknown storage driver %q", c.StorageDriver)
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "invalid log level")
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		return errors.Errorf("unknown log format %q", c.LogFormat)
	}

	return nil
}
