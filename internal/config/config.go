package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	App struct {
		Name     string `envconfig:"APP_NAME" default:"MDRRMO Procurement System API"`
		Version  string `envconfig:"APP_VERSION" default:"1.0"`
		Env      string `envconfig:"APP_ENV" default:"production"`
		Port     int    `envconfig:"PORT" default:"8001"`
		LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	}

	DB struct {
		Driver   string `envconfig:"DB_DRIVER" default:"postgres"`
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"procurement"`
		// Path is only used by the sqlite driver.
		Path string `envconfig:"DB_PATH" default:"procurement.sqlite3"`
	}

	Server struct {
		Timeout         time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"10s"`
	}

	CORS struct {
		Origins []string `envconfig:"CORS_ORIGINS" default:"*"`
	}

	List struct {
		DefaultLimit int `envconfig:"LIST_DEFAULT_LIMIT" default:"100"`
		MaxLimit     int `envconfig:"LIST_MAX_LIMIT" default:"1000"`
	}

	Metrics struct {
		Enabled bool `envconfig:"METRICS_ENABLED" default:"true"`
	}

	// Letterhead is printed on the PR, PO, OBR and DV forms.
	Letterhead struct {
		Agency           string `envconfig:"DOC_AGENCY" default:"LGU - Pioduran, Albay"`
		Province         string `envconfig:"DOC_PROVINCE" default:"Albay"`
		Municipality     string `envconfig:"DOC_MUNICIPALITY" default:"Pioduran"`
		Office           string `envconfig:"DOC_OFFICE" default:"MDRRMO"`
		DefaultAddress   string `envconfig:"DOC_DEFAULT_ADDRESS" default:"Pioduran, Albay"`
		DeliveryPlace    string `envconfig:"DOC_DELIVERY_PLACE" default:"MDRRMO, Pio Duran, Albay"`
		AccountCode      string `envconfig:"DOC_ACCOUNT_CODE" default:"5-02-05-010"`
		RequestedBy      string `envconfig:"DOC_REQUESTED_BY" default:""`
		RequestedByTitle string `envconfig:"DOC_REQUESTED_BY_TITLE" default:"MDRRMO"`
		ApprovedBy       string `envconfig:"DOC_APPROVED_BY" default:""`
		ApprovedByTitle  string `envconfig:"DOC_APPROVED_BY_TITLE" default:"Municipal Mayor"`
	}
}

// DSN returns the data source name for the configured driver.
func (c *Config) DSN() string {
	if c.DB.Driver == DriverSQLite {
		return c.DB.Path
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.DB.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}

	if c.List.DefaultLimit <= 0 || c.List.MaxLimit <= 0 {
		return fmt.Errorf("list limits must be positive")
	}

	if c.List.DefaultLimit > c.List.MaxLimit {
		return fmt.Errorf("LIST_DEFAULT_LIMIT (%d) exceeds LIST_MAX_LIMIT (%d)", c.List.DefaultLimit, c.List.MaxLimit)
	}

	return nil
}
