// Package config holds the tour bot configuration on top of the shared core config.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	coreconfig "github.com/m3rciful/tourbot/core/config"
	coredatabase "github.com/m3rciful/tourbot/core/database"
)

// Storage drivers.
const (
	DriverFile     = "file"
	DriverPostgres = "postgres"
)

// DirsConfig lists the on-disk locations used by the bot.
type DirsConfig struct {
	Data          string `yaml:"data" envconfig:"DATA_DIR"`
	Orders        string `yaml:"orders" envconfig:"ORDERS_DIR"`
	Registrations string `yaml:"registrations" envconfig:"REGISTRATIONS_DIR"`
	Materials     string `yaml:"materials" envconfig:"MATERIALS_DIR"`
	Logs          string `yaml:"logs" envconfig:"USER_LOGS_DIR"`
}

// StorageConfig selects where orders and registrations are kept.
type StorageConfig struct {
	Driver   string              `yaml:"driver" envconfig:"STORAGE_DRIVER"`
	Database coredatabase.Config `yaml:"database"`
}

// SupportConfig configures the operator relay.
type SupportConfig struct {
	OperatorsChatID int64         `yaml:"operators_chat_id" envconfig:"OPERATORS_CHAT_ID"`
	TicketTTL       time.Duration `yaml:"ticket_ttl" envconfig:"SUPPORT_TICKET_TTL"`
}

// WebAppConfig configures the souvenir Web App and its HTTP server.
type WebAppConfig struct {
	// URL is opened by the "make order" button. It must be https for Telegram.
	URL            string   `yaml:"url" envconfig:"WEBAPP_URL"`
	Listen         string   `yaml:"listen" envconfig:"WEBAPP_LISTEN"`
	Port           int      `yaml:"port" envconfig:"WEBAPP_PORT"`
	StaticDir      string   `yaml:"static_dir" envconfig:"WEBAPP_STATIC_DIR"`
	AllowedOrigins []string `yaml:"allowed_origins" envconfig:"WEBAPP_ALLOWED_ORIGINS"`
}

// Enabled reports whether the HTTP server should be started.
func (w WebAppConfig) Enabled() bool { return w.Port > 0 }

// Addr is the listen address of the HTTP server.
func (w WebAppConfig) Addr() string { return fmt.Sprintf("%s:%d", w.Listen, w.Port) }

// Config is the full application configuration.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	BotUsername       string        `yaml:"bot_username" envconfig:"BOT_USERNAME"`
	WelcomeText       string        `yaml:"welcome_text"`
	ImageCheckTimeout time.Duration `yaml:"image_check_timeout" envconfig:"IMAGE_CHECK_TIMEOUT"`

	Dirs    DirsConfig    `yaml:"dirs"`
	Storage StorageConfig `yaml:"storage"`
	Support SupportConfig `yaml:"support"`
	WebApp  WebAppConfig  `yaml:"webapp"`
}

// CoreConfig exposes the embedded core configuration.
func (c *Config) CoreConfig() *coreconfig.Config {
	if c == nil {
		return nil
	}
	return &c.Config
}

// Database returns the PostgreSQL settings, or nil when file storage is selected.
func (c *Config) Database() *coredatabase.Config {
	if c == nil || c.Storage.Driver != DriverPostgres {
		return nil
	}
	db := c.Storage.Database
	return &db
}

// Load reads the YAML file at path, overlays the environment and applies defaults.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := coreconfig.LoadInto(path, &cfg); err != nil {
		return nil, err
	}
	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates the configuration and fills defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	if err := coreconfig.Normalize(&cfg.Config); err != nil {
		return err
	}

	setDefault(&cfg.Dirs.Data, "data")
	setDefault(&cfg.Dirs.Orders, "orders")
	setDefault(&cfg.Dirs.Registrations, "registrations")
	setDefault(&cfg.Dirs.Materials, "materials")
	setDefault(&cfg.Dirs.Logs, "logs")
	setDefault(&cfg.WelcomeText, "Добро пожаловать!")
	if cfg.ImageCheckTimeout <= 0 {
		cfg.ImageCheckTimeout = 5 * time.Second
	}
	if cfg.Support.TicketTTL <= 0 {
		cfg.Support.TicketTTL = 72 * time.Hour
	}
	cfg.BotUsername = strings.TrimPrefix(strings.TrimSpace(cfg.BotUsername), "@")

	driver := strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))
	if driver == "" {
		driver = DriverFile
	}
	switch driver {
	case DriverFile:
	case DriverPostgres:
		db := cfg.Storage.Database
		if db.Host == "" || db.Name == "" || db.User == "" {
			return fmt.Errorf("storage.database host, name and user are required when storage.driver is 'postgres'")
		}
		setDefault(&cfg.Storage.Database.Port, "5432")
		setDefault(&cfg.Storage.Database.SSLMode, "disable")
	default:
		return fmt.Errorf("invalid storage.driver %q; allowed: file, postgres", cfg.Storage.Driver)
	}
	cfg.Storage.Driver = driver

	if u := strings.TrimSpace(cfg.WebApp.URL); u != "" {
		parsed, err := url.Parse(u)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("webapp.url %q is not an absolute URL", cfg.WebApp.URL)
		}
		cfg.WebApp.URL = u
	}
	if cfg.WebApp.Port < 0 {
		return fmt.Errorf("webapp.port must be >= 0")
	}
	if cfg.WebApp.Enabled() {
		setDefault(&cfg.WebApp.StaticDir, "webapp")
	}
	return nil
}

func setDefault(dst *string, def string) {
	if strings.TrimSpace(*dst) == "" {
		*dst = def
	}
}
