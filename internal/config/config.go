package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/launch-dashboard/internal/model"
)

// Config holds the full application configuration.
type Config struct {
	Dataset   DatasetConfig   `yaml:"dataset" mapstructure:"dataset"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Dashboard DashboardConfig `yaml:"dashboard" mapstructure:"dashboard"`
	Chart     ChartConfig     `yaml:"chart" mapstructure:"chart"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// DatasetConfig locates the launch records file.
type DatasetConfig struct {
	Path   string `yaml:"path" mapstructure:"path"`
	Format string `yaml:"format" mapstructure:"format"` // csv, xlsx or sqlite; detected from the extension when empty
	Sheet  string `yaml:"sheet" mapstructure:"sheet"`
}

// ServerConfig configures the dashboard and metrics listeners.
type ServerConfig struct {
	Port              int      `yaml:"port" mapstructure:"port"`
	MetricsPort       int      `yaml:"metrics_port" mapstructure:"metrics_port"`
	RenderRate        float64  `yaml:"render_rate" mapstructure:"render_rate"`
	RenderBurst       int      `yaml:"render_burst" mapstructure:"render_burst"`
	SessionTTLMinutes int      `yaml:"session_ttl_minutes" mapstructure:"session_ttl_minutes"`
	AllowedOrigins    []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// DashboardConfig configures the controls.
type DashboardConfig struct {
	RangeMin  float64      `yaml:"range_min" mapstructure:"range_min"`
	RangeMax  float64      `yaml:"range_max" mapstructure:"range_max"`
	RangeStep float64      `yaml:"range_step" mapstructure:"range_step"`
	Sites     []model.Site `yaml:"sites" mapstructure:"sites"`
}

// ChartConfig sets the PNG canvas size.
type ChartConfig struct {
	Width  int `yaml:"width" mapstructure:"width"`
	Height int `yaml:"height" mapstructure:"height"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LAUNCHDASH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("dataset.path", "spacex_launch_dash.csv")
	v.SetDefault("dataset.format", "")
	v.SetDefault("dataset.sheet", "")
	v.SetDefault("server.port", 8050)
	v.SetDefault("server.metrics_port", 9090)
	v.SetDefault("server.render_rate", 5.0)
	v.SetDefault("server.render_burst", 10)
	v.SetDefault("server.session_ttl_minutes", 30)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("dashboard.range_min", 0)
	v.SetDefault("dashboard.range_max", 10000)
	v.SetDefault("dashboard.range_step", 1000)
	v.SetDefault("chart.width", 900)
	v.SetDefault("chart.height", 500)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	if cfg.Dashboard.RangeMin > cfg.Dashboard.RangeMax {
		return nil, eris.Errorf("config: dashboard.range_min %v exceeds range_max %v",
			cfg.Dashboard.RangeMin, cfg.Dashboard.RangeMax)
	}

	return &cfg, nil
}

// Validate checks the settings a command needs before it starts.
func (c *Config) Validate(command string) error {
	var missing []string

	if c.Dataset.Path == "" {
		missing = append(missing, "dataset.path is required")
	}
	switch c.Dataset.Format {
	case "", "csv", "xlsx", "sqlite":
	default:
		missing = append(missing, fmt.Sprintf("dataset.format %q is not one of csv, xlsx, sqlite", c.Dataset.Format))
	}

	if command == "serve" {
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			missing = append(missing, fmt.Sprintf("server.port %d is out of range", c.Server.Port))
		}
		if c.Server.MetricsPort < 0 || c.Server.MetricsPort > 65535 {
			missing = append(missing, fmt.Sprintf("server.metrics_port %d is out of range", c.Server.MetricsPort))
		}
		if c.Server.MetricsPort != 0 && c.Server.MetricsPort == c.Server.Port {
			missing = append(missing, "server.metrics_port must differ from server.port")
		}
		if c.Server.SessionTTLMinutes <= 0 {
			missing = append(missing, "server.session_ttl_minutes must be positive")
		}
	}

	if len(missing) > 0 {
		return eris.Errorf("config: %s", strings.Join(missing, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
