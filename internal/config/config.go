package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

type Config struct {
	Host         string
	Port         int
	AllowOrigins []string
	LogLevel     string
	MaxUploadMB  int
	LogFile      string

	DefaultThreshold int // fuzzy mapping threshold when a request gives none
	MatchWorkers     int // 0 = GOMAXPROCS
	PreviewRows      int
}

// Load reads configuration from defaults, the optional config file and the
// environment, in increasing priority. Environment variables use the upper
// case key names (PORT, LOG_FILE, FUZZY_THRESHOLD, ...).
func Load(configFile string) (Config, error) {
	v := viper.New()
	v.SetDefault("host", "127.0.0.1")
	v.SetDefault("port", 8082)
	v.SetDefault("allow_origins", "*")
	v.SetDefault("log_level", "info")
	v.SetDefault("max_upload_mb", 256)
	v.SetDefault("log_file", "logs/sheetops.log")
	v.SetDefault("fuzzy_threshold", 90)
	v.SetDefault("match_workers", 0)
	v.SetDefault("preview_rows", 5)
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	cfg := Config{
		Host:             v.GetString("host"),
		Port:             v.GetInt("port"),
		AllowOrigins:     splitList(v.GetStringSlice("allow_origins")),
		LogLevel:         v.GetString("log_level"),
		MaxUploadMB:      v.GetInt("max_upload_mb"),
		LogFile:          v.GetString("log_file"),
		DefaultThreshold: v.GetInt("fuzzy_threshold"),
		MatchWorkers:     v.GetInt("match_workers"),
		PreviewRows:      v.GetInt("preview_rows"),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.MaxUploadMB < 1 {
		errs = append(errs, fmt.Errorf("max_upload_mb must be positive, got %d", c.MaxUploadMB))
	}
	if c.DefaultThreshold < 50 || c.DefaultThreshold > 100 {
		errs = append(errs, fmt.Errorf("fuzzy_threshold %d outside [50,100]", c.DefaultThreshold))
	}
	if c.MatchWorkers < 0 {
		errs = append(errs, fmt.Errorf("match_workers must not be negative, got %d", c.MatchWorkers))
	}
	if c.PreviewRows < 0 {
		errs = append(errs, fmt.Errorf("preview_rows must not be negative, got %d", c.PreviewRows))
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	return errors.Join(errs...)
}

func (c Config) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

// MaxUploadBytes is the request body limit.
func (c Config) MaxUploadBytes() int64 { return int64(c.MaxUploadMB) << 20 }

// splitList accepts both a YAML list and a comma separated string.
func splitList(in []string) []string {
	var out []string
	for _, s := range strings.Split(strings.Join(in, ","), ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
