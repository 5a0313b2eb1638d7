package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/tengjizhang/scrub/internal/sanitize"
)

const (
	defaultMaxInputBytes   = 1 << 20
	defaultFetchConcurrent = 4
	defaultHTTPTimeoutSec  = 20
)

const (
	defaultUserAgent  = "scrub/0.1"
	defaultListenAddr = "127.0.0.1:8080"
	defaultLogLevel   = "info"
	defaultLogFormat  = "console"
	configFolderName  = "scrub"
	configFileName    = "config.toml"
	configPathEnvName = "XDG_CONFIG_HOME"
)

type Config struct {
	DBPath           string
	MaxInputBytes    int64
	FetchConcurrency int
	HTTPTimeout      time.Duration
	UserAgent        string
	ListenAddr       string
	LogLevel         string
	LogFormat        string
	// Policy is nil when no [policy] table is configured; sanitize treats
	// nil as the built-in default.
	Policy *sanitize.Policy
}

// Default returns the configuration used when no file or env overrides exist.
func Default(home string) Config {
	return Config{
		DBPath:           filepath.Join(home, ".local", "share", "scrub", "scrub.db"),
		MaxInputBytes:    defaultMaxInputBytes,
		FetchConcurrency: defaultFetchConcurrent,
		HTTPTimeout:      defaultHTTPTimeoutSec * time.Second,
		UserAgent:        defaultUserAgent,
		ListenAddr:       defaultListenAddr,
		LogLevel:         defaultLogLevel,
		LogFormat:        defaultLogFormat,
	}
}

func LoadConfig() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, err
	}
	cfg := Default(home)

	configPath, hasConfig, err := findConfigPath(home)
	if err != nil {
		return Config{}, err
	}
	if hasConfig {
		fileCfg, err := loadFileConfig(configPath)
		if err != nil {
			return Config{}, err
		}
		applyFileConfig(&cfg, fileCfg)
	}

	applyEnvOverrides(&cfg)

	if cfg.FetchConcurrency < 1 {
		cfg.FetchConcurrency = defaultFetchConcurrent
	}
	if cfg.MaxInputBytes <= 0 {
		cfg.MaxInputBytes = defaultMaxInputBytes
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = defaultHTTPTimeoutSec * time.Second
	}
	return cfg, nil
}

type fileConfig struct {
	DBPath             *string     `toml:"db_path"`
	MaxInputBytes      *int64      `toml:"max_input_bytes"`
	FetchConcurrency   *int        `toml:"fetch_concurrency"`
	HTTPTimeoutSeconds *int        `toml:"http_timeout_seconds"`
	UserAgent          *string     `toml:"user_agent"`
	ListenAddr         *string     `toml:"listen_addr"`
	LogLevel           *string     `toml:"log_level"`
	LogFormat          *string     `toml:"log_format"`
	Policy             *filePolicy `toml:"policy"`
}

// filePolicy mirrors sanitize.PolicyConfig. A key left out of the table
// keeps the built-in value for that key.
type filePolicy struct {
	AllowedTags    map[string][]string `toml:"allowed_tags"`
	StripContent   []string            `toml:"strip_content"`
	AllowedSchemes []string            `toml:"allowed_schemes"`
}

func findConfigPath(home string) (string, bool, error) {
	candidates := make([]string, 0, 2)
	if xdgConfigHome := strings.TrimSpace(os.Getenv(configPathEnvName)); xdgConfigHome != "" {
		candidates = append(candidates, filepath.Join(xdgConfigHome, configFolderName, configFileName))
	}
	candidates = append(candidates, filepath.Join(home, ".config", configFolderName, configFileName))

	for _, candidate := range candidates {
		info, err := os.Stat(candidate)
		if err == nil {
			if info.IsDir() {
				return "", false, fmt.Errorf("config path %q is a directory; expected a file", candidate)
			}
			return candidate, true, nil
		}
		if os.IsNotExist(err) {
			continue
		}
		return "", false, fmt.Errorf("failed to read config path %q: %w", candidate, err)
	}
	return "", false, nil
}

func loadFileConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return fileConfig{}, fmt.Errorf("invalid config file %q: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		unknown := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			unknown = append(unknown, key.String())
		}
		sort.Strings(unknown)
		return fileConfig{}, fmt.Errorf("invalid config file %q: unknown key(s): %s", path, strings.Join(unknown, ", "))
	}
	if err := validateFileConfig(path, cfg); err != nil {
		return fileConfig{}, err
	}
	return cfg, nil
}

func validateFileConfig(path string, cfg fileConfig) error {
	if cfg.DBPath != nil && strings.TrimSpace(*cfg.DBPath) == "" {
		return fmt.Errorf("invalid config file %q: db_path must be non-empty when provided", path)
	}
	if cfg.MaxInputBytes != nil && *cfg.MaxInputBytes <= 0 {
		return fmt.Errorf("invalid config file %q: max_input_bytes must be > 0", path)
	}
	if cfg.FetchConcurrency != nil && *cfg.FetchConcurrency < 1 {
		return fmt.Errorf("invalid config file %q: fetch_concurrency must be >= 1", path)
	}
	if cfg.HTTPTimeoutSeconds != nil && *cfg.HTTPTimeoutSeconds <= 0 {
		return fmt.Errorf("invalid config file %q: http_timeout_seconds must be > 0", path)
	}
	if cfg.ListenAddr != nil && strings.TrimSpace(*cfg.ListenAddr) == "" {
		return fmt.Errorf("invalid config file %q: listen_addr must be non-empty when provided", path)
	}
	if cfg.LogLevel != nil && !validLogLevel(*cfg.LogLevel) {
		return fmt.Errorf("invalid config file %q: log_level must be one of debug, info, warn, error", path)
	}
	if cfg.LogFormat != nil && !validLogFormat(*cfg.LogFormat) {
		return fmt.Errorf("invalid config file %q: log_format must be console or json", path)
	}
	if cfg.Policy != nil {
		for tag := range cfg.Policy.AllowedTags {
			if strings.TrimSpace(tag) == "" {
				return fmt.Errorf("invalid config file %q: policy.allowed_tags has an empty tag name", path)
			}
		}
	}
	return nil
}

func applyFileConfig(cfg *Config, fileCfg fileConfig) {
	if fileCfg.DBPath != nil {
		cfg.DBPath = *fileCfg.DBPath
	}
	if fileCfg.MaxInputBytes != nil {
		cfg.MaxInputBytes = *fileCfg.MaxInputBytes
	}
	if fileCfg.FetchConcurrency != nil {
		cfg.FetchConcurrency = *fileCfg.FetchConcurrency
	}
	if fileCfg.HTTPTimeoutSeconds != nil {
		cfg.HTTPTimeout = time.Duration(*fileCfg.HTTPTimeoutSeconds) * time.Second
	}
	if fileCfg.UserAgent != nil {
		cfg.UserAgent = *fileCfg.UserAgent
	}
	if fileCfg.ListenAddr != nil {
		cfg.ListenAddr = *fileCfg.ListenAddr
	}
	if fileCfg.LogLevel != nil {
		cfg.LogLevel = strings.ToLower(*fileCfg.LogLevel)
	}
	if fileCfg.LogFormat != nil {
		cfg.LogFormat = strings.ToLower(*fileCfg.LogFormat)
	}
	if fileCfg.Policy != nil {
		cfg.Policy = sanitize.NewPolicy(fileCfg.Policy.merge(sanitize.DefaultPolicyConfig()))
	}
}

func (fp *filePolicy) merge(base sanitize.PolicyConfig) sanitize.PolicyConfig {
	if fp.AllowedTags != nil {
		base.AllowedTags = fp.AllowedTags
	}
	if fp.StripContent != nil {
		base.StripContent = fp.StripContent
	}
	if fp.AllowedSchemes != nil {
		base.AllowedSchemes = fp.AllowedSchemes
	}
	return base
}

func applyEnvOverrides(cfg *Config) {
	if v, ok := os.LookupEnv("SCRUB_DB_PATH"); ok && v != "" {
		cfg.DBPath = v
	}
	if v, ok := os.LookupEnv("SCRUB_MAX_INPUT_BYTES"); ok && v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.MaxInputBytes = n
		}
	}
	if v, ok := os.LookupEnv("SCRUB_FETCH_CONCURRENCY"); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			cfg.FetchConcurrency = n
		}
	}
	if v, ok := os.LookupEnv("SCRUB_HTTP_TIMEOUT_SECONDS"); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.HTTPTimeout = time.Duration(n) * time.Second
		}
	}
	if v, ok := os.LookupEnv("SCRUB_USER_AGENT"); ok && v != "" {
		cfg.UserAgent = v
	}
	if v, ok := os.LookupEnv("SCRUB_LISTEN_ADDR"); ok && v != "" {
		cfg.ListenAddr = v
	}
	if v, ok := os.LookupEnv("SCRUB_LOG_LEVEL"); ok && validLogLevel(v) {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v, ok := os.LookupEnv("SCRUB_LOG_FORMAT"); ok && validLogFormat(v) {
		cfg.LogFormat = strings.ToLower(v)
	}
}

func validLogLevel(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}

func validLogFormat(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "console", "json":
		return true
	}
	return false
}
