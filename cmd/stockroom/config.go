// Config loading for the stockroom command.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/stockroom/internal/web"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	// envPrefix prefixes every environment override, e.g. STOCKROOM_LISTEN_ADDR.
	envPrefix = "STOCKROOM"

	cfgKeyDataDir      = "data_dir"
	cfgKeyListenAddr   = "listen_addr"
	cfgKeyLogLevel     = "log_level"
	cfgKeyLogFormat    = "log_format"
	cfgKeyUsername     = "auth.username"
	cfgKeyPasswordHash = "auth.password_hash"
	cfgKeyCookieName   = "session.cookie_name"
	cfgKeySecureCookie = "session.secure_cookie"

	defaultListenAddr = ":8501"
	defaultLogLevel   = "info"
	defaultLogFormat  = "text"
	defaultUsername   = "admin"
)

// envKeys are the settings that environment variables may override.
// data_dir is resolved separately so config.yaml wins over STOCKROOM_DATA_DIR.
var envKeys = []string{
	cfgKeyListenAddr,
	cfgKeyLogLevel,
	cfgKeyLogFormat,
	cfgKeyUsername,
	cfgKeyPasswordHash,
	cfgKeyCookieName,
	cfgKeySecureCookie,
}

// settings are the resolved configuration values.
type settings struct {
	ListenAddr   string
	LogLevel     string
	LogFormat    string
	Username     string
	PasswordHash string
	CookieName   string
	SecureCookie bool
}

// fileConfig is the layout of config.yaml.
type fileConfig struct {
	DataDir    string `yaml:"data_dir,omitempty"`
	ListenAddr string `yaml:"listen_addr"`
	LogLevel   string `yaml:"log_level"`
	LogFormat  string `yaml:"log_format"`
	Auth       struct {
		Username     string `yaml:"username"`
		PasswordHash string `yaml:"password_hash"`
	} `yaml:"auth"`
	Session struct {
		CookieName   string `yaml:"cookie_name"`
		SecureCookie bool   `yaml:"secure_cookie"`
	} `yaml:"session"`
}

const configHeader = `# Stockroom configuration.
# Every key except data_dir can be overridden with a STOCKROOM_ environment
# variable, e.g. STOCKROOM_LISTEN_ADDR or STOCKROOM_AUTH_PASSWORD_HASH.
# Generate auth.password_hash with: stockroom passwd
# With no hash set, the demo login admin / 1234 is accepted.

`

// loadConfig reads config.yaml from configDir using Viper, creating the
// directory and a default file on first run.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := ensureConfigDir(configDir); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyListenAddr, defaultListenAddr)
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)
	v.SetDefault(cfgKeyLogFormat, defaultLogFormat)
	v.SetDefault(cfgKeyUsername, defaultUsername)
	v.SetDefault(cfgKeyPasswordHash, "")
	v.SetDefault(cfgKeyCookieName, web.DefaultCookieName)
	v.SetDefault(cfgKeySecureCookie, false)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

func settingsFrom(v *viper.Viper) settings {
	return settings{
		ListenAddr:   v.GetString(cfgKeyListenAddr),
		LogLevel:     v.GetString(cfgKeyLogLevel),
		LogFormat:    v.GetString(cfgKeyLogFormat),
		Username:     v.GetString(cfgKeyUsername),
		PasswordHash: v.GetString(cfgKeyPasswordHash),
		CookieName:   v.GetString(cfgKeyCookieName),
		SecureCookie: v.GetBool(cfgKeySecureCookie),
	}
}

func ensureConfigDir(configDir string) error {
	return os.MkdirAll(configDir, 0o755)
}

// ensureDefaultConfigFile writes config.yaml with default values unless the
// file already exists.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	var cfg fileConfig
	cfg.ListenAddr = defaultListenAddr
	cfg.LogLevel = defaultLogLevel
	cfg.LogFormat = defaultLogFormat
	cfg.Auth.Username = defaultUsername
	cfg.Session.CookieName = web.DefaultCookieName

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, append([]byte(configHeader), data...), 0o644)
}
