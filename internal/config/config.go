package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	DefaultAPIBaseURL      = "https://api.spotify.com/v1"
	DefaultAccountsBaseURL = "https://accounts.spotify.com"
	DefaultPlayerApp       = "Spotify"
	DefaultHTTPTimeout     = 30 * time.Second
)

// FieldSource indicates where a config value originates.
type FieldSource string

const (
	SourceDefault     FieldSource = "default"
	SourceConfigFile  FieldSource = "config.toml"
	SourceDotEnv      FieldSource = ".env"
	SourceDotEnvLocal FieldSource = ".env.local"
	SourceEnv         FieldSource = "env"
)

// FieldInfo describes a single configurable field and its provenance.
type FieldInfo struct {
	Key       string
	Value     string
	Source    FieldSource
	Sensitive bool
}

type Config struct {
	API    APIConfig    `toml:"api"`
	Player PlayerConfig `toml:"player"`

	// ClientID and ClientSecret come from the environment (or dotenv files)
	// only; they are never written to config.toml.
	ClientID     string `toml:"-"`
	ClientSecret string `toml:"-"`
}

type APIConfig struct {
	BaseURL        string `toml:"base_url"`
	AccountsURL    string `toml:"accounts_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type PlayerConfig struct {
	App string `toml:"app"`
}

func Default() Config {
	return Config{
		API: APIConfig{
			BaseURL:        DefaultAPIBaseURL,
			AccountsURL:    DefaultAccountsBaseURL,
			TimeoutSeconds: int(DefaultHTTPTimeout / time.Second),
		},
		Player: PlayerConfig{
			App: DefaultPlayerApp,
		},
	}
}

// Load builds the effective config: dotenv files seed the process env, then
// config.toml overrides defaults, then env vars override everything.
func Load() (Config, error) {
	if err := loadDotEnvPrecedence(); err != nil {
		return Config{}, err
	}

	cfg := Default()
	if err := mergeUserConfig(&cfg); err != nil {
		return Config{}, err
	}
	mergeEnv(&cfg)
	return cfg, nil
}

// ValidateCredentials is the fatal startup check for commands that talk to
// the Web API.
func (c Config) ValidateCredentials() error {
	if strings.TrimSpace(c.ClientID) == "" {
		return errors.New("SPOTIFY_CLIENT_ID is required")
	}
	if strings.TrimSpace(c.ClientSecret) == "" {
		return errors.New("SPOTIFY_CLIENT_SECRET is required")
	}
	return nil
}

// Timeout returns the HTTP timeout as a duration, falling back to the
// default when the configured value is non-positive.
func (c Config) Timeout() time.Duration {
	if c.API.TimeoutSeconds <= 0 {
		return DefaultHTTPTimeout
	}
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// loadDotEnvPrecedence seeds the process environment from dotenv files.
// Keys already set in the environment win; .env.local wins over .env.
func loadDotEnvPrecedence() error {
	for _, name := range []string{".env.local", ".env"} {
		values, err := godotenv.Read(name)
		if err != nil {
			continue
		}
		for k, v := range values {
			if _, exists := os.LookupEnv(k); !exists {
				if setErr := os.Setenv(k, v); setErr != nil {
					return setErr
				}
			}
		}
	}
	return nil
}

func mergeUserConfig(cfg *Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	_, err = toml.DecodeFile(path, cfg)
	return err
}

func mergeEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("SPOTIFY_CLIENT_ID")); v != "" {
		cfg.ClientID = v
	}
	if v := strings.TrimSpace(os.Getenv("SPOTIFY_CLIENT_SECRET")); v != "" {
		cfg.ClientSecret = v
	}
	if v := strings.TrimSpace(os.Getenv("SPOTIFY_API_BASE_URL")); v != "" {
		cfg.API.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("SPOTIFY_ACCOUNTS_URL")); v != "" {
		cfg.API.AccountsURL = v
	}
	if v := strings.TrimSpace(os.Getenv("SPOTIMCP_TIMEOUT_SECONDS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.API.TimeoutSeconds = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("SPOTIMCP_PLAYER_APP")); v != "" {
		cfg.Player.App = v
	}
}

// Path returns the path to the user's config.toml file.
func Path() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "spotimcp", "config.toml"), nil
}

// Save writes the config to the user config directory.
func Save(cfg Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o600)
}

// SaveSecret writes a key=value pair into .env.local.
// If the key already exists it is updated; otherwise it is appended.
// The environment variable is also set in the current process.
func SaveSecret(key, value string) error {
	const path = ".env.local"
	env := map[string]string{}
	existing, err := godotenv.Read(path)
	if err == nil {
		env = existing
	}
	env[key] = value
	if err := godotenv.Write(env, path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return os.Setenv(key, value)
}

// LoadSecret reads a key from .env.local, falling back to the process env.
func LoadSecret(key string) (string, error) {
	env, err := godotenv.Read(".env.local")
	if err == nil {
		if v, ok := env[key]; ok {
			return v, nil
		}
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("reading .env.local: %w", err)
	}
	return os.Getenv(key), nil
}

// DeleteSecret removes a key from .env.local and unsets it in the process env.
func DeleteSecret(key string) error {
	const path = ".env.local"
	env := map[string]string{}
	existing, err := godotenv.Read(path)
	if err == nil {
		env = existing
	}
	delete(env, key)
	if err := godotenv.Write(env, path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Unsetenv(key); err != nil {
		return fmt.Errorf("unsetting %s: %w", key, err)
	}
	return nil
}

// fieldDef describes a configurable field for EffectiveFields.
type fieldDef struct {
	Key       string
	EnvVar    string
	Sensitive bool
}

var fieldDefs = []fieldDef{
	{Key: "api.base_url", EnvVar: "SPOTIFY_API_BASE_URL"},
	{Key: "api.accounts_url", EnvVar: "SPOTIFY_ACCOUNTS_URL"},
	{Key: "api.timeout_seconds", EnvVar: "SPOTIMCP_TIMEOUT_SECONDS"},
	{Key: "player.app", EnvVar: "SPOTIMCP_PLAYER_APP"},
	{Key: "SPOTIFY_CLIENT_ID", EnvVar: "SPOTIFY_CLIENT_ID", Sensitive: true},
	{Key: "SPOTIFY_CLIENT_SECRET", EnvVar: "SPOTIFY_CLIENT_SECRET", Sensitive: true},
}

// EnvVarForField returns the environment variable mapped to a field key.
func EnvVarForField(key string) string {
	for _, fd := range fieldDefs {
		if fd.Key == key {
			return fd.EnvVar
		}
	}
	return ""
}

func fieldValueFromConfig(cfg Config, key string) string {
	switch key {
	case "api.base_url":
		return cfg.API.BaseURL
	case "api.accounts_url":
		return cfg.API.AccountsURL
	case "api.timeout_seconds":
		return strconv.Itoa(cfg.API.TimeoutSeconds)
	case "player.app":
		return cfg.Player.App
	default:
		return ""
	}
}

func readDotFile(name string) map[string]string {
	vals, err := godotenv.Read(name)
	if err != nil {
		return nil
	}
	return vals
}

// EffectiveFields returns info about each configurable field including
// which source provided its current value, checked in precedence order:
// env var → .env.local → .env → config.toml → default.
func EffectiveFields(cfg Config) []FieldInfo {
	dotEnvLocal := readDotFile(".env.local")
	dotEnv := readDotFile(".env")

	def := Default()
	fileCfg := def
	if err := mergeUserConfig(&fileCfg); err != nil {
		// Provenance is an observability helper; a malformed config.toml
		// should not break the settings view.
		fileCfg = def
	}
	result := make([]FieldInfo, 0, len(fieldDefs))

	for _, fd := range fieldDefs {
		fi := FieldInfo{
			Key:       fd.Key,
			Sensitive: fd.Sensitive,
		}

		// Secrets only come from env / dotenv.
		if fd.Sensitive {
			fi.Value = os.Getenv(fd.EnvVar)
			fi.Source = resolveSecretSource(fd.EnvVar, dotEnvLocal, dotEnv)
			result = append(result, fi)
			continue
		}

		if v, ok := os.LookupEnv(fd.EnvVar); ok && strings.TrimSpace(v) != "" {
			fi.Value = strings.TrimSpace(v)
			if _, inLocal := dotEnvLocal[fd.EnvVar]; inLocal {
				fi.Source = SourceDotEnvLocal
			} else if _, inDot := dotEnv[fd.EnvVar]; inDot {
				fi.Source = SourceDotEnv
			} else {
				fi.Source = SourceEnv
			}
			result = append(result, fi)
			continue
		}

		fileVal := fieldValueFromConfig(fileCfg, fd.Key)
		defVal := fieldValueFromConfig(def, fd.Key)
		if fileVal != defVal {
			fi.Value = fileVal
			fi.Source = SourceConfigFile
			result = append(result, fi)
			continue
		}

		fi.Value = fieldValueFromConfig(cfg, fd.Key)
		fi.Source = SourceDefault
		result = append(result, fi)
	}
	return result
}

func resolveSecretSource(envVar string, dotEnvLocal, dotEnv map[string]string) FieldSource {
	if _, ok := dotEnvLocal[envVar]; ok {
		return SourceDotEnvLocal
	}
	if _, ok := dotEnv[envVar]; ok {
		return SourceDotEnv
	}
	if _, ok := os.LookupEnv(envVar); ok {
		return SourceEnv
	}
	return SourceDefault
}

// ValidateField checks whether value is valid for the given field key.
func ValidateField(key, value string) error {
	switch key {
	case "api.base_url", "api.accounts_url":
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s must not be empty", key)
		}
		if !strings.HasPrefix(value, "http") {
			return fmt.Errorf("%s must start with \"http\"", key)
		}
	case "api.timeout_seconds":
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || n <= 0 {
			return fmt.Errorf("%s must be a positive integer, got %q", key, value)
		}
	case "player.app":
		if strings.TrimSpace(value) == "" {
			return errors.New("player.app must not be empty")
		}
	case "SPOTIFY_CLIENT_ID", "SPOTIFY_CLIENT_SECRET":
		if value != "" && strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s must not be whitespace-only", key)
		}
	}
	return nil
}

// ApplyField sets a field on the config struct by key name.
func ApplyField(cfg *Config, key, value string) {
	switch key {
	case "api.base_url":
		cfg.API.BaseURL = value
	case "api.accounts_url":
		cfg.API.AccountsURL = value
	case "api.timeout_seconds":
		if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			cfg.API.TimeoutSeconds = n
		}
	case "player.app":
		cfg.Player.App = value
	}
}

// DefaultValueForField returns the default value for a field key.
func DefaultValueForField(key string) string {
	return fieldValueFromConfig(Default(), key)
}
