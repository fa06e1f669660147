package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	// ConfigDir is the directory name under ~/.config
	ConfigDir = "rizz"
	// ConfigFile is the config file name
	ConfigFile = "config.json"
	// DotEnvFile is read from the working directory
	DotEnvFile = ".env"
)

// FileSystem abstracts file and environment access for testability
type FileSystem interface {
	UserHomeDir() (string, error)
	ReadFile(path string) ([]byte, error)
	LookupEnv(key string) (string, bool)
}

// ConfigFileReader implements FileSystem using the real OS for config loading
type ConfigFileReader struct{}

func (ConfigFileReader) UserHomeDir() (string, error) {
	return os.UserHomeDir()
}

func (ConfigFileReader) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (ConfigFileReader) LookupEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}

// Loader handles configuration loading with injected dependencies
type Loader struct {
	fs FileSystem
}

// NewLoader creates a production Loader using the real filesystem
func NewLoader() *Loader {
	return &Loader{fs: ConfigFileReader{}}
}

// NewLoaderWithFS creates a Loader with a custom filesystem (for testing)
func NewLoaderWithFS(fs FileSystem) *Loader {
	return &Loader{fs: fs}
}

// Load builds the configuration from, lowest precedence first: defaults,
// ~/.config/rizz/config.json, ./.env and the process environment.
// Missing files are skipped. Parse errors, permission issues and validation
// failures are returned.
//
// NOTE: JSON keys are unmarshalled directly over the default configuration,
// so explicit zero values in the config file override defaults.
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()

	if err := l.loadDotfile(cfg); err != nil {
		return nil, err
	}

	dotenv, err := l.loadDotEnv()
	if err != nil {
		return nil, err
	}

	if err := l.applyEnv(cfg, dotenv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (l *Loader) loadDotfile(cfg *Config) error {
	homeDir, err := l.fs.UserHomeDir()
	if err != nil {
		return nil // Use defaults if can't get home dir
	}

	configPath := filepath.Join(homeDir, ".config", ConfigDir, ConfigFile)

	data, err := l.fs.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("%s: %w", configPath, err)
	}
	return nil
}

func (l *Loader) loadDotEnv() (map[string]string, error) {
	data, err := l.fs.ReadFile(DotEnvFile)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, err
	}

	values, err := godotenv.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", DotEnvFile, err)
	}
	return values, nil
}

// applyEnv overrides cfg with environment values. The process environment
// wins over .env entries.
func (l *Loader) applyEnv(cfg *Config, dotenv map[string]string) error {
	lookup := func(key string) (string, bool) {
		if v, ok := l.fs.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}

	var errs []string
	setString := func(key string, dst *string) {
		if v, ok := lookup(key); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	setInt := func(key string, dst *int) {
		if v, ok := lookup(key); ok {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s must be an integer, got %q", key, v))
				return
			}
			*dst = n
		}
	}
	setFloat := func(key string, dst *float64) {
		if v, ok := lookup(key); ok {
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s must be a number, got %q", key, v))
				return
			}
			*dst = f
		}
	}

	setString("RIZZ_PROVIDER", &cfg.Provider.Name)
	setString("SAMBANOVA_API_KEY", &cfg.Provider.SambaNovaAPIKey)
	setString("SAMBANOVA_BASE_URL", &cfg.Provider.BaseURL)
	setString("GEMINI_API_KEY", &cfg.Provider.GeminiAPIKey)
	setString("OLLAMA_HOST", &cfg.Provider.OllamaHost)
	setString("MODEL", &cfg.Provider.Model)
	setFloat("TEMPERATURE", &cfg.Provider.Temperature)
	setInt("MAX_TOKENS", &cfg.Provider.MaxTokens)
	setInt("MAX_ITERATIONS", &cfg.Agent.MaxIterations)
	setString("LOG_LEVEL", &cfg.Log.ConsoleLevel)

	cfg.Provider.Name = strings.ToLower(cfg.Provider.Name)

	if len(errs) > 0 {
		return fmt.Errorf("invalid environment: %v", errs)
	}
	return nil
}

// Load is a convenience function using the default loader
func Load() (*Config, error) {
	return NewLoader().Load()
}
