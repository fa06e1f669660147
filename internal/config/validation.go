package config

import (
	"fmt"
	"net/url"
	"strings"
)

var logLevels = map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true}

// Validate checks config values for correctness.
// Returns an error listing every invalid value.
func (c *Config) Validate() error {
	var errs []string

	// Provider validation
	switch c.Provider.Name {
	case ProviderSambaNova:
		if c.Provider.SambaNovaAPIKey == "" {
			errs = append(errs, "SAMBANOVA_API_KEY is required for provider sambanova")
		}
		if _, err := url.ParseRequestURI(c.Provider.BaseURL); err != nil {
			errs = append(errs, "provider.base_url must be an absolute URL")
		}
	case ProviderGemini:
		if c.Provider.GeminiAPIKey == "" {
			errs = append(errs, "GEMINI_API_KEY is required for provider gemini")
		}
	case ProviderOllama:
		if _, err := url.ParseRequestURI(c.Provider.OllamaHost); err != nil {
			errs = append(errs, "provider.ollama_host must be an absolute URL")
		}
	default:
		errs = append(errs, fmt.Sprintf("provider.name must be one of sambanova, gemini, ollama, got %q", c.Provider.Name))
	}
	if c.Provider.Temperature < 0 || c.Provider.Temperature > 2 {
		errs = append(errs, "provider.temperature must be between 0 and 2")
	}
	if c.Provider.MaxTokens < 1 {
		errs = append(errs, "provider.max_tokens must be >= 1")
	}
	if c.Provider.TimeoutSeconds < 1 {
		errs = append(errs, "provider.timeout_seconds must be >= 1")
	}

	// Agent validation
	if c.Agent.MaxIterations < 1 {
		errs = append(errs, "agent.max_iterations must be >= 1")
	}

	// Tools validation
	if c.Tools.SearchMaxResults < 1 || c.Tools.SearchMaxResults > 20 {
		errs = append(errs, "tools.search_max_results must be between 1 and 20")
	}
	if c.Tools.SearchTimeoutSeconds < 1 {
		errs = append(errs, "tools.search_timeout_seconds must be >= 1")
	}
	if c.Tools.SpecParserMaxLines < 1 {
		errs = append(errs, "tools.spec_parser_max_lines must be >= 1")
	}
	if _, err := url.ParseRequestURI(c.Tools.SearchEndpoint); err != nil {
		errs = append(errs, "tools.search_endpoint must be an absolute URL")
	}

	// Log validation
	if c.Log.Dir == "" {
		errs = append(errs, "log.dir must not be empty")
	}
	if !logLevels[strings.ToLower(c.Log.FileLevel)] {
		errs = append(errs, fmt.Sprintf("log.file_level %q is not a level", c.Log.FileLevel))
	}
	if !logLevels[strings.ToLower(c.Log.ConsoleLevel)] {
		errs = append(errs, fmt.Sprintf("log.console_level %q is not a level", c.Log.ConsoleLevel))
	}

	// UI validation
	if c.UI.TickIntervalMs < 1 {
		errs = append(errs, "ui.tick_interval_ms must be >= 1")
	}
	if c.UI.PreviewChars < 1 {
		errs = append(errs, "ui.preview_chars must be >= 1")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %v", errs)
	}

	return nil
}
