package config

// Provider names.
const (
	ProviderSambaNova = "sambanova"
	ProviderGemini    = "gemini"
	ProviderOllama    = "ollama"
)

// Config holds all application configuration values.
// Defaults are set in DefaultConfig() and can be overridden via dotfile,
// a .env file in the working directory and the process environment.
// NOTE: Values in config files override defaults, including explicit zero values.
// Missing keys are left at their default values.
type Config struct {
	Provider ProviderConfig `json:"provider"`
	Agent    AgentConfig    `json:"agent"`
	Tools    ToolsConfig    `json:"tools"`
	Log      LogConfig      `json:"log"`
	UI       UIConfig       `json:"ui"`
}

type ProviderConfig struct {
	Name            string  `json:"name"`              // Default: sambanova (env RIZZ_PROVIDER)
	SambaNovaAPIKey string  `json:"sambanova_api_key"` // env SAMBANOVA_API_KEY
	GeminiAPIKey    string  `json:"gemini_api_key"`    // env GEMINI_API_KEY
	BaseURL         string  `json:"base_url"`          // Default: https://api.sambanova.ai/v1 (env SAMBANOVA_BASE_URL)
	OllamaHost      string  `json:"ollama_host"`       // Default: http://localhost:11434 (env OLLAMA_HOST)
	Model           string  `json:"model"`             // Default: per provider (env MODEL)
	Temperature     float64 `json:"temperature"`       // Default: 0.7 (env TEMPERATURE)
	MaxTokens       int     `json:"max_tokens"`        // Default: 1000 (env MAX_TOKENS)
	TimeoutSeconds  int     `json:"timeout_seconds"`   // Default: 60
	SingleToolCall  bool    `json:"single_tool_call"`  // Default: true
}

type AgentConfig struct {
	MaxIterations int    `json:"max_iterations"` // Default: 10 (env MAX_ITERATIONS)
	SystemPrompt  string `json:"system_prompt"`  // Default: empty, the built-in prompt is used
}

type ToolsConfig struct {
	SearchEndpoint       string `json:"search_endpoint"`        // Default: https://html.duckduckgo.com/html/
	SearchMaxResults     int    `json:"search_max_results"`     // Default: 5
	SearchTimeoutSeconds int    `json:"search_timeout_seconds"` // Default: 15
	SpecParserMaxLines   int    `json:"spec_parser_max_lines"`  // Default: 8
}

type LogConfig struct {
	Dir          string `json:"dir"`           // Default: logs
	FileLevel    string `json:"file_level"`    // Default: debug
	ConsoleLevel string `json:"console_level"` // Default: warn (env LOG_LEVEL)
}

type UIConfig struct {
	ColorPrimary   string `json:"color_primary"`    // Default: 63
	ColorSuccess   string `json:"color_success"`    // Default: 42
	ColorError     string `json:"color_error"`      // Default: 196
	ColorMuted     string `json:"color_muted"`      // Default: 241
	TickIntervalMs int    `json:"tick_interval_ms"` // Default: 100
	PreviewChars   int    `json:"preview_chars"`    // Default: 200
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderConfig{
			Name:           ProviderSambaNova,
			BaseURL:        "https://api.sambanova.ai/v1",
			OllamaHost:     "http://localhost:11434",
			Temperature:    0.7,
			MaxTokens:      1000,
			TimeoutSeconds: 60,
			SingleToolCall: true,
		},
		Agent: AgentConfig{
			MaxIterations: 10,
		},
		Tools: ToolsConfig{
			SearchEndpoint:       "https://html.duckduckgo.com/html/",
			SearchMaxResults:     5,
			SearchTimeoutSeconds: 15,
			SpecParserMaxLines:   8,
		},
		Log: LogConfig{
			Dir:          "logs",
			FileLevel:    "debug",
			ConsoleLevel: "warn",
		},
		UI: UIConfig{
			ColorPrimary:   "63",
			ColorSuccess:   "42",
			ColorError:     "196",
			ColorMuted:     "241",
			TickIntervalMs: 100,
			PreviewChars:   200,
		},
	}
}

// ModelName returns the configured model or the default of the provider.
func (p ProviderConfig) ModelName() string {
	if p.Model != "" {
		return p.Model
	}
	switch p.Name {
	case ProviderGemini:
		return "gemini-2.5-flash"
	case ProviderOllama:
		return "llama3.1"
	default:
		return "Meta-Llama-3.1-8B-Instruct"
	}
}

// APIKey returns the key of the selected provider.
func (p ProviderConfig) APIKey() string {
	switch p.Name {
	case ProviderGemini:
		return p.GeminiAPIKey
	case ProviderSambaNova:
		return p.SambaNovaAPIKey
	default:
		return ""
	}
}
