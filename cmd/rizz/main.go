// Package main provides the rizz terminal agent. It answers CPU and GPU
// questions by letting a chat model search the web and extract specs.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/Cyclone1070/rizz/internal/config"
	"github.com/Cyclone1070/rizz/internal/orchestrator"
	"github.com/Cyclone1070/rizz/internal/provider"
	"github.com/Cyclone1070/rizz/internal/provider/gemini"
	"github.com/Cyclone1070/rizz/internal/provider/ollama"
	"github.com/Cyclone1070/rizz/internal/provider/openailm"
	"github.com/Cyclone1070/rizz/internal/tool"
	"github.com/Cyclone1070/rizz/internal/tool/specparser"
	"github.com/Cyclone1070/rizz/internal/tool/websearch"
	"github.com/Cyclone1070/rizz/internal/ui"
	uimodels "github.com/Cyclone1070/rizz/internal/ui/models"
	"github.com/Cyclone1070/rizz/internal/ui/services"
	"github.com/Cyclone1070/rizz/internal/workflow"
	"github.com/Cyclone1070/rizz/internal/workflow/loop"
	"github.com/charmbracelet/bubbles/spinner"
)

// Dependencies holds the components required to run the application.
type Dependencies struct {
	Config  *config.Config
	Logger  *slog.Logger
	LogPath string
	UI      *ui.UI

	TransportFactory func(context.Context) (provider.Transport, error)
}

func createRealUI(cfg *config.Config) *ui.UI {
	spinnerFactory := func() spinner.Model {
		return spinner.New(spinner.WithSpinner(spinner.Dot))
	}
	return ui.NewUI(cfg.UI, ui.NewUIChannels(), services.NewGlamourRenderer(), spinnerFactory)
}

// createTransport builds the transport selected by provider.name.
func createTransport(ctx context.Context, cfg *config.Config, logger *slog.Logger) (provider.Transport, error) {
	p := cfg.Provider
	timeout := time.Duration(p.TimeoutSeconds) * time.Second

	switch p.Name {
	case config.ProviderSambaNova:
		client := openailm.Dial(p.SambaNovaAPIKey, p.BaseURL, timeout)
		return openailm.New(client, openailm.Options{
			Model:          p.ModelName(),
			Temperature:    p.Temperature,
			MaxTokens:      p.MaxTokens,
			SingleToolCall: p.SingleToolCall,
		}, logger.With("provider", p.Name)), nil

	case config.ProviderGemini:
		client, err := gemini.Dial(ctx, p.GeminiAPIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		return gemini.New(client, gemini.Options{
			Model:       p.ModelName(),
			Temperature: float32(p.Temperature),
			MaxTokens:   p.MaxTokens,
		}, logger.With("provider", p.Name)), nil

	case config.ProviderOllama:
		client, err := ollama.Dial(p.OllamaHost, timeout)
		if err != nil {
			return nil, fmt.Errorf("failed to create Ollama client: %w", err)
		}
		return ollama.New(client, ollama.Options{
			Model:       p.ModelName(),
			Temperature: p.Temperature,
			MaxTokens:   p.MaxTokens,
		}, logger.With("provider", p.Name)), nil

	default:
		return nil, fmt.Errorf("unknown provider %q", p.Name)
	}
}

func createTools(cfg *config.Config, logger *slog.Logger) (*tool.Registry, error) {
	searcher := websearch.NewSearcher(
		websearch.WithEndpoint(cfg.Tools.SearchEndpoint),
		websearch.WithMaxResults(cfg.Tools.SearchMaxResults),
		websearch.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.Tools.SearchTimeoutSeconds) * time.Second}),
		websearch.WithLogger(logger.With("tool", websearch.Name)),
	)
	parser := specparser.New(cfg.Tools.SpecParserMaxLines)

	return tool.NewRegistry(searcher.Spec(), parser.Spec())
}

func systemPrompt(cfg *config.Config) string {
	if cfg.Agent.SystemPrompt != "" {
		return cfg.Agent.SystemPrompt
	}
	return defaultSystemPrompt
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	userInterface := createRealUI(cfg)

	logger, logPath, closeLog, err := setupLogging(cfg, userInterface)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	deps := Dependencies{
		Config:  cfg,
		Logger:  logger,
		LogPath: logPath,
		UI:      userInterface,
		TransportFactory: func(ctx context.Context) (provider.Transport, error) {
			return createTransport(ctx, cfg, logger)
		},
	}

	// The UI owns the lifecycle (Ctrl+C, exit), so the root context is only
	// cancelled once it has stopped.
	summary, err := runInteractive(context.Background(), deps)
	if err != nil {
		logger.Error("Application error", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		closeLog()
		os.Exit(1)
	}
	fmt.Println(summary)
}

func runInteractive(ctx context.Context, deps Dependencies) (string, error) {
	userInterface := deps.UI
	logger := deps.Logger

	sessionCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	var summary string
	var summaryMu sync.Mutex

	wg.Add(1)
	go func() {
		defer wg.Done()

		select {
		case <-userInterface.Ready():
		case <-sessionCtx.Done():
			return
		}

		userInterface.WriteStatus(uimodels.PhaseThinking, "Initializing...")

		transport, err := deps.TransportFactory(sessionCtx)
		if err != nil {
			logger.Error("Transport initialization failed", "error", err)
			userInterface.WriteStatus(uimodels.PhaseError, "Initialization failed")
			userInterface.WriteError(err.Error())
			userInterface.WriteNotice("The application cannot start. Press Ctrl+C to exit.")
			return
		}
		metered := provider.NewMetered(transport)

		registry, err := createTools(deps.Config, logger)
		if err != nil {
			logger.Error("Tool registration failed", "error", err)
			userInterface.WriteError(err.Error())
			return
		}
		logger.Info("Initialized tools", "count", registry.Len(), "tools", registry.Names())

		events := make(chan workflow.Event)
		agentLoop := loop.NewLoop(metered, registry,
			loop.WithSystemPrompt(systemPrompt(deps.Config)),
			loop.WithMaxIterations(deps.Config.Agent.MaxIterations),
			loop.WithEvents(events),
			loop.WithLogger(logger.With("component", "loop")),
		)

		session := orchestrator.New(agentLoop, metered, userInterface, events,
			orchestrator.WithPreviewChars(deps.Config.UI.PreviewChars),
			orchestrator.WithLogPath(deps.LogPath),
			orchestrator.WithLogger(logger.With("component", "session")),
		)
		userInterface.SetModel(deps.Config.Provider.ModelName())

		err = session.Run(sessionCtx)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Session ended with error", "error", err)
		}

		summaryMu.Lock()
		summary = session.Summary()
		summaryMu.Unlock()

		// exit typed by the user; a no-op when the UI is already gone
		userInterface.Quit()
	}()

	if err := userInterface.Start(); err != nil {
		cancel()
		wg.Wait()
		return "", fmt.Errorf("failed to run UI: %w", err)
	}

	cancel()
	wg.Wait()

	summaryMu.Lock()
	defer summaryMu.Unlock()
	if summary == "" {
		return fmt.Sprintf("Log file: %s", deps.LogPath), nil
	}
	return summary, nil
}
