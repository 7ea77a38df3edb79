package cli

import (
	"fmt"
	"net/http"
	"os"
	"sort"

	"github.com/junyi/aria/internal/backends"
	"github.com/junyi/aria/internal/config"
	"github.com/junyi/aria/internal/history"
	"github.com/junyi/aria/internal/logger"
	"github.com/junyi/aria/internal/metrics"
	"github.com/junyi/aria/pkg/dispatch"
	"github.com/junyi/aria/pkg/handlers"
	"github.com/junyi/aria/pkg/llm"
)

// app bundles the wired assistant runtime.
type app struct {
	dispatcher *dispatch.Dispatcher
	registry   *dispatch.Registry
	store      *history.Store
	reminder   *handlers.ReminderHandler
	log        *logger.Logger
}

// buildApp assembles the full dispatch pipeline from configuration.
func buildApp(cfg *config.Config) (*app, error) {
	cfg.Logging.Level = logLevel

	lg, err := logger.New(logger.Config{
		Level:     cfg.Logging.Level,
		File:      cfg.Logging.File,
		Console:   cfg.Logging.Console,
		Pretty:    cfg.Logging.Pretty,
		Redaction: cfg.Logging.Redaction,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	zl := lg.GetZerolog()

	provider, err := selectProvider(cfg)
	if err != nil {
		return nil, err
	}

	classifier, err := llm.NewClassifier(provider, llm.ClassifierConfig{
		Model:       cfg.Classifier.Model,
		Temperature: cfg.Classifier.Temperature,
		MaxTokens:   cfg.Classifier.MaxTokens,
	}, zl)
	if err != nil {
		return nil, err
	}
	extractor := llm.NewExtractor(provider, llm.ExtractorConfig{
		Model:       cfg.Extractor.Model,
		Temperature: cfg.Extractor.Temperature,
		MaxTokens:   cfg.Extractor.MaxTokens,
	}, zl)

	store, err := history.NewStore(history.Config{
		Path:     cfg.History.Path,
		MaxTurns: cfg.History.MaxTurns,
		Logger:   zl,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}

	registry := dispatch.NewRegistry(dispatch.DefaultRegistryConfig())

	libraryPath := cfg.Handlers.Music.LibraryPath
	if libraryPath == "" {
		home, _ := os.UserHomeDir()
		libraryPath = home + "/Music"
	}

	reminder := handlers.NewReminderHandler(backends.NewConsoleNotifier(os.Stdout, zl), zl)

	toRegister := []dispatch.Handler{
		handlers.NewSystemHandler(backends.NewOSController(cfg.DataDir, zl), zl),
		handlers.NewHelpHandler(registry, zl),
		handlers.NewMusicHandler(backends.NewLocalPlayer(libraryPath, zl), zl),
		handlers.NewWeatherHandler(backends.NewOpenMeteo(zl), zl),
		handlers.NewFilesHandler(backends.NewOSFileOps(cfg.DataDir, zl), zl),
	}
	if cfg.Handlers.Reminder.Enabled {
		toRegister = append(toRegister, reminder)
	}
	for _, h := range toRegister {
		if err := registry.Register(h); err != nil {
			store.Close()
			return nil, fmt.Errorf("failed to register handler: %w", err)
		}
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.NewMetrics()
		go func() {
			if err := http.ListenAndServe(cfg.Metrics.Addr, m.Handler()); err != nil {
				zl.Error().Err(err).Msg("Metrics server stopped")
			}
		}()
	}

	resolver := dispatch.NewResolver(registry, classifier, dispatch.ResolverConfig{
		MinConfidence: cfg.Classifier.MinConfidence,
		ContextWindow: cfg.Classifier.ContextWindow,
		Timeout:       secondsToDuration(cfg.Classifier.TimeoutSeconds),
	}, zl)

	dispatcher := dispatch.NewDispatcher(registry, resolver, extractor, dispatch.Config{
		HandlerTimeout: secondsToDuration(cfg.Dispatch.HandlerTimeoutSeconds),
		ContextWindow:  cfg.Dispatch.ContextWindow,
	}, zl, m)

	return &app{
		dispatcher: dispatcher,
		registry:   registry,
		store:      store,
		reminder:   reminder,
		log:        lg,
	}, nil
}

// Close releases app resources.
func (a *app) Close() {
	a.reminder.Close()
	a.store.Close()
	a.log.Close()
}

// selectProvider picks the highest-priority configured AI profile.
func selectProvider(cfg *config.Config) (llm.Provider, error) {
	if len(cfg.AI.Profiles) == 0 {
		return nil, fmt.Errorf("no AI profiles configured, run: aria configure")
	}

	profiles := make([]config.AIProfile, len(cfg.AI.Profiles))
	copy(profiles, cfg.AI.Profiles)
	sort.SliceStable(profiles, func(i, j int) bool {
		return profiles[i].Priority < profiles[j].Priority
	})

	factory := &llm.ProviderFactory{}
	return factory.NewProvider(llm.Profile{
		Provider: profiles[0].Provider,
		APIKey:   profiles[0].APIKey,
	})
}
