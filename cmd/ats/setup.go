package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/mohanadbarakat001/ATS/internal/config"
	"github.com/mohanadbarakat001/ATS/internal/generation"
	"github.com/mohanadbarakat001/ATS/internal/history"
	"github.com/mohanadbarakat001/ATS/internal/llm"
	"github.com/mohanadbarakat001/ATS/internal/logger"
)

// resolveConfig loads the optional config file and fills unset fields with
// environment and built-in defaults. Flag overrides are applied by each
// command before calling this.
func resolveConfig(cfg config.Config) (config.Config, error) {
	defaults := config.Config{
		APIKey: os.Getenv("GEMINI_API_KEY"),
		Port:   8080,
	}
	if defaults.APIKey == "" {
		defaults.APIKey = os.Getenv("API_KEY")
	}

	historyPath, err := history.DefaultPath()
	if err != nil {
		return config.Config{}, err
	}
	defaults.HistoryPath = historyPath

	merged := cfg.MergeWithDefaults(defaults)
	if err := merged.Validate(); err != nil {
		return config.Config{}, err
	}
	return merged, nil
}

// loadFileConfig reads the config file when a path was given
func loadFileConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Config{}, nil
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return config.Config{}, err
	}
	return *cfg, nil
}

// buildGenerator constructs the engine client from the resolved configuration
func buildGenerator(ctx context.Context, cfg config.Config) (*generation.GeminiGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("a Gemini API key is required (set GEMINI_API_KEY, use --api-key, or add api_key to the config file)")
	}

	llmCfg := llm.DefaultConfig()
	if cfg.CoarseModel != "" {
		llmCfg = llmCfg.WithModel(llm.TierCoarse, cfg.CoarseModel)
	}
	if cfg.FragmentModel != "" {
		llmCfg = llmCfg.WithModel(llm.TierFragment, cfg.FragmentModel)
	}

	client, err := llm.NewClient(ctx, llmCfg, cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return generation.NewWithClient(client), nil
}

// buildStore opens the history store with a logger matching the command mode
func buildStore(cfg config.Config, json bool) (*history.Store, *zap.Logger, error) {
	log, err := logger.New(json, cfg.Verbose)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	store, err := history.Open(cfg.HistoryPath, log)
	if err != nil {
		return nil, nil, err
	}
	return store, log, nil
}
