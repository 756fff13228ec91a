package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mohanadbarakat001/ATS/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for resume optimization, fragment regeneration, and history access.`,
	RunE:  runServe,
}

var (
	serveConfigPath  string
	servePort        int
	serveAPIKey      string
	serveHistoryPath string
	serveVerbose     bool
)

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default 8080)")
	serveCmd.Flags().StringVar(&serveAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	serveCmd.Flags().StringVar(&serveHistoryPath, "history-path", "", "Path to the history JSON file")
	serveCmd.Flags().BoolVar(&serveVerbose, "verbose", false, "Print detailed debug information")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadFileConfig(serveConfigPath)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = serveAPIKey
	}
	if cmd.Flags().Changed("history-path") {
		cfg.HistoryPath = serveHistoryPath
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = serveVerbose
	}

	cfg, err = resolveConfig(cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	gen, err := buildGenerator(ctx, cfg)
	if err != nil {
		return err
	}
	defer gen.Close()

	store, log, err := buildStore(cfg, true)
	if err != nil {
		return err
	}

	srv, err := server.New(server.Config{
		Port:      cfg.Port,
		Generator: gen,
		Store:     store,
		Logger:    log,
	})
	if err != nil {
		return err
	}

	return srv.Start()
}
