package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mohanadbarakat001/ATS/internal/editor"
	"github.com/mohanadbarakat001/ATS/internal/history"
	"github.com/mohanadbarakat001/ATS/internal/observability"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect saved optimization results",
}

var (
	historyConfigPath string
	historyPath       string
	historyOutDir     string
	historyAsJSON     bool
)

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved results, newest first",
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one saved result",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyExportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Export a saved result's files",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryExport,
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete one saved result",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryDelete,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every saved result",
	RunE:  runHistoryClear,
}

func init() {
	historyCmd.PersistentFlags().StringVar(&historyConfigPath, "config", "", "Path to config.json file")
	historyCmd.PersistentFlags().StringVar(&historyPath, "history-path", "", "Path to the history JSON file")
	historyListCmd.Flags().BoolVar(&historyAsJSON, "json", false, "Print the listing as JSON")
	historyExportCmd.Flags().StringVarP(&historyOutDir, "out", "o", ".", "Directory to write exported files into")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}

func historyStore(cmd *cobra.Command) (*history.Store, error) {
	cfg, err := loadFileConfig(historyConfigPath)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("history-path") || cmd.InheritedFlags().Changed("history-path") {
		cfg.HistoryPath = historyPath
	}

	cfg, err = resolveConfig(cfg)
	if err != nil {
		return nil, err
	}

	store, _, err := buildStore(cfg, false)
	if err != nil {
		return nil, err
	}
	return store, nil
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	store, err := historyStore(cmd)
	if err != nil {
		return err
	}

	results := store.All()
	if len(results) == 0 {
		fmt.Println("No saved results yet. Run 'ats fix' to create one.")
		return nil
	}

	if historyAsJSON {
		return json.NewEncoder(os.Stdout).Encode(results)
	}

	fmt.Printf("%-38s %-18s %-30s %s\n", "ID", "CREATED", "TARGET ROLE", "SCORE")
	for _, r := range results {
		role := observability.Truncate(r.TargetRole, 28)
		fmt.Printf("%-38s %-18s %-30s %d%%\n", r.ID, observability.HumanTime(r.CreatedAt), role, r.Analysis.MatchScore)
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	store, err := historyStore(cmd)
	if err != nil {
		return err
	}

	result, err := store.Get(args[0])
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintHistoryEntry(&result)
	printer.PrintAnalysisReport(&result.Analysis, result.TargetRole)
	printer.PrintResumeOverview(&result.OptimizedResume)
	return nil
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	store, err := historyStore(cmd)
	if err != nil {
		return err
	}

	result, err := store.Get(args[0])
	if err != nil {
		return err
	}

	content := editor.Content{
		Resume:          result.OptimizedResume,
		CoverLetter:     result.CoverLetter,
		LinkedInSummary: result.LinkedInSummary,
	}
	if err := exportContent(content, historyOutDir); err != nil {
		return err
	}
	fmt.Printf("✓ Files written to %s\n", historyOutDir)
	return nil
}

func runHistoryDelete(cmd *cobra.Command, args []string) error {
	store, err := historyStore(cmd)
	if err != nil {
		return err
	}
	if err := store.Remove(args[0]); err != nil {
		return err
	}
	fmt.Printf("✓ Deleted %s\n", args[0])
	return nil
}

func runHistoryClear(cmd *cobra.Command, _ []string) error {
	store, err := historyStore(cmd)
	if err != nil {
		return err
	}
	if err := store.Clear(); err != nil {
		return err
	}
	fmt.Println("✓ History cleared.")
	return nil
}
