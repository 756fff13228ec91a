package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mohanadbarakat001/ATS/internal/config"
	"github.com/mohanadbarakat001/ATS/internal/document"
	"github.com/mohanadbarakat001/ATS/internal/editor"
	"github.com/mohanadbarakat001/ATS/internal/generation"
	"github.com/mohanadbarakat001/ATS/internal/observability"
	"github.com/mohanadbarakat001/ATS/internal/types"
	"github.com/mohanadbarakat001/ATS/internal/wizard"
)

const (
	promptGenerate  = "Generate now"
	promptBack      = "Go back"
	promptStartOver = "Start over"
	promptQuit      = "Quit"

	menuSaveFiles        = "Save files"
	menuRegenBullet      = "Regenerate a bullet"
	menuRegenAllBullets  = "Regenerate all bullets"
	menuRegenSummary     = "Regenerate the summary"
	menuRegenCoverLetter = "Regenerate the cover letter"
	menuShowAnalysis     = "Show match analysis"
)

var fixCmd = &cobra.Command{
	Use:   "fix",
	Short: "Optimize a resume for a job description",
	Long: `Walks through the optimization workflow: resume upload, job details, tuning configuration, generation, and interactive editing of the result.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runFix,
}

var (
	fixConfigPath    string
	fixResumePath    string
	fixJobPath       string
	fixAPIKey        string
	fixHistoryPath   string
	fixOutDir        string
	fixSeniority     string
	fixTone          string
	fixNiche         string
	fixSubNiche      string
	fixCoarseModel   string
	fixFragmentModel string
	fixVerbose       bool
	fixNoPrompt      bool
)

func init() {
	fixCmd.Flags().StringVar(&fixConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	fixCmd.Flags().StringVarP(&fixResumePath, "resume", "r", "", "Path to the resume text file")
	fixCmd.Flags().StringVarP(&fixJobPath, "job", "j", "", "Path to the job description text file")
	fixCmd.Flags().StringVar(&fixAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	fixCmd.Flags().StringVar(&fixHistoryPath, "history-path", "", "Path to the history JSON file")
	fixCmd.Flags().StringVarP(&fixOutDir, "out", "o", ".", "Directory to write exported files into")
	fixCmd.Flags().StringVar(&fixSeniority, "seniority", "", "Seniority level: Intern, Junior, Mid or Senior")
	fixCmd.Flags().StringVar(&fixTone, "tone", "", "Writing tone: Professional, Confident or Direct")
	fixCmd.Flags().StringVar(&fixNiche, "niche", "", "Primary focus niche")
	fixCmd.Flags().StringVar(&fixSubNiche, "sub-niche", "", "Sub-niche within the primary niche")
	fixCmd.Flags().StringVar(&fixCoarseModel, "coarse-model", "", "Model for full optimization calls")
	fixCmd.Flags().StringVar(&fixFragmentModel, "fragment-model", "", "Model for single-fragment rewrites")
	fixCmd.Flags().BoolVarP(&fixVerbose, "verbose", "v", false, "Print detailed debug information")
	fixCmd.Flags().BoolVar(&fixNoPrompt, "no-prompt", false, "Run without interactive prompts; requires --resume and --job")

	rootCmd.AddCommand(fixCmd)
}

func runFix(cmd *cobra.Command, _ []string) error {
	cfg, err := loadFileConfig(fixConfigPath)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = fixAPIKey
	}
	if cmd.Flags().Changed("history-path") {
		cfg.HistoryPath = fixHistoryPath
	}
	if cmd.Flags().Changed("coarse-model") {
		cfg.CoarseModel = fixCoarseModel
	}
	if cmd.Flags().Changed("fragment-model") {
		cfg.FragmentModel = fixFragmentModel
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = fixVerbose
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

	store, _, err := buildStore(cfg, false)
	if err != nil {
		return err
	}

	machine := wizard.NewMachine(gen, store)
	return runWorkflow(ctx, machine, gen, cfg)
}

// runWorkflow drives the state machine until the user quits
func runWorkflow(ctx context.Context, machine *wizard.Machine, gen generation.Generator, cfg config.Config) error {
	for {
		switch machine.Step() {
		case wizard.StepUpload:
			if err := collectResumeText(machine); err != nil {
				return err
			}
			if err := advanceOrExplain(ctx, machine); err != nil {
				return err
			}

		case wizard.StepJobDetails:
			if err := collectJobDescription(machine); err != nil {
				return err
			}
			if err := advanceOrExplain(ctx, machine); err != nil {
				return err
			}

		case wizard.StepConfig:
			done, err := collectConfigAndGenerate(ctx, machine)
			if err != nil {
				return err
			}
			if done {
				return nil
			}

		case wizard.StepResults:
			quit, err := runResultsMenu(ctx, machine, gen, cfg)
			if err != nil {
				return err
			}
			if quit {
				return nil
			}

		default:
			return fmt.Errorf("workflow reached an unexpected step: %s", machine.Step())
		}
	}
}

// collectResumeText reads the resume file, prompting for the path unless it
// was supplied with a flag.
func collectResumeText(machine *wizard.Machine) error {
	path := fixResumePath
	if path == "" {
		if fixNoPrompt {
			return fmt.Errorf("--resume is required with --no-prompt")
		}
		var err error
		path, err = promptForPath("Path to your resume text file")
		if err != nil {
			return err
		}
	}

	text, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read resume file: %w", err)
	}
	return machine.SetResumeText(string(text))
}

// collectJobDescription reads the job description file
func collectJobDescription(machine *wizard.Machine) error {
	path := fixJobPath
	if path == "" {
		if fixNoPrompt {
			return fmt.Errorf("--job is required with --no-prompt")
		}
		var err error
		path, err = promptForPath("Path to the job description text file")
		if err != nil {
			return err
		}
	}

	text, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read job description file: %w", err)
	}
	return machine.SetJobDescription(string(text))
}

// advanceOrExplain advances the machine, printing the gate reason instead of
// failing when an input is too short.
func advanceOrExplain(ctx context.Context, machine *wizard.Machine) error {
	if ok, reason := machine.CanAdvance(); !ok {
		if fixNoPrompt {
			return fmt.Errorf("%s", reason)
		}
		fmt.Printf("✗ %s\n", reason)
		// Clear the flag-provided path so the next pass prompts again.
		switch machine.Step() {
		case wizard.StepUpload:
			fixResumePath = ""
		case wizard.StepJobDetails:
			fixJobPath = ""
		}
		return nil
	}
	return machine.Advance(ctx)
}

// collectConfigAndGenerate gathers the tuning configuration and runs the
// generation. Returns done=true when the user chose to quit.
func collectConfigAndGenerate(ctx context.Context, machine *wizard.Machine) (bool, error) {
	userCfg := machine.Config()

	if fixSeniority != "" {
		userCfg.Seniority = fixSeniority
	}
	if fixTone != "" {
		userCfg.Tone = fixTone
	}
	if fixNiche != "" {
		userCfg.PrimaryNiche = fixNiche
	}
	if fixSubNiche != "" {
		userCfg.SubNiche = fixSubNiche
	}

	if !fixNoPrompt {
		var err error
		userCfg, err = promptForConfig(userCfg)
		if err != nil {
			return false, err
		}
	}

	if err := machine.SetConfig(userCfg); err != nil {
		return false, err
	}

	if !fixNoPrompt {
		action := promptui.Select{
			Label: "Ready to optimize?",
			Items: []string{promptGenerate, promptBack, promptStartOver, promptQuit},
		}
		_, selected, err := action.Run()
		if err != nil {
			return false, err
		}
		switch selected {
		case promptBack:
			return false, machine.Back()
		case promptStartOver:
			machine.Reset()
			fixResumePath = ""
			fixJobPath = ""
			return false, nil
		case promptQuit:
			return true, nil
		}
	}

	fmt.Println("Optimizing your resume. This usually takes under a minute...")
	if err := machine.Advance(ctx); err != nil {
		fmt.Printf("✗ Generation failed: %v\n", err)
		fmt.Println("Your inputs are untouched. Adjust the configuration and try again.")
		if fixNoPrompt {
			return false, err
		}
		return false, nil
	}
	fmt.Println("✓ Optimization complete.")
	return false, nil
}

// promptForConfig runs the interactive tuning selects
func promptForConfig(current types.UserConfig) (types.UserConfig, error) {
	cfg := current

	seniority := promptui.Select{
		Label:     "Seniority level",
		Items:     types.SeniorityLevels(),
		CursorPos: indexOf(types.SeniorityLevels(), cfg.Seniority),
	}
	_, level, err := seniority.Run()
	if err != nil {
		return cfg, err
	}
	cfg.Seniority = level

	tone := promptui.Select{
		Label:     "Writing tone",
		Items:     types.Tones(),
		CursorPos: indexOf(types.Tones(), cfg.Tone),
	}
	_, selectedTone, err := tone.Run()
	if err != nil {
		return cfg, err
	}
	cfg.Tone = selectedTone

	niche := promptui.Select{
		Label:     "Primary focus niche",
		Items:     types.Niches(),
		CursorPos: indexOf(types.Niches(), cfg.PrimaryNiche),
	}
	_, primary, err := niche.Run()
	if err != nil {
		return cfg, err
	}
	cfg.PrimaryNiche = primary
	cfg.SubNiche = ""

	subs := types.SubNiches(primary)
	if len(subs) > 0 {
		const noSubNiche = "No specific sub-niche"
		sub := promptui.Select{
			Label: "Sub-niche",
			Items: append([]string{noSubNiche}, subs...),
		}
		_, selected, err := sub.Run()
		if err != nil {
			return cfg, err
		}
		if selected != noSubNiche {
			cfg.SubNiche = selected
		}
	}

	return cfg, nil
}

// runResultsMenu drives the interactive editing loop over a completed result.
// Returns quit=true when the workflow should end.
func runResultsMenu(ctx context.Context, machine *wizard.Machine, gen generation.Generator, cfg config.Config) (bool, error) {
	result := machine.Result()
	if result == nil {
		return false, fmt.Errorf("no result is available")
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintAnalysisReport(&result.Analysis, result.TargetRole)
	if cfg.Verbose {
		printer.PrintResumeOverview(&result.OptimizedResume)
	}

	session := editor.NewSession(gen, *result)
	defer session.Discard()

	if fixNoPrompt {
		return true, exportContent(session.Snapshot(), fixOutDir)
	}

	for {
		menu := promptui.Select{
			Label: "What next?",
			Items: []string{
				menuSaveFiles,
				menuRegenBullet,
				menuRegenAllBullets,
				menuRegenSummary,
				menuRegenCoverLetter,
				menuShowAnalysis,
				promptStartOver,
				promptQuit,
			},
		}
		_, choice, err := menu.Run()
		if err != nil {
			return false, err
		}

		switch choice {
		case menuSaveFiles:
			if err := exportContent(session.Snapshot(), fixOutDir); err != nil {
				fmt.Printf("✗ %v\n", err)
				continue
			}
			fmt.Printf("✓ Files written to %s\n", fixOutDir)

		case menuRegenBullet:
			if err := regenerateOneBullet(ctx, session); err != nil {
				fmt.Printf("✗ %v\n", err)
			}

		case menuRegenAllBullets:
			fmt.Println("Rewriting every bullet...")
			if err := session.RegenerateAllBullets(ctx); err != nil {
				fmt.Printf("✗ %v\n", err)
				continue
			}
			fmt.Println("✓ All bullets rewritten.")

		case menuRegenSummary:
			instruction, err := promptForInstruction("How should the summary change?")
			if err != nil {
				return false, err
			}
			if err := session.RegenerateSummary(ctx, instruction); err != nil {
				fmt.Printf("✗ %v\n", err)
				continue
			}
			fmt.Println("✓ Summary rewritten.")

		case menuRegenCoverLetter:
			instruction, err := promptForInstruction("How should the cover letter change?")
			if err != nil {
				return false, err
			}
			if err := session.RegenerateCoverLetter(ctx, instruction); err != nil {
				fmt.Printf("✗ %v\n", err)
				continue
			}
			fmt.Println("✓ Cover letter rewritten.")

		case menuShowAnalysis:
			printer.PrintAnalysisReport(&result.Analysis, result.TargetRole)

		case promptStartOver:
			machine.Reset()
			fixResumePath = ""
			fixJobPath = ""
			return false, nil

		case promptQuit:
			return true, nil
		}
	}
}

// regenerateOneBullet walks the entry and bullet selects, then rewrites the
// chosen bullet in place.
func regenerateOneBullet(ctx context.Context, session *editor.Session) error {
	doc := session.Snapshot().Resume
	if len(doc.Experience) == 0 {
		return fmt.Errorf("the resume has no experience entries")
	}

	entryItems := make([]string, len(doc.Experience))
	for i, exp := range doc.Experience {
		entryItems[i] = fmt.Sprintf("%s | %s", exp.Role, exp.Company)
	}
	entrySelect := promptui.Select{
		Label: "Which role?",
		Items: entryItems,
	}
	entryIdx, _, err := entrySelect.Run()
	if err != nil {
		return err
	}

	entry := doc.Experience[entryIdx]
	if len(entry.Bullets) == 0 {
		return fmt.Errorf("that role has no bullets")
	}

	bulletItems := make([]string, len(entry.Bullets))
	for i, b := range entry.Bullets {
		bulletItems[i] = observability.Truncate(b, 70)
	}
	bulletSelect := promptui.Select{
		Label: "Which bullet?",
		Items: bulletItems,
	}
	bulletIdx, _, err := bulletSelect.Run()
	if err != nil {
		return err
	}

	fmt.Println("Rewriting the bullet...")
	if err := session.RegenerateBullet(ctx, document.ByID(entry.ID), bulletIdx); err != nil {
		return err
	}

	updated, err := document.Bullet(session.Snapshot().Resume, document.ByID(entry.ID), bulletIdx)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Now reads: %s\n", updated)
	return nil
}

// exportContent writes the resume, cover letter and LinkedIn summary files
func exportContent(content editor.Content, outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	files := map[string]string{
		"resume.txt":           document.ToPortableText(content.Resume),
		"cover_letter.txt":     content.CoverLetter,
		"linkedin_summary.txt": content.LinkedInSummary,
	}

	var g errgroup.Group
	for name, body := range files {
		g.Go(func() error {
			if strings.TrimSpace(body) == "" {
				return nil
			}
			path := filepath.Join(outDir, name)
			if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", name, err)
			}
			return nil
		})
	}
	return g.Wait()
}

func promptForPath(label string) (string, error) {
	prompt := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return fmt.Errorf("a path is required")
			}
			return nil
		},
	}
	path, err := prompt.Run()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(path), nil
}

func promptForInstruction(label string) (string, error) {
	prompt := promptui.Prompt{
		Label:   label,
		Default: "Make it more results-oriented.",
	}
	return prompt.Run()
}

func indexOf(items []string, value string) int {
	for i, item := range items {
		if item == value {
			return i
		}
	}
	return 0
}
