// Package main provides the CLI entrypoint for deckodds.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/deckodds/internal/config"
	"github.com/verte-zerg/deckodds/internal/format"
	"github.com/verte-zerg/deckodds/internal/input"
	"github.com/verte-zerg/deckodds/internal/model"
	"github.com/verte-zerg/deckodds/internal/odds"
	"github.com/verte-zerg/deckodds/internal/oddsui"
	"github.com/verte-zerg/deckodds/internal/report"
	"github.com/verte-zerg/deckodds/internal/simulate"
	"github.com/verte-zerg/deckodds/internal/store"
)

const (
	defaultInput        = "stdin"
	defaultFormat       = "commander"
	defaultTurns        = 15
	defaultCategoryFile = "categories"
	defaultWorkers      = 1
	defaultHistoryLast  = 20
)

var (
	runInput        string
	runFormat       string
	runTurns        int
	runCategoryFile string
	runOutput       string
	runPlot         bool
	runTUI          bool
	runSave         bool
	runWorkers      int
	runSimulate     int

	historyLast int
)

var warnColor = color.New(color.FgYellow)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "deckodds",
		Short:         "Stats to help deckbuilding",
		Long:          "Computes, for each category of cards in a deck, the probability of having drawn at least one of them by each turn.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runOddsCmd,
	}

	rootCmd.Flags().StringVarP(&runInput, "input", "i", defaultInput, "read categories from stdin or from --category-file (stdin, file)")
	rootCmd.Flags().StringVarP(&runFormat, "format", "f", defaultFormat, "deck format ("+strings.Join(format.Names(), ", ")+")")
	rootCmd.Flags().IntVarP(&runTurns, "turns", "t", defaultTurns, "number of turns to compute")
	rootCmd.Flags().StringVarP(&runCategoryFile, "category-file", "c", defaultCategoryFile, "category file (line format, .toml or .yaml)")
	rootCmd.Flags().StringVar(&runOutput, "output", "", "if set, also write a csv file at that location")
	rootCmd.Flags().BoolVar(&runPlot, "plot", false, "plot probability curves below the table")
	rootCmd.Flags().BoolVar(&runTUI, "tui", false, "browse results in an interactive viewer")
	rootCmd.Flags().BoolVar(&runSave, "save", false, "save the run to history")
	rootCmd.Flags().IntVar(&runWorkers, "workers", defaultWorkers, "categories computed concurrently")
	rootCmd.Flags().IntVar(&runSimulate, "simulate", 0, "also print hit rates from N shuffled-deck trials")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newFormatsCmd())
	rootCmd.AddCommand(newHistoryCmd())

	return rootCmd
}

func runOddsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "input", &runInput, fileCfg.Run.Input)
	applyStringConfig(cmd, "format", &runFormat, fileCfg.Run.Format)
	applyIntConfig(cmd, "turns", &runTurns, fileCfg.Run.Turns)
	applyStringConfig(cmd, "category-file", &runCategoryFile, fileCfg.Run.CategoryFile)
	applyStringConfig(cmd, "output", &runOutput, fileCfg.Run.Output)
	applyBoolConfig(cmd, "plot", &runPlot, fileCfg.Run.Plot)
	applyBoolConfig(cmd, "save", &runSave, fileCfg.Run.Save)
	applyIntConfig(cmd, "workers", &runWorkers, fileCfg.Run.Workers)

	cfg := model.RunConfig{
		Input:        runInput,
		Format:       runFormat,
		Turns:        runTurns,
		CategoryFile: runCategoryFile,
		Output:       runOutput,
		Plot:         runPlot,
		TUI:          runTUI,
		Save:         runSave,
		Workers:      runWorkers,
		Simulate:     runSimulate,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	method, err := input.ParseMethod(cfg.Input)
	if err != nil {
		return err
	}
	selector, err := buildSelector(cfg, fileCfg)
	if err != nil {
		return err
	}

	categories, err := input.Load(method, cfg.CategoryFile, cmd.InOrStdin(), cmd.OutOrStdout())
	if err != nil {
		return fmt.Errorf("failed to load categories: %w", err)
	}
	warnInfeasible(categories, selector.Deck(cfg.Turns))

	ctx := cmd.Context()
	stats, err := selector.Stats(ctx, categories, cfg.Turns)
	if err != nil {
		return fmt.Errorf("failed to compute stats: %w", err)
	}

	if cfg.TUI {
		viewer := oddsui.NewModel(selector.Format.String(), selector.Deck(cfg.Turns), stats)
		program := tea.NewProgram(viewer, tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run viewer: %w", err)
		}
	} else if err := renderStats(cmd, stats, cfg.Plot); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	if cfg.Simulate > 0 {
		simulated := simulate.New().Stats(categories, selector.Deck(cfg.Turns), cfg.Simulate)
		out := cmd.OutOrStdout()
		if _, err := fmt.Fprintf(out, "\nSimulated (%d trials)\n", cfg.Simulate); err != nil {
			return fmt.Errorf("failed to render report: %w", err)
		}
		if err := report.Render(out, simulated, report.Options{Bold: report.IsTerminal(out)}); err != nil {
			return fmt.Errorf("failed to render report: %w", err)
		}
	}

	if cfg.Output != "" {
		if err := report.WriteCSV(cfg.Output, stats); err != nil {
			return fmt.Errorf("failed to write csv: %w", err)
		}
	}

	if cfg.Save {
		saveRun(ctx, model.Run{
			CreatedAt:  time.Now(),
			Format:     selector.Format.String(),
			Deck:       selector.Deck(cfg.Turns),
			Categories: categories,
			Stats:      stats,
		})
	}
	return nil
}

func renderStats(cmd *cobra.Command, stats []model.CategoryStats, plot bool) error {
	out := cmd.OutOrStdout()
	if err := report.Render(out, stats, report.Options{Bold: report.IsTerminal(out)}); err != nil {
		return err
	}
	if !plot {
		return nil
	}
	if _, err := fmt.Fprintln(out); err != nil {
		return err
	}
	return report.PlotCurves(out, stats, 0, report.DefaultPlotHeight, false)
}

func buildSelector(cfg model.RunConfig, fileCfg config.FileConfig) (format.Selector, error) {
	f, err := format.Parse(cfg.Format)
	if err != nil {
		return format.Selector{}, err
	}
	selector := format.NewSelector(f)
	selector.Workers = cfg.Workers
	if override, ok := fileCfg.FormatOverride(f.String()); ok {
		if override.DeckSize != nil {
			selector.DeckSize = *override.DeckSize
		}
		if override.OpeningHand != nil {
			selector.OpeningHand = *override.OpeningHand
		}
	}
	if selector.DeckSize <= 0 {
		return format.Selector{}, fmt.Errorf("formats.%s.deck-size must be > 0", f)
	}
	if selector.OpeningHand < 0 {
		return format.Selector{}, fmt.Errorf("formats.%s.opening-hand must be >= 0", f)
	}
	return selector, nil
}

func saveRun(ctx context.Context, run model.Run) {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		logWarnf("failed to open history db: %v\n", err)
		return
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	id, err := st.SaveRun(ctx, run)
	if err != nil {
		logWarnf("failed to save run: %v\n", err)
		return
	}
	logErrf("Saved run %d\n", id)
}

func warnInfeasible(categories []model.Category, deck model.DeckConfig) {
	if deck.Turns+deck.OpeningHand > deck.DeckSize {
		logWarnf("%d turns after a %d-card opening hand exceed the %d-card deck; no probabilities computed\n",
			deck.Turns, deck.OpeningHand, deck.DeckSize)
		return
	}
	for _, c := range categories {
		if !odds.Feasible(c.Size, deck.DeckSize, deck.OpeningHand, deck.Turns) {
			logWarnf("category %q has %d cards, more than the %d-card deck; skipped\n", c.Name, c.Size, deck.DeckSize)
		}
	}
}

func newFormatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List supported deck formats",
		Args:  cobra.NoArgs,
		RunE:  runFormatsCmd,
	}
}

func runFormatsCmd(cmd *cobra.Command, _ []string) error {
	for _, f := range format.All() {
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%-10s deck=%d opening-hand=%d\n", f, f.DeckSize(), f.OpeningHand()); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List saved runs",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().IntVar(&historyLast, "last", defaultHistoryLast, "limit to last N runs (0 for all)")
	cmd.AddCommand(&cobra.Command{
		Use:   "show ID",
		Short: "Show a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  runHistoryShowCmd,
	})
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	runs, err := st.ListRuns(cmd.Context(), historyLast)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		_, err := fmt.Fprintln(out, "No saved runs.")
		return err
	}
	for _, r := range runs {
		if _, err := fmt.Fprintf(out, "%d\t%s\t%s\tdeck=%d\tturns=%d\tcategories=%d\n",
			r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04"), r.Format, r.DeckSize, r.Turns, r.Categories); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func runHistoryShowCmd(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid run id %q: %w", args[0], err)
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	run, err := st.GetRun(cmd.Context(), id)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintf(out, "Run %d (%s, deck=%d, opening hand=%d, turns=%d)\n",
		run.ID, run.Format, run.Deck.DeckSize, run.Deck.OpeningHand, run.Deck.Turns); err != nil {
		return err
	}
	return report.Render(out, run.Stats, report.Options{Bold: report.IsTerminal(out)})
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# deckodds configuration
# Uncomment a value to enable it. CLI flags override config values.

[run]
# input = %q            # stdin or file
# format = %q       # commander, edh, standard, modern
# turns = %d              # Number of turns to compute
# category-file = %q
# output = ""              # CSV output path
# plot = false             # Plot probability curves below the table
# save = false             # Save every run to history
# workers = %d              # Categories computed concurrently

# Deck shape overrides per format.
# [formats.commander]
# deck-size = %d
# opening-hand = %d
#
# [formats.standard]
# deck-size = %d
# opening-hand = %d
`,
		defaultInput,
		defaultFormat,
		defaultTurns,
		defaultCategoryFile,
		defaultWorkers,
		format.Commander.DeckSize(),
		format.Commander.OpeningHand(),
		format.Standard.DeckSize(),
		format.Standard.OpeningHand(),
	)
}

func validateConfig(cfg model.RunConfig) error {
	if cfg.Turns < 0 {
		return fmt.Errorf("--turns must be >= 0")
	}
	if cfg.Workers < 1 {
		return fmt.Errorf("--workers must be >= 1")
	}
	if cfg.Simulate < 0 {
		return fmt.Errorf("--simulate must be >= 0")
	}
	if cfg.TUI && cfg.Simulate > 0 {
		return fmt.Errorf("--simulate cannot be combined with --tui")
	}
	return nil
}

func logErrf(msg string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, msg, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logWarnf(msg string, args ...any) {
	if _, err := warnColor.Fprintf(os.Stderr, msg, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
