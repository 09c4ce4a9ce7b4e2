package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/tribgo/tribgo/internal/compare"
	"github.com/tribgo/tribgo/internal/config"
	"github.com/tribgo/tribgo/internal/fiscal"
	"github.com/tribgo/tribgo/internal/logger"
	"github.com/tribgo/tribgo/internal/tui"
)

// runProgram starts the full-screen program; tests replace it.
type runProgram func(m tea.Model) error

func main() {
	if err := newRootCmd(runAltScreen).Execute(); err != nil {
		os.Exit(1)
	}
}

func runAltScreen(m tea.Model) error {
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}

func newRootCmd(run runProgram) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "tribgo-tui [input-file]",
		Short:        "Interactive regime comparison dashboard",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadAppConfig()
			if err != nil {
				return fmt.Errorf("configuration: %w", err)
			}
			if path, _ := cmd.Flags().GetString("fiscal-params"); path != "" {
				cfg.FiscalParams = path
			}

			// The alternate screen owns the terminal, so logs go to a file when requested.
			logCfg := logger.DefaultConfig()
			logCfg.Level = "error"
			logCfg.Format = "json"
			logCfg.Writer = cmd.ErrOrStderr()
			if path := os.Getenv("TRIBGO_TUI_LOG"); path != "" {
				logCfg.Level = cfg.LogLevel
				logCfg.Writer = nil
				logCfg.Output = path
			}
			if err := logger.Setup(logCfg); err != nil {
				return err
			}

			snapshot, err := config.LoadSnapshot(args[0])
			if err != nil {
				return err
			}
			provider, err := fiscal.LoadFile(cfg.FiscalParams)
			if err != nil {
				return err
			}

			year, _ := cmd.Flags().GetInt("year")
			if year == 0 {
				year = cfg.DefaultYear
			}
			if year == 0 {
				latest, ok := fiscal.LatestYear(provider)
				if !ok {
					return fmt.Errorf("fiscal table %s has no years", cfg.FiscalParams)
				}
				year = latest
			}
			if _, err := provider.Parameters(year); err != nil {
				return err
			}

			engine := compare.NewEngine(provider)
			engine.NegligibleDifference = cfg.NegligibleDifference
			engine.DefaultGrowthRate = cfg.GrowthRate
			engine.SetLogger(logger.NewEngineAdapter("compare"))

			return run(tui.NewModel(engine, snapshot, year))
		},
	}
	cmd.Flags().Int("year", 0, "Fiscal year (default: TRIBGO_DEFAULT_YEAR or the latest table)")
	cmd.Flags().String("fiscal-params", "", "Path to the fiscal parameter table (default from TRIBGO_FISCAL_PARAMS)")
	return cmd
}
