package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tribgo/tribgo/internal/compare"
	"github.com/tribgo/tribgo/internal/config"
	"github.com/tribgo/tribgo/internal/fiscal"
	"github.com/tribgo/tribgo/internal/logger"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// app holds what the subcommands share once flags are parsed.
type app struct {
	cfg      *config.AppConfig
	provider *fiscal.TableProvider
	engine   *compare.Engine
	log      zerolog.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "tribgo",
		Short: "Colombian income tax regime comparison",
		Long: "Compares the ordinary income tax regime with the Simple regime (Régimen Simple de Tributación)\n" +
			"for an individual taxpayer, itemizing deductions, discounts and bimonthly advances.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	root.PersistentFlags().String("fiscal-params", "", "Path to the fiscal parameter table (default from TRIBGO_FISCAL_PARAMS)")
	root.PersistentFlags().Bool("debug", false, "Enable debug logging of the calculation engine")

	root.AddCommand(
		calculateCmd(a),
		compareCmd(a),
		whatIfCmd(a),
		validateCmd(a),
		fiscalCmd(a),
		cacheCmd(a),
		versionCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.LoadAppConfig()
	if err != nil {
		return fmt.Errorf("configuration: %w", err)
	}
	if path, _ := cmd.Flags().GetString("fiscal-params"); path != "" {
		cfg.FiscalParams = path
	}

	level := cfg.LogLevel
	if debugMode, _ := cmd.Flags().GetBool("debug"); debugMode {
		level = "debug"
	}
	logCfg := logger.DefaultConfig()
	logCfg.Level = level
	logCfg.Format = cfg.LogFormat
	logCfg.Writer = cmd.ErrOrStderr()
	if err := logger.Setup(logCfg); err != nil {
		return err
	}

	a.cfg = cfg
	a.log = logger.WithComponent("cli")
	return nil
}

// loadEngine reads the fiscal table and builds the comparison engine.
func (a *app) loadEngine() error {
	if a.engine != nil {
		return nil
	}
	provider, err := fiscal.LoadFile(a.cfg.FiscalParams)
	if err != nil {
		return err
	}
	a.log.Debug().Str("path", a.cfg.FiscalParams).Ints("years", provider.Years()).Msg("fiscal table loaded")

	engine := compare.NewEngine(provider)
	engine.NegligibleDifference = a.cfg.NegligibleDifference
	engine.DefaultGrowthRate = a.cfg.GrowthRate
	engine.SetLogger(logger.NewEngineAdapter("compare"))

	a.provider = provider
	a.engine = engine
	return nil
}

// resolveYear picks the --year flag, then TRIBGO_DEFAULT_YEAR, then the latest table.
func (a *app) resolveYear(flagYear int) (int, error) {
	if flagYear > 0 {
		return flagYear, nil
	}
	if a.cfg.DefaultYear > 0 {
		return a.cfg.DefaultYear, nil
	}
	year, ok := fiscal.LatestYear(a.provider)
	if !ok {
		return 0, fmt.Errorf("fiscal table %s has no years", a.cfg.FiscalParams)
	}
	return year, nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tribgo %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.Main.Version
	}
	return ""
}
