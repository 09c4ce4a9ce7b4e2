package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tribgo/tribgo/internal/cache"
	"github.com/tribgo/tribgo/internal/compare"
	"github.com/tribgo/tribgo/internal/config"
	"github.com/tribgo/tribgo/internal/domain"
	"github.com/tribgo/tribgo/internal/transform"
)

func calculateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calculate [input-file]",
		Short: "Calculate the tax under one or both regimes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshot, year, err := a.prepare(cmd, args[0])
			if err != nil {
				return err
			}

			regime, _ := cmd.Flags().GetString("regime")
			format, _ := cmd.Flags().GetString("format")
			steps, _ := cmd.Flags().GetBool("steps")

			switch regime {
			case "ordinario", "simple", "ambos":
			default:
				return fmt.Errorf("unknown regime %q (use ordinario, simple or ambos)", regime)
			}

			ordinary, simple, err := a.engine.Regimes(cmd.Context(), snapshot, year)
			if err != nil {
				return reportError(cmd, err)
			}

			out := cmd.OutOrStdout()
			switch format {
			case "json":
				payload := map[string]any{}
				if regime != "simple" {
					payload["ordinary"] = ordinary
				}
				if regime != "ordinario" {
					payload["simple"] = simple
				}
				data, err := (&compare.JSONFormatter{Pretty: true}).FormatAny(payload)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, data)
			case "console":
				tf := &compare.TableFormatter{ShowSteps: steps}
				fmt.Fprintf(out, "Fiscal year %d\n\n", year)
				if regime != "simple" {
					fmt.Fprint(out, tf.FormatOrdinary(ordinary))
				}
				if regime == "ambos" {
					fmt.Fprintln(out)
				}
				if regime != "ordinario" {
					fmt.Fprint(out, tf.FormatSimple(simple))
				}
			default:
				return fmt.Errorf("unsupported format %q", format)
			}
			return nil
		},
	}
	cmd.Flags().Int("year", 0, "Fiscal year (default: TRIBGO_DEFAULT_YEAR or the latest table)")
	cmd.Flags().String("regime", "ambos", "Regime to calculate (ordinario, simple, ambos)")
	cmd.Flags().StringP("format", "f", "console", "Output format (console, json)")
	cmd.Flags().Bool("steps", false, "Show the step-by-step audit trail")
	return cmd
}

func compareCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [input-file]",
		Short: "Compare both regimes and recommend one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshot, year, err := a.prepare(cmd, args[0])
			if err != nil {
				return err
			}

			opts, err := compareOptions(cmd, a)
			if err != nil {
				return err
			}
			if v, _ := cmd.Flags().GetString("negligible"); v != "" {
				neg, err := decimal.NewFromString(v)
				if err != nil || neg.IsNegative() {
					return fmt.Errorf("invalid --negligible %q", v)
				}
				a.engine.NegligibleDifference = neg
			}
			noCache, _ := cmd.Flags().GetBool("no-cache")

			result, err := a.compare(cmd.Context(), snapshot, year, opts, !noCache)
			if err != nil {
				return reportError(cmd, err)
			}

			format, _ := cmd.Flags().GetString("format")
			return writeComparison(cmd.OutOrStdout(), result, format)
		},
	}
	cmd.Flags().Int("year", 0, "Fiscal year (default: TRIBGO_DEFAULT_YEAR or the latest table)")
	cmd.Flags().Bool("projection", false, "Project the comparison over the next three years")
	cmd.Flags().String("growth", "", "Yearly income growth for the projection (default TRIBGO_GROWTH_RATE)")
	cmd.Flags().String("negligible", "", "Net tax difference treated as a tie (default TRIBGO_NEGLIGIBLE_DIFFERENCE)")
	cmd.Flags().StringP("format", "f", "table", "Output format (table, csv, json, html)")
	cmd.Flags().Bool("no-cache", false, "Bypass the Redis result cache")
	return cmd
}

func whatIfCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whatif [input-file]",
		Short: "Compare the regimes after applying input transforms",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := transform.NewTransformRegistry()

			if list, _ := cmd.Flags().GetBool("list-transforms"); list {
				fmt.Fprintln(cmd.OutOrStdout(), "Available transforms:")
				for _, name := range registry.List() {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", name)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "\nset_amount fields: %s\n", strings.Join(transform.AmountFields(), ", "))
				return nil
			}
			if len(args) != 1 {
				return errors.New("an input file is required")
			}

			specs, _ := cmd.Flags().GetStringArray("apply")
			if len(specs) == 0 {
				return errors.New("at least one --apply transform is required")
			}
			transforms, err := registry.ParseTransformSpecs(specs)
			if err != nil {
				return err
			}

			base, year, err := a.prepare(cmd, args[0])
			if err != nil {
				return err
			}
			modified, err := transform.ApplyTransforms(base, transforms)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			before, err := a.engine.Compare(ctx, base, year, compare.Options{})
			if err != nil {
				return reportError(cmd, err)
			}
			after, err := a.engine.Compare(ctx, modified, year, compare.Options{})
			if err != nil {
				return reportError(cmd, err)
			}

			writeWhatIf(cmd.OutOrStdout(), transforms, before, after)
			return nil
		},
	}
	cmd.Flags().Int("year", 0, "Fiscal year (default: TRIBGO_DEFAULT_YEAR or the latest table)")
	cmd.Flags().StringArray("apply", nil, "Transform spec name:key=value,... (repeatable)")
	cmd.Flags().Bool("list-transforms", false, "List the available transforms")
	return cmd
}

func validateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [input-file]",
		Short: "Validate an input file and the fiscal table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.loadEngine(); err != nil {
				return fmt.Errorf("fiscal table: %w", err)
			}
			if _, err := config.LoadSnapshot(args[0]); err != nil {
				return reportError(cmd, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Input %s is valid; fiscal table covers %v\n", args[0], a.provider.Years())
			return nil
		},
	}
}

func fiscalCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fiscal",
		Short: "Inspect the fiscal parameter table",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the fiscal years in the table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.loadEngine(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-6s %12s\n", "Year", "UVT")
			for _, year := range a.provider.Years() {
				p, err := a.provider.Parameters(year)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-6d %12s\n", year, compare.FormatCOP(p.UVT))
			}
			return nil
		},
	})

	show := &cobra.Command{
		Use:   "show [year]",
		Short: "Print the parameters of one fiscal year",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.loadEngine(); err != nil {
				return err
			}
			year, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid year %q", args[0])
			}
			p, err := a.provider.Parameters(year)
			if err != nil {
				return err
			}

			format, _ := cmd.Flags().GetString("format")
			switch format {
			case "yaml":
				data, err := yaml.Marshal(p)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			case "json":
				data, err := (&compare.JSONFormatter{Pretty: true}).FormatAny(p)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), data)
				return nil
			default:
				return fmt.Errorf("unsupported format %q", format)
			}
		},
	}
	show.Flags().StringP("format", "f", "yaml", "Output format (yaml, json)")
	cmd.AddCommand(show)
	return cmd
}

func cacheCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the Redis result cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove every cached comparison",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.cfg.CacheEnabled() {
				return errors.New("cache is disabled; set TRIBGO_REDIS_ADDR")
			}
			client, err := cache.Connect(cmd.Context(), a.cfg.RedisAddr)
			if err != nil {
				return err
			}
			defer client.Close()

			removed, err := cache.New(client, a.cfg.CacheTTL).Invalidate(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached comparisons\n", removed)
			return nil
		},
	})
	return cmd
}

// prepare loads the engine and the snapshot and resolves the fiscal year.
func (a *app) prepare(cmd *cobra.Command, path string) (*domain.InputSnapshot, int, error) {
	if err := a.loadEngine(); err != nil {
		return nil, 0, err
	}
	snapshot, err := config.LoadSnapshot(path)
	if err != nil {
		return nil, 0, reportError(cmd, err)
	}
	flagYear, _ := cmd.Flags().GetInt("year")
	year, err := a.resolveYear(flagYear)
	if err != nil {
		return nil, 0, err
	}
	return snapshot, year, nil
}

func compareOptions(cmd *cobra.Command, a *app) (compare.Options, error) {
	opts := compare.Options{}
	opts.IncludeProjection, _ = cmd.Flags().GetBool("projection")
	if v, _ := cmd.Flags().GetString("growth"); v != "" {
		rate, err := decimal.NewFromString(v)
		if err != nil || rate.LessThanOrEqual(decimal.NewFromInt(-1)) {
			return opts, fmt.Errorf("invalid --growth %q", v)
		}
		opts.GrowthRate = &rate
	}
	return opts, nil
}

// compare runs the engine, going through the Redis cache when one is configured.
// Cache failures are logged and never change the result.
func (a *app) compare(ctx context.Context, snapshot *domain.InputSnapshot, year int, opts compare.Options, useCache bool) (*domain.ComparisonResult, error) {
	load := func(ctx context.Context) (*domain.ComparisonResult, error) {
		return a.engine.Compare(ctx, snapshot, year, opts)
	}
	if !useCache || !a.cfg.CacheEnabled() {
		return load(ctx)
	}

	client, err := cache.Connect(ctx, a.cfg.RedisAddr)
	if err != nil {
		a.log.Warn().Err(err).Msg("result cache unavailable, computing directly")
		return load(ctx)
	}
	defer client.Close()

	growth := a.engine.DefaultGrowthRate
	if opts.GrowthRate != nil {
		growth = *opts.GrowthRate
	}
	key := cache.ComparisonKey(year, snapshot.Fingerprint(),
		fmt.Sprintf("projection=%t", opts.IncludeProjection),
		"growth="+growth.String(),
		"negligible="+a.engine.NegligibleDifference.String(),
	)

	result, hit, err := cache.New(client, a.cfg.CacheTTL).FetchComparison(ctx, key, load)
	if err != nil {
		if isDomainError(err) {
			return nil, err
		}
		a.log.Warn().Err(err).Msg("result cache failed, computing directly")
		return load(ctx)
	}
	a.log.Debug().Str("key", key).Bool("hit", hit).Msg("result cache")
	return result, nil
}

func isDomainError(err error) bool {
	for _, target := range []error{
		domain.ErrInvalidInput,
		domain.ErrFiscalYearNotSupported,
		domain.ErrUnknownActivityClass,
		domain.ErrBracketNotFound,
		domain.ErrInvalidFiscalTable,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func writeComparison(out io.Writer, result *domain.ComparisonResult, format string) error {
	switch format {
	case "table", "console":
		fmt.Fprint(out, (&compare.TableFormatter{}).Format(result))
	case "csv":
		data, err := (&compare.CSVFormatter{}).Format(result)
		if err != nil {
			return err
		}
		fmt.Fprint(out, data)
	case "json":
		data, err := (&compare.JSONFormatter{Pretty: true}).Format(result)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, data)
	case "html":
		data, err := compare.HTMLFormatter{}.Format(result)
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
	return nil
}

func writeWhatIf(out io.Writer, transforms []transform.SnapshotTransform, before, after *domain.ComparisonResult) {
	fmt.Fprintln(out, "WHAT-IF ANALYSIS")
	fmt.Fprintln(out, strings.Repeat("=", 80))
	for _, t := range transforms {
		fmt.Fprintf(out, "  * %s\n", t.Description())
	}
	fmt.Fprintln(out)

	fmt.Fprintf(out, "%-10s %18s %18s %18s\n", "Regime", "Before", "After", "Change")
	fmt.Fprintln(out, strings.Repeat("-", 80))
	fmt.Fprintf(out, "%-10s %18s %18s %18s\n", "ordinario",
		compare.FormatCOP(before.Ordinary.NetTax), compare.FormatCOP(after.Ordinary.NetTax),
		compare.FormatCOP(after.Ordinary.NetTax.Sub(before.Ordinary.NetTax)))

	b, bok := before.Simple.Eligible()
	f, fok := after.Simple.Eligible()
	switch {
	case bok && fok:
		fmt.Fprintf(out, "%-10s %18s %18s %18s\n", "simple",
			compare.FormatCOP(b.NetTax), compare.FormatCOP(f.NetTax), compare.FormatCOP(f.NetTax.Sub(b.NetTax)))
	default:
		fmt.Fprintf(out, "%-10s %18s %18s %18s\n", "simple", simpleLabel(b, bok), simpleLabel(f, fok), "-")
	}
	fmt.Fprintln(out)

	fmt.Fprintf(out, "Recommendation: %s -> %s\n", before.Recommendation.Regime, after.Recommendation.Regime)
	for _, reason := range after.Recommendation.Reasons {
		fmt.Fprintf(out, "  - %s\n", reason)
	}
}

func simpleLabel(e *domain.SimpleEligible, ok bool) string {
	if !ok {
		return "ineligible"
	}
	return compare.FormatCOP(e.NetTax)
}

// reportError prints input validation failures field by field.
func reportError(cmd *cobra.Command, err error) error {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		for _, f := range verr.Fields {
			fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %s\n", f.Field, f.Message)
		}
	}
	return err
}
