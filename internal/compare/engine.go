package compare

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tribgo/tribgo/internal/calculation"
	"github.com/tribgo/tribgo/internal/domain"
	"github.com/tribgo/tribgo/internal/fiscal"
	"golang.org/x/sync/errgroup"
)

var (
	// DefaultNegligibleDifference is the net tax gap below which both regimes are considered equal.
	DefaultNegligibleDifference = decimal.NewFromInt(100_000)

	// DefaultGrowthRate is the yearly income growth used by projections.
	DefaultGrowthRate = decimal.RequireFromString("0.05")
)

// ProjectionYears is the number of future years a projection covers.
const ProjectionYears = 3

// Engine compares the ordinary and Simple regimes for one taxpayer.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	Provider             fiscal.Provider
	Logger               Logger
	NegligibleDifference decimal.Decimal
	DefaultGrowthRate    decimal.Decimal
}

// NewEngine creates a comparison engine over a fiscal parameter provider.
func NewEngine(provider fiscal.Provider) *Engine {
	return &Engine{
		Provider:             provider,
		Logger:               NopLogger{},
		NegligibleDifference: DefaultNegligibleDifference,
		DefaultGrowthRate:    DefaultGrowthRate,
	}
}

// SetLogger sets the engine logger. A nil logger disables logging.
func (e *Engine) SetLogger(l Logger) {
	if l == nil {
		e.Logger = NopLogger{}
		return
	}
	e.Logger = l
}

// Options configures a comparison.
type Options struct {
	IncludeProjection bool
	GrowthRate        *decimal.Decimal // nil uses the engine default
}

// Compare runs both regimes on the same snapshot and builds the full result.
// The snapshot is validated first and nothing is computed when it is invalid.
func (e *Engine) Compare(ctx context.Context, in *domain.InputSnapshot, year int, opts Options) (*domain.ComparisonResult, error) {
	ordinary, simple, params, err := e.evaluate(ctx, in, year)
	if err != nil {
		return nil, err
	}

	result := &domain.ComparisonResult{
		Year:        year,
		Fingerprint: in.Fingerprint(),
		Ordinary:    ordinary,
		Simple:      simple,
	}

	if eligible, ok := simple.Eligible(); ok {
		diff := ordinary.NetTax.Sub(eligible.NetTax)
		pct := percentSavings(diff, ordinary.NetTax, eligible.NetTax)
		result.Difference = &diff
		result.PercentSavings = &pct
	}

	result.Recommendation = Recommend(ordinary, simple, e.NegligibleDifference, in.PreferredRegime())
	e.Logger.Debugf("year %d: recommendation %s (tie=%t)", year, result.Recommendation.Regime, result.Recommendation.Tie)

	opportunities, err := e.opportunities(ctx, in, params, ordinary, simple)
	if err != nil {
		return nil, err
	}
	result.Opportunities = opportunities

	if opts.IncludeProjection {
		rate := e.DefaultGrowthRate
		if opts.GrowthRate != nil {
			rate = *opts.GrowthRate
		}
		projection, err := e.project(ctx, in, year, rate)
		if err != nil {
			return nil, err
		}
		result.Projection = projection
	}

	return result, nil
}

// Regimes validates the snapshot and computes both regimes without comparing them.
func (e *Engine) Regimes(ctx context.Context, in *domain.InputSnapshot, year int) (*domain.OrdinaryResult, *domain.SimpleResult, error) {
	ordinary, simple, _, err := e.evaluate(ctx, in, year)
	return ordinary, simple, err
}

func (e *Engine) evaluate(ctx context.Context, in *domain.InputSnapshot, year int) (*domain.OrdinaryResult, *domain.SimpleResult, *domain.FiscalParameters, error) {
	if err := domain.ValidateSnapshot(in); err != nil {
		return nil, nil, nil, err
	}

	params, err := e.Provider.Parameters(year)
	if err != nil {
		return nil, nil, nil, err
	}

	ordinary, simple, err := runBoth(ctx, in, params)
	if err != nil {
		return nil, nil, nil, err
	}
	e.Logger.Debugf("year %d: ordinary net tax %s, simple eligible %t", year, ordinary.NetTax, simpleEligible(simple))
	return ordinary, simple, params, nil
}

// runBoth evaluates the two calculators concurrently.
func runBoth(ctx context.Context, in *domain.InputSnapshot, params *domain.FiscalParameters) (*domain.OrdinaryResult, *domain.SimpleResult, error) {
	var (
		ordinary *domain.OrdinaryResult
		simple   *domain.SimpleResult
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		r, err := calculation.CalculateOrdinary(in, params)
		if err != nil {
			return fmt.Errorf("ordinary regime: %w", err)
		}
		ordinary = r
		return nil
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		r, err := calculation.CalculateSimple(in, params)
		if err != nil {
			return fmt.Errorf("simple regime: %w", err)
		}
		simple = r
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return ordinary, simple, nil
}

func percentSavings(diff, ordinary, simple decimal.Decimal) decimal.Decimal {
	higher := decimal.Max(ordinary, simple)
	if !higher.IsPositive() {
		return decimal.Zero
	}
	return diff.Abs().Div(higher).Mul(decimal.NewFromInt(100)).Round(2)
}

func simpleEligible(r *domain.SimpleResult) bool {
	_, ok := r.Eligible()
	return ok
}
