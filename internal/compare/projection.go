package compare

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tribgo/tribgo/internal/domain"
	"github.com/tribgo/tribgo/internal/transform"
	"golang.org/x/sync/errgroup"
)

// project compares the regimes for the years after year with income grown
// at rate. Years without a published table reuse the latest available one.
func (e *Engine) project(ctx context.Context, in *domain.InputSnapshot, year int, rate decimal.Decimal) ([]domain.ProjectionYear, error) {
	projection := make([]domain.ProjectionYear, ProjectionYears)

	g, ctx := errgroup.WithContext(ctx)
	for n := 1; n <= ProjectionYears; n++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p, err := e.projectYear(ctx, in, year+n, n, rate)
			if err != nil {
				return fmt.Errorf("projection %d: %w", year+n, err)
			}
			projection[n-1] = *p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return projection, nil
}

func (e *Engine) projectYear(ctx context.Context, in *domain.InputSnapshot, target, n int, rate decimal.Decimal) (*domain.ProjectionYear, error) {
	params, extrapolated, err := e.parametersFor(target)
	if err != nil {
		return nil, err
	}

	grown, err := transform.ApplyTransforms(in, []transform.SnapshotTransform{&transform.GrowIncome{Rate: rate, Years: n}})
	if err != nil {
		return nil, err
	}

	ordinary, simple, err := runBoth(ctx, grown, params)
	if err != nil {
		return nil, err
	}

	p := &domain.ProjectionYear{
		Year:           target,
		ParameterYear:  params.Year,
		GrossIncome:    grown.GrossIncome,
		OrdinaryNetTax: ordinary.NetTax,
		Extrapolated:   extrapolated,
	}
	if eligible, ok := simple.Eligible(); ok {
		net := eligible.NetTax
		diff := ordinary.NetTax.Sub(net)
		p.SimpleEligible = true
		p.SimpleNetTax = &net
		p.Difference = &diff
	}
	p.Recommended = Recommend(ordinary, simple, e.NegligibleDifference, in.PreferredRegime()).Regime

	if extrapolated {
		p.Caveat = fmt.Sprintf("no fiscal table for %d; %d parameters used", target, params.Year)
		e.Logger.Warnf("projection year %d extrapolated from %d parameters", target, params.Year)
	}
	return p, nil
}

// parametersFor returns the table for year, falling back to the latest one.
func (e *Engine) parametersFor(year int) (*domain.FiscalParameters, bool, error) {
	params, err := e.Provider.Parameters(year)
	if err == nil {
		return params, false, nil
	}
	if !errors.Is(err, domain.ErrFiscalYearNotSupported) {
		return nil, false, err
	}

	return e.Provider.Latest(), true, nil
}
