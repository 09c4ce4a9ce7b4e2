package fiscal

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tribgo/tribgo/internal/domain"
)

const shippedTable = "../../configs/fiscal_params.yaml"

func loadShipped(t *testing.T) *TableProvider {
	t.Helper()
	p, err := LoadFile(shippedTable)
	require.NoError(t, err)
	return p
}

func TestLoadFile_ShippedTable(t *testing.T) {
	p := loadShipped(t)
	assert.Equal(t, []int{2024, 2025, 2026}, p.Years())

	params, err := p.Parameters(2025)
	require.NoError(t, err)
	assert.True(t, params.UVT.Equal(decimal.NewFromInt(49799)))
	assert.Len(t, params.Ordinary.Brackets, 7)
	assert.Nil(t, params.Ordinary.Brackets[6].ToUVT)
	assert.True(t, params.Ordinary.Deductions.AggregateCeilingUVT.Equal(decimal.NewFromInt(1340)))
	assert.True(t, params.Simple.Classes[domain.ActivityEducationHealth].Brackets[1].ConsolidatedRate.Equal(decimal.RequireFromString("0.0475")))
	assert.True(t, params.Simple.Classes[domain.ActivityProfessional].MaxIncomeUVT.Equal(decimal.NewFromInt(12000)))
	assert.Len(t, params.Simple.AdvanceCalendar, domain.AdvancePeriods)
	assert.NotEmpty(t, params.Simple.Benefits)
}

func TestParameters_UnsupportedYear(t *testing.T) {
	p := loadShipped(t)

	_, err := p.Parameters(2019)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrFiscalYearNotSupported))

	var yerr *domain.FiscalYearError
	require.True(t, errors.As(err, &yerr))
	assert.Equal(t, 2019, yerr.Year)
	assert.Equal(t, []int{2024, 2025, 2026}, yerr.Available)
}

func TestParameters_ReturnsCopy(t *testing.T) {
	p := loadShipped(t)

	first, err := p.Parameters(2025)
	require.NoError(t, err)
	first.UVT = decimal.NewFromInt(1)
	first.Ordinary.Brackets[0].MarginalRate = decimal.NewFromInt(1)

	second, err := p.Parameters(2025)
	require.NoError(t, err)
	assert.True(t, second.UVT.Equal(decimal.NewFromInt(49799)))
	assert.True(t, second.Ordinary.Brackets[0].MarginalRate.IsZero())
}

func TestLatest(t *testing.T) {
	p := loadShipped(t)
	assert.Equal(t, 2026, p.Latest().Year)

	year, ok := LatestYear(p)
	assert.True(t, ok)
	assert.Equal(t, 2026, year)
}

func TestShippedTable_BracketContinuity(t *testing.T) {
	p := loadShipped(t)
	one := decimal.NewFromInt(1)

	for _, year := range p.Years() {
		params, err := p.Parameters(year)
		require.NoError(t, err)

		ob := params.Ordinary.Brackets
		for i := 0; i < len(ob)-1; i++ {
			require.NotNil(t, ob[i].ToUVT, "year %d bracket %s", year, ob[i].Label)
			assert.True(t, ob[i].ToUVT.Add(one).Equal(ob[i+1].FromUVT), "year %d ordinary bracket %s", year, ob[i].Label)
		}

		for class, table := range params.Simple.Classes {
			sb := table.Brackets
			for i := 0; i < len(sb)-1; i++ {
				require.NotNil(t, sb[i].ToUVT)
				assert.True(t, sb[i].ToUVT.Add(one).Equal(sb[i+1].FromUVT), "year %d class %s bracket %s", year, class, sb[i].Label)
			}
		}
	}
}

func TestValidateParameters_Rejects(t *testing.T) {
	base := func(t *testing.T) *domain.FiscalParameters {
		params, err := loadShipped(t).Parameters(2025)
		require.NoError(t, err)
		return params
	}

	tests := []struct {
		name   string
		mutate func(p *domain.FiscalParameters)
	}{
		{"zero uvt", func(p *domain.FiscalParameters) { p.UVT = decimal.Zero }},
		{"gap in ordinary table", func(p *domain.FiscalParameters) {
			p.Ordinary.Brackets[2].FromUVT = decimal.NewFromInt(1705)
		}},
		{"table not starting at zero", func(p *domain.FiscalParameters) {
			p.Ordinary.Brackets[0].FromUVT = decimal.NewFromInt(1)
		}},
		{"closed top bracket", func(p *domain.FiscalParameters) {
			top := decimal.NewFromInt(50000)
			p.Ordinary.Brackets[6].ToUVT = &top
		}},
		{"open bracket in the middle", func(p *domain.FiscalParameters) {
			p.Ordinary.Brackets[3].ToUVT = nil
		}},
		{"missing activity class", func(p *domain.FiscalParameters) {
			delete(p.Simple.Classes, domain.ActivityCommercial)
		}},
		{"short calendar", func(p *domain.FiscalParameters) {
			p.Simple.AdvanceCalendar = p.Simple.AdvanceCalendar[:5]
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base(t)
			tt.mutate(p)
			err := ValidateParameters(p)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidFiscalTable))
		})
	}
}

func TestNewTableProvider_DuplicateYear(t *testing.T) {
	params, err := loadShipped(t).Parameters(2025)
	require.NoError(t, err)

	_, err = NewTableProvider(*params, *params)
	assert.ErrorIs(t, err, domain.ErrInvalidFiscalTable)
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse([]byte("years: [ {year: 2025, uvt: "))
	assert.Error(t, err)

	_, err = Parse([]byte("years: []"))
	assert.ErrorIs(t, err, domain.ErrInvalidFiscalTable)
}
