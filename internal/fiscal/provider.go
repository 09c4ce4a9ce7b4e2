package fiscal

import (
	"fmt"
	"os"
	"sort"

	"github.com/tribgo/tribgo/internal/domain"
	"gopkg.in/yaml.v3"
)

// Provider supplies year-scoped fiscal parameters.
type Provider interface {
	// Parameters returns the bundle for a year or an error wrapping
	// domain.ErrFiscalYearNotSupported. It never falls back to another year.
	Parameters(year int) (*domain.FiscalParameters, error)

	// Years returns the supported years in ascending order.
	Years() []int

	// Latest returns the most recent year's bundle. Only projections may use
	// it as a stand-in for a year without a table.
	Latest() *domain.FiscalParameters
}

// tableFile is the on-disk layout of the parameters table.
type tableFile struct {
	Years []domain.FiscalParameters `yaml:"years"`
}

// TableProvider serves parameters from an in-memory table.
// Every call returns a fresh copy, so callers cannot alter the table.
type TableProvider struct {
	tables map[int]*domain.FiscalParameters
	years  []int
}

// NewTableProvider validates the given parameter sets and builds a provider.
func NewTableProvider(params ...domain.FiscalParameters) (*TableProvider, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("%w: no fiscal years defined", domain.ErrInvalidFiscalTable)
	}

	p := &TableProvider{tables: make(map[int]*domain.FiscalParameters, len(params))}
	for i := range params {
		if err := ValidateParameters(&params[i]); err != nil {
			return nil, err
		}
		year := params[i].Year
		if _, dup := p.tables[year]; dup {
			return nil, fmt.Errorf("%w: year %d defined twice", domain.ErrInvalidFiscalTable, year)
		}
		p.tables[year] = params[i].DeepCopy()
		p.years = append(p.years, year)
	}
	sort.Ints(p.years)
	return p, nil
}

// LoadFile reads a YAML parameters table from disk.
func LoadFile(path string) (*TableProvider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fiscal parameters file: %w", err)
	}
	return Parse(data)
}

// Parse builds a provider from YAML bytes.
func Parse(data []byte) (*TableProvider, error) {
	var file tableFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse fiscal parameters: %w", err)
	}
	return NewTableProvider(file.Years...)
}

// Parameters implements Provider.
func (p *TableProvider) Parameters(year int) (*domain.FiscalParameters, error) {
	params, ok := p.tables[year]
	if !ok {
		return nil, &domain.FiscalYearError{Year: year, Available: p.Years()}
	}
	return params.DeepCopy(), nil
}

// Years implements Provider.
func (p *TableProvider) Years() []int {
	return append([]int(nil), p.years...)
}

// Latest implements Provider. The constructor guarantees at least one year.
func (p *TableProvider) Latest() *domain.FiscalParameters {
	return p.tables[p.years[len(p.years)-1]].DeepCopy()
}

// LatestYear returns the most recent year in the provider.
func LatestYear(p Provider) (int, bool) {
	years := p.Years()
	if len(years) == 0 {
		return 0, false
	}
	return years[len(years)-1], true
}
