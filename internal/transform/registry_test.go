package transform

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_List(t *testing.T) {
	r := NewTransformRegistry()
	assert.Equal(t, []string{
		"elect_exempt",
		"grow_income",
		"scale_income",
		"set_activity",
		"set_amount",
		"set_dependents",
	}, r.List())
}

func TestRegistry_ParseTransformSpec(t *testing.T) {
	r := NewTransformRegistry()

	tests := []struct {
		spec  string
		check func(t *testing.T, tr SnapshotTransform)
	}{
		{"scale_income:factor=1.05", func(t *testing.T, tr SnapshotTransform) {
			s, ok := tr.(*ScaleIncome)
			require.True(t, ok)
			assert.True(t, s.Factor.Equal(decimal.RequireFromString("1.05")))
		}},
		{"grow_income:rate=0.04, years=2", func(t *testing.T, tr SnapshotTransform) {
			g, ok := tr.(*GrowIncome)
			require.True(t, ok)
			assert.Equal(t, 2, g.Years)
		}},
		{"grow_income:rate=0.04", func(t *testing.T, tr SnapshotTransform) {
			assert.Equal(t, 1, tr.(*GrowIncome).Years)
		}},
		{"set_amount:field=prepaid_health,amount=9561408", func(t *testing.T, tr SnapshotTransform) {
			s, ok := tr.(*SetAmount)
			require.True(t, ok)
			assert.Equal(t, FieldPrepaidHealth, s.Field)
			assert.Equal(t, int64(9_561_408), s.Amount)
		}},
		{"set_dependents:count=3", func(t *testing.T, tr SnapshotTransform) {
			assert.Equal(t, 3, tr.(*SetDependents).Count)
		}},
		{"elect_exempt:", func(t *testing.T, tr SnapshotTransform) {
			assert.True(t, tr.(*ElectExemptIncome).Elect)
		}},
		{"elect_exempt:elect=false", func(t *testing.T, tr SnapshotTransform) {
			assert.False(t, tr.(*ElectExemptIncome).Elect)
		}},
		{"set_activity:class=comercial", func(t *testing.T, tr SnapshotTransform) {
			assert.Equal(t, "set_activity", tr.Name())
		}},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			tr, err := r.ParseTransformSpec(tt.spec)
			require.NoError(t, err)
			tt.check(t, tr)
		})
	}
}

func TestRegistry_ParseErrors(t *testing.T) {
	r := NewTransformRegistry()

	for _, spec := range []string{
		"scale_income",
		"unknown:x=1",
		"scale_income:factor",
		"scale_income:factor=abc",
		"set_amount:field=costs",
		"set_amount:field=costs,amount=1.5",
		"set_dependents:count=two",
		"set_activity:",
	} {
		_, err := r.ParseTransformSpec(spec)
		assert.Error(t, err, spec)
	}
}

func TestRegistry_ParseTransformSpecs(t *testing.T) {
	r := NewTransformRegistry()

	transforms, err := r.ParseTransformSpecs([]string{"set_dependents:count=2", "elect_exempt:"})
	require.NoError(t, err)
	assert.Len(t, transforms, 2)

	_, err = r.ParseTransformSpecs([]string{"set_dependents:count=2", "bogus:"})
	assert.Error(t, err)
}
