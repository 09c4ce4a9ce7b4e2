package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSnapshot() *InputSnapshot {
	return &InputSnapshot{
		GrossIncome:   120_000_000,
		ActivityClass: ActivityProfessional,
		Costs:         20_000_000,
		Dependents:    1,
	}
}

func TestValidateSnapshot_Valid(t *testing.T) {
	require.NoError(t, ValidateSnapshot(validSnapshot()))
}

func TestValidateSnapshot_FieldErrors(t *testing.T) {
	s := validSnapshot()
	s.GrossIncome = -1
	s.Dependents = 5
	s.ActivityClass = "minera"
	s.BimonthlyIncome = []int64{1, 2, 3}

	err := ValidateSnapshot(s)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))

	fields := map[string]string{}
	for _, f := range verr.Fields {
		fields[f.Field] = f.Rule
	}
	assert.Equal(t, "gte", fields["grossIncome"])
	assert.Equal(t, "lte", fields["dependents"])
	assert.Equal(t, "activity_class", fields["activityClass"])
	assert.Equal(t, "len", fields["bimonthlyIncome"])
}

func TestValidateSnapshot_NegativeBimonthlyValue(t *testing.T) {
	s := validSnapshot()
	s.BimonthlyIncome = []int64{1, 2, 3, 4, 5, -6}

	var verr *ValidationError
	require.True(t, errors.As(ValidateSnapshot(s), &verr))
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "bimonthlyIncome[5]", verr.Fields[0].Field)
}

func TestValidateSnapshot_MissingActivityClass(t *testing.T) {
	s := validSnapshot()
	s.ActivityClass = ""

	var verr *ValidationError
	require.True(t, errors.As(ValidateSnapshot(s), &verr))
	assert.Equal(t, "required", verr.Fields[0].Rule)
}

func TestNewSnapshotValidator_RegistersActivityClass(t *testing.T) {
	var v interface {
		Var(field any, tag string) error
	}
	require.NotPanics(t, func() { v = newSnapshotValidator() })

	assert.NoError(t, v.Var(string(ActivityCommercial), "activity_class"))
	assert.Error(t, v.Var("panaderia", "activity_class"))
}

func TestFingerprint_Stable(t *testing.T) {
	a := validSnapshot()
	b := validSnapshot()
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	b.GrossIncome++
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}

func TestClone_Independent(t *testing.T) {
	a := validSnapshot()
	a.BimonthlyIncome = []int64{1, 2, 3, 4, 5, 6}
	b := a.Clone()
	b.BimonthlyIncome[0] = 99
	b.GrossIncome = 1

	assert.Equal(t, int64(1), a.BimonthlyIncome[0])
	assert.Equal(t, int64(120_000_000), a.GrossIncome)
}

func TestPreferredRegime(t *testing.T) {
	s := validSnapshot()
	assert.Equal(t, RegimeOrdinary, s.PreferredRegime())
	s.CurrentRegime = RegimeSimple
	assert.Equal(t, RegimeSimple, s.PreferredRegime())
}

func TestSimpleResult_Outcome(t *testing.T) {
	r := &SimpleResult{Outcome: &SimpleIneligible{Reasons: []IneligibilityReason{{Code: "x", Message: "y"}}}}
	_, ok := r.Eligible()
	assert.False(t, ok)
	inel, ok := r.Ineligible()
	require.True(t, ok)
	assert.Len(t, inel.Reasons, 1)
}

func TestSimpleResult_MarshalJSON(t *testing.T) {
	eligible := SimpleResult{
		Year:    2025,
		Outcome: &SimpleEligible{Bracket: "1", NetTax: decimal.NewFromInt(10)},
	}
	data, err := json.Marshal(eligible)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, true, m["eligible"])
	assert.Equal(t, "10", m["netTax"])
	assert.NotContains(t, m, "reasons")

	ineligible := SimpleResult{
		Year:    2025,
		Outcome: &SimpleIneligible{Reasons: []IneligibilityReason{{Code: "ingresos_superan_tope"}}},
	}
	data, err = json.Marshal(&ineligible)
	require.NoError(t, err)
	m = nil
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, false, m["eligible"])
	assert.Contains(t, m, "reasons")
	assert.NotContains(t, m, "netTax")
}

func TestSimpleResult_JSONRoundTrip(t *testing.T) {
	for _, original := range []SimpleResult{
		{Year: 2025, ActivityClass: ActivityCommercial, GrossIncome: decimal.NewFromInt(5),
			Outcome: &SimpleEligible{Bracket: "1", NetTax: decimal.NewFromInt(10), Benefits: []string{"b"}}},
		{Year: 2025, ActivityClass: ActivityCommercial,
			Outcome: &SimpleIneligible{Reasons: []IneligibilityReason{{Code: "ingresos_superan_tope", Message: "m"}}}},
	} {
		data, err := json.Marshal(original)
		require.NoError(t, err)

		var decoded SimpleResult
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.IsType(t, original.Outcome, decoded.Outcome)

		again, err := json.Marshal(decoded)
		require.NoError(t, err)
		assert.JSONEq(t, string(data), string(again))
	}
}

func TestFiscalParameters_DeepCopy(t *testing.T) {
	top := decimal.NewFromInt(1090)
	p := &FiscalParameters{
		Year: 2025,
		UVT:  decimal.NewFromInt(49799),
		Ordinary: OrdinaryParameters{
			Brackets: []OrdinaryBracket{{Label: "1", ToUVT: &top}},
		},
		Simple: SimpleParameters{
			Classes: map[ActivityClass]SimpleClass{
				ActivityCommercial: {Brackets: []SimpleBracket{{Label: "1"}}},
			},
			Benefits: []string{"a"},
		},
	}

	c := p.DeepCopy()
	*c.Ordinary.Brackets[0].ToUVT = decimal.NewFromInt(1)
	c.Simple.Classes[ActivityCommercial].Brackets[0].Label = "changed"
	c.Simple.Benefits[0] = "b"

	assert.True(t, p.Ordinary.Brackets[0].ToUVT.Equal(decimal.NewFromInt(1090)))
	assert.Equal(t, "1", p.Simple.Classes[ActivityCommercial].Brackets[0].Label)
	assert.Equal(t, "a", p.Simple.Benefits[0])
}

func TestDeductionEntry_Utilization(t *testing.T) {
	e := DeductionEntry{Capped: decimal.NewFromInt(50), Ceiling: decimal.NewFromInt(200)}
	assert.True(t, e.Utilization().Equal(decimal.NewFromInt(25)))
	assert.True(t, DeductionEntry{}.Utilization().IsZero())
}
