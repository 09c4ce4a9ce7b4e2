package domain

import (
	"encoding/json"

	"github.com/google/uuid"
)

// ActivityClass identifies the Simple regime activity table a taxpayer belongs to.
type ActivityClass string

const (
	ActivitySmallStore      ActivityClass = "tienda_pequena"
	ActivityCommercial      ActivityClass = "comercial"
	ActivityProfessional    ActivityClass = "profesional"
	ActivityFoodTransport   ActivityClass = "comidas_transporte"
	ActivityEducationHealth ActivityClass = "educacion_salud"
)

// ActivityClasses lists every supported activity class in table order.
func ActivityClasses() []ActivityClass {
	return []ActivityClass{
		ActivitySmallStore,
		ActivityCommercial,
		ActivityProfessional,
		ActivityFoodTransport,
		ActivityEducationHealth,
	}
}

// Valid reports whether the class belongs to the closed enumeration.
func (a ActivityClass) Valid() bool {
	for _, c := range ActivityClasses() {
		if a == c {
			return true
		}
	}
	return false
}

// Regime names one of the two personal taxation regimes.
type Regime string

const (
	RegimeOrdinary Regime = "ordinario"
	RegimeSimple   Regime = "simple"
)

// AdvancePeriods is the number of bimonthly periods in a fiscal year.
const AdvancePeriods = 6

// InputSnapshot is the immutable taxpayer input for one calculation.
// Monetary values are whole pesos. A missing value means zero.
type InputSnapshot struct {
	GrossIncome                int64         `yaml:"gross_income" json:"grossIncome" validate:"gte=0"`
	ActivityClass              ActivityClass `yaml:"activity_class" json:"activityClass" validate:"required,activity_class"`
	Costs                      int64         `yaml:"costs" json:"costs" validate:"gte=0"`
	Dependents                 int           `yaml:"dependents" json:"dependents" validate:"gte=0,lte=4"`
	ElectronicInvoicePurchases int64         `yaml:"electronic_invoice_purchases" json:"electronicInvoicePurchases" validate:"gte=0"`
	VoluntaryPensionAFC        int64         `yaml:"voluntary_pension_afc" json:"voluntaryPensionAfc" validate:"gte=0"`
	MortgageInterest           int64         `yaml:"mortgage_interest" json:"mortgageInterest" validate:"gte=0"`
	PrepaidHealth              int64         `yaml:"prepaid_health" json:"prepaidHealth" validate:"gte=0"`
	ElectsExemptIncome         bool          `yaml:"elects_exempt_income" json:"electsExemptIncome"`
	ElectronicPaymentsReceived int64         `yaml:"electronic_payments_received" json:"electronicPaymentsReceived" validate:"gte=0"`
	GMFPaid                    int64         `yaml:"gmf_paid" json:"gmfPaid" validate:"gte=0"`
	Withholdings               int64         `yaml:"withholdings" json:"withholdings" validate:"gte=0"`

	// BimonthlyIncome holds actual income per bimonthly period. When set it
	// replaces the even split of GrossIncome in the advance schedule.
	BimonthlyIncome []int64 `yaml:"bimonthly_income,omitempty" json:"bimonthlyIncome,omitempty" validate:"omitempty,len=6,dive,gte=0"`

	// CurrentRegime is the regime the taxpayer files under today. Empty means ordinario.
	CurrentRegime Regime `yaml:"current_regime,omitempty" json:"currentRegime,omitempty" validate:"omitempty,oneof=ordinario simple"`
}

// Clone returns a deep copy of the snapshot.
func (s *InputSnapshot) Clone() *InputSnapshot {
	c := *s
	if s.BimonthlyIncome != nil {
		c.BimonthlyIncome = append([]int64(nil), s.BimonthlyIncome...)
	}
	return &c
}

// PreferredRegime returns the current regime, defaulting to ordinario.
func (s *InputSnapshot) PreferredRegime() Regime {
	if s.CurrentRegime == "" {
		return RegimeOrdinary
	}
	return s.CurrentRegime
}

// snapshotNamespace scopes snapshot fingerprints.
var snapshotNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://tribgo.co/input-snapshot"))

// Fingerprint returns a stable identifier for the snapshot contents.
// Equal snapshots always produce the same fingerprint.
func (s *InputSnapshot) Fingerprint() string {
	data, err := json.Marshal(s)
	if err != nil {
		// a struct of ints, bools and strings always marshals
		panic(err)
	}
	return uuid.NewSHA1(snapshotNamespace, data).String()
}
