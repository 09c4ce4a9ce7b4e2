package transform

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tribgo/tribgo/internal/domain"
)

// TransformRegistry provides a central registry for all available transforms.
// It enables creation of transforms from string parameters, useful for CLI commands.
type TransformRegistry struct {
	factories map[string]TransformFactory
}

// TransformFactory is a function that creates a transform from parameters.
type TransformFactory func(params map[string]string) (SnapshotTransform, error)

// NewTransformRegistry creates a new registry with all built-in transforms registered.
func NewTransformRegistry() *TransformRegistry {
	registry := &TransformRegistry{
		factories: make(map[string]TransformFactory),
	}

	registry.Register("scale_income", createScaleIncome)
	registry.Register("grow_income", createGrowIncome)
	registry.Register("set_amount", createSetAmount)
	registry.Register("set_dependents", createSetDependents)
	registry.Register("elect_exempt", createElectExempt)
	registry.Register("set_activity", createSetActivity)

	return registry
}

// Register adds a transform factory to the registry.
func (r *TransformRegistry) Register(name string, factory TransformFactory) {
	r.factories[name] = factory
}

// Create creates a transform by name with the given parameters.
func (r *TransformRegistry) Create(name string, params map[string]string) (SnapshotTransform, error) {
	factory, exists := r.factories[name]
	if !exists {
		return nil, fmt.Errorf("unknown transform: %s", name)
	}

	return factory(params)
}

// List returns the names of all registered transforms in alphabetical order.
func (r *TransformRegistry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseTransformSpec parses a transform specification string.
// Format: "transform_name:param1=value1,param2=value2"
// Example: "set_amount:field=prepaid_health,amount=9561408"
func (r *TransformRegistry) ParseTransformSpec(spec string) (SnapshotTransform, error) {
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid transform spec format, expected 'name:params', got: %s", spec)
	}

	name := strings.TrimSpace(parts[0])
	paramsStr := strings.TrimSpace(parts[1])

	params := make(map[string]string)
	if paramsStr != "" {
		for _, paramPair := range strings.Split(paramsStr, ",") {
			kv := strings.SplitN(paramPair, "=", 2)
			if len(kv) != 2 {
				return nil, fmt.Errorf("invalid parameter format, expected 'key=value', got: %s", paramPair)
			}
			params[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
		}
	}

	return r.Create(name, params)
}

// ParseTransformSpecs parses several specs in order.
func (r *TransformRegistry) ParseTransformSpecs(specs []string) ([]SnapshotTransform, error) {
	transforms := make([]SnapshotTransform, 0, len(specs))
	for _, spec := range specs {
		t, err := r.ParseTransformSpec(spec)
		if err != nil {
			return nil, err
		}
		transforms = append(transforms, t)
	}
	return transforms, nil
}

// Factory functions for each transform

func createScaleIncome(params map[string]string) (SnapshotTransform, error) {
	factorStr, ok := params["factor"]
	if !ok {
		return nil, fmt.Errorf("scale_income requires 'factor' parameter")
	}

	factor, err := decimal.NewFromString(factorStr)
	if err != nil {
		return nil, fmt.Errorf("invalid factor value: %w", err)
	}

	return &ScaleIncome{Factor: factor}, nil
}

func createGrowIncome(params map[string]string) (SnapshotTransform, error) {
	rateStr, ok := params["rate"]
	if !ok {
		return nil, fmt.Errorf("grow_income requires 'rate' parameter")
	}

	rate, err := decimal.NewFromString(rateStr)
	if err != nil {
		return nil, fmt.Errorf("invalid rate value: %w", err)
	}

	years := 1
	if yearsStr, ok := params["years"]; ok {
		years, err = strconv.Atoi(yearsStr)
		if err != nil {
			return nil, fmt.Errorf("invalid years value: %w", err)
		}
	}

	return &GrowIncome{Rate: rate, Years: years}, nil
}

func createSetAmount(params map[string]string) (SnapshotTransform, error) {
	field, ok := params["field"]
	if !ok {
		return nil, fmt.Errorf("set_amount requires 'field' parameter")
	}

	amountStr, ok := params["amount"]
	if !ok {
		return nil, fmt.Errorf("set_amount requires 'amount' parameter")
	}

	amount, err := strconv.ParseInt(amountStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid amount value: %w", err)
	}

	return &SetAmount{Field: field, Amount: amount}, nil
}

func createSetDependents(params map[string]string) (SnapshotTransform, error) {
	countStr, ok := params["count"]
	if !ok {
		return nil, fmt.Errorf("set_dependents requires 'count' parameter")
	}

	count, err := strconv.Atoi(countStr)
	if err != nil {
		return nil, fmt.Errorf("invalid count value: %w", err)
	}

	return &SetDependents{Count: count}, nil
}

func createElectExempt(params map[string]string) (SnapshotTransform, error) {
	elect := true
	if electStr, ok := params["elect"]; ok {
		elect = electStr == "true" || electStr == "yes" || electStr == "1"
	}

	return &ElectExemptIncome{Elect: elect}, nil
}

func createSetActivity(params map[string]string) (SnapshotTransform, error) {
	class, ok := params["class"]
	if !ok {
		return nil, fmt.Errorf("set_activity requires 'class' parameter")
	}

	return &SetActivityClass{Class: domain.ActivityClass(class)}, nil
}
