package transform

import (
	"fmt"

	"github.com/tribgo/tribgo/internal/domain"
)

// SnapshotTransform defines the interface for all what-if transformations.
// Transforms are composable operations that derive a new input snapshot from
// an existing one, used by savings opportunities, projections and the CLI.
type SnapshotTransform interface {
	// Apply returns a new snapshot. The base snapshot is never modified.
	Apply(base *domain.InputSnapshot) (*domain.InputSnapshot, error)

	// Name returns a short identifier for this transform (e.g., "set_amount").
	Name() string

	// Description returns a human-readable description of what this transform does.
	Description() string

	// Validate checks the transform parameters against the base snapshot.
	Validate(base *domain.InputSnapshot) error
}

// ApplyTransforms applies a sequence of transforms to a base snapshot.
// Transforms are applied in order, with each transform receiving the output of the previous one.
func ApplyTransforms(base *domain.InputSnapshot, transforms []SnapshotTransform) (*domain.InputSnapshot, error) {
	if base == nil {
		return nil, fmt.Errorf("base snapshot cannot be nil")
	}

	if len(transforms) == 0 {
		return base.Clone(), nil
	}

	current := base
	for i, transform := range transforms {
		if transform == nil {
			return nil, fmt.Errorf("transform at index %d is nil", i)
		}

		if err := transform.Validate(current); err != nil {
			return nil, fmt.Errorf("transform %s validation failed: %w", transform.Name(), err)
		}

		next, err := transform.Apply(current)
		if err != nil {
			return nil, fmt.Errorf("transform %s failed: %w", transform.Name(), err)
		}

		current = next
	}

	return current, nil
}

// TransformError represents an error that occurred during transformation.
type TransformError struct {
	TransformName string
	Operation     string
	Reason        string
	Err           error
}

func (e *TransformError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transform %s (%s): %s: %v", e.TransformName, e.Operation, e.Reason, e.Err)
	}
	return fmt.Sprintf("transform %s (%s): %s", e.TransformName, e.Operation, e.Reason)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}

// NewTransformError creates a new TransformError.
func NewTransformError(transformName, operation, reason string, err error) error {
	return &TransformError{
		TransformName: transformName,
		Operation:     operation,
		Reason:        reason,
		Err:           err,
	}
}
