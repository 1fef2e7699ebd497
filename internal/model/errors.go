package model

import "errors"

// Sentinel errors for model-graph violations. Raise sites wrap these with
// context via fmt.Errorf and %w; callers match with errors.Is.
var (
	// ErrInvalidReference indicates an index that does not belong to the
	// container being operated on, or no longer exists.
	ErrInvalidReference = errors.New("model: invalid reference")

	// ErrBoundViolation indicates a sub-domain interval that exceeds its
	// parameter's declared domain.
	ErrBoundViolation = errors.New("model: bound outside parameter domain")

	// ErrDisjointBounds indicates a bound intersection that is empty for
	// some parameter.
	ErrDisjointBounds = errors.New("model: disjoint bounds")

	// ErrShapeMismatch indicates point values or a parameter tuple that do
	// not match the declared slot shape of an infinite variable.
	ErrShapeMismatch = errors.New("model: shape mismatch")

	// ErrDuplicateGroup indicates a parameter tuple that double-specifies a
	// group, or an array slot mixing parameters from different groups.
	ErrDuplicateGroup = errors.New("model: duplicate parameter group")

	// ErrDependencyConflict indicates a structural change rejected because
	// dependents exist.
	ErrDependencyConflict = errors.New("model: dependency conflict")

	// ErrAmbiguousName indicates a name lookup matching more than one entity.
	ErrAmbiguousName = errors.New("model: ambiguous name")

	// ErrNotFound indicates a name lookup matching no entity.
	ErrNotFound = errors.New("model: name not found")
)
