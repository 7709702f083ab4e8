package render

import "fmt"

// UnsupportedFeatureError indicates a feature not supported by the dialect.
type UnsupportedFeatureError struct {
	Feature string
	Dialect string
	Hint    string
}

func (e UnsupportedFeatureError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s: %s is not supported: %s", e.Dialect, e.Feature, e.Hint)
	}
	return fmt.Sprintf("%s: %s is not supported", e.Dialect, e.Feature)
}

// NewUnsupportedFeatureError creates a new unsupported feature error.
func NewUnsupportedFeatureError(dialect, feature string, hint ...string) error {
	err := UnsupportedFeatureError{Feature: feature, Dialect: dialect}
	if len(hint) > 0 {
		err.Hint = hint[0]
	}
	return err
}

// UnsupportedExpressionError indicates a node the dialect cannot render,
// including member accesses and method calls no translator accepted.
type UnsupportedExpressionError struct {
	Dialect    string
	Expression string
}

func (e UnsupportedExpressionError) Error() string {
	return fmt.Sprintf("%s: unsupported expression: %s", e.Dialect, e.Expression)
}

// NewUnsupportedExpressionError creates a new unsupported expression error.
func NewUnsupportedExpressionError(dialect, expression string) error {
	return UnsupportedExpressionError{Dialect: dialect, Expression: expression}
}
