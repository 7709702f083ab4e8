package render

import (
	"errors"
	"testing"
)

func TestUnsupportedFeatureError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      UnsupportedFeatureError
		expected string
	}{
		{
			name: "without hint",
			err: UnsupportedFeatureError{
				Feature: "multi-row VALUES",
				Dialect: "oracle",
			},
			expected: "oracle: multi-row VALUES is not supported",
		},
		{
			name: "with hint",
			err: UnsupportedFeatureError{
				Feature: "OFFSET without ORDER BY",
				Dialect: "mssql",
				Hint:    "add an ordering",
			},
			expected: "mssql: OFFSET without ORDER BY is not supported: add an ordering",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestNewUnsupportedFeatureError(t *testing.T) {
	t.Run("without hint", func(t *testing.T) {
		err := NewUnsupportedFeatureError("oracle", "MERGE")
		var ufErr UnsupportedFeatureError
		if !errors.As(err, &ufErr) {
			t.Fatal("expected UnsupportedFeatureError")
		}
		if ufErr.Dialect != "oracle" {
			t.Errorf("Dialect = %q, want %q", ufErr.Dialect, "oracle")
		}
		if ufErr.Feature != "MERGE" {
			t.Errorf("Feature = %q, want %q", ufErr.Feature, "MERGE")
		}
		if ufErr.Hint != "" {
			t.Errorf("Hint = %q, want empty", ufErr.Hint)
		}
	})

	t.Run("with hint", func(t *testing.T) {
		err := NewUnsupportedFeatureError("mssql", "OFFSET", "use ROW_NUMBER paging")
		var ufErr UnsupportedFeatureError
		if !errors.As(err, &ufErr) {
			t.Fatal("expected UnsupportedFeatureError")
		}
		if ufErr.Hint != "use ROW_NUMBER paging" {
			t.Errorf("Hint = %q, want %q", ufErr.Hint, "use ROW_NUMBER paging")
		}
	})
}

func TestUnsupportedExpressionError(t *testing.T) {
	err := NewUnsupportedExpressionError("oracle", "member DateTime.Ticks")
	var ueErr UnsupportedExpressionError
	if !errors.As(err, &ueErr) {
		t.Fatal("expected UnsupportedExpressionError")
	}
	if ueErr.Expression != "member DateTime.Ticks" {
		t.Errorf("Expression = %q, want %q", ueErr.Expression, "member DateTime.Ticks")
	}
	want := "oracle: unsupported expression: member DateTime.Ticks"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
