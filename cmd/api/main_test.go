package main

import (
	"net/http"
	"os"
	"testing"

	"github.com/resumariner/engine/engine/domain"
)

func TestEnvOrReturnsSetValue(t *testing.T) {
	os.Setenv("JOBCTL_TEST_VAR", "custom")
	defer os.Unsetenv("JOBCTL_TEST_VAR")
	if got := envOr("JOBCTL_TEST_VAR", "default"); got != "custom" {
		t.Fatalf("expected custom, got %q", got)
	}
}

func TestEnvOrFallsBackWhenUnset(t *testing.T) {
	os.Unsetenv("JOBCTL_TEST_VAR_UNSET")
	if got := envOr("JOBCTL_TEST_VAR_UNSET", "default"); got != "default" {
		t.Fatalf("expected default, got %q", got)
	}
}

func TestStatusForKindMapsEachTaxonomyKind(t *testing.T) {
	cases := []struct {
		build func() *domain.TaxonomyError
		want  int
	}{
		{func() *domain.TaxonomyError { return domain.NewValidationError("op", "t", nil) }, http.StatusBadRequest},
		{func() *domain.TaxonomyError { return domain.NewNotFound("op", "t") }, http.StatusNotFound},
		{func() *domain.TaxonomyError { return domain.NewStoreUnavailable("op", "t", nil) }, http.StatusServiceUnavailable},
		{func() *domain.TaxonomyError { return domain.NewParseError("op", "t", nil) }, http.StatusUnprocessableEntity},
		{func() *domain.TaxonomyError { return domain.NewLLMFailure("op", "t", nil) }, http.StatusInternalServerError},
	}
	for _, c := range cases {
		err := c.build()
		if got := statusForKind(err); got != c.want {
			t.Fatalf("expected status %d for %v, got %d", c.want, err.Kind, got)
		}
	}
}

func TestAsTaxonomyErrorUnwrapsWrappedError(t *testing.T) {
	base := domain.NewStoreUnavailable("op", "t", nil)
	wrapped := wrapForTest(base)
	var target *domain.TaxonomyError
	if !asTaxonomyError(wrapped, &target) {
		t.Fatalf("expected wrapped taxonomy error to be found")
	}
	if target != base {
		t.Fatalf("expected to recover the original taxonomy error")
	}
}

func TestAsTaxonomyErrorFalseForPlainError(t *testing.T) {
	var target *domain.TaxonomyError
	if asTaxonomyError(errPlain{}, &target) {
		t.Fatalf("expected plain error to not match")
	}
}

type errPlain struct{}

func (errPlain) Error() string { return "plain" }

type wrappingError struct {
	cause error
}

func (w wrappingError) Error() string { return "wrapped: " + w.cause.Error() }
func (w wrappingError) Unwrap() error { return w.cause }

func wrapForTest(err error) error {
	return wrappingError{cause: err}
}
