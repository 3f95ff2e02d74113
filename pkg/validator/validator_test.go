package validator

import "testing"

type sample struct {
	Message string `validate:"notblank"`
}

func TestNotBlank(t *testing.T) {
	v := New()

	for _, msg := range []string{"", " ", "\t\n  "} {
		if err := v.ValidateStruct(sample{Message: msg}); err == nil {
			t.Fatalf("expected %q to fail validation", msg)
		}
	}

	if err := v.ValidateStruct(sample{Message: "  hi  "}); err != nil {
		t.Fatalf("expected non-blank message to pass, got %v", err)
	}
}
