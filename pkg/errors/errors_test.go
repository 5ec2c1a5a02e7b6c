package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		publicMsg string
		detailsOK bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest, publicMsg: "validation failed", detailsOK: true},
		{code: CodeUnauthorized, status: http.StatusUnauthorized, publicMsg: "authentication required"},
		{code: CodeNotFound, status: http.StatusNotFound, publicMsg: "resource not found", detailsOK: true},
		{code: CodeConflict, status: http.StatusConflict, publicMsg: "conflict detected", detailsOK: true},
		{code: CodeInsufficientStock, status: http.StatusUnprocessableEntity, publicMsg: "insufficient stock", detailsOK: true},
		{code: CodeStore, status: http.StatusServiceUnavailable, publicMsg: "storage failure"},
		{code: CodeInternal, status: http.StatusInternalServerError, publicMsg: "internal error"},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, meta.HTTPStatus)
		}
		if meta.PublicMessage != tt.publicMsg {
			t.Fatalf("code %s expected public message %q got %q", tt.code, tt.publicMsg, meta.PublicMessage)
		}
		if meta.Retryable {
			t.Fatalf("code %s should never be retried automatically", tt.code)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal status, got %d", meta.HTTPStatus)
	}
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeValidation, "missing foo")
	if base.Code() != CodeValidation {
		t.Fatalf("expected validation code, got %s", base.Code())
	}
	if base.Message() != "missing foo" {
		t.Fatalf("unexpected message %q", base.Message())
	}
	if base.Details() != nil {
		t.Fatalf("details should be nil by default")
	}

	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeConflict, cause, "ctx")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("Wrap did not preserve cause")
	}
	if wrapped.Code() != CodeConflict {
		t.Fatalf("expected conflict code, got %s", wrapped.Code())
	}

	outer := fmt.Errorf("outer: %w", wrapped)
	if !Is(outer, CodeConflict) {
		t.Fatalf("expected Is to find code through wrapping")
	}
	if Is(outer, CodeNotFound) {
		t.Fatalf("did not expect not found code")
	}
	if As(stdErrors.New("plain")) != nil {
		t.Fatalf("plain error should not be typed")
	}
}

func TestInsufficientStockDetails(t *testing.T) {
	err := InsufficientStock("item-1", "Milk 1L", 3, 5)
	if err.Code() != CodeInsufficientStock {
		t.Fatalf("unexpected code %s", err.Code())
	}
	details, ok := err.Details().(InsufficientStockDetails)
	if !ok {
		t.Fatalf("unexpected details type %T", err.Details())
	}
	if details.Available != 3 || details.Required != 5 || details.ItemName != "Milk 1L" {
		t.Fatalf("unexpected details %+v", details)
	}
}

func TestDumpCollectsChain(t *testing.T) {
	err := fmt.Errorf("top: %w", Wrap(CodeStore, stdErrors.New("disk"), "write"))
	dump := Dump(err)
	if dump.Code != CodeStore {
		t.Fatalf("expected store code, got %s", dump.Code)
	}
	if len(dump.Chain) != 3 {
		t.Fatalf("expected three chain entries, got %d", len(dump.Chain))
	}
}
