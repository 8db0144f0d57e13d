package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	cause := errors.New("underlying error")

	err := New(CompilerVersionNotSupported, "no version satisfies ^9.0.0", cause)

	if err.Code != CompilerVersionNotSupported {
		t.Errorf("Code = %v, want %v", err.Code, CompilerVersionNotSupported)
	}
	if err.Message != "no version satisfies ^9.0.0" {
		t.Errorf("Message = %q", err.Message)
	}
	if len(err.SuggestedFixes) == 0 {
		t.Error("expected registered fixes to be attached")
	}
}

func TestSolcError_Error(t *testing.T) {
	tests := []struct {
		name      string
		code      ErrorCode
		message   string
		cause     error
		wantParts []string
	}{
		{
			name:      "with cause",
			code:      CompilerVersionNotSupported,
			message:   "installing v0.4.25 failed",
			cause:     errors.New("connection refused"),
			wantParts: []string{"COMPILER_VERSION_NOT_SUPPORTED", "installing v0.4.25 failed", "connection refused"},
		},
		{
			name:      "without cause",
			code:      NoSolidityProject,
			message:   "no Solidity sources under /proj",
			cause:     nil,
			wantParts: []string{"NO_SOLIDITY_PROJECT", "no Solidity sources under /proj"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, tt.message, tt.cause)
			got := err.Error()

			for _, part := range tt.wantParts {
				if !strings.Contains(got, part) {
					t.Errorf("Error() = %q, want to contain %q", got, part)
				}
			}
		})
	}
}

func TestSolcError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := New(InternalError, "something went wrong", cause)

	if err.Unwrap() != cause {
		t.Errorf("Unwrap() = %v, want %v", err.Unwrap(), cause)
	}

	errNoCause := New(InternalError, "no cause", nil)
	if errNoCause.Unwrap() != nil {
		t.Error("Unwrap() on error without cause should return nil")
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause through Unwrap")
	}
}

func TestWithDetails(t *testing.T) {
	err := New(NoSolidityProject, "no sources", nil).WithDetails(map[string]string{"dir": "/proj"})

	details, ok := err.Details.(map[string]string)
	if !ok {
		t.Fatalf("Details type = %T", err.Details)
	}
	if details["dir"] != "/proj" {
		t.Errorf("Details[dir] = %q", details["dir"])
	}
}

func TestAsAndHasCode(t *testing.T) {
	inner := New(CompilationFailed, "solc exited 1", nil)
	wrapped := fmt.Errorf("compiling project: %w", inner)

	se, ok := As(wrapped)
	if !ok {
		t.Fatal("As() should find the SolcError through wrapping")
	}
	if se.Code != CompilationFailed {
		t.Errorf("Code = %v, want %v", se.Code, CompilationFailed)
	}

	if !HasCode(wrapped, CompilationFailed) {
		t.Error("HasCode should match the wrapped code")
	}
	if HasCode(wrapped, InternalError) {
		t.Error("HasCode should not match a different code")
	}
	if HasCode(errors.New("plain"), CompilationFailed) {
		t.Error("HasCode on a plain error should be false")
	}
}

func TestGetSuggestedFixes(t *testing.T) {
	fixes := GetSuggestedFixes(CompilerVersionNotSupported)
	if len(fixes) == 0 {
		t.Fatal("expected fixes for COMPILER_VERSION_NOT_SUPPORTED")
	}
	for _, fix := range fixes {
		if fix.Type == RunCommand && fix.Command == "" {
			t.Error("run-command fix should carry a command")
		}
	}

	if GetSuggestedFixes(CompilationFailed) != nil {
		t.Error("compilation failures are source bugs; no fix command applies")
	}
}
