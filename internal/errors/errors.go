package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// NoSolidityProject indicates no Solidity sources were found under the
	// requested project directory
	NoSolidityProject ErrorCode = "NO_SOLIDITY_PROJECT"
	// CompilerVersionNotSupported indicates no installable compiler version
	// can satisfy the project: the catalog is empty, a file's constraints
	// conflict, or installing the resolved version failed
	CompilerVersionNotSupported ErrorCode = "COMPILER_VERSION_NOT_SUPPORTED"
	// CompilationFailed indicates the compiler rejected the submitted
	// sources; always attributable to the input, never to gosolc
	CompilationFailed ErrorCode = "COMPILATION_FAILED"
	// ConfigInvalid indicates the tool configuration failed validation
	ConfigInvalid ErrorCode = "CONFIG_INVALID"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// FixActionType represents the type of fix action
type FixActionType string

const (
	// RunCommand suggests running a command
	RunCommand FixActionType = "run-command"
	// OpenDocs suggests opening documentation
	OpenDocs FixActionType = "open-docs"
)

// FixAction represents a suggested fix for an error
type FixAction struct {
	Type        FixActionType `json:"type"`
	Command     string        `json:"command,omitempty"`
	Safe        bool          `json:"safe,omitempty"`
	Description string        `json:"description,omitempty"`
	URL         string        `json:"url,omitempty"`
}

// SolcError represents a gosolc error with code, message, and suggestions
type SolcError struct {
	Code           ErrorCode   `json:"code"`
	Message        string      `json:"message"`
	Details        interface{} `json:"details,omitempty"`
	SuggestedFixes []FixAction `json:"suggestedFixes,omitempty"`
	cause          error       // Underlying error (not exported to JSON)
}

// New creates a SolcError, attaching the suggested fixes registered for the
// code.
func New(code ErrorCode, message string, cause error) *SolcError {
	return &SolcError{
		Code:           code,
		Message:        message,
		cause:          cause,
		SuggestedFixes: GetSuggestedFixes(code),
	}
}

// Error implements the error interface
func (e *SolcError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *SolcError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *SolcError) WithDetails(details interface{}) *SolcError {
	e.Details = details
	return e
}

// As extracts a SolcError from err's chain.
func As(err error) (*SolcError, bool) {
	var se *SolcError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// HasCode reports whether err carries the given error code anywhere in its
// chain.
func HasCode(err error, code ErrorCode) bool {
	if se, ok := As(err); ok {
		return se.Code == code
	}
	return false
}

// ErrorActions maps error codes to suggested fix actions
var ErrorActions = map[ErrorCode][]FixAction{
	CompilerVersionNotSupported: {
		{
			Type:        RunCommand,
			Command:     "gosolc versions --refresh",
			Safe:        true,
			Description: "Refresh the release catalog and list usable compiler versions",
		},
		{
			Type:        RunCommand,
			Command:     "gosolc versions --installed",
			Safe:        true,
			Description: "List compiler versions already installed locally",
		},
	},
	NoSolidityProject: {
		{
			Type:        RunCommand,
			Command:     "find <project_dir> -name '*.sol'",
			Safe:        true,
			Description: "Verify the project directory contains Solidity sources",
		},
	},
	ConfigInvalid: {
		{
			Type:        RunCommand,
			Command:     "gosolc config reset",
			Safe:        false,
			Description: "Rewrite the configuration file with defaults",
		},
	},
}

// GetSuggestedFixes returns suggested fixes for an error code
func GetSuggestedFixes(code ErrorCode) []FixAction {
	if fixes, ok := ErrorActions[code]; ok {
		return fixes
	}
	return nil
}
