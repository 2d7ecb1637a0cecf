package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrResolutionAmbiguous marks a service name without a confident match.
	ErrResolutionAmbiguous = errors.New("service name is ambiguous")
	// ErrContractViolation marks a reasoning engine payload of the wrong shape.
	ErrContractViolation = errors.New("reasoning engine contract violation")
	// ErrMissingCredential is returned when no API key is available.
	ErrMissingCredential = errors.New("missing API key")
)

// AmbiguousServiceError carries the candidates the user should pick from.
type AmbiguousServiceError struct {
	Requested   string
	Suggestions []string
}

func (e *AmbiguousServiceError) Error() string {
	return fmt.Sprintf("service %q not found; did you mean: %s", e.Requested, strings.Join(e.Suggestions, ", "))
}

func (e *AmbiguousServiceError) Unwrap() error {
	return ErrResolutionAmbiguous
}

// ContractViolationError describes why a reasoning payload was rejected.
type ContractViolationError struct {
	Reason string
	Raw    string
}

func (e *ContractViolationError) Error() string {
	return fmt.Sprintf("reasoning engine returned an invalid document: %s", e.Reason)
}

func (e *ContractViolationError) Unwrap() error {
	return ErrContractViolation
}
