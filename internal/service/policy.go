package service

import (
	"fmt"
	"strings"
)

// AuthenticityPolicy decides whether outcomes whose signature failed verification may be applied
type AuthenticityPolicy string

const (
	// PolicyStrict rejects unauthenticated outcomes.
	PolicyStrict AuthenticityPolicy = "strict"
	// PolicyPermissive applies them and records SignatureVerified=false.
	PolicyPermissive AuthenticityPolicy = "permissive"
)

// ParseAuthenticityPolicy parses a configured policy name. Empty means strict.
func ParseAuthenticityPolicy(s string) (AuthenticityPolicy, error) {
	switch AuthenticityPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyStrict:
		return PolicyStrict, nil
	case PolicyPermissive:
		return PolicyPermissive, nil
	default:
		return "", fmt.Errorf("unknown authenticity policy %q", s)
	}
}

// Check returns an error when an outcome with the given signature state must not be applied.
func (p AuthenticityPolicy) Check(signatureValid bool) error {
	if signatureValid || p == PolicyPermissive {
		return nil
	}
	return &ServiceError{
		Kind:    KindConflict,
		Code:    ErrCodeSignatureInvalid,
		Message: "gateway message could not be authenticated",
	}
}
