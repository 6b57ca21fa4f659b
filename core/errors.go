package core

import (
	"errors"
	"fmt"
)

// Kind is the semantic category of an error surfaced by the core. Callers
// should branch on Kind via errors.As, not on error strings.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindPermissionDenied
	KindAlreadyExists
	KindInvalidArgument
	KindInsufficientAmount
	KindInsufficientLiquidity
	KindInsufficientInputAmount
	KindInsufficientOutputAmount
	KindInsufficientLiquidityMinted
	KindInsufficientLiquidityBurned
	KindInsufficientA
	KindInsufficientB
	KindExcessiveInputAmount
	KindCannotWithdrawFullReserve
	KindKInvariantViolated
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NotFound"
	case KindPermissionDenied:
		return "PermissionDenied"
	case KindAlreadyExists:
		return "AlreadyExists"
	case KindInvalidArgument:
		return "InvalidArgument"
	case KindInsufficientAmount:
		return "InsufficientAmount"
	case KindInsufficientLiquidity:
		return "InsufficientLiquidity"
	case KindInsufficientInputAmount:
		return "InsufficientInputAmount"
	case KindInsufficientOutputAmount:
		return "InsufficientOutputAmount"
	case KindInsufficientLiquidityMinted:
		return "InsufficientLiquidityMinted"
	case KindInsufficientLiquidityBurned:
		return "InsufficientLiquidityBurned"
	case KindInsufficientA:
		return "InsufficientA"
	case KindInsufficientB:
		return "InsufficientB"
	case KindExcessiveInputAmount:
		return "ExcessiveInputAmount"
	case KindCannotWithdrawFullReserve:
		return "CannotWithdrawFullReserve"
	case KindKInvariantViolated:
		return "KInvariantViolated"
	default:
		return "Unknown"
	}
}

// Error is the error type this package constructs for the failures it
// detects itself, and for World transfer/mint/burn/create failures, which
// it wraps with KindUnknown. Errors from World.Balance are returned as-is.
// It carries a Kind for programmatic branching and a message for
// operators/logs.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// Is lets errors.Is(err, core.ErrKind(KindNotFound)) style checks work
// without exposing the concrete *Error across package boundaries.
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return e.Kind == other.Kind
	}
	return false
}

func newErr(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func wrapErr(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), cause: cause}
}

// ErrKind constructs a sentinel carrying only a Kind, for use with errors.Is:
//
//	if errors.Is(err, core.ErrKind(core.KindNotFound)) { ... }
func ErrKind(k Kind) error { return &Error{Kind: k} }

func notFound(format string, args ...any) error {
	return newErr(KindNotFound, format, args...)
}

func alreadyExists(format string, args ...any) error {
	return newErr(KindAlreadyExists, format, args...)
}

func permissionDenied(format string, args ...any) error {
	return newErr(KindPermissionDenied, format, args...)
}

func invalidArgument(format string, args ...any) error {
	return newErr(KindInvalidArgument, format, args...)
}
