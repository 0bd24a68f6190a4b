// Package types holds the shared registry vocabulary: value type tags,
// typed errors, and the option flag sets consumed by the importer and the
// exporters. It has no dependencies so every other package can use it.
package types

import (
	"errors"
	"fmt"
)

// -----------------------------------------------------------------------------
// Typed Errors (stable categories for programmatic handling)
// -----------------------------------------------------------------------------

// ErrKind classifies errors so callers can branch on intent rather than text.
type ErrKind int

const (
	ErrKindFormat      ErrKind = iota // malformed .reg text (header, grammar)
	ErrKindNotFound                   // missing key/value/path/file
	ErrKindAccess                     // permission denied by the OS
	ErrKindType                       // requested decode doesn't match value RegType
	ErrKindUnsupported                // valid feature we don't support on this platform
	ErrKindState                      // invalid operation for current state
)

// Error is a typed error with an optional underlying cause.
type Error struct {
	Kind ErrKind
	Msg  string
	Err  error // optional underlying cause
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// IsKind reports whether err (or anything it wraps) is a typed Error of
// the given kind.
func IsKind(err error, kind ErrKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// Sentinels commonly returned by implementations.
var (
	// ErrNotFound indicates a missing key/value/path.
	ErrNotFound = &Error{Kind: ErrKindNotFound, Msg: "not found"}
	// ErrAccessDenied indicates the OS refused the operation.
	ErrAccessDenied = &Error{Kind: ErrKindAccess, Msg: "access denied"}
	// ErrTypeMismatch indicates the requested decode doesn't match the value type.
	ErrTypeMismatch = &Error{Kind: ErrKindType, Msg: "registry value has different type"}
	// ErrUnsupported indicates the operation is not available on this platform.
	ErrUnsupported = &Error{Kind: ErrKindUnsupported, Msg: "not supported on this platform"}
	// ErrNoHive indicates a registry path whose first segment is not a known hive.
	ErrNoHive = &Error{Kind: ErrKindNotFound, Msg: "unknown registry hive"}
)

// -----------------------------------------------------------------------------
// Registry value types
// -----------------------------------------------------------------------------

// RegType enumerates Windows registry value types. The numbers up to
// REG_QWORD align with the Windows definitions; the escaped placeholder
// tags exist only inside trees built by the text importer and are never
// written to the live registry.
type RegType uint32

const (
	REG_NONE      RegType = 0
	REG_SZ        RegType = 1
	REG_EXPAND_SZ RegType = 2
	REG_BINARY    RegType = 3
	REG_DWORD     RegType = 4
	REG_MULTI_SZ  RegType = 7
	REG_QWORD     RegType = 11

	// REG_ESCAPED_DWORD holds the literal $name$ text of a dword value that
	// was written as a variable placeholder rather than a hex literal.
	REG_ESCAPED_DWORD RegType = 0x1004
	// REG_ESCAPED_QWORD is the qword counterpart of REG_ESCAPED_DWORD.
	REG_ESCAPED_QWORD RegType = 0x100B

	// REG_UNKNOWN marks a value that has been created but not yet assigned.
	REG_UNKNOWN RegType = 0xFFFFFFFF
)

// String implements the Stringer interface for RegType.
func (t RegType) String() string {
	switch t {
	case REG_NONE:
		return "REG_NONE"
	case REG_SZ:
		return "REG_SZ"
	case REG_EXPAND_SZ:
		return "REG_EXPAND_SZ"
	case REG_BINARY:
		return "REG_BINARY"
	case REG_DWORD:
		return "REG_DWORD"
	case REG_MULTI_SZ:
		return "REG_MULTI_SZ"
	case REG_QWORD:
		return "REG_QWORD"
	case REG_ESCAPED_DWORD:
		return "REG_ESCAPED_DWORD"
	case REG_ESCAPED_QWORD:
		return "REG_ESCAPED_QWORD"
	case REG_UNKNOWN:
		return "REG_UNKNOWN"
	default:
		return fmt.Sprintf("UNKNOWN_TYPE_%d", uint32(t))
	}
}

// IsStringKind reports whether the payload is UTF-16LE text.
func (t RegType) IsStringKind() bool {
	switch t {
	case REG_SZ, REG_EXPAND_SZ, REG_MULTI_SZ, REG_ESCAPED_DWORD, REG_ESCAPED_QWORD:
		return true
	default:
		return false
	}
}

// IsEscaped reports whether the value is an undecoded variable placeholder.
func (t RegType) IsEscaped() bool {
	return t == REG_ESCAPED_DWORD || t == REG_ESCAPED_QWORD
}

// -----------------------------------------------------------------------------
// Option flag sets
// -----------------------------------------------------------------------------

// ImportOptions controls tolerances of the .reg text importer. The zero
// value is the strict regedit-compatible behavior.
type ImportOptions struct {
	// AllowHashComments treats '#' as a comment introducer.
	AllowHashComments bool
	// AllowSemicolonComments treats ';' as a comment introducer.
	AllowSemicolonComments bool
	// IgnoreWhitespace tolerates stray blanks around hex digits.
	IgnoreWhitespace bool
	// AllowVariableNames accepts $name$ placeholders in place of decoded
	// dword:/qword hex literals and stores them as escaped values.
	AllowVariableNames bool
}

// ExportOptions controls the .reg exporters and the live-registry writer.
type ExportOptions struct {
	// NoEmptyKeys skips keys that carry neither named values nor a default
	// value. Note this deliberately ignores subkeys: a key whose entire
	// subtree is valueless is still skipped.
	NoEmptyKeys bool
}
