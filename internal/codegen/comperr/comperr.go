// Package comperr defines the terminal error categories of the generator.
// Every failure aborts the run; callers wrap these sentinels with context
// via fmt.Errorf("...: %w", ...) and tests match them with errors.Is.
package comperr

import "errors"

var (
	// ErrInvalidArgument reports an unparseable user-supplied value, such as
	// an unknown C standard or architecture string.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrConfiguration reports a configuration that cannot produce valid
	// output, such as a schema whose largest message resolves to size zero.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrStandardMismatch reports a schema feature the target C standard
	// cannot guarantee, such as 64-bit integers below C99.
	ErrStandardMismatch = errors.New("source and C standard mismatch")

	// ErrMalformedSchema reports schema content the generator cannot work
	// with: unlinked references, non-positive array sizes, non-integer
	// bitfield backing types, overfull bitfields.
	ErrMalformedSchema = errors.New("malformed schema")

	// ErrLogic reports structurally impossible states, such as a field
	// index above 31 reaching slot synthesis.
	ErrLogic = errors.New("logic error")

	// ErrUnsupported is reserved for standard/feature combinations the
	// generator does not implement.
	ErrUnsupported = errors.New("unsupported feature")

	// ErrFileSystem reports output directory or file write failures.
	ErrFileSystem = errors.New("file system error")
)
