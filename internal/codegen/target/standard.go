// Package target models the compilation target: the C language revision the
// generated code must conform to, the architecture whose word size drives
// layout decisions, and the run-scoped generation options.
package target

import (
	"fmt"
	"strings"

	"github.com/NicolasDandanell/rune-c-compiler/internal/codegen/comperr"
)

// Standard is a C language revision. The constants are ordered, so capability
// checks are plain comparisons against the revision that introduced a feature.
type Standard uint8

const (
	C89 Standard = iota
	C95
	C99
	C11
	C17
	C23
)

// ValidStandards lists the accepted --c-standard values for error messages.
const ValidStandards = "C89/C90, C95, C99, C11, C17, C23"

func (s Standard) String() string {
	switch s {
	case C89:
		return "C89"
	case C95:
		return "C95"
	case C99:
		return "C99"
	case C11:
		return "C11"
	case C17:
		return "C17"
	case C23:
		return "C23"
	default:
		return fmt.Sprintf("Standard(%d)", uint8(s))
	}
}

// ParseStandard resolves a user-supplied standard name. C90 is accepted as an
// alias for C89, matching common compiler usage.
func ParseStandard(value string) (Standard, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "C89", "C90":
		return C89, nil
	case "C95":
		return C95, nil
	case "C99":
		return C99, nil
	case "C11":
		return C11, nil
	case "C17":
		return C17, nil
	case "C23":
		return C23, nil
	default:
		return C89, fmt.Errorf("%w: unknown C standard %q, valid values are: %s",
			comperr.ErrInvalidArgument, value, ValidStandards)
	}
}

// AllowsBoolean reports whether the standard has a boolean type (C99's
// _Bool and <stdbool.h>).
func (s Standard) AllowsBoolean() bool { return s >= C99 }

// AllowsDesignatedInitializers reports whether `.member = value` initializer
// syntax is available (C99).
func (s Standard) AllowsDesignatedInitializers() bool { return s >= C99 }

// AllowsFlexibleArrayMembers reports whether a trailing unsized array member
// is permitted (C99).
func (s Standard) AllowsFlexibleArrayMembers() bool { return s >= C99 }

// AllowsInline reports whether the inline keyword is available (C99).
func (s Standard) AllowsInline() bool { return s >= C99 }

// AllowsFixedWidthIntegers reports whether <stdint.h> fixed-width integer
// types are available (C99). Below this, 8/16/32-bit integers degrade to
// K&R spellings and 64-bit integers cannot be guaranteed at all.
func (s Standard) AllowsFixedWidthIntegers() bool { return s >= C99 }

// AllowsEnumBackingType reports whether `enum name : type` underlying-type
// syntax is available (C23).
func (s Standard) AllowsEnumBackingType() bool { return s >= C23 }
