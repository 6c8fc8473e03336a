package target

import (
	"fmt"
	"strings"

	"github.com/NicolasDandanell/rune-c-compiler/internal/codegen/comperr"
)

// Architecture is the pointer width of the machine the generated code is
// compiled for. It only influences layout: the word size is the alignment
// class threshold and the best-fit gap size.
type Architecture uint8

const (
	Arch32 Architecture = iota
	Arch64
)

// ValidArchitectures lists the accepted --architecture values for error messages.
const ValidArchitectures = "64, 32"

func (a Architecture) String() string {
	if a == Arch32 {
		return "32-bit"
	}
	return "64-bit"
}

// WordSize returns the architecture word size in bytes.
func (a Architecture) WordSize() uint64 {
	if a == Arch32 {
		return 4
	}
	return 8
}

// ParseArchitecture resolves a user-supplied architecture bit width.
func ParseArchitecture(value string) (Architecture, error) {
	switch strings.TrimSpace(value) {
	case "32":
		return Arch32, nil
	case "64":
		return Arch64, nil
	default:
		return Arch64, fmt.Errorf("%w: unknown architecture %q, valid values are: %s",
			comperr.ErrInvalidArgument, value, ValidArchitectures)
	}
}
