package layout

import (
	"fmt"
	"log/slog"

	"github.com/NicolasDandanell/rune-c-compiler/internal/codegen/comperr"
	"github.com/NicolasDandanell/rune-c-compiler/internal/codegen/target"
	"github.com/NicolasDandanell/rune-c-compiler/schema"
)

// Placement is a laid-out member with its computed byte offset.
type Placement struct {
	Sized
	Offset uint64
}

// alignmentRequirement maps a member size to the alignment the C compiler is
// assumed to give it: the worst case that still supports 64-bit alignment.
func alignmentRequirement(size uint64) uint64 {
	switch {
	case size <= 1:
		return 1
	case size == 2:
		return 2
	case size <= 4:
		return 4
	default:
		return 8
	}
}

// Place walks members in layout order accumulating offsets. Unless packing is
// enabled, each member is padded to its alignment requirement and the total
// is padded to the largest requirement seen, mirroring compiler sizeof
// semantics. With packing enabled no padding is ever inserted.
func Place(ordered []Sized, cfg target.Config) ([]Placement, uint64) {
	var offset, maxAlign uint64
	placements := make([]Placement, 0, len(ordered))

	for _, m := range ordered {
		align := alignmentRequirement(m.Size)
		if align > maxAlign {
			maxAlign = align
		}
		if !cfg.PackData && offset%align != 0 {
			offset += align - offset%align
		}
		placements = append(placements, Placement{Sized: m, Offset: offset})
		offset += m.Size
	}

	if !cfg.PackData && maxAlign > 0 && offset%maxAlign != 0 {
		offset += maxAlign - offset%maxAlign
	}
	return placements, offset
}

// Estimate computes a struct's total byte size under the given configuration.
// A struct resolving to size 0 cannot exist in valid output and fails with
// ErrConfiguration.
func Estimate(def *schema.StructDefinition, cfg target.Config, logger *slog.Logger) (uint64, error) {
	ordered, err := Order(def, cfg, logger)
	if err != nil {
		return 0, err
	}
	_, total := Place(ordered, cfg)
	if total == 0 {
		return 0, fmt.Errorf("%w: struct %s has no sized members", comperr.ErrConfiguration, def.Name)
	}
	return total, nil
}
