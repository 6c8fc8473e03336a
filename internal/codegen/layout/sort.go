package layout

import (
	"fmt"
	"log/slog"

	"github.com/NicolasDandanell/rune-c-compiler/internal/codegen/target"
	"github.com/NicolasDandanell/rune-c-compiler/schema"
)

// Sized pairs a struct member with its resolved byte size.
type Sized struct {
	Member schema.StructMember
	Size   uint64
}

// Order resolves member sizes and returns the layout order the struct is
// emitted in. Size-0 members are discarded with a warning. With sorting
// disabled the declaration order is kept; otherwise members are grouped into
// alignment classes (multiples of 8 on 64-bit targets, then 4, then 2, then
// the rest) and the unaligned class is packed best-fit against the word size.
// The result is reused verbatim by the descriptor generator, so declaration
// and descriptor offsets always agree.
func Order(def *schema.StructDefinition, cfg target.Config, logger *slog.Logger) ([]Sized, error) {
	sized := make([]Sized, 0, len(def.Members))
	for _, m := range def.Members {
		size, err := MemberSize(m)
		if err != nil {
			return nil, fmt.Errorf("struct %s: %w", def.Name, err)
		}
		if size == 0 {
			logger.Warn("Discarding zero size member", "struct", def.Name, "member", m.Identifier)
			continue
		}
		sized = append(sized, Sized{Member: m, Size: size})
	}

	if !cfg.Sort {
		return sized, nil
	}

	var aligned8, aligned4, aligned2, unaligned []Sized
	for _, s := range sized {
		switch {
		case s.Size%8 == 0 && cfg.Architecture == target.Arch64:
			aligned8 = append(aligned8, s)
		case s.Size%4 == 0:
			aligned4 = append(aligned4, s)
		case s.Size%2 == 0:
			aligned2 = append(aligned2, s)
		default:
			unaligned = append(unaligned, s)
		}
	}

	out := make([]Sized, 0, len(sized))
	out = append(out, aligned8...)
	out = append(out, aligned4...)
	out = append(out, aligned2...)
	out = append(out, bestFit(unaligned, cfg.Architecture.WordSize())...)
	return out, nil
}

// bestFit orders the unaligned class: members larger than the word size keep
// their relative order, and the gap each one leaves to the next word boundary
// is filled with the single unused smaller member that fits it most tightly
// (first encountered wins ties). Unused small members follow in their
// original order. At most one member is placed per gap.
func bestFit(members []Sized, word uint64) []Sized {
	var large, small []Sized
	for _, m := range members {
		if m.Size > word {
			large = append(large, m)
		} else {
			small = append(small, m)
		}
	}

	used := make([]bool, len(small))
	out := make([]Sized, 0, len(members))

	for _, lg := range large {
		out = append(out, lg)

		leftover := word - lg.Size%word
		best := -1
		bestRemainder := word
		for i, sm := range small {
			if used[i] || sm.Size > leftover {
				continue
			}
			if remainder := leftover - sm.Size; remainder < bestRemainder {
				bestRemainder = remainder
				best = i
			}
		}
		if best >= 0 {
			used[best] = true
			out = append(out, small[best])
		}
	}

	for i, sm := range small {
		if !used[i] {
			out = append(out, sm)
		}
	}
	return out
}
