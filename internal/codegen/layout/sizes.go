// Package layout computes byte sizes, member orderings and padding for
// schema structs. Everything here is pure arithmetic over the read-only
// schema; rendering decisions live in cgen.
package layout

import (
	"fmt"

	"github.com/NicolasDandanell/rune-c-compiler/internal/codegen/comperr"
	"github.com/NicolasDandanell/rune-c-compiler/schema"
)

// MemberSize resolves a struct member's byte size. User-defined references
// resolve to the linked bitfield's or enum's backing size, or to the sum of a
// linked struct's own member sizes (recursive; schemas are acyclic by
// contract of the external linker). Arrays multiply the element size by the
// element count. Unlinked references and non-positive array counts fail with
// ErrMalformedSchema.
func MemberSize(m schema.StructMember) (uint64, error) {
	switch m.Type.Kind {
	case schema.FieldEmpty:
		return 0, nil

	case schema.FieldPrimitive:
		return m.Type.Prim.SizeInBytes(), nil

	case schema.FieldUserDefined:
		return linkedSize(m.Link, m.Identifier)

	case schema.FieldArray:
		element, err := elementSize(m.Type.Elem, m.Identifier)
		if err != nil {
			return 0, err
		}
		count, err := elementCount(m.Type.Count, m.Identifier)
		if err != nil {
			return 0, err
		}
		return element * count, nil

	default:
		return 0, fmt.Errorf("%w: member %q has an unknown field kind", comperr.ErrLogic, m.Identifier)
	}
}

func linkedSize(link schema.UserDefinitionLink, member string) (uint64, error) {
	switch link.Kind {
	case schema.LinkBitfield:
		return link.Bitfield.Backing.SizeInBytes(), nil
	case schema.LinkEnum:
		return link.Enum.Backing.SizeInBytes(), nil
	case schema.LinkStruct:
		return MembersSize(link.Struct)
	default:
		return 0, fmt.Errorf("%w: member %q has an unlinked type reference", comperr.ErrMalformedSchema, member)
	}
}

// MembersSize sums a struct's resolved member sizes with no padding applied.
// This is the size a nested struct contributes to its parent.
func MembersSize(def *schema.StructDefinition) (uint64, error) {
	var total uint64
	for _, m := range def.Members {
		size, err := MemberSize(m)
		if err != nil {
			return 0, err
		}
		total += size
	}
	return total, nil
}

func elementSize(elem *schema.ArrayType, member string) (uint64, error) {
	if elem == nil {
		return 0, fmt.Errorf("%w: array member %q has no element type", comperr.ErrLogic, member)
	}
	if elem.IsPrimitive() {
		return elem.Prim.SizeInBytes(), nil
	}
	return linkedSize(elem.Link, member)
}

func elementCount(size *schema.ArraySize, member string) (uint64, error) {
	if size == nil {
		return 0, fmt.Errorf("%w: array member %q has no size", comperr.ErrLogic, member)
	}

	if size.Define == nil {
		if size.Count == 0 {
			return 0, fmt.Errorf("%w: array member %q has a non-positive size", comperr.ErrMalformedSchema, member)
		}
		return size.Count, nil
	}

	value := size.Define.EffectiveValue()
	if value == nil {
		return 0, fmt.Errorf("%w: array member %q sized by valueless define %q",
			comperr.ErrMalformedSchema, member, size.Define.Name)
	}
	switch {
	case value.Kind == schema.LiteralUint && value.Uint > 0:
		return value.Uint, nil
	case value.Kind == schema.LiteralInt && value.Int > 0:
		return uint64(value.Int), nil
	default:
		return 0, fmt.Errorf("%w: array member %q sized by define %q which is not a positive integer",
			comperr.ErrMalformedSchema, member, size.Define.Name)
	}
}

// WidthForValue returns the smallest unsigned integer width in bytes able to
// hold value: 1, 2, 4 or 8.
func WidthForValue(value uint64) uint64 {
	switch {
	case value <= 0xFF:
		return 1
	case value <= 0xFFFF:
		return 2
	case value <= 0xFFFFFFFF:
		return 4
	default:
		return 8
	}
}
