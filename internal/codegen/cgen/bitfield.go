package cgen

import (
	"fmt"
	"sort"

	"github.com/NicolasDandanell/rune-c-compiler/internal/codegen/common"
	"github.com/NicolasDandanell/rune-c-compiler/internal/codegen/comperr"
	"github.com/NicolasDandanell/rune-c-compiler/internal/codegen/target"
	"github.com/NicolasDandanell/rune-c-compiler/schema"
)

// writeBitfield renders a bitfield as two endian-specific struct layouts.
// C bit allocation order is ABI dependent: little-endian targets fill from
// the low bits up, big-endian targets from the high bits down, so the member
// order must be mirrored for both layouts to produce the same wire bytes.
func writeBitfield(out *OutputFile, def *schema.BitfieldDefinition, std target.Standard) error {
	if !def.Backing.IsInteger() {
		return fmt.Errorf("%w: bitfield %s has non-integer backing type %s",
			comperr.ErrMalformedSchema, def.Name, def.Backing)
	}
	if is128(def.Backing) {
		return fmt.Errorf("%w: bitfield %s uses a 128-bit backing type",
			comperr.ErrUnsupported, def.Name)
	}

	signedType, err := CType(def.Backing.SignedVariant(), std)
	if err != nil {
		return fmt.Errorf("bitfield %s: %w", def.Name, err)
	}
	unsignedType, err := CType(def.Backing.UnsignedVariant(), std)
	if err != nil {
		return fmt.Errorf("bitfield %s: %w", def.Name, err)
	}

	backingBits := def.Backing.SizeInBytes() * 8

	var totalBits uint64
	for _, m := range def.Members {
		totalBits += m.Size.Bits
	}
	if totalBits > backingBits {
		return fmt.Errorf("%w: bitfield %s declares %d bits but its backing type only holds %d",
			comperr.ErrMalformedSchema, def.Name, totalBits, backingBits)
	}

	ascending := make([]schema.BitfieldMember, len(def.Members))
	copy(ascending, def.Members)
	sort.SliceStable(ascending, func(i, j int) bool {
		return ascending[i].Index < ascending[j].Index
	})

	var padding *schema.BitfieldMember
	if paddingBits := backingBits - totalBits; paddingBits > 0 {
		padding = &schema.BitfieldMember{
			Identifier: "padding",
			Size:       schema.BitSize{Bits: paddingBits},
			Comment:    " Padding to ensure proper alignment ",
		}
	}

	littleEndian := make([]schema.BitfieldMember, 0, len(ascending)+1)
	bigEndian := make([]schema.BitfieldMember, 0, len(ascending)+1)

	littleEndian = append(littleEndian, ascending...)
	if padding != nil {
		littleEndian = append(littleEndian, *padding)
		bigEndian = append(bigEndian, *padding)
	}
	for i := len(ascending) - 1; i >= 0; i-- {
		bigEndian = append(bigEndian, ascending[i])
	}

	longest := 0
	if padding != nil {
		longest = len(padding.Identifier)
	}
	for _, m := range def.Members {
		if l := len(common.ToSnakeCase(m.Identifier)); l > longest {
			longest = l
		}
	}

	name := common.ToSnakeCase(def.Name)

	printMembers := func(members []schema.BitfieldMember) {
		for i, m := range members {
			if m.Comment != "" {
				if i != 0 {
					out.AddNewline()
				}
				out.Addf("    /**%s*/", m.Comment)
			}

			// Signed spellings are one character shorter than their
			// unsigned counterparts, so they carry a trailing space to
			// keep the name column aligned.
			backing := unsignedType
			if m.Size.Signed {
				backing = signedType + " "
			}

			memberName := common.ToSnakeCase(m.Identifier)
			out.Addf("    %s %s%s : %d;", backing, memberName, common.Spaces(longest-len(memberName)), m.Size.Bits)
		}
	}

	if def.Comment != "" {
		out.Addf("/**%s*/", def.Comment)
	}

	out.AddLine("// Disclaimer ! Run rune_bitfield_tester() function to check whether bitfields are behaving as intended")

	out.AddLine("#if defined __LITTLE_ENDIAN__")
	out.Addf("typedef struct RUNIC_BITFIELD %s {", name)
	if def.Comment != "" {
		out.Addf("/**%s*/", def.Comment)
	}
	printMembers(littleEndian)
	out.Addf("} %s_t;", name)

	out.AddLine("#elif defined __BIG_ENDIAN__")
	out.Addf("typedef struct RUNIC_BITFIELD %s {", name)
	if def.Comment != "" {
		out.Addf("/**%s*/", def.Comment)
	}
	printMembers(bigEndian)
	out.Addf("} %s_t;", name)

	out.AddLine("#else")
	out.AddLine("#error \"Only little and big endianness is supported by this Rune C implementation\"")
	out.AddLine("#endif // __BYTE_ORDER__")
	out.AddNewline()

	out.Addf("#define %s_INIT 0", common.ToUpperSnakeCase(def.Name))
	out.AddNewline()

	return nil
}
