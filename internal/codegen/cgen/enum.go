package cgen

import (
	"fmt"

	"github.com/NicolasDandanell/rune-c-compiler/internal/codegen/common"
	"github.com/NicolasDandanell/rune-c-compiler/internal/codegen/target"
	"github.com/NicolasDandanell/rune-c-compiler/schema"
)

// writeEnum renders an enum declaration and its INIT macro. Standards with
// native underlying-type syntax carry the backing type in the declaration.
// Older standards leave width inference to the compiler, so when no declared
// value already needs the full backing width a sentinel member valued at the
// width's maximum is appended to force it.
func writeEnum(out *OutputFile, def *schema.EnumDefinition, std target.Standard) error {
	if def.Comment != "" {
		out.Addf("/**%s*/", def.Comment)
	}

	name := common.ToSnakeCase(def.Name)

	if std.AllowsEnumBackingType() {
		backing, err := CType(def.Backing, std)
		if err != nil {
			return fmt.Errorf("enum %s: %w", def.Name, err)
		}
		out.Addf("typedef enum RUNIC_ENUM %s: %s {", name, backing)
	} else {
		out.Addf("typedef enum RUNIC_ENUM %s {", name)
	}

	sentinel := ""
	if !std.AllowsEnumBackingType() && enumNeedsSentinel(def) {
		sentinel = common.ToUpperSnakeCase(def.Name) + "_FORCE_WIDTH"
	}

	longest := len(sentinel)
	for _, m := range def.Members {
		if l := len(common.ToUpperSnakeCase(m.Identifier)); l > longest {
			longest = l
		}
	}

	initializer := "0"

	for i, m := range def.Members {
		if m.Comment != "" {
			if i != 0 {
				out.AddNewline()
			}
			out.Addf("    /**%s*/", m.Comment)
		}

		memberName := common.ToUpperSnakeCase(m.Identifier)

		// First zero-valued member becomes the INIT constant.
		if m.Value.IsZero() && initializer == "0" {
			initializer = memberName
		}

		ending := ","
		if i == len(def.Members)-1 && sentinel == "" {
			ending = ""
		}

		out.Addf("    %s%s = %s%s", memberName, common.Spaces(longest-len(memberName)), m.Value.CValue(), ending)
	}

	if sentinel != "" {
		width := def.Backing.SizeInBytes()
		out.AddNewline()
		out.Addf("    /** Forces the enum to be at least %d bits wide */", width*8)
		out.Addf("    %s%s = 0x%X", sentinel, common.Spaces(longest-len(sentinel)), maxForWidth(width))
	}

	out.Addf("} %s_t;", name)
	out.AddNewline()

	out.Addf("#define %s_INIT %s", common.ToUpperSnakeCase(def.Name), initializer)
	out.AddNewline()

	return nil
}

// enumNeedsSentinel reports whether no member literal already requires the
// backing type's full width, leaving the compiler free to pick a narrower
// representation.
func enumNeedsSentinel(def *schema.EnumDefinition) bool {
	width := def.Backing.SizeInBytes()
	for _, m := range def.Members {
		if m.Value.RequiredByteWidth() == width {
			return false
		}
	}
	return true
}
