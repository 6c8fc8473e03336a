package cgen

import (
	"fmt"

	"github.com/NicolasDandanell/rune-c-compiler/internal/codegen/common"
	"github.com/NicolasDandanell/rune-c-compiler/internal/codegen/layout"
	"github.com/NicolasDandanell/rune-c-compiler/internal/codegen/target"
	"github.com/NicolasDandanell/rune-c-compiler/schema"
)

// structOrders caches each struct's layout order so the header declaration
// and the descriptor table are rendered against the exact same member
// sequence.
type structOrders map[*schema.StructDefinition][]layout.Sized

// writeHeader renders one schema file's C header: include guards, standard
// and schema includes, defines, enums, bitfields, structs with their INIT
// macros, and the extern descriptor declarations.
func writeHeader(out *OutputFile, file *schema.FileDescription, orders structOrders, std target.Standard, version string) error {
	writeBanner(out, version, file.Name)

	guard := common.GuardMacro(file.Name) + "_RUNE_H"
	out.Addf("#ifndef %s", guard)
	out.Addf("#define %s", guard)
	out.AddNewline()

	out.AddLine("#ifdef __cplusplus")
	out.AddLine("extern \"C\" {")
	out.AddLine("#endif // __cplusplus")
	out.AddNewline()

	if std.AllowsBoolean() {
		out.AddLine("#include <stdbool.h>")
	}
	if std.AllowsFixedWidthIntegers() {
		out.AddLine("#include <stdint.h>")
	}
	if std.AllowsBoolean() || std.AllowsFixedWidthIntegers() {
		out.AddNewline()
	}

	out.AddLine("#include \"runic_definitions.h\"")
	out.AddLine("#include \"rune.h\"")
	out.AddNewline()

	if len(file.Includes) > 0 {
		for _, inc := range file.Includes {
			out.Addf("#include \"%s.rune.h\"", inc.File)
		}
		out.AddNewline()
	}

	if len(file.Defines) > 0 {
		for _, def := range file.Defines {
			writeDefine(out, def)
		}
		out.AddNewline()
	}

	for _, def := range file.Enums {
		if err := writeEnum(out, def, std); err != nil {
			return err
		}
	}

	for _, def := range file.Bitfields {
		if err := writeBitfield(out, def, std); err != nil {
			return err
		}
	}

	for _, def := range file.Structs {
		ordered := orders[def]
		if err := writeStruct(out, def, ordered, std); err != nil {
			return err
		}
		if err := writeStructInitializer(out, def, ordered, std); err != nil {
			return err
		}
	}

	if len(file.Structs) > 0 {
		for _, def := range file.Structs {
			out.Addf("extern const rune_descriptor_t %s_descriptor;", common.ToSnakeCase(def.Name))
		}
		out.AddNewline()
	}

	out.AddLine("#ifdef __cplusplus")
	out.AddLine("}")
	out.AddLine("#endif // __cplusplus")
	out.AddNewline()

	out.Addf("#endif // %s", guard)

	return nil
}

// writeDefine renders one user define. A redefined constant is undefined
// first, since the prior definition may have come in through an included
// schema header.
func writeDefine(out *OutputFile, def *schema.DefineDefinition) {
	if def.Comment != "" {
		out.Addf("/**%s*/", def.Comment)
	}

	value := ""
	if v := def.EffectiveValue(); v != nil {
		value = v.CValue()
	}

	if def.Redefinition != nil {
		out.Addf("#undef %s", def.Name)
	}
	out.Addf("#define %s %s", def.Name, value)
}

// writeStruct renders a struct declaration in layout order, so the compiled
// member offsets match the descriptor table emitted for it.
func writeStruct(out *OutputFile, def *schema.StructDefinition, ordered []layout.Sized, std target.Standard) error {
	if def.Comment != "" {
		out.Addf("/**%s*/", def.Comment)
	}

	name := common.ToSnakeCase(def.Name)
	out.Addf("typedef struct RUNIC_STRUCT %s {", name)

	for i, s := range ordered {
		m := s.Member
		if m.Comment != "" {
			if i != 0 {
				out.AddNewline()
			}
			out.Addf("    /**%s*/", m.Comment)
		}

		decl, err := memberDecl(m, std)
		if err != nil {
			return fmt.Errorf("struct %s: %w", def.Name, err)
		}
		out.Addf("    %s;", decl)
	}

	out.Addf("} %s_t;", name)
	out.AddNewline()

	return nil
}

// writeStructInitializer renders the INIT macro for a struct. Member lines
// align both the assignments and the trailing continuation backslashes. When
// the standard lacks designated initializers the macro degrades to positional
// braces with the designators kept as comments.
func writeStructInitializer(out *OutputFile, def *schema.StructDefinition, ordered []layout.Sized, std target.Standard) error {
	upper := common.ToUpperSnakeCase(def.Name)
	snake := common.ToSnakeCase(def.Name)

	longest := 0
	for _, s := range ordered {
		if l := len(common.ToSnakeCase(s.Member.Identifier)); l > longest {
			longest = l
		}
	}

	designated := std.AllowsDesignatedInitializers()

	var first string
	if designated {
		first = fmt.Sprintf("#define %s_INIT (%s_t) {", upper, snake)
	} else {
		first = fmt.Sprintf("#define %s_INIT {", upper)
	}

	lines := make([]string, 0, len(ordered))
	for _, s := range ordered {
		m := s.Member

		init, err := memberInitializer(m, std)
		if err != nil {
			return fmt.Errorf("struct %s: %w", def.Name, err)
		}

		memberName := common.ToSnakeCase(m.Identifier)
		pad := common.Spaces(longest - len(memberName))

		if designated {
			lines = append(lines, fmt.Sprintf("    .%s%s = %s,", memberName, pad, init))
		} else {
			lines = append(lines, fmt.Sprintf("    /* .%s%s = */ %s,", memberName, pad, init))
		}
	}

	// Continuation backslashes all land in the same column, one past the
	// longest line.
	column := len(first)
	for _, l := range lines {
		if len(l) > column {
			column = len(l)
		}
	}

	out.AddLine(first + " " + common.Spaces(column-len(first)) + "\\")
	for _, l := range lines {
		out.AddLine(l + " " + common.Spaces(column-len(l)) + "\\")
	}
	out.AddLine("}")
	out.AddNewline()

	return nil
}
