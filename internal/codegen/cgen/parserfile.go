package cgen

import (
	"github.com/NicolasDandanell/rune-c-compiler/internal/codegen/common"
	"github.com/NicolasDandanell/rune-c-compiler/internal/codegen/target"
	"github.com/NicolasDandanell/rune-c-compiler/schema"
)

// writeParser renders runic_parser.c: one extern descriptor reference per
// message and the index-ordered descriptor pointer array the runtime looks
// parsers up in. Array order must match the RUNE_*_PARSER_INDEX defines.
func writeParser(out *OutputFile, files []*schema.FileDescription, std target.Standard, version string) {
	structs := sortedStructs(files)

	writeBanner(out, version, "")

	out.AddLine("#include \"rune.h\"")
	out.AddLine("#include \"runic_definitions.h\"")
	out.AddNewline()

	if len(structs) > 0 {
		for _, def := range structs {
			out.Addf("extern const rune_descriptor_t %s_descriptor;", common.ToSnakeCase(def.Name))
		}
		out.AddNewline()
	}

	out.AddLine("static const rune_descriptor_t* RUNIC_PARSER rune_parser_array[RUNE_PARSER_COUNT] = {")

	for i, def := range structs {
		end := ","
		if i == len(structs)-1 {
			end = ""
		}
		out.Addf("    &%s_descriptor%s", common.ToSnakeCase(def.Name), end)
	}

	out.AddLine("};")
	out.AddNewline()

	// Parser indexes are 1-based so that 0 can mean "no parser".
	inline := ""
	if std.AllowsInline() {
		inline = "inline "
	}

	out.AddLine("/** Get the descriptor of a given message type from its index */")
	out.Addf("%sconst rune_descriptor_t* rune_get_parser(RUNE_PARSER_INDEX_TYPE index) {", inline)
	out.AddLine("    return rune_parser_array[index - 1];")
	out.AddLine("}")
}
