package cgen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/NicolasDandanell/rune-c-compiler/internal/codegen/common"
	"github.com/NicolasDandanell/rune-c-compiler/internal/codegen/target"
	"github.com/NicolasDandanell/rune-c-compiler/schema"
)

// sortedStructs gathers every struct across all files, sorted
// case-insensitively by name. The order fixes each struct's 1-based parser
// index, so the definitions header and the parser array must both use it.
func sortedStructs(files []*schema.FileDescription) []*schema.StructDefinition {
	all := make([]*schema.StructDefinition, 0, 0x40)
	for _, file := range files {
		all = append(all, file.Structs...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		return strings.ToUpper(all[i].Name) < strings.ToUpper(all[j].Name)
	})

	return all
}

// attributeMacro renders a __attribute__ list, or nothing when no attributes
// apply.
func attributeMacro(attributes []string) string {
	if len(attributes) == 0 {
		return ""
	}
	return fmt.Sprintf("__attribute__((%s))", strings.Join(attributes, ", "))
}

// writeDefinitions renders runic_definitions.h: the static protocol
// constants, the configuration-derived attribute macros, the metadata type
// macros sized by the global pass, and the parser index of every message.
func writeDefinitions(out *OutputFile, files []*schema.FileDescription, cfg target.Config, sizing Sizing, version string) error {
	var bitfieldAttributes, enumAttributes, parserAttributes, structAttributes, metadataAttributes []string

	// Bitfields are always packed!
	bitfieldAttributes = append(bitfieldAttributes, "packed")

	// Enums have backing types, and do not need to be packed

	if cfg.PackData {
		parserAttributes = append(parserAttributes, "packed")
		structAttributes = append(structAttributes, "packed")
	}

	if cfg.PackMetadata {
		metadataAttributes = append(metadataAttributes, "packed")
	}

	if cfg.Section != "" {
		parserAttributes = append(parserAttributes, fmt.Sprintf("section(\"%s\")", cfg.Section))
	}

	metadataType := func(width uint64) (string, error) {
		if !cfg.PackMetadata {
			return "size_t", nil
		}
		prim, err := typeForWidth(width)
		if err != nil {
			return "", err
		}
		return CType(prim, cfg.Standard)
	}

	fieldSizeType, err := metadataType(sizing.FieldSizeWidth)
	if err != nil {
		return err
	}
	fieldOffsetType, err := metadataType(sizing.FieldOffsetWidth)
	if err != nil {
		return err
	}
	messageSizeType, err := metadataType(sizing.MessageSizeWidth)
	if err != nil {
		return err
	}
	parserIndexType, err := metadataType(sizing.ParserIndexWidth)
	if err != nil {
		return err
	}

	writeBanner(out, version, "")

	out.AddLine("#ifndef RUNE_DEFINITIONS_H")
	out.AddLine("#define RUNE_DEFINITIONS_H")
	out.AddNewline()

	out.AddLine("// Static definitions")
	out.AddLine("// ———————————————————")
	out.AddNewline()

	out.AddLine("#define RUNE_FIELD_INDEX_BITS      0x1F")
	out.AddLine("#define RUNE_NO_PARSER             0")
	out.AddLine("#define RUNE_TRANSPORT_TYPE_BITS   0xE0")
	out.AddLine("#define RUNE_VERIFICATION_FIELD    0x1F")
	out.AddNewline()

	out.AddLine("// Configuration dependent definitions")
	out.AddLine("// ————————————————————————————————————")
	out.AddNewline()

	out.AddLine("/* These definitions are based on the configurations passed by user to get code generator, such as packing, specific data sections, or other */")
	out.AddNewline()

	out.Addf("#define RUNIC_BITFIELD %s", attributeMacro(bitfieldAttributes))
	out.Addf("#define RUNIC_ENUM     %s", attributeMacro(enumAttributes))
	out.Addf("#define RUNIC_PARSER   %s", attributeMacro(parserAttributes))
	out.Addf("#define RUNIC_STRUCT   %s", attributeMacro(structAttributes))
	out.AddNewline()

	out.AddLine("// Message dependent definitions")
	out.AddLine("// ——————————————————————————————")
	out.AddNewline()

	out.AddLine("/* These definitions are dependent on the declared data, and will vary to adapt to accommodate the sizes of the declared data structures */")
	out.AddNewline()

	out.Addf("#define RUNE_FIELD_SIZE_TYPE   %s", fieldSizeType)
	out.Addf("#define RUNE_FIELD_OFFSET_TYPE %s", fieldOffsetType)
	out.Addf("#define RUNE_MESSAGE_SIZE_TYPE %s", messageSizeType)
	out.Addf("#define RUNE_PARSER_INDEX_TYPE %s", parserIndexType)
	out.AddNewline()

	out.AddLine("/** Defines whether and how metadata generated by the rune compiler should be packed optimized */")
	out.Addf("#define RUNIC_METADATA %s", attributeMacro(metadataAttributes))
	out.AddNewline()

	out.AddLine("/** Highest field index declared across all messages */")
	out.Addf("#define RUNE_LARGEST_FIELD_INDEX %d", sizing.LargestFieldIndex)
	out.AddNewline()

	out.AddLine("// Parsing array definitions")
	out.AddLine("// ——————————————————————————")
	out.AddNewline()

	structs := sortedStructs(files)

	out.AddLine("/** Number of struct pointers in the parser array */")
	out.Addf("#define RUNE_PARSER_COUNT %d", len(structs))
	out.AddNewline()

	longest := 0
	for _, def := range structs {
		if l := len(common.ToUpperSnakeCase(def.Name)); l > longest {
			longest = l
		}
	}

	for i, def := range structs {
		name := common.ToUpperSnakeCase(def.Name)
		out.Addf("#define RUNE_%s_PARSER_INDEX %s%d", name, common.Spaces(longest-len(name)), i+1)
	}
	out.AddNewline()

	out.AddLine("#endif // RUNIC_DEFINITIONS_H")

	return nil
}
