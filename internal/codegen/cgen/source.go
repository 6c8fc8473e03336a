package cgen

import (
	"fmt"
	"strconv"

	"github.com/NicolasDandanell/rune-c-compiler/internal/codegen/common"
	"github.com/NicolasDandanell/rune-c-compiler/internal/codegen/comperr"
	"github.com/NicolasDandanell/rune-c-compiler/internal/codegen/layout"
	"github.com/NicolasDandanell/rune-c-compiler/internal/codegen/target"
	"github.com/NicolasDandanell/rune-c-compiler/schema"
)

// descriptor is the computed shape of one struct's runtime metadata table.
type descriptor struct {
	slots           []schema.StructMember
	flags           uint64
	hasVerification bool
	nested          []string
	highest         uint64
}

// buildDescriptor builds the dense slot table for a struct against its
// layout order. Every index up to the highest declared one gets exactly one
// slot; gaps become empty members the runtime skips by their zero size. The
// verifier member occupies slot 0.
func buildDescriptor(def *schema.StructDefinition, ordered []layout.Sized) (descriptor, error) {
	var d descriptor

	for _, m := range def.Members {
		if m.Index.IsVerifier() {
			d.hasVerification = true
		}
		if slot := m.Index.Slot(); slot > d.highest {
			d.highest = slot
		}
	}

	count := d.highest + 1
	d.slots = make([]schema.StructMember, 0, count)

	for i := uint64(0); i < count; i++ {
		slot, err := emptySlot(i)
		if err != nil {
			return descriptor{}, fmt.Errorf("struct %s: %w", def.Name, err)
		}

		for _, s := range ordered {
			if s.Member.Index.Slot() != i {
				continue
			}
			slot = s.Member

			// Nested messages need their own descriptor at parse time.
			if s.Member.Link.Kind == schema.LinkStruct {
				d.nested = append(d.nested, common.ToSnakeCase(s.Member.Link.Struct.Name))
				d.flags |= 1 << i
			}
		}

		d.slots = append(d.slots, slot)
	}

	return d, nil
}

func emptySlot(index uint64) (schema.StructMember, error) {
	idx, err := schema.NumericIndex(index)
	if err != nil {
		return schema.StructMember{}, fmt.Errorf("%w: %v", comperr.ErrLogic, err)
	}
	return schema.StructMember{
		Identifier: "(empty)",
		Type:       schema.FieldType{Kind: schema.FieldEmpty},
		Index:      idx,
	}, nil
}

// writeSource renders one schema file's C source: the descriptor table of
// every struct it declares.
func writeSource(out *OutputFile, file *schema.FileDescription, orders structOrders, std target.Standard, version string) error {
	writeBanner(out, version, file.Name)

	out.Addf("#include \"%s.rune.h\"", file.Name)
	out.AddNewline()

	out.AddLine("#include \"rune.h\"")

	if len(file.Structs) > 0 {
		out.AddNewline()
	}

	for _, def := range file.Structs {
		if err := writeStructDescriptor(out, def, orders[def], std); err != nil {
			return err
		}
	}

	return nil
}

// writeStructDescriptor renders one struct's nested-descriptor pointer array
// (when it links other messages) and its descriptor literal. Offsets are
// rendered as offsetof expressions against the layout order the header
// declared, so the compiled values always agree with the struct.
func writeStructDescriptor(out *OutputFile, def *schema.StructDefinition, ordered []layout.Sized, std target.Standard) error {
	name := common.ToSnakeCase(def.Name)

	d, err := buildDescriptor(def, ordered)
	if err != nil {
		return err
	}

	descriptorList := "NULL"

	if len(d.nested) > 0 {
		descriptorList = fmt.Sprintf("&%s_field_descriptors", name)

		out.Addf("const rune_descriptor_t* %s_field_descriptors[%d] = {", name, len(d.nested))
		for i, nested := range d.nested {
			comma := ","
			if i == len(d.nested)-1 {
				comma = ""
			}
			out.Addf("    &%s_descriptor%s", nested, comma)
		}
		out.AddLine("};")
		out.AddNewline()
	}

	// Below C99 every designator is kept as a comment so the positional
	// literal still documents which field it fills.
	commentStart, commentEnd, space := "", "", "    "
	commentSpacing := ""
	hasVerification := strconv.FormatBool(d.hasVerification)

	if !std.AllowsDesignatedInitializers() {
		commentStart, commentEnd, space = "/* ", " */", ""
		commentSpacing = "   "
		hasVerification = "0"
		if d.hasVerification {
			hasVerification = "1"
		}
	}

	count := len(d.slots)

	out.Addf("const rune_descriptor_t RUNIC_PARSER %s_descriptor = {", name)
	out.Addf("    %s.descriptor_flags     %s=%s 0b%0*b,", commentStart, space, commentEnd, count, d.flags)
	out.Addf("    %s.field_descriptors    %s=%s %s,", commentStart, space, commentEnd, descriptorList)
	out.Addf("    %s.size                 %s=%s sizeof(%s_t),", commentStart, space, commentEnd, name)
	out.Addf("    %s.largest_field        %s=%s %d,", commentStart, space, commentEnd, d.highest)
	out.Addf("    %s.parsing_data         %s=%s {", commentStart, space, commentEnd)
	out.Addf("    %s    .has_verification %s=%s %s,", commentStart, space, commentEnd, hasVerification)
	out.AddLine("    },")
	out.Addf("    %s.field_info           %s=%s {", commentStart, space, commentEnd)

	longest := 0
	for _, m := range d.slots {
		if l := len(common.ToSnakeCase(m.Identifier)); l > longest {
			longest = l
		}
	}

	for i, m := range d.slots {
		memberName := common.ToSnakeCase(m.Identifier)

		initChar := "."
		offset := fmt.Sprintf("offsetof(%s_t, %s)", name, memberName)
		if m.Type.Kind == schema.FieldEmpty {
			initChar = ""
			offset = "0"
		}

		verification := ""
		if d.hasVerification && i == 0 {
			verification = "Verifier field - "
		}

		size, err := memberSizeExpr(m, std)
		if err != nil {
			return fmt.Errorf("struct %s: %w", def.Name, err)
		}

		end := ","
		if i == count-1 {
			end = " "
		}

		out.Addf("    /*  %s%s%s%s: %s%d */ {", commentSpacing, initChar, memberName, common.Spaces(longest-len(memberName)), verification, i)
		out.Addf("    %s        .offset =%s %s,", commentStart, commentEnd, offset)
		out.Addf("    %s        .size   =%s %s,", commentStart, commentEnd, size)
		out.Addf("        }%s", end)
	}

	out.AddLine("    }")
	out.AddLine("};")

	return nil
}
