// Package cgen renders the loaded schema as C: per-file headers and
// descriptor sources, the shared definitions header and the parser source.
// Layout decisions come from the layout package; cgen only decides what the
// text looks like under the target standard.
package cgen

import (
	"fmt"
	"strconv"

	"github.com/NicolasDandanell/rune-c-compiler/internal/codegen/common"
	"github.com/NicolasDandanell/rune-c-compiler/internal/codegen/comperr"
	"github.com/NicolasDandanell/rune-c-compiler/internal/codegen/target"
	"github.com/NicolasDandanell/rune-c-compiler/schema"
)

// CType renders a primitive's C type name under the target standard. Below
// C99 the fixed-width spellings degrade to their K&R equivalents, and 64-bit
// integers cannot be guaranteed at all, failing with ErrStandardMismatch.
// 128-bit integers devolve into 16-byte arrays, rendered in subscript form.
func CType(p schema.Primitive, std target.Standard) (string, error) {
	fixed := std.AllowsFixedWidthIntegers()
	switch p {
	case schema.Bool:
		if std.AllowsBoolean() {
			return "bool", nil
		}
		return "char", nil
	case schema.Char:
		return "char", nil
	case schema.I8:
		if fixed {
			return "int8_t", nil
		}
		return "signed char", nil
	case schema.U8:
		if fixed {
			return "uint8_t", nil
		}
		return "unsigned char", nil
	case schema.I16:
		if fixed {
			return "int16_t", nil
		}
		return "signed short", nil
	case schema.U16:
		if fixed {
			return "uint16_t", nil
		}
		return "unsigned short", nil
	case schema.I32:
		if fixed {
			return "int32_t", nil
		}
		return "signed long", nil
	case schema.U32:
		if fixed {
			return "uint32_t", nil
		}
		return "unsigned long", nil
	case schema.I64, schema.U64:
		if fixed {
			if p == schema.I64 {
				return "int64_t", nil
			}
			return "uint64_t", nil
		}
		return "", fmt.Errorf("%w: %s requested under %s, which cannot guarantee 64-bit integers",
			comperr.ErrStandardMismatch, p, std)
	case schema.I128, schema.U128:
		if fixed {
			return "uint8_t[16]", nil
		}
		return "unsigned char[16]", nil
	case schema.F32:
		return "float", nil
	case schema.F64:
		return "double", nil
	default:
		return "", fmt.Errorf("%w: unknown primitive %d", comperr.ErrLogic, uint8(p))
	}
}

// CInitializer renders a primitive's zero initializer under the target
// standard.
func CInitializer(p schema.Primitive, std target.Standard) string {
	switch p {
	case schema.Bool:
		if std.AllowsBoolean() {
			return "false"
		}
		return "0"
	case schema.F32, schema.F64:
		return "0.0"
	case schema.I128, schema.U128:
		return "{ 0 }"
	default:
		return "0"
	}
}

func is128(p schema.Primitive) bool {
	return p == schema.I128 || p == schema.U128
}

// linkTypeName returns the generated typedef name of a linked definition.
func linkTypeName(link schema.UserDefinitionLink) (string, error) {
	var name string
	switch link.Kind {
	case schema.LinkBitfield:
		name = link.Bitfield.Name
	case schema.LinkEnum:
		name = link.Enum.Name
	case schema.LinkStruct:
		name = link.Struct.Name
	default:
		return "", fmt.Errorf("%w: unlinked type reference", comperr.ErrMalformedSchema)
	}
	return common.ToSnakeCase(name) + "_t", nil
}

func countExpr(size *schema.ArraySize) string {
	if size.Define != nil {
		return size.Define.Name
	}
	return strconv.FormatUint(size.Count, 10)
}

// memberDecl renders a member's declaration, without the trailing semicolon.
// 128-bit integers get the byte-array form, so their element type is always
// the 8-bit unsigned spelling.
func memberDecl(m schema.StructMember, std target.Standard) (string, error) {
	name := common.ToSnakeCase(m.Identifier)

	switch m.Type.Kind {
	case schema.FieldPrimitive:
		if is128(m.Type.Prim) {
			elem, err := CType(schema.U8, std)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%s %s[%d]", elem, name, m.Type.Prim.SizeInBytes()), nil
		}
		ctype, err := CType(m.Type.Prim, std)
		if err != nil {
			return "", err
		}
		return ctype + " " + name, nil

	case schema.FieldUserDefined:
		ctype, err := linkTypeName(m.Link)
		if err != nil {
			return "", fmt.Errorf("member %q: %w", m.Identifier, err)
		}
		return ctype + " " + name, nil

	case schema.FieldArray:
		elem := m.Type.Elem
		var ctype string
		var err error
		if elem.IsPrimitive() {
			if is128(elem.Prim) {
				return "", fmt.Errorf("%w: member %q is an array of 128-bit integers",
					comperr.ErrUnsupported, m.Identifier)
			}
			ctype, err = CType(elem.Prim, std)
		} else {
			ctype, err = linkTypeName(elem.Link)
		}
		if err != nil {
			return "", fmt.Errorf("member %q: %w", m.Identifier, err)
		}
		return fmt.Sprintf("%s %s[%s]", ctype, name, countExpr(m.Type.Count)), nil

	default:
		return "", fmt.Errorf("%w: declaration requested for empty field %q",
			comperr.ErrLogic, m.Identifier)
	}
}

// memberInitializer renders the zero value a member gets in an INIT macro.
// User-defined members defer to their own INIT macro, arrays initialize
// their first element and zero-fill the rest.
func memberInitializer(m schema.StructMember, std target.Standard) (string, error) {
	switch m.Type.Kind {
	case schema.FieldPrimitive:
		return CInitializer(m.Type.Prim, std), nil

	case schema.FieldUserDefined:
		name, err := linkName(m.Link)
		if err != nil {
			return "", fmt.Errorf("member %q: %w", m.Identifier, err)
		}
		return common.ToUpperSnakeCase(name) + "_INIT", nil

	case schema.FieldArray:
		elem := m.Type.Elem
		var inner string
		if elem.IsPrimitive() {
			if is128(elem.Prim) {
				inner = "0"
			} else {
				inner = CInitializer(elem.Prim, std)
			}
		} else {
			name, err := linkName(elem.Link)
			if err != nil {
				return "", fmt.Errorf("member %q: %w", m.Identifier, err)
			}
			inner = common.ToUpperSnakeCase(name) + "_INIT"
		}
		return fmt.Sprintf("{ %s }", inner), nil

	default:
		return "", fmt.Errorf("%w: initialization attempted for empty field %q",
			comperr.ErrLogic, m.Identifier)
	}
}

// linkName returns the schema-level name of a linked definition.
func linkName(link schema.UserDefinitionLink) (string, error) {
	switch link.Kind {
	case schema.LinkBitfield:
		return link.Bitfield.Name, nil
	case schema.LinkEnum:
		return link.Enum.Name, nil
	case schema.LinkStruct:
		return link.Struct.Name, nil
	default:
		return "", fmt.Errorf("%w: unlinked type reference", comperr.ErrMalformedSchema)
	}
}

// memberSizeExpr renders the C expression for a member's byte size, emitted
// into descriptor tables. Empty slots are plain 0.
func memberSizeExpr(m schema.StructMember, std target.Standard) (string, error) {
	switch m.Type.Kind {
	case schema.FieldEmpty:
		return "0", nil

	case schema.FieldPrimitive:
		ctype, err := CType(m.Type.Prim, std)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("sizeof(%s)", ctype), nil

	case schema.FieldUserDefined:
		ctype, err := linkTypeName(m.Link)
		if err != nil {
			return "", fmt.Errorf("member %q: %w", m.Identifier, err)
		}
		return fmt.Sprintf("sizeof(%s)", ctype), nil

	case schema.FieldArray:
		elem := m.Type.Elem
		var ctype string
		var err error
		if elem.IsPrimitive() {
			ctype, err = CType(elem.Prim, std)
		} else {
			ctype, err = linkTypeName(elem.Link)
		}
		if err != nil {
			return "", fmt.Errorf("member %q: %w", m.Identifier, err)
		}
		return fmt.Sprintf("(sizeof(%s) * %s)", ctype, countExpr(m.Type.Count)), nil

	default:
		return "", fmt.Errorf("%w: size expression requested for unknown field kind of %q",
			comperr.ErrLogic, m.Identifier)
	}
}
