// Package schema holds the parsed rune schema model consumed by the
// generator, plus the loader for the serialized schema documents produced by
// the external rune parser. All definitions are read-only inputs once loaded;
// the generator derives sorted orders, sizes and descriptor tables as fresh
// values and never mutates the schema.
package schema

import (
	"errors"
	"fmt"
)

// ErrUnresolvedReference reports a user-defined type or define reference that
// matches no loaded definition.
var ErrUnresolvedReference = errors.New("unresolved type reference")

// Primitive is one of the closed set of builtin rune field types.
type Primitive uint8

const (
	Bool Primitive = iota
	Char
	I8
	U8
	I16
	U16
	I32
	U32
	I64
	U64
	I128
	U128
	F32
	F64
)

var primitiveNames = map[Primitive]string{
	Bool: "bool", Char: "char",
	I8: "i8", U8: "u8", I16: "i16", U16: "u16", I32: "i32", U32: "u32",
	I64: "i64", U64: "u64", I128: "i128", U128: "u128",
	F32: "f32", F64: "f64",
}

var primitivesByName = func() map[string]Primitive {
	m := make(map[string]Primitive, len(primitiveNames))
	for p, s := range primitiveNames {
		m[s] = p
	}
	return m
}()

func (p Primitive) String() string {
	if s, ok := primitiveNames[p]; ok {
		return s
	}
	return fmt.Sprintf("Primitive(%d)", uint8(p))
}

// ParsePrimitive resolves a schema type name to a Primitive.
func ParsePrimitive(name string) (Primitive, bool) {
	p, ok := primitivesByName[name]
	return p, ok
}

// SizeInBytes returns the fixed byte size of the primitive. 128-bit variants
// occupy 16 bytes regardless of standard, since they are always represented
// as byte arrays.
func (p Primitive) SizeInBytes() uint64 {
	switch p {
	case Bool, Char, I8, U8:
		return 1
	case I16, U16:
		return 2
	case I32, U32, F32:
		return 4
	case I64, U64, F64:
		return 8
	case I128, U128:
		return 16
	default:
		return 0
	}
}

// IsInteger reports whether the primitive is a signed or unsigned integer,
// the only legal backing types for bitfields and enums.
func (p Primitive) IsInteger() bool {
	switch p {
	case I8, U8, I16, U16, I32, U32, I64, U64, I128, U128:
		return true
	default:
		return false
	}
}

// IsSigned reports whether an integer primitive is signed.
func (p Primitive) IsSigned() bool {
	switch p {
	case I8, I16, I32, I64, I128:
		return true
	default:
		return false
	}
}

// SignedVariant returns the signed integer of the same width. Non-integer
// primitives are returned unchanged.
func (p Primitive) SignedVariant() Primitive {
	switch p {
	case U8:
		return I8
	case U16:
		return I16
	case U32:
		return I32
	case U64:
		return I64
	case U128:
		return I128
	default:
		return p
	}
}

// UnsignedVariant returns the unsigned integer of the same width. Non-integer
// primitives are returned unchanged.
func (p Primitive) UnsignedVariant() Primitive {
	switch p {
	case I8:
		return U8
	case I16:
		return U16
	case I32:
		return U32
	case I64:
		return U64
	case I128:
		return U128
	default:
		return p
	}
}

// FieldKind discriminates FieldType variants.
type FieldKind uint8

const (
	// FieldEmpty is a placeholder for an undeclared descriptor slot. It
	// never appears in parsed schema input and always has size 0.
	FieldEmpty FieldKind = iota
	FieldPrimitive
	FieldUserDefined
	FieldArray
)

// FieldType describes the declared type of a struct member.
type FieldType struct {
	Kind FieldKind

	// Prim is set for FieldPrimitive.
	Prim Primitive

	// Name is the referenced definition name for FieldUserDefined.
	Name string

	// Elem and Count are set for FieldArray.
	Elem  *ArrayType
	Count *ArraySize
}

// PrimitiveType is a convenience constructor for a primitive field type.
func PrimitiveType(p Primitive) FieldType {
	return FieldType{Kind: FieldPrimitive, Prim: p}
}

// ArrayType is an array's element type: a primitive, or a user-defined
// reference resolved through Link.
type ArrayType struct {
	Prim Primitive
	Name string
	Link UserDefinitionLink
}

// IsPrimitive reports whether the element is a builtin type.
func (a *ArrayType) IsPrimitive() bool { return a.Name == "" }

// ArraySize is an array's element count: a positive integer literal, or a
// reference to a define resolved through Define.
type ArraySize struct {
	Count  uint64
	Name   string
	Define *DefineDefinition
}

// LinkKind discriminates what a user-defined reference resolved to. An
// unlinked reference reaching the generator is a malformed-schema defect,
// never recovered from.
type LinkKind uint8

const (
	LinkNone LinkKind = iota
	LinkBitfield
	LinkEnum
	LinkStruct
)

// UserDefinitionLink resolves a UserDefined reference to exactly one
// definition.
type UserDefinitionLink struct {
	Kind     LinkKind
	Bitfield *BitfieldDefinition
	Enum     *EnumDefinition
	Struct   *StructDefinition
}

// IsLinked reports whether the reference was resolved.
func (l UserDefinitionLink) IsLinked() bool { return l.Kind != LinkNone }

// LinkToBitfield builds a resolved link to a bitfield definition.
func LinkToBitfield(d *BitfieldDefinition) UserDefinitionLink {
	return UserDefinitionLink{Kind: LinkBitfield, Bitfield: d}
}

// LinkToEnum builds a resolved link to an enum definition.
func LinkToEnum(d *EnumDefinition) UserDefinitionLink {
	return UserDefinitionLink{Kind: LinkEnum, Enum: d}
}

// LinkToStruct builds a resolved link to a struct definition.
func LinkToStruct(d *StructDefinition) UserDefinitionLink {
	return UserDefinitionLink{Kind: LinkStruct, Struct: d}
}

// VerificationFieldIndex is the reserved field index of the verifier slot.
const VerificationFieldIndex uint64 = 0x1F

// FieldIndex is a struct member's wire slot: a numeric index 0-31, or the
// distinguished verifier slot.
type FieldIndex struct {
	verifier bool
	value    uint8
}

// NumericIndex builds a field index; values above 31 are invalid by
// construction.
func NumericIndex(value uint64) (FieldIndex, error) {
	if value > 31 {
		return FieldIndex{}, fmt.Errorf("field index %d out of range 0-31", value)
	}
	return FieldIndex{value: uint8(value)}, nil
}

// VerifierIndex builds the verifier field index.
func VerifierIndex() FieldIndex {
	return FieldIndex{verifier: true}
}

// IsVerifier reports whether this is the verifier slot.
func (i FieldIndex) IsVerifier() bool { return i.verifier }

// Value returns the numeric wire value of the index; the verifier slot
// occupies the reserved value 0x1F.
func (i FieldIndex) Value() uint64 {
	if i.verifier {
		return VerificationFieldIndex
	}
	return uint64(i.value)
}

// Slot returns the descriptor table slot of the index. The verifier is
// always stored in slot 0.
func (i FieldIndex) Slot() uint64 {
	if i.verifier {
		return 0
	}
	return uint64(i.value)
}

// StructMember is one declared field of a struct definition.
type StructMember struct {
	Identifier string
	Type       FieldType
	Index      FieldIndex

	// Link resolves the member's user-defined reference, whether the type is
	// a direct reference or an array of one.
	Link    UserDefinitionLink
	Comment string
}

// StructDefinition is a message struct. Declaration order of Members is not
// layout order; the layout engine computes the emitted order.
type StructDefinition struct {
	Name    string
	Members []StructMember
	Comment string
}

// BitSize is a bitfield member's declared width and signedness.
type BitSize struct {
	Signed bool
	Bits   uint64
}

// BitfieldMember is one declared field of a bitfield definition.
type BitfieldMember struct {
	Identifier string
	Size       BitSize
	Index      uint64
	Comment    string
}

// BitfieldDefinition is a fixed-width bit-packed record over an integer
// backing type.
type BitfieldDefinition struct {
	Name    string
	Backing Primitive
	Members []BitfieldMember
	Comment string
}

// EnumMember is one enumerator of an enum definition.
type EnumMember struct {
	Identifier string
	Value      NumericLiteral
	Comment    string
}

// EnumDefinition is an enumeration over an integer backing type.
type EnumDefinition struct {
	Name    string
	Backing Primitive
	Members []EnumMember
	Comment string
}

// DefineDefinition is a named constant. Redefinition, when present, carries
// a later override of the value and wins everywhere the value is used.
type DefineDefinition struct {
	Name         string
	Value        *NumericLiteral
	Redefinition *NumericLiteral
	Comment      string
}

// EffectiveValue returns the redefined value when present, the declared
// value otherwise. Nil for value-less flag defines.
func (d *DefineDefinition) EffectiveValue() *NumericLiteral {
	if d.Redefinition != nil {
		return d.Redefinition
	}
	return d.Value
}

// IncludeDefinition references another rune schema file whose generated
// header must be included.
type IncludeDefinition struct {
	File    string
	Comment string
}

// Definitions holds the ordered declaration lists of one schema file.
type Definitions struct {
	Defines   []*DefineDefinition
	Includes  []IncludeDefinition
	Enums     []*EnumDefinition
	Bitfields []*BitfieldDefinition
	Structs   []*StructDefinition
}

// FileDescription is one schema file: its name, its output path relative to
// the output root, and its declarations.
type FileDescription struct {
	Name         string
	RelativePath string
	Definitions
}
