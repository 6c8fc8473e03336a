package schema

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	yaml "gopkg.in/yaml.v3"
)

// Schema documents are the serialized output of the external rune parser, one
// document per schema file, as {name}.rune.json or {name}.rune.yaml. The
// parser has already validated and cross-referenced the source; the loader
// only decodes documents and re-links references by name, since serialized
// documents cannot carry pointers.

type fileDoc struct {
	Defines   []defineDoc   `json:"defines" yaml:"defines"`
	Includes  []includeDoc  `json:"includes" yaml:"includes"`
	Enums     []enumDoc     `json:"enums" yaml:"enums"`
	Bitfields []bitfieldDoc `json:"bitfields" yaml:"bitfields"`
	Structs   []structDoc   `json:"structs" yaml:"structs"`
}

type defineDoc struct {
	Name         string      `json:"name" yaml:"name"`
	Value        *literalDoc `json:"value,omitempty" yaml:"value,omitempty"`
	Redefinition *literalDoc `json:"redefinition,omitempty" yaml:"redefinition,omitempty"`
	Comment      string      `json:"comment,omitempty" yaml:"comment,omitempty"`
}

type includeDoc struct {
	File    string `json:"file" yaml:"file"`
	Comment string `json:"comment,omitempty" yaml:"comment,omitempty"`
}

type literalDoc struct {
	Type  string  `json:"type" yaml:"type"`
	Bool  bool    `json:"bool,omitempty" yaml:"bool,omitempty"`
	Uint  uint64  `json:"uint,omitempty" yaml:"uint,omitempty"`
	Int   int64   `json:"int,omitempty" yaml:"int,omitempty"`
	Float float64 `json:"float,omitempty" yaml:"float,omitempty"`
	Base  int     `json:"base,omitempty" yaml:"base,omitempty"`
}

type enumDoc struct {
	Name    string          `json:"name" yaml:"name"`
	Backing string          `json:"backing" yaml:"backing"`
	Members []enumMemberDoc `json:"members" yaml:"members"`
	Comment string          `json:"comment,omitempty" yaml:"comment,omitempty"`
}

type enumMemberDoc struct {
	Name    string     `json:"name" yaml:"name"`
	Value   literalDoc `json:"value" yaml:"value"`
	Comment string     `json:"comment,omitempty" yaml:"comment,omitempty"`
}

type bitfieldDoc struct {
	Name    string              `json:"name" yaml:"name"`
	Backing string              `json:"backing" yaml:"backing"`
	Members []bitfieldMemberDoc `json:"members" yaml:"members"`
	Comment string              `json:"comment,omitempty" yaml:"comment,omitempty"`
}

type bitfieldMemberDoc struct {
	Name    string `json:"name" yaml:"name"`
	Bits    uint64 `json:"bits" yaml:"bits"`
	Signed  bool   `json:"signed,omitempty" yaml:"signed,omitempty"`
	Index   uint64 `json:"index" yaml:"index"`
	Comment string `json:"comment,omitempty" yaml:"comment,omitempty"`
}

type structDoc struct {
	Name    string            `json:"name" yaml:"name"`
	Members []structMemberDoc `json:"members" yaml:"members"`
	Comment string            `json:"comment,omitempty" yaml:"comment,omitempty"`
}

type structMemberDoc struct {
	Name    string   `json:"name" yaml:"name"`
	Type    typeDoc  `json:"type" yaml:"type"`
	Index   indexDoc `json:"index" yaml:"index"`
	Comment string   `json:"comment,omitempty" yaml:"comment,omitempty"`
}

type typeDoc struct {
	Kind        string   `json:"kind" yaml:"kind"`
	Primitive   string   `json:"primitive,omitempty" yaml:"primitive,omitempty"`
	Name        string   `json:"name,omitempty" yaml:"name,omitempty"`
	Element     *typeDoc `json:"element,omitempty" yaml:"element,omitempty"`
	Count       uint64   `json:"count,omitempty" yaml:"count,omitempty"`
	CountDefine string   `json:"count_define,omitempty" yaml:"count_define,omitempty"`
}

// indexDoc decodes a field index, which is either a number or the string
// "verifier".
type indexDoc struct {
	verifier bool
	value    uint64
}

func (d *indexDoc) UnmarshalJSON(data []byte) error {
	if string(data) == `"verifier"` {
		d.verifier = true
		return nil
	}
	return json.Unmarshal(data, &d.value)
}

func (d *indexDoc) UnmarshalYAML(node *yaml.Node) error {
	if node.Value == "verifier" {
		d.verifier = true
		return nil
	}
	return node.Decode(&d.value)
}

var docSuffixes = []string{".rune.json", ".rune.yaml", ".rune.yml"}

// LoadDir loads every schema document under root (recursively), derives each
// file's name and relative output path from its location, and resolves all
// cross-file references. The returned files are ordered by path.
func LoadDir(root string) ([]*FileDescription, error) {
	var files []*FileDescription

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		suffix := docSuffix(entry.Name())
		if suffix == "" {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		var doc fileDoc
		if suffix == ".rune.json" {
			err = json.Unmarshal(data, &doc)
		} else {
			err = yaml.Unmarshal(data, &doc)
		}
		if err != nil {
			return fmt.Errorf("decode %s: %w", path, err)
		}

		rel, err := filepath.Rel(root, filepath.Dir(path))
		if err != nil {
			return err
		}
		if rel == "." {
			rel = ""
		}

		file, err := buildFile(strings.TrimSuffix(entry.Name(), suffix), filepath.ToSlash(rel), &doc)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		files = append(files, file)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := Resolve(files); err != nil {
		return nil, err
	}
	return files, nil
}

func docSuffix(name string) string {
	for _, s := range docSuffixes {
		if strings.HasSuffix(name, s) {
			return s
		}
	}
	return ""
}

func buildFile(name, relativePath string, doc *fileDoc) (*FileDescription, error) {
	file := &FileDescription{Name: name, RelativePath: relativePath}

	for _, d := range doc.Defines {
		def := &DefineDefinition{Name: d.Name, Comment: d.Comment}
		if d.Value != nil {
			value, err := buildLiteral(*d.Value)
			if err != nil {
				return nil, fmt.Errorf("define %s: %w", d.Name, err)
			}
			def.Value = &value
		}
		if d.Redefinition != nil {
			value, err := buildLiteral(*d.Redefinition)
			if err != nil {
				return nil, fmt.Errorf("define %s redefinition: %w", d.Name, err)
			}
			def.Redefinition = &value
		}
		file.Defines = append(file.Defines, def)
	}

	for _, i := range doc.Includes {
		file.Includes = append(file.Includes, IncludeDefinition{File: i.File, Comment: i.Comment})
	}

	for _, e := range doc.Enums {
		backing, ok := ParsePrimitive(e.Backing)
		if !ok {
			return nil, fmt.Errorf("enum %s: unknown backing type %q", e.Name, e.Backing)
		}
		def := &EnumDefinition{Name: e.Name, Backing: backing, Comment: e.Comment}
		for _, m := range e.Members {
			value, err := buildLiteral(m.Value)
			if err != nil {
				return nil, fmt.Errorf("enum %s member %s: %w", e.Name, m.Name, err)
			}
			def.Members = append(def.Members, EnumMember{Identifier: m.Name, Value: value, Comment: m.Comment})
		}
		file.Enums = append(file.Enums, def)
	}

	for _, b := range doc.Bitfields {
		backing, ok := ParsePrimitive(b.Backing)
		if !ok {
			return nil, fmt.Errorf("bitfield %s: unknown backing type %q", b.Name, b.Backing)
		}
		def := &BitfieldDefinition{Name: b.Name, Backing: backing, Comment: b.Comment}
		for _, m := range b.Members {
			def.Members = append(def.Members, BitfieldMember{
				Identifier: m.Name,
				Size:       BitSize{Signed: m.Signed, Bits: m.Bits},
				Index:      m.Index,
				Comment:    m.Comment,
			})
		}
		file.Bitfields = append(file.Bitfields, def)
	}

	for _, s := range doc.Structs {
		def := &StructDefinition{Name: s.Name, Comment: s.Comment}
		for _, m := range s.Members {
			fieldType, err := buildFieldType(m.Type)
			if err != nil {
				return nil, fmt.Errorf("struct %s member %s: %w", s.Name, m.Name, err)
			}
			index := VerifierIndex()
			if !m.Index.verifier {
				index, err = NumericIndex(m.Index.value)
				if err != nil {
					return nil, fmt.Errorf("struct %s member %s: %w", s.Name, m.Name, err)
				}
			}
			def.Members = append(def.Members, StructMember{
				Identifier: m.Name,
				Type:       fieldType,
				Index:      index,
				Comment:    m.Comment,
			})
		}
		file.Structs = append(file.Structs, def)
	}

	return file, nil
}

func buildLiteral(doc literalDoc) (NumericLiteral, error) {
	lit := NumericLiteral{Base: doc.Base}
	if lit.Base == 0 {
		lit.Base = 10
	}
	switch doc.Type {
	case "bool":
		lit.Kind = LiteralBool
		lit.Bool = doc.Bool
	case "uint":
		lit.Kind = LiteralUint
		lit.Uint = doc.Uint
	case "int":
		lit.Kind = LiteralInt
		lit.Int = doc.Int
	case "float":
		lit.Kind = LiteralFloat
		lit.Float = doc.Float
	default:
		return lit, fmt.Errorf("unknown literal type %q", doc.Type)
	}
	return lit, nil
}

func buildFieldType(doc typeDoc) (FieldType, error) {
	switch doc.Kind {
	case "primitive":
		p, ok := ParsePrimitive(doc.Primitive)
		if !ok {
			return FieldType{}, fmt.Errorf("unknown primitive %q", doc.Primitive)
		}
		return FieldType{Kind: FieldPrimitive, Prim: p}, nil

	case "user":
		if doc.Name == "" {
			return FieldType{}, fmt.Errorf("user-defined type reference without a name")
		}
		return FieldType{Kind: FieldUserDefined, Name: doc.Name}, nil

	case "array":
		if doc.Element == nil {
			return FieldType{}, fmt.Errorf("array without an element type")
		}
		elem := &ArrayType{}
		switch doc.Element.Kind {
		case "primitive":
			p, ok := ParsePrimitive(doc.Element.Primitive)
			if !ok {
				return FieldType{}, fmt.Errorf("unknown primitive %q", doc.Element.Primitive)
			}
			elem.Prim = p
		case "user":
			if doc.Element.Name == "" {
				return FieldType{}, fmt.Errorf("user-defined element type without a name")
			}
			elem.Name = doc.Element.Name
		default:
			return FieldType{}, fmt.Errorf("invalid array element kind %q", doc.Element.Kind)
		}
		size := &ArraySize{Count: doc.Count, Name: doc.CountDefine}
		return FieldType{Kind: FieldArray, Elem: elem, Count: size}, nil

	default:
		return FieldType{}, fmt.Errorf("unknown field type kind %q", doc.Kind)
	}
}
