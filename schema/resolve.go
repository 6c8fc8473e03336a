package schema

import "fmt"

// Resolve links every user-defined type reference and named array size across
// the given files. Names form one global namespace, as established by the
// external parser's linker; a reference that matches nothing fails with
// ErrUnresolvedReference.
func Resolve(files []*FileDescription) error {
	structs := map[string]*StructDefinition{}
	enums := map[string]*EnumDefinition{}
	bitfields := map[string]*BitfieldDefinition{}
	defines := map[string]*DefineDefinition{}

	for _, file := range files {
		for _, s := range file.Structs {
			structs[s.Name] = s
		}
		for _, e := range file.Enums {
			enums[e.Name] = e
		}
		for _, b := range file.Bitfields {
			bitfields[b.Name] = b
		}
		for _, d := range file.Defines {
			defines[d.Name] = d
		}
	}

	link := func(name string) (UserDefinitionLink, bool) {
		if s, ok := structs[name]; ok {
			return LinkToStruct(s), true
		}
		if e, ok := enums[name]; ok {
			return LinkToEnum(e), true
		}
		if b, ok := bitfields[name]; ok {
			return LinkToBitfield(b), true
		}
		return UserDefinitionLink{}, false
	}

	for _, file := range files {
		for _, s := range file.Structs {
			for i := range s.Members {
				member := &s.Members[i]
				switch member.Type.Kind {
				case FieldUserDefined:
					l, ok := link(member.Type.Name)
					if !ok {
						return fmt.Errorf("%w: %s.%s references %q",
							ErrUnresolvedReference, s.Name, member.Identifier, member.Type.Name)
					}
					member.Link = l

				case FieldArray:
					if elem := member.Type.Elem; !elem.IsPrimitive() {
						l, ok := link(elem.Name)
						if !ok {
							return fmt.Errorf("%w: %s.%s references %q",
								ErrUnresolvedReference, s.Name, member.Identifier, elem.Name)
						}
						elem.Link = l
						member.Link = l
					}
					if size := member.Type.Count; size.Name != "" {
						d, ok := defines[size.Name]
						if !ok {
							return fmt.Errorf("%w: %s.%s array size references define %q",
								ErrUnresolvedReference, s.Name, member.Identifier, size.Name)
						}
						size.Define = d
					}
				}
			}
		}
	}

	return nil
}
