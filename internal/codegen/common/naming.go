package common

import "strings"

// ToSnakeCase converts a schema identifier to the snake_case form used for
// generated C type and variable names.
func ToSnakeCase(s string) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		isUpper := r >= 'A' && r <= 'Z'

		if i > 0 && isUpper {
			// Check if previous char is lowercase (e.g., "someWord" -> "some_word")
			prevIsLower := runes[i-1] >= 'a' && runes[i-1] <= 'z'

			// Check if next char is lowercase (e.g., "XMLParser" -> "xml_parser", not "x_m_l_parser")
			nextIsLower := i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z'

			if prevIsLower || nextIsLower {
				b.WriteByte('_')
			}
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}

// ToUpperSnakeCase converts a schema identifier to the SCREAMING_SNAKE_CASE
// form used for generated C macro names.
func ToUpperSnakeCase(s string) string {
	return strings.ToUpper(ToSnakeCase(s))
}

// GuardMacro converts a schema file name to a C include-guard macro,
// replacing anything that is not a valid macro character with an underscore.
func GuardMacro(fileName string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(fileName) {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// Spaces returns n spaces, used to column-align generated declarations.
func Spaces(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}
