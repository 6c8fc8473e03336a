package target

// Config carries the user-supplied generation options. It is immutable for
// the whole run; every layout and rendering decision reads from it.
type Config struct {
	Architecture Architecture
	Standard     Standard

	// PackData omits all alignment padding from generated structs, mirroring
	// compiler-level packed-attribute semantics.
	PackData bool

	// PackMetadata renders descriptor metadata fields with the smallest
	// sufficient fixed-width integer types instead of size_t.
	PackMetadata bool

	// Section, when non-empty, places descriptor tables in a named link
	// section.
	Section string

	// Sort enables the layout-optimizing member reordering. Disabled,
	// declaration order is used unmodified.
	Sort bool
}
