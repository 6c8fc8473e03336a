package cgen

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/NicolasDandanell/rune-c-compiler/internal/codegen/comperr"
)

// OutputFile buffers generated text as ordered lines and writes it out in one
// piece, so a failed run never leaves a partially written file behind.
type OutputFile struct {
	dir  string
	name string
	buf  strings.Builder
}

// NewOutputFile prepares a buffered file at dir/name. Nothing touches the
// file system until Flush.
func NewOutputFile(dir, name string) *OutputFile {
	return &OutputFile{dir: dir, name: name}
}

// AddLine appends one line of output.
func (o *OutputFile) AddLine(line string) {
	o.buf.WriteString(line)
	o.buf.WriteByte('\n')
}

// Addf appends one formatted line of output.
func (o *OutputFile) Addf(format string, args ...any) {
	fmt.Fprintf(&o.buf, format, args...)
	o.buf.WriteByte('\n')
}

// AddNewline appends an empty line.
func (o *OutputFile) AddNewline() {
	o.buf.WriteByte('\n')
}

// Path returns the destination path of the file.
func (o *OutputFile) Path() string {
	return filepath.Join(o.dir, o.name)
}

// String returns the buffered content.
func (o *OutputFile) String() string {
	return o.buf.String()
}

// Flush creates the parent directories and writes the buffered content,
// replacing any previous file.
func (o *OutputFile) Flush() error {
	if err := os.MkdirAll(o.dir, 0o755); err != nil {
		return fmt.Errorf("%w: create %s: %v", comperr.ErrFileSystem, o.dir, err)
	}
	if err := os.WriteFile(o.Path(), []byte(o.buf.String()), 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", comperr.ErrFileSystem, o.Path(), err)
	}
	return nil
}
