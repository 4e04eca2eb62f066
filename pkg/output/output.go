// Package output provides the append-only text sink that code generation
// writes into. A File collects lines under a current indent depth; callers
// never read it back until generation is finished.
package output

import (
	"fmt"
	"strings"
)

// IndentWidth is the default width used by File.Indent.
const IndentWidth = 2

// File is an in-memory generated source file. The zero value is not usable;
// construct with NewFile.
type File struct {
	name   string
	buf    strings.Builder
	indent int
}

// NewFile returns an empty File that will be written to the given path.
func NewFile(name string) *File {
	return &File{name: name}
}

// Name returns the output path the file will be written to.
func (f *File) Name() string {
	return f.name
}

// WriteLine appends one line at the current indent depth. Empty lines are
// emitted with no trailing indentation.
func (f *File) WriteLine(text string) {
	if text != "" {
		f.buf.WriteString(strings.Repeat(" ", f.indent))
		f.buf.WriteString(text)
	}
	f.buf.WriteByte('\n')
}

// WriteLinef appends one formatted line at the current indent depth.
func (f *File) WriteLinef(format string, args ...any) {
	f.WriteLine(fmt.Sprintf(format, args...))
}

// Indent deepens the indent by the given width (IndentWidth when omitted) and
// returns a restore function. Defer the restore so the prior depth comes back
// on every exit path, including panics.
//
//	done := out.Indent()
//	defer done()
func (f *File) Indent(width ...int) func() {
	amount := IndentWidth
	if len(width) > 0 {
		amount = width[0]
	}

	prior := f.indent
	f.indent += amount
	return func() { f.indent = prior }
}

// String returns everything written so far.
func (f *File) String() string {
	return f.buf.String()
}

// Bytes returns everything written so far.
func (f *File) Bytes() []byte {
	return []byte(f.buf.String())
}
