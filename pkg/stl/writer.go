package stl

import (
	"bufio"
	"fmt"
	"io"

	"github.com/philipparndt/stlsplit/pkg/geometry"
)

// Writer emits ASCII STL. Several solids may be written to the same
// stream; they are concatenated as independent solid/endsolid blocks.
type Writer struct {
	w   *bufio.Writer
	err error
}

// NewWriter wraps w in a buffered ASCII STL writer
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// WriteSolid writes one solid block. Vertices keep their stored winding
// and every number is printed with %e (six fractional digits). Names
// rejected by ValidateName are not written.
func (w *Writer) WriteSolid(m *Model) error {
	if err := ValidateName(m.Name); err != nil {
		return err
	}
	w.printf("solid %s\n", m.Name)
	for _, t := range m.Triangles {
		w.printf("  facet normal %e %e %e\n", t.Normal.X, t.Normal.Y, t.Normal.Z)
		w.printf("    outer loop\n")
		for _, v := range t.Vertices() {
			w.vertex(v)
		}
		w.printf("    endloop\n")
		w.printf("  endfacet\n")
	}
	w.printf("endsolid %s\n", m.Name)
	return w.err
}

// Flush writes buffered data to the underlying writer
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	w.err = w.w.Flush()
	return w.err
}

func (w *Writer) vertex(v geometry.Vector3) {
	w.printf("      vertex %e %e %e\n", v.X, v.Y, v.Z)
}

func (w *Writer) printf(format string, args ...any) {
	if w.err != nil {
		return
	}
	_, w.err = fmt.Fprintf(w.w, format, args...)
}

// WriteASCII writes all solids to w and flushes
func WriteASCII(w io.Writer, solids ...*Model) error {
	sw := NewWriter(w)
	for _, s := range solids {
		if err := sw.WriteSolid(s); err != nil {
			return fmt.Errorf("failed to write solid %q: %w", s.Name, err)
		}
	}
	return sw.Flush()
}
