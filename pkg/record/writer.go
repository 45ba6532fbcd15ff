package record

import (
	"bufio"
	"io"
	"strconv"

	"github.com/aretw0/eio/pkg/domain"
)

// Writer serializes tokens to one stream.
// The first write error is kept and returned by every later Flush.
type Writer struct {
	kind domain.StreamKind
	bw   *bufio.Writer
	err  error
}

// NewWriter creates a Writer for the given stream kind.
func NewWriter(kind domain.StreamKind, w io.Writer) *Writer {
	return &Writer{kind: kind, bw: bufio.NewWriter(w)}
}

// Kind returns the stream kind this writer serializes.
func (w *Writer) Kind() domain.StreamKind {
	return w.kind
}

func (w *Writer) write(s string) *Writer {
	if w.err != nil {
		return w
	}
	_, w.err = w.bw.WriteString(s)
	return w
}

// Int writes v followed by a space.
func (w *Writer) Int(v int) *Writer {
	return w.write(strconv.Itoa(v) + " ")
}

// Ints writes each value followed by a space.
func (w *Writer) Ints(vs []int) *Writer {
	for _, v := range vs {
		w.Int(v)
	}
	return w
}

// Float writes v in shortest round-trip form followed by a space.
func (w *Writer) Float(v float64) *Writer {
	return w.write(FormatFloat(v) + " ")
}

// Floats writes each value followed by a space.
func (w *Writer) Floats(vs []float64) *Writer {
	for _, v := range vs {
		w.Float(v)
	}
	return w
}

// Joined writes the values separated by single spaces, without a trailing space.
func (w *Writer) Joined(vs ...int) *Writer {
	for i, v := range vs {
		if i > 0 {
			w.write(" ")
		}
		w.write(strconv.Itoa(v))
	}
	return w
}

// EOL terminates the current line.
func (w *Writer) EOL() *Writer {
	return w.write("\n")
}

// Flush pushes buffered tokens to the stream and returns the first error seen.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	w.err = w.bw.Flush()
	return w.err
}

// FormatFloat renders a double the way it is persisted.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
