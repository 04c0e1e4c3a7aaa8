package log

import (
	"bytes"
	"fmt"
	"io"
)

// TextLog is the opaque sink codecs render layers to. Output is
// free-form text, not a stability contract. Lines are buffered and
// flushed to the underlying writer on NewLine, so one layer's rendering
// stays contiguous even when several workers log.
type TextLog struct {
	w   io.Writer
	buf bytes.Buffer
}

// NewTextLog wraps a writer. Pass the logger's writer or any io.Writer.
func NewTextLog(w io.Writer) *TextLog {
	return &TextLog{w: w}
}

// Print appends free-form text to the current line.
func (t *TextLog) Print(format string, args ...interface{}) {
	fmt.Fprintf(&t.buf, format, args...)
}

// NewLine terminates and flushes the current line.
func (t *TextLog) NewLine() {
	t.buf.WriteByte('\n')
	t.w.Write(t.buf.Bytes())
	t.buf.Reset()
}
