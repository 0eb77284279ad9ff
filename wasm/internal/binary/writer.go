package binary

import "encoding/binary"

// Writer appends module encodings to a growing buffer. It is only used to
// build fixtures, so it never fails.
type Writer struct {
	b []byte
}

func NewWriter() *Writer { return &Writer{} }

// Bytes returns the encoding so far. The slice aliases the writer.
func (w *Writer) Bytes() []byte { return w.b }

func (w *Writer) Byte(c byte) { w.b = append(w.b, c) }

func (w *Writer) WriteBytes(p []byte) { w.b = append(w.b, p...) }

// WriteU32 appends v as unsigned LEB128, which is the uvarint encoding.
func (w *Writer) WriteU32(v uint32) { w.b = binary.AppendUvarint(w.b, uint64(v)) }

// WriteU32LE appends v as four little-endian bytes, as in the preamble.
func (w *Writer) WriteU32LE(v uint32) { w.b = binary.LittleEndian.AppendUint32(w.b, v) }

// WriteName appends a length-prefixed name.
func (w *Writer) WriteName(s string) {
	w.WriteU32(uint32(len(s)))
	w.b = append(w.b, s...)
}

// WriteSection appends a section id, the body size and the body.
func (w *Writer) WriteSection(id byte, body []byte) {
	w.Byte(id)
	w.WriteU32(uint32(len(body)))
	w.WriteBytes(body)
}
