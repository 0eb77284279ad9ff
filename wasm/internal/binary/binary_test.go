package binary

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestReaderReadByte(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03}
	r := NewReader(data)

	for i, want := range data {
		if r.Position() != i {
			t.Errorf("position before read %d: got %d, want %d", i, r.Position(), i)
		}
		b, err := r.ReadByte()
		if err != nil {
			t.Fatalf("ReadByte %d: %v", i, err)
		}
		if b != want {
			t.Errorf("ReadByte %d: got 0x%02x, want 0x%02x", i, b, want)
		}
	}

	if r.Position() != 3 {
		t.Errorf("final position: got %d, want 3", r.Position())
	}

	_, err := r.ReadByte()
	if !errors.Is(err, io.EOF) {
		t.Errorf("expected EOF, got %v", err)
	}
}

func TestReaderReadBytes(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04, 0x05}
	r := NewReader(data)

	got, err := r.ReadBytes(3)
	if err != nil {
		t.Fatalf("ReadBytes: %v", err)
	}
	if !bytes.Equal(got, []byte{0x01, 0x02, 0x03}) {
		t.Errorf("ReadBytes: got %v, want [1 2 3]", got)
	}
	if r.Position() != 3 {
		t.Errorf("position: got %d, want 3", r.Position())
	}

	_, err = r.ReadBytes(10)
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("expected ErrUnexpectedEOF reading past end, got %v", err)
	}
	if r.Position() != 3 {
		t.Errorf("failed read moved position to %d", r.Position())
	}
}

func TestReaderReadBytesDoesNotGrowCapacity(t *testing.T) {
	r := NewReader([]byte{1, 2, 3, 4})
	got, err := r.ReadBytes(2)
	if err != nil {
		t.Fatal(err)
	}
	if cap(got) != 2 {
		t.Errorf("cap = %d, want 2 so appends cannot clobber the input", cap(got))
	}
}

func TestReaderSub(t *testing.T) {
	r := NewReader([]byte{0xAA, 0x01, 0x02, 0x03, 0xBB})
	if _, err := r.ReadByte(); err != nil {
		t.Fatal(err)
	}

	sub, err := r.Sub(3)
	if err != nil {
		t.Fatalf("Sub: %v", err)
	}
	if sub.Position() != 1 {
		t.Errorf("sub position: got %d, want 1", sub.Position())
	}
	if sub.Len() != 3 {
		t.Errorf("sub len: got %d, want 3", sub.Len())
	}
	if _, err := sub.ReadBytes(4); err == nil {
		t.Error("sub reader read past its bound")
	}

	b, err := r.ReadByte()
	if err != nil || b != 0xBB {
		t.Errorf("parent after Sub: got 0x%02x, %v", b, err)
	}

	if _, err := r.Sub(1); err == nil {
		t.Error("expected error carving past end")
	}
}

func TestReaderReadU32(t *testing.T) {
	tests := []struct {
		encoded []byte
		want    uint32
	}{
		{[]byte{0x00}, 0},
		{[]byte{0x01}, 1},
		{[]byte{0x7f}, 127},
		{[]byte{0x80, 0x01}, 128},
		{[]byte{0xff, 0x01}, 255},
		{[]byte{0xe5, 0x8e, 0x26}, 624485},
		{[]byte{0xff, 0xff, 0xff, 0xff, 0x0f}, 0xFFFFFFFF},
	}

	for _, tt := range tests {
		r := NewReader(tt.encoded)
		got, err := r.ReadU32()
		if err != nil {
			t.Errorf("ReadU32(%v): %v", tt.encoded, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ReadU32(%v): got %d, want %d", tt.encoded, got, tt.want)
		}
	}
}

func TestReaderReadU32Overflow(t *testing.T) {
	r := NewReader([]byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x01})
	_, err := r.ReadU32()
	if !errors.Is(err, ErrOverflow) {
		t.Errorf("expected ErrOverflow, got %v", err)
	}
}

func TestReaderReadU32Truncated(t *testing.T) {
	r := NewReader([]byte{0x80, 0x80})
	_, err := r.ReadU32()
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("expected ErrUnexpectedEOF, got %v", err)
	}

	r = NewReader(nil)
	_, err = r.ReadU32()
	if !errors.Is(err, io.EOF) {
		t.Errorf("expected EOF on empty input, got %v", err)
	}
}

func TestReaderReadU64(t *testing.T) {
	r := NewReader([]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x01})
	got, err := r.ReadU64()
	if err != nil {
		t.Fatalf("ReadU64: %v", err)
	}
	if got != ^uint64(0) {
		t.Errorf("ReadU64: got %x", got)
	}
}

func TestReaderReadU64Overflow(t *testing.T) {
	data := bytes.Repeat([]byte{0x80}, 11)
	_, err := NewReader(data).ReadU64()
	if !errors.Is(err, ErrOverflow) {
		t.Errorf("expected ErrOverflow, got %v", err)
	}
}

func TestReaderReadS64(t *testing.T) {
	tests := []struct {
		encoded []byte
		want    int64
	}{
		{[]byte{0x00}, 0},
		{[]byte{0x7f}, -1},
		{[]byte{0x80, 0x7f}, -128},
		{[]byte{0x70}, -16},
		{[]byte{0x3f}, 63},
	}

	for _, tt := range tests {
		got, err := NewReader(tt.encoded).ReadS64()
		if err != nil {
			t.Errorf("ReadS64(%v): %v", tt.encoded, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ReadS64(%v): got %d, want %d", tt.encoded, got, tt.want)
		}
	}
}

func TestReaderReadName(t *testing.T) {
	r := NewReader([]byte{0x05, 'h', 'e', 'l', 'l', 'o'})
	got, err := r.ReadName()
	if err != nil {
		t.Fatalf("ReadName: %v", err)
	}
	if got != "hello" {
		t.Errorf("ReadName: got %q, want hello", got)
	}
}

func TestReaderReadNameInvalidUTF8(t *testing.T) {
	r := NewReader([]byte{0x02, 0xff, 0xfe})
	_, err := r.ReadName()
	if !errors.Is(err, ErrInvalidUTF8) {
		t.Errorf("expected ErrInvalidUTF8, got %v", err)
	}
}

func TestReaderReadNameTruncated(t *testing.T) {
	// Declared length far beyond the buffer must fail without allocating it.
	r := NewReader([]byte{0xff, 0xff, 0xff, 0xff, 0x0f, 'a'})
	_, err := r.ReadName()
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("expected ErrUnexpectedEOF, got %v", err)
	}
}

func TestReaderReadU32LE(t *testing.T) {
	r := NewReader([]byte{0x00, 0x61, 0x73, 0x6d})
	got, err := r.ReadU32LE()
	if err != nil {
		t.Fatalf("ReadU32LE: %v", err)
	}
	if got != 0x6d736100 {
		t.Errorf("ReadU32LE: got 0x%x", got)
	}

	if _, err := NewReader([]byte{1, 2}).ReadU32LE(); err == nil {
		t.Error("expected error for short input")
	}
}

func TestReaderReadRemaining(t *testing.T) {
	r := NewReader([]byte{1, 2, 3, 4})
	_, _ = r.ReadByte()
	got := r.ReadRemaining()
	if !bytes.Equal(got, []byte{2, 3, 4}) {
		t.Errorf("ReadRemaining: got %v", got)
	}
	if r.Len() != 0 {
		t.Errorf("Len after ReadRemaining: %d", r.Len())
	}
}

func TestReaderWrapError(t *testing.T) {
	r := NewReader([]byte{1, 2, 3})
	_, _ = r.ReadBytes(2)

	cause := errors.New("boom")
	err := r.WrapError("import section", cause)

	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if pe.Position != 2 || pe.Section != "import section" {
		t.Errorf("unexpected ParseError: %+v", pe)
	}
	if !errors.Is(err, cause) {
		t.Error("ParseError does not unwrap to cause")
	}
	want := "wasm: import section at position 2: boom"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestParseErrorNoSection(t *testing.T) {
	err := &ParseError{Position: 7, Err: errors.New("x")}
	if err.Error() != "wasm: at position 7: x" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestWriterWriteU32(t *testing.T) {
	tests := []struct {
		want []byte
		v    uint32
	}{
		{[]byte{0x00}, 0},
		{[]byte{0x7f}, 127},
		{[]byte{0x80, 0x01}, 128},
		{[]byte{0xe5, 0x8e, 0x26}, 624485},
		{[]byte{0xff, 0xff, 0xff, 0xff, 0x0f}, 0xffffffff},
	}
	for _, tt := range tests {
		w := NewWriter()
		w.WriteU32(tt.v)
		if !bytes.Equal(w.Bytes(), tt.want) {
			t.Errorf("WriteU32(%d): got %v, want %v", tt.v, w.Bytes(), tt.want)
		}
	}
}

func TestWriterWriteSection(t *testing.T) {
	w := NewWriter()
	w.WriteSection(7, []byte{0x01, 0x02})
	want := []byte{0x07, 0x02, 0x01, 0x02}
	if !bytes.Equal(w.Bytes(), want) {
		t.Errorf("WriteSection: got %v, want %v", w.Bytes(), want)
	}
}

func TestRoundTrip(t *testing.T) {
	w := NewWriter()
	w.WriteU32LE(0x6d736100)
	w.WriteU32(300)
	w.WriteName("wbg")
	w.Byte(0x42)

	r := NewReader(w.Bytes())
	magic, err := r.ReadU32LE()
	if err != nil || magic != 0x6d736100 {
		t.Fatalf("magic: %x, %v", magic, err)
	}
	u, err := r.ReadU32()
	if err != nil || u != 300 {
		t.Fatalf("u32: %d, %v", u, err)
	}
	name, err := r.ReadName()
	if err != nil || name != "wbg" {
		t.Fatalf("name: %q, %v", name, err)
	}
	b, err := r.ReadByte()
	if err != nil || b != 0x42 {
		t.Fatalf("byte: %x, %v", b, err)
	}
	if r.Len() != 0 {
		t.Errorf("trailing bytes: %d", r.Len())
	}
}
