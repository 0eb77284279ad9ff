// Package sniff recognizes compression and archive framing in the first bytes
// of a payload. It is used to tell "a wasm module that was never
// decompressed" apart from arbitrary garbage.
//
// Detection requires positive evidence: a format is reported when its
// signature is present. Brotli has no signature and is reported only when
// the prefix decodes to a wasm header. Describe adds what the gzip and zstd
// headers say, when they decode.
package sniff

import (
	"bytes"
	"fmt"
	"io"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Format is a recognized compression or archive framing.
type Format int

const (
	None Format = iota
	Gzip
	Zip
	Zstd
	Brotli
)

func (f Format) String() string {
	switch f {
	case Gzip:
		return "gzip"
	case Zip:
		return "zip"
	case Zstd:
		return "zstd"
	case Brotli:
		return "brotli"
	default:
		return "none"
	}
}

var (
	gzipMagic = []byte{0x1f, 0x8b} // ID1 ID2; a damaged header still counts
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	wasmMagic = []byte{0x00, 0x61, 0x73, 0x6d}

	zipMagics = [][]byte{
		[]byte("PK\x03\x04"), // local file header
		[]byte("PK\x05\x06"), // empty archive
		[]byte("PK\x07\x08"), // spanned archive
	}
)

// zstdSkippableMask matches skippable frame magics 0x184D2A50..0x184D2A5F.
const zstdSkippableMask = 0xF0

// Detect reports the framing found at the start of prefix, or None.
// It only looks at prefix and never allocates more than a few bytes of
// decoded output.
func Detect(prefix []byte) Format {
	switch {
	case isGzip(prefix):
		return Gzip
	case isZip(prefix):
		return Zip
	case isZstd(prefix):
		return Zstd
	case isBrotliWasm(prefix):
		return Brotli
	}
	return None
}

func isGzip(prefix []byte) bool {
	return bytes.HasPrefix(prefix, gzipMagic)
}

func isZip(prefix []byte) bool {
	for _, m := range zipMagics {
		if bytes.HasPrefix(prefix, m) {
			return true
		}
	}
	return false
}

func isZstd(prefix []byte) bool {
	skippable := len(prefix) >= 4 &&
		prefix[0]&zstdSkippableMask == 0x50 &&
		bytes.Equal(prefix[1:4], []byte{0x2a, 0x4d, 0x18})
	return skippable || bytes.HasPrefix(prefix, zstdMagic)
}

// isBrotliWasm trial-decodes prefix. Brotli streams carry no magic number,
// so only a stream that decodes to a wasm header counts.
func isBrotliWasm(prefix []byte) bool {
	if len(prefix) == 0 {
		return false
	}
	var out [4]byte
	if _, err := io.ReadFull(brotli.NewReader(bytes.NewReader(prefix)), out[:]); err != nil {
		return false
	}
	return bytes.Equal(out[:], wasmMagic)
}

// Describe names the framing of prefix and adds header details when the
// header decodes: the gzip member name, or the zstd decompressed size.
// A signature whose header does not decode is reported as damaged.
func Describe(prefix []byte) string {
	f := Detect(prefix)
	switch f {
	case Gzip:
		zr, err := gzip.NewReader(bytes.NewReader(prefix))
		if err != nil {
			return "gzip (damaged header)"
		}
		defer zr.Close()
		if zr.Name != "" {
			return fmt.Sprintf("gzip, member %q", zr.Name)
		}
	case Zstd:
		var h zstd.Header
		if err := h.Decode(prefix); err != nil {
			return "zstd (damaged header)"
		}
		if h.Skippable {
			return "zstd, skippable frame"
		}
		if h.HasFCS {
			return fmt.Sprintf("zstd, %d bytes decompressed", h.FrameContentSize)
		}
	}
	return f.String()
}
