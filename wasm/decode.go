package wasm

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/wippyai/wasmlang/wasm/internal/binary"
)

// Decode problems recorded in View.Issues.
var (
	ErrInvalidMagic   = errors.New("invalid wasm magic number")
	ErrInvalidVersion = errors.New("invalid wasm version")
	ErrSectionBounds  = errors.New("section size exceeds remaining input")
)

// Parse decodes the parts of a WebAssembly binary that carry toolchain
// signal: imports, exports and custom sections. Everything else is skipped
// by its declared size.
//
// Parse never fails. Malformed, truncated or foreign input produces a View
// whose Status says what went wrong and which keeps everything decoded up to
// that point. Parse does no I/O and is safe to call concurrently.
func Parse(data []byte) *View {
	v := &View{}
	r := binary.NewReader(data)

	if !v.readHeader(r, data) {
		return v
	}

	for r.Len() > 0 {
		start := r.Position()
		id, _ := r.ReadByte()

		size, err := r.ReadU32()
		if err != nil {
			v.fail(StatusTruncated, id, start, fmt.Errorf("section size: %w", err))
			return v
		}
		if uint64(size) > uint64(r.Len()) {
			v.fail(StatusTruncated, id, start,
				fmt.Errorf("%w: declared %d, %d left", ErrSectionBounds, size, r.Len()))
			return v
		}

		sr, err := r.Sub(int(size))
		if err != nil {
			v.fail(StatusTruncated, id, start, err)
			return v
		}

		if err := v.readSection(id, sr); err != nil {
			v.fail(StatusSectionParseError, id, sr.Position(), err)
		}
	}

	return v
}

// fail records an issue. The first problem decides the status, except that
// truncation always wins because it ends the walk.
func (v *View) fail(status DecodeStatus, section byte, offset int, err error) {
	v.Issues = append(v.Issues, Issue{Section: section, Offset: offset, Err: err})
	if v.Status == StatusOK || status == StatusTruncated {
		v.Status = status
	}
}

func (v *View) readHeader(r *binary.Reader, data []byte) bool {
	n := min(len(data), len(magicBytes))
	if !bytes.Equal(data[:n], magicBytes[:n]) {
		v.Leading = data[:min(len(data), LeadingBytes)]
		v.fail(StatusInvalidMagic, sectionHeader, 0, ErrInvalidMagic)
		return false
	}

	if _, err := r.ReadU32LE(); err != nil {
		v.fail(StatusTruncated, sectionHeader, 0, fmt.Errorf("magic: %w", io.ErrUnexpectedEOF))
		return false
	}

	version, err := r.ReadU32LE()
	if err != nil {
		v.fail(StatusTruncated, sectionHeader, 4, fmt.Errorf("version: %w", io.ErrUnexpectedEOF))
		return false
	}
	v.Version = version
	if version != Version {
		v.fail(StatusUnsupportedVersion, sectionHeader, 4,
			fmt.Errorf("%w: 0x%08x", ErrInvalidVersion, version))
		return false
	}

	return true
}

func (v *View) readSection(id byte, r *binary.Reader) error {
	switch id {
	case SectionCustom:
		if err := v.readCustomSection(r); err != nil {
			return fmt.Errorf("custom section: %w", err)
		}
	case SectionImport:
		if err := v.readImportSection(r); err != nil {
			return fmt.Errorf("import section: %w", err)
		}
	case SectionExport:
		if err := v.readExportSection(r); err != nil {
			return fmt.Errorf("export section: %w", err)
		}
	case SectionType, SectionFunction, SectionTable, SectionMemory, SectionGlobal,
		SectionStart, SectionElement, SectionCode, SectionData, SectionDataCount, SectionTag:
		// No toolchain signal; the bounded reader is simply dropped.
	default:
		return fmt.Errorf("unknown section ID: 0x%02x", id)
	}
	return nil
}

func (v *View) readCustomSection(r *binary.Reader) error {
	name, err := r.ReadName()
	if err != nil {
		return err
	}
	v.CustomSections = append(v.CustomSections, CustomSection{
		Name: name,
		Data: r.ReadRemaining(),
	})
	return nil
}

func (v *View) readImportSection(r *binary.Reader) error {
	count, err := r.ReadU32()
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		module, err := r.ReadName()
		if err != nil {
			return fmt.Errorf("entry %d module: %w", i, err)
		}
		name, err := r.ReadName()
		if err != nil {
			return fmt.Errorf("entry %d name: %w", i, err)
		}
		kind, err := r.ReadByte()
		if err != nil {
			return fmt.Errorf("entry %d kind: %w", i, err)
		}

		imp := Import{Module: module, Name: name, Kind: externKind(kind)}
		v.Imports = append(v.Imports, imp)

		if imp.Kind == KindUnknown {
			// The descriptor length depends on the kind, so nothing after
			// this entry can be located.
			return fmt.Errorf("entry %d: unknown import kind: 0x%02x", i, kind)
		}
		if err := skipImportDesc(r, imp.Kind); err != nil {
			return fmt.Errorf("entry %d %s descriptor: %w", i, imp.Kind, err)
		}
	}
	return nil
}

func (v *View) readExportSection(r *binary.Reader) error {
	count, err := r.ReadU32()
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		name, err := r.ReadName()
		if err != nil {
			return fmt.Errorf("entry %d name: %w", i, err)
		}
		kind, err := r.ReadByte()
		if err != nil {
			return fmt.Errorf("entry %d kind: %w", i, err)
		}
		if _, err := r.ReadU32(); err != nil {
			return fmt.Errorf("entry %d index: %w", i, err)
		}
		v.Exports = append(v.Exports, Export{Name: name, Kind: externKind(kind)})
	}
	return nil
}

func skipImportDesc(r *binary.Reader, kind ExternKind) error {
	switch kind {
	case KindFunc:
		_, err := r.ReadU32()
		return err
	case KindTable:
		if err := skipValType(r); err != nil {
			return err
		}
		return skipLimits(r)
	case KindMemory:
		return skipLimits(r)
	case KindGlobal:
		if err := skipValType(r); err != nil {
			return err
		}
		_, err := r.ReadByte() // mutability
		return err
	case KindTag:
		if _, err := r.ReadByte(); err != nil { // attribute
			return err
		}
		_, err := r.ReadU32()
		return err
	}
	return fmt.Errorf("unknown kind %s", kind)
}

func skipValType(r *binary.Reader) error {
	b, err := r.ReadByte()
	if err != nil {
		return err
	}
	if b == valRefNull || b == valRef {
		_, err = r.ReadS64()
	}
	return err
}

func skipLimits(r *binary.Reader) error {
	flags, err := r.ReadByte()
	if err != nil {
		return err
	}
	if _, err := r.ReadU64(); err != nil {
		return err
	}
	if flags&limitsHasMax != 0 {
		if _, err := r.ReadU64(); err != nil {
			return err
		}
	}
	if flags&limitsPageSize != 0 {
		if _, err := r.ReadU32(); err != nil {
			return err
		}
	}
	return nil
}
