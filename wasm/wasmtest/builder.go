// Package wasmtest builds small WebAssembly binaries for tests: valid modules
// with chosen imports, exports and custom sections, plus helpers to break
// them in controlled ways.
package wasmtest

import (
	"github.com/wippyai/wasmlang/wasm"
	"github.com/wippyai/wasmlang/wasm/internal/binary"
)

// Value type and reference type bytes used by generated descriptors.
const (
	valI32     byte = 0x7F
	valFuncRef byte = 0x70
	funcType   byte = 0x60
	opEnd      byte = 0x0B
)

type importEntry struct {
	module string
	name   string
	kind   wasm.ExternKind
}

type exportEntry struct {
	name  string
	kind  wasm.ExternKind
	index uint32
}

type section struct {
	name string
	data []byte
	id   byte
}

// Builder accumulates module contents. Functions all have type () -> ().
// The zero value is not usable; call New.
type Builder struct {
	imports     []importEntry
	exports     []exportEntry
	early       []section
	late        []section
	importFuncs uint32
	funcs       uint32
	memory      bool
}

// New returns an empty module builder.
func New() *Builder {
	return &Builder{}
}

// ImportFunc adds a function import.
func (b *Builder) ImportFunc(module, name string) *Builder {
	b.imports = append(b.imports, importEntry{module: module, name: name, kind: wasm.KindFunc})
	b.importFuncs++
	return b
}

// ImportMemory adds a memory import with a one-page minimum.
func (b *Builder) ImportMemory(module, name string) *Builder {
	b.imports = append(b.imports, importEntry{module: module, name: name, kind: wasm.KindMemory})
	return b
}

// ImportTable adds a funcref table import.
func (b *Builder) ImportTable(module, name string) *Builder {
	b.imports = append(b.imports, importEntry{module: module, name: name, kind: wasm.KindTable})
	return b
}

// ImportGlobal adds an immutable i32 global import.
func (b *Builder) ImportGlobal(module, name string) *Builder {
	b.imports = append(b.imports, importEntry{module: module, name: name, kind: wasm.KindGlobal})
	return b
}

// ExportFunc defines a new empty function and exports it as name.
func (b *Builder) ExportFunc(name string) *Builder {
	b.exports = append(b.exports, exportEntry{
		name:  name,
		kind:  wasm.KindFunc,
		index: b.importFuncs + b.funcs,
	})
	b.funcs++
	return b
}

// ExportFuncs is ExportFunc for several names.
func (b *Builder) ExportFuncs(names ...string) *Builder {
	for _, n := range names {
		b.ExportFunc(n)
	}
	return b
}

// ExportMemory defines the module's single memory (once) and exports it.
func (b *Builder) ExportMemory(name string) *Builder {
	b.memory = true
	b.exports = append(b.exports, exportEntry{name: name, kind: wasm.KindMemory})
	return b
}

// Custom appends a custom section after all standard sections.
func (b *Builder) Custom(name string, data []byte) *Builder {
	b.late = append(b.late, section{id: wasm.SectionCustom, name: name, data: data})
	return b
}

// CustomFirst places a custom section before the type section.
func (b *Builder) CustomFirst(name string, data []byte) *Builder {
	b.early = append(b.early, section{id: wasm.SectionCustom, name: name, data: data})
	return b
}

// Raw appends an arbitrary section body under id after everything else.
// The result is only valid wasm if the body is.
func (b *Builder) Raw(id byte, body []byte) *Builder {
	b.late = append(b.late, section{id: id, data: body})
	return b
}

// Bytes encodes the module.
func (b *Builder) Bytes() []byte {
	w := binary.NewWriter()
	w.WriteU32LE(wasm.Magic)
	w.WriteU32LE(wasm.Version)

	for _, s := range b.early {
		writeSection(w, s)
	}

	if b.importFuncs+b.funcs > 0 {
		sec := binary.NewWriter()
		sec.WriteU32(1)
		sec.Byte(funcType)
		sec.WriteU32(0)
		sec.WriteU32(0)
		w.WriteSection(wasm.SectionType, sec.Bytes())
	}

	if len(b.imports) > 0 {
		sec := binary.NewWriter()
		sec.WriteU32(uint32(len(b.imports)))
		for _, imp := range b.imports {
			sec.WriteName(imp.module)
			sec.WriteName(imp.name)
			sec.Byte(byte(imp.kind))
			switch imp.kind {
			case wasm.KindFunc:
				sec.WriteU32(0)
			case wasm.KindTable:
				sec.Byte(valFuncRef)
				sec.Byte(0x00)
				sec.WriteU32(1)
			case wasm.KindMemory:
				sec.Byte(0x00)
				sec.WriteU32(1)
			case wasm.KindGlobal:
				sec.Byte(valI32)
				sec.Byte(0x00)
			}
		}
		w.WriteSection(wasm.SectionImport, sec.Bytes())
	}

	if b.funcs > 0 {
		sec := binary.NewWriter()
		sec.WriteU32(b.funcs)
		for i := uint32(0); i < b.funcs; i++ {
			sec.WriteU32(0)
		}
		w.WriteSection(wasm.SectionFunction, sec.Bytes())
	}

	if b.memory {
		sec := binary.NewWriter()
		sec.WriteU32(1)
		sec.Byte(0x00)
		sec.WriteU32(1)
		w.WriteSection(wasm.SectionMemory, sec.Bytes())
	}

	if len(b.exports) > 0 {
		sec := binary.NewWriter()
		sec.WriteU32(uint32(len(b.exports)))
		for _, e := range b.exports {
			sec.WriteName(e.name)
			sec.Byte(byte(e.kind))
			sec.WriteU32(e.index)
		}
		w.WriteSection(wasm.SectionExport, sec.Bytes())
	}

	if b.funcs > 0 {
		sec := binary.NewWriter()
		sec.WriteU32(b.funcs)
		for i := uint32(0); i < b.funcs; i++ {
			// body size 2: zero local groups, end
			sec.WriteU32(2)
			sec.Byte(0x00)
			sec.Byte(opEnd)
		}
		w.WriteSection(wasm.SectionCode, sec.Bytes())
	}

	for _, s := range b.late {
		writeSection(w, s)
	}

	return w.Bytes()
}

func writeSection(w *binary.Writer, s section) {
	if s.id != wasm.SectionCustom {
		w.WriteSection(s.id, s.data)
		return
	}
	body := binary.NewWriter()
	body.WriteName(s.name)
	body.WriteBytes(s.data)
	w.WriteSection(wasm.SectionCustom, body.Bytes())
}
