package wasm

import (
	"fmt"

	"github.com/wippyai/wasmlang/wasm/internal/binary"
)

// Name section subsection IDs.
const (
	nameSubModule   byte = 0
	nameSubFunction byte = 1
)

// Names is the decoded subset of a "name" custom section.
type Names struct {
	Module    string
	Functions []FunctionName
}

// FunctionName maps a function index to its debug name.
type FunctionName struct {
	Name  string
	Index uint32
}

// ParseNames decodes the module and function subsections of a name
// section payload. Other subsections (locals, labels, types...) are skipped.
func ParseNames(data []byte) (Names, error) {
	r := binary.NewReader(data)
	var n Names

	for r.Len() > 0 {
		id, _ := r.ReadByte()
		size, err := r.ReadU32()
		if err != nil {
			return n, r.WrapError(CustomSectionName, fmt.Errorf("subsection %d size: %w", id, err))
		}
		if uint64(size) > uint64(r.Len()) {
			return n, r.WrapError(CustomSectionName, fmt.Errorf("subsection %d: %w", id, ErrSectionBounds))
		}
		sub, err := r.Sub(int(size))
		if err != nil {
			return n, err
		}

		switch id {
		case nameSubModule:
			if n.Module, err = sub.ReadName(); err != nil {
				return n, sub.WrapError(CustomSectionName, fmt.Errorf("module name: %w", err))
			}
		case nameSubFunction:
			if err := readNameMap(sub, &n.Functions); err != nil {
				return n, sub.WrapError(CustomSectionName, fmt.Errorf("function names: %w", err))
			}
		}
	}
	return n, nil
}

func readNameMap(r *binary.Reader, out *[]FunctionName) error {
	count, err := r.ReadU32()
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		idx, err := r.ReadU32()
		if err != nil {
			return err
		}
		name, err := r.ReadName()
		if err != nil {
			return err
		}
		*out = append(*out, FunctionName{Index: idx, Name: name})
	}
	return nil
}
