package pyrt

import (
	"errors"
	"fmt"

	"github.com/ebitengine/purego"
)

// ErrSymbolMissing is matched by errors.Is for every *MissingSymbolError.
var ErrSymbolMissing = errors.New("missing symbol")

// SymbolKind distinguishes callable entry points from exported data.
type SymbolKind int

const (
	SymbolFunc SymbolKind = iota
	SymbolData
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolFunc:
		return "func"
	case SymbolData:
		return "data"
	default:
		return fmt.Sprintf("SymbolKind(%d)", int(k))
	}
}

// SymbolSpec names one symbol the runtime must export.
type SymbolSpec struct {
	Name string
	Kind SymbolKind
}

// Manifest is the ordered list of symbols bound during initialization.
type Manifest []SymbolSpec

// Validate rejects empty manifests, blank names and duplicates.
func (m Manifest) Validate() error {
	if len(m) == 0 {
		return fmt.Errorf("manifest cannot be empty")
	}
	seen := make(map[string]struct{}, len(m))
	for i, spec := range m {
		if spec.Name == "" {
			return fmt.Errorf("manifest entry %d has an empty name", i)
		}
		if spec.Kind != SymbolFunc && spec.Kind != SymbolData {
			return fmt.Errorf("manifest entry %s has unknown kind %v", spec.Name, spec.Kind)
		}
		if _, dup := seen[spec.Name]; dup {
			return fmt.Errorf("manifest lists %s more than once", spec.Name)
		}
		seen[spec.Name] = struct{}{}
	}
	return nil
}

// Names returns the symbol names in manifest order.
func (m Manifest) Names() []string {
	names := make([]string, len(m))
	for i, spec := range m {
		names[i] = spec.Name
	}
	return names
}

// MissingSymbolError reports the first manifest symbol the runtime does not export.
type MissingSymbolError struct {
	Name string
	Err  error
}

func (e *MissingSymbolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("missing symbol %s: %v", e.Name, e.Err)
	}
	return "missing symbol " + e.Name
}

func (e *MissingSymbolError) Is(target error) bool {
	return target == ErrSymbolMissing
}

func (e *MissingSymbolError) Unwrap() error {
	return e.Err
}

// Symbol is a resolved manifest entry. Addr is the function entry point for
// SymbolFunc and the address of the exported object for SymbolData.
type Symbol struct {
	Name string
	Kind SymbolKind
	Addr uintptr
}

// SymbolTable holds every manifest symbol resolved against one runtime image.
// It is immutable once published and safe for concurrent readers.
type SymbolTable struct {
	symbols []Symbol
	index   map[string]int
}

// Lookup returns the resolved symbol for name.
func (t *SymbolTable) Lookup(name string) (Symbol, bool) {
	i, ok := t.index[name]
	if !ok {
		return Symbol{}, false
	}
	return t.symbols[i], true
}

// Addr returns the address bound to name, or 0 when name is not in the table.
func (t *SymbolTable) Addr(name string) uintptr {
	sym, _ := t.Lookup(name)
	return sym.Addr
}

// Len returns the number of bound symbols.
func (t *SymbolTable) Len() int {
	return len(t.symbols)
}

// Names returns the bound symbol names in manifest order.
func (t *SymbolTable) Names() []string {
	names := make([]string, len(t.symbols))
	for i, sym := range t.symbols {
		names[i] = sym.Name
	}
	return names
}

// Symbols returns a copy of the bound symbols in manifest order.
func (t *SymbolTable) Symbols() []Symbol {
	return append([]Symbol(nil), t.symbols...)
}

// RegisterFunc binds the function variable pointed to by fptr to the named
// function symbol. The Go signature is trusted to match the C one.
func (t *SymbolTable) RegisterFunc(fptr any, name string) (err error) {
	sym, ok := t.Lookup(name)
	if !ok {
		return &MissingSymbolError{Name: name}
	}
	if sym.Kind != SymbolFunc {
		return fmt.Errorf("symbol %s is %v, not a function", name, sym.Kind)
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to register %s: %v", name, r)
		}
	}()
	purego.RegisterFunc(fptr, sym.Addr)
	return nil
}
