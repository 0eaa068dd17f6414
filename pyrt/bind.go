package pyrt

import "log"

// tableBuilder accumulates resolved symbols. Nothing is visible to callers
// until publish, so an aborted bind needs no rollback.
type tableBuilder struct {
	symbols []Symbol
	index   map[string]int
}

func newTableBuilder(size int) *tableBuilder {
	return &tableBuilder{
		symbols: make([]Symbol, 0, size),
		index:   make(map[string]int, size),
	}
}

func (b *tableBuilder) add(spec SymbolSpec, addr uintptr) {
	b.index[spec.Name] = len(b.symbols)
	b.symbols = append(b.symbols, Symbol{Name: spec.Name, Kind: spec.Kind, Addr: addr})
}

func (b *tableBuilder) publish() *SymbolTable {
	return &SymbolTable{symbols: b.symbols, index: b.index}
}

// bindSymbols resolves manifest against handle in order and stops at the first miss.
func bindSymbols(loader Loader, handle uintptr, manifest Manifest, logger *log.Logger) (*SymbolTable, error) {
	b := newTableBuilder(len(manifest))
	for _, spec := range manifest {
		addr, err := loader.Symbol(handle, spec.Name)
		if err != nil || addr == 0 {
			logger.Printf("cannot find symbol %s", spec.Name)
			return nil, &MissingSymbolError{Name: spec.Name, Err: err}
		}
		b.add(spec, addr)
	}
	return b.publish(), nil
}
