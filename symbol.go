package qseries

import "sync"

// ============================================================
// Symbol registry
// ============================================================

// SymbolID identifies an interned variable name within one registry.
type SymbolID uint32

// SymbolRegistry interns variable names. It is append-only: a name, once
// interned, keeps its handle for the registry's lifetime.
type SymbolRegistry struct {
	mu     sync.RWMutex
	names  []string
	lookup map[string]SymbolID
}

func NewSymbolRegistry() *SymbolRegistry {
	return &SymbolRegistry{lookup: make(map[string]SymbolID)}
}

// Intern returns the handle for name, allocating one on first use.
func (r *SymbolRegistry) Intern(name string) SymbolID {
	r.mu.RLock()
	id, ok := r.lookup[name]
	r.mu.RUnlock()
	if ok {
		return id
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.lookup[name]; ok {
		return id
	}
	id = SymbolID(len(r.names))
	r.names = append(r.names, name)
	r.lookup[name] = id
	return id
}

// Lookup reports the handle of an already interned name.
func (r *SymbolRegistry) Lookup(name string) (SymbolID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.lookup[name]
	return id, ok
}

// Name resolves a handle back to its name.
func (r *SymbolRegistry) Name(id SymbolID) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if int(id) >= len(r.names) {
		return "", false
	}
	return r.names[id], true
}

func (r *SymbolRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.names)
}
