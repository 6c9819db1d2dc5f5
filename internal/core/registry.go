package core

import (
	"fmt"
	"sort"
	"sync"
)

// EncodeFunc serializes accepted records into one output document.
// columns is only meaningful for shapes that carry an explicit column list.
type EncodeFunc func(records []POIRecord, columns []string) ([]byte, error)

// ShapeDefinition describes one output JSON shape.
type ShapeDefinition struct {
	Name        string
	Description string
	UsesColumns bool // Output depends on the configured column list
	Encode      EncodeFunc
}

var (
	shapes   = make(map[string]ShapeDefinition)
	shapesMu sync.RWMutex
)

// RegisterShape adds an output shape to the registry.
// Panics if a shape with the same name is already registered.
func RegisterShape(def ShapeDefinition) {
	shapesMu.Lock()
	defer shapesMu.Unlock()

	if _, exists := shapes[def.Name]; exists {
		panic(fmt.Sprintf("shape already registered: %s", def.Name))
	}
	if def.Encode == nil {
		panic(fmt.Sprintf("shape %s has no encoder", def.Name))
	}

	shapes[def.Name] = def
}

// LookupShape returns a shape definition by name.
// Returns false if not found.
func LookupShape(name string) (ShapeDefinition, bool) {
	shapesMu.RLock()
	defer shapesMu.RUnlock()

	def, ok := shapes[name]
	return def, ok
}

// Shapes returns the names of all registered shapes, sorted alphabetically.
func Shapes() []string {
	shapesMu.RLock()
	defer shapesMu.RUnlock()

	names := make([]string, 0, len(shapes))
	for name := range shapes {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}
