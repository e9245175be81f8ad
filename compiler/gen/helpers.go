package gen

import (
	"sync"

	"github.com/syssam/litegen/schema/field"
)

// HelperMethod is one unexported field exposed by a generated helper type.
type HelperMethod struct {
	Field  string // unexported struct field
	Type   field.TypeInfo
	Getter string
	Setter string
}

// HelperType is a helper generated into a model package. It gives the
// adapters access to unexported fields of one entity.
type HelperType struct {
	PkgPath string
	Name    string
	Entity  string
	Methods []HelperMethod
}

// HelperRegistry collects the helper methods requested while resolving a
// graph. It is append-only and lives for one generation run. Registering
// the same field twice has no effect.
type HelperRegistry struct {
	mu      sync.Mutex
	order   []*HelperType
	helpers map[string]*HelperType
	fields  map[string]struct{}
}

// NewHelperRegistry returns an empty registry.
func NewHelperRegistry() *HelperRegistry {
	return &HelperRegistry{
		helpers: make(map[string]*HelperType),
		fields:  make(map[string]struct{}),
	}
}

// HelperName returns the name of the helper type of an entity.
func HelperName(entity, separator string) string {
	return entity + separator + "Helper"
}

// Register records a helper method for an entity field. It reports whether
// the method was new.
func (r *HelperRegistry) Register(pkgPath, helper, entity string, m HelperMethod) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := pkgPath + "." + helper
	if _, ok := r.fields[key+"."+m.Field]; ok {
		return false
	}
	h, ok := r.helpers[key]
	if !ok {
		h = &HelperType{PkgPath: pkgPath, Name: helper, Entity: entity}
		r.helpers[key] = h
		r.order = append(r.order, h)
	}
	h.Methods = append(h.Methods, m)
	r.fields[key+"."+m.Field] = struct{}{}
	return true
}

// Helpers returns the registered helper types in registration order.
func (r *HelperRegistry) Helpers() []*HelperType {
	r.mu.Lock()
	defer r.mu.Unlock()
	hs := make([]*HelperType, len(r.order))
	for i, h := range r.order {
		c := *h
		c.Methods = append([]HelperMethod(nil), h.Methods...)
		hs[i] = &c
	}
	return hs
}

// Len returns the number of registered helper methods.
func (r *HelperRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.fields)
}
