package gen

import (
	"cmp"
	"fmt"

	"github.com/syssam/litegen/compiler/load"
)

// Graph holds the resolved entities of a project. All references are
// resolved when the graph is created; afterwards the graph is read-only and
// safe for concurrent use by the file generators.
type Graph struct {
	*Config
	// Entities in declaration order.
	Entities []*Entity
	// Converters declared by the project.
	Converters *ConverterRegistry
	// Helpers collects the helper types needed for package-visible fields.
	Helpers *HelperRegistry
	// Diagnostics collects the configuration errors of the project.
	Diagnostics *Diagnostics

	entities map[string]*Entity
	refs     []*refSlot
}

// NewGraph builds and resolves the graph of the project p. Configuration
// errors do not stop resolution: they are collected in the diagnostics of
// the graph and returned joined by Err. The returned error is only set for
// a missing config or project.
func NewGraph(c *Config, p *load.Project) (*Graph, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: nil config", ErrMissingConfig)
	}
	if p == nil {
		return nil, fmt.Errorf("%w: nil project", ErrMissingConfig)
	}
	diag := NewDiagnostics(c.Log())
	g := &Graph{
		Config:      c,
		Converters:  NewConverterRegistry(p.Converters, diag),
		Helpers:     NewHelperRegistry(),
		Diagnostics: diag,
		entities:    make(map[string]*Entity, len(p.Entities)),
	}
	// Entities are registered before their columns so that references may
	// point forward.
	for _, s := range p.Entities {
		g.addEntity(s, p)
	}
	for i, s := range p.Entities {
		e := g.Entities[i]
		for _, f := range s.Fields {
			c := newColumn(g, e, f)
			if c.Reference != nil {
				g.register(c.Reference)
			}
			e.Columns = append(e.Columns, c)
		}
	}
	g.Resolve()
	g.Validate()
	for _, e := range g.Entities {
		c.Log().Info("litegen: entity resolved",
			"entity", e.Name, "kind", e.Kind, "columns", len(e.PhysicalColumns()))
	}
	return g, nil
}

func (g *Graph) addEntity(s *load.Schema, p *load.Project) {
	e := &Entity{
		Name:               s.Name,
		Table:              s.TableName(),
		Kind:               s.EntityKind(),
		PkgPath:            cmp.Or(s.Package, p.Package),
		Database:           s.Database,
		PrimaryKeyConflict: keyword(s.PrimaryKeyConflict),
		InsertConflict:     keyword(s.InsertConflict),
		UpdateConflict:     keyword(s.UpdateConflict),
		Ordered:            s.OrderedCursorLookup,
		AssignDefaults:     s.AssignDefaults(),
		BooleanIsGetters:   s.BooleanIsGetters,
		Pos:                s.Pos,
		graph:              g,
	}
	for _, u := range s.UniqueGroups {
		e.UniqueGroups = append(e.UniqueGroups, UniqueGroup{Number: u.Number, Conflict: keyword(u.Conflict)})
	}
	for _, ig := range s.IndexGroups {
		e.IndexGroups = append(e.IndexGroups, IndexGroup{Number: ig.Number, Name: ig.Name, Unique: ig.Unique})
	}
	g.Entities = append(g.Entities, e)
	g.entities[e.Name] = e
}

// Entity returns the entity with the given name, or nil.
func (g *Graph) Entity(name string) *Entity {
	return g.entities[name]
}

// Tables returns the entities stored in their own table.
func (g *Graph) Tables() []*Entity {
	var tables []*Entity
	for _, e := range g.Entities {
		if e.HasTable() {
			tables = append(tables, e)
		}
	}
	return tables
}

// Adapters returns the entities an adapter is generated for.
func (g *Graph) Adapters() []*Entity {
	var es []*Entity
	for _, e := range g.Entities {
		if e.HasAdapter() {
			es = append(es, e)
		}
	}
	return es
}

// Resolve resolves every reference of the graph and computes the physical
// columns of every entity. Calling it again is a no-op.
func (g *Graph) Resolve() {
	for _, slot := range g.refs {
		_, _ = g.References(slot.ref)
	}
	for _, e := range g.Entities {
		e.resolvePhysical()
	}
}

// Validate reports the structural problems of the resolved entities.
func (g *Graph) Validate() {
	for _, e := range g.Entities {
		e.validate()
	}
}

// Err returns the configuration errors of the graph joined, or nil.
func (g *Graph) Err() error {
	return g.Diagnostics.Err()
}

func (g *Graph) rt() string { return g.RuntimePkg() }

func (g *Graph) report(err error) { g.Diagnostics.Report(err) }
