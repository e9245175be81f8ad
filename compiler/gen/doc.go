// Package gen resolves litegen projects and emits the code of their SQLite
// adapters.
//
// # Architecture
//
// The code generation pipeline follows this flow:
//
//	Project file (litegen.yaml)
//	        ↓
//	   load.Project (plain entity descriptors)
//	        ↓
//	   Graph (entities, columns, resolved references)
//	        ↓
//	   Dialect (compiler/gen/sqlite)
//	        ↓
//	   Generated adapters, database file and helper types
//
// # Key Types
//
//   - Graph: the entities of a project with their references resolved
//   - Entity: a table, view, query or column map and its physical columns
//   - Column: one model field with its accessor chain and column fragments
//   - Reference: a foreign key or column map to another entity
//   - ReferenceDefinition: one physical column created by a reference
//   - Combiner: a field accessor with up to two wrappers converting it to
//     and from what SQLite stores
//   - AccessCombiner: the statement emitted for one column in one adapter
//     method (bind, load, clause, cascade)
//
// # Accessors and combiners
//
// Every column is read and written through a chain of accessors:
//
//	field accessor    model.Name, model.GetName(), UserHelper{}.GetName(model)
//	wrapper           converter, enum, bool, rune, byte or blob conversion
//	sub-wrapper       blob conversion of a converter result
//
// A Combiner builds the get and set expressions of the chain, and inserts
// the nil checks a pointer field needs. Longer chains are rejected with
// ErrUnsupportedNesting.
//
// # References
//
// Foreign keys and column maps are resolved lazily through an arena of
// slots. A reference to an entity whose own key is a reference is resolved
// first, so that
//
//	Reply.Parent -> Message(Thread, Seq) -> Thread(ID)
//
// gives the columns parent_thread and parent_seq. A cycle is reported as
// ErrCircularReference.
//
// # Error Handling
//
// Configuration errors do not stop resolution. They are logged and collected
// by the Diagnostics of the graph, so one run reports every problem:
//
//	graph, err := gen.NewGraph(cfg, project)
//	if err != nil {
//	    return err // missing config or project
//	}
//	if err := graph.Err(); err != nil {
//	    if gen.IsReferenceError(err) {
//	        // Handle reference-specific errors
//	    }
//	    return err
//	}
//
// # Configuration
//
// Configuration is done via the functional options pattern:
//
//	cfg, err := gen.NewConfig(
//	    gen.WithTarget("./db"),
//	    gen.WithPackage("github.com/org/project/db"),
//	    gen.WithModelsDir("./models"),
//	    gen.WithSnapshot(true),
//	)
//
// # Generated Output
//
//	{target}/
//	├── {entity}_adapter.go  // Table properties, adapter type and methods
//	├── database.go          // Migrations of all tables
//	└── schema.snapshot      // Resolved tables (FeatureSnapshot)
//	{models}/
//	└── {entity}_helper.go   // Access to unexported model fields
package gen
