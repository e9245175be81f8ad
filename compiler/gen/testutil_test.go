package gen

import (
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/dave/jennifer/jen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/litegen/compiler/load"
)

const (
	testRuntime = DefaultRuntime
	testModels  = "example.com/app/models"
)

// blogProject declares users, posts with a foreign key to users, comments
// with a composite key reached through posts, and an address column map.
const blogProject = `
package: example.com/app/db
runtime: github.com/syssam/litegen/runtime
converters:
  - name: TimeConverter
    package: example.com/app/models
    model: {kind: other, ident: Time, pkg: time}
    db: {kind: int64}
    global: true
  - name: TagsConverter
    package: example.com/app/models
    model: {kind: other, ident: Tags, pkg: example.com/app/models}
    db: {kind: blob}
entities:
  - name: Address
    kind: column_map
    package: example.com/app/models
    fields:
      - name: Street
        type: {kind: string}
      - name: City
        type: {kind: string, nillable: true}
  - name: User
    table: users
    package: example.com/app/models
    unique_groups:
      - {number: 1, conflict: fail}
    index_groups:
      - {number: 1, name: users_name}
    fields:
      - name: ID
        column: id
        type: {kind: int64}
        primary_key: {auto_increment: true, quick_check: true}
      - name: Name
        column: name
        type: {kind: string}
        unique_groups: [1]
        index_groups: [1]
      - name: Email
        column: email
        type: {kind: string}
        unique_groups: [1]
      - name: active
        column: active
        type: {kind: bool}
        visibility: private
      - name: nickname
        column: nickname
        type: {kind: string, nillable: true}
        visibility: package
      - name: Home
        column: home
        type: {kind: model, ident: Address, pkg: example.com/app/models, nillable: true}
        reference:
          kind: column_map
          entity: Address
  - name: Post
    table: posts
    package: example.com/app/models
    insert_conflict: replace
    fields:
      - name: ID
        column: id
        type: {kind: int64}
        primary_key: {auto_increment: true}
      - name: Author
        column: author
        type: {kind: model, ident: User, pkg: example.com/app/models, nillable: true}
        reference:
          entity: User
          on_delete: cascade
          save_cascade: true
      - name: Created
        column: created
        type: {kind: other, ident: Time, pkg: time}
      - name: Tags
        column: tags
        type: {kind: other, ident: Tags, pkg: example.com/app/models, nillable: true}
        converter: TagsConverter
  - name: Comment
    table: comments
    package: example.com/app/models
    fields:
      - name: Post
        column: post
        type: {kind: model, ident: Post, pkg: example.com/app/models, nillable: true}
        primary_key: {}
        reference:
          entity: Post
          deferred: true
      - name: Seq
        column: seq
        type: {kind: int}
        primary_key: {}
      - name: Body
        column: body
        type: {kind: string, nillable: true}
        default: "empty"
`

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// parseProject parses a project declared inline.
func parseProject(t *testing.T, src string) *load.Project {
	t.Helper()
	p, err := load.ParseProject([]byte(src), "test.yaml")
	require.NoError(t, err)
	return p
}

// newTestGraph resolves a project declared inline. Configuration errors are
// left in the graph diagnostics.
func newTestGraph(t *testing.T, src string, opts ...Option) *Graph {
	t.Helper()
	cfg := MustNewConfig(append([]Option{WithLogger(discardLogger())}, opts...)...)
	g, err := NewGraph(cfg, parseProject(t, src))
	require.NoError(t, err)
	return g
}

// newValidGraph is newTestGraph for a project without configuration errors.
func newValidGraph(t *testing.T, src string, opts ...Option) *Graph {
	t.Helper()
	g := newTestGraph(t, src, opts...)
	require.NoError(t, g.Err())
	return g
}

// render returns the formatted source of a function with the given body.
func render(body func(*jen.Group)) string {
	return fmt.Sprintf("%#v", jen.Func().Id("f").Params().BlockFunc(body))
}

// renderCode returns the formatted source of c.
func renderCode(c jen.Code) string {
	return fmt.Sprintf("%#v", c)
}

// compact removes all white space, so that assertions do not depend on the
// spacing chosen by gofmt.
func compact(s string) string {
	return strings.Join(strings.Fields(s), "")
}

// assertCode asserts that code contains every snippet, ignoring white space.
func assertCode(t *testing.T, code string, snippets ...string) {
	t.Helper()
	for _, s := range snippets {
		assert.Contains(t, compact(code), compact(s), "code:\n%s", code)
	}
}

// assertNoCode asserts that code contains none of the snippets.
func assertNoCode(t *testing.T, code string, snippets ...string) {
	t.Helper()
	for _, s := range snippets {
		assert.NotContains(t, compact(code), compact(s), "code:\n%s", code)
	}
}
