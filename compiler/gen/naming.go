package gen

import (
	"strconv"
	"strings"
	"sync"
	"unicode"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	rules    = ruleset()
	acronyms = make(map[string]struct{})
	upper    = cases.Upper(language.Und)
)

func ruleset() *inflect.Ruleset {
	rules := inflect.NewDefaultRuleset()
	for _, w := range []string{"API", "DB", "HTML", "HTTP", "ID", "IP", "JSON", "SQL", "UID", "URI", "URL", "UUID", "XML"} {
		acronyms[w] = struct{}{}
		rules.AddAcronym(w)
	}
	return rules
}

// pascal converts a snake_case or camelCase name to PascalCase,
// keeping well-known acronyms upper-cased.
//
//	pascal("author_id") => "AuthorID"
//	pascal("firstName") => "FirstName"
func pascal(s string) string {
	words := strings.Split(s, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		if _, ok := acronyms[upper.String(w)]; ok {
			words[i] = upper.String(w)
		} else {
			words[i] = rules.Capitalize(w)
		}
	}
	return strings.Join(words, "")
}

// plural returns the plural form of an entity name.
func plural(s string) string {
	return rules.Pluralize(s)
}

// hasPrefixFold reports if s starts with prefix, ignoring case.
func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

// keyword normalizes a user-provided SQL keyword such as a conflict or a
// foreign-key action: "no_action" => "NO ACTION".
func keyword(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return upper.String(strings.ReplaceAll(s, "_", " "))
}

// quote wraps a SQL identifier in backticks.
func quote(name string) string {
	if strings.HasPrefix(name, "`") && strings.HasSuffix(name, "`") && len(name) > 1 {
		return name
	}
	return "`" + name + "`"
}

// quoteAll quotes and joins identifiers with a comma.
func quoteAll(names []string) string {
	q := make([]string, len(names))
	for i, n := range names {
		q[i] = quote(n)
	}
	return strings.Join(q, ",")
}

// goLiteralToSQL converts a Go literal used as a column default to its SQL
// form. It returns false for expressions that have no SQL representation,
// such as identifiers or function calls.
func goLiteralToSQL(lit string) (string, bool) {
	switch lit {
	case "true":
		return "1", true
	case "false":
		return "0", true
	case "nil", "":
		return "", false
	}
	if s, err := strconv.Unquote(lit); err == nil && (lit[0] == '"' || lit[0] == '`' || lit[0] == '\'') {
		return "'" + strings.ReplaceAll(s, "'", "''") + "'", true
	}
	if _, err := strconv.ParseFloat(lit, 64); err == nil {
		return lit, true
	}
	return "", false
}

// NameAllocator hands out unique Go identifiers for temporaries emitted in
// one generated function body.
type NameAllocator struct {
	mu    sync.Mutex
	names map[string]int
	keys  map[string]string
}

// NewNameAllocator returns an empty allocator.
func NewNameAllocator() *NameAllocator {
	return &NameAllocator{names: make(map[string]int), keys: make(map[string]string)}
}

// Get returns a unique identifier derived from suggestion.
// The first request returns the suggestion itself.
func (a *NameAllocator) Get(suggestion string) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.get(suggestion)
}

// Lookup returns the identifier allocated for key, allocating one derived
// from suggestion on first use.
func (a *NameAllocator) Lookup(key, suggestion string) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if name, ok := a.keys[key]; ok {
		return name
	}
	name := a.get(suggestion)
	a.keys[key] = name
	return name
}

func (a *NameAllocator) get(suggestion string) string {
	name := identifier(suggestion)
	n, ok := a.names[name]
	a.names[name] = n + 1
	if !ok {
		return name
	}
	for {
		candidate := name + strconv.Itoa(n+1)
		if _, taken := a.names[candidate]; !taken {
			a.names[candidate] = 1
			return candidate
		}
		n++
	}
}

func identifier(s string) string {
	var b strings.Builder
	for i, r := range s {
		switch {
		case unicode.IsLetter(r) || r == '_':
			b.WriteRune(r)
		case unicode.IsDigit(r):
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "_"
	}
	return b.String()
}
