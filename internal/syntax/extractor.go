// Package syntax extracts imports and names from source files with tree-sitter queries.
package syntax

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"unsafe"

	"github.com/alexaandru/go-sitter-forest/java"
	"github.com/alexaandru/go-sitter-forest/javascript"
	"github.com/alexaandru/go-sitter-forest/python"
	sitter "github.com/alexaandru/go-tree-sitter-bare"
)

// ErrUnsupportedLanguage is returned for languages without a query set.
var ErrUnsupportedLanguage = errors.New("unsupported language")

var errNoRootNode = errors.New("parse produced no root node")

// Result holds the syntactic facts of one file.
// Imports covers imported modules and called names; Names covers declared names.
type Result struct {
	Imports []string `json:"imports"`
	Names   []string `json:"names"`
}

type querySet struct {
	imports string
	names   string
}

var languageFuncs = map[string]func() unsafe.Pointer{
	"python":     python.GetLanguage,
	"java":       java.GetLanguage,
	"javascript": javascript.GetLanguage,
}

var queries = map[string]querySet{
	"python": {
		imports: `
(import_statement name: (dotted_name) @import)
(import_statement name: (aliased_import name: (dotted_name) @import))
(import_from_statement module_name: (dotted_name) @import)
(call function: (identifier) @call)
(call function: (attribute attribute: (identifier) @call))
`,
		names: `
(class_definition name: (identifier) @name)
(function_definition name: (identifier) @name)
(assignment left: (identifier) @name)
`,
	},
	"java": {
		imports: `
(import_declaration (scoped_identifier) @import)
(import_declaration (identifier) @import)
(package_declaration (scoped_identifier) @import)
(package_declaration (identifier) @import)
(method_invocation name: (identifier) @call)
`,
		names: `
(class_declaration name: (identifier) @name)
(interface_declaration name: (identifier) @name)
(method_declaration name: (identifier) @name)
(formal_parameter (identifier) @name)
(field_declaration declarator: (variable_declarator name: (identifier) @name))
(local_variable_declaration declarator: (variable_declarator name: (identifier) @name))
`,
	},
	"javascript": {
		imports: `
(import_statement source: (string (string_fragment) @import))
(import_clause (identifier) @import)
(namespace_import (identifier) @import)
(import_specifier name: (identifier) @import)
(call_expression function: (identifier) @call)
(call_expression function: (member_expression property: (property_identifier) @call))
`,
		names: `
(class_declaration name: (identifier) @name)
(function_declaration name: (identifier) @name)
(variable_declarator name: (identifier) @name)
(assignment_expression left: (identifier) @name)
(method_definition name: (property_identifier) @name)
`,
	},
}

// SupportedLanguages lists the languages Extract accepts, in lowercase.
func SupportedLanguages() []string {
	out := make([]string, 0, len(queries))
	for name := range queries {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// PickLanguage returns the first classified language that has a query set, lowercased.
func PickLanguage(langs []string) (string, bool) {
	for _, l := range langs {
		name := strings.ToLower(l)
		if _, ok := queries[name]; ok {
			return name, true
		}
	}
	return "", false
}

type compiled struct {
	lang    *sitter.Language
	imports *sitter.Query
	names   *sitter.Query
	parsers sync.Pool
}

// Extractor runs the fixed query sets. Grammars and queries are compiled once per
// language and shared; an Extractor is safe for concurrent use.
type Extractor struct {
	allowed map[string]bool

	mu    sync.Mutex
	cache map[string]*compiled
}

// NewExtractor creates an extractor limited to languages. With no languages every
// supported language is enabled.
func NewExtractor(languages ...string) *Extractor {
	allowed := make(map[string]bool)
	for _, l := range languages {
		allowed[strings.ToLower(l)] = true
	}
	return &Extractor{allowed: allowed, cache: make(map[string]*compiled)}
}

// Enabled reports whether language can be extracted.
func (e *Extractor) Enabled(language string) bool {
	name := strings.ToLower(language)
	if _, ok := queries[name]; !ok {
		return false
	}
	return len(e.allowed) == 0 || e.allowed[name]
}

// Extract parses content as language and returns its imports and names, deduplicated and sorted.
func (e *Extractor) Extract(language string, content []byte) (Result, error) {
	name := strings.ToLower(language)
	if !e.Enabled(name) {
		return Result{}, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, language)
	}

	c, err := e.compiled(name)
	if err != nil {
		return Result{}, err
	}

	parser := c.parsers.Get().(*sitter.Parser)
	defer c.parsers.Put(parser)

	tree, err := parser.ParseString(context.Background(), nil, content)
	if err != nil {
		return Result{}, fmt.Errorf("parse %s: %w", name, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.IsNull() {
		return Result{}, errNoRootNode
	}

	return Result{
		Imports: capture(c.imports, root, content),
		Names:   capture(c.names, root, content),
	}, nil
}

func (e *Extractor) compiled(name string) (*compiled, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if c, ok := e.cache[name]; ok {
		return c, nil
	}

	lang := sitter.NewLanguage(languageFuncs[name]())
	qs := queries[name]

	imports, err := sitter.NewQuery(lang, []byte(qs.imports))
	if err != nil {
		return nil, fmt.Errorf("compile %s import query: %w", name, err)
	}
	names, err := sitter.NewQuery(lang, []byte(qs.names))
	if err != nil {
		return nil, fmt.Errorf("compile %s name query: %w", name, err)
	}

	c := &compiled{lang: lang, imports: imports, names: names}
	c.parsers.New = func() any {
		p := sitter.NewParser()
		p.SetLanguage(lang)
		return p
	}
	e.cache[name] = c
	return c, nil
}

func capture(query *sitter.Query, root sitter.Node, source []byte) []string {
	seen := make(map[string]struct{})
	cursor := sitter.NewQueryCursor()
	matches := cursor.Matches(query, root, source)
	for match := matches.Next(); match != nil; match = matches.Next() {
		for _, cap := range match.Captures {
			if cap.Node.IsNull() {
				continue
			}
			text := cap.Node.Content(source)
			if text != "" {
				seen[text] = struct{}{}
			}
		}
	}

	out := make([]string, 0, len(seen))
	for text := range seen {
		out = append(out, text)
	}
	sort.Strings(out)
	return out
}
