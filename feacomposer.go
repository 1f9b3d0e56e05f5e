/*
Package feacomposer is an embedded DSL for composing OpenType feature-file
(FEA) source text.

A [Composer] assembles a feature file from typed builder calls instead of
string concatenation. Block statements (features, lookups) are opened as
scopes that take a populate callback; rule builders called inside the
callback append to the innermost open block, and the block is attached to
its parent exactly once when the scope closes, on every exit path:

	c := feacomposer.New(feacomposer.WithLanguageSystems(
		feacomposer.LanguageSystems{"latn": {"dflt"}},
	))
	_, err := c.Lookup("", feacomposer.LookupOptions{Feature: "liga"},
		func(c *feacomposer.Composer) error {
			return c.SubLigature(
				[]feacomposer.GlyphRef{feacomposer.G("f"), feacomposer.G("i")},
				"f_i")
		})
	text := c.Fea()

The composer only builds and serializes a tree of [ast] nodes; it neither
parses FEA text nor compiles OpenType tables. Glyph references are not
checked against any font's glyph set. That is deferred to the downstream
FEA compiler.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package feacomposer

import (
	"sort"

	"github.com/npillmayer/schuko/tracing"
	"github.com/typotheque/feacomposer/ast"
)

// tracer writes to trace with key 'typotheque.fea'
func tracer() tracing.Trace {
	return tracing.Select("typotheque.fea")
}

// Default script and language tags of the FEA grammar.
const (
	DefaultScript   = "DFLT"
	DefaultLanguage = "dflt"
)

// LanguageSystems maps OpenType script tags to the language tags a feature
// file (or a single lookup) applies to. Serialization orders scripts and
// languages alphabetically, with DFLT and dflt sorted first.
type LanguageSystems map[string][]string

// Composer holds an ordered sequence of top-level statements and a stack of
// currently open block scopes. The zero value is not usable; construct with
// [New]. A Composer is owned by a single goroutine; it performs no
// synchronization.
type Composer struct {
	languageSystems  LanguageSystems
	processGlyphName func(string) string

	root             []ast.Element
	stack            []*scope
	nextLookupNumber int
}

// scope is one open block context. Rule builders append through stmts.
type scope struct {
	kind  string
	stmts *[]ast.Element
}

const (
	scopeLookup  = "lookup"
	scopeFeature = "feature"
)

// Option configures a Composer.
type Option func(*Composer)

// WithLanguageSystems sets the language systems declared at the top of the
// feature file. They also serve as the default distribution for lookups
// registered under a feature tag.
func WithLanguageSystems(ls LanguageSystems) Option {
	return func(c *Composer) { c.languageSystems = ls }
}

// WithGlyphNameProcessor installs a function every incoming glyph name is
// passed through. Often useful for renaming glyphs, e.g. prefixing all
// names with a namespace like "Deva:".
func WithGlyphNameProcessor(process func(string) string) Option {
	return func(c *Composer) { c.processGlyphName = process }
}

// New creates an empty Composer.
func New(opts ...Option) *Composer {
	c := &Composer{nextLookupNumber: 1}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// target is the statement list rule builders currently append to: the
// innermost open block, or the document root when no block is open.
func (c *Composer) target() *[]ast.Element {
	if len(c.stack) == 0 {
		return &c.root
	}
	return c.stack[len(c.stack)-1].stmts
}

// appendStatement appends to the current target, preserving call order.
func (c *Composer) appendStatement(e ast.Element) {
	t := c.target()
	*t = append(*t, e)
}

// push opens a block scope.
func (c *Composer) push(s *scope) {
	c.stack = append(c.stack, s)
}

// pop closes the innermost scope. Callers pop exactly the scope they
// pushed; strict nesting is guaranteed by the deferred pop in the scoped
// builders.
func (c *Composer) pop() {
	c.stack = c.stack[:len(c.stack)-1]
}

// Depth returns the number of currently open block scopes.
func (c *Composer) Depth() int {
	return len(c.stack)
}

// Append appends an arbitrary AST element to the currently open block (or
// to the document root). It is the escape hatch for statements the composer
// has no builder for, e.g. raw table blocks.
func (c *Composer) Append(e ast.Element) {
	c.appendStatement(e)
}

// Raw appends a verbatim line of FEA text.
func (c *Composer) Raw(text string) *ast.Comment {
	comment := &ast.Comment{Text: text}
	c.appendStatement(comment)
	return comment
}

// Comment appends a `# ...` comment line.
func (c *Composer) Comment(text string) *ast.Comment {
	return c.Raw("# " + text)
}

// LanguageSystemStatements returns the sorted `languagesystem` declarations
// for the composer's registered language systems.
func (c *Composer) LanguageSystemStatements() []*ast.LanguageSystemStatement {
	var stmts []*ast.LanguageSystemStatement
	for _, ls := range sortedLanguageSystems(c.languageSystems) {
		for _, lang := range ls.languages {
			stmts = append(stmts, &ast.LanguageSystemStatement{
				Script:   ast.T(ls.script),
				Language: ast.T(lang),
			})
		}
	}
	return stmts
}

// FeatureFile assembles the completed document: language-system statements
// followed by all root statements. The composer stays usable and further
// mutable afterwards; FeatureFile may be called at any scope depth,
// although conventionally all scopes are closed first.
func (c *Composer) FeatureFile() *ast.FeatureFile {
	file := &ast.FeatureFile{}
	for _, stmt := range c.LanguageSystemStatements() {
		file.Statements = append(file.Statements, stmt)
	}
	file.Statements = append(file.Statements, c.root...)
	return file
}

// Fea serializes the completed document to FEA source text.
func (c *Composer) Fea() string {
	return c.FeatureFile().Fea()
}

// languageSystem is one script with its sorted languages.
type languageSystem struct {
	script    string
	languages []string
}

// sortedLanguageSystems orders scripts and languages alphabetically with
// DFLT/dflt first, deduplicating languages.
func sortedLanguageSystems(ls LanguageSystems) []languageSystem {
	scripts := make([]string, 0, len(ls))
	for script := range ls {
		scripts = append(scripts, script)
	}
	sort.Slice(scripts, func(i, j int) bool {
		return langSysSortKey(scripts[i], DefaultScript) < langSysSortKey(scripts[j], DefaultScript)
	})
	sorted := make([]languageSystem, 0, len(scripts))
	for _, script := range scripts {
		seen := map[string]bool{}
		languages := make([]string, 0, len(ls[script]))
		for _, lang := range ls[script] {
			if !seen[lang] {
				seen[lang] = true
				languages = append(languages, lang)
			}
		}
		sort.Slice(languages, func(i, j int) bool {
			return langSysSortKey(languages[i], DefaultLanguage) < langSysSortKey(languages[j], DefaultLanguage)
		})
		sorted = append(sorted, languageSystem{script: script, languages: languages})
	}
	return sorted
}

// langSysSortKey sorts the default tag before everything else.
func langSysSortKey(tag, dflt string) string {
	if tag == dflt {
		return ""
	}
	return tag
}
