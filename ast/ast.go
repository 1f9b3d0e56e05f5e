package ast

import (
	"strings"
)

// Element is any node of a feature file: a top-level statement, a block, or
// a statement inside a block. Fea returns the node's FEA source text, with
// every line prefixed by indent. The returned text carries no trailing
// newline; containers insert line breaks between their children.
type Element interface {
	Fea(indent string) string
}

// GlyphRef is any expression that can stand in for a glyph within a rule:
// a glyph name, an inline glyph class, or a reference to a named class.
type GlyphRef interface {
	Element
	isGlyphRef()
}

// --- Feature file ----------------------------------------------------------

// FeatureFile is the root container of a feature-file tree. Statements are
// emitted in order; block statements are separated by blank lines.
type FeatureFile struct {
	Statements []Element
}

// Fea serializes the whole file. The result ends with a single newline
// unless the file is empty.
func (f *FeatureFile) Fea() string {
	if len(f.Statements) == 0 {
		return ""
	}
	var b strings.Builder
	for i, stmt := range f.Statements {
		if i > 0 {
			b.WriteByte('\n')
			if isBlock(stmt) || isBlock(f.Statements[i-1]) {
				b.WriteByte('\n')
			}
		}
		b.WriteString(stmt.Fea(""))
	}
	b.WriteByte('\n')
	return b.String()
}

func isBlock(e Element) bool {
	switch e.(type) {
	case *FeatureBlock, *LookupBlock, *TableBlock:
		return true
	}
	return false
}

// --- Simple statements -----------------------------------------------------

// Comment is a verbatim line, used both for `# ...` comments and for raw
// FEA text the composer has no node type for.
type Comment struct {
	Text string
}

func (c *Comment) Fea(indent string) string {
	return indent + c.Text
}

// LanguageSystemStatement declares a script/language pair the feature file
// applies to: `languagesystem DFLT dflt;`.
type LanguageSystemStatement struct {
	Script   Tag
	Language Tag
}

func (l *LanguageSystemStatement) Fea(indent string) string {
	return indent + "languagesystem " + l.Script.String() + " " + l.Language.String() + ";"
}

// ScriptStatement selects a script inside a feature block.
type ScriptStatement struct {
	Script Tag
}

func (s *ScriptStatement) Fea(indent string) string {
	return indent + "script " + s.Script.String() + ";"
}

// LanguageStatement selects a language inside a feature block.
type LanguageStatement struct {
	Language Tag
}

func (l *LanguageStatement) Fea(indent string) string {
	return indent + "language " + l.Language.String() + ";"
}

// --- Glyphs and glyph classes ----------------------------------------------

// GlyphName references a single glyph by its (font-internal) name.
type GlyphName struct {
	Glyph string
}

func (g *GlyphName) Fea(indent string) string { return indent + g.Glyph }
func (g *GlyphName) isGlyphRef()              {}

// GlyphClass is an inline glyph class: `[a b c]`.
type GlyphClass struct {
	Glyphs []GlyphRef
}

func (g *GlyphClass) Fea(indent string) string {
	return indent + "[" + glyphSeq(g.Glyphs) + "]"
}

func (g *GlyphClass) isGlyphRef() {}

// GlyphClassDefinition is the statement form of a glyph class:
// `@name = [a b c];`. Rules reference the definition through
// [GlyphClassName].
type GlyphClassDefinition struct {
	Name  string
	Class *GlyphClass
}

func (g *GlyphClassDefinition) Fea(indent string) string {
	return indent + "@" + g.Name + " = " + g.Class.Fea("") + ";"
}

// GlyphClassName references a named glyph class inside a rule: `@name`.
type GlyphClassName struct {
	Definition *GlyphClassDefinition
}

func (g *GlyphClassName) Fea(indent string) string {
	return indent + "@" + g.Definition.Name
}

func (g *GlyphClassName) isGlyphRef() {}

// glyphSeq joins glyph references with single spaces, in order.
func glyphSeq(refs []GlyphRef) string {
	parts := make([]string, len(refs))
	for i, r := range refs {
		parts[i] = r.Fea("")
	}
	return strings.Join(parts, " ")
}

// marked renders a glyph reference as a marked (input) glyph of a
// contextual rule: `g'`.
func marked(ref GlyphRef) string {
	return ref.Fea("") + "'"
}

// --- Blocks ----------------------------------------------------------------

// FeatureBlock is a `feature xxxx { ... } xxxx;` block.
type FeatureBlock struct {
	Tag        Tag
	Statements []Element
}

// NewFeatureBlock returns an empty feature block for the given tag.
func NewFeatureBlock(tag Tag) *FeatureBlock {
	return &FeatureBlock{Tag: tag}
}

func (f *FeatureBlock) Fea(indent string) string {
	return blockFea(indent, "feature "+f.Tag.String(), f.Tag.String(), f.Statements)
}

// LookupBlock is a `lookup NAME { ... } NAME;` block.
type LookupBlock struct {
	Name       string
	Statements []Element
}

// NewLookupBlock returns an empty lookup block with the given name.
func NewLookupBlock(name string) *LookupBlock {
	return &LookupBlock{Name: name}
}

func (l *LookupBlock) Fea(indent string) string {
	return blockFea(indent, "lookup "+l.Name, l.Name, l.Statements)
}

// FeatureNamesBlock carries UI names for a feature, as used by stylistic
// sets: `featureNames { name "..."; };`.
type FeatureNamesBlock struct {
	Names []string
}

func (f *FeatureNamesBlock) Fea(indent string) string {
	var b strings.Builder
	b.WriteString(indent)
	b.WriteString("featureNames {\n")
	for _, n := range f.Names {
		b.WriteString(indent)
		b.WriteString(indentShift)
		b.WriteString("name \"")
		b.WriteString(n)
		b.WriteString("\";\n")
	}
	b.WriteString(indent)
	b.WriteString("};")
	return b.String()
}

// TableBlock is a raw `table XXXX { ... } XXXX;` block. The composer has no
// builders for table statements; clients append [Comment] nodes or their own
// Element implementations.
type TableBlock struct {
	Tag        Tag
	Statements []Element
}

func (t *TableBlock) Fea(indent string) string {
	return blockFea(indent, "table "+t.Tag.String(), t.Tag.String(), t.Statements)
}

// blockFea emits `<header> { ... } <closer>;` with children indented one
// shift deeper.
func blockFea(indent, header, closer string, statements []Element) string {
	var b strings.Builder
	b.WriteString(indent)
	b.WriteString(header)
	b.WriteString(" {\n")
	for _, stmt := range statements {
		b.WriteString(stmt.Fea(indent + indentShift))
		b.WriteByte('\n')
	}
	b.WriteString(indent)
	b.WriteString("} ")
	b.WriteString(closer)
	b.WriteByte(';')
	return b.String()
}

// --- Lookup flags and references -------------------------------------------

// Lookup flag bits, per OpenType `LookupFlag`.
const (
	LookupFlagRightToLeft      = 0x0001
	LookupFlagIgnoreBaseGlyphs = 0x0002
	LookupFlagIgnoreLigatures  = 0x0004
	LookupFlagIgnoreMarks      = 0x0008
)

// LookupFlagStatement is a `lookupflag ...;` statement. A zero value with no
// attachment classes serializes as `lookupflag 0;`, resetting all flags.
type LookupFlagStatement struct {
	Value            uint16
	MarkAttachment   GlyphRef
	MarkFilteringSet GlyphRef
}

func (l *LookupFlagStatement) Fea(indent string) string {
	var parts []string
	if l.Value&LookupFlagRightToLeft != 0 {
		parts = append(parts, "RightToLeft")
	}
	if l.Value&LookupFlagIgnoreBaseGlyphs != 0 {
		parts = append(parts, "IgnoreBaseGlyphs")
	}
	if l.Value&LookupFlagIgnoreLigatures != 0 {
		parts = append(parts, "IgnoreLigatures")
	}
	if l.Value&LookupFlagIgnoreMarks != 0 {
		parts = append(parts, "IgnoreMarks")
	}
	if l.MarkAttachment != nil {
		parts = append(parts, "MarkAttachmentType", l.MarkAttachment.Fea(""))
	}
	if l.MarkFilteringSet != nil {
		parts = append(parts, "UseMarkFilteringSet", l.MarkFilteringSet.Fea(""))
	}
	if len(parts) == 0 {
		return indent + "lookupflag 0;"
	}
	return indent + "lookupflag " + strings.Join(parts, " ") + ";"
}

// LookupReferenceStatement applies a previously defined lookup:
// `lookup NAME;`.
type LookupReferenceStatement struct {
	Lookup *LookupBlock
}

func (l *LookupReferenceStatement) Fea(indent string) string {
	return indent + "lookup " + l.Lookup.Name + ";"
}
