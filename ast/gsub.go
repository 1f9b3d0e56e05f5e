package ast

import (
	"strings"
)

// GSUB rule statements. Contextual forms mark input glyphs with a trailing
// apostrophe; non-contextual forms (no prefix, no suffix, no force-chain)
// emit the plain rule syntax.

// SingleSubstStatement is a GSUB type 1 rule: one glyph or class replaced by
// one glyph or class.
type SingleSubstStatement struct {
	Prefix     []GlyphRef
	In         GlyphRef
	Suffix     []GlyphRef
	Out        GlyphRef
	ForceChain bool
}

func (s *SingleSubstStatement) Fea(indent string) string {
	if s.contextual() {
		return indent + "sub " + contextSeq(s.Prefix, []GlyphRef{s.In}, s.Suffix) +
			" by " + s.Out.Fea("") + ";"
	}
	return indent + "sub " + s.In.Fea("") + " by " + s.Out.Fea("") + ";"
}

func (s *SingleSubstStatement) contextual() bool {
	return len(s.Prefix) > 0 || len(s.Suffix) > 0 || s.ForceChain
}

// MultipleSubstStatement is a GSUB type 2 rule: one glyph replaced by a
// sequence of glyphs.
type MultipleSubstStatement struct {
	Prefix      []GlyphRef
	Glyph       *GlyphName
	Suffix      []GlyphRef
	Replacement []*GlyphName
	ForceChain  bool
}

func (m *MultipleSubstStatement) Fea(indent string) string {
	out := make([]string, len(m.Replacement))
	for i, g := range m.Replacement {
		out[i] = g.Fea("")
	}
	if len(m.Prefix) > 0 || len(m.Suffix) > 0 || m.ForceChain {
		return indent + "sub " + contextSeq(m.Prefix, []GlyphRef{m.Glyph}, m.Suffix) +
			" by " + strings.Join(out, " ") + ";"
	}
	return indent + "sub " + m.Glyph.Fea("") + " by " + strings.Join(out, " ") + ";"
}

// LigatureSubstStatement is a GSUB type 4 rule: a glyph sequence replaced by
// a single ligature glyph.
type LigatureSubstStatement struct {
	Prefix      []GlyphRef
	Glyphs      []GlyphRef
	Suffix      []GlyphRef
	Replacement *GlyphName
	ForceChain  bool
}

func (l *LigatureSubstStatement) Fea(indent string) string {
	if len(l.Prefix) > 0 || len(l.Suffix) > 0 || l.ForceChain {
		return indent + "sub " + contextSeq(l.Prefix, l.Glyphs, l.Suffix) +
			" by " + l.Replacement.Fea("") + ";"
	}
	return indent + "sub " + glyphSeq(l.Glyphs) + " by " + l.Replacement.Fea("") + ";"
}

// ChainContextSubstStatement is a GSUB type 6 rule applying named lookups at
// marked input positions:
//
//	sub backtrack in1' lookup A in2' lookup B lookahead;
//
// Lookups holds, per input position, the lookups applied there; an empty
// list leaves the position marked but untouched.
type ChainContextSubstStatement struct {
	Prefix  []GlyphRef
	Input   []GlyphRef
	Suffix  []GlyphRef
	Lookups [][]*LookupBlock
}

func (c *ChainContextSubstStatement) Fea(indent string) string {
	var parts []string
	for _, g := range c.Prefix {
		parts = append(parts, g.Fea(""))
	}
	for i, g := range c.Input {
		parts = append(parts, marked(g))
		if i < len(c.Lookups) {
			for _, lk := range c.Lookups[i] {
				parts = append(parts, "lookup "+lk.Name)
			}
		}
	}
	for _, g := range c.Suffix {
		parts = append(parts, g.Fea(""))
	}
	return indent + "sub " + strings.Join(parts, " ") + ";"
}

// IgnoreSubstStatement is an `ignore sub` rule excluding a context from
// later chain rules.
type IgnoreSubstStatement struct {
	Prefix []GlyphRef
	Input  []GlyphRef
	Suffix []GlyphRef
}

func (i *IgnoreSubstStatement) Fea(indent string) string {
	return indent + "ignore sub " + contextSeq(i.Prefix, i.Input, i.Suffix) + ";"
}

// contextSeq renders backtrack, marked input and lookahead as one
// space-joined sequence.
func contextSeq(prefix, input, suffix []GlyphRef) string {
	var parts []string
	for _, g := range prefix {
		parts = append(parts, g.Fea(""))
	}
	for _, g := range input {
		parts = append(parts, marked(g))
	}
	for _, g := range suffix {
		parts = append(parts, g.Fea(""))
	}
	return strings.Join(parts, " ")
}
